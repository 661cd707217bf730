package server

import (
	"net/http"

	"github.com/ternarybob/docqa/internal/handlers"
)

// methods dispatches one path to a handler per HTTP method
type methods map[string]http.HandlerFunc

func (m methods) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler, ok := m[r.Method]
	if !ok {
		handlers.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	handler(w, r)
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	documents := s.app.DocumentHandler
	qa := s.app.QAHandler
	status := s.app.StatusHandler

	// Live events
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// Documents
	mux.HandleFunc("/api/documents", documents.ListHandler)          // GET - list with selection
	mux.HandleFunc("/api/documents/select", documents.SelectHandler) // POST - change selection
	mux.Handle("/api/documents/upload", methods{
		http.MethodGet:  documents.UploadStatusHandler, // progress
		http.MethodPost: documents.StartUploadHandler,  // 202 once started
	})

	// Q&A
	mux.HandleFunc("/api/qa/ask", qa.AskHandler)         // POST
	mux.HandleFunc("/api/qa/history", qa.HistoryHandler) // GET, ?render=html
	mux.HandleFunc("/api/qa/search", qa.SearchHandler)   // PUT - debounced
	mux.HandleFunc("/api/qa/filter", qa.FilterHandler)   // PUT
	mux.HandleFunc("/api/qa/export", qa.ExportHandler)   // GET, ?format=json|yaml

	// Answer service
	mux.HandleFunc("/api/ai/probe", status.ProbeHandler)

	// System
	mux.HandleFunc("/api/version", status.VersionHandler)
	mux.HandleFunc("/api/health", status.HealthHandler)

	mux.HandleFunc("/", status.NotFoundHandler)

	return mux
}
