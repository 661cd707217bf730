// -----------------------------------------------------------------------
// Last Modified: Wednesday, 14th October 2026 10:05:41 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package server

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"time"

	"github.com/ternarybob/docqa/internal/common"
	"github.com/ternarybob/docqa/internal/handlers"
)

const (
	requestIDHeader = "X-Request-ID"
	corsMethods     = "GET, POST, PUT, OPTIONS"
	corsHeaders     = "Content-Type, X-Request-ID"
)

type middleware func(http.Handler) http.Handler

// chain applies mw so that the first entry runs first
func chain(handler http.Handler, mw ...middleware) http.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	return handler
}

// withConditionalMiddleware runs the full chain for API routes. The WebSocket
// upgrade only gets CORS headers; the wrapped writer must not sit in front of it.
func (s *Server) withConditionalMiddleware(handler http.Handler) http.Handler {
	api := chain(handler,
		s.requestIDMiddleware,
		s.loggingMiddleware,
		s.corsMiddleware,
		s.recoveryMiddleware,
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws" {
			setCORSHeaders(w)
			handler.ServeHTTP(w, r)
			return
		}
		api.ServeHTTP(w, r)
	})
}

// requestIDMiddleware tags each request with a correlation ID, keeping a caller-supplied one
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = common.NewRequestID()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs one line per request; server errors are logged at warn
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		event := s.app.Logger.Debug()
		if rw.status >= http.StatusInternalServerError {
			event = s.app.Logger.Warn()
		}

		event = event.
			Str("request_id", w.Header().Get(requestIDHeader)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.status).
			Int("bytes", rw.written).
			Dur("duration", time.Since(start))
		if r.URL.RawQuery != "" {
			event = event.Str("query", r.URL.RawQuery)
		}
		event.Msg("HTTP request")
	})
}

// corsMiddleware allows any origin; the server binds to localhost by default
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", corsMethods)
	w.Header().Set("Access-Control-Allow-Headers", corsHeaders)
	w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, "+requestIDHeader)
}

// recoveryMiddleware turns a handler panic into a 500 JSON error
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				buf := make([]byte, 4096)
				n := runtime.Stack(buf, false)

				s.app.Logger.Error().
					Str("request_id", w.Header().Get(requestIDHeader)).
					Str("panic", fmt.Sprintf("%v", err)).
					Str("path", r.URL.Path).
					Str("stack", string(buf[:n])).
					Msg("Panic recovered")

				handlers.WriteError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code and body size for logging
type statusRecorder struct {
	http.ResponseWriter
	status      int
	written     int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.written += n
	return n, err
}

// Flush passes through for streaming responses
func (rw *statusRecorder) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Hijack implements http.Hijacker
func (rw *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("statusRecorder does not implement http.Hijacker")
}
