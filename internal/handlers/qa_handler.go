package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/models"
	"github.com/ternarybob/docqa/internal/services/export"
	"github.com/ternarybob/docqa/internal/services/qa"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// QAHandler serves question submission, the filtered history and export
type QAHandler struct {
	session  QASession
	registry DocumentRegistry
	validate *validator.Validate
	markdown goldmark.Markdown
	logger   arbor.ILogger
	now      func() time.Time
}

// NewQAHandler creates a new QAHandler. registry supplies the default document for Ask.
func NewQAHandler(session QASession, registry DocumentRegistry, logger arbor.ILogger) *QAHandler {
	return &QAHandler{
		session:  session,
		registry: registry,
		validate: newValidator(),
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		logger:   logger,
		now:      time.Now,
	}
}

// HistoryEntry is a QA record with an optional rendered answer
type HistoryEntry struct {
	models.QA
	AnswerHTML string `json:"answerHtml,omitempty"`
}

// HistoryResponse is returned by GET /api/qa/history
type HistoryResponse struct {
	History        []HistoryEntry `json:"history"`
	Search         string         `json:"search"`
	SettledSearch  string         `json:"settledSearch"`
	DocumentFilter string         `json:"documentFilter"`
	Busy           bool           `json:"busy"`
	AIEnabled      bool           `json:"aiEnabled"`
}

// AskHandler handles POST /api/qa/ask
func (h *QAHandler) AskHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req AskRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if err := h.validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	if req.DocumentID == "" {
		selected, ok := h.registry.Selected()
		if !ok {
			WriteError(w, http.StatusBadRequest, "No document selected")
			return
		}
		req.DocumentID = selected.ID
	}

	record, err := h.session.Ask(r.Context(), req.Question, req.DocumentID)
	switch {
	case errors.Is(err, qa.ErrEmptyQuestion):
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, qa.ErrBusy):
		WriteError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.logger.Error().Err(err).Msg("Ask failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, record)
}

// HistoryHandler handles GET /api/qa/history. ?render=html adds answerHtml to each entry.
func (h *QAHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	render := r.URL.Query().Get("render") == "html"
	view := h.session.History()

	entries := make([]HistoryEntry, len(view))
	for i, record := range view {
		entries[i] = HistoryEntry{QA: record}
		if render {
			entries[i].AnswerHTML = h.renderMarkdown(record.Answer)
		}
	}

	WriteJSON(w, http.StatusOK, HistoryResponse{
		History:        entries,
		Search:         h.session.Search(),
		SettledSearch:  h.session.SettledSearch(),
		DocumentFilter: h.session.DocumentFilter(),
		Busy:           h.session.Busy(),
		AIEnabled:      h.session.HasCredential(),
	})
}

// SearchHandler handles PUT /api/qa/search. The view follows once the text settles.
func (h *QAHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	var req SearchRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	h.session.SetSearch(req.Query)
	WriteStarted(w, map[string]string{"search": req.Query})
}

// FilterHandler handles PUT /api/qa/filter
func (h *QAHandler) FilterHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	var req FilterRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	h.session.SetDocumentFilter(req.DocumentID)
	WriteJSON(w, http.StatusOK, map[string]string{"documentFilter": req.DocumentID})
}

// ExportHandler handles GET /api/qa/export?format=json|yaml as a file download of the current view
func (h *QAHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	artifact, err := export.Snapshot(h.session.History(), format, h.now())
	if err != nil {
		h.logger.Error().Err(err).Msg("Export failed")
		WriteError(w, http.StatusInternalServerError, "Export failed")
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(artifact.Data)
}

func (h *QAHandler) renderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(source), &buf); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to render answer markdown")
		return ""
	}
	return buf.String()
}
