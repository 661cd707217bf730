package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/models"
	"github.com/ternarybob/docqa/internal/services/documents"
)

// DocumentHandler serves the document list, selection and simulated upload
type DocumentHandler struct {
	registry DocumentRegistry
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(registry DocumentRegistry, logger arbor.ILogger) *DocumentHandler {
	return &DocumentHandler{
		registry: registry,
		validate: newValidator(),
		logger:   logger,
	}
}

// DocumentListResponse is returned by GET /api/documents
type DocumentListResponse struct {
	Documents  []models.Document `json:"documents"`
	SelectedID string            `json:"selectedId,omitempty"`
	Phase      documents.Phase   `json:"phase"`
}

// ListHandler handles GET /api/documents
func (h *DocumentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	resp := DocumentListResponse{
		Documents: h.registry.Documents(),
		Phase:     h.registry.Phase(),
	}
	if selected, ok := h.registry.Selected(); ok {
		resp.SelectedID = selected.ID
	}

	WriteJSON(w, http.StatusOK, resp)
}

// SelectHandler handles POST /api/documents/select
func (h *DocumentHandler) SelectHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req SelectDocumentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	doc, err := h.registry.Select(r.Context(), req.ID)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, doc)
}

// UploadStatusHandler handles GET /api/documents/upload
func (h *DocumentHandler) UploadStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, h.registry.UploadStatus())
}

// StartUploadHandler handles POST /api/documents/upload. Responds 202 once the upload is running.
func (h *DocumentHandler) StartUploadHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var file models.File
	if !DecodeJSON(w, r, &file) {
		return
	}
	if err := h.validate.Struct(file); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	// The upload outlives the request; the registry resolves it on its own task
	if _, err := h.registry.StartUpload(context.Background(), file); err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.logger.Debug().Str("file", file.Name).Msg("Upload accepted")
	WriteStarted(w, h.registry.UploadStatus())
}

func (h *DocumentHandler) writeRegistryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, documents.ErrDocumentNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, documents.ErrUploadInProgress), errors.Is(err, documents.ErrNotReady):
		WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, documents.ErrClosed):
		WriteError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error().Err(err).Msg("Document operation failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
