package handlers

import (
	"context"

	"github.com/ternarybob/docqa/internal/models"
	"github.com/ternarybob/docqa/internal/services/documents"
	"github.com/ternarybob/docqa/internal/services/llm"
)

// DocumentRegistry is the document surface the HTTP layer needs
type DocumentRegistry interface {
	Documents() []models.Document
	Selected() (models.Document, bool)
	Phase() documents.Phase
	Select(ctx context.Context, id string) (models.Document, error)
	StartUpload(ctx context.Context, file models.File) (<-chan models.Document, error)
	UploadStatus() models.UploadStatus
}

// QASession is the Q&A surface the HTTP layer needs
type QASession interface {
	Ask(ctx context.Context, question, documentID string) (*models.QA, error)
	History() []models.QA
	SetSearch(query string)
	Search() string
	SettledSearch() string
	SetDocumentFilter(documentID string)
	DocumentFilter() string
	Busy() bool
	HasCredential() bool
}

// Prober runs a connectivity check against the answer service
type Prober interface {
	Probe(ctx context.Context, apiKey string) llm.ProbeResult
}
