package models

import "time"

// Answer sources recorded in QAMetadata.Source
const (
	SourceAI   = "ai"
	SourceMock = "mock"
)

// QA is one question/answer exchange tied to a document
type QA struct {
	ID         string      `json:"id"`
	DocumentID string      `json:"documentId"`
	Question   string      `json:"question"`
	Answer     string      `json:"answer"`
	Timestamp  time.Time   `json:"timestamp"`
	Metadata   *QAMetadata `json:"metadata,omitempty"` // nil for seeded and legacy records
}

// QAMetadata describes how an answer was resolved
type QAMetadata struct {
	Source       string `json:"source"`          // SourceAI or SourceMock
	ResponseTime int64  `json:"responseTime"`    // Milliseconds
	Model        string `json:"model,omitempty"` // Only for SourceAI
	IsError      bool   `json:"isError,omitempty"`
}
