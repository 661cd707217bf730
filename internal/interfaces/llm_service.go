package interfaces

import "context"

// Completion is the text returned by a generative-language call
type Completion struct {
	Text  string
	Model string
}

// AnswerProvider resolves a question against a remote generative-language service.
// The credential is passed per call so the caller decides whether a call happens at all.
type AnswerProvider interface {
	// Generate sends prompt as the entire request payload.
	// Non-success status, a response without candidate text, and transport
	// failures are all returned as errors.
	Generate(ctx context.Context, apiKey string, prompt string) (*Completion, error)
}
