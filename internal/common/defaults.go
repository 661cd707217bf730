// Package common provides shared utilities and default configuration.
package common

// Store keys used by the document registry and the Q&A session manager.
// Values are JSON documents; keys are stored exactly as written here.
const (
	KeyDocuments        = "documents"
	KeySelectedDocument = "selectedDocument"
	KeyQAHistory        = "qaHistory"
	KeyGeminiAPIKey     = "gemini_api_key"
)
