package handlers

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/docqa/internal/services/documents"
)

// newValidator returns a validator with the docext tag registered
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("docext", func(fl validator.FieldLevel) bool {
		return documents.IsAcceptedFile(fl.Field().String())
	})
	return v
}

// validationMessage renders validator errors as a single human-readable line
func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", field))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "gte":
			parts = append(parts, fmt.Sprintf("%s must be %s or greater", field, fe.Param()))
		case "docext":
			parts = append(parts, fmt.Sprintf("%s must end in one of %s", field, strings.Join(documents.AcceptedExtensions, ", ")))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// SelectDocumentRequest is the body of POST /api/documents/select
type SelectDocumentRequest struct {
	ID string `json:"id" validate:"required"`
}

// AskRequest is the body of POST /api/qa/ask. DocumentID defaults to the current selection.
type AskRequest struct {
	Question   string `json:"question" validate:"required,min=3,max=500"`
	DocumentID string `json:"documentId"`
}

// SearchRequest is the body of PUT /api/qa/search
type SearchRequest struct {
	Query string `json:"query" validate:"max=500"`
}

// FilterRequest is the body of PUT /api/qa/filter; an empty id clears the filter
type FilterRequest struct {
	DocumentID string `json:"documentId"`
}
