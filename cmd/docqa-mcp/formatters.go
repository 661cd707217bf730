package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/docqa/internal/common"
	"github.com/ternarybob/docqa/internal/models"
	"github.com/ternarybob/docqa/internal/services/export"
	"github.com/ternarybob/docqa/internal/services/llm"
)

// formatDocuments formats the document list as markdown
func formatDocuments(docs []models.Document, selectedID string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Documents (%d)\n\n", len(docs)))

	if len(docs) == 0 {
		sb.WriteString("No documents uploaded.\n")
		return sb.String()
	}

	for i, doc := range docs {
		marker := ""
		if doc.ID == selectedID {
			marker = " (selected)"
		}
		sb.WriteString(fmt.Sprintf("%d. **%s**%s\n", i+1, doc.Name, marker))
		sb.WriteString(fmt.Sprintf("   ID: %s\n", doc.ID))
		sb.WriteString(fmt.Sprintf("   Size: %s, Type: %s, Uploaded: %s\n\n", doc.Size, doc.Type, doc.UploadDate.Format(time.RFC3339)))
	}

	return sb.String()
}

// formatAnswer formats a single Q&A record as markdown
func formatAnswer(record *models.QA) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", record.Question))
	sb.WriteString(record.Answer)
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("**ID:** %s\n", record.ID))
	sb.WriteString(fmt.Sprintf("**Document:** %s\n", record.DocumentID))
	if meta := record.Metadata; meta != nil {
		source := meta.Source
		if meta.Model != "" {
			source = fmt.Sprintf("%s (%s)", source, meta.Model)
		}
		sb.WriteString(fmt.Sprintf("**Source:** %s, %dms\n", source, meta.ResponseTime))
		if meta.IsError {
			sb.WriteString("**Note:** the AI service request failed, this is a local answer\n")
		}
	}

	return sb.String()
}

// formatHistory formats a history search as markdown
func formatHistory(query string, records []models.QA, total int, now time.Time) string {
	var sb strings.Builder
	if query == "" {
		sb.WriteString(fmt.Sprintf("## Question History (%d of %d)\n\n", len(records), total))
	} else {
		sb.WriteString(fmt.Sprintf("## History matching \"%s\" (%d of %d)\n\n", query, len(records), total))
	}

	if len(records) == 0 {
		sb.WriteString("No questions found.\n")
		return sb.String()
	}

	for i, record := range records {
		sb.WriteString(fmt.Sprintf("### %d. %s\n", i+1, record.Question))
		sb.WriteString(fmt.Sprintf("**Document:** %s, **Asked:** %s\n\n", record.DocumentID, common.RelativeTime(record.Timestamp, now)))

		// Answer preview (first 500 chars)
		answer := record.Answer
		if len(answer) > 500 {
			answer = answer[:500] + "..."
		}
		sb.WriteString(answer)
		sb.WriteString("\n\n---\n\n")
	}

	return sb.String()
}

// formatArtifact wraps an export in a fenced block
func formatArtifact(artifact *export.Artifact) string {
	lang := "json"
	if strings.HasSuffix(artifact.Filename, ".yaml") {
		lang = "yaml"
	}
	return fmt.Sprintf("**File:** %s\n\n```%s\n%s\n```\n", artifact.Filename, lang, strings.TrimRight(string(artifact.Data), "\n"))
}

// formatProbe formats a connectivity check result
func formatProbe(result llm.ProbeResult) string {
	var sb strings.Builder
	if result.Success {
		sb.WriteString(fmt.Sprintf("✓ %s\n\n", result.Message))
		sb.WriteString(fmt.Sprintf("**Response time:** %dms\n", result.ResponseTime))
		sb.WriteString(fmt.Sprintf("**Response:** %s\n", result.Response))
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("✗ %s\n", result.Message))
	if result.Error != "" {
		sb.WriteString(fmt.Sprintf("\n**Error:** %s\n", result.Error))
	}
	return sb.String()
}
