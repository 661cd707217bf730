package main

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/app"
	"github.com/ternarybob/docqa/internal/common"
	"github.com/ternarybob/docqa/internal/models"
	"github.com/ternarybob/docqa/internal/services/llm"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	t.Setenv("DOCQA_GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	cfg := common.NewDefaultConfig()
	cfg.Storage.Type = "memory"
	cfg.Maintenance.Enabled = false

	application, err := app.New(cfg, arbor.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { application.Close() })
	return application
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) string {
	t.Helper()
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestHandleAskQuestion_UsesSelectedDocument(t *testing.T) {
	application := newTestApp(t)
	logger := arbor.NewLogger()

	out := callTool(t, handleAskQuestion(application.QA, application.Documents, logger), map[string]any{
		"question": "What is the retry policy?",
	})
	assert.Contains(t, out, "## What is the retry policy?")
	assert.Contains(t, out, "**Document:** 1")
	assert.Contains(t, out, "**Source:** mock")

	out = callTool(t, handleAskQuestion(application.QA, application.Documents, logger), map[string]any{})
	assert.Contains(t, out, "question parameter is required")
}

func TestHandleSelectDocument(t *testing.T) {
	application := newTestApp(t)
	logger := arbor.NewLogger()

	out := callTool(t, handleSelectDocument(application.Documents, logger), map[string]any{"document_id": "3"})
	assert.Contains(t, out, "Selected")

	selected, ok := application.Documents.Selected()
	require.True(t, ok)
	assert.Equal(t, "3", selected.ID)

	out = callTool(t, handleSelectDocument(application.Documents, logger), map[string]any{"document_id": "nope"})
	assert.Contains(t, out, "Select error")
}

func TestHandleSearchHistory_LimitsResults(t *testing.T) {
	application := newTestApp(t)
	logger := arbor.NewLogger()

	for _, q := range []string{"first deploy question", "second deploy question"} {
		_, err := application.QA.Ask(context.Background(), q, "1")
		require.NoError(t, err)
	}

	out := callTool(t, handleSearchHistory(application.QA, logger), map[string]any{
		"query": "DEPLOY",
		"limit": 1,
	})
	assert.Contains(t, out, `History matching "DEPLOY" (1 of 2)`)
	assert.Contains(t, out, "second deploy question")
	assert.NotContains(t, out, "first deploy question")
}

func TestHandleExportHistory(t *testing.T) {
	application := newTestApp(t)
	logger := arbor.NewLogger()
	ctx := context.Background()

	_, err := application.QA.Ask(ctx, "Which vendor supplies the API?", "2")
	require.NoError(t, err)

	out := callTool(t, handleExportHistory(application.QA, application.Documents, logger), map[string]any{"format": "yaml"})
	assert.Contains(t, out, "```yaml")
	assert.Contains(t, out, "qa-history-")
	assert.Contains(t, out, "What are the main requirements?")
	assert.NotContains(t, out, "Which vendor supplies the API?")

	out = callTool(t, handleExportHistory(application.QA, application.Documents, logger), map[string]any{"document_id": "2"})
	assert.Contains(t, out, "Which vendor supplies the API?")
	assert.NotContains(t, out, "What are the main requirements?")

	out = callTool(t, handleExportHistory(application.QA, application.Documents, logger), map[string]any{"format": "xml"})
	assert.Contains(t, out, "Error:")
}

func TestFormatDocuments_MarksSelection(t *testing.T) {
	docs := []models.Document{
		{ID: "a", Name: "a.pdf", Size: "1.0 MB", Type: "pdf"},
		{ID: "b", Name: "b.md", Size: "0.1 MB", Type: "md"},
	}

	out := formatDocuments(docs, "b")
	assert.Contains(t, out, "## Documents (2)")
	assert.Contains(t, out, "2. **b.md** (selected)")
	assert.NotContains(t, out, "**a.pdf** (selected)")

	assert.Contains(t, formatDocuments(nil, ""), "No documents uploaded.")
}

func TestFormatHistory_TruncatesAnswers(t *testing.T) {
	now := time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'x'
	}

	out := formatHistory("", []models.QA{{ID: "1", DocumentID: "1", Question: "q", Answer: string(long), Timestamp: now.Add(-2 * time.Hour)}}, 1, now)
	assert.Contains(t, out, "## Question History (1 of 1)")
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, string(long))
}

func TestFormatProbe(t *testing.T) {
	ok := formatProbe(llm.ProbeResult{Success: true, Message: "Google AI API is working correctly!", ResponseTime: 42, Response: "Hi"})
	assert.Contains(t, ok, "✓ Google AI API is working correctly!")
	assert.Contains(t, ok, "42ms")

	failed := formatProbe(llm.ProbeResult{Message: "Google API key is not configured"})
	assert.Contains(t, failed, "✗ Google API key is not configured")
	assert.NotContains(t, failed, "**Error:**")
}
