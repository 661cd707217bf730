package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/handlers"
	"github.com/ternarybob/docqa/internal/models"
	"github.com/ternarybob/docqa/internal/services/export"
	"github.com/ternarybob/docqa/internal/services/qa"
)

// asker is the part of the Q&A session the tools use
type asker interface {
	Ask(ctx context.Context, question, documentID string) (*models.QA, error)
	All() []models.QA
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

// handleListDocuments implements the list_documents tool
func handleListDocuments(registry handlers.DocumentRegistry, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		selected, _ := registry.Selected()
		return textResult(formatDocuments(registry.Documents(), selected.ID)), nil
	}
}

// handleSelectDocument implements the select_document tool
func handleSelectDocument(registry handlers.DocumentRegistry, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		docID, err := request.RequireString("document_id")
		if err != nil || docID == "" {
			return textResult("Error: document_id parameter is required"), nil
		}

		doc, err := registry.Select(ctx, docID)
		if err != nil {
			logger.Warn().Err(err).Str("document_id", docID).Msg("Select failed")
			return textResult(fmt.Sprintf("Select error: %v", err)), nil
		}

		return textResult(fmt.Sprintf("Selected **%s** (%s)", doc.Name, doc.ID)), nil
	}
}

// handleAskQuestion implements the ask_question tool
func handleAskQuestion(session asker, registry handlers.DocumentRegistry, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := request.RequireString("question")
		if err != nil || question == "" {
			return textResult("Error: question parameter is required"), nil
		}

		docID := request.GetString("document_id", "")
		if docID == "" {
			selected, ok := registry.Selected()
			if !ok {
				return textResult("Error: no document selected, call select_document first or pass document_id"), nil
			}
			docID = selected.ID
		}

		record, err := session.Ask(ctx, question, docID)
		if err != nil {
			logger.Warn().Err(err).Str("document_id", docID).Msg("Ask failed")
			return textResult(fmt.Sprintf("Ask error: %v", err)), nil
		}

		return textResult(formatAnswer(record)), nil
	}
}

// handleSearchHistory implements the search_history tool
func handleSearchHistory(session asker, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := request.GetString("query", "")
		docID := request.GetString("document_id", "")

		// Parse limit (default: 10, max: 100)
		limit := request.GetInt("limit", 10)
		if limit <= 0 {
			limit = 10
		}
		if limit > 100 {
			limit = 100
		}

		matches := qa.Filter(session.All(), docID, query)
		total := len(matches)
		if total > limit {
			matches = matches[:limit]
		}

		return textResult(formatHistory(query, matches, total, time.Now())), nil
	}
}

// handleExportHistory implements the export_history tool. It exports the same
// view the history panel shows: the selected document unless document_id is
// passed, narrowed by query.
func handleExportHistory(session asker, registry handlers.DocumentRegistry, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		format, err := export.ParseFormat(request.GetString("format", ""))
		if err != nil {
			return textResult(fmt.Sprintf("Error: %v", err)), nil
		}

		docID := request.GetString("document_id", "")
		if docID == "" {
			if selected, ok := registry.Selected(); ok {
				docID = selected.ID
			}
		}
		view := qa.Filter(session.All(), docID, request.GetString("query", ""))

		artifact, err := export.Snapshot(view, format, time.Now())
		if err != nil {
			logger.Error().Err(err).Msg("Export failed")
			return textResult(fmt.Sprintf("Export error: %v", err)), nil
		}

		return textResult(formatArtifact(artifact)), nil
	}
}

// handleProbeAI implements the probe_ai tool
func handleProbeAI(prober handlers.Prober, apiKey string, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return textResult(formatProbe(prober.Probe(ctx, apiKey))), nil
	}
}
