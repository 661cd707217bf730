package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createListDocumentsTool returns the list_documents tool definition
func createListDocumentsTool() mcp.Tool {
	return mcp.NewTool("list_documents",
		mcp.WithDescription("List uploaded documents in upload order and show which one is selected"),
	)
}

// createSelectDocumentTool returns the select_document tool definition
func createSelectDocumentTool() mcp.Tool {
	return mcp.NewTool("select_document",
		mcp.WithDescription("Select the document that questions refer to by default"),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("Document ID as shown by list_documents"),
		),
	)
}

// createAskQuestionTool returns the ask_question tool definition
func createAskQuestionTool() mcp.Tool {
	return mcp.NewTool("ask_question",
		mcp.WithDescription("Ask a question about a document and record the answer in the history"),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("Question text (leading and trailing whitespace is ignored)"),
		),
		mcp.WithString("document_id",
			mcp.Description("Document ID (default: the selected document)"),
		),
	)
}

// createSearchHistoryTool returns the search_history tool definition
func createSearchHistoryTool() mcp.Tool {
	return mcp.NewTool("search_history",
		mcp.WithDescription("Search recorded questions and answers, newest first (case-insensitive substring match)"),
		mcp.WithString("query",
			mcp.Description("Text to match in questions or answers (default: match everything)"),
		),
		mcp.WithString("document_id",
			mcp.Description("Only include questions for this document"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results to return (default: 10, max: 100)"),
		),
	)
}

// createExportHistoryTool returns the export_history tool definition
func createExportHistoryTool() mcp.Tool {
	return mcp.NewTool("export_history",
		mcp.WithDescription("Export the question history of a document as JSON or YAML"),
		mcp.WithString("format",
			mcp.Description("json (default) or yaml"),
		),
		mcp.WithString("document_id",
			mcp.Description("Document to export (default: the selected document)"),
		),
		mcp.WithString("query",
			mcp.Description("Only export records whose question or answer contains this text"),
		),
	)
}

// createProbeAITool returns the probe_ai tool definition
func createProbeAITool() mcp.Tool {
	return mcp.NewTool("probe_ai",
		mcp.WithDescription("Check that the configured Google API key can reach Gemini"),
	)
}
