package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/docqa/internal/app"
	"github.com/ternarybob/docqa/internal/common"
)

func main() {
	// Load configuration
	configPath := os.Getenv("DOCQA_CONFIG")
	if configPath == "" {
		if _, err := os.Stat("docqa.toml"); err == nil {
			configPath = "docqa.toml"
		}
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the MCP stream, so logs go to the file writer only
	config.Logging.Output = []string{"file"}
	if config.Logging.Level == "" || config.Logging.Level == "info" || config.Logging.Level == "debug" {
		config.Logging.Level = "warn"
	}
	logger := common.InitLogger(config)

	application, err := app.New(config, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	// Create MCP server
	mcpServer := server.NewMCPServer(
		"docqa",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	// Register document tools
	mcpServer.AddTool(createListDocumentsTool(), handleListDocuments(application.Documents, logger))
	mcpServer.AddTool(createSelectDocumentTool(), handleSelectDocument(application.Documents, logger))

	// Register Q&A tools
	mcpServer.AddTool(createAskQuestionTool(), handleAskQuestion(application.QA, application.Documents, logger))
	mcpServer.AddTool(createSearchHistoryTool(), handleSearchHistory(application.QA, logger))
	mcpServer.AddTool(createExportHistoryTool(), handleExportHistory(application.QA, application.Documents, logger))

	// Register AI service tools
	mcpServer.AddTool(createProbeAITool(), handleProbeAI(application.LLMService, application.APIKey, logger))

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Error().Err(err).Msg("MCP server failed")
		application.Close()
		os.Exit(1)
	}
}
