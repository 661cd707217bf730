// -----------------------------------------------------------------------
// Last Modified: Wednesday, 14th October 2026 9:30:00 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/app"
	"github.com/ternarybob/docqa/internal/common"
)

var (
	// Command-line flags
	configFiles []string // Multiple --config flags supported
	serverPort  int
	serverHost  string

	// Global state
	config *common.Config
	logger arbor.ILogger
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Ask questions about uploaded documents",
	Long: `DocQA keeps a list of uploaded documents and a history of questions asked about them.
Answers come from Google Gemini when an API key is configured, otherwise a local placeholder is recorded.

Running docqa without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization cycle
	// (loadConfig -> isServeCommand -> rootCmd)
	rootCmd.PersistentPreRunE = loadConfig

	rootCmd.PersistentFlags().StringSliceVarP(&configFiles, "config", "c", nil, "Configuration file path (can be specified multiple times, later files override earlier ones)")
	rootCmd.PersistentFlags().IntVarP(&serverPort, "port", "p", 0, "Server port (overrides config)")
	rootCmd.PersistentFlags().StringVar(&serverHost, "host", "", "Server host (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(documentsCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig runs before every command.
// Order: defaults -> file1 -> file2 -> ... -> env -> CLI flags, then logger, then banner.
func loadConfig(cmd *cobra.Command, args []string) error {
	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("docqa.toml"); err == nil {
			configFiles = append(configFiles, "docqa.toml")
		} else if _, err := os.Stat("deployments/local/docqa.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/docqa.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration %v: %w", configFiles, err)
	}

	common.ApplyFlagOverrides(config, serverPort, serverHost)

	if !isServeCommand(cmd) {
		// One-shot commands write their result to stdout; keep logging out of the way
		logger = common.NewQuietLogger("warn")
		return nil
	}

	logger = common.InitLogger(config)
	common.PrintBanner(common.LoadVersionFromFile())

	logger.Debug().
		Str("storage_type", config.Storage.Type).
		Str("badger_path", config.Storage.Badger.Path).
		Str("sqlite_path", config.Storage.SQLite.Path).
		Str("log_level", config.Logging.Level).
		Strs("log_output", config.Logging.Output).
		Msg("Resolved configuration (sanitized)")

	logger.Info().
		Strs("config_files", configFiles).
		Int("port", config.Server.Port).
		Str("host", config.Server.Host).
		Msg("Application configuration loaded")

	return nil
}

func isServeCommand(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd == serveCmd
}

// withApp builds the application for a one-shot command and closes it afterwards.
// The maintenance schedule is skipped since the process exits right away.
func withApp(fn func(ctx context.Context, application *app.App) error) error {
	cfg := *config
	cfg.Maintenance.Enabled = false

	application, err := app.New(&cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer application.Close()

	return fn(context.Background(), application)
}
