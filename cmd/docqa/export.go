package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/ternarybob/docqa/internal/app"
	"github.com/ternarybob/docqa/internal/services/export"
	"github.com/ternarybob/docqa/internal/services/qa"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export question history to a JSON or YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		outDir, _ := cmd.Flags().GetString("out")
		documentID, _ := cmd.Flags().GetString("document")

		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}

		return withApp(func(ctx context.Context, application *app.App) error {
			records := qa.Filter(application.QA.All(), documentID, "")

			artifact, err := export.Snapshot(records, format, time.Now())
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}

			path := filepath.Join(outDir, artifact.Filename)
			if err := os.WriteFile(path, artifact.Data, 0644); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}

			printSuccess("Exported %d records to %s", len(records), path)
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().String("format", "json", "export format: json or yaml")
	exportCmd.Flags().String("out", ".", "output directory")
	exportCmd.Flags().String("document", "", "only export questions for this document ID")
}
