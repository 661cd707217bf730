package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/ternarybob/docqa/internal/app"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check that the configured Google API key can reach Gemini",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, application *app.App) error {
			result := application.LLMService.Probe(ctx, application.APIKey)

			if !result.Success {
				if result.Error != "" {
					printStatus("Error", "%s", result.Error)
				}
				return errors.New(result.Message)
			}

			printSuccess("%s", result.Message)
			printStatus("Model", "%s", application.LLMService.Model())
			printStatus("Response time", "%dms", result.ResponseTime)
			printStatus("Response", "%s", result.Response)
			return nil
		})
	},
}
