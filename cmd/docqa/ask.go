package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ternarybob/docqa/internal/app"
	"github.com/ternarybob/docqa/internal/models"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about a document",
	Long: `Asks a question about the selected document (or --document) and records the answer in the history.

Examples:
  docqa ask "What are the main requirements?"
  docqa ask --document 2 "How long is the retry window?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().String("document", "", "document ID (defaults to the selected document)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	documentID, _ := cmd.Flags().GetString("document")

	return withApp(func(ctx context.Context, application *app.App) error {
		if documentID == "" {
			selected, ok := application.Documents.Selected()
			if !ok {
				return fmt.Errorf("no document selected; run 'docqa documents select <id>' first")
			}
			documentID = selected.ID
		}

		qa, err := application.QA.Ask(ctx, question, documentID)
		if err != nil {
			return err
		}

		fmt.Println(colorize(colorBold, qa.Question))
		fmt.Print(renderMarkdown(qa.Answer))
		printAnswerSource(qa.Metadata)
		return nil
	})
}

func printAnswerSource(meta *models.QAMetadata) {
	if meta == nil {
		return
	}

	switch {
	case meta.Source == models.SourceAI:
		printStatus("Source", "%s (%dms)", meta.Model, meta.ResponseTime)
	case meta.IsError:
		printWarning("The AI service request failed, a local answer was recorded")
	default:
		printStatus("Source", "local answer")
	}
}
