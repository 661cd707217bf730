package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/ternarybob/docqa/internal/app"
	"github.com/ternarybob/docqa/internal/common"
	"github.com/ternarybob/docqa/internal/services/qa"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show question history, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		documentID, _ := cmd.Flags().GetString("document")
		all, _ := cmd.Flags().GetBool("all")

		return withApp(func(ctx context.Context, application *app.App) error {
			if documentID == "" && !all {
				documentID = application.QA.DocumentFilter()
			}

			records := qa.Filter(application.QA.All(), documentID, search)
			if len(records) == 0 {
				printWarning("No questions match")
				return nil
			}

			now := time.Now()
			for _, record := range records {
				fmt.Printf("%s  %s\n",
					colorize(colorBold, record.Question),
					colorize(colorGray, fmt.Sprintf("[%s, document %s]", common.RelativeTime(record.Timestamp, now), record.DocumentID)),
				)
				fmt.Print(renderMarkdown(record.Answer))
			}
			return nil
		})
	},
}

func init() {
	historyCmd.Flags().String("search", "", "case-insensitive text to match in questions and answers")
	historyCmd.Flags().String("document", "", "document ID (defaults to the selected document)")
	historyCmd.Flags().Bool("all", false, "include questions for every document")
}
