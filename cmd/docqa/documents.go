package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/ternarybob/docqa/internal/app"
	"github.com/ternarybob/docqa/internal/models"
	"github.com/ternarybob/docqa/internal/services/documents"
)

// --- documents ---

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "List, select and upload documents",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents, marking the selected one",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, application *app.App) error {
			selected, _ := application.Documents.Selected()
			docs := application.Documents.Documents()
			if len(docs) == 0 {
				printWarning("No documents")
				return nil
			}

			for _, doc := range docs {
				marker := " "
				if doc.ID == selected.ID {
					marker = colorize(colorGreen, "*")
				}
				fmt.Printf("%s %-48s %-8s %s  %s\n",
					marker,
					doc.Name,
					doc.Size,
					doc.UploadDate.Format("2006-01-02"),
					colorize(colorGray, doc.ID),
				)
			}
			return nil
		})
	},
}

var documentsSelectCmd = &cobra.Command{
	Use:   "select <id>",
	Short: "Select the document questions refer to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, application *app.App) error {
			doc, err := application.Documents.Select(ctx, args[0])
			if err != nil {
				return err
			}
			printSuccess("Selected %s (%s)", doc.Name, doc.ID)
			return nil
		})
	},
}

var documentsUploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Register a local file as an uploaded document",
	Long: `Registers the file's name and size as a new document and selects it.
The file content is not read or stored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := os.Stat(args[0])
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", args[0])
		}

		file := models.File{Name: filepath.Base(args[0]), Size: info.Size()}
		if !documents.IsAcceptedFile(file.Name) {
			return fmt.Errorf("unsupported file type %q (accepted: %v)", filepath.Ext(file.Name), documents.AcceptedExtensions)
		}

		timeout, _ := cmd.Flags().GetDuration("timeout")

		return withApp(func(ctx context.Context, application *app.App) error {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			result, err := application.Documents.StartUpload(ctx, file)
			if err != nil {
				return err
			}

			select {
			case doc, ok := <-result:
				if !ok {
					return fmt.Errorf("upload cancelled")
				}
				printSuccess("Uploaded %s (%s) as %s", doc.Name, doc.Size, doc.ID)
				return nil
			case <-ctx.Done():
				return fmt.Errorf("upload did not complete: %w", ctx.Err())
			}
		})
	},
}

func init() {
	documentsUploadCmd.Flags().Duration("timeout", 30*time.Second, "maximum time to wait for the upload to complete")

	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsSelectCmd)
	documentsCmd.AddCommand(documentsUploadCmd)
}
