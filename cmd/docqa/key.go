package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ternarybob/docqa/internal/app"
	"github.com/ternarybob/docqa/internal/common"
	"github.com/ternarybob/docqa/internal/interfaces"
	"github.com/ternarybob/docqa/internal/services/kv"
)

// --- key ---

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage stored keys such as the Google API key",
	Long: `Manage values in the key/value store.

The Google API key is resolved in this order: DOCQA_GEMINI_API_KEY, GOOGLE_API_KEY,
the stored "gemini_api_key" entry, then gemini.api_key in the config file.`,
}

var keySetCmd = &cobra.Command{
	Use:   "set <value>",
	Short: "Store the Google API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")

		return withApp(func(ctx context.Context, application *app.App) error {
			storage := application.StorageManager.KeyValueStorage()
			if err := storage.Set(ctx, name, strings.TrimSpace(args[0]), "Set from the command line"); err != nil {
				return fmt.Errorf("storing %s: %w", name, err)
			}
			if application.StorageManager.Backend() == "memory" {
				printWarning("Storage type is memory, the key will not survive this process")
			}
			printSuccess("Stored %s", name)
			return nil
		})
	},
}

var keyGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the stored key, masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")

		return withApp(func(ctx context.Context, application *app.App) error {
			value, err := application.StorageManager.KeyValueStorage().Get(ctx, name)
			if errors.Is(err, interfaces.ErrKeyNotFound) {
				printWarning("%s is not stored", name)
				return nil
			}
			if err != nil {
				return err
			}
			printStatus(name, "%s", maskSecret(value))
			return nil
		})
	},
}

var keyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored keys, most recently updated first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, application *app.App) error {
			pairs, err := application.StorageManager.KeyValueStorage().List(ctx)
			if err != nil {
				return err
			}
			for _, pair := range pairs {
				fmt.Printf("%-24s %s  %s\n", pair.Key, pair.UpdatedAt.Format("2006-01-02 15:04"), colorize(colorGray, pair.Description))
			}
			return nil
		})
	},
}

var keyImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import keys from a .env file or a variables TOML file",
	Long: `Imports KEY=value lines, or TOML tables of the form:

  [gemini_api_key]
  value = "..."
  description = "optional"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, application *app.App) error {
			result, err := kv.ImportFile(ctx, application.StorageManager.KeyValueStorage(), args[0], logger)
			if err != nil {
				return err
			}
			printSuccess("Imported %d keys (%d skipped, %d failed)", result.Loaded, result.Skipped, result.Errors)
			return nil
		})
	},
}

var keyDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored key",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")

		return withApp(func(ctx context.Context, application *app.App) error {
			if err := application.StorageManager.KeyValueStorage().Delete(ctx, name); err != nil {
				return fmt.Errorf("deleting %s: %w", name, err)
			}
			printSuccess("Deleted %s", name)
			return nil
		})
	},
}

func init() {
	for _, cmd := range []*cobra.Command{keySetCmd, keyGetCmd, keyDeleteCmd} {
		cmd.Flags().String("name", common.KeyGeminiAPIKey, "key name")
	}

	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyGetCmd)
	keyCmd.AddCommand(keyListCmd)
	keyCmd.AddCommand(keyImportCmd)
	keyCmd.AddCommand(keyDeleteCmd)
}

// maskSecret keeps the last four characters
func maskSecret(value string) string {
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}
