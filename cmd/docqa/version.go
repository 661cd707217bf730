package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ternarybob/docqa/internal/common"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// Skip config loading so version works without a valid config
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("DocQA version %s\n", common.GetFullVersion())
	},
}
