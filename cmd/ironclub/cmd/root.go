package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "ironclub",
	Short: "Ironclub is a shared workout tracker",
	Long: `A small multi-user workout tracker with handle-based login,
signed session tokens, and per-user completion and equipment records.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
