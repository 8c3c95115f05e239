// Package cli defines the docweave command tree: sync runs one documentation
// pass, serve exposes the pipeline over MCP on stdio, status reports index
// statistics.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the docweave command tree
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docweave",
		Short: "Keep generated API documentation in sync with the code",
		Long: `Docweave detects which symbols of a Go repository changed, regenerates
their Markdown documentation with an LLM-backed agent loop, and splices the
result into marker-delimited sections so untouched documentation stays
byte-identical.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("repo", "r", ".", "Repository root to document")

	rootCmd.AddCommand(newSyncCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newStatusCommand())
	rootCmd.AddCommand(newVersionCommand(version))

	return rootCmd
}
