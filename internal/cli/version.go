package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docweave/docweave/internal/vectorstore"
)

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("docweave %s\n", version)
			fmt.Printf("Build Mode: %s\n", vectorstore.BuildMode)
			fmt.Printf("SQLite Driver: %s\n", vectorstore.DriverName)
		},
	}
}
