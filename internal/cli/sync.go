package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSyncCommand() *cobra.Command {
	syncCmd := &cobra.Command{
		Use:   "sync [files...]",
		Short: "Regenerate documentation for changed symbols",
		Long: `Sync diffs the given Go files (relative to the repository root) against
the stored symbol hashes and regenerates documentation for what changed.
Without arguments the files changed in the last commit are used; --all
forces a full pass over the repository.`,
		RunE: runSync,
	}
	syncCmd.Flags().Bool("all", false, "Sync every Go file in the repository")
	syncCmd.Flags().Bool("review", false, "Gate generated documentation behind a reviewer loop")
	syncCmd.Flags().Bool("include-tests", false, "Document _test.go files as well")
	syncCmd.Flags().Duration("timeout", 0, "Abort the pass after this duration (0 = no limit)")
	return syncCmd
}

func runSync(cmd *cobra.Command, args []string) error {
	repo, _ := cmd.Flags().GetString("repo")
	all, _ := cmd.Flags().GetBool("all")
	reviewEnabled, _ := cmd.Flags().GetBool("review")
	includeTests, _ := cmd.Flags().GetBool("include-tests")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	a, err := buildApp(repo, includeTests, reviewEnabled)
	if err != nil {
		return err
	}
	defer func() { _ = a.store.Close() }()

	var files []string
	switch {
	case all:
		files = nil
	case len(args) > 0:
		files = args
	default:
		files = a.changes.ChangedFiles()
		if len(files) == 0 {
			fmt.Println("No changed Go files since the previous commit; nothing to do.")
			return nil
		}
	}

	ctx := cmd.Context()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	report, err := a.pipeline.Run(ctx, files)
	if err != nil {
		return err
	}

	fmt.Printf("Synced %d files in %s\n", report.FilesProcessed, time.Since(start).Round(time.Millisecond))
	fmt.Printf("  changed:   %d symbols\n", report.SymbolsChanged)
	fmt.Printf("  unchanged: %d symbols\n", report.SymbolsUnchanged)
	fmt.Printf("  deleted:   %d symbols\n", report.SymbolsDeleted)
	fmt.Printf("  written:   %d sections (+%d impact updates)\n", report.DocsWritten, report.ImpactUpdates)
	if report.SymbolFailures > 0 {
		fmt.Printf("  failures:  %d symbols (see %s)\n", report.SymbolFailures, a.cfg.AuditLogPath())
	}
	return nil
}
