package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

// lastUpdater is satisfied by stores that track write times
type lastUpdater interface {
	LastUpdated(ctx context.Context) (time.Time, error)
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show index statistics for the repository",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	repo, _ := cmd.Flags().GetString("repo")

	a, err := buildApp(repo, false, false)
	if err != nil {
		return err
	}
	defer func() { _ = a.store.Close() }()

	payloads, err := a.store.ScrollAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}

	kinds := make(map[string]int)
	files := make(map[string]bool)
	for _, p := range payloads {
		kinds[p.Kind]++
		files[p.File] = true
	}

	fmt.Printf("Repository: %s\n", a.cfg.RepoRoot)
	fmt.Printf("Branch:     %s\n", a.changes.CurrentBranch())
	fmt.Printf("Docs root:  %s\n", a.docs.Root())
	fmt.Printf("Database:   %s\n", a.cfg.DBPath)
	fmt.Printf("Indexed:    %d symbols across %d files\n", len(payloads), len(files))

	if lu, ok := a.store.(lastUpdater); ok {
		if ts, err := lu.LastUpdated(cmd.Context()); err == nil && !ts.IsZero() {
			fmt.Printf("Last sync:  %s\n", ts.Format(time.RFC3339))
		}
	}

	names := make([]string, 0, len(kinds))
	for kind := range kinds {
		names = append(names, kind)
	}
	sort.Strings(names)
	for _, kind := range names {
		fmt.Printf("  %-10s %d\n", kind, kinds[kind])
	}
	return nil
}
