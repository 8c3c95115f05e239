package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/docweave/docweave/internal/mcp"
)

func newServeCommand() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the documentation tools over MCP on stdio",
		Long: `Serve runs the Model Context Protocol server on stdin/stdout. Stdout is
reserved for the protocol stream; all logging goes to stderr.`,
		RunE: runServe,
	}
	serveCmd.Flags().Bool("review", false, "Gate generated documentation behind a reviewer loop")
	serveCmd.Flags().Bool("include-tests", false, "Document _test.go files as well")
	return serveCmd
}

func runServe(cmd *cobra.Command, args []string) error {
	repo, _ := cmd.Flags().GetString("repo")
	reviewEnabled, _ := cmd.Flags().GetBool("review")
	includeTests, _ := cmd.Flags().GetBool("include-tests")

	a, err := buildApp(repo, includeTests, reviewEnabled)
	if err != nil {
		return err
	}

	srv := mcp.NewServer(a.cfg, a.pipeline, a.searcher, a.docs, a.store, a.changes)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Println("MCP server ready, listening on stdio...")
		return srv.Serve(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down...")
		return nil
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	log.Println("Server stopped")
	return nil
}
