package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/praetorian-inc/linepos/pkg/resolver"
	"github.com/praetorian-inc/linepos/pkg/serve"
	"github.com/praetorian-inc/linepos/pkg/store"
	"github.com/spf13/cobra"
)

var (
	serveStorePath string
	serveWorkers   int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as streaming server for editor integration",
	Long: `Run linepos as a long-lived streaming server that accepts requests
via stdin and writes responses to stdout using NDJSON format.

Clients open documents once and then query positions by source name or
document ID until stdin closes or SIGTERM is received.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveStorePath, "store", store.MemoryPath, "Index cache database path")
	serveCmd.Flags().IntVar(&serveWorkers, "workers", resolver.DefaultWorkers, "Concurrent items per resolve_batch request")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	core, err := resolver.NewCore(resolver.Config{
		StorePath: serveStorePath,
		Workers:   serveWorkers,
	}, newLogger(cmd))
	if err != nil {
		return err
	}
	defer core.Close()

	// Set up signal handling
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	srv := serve.NewServer(core, cmd.InOrStdin(), cmd.OutOrStdout())
	return srv.Run(ctx)
}
