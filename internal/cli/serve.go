package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lazypower/orbit/internal/server"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	var (
		bind string
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if cmd.Flags().Changed("bind") {
				a.cfg.Server.Bind = bind
			}
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			return runServe(a)
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "address to bind (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (overrides config)")
	return cmd
}

func runServe(a *app) error {
	a.engine.StartDriftWatch(a.records, a.cfg.DriftInterval())

	storage := a.cfg.Storage.Path
	if storage == "" {
		storage = a.cfg.Storage.Backend + " (default path)"
	}
	srv := server.New(a.records, a.engine, server.Options{
		Version:     VersionString(),
		StoragePath: storage,
		Logger:      a.log,
	})
	addr := a.cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("orbit serving", "addr", addr, "storage", storage, "items", a.records.Len())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	}
	a.log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}
