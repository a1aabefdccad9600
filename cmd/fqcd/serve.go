package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/talgya/fi-verse/internal/api"
	"github.com/talgya/fi-verse/internal/cockpit"
	"github.com/talgya/fi-verse/internal/persistence"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(a *app) *cobra.Command {
	var noDB bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			slog.Info("FQCD calculator",
				"version", version,
				"phi", a.cfg.Constants.Phi,
				"omega_m", fmt.Sprintf("%.5f", a.calc.OmegaMatter()),
			)

			var db *persistence.DB
			if !noDB {
				var err error
				if db, err = openDB(a.cfg.DB.Path); err != nil {
					return err
				}
				defer db.Close()
			}

			srv := &api.Server{
				Calc:        a.calc,
				DB:          db,
				Port:        a.cfg.API.Port,
				AdminKey:    a.cfg.API.AdminKey,
				CORSOrigins: a.cfg.API.Origins(),
				RateLimit:   a.cfg.API.RateLimit,
				Version:     version,

				TrustedProxies: a.cfg.API.Proxies(),
			}
			srv.Start()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			select {
			case sig := <-sigCh:
				slog.Info("received signal, shutting down", "signal", sig)
			case <-cmd.Context().Done():
				slog.Info("context cancelled, shutting down")
			}

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			slog.Info("HTTP API stopped")
			return nil
		},
	}

	cmd.Flags().IntP("port", "p", 8080, "HTTP server port")
	cmd.Flags().BoolVar(&noDB, "no-db", false, "serve without the snapshot store")
	a.v.BindPFlag("api.port", cmd.Flags().Lookup("port"))
	return cmd
}

func cockpitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cockpit",
		Short: "Interactive terminal view with the scale slider",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return cockpit.Run(a.calc)
		},
	}
}

// openDB creates the database directory if needed and opens the store.
func openDB(path string) (*persistence.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := persistence.Open(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("database opened", "path", path)
	return db, nil
}
