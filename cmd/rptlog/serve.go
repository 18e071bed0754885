package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/rptlog/internal/ingest/backup"
	"github.com/claude/rptlog/internal/ingest/csvlog"
	"github.com/claude/rptlog/internal/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"tailscale.com/tsnet"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the training API",
	Long: `Serve the HTTP API, over the tailnet when tailscale is enabled in the
config, otherwise on the configured host and port.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()
	log := a.log
	log.Info("rptlog starting", "version", Version)

	seeded, err := a.db.SeedDefaults(cmd.Context())
	if err != nil {
		return fmt.Errorf("seeding defaults: %w", err)
	}
	if seeded.Exercises > 0 || seeded.Programmes > 0 {
		log.Info("seeded defaults", "exercises", seeded.Exercises, "programmes", seeded.Programmes)
	}

	loc, err := a.cfg.Training.Location()
	if err != nil {
		return fmt.Errorf("loading timezone: %w", err)
	}
	srv := server.New(a.db, csvlog.NewProvider(a.db, log), backup.NewProvider(a.db, log), server.Options{
		Unit:     a.cfg.Training.WeightUnit(),
		Rotation: a.cfg.Training.Rotation,
		Location: loc,
		Defaults: a.cfg.Training.ProgressionDefaults(),
	}, log)

	if dir := a.cfg.Server.WebDir; dir != "" {
		srv.SetFrontend(os.DirFS(dir))
		log.Info("serving frontend", "dir", dir)
	}

	var listener net.Listener
	if a.cfg.Tailscale.Enabled {
		ts := &tsnet.Server{
			Hostname: a.cfg.Tailscale.Hostname,
			Dir:      a.cfg.Tailscale.StateDir,
			AuthKey:  a.cfg.Tailscale.AuthKey,
		}
		if err := ts.Start(); err != nil {
			return fmt.Errorf("tsnet start: %w", err)
		}
		defer ts.Close()

		lc, err := ts.LocalClient()
		if err != nil {
			return fmt.Errorf("tsnet local client: %w", err)
		}
		srv.SetIdentity(server.TailscaleIdentity(lc, log))

		listener, err = ts.Listen("tcp", ":80")
		if err != nil {
			return fmt.Errorf("tsnet listen: %w", err)
		}
		log.Info("tsnet server starting", "hostname", a.cfg.Tailscale.Hostname)
	} else {
		addr := net.JoinHostPort(a.cfg.Server.Host, fmt.Sprint(a.cfg.Server.Port))
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		return err
	}
	log.Info("server stopped")
	return nil
}
