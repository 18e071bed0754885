package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/claude/rptlog/internal/config"
	"github.com/claude/rptlog/internal/logging"
	"github.com/claude/rptlog/internal/storage"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "config.yaml"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "rptlog",
	Short: "Reverse pyramid training log",
	Long: `rptlog records strength workouts that follow a reverse pyramid scheme,
tracks personal records and streaks, and serves the training API.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	rootCmd.Version = Version
}

// app bundles what every subcommand needs once config is loaded.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	closeLog func() error
	db       *storage.Store
}

// loadConfig reads configPath. A missing file at the default path falls
// back to defaults plus environment overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	return config.Load(path)
}

// newApp loads config and sets up logging. console receives console log
// output; nil means stdout.
func newApp(cmd *cobra.Command, console io.Writer) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, closeLog := logging.Setup(logging.Params{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		ToStdout:   cfg.Log.ToStdout,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Console:    console,
	})
	return &app{cfg: cfg, log: log, closeLog: closeLog}, nil
}

// openStore applies migrations and opens the configured store.
func (a *app) openStore(ctx context.Context) error {
	db, err := storage.Open(ctx, storage.Options{
		Driver:     a.cfg.Database.Driver,
		DSN:        a.cfg.Database.DSN(),
		MigrateURL: a.cfg.Database.MigrateURL(),
	})
	if err != nil {
		return fmt.Errorf("opening %s store: %w", a.cfg.Database.Driver, err)
	}
	a.db = db
	a.log.Info("database connected", "driver", db.Driver())
	return nil
}

func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn("closing store", "error", err)
		}
	}
	if err := a.closeLog(); err != nil {
		fmt.Fprintf(os.Stderr, "closing log file: %v\n", err)
	}
}

// setup runs newApp and openStore together for store-backed commands.
func setup(cmd *cobra.Command, console io.Writer) (*app, error) {
	a, err := newApp(cmd, console)
	if err != nil {
		return nil, err
	}
	if err := a.openStore(cmd.Context()); err != nil {
		a.log.Error("store unavailable", "error", err)
		a.Close()
		return nil, err
	}
	return a, nil
}
