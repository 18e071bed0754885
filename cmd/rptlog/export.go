package main

import (
	"fmt"
	"io"
	"os"

	"github.com/claude/rptlog/internal/ingest/backup"
	"github.com/claude/rptlog/internal/ingest/csvlog"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export workouts as CSV or a full JSON backup",
	Long: `Export the workout history as a CSV log, or everything as a JSON backup
that import --format backup reads back.

Examples:
  rptlog export > workouts.csv
  rptlog export --format backup -o rptlog-backup.json`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Output format: csv or backup")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "-", "Output file, - for stdout")
}

func runExport(cmd *cobra.Command, _ []string) (err error) {
	if exportFormat != "csv" && exportFormat != "backup" {
		return fmt.Errorf("unknown format %q (want csv or backup)", exportFormat)
	}
	// Stdout carries the export, so logs go to stderr.
	a, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	var out io.Writer = cmd.OutOrStdout()
	if exportOutput != "-" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing output: %w", cerr)
			}
		}()
		out = f
	}

	if exportFormat == "backup" {
		b, err := backup.Snapshot(ctx, a.db, a.cfg.Training.ProgressionDefaults())
		if err != nil {
			return fmt.Errorf("building backup: %w", err)
		}
		return backup.Write(out, b)
	}

	workouts, err := a.db.Workouts(ctx)
	if err != nil {
		return fmt.Errorf("loading workouts: %w", err)
	}
	if err := csvlog.Export(out, workouts); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	a.log.Info("exported workouts", "count", len(workouts))
	return nil
}
