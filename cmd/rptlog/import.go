package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/claude/rptlog/internal/ingest"
	"github.com/claude/rptlog/internal/ingest/backup"
	"github.com/claude/rptlog/internal/ingest/csvlog"
	"github.com/spf13/cobra"
)

var importFormat string

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import workouts from a CSV log or a JSON backup",
	Long: `Import appends: existing workouts are never replaced. Backups also merge
personal records, body weight, catalogue entries, video links and
progression settings.

Examples:
  rptlog import workouts.csv
  rptlog import --format backup rptlog-backup.json
  rptlog import - < workouts.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "csv", "Input format: csv or backup")
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	var ingestFn func(context.Context, io.Reader) (*ingest.Result, error)
	switch importFormat {
	case "csv":
		ingestFn = csvlog.NewProvider(a.db, a.log).Ingest
	case "backup":
		ingestFn = backup.NewProvider(a.db, a.log).Ingest
	default:
		return fmt.Errorf("unknown format %q (want csv or backup)", importFormat)
	}

	in, closeIn, err := openInput(args[0])
	if err != nil {
		return err
	}
	defer closeIn()

	res, err := ingestFn(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("importing %s: %w", args[0], err)
	}
	for _, rowErr := range res.Errors {
		fmt.Fprintln(cmd.ErrOrStderr(), rowErr.Error())
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening input: %w", err)
	}
	return f, func() { f.Close() }, nil
}
