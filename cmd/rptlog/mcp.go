package main

import (
	"fmt"
	"os"

	rptmcp "github.com/claude/rptlog/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the MCP tool server over stdio",
	Long: `Serve training data and calculators to an MCP client over stdin/stdout.
Logs go to stderr or the configured log file.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	loc, err := a.cfg.Training.Location()
	if err != nil {
		return fmt.Errorf("loading timezone: %w", err)
	}
	s := rptmcp.New(a.db, rptmcp.Options{
		Unit:     a.cfg.Training.WeightUnit(),
		Rotation: a.cfg.Training.Rotation,
		Location: loc,
		Defaults: a.cfg.Training.ProgressionDefaults(),
	}, Version, a.log)

	a.log.Info("mcp stdio server starting", "version", Version)
	if err := server.ServeStdio(s); err != nil {
		return fmt.Errorf("mcp stdio: %w", err)
	}
	return nil
}
