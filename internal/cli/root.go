// Package cli wires the nightowl commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/brianraines/nightowl/internal/config"
	"github.com/brianraines/nightowl/pkg/logger"
)

var (
	cfgFile   string
	debugMode bool
	outputDir string
	baseURL   string

	// cfg is resolved once per invocation in the persistent pre-run.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "nightowl",
	Short: "Pull health data from the Oura API into CSV datasets",
	Long: `nightowl pulls sleep, heart rate, session, workout, tag, and SpO2
records from the Oura v2 API, persists them to per-category CSV files with
duplicate suppression, and renders HTML dashboards from the results.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		return setup(cmd.Context())
	},
}

// Execute runs the root command. It installs the signal context so every
// command shuts down cleanly on SIGINT/SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

// setup initializes logging and resolves configuration, applying flag
// overrides on top of the loaded values.
func setup(ctx context.Context) error {
	if err := logger.Init(); err != nil {
		return err
	}

	if cfgFile != "" {
		if err := os.Setenv("NIGHTOWL_CONFIG", cfgFile); err != nil {
			return err
		}
	}

	c, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if outputDir != "" {
		c.OutputDir = outputDir
	}
	if baseURL != "" {
		c.BaseURL = baseURL
	}
	if debugMode {
		c.LogLevel = "debug"
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(c.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", c.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	cfg = c
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config file (also NIGHTOWL_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "base directory for CSV output files")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "override the API base URL")
}
