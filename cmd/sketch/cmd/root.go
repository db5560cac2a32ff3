package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/interact"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Set by the root command before any subcommand runs.
	config interact.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sketch",
	Short: "Interactive 2D/3D sketcher",
	Long: `An interactive sketcher for points, lines, circles, arcs, rectangles,
cubic splines, text and comments, driven by a pending-operation state
machine that turns mouse gestures into constrained geometry.

Examples:
  sketch view                                # Open the sketch window
  sketch replay square.gesture               # Replay a gesture script headlessly
  sketch config --config sketch.yaml         # Show the effective settings`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

		cfg, err := interact.LoadConfig(configPath)
		if err != nil {
			return err
		}
		config = cfg
		logger.Debug("config loaded", "path", configPath)
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML file with interaction thresholds")
}
