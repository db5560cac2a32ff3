package cmd

import (
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSketch/internal/ui"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the sketch window",
	Long: `Open a window with an empty sketch locked to the XY plane.

Left button places and drags geometry, right button ends a line or spline
chain or opens the context menu, middle or right drag moves the camera and
the wheel zooms. Escape cancels whatever is in progress.

Examples:
  # Open the window
  sketch view

  # With debug logging of every mode change
  sketch view -v`,
	Args: cobra.NoArgs,
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	logger.Info("launching sketch window")
	return ui.Run(ui.Options{Config: config, Log: logger, Version: rootCmd.Version})
}
