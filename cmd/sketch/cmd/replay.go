package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/gesture"
)

var (
	replayWidth   int
	replayHeight  int
	replayZoom    float64
	replayNoPaint bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <script>...",
	Short: "Replay gesture scripts without a window",
	Long: `Run gesture scripts against a fresh sketch and print what they built.

Each script gets its own sketch. A script is one step per line:

  begin line
  click 15 15
  move 35 25
  click 35 25
  rightup 35 25
  expect requests 1

Coordinates are screen pixels from the center of the view, y up.

Examples:
  sketch replay testdata/square.gesture
  sketch replay --zoom 2 a.gesture b.gesture`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().IntVar(&replayWidth, "width", 800, "viewport width in pixels")
	replayCmd.Flags().IntVar(&replayHeight, "height", 600, "viewport height in pixels")
	replayCmd.Flags().Float64Var(&replayZoom, "zoom", 5, "camera scale, pixels per model unit")
	replayCmd.Flags().BoolVar(&replayNoPaint, "no-paint", false, "only report painted frames where the script says so")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	if replayWidth <= 0 || replayHeight <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", replayWidth, replayHeight)
	}
	if replayZoom <= 0 {
		return fmt.Errorf("zoom must be positive, got %g", replayZoom)
	}
	p, err := gesture.NewParser()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	for _, path := range args {
		script, err := p.ParseFile(path)
		if err != nil {
			return err
		}
		r := gesture.NewRunner(gesture.Options{
			Config:    config,
			Width:     replayWidth,
			Height:    replayHeight,
			AutoPaint: !replayNoPaint,
			Log:       logger,
		})
		r.Session.Camera.SetScale(replayZoom)
		if err := r.Run(ctx, script); err != nil {
			return err
		}

		if len(args) > 1 {
			fmt.Fprintf(out, "== %s\n", path)
		}
		if err := r.Summarize().Write(out); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(out, "steps: %d\n", len(script.Steps))
		}
	}
	return nil
}
