package ui

import (
	"log/slog"
	"os"

	"gioui.org/app"
	"gioui.org/unit"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/interact"
)

// Options configure the sketch window.
type Options struct {
	Config  interact.Config
	Log     *slog.Logger
	Version string
}

// Run launches the Gio UI and blocks until the window closes.
func Run(opts Options) error {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}

	go func() {
		w := new(app.Window)
		w.Option(app.Title("OpenTraceSketch"), app.Size(unit.Dp(1200), unit.Dp(800)))
		ui := New(w, opts)
		if err := ui.Run(); err != nil {
			opts.Log.Error("ui stopped", "err", err)
		}
		os.Exit(0)
	}()

	app.Main()
	return nil
}
