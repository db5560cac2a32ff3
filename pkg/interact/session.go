package interact

import (
	"log/slog"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/handle"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/pick"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/sketch"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/view"
)

// Session wires a machine to the stock collaborators: a sketch, its undo
// history, a camera and a picker.
type Session struct {
	Sketch  *sketch.Sketch
	History *sketch.History
	Camera  *view.Camera
	Picker  *pick.Picker
	Machine *Machine

	xy handle.Handle
}

// SessionOptions are the front-end pieces a session cannot build itself.
// All of them may be left zero.
type SessionOptions struct {
	Config   Config
	Width    int
	Height   int
	Reporter Reporter
	Menu     ContextMenu
	Log      *slog.Logger
}

// NewSession creates an empty sketch locked to the XY plane and a machine
// driving it.
func NewSession(opts SessionOptions) *Session {
	if opts.Config == (Config{}) {
		opts.Config = DefaultConfig()
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	sk := sketch.New()
	sk.SetLogger(opts.Log)
	cam := view.NewCamera(opts.Width, opts.Height)
	pk := pick.New(sk, cam)
	hist := sketch.NewHistory(sk, sketch.DefaultHistoryLimit)

	s := &Session{Sketch: sk, History: hist, Camera: cam, Picker: pk, xy: sk.ActiveWorkplane()}
	s.Machine = NewMachine(Env{
		Store:       sk,
		Constraints: sk,
		Picker:      pk,
		Undo:        hist,
		View:        cam,
		Reporter:    opts.Reporter,
		Suggester:   pick.NewSuggester(sk, opts.Config.SuggestionTolerance),
		Menu:        opts.Menu,
		Config:      opts.Config,
		Log:         opts.Log,
	})
	return s
}

// Undo abandons whatever is pending and restores the last snapshot.
func (s *Session) Undo() bool {
	s.Machine.Escape()
	if !s.History.Undo() {
		return false
	}
	s.Picker.Prune()
	return true
}

// Redo re-applies the last undone change.
func (s *Session) Redo() bool {
	s.Machine.Escape()
	if !s.History.Redo() {
		return false
	}
	s.Picker.Prune()
	return true
}

// SetWorkplane locks drawing to the XY plane or, with lock false, unlocks it
// for 3D sketching.
func (s *Session) SetWorkplane(lock bool) error {
	if !lock {
		return s.Sketch.SetActiveWorkplane(handle.Nil)
	}
	return s.Sketch.SetActiveWorkplane(s.xy)
}
