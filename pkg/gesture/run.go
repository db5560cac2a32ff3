// Package gesture replays scripted mouse and command sequences against a
// sketch session without a window.
//
// A script is a list of steps, one per line:
//
//	begin line            # arm a command (name or alias)
//	down 15 15            # left press, screen coordinates
//	move 35 25 shift      # pointer move, optional shift / ctrl
//	up 35 25              # left release
//	click 15 15           # press and release
//	rightdown 0 0         # right press
//	rightup 0 0           # right release: ends a chain or opens the menu
//	menu delete           # item the next context menu picks
//	doubleclick 25 35     # open a dimension edit on the hovered label
//	edit "2*10"           # finish the open edit
//	painted               # a frame was displayed
//	workplane on          # lock to the XY plane, or off for 3D
//	zoom 2                # set the camera scale
//	escape / undo / redo
//	expect mode NONE      # or: expect requests 3, constraints 2, errors 0
package gesture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/handle"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/interact"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/sketch"
)

// Options configure a Runner.
type Options struct {
	Config interact.Config
	Width  int
	Height int
	// AutoPaint reports a painted frame after every step, so edit drags
	// are never held back by frame pacing.
	AutoPaint bool
	Log       *slog.Logger
}

// Runner executes scripts against its own session.
type Runner struct {
	Session *interact.Session

	autoPaint bool
	log       *slog.Logger
	menu      *scriptMenu
	errs      []error
	left      bool
	right     bool
}

// scriptMenu answers context menus with the item named by the last menu
// step, then reverts to cancelling.
type scriptMenu struct {
	next    interact.ContextCommand
	offered []interact.ContextCommand
}

func (m *scriptMenu) Choose(_ geom.Point2d, items []interact.ContextCommand) interact.ContextCommand {
	m.offered = items
	choice := m.next
	m.next = interact.ContextCancelled
	for _, it := range items {
		if it == choice {
			return choice
		}
	}
	return interact.ContextCancelled
}

// NewRunner creates a runner over a fresh session locked to the XY plane.
func NewRunner(opts Options) *Runner {
	if opts.Width == 0 || opts.Height == 0 {
		opts.Width, opts.Height = 800, 600
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	r := &Runner{autoPaint: opts.AutoPaint, log: opts.Log, menu: &scriptMenu{}}
	r.Session = interact.NewSession(interact.SessionOptions{
		Config:   opts.Config,
		Width:    opts.Width,
		Height:   opts.Height,
		Reporter: interact.ReporterFunc(func(err error) { r.errs = append(r.errs, err) }),
		Menu:     r.menu,
		Log:      opts.Log,
	})
	return r
}

// Errors lists the precondition failures reported so far.
func (r *Runner) Errors() []error {
	return append([]error(nil), r.errs...)
}

// Run executes the steps of s in order. It stops at the first step that
// fails or when ctx is done.
func (r *Runner) Run(ctx context.Context, s *Script) error {
	for _, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.step(st); err != nil {
			return fmt.Errorf("gesture: %s: %w", st.Pos, err)
		}
		if r.autoPaint {
			r.Session.Machine.Painted()
		}
	}
	r.log.Debug("script finished", "steps", len(s.Steps), "mode", r.Session.Machine.Mode())
	return nil
}

func pt(p *Point) geom.Point2d {
	return geom.Pt(p.X, p.Y)
}

func (r *Runner) buttons() interact.Buttons {
	return interact.Buttons{Left: r.left, Right: r.right}
}

func (r *Runner) step(st *Step) error {
	m := r.Session.Machine
	switch {
	case st.Begin != nil:
		c, err := interact.ParseCommand(*st.Begin)
		if err != nil {
			return err
		}
		// Refusals are reported and recorded; the script goes on.
		if err := m.Begin(c); err != nil && !isPrecondition(err) {
			return err
		}
	case st.Down != nil:
		r.left = true
		m.MouseLeftDown(pt(st.Down))
	case st.Up != nil:
		r.left = false
		m.MouseLeftUp(pt(st.Up))
	case st.Click != nil:
		m.MouseLeftDown(pt(st.Click))
		m.MouseLeftUp(pt(st.Click))
	case st.Move != nil:
		m.MouseMoved(pt(&st.Move.At), r.buttons(), interact.Mods{
			Shift: st.Move.has("shift"),
			Ctrl:  st.Move.has("ctrl"),
		})
	case st.RightDown != nil:
		r.right = true
		m.MouseMiddleOrRightDown(pt(st.RightDown))
	case st.RightUp != nil:
		r.right = false
		m.MouseRightUp(pt(st.RightUp))
	case st.DoubleClick != nil:
		if _, ok := m.MouseLeftDoubleClick(pt(st.DoubleClick)); !ok {
			return errors.New("nothing editable under the cursor")
		}
	case st.Edit != nil:
		return m.EditDone(*st.Edit)
	case st.Menu != nil:
		c, err := interact.ParseContextCommand(*st.Menu)
		if err != nil {
			return err
		}
		r.menu.next = c
	case st.Painted:
		m.Painted()
	case st.Escape:
		m.Escape()
	case st.Undo:
		r.Session.Undo()
	case st.Redo:
		r.Session.Redo()
	case st.Workplane != nil:
		return r.Session.SetWorkplane(*st.Workplane == "on")
	case st.Zoom != nil:
		if *st.Zoom <= 0 {
			return fmt.Errorf("zoom must be positive, got %g", *st.Zoom)
		}
		r.Session.Camera.SetScale(*st.Zoom)
	case st.Expect != nil:
		return r.expect(st.Expect)
	default:
		return errors.New("empty step")
	}
	return nil
}

func isPrecondition(err error) bool {
	return errors.Is(err, interact.ErrNoWorkplane) || errors.Is(err, interact.ErrInWorkplane)
}

func (r *Runner) expect(e *Expect) error {
	sum := r.Summarize()
	check := func(what string, want, got int) error {
		if want != got {
			return fmt.Errorf("expected %d %s, have %d", want, what, got)
		}
		return nil
	}
	switch {
	case e.Mode != nil:
		if got := sum.Mode.String(); got != *e.Mode {
			return fmt.Errorf("expected mode %s, have %s", *e.Mode, got)
		}
	case e.Requests != nil:
		return check("requests", *e.Requests, len(sum.Requests))
	case e.Constraints != nil:
		return check("constraints", *e.Constraints, len(sum.Constraints))
	case e.Errors != nil:
		return check("errors", *e.Errors, len(r.errs))
	}
	return nil
}

// RequestSummary describes one user request and where its points are.
type RequestSummary struct {
	Handle       handle.Handle
	Type         sketch.RequestType
	Construction bool
	Points       []geom.Vector
}

// Summary is the sketch content after a run. The XY reference plane is
// left out.
type Summary struct {
	Mode        interact.Mode
	Requests    []RequestSummary
	Constraints []sketch.ConstraintType
	Errors      []error
}

// Summarize reports what the session holds now.
func (r *Runner) Summarize() Summary {
	sk := r.Session.Sketch
	sum := Summary{Mode: r.Session.Machine.Mode(), Errors: r.Errors()}
	for _, h := range sk.Requests() {
		req, _ := sk.Request(h)
		if sk.GroupOrder(req.Group) == 0 {
			continue
		}
		rs := RequestSummary{Handle: h, Type: req.Type, Construction: req.Construction}
		for _, p := range req.Points {
			rs.Points = append(rs.Points, sk.PointPos(p))
		}
		sum.Requests = append(sum.Requests, rs)
	}
	for _, h := range sk.Constraints() {
		c, _ := sk.Constraint(h)
		sum.Constraints = append(sum.Constraints, c.Type)
	}
	return sum
}

// Write prints the summary as plain text.
func (s Summary) Write(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("mode: %s\n", s.Mode)
	ew.printf("requests: %d\n", len(s.Requests))
	for _, r := range s.Requests {
		kind := r.Type.String()
		if r.Construction {
			kind += " (construction)"
		}
		ew.printf("  %-12s %s", r.Handle, kind)
		for _, p := range r.Points {
			ew.printf(" %s", p)
		}
		ew.printf("\n")
	}

	counts := make(map[sketch.ConstraintType]int)
	for _, t := range s.Constraints {
		counts[t]++
	}
	types := make([]sketch.ConstraintType, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	ew.printf("constraints: %d\n", len(s.Constraints))
	for _, t := range types {
		ew.printf("  %-20s %d\n", t, counts[t])
	}
	for _, err := range s.Errors {
		ew.printf("error: %v\n", err)
	}
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
