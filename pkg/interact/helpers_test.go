package interact

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/handle"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/sketch"
)

type errorLog struct {
	errs []error
}

func (r *errorLog) Error(err error) { r.errs = append(r.errs, err) }

type scriptedMenu struct {
	choice  ContextCommand
	offered []ContextCommand
	calls   int
}

func (m *scriptedMenu) Choose(_ geom.Point2d, items []ContextCommand) ContextCommand {
	m.calls++
	m.offered = append([]ContextCommand(nil), items...)
	return m.choice
}

type fixture struct {
	*Session
	m    *Machine
	errs *errorLog
	menu *scriptedMenu
	t    *testing.T
}

// newFixture returns a session on an 800x600 view at scale 5, locked to the
// XY plane. The plane's outline sits at screen ±50 and its origin point at
// screen (0, 0); tests keep clicks clear of both.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	errs := &errorLog{}
	menu := &scriptedMenu{}
	s := NewSession(SessionOptions{
		Width:    800,
		Height:   600,
		Reporter: errs,
		Menu:     menu,
		Log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return &fixture{Session: s, m: s.Machine, errs: errs, menu: menu, t: t}
}

func (f *fixture) move(x, y float64) {
	f.m.MouseMoved(geom.Pt(x, y), Buttons{}, Mods{})
}

func (f *fixture) drag(x, y float64) {
	f.m.MouseMoved(geom.Pt(x, y), Buttons{Left: true}, Mods{})
}

func (f *fixture) click(x, y float64) {
	f.m.MouseLeftDown(geom.Pt(x, y))
	f.m.MouseLeftUp(geom.Pt(x, y))
}

func (f *fixture) begin(c Command) {
	f.t.Helper()
	require.NoError(f.t, f.m.Begin(c))
}

// world is the model point under screen point (x, y).
func (f *fixture) world(x, y float64) geom.Vector {
	return f.Camera.UnProject(geom.Pt(x, y))
}

func (f *fixture) requestsOf(t sketch.RequestType) []handle.Handle {
	var out []handle.Handle
	for _, h := range f.Sketch.Requests() {
		if r, _ := f.Sketch.Request(h); r.Type == t {
			out = append(out, h)
		}
	}
	return out
}

func (f *fixture) constraintsOf(t sketch.ConstraintType) []handle.Handle {
	var out []handle.Handle
	for _, h := range f.Sketch.Constraints() {
		if c, _ := f.Sketch.Constraint(h); c.Type == t {
			out = append(out, h)
		}
	}
	return out
}

func (f *fixture) request(h handle.Handle) *sketch.Request {
	f.t.Helper()
	r, ok := f.Sketch.Request(h)
	require.True(f.t, ok, "request %s", h)
	return r
}

func (f *fixture) pos(h handle.Handle) geom.Vector {
	return f.Sketch.PointPos(h)
}

func (f *fixture) undoDepth() int {
	n, _ := f.History.Depth()
	return n
}

// addLine adds a line segment between two screen points without going
// through the machine.
func (f *fixture) addLine(x0, y0, x1, y1 float64) handle.Handle {
	h := f.Sketch.AddRequest(sketch.RequestLineSegment)
	r := f.request(h)
	a, b := r.Point(0), r.Point(1)
	f.Sketch.SetPoint(a, f.world(x0, y0))
	f.Sketch.SetPoint(b, f.world(x1, y1))
	return h
}

func (f *fixture) addCircle(x, y, radiusPx float64) handle.Handle {
	h := f.Sketch.AddRequest(sketch.RequestCircle)
	r := f.request(h)
	f.Sketch.SetPoint(r.Point(0), f.world(x, y))
	f.Sketch.SetDistance(r.Distance, radiusPx/f.Camera.Scale())
	return h
}

func assertNear(t *testing.T, want, got geom.Vector) {
	t.Helper()
	require.InDelta(t, want.X, got.X, 1e-9, "x of %s", got)
	require.InDelta(t, want.Y, got.Y, 1e-9, "y of %s", got)
	require.InDelta(t, want.Z, got.Z, 1e-9, "z of %s", got)
}
