package interact

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/handle"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/sketch"
)

// Pending is the pending operation. At most one of the single-handle fields
// is meaningful for a given mode; in ModeNone all of them are Nil.
type Pending struct {
	Mode    Mode
	Command Command

	Point      handle.Handle
	Request    handle.Handle
	Circle     handle.Handle
	Normal     handle.Handle
	Constraint handle.Handle

	// Points moved together in ModeDraggingPoints.
	Points []handle.Handle
	// Requests created by the current construction sequence.
	Requests []handle.Handle

	Suggestion    sketch.ConstraintType
	HasSuggestion bool

	Description string

	// chained is set once a line chain has spawned a follow-on segment.
	chained bool
}

// Empty reports whether p carries no handles, lists or suggestion.
func (p Pending) Empty() bool {
	return p.Command == CmdNone &&
		p.Point.IsNil() && p.Request.IsNil() && p.Circle.IsNil() &&
		p.Normal.IsNil() && p.Constraint.IsNil() &&
		len(p.Points) == 0 && len(p.Requests) == 0 &&
		!p.HasSuggestion && !p.chained
}

// Buttons is the set of mouse buttons held during a move.
type Buttons struct {
	Left, Middle, Right bool
}

// Mods is the set of modifier keys held during an event.
type Mods struct {
	Shift, Ctrl bool
}

// origin is the per-gesture reference frame.
type origin struct {
	mouse             geom.Point2d
	mouseOnButtonDown geom.Point2d

	offset    geom.Vector
	projRight geom.Vector
	projUp    geom.Vector

	marqueePoint geom.Vector

	mouseDown     bool
	otherDown     bool
	startedMoving bool
}

// ExtraLine is a guide line drawn while rotating about the screen normal.
type ExtraLine struct {
	A, B geom.Vector
	Draw bool
}

// Machine is the pending-operation state machine.
type Machine struct {
	env Env
	cfg Config
	log *slog.Logger

	pending Pending
	orig    origin
	current geom.Point2d

	havePainted                 bool
	hoverWasSelectedOnMousedown bool

	extraLine ExtraLine
	editing   handle.Handle
	gesture   string
}

// NewMachine creates an idle machine. A zero Env.Config means
// DefaultConfig.
func NewMachine(env Env) *Machine {
	if env.Config == (Config{}) {
		env.Config = DefaultConfig()
	}
	if env.Log == nil {
		env.Log = slog.Default()
	}
	if env.Reporter == nil {
		env.Reporter = ReporterFunc(func(err error) {
			env.Log.Warn("unreported error", "err", err)
		})
	}
	return &Machine{
		env:         env,
		cfg:         env.Config,
		log:         env.Log,
		havePainted: true,
	}
}

// Pending returns a copy of the pending operation.
func (m *Machine) Pending() Pending {
	p := m.pending
	p.Points = append([]handle.Handle(nil), p.Points...)
	p.Requests = append([]handle.Handle(nil), p.Requests...)
	return p
}

// Mode is the current mode.
func (m *Machine) Mode() Mode {
	return m.pending.Mode
}

// Description is the status-line hint for the current step.
func (m *Machine) Description() string {
	if m.pending.Mode == ModeNone {
		return ""
	}
	return m.pending.Description
}

// Active reports whether a construction sequence is in progress.
func (m *Machine) Active() bool {
	return m.pending.Mode == ModeCommand || m.pending.Mode.IsCreation()
}

// Marquee returns the marquee rectangle corners in screen coordinates while
// a marquee selection is in progress.
func (m *Machine) Marquee() (a, b geom.Point2d, ok bool) {
	if m.pending.Mode != ModeDraggingMarquee {
		return geom.Point2d{}, geom.Point2d{}, false
	}
	return m.env.View.Project(m.orig.marqueePoint), m.orig.mouse, true
}

// ExtraLine returns the rotation guide line.
func (m *Machine) ExtraLine() ExtraLine {
	return m.extraLine
}

// Cursor is the last pointer position seen, in screen coordinates.
func (m *Machine) Cursor() geom.Point2d {
	return m.current
}

// Painted tells the machine a frame has been displayed, reopening the
// frame-pacing gate.
func (m *Machine) Painted() {
	m.havePainted = true
}

// IsFromPending reports whether r was created by the current sequence.
func (m *Machine) IsFromPending(r handle.Handle) bool {
	for _, h := range m.pending.Requests {
		if h == r {
			return true
		}
	}
	return false
}

func (m *Machine) addToPending(r handle.Handle) {
	m.pending.Requests = append(m.pending.Requests, r)
}

// ReplacePending swaps before for after in the tracked requests.
func (m *Machine) ReplacePending(before, after handle.Handle) {
	for i, h := range m.pending.Requests {
		if h == before {
			m.pending.Requests[i] = after
		}
	}
}

func (m *Machine) setMode(mode Mode) {
	if m.pending.Mode != mode {
		m.log.Debug("pending operation", "from", m.pending.Mode, "to", mode, "gesture", m.gesture)
	}
	m.pending.Mode = mode
}

// clearPending resets the pending operation in one step.
func (m *Machine) clearPending() {
	if m.pending.Mode != ModeNone {
		m.log.Debug("pending operation", "from", m.pending.Mode, "to", ModeNone, "gesture", m.gesture)
	}
	m.pending = Pending{}
}

// clearSuper also drops the selection and the hover.
func (m *Machine) clearSuper() {
	m.clearPending()
	m.env.Picker.ClearSelection()
	m.env.Picker.ClearHover()
}

func (m *Machine) report(err error) {
	m.log.Info("operation refused", "err", err, "command", m.pending.Command, "gesture", m.gesture)
	m.env.Reporter.Error(err)
}

func (m *Machine) startGesture() {
	m.gesture = uuid.NewString()
}

// hitTest updates the hover, ignoring the geometry being shaped.
func (m *Machine) hitTest(mp geom.Point2d) {
	m.env.Picker.HitTest(mp, m.isBeingDragged)
}

// isBeingDragged reports whether eh belongs to geometry the running command
// is shaping. The start point of a cubic with at least two interior points
// stays hoverable so the spline can be closed on it.
func (m *Machine) isBeingDragged(eh handle.Handle) bool {
	rh := m.env.Store.RequestOf(eh)
	if rh.IsNil() {
		return false
	}
	if !m.IsFromPending(rh) && (m.pending.Point.IsNil() || m.env.Store.RequestOf(m.pending.Point) != rh) {
		return false
	}
	r, ok := m.env.Store.Request(rh)
	if ok && r.Type == sketch.RequestCubic && r.ExtraPoints >= 2 && eh == r.Point(0) {
		return false
	}
	return true
}

// Begin arms the machine with a command. Commands that cannot run in the
// current workplane context are refused and the machine stays idle.
func (m *Machine) Begin(c Command) error {
	if _, ok := commandTable[c]; !ok {
		return fmt.Errorf("interact: unknown command %s", c)
	}
	m.clearSuper()
	if c.needsWorkplane() && !m.env.Store.LockedInWorkplane() {
		err := noWorkplaneError(c)
		m.report(err)
		return err
	}
	if c == CmdWorkplane && m.env.Store.LockedInWorkplane() {
		m.report(ErrInWorkplane)
		return ErrInWorkplane
	}
	m.menu(c)
	m.log.Info("command armed", "command", c)
	return nil
}

// Escape cancels whatever is pending and clears the selection. Geometry
// already placed stays; rolling it back is the undo history's job.
func (m *Machine) Escape() {
	m.editing = handle.Nil
	m.extraLine.Draw = false
	m.clearSuper()
}

// MouseLeave drops the hover when the pointer leaves the window.
func (m *Machine) MouseLeave() {
	m.env.Picker.ClearHover()
	m.extraLine.Draw = false
}

// MouseScroll zooms about mp; positive delta zooms in.
func (m *Machine) MouseScroll(mp geom.Point2d, delta int) {
	switch {
	case delta > 0:
		m.env.View.ZoomAt(mp, m.cfg.ZoomStep)
	case delta < 0:
		m.env.View.ZoomAt(mp, 1/m.cfg.ZoomStep)
	default:
		return
	}
	m.havePainted = false
}

// MouseMiddleOrRightDown starts a camera gesture.
func (m *Machine) MouseMiddleOrRightDown(mp geom.Point2d) {
	if !m.editing.IsNil() {
		return
	}
	m.startGesture()
	m.orig.offset = m.env.View.Offset()
	m.orig.projRight = m.env.View.ProjRight()
	m.orig.projUp = m.env.View.ProjUp()
	m.orig.mouse = mp
	m.orig.startedMoving = false
	m.orig.otherDown = true
}

// MouseMoved routes a pointer move.
func (m *Machine) MouseMoved(mp geom.Point2d, b Buttons, mods Mods) {
	if !m.editing.IsNil() {
		return
	}
	m.extraLine.Draw = false

	// A drag that entered the window with the button held has no start.
	leftDown := b.Left && m.orig.mouseDown
	middleDown, shiftDown := b.Middle, mods.Shift
	if b.Right {
		middleDown = true
		shiftDown = !shiftDown
	}

	if !leftDown && (m.pending.Mode == ModeDraggingPoints || m.pending.Mode == ModeDraggingMarquee) {
		m.clearPending()
	}

	m.current = mp

	if b.Right && m.orig.mouse.DistanceTo(mp) < m.cfg.PanGuard && !m.orig.startedMoving {
		return
	}
	m.orig.startedMoving = true

	if middleDown {
		m.moveCamera(mp, shiftDown, mods.Ctrl)
		return
	}

	switch mode := m.pending.Mode; {
	case mode == ModeNone:
		m.idleMoved(mp, leftDown)
	case mode == ModeCommand:
		m.hitTest(mp)
	case mode.IsCreation():
		m.commandMoved(mp, mods)
	default:
		if !m.havePainted {
			if mode == ModeDraggingPoints && mods.Ctrl {
				m.extraLine = ExtraLine{
					A:    m.env.View.UnProject(m.orig.mouseOnButtonDown),
					B:    m.env.View.UnProject(mp),
					Draw: true,
				}
			}
			return
		}
		m.havePainted = false
		m.dragMoved(mp, mods)
	}
}

func (m *Machine) idleMoved(mp geom.Point2d, leftDown bool) {
	dm := m.orig.mouse.DistanceTo(mp)
	if leftDown && dm > m.cfg.DragThreshold {
		m.startEditDrag(dm)
		return
	}
	// Hit testing while the button is down would let the hover wander off
	// the item the user pressed on.
	if !leftDown {
		if !m.havePainted {
			return
		}
		m.hitTest(mp)
	}
}

// MouseLeftDown routes a primary press.
func (m *Machine) MouseLeftDown(mp geom.Point2d) {
	m.orig.mouseDown = true
	if !m.editing.IsNil() {
		m.orig.mouse = mp
		m.orig.mouseOnButtonDown = mp
		m.editing = handle.Nil
		return
	}
	m.startGesture()

	// The move below recomputes the suggestion from scratch.
	hasSuggestion := m.pending.HasSuggestion
	m.MouseMoved(mp, Buttons{}, Mods{})
	m.orig.mouse = mp
	m.orig.mouseOnButtonDown = mp
	if m.pending.Mode == ModeDraggingNewLinePoint {
		m.pending.HasSuggestion = hasSuggestion
	}

	v := m.env.View.UnProject(mp)
	if m.pending.Command != CmdNone {
		m.commandLeftDown(v)
		return
	}
	m.clearPending()
	if hov := m.env.Picker.Hover(); !hov.IsEmpty() {
		m.hoverWasSelectedOnMousedown = m.env.Picker.IsSelected(hov)
		m.env.Picker.Select(hov)
	}
}

// MouseLeftUp routes a primary release.
func (m *Machine) MouseLeftUp(mp geom.Point2d) {
	m.orig.mouseDown = false
	m.hoverWasSelectedOnMousedown = false

	switch m.pending.Mode {
	case ModeDraggingPoints:
		m.extraLine.Draw = false
		fallthrough
	case ModeDraggingConstraint, ModeDraggingNormal, ModeDraggingRadius:
		m.clearPending()
	case ModeDraggingMarquee:
		m.env.Picker.SelectByMarquee(m.env.View.Project(m.orig.marqueePoint), m.orig.mouse)
		m.clearPending()
	case ModeNone:
		// Cleared here rather than on press, since an empty press may turn
		// into a marquee.
		if m.env.Picker.Hover().IsEmpty() {
			m.env.Picker.ClearSelection()
		}
	}
	if !m.Active() {
		m.gesture = ""
	}
}

// MouseRightUp ends a line or cubic chain, or opens the context menu.
func (m *Machine) MouseRightUp(mp geom.Point2d) {
	m.extraLine.Draw = false
	panned := m.orig.otherDown && m.orig.startedMoving
	m.orig.otherDown = false
	if panned {
		return
	}

	if m.pending.Mode == ModeDraggingNewLinePoint || m.pending.Mode == ModeDraggingNewCubicPoint {
		m.commandRightUp(mp)
		return
	}
	m.contextMenu(mp)
}
