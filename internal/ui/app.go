package ui

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"time"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/oligo/gioview/theme"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/interact"
)

const (
	maxLogEntries    = 200
	doubleClickDelay = 400 * time.Millisecond
	doubleClickSlop  = 4
)

// App hosts a sketch session in a Gio window.
type App struct {
	window *app.Window
	ops    op.Ops
	theme  *theme.Theme
	log    *slog.Logger

	session *interact.Session
	menu    *popupMenu
	version string

	tools    []tool
	undoBtn  widget.Clickable
	redoBtn  widget.Clickable
	inPlane  widget.Bool
	darkMode widget.Bool

	// Input collected during a frame, dispatched once the frame is shown so
	// a context menu can run its own event loop.
	queue   []event.Event
	buttons pointer.Buttons

	lastPress    time.Duration
	lastPressAt  geom.Point2d
	canvasOrigin image.Point
	edit         *dimensionEdit
	editor       widget.Editor
	logs         []string
	status       string
	destroyed    bool
	destroyErr   error
}

// dimensionEdit is an open in-place edit of a constraint value.
type dimensionEdit struct {
	req interact.EditRequest
}

// New wires the Gio window, theme and a fresh sketch session together.
func New(w *app.Window, opts Options) *App {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	a := &App{
		window:  w,
		theme:   theme.NewTheme("", nil, true),
		log:     opts.Log,
		version: opts.Version,
	}
	a.menu = &popupMenu{app: a}
	a.session = interact.NewSession(interact.SessionOptions{
		Config:   opts.Config,
		Reporter: interact.ReporterFunc(func(err error) { a.Logf("%v", err) }),
		Menu:     a.menu,
		Log:      opts.Log,
	})
	a.inPlane.Value = a.session.Sketch.LockedInWorkplane()
	a.editor.SingleLine = true
	a.editor.Submit = true
	a.initTools()
	a.applyPalette()
	a.Logf("OpenTraceSketch %s ready", a.version)
	return a
}

// Run processes Gio events until the window is closed.
func (a *App) Run() error {
	for !a.destroyed {
		switch ev := a.window.Event().(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&a.ops, ev)
			a.layout(gtx)
			ev.Frame(gtx.Ops)
			a.session.Machine.Painted()
			a.flush()
		}
	}
	return a.destroyErr
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	a.handleToolbar(gtx)
	paint.FillShape(gtx.Ops, a.theme.Palette.Bg, clip.Rect{Max: gtx.Constraints.Max}.Op())

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			dims := a.layoutToolbar(gtx)
			a.canvasOrigin = image.Pt(0, dims.Size.Y)
			return dims
		}),
		layout.Flexed(1, a.layoutCanvas),
		layout.Rigid(a.layoutStatus),
	)
}

func (a *App) layoutStatus(gtx layout.Context) layout.Dimensions {
	m := a.session.Machine
	status := a.status
	if m.Active() {
		status = m.Description()
	}
	right := fmt.Sprintf("%s  zoom %.3g", m.Mode(), a.session.Camera.Scale())
	return layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceBetween}.Layout(gtx,
			layout.Flexed(1, material.Body2(a.theme.Theme, status).Layout),
			layout.Rigid(material.Caption(a.theme.Theme, right).Layout),
		)
	})
}

// collectInput drains the canvas and key events for this frame.
func (a *App) collectInput(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  a,
			Kinds:   pointer.Press | pointer.Release | pointer.Move | pointer.Drag | pointer.Scroll | pointer.Leave,
			ScrollY: pointer.ScrollRange{Min: -1 << 20, Max: 1 << 20},
		})
		if !ok {
			break
		}
		a.queue = append(a.queue, ev)
	}
	for {
		ev, ok := gtx.Event(
			key.Filter{Name: key.NameEscape},
			key.Filter{Name: key.NameDeleteBackward},
			key.Filter{Name: "Z", Required: key.ModShortcut, Optional: key.ModShift},
		)
		if !ok {
			break
		}
		a.queue = append(a.queue, ev)
	}
}

// flush feeds the queued input to the machine.
func (a *App) flush() {
	if len(a.queue) == 0 {
		return
	}
	queue := a.queue
	a.queue = nil
	for _, ev := range queue {
		switch ev := ev.(type) {
		case pointer.Event:
			a.pointer(ev)
		case key.Event:
			a.key(ev)
		}
		if a.destroyed {
			return
		}
	}
	a.window.Invalidate()
}

func (a *App) pointer(ev pointer.Event) {
	m := a.session.Machine
	mp := a.session.Camera.FromPixel(float64(ev.Position.X), float64(ev.Position.Y))

	switch ev.Kind {
	case pointer.Press:
		pressed := ev.Buttons &^ a.buttons
		a.buttons = ev.Buttons
		switch {
		case pressed.Contain(pointer.ButtonPrimary):
			double := ev.Time-a.lastPress < doubleClickDelay && a.lastPressAt.DistanceTo(mp) < doubleClickSlop
			a.lastPress, a.lastPressAt = ev.Time, mp
			m.MouseLeftDown(mp)
			if double {
				a.lastPress = 0
				if req, ok := m.MouseLeftDoubleClick(mp); ok {
					a.openEdit(req)
				}
			}
		case pressed.Contain(pointer.ButtonSecondary), pressed.Contain(pointer.ButtonTertiary):
			m.MouseMiddleOrRightDown(mp)
		}

	case pointer.Release:
		released := a.buttons &^ ev.Buttons
		a.buttons = ev.Buttons
		if released.Contain(pointer.ButtonPrimary) {
			m.MouseLeftUp(mp)
		}
		if released.Contain(pointer.ButtonSecondary) {
			m.MouseRightUp(mp)
		}

	case pointer.Move, pointer.Drag:
		m.MouseMoved(mp, interact.Buttons{
			Left:   ev.Buttons.Contain(pointer.ButtonPrimary),
			Middle: ev.Buttons.Contain(pointer.ButtonTertiary),
			Right:  ev.Buttons.Contain(pointer.ButtonSecondary),
		}, interact.Mods{
			Shift: ev.Modifiers.Contain(key.ModShift),
			Ctrl:  ev.Modifiers.Contain(key.ModCtrl),
		})

	case pointer.Scroll:
		switch {
		case ev.Scroll.Y < 0:
			m.MouseScroll(mp, 1)
		case ev.Scroll.Y > 0:
			m.MouseScroll(mp, -1)
		}

	case pointer.Leave:
		m.MouseLeave()
	}
}

func (a *App) key(ev key.Event) {
	if ev.State != key.Press {
		return
	}
	switch ev.Name {
	case key.NameEscape, key.NameDeleteBackward:
		a.session.Machine.Escape()
	case "Z":
		if ev.Modifiers.Contain(key.ModShift) {
			a.redo()
		} else {
			a.undo()
		}
	}
}

func (a *App) undo() {
	if !a.session.Undo() {
		a.Logf("nothing to undo")
	}
}

func (a *App) redo() {
	if !a.session.Redo() {
		a.Logf("nothing to redo")
	}
}

func (a *App) openEdit(req interact.EditRequest) {
	a.edit = &dimensionEdit{req: req}
	a.editor.SetText(req.Text)
	a.editor.SetCaret(len(req.Text), 0)
}

// layoutEdit draws the open dimension editor over its label.
func (a *App) layoutEdit(gtx layout.Context) {
	m := a.session.Machine
	if a.edit == nil {
		return
	}
	if !m.Editing() {
		a.edit = nil
		return
	}
	for {
		ev, ok := a.editor.Update(gtx)
		if !ok {
			break
		}
		if sub, ok := ev.(widget.SubmitEvent); ok {
			a.edit = nil
			if err := m.EditDone(strings.TrimSpace(sub.Text)); err != nil {
				a.Logf("%v", err)
			}
			return
		}
	}
	for {
		ev, ok := gtx.Event(key.Filter{Focus: &a.editor, Name: key.NameEscape})
		if !ok {
			break
		}
		if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
			a.edit = nil
			m.EditCancel()
			return
		}
	}

	x, y := a.session.Camera.ToPixel(a.edit.req.At)
	width := gtx.Sp(unit.Sp(9)) * a.edit.req.MinWidth
	defer op.Offset(image.Pt(int(x)-width/2, int(y)-gtx.Dp(12))).Push(gtx.Ops).Pop()
	gtx.Constraints = layout.Exact(image.Pt(width, gtx.Dp(24)))
	paint.FillShape(gtx.Ops, a.theme.Palette.Bg, clip.Rect{Max: gtx.Constraints.Max}.Op())
	layout.UniformInset(unit.Dp(2)).Layout(gtx, material.Editor(a.theme.Theme, &a.editor, "").Layout)
	gtx.Execute(key.FocusCmd{Tag: &a.editor})
}

func (a *App) applyPalette() {
	if a.darkMode.Value {
		a.theme.WithPalette(theme.Palette{
			Bg:         color.NRGBA{R: 18, G: 20, B: 26, A: 255},
			Fg:         color.NRGBA{R: 233, G: 236, B: 245, A: 255},
			ContrastBg: color.NRGBA{R: 120, G: 150, B: 255, A: 255},
			ContrastFg: color.NRGBA{R: 12, G: 16, B: 24, A: 255},
			Bg2:        color.NRGBA{R: 34, G: 40, B: 50, A: 255},
		})
	} else {
		a.theme.WithPalette(theme.Palette{
			Bg:         color.NRGBA{R: 245, G: 247, B: 253, A: 255},
			Fg:         color.NRGBA{R: 34, G: 37, B: 49, A: 255},
			ContrastBg: color.NRGBA{R: 80, G: 120, B: 255, A: 255},
			ContrastFg: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			Bg2:        color.NRGBA{R: 225, G: 230, B: 244, A: 255},
		})
	}
}

// Logf records a message in the status line and the log.
func (a *App) Logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	entry := fmt.Sprintf("[%s] %s", time.Now().Format(time.Stamp), msg)
	a.logs = append(a.logs, entry)
	if len(a.logs) > maxLogEntries {
		a.logs = a.logs[len(a.logs)-maxLogEntries:]
	}
	a.status = msg
	a.log.Debug("status", "msg", msg)
	a.window.Invalidate()
}
