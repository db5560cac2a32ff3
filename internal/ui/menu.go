package ui

import (
	"image"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"github.com/oligo/gioview/menu"
	"github.com/oligo/gioview/theme"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/interact"
)

// popupMenu shows the context menu as a dropdown at the cursor. Choose
// runs a nested event loop until an item is clicked, the user clicks
// elsewhere, or Escape is pressed.
type popupMenu struct {
	app     *App
	dismiss int // pointer tag for the area around the menu
}

func (p *popupMenu) Choose(at geom.Point2d, items []interact.ContextCommand) interact.ContextCommand {
	a := p.app
	if len(items) == 0 {
		return interact.ContextCancelled
	}

	choice := interact.ContextCancelled
	done := false
	opts := make([]menu.MenuOption, 0, len(items))
	for _, it := range items {
		item := it
		opts = append(opts, menu.MenuOption{
			OnClicked: func() error {
				choice, done = item, true
				return nil
			},
			Layout: func(gtx menu.C, th *theme.Theme) menu.D {
				return layout.Inset{Left: unit.Dp(4), Right: unit.Dp(4)}.Layout(gtx, material.Body1(th.Theme, item.String()).Layout)
			},
		})
	}
	drop := menu.NewDropdownMenu([][]menu.MenuOption{opts})
	drop.MaxWidth = unit.Dp(260)

	x, y := a.session.Camera.ToPixel(at)
	anchor := a.canvasOrigin.Add(image.Pt(int(x), int(y)))
	opened := false

	for !done {
		switch ev := a.window.Event().(type) {
		case app.DestroyEvent:
			a.destroyed, a.destroyErr = true, ev.Err
			return interact.ContextCancelled
		case app.FrameEvent:
			gtx := app.NewContext(&a.ops, ev)
			if p.dismissed(gtx) {
				done = true
			}
			a.layout(gtx)

			area := clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops)
			event.Op(gtx.Ops, &p.dismiss)
			area.Pop()

			off := op.Offset(anchor).Push(gtx.Ops)
			if !opened {
				drop.ToggleVisibility(gtx)
				opened = true
			}
			drop.Layout(gtx, a.theme)
			off.Pop()
			ev.Frame(gtx.Ops)
		}
	}
	// Input that arrived while the menu was open belongs to the menu.
	a.queue = nil
	a.window.Invalidate()
	return choice
}

func (p *popupMenu) dismissed(gtx layout.Context) bool {
	hit := false
	for {
		ev, ok := gtx.Event(
			pointer.Filter{Target: &p.dismiss, Kinds: pointer.Press},
			key.Filter{Name: key.NameEscape},
		)
		if !ok {
			break
		}
		switch ev := ev.(type) {
		case pointer.Event:
			hit = true
		case key.Event:
			hit = hit || ev.State == key.Press
		}
	}
	return hit
}
