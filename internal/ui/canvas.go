package ui

import (
	"image"
	"image/color"
	"strconv"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/widget/material"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/handle"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/pick"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/sketch"
)

var (
	colorConstruction = color.NRGBA{R: 40, G: 160, B: 80, A: 255}
	colorHover        = color.NRGBA{R: 230, G: 180, B: 0, A: 255}
	colorSelected     = color.NRGBA{R: 220, G: 50, B: 50, A: 255}
	colorWorkplane    = color.NRGBA{R: 120, G: 120, B: 140, A: 160}
	colorConstraint   = color.NRGBA{R: 200, G: 60, B: 200, A: 255}
)

const pointSize = 3

func (a *App) layoutCanvas(gtx layout.Context) layout.Dimensions {
	size := gtx.Constraints.Max
	a.session.Camera.Resize(size.X, size.Y)
	a.collectInput(gtx)

	area := clip.Rect{Max: size}.Push(gtx.Ops)
	event.Op(gtx.Ops, a)
	pointer.CursorCrosshair.Add(gtx.Ops)
	a.drawSketch(gtx)
	a.drawOverlays(gtx)
	a.layoutEdit(gtx)
	area.Pop()

	return layout.Dimensions{Size: size}
}

func (a *App) px(v geom.Vector) f32.Point {
	x, y := a.session.Camera.ToPixel(a.session.Camera.Project(v))
	return f32.Pt(float32(x), float32(y))
}

func (a *App) pxScreen(p geom.Point2d) f32.Point {
	x, y := a.session.Camera.ToPixel(p)
	return f32.Pt(float32(x), float32(y))
}

// itemColor picks the draw color for an entity or constraint.
func (a *App) itemColor(it pick.Item, base color.NRGBA) color.NRGBA {
	pk := a.session.Picker
	switch {
	case pk.Hover() == it:
		return colorHover
	case pk.IsSelected(it):
		return colorSelected
	}
	return base
}

func (a *App) drawSketch(gtx layout.Context) {
	sk := a.session.Sketch
	fg := a.theme.Palette.Fg
	visible := func(g handle.Handle) bool {
		gr, ok := sk.Group(g)
		return ok && gr.Visible
	}

	var points []handle.Handle
	for _, eh := range sk.Entities() {
		e, ok := sk.Entity(eh)
		if !ok || !visible(e.Group) {
			continue
		}
		if e.IsPoint() {
			points = append(points, eh)
			continue
		}
		base := fg
		width := float32(1.5)
		switch {
		case e.Type == sketch.EntityWorkplane:
			base, width = colorWorkplane, 1
		case e.Construction:
			base = colorConstruction
		}
		outline := sk.Outline(eh)
		pts := make([]f32.Point, len(outline))
		for i, v := range outline {
			pts[i] = a.px(v)
		}
		strokePolyline(gtx.Ops, pts, width, a.itemColor(pick.EntityItem(eh), base))
	}

	// Points go on top so they stay grabbable.
	for _, eh := range points {
		col := a.itemColor(pick.EntityItem(eh), fg)
		p := a.px(sk.PointPos(eh))
		r := image.Rect(int(p.X)-pointSize, int(p.Y)-pointSize, int(p.X)+pointSize+1, int(p.Y)+pointSize+1)
		paint.FillShape(gtx.Ops, col, clip.Rect(r).Op())
	}

	for _, ch := range sk.Constraints() {
		c, ok := sk.Constraint(ch)
		if !ok || !c.HasLabel() || !visible(c.Group) {
			continue
		}
		a.label(gtx, a.px(sk.LabelPos(ch)), labelText(c), a.itemColor(pick.ConstraintItem(ch), colorConstraint))
	}
}

func labelText(c *sketch.Constraint) string {
	var s string
	switch c.Type {
	case sketch.ConstraintComment:
		return c.Comment
	case sketch.ConstraintAngle:
		s = strconv.FormatFloat(c.Value, 'f', 1, 64) + "°"
	case sketch.ConstraintLengthRatio:
		s = strconv.FormatFloat(c.Value, 'f', 3, 64)
	case sketch.ConstraintDiameter:
		if c.Other {
			s = "R" + strconv.FormatFloat(c.Value/2, 'f', 2, 64)
		} else {
			s = "⌀" + strconv.FormatFloat(c.Value, 'f', 2, 64)
		}
	default:
		s = strconv.FormatFloat(c.Value, 'f', 2, 64)
	}
	if c.Reference {
		s += " REF"
	}
	return s
}

// drawOverlays draws the marquee and the rotation guide line.
func (a *App) drawOverlays(gtx layout.Context) {
	m := a.session.Machine
	if p, q, ok := m.Marquee(); ok {
		pa, pb := a.pxScreen(p), a.pxScreen(q)
		rect := []f32.Point{pa, f32.Pt(pb.X, pa.Y), pb, f32.Pt(pa.X, pb.Y), pa}
		fill := a.theme.Palette.ContrastBg
		fill.A = 0x30
		r := image.Rectangle{
			Min: image.Pt(int(min(pa.X, pb.X)), int(min(pa.Y, pb.Y))),
			Max: image.Pt(int(max(pa.X, pb.X)), int(max(pa.Y, pb.Y))),
		}
		paint.FillShape(gtx.Ops, fill, clip.Rect(r).Op())
		strokePolyline(gtx.Ops, rect, 1, a.theme.Palette.ContrastBg)
	}
	if el := m.ExtraLine(); el.Draw {
		strokePolyline(gtx.Ops, []f32.Point{a.px(el.A), a.px(el.B)}, 1, colorHover)
	}
}

func (a *App) label(gtx layout.Context, at f32.Point, txt string, col color.NRGBA) {
	defer op.Offset(image.Pt(int(at.X), int(at.Y))).Push(gtx.Ops).Pop()
	gtx.Constraints.Min = image.Point{}
	l := material.Caption(a.theme.Theme, txt)
	l.Color = col
	l.Layout(gtx)
}

func strokePolyline(ops *op.Ops, pts []f32.Point, width float32, col color.NRGBA) {
	if len(pts) < 2 {
		return
	}
	var p clip.Path
	p.Begin(ops)
	p.MoveTo(pts[0])
	for _, q := range pts[1:] {
		p.LineTo(q)
	}
	paint.FillShape(ops, col, clip.Stroke{Path: p.End(), Width: width}.Op())
}
