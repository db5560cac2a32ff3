package ui

import (
	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/interact"
)

type tool struct {
	cmd   interact.Command
	icon  *widget.Icon
	click widget.Clickable
}

var toolIcons = map[interact.Command][]byte{
	interact.CmdDatumPoint:    icons.ImageLens,
	interact.CmdWorkplane:     icons.ImageGridOn,
	interact.CmdLineSegment:   icons.ActionTimeline,
	interact.CmdConstrSegment: icons.ContentRemove,
	interact.CmdCircle:        icons.ImagePanoramaFishEye,
	interact.CmdArc:           icons.ImageBrightness3,
	interact.CmdRectangle:     icons.ImageCropSquare,
	interact.CmdCubic:         icons.EditorShowChart,
	interact.CmdTTFText:       icons.EditorTitle,
	interact.CmdComment:       icons.CommunicationComment,
}

var (
	undoIcon = mustIcon(icons.ContentUndo)
	redoIcon = mustIcon(icons.ContentRedo)
)

func mustIcon(data []byte) *widget.Icon {
	icon, err := widget.NewIcon(data)
	if err != nil {
		panic(err)
	}
	return icon
}

func (a *App) initTools() {
	for _, c := range interact.Commands() {
		icon, err := widget.NewIcon(toolIcons[c])
		if err != nil {
			a.log.Warn("missing tool icon", "command", c, "err", err)
			continue
		}
		a.tools = append(a.tools, tool{cmd: c, icon: icon})
	}
}

// handleToolbar applies the clicks of the previous frame.
func (a *App) handleToolbar(gtx layout.Context) {
	m := a.session.Machine
	for i := range a.tools {
		t := &a.tools[i]
		if t.click.Clicked(gtx) {
			if err := m.Begin(t.cmd); err != nil {
				a.log.Debug("command refused", "command", t.cmd, "err", err)
			}
		}
	}
	if a.undoBtn.Clicked(gtx) {
		a.undo()
	}
	if a.redoBtn.Clicked(gtx) {
		a.redo()
	}
	if a.inPlane.Update(gtx) {
		m.Escape()
		if err := a.session.SetWorkplane(a.inPlane.Value); err != nil {
			a.Logf("%v", err)
		}
		a.inPlane.Value = a.session.Sketch.LockedInWorkplane()
	}
	if a.darkMode.Update(gtx) {
		a.applyPalette()
	}
}

func (a *App) layoutToolbar(gtx layout.Context) layout.Dimensions {
	th := a.theme.Theme
	button := func(click *widget.Clickable, icon *widget.Icon, desc string) layout.FlexChild {
		return layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			btn := material.IconButton(th, click, icon, desc)
			btn.Size = unit.Dp(20)
			btn.Inset = layout.UniformInset(unit.Dp(6))
			if a.session.Machine.Mode() != interact.ModeNone && desc == a.activeTool() {
				btn.Background = th.Palette.ContrastBg
			} else {
				btn.Background = a.theme.Bg2
				btn.Color = th.Palette.Fg
			}
			return layout.UniformInset(unit.Dp(2)).Layout(gtx, btn.Layout)
		})
	}

	children := make([]layout.FlexChild, 0, len(a.tools)+6)
	for i := range a.tools {
		t := &a.tools[i]
		children = append(children, button(&t.click, t.icon, t.cmd.String()))
	}
	children = append(children,
		layout.Rigid(layout.Spacer{Width: unit.Dp(12)}.Layout),
		button(&a.undoBtn, undoIcon, "undo"),
		button(&a.redoBtn, redoIcon, "redo"),
		layout.Rigid(layout.Spacer{Width: unit.Dp(12)}.Layout),
		layout.Rigid(material.CheckBox(th, &a.inPlane, "In Workplane").Layout),
		layout.Rigid(material.CheckBox(th, &a.darkMode, "Dark").Layout),
	)
	return layout.UniformInset(unit.Dp(4)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx, children...)
	})
}

// activeTool names the command being placed, if any.
func (a *App) activeTool() string {
	c := a.session.Machine.Pending().Command
	if c == interact.CmdNone {
		return ""
	}
	return c.String()
}
