package interact

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
)

// handlerKind tags which interaction handler owns a command. The set is
// closed, so handlers are selected by switching on the tag.
type handlerKind int

const (
	handlerNone handlerKind = iota
	// handlerRequest creates requests (points, lines, curves, text).
	handlerRequest
	// handlerComment creates a comment constraint with no geometry.
	handlerComment
)

func (c Command) handler() handlerKind {
	switch c {
	case CmdNone:
		return handlerNone
	case CmdComment:
		return handlerComment
	}
	if _, ok := commandTable[c]; ok {
		return handlerRequest
	}
	return handlerNone
}

func unhandled(what string, m Mode) string {
	return fmt.Sprintf("interact: %s with unexpected pending operation %s", what, m)
}

// menu enters COMMAND mode for c.
func (m *Machine) menu(c Command) {
	switch c.handler() {
	case handlerRequest, handlerComment:
		m.pending = Pending{Mode: ModeCommand, Command: c, Description: m.commandDescription(c)}
		m.log.Debug("pending operation", "from", ModeNone, "to", ModeCommand, "command", c)
	default:
		panic(fmt.Sprintf("interact: no handler for command %s", c))
	}
}

func (m *Machine) commandDescription(c Command) string {
	switch c.handler() {
	case handlerRequest, handlerComment:
		return commandTable[c].description
	}
	return ""
}

// commandMoved shapes the geometry of the running command.
func (m *Machine) commandMoved(mp geom.Point2d, mods Mods) {
	switch m.pending.Command.handler() {
	case handlerRequest:
		m.requestMoved(mp, mods)
	case handlerComment:
		// A comment is placed in one click; there is nothing to shape.
	default:
		panic(unhandled("move", m.pending.Mode))
	}
}

// commandLeftDown starts or continues the running command at v.
func (m *Machine) commandLeftDown(v geom.Vector) {
	switch m.pending.Command.handler() {
	case handlerRequest:
		m.requestLeftDown(v)
	case handlerComment:
		m.commentLeftDown(v)
	default:
		panic(unhandled("left down", m.pending.Mode))
	}
}

// commandRightUp ends a chain.
func (m *Machine) commandRightUp(mp geom.Point2d) {
	switch m.pending.Command.handler() {
	case handlerRequest:
		m.requestRightUp(mp)
	default:
		panic(unhandled("right up", m.pending.Mode))
	}
}
