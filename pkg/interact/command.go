package interact

import (
	"errors"
	"fmt"
	"strings"
)

// Command is a toolbar or menu command that starts a construction.
type Command int

const (
	CmdNone Command = iota
	CmdDatumPoint
	CmdWorkplane
	CmdLineSegment
	CmdConstrSegment
	CmdCircle
	CmdArc
	CmdRectangle
	CmdCubic
	CmdTTFText
	CmdComment
)

type commandInfo struct {
	name        string
	aliases     []string
	description string
}

var commandTable = map[Command]commandInfo{
	CmdDatumPoint:    {"datum-point", []string{"point"}, "click to place datum point"},
	CmdWorkplane:     {"workplane", nil, "click origin of workplane"},
	CmdLineSegment:   {"line-segment", []string{"line"}, "click first point of line segment"},
	CmdConstrSegment: {"construction-line-segment", []string{"construction"}, "click first point of construction line segment"},
	CmdCircle:        {"circle", nil, "click center of circle"},
	CmdArc:           {"arc", nil, "click point on arc (draws anti-clockwise)"},
	CmdRectangle:     {"rectangle", []string{"rect"}, "click one corner of rectangle"},
	CmdCubic:         {"cubic", []string{"spline"}, "click first point of cubic segment"},
	CmdTTFText:       {"ttf-text", []string{"text"}, "click top left of text"},
	CmdComment:       {"comment", nil, "click center of comment text"},
}

// Commands lists the commands in toolbar order.
func Commands() []Command {
	return []Command{
		CmdDatumPoint, CmdWorkplane, CmdLineSegment, CmdConstrSegment, CmdCircle,
		CmdArc, CmdRectangle, CmdCubic, CmdTTFText, CmdComment,
	}
}

func (c Command) String() string {
	if info, ok := commandTable[c]; ok {
		return info.name
	}
	if c == CmdNone {
		return "none"
	}
	return fmt.Sprintf("Command(%d)", c)
}

// ParseCommand accepts a command name or a short alias such as "line".
func ParseCommand(s string) (Command, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, info := range commandTable {
		if info.name == s {
			return c, nil
		}
		for _, a := range info.aliases {
			if a == s {
				return c, nil
			}
		}
	}
	return CmdNone, fmt.Errorf("interact: unknown command %q", s)
}

// needsWorkplane reports whether c can only be drawn locked to a workplane.
func (c Command) needsWorkplane() bool {
	switch c {
	case CmdArc, CmdRectangle, CmdTTFText:
		return true
	}
	return false
}

// Precondition failures. They are reported through Env.Reporter and the
// pending operation is cleared.
var (
	ErrNoWorkplane       = errors.New("activate a workplane first with Sketch -> In Workplane")
	ErrInWorkplane       = errors.New("sketching in a workplane already; sketch in 3d before creating new workplane")
	ErrSplinePointBudget = errors.New("cannot add spline point: maximum number of points reached")
)

func noWorkplaneError(c Command) error {
	what := "text"
	switch c {
	case CmdArc:
		what = "arc"
	case CmdRectangle:
		what = "rectangle"
	}
	return fmt.Errorf("can't draw %s in 3d: %w", what, ErrNoWorkplane)
}
