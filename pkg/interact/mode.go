package interact

import "fmt"

// Mode is the kind of the pending operation. Exactly one is active.
type Mode int

const (
	ModeNone Mode = iota
	ModeCommand

	// Creation family: a command is shaping the geometry it just made.
	ModeDraggingNewPoint
	ModeDraggingNewLinePoint
	ModeDraggingNewArcPoint
	ModeDraggingNewCubicPoint
	ModeDraggingNewRadius

	// Edit-drag family: entered from a press on existing geometry.
	ModeDraggingPoints
	ModeDraggingRadius
	ModeDraggingNormal
	ModeDraggingConstraint
	ModeDraggingMarquee
)

var modeNames = map[Mode]string{
	ModeNone:                  "NONE",
	ModeCommand:               "COMMAND",
	ModeDraggingNewPoint:      "DRAGGING_NEW_POINT",
	ModeDraggingNewLinePoint:  "DRAGGING_NEW_LINE_POINT",
	ModeDraggingNewArcPoint:   "DRAGGING_NEW_ARC_POINT",
	ModeDraggingNewCubicPoint: "DRAGGING_NEW_CUBIC_POINT",
	ModeDraggingNewRadius:     "DRAGGING_NEW_RADIUS",
	ModeDraggingPoints:        "DRAGGING_POINTS",
	ModeDraggingRadius:        "DRAGGING_RADIUS",
	ModeDraggingNormal:        "DRAGGING_NORMAL",
	ModeDraggingConstraint:    "DRAGGING_CONSTRAINT",
	ModeDraggingMarquee:       "DRAGGING_MARQUEE",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// IsCreation reports whether m belongs to the creation family.
func (m Mode) IsCreation() bool {
	return m >= ModeDraggingNewPoint && m <= ModeDraggingNewRadius
}

// IsEditDrag reports whether m belongs to the edit-drag family.
func (m Mode) IsEditDrag() bool {
	return m >= ModeDraggingPoints && m <= ModeDraggingMarquee
}
