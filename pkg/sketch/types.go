package sketch

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/handle"
)

// GroupType distinguishes plain drawing groups from imported parts.
type GroupType int

const (
	GroupDrawing3D GroupType = iota
	GroupDrawingWorkplane
	// GroupLinked holds an imported part whose points carry a shared
	// translation and rotation.
	GroupLinked
)

var groupTypeNames = map[GroupType]string{
	GroupDrawing3D:        "drawing-3d",
	GroupDrawingWorkplane: "drawing-workplane",
	GroupLinked:           "linked",
}

func (t GroupType) String() string {
	if name, ok := groupTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("GroupType(%d)", t)
}

// Group is one construction group: the batch of entities generated together.
type Group struct {
	Name      string
	Type      GroupType
	Workplane handle.Handle // workplane entity the group is locked to, or Nil
	Visible   bool
}

// RequestType is the kind of geometry a user asked for.
type RequestType int

const (
	RequestDatumPoint RequestType = iota
	RequestWorkplane
	RequestLineSegment
	RequestCircle
	RequestArcOfCircle
	RequestCubic
	RequestCubicPeriodic
	RequestTTFText
)

var requestTypeNames = map[RequestType]string{
	RequestDatumPoint:    "datum-point",
	RequestWorkplane:     "workplane",
	RequestLineSegment:   "line-segment",
	RequestCircle:        "circle",
	RequestArcOfCircle:   "arc-of-circle",
	RequestCubic:         "cubic",
	RequestCubicPeriodic: "cubic-periodic",
	RequestTTFText:       "ttf-text",
}

func (t RequestType) String() string {
	if name, ok := requestTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("RequestType(%d)", t)
}

// Request is the persistent record of user-requested geometry. Its entities
// are regenerated from it.
type Request struct {
	Type         RequestType
	Group        handle.Handle
	Workplane    handle.Handle
	Construction bool
	ExtraPoints  int

	Str  string
	Font string

	// Generated entities. Entity is the primary entity; Points are indexed in
	// slot order.
	Entity   handle.Handle
	Points   []handle.Handle
	Normal   handle.Handle
	Distance handle.Handle
}

// Point returns the handle of point slot i, or Nil when out of range.
func (r *Request) Point(i int) handle.Handle {
	if i < 0 || i >= len(r.Points) {
		return handle.Nil
	}
	return r.Points[i]
}

// IndexOfPoint returns the slot of pt in r, or -1.
func (r *Request) IndexOfPoint(pt handle.Handle) int {
	for i, p := range r.Points {
		if p == pt {
			return i
		}
	}
	return -1
}

// EntityType is the kind of a generated entity.
type EntityType int

const (
	EntityPointIn3d EntityType = iota
	EntityPointIn2d
	// EntityPointNTrans and EntityPointNRotTrans are transform-carrying
	// points of linked groups.
	EntityPointNTrans
	EntityPointNRotTrans
	EntityNormalIn3d
	EntityNormalIn2d
	EntityDistance
	EntityWorkplane
	EntityLineSegment
	EntityCircle
	EntityArcOfCircle
	EntityCubic
	EntityCubicPeriodic
	EntityTTFText
)

var entityTypeNames = map[EntityType]string{
	EntityPointIn3d:      "point-in-3d",
	EntityPointIn2d:      "point-in-2d",
	EntityPointNTrans:    "point-n-trans",
	EntityPointNRotTrans: "point-n-rot-trans",
	EntityNormalIn3d:     "normal-in-3d",
	EntityNormalIn2d:     "normal-in-2d",
	EntityDistance:       "distance",
	EntityWorkplane:      "workplane",
	EntityLineSegment:    "line-segment",
	EntityCircle:         "circle",
	EntityArcOfCircle:    "arc-of-circle",
	EntityCubic:          "cubic",
	EntityCubicPeriodic:  "cubic-periodic",
	EntityTTFText:        "ttf-text",
}

func (t EntityType) String() string {
	if name, ok := entityTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("EntityType(%d)", t)
}

// Entity is generated geometry. Points, normals and distances hold their own
// numeric values; composite entities refer to them by handle.
type Entity struct {
	Type         EntityType
	Group        handle.Handle
	Request      handle.Handle
	Workplane    handle.Handle
	Construction bool

	Points      []handle.Handle
	Normal      handle.Handle
	Distance    handle.Handle
	ExtraPoints int

	Pos    geom.Vector     // points
	Orient geom.Quaternion // normals and rotating points
	Value  float64         // distances
}

// IsPoint reports whether e is any kind of point.
func (e *Entity) IsPoint() bool {
	switch e.Type {
	case EntityPointIn3d, EntityPointIn2d, EntityPointNTrans, EntityPointNRotTrans:
		return true
	}
	return false
}

// IsTransformPoint reports whether e is a point whose free parameters are a
// group-wide transform rather than its own coordinates.
func (e *Entity) IsTransformPoint() bool {
	return e.Type == EntityPointNTrans || e.Type == EntityPointNRotTrans
}

// IsNormal reports whether e carries an orientation.
func (e *Entity) IsNormal() bool {
	return e.Type == EntityNormalIn3d || e.Type == EntityNormalIn2d
}

// IsCircle reports whether e is a circle or an arc of one.
func (e *Entity) IsCircle() bool {
	return e.Type == EntityCircle || e.Type == EntityArcOfCircle
}

// HasEndpoints reports whether e is an open curve with a start and an end.
func (e *Entity) HasEndpoints() bool {
	switch e.Type {
	case EntityLineSegment, EntityArcOfCircle, EntityCubic:
		return true
	}
	return false
}

// ConstraintType is the kind of a constraint.
type ConstraintType int

const (
	ConstraintPointsCoincident ConstraintType = iota
	ConstraintHorizontal
	ConstraintVertical
	ConstraintPtOnCircle
	ConstraintPtOnLine
	ConstraintPtPtDistance
	ConstraintPtLineDistance
	ConstraintProjPtDistance
	ConstraintPtPlaneDistance
	ConstraintLengthDifference
	ConstraintDiameter
	ConstraintAngle
	ConstraintLengthRatio
	ConstraintComment
)

var constraintTypeNames = map[ConstraintType]string{
	ConstraintPointsCoincident: "points-coincident",
	ConstraintHorizontal:       "horizontal",
	ConstraintVertical:         "vertical",
	ConstraintPtOnCircle:       "pt-on-circle",
	ConstraintPtOnLine:         "pt-on-line",
	ConstraintPtPtDistance:     "pt-pt-distance",
	ConstraintPtLineDistance:   "pt-line-distance",
	ConstraintProjPtDistance:   "proj-pt-distance",
	ConstraintPtPlaneDistance:  "pt-plane-distance",
	ConstraintLengthDifference: "length-difference",
	ConstraintDiameter:         "diameter",
	ConstraintAngle:            "angle",
	ConstraintLengthRatio:      "length-ratio",
	ConstraintComment:          "comment",
}

func (t ConstraintType) String() string {
	if name, ok := constraintTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ConstraintType(%d)", t)
}

// Constraint relates points and entities.
type Constraint struct {
	Type      ConstraintType
	Group     handle.Handle
	Workplane handle.Handle
	PtA       handle.Handle
	PtB       handle.Handle
	EntityA   handle.Handle

	Value     float64
	Reference bool
	// Other is the constraint's display variant, e.g. a diameter shown as a
	// radius.
	Other   bool
	Comment string

	// LabelOffset positions the dimension label relative to its anchor.
	LabelOffset geom.Vector
}

// HasLabel reports whether the constraint draws a draggable label.
func (c *Constraint) HasLabel() bool {
	switch c.Type {
	case ConstraintPtPtDistance, ConstraintPtLineDistance, ConstraintProjPtDistance,
		ConstraintPtPlaneDistance, ConstraintLengthDifference, ConstraintDiameter,
		ConstraintAngle, ConstraintLengthRatio, ConstraintComment:
		return true
	}
	return false
}

// References reports whether the constraint mentions h as a point or entity.
func (c *Constraint) References(h handle.Handle) bool {
	return c.PtA == h || c.PtB == h || c.EntityA == h
}
