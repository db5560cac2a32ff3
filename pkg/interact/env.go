package interact

import (
	"log/slog"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/handle"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/pick"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/sketch"
)

// Store is the sketch store. All geometry edits go through it.
type Store interface {
	Group(h handle.Handle) (*sketch.Group, bool)
	Request(h handle.Handle) (*sketch.Request, bool)
	Entity(h handle.Handle) (*sketch.Entity, bool)
	Constraint(h handle.Handle) (*sketch.Constraint, bool)
	RequestOf(eh handle.Handle) handle.Handle

	AddRequest(t sketch.RequestType) handle.Handle
	RemoveRequest(h handle.Handle) error
	SetRequestType(h handle.Handle, t sketch.RequestType, extraPoints int) error
	SetExtraPoints(h handle.Handle, extraPoints int) error
	SetConstruction(h handle.Handle, construction bool)
	SetText(h handle.Handle, str, font string)

	PointPos(h handle.Handle) geom.Vector
	SetPoint(h handle.Handle, pos geom.Vector)
	PointOrientation(h handle.Handle) geom.Quaternion
	SetPointOrientation(h handle.Handle, q geom.Quaternion)
	NormalOrientation(h handle.Handle) geom.Quaternion
	SetNormal(h handle.Handle, q geom.Quaternion)
	SetDistance(h handle.Handle, d float64)
	SetLabelOffset(h handle.Handle, off geom.Vector)
	LabelPos(h handle.Handle) geom.Vector
	NearestSplinePoint(eh handle.Handle, project func(geom.Vector) geom.Point2d, p geom.Point2d) int

	MarkGroupDirty(g handle.Handle)
	MarkDirtyByEntity(eh handle.Handle)
	Regenerate()

	LockedInWorkplane() bool
	SetGroupVisible(g handle.Handle, visible bool)
}

// Constraints is the constraint authority.
type Constraints interface {
	Constrain(t sketch.ConstraintType, ptA, ptB, entity handle.Handle) handle.Handle
	ConstrainCoincident(a, b handle.Handle) handle.Handle
	AddConstraint(c sketch.Constraint) handle.Handle
	RemoveConstraint(h handle.Handle) error
	SetConstraintValue(h handle.Handle, v float64) error
	SetConstraintComment(h handle.Handle, text string) error
	SetConstraintReference(h handle.Handle, reference bool) error
	ConstraintsOn(t sketch.ConstraintType, h handle.Handle) []handle.Handle
	ReplacePointInConstraints(from, to handle.Handle)
}

// Picker owns hover and selection and hit-tests the sketch.
type Picker interface {
	HitTest(mp geom.Point2d, skip func(handle.Handle) bool)
	Hover() pick.Item
	ClearHover()
	ChooseFromHoverToDrag() handle.Handle

	IsSelected(it pick.Item) bool
	Select(it pick.Item)
	Unselect(it pick.Item)
	ClearSelection()
	SelectionCount() int
	Selection() []pick.Item
	SelectAll()
	SelectByMarquee(a, b geom.Point2d)
	Summarize() pick.Summary
}

// Undoer snapshots the sketch before a gesture mutates it.
type Undoer interface {
	Remember()
}

// View is the camera.
type View interface {
	Scale() float64
	Offset() geom.Vector
	ProjRight() geom.Vector
	ProjUp() geom.Vector
	SetOffset(o geom.Vector)
	SetOrientation(right, up geom.Vector)
	Project(v geom.Vector) geom.Point2d
	UnProject(p geom.Point2d) geom.Vector
	ZoomAt(p geom.Point2d, factor float64)
}

// Reporter shows precondition failures to the user.
type Reporter interface {
	Error(err error)
}

// Suggester proposes a horizontal or vertical constraint for a line
// segment request.
type Suggester interface {
	SuggestLineConstraint(req handle.Handle) (sketch.ConstraintType, bool)
}

// ContextMenu asks the user to pick one of items. Returning
// ContextCancelled means nothing was picked.
type ContextMenu interface {
	Choose(at geom.Point2d, items []ContextCommand) ContextCommand
}

// Env is everything a Machine works with. Store, Constraints, Picker, Undo
// and View are required.
type Env struct {
	Store       Store
	Constraints Constraints
	Picker      Picker
	Undo        Undoer
	View        View
	Reporter    Reporter
	Suggester   Suggester
	Menu        ContextMenu

	Config Config
	Log    *slog.Logger
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(err error)

func (f ReporterFunc) Error(err error) { f(err) }
