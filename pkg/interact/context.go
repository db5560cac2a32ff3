package interact

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/handle"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/pick"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/sketch"
)

// ContextCommand is an item of the right-click menu.
type ContextCommand int

const (
	ContextCancelled ContextCommand = iota
	ContextUnselectAll
	ContextUnselectHovered
	ContextSelectAll
	ContextDeleteSel
	ContextConstruction
	ContextReferenceDim
	ContextDelCoincident
	ContextRemoveSplinePt
	ContextAddSplinePt
)

var contextNames = map[ContextCommand]string{
	ContextCancelled:       "Cancel",
	ContextUnselectAll:     "Unselect All",
	ContextUnselectHovered: "Unselect Hovered",
	ContextSelectAll:       "Select All",
	ContextDeleteSel:       "Delete",
	ContextConstruction:    "Toggle Construction",
	ContextReferenceDim:    "Toggle Reference Dimension",
	ContextDelCoincident:   "Delete Point-Coincident Constraint",
	ContextRemoveSplinePt:  "Remove Spline Point",
	ContextAddSplinePt:     "Add Spline Point",
}

func (c ContextCommand) String() string {
	if name, ok := contextNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ContextCommand(%d)", c)
}

// ParseContextCommand accepts a menu label in any case, with spaces or
// dashes, such as "delete" or "select-all".
func ParseContextCommand(s string) (ContextCommand, error) {
	norm := func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", " ")
	}
	key := norm(s)
	for c, name := range contextNames {
		if norm(name) == key {
			return c, nil
		}
	}
	return ContextCancelled, fmt.Errorf("interact: unknown context command %q", s)
}

// contextPlan is what the menu was built from; the chosen item runs
// against it.
type contextPlan struct {
	at      geom.Point2d
	v       geom.Vector
	summary pick.Summary
	hover   pick.Item

	spline      handle.Handle // request of the spline to grow
	insertAfter int           // slot the new spline point goes into
}

// contextMenu selects the hovered item, offers the commands that apply to
// the selection and runs the chosen one.
func (m *Machine) contextMenu(mp geom.Point2d) {
	pk := m.env.Picker
	plan := contextPlan{at: mp, v: m.env.View.UnProject(mp), hover: pk.Hover()}
	if !plan.hover.IsEmpty() {
		pk.Select(plan.hover)
	}
	plan.summary = pk.Summarize()

	items := m.contextItems(&plan)
	choice := ContextCancelled
	if m.env.Menu != nil {
		choice = m.env.Menu.Choose(mp, items)
	}
	m.log.Debug("context menu", "selection", plan.summary.String(), "items", len(items), "choice", choice)
	m.runContext(choice, &plan)
}

func (m *Machine) contextItems(plan *contextPlan) []ContextCommand {
	st := m.env.Store
	gs := plan.summary
	itemsSelected := gs.N() > 0 || len(gs.Constraints) > 0

	var items []ContextCommand
	if itemsSelected {
		if len(gs.Constraints) == 1 && gs.N() == 0 {
			if c, ok := st.Constraint(gs.Constraints[0]); ok && c.HasLabel() && c.Type != sketch.ConstraintComment {
				items = append(items, ContextReferenceDim)
			}
		}
		if len(gs.Points) == 1 {
			if r, ok := st.Request(st.RequestOf(gs.Points[0])); ok && r.ExtraPoints > 0 {
				idx := r.IndexOfPoint(gs.Points[0])
				if (r.Type == sketch.RequestCubic && idx > 1 && idx < r.ExtraPoints+2) ||
					r.Type == sketch.RequestCubicPeriodic {
					items = append(items, ContextRemoveSplinePt)
				}
			}
		}
		if len(gs.Entities) == 1 && len(gs.Points) == 0 {
			rh := st.RequestOf(gs.Entities[0])
			if r, ok := st.Request(rh); ok && (r.Type == sketch.RequestCubic || r.Type == sketch.RequestCubicPeriodic) {
				s := st.NearestSplinePoint(gs.Entities[0], m.env.View.Project, plan.at)
				if s < 0 {
					panic(fmt.Sprintf("interact: no spline point near %s on %s", plan.at, gs.Entities[0]))
				}
				plan.spline = rh
				plan.insertAfter = splineInsertSlot(r, s)
				items = append(items, ContextAddSplinePt)
			}
		}
		if gs.N() > 0 {
			items = append(items, ContextConstruction)
		}
		if len(gs.Points) == 1 && len(m.env.Constraints.ConstraintsOn(sketch.ConstraintPointsCoincident, gs.Points[0])) > 0 {
			items = append(items, ContextDelCoincident)
		}
	} else {
		items = append(items, ContextSelectAll)
	}
	if itemsSelected {
		items = append(items, ContextDeleteSel, ContextUnselectAll)
	}
	// With one item selected it is the hovered one, and Unselect All does
	// the same thing.
	if !plan.hover.IsEmpty() && m.env.Picker.SelectionCount() > 1 {
		items = append(items, ContextUnselectHovered)
	}
	return items
}

// splineInsertSlot is the slot a point added after on-curve slot s takes.
// Open splines keep their tangent controls next to the ends.
func splineInsertSlot(r *sketch.Request, s int) int {
	if r.Type == sketch.RequestCubicPeriodic {
		return s + 1
	}
	last := len(r.Points) - 1
	switch s {
	case 0:
		return 2
	case last:
		return last - 1
	}
	return s + 1
}

func (m *Machine) runContext(choice ContextCommand, plan *contextPlan) {
	st := m.env.Store
	pk := m.env.Picker
	gs := plan.summary

	switch choice {
	case ContextCancelled:

	case ContextUnselectAll:
		m.clearSuper()

	case ContextUnselectHovered:
		if !plan.hover.IsEmpty() {
			pk.Unselect(plan.hover)
		}

	case ContextSelectAll:
		pk.SelectAll()

	case ContextDeleteSel:
		m.env.Undo.Remember()
		m.deleteSelection(gs)
		m.clearSuper()

	case ContextConstruction:
		m.env.Undo.Remember()
		seen := make(map[handle.Handle]bool)
		for _, eh := range append(append([]handle.Handle(nil), gs.Entities...), gs.Points...) {
			rh := st.RequestOf(eh)
			r, ok := st.Request(rh)
			if !ok || seen[rh] {
				continue
			}
			seen[rh] = true
			st.SetConstruction(rh, !r.Construction)
		}
		pk.ClearSelection()

	case ContextReferenceDim:
		m.env.Undo.Remember()
		for _, ch := range gs.Constraints {
			if c, ok := st.Constraint(ch); ok && c.HasLabel() && c.Type != sketch.ConstraintComment {
				m.mustConstraint(m.env.Constraints.SetConstraintReference(ch, !c.Reference))
			}
		}
		pk.ClearSelection()

	case ContextDelCoincident:
		m.env.Undo.Remember()
		if len(gs.Points) > 0 {
			for _, ch := range m.env.Constraints.ConstraintsOn(sketch.ConstraintPointsCoincident, gs.Points[0]) {
				m.mustConstraint(m.env.Constraints.RemoveConstraint(ch))
			}
		}
		pk.ClearSelection()

	case ContextAddSplinePt:
		m.addSplinePoint(plan)

	case ContextRemoveSplinePt:
		m.removeSplinePoint(gs.Points[0])

	default:
		panic(fmt.Sprintf("interact: unexpected context command %s", choice))
	}
}

func (m *Machine) mustConstraint(err error) {
	if err != nil {
		panic(fmt.Sprintf("interact: %v", err))
	}
}

// deleteSelection removes the requests behind the selected entities and the
// selected constraints.
func (m *Machine) deleteSelection(gs pick.Summary) {
	st := m.env.Store
	var reqs []handle.Handle
	seen := make(map[handle.Handle]bool)
	for _, eh := range append(append([]handle.Handle(nil), gs.Entities...), gs.Points...) {
		rh := st.RequestOf(eh)
		if rh.IsNil() || seen[rh] {
			continue
		}
		seen[rh] = true
		reqs = append(reqs, rh)
	}
	for _, ch := range gs.Constraints {
		// Already gone if it referenced a deleted request.
		if _, ok := st.Constraint(ch); ok {
			m.mustConstraint(m.env.Constraints.RemoveConstraint(ch))
		}
	}
	for _, rh := range reqs {
		if err := st.RemoveRequest(rh); err != nil {
			panic(fmt.Sprintf("interact: %v", err))
		}
	}
	m.log.Info("selection deleted", "requests", len(reqs), "constraints", len(gs.Constraints))
}

func (m *Machine) addSplinePoint(plan *contextPlan) {
	st := m.env.Store
	rh := plan.spline
	r := m.request(rh)

	count := r.ExtraPoints + 4
	if r.Type == sketch.RequestCubicPeriodic {
		count = r.ExtraPoints + 3
	}
	if count >= m.cfg.MaxPointsInEntity {
		m.report(fmt.Errorf("spline has %d points: %w", count, ErrSplinePointBudget))
		return
	}

	m.env.Undo.Remember()
	if err := st.SetExtraPoints(rh, r.ExtraPoints+1); err != nil {
		panic(fmt.Sprintf("interact: %v", err))
	}
	st.Regenerate()

	r = m.request(rh)
	for i := len(r.Points) - 1; i > plan.insertAfter; i-- {
		m.env.Constraints.ReplacePointInConstraints(r.Points[i-1], r.Points[i])
		m.set(r.Points[i], m.pos(r.Points[i-1]))
	}
	m.set(r.Points[plan.insertAfter], plan.v)
	st.MarkDirtyByEntity(r.Entity)
	m.env.Picker.ClearSelection()
}

func (m *Machine) removeSplinePoint(pt handle.Handle) {
	st := m.env.Store
	cs := m.env.Constraints
	rh := st.RequestOf(pt)
	r := m.request(rh)
	if r.ExtraPoints == 0 {
		panic(fmt.Sprintf("interact: removing a point from %s with no interior points", rh))
	}
	idx := r.IndexOfPoint(pt)

	m.env.Undo.Remember()

	// Points that were coincident with the removed one stay coincident with
	// each other; every other constraint on it goes.
	var others []handle.Handle
	for _, ch := range cs.ConstraintsOn(sketch.ConstraintPointsCoincident, pt) {
		if c, ok := st.Constraint(ch); ok {
			if c.PtA == pt {
				others = append(others, c.PtB)
			} else {
				others = append(others, c.PtA)
			}
		}
	}
	m.removeConstraintsOn(pt)
	for i := 1; i < len(others); i++ {
		cs.ConstrainCoincident(others[0], others[i])
	}

	r = m.request(rh)
	pts := append([]handle.Handle(nil), r.Points...)
	for i := idx; i < len(pts)-1; i++ {
		cs.ReplacePointInConstraints(pts[i+1], pts[i])
		m.set(pts[i], m.pos(pts[i+1]))
	}
	if err := st.SetExtraPoints(rh, r.ExtraPoints-1); err != nil {
		panic(fmt.Sprintf("interact: %v", err))
	}
	st.MarkDirtyByEntity(pt)
	m.env.Picker.ClearSelection()
}

func (m *Machine) removeConstraintsOn(pt handle.Handle) {
	st := m.env.Store
	for _, t := range constraintTypes {
		for _, ch := range m.env.Constraints.ConstraintsOn(t, pt) {
			if _, ok := st.Constraint(ch); ok {
				m.mustConstraint(m.env.Constraints.RemoveConstraint(ch))
			}
		}
	}
}

var constraintTypes = []sketch.ConstraintType{
	sketch.ConstraintPointsCoincident, sketch.ConstraintHorizontal, sketch.ConstraintVertical,
	sketch.ConstraintPtOnCircle, sketch.ConstraintPtOnLine, sketch.ConstraintPtPtDistance,
	sketch.ConstraintPtLineDistance, sketch.ConstraintProjPtDistance, sketch.ConstraintPtPlaneDistance,
	sketch.ConstraintLengthDifference, sketch.ConstraintDiameter, sketch.ConstraintAngle,
	sketch.ConstraintLengthRatio, sketch.ConstraintComment,
}
