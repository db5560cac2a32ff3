package interact

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/expr"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/handle"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/sketch"
)

// EditRequest asks the front end to show an edit control over a dimension
// label.
type EditRequest struct {
	Constraint handle.Handle
	At         geom.Point2d // label position, screen coordinates
	Text       string       // initial contents
	MinWidth   int          // in characters
}

// ErrNotEditing is returned by EditDone when no edit is open.
var ErrNotEditing = errors.New("interact: no dimension is being edited")

// Editing reports whether a dimension edit is open.
func (m *Machine) Editing() bool {
	return !m.editing.IsNil()
}

// MouseLeftDoubleClick opens an edit on the hovered dimension. It returns
// false when the hover is not an editable dimension.
func (m *Machine) MouseLeftDoubleClick(mp geom.Point2d) (EditRequest, bool) {
	if m.Editing() {
		return EditRequest{}, false
	}
	ch := m.env.Picker.Hover().Constraint
	if ch.IsNil() {
		return EditRequest{}, false
	}
	m.clearSuper()

	c, ok := m.env.Store.Constraint(ch)
	if !ok || !c.HasLabel() || c.Reference {
		return EditRequest{}, false
	}

	req := EditRequest{
		Constraint: ch,
		At:         m.env.View.Project(m.env.Store.LabelPos(ch)),
		MinWidth:   5,
	}
	switch c.Type {
	case sketch.ConstraintComment:
		req.Text = c.Comment
		req.MinWidth = 30
	case sketch.ConstraintAngle, sketch.ConstraintLengthRatio:
		req.Text = strconv.FormatFloat(c.Value, 'f', 3, 64)
	default:
		v := math.Abs(c.Value)
		if c.Type == sketch.ConstraintDiameter && c.Other {
			v /= 2
		}
		req.Text = formatExact(v)
	}
	m.editing = ch
	m.log.Debug("dimension edit opened", "constraint", ch, "type", c.Type)
	return req, true
}

// formatExact prints v with the fewest decimals, at least two, that read
// back as v.
func formatExact(v float64) string {
	const eps = 1e-12
	var s string
	for prec := 2; prec <= 10; prec++ {
		s = strconv.FormatFloat(v, 'f', prec, 64)
		if back, err := strconv.ParseFloat(s, 64); err == nil && math.Abs(back-v) < eps {
			break
		}
	}
	return s
}

// EditCancel closes the edit without changing anything.
func (m *Machine) EditCancel() {
	m.editing = handle.Nil
}

// EditDone applies text to the dimension being edited. Comments take the
// text verbatim; everything else is evaluated as an expression.
func (m *Machine) EditDone(text string) error {
	ch := m.editing
	m.editing = handle.Nil
	if ch.IsNil() {
		return ErrNotEditing
	}
	c, ok := m.env.Store.Constraint(ch)
	if !ok {
		return fmt.Errorf("interact: edited constraint %s is gone", ch)
	}

	if c.Type == sketch.ConstraintComment {
		m.env.Undo.Remember()
		return m.env.Constraints.SetConstraintComment(ch, text)
	}

	val, err := expr.Eval(text)
	if err != nil {
		return fmt.Errorf("interact: editing %s: %w", c.Type, err)
	}
	m.env.Undo.Remember()

	switch c.Type {
	case sketch.ConstraintProjPtDistance, sketch.ConstraintPtLineDistance,
		sketch.ConstraintPtPlaneDistance, sketch.ConstraintLengthDifference:
		// Signed internally; the user flips the sign by typing a negative
		// value.
		if c.Value < 0 {
			val = -val
		}
	case sketch.ConstraintDiameter:
		val = math.Abs(val)
		if c.Other {
			val *= 2
		}
	default:
		val = math.Abs(val)
	}
	return m.env.Constraints.SetConstraintValue(ch, val)
}
