// Package pick owns hover and selection state and hit-tests the sketch
// through the camera.
package pick

import (
	"fmt"
	"math"
	"sort"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/handle"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/sketch"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/view"
)

// DefaultRadius is the hit-test radius in pixels.
const DefaultRadius = 8

// Lengths, in pixels, of the normal arrow drawn at its anchor point.
const normalArrow = 20

// Item is one hoverable or selectable thing: an entity or a constraint.
type Item struct {
	Entity     handle.Handle
	Constraint handle.Handle
}

// EntityItem wraps an entity handle.
func EntityItem(h handle.Handle) Item { return Item{Entity: h} }

// ConstraintItem wraps a constraint handle.
func ConstraintItem(h handle.Handle) Item { return Item{Constraint: h} }

// IsEmpty reports whether the item refers to nothing.
func (it Item) IsEmpty() bool {
	return it.Entity.IsNil() && it.Constraint.IsNil()
}

func (it Item) String() string {
	switch {
	case !it.Entity.IsNil():
		return it.Entity.String()
	case !it.Constraint.IsNil():
		return it.Constraint.String()
	}
	return "none"
}

type candidate struct {
	item  Item
	score float64
}

// Picker hit-tests a sketch and keeps the hover and the selection.
type Picker struct {
	sk  *sketch.Sketch
	cam *view.Camera

	// Radius is the hit-test radius in pixels.
	Radius float64

	hover     Item
	hoverList []Item
	selection []Item
}

// New creates a picker over sk as seen through cam.
func New(sk *sketch.Sketch, cam *view.Camera) *Picker {
	return &Picker{sk: sk, cam: cam, Radius: DefaultRadius}
}

// HitTest recomputes the hover for the cursor at mp. Entities for which skip
// reports true are not hoverable; skip may be nil.
func (p *Picker) HitTest(mp geom.Point2d, skip func(handle.Handle) bool) {
	var cands []candidate
	for _, eh := range p.sk.Entities() {
		if skip != nil && skip(eh) {
			continue
		}
		d, penalty, ok := p.entityDistance(eh, mp)
		if !ok || d > p.Radius {
			continue
		}
		cands = append(cands, candidate{EntityItem(eh), d + penalty})
	}
	for _, ch := range p.sk.Constraints() {
		if !p.visible(p.constraintGroup(ch)) {
			continue
		}
		d := p.cam.Project(p.sk.LabelPos(ch)).DistanceTo(mp)
		if d > 2*p.Radius {
			continue
		}
		cands = append(cands, candidate{ConstraintItem(ch), d/2 + 2})
	}

	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score < cands[j].score })
	p.hoverList = p.hoverList[:0]
	for _, c := range cands {
		p.hoverList = append(p.hoverList, c.item)
	}
	p.hover = Item{}
	if len(p.hoverList) > 0 {
		p.hover = p.hoverList[0]
	}
}

func (p *Picker) visible(g handle.Handle) bool {
	gr, ok := p.sk.Group(g)
	return ok && gr.Visible
}

func (p *Picker) constraintGroup(ch handle.Handle) handle.Handle {
	if c, ok := p.sk.Constraint(ch); ok {
		return c.Group
	}
	return handle.Nil
}

// entityDistance is the screen distance from mp to the entity plus a
// priority penalty: points win over normals, normals over curves.
func (p *Picker) entityDistance(eh handle.Handle, mp geom.Point2d) (d, penalty float64, ok bool) {
	e, ok := p.sk.Entity(eh)
	if !ok || !p.visible(e.Group) {
		return 0, 0, false
	}
	switch {
	case e.IsPoint():
		return p.cam.Project(e.Pos).DistanceTo(mp), 0, true
	case e.Type == sketch.EntityNormalIn3d:
		if len(e.Points) == 0 {
			return 0, 0, false
		}
		a := p.sk.PointPos(e.Points[0])
		b := a.Plus(e.Orient.RotationN().ScaledBy(normalArrow / p.cam.Scale()))
		return segmentDistance(mp, p.cam.Project(a), p.cam.Project(b)), 3, true
	case e.Type == sketch.EntityNormalIn2d, e.Type == sketch.EntityDistance:
		return 0, 0, false
	}
	pts := p.sk.Outline(eh)
	if len(pts) < 2 {
		return 0, 0, false
	}
	d = math.Inf(1)
	prev := p.cam.Project(pts[0])
	for _, v := range pts[1:] {
		cur := p.cam.Project(v)
		d = math.Min(d, segmentDistance(mp, prev, cur))
		prev = cur
	}
	return d, 4, true
}

func segmentDistance(p, a, b geom.Point2d) float64 {
	ab := b.Minus(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 < geom.LengthEps {
		return p.DistanceTo(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	t = math.Max(0, math.Min(1, t))
	return p.DistanceTo(geom.Pt(a.X+t*ab.X, a.Y+t*ab.Y))
}

// Hover is the current hover.
func (p *Picker) Hover() Item { return p.hover }

// SetHover forces the hover, for callers that already know what is under the
// cursor.
func (p *Picker) SetHover(it Item) {
	p.hover = it
	p.hoverList = p.hoverList[:0]
	if !it.IsEmpty() {
		p.hoverList = append(p.hoverList, it)
	}
}

// ClearHover forgets the hover.
func (p *Picker) ClearHover() {
	p.hover = Item{}
	p.hoverList = p.hoverList[:0]
}

// ChooseFromHoverToDrag picks the best hovered entity that belongs to the
// active group or an earlier one. It returns Nil when there is none.
func (p *Picker) ChooseFromHoverToDrag() handle.Handle {
	active := p.sk.GroupOrder(p.sk.ActiveGroup())
	for _, it := range p.hoverList {
		e, ok := p.sk.Entity(it.Entity)
		if !ok {
			continue
		}
		if p.sk.GroupOrder(e.Group) > active {
			continue
		}
		return it.Entity
	}
	return handle.Nil
}

// IsSelected reports whether it is in the selection.
func (p *Picker) IsSelected(it Item) bool {
	for _, s := range p.selection {
		if s == it {
			return true
		}
	}
	return false
}

// Select adds it to the selection.
func (p *Picker) Select(it Item) {
	if it.IsEmpty() || p.IsSelected(it) {
		return
	}
	p.selection = append(p.selection, it)
}

// Unselect removes it from the selection.
func (p *Picker) Unselect(it Item) {
	for i, s := range p.selection {
		if s == it {
			p.selection = append(p.selection[:i], p.selection[i+1:]...)
			return
		}
	}
}

// ClearSelection empties the selection.
func (p *Picker) ClearSelection() {
	p.selection = p.selection[:0]
}

// Selection returns a copy of the selection in selection order.
func (p *Picker) Selection() []Item {
	return append([]Item(nil), p.selection...)
}

// SelectionCount is the number of selected items.
func (p *Picker) SelectionCount() int {
	return len(p.selection)
}

// Prune drops selected and hovered items whose handles went stale.
func (p *Picker) Prune() {
	live := p.selection[:0]
	for _, it := range p.selection {
		if p.live(it) {
			live = append(live, it)
		}
	}
	p.selection = live
	if !p.live(p.hover) {
		p.ClearHover()
	}
}

func (p *Picker) live(it Item) bool {
	if !it.Entity.IsNil() {
		_, ok := p.sk.Entity(it.Entity)
		return ok
	}
	if !it.Constraint.IsNil() {
		_, ok := p.sk.Constraint(it.Constraint)
		return ok
	}
	return true
}

func (p *Picker) selectable(eh handle.Handle) bool {
	e, ok := p.sk.Entity(eh)
	if !ok || !p.visible(e.Group) {
		return false
	}
	return e.Type != sketch.EntityDistance && e.Type != sketch.EntityNormalIn2d
}

// SelectAll selects every visible entity.
func (p *Picker) SelectAll() {
	for _, eh := range p.sk.Entities() {
		if p.selectable(eh) {
			p.Select(EntityItem(eh))
		}
	}
}

// SelectByMarquee selects every visible entity whose screen bounding box
// overlaps the rectangle with corners a and b.
func (p *Picker) SelectByMarquee(a, b geom.Point2d) {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	for _, eh := range p.sk.Entities() {
		if !p.selectable(eh) {
			continue
		}
		e, _ := p.sk.Entity(eh)
		var pts []geom.Vector
		switch {
		case e.IsPoint():
			pts = []geom.Vector{e.Pos}
		case e.IsNormal():
			continue
		default:
			pts = p.sk.Outline(eh)
		}
		if len(pts) == 0 {
			continue
		}
		bMinX, bMinY := math.Inf(1), math.Inf(1)
		bMaxX, bMaxY := math.Inf(-1), math.Inf(-1)
		for _, v := range pts {
			q := p.cam.Project(v)
			bMinX, bMaxX = math.Min(bMinX, q.X), math.Max(bMaxX, q.X)
			bMinY, bMaxY = math.Min(bMinY, q.Y), math.Max(bMaxY, q.Y)
		}
		if bMaxX < minX || bMinX > maxX || bMaxY < minY || bMinY > maxY {
			continue
		}
		p.Select(EntityItem(eh))
	}
}

// Summary counts the selection by category.
type Summary struct {
	Points           []handle.Handle
	Entities         []handle.Handle
	Constraints      []handle.Handle
	Workplanes       int
	Circles          int
	WithEndpoints    int
	Normals          int
	ConstraintLabels int
}

// N is the number of selected entities, points included.
func (s Summary) N() int {
	return len(s.Points) + len(s.Entities)
}

func (s Summary) String() string {
	return fmt.Sprintf("points=%d entities=%d constraints=%d", len(s.Points), len(s.Entities), len(s.Constraints))
}

// Summarize groups the selection by category.
func (p *Picker) Summarize() Summary {
	var s Summary
	for _, it := range p.selection {
		if c, ok := p.sk.Constraint(it.Constraint); ok {
			s.Constraints = append(s.Constraints, it.Constraint)
			if c.HasLabel() {
				s.ConstraintLabels++
			}
			continue
		}
		e, ok := p.sk.Entity(it.Entity)
		if !ok {
			continue
		}
		if e.IsPoint() {
			s.Points = append(s.Points, it.Entity)
			continue
		}
		s.Entities = append(s.Entities, it.Entity)
		switch {
		case e.IsNormal():
			s.Normals++
		case e.Type == sketch.EntityWorkplane:
			s.Workplanes++
		case e.IsCircle():
			s.Circles++
		}
		if e.HasEndpoints() {
			s.WithEndpoints++
		}
	}
	return s
}
