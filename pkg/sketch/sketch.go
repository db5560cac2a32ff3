package sketch

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/handle"
)

// ErrStaleHandle is returned when a handle no longer refers to a live object.
var ErrStaleHandle = errors.New("sketch: stale handle")

// Sketch is the store. It is not safe for concurrent use; the editor drives
// it from a single event loop.
type Sketch struct {
	groups      *handle.Arena[Group]
	requests    *handle.Arena[Request]
	entities    *handle.Arena[Entity]
	constraints *handle.Arena[Constraint]

	groupOrder  []handle.Handle
	activeGroup handle.Handle
	dirty       map[handle.Handle]bool
	regens      int

	log *slog.Logger
}

// New creates a sketch with a reference group holding the XY workplane and
// an active drawing group locked to it.
func New() *Sketch {
	s := &Sketch{
		groups:      handle.NewArena[Group](handle.KindGroup),
		requests:    handle.NewArena[Request](handle.KindRequest),
		entities:    handle.NewArena[Entity](handle.KindEntity),
		constraints: handle.NewArena[Constraint](handle.KindConstraint),
		dirty:       make(map[handle.Handle]bool),
		log:         slog.Default(),
	}

	refs := s.AddGroup("#references", GroupDrawing3D, handle.Nil)
	s.activeGroup = refs
	xy := s.AddRequest(RequestWorkplane)
	r := s.requests.MustGet(xy)
	s.SetPoint(r.Point(0), geom.Vector{})
	s.SetNormal(r.Normal, geom.IdentityQuaternion)

	s.activeGroup = s.AddGroup("sketch-in-plane", GroupDrawingWorkplane, r.Entity)
	s.Regenerate()
	return s
}

// SetLogger replaces the logger used for regeneration diagnostics.
func (s *Sketch) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	s.log = l
}

// AddGroup appends a group. workplane may be Nil for 3D groups.
func (s *Sketch) AddGroup(name string, t GroupType, workplane handle.Handle) handle.Handle {
	h := s.groups.Add(Group{Name: name, Type: t, Workplane: workplane, Visible: true})
	s.groupOrder = append(s.groupOrder, h)
	return h
}

// Groups lists groups in creation order.
func (s *Sketch) Groups() []handle.Handle {
	return append([]handle.Handle(nil), s.groupOrder...)
}

// Group looks up a group.
func (s *Sketch) Group(h handle.Handle) (*Group, bool) {
	return s.groups.Get(h)
}

// ActiveGroup is the group new requests and constraints go into.
func (s *Sketch) ActiveGroup() handle.Handle {
	return s.activeGroup
}

// SetActiveGroup makes h the active group.
func (s *Sketch) SetActiveGroup(h handle.Handle) error {
	if !s.groups.Valid(h) {
		return fmt.Errorf("%w: group %s", ErrStaleHandle, h)
	}
	s.activeGroup = h
	return nil
}

// ActiveWorkplane is the workplane the active group is locked to, or Nil when
// sketching in 3D.
func (s *Sketch) ActiveWorkplane() handle.Handle {
	g, ok := s.groups.Get(s.activeGroup)
	if !ok {
		return handle.Nil
	}
	return g.Workplane
}

// LockedInWorkplane reports whether new geometry is drawn in a workplane.
func (s *Sketch) LockedInWorkplane() bool {
	return !s.ActiveWorkplane().IsNil()
}

// SetActiveWorkplane locks the active group to wp, or unlocks it with Nil.
func (s *Sketch) SetActiveWorkplane(wp handle.Handle) error {
	g, ok := s.groups.Get(s.activeGroup)
	if !ok {
		return fmt.Errorf("%w: group %s", ErrStaleHandle, s.activeGroup)
	}
	if !wp.IsNil() {
		e, ok := s.entities.Get(wp)
		if !ok || e.Type != EntityWorkplane {
			return fmt.Errorf("sketch: %s is not a workplane", wp)
		}
		g.Type = GroupDrawingWorkplane
	} else {
		g.Type = GroupDrawing3D
	}
	g.Workplane = wp
	return nil
}

// WorkplaneBasis returns the origin and in-plane axes of a workplane entity.
func (s *Sketch) WorkplaneBasis(wp handle.Handle) (origin, u, v geom.Vector, ok bool) {
	e, ok := s.entities.Get(wp)
	if !ok || e.Type != EntityWorkplane || len(e.Points) == 0 {
		return geom.Vector{}, geom.Vector{}, geom.Vector{}, false
	}
	origin = s.PointPos(e.Points[0])
	q := s.NormalOrientation(e.Normal)
	return origin, q.RotationU(), q.RotationV(), true
}

// Request looks up a request.
func (s *Sketch) Request(h handle.Handle) (*Request, bool) {
	return s.requests.Get(h)
}

// Entity looks up an entity.
func (s *Sketch) Entity(h handle.Handle) (*Entity, bool) {
	return s.entities.Get(h)
}

// Constraint looks up a constraint.
func (s *Sketch) Constraint(h handle.Handle) (*Constraint, bool) {
	return s.constraints.Get(h)
}

// Requests lists live requests.
func (s *Sketch) Requests() []handle.Handle { return s.requests.Handles() }

// Entities lists live entities.
func (s *Sketch) Entities() []handle.Handle { return s.entities.Handles() }

// Constraints lists live constraints.
func (s *Sketch) Constraints() []handle.Handle { return s.constraints.Handles() }

// AddRequest creates a request of type t in the active group and generates its
// entities so callers can immediately place its points.
func (s *Sketch) AddRequest(t RequestType) handle.Handle {
	g := s.groups.MustGet(s.activeGroup)
	r := Request{
		Type:         t,
		Group:        s.activeGroup,
		Workplane:    g.Workplane,
		Construction: g.Type != GroupDrawing3D && g.Type != GroupDrawingWorkplane,
	}
	h := s.requests.Add(r)
	s.generate(h)
	s.MarkGroupDirty(r.Group)
	return h
}

// RemoveRequest deletes a request, its entities, and every constraint that
// mentions one of them.
func (s *Sketch) RemoveRequest(h handle.Handle) error {
	r, ok := s.requests.Get(h)
	if !ok {
		return fmt.Errorf("%w: request %s", ErrStaleHandle, h)
	}
	owned := append([]handle.Handle(nil), r.Points...)
	owned = append(owned, r.Normal, r.Distance, r.Entity)
	group := r.Group
	for _, eh := range owned {
		s.removeEntity(eh)
	}
	s.requests.Remove(h)
	s.MarkGroupDirty(group)
	return nil
}

// SetRequestType changes a request's type and extra point count, then
// regenerates it. Used when a spline is closed into a periodic one.
func (s *Sketch) SetRequestType(h handle.Handle, t RequestType, extraPoints int) error {
	r, ok := s.requests.Get(h)
	if !ok {
		return fmt.Errorf("%w: request %s", ErrStaleHandle, h)
	}
	r.Type = t
	r.ExtraPoints = extraPoints
	s.generate(h)
	s.MarkGroupDirty(r.Group)
	return nil
}

// SetExtraPoints changes the number of interior points of a spline request
// and regenerates it.
func (s *Sketch) SetExtraPoints(h handle.Handle, extraPoints int) error {
	r, ok := s.requests.Get(h)
	if !ok {
		return fmt.Errorf("%w: request %s", ErrStaleHandle, h)
	}
	return s.SetRequestType(h, r.Type, extraPoints)
}

// RequestOf returns the request that generated entity eh, or Nil for
// entities that belong to no request (imported geometry).
func (s *Sketch) RequestOf(eh handle.Handle) handle.Handle {
	e, ok := s.entities.Get(eh)
	if !ok {
		return handle.Nil
	}
	return e.Request
}

// AddTransformPoint adds a transform-carrying point to a linked group, the
// way an imported part exposes its placement.
func (s *Sketch) AddTransformPoint(group handle.Handle, t EntityType, pos geom.Vector, q geom.Quaternion) (handle.Handle, error) {
	if !s.groups.Valid(group) {
		return handle.Nil, fmt.Errorf("%w: group %s", ErrStaleHandle, group)
	}
	if t != EntityPointNTrans && t != EntityPointNRotTrans {
		return handle.Nil, fmt.Errorf("sketch: %s is not a transform point", t)
	}
	h := s.entities.Add(Entity{Type: t, Group: group, Pos: pos, Orient: q})
	s.MarkGroupDirty(group)
	return h, nil
}

func (s *Sketch) generate(rh handle.Handle) {
	r := s.requests.MustGet(rh)
	entType, npts, hasNormal, hasDistance := RequestInfo(r.Type, r.ExtraPoints)

	ptType := EntityPointIn3d
	if !r.Workplane.IsNil() {
		ptType = EntityPointIn2d
	}

	for len(r.Points) < npts {
		var pos geom.Vector
		if n := len(r.Points); n > 0 {
			pos = s.PointPos(r.Points[n-1])
		} else if origin, _, _, ok := s.WorkplaneBasis(r.Workplane); ok {
			pos = origin
		}
		ph := s.entities.Add(Entity{
			Type:      ptType,
			Group:     r.Group,
			Request:   rh,
			Workplane: r.Workplane,
			Pos:       pos,
		})
		r = s.requests.MustGet(rh)
		r.Points = append(r.Points, ph)
	}
	for len(r.Points) > npts {
		last := r.Points[len(r.Points)-1]
		r.Points = r.Points[:len(r.Points)-1]
		s.removeEntity(last)
		r = s.requests.MustGet(rh)
	}

	if r.Type == RequestDatumPoint {
		r.Entity = r.Points[0]
		return
	}

	if hasNormal && r.Normal.IsNil() {
		ne := Entity{
			Type:    EntityNormalIn3d,
			Group:   r.Group,
			Request: rh,
			Points:  []handle.Handle{r.Points[0]},
			Orient:  geom.IdentityQuaternion,
		}
		if wp, ok := s.entities.Get(r.Workplane); ok {
			ne.Type = EntityNormalIn2d
			ne.Workplane = r.Workplane
			ne.Orient = s.NormalOrientation(wp.Normal)
		}
		nh := s.entities.Add(ne)
		r = s.requests.MustGet(rh)
		r.Normal = nh
	}
	if hasDistance && r.Distance.IsNil() {
		dh := s.entities.Add(Entity{Type: EntityDistance, Group: r.Group, Request: rh})
		r = s.requests.MustGet(rh)
		r.Distance = dh
	}

	if r.Entity.IsNil() {
		mh := s.entities.Add(Entity{})
		r = s.requests.MustGet(rh)
		r.Entity = mh
	}
	main := s.entities.MustGet(r.Entity)
	main.Type = entType
	main.Group = r.Group
	main.Request = rh
	main.Workplane = r.Workplane
	main.Construction = r.Construction
	main.Points = append(main.Points[:0], r.Points...)
	main.Normal = r.Normal
	main.Distance = r.Distance
	main.ExtraPoints = r.ExtraPoints
}

func (s *Sketch) removeEntity(eh handle.Handle) {
	if !s.entities.Remove(eh) {
		return
	}
	for _, ch := range s.constraints.Handles() {
		if c := s.constraints.MustGet(ch); c.References(eh) {
			s.constraints.Remove(ch)
		}
	}
}

// PointPos reads a point's position. Stale handles read as the origin.
func (s *Sketch) PointPos(h handle.Handle) geom.Vector {
	e, ok := s.entities.Get(h)
	if !ok {
		return geom.Vector{}
	}
	return e.Pos
}

// SetPoint forces a point to pos. 2D points are projected into their
// workplane.
func (s *Sketch) SetPoint(h handle.Handle, pos geom.Vector) {
	e, ok := s.entities.Get(h)
	if !ok || !e.IsPoint() {
		return
	}
	if e.Type == EntityPointIn2d {
		if origin, u, v, ok := s.WorkplaneBasis(e.Workplane); ok {
			d := pos.Minus(origin)
			pos = origin.Plus(u.ScaledBy(d.Dot(u))).Plus(v.ScaledBy(d.Dot(v)))
		}
	}
	e.Pos = pos
}

// PointOrientation reads the rotation of a rotating transform point.
func (s *Sketch) PointOrientation(h handle.Handle) geom.Quaternion {
	e, ok := s.entities.Get(h)
	if !ok || e.Type != EntityPointNRotTrans {
		return geom.IdentityQuaternion
	}
	return e.Orient
}

// SetPointOrientation forces the rotation of a rotating transform point.
func (s *Sketch) SetPointOrientation(h handle.Handle, q geom.Quaternion) {
	if e, ok := s.entities.Get(h); ok && e.Type == EntityPointNRotTrans {
		e.Orient = q.Normalized()
	}
}

// NormalOrientation reads a normal.
func (s *Sketch) NormalOrientation(h handle.Handle) geom.Quaternion {
	e, ok := s.entities.Get(h)
	if !ok || !e.IsNormal() {
		return geom.IdentityQuaternion
	}
	return e.Orient
}

// SetNormal forces a 3D normal. Normals in a workplane follow the workplane
// and ignore the request.
func (s *Sketch) SetNormal(h handle.Handle, q geom.Quaternion) {
	if e, ok := s.entities.Get(h); ok && e.Type == EntityNormalIn3d {
		e.Orient = q.Normalized()
	}
}

// DistanceValue reads a distance entity.
func (s *Sketch) DistanceValue(h handle.Handle) float64 {
	if e, ok := s.entities.Get(h); ok && e.Type == EntityDistance {
		return e.Value
	}
	return 0
}

// SetDistance forces a distance entity.
func (s *Sketch) SetDistance(h handle.Handle, d float64) {
	if e, ok := s.entities.Get(h); ok && e.Type == EntityDistance {
		e.Value = d
	}
}

// SetConstruction marks a request as construction geometry.
func (s *Sketch) SetConstruction(h handle.Handle, construction bool) {
	if r, ok := s.requests.Get(h); ok {
		r.Construction = construction
		if e, ok := s.entities.Get(r.Entity); ok {
			e.Construction = construction
		}
		s.MarkGroupDirty(r.Group)
	}
}

// SetText sets the string and font of a text request.
func (s *Sketch) SetText(h handle.Handle, str, font string) {
	if r, ok := s.requests.Get(h); ok {
		r.Str = str
		r.Font = font
	}
}

// MarkGroupDirty schedules a group for regeneration.
func (s *Sketch) MarkGroupDirty(g handle.Handle) {
	if s.groups.Valid(g) {
		s.dirty[g] = true
	}
}

// MarkDirtyByEntity schedules the group owning entity eh for regeneration.
func (s *Sketch) MarkDirtyByEntity(eh handle.Handle) {
	if e, ok := s.entities.Get(eh); ok {
		s.MarkGroupDirty(e.Group)
	}
}

// IsDirty reports whether g changed since the last Regenerate.
func (s *Sketch) IsDirty(g handle.Handle) bool {
	return s.dirty[g]
}

// Regenerate regenerates the requests of every dirty group and clears the
// dirty set.
func (s *Sketch) Regenerate() {
	if len(s.dirty) == 0 {
		return
	}
	for _, rh := range s.requests.Handles() {
		if r := s.requests.MustGet(rh); s.dirty[r.Group] {
			s.generate(rh)
		}
	}
	s.regens++
	s.log.Debug("sketch regenerated", "groups", len(s.dirty), "count", s.regens)
	clear(s.dirty)
}

// Regenerations counts completed Regenerate passes.
func (s *Sketch) Regenerations() int {
	return s.regens
}

func (s *Sketch) clone() *Sketch {
	return &Sketch{
		groups: s.groups.Clone(nil),
		requests: s.requests.Clone(func(r Request) Request {
			r.Points = append([]handle.Handle(nil), r.Points...)
			return r
		}),
		entities: s.entities.Clone(func(e Entity) Entity {
			e.Points = append([]handle.Handle(nil), e.Points...)
			return e
		}),
		constraints: s.constraints.Clone(nil),
		groupOrder:  append([]handle.Handle(nil), s.groupOrder...),
		activeGroup: s.activeGroup,
		dirty:       make(map[handle.Handle]bool),
		regens:      s.regens,
		log:         s.log,
	}
}

func (s *Sketch) restore(from *Sketch) {
	log := s.log
	*s = *from.clone()
	s.log = log
	for _, g := range s.groupOrder {
		s.dirty[g] = true
	}
}

// SetConstraintReference marks a dimension as reference-only.
func (s *Sketch) SetConstraintReference(h handle.Handle, reference bool) error {
	c, ok := s.constraints.Get(h)
	if !ok {
		return fmt.Errorf("%w: constraint %s", ErrStaleHandle, h)
	}
	c.Reference = reference
	s.MarkGroupDirty(c.Group)
	return nil
}

// SetLabelOffset moves a constraint's label.
func (s *Sketch) SetLabelOffset(h handle.Handle, off geom.Vector) {
	if c, ok := s.constraints.Get(h); ok {
		c.LabelOffset = off
	}
}

// SetGroupVisible shows or hides a group.
func (s *Sketch) SetGroupVisible(g handle.Handle, visible bool) {
	if gr, ok := s.groups.Get(g); ok {
		gr.Visible = visible
	}
}

// GroupOrder is the position of g in creation order, or -1.
func (s *Sketch) GroupOrder(g handle.Handle) int {
	for i, h := range s.groupOrder {
		if h == g {
			return i
		}
	}
	return -1
}
