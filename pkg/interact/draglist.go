package interact

import (
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/handle"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/sketch"
)

// EntityLookup resolves entity handles for the drag-list builder.
type EntityLookup interface {
	Entity(h handle.Handle) (*sketch.Entity, bool)
}

// DragList collects the points moved together when dragging the entities in
// selected plus hovered (which may be Nil). Points of composite entities are
// expanded from their leading meaningful slots.
//
// A point already in the list is not added again. Transform points of the
// same type and group share one set of free parameters, so only the first
// of them is kept; otherwise the group would move at a multiple of the
// pointer's speed.
func DragList(lookup EntityLookup, selected []handle.Handle, hovered handle.Handle) []handle.Handle {
	var b dragListBuilder
	b.lookup = lookup
	for _, h := range selected {
		b.addEntity(h)
	}
	if !hovered.IsNil() {
		b.addEntity(hovered)
	}
	return b.points
}

type dragListBuilder struct {
	lookup EntityLookup
	points []handle.Handle
}

func (b *dragListBuilder) addEntity(h handle.Handle) {
	e, ok := b.lookup.Entity(h)
	if !ok {
		return
	}
	if e.IsPoint() {
		b.addPoint(h, e)
		return
	}
	switch e.Type {
	case sketch.EntityLineSegment, sketch.EntityArcOfCircle, sketch.EntityCubic,
		sketch.EntityCubicPeriodic, sketch.EntityCircle, sketch.EntityTTFText:
		n := sketch.EntityInfo(e.Type, e.ExtraPoints)
		for i := 0; i < n && i < len(e.Points); i++ {
			if p, ok := b.lookup.Entity(e.Points[i]); ok {
				b.addPoint(e.Points[i], p)
			}
		}
	}
}

func (b *dragListBuilder) addPoint(h handle.Handle, p *sketch.Entity) {
	for _, have := range b.points {
		if have == h {
			return
		}
		pe, ok := b.lookup.Entity(have)
		if !ok {
			continue
		}
		if pe.Type == p.Type && p.IsTransformPoint() && pe.Group == p.Group {
			return
		}
	}
	b.points = append(b.points, h)
}
