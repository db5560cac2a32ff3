// Package handle implements the opaque references the sketch store hands out
// for requests, entities, constraints and groups.
//
// Handles index into a generational arena: every slot carries a generation
// counter that is bumped when the slot is freed, so a handle kept past the
// lifetime of its object fails lookups instead of aliasing whatever reused
// the slot.
package handle

import "fmt"

// Kind tags which arena a handle belongs to.
type Kind uint8

const (
	KindNone Kind = iota
	KindGroup
	KindRequest
	KindEntity
	KindConstraint
)

var kindNames = map[Kind]string{
	KindNone:       "none",
	KindGroup:      "group",
	KindRequest:    "request",
	KindEntity:     "entity",
	KindConstraint: "constraint",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Handle is a stable reference into an Arena. The zero Handle is Nil.
type Handle struct {
	Kind  Kind
	Index uint32
	Gen   uint32
}

// Nil is the empty handle.
var Nil Handle

// IsNil reports whether h refers to nothing.
func (h Handle) IsNil() bool {
	return h.Kind == KindNone
}

func (h Handle) String() string {
	if h.IsNil() {
		return "nil"
	}
	return fmt.Sprintf("%s#%d.%d", h.Kind, h.Index, h.Gen)
}
