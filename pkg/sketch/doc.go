// Package sketch is the in-memory parametric sketch store.
//
// The store owns every group, request, entity and constraint and hands out
// generational handles (package handle) to them. Callers never keep entity
// data across events; they keep handles and look the data up again.
//
// # Model
//
// A Request records what the user asked for (a line segment, a circle, a
// cubic spline with N interior points). Generating a request produces its
// entities: a primary entity plus point, normal and distance entities in
// fixed slots. Regeneration keeps existing slot handles stable and only
// adds or removes trailing point slots, so constraints that mention a point
// survive a spline growing or shrinking.
//
// Points of requests drawn while locked to a workplane are 2D points: forcing
// them to a position projects that position into the plane.
//
// Constraints are recorded but not solved; solving is somebody else's job.
// The store tracks which groups are dirty so a solver (or the renderer) knows
// what changed since the last Regenerate.
//
// # Undo
//
// History keeps whole-sketch snapshots. Remember is called once per user
// gesture, before the gesture mutates anything.
package sketch
