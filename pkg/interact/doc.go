// Package interact turns mouse and keyboard input into edits of a sketch.
//
// A Machine owns the single pending operation. Every input event is routed
// through it: a command from the toolbar arms it (Begin), the next clicks
// run that command's construction protocol, and presses on existing
// geometry start edit drags (points, radius, normal, constraint label) or a
// marquee selection. Terminal transitions clear the pending operation back
// to ModeNone.
//
// The machine holds no geometry. It talks to its collaborators through the
// interfaces in Env: the sketch store and constraint authority, the picker
// that owns hover and selection, the undo history, the camera, an error
// reporter and the context menu.
//
// # Coordinates
//
// Mouse positions are in centered screen coordinates with y up, the
// convention of view.Camera.
//
// # Frame pacing
//
// Edit drags are applied at most once per painted frame: after a drag
// update the machine ignores further moves until Painted is called. Moves in
// creation modes are applied immediately.
package interact
