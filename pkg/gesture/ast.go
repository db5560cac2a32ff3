package gesture

import "github.com/alecthomas/participle/v2/lexer"

// Script is a parsed gesture script: one step per line.
type Script struct {
	Steps []*Step `@@*`
}

// Step is one scripted input event or check.
type Step struct {
	Pos lexer.Position

	Begin       *string  `  "begin" @Ident`
	Down        *Point   `| "down" @@`
	Up          *Point   `| "up" @@`
	Click       *Point   `| "click" @@`
	Move        *Move    `| "move" @@`
	RightDown   *Point   `| "rightdown" @@`
	RightUp     *Point   `| "rightup" @@`
	DoubleClick *Point   `| "doubleclick" @@`
	Edit        *string  `| "edit" @String`
	Menu        *string  `| "menu" @Ident`
	Painted     bool     `| @"painted"`
	Escape      bool     `| @"escape"`
	Undo        bool     `| @"undo"`
	Redo        bool     `| @"redo"`
	Workplane   *string  `| "workplane" @("on" | "off")`
	Zoom        *float64 `| "zoom" @Number`
	Expect      *Expect  `| "expect" @@`
}

// Point is a screen position, centered with y up.
type Point struct {
	X float64 `@Number`
	Y float64 `@Number`
}

// Move is a pointer move with optional modifiers.
type Move struct {
	At   Point    `@@`
	Mods []string `@("shift" | "ctrl")*`
}

func (m *Move) has(mod string) bool {
	for _, s := range m.Mods {
		if s == mod {
			return true
		}
	}
	return false
}

// Expect checks the session state at that point of the script.
type Expect struct {
	Mode        *string `  "mode" @Ident`
	Requests    *int    `| "requests" @Number`
	Constraints *int    `| "constraints" @Number`
	Errors      *int    `| "errors" @Number`
}
