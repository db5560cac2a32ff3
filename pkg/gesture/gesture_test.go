package gesture

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceSketch/pkg/interact"
	"github.com/OpenTraceLab/OpenTraceSketch/pkg/sketch"
)

func newParser(t *testing.T) *Parser {
	t.Helper()
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	return p
}

func newRunner() *Runner {
	return NewRunner(Options{AutoPaint: true, Log: slog.New(slog.NewTextHandler(io.Discard, nil))})
}

func run(t *testing.T, src string) *Runner {
	t.Helper()
	s, err := newParser(t).ParseString(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	r := newRunner()
	if err := r.Run(context.Background(), s); err != nil {
		t.Fatalf("run: %v", err)
	}
	return r
}

func TestParseSteps(t *testing.T) {
	src := `
# a rectangle
begin rect
click 15 15
move 35 -40.5 shift ctrl
menu select-all
edit "2*10"
workplane off
zoom 2.5
expect requests 4
`
	s, err := newParser(t).ParseString(src)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if len(s.Steps) != 8 {
		t.Fatalf("got %d steps, want 8", len(s.Steps))
	}
	if got := *s.Steps[0].Begin; got != "rect" {
		t.Errorf("begin = %q", got)
	}
	if c := s.Steps[1].Click; c == nil || c.X != 15 || c.Y != 15 {
		t.Errorf("click = %+v", c)
	}
	mv := s.Steps[2].Move
	if mv == nil || mv.At.Y != -40.5 || !mv.has("shift") || !mv.has("ctrl") {
		t.Errorf("move = %+v", mv)
	}
	if got := *s.Steps[3].Menu; got != "select-all" {
		t.Errorf("menu = %q", got)
	}
	if got := *s.Steps[4].Edit; got != "2*10" {
		t.Errorf("edit = %q", got)
	}
	if got := *s.Steps[5].Workplane; got != "off" {
		t.Errorf("workplane = %q", got)
	}
	if got := *s.Steps[6].Zoom; got != 2.5 {
		t.Errorf("zoom = %v", got)
	}
	if got := *s.Steps[7].Expect.Requests; got != 4 {
		t.Errorf("expect requests = %d", got)
	}
	if s.Steps[7].Pos.Line != 10 {
		t.Errorf("expect on line %d, want 10", s.Steps[7].Pos.Line)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"down 1",
		"move x 2",
		"workplane maybe",
		"jump 1 2",
		`edit unquoted`,
	}
	p := newParser(t)
	for _, src := range tests {
		if _, err := p.ParseString(src); err == nil {
			t.Errorf("ParseString(%q) succeeded, want error", src)
		}
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "line.gesture")
	if err := os.WriteFile(path, []byte("begin line\nclick 15 15\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := newParser(t).ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(s.Steps) != 2 {
		t.Errorf("got %d steps, want 2", len(s.Steps))
	}
	if _, err := newParser(t).ParseFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("ParseFile on a missing file succeeded")
	}
}

func TestRunScripts(t *testing.T) {
	tests := []struct {
		name        string
		src         string
		requests    []sketch.RequestType
		constraints int
		errors      int
	}{
		{
			name: "line",
			src: `begin line
				click 15 15
				move 35 25
				click 35 25
				rightup 35 25`,
			requests: []sketch.RequestType{sketch.RequestLineSegment},
		},
		{
			name: "rectangle",
			src: `begin rectangle
				click 15 15
				move 35 40
				click 35 40`,
			requests: []sketch.RequestType{
				sketch.RequestLineSegment, sketch.RequestLineSegment,
				sketch.RequestLineSegment, sketch.RequestLineSegment,
			},
			constraints: 8,
		},
		{
			name: "arc refused in 3d",
			src: `workplane off
				begin arc
				click 15 15`,
			errors: 1,
		},
		{
			name: "circle",
			src: `begin circle
				click -30 30
				move -20 30
				click -20 30`,
			requests: []sketch.RequestType{sketch.RequestCircle},
		},
		{
			name: "undo",
			src: `begin point
				click 15 15
				undo`,
		},
		{
			name: "delete from menu",
			src: `begin point
				click 15 15
				move 15 15
				menu delete
				rightdown 15 15
				rightup 15 15`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(t, tt.src)
			sum := r.Summarize()
			if sum.Mode != interact.ModeNone {
				t.Errorf("mode = %s, want NONE", sum.Mode)
			}
			var got []sketch.RequestType
			for _, rs := range sum.Requests {
				got = append(got, rs.Type)
			}
			if len(got) != len(tt.requests) {
				t.Fatalf("requests = %v, want %v", got, tt.requests)
			}
			for i := range got {
				if got[i] != tt.requests[i] {
					t.Errorf("request %d = %s, want %s", i, got[i], tt.requests[i])
				}
			}
			if len(sum.Constraints) != tt.constraints {
				t.Errorf("constraints = %v, want %d", sum.Constraints, tt.constraints)
			}
			if len(sum.Errors) != tt.errors {
				t.Errorf("errors = %v, want %d", sum.Errors, tt.errors)
			}
		})
	}
}

func TestRunEditDimension(t *testing.T) {
	r := run(t, `begin comment
		click 15 -15
		move 15 -15
		doubleclick 15 -15
		edit "first note"`)
	sk := r.Session.Sketch
	cs := sk.Constraints()
	if len(cs) != 1 {
		t.Fatalf("got %d constraints, want 1", len(cs))
	}
	c, _ := sk.Constraint(cs[0])
	if c.Comment != "first note" {
		t.Errorf("comment = %q", c.Comment)
	}
}

func TestRunExpectations(t *testing.T) {
	p := newParser(t)
	tests := []struct {
		src     string
		wantErr string
	}{
		{"begin line\nexpect mode COMMAND", ""},
		{"begin line\nexpect mode NONE", "expected mode NONE, have COMMAND"},
		{"expect requests 1", "expected 1 requests, have 0"},
		{"expect errors 0", ""},
		{"begin fillet", "unknown command"},
		{"doubleclick 0 0", "nothing editable"},
		{"zoom 0", "zoom must be positive"},
		{"menu explode", "unknown context command"},
	}
	for _, tt := range tests {
		s, err := p.ParseString(tt.src)
		if err != nil {
			t.Fatalf("ParseString(%q): %v", tt.src, err)
		}
		err = newRunner().Run(context.Background(), s)
		switch {
		case tt.wantErr == "" && err != nil:
			t.Errorf("%q: unexpected error %v", tt.src, err)
		case tt.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tt.wantErr)):
			t.Errorf("%q: error %v, want %q", tt.src, err, tt.wantErr)
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s, err := newParser(t).ParseString("begin line\nclick 15 15")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := newRunner()
	if err := r.Run(ctx, s); err == nil {
		t.Fatal("Run on a cancelled context succeeded")
	}
	if r.Session.Machine.Mode() != interact.ModeNone {
		t.Errorf("mode = %s, want NONE", r.Session.Machine.Mode())
	}
}

func TestSummaryWrite(t *testing.T) {
	r := run(t, `begin construction
		click 15 15
		move 35 15
		click 35 15
		rightup 35 15`)
	var buf bytes.Buffer
	if err := r.Summarize().Write(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"mode: NONE",
		"requests: 1",
		"line-segment (construction)",
		"(3.000, 3.000, 0.000)",
		"horizontal",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
