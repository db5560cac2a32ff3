// Package expr evaluates the arithmetic typed into a dimension label, such
// as "2*25.4" or "sqrt(2)/2".
//
// Operators are + - * / and ^ with the usual precedence, unary minus, and
// parentheses. The constants pi and e are known. Trigonometric functions
// work in degrees.
package expr

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ExprLexer tokenizes dimension expressions.
var ExprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Operator", Pattern: `[-+*/^()]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var parser = participle.MustBuild[Expr](
	participle.Lexer(ExprLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// ErrEmpty is returned for blank input.
var ErrEmpty = errors.New("expr: empty expression")

// Parse parses s without evaluating it.
func Parse(s string) (*Expr, error) {
	if strings.TrimSpace(s) == "" {
		return nil, ErrEmpty
	}
	e, err := parser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("expr: parse error: %w", err)
	}
	return e, nil
}

// Eval parses and evaluates s.
func Eval(s string) (float64, error) {
	e, err := Parse(s)
	if err != nil {
		return 0, err
	}
	v, err := e.Eval()
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("expr: %q is not a finite number", s)
	}
	return v, nil
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

const degree = math.Pi / 180

var functions = map[string]func(float64) float64{
	"sqrt": math.Sqrt,
	"abs":  math.Abs,
	"sin":  func(x float64) float64 { return math.Sin(x * degree) },
	"cos":  func(x float64) float64 { return math.Cos(x * degree) },
	"tan":  func(x float64) float64 { return math.Tan(x * degree) },
	"asin": func(x float64) float64 { return math.Asin(x) / degree },
	"acos": func(x float64) float64 { return math.Acos(x) / degree },
	"atan": func(x float64) float64 { return math.Atan(x) / degree },
}

// Eval evaluates the parsed expression.
func (e *Expr) Eval() (float64, error) {
	v, err := e.Left.Eval()
	if err != nil {
		return 0, err
	}
	for _, r := range e.Rest {
		w, err := r.Term.Eval()
		if err != nil {
			return 0, err
		}
		if r.Op == "+" {
			v += w
		} else {
			v -= w
		}
	}
	return v, nil
}

// Eval evaluates the product.
func (t *Term) Eval() (float64, error) {
	v, err := t.Left.Eval()
	if err != nil {
		return 0, err
	}
	for _, r := range t.Rest {
		w, err := r.Unary.Eval()
		if err != nil {
			return 0, err
		}
		if r.Op == "*" {
			v *= w
			continue
		}
		if w == 0 {
			return 0, errors.New("expr: division by zero")
		}
		v /= w
	}
	return v, nil
}

// Eval evaluates the factor.
func (u *Unary) Eval() (float64, error) {
	if u.Neg != nil {
		v, err := u.Neg.Eval()
		return -v, err
	}
	return u.Power.Eval()
}

// Eval evaluates the power.
func (p *Power) Eval() (float64, error) {
	base, err := p.Base.Eval()
	if err != nil || p.Exp == nil {
		return base, err
	}
	exp, err := p.Exp.Eval()
	if err != nil {
		return 0, err
	}
	return math.Pow(base, exp), nil
}

// Eval evaluates the primary.
func (p *Primary) Eval() (float64, error) {
	switch {
	case p.Number != nil:
		return *p.Number, nil
	case p.Call != nil:
		f, ok := functions[strings.ToLower(p.Call.Func)]
		if !ok {
			return 0, fmt.Errorf("expr: unknown function %q", p.Call.Func)
		}
		arg, err := p.Call.Arg.Eval()
		if err != nil {
			return 0, err
		}
		return f(arg), nil
	case p.Ident != nil:
		v, ok := constants[strings.ToLower(*p.Ident)]
		if !ok {
			return 0, fmt.Errorf("expr: unknown name %q", *p.Ident)
		}
		return v, nil
	case p.Sub != nil:
		return p.Sub.Eval()
	}
	return 0, errors.New("expr: empty term")
}
