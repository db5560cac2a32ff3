package expr

// Expr is a sum of terms.
type Expr struct {
	Left *Term     `@@`
	Rest []*OpTerm `@@*`
}

// OpTerm is one added or subtracted term.
type OpTerm struct {
	Op   string `@( "+" | "-" )`
	Term *Term  `@@`
}

// Term is a product of factors.
type Term struct {
	Left *Unary     `@@`
	Rest []*OpUnary `@@*`
}

// OpUnary is one multiplied or divided factor.
type OpUnary struct {
	Op    string `@( "*" | "/" )`
	Unary *Unary `@@`
}

// Unary is an optionally negated power.
type Unary struct {
	Neg   *Unary `  "-" @@`
	Power *Power `| @@`
}

// Power is a primary raised to an optional exponent. The exponent binds
// right to left.
type Power struct {
	Base *Primary `@@`
	Exp  *Unary   `( "^" @@ )?`
}

// Primary is a number, a constant, a function call or a parenthesized
// expression.
type Primary struct {
	Number *float64 `  @Number`
	Call   *Call    `| @@`
	Ident  *string  `| @Ident`
	Sub    *Expr    `| "(" @@ ")"`
}

// Call applies a named function to one argument.
type Call struct {
	Func string `@Ident "("`
	Arg  *Expr  `@@ ")"`
}
