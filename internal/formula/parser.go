package formula

import (
	"math"
	"slices"
)

// Variables are the names a formula may reference. Unbound variables read as 0.
var Variables = []string{
	"water_flow",
	"energy",
	"chemicals",
	"pac",
	"pam",
	"naclo",
	"tn_in",
	"tn_out",
	"cod_in",
	"cod_out",
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

type function struct {
	minArgs, maxArgs int
	call             func(pos int, args []float64) (float64, error)
}

var functions = map[string]function{
	"sqrt": {1, 1, func(pos int, a []float64) (float64, error) {
		if a[0] < 0 {
			return 0, errAt(ErrDomain, pos, "sqrt of negative number %v", a[0])
		}
		return math.Sqrt(a[0]), nil
	}},
	"log": {1, 2, func(pos int, a []float64) (float64, error) {
		if a[0] <= 0 {
			return 0, errAt(ErrDomain, pos, "log of non-positive number %v", a[0])
		}
		if len(a) == 1 {
			return math.Log(a[0]), nil
		}
		if a[1] <= 0 || a[1] == 1 {
			return 0, errAt(ErrDomain, pos, "log base %v", a[1])
		}
		return math.Log(a[0]) / math.Log(a[1]), nil
	}},
	"exp": {1, 1, func(_ int, a []float64) (float64, error) { return math.Exp(a[0]), nil }},
	"sin": {1, 1, func(_ int, a []float64) (float64, error) { return math.Sin(a[0]), nil }},
	"cos": {1, 1, func(_ int, a []float64) (float64, error) { return math.Cos(a[0]), nil }},
	"tan": {1, 1, func(_ int, a []float64) (float64, error) { return math.Tan(a[0]), nil }},
}

// Functions lists the callable function names.
func Functions() []string {
	out := make([]string, 0, len(functions))
	for name := range functions {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Limits on accepted expressions. Every nesting level (parenthesis, call
// argument, sign or exponent) counts toward MaxDepth.
const (
	MaxLength = 4096
	MaxDepth  = 256
)

// Formula is a parsed expression, safe to evaluate concurrently.
type Formula struct {
	src  string
	root node
	vars []string
}

func (f *Formula) String() string { return f.src }

// Variables returns the variables the formula references, in first-use order.
func (f *Formula) Variables() []string { return slices.Clone(f.vars) }

// Parse compiles src. Precedence, loosest first: + -, then * / %, then unary
// sign, then ** (right-associative), so -2**2 is -4 and 2**-1 is 0.5.
func Parse(src string) (*Formula, error) {
	if len(src) > MaxLength {
		return nil, errAt(ErrSyntax, MaxLength, "expression longer than %d bytes", MaxLength)
	}
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	if p.peek().kind == tokEOF {
		return nil, errAt(ErrSyntax, 0, "empty expression")
	}
	root, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, errAt(ErrSyntax, t.pos, "unexpected %q", t.text)
	}
	return &Formula{src: src, root: root, vars: p.vars}, nil
}

// MustParse is Parse for expressions known to be valid.
func MustParse(src string) *Formula {
	f, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return f
}

type parser struct {
	toks  []token
	i     int
	vars  []string
	depth int
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) isOp(ops ...string) bool {
	t := p.peek()
	return t.kind == tokOp && slices.Contains(ops, t.text)
}

func (p *parser) expr() (node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isOp("+", "-") {
		op := p.next()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &binary{op: op.text, pos: op.pos, l: left, r: right}
	}
	return left, nil
}

func (p *parser) term() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*", "/", "%") {
		op := p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &binary{op: op.text, pos: op.pos, l: left, r: right}
	}
	return left, nil
}

func (p *parser) unary() (node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxDepth {
		return nil, errAt(ErrSyntax, p.peek().pos, "expression nested too deeply")
	}
	if p.isOp("+", "-") {
		op := p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		if op.text == "+" {
			return x, nil
		}
		return &negate{x: x}, nil
	}
	return p.power()
}

func (p *parser) power() (node, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if p.isOp("**") {
		op := p.next()
		exp, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &binary{op: "**", pos: op.pos, l: base, r: exp}, nil
	}
	return base, nil
}

func (p *parser) primary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return number(t.num), nil
	case tokLParen:
		x, err := p.expr()
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.kind != tokRParen {
			return nil, errAt(ErrSyntax, c.pos, "expected ')'")
		}
		return x, nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			return p.call(t)
		}
		if v, ok := constants[t.text]; ok {
			return number(v), nil
		}
		if !slices.Contains(Variables, t.text) {
			return nil, errAt(ErrUnknownName, t.pos, "%q", t.text)
		}
		if !slices.Contains(p.vars, t.text) {
			p.vars = append(p.vars, t.text)
		}
		return variable(t.text), nil
	case tokEOF:
		return nil, errAt(ErrSyntax, t.pos, "unexpected end of expression")
	default:
		return nil, errAt(ErrSyntax, t.pos, "unexpected %q", t.text)
	}
}

func (p *parser) call(name token) (node, error) {
	fn, ok := functions[name.text]
	if !ok {
		return nil, errAt(ErrUnknownFunction, name.pos, "%q", name.text)
	}
	p.next() // (
	var args []node
	if p.peek().kind != tokRParen {
		for {
			a, err := p.expr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.peek().kind != tokComma {
				break
			}
			p.next()
		}
	}
	if c := p.next(); c.kind != tokRParen {
		return nil, errAt(ErrSyntax, c.pos, "expected ')' after arguments")
	}
	if len(args) < fn.minArgs || len(args) > fn.maxArgs {
		return nil, errAt(ErrArity, name.pos, "%s takes %d to %d arguments, got %d", name.text, fn.minArgs, fn.maxArgs, len(args))
	}
	return &callNode{name: name.text, pos: name.pos, fn: fn, args: args}, nil
}
