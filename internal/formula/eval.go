package formula

import "math"

type node interface {
	eval(vars map[string]float64) (float64, error)
}

type number float64

func (n number) eval(map[string]float64) (float64, error) { return float64(n), nil }

type variable string

func (v variable) eval(vars map[string]float64) (float64, error) { return vars[string(v)], nil }

type negate struct{ x node }

func (n *negate) eval(vars map[string]float64) (float64, error) {
	x, err := n.x.eval(vars)
	return -x, err
}

type binary struct {
	op   string
	pos  int
	l, r node
}

func (b *binary) eval(vars map[string]float64) (float64, error) {
	l, err := b.l.eval(vars)
	if err != nil {
		return 0, err
	}
	r, err := b.r.eval(vars)
	if err != nil {
		return 0, err
	}
	switch b.op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return 0, errAt(ErrDivisionByZero, b.pos, "%v / 0", l)
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return 0, errAt(ErrDivisionByZero, b.pos, "%v %% 0", l)
		}
		// Floored modulo: the result takes the sign of the divisor.
		m := math.Mod(l, r)
		if m != 0 && (m < 0) != (r < 0) {
			m += r
		}
		return m, nil
	case "**":
		if l == 0 && r < 0 {
			return 0, errAt(ErrDivisionByZero, b.pos, "0 raised to a negative power")
		}
		if l < 0 && r != math.Trunc(r) {
			return 0, errAt(ErrDomain, b.pos, "negative base %v with fractional exponent %v", l, r)
		}
		return math.Pow(l, r), nil
	}
	return 0, errAt(ErrSyntax, b.pos, "unknown operator %q", b.op)
}

type callNode struct {
	name string
	pos  int
	fn   function
	args []node
}

func (c *callNode) eval(vars map[string]float64) (float64, error) {
	vals := make([]float64, len(c.args))
	for i, a := range c.args {
		v, err := a.eval(vars)
		if err != nil {
			return 0, err
		}
		vals[i] = v
	}
	return c.fn.call(c.pos, vals)
}

// Eval evaluates the formula. Variables missing from vars read as 0. A result
// that is infinite or NaN is an ErrNonFinite error.
func (f *Formula) Eval(vars map[string]float64) (float64, error) {
	v, err := f.root.eval(vars)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &Error{Kind: ErrNonFinite, Pos: -1, Msg: f.src}
	}
	return v, nil
}

// Evaluate parses and evaluates src in one step.
func Evaluate(src string, vars map[string]float64) (float64, error) {
	f, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return f.Eval(vars)
}
