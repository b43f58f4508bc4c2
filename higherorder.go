package expressions

import (
	"math"
	"strings"
)

// registerHigherOrder installs the built-ins that bind a fresh variable and
// drive repeated evaluation of one of their arguments against it: sigma,
// integral, derivative, limit, and if. Each clones the session so the bound
// variable never leaks into the caller.
func registerHigherOrder(s *Session) {
	s.addBuiltin(newSigmaFunc("sigma", 4))
	s.addBuiltin(newSigmaFunc("sigma", 5))
	s.addBuiltin(newSigmaFunc("Σ", 4))
	s.addBuiltin(newSigmaFunc("Σ", 5))

	s.addBuiltin(newIntegralFunc("integral", 4))
	s.addBuiltin(newIntegralFunc("integral", 5))
	s.addBuiltin(newIntegralFunc("∫", 4))
	s.addBuiltin(newIntegralFunc("∫", 5))
	s.addBuiltin(newIntgFunc())

	s.addBuiltin(newDerivativeFunc())

	s.addBuiltin(newLimitFunc("limit"))
	s.addBuiltin(newLimitFunc("lim"))

	s.addBuiltin(newIfFunc("if"))
	s.addBuiltin(newIfFunc("IF"))
}

func invalidVarName(fn, name string) error {
	return &InvalidParameterError{Msg: fn + "(): invalid variable name (" + name + ")"}
}

// newSigmaFunc builds the arity-4 (step defaults to 1) or arity-5 overload
// of the summation built-in, ported from Functions.sigma.
func newSigmaFunc(name string, arity int) *Func {
	return &Func{
		Name:    name,
		Arity:   arity,
		Special: []bool{true, true, false, false, false},
		Invoke: func(s *Session, raw []string, vals []float64) (float64, error) {
			varName, expr := raw[0], raw[1]
			from, to := vals[2], vals[3]
			step := 1.0
			if arity == 5 {
				step = vals[4]
			}
			if !isIdentifier(varName) {
				return 0, invalidVarName("sigma", varName)
			}
			if step == 0 {
				return 0, &InvalidParameterError{Msg: "sigma(): step can not be 0"}
			}
			clone := s.Clone()
			bound := clone.bindVariable(varName, from)
			if step < 0 {
				from, to = to, from
				step *= -1
			}
			sum := 0.0
			for i := from; i <= to; i += step {
				bound.value = i
				bound.resolved = true
				v, err := clone.Parse(expr)
				if err != nil {
					return 0, err
				}
				sum += v
			}
			return sum, nil
		},
	}
}

// newIntegralFunc builds the arity-4 (default 20 Gauss-Legendre points) or
// arity-5 overload of the definite-integral built-in.
func newIntegralFunc(name string, arity int) *Func {
	return &Func{
		Name:    name,
		Arity:   arity,
		Special: []bool{true, true, false, false, false},
		Invoke: func(s *Session, raw []string, vals []float64) (float64, error) {
			varName, expr := raw[0], raw[1]
			lower, upper := vals[2], vals[3]
			points := 20.0
			if arity == 5 {
				points = vals[4]
			}
			if !isIdentifier(varName) {
				return 0, invalidVarName("integral", varName)
			}
			clone := s.Clone()
			clone.SetRoundEnabled(false)
			bound := clone.bindVariable(varName, 0)
			f := func(x float64) (float64, error) {
				bound.value = x
				bound.resolved = true
				return clone.Parse(expr)
			}
			n := int(math.Abs(points))
			return gaussLegendreIntegrate(f, lower, upper, n)
		},
	}
}

// newIntgFunc is the "intg" alias, always at 20 points, matching
// Functions.intg.
func newIntgFunc() *Func {
	inner := newIntegralFunc("integral", 4)
	return &Func{Name: "intg", Arity: 4, Special: inner.Special, Invoke: inner.Invoke}
}

// newDerivativeFunc builds the central-difference derivative built-in.
func newDerivativeFunc() *Func {
	const epsilon = 1e-7
	return &Func{
		Name:    "derivative",
		Arity:   3,
		Special: []bool{true, true, false},
		Invoke: func(s *Session, raw []string, vals []float64) (float64, error) {
			varName, expr := raw[0], raw[1]
			x := vals[2]
			if !isIdentifier(varName) {
				return 0, invalidVarName("derivative", varName)
			}
			clone := s.Clone()
			clone.SetRoundEnabled(false)
			bound := clone.bindVariable(varName, 0)
			at := func(v float64) (float64, error) {
				bound.value = v
				bound.resolved = true
				return clone.Parse(expr)
			}
			plus, err := at(x + epsilon)
			if err != nil {
				return 0, err
			}
			minus, err := at(x - epsilon)
			if err != nil {
				return 0, err
			}
			return (plus - minus) / (2 * epsilon), nil
		},
	}
}

// newLimitFunc builds the bidirectional limit built-in, using a geometric
// probing schedule rather than Richardson extrapolation (see DESIGN.md).
// Unlike integral and derivative, it leaves rounding at the session's
// current setting rather than disabling it — an intentional asymmetry, not
// an oversight.
func newLimitFunc(name string) *Func {
	return &Func{
		Name:    name,
		Arity:   2,
		Special: []bool{true, true},
		Invoke: func(s *Session, raw []string, vals []float64) (float64, error) {
			spec := strings.ReplaceAll(raw[0], "->", "=")
			eq := indexByteTop(spec, '=')
			if eq == -1 {
				return 0, &InvalidParameterError{Msg: "limit(): invalid variable (" + raw[0] + "), must be something like x->2"}
			}
			varName := strings.TrimSpace(spec[:eq])
			if !isIdentifier(varName) {
				return 0, invalidVarName("limit", varName)
			}
			target := realTrim(spec[eq+1:])

			clone := s.Clone()
			var approach float64
			switch strings.ToLower(target) {
			case "+inf", "inf":
				approach = math.Inf(1)
			case "-inf":
				approach = math.Inf(-1)
			default:
				v, err := clone.Parse(target)
				if err != nil {
					return 0, err
				}
				approach = v
			}

			bound := clone.bindVariable(varName, 0)
			last := math.NaN()
			f := func(x float64) (float64, error) {
				bound.value = x
				bound.resolved = true
				v, err := clone.Parse(raw[1])
				if err != nil {
					return 0, err
				}
				if math.IsNaN(v) && x == approach {
					// A removable discontinuity is NaN at the target itself;
					// the previous probe's value stands in for it.
					return last, nil
				}
				last = v
				return v, nil
			}
			below, err := limitFromBelow(f, approach)
			if err != nil {
				return 0, err
			}
			above, err := limitFromAbove(f, approach)
			if err != nil {
				return 0, err
			}
			if below == above {
				return below, nil
			}
			return math.NaN(), nil
		},
	}
}

const limitSnap = 0.00000000001

func limitFromBelow(f func(float64) (float64, error), approach float64) (float64, error) {
	for d := approach - 10; d <= approach; d = approach - ((approach - d) / 10) {
		v, err := f(d)
		if err != nil {
			return 0, err
		}
		switch {
		case math.IsInf(v, 1):
			return math.Inf(1), nil
		case math.IsInf(v, -1):
			return math.Inf(-1), nil
		case math.IsNaN(v):
			return f(approach + (approach-d)*10)
		case d == approach:
			return v, nil
		case approach-d < limitSnap:
			d = approach
		}
	}
	return math.NaN(), nil
}

func limitFromAbove(f func(float64) (float64, error), approach float64) (float64, error) {
	for d := approach + 10; d >= approach; d = approach - ((approach - d) / 10) {
		v, err := f(d)
		if err != nil {
			return 0, err
		}
		switch {
		case math.IsInf(v, 1):
			return math.Inf(1), nil
		case math.IsInf(v, -1):
			return math.Inf(-1), nil
		case math.IsNaN(v):
			return f(approach + (approach-d)*10)
		case d == approach:
			return v, nil
		case d-approach < limitSnap:
			d = approach
		}
	}
	return math.NaN(), nil
}

// newIfFunc builds the conditional built-in, splitting its condition on the
// first top-level comparator (==, !=, <>, >=, <=, =, >, <) the way
// Utils.splitIf does; a condition with no comparator is compared against 0
// with !=, so "if(x)" means "if x is nonzero". Ported from Functions.IF.
func newIfFunc(name string) *Func {
	return &Func{
		Name:    name,
		Arity:   3,
		Special: []bool{true, true, true},
		Invoke: func(s *Session, raw []string, vals []float64) (float64, error) {
			// Reparsing any branch or comparison side on the live caller
			// session would let Session.Parse's resetTemps wipe out every
			// sibling temp binding the outer reduction has already created
			// in the same top-level expression (e.g. the __tmpN standing in
			// for a sqrt(4) evaluated before this if(...) call). Clone
			// first, exactly as the other higher-order built-ins do.
			clone := s.Clone()
			cond := realTrim(raw[0])
			lhs, op, rhs, matched := splitComparator(cond)
			var ca, cb float64
			var err error
			if matched {
				ca, err = clone.Parse(lhs)
				if err != nil {
					return 0, err
				}
				cb, err = clone.Parse(rhs)
				if err != nil {
					return 0, err
				}
			} else {
				ca, err = clone.Parse(cond)
				if err != nil {
					return 0, err
				}
				op = "!="
			}
			var truth bool
			switch op {
			case "==", "=":
				truth = ca == cb
			case ">=":
				truth = ca >= cb
			case "<=":
				truth = ca <= cb
			case ">":
				truth = ca > cb
			case "<":
				truth = ca < cb
			default:
				truth = ca != cb
			}
			if truth {
				return clone.Parse(raw[1])
			}
			return clone.Parse(raw[2])
		},
	}
}

// splitComparator finds the first top-level (outside parentheses) comparator
// in cond and splits around it.
func splitComparator(cond string) (lhs, op, rhs string, ok bool) {
	depth := 0
	for i := 0; i < len(cond); i++ {
		c := cond[i]
		switch c {
		case '(':
			depth++
			continue
		case ')':
			depth--
			continue
		}
		if depth != 0 {
			continue
		}
		if i+1 < len(cond) {
			switch cond[i : i+2] {
			case "==", "!=", "<>", ">=", "<=":
				return cond[:i], cond[i : i+2], cond[i+2:], true
			}
		}
		switch c {
		case '=', '>', '<':
			return cond[:i], string(c), cond[i+1:], true
		}
	}
	return cond, "", "", false
}
