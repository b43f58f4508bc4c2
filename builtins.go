package expressions

import "math"

// fixedFunc builds a built-in with an exact arity and plain evaluated
// arguments (no special/raw-text positions).
func fixedFunc(name string, arity int, fn func(a []float64) (float64, error)) *Func {
	return &Func{Name: name, Arity: arity, Invoke: func(_ *Session, _ []string, vals []float64) (float64, error) {
		return fn(vals)
	}}
}

func variadicFunc(name string, fn func(a []float64) (float64, error)) *Func {
	return &Func{Name: name, Arity: -1, Invoke: func(_ *Session, _ []string, vals []float64) (float64, error) {
		return fn(vals)
	}}
}

// unary builds a single-argument function with no possible domain error.
func unary(name string, fn func(float64) float64) *Func {
	return fixedFunc(name, 1, func(a []float64) (float64, error) { return fn(a[0]), nil })
}

// registerBuiltins populates a fresh session's built-in function table and
// parametric families (see DESIGN.md for the function-by-function
// grounding), generalized from static methods taking/returning double to
// Go closures over float64.
func registerBuiltins(s *Session) {
	// Core transcendental and algebraic functions.
	s.addBuiltin(unary("sqrt", math.Sqrt))
	s.addBuiltin(unary("cbrt", math.Cbrt))
	s.addBuiltin(unary("abs", math.Abs))
	s.addBuiltin(unary("ceil", math.Ceil))
	s.addBuiltin(unary("floor", math.Floor))
	s.addBuiltin(unary("exp", math.Exp))
	s.addBuiltin(unary("ln", math.Log))
	s.addBuiltin(unary("radians", func(a float64) float64 { return a * math.Pi / 180 }))
	s.addBuiltin(unary("sign", func(a float64) float64 {
		switch {
		case a > 0:
			return 1
		case a < 0:
			return -1
		default:
			return 0
		}
	}))
	s.addBuiltin(fixedFunc("round", 1, func(a []float64) (float64, error) { return math.Round(a[0]), nil }))
	s.addBuiltin(fixedFunc("pow", 2, func(a []float64) (float64, error) { return math.Pow(a[0], a[1]), nil }))
	s.addBuiltin(fixedFunc("mod", 2, func(a []float64) (float64, error) { return math.Mod(a[0], a[1]), nil }))

	// log(x) is base 10 (matches the app variant's bare-arg overload); log(x,
	// base) is arbitrary base; ln is natural log (registered above).
	s.addBuiltin(unary("log", math.Log10))
	s.addBuiltin(fixedFunc("log", 2, func(a []float64) (float64, error) { return math.Log(a[0]) / math.Log(a[1]), nil }))

	// radical(x)/radical(x,n): bare and 2-arg forms, plus the parametric
	// radical<n> and √<n> families below.
	s.addBuiltin(unary("radical", math.Sqrt))
	s.addBuiltin(unary("√", math.Sqrt))
	s.addBuiltin(fixedFunc("radical", 2, func(a []float64) (float64, error) { return radicalN(a[0], a[1]), nil }))

	s.parametric = append(s.parametric,
		parametricFamily{prefix: "log", build: func(base float64) *Func {
			return unary("log"+itoa(int(base)), func(a float64) float64 { return math.Log(a) / math.Log(base) })
		}},
		parametricFamily{prefix: "radical", build: func(n float64) *Func {
			return unary("radical"+itoa(int(n)), func(a float64) float64 { return radicalN(a, n) })
		}},
		parametricFamily{prefix: "√", build: func(n float64) *Func {
			return unary("√"+itoa(int(n)), func(a float64) float64 { return radicalN(a, n) })
		}},
	)

	// Trigonometric, inverse, hyperbolic, and inverse-hyperbolic roster,
	// including sec/csc/cot and their hyperbolic/inverse forms.
	s.addBuiltin(unary("sin", math.Sin))
	s.addBuiltin(unary("cos", math.Cos))
	s.addBuiltin(unary("tan", math.Tan))
	s.addBuiltin(unary("cot", func(a float64) float64 { return 1 / math.Tan(a) }))
	s.addBuiltin(unary("sec", func(a float64) float64 { return 1 / math.Cos(a) }))
	s.addBuiltin(unary("csc", func(a float64) float64 { return 1 / math.Sin(a) }))
	s.addBuiltin(unary("asin", math.Asin))
	s.addBuiltin(unary("arcsin", math.Asin))
	s.addBuiltin(unary("acos", math.Acos))
	s.addBuiltin(unary("arccos", math.Acos))
	s.addBuiltin(unary("atan", math.Atan))
	s.addBuiltin(unary("arctan", math.Atan))
	s.addBuiltin(unary("arccot", func(a float64) float64 { return math.Atan(1 / a) }))
	s.addBuiltin(unary("arcsec", func(a float64) float64 { return math.Acos(1 / a) }))
	s.addBuiltin(unary("arccsc", func(a float64) float64 { return math.Asin(1 / a) }))
	s.addBuiltin(fixedFunc("atan2", 2, func(a []float64) (float64, error) { return math.Atan2(a[0], a[1]), nil }))

	s.addBuiltin(unary("sinh", math.Sinh))
	s.addBuiltin(unary("cosh", math.Cosh))
	s.addBuiltin(unary("tanh", math.Tanh))
	s.addBuiltin(unary("coth", func(a float64) float64 { return 1 / math.Tanh(a) }))
	s.addBuiltin(unary("sech", func(a float64) float64 { return 1 / math.Cosh(a) }))
	s.addBuiltin(unary("csch", func(a float64) float64 { return 1 / math.Sinh(a) }))
	s.addBuiltin(unary("asinh", math.Asinh))
	s.addBuiltin(unary("arcsinh", math.Asinh))
	s.addBuiltin(unary("acosh", math.Acosh))
	s.addBuiltin(unary("arccosh", math.Acosh))
	s.addBuiltin(unary("atanh", math.Atanh))
	s.addBuiltin(unary("arctanh", math.Atanh))
	s.addBuiltin(unary("acoth", func(a float64) float64 { return math.Atanh(1 / a) }))
	s.addBuiltin(unary("asech", func(a float64) float64 { return math.Acosh(1 / a) }))
	s.addBuiltin(unary("acsch", func(a float64) float64 { return math.Asinh(1 / a) }))

	// Variadic reductions.
	s.addBuiltin(variadicFunc("max", func(a []float64) (float64, error) {
		out := a[0]
		for _, v := range a[1:] {
			out = math.Max(out, v)
		}
		return out, nil
	}))
	s.addBuiltin(variadicFunc("min", func(a []float64) (float64, error) {
		out := a[0]
		for _, v := range a[1:] {
			out = math.Min(out, v)
		}
		return out, nil
	}))
	s.addBuiltin(variadicFunc("sum", func(a []float64) (float64, error) {
		out := 0.0
		for _, v := range a {
			out += v
		}
		return out, nil
	}))
	s.addBuiltin(variadicFunc("average", avgFunc))
	s.addBuiltin(variadicFunc("avg", avgFunc))
	s.addBuiltin(variadicFunc("gcd", func(a []float64) (float64, error) {
		result := 0.0
		for _, v := range a {
			result = gcd2(v, result)
		}
		return result, nil
	}))

	// Factorial, binomial, and bitwise functions, all on 64-bit integers to
	// avoid truncating large operands.
	s.addBuiltin(unary("factorial", factorial))
	s.addBuiltin(fixedFunc("c", 2, func(a []float64) (float64, error) {
		return factorial(a[0]) / (factorial(a[1]) * factorial(a[0]-a[1])), nil
	}))
	s.addBuiltin(fixedFunc("or", 2, func(a []float64) (float64, error) { return float64(int64(a[0]) | int64(a[1])), nil }))
	s.addBuiltin(fixedFunc("and", 2, func(a []float64) (float64, error) { return float64(int64(a[0]) & int64(a[1])), nil }))
	s.addBuiltin(fixedFunc("xor", 2, func(a []float64) (float64, error) { return float64(int64(a[0]) ^ int64(a[1])), nil }))
	s.addBuiltin(unary("not", func(a float64) float64 { return float64(^int64(a)) }))
	s.addBuiltin(fixedFunc("nor", 2, func(a []float64) (float64, error) {
		return float64(^(int64(a[0]) | int64(a[1]))), nil
	}))
	s.addBuiltin(fixedFunc("shiftLeft", 2, func(a []float64) (float64, error) {
		return float64(int64(a[0]) << uint(int64(a[1]))), nil
	}))
	s.addBuiltin(fixedFunc("shiftRight", 2, func(a []float64) (float64, error) {
		return float64(int64(a[0]) >> uint(int64(a[1]))), nil
	}))
	s.addBuiltin(fixedFunc("unsignedShiftRight", 2, func(a []float64) (float64, error) {
		return float64(int64(uint64(int64(a[0])) >> uint(int64(a[1])))), nil
	}))

	registerHigherOrder(s)

	// Named constants.
	s.addInnerConstant("e", math.E)
	s.addInnerConstant("pi", math.Pi)
	s.addInnerConstant("π", math.Pi)
	s.addInnerConstant("Π", math.Pi)
}

func radicalN(a, n float64) float64 {
	switch {
	case n <= 2:
		return math.Sqrt(a)
	case n == 3:
		return math.Cbrt(a)
	default:
		return math.Pow(a, 1/n)
	}
}

func avgFunc(a []float64) (float64, error) {
	sum := 0.0
	for _, v := range a {
		sum += v
	}
	return sum / float64(len(a)), nil
}

func gcd2(a, b float64) float64 {
	x, y := math.Abs(a), math.Abs(b)
	for y != 0 {
		x, y = y, math.Mod(x, y)
	}
	return x
}

func factorial(x float64) float64 {
	n := int64(x)
	var result int64 = 1
	for f := int64(2); f <= n; f++ {
		result *= f
	}
	return float64(result)
}
