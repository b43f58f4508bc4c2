package expressions

import (
	"math"
	"strconv"
)

// Session is the mutable evaluation context for a sequence of expressions:
// it owns user-declared variables and functions, the session's own built-in
// function registry, inner constants, the per-parse temporary bindings the
// reducer introduces, and rounding policy. Built-ins live per-Session rather
// than in a package-level table so that AddFunctions and future built-in
// overrides on one Session never leak into another.
type Session struct {
	vars          []*userVariable
	userFuncs     map[string][]*Func
	builtins      map[string][]*Func
	parametric    []parametricFamily
	consts        []*innerVariable
	inner         []*innerVariable
	tempCounter   int
	roundEnabled  bool
	roundScale    int
}

// Create returns a new Session with the standard built-in function roster
// and named constants registered, and rounding enabled at 10 decimal places.
func Create() *Session {
	s := &Session{
		userFuncs: map[string][]*Func{},
		builtins:  map[string][]*Func{},
		roundEnabled: true,
		roundScale:   10,
	}
	registerBuiltins(s)
	return s
}

// Clone returns an independent copy of the session sharing no mutable state
// with the original: recursive user-function calls and the higher-order
// built-ins each take a Clone so that binding a loop or parameter variable
// in the clone never leaks into the caller's session.
func (s *Session) Clone() *Session {
	c := &Session{
		userFuncs:    make(map[string][]*Func, len(s.userFuncs)),
		builtins:     make(map[string][]*Func, len(s.builtins)),
		parametric:   s.parametric,
		consts:       s.consts, // constants are immutable after Create, safe to share
		roundEnabled: s.roundEnabled,
		roundScale:   s.roundScale,
	}
	c.vars = make([]*userVariable, len(s.vars))
	for i, v := range s.vars {
		cp := *v
		c.vars[i] = &cp
	}
	for name, fns := range s.userFuncs {
		c.userFuncs[name] = append([]*Func(nil), fns...)
	}
	// AddFunctions can extend the built-in table, so it is copied too.
	for name, fns := range s.builtins {
		c.builtins[name] = append([]*Func(nil), fns...)
	}
	return c
}

// Reset clears the session's user variables and functions. When deep is
// true it also clears temporary reducer state; deep is mostly useful after
// an evaluation error left the session in an inconsistent partially-resolved
// state and the caller wants to start clean.
func (s *Session) Reset(deep bool) {
	s.vars = nil
	s.userFuncs = map[string][]*Func{}
	if deep {
		s.inner = nil
		s.tempCounter = 0
	}
}

// SetRoundEnabled toggles whether Parse results (and resolved variable
// values) are rounded to the decimal places set by SetRoundScale.
func (s *Session) SetRoundEnabled(enabled bool) {
	s.roundEnabled = enabled
}

// SetRoundScale sets the number of decimal places results are rounded to
// when rounding is enabled.
func (s *Session) SetRoundScale(scale int) {
	s.roundScale = scale
}

// round applies the session's rounding policy to v. NaN and infinities pass
// through unchanged.
func (s *Session) round(v float64) float64 {
	if !s.roundEnabled || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	scale := math.Pow(10, float64(s.roundScale))
	return math.Round(v*scale) / scale
}

// AddVariable declares a variable bound to an unresolved source expression,
// resolved lazily the first time it is referenced (or eagerly, in
// declaration order, the next time Parse runs).
func (s *Session) AddVariable(name, source string) error {
	if !isIdentifier(name) {
		return &ParseError{Src: name, Msg: strconv.Quote(name) + " is not a valid variable name"}
	}
	s.vars = append(s.vars, &userVariable{name: foldName(name), source: source})
	return nil
}

// AddVariableValue declares a variable bound to an already-known literal
// value.
func (s *Session) AddVariableValue(name string, value float64) error {
	if !isIdentifier(name) {
		return &ParseError{Src: name, Msg: strconv.Quote(name) + " is not a valid variable name"}
	}
	s.vars = append(s.vars, &userVariable{name: foldName(name), value: value, resolved: true})
	return nil
}

// AddFunctions registers a batch of already-built native functions under the
// session's built-in table, for embedders extending the roster with host
// callables. Reflection-based registration by scanning a namespace type for
// annotated methods is out of scope: callers build *Func values directly
// instead.
func (s *Session) AddFunctions(fns ...*Func) {
	for _, fn := range fns {
		s.addBuiltin(fn)
	}
}

// AddExpression declares either a variable or a function, depending on
// whether decl's left-hand side (before its top-level '=') looks like a call
// signature ("name(params)") or a bare identifier ("name").
func (s *Session) AddExpression(decl string) error {
	trimmed := realTrim(decl)
	eq := indexByteTop(trimmed, '=')
	if eq == -1 {
		return &ParseError{Src: decl, Msg: "expression declaration missing '='"}
	}
	head := trimmed[:eq]
	if indexByteTop(head, '(') != -1 {
		return s.AddFunction(trimmed)
	}
	return s.AddVariable(head, trimmed[eq+1:])
}

// Parse evaluates expr against the session's current variables and
// functions, resolving any not-yet-resolved user variables first (in
// declaration order), and returns the rounded result.
func (s *Session) Parse(expr string) (float64, error) {
	if err := validateBalancedParens(expr); err != nil {
		return 0, err
	}
	if err := s.resolveVariables(); err != nil {
		return 0, err
	}
	s.resetTemps()
	norm := normalizeSource(expr, s.hasUserVariable)
	val, err := s.evalExpr(norm, true)
	if err != nil {
		return 0, wrapError(expr, err)
	}
	return s.round(val), nil
}
