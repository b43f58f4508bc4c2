package expressions

import "strconv"

// userVariable is a session-scoped binding declared through AddVariable or
// AddVariableValue. Source is the unresolved expression text for a lazily
// resolved variable; it is empty once Value holds a literal or has been
// resolved.
type userVariable struct {
	name     string
	source   string
	value    float64
	resolved bool
}

// innerVariable is a binding the session manages itself rather than the
// caller: named constants (e, pi, π, ...) and the synthetic temporaries the
// reducer introduces for each parenthesized or postfix-rewritten
// subexpression. pending is nil for a plain constant.
type innerVariable struct {
	name     string
	value    float64
	resolved bool
	pending  *tempBinding
}

func (v *innerVariable) resolve(s *Session, force bool) (float64, error) {
	if v.resolved {
		return v.value, nil
	}
	if v.pending == nil {
		return v.value, nil
	}
	val, err := v.pending.resolve(s, force)
	if err != nil {
		return 0, err
	}
	v.value = val
	v.resolved = true
	return val, nil
}

// lookupVariable finds name (matched case-insensitively) among the session's
// user variables first (most recently declared wins, so a later AddVariable
// shadows an earlier one of the same name), then the inner variables
// (constants and temporaries). It reports which table the binding lives in
// so the caller can resolve it.
func (s *Session) lookupVariable(name string) (value interface{}, ok bool) {
	folded := foldName(name)
	for i := len(s.vars) - 1; i >= 0; i-- {
		if s.vars[i].name == folded {
			return s.vars[i], true
		}
	}
	for i := len(s.inner) - 1; i >= 0; i-- {
		if s.inner[i].name == folded {
			return s.inner[i], true
		}
	}
	for i := len(s.consts) - 1; i >= 0; i-- {
		if s.consts[i].name == folded {
			return s.consts[i], true
		}
	}
	return nil, false
}

// hasUserVariable reports whether name (matched case-insensitively) is
// bound among the session's user-declared variables, ignoring built-in
// constants and reducer temporaries.
func (s *Session) hasUserVariable(name string) bool {
	folded := foldName(name)
	for _, v := range s.vars {
		if v.name == folded {
			return true
		}
	}
	return false
}

// resolveVarValue resolves whatever lookupVariable returned to a float64,
// lazily evaluating a user variable's source expression or a pending
// temporary binding as needed.
func (s *Session) resolveVarValue(ref interface{}, force bool) (float64, error) {
	switch v := ref.(type) {
	case *userVariable:
		if v.resolved {
			return v.value, nil
		}
		val, err := s.evalExpr(normalizeSource(v.source, s.hasUserVariable), force)
		if err != nil {
			return 0, err
		}
		val = s.round(val)
		v.value = val
		v.resolved = true
		v.source = ""
		return val, nil
	case *innerVariable:
		return v.resolve(s, force)
	default:
		panic("expressions: unknown variable reference type")
	}
}

// resolveVariables resolves every not-yet-resolved user variable, in
// declaration order. Any variable
// referencing another unresolved user variable resolves it transitively via
// resolveVarValue/evalExpr, so declaration order only matters for the error
// message a failure is attributed to.
func (s *Session) resolveVariables() error {
	for _, v := range s.vars {
		if v.resolved {
			continue
		}
		if _, err := s.resolveVarValue(v, true); err != nil {
			return err
		}
	}
	return nil
}

// userVariableNames returns the names of every resolved user variable, used
// to build "did you mean" suggestions. Unresolved variables are excluded
// since suggesting a name whose own value is unknown would be circular.
func (s *Session) userVariableNames() []string {
	names := make([]string, 0, len(s.vars))
	for _, v := range s.vars {
		if v.resolved {
			names = append(names, v.name)
		}
	}
	return names
}

// VariableSummary returns one "name = value" line per declared user
// variable, in declaration order, resolving any that are still lazy. Meant
// for an end-of-session dump, as cmd/expressions prints after its REPL exits.
func (s *Session) VariableSummary() ([]string, error) {
	if err := s.resolveVariables(); err != nil {
		return nil, err
	}
	lines := make([]string, len(s.vars))
	for i, v := range s.vars {
		lines[i] = v.name + " = " + strconv.FormatFloat(v.value, 'g', -1, 64)
	}
	return lines, nil
}

// addInnerConstant registers a resolved named constant (e, pi, ...). Constants
// live apart from temporaries so that resetTemps can clear temporaries
// between top-level parses without disturbing them.
func (s *Session) addInnerConstant(name string, value float64) {
	s.consts = append(s.consts, &innerVariable{name: foldName(name), value: value, resolved: true})
}

// newTemp allocates a fresh synthetic temporary name and binds it to
// binding, returning the name for substitution into the rewritten source.
func (s *Session) newTemp(binding *tempBinding) string {
	s.tempCounter++
	name := "__tmp" + itoa(s.tempCounter)
	s.inner = append(s.inner, &innerVariable{name: name, pending: binding})
	return name
}

// bindVariable declares name as an already-resolved user variable with the
// given value, returning the binding so callers (the higher-order built-ins)
// can mutate its value directly across repeated evaluations without
// re-declaring it each time.
func (s *Session) bindVariable(name string, value float64) *userVariable {
	v := &userVariable{name: foldName(name), value: value, resolved: true}
	s.vars = append(s.vars, v)
	return v
}

// resetTemps discards every temporary binding accumulated during a parse,
// called at the start of each top-level Parse so temporaries from a previous
// call never leak into the next one.
func (s *Session) resetTemps() {
	s.inner = s.inner[:0]
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
