package expressions

import "strings"

// validateBalancedParens checks that expr contains no empty "()" pair and
// that every parenthesis is matched, reporting the column of the first
// unmatched close or, failing that, the end of the string if any opens are
// left dangling. Ported from Utils.validateBalancedParentheses.
func validateBalancedParens(expr string) error {
	if strings.Contains(realTrim(expr), "()") {
		return &UnbalancedParenthesesError{Src: expr}
	}
	depth := 0
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return &UnbalancedParenthesesError{Src: expr, Col: i + 1}
			}
		}
	}
	if depth != 0 {
		return &UnbalancedParenthesesError{Src: expr, Col: len(expr)}
	}
	return nil
}

// tempBinding is the value an inner temporary variable stands for: either a
// plain parenthesized group (fn is nil, exactly one argument) or a function
// call over one or more arguments. Each argument is either already evaluated
// (deferred is false) or was deferred because its source referenced a
// variable not yet available at reduction time — typically a bound variable
// a higher-order built-in hasn't injected yet.
type tempBinding struct {
	fn       *Func
	args     []tempArg
	resolved bool
	value    float64
}

type tempArg struct {
	raw      string
	val      float64
	deferred bool
}

// resolve produces the binding's value, finalizing any still-deferred
// arguments first. With force true, a deferred argument that still cannot be
// evaluated is a real error rather than staying deferred.
func (b *tempBinding) resolve(s *Session, force bool) (float64, error) {
	if b.resolved {
		return b.value, nil
	}
	vals := make([]float64, len(b.args))
	raws := make([]string, len(b.args))
	for i, a := range b.args {
		raws[i] = a.raw
		if !a.deferred {
			vals[i] = a.val
			continue
		}
		if b.fn != nil && b.fn.special(i) {
			// Special arguments stay raw text forever; they're never
			// "deferred" in the retry sense. This branch shouldn't be
			// reached because special args are never marked deferred.
			continue
		}
		v, err := s.evalExpr(a.raw, force)
		if err != nil {
			return 0, err
		}
		vals[i] = v
		b.args[i].val = v
		b.args[i].deferred = false
	}

	var result float64
	var err error
	if b.fn == nil {
		result, err = vals[0], nil
	} else {
		result, err = b.fn.Invoke(s, raws, vals)
	}
	if err != nil {
		return 0, err
	}
	b.value = result
	b.resolved = true
	return result, nil
}

// evalExpr reduces a normalized (or already-partially-reduced) expression to
// a float64 by repeatedly eliminating the leftmost innermost parenthesized
// group into a temporary binding, then handing the paren-free remainder to
// the precedence reducer and linear evaluator. force disables recovery: a
// sub-expression that cannot be evaluated yet is a real error instead of a
// deferred placeholder.
func (s *Session) evalExpr(src string, force bool) (float64, error) {
	for strings.ContainsAny(src, "(") {
		next, err := s.reduceInnermostParens(src, force)
		if err != nil {
			return 0, err
		}
		src = next
	}
	return s.evalReducedExpr(src, force)
}

// evalReducedExpr evaluates an expression known to contain no parentheses,
// via the precedence reducer (which wraps the leftmost highest-priority
// operator in synthetic parens when operators of more than one priority
// class are mixed) followed by the linear evaluator.
func (s *Session) evalReducedExpr(src string, force bool) (float64, error) {
	for {
		wrapped, changed := wrapHighestPriority(src)
		if !changed {
			return s.linearEval(src, force)
		}
		val, err := s.evalExpr(wrapped, force)
		if err != nil {
			return 0, err
		}
		return val, nil
	}
}

// reduceInnermostParens reduces one parenthesized group in src to a fresh
// temporary variable. A call to a function with at least one Special
// (raw-text) argument position is located first, by balanced-paren matching
// over the whole string rather than innermost-first, so that parentheses
// nested inside one of its special arguments (e.g. the body expression of
// "integral(x, (x^3)/(x+1), 5, 10)") reach the function's Invoke untouched
// instead of being substituted away before the call is even recognized. Only
// once no such call remains does it fall back to reducing the leftmost
// innermost group, which is always safe when no special arguments are in
// play.
func (s *Session) reduceInnermostParens(src string, force bool) (string, error) {
	start, end, fn, argTexts, found, err := s.findSpecialCall(src)
	if err != nil {
		return "", err
	}
	if found {
		return s.substituteCall(src, start, end, fn, argTexts, force)
	}
	return s.reduceLeftmostGroup(src, force)
}

// findSpecialCall scans src left to right for the first "name(...)" call
// whose resolved function has a Special argument position, returning the
// span from the start of name to its matching close paren and the call's
// top-level-comma-split argument texts.
func (s *Session) findSpecialCall(src string) (start, end int, fn *Func, argTexts []string, found bool, err error) {
	for i := 0; i < len(src); i++ {
		if src[i] != '(' {
			continue
		}
		before := src[:i]
		wordStart := lastSpecialIndex(before)
		word := before[wordStart:]
		peeled := word
		for len(peeled) > 0 && isDigitByte(peeled[0]) {
			peeled = peeled[1:]
		}
		if peeled == "" {
			continue
		}
		close := matchingClose(src, i)
		if close == -1 {
			continue
		}
		texts := splitTopLevelParen(src[i+1:close], ',')
		f, lookErr := s.lookupFunction(peeled, len(texts))
		if lookErr != nil {
			return 0, 0, nil, nil, false, lookErr
		}
		if f == nil || !f.hasSpecial() {
			continue
		}
		return i - len(peeled), close, f, texts, true, nil
	}
	return 0, 0, nil, nil, false, nil
}

// matchingClose returns the index of the ')' matching the '(' at open, or -1
// if src[open:] is unbalanced.
func matchingClose(src string, open int) int {
	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// substituteCall builds the temporary binding for the call spanning
// src[start:end+1] (fn already resolved, argTexts already split), evaluating
// non-special arguments eagerly and leaving special ones as raw text, then
// replaces the whole call with a fresh temporary name.
func (s *Session) substituteCall(src string, start, end int, fn *Func, argTexts []string, force bool) (string, error) {
	args := make([]tempArg, len(argTexts))
	for i, raw := range argTexts {
		raw = strings.TrimSpace(raw)
		if fn.special(i) {
			args[i] = tempArg{raw: raw}
			continue
		}
		v, err := s.evalExpr(raw, force)
		if err != nil {
			if !force {
				args[i] = tempArg{raw: raw, deferred: true}
				continue
			}
			return "", err
		}
		args[i] = tempArg{raw: raw, val: v}
	}
	name := s.newTemp(&tempBinding{fn: fn, args: args})
	return spliceGroup(src, start, end, name), nil
}

// reduceLeftmostGroup reduces the leftmost innermost parenthesized group in
// src — the path taken once no pending call has a special argument to
// protect, where any processing order for nested groups gives the same
// result.
func (s *Session) reduceLeftmostGroup(src string, force bool) (string, error) {
	end := strings.IndexByte(src, ')')
	if end == -1 {
		return "", &UnbalancedParenthesesError{Src: src}
	}
	start := strings.LastIndexByte(src[:end], '(')
	if start == -1 {
		return "", &UnbalancedParenthesesError{Src: src}
	}
	inner := src[start+1 : end]
	argTexts := splitTopLevel(inner, ',')

	before := src[:start]
	wordStart := lastSpecialIndex(before)
	wordBefore := before[wordStart:]
	peeled := wordBefore
	for len(peeled) > 0 && isDigitByte(peeled[0]) {
		peeled = peeled[1:]
	}

	var fn *Func
	if peeled != "" {
		f, err := s.lookupFunction(peeled, len(argTexts))
		if err != nil {
			return "", err
		}
		if f != nil {
			fn = f
			start -= len(peeled)
		} else if len(argTexts) > 1 {
			return "", &FunctionNotFoundError{Src: src, Name: peeled}
		}
	} else if len(argTexts) > 1 {
		return "", &FunctionNotFoundError{Src: src}
	}

	args := make([]tempArg, len(argTexts))
	for i, raw := range argTexts {
		raw = strings.TrimSpace(raw)
		if fn != nil && fn.special(i) {
			args[i] = tempArg{raw: raw}
			continue
		}
		v, err := s.evalExpr(raw, force)
		if err != nil {
			if !force {
				args[i] = tempArg{raw: raw, deferred: true}
				continue
			}
			return "", err
		}
		args[i] = tempArg{raw: raw, val: v}
	}

	name := s.newTemp(&tempBinding{fn: fn, args: args})
	return spliceGroup(src, start, end, name), nil
}

// spliceGroup replaces src[start:end+1] with name, inserting an explicit '*'
// on either side where implicit multiplication needs one (i.e. where the
// character immediately outside the replaced span is itself an operand,
// not an operator or another boundary).
func spliceGroup(src string, start, end int, name string) string {
	signBefore := "*"
	if start == 0 || isSpecialByte(src[start-1]) {
		signBefore = ""
	}
	after := src[end+1:]
	signAfter := "*"
	if after == "" || isSpecialByte(after[0]) {
		signAfter = ""
	}
	return src[:start] + signBefore + name + signAfter + after
}

// splitTopLevel splits s on sep, assuming s contains no parentheses (valid
// for the innermost group the reducer hands it); used more generally for
// function-declaration parameter lists too.
func splitTopLevel(s string, sep byte) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, string(sep))
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// splitTopLevelParen splits s on sep, skipping over any sep found inside a
// nested parenthesized group — needed for a special call's argument list,
// which may itself contain parentheses.
func splitTopLevelParen(s string, sep byte) []string {
	if s == "" {
		return nil
	}
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[last:i]))
				last = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[last:]))
	return parts
}
