package expressions

import "strconv"

// Func is a callable recognized by the reducer when it finds a name
// immediately preceding a parenthesized argument list. Arity is the number
// of arguments the function accepts, or -1 for variadic. Special marks,
// per argument position, whether the reducer should pass the argument's raw
// trimmed source text instead of its evaluated value — used by the
// higher-order built-ins, which need to reparse an argument's text against a
// variable they bind themselves.
type Func struct {
	Name    string
	Arity   int
	Special []bool
	Invoke  func(s *Session, raw []string, vals []float64) (float64, error)
}

func (f *Func) special(i int) bool {
	if i < len(f.Special) {
		return f.Special[i]
	}
	return false
}

func (f *Func) hasSpecial() bool {
	for _, b := range f.Special {
		if b {
			return true
		}
	}
	return false
}

func (f *Func) acceptsArity(n int) bool {
	return f.Arity == -1 || f.Arity == n
}

// parametricFamily recognizes a family of function names that encode a
// numeric parameter in their suffix — log2, log10, radical3, √4, and so on.
// Generalized from the original's LogFunction/RadicalFunction, which instead
// stashed the parsed suffix in a mutable field set as a side effect of name
// comparison; build constructs a fresh, independently usable *Func per match
// instead, so no state is shared between calls.
type parametricFamily struct {
	prefix string
	build  func(base float64) *Func
}

func (fam parametricFamily) match(name string) (*Func, bool) {
	if len(name) <= len(fam.prefix) || name[:len(fam.prefix)] != fam.prefix {
		return nil, false
	}
	suffix := name[len(fam.prefix):]
	for i := 0; i < len(suffix); i++ {
		if !isDigitByte(suffix[i]) {
			return nil, false
		}
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return nil, false
	}
	return fam.build(float64(n)), true
}

// lookupFunction resolves name/arity against the session's user-defined
// functions and built-in registry together, then its parametric families —
// mirroring Functions.getFunction's innerFunctions-then-globals order. User
// overloads are preferred over built-in ones of the same arity, but an
// arity that only a built-in overload satisfies (e.g. calling the variadic
// built-in "gcd" at an arity the user's own two-argument "gcd" doesn't
// cover) still resolves rather than erroring — overloads across both tables
// are pooled before arity is selected. It returns (nil, nil) when name
// matches nothing at all (the caller then treats the parenthesized group as
// plain grouping rather than a call), and a *FunctionInvalidArgumentsError
// when name matches but no pooled overload's arity fits.
func (s *Session) lookupFunction(name string, arity int) (*Func, error) {
	userFns := s.userFuncs[name]
	builtinFns := s.builtins[name]
	if len(userFns) > 0 || len(builtinFns) > 0 {
		fns := make([]*Func, 0, len(userFns)+len(builtinFns))
		fns = append(fns, userFns...)
		fns = append(fns, builtinFns...)
		if fn := selectOverload(fns, arity); fn != nil {
			return fn, nil
		}
		return nil, &FunctionInvalidArgumentsError{Name: name, Want: fns[0].Arity, Got: arity}
	}
	for _, fam := range s.parametric {
		if fn, ok := fam.match(name); ok {
			if fn.acceptsArity(arity) {
				return fn, nil
			}
			return nil, &FunctionInvalidArgumentsError{Name: name, Want: fn.Arity, Got: arity}
		}
	}
	return nil, nil
}

func selectOverload(fns []*Func, arity int) *Func {
	var variadic *Func
	for _, fn := range fns {
		if fn.Arity == arity {
			return fn
		}
		if fn.Arity == -1 {
			variadic = fn
		}
	}
	return variadic
}

// addBuiltin registers a built-in overload under its name.
func (s *Session) addBuiltin(fn *Func) {
	s.builtins[fn.Name] = append(s.builtins[fn.Name], fn)
}

// AddFunction registers a user-defined function described by a declaration
// of the form "name(param, param, ...) = body". Each call clones whichever
// session is making the call (not the session the function was declared on)
// before binding parameters and reparsing the body, so the call sees
// whatever variables and functions exist at call time — including ones
// declared after this one, enabling forward references and recursion.
func (s *Session) AddFunction(decl string) error {
	name, params, body, err := parseFunctionDecl(decl)
	if err != nil {
		return err
	}
	fn := &Func{
		Name:  name,
		Arity: len(params),
		Invoke: func(caller *Session, _ []string, vals []float64) (float64, error) {
			call := caller.Clone()
			for i, p := range params {
				call.vars = append(call.vars, &userVariable{name: foldName(p), value: vals[i], resolved: true})
			}
			return call.Parse(body)
		},
	}
	s.userFuncs[name] = append(s.userFuncs[name], fn)
	return nil
}

// parseFunctionDecl splits "name(a,b)=body" into its name, parameter names,
// and body text.
func parseFunctionDecl(decl string) (name string, params []string, body string, err error) {
	decl = realTrim(decl)
	eq := indexByteTop(decl, '=')
	if eq == -1 {
		return "", nil, "", &ParseError{Src: decl, Msg: "function declaration missing '='"}
	}
	head := decl[:eq]
	body = decl[eq+1:]
	open := indexByteTop(head, '(')
	if open == -1 || head[len(head)-1] != ')' {
		return "", nil, "", &ParseError{Src: decl, Msg: "function declaration missing parameter list"}
	}
	name = head[:open]
	if !isIdentifier(name) {
		return "", nil, "", &ParseError{Src: decl, Msg: strconv.Quote(name) + " is not a valid function name"}
	}
	inner := head[open+1 : len(head)-1]
	if inner != "" {
		for _, p := range splitTopLevel(inner, ',') {
			if !isIdentifier(p) {
				return "", nil, "", &ParseError{Src: decl, Msg: strconv.Quote(p) + " is not a valid parameter name"}
			}
			params = append(params, p)
		}
	}
	return name, params, body, nil
}

func indexByteTop(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}
