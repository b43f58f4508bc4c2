package expressions

// SessionOption configures a Session at construction time, using the same
// functional-option shape a one-shot Parse call used to take; here options
// configure the longer-lived Session instead, since a Session (not an
// individual Parse call) is this package's unit of configuration.
type SessionOption interface {
	apply(*Session)
}

type sessionOptionFunc func(*Session)

func (f sessionOptionFunc) apply(s *Session) { f(s) }

// WithRoundScale sets the number of decimal places Parse results are rounded
// to, equivalent to calling SetRoundScale immediately after Create.
func WithRoundScale(scale int) SessionOption {
	return sessionOptionFunc(func(s *Session) { s.roundScale = scale })
}

// WithRoundingDisabled turns off rounding of Parse results entirely,
// equivalent to calling SetRoundEnabled(false) immediately after Create.
func WithRoundingDisabled() SessionOption {
	return sessionOptionFunc(func(s *Session) { s.roundEnabled = false })
}

// WithVariable preset-declares a variable with an already-known value,
// equivalent to calling AddVariableValue immediately after Create. It panics
// if name is not a valid identifier, since it is meant for compile-time-known
// presets rather than user input — call AddVariableValue directly when name
// comes from outside the program.
func WithVariable(name string, value float64) SessionOption {
	return sessionOptionFunc(func(s *Session) {
		if err := s.AddVariableValue(name, value); err != nil {
			panic(err)
		}
	})
}

// CreateWith builds a Session the way Create does, then applies opts in
// order.
func CreateWith(opts ...SessionOption) *Session {
	s := Create()
	for _, o := range opts {
		o.apply(s)
	}
	return s
}
