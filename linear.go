package expressions

import (
	"math"
	"strconv"
	"strings"
)

// linearEval evaluates a parenthesis-free expression whose operators all
// share one priority class, left to right, accumulating into a running
// total the way an un-precedenced four-function calculator would. A leading
// operator (as in "-3", the result of wrapHighestPriority wrapping a unary
// minus with an empty left operand) is handled naturally since the
// accumulator starts at 0 with an implicit leading '+'.
func (s *Session) linearEval(src string, force bool) (float64, error) {
	if src == "" {
		return 0, &ParseError{Src: src, Msg: "empty expression"}
	}
	acc := 0.0
	op := byte('+')
	for len(src) > 0 {
		if isOperatorByte(src[0]) {
			op = src[0]
			src = src[1:]
			continue
		}
		word, rest := nextOperand(src)
		src = rest
		val, err := s.parseOperand(word, force)
		if err != nil {
			return 0, err
		}
		acc = applyOp(op, acc, val)
	}
	return acc, nil
}

func nextOperand(src string) (word, rest string) {
	for i := 0; i < len(src); i++ {
		if isOperatorByte(src[i]) {
			return src[:i], src[i:]
		}
	}
	return src, ""
}

func applyOp(op byte, a, b float64) float64 {
	switch op {
	case '+':
		return a + b
	case '-':
		return a - b
	case '*':
		return a * b
	case '/':
		return a / b
	case '%':
		return math.Mod(a, b)
	case '^':
		return math.Pow(a, b)
	default:
		return b
	}
}

// parseOperand resolves a single operand word to a float64: a numeric
// literal, an exact variable name, or a coefficient-prefixed / concatenated
// run of variable names via identifier splitting.
func (s *Session) parseOperand(word string, force bool) (float64, error) {
	if v, err := strconv.ParseFloat(word, 64); err == nil {
		return v, nil
	}
	if ref, ok := s.lookupVariable(word); ok {
		return s.resolveVarValue(ref, force)
	}
	coeff := 1.0
	rest := word
	if len(word) > 0 && isDigitByte(word[0]) {
		i := 0
		for i < len(rest) && (isDigitByte(rest[i]) || rest[i] == '.') {
			i++
		}
		numPart := rest[:i]
		c, err := strconv.ParseFloat(numPart, 64)
		if err != nil {
			return 0, &ParseError{Src: word, Msg: "invalid numeric literal " + strconv.Quote(numPart)}
		}
		coeff = c
		rest = rest[i:]
		if rest == "" {
			return coeff, nil
		}
		if ref, ok := s.lookupVariable(rest); ok {
			v, err := s.resolveVarValue(ref, force)
			if err != nil {
				return 0, err
			}
			return coeff * v, nil
		}
	}
	return s.splitVariables(rest, coeff, force)
}

// splitVariables matches known-variable names out of word at each position,
// preferring the longest known-variable prefix available there, and
// multiplies each match into coeff — so e.g. "xy" resolves as the single
// variable xy rather than x*y when xy is declared (even if a shorter
// prefix like x is also declared: the longest match wins). Any run of
// characters matching no variable at any length is accumulated and, if
// nonempty once the whole word is consumed, reported as a
// VariableNotFoundError carrying a Levenshtein-nearest suggestion.
func (s *Session) splitVariables(word string, coeff float64, force bool) (float64, error) {
	var unresolved strings.Builder
	for i := 0; i < len(word); {
		matchLen := 0
		for k := len(word) - i; k >= 1; k-- {
			if _, ok := s.lookupVariable(word[i : i+k]); ok {
				matchLen = k
				break
			}
		}
		if matchLen == 0 {
			unresolved.WriteByte(word[i])
			i++
			continue
		}
		ref, _ := s.lookupVariable(word[i : i+matchLen])
		v, err := s.resolveVarValue(ref, force)
		if err != nil {
			return 0, err
		}
		coeff *= v
		i += matchLen
	}
	if unresolved.Len() > 0 {
		return 0, s.variableNotFound(unresolved.String())
	}
	return coeff, nil
}

func (s *Session) variableNotFound(name string) error {
	return &VariableNotFoundError{
		Name:       name,
		Suggestion: bestSuggestion(name, s.userVariableNames()),
	}
}
