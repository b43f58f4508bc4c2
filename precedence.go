package expressions

import "strings"

// wrapHighestPriority looks at the operators present in a parenthesis-free
// src and, if more than one priority class is present, wraps the leftmost
// occurrence of the highest-priority operator (and its two operands) in
// synthetic parentheses so the next reduction pass evaluates it first; when
// that operator's right operand carries a sign, only the signed operand is
// wrapped, as "(0-x)" or "(0+x)". It
// reports changed=false once every operator present shares one priority
// class, signaling that src is ready for the linear evaluator.
func wrapHighestPriority(src string) (wrapped string, changed bool) {
	present := map[int]bool{}
	for _, c := range opOrder {
		if strings.IndexByte(src, c) != -1 {
			present[priorityOf(c)] = true
		}
	}
	if len(present) <= 1 {
		return src, false
	}
	highest := -1
	for p := range present {
		if p > highest {
			highest = p
		}
	}
	bestIdx := -1
	var bestOp byte
	for i, c := range opOrder {
		if opPriority[i] != highest {
			continue
		}
		idx := strings.IndexByte(src, c)
		if idx != -1 && (bestIdx == -1 || idx < bestIdx) {
			bestIdx = idx
			bestOp = c
		}
	}
	if bestIdx == -1 {
		return src, false
	}
	beforeStart := lastOperatorIndex(src[:bestIdx])
	wordBefore := src[beforeStart:bestIdx]
	wordAfter := leadingOperand(src[bestIdx+1:])
	rest := src[bestIdx+1+len(wordAfter):]
	if len(wordAfter) > 1 && (wordAfter[0] == '-' || wordAfter[0] == '+') {
		// A signed right operand is wrapped on its own as "(0-x)", so
		// "2*-3" becomes "2*(0-3)" and the sign is applied before the
		// operator to its left sees the operand.
		return src[:bestIdx+1] + "(0" + wordAfter + ")" + rest, true
	}
	return src[:beforeStart] + "(" + wordBefore + string(bestOp) + wordAfter + ")" + rest, true
}
