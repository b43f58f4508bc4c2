package expressions

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// realTrim removes every whitespace rune from s, not just leading/trailing,
// matching the original normalizer's realTrim.
func realTrim(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var (
	degreeSuffixRe = regexp.MustCompile(`(?i)(degrees|degree|deg)\b`)
	radianSuffixRe = regexp.MustCompile(`(?i)(radians|radian|rad)\b`)
	binaryParenRe  = regexp.MustCompile(`\(0[bB][01]+\)`)
	octalParenRe   = regexp.MustCompile(`\(0[oO][0-7]+\)`)
	hexParenRe     = regexp.MustCompile(`\(0[xX][0-9a-fA-F]+\)`)
	sciParenRe     = regexp.MustCompile(`\(([0-9]*\.?[0-9]+[eE][+-]?[0-9]+)\)`)
)

// normalizeSource runs the full first-pass normalization chain the reducer
// expects: whitespace stripped, degree suffixes rewritten to radians(...)
// calls and radian suffixes dropped, factorial and "°" postfix suffixes rewritten
// to factorial(...)/radians(...) calls, and radix/scientific literals inside
// parentheses folded to plain decimal text. Uses stdlib regexp rather than a
// hand-rolled scanner, since each of these normalization passes is naturally
// a literal regex rewrite.
//
// shadowed, when non-nil, reports whether a candidate suffix word (e.g.
// "deg", "rad") names a variable the caller has already registered; a
// shadowed suffix is left untouched so the user's identifier isn't silently
// swallowed by the unit-conversion sugar. It is nil in contexts (tests,
// pre-session normalization) where no variable table exists to consult.
func normalizeSource(src string, shadowed func(name string) bool) string {
	src = realTrim(src)
	src = fixDegrees(src, shadowed)
	src = fixFactorial(src)
	src = foldRadixLiterals(src)
	src = foldScientificLiterals(src)
	return src
}

// fixFactorial rewrites every trailing "!" onto its operand as a call to the
// factorial built-in, walking backward from each "!" to find where its
// operand begins: either a balanced parenthesized group, or the span back to
// the previous special character (or start of string).
func fixFactorial(src string) string {
	return fixPostfix(src, "!", "factorial")
}

// fixDegrees rewrites degree unit suffixes to radians(...) calls and drops
// radian unit suffixes, leaving the number unchanged. The word suffixes (deg, degrees, rad, radian, radians) apply only
// to an immediately preceding digit-run operand, per spec: "any digit-run
// followed by" one of these suffixes qualifies, so "(x+y)deg" is left
// untouched rather than becoming "radians((x+y))". The "°" character, by
// contrast, is a true postfix operator like "!" and takes the same
// balanced-paren-or-special-char operand walk as factorial. A suffix word
// that is itself a registered variable name is left alone so it doesn't
// shadow the user's identifier.
func fixDegrees(src string, shadowed func(name string) bool) string {
	src = fixDigitRunSuffix(src, degreeSuffixRe, shadowed, "radians")
	src = fixDigitRunSuffix(src, radianSuffixRe, shadowed, "")
	src = fixPostfix(src, "°", "radians")
	return src
}

// fixDigitRunSuffix scans src for non-overlapping matches of re, wrapping
// the preceding digit run in fnName(...) (or dropping the suffix outright
// when fnName is empty) provided the match is both (a) not shadowed by a
// same-named variable and (b) immediately preceded by a qualifying digit
// run; a match failing either condition is left untouched and the scan
// resumes after it.
func fixDigitRunSuffix(src string, re *regexp.Regexp, shadowed func(name string) bool, fnName string) string {
	searchFrom := 0
	for {
		loc := re.FindStringIndex(src[searchFrom:])
		if loc == nil {
			return src
		}
		start, end := loc[0]+searchFrom, loc[1]+searchFrom
		if shadowed != nil && shadowed(src[start:end]) {
			searchFrom = end
			continue
		}
		opStart, ok := digitRunOperandStart(src, start)
		if !ok {
			searchFrom = end
			continue
		}
		if fnName == "" {
			src = src[:start] + src[end:]
		} else {
			src = src[:opStart] + fnName + "(" + src[opStart:start] + ")" + src[end:]
		}
		searchFrom = 0
	}
}

// digitRunOperandStart returns the start index of the maximal digit run
// (with at most one decimal point) ending immediately at idx, and whether
// such a run exists there at all. The word-suffix unit conversions (deg,
// degrees, rad, radian, radians) apply only to a digit-run operand per
// spec.md's "any digit-run followed by..." rule, unlike "!"/"°"'s
// postfix-operator operand, which may be an arbitrary parenthesized group or
// identifier expression.
func digitRunOperandStart(src string, idx int) (start int, ok bool) {
	pos := idx
	dotSeen := false
	digitSeen := false
loop:
	for pos > 0 {
		switch c := src[pos-1]; {
		case isDigitByte(c):
			digitSeen = true
			pos--
		case c == '.' && !dotSeen:
			dotSeen = true
			pos--
		default:
			break loop
		}
	}
	if !digitSeen {
		return idx, false
	}
	return pos, true
}

// fixPostfix rewrites every occurrence of marker, applied as a postfix
// operator, into a call to fnName wrapping its operand, walking backward
// from the marker to find where its operand begins — including skipping
// over a single balanced parenthesized group directly preceding it. marker
// may be multi-byte (as "°" is): operandStart's backward scan only ever
// stops on an ASCII special byte or a balanced '('/')', and a UTF-8
// continuation byte never matches either, so marker's encoding never
// confuses the walk. A "!" directly followed by "=" is the "!=" comparator
// of if() and is left in place.
func fixPostfix(src, marker, fnName string) string {
	from := 0
	for {
		i := strings.Index(src[from:], marker)
		if i == -1 {
			return src
		}
		idx := from + i
		if strings.HasPrefix(src[idx:], "!=") {
			from = idx + len(marker)
			continue
		}
		opStart := operandStart(src, idx)
		src = src[:opStart] + fnName + "(" + src[opStart:idx] + ")" + src[idx+len(marker):]
	}
}

// operandStart walks backward from idx (exclusive) to find where the operand
// of a postfix marker at idx begins: either just after the nearest special
// character, or at 0, skipping over one balanced parenthesized group
// immediately preceding idx if present.
func operandStart(src string, idx int) int {
	pos := idx - 1
	inGroup := false
	depth := 0
	for pos >= 0 {
		c := src[pos]
		if !inGroup && pos == idx-1 && c == ')' {
			inGroup = true
			depth = 1
			pos--
			continue
		}
		if inGroup {
			switch c {
			case ')':
				depth++
			case '(':
				depth--
			}
			pos--
			if depth == 0 {
				inGroup = false
			}
			continue
		}
		if !isSpecialByte(c) {
			pos--
			continue
		}
		return pos + 1
	}
	return 0
}

// foldRadixLiterals folds "(0b...)", "(0o...)", and "(0x...)" literals
// anywhere they appear parenthesized into plain decimal text, repeating until
// none remain (each pass folds at most one literal of each radix).
func foldRadixLiterals(src string) string {
	for {
		changed := false
		if loc := binaryParenRe.FindStringIndex(src); loc != nil {
			src = foldRadix(src, loc, 2, "0b", "0B")
			changed = true
		}
		if loc := octalParenRe.FindStringIndex(src); loc != nil {
			src = foldRadix(src, loc, 8, "0o", "0O")
			changed = true
		}
		if loc := hexParenRe.FindStringIndex(src); loc != nil {
			src = foldRadix(src, loc, 16, "0x", "0X")
			changed = true
		}
		if !changed {
			return src
		}
	}
}

func foldRadix(src string, loc []int, base int, prefixes ...string) string {
	inner := src[loc[0]+1 : loc[1]-1]
	digits := inner
	for _, p := range prefixes {
		digits = strings.TrimPrefix(digits, p)
	}
	n, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return src
	}
	return src[:loc[0]] + "(" + strconv.FormatInt(n, 10) + ")" + src[loc[1]:]
}

// foldScientificLiterals folds "(1.5e10)"-style literals inside parentheses
// into plain decimal text, so the reducer's innermost-parens pass treats them
// as ordinary numeric operands rather than descending into the exponent.
func foldScientificLiterals(src string) string {
	for {
		loc := sciParenRe.FindStringSubmatchIndex(src)
		if loc == nil {
			return src
		}
		text := src[loc[2]:loc[3]]
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			// Malformed exponent (e.g. a dangling sign); leave it for the
			// reducer to report rather than looping forever.
			return src
		}
		src = src[:loc[0]] + "(" + strconv.FormatFloat(v, 'f', -1, 64) + ")" + src[loc[1]:]
	}
}
