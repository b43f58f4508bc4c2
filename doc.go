// Package expressions implements a session-based calculator for infix
// algebraic expressions.
//
// The syntax is intended to be similar to math you'd write in your notes,
// with maybe a few more spaces. "2 x y" is a multiplication of three terms.
// So is "2(x)(y)". "5!" is a factorial, "30degrees" converts to radians, and
// "(0x1F)" is a hex literal (radix literals are recognized only inside
// parentheses). "-2^2^3" parses as "-((2^2)^3)": unlike ordinary
// mathematical notation, "^" is left-associative here, matching the
// left-to-right reduction the evaluator performs.
//
// A Session holds variables and functions across calls to Parse, so you can
// declare a variable or a function once and reuse it across many
// expressions, or Clone a session to evaluate the same definitions against
// several different inputs without the clones affecting each other.
package expressions
