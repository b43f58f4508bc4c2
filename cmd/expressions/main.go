// Command expressions is a small REPL-style front end over the expressions
// package: lines are declarations (variable or function) until the first
// line that isn't, which is evaluated as a query, with a trailing dump of
// every declared variable's resolved value. A query that fails on an unknown
// variable is reported and reading continues with the next line.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	exprs "github.com/zephyrtronium/exprlang"
)

func main() {
	log.SetFlags(0)
	var (
		inname  string
		given   []string
		scale   int
		noRound bool
		echo    bool
	)
	flag.StringVar(&inname, "in", "", "input file (default stdin)")
	flag.Func("given", "name=value preset variable (any number of times)", func(s string) error {
		given = append(given, s)
		return nil
	})
	flag.IntVar(&scale, "scale", 10, "decimal places results are rounded to")
	flag.BoolVar(&noRound, "no-round", false, "disable rounding of results")
	flag.BoolVar(&echo, "echo", false, "print each declaration as it's accepted")
	flag.Parse()

	sess := exprs.Create()
	sess.SetRoundScale(scale)
	if noRound {
		sess.SetRoundEnabled(false)
	}
	for _, g := range given {
		name, value, ok := strings.Cut(g, "=")
		if !ok {
			log.Fatalf("-given %q: want name=value", g)
		}
		if err := sess.AddExpression(strings.TrimSpace(name) + "=" + strings.TrimSpace(value)); err != nil {
			log.Fatalf("-given %q: %v", g, err)
		}
	}

	in := os.Stdin
	if inname != "" && inname != "-" {
		f, err := os.Open(inname)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		in = f
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if isDeclaration(line) {
			if err := sess.AddExpression(line); err != nil {
				log.Fatal(err)
			}
			if echo {
				fmt.Println("declared:", line)
			}
			continue
		}

		result, err := sess.Parse(line)
		if err != nil {
			if _, ok := err.(*exprs.VariableNotFoundError); ok {
				fmt.Println(err)
				continue
			}
			log.Fatal(err)
		}
		fmt.Println(result)
		break
	}
	if err := scanner.Err(); err != nil {
		log.Fatal(err)
	}

	summary, err := sess.VariableSummary()
	if err != nil {
		log.Fatal(err)
	}
	if len(summary) > 0 {
		fmt.Println("Variables:")
		for _, line := range summary {
			fmt.Println(line)
		}
	}
}

// isDeclaration reports whether line looks like a variable or function
// declaration ("name = expr" or "name(params) = expr") rather than a query
// to evaluate. A top-level "if" appearing before the first "=" means the
// line is a query whose condition happens to contain one (e.g.
// "if(a=b,1,0)"), not a declaration.
func isDeclaration(line string) bool {
	eq := strings.IndexByte(line, '=')
	if eq == -1 {
		return false
	}
	head := line[:eq]
	if idx := strings.Index(head, "if"); idx != -1 {
		return isDeclaration(head[:idx])
	}
	return isIdentifierHead(head) || strings.Contains(head, "(")
}

func isIdentifierHead(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte("%^*/+-,()!=<>", c) != -1 {
			return false
		}
	}
	return true
}
