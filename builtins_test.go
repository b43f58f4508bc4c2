package expressions_test

import (
	"fmt"
	"math"
	"testing"

	exprs "github.com/zephyrtronium/exprlang"
)

func TestBuiltinRoster(t *testing.T) {
	cases := []struct {
		src  string
		want float64
	}{
		{"sqrt(16)", 4},
		{"cbrt(27)", 3},
		{"abs(-5)", 5},
		{"log(100)", 2},       // base 10
		{"log(8, 2)", 3},      // arbitrary base
		{"log2(8)", 3},        // parametric family
		{"radical3(27)", 3},   // cbrt via parametric family
		{"radical5(32)", 2},   // pow(x, 1/5)
		{"max(1,5,3)", 5},
		{"min(1,5,3)", 1},
		{"avg(2,4,6)", 4},
		{"c(5,2)", 10}, // binomial coefficient
		{"or(6,3)", 7},
		{"and(6,3)", 2},
		{"xor(6,3)", 5},
		{"sec(0)", 1},
		{"csc(π/2)", 1},
	}
	for _, c := range cases {
		s := exprs.Create()
		got, err := s.Parse(c.src)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", c.src, err)
			continue
		}
		if math.Abs(got-c.want) > 1e-6 {
			t.Errorf("Parse(%q) = %v, want %v", c.src, got, c.want)
		}
	}
}

func TestDegreeAndHexLiterals(t *testing.T) {
	s := exprs.Create()
	got, err := s.Parse("sin(90degrees)")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-1) > 1e-9 {
		t.Errorf("sin(90degrees) = %v, want 1", got)
	}

	s2 := exprs.Create()
	got, err = s2.Parse("(0xFF) + 1")
	if err != nil {
		t.Fatal(err)
	}
	if got != 256 {
		t.Errorf("(0xFF)+1 = %v, want 256", got)
	}
}

func ExampleSession_Parse() {
	s := exprs.Create()
	v, _ := s.Parse("2+3*4")
	fmt.Println(v)
	// Output:
	// 14
}
