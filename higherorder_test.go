package expressions_test

import (
	"math"
	"testing"

	exprs "github.com/zephyrtronium/exprlang"
)

func TestSigma(t *testing.T) {
	s := exprs.Create()
	got, err := s.Parse("sigma(i, i^2, 1, 5)")
	if err != nil {
		t.Fatal(err)
	}
	want := 1.0 + 4 + 9 + 16 + 25
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("sigma(i, i^2, 1, 5) = %v, want %v", got, want)
	}
}

func TestSigmaStep(t *testing.T) {
	s := exprs.Create()
	got, err := s.Parse("sigma(i, i, 0, 10, 2)")
	if err != nil {
		t.Fatal(err)
	}
	want := 0.0 + 2 + 4 + 6 + 8 + 10
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("sigma(i, i, 0, 10, 2) = %v, want %v", got, want)
	}
}

func TestDerivative(t *testing.T) {
	s := exprs.Create()
	got, err := s.Parse("derivative(x, x^3, 2)")
	if err != nil {
		t.Fatal(err)
	}
	want := 12.0 // d/dx x^3 at x=2 is 3x^2 = 12
	if math.Abs(got-want) > 1e-3 {
		t.Errorf("derivative(x, x^3, 2) = %v, want %v", got, want)
	}
}

func TestLimitRemovableDiscontinuity(t *testing.T) {
	s := exprs.Create()
	got, err := s.Parse("limit(x->2, (x^2-4)/(x-2))")
	if err != nil {
		t.Fatal(err)
	}
	want := 4.0
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("limit(x->2, (x^2-4)/(x-2)) = %v, want %v", got, want)
	}
}

// TestIntegralWithNestedParensInBody guards against the reducer prematurely
// substituting the parentheses nested inside the integrand before the
// surrounding ∫(...) call is recognized, which would hand the built-in a
// mangled body instead of "(x^3)/(x+1)".
func TestIntegralWithNestedParensInBody(t *testing.T) {
	s := exprs.Create()
	got, err := s.Parse("2∫(x, (x^3)/(x+1), 5, 10)")
	if err != nil {
		t.Fatal(err)
	}
	s2 := exprs.Create()
	want, err := s2.Parse("2*integral(x, x^3/(x+1), 5, 10)")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("2∫(x, (x^3)/(x+1), 5, 10) = %v, want %v (matching unparenthesized equivalent)", got, want)
	}
}

func TestIfBuiltin(t *testing.T) {
	cases := []struct {
		src  string
		want float64
	}{
		{"if(1>0, 10, 20)", 10},
		{"if(1<0, 10, 20)", 20},
		{"if(2=2, 1, 0)", 1},
		{"if(3, 1, 0)", 1},
		{"if(0, 1, 0)", 0},
	}
	for _, c := range cases {
		s := exprs.Create()
		got, err := s.Parse(c.src)
		if err != nil {
			t.Errorf("Parse(%q): %v", c.src, err)
			continue
		}
		if got != c.want {
			t.Errorf("Parse(%q) = %v, want %v", c.src, got, c.want)
		}
	}
}

func TestBoundVariableDoesNotLeak(t *testing.T) {
	s := exprs.Create()
	if _, err := s.Parse("sigma(i, i, 1, 3)"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Parse("i"); err == nil {
		t.Error("sigma's bound variable i leaked into the caller's session")
	}
}

// TestIfDoesNotClobberSiblingTemps guards against if's Invoke reparsing on
// the live caller session: a naive implementation wipes out the temp
// binding the outer reduction already created for sqrt(4) before if is
// invoked, turning this into a VariableNotFoundError instead of 3.
func TestIfDoesNotClobberSiblingTemps(t *testing.T) {
	s := exprs.Create()
	got, err := s.Parse("if(1>0,1,0)+sqrt(4)")
	if err != nil {
		t.Fatal(err)
	}
	if got != 3 {
		t.Errorf(`Parse("if(1>0,1,0)+sqrt(4)") = %v, want 3`, got)
	}
}
