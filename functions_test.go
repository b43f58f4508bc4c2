package expressions_test

import (
	"math"
	"testing"

	exprs "github.com/zephyrtronium/exprlang"
)

func TestUserFunctionBasic(t *testing.T) {
	s := exprs.Create()
	if err := s.AddFunction("square(x) = x*x"); err != nil {
		t.Fatal(err)
	}
	got, err := s.Parse("square(4)")
	if err != nil {
		t.Fatal(err)
	}
	if got != 16 {
		t.Errorf("square(4) = %v, want 16", got)
	}
}

func TestUserFunctionMultipleParams(t *testing.T) {
	s := exprs.Create()
	if err := s.AddFunction("hypot2(a,b) = a^2+b^2"); err != nil {
		t.Fatal(err)
	}
	got, err := s.Parse("hypot2(3,4)")
	if err != nil {
		t.Fatal(err)
	}
	if got != 25 {
		t.Errorf("hypot2(3,4) = %v, want 25", got)
	}
}

func TestUserFunctionForwardReference(t *testing.T) {
	s := exprs.Create()
	if err := s.AddFunction("f(x) = g(x) + 1"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddFunction("g(x) = x*2"); err != nil {
		t.Fatal(err)
	}
	got, err := s.Parse("f(5)")
	if err != nil {
		t.Fatal(err)
	}
	if got != 11 {
		t.Errorf("f(5) = %v, want 11", got)
	}
}

func TestUserFunctionRecursion(t *testing.T) {
	s := exprs.Create()
	if err := s.AddFunction("fact(n) = if(n<=1, 1, n*fact(n-1))"); err != nil {
		t.Fatal(err)
	}
	got, err := s.Parse("fact(5)")
	if err != nil {
		t.Fatal(err)
	}
	if got != 120 {
		t.Errorf("fact(5) = %v, want 120", got)
	}
}

func TestUserFunctionDoesNotLeakParams(t *testing.T) {
	s := exprs.Create()
	if err := s.AddFunction("twice(x) = x*2"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Parse("twice(3)"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Parse("x"); err == nil {
		t.Error("twice's parameter x leaked into the caller's session")
	}
}

func TestUserFunctionInvalidName(t *testing.T) {
	s := exprs.Create()
	if err := s.AddFunction("2bad(x) = x"); err == nil {
		t.Error("AddFunction with invalid name: want error, got nil")
	}
}

func TestUserFunctionMissingEquals(t *testing.T) {
	s := exprs.Create()
	if err := s.AddFunction("f(x) x"); err == nil {
		t.Error("AddFunction missing '=': want error, got nil")
	}
}

func TestUserFunctionWrongArity(t *testing.T) {
	s := exprs.Create()
	if err := s.AddFunction("add(a,b) = a+b"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Parse("add(1,2,3)"); err == nil {
		t.Error("add(1,2,3) against a 2-arity declaration: want error, got nil")
	}
}

func TestUserOverloadFallsBackToBuiltinVariadic(t *testing.T) {
	s := exprs.Create()
	if err := s.AddFunction("gcd(x,y) = if(y=0, x, gcd(y, x%y))"); err != nil {
		t.Fatal(err)
	}
	got, err := s.Parse("gcd(8,20)")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-4) > 1e-9 {
		t.Errorf("gcd(8,20) = %v, want 4", got)
	}
	// Called at an arity the user's own 2-argument overload doesn't cover,
	// the call falls back to the built-in variadic overload instead of
	// erroring.
	got, err = s.Parse("gcd(8,20,100,150)")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-2) > 1e-9 {
		t.Errorf("gcd(8,20,100,150) = %v, want 2", got)
	}
}

func TestUserFunctionSeesOuterVariable(t *testing.T) {
	s := exprs.Create()
	if err := s.AddVariableValue("k", 10); err != nil {
		t.Fatal(err)
	}
	if err := s.AddFunction("scaled(x) = x*k"); err != nil {
		t.Fatal(err)
	}
	got, err := s.Parse("scaled(3)")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-30) > 1e-9 {
		t.Errorf("scaled(3) = %v, want 30", got)
	}
}
