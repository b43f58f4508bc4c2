package expressions_test

import (
	"testing"

	exprs "github.com/zephyrtronium/exprlang"
)

func TestAddVariableValueAndParse(t *testing.T) {
	s := exprs.Create()
	if err := s.AddVariableValue("x", 5); err != nil {
		t.Fatal(err)
	}
	got, err := s.Parse("x*2")
	if err != nil {
		t.Fatal(err)
	}
	if got != 10 {
		t.Errorf("x*2 = %v, want 10", got)
	}
}

func TestAddVariableLazySource(t *testing.T) {
	s := exprs.Create()
	if err := s.AddVariable("y", "2+3"); err != nil {
		t.Fatal(err)
	}
	got, err := s.Parse("y*10")
	if err != nil {
		t.Fatal(err)
	}
	if got != 50 {
		t.Errorf("y*10 = %v, want 50", got)
	}
}

func TestVariableNamesAreCaseInsensitive(t *testing.T) {
	s := exprs.Create()
	if err := s.AddVariableValue("XY", 5); err != nil {
		t.Fatal(err)
	}
	got, err := s.Parse("xy*2")
	if err != nil {
		t.Fatal(err)
	}
	if got != 10 {
		t.Errorf("xy*2 = %v, want 10 (declared as XY)", got)
	}
}

func TestDegreeSuffixShadowedByVariable(t *testing.T) {
	s := exprs.Create()
	if err := s.AddVariableValue("deg", 7); err != nil {
		t.Fatal(err)
	}
	got, err := s.Parse("3deg")
	if err != nil {
		t.Fatal(err)
	}
	if got != 21 {
		t.Errorf("3deg with deg shadowed by a variable = %v, want 21 (3*deg)", got)
	}
}

func TestAddVariableInvalidName(t *testing.T) {
	s := exprs.Create()
	if err := s.AddVariable("2bad", "1"); err == nil {
		t.Error("AddVariable(\"2bad\", ...): want error, got nil")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := exprs.Create()
	if err := s.AddVariableValue("x", 1); err != nil {
		t.Fatal(err)
	}
	c := s.Clone()
	if err := c.AddVariableValue("x", 2); err != nil {
		t.Fatal(err)
	}
	gotOrig, err := s.Parse("x")
	if err != nil {
		t.Fatal(err)
	}
	gotClone, err := c.Parse("x")
	if err != nil {
		t.Fatal(err)
	}
	if gotOrig != 1 {
		t.Errorf("original session x = %v, want 1 (unaffected by clone mutation)", gotOrig)
	}
	if gotClone != 2 {
		t.Errorf("clone session x = %v, want 2", gotClone)
	}
}

func TestResetClearsVariables(t *testing.T) {
	s := exprs.Create()
	if err := s.AddVariableValue("x", 1); err != nil {
		t.Fatal(err)
	}
	s.Reset(false)
	if _, err := s.Parse("x"); err == nil {
		t.Error("Parse(\"x\") after Reset: want error, got nil")
	}
}

func TestVariableSummary(t *testing.T) {
	s := exprs.Create()
	if err := s.AddVariableValue("a", 1); err != nil {
		t.Fatal(err)
	}
	if err := s.AddVariable("b", "a+1"); err != nil {
		t.Fatal(err)
	}
	lines, err := s.VariableSummary()
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("VariableSummary: got %d lines, want 2", len(lines))
	}
	if lines[0] != "a = 1" {
		t.Errorf("lines[0] = %q, want %q", lines[0], "a = 1")
	}
	if lines[1] != "b = 2" {
		t.Errorf("lines[1] = %q, want %q", lines[1], "b = 2")
	}
}

func TestAddExpressionDispatchesVariableVsFunction(t *testing.T) {
	s := exprs.Create()
	if err := s.AddExpression("a = 5"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddExpression("f(x) = x*a"); err != nil {
		t.Fatal(err)
	}
	got, err := s.Parse("f(3)")
	if err != nil {
		t.Fatal(err)
	}
	if got != 15 {
		t.Errorf("f(3) = %v, want 15", got)
	}
}

func TestRoundingControls(t *testing.T) {
	s := exprs.Create()
	s.SetRoundScale(2)
	got, err := s.Parse("1/3")
	if err != nil {
		t.Fatal(err)
	}
	if got != 0.33 {
		t.Errorf("1/3 rounded to 2 places = %v, want 0.33", got)
	}

	s2 := exprs.Create()
	s2.SetRoundEnabled(false)
	got2, err := s2.Parse("1/3")
	if err != nil {
		t.Fatal(err)
	}
	if got2 == 0.33 {
		t.Errorf("1/3 with rounding disabled = %v, want the unrounded value", got2)
	}
}

func TestCreateWithOptions(t *testing.T) {
	s := exprs.CreateWith(exprs.WithVariable("x", 7), exprs.WithRoundScale(3))
	got, err := s.Parse("x*2")
	if err != nil {
		t.Fatal(err)
	}
	if got != 14 {
		t.Errorf("x*2 = %v, want 14", got)
	}
}
