package validation

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintRule(t *testing.T) {
	host := &optimizer{Metric: "r2"}
	var buf bytes.Buffer

	rule := NewIntegerRule(host, "Epochs", "optimizer", WithOutput(&buf)).
		When(IsEqual(Attr(host, "Metric"), "r2")).
		WhenAll([]Condition{IsNumber(Attr(host, "MaxEpochs"))})
	rule.PrintRule()

	out := buf.String()
	for _, want := range []string{"IntegerRule:", "when:", "when all:", "IsEqual", "IsNumber"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintRuleSet(t *testing.T) {
	host := &optimizer{}
	s, err := NewRuleSet(OperatorAnd,
		NewNumberRule(host, "Epochs", "optimizer"),
		NewGreaterRule(host, "Epochs", "optimizer", 1),
	)
	if err != nil {
		t.Fatalf("NewRuleSet() error = %v", err)
	}

	var buf bytes.Buffer
	s.SetOutput(&buf)
	s.PrintRuleSet()

	out := buf.String()
	if !strings.Contains(out, "passes validation if all of the following rules pass.") {
		t.Errorf("missing operator description:\n%s", out)
	}
	for _, want := range []string{"NumberRule:", "GreaterRule:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintRuleSetEmpty(t *testing.T) {
	s, err := NewRuleSet(OperatorOr)
	if err != nil {
		t.Fatalf("NewRuleSet() error = %v", err)
	}
	var buf bytes.Buffer
	s.SetOutput(&buf)
	s.PrintRuleSet()
	if buf.Len() != 0 {
		t.Errorf("empty set must print nothing, got %q", buf.String())
	}
}
