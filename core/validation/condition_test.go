package validation

import (
	"strings"
	"testing"
)

func TestSyntacticConditions(t *testing.T) {
	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"IsNone nil", IsNone(nil), true},
		{"IsNone value", IsNone(5), false},
		{"IsEmpty empty string", IsEmpty(""), true},
		{"IsEmpty value", IsEmpty("x"), false},
		{"IsBool", IsBool(true), true},
		{"IsBool int", IsBool(1), false},
		{"IsInt", IsInt(3), true},
		{"IsInt float", IsInt(3.5), false},
		{"IsFloat", IsFloat(3.5), true},
		{"IsNumber int", IsNumber(3), true},
		{"IsNumber string", IsNumber("3"), false},
		{"IsString", IsString("sgd"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cond.Compile(); err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			if got := tt.cond.Evaluate(); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSemanticConditions(t *testing.T) {
	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"IsEqual", IsEqual(5, 5.0), true},
		{"IsEqual differs", IsEqual(5, 6), false},
		{"IsIn member", IsIn("r2", []string{"r2", "mse"}), true},
		{"IsIn not member", IsIn("mae", []string{"r2", "mse"}), false},
		{"IsIn array all members", IsIn([]int{1, 2}, []int{1, 2, 3}), true},
		{"IsLess", IsLess(1, 2), true},
		{"IsLess array vs scalar", IsLess([]int{1, 2}, 3), true},
		{"IsLess violation", IsLess([]int{1, 5}, 3), false},
		{"IsGreater", IsGreater(2.5, 1), true},
		{"IsMatch", IsMatch("123", "^[0-9]+$"), true},
		{"IsMatch no match", IsMatch("abc", "^[0-9]+$"), false},
		{"IsMatch non-string", IsMatch(5, "^[0-9]+$"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cond.Compile(); err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			if got := tt.cond.Evaluate(); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConditionLateBinding(t *testing.T) {
	host := &optimizer{Epochs: 10, MaxEpochs: 100}
	cond := IsLess(Attr(host, "Epochs"), Attr(host, "MaxEpochs"))

	if err := cond.Compile(); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !cond.Evaluate() {
		t.Error("10 < 100 should hold")
	}

	// 参照はコンパイルのたびに現在の属性値へ解決し直される
	host.Epochs = 200
	if err := cond.Compile(); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if cond.Evaluate() {
		t.Error("200 < 100 should not hold after recompile")
	}
}

func TestConditionReferenceErrors(t *testing.T) {
	host := &optimizer{}

	// instanceなしの参照はコンパイルに失敗する
	missing := IsEqual(Attr(nil, "Epochs"), 5)
	if err := missing.Compile(); err == nil {
		t.Error("reference without instance should fail to compile")
	}

	// 存在しない属性もコンパイルに失敗する
	noattr := IsEqual(Attr(host, "DoesNotExist"), 5)
	if err := noattr.Compile(); err == nil {
		t.Error("reference to a missing attribute should fail to compile")
	}
}

func TestConditionDescribe(t *testing.T) {
	c := IsEqual(5, 6)
	if err := c.Compile(); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	d := c.Describe()
	if !strings.Contains(d, "IsEqual") || !strings.Contains(d, "5") || !strings.Contains(d, "6") {
		t.Errorf("Describe() = %q, want operands and condition name", d)
	}
}
