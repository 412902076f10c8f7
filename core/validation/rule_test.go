package validation

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/decisionscients/mlstudio/pkg/errors"
)

// テスト用のホストオブジェクト。ルールは(インスタンス, 属性)の組に束縛される。
type optimizer struct {
	LearningRate float64
	Epochs       int
	MaxEpochs    int
	Metric       string
	Verbose      bool
	Layers       []int
}

// メソッドも引数なし・戻り値1つであれば属性として読める
func (o *optimizer) EffectiveRate() float64 { return o.LearningRate }

func TestNoneRule(t *testing.T) {
	host := &optimizer{}

	rule := NewNoneRule(host, "Metric", "optimizer")
	if err := rule.Validate(nil); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !rule.IsValid() {
		t.Error("nil should satisfy NoneRule")
	}

	if err := rule.Validate(5); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if rule.IsValid() {
		t.Error("5 should not satisfy NoneRule")
	}
	if want := []interface{}{int64(5)}; !reflect.DeepEqual(rule.InvalidValues(), want) {
		t.Errorf("InvalidValues() = %v, want %v", rule.InvalidValues(), want)
	}

	// 文字列 "None" は値なしへコアーションされて有効になる
	if err := rule.Validate("None"); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !rule.IsValid() {
		t.Error(`"None" should coerce to absent and pass`)
	}
	if rule.ValidatedValue() != nil {
		t.Errorf("ValidatedValue() = %v, want nil", rule.ValidatedValue())
	}
}

func TestNotNoneRule(t *testing.T) {
	host := &optimizer{}
	rule := NewNotNoneRule(host, "Metric", "optimizer")

	if err := rule.Validate("r2"); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !rule.IsValid() {
		t.Error("a present value should satisfy NotNoneRule")
	}

	if err := rule.Validate(nil); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if rule.IsValid() {
		t.Error("nil should not satisfy NotNoneRule")
	}
}

func TestEmptyRules(t *testing.T) {
	host := &optimizer{}

	empty := NewEmptyRule(host, "Layers", "optimizer", WithArrayOK(true))
	if err := empty.Validate([]int{}); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !empty.IsValid() {
		t.Error("empty slice should satisfy EmptyRule")
	}
	if err := empty.Validate("x"); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if empty.IsValid() {
		t.Error("nonempty value should not satisfy EmptyRule")
	}

	notEmpty := NewNotEmptyRule(host, "Metric", "optimizer")
	if err := notEmpty.Validate(""); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if notEmpty.IsValid() {
		t.Error("empty string should not satisfy NotEmptyRule")
	}
}

func TestBoolRuleCoercion(t *testing.T) {
	host := &optimizer{}
	rule := NewBoolRule(host, "Verbose", "optimizer")

	tests := []struct {
		name  string
		in    interface{}
		valid bool
		want  interface{}
	}{
		{"bool passes", true, true, true},
		{"yes coerces", "yes", true, true},
		{"zero coerces", 0, true, false},
		{"unknown string fails", "maybe", false, "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := rule.Validate(tt.in); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if rule.IsValid() != tt.valid {
				t.Errorf("IsValid() = %v, want %v", rule.IsValid(), tt.valid)
			}
			if rule.IsValid() && rule.ValidatedValue() != tt.want {
				t.Errorf("ValidatedValue() = %v, want %v", rule.ValidatedValue(), tt.want)
			}
		})
	}
}

func TestBoolRuleArrayCoercion(t *testing.T) {
	host := &optimizer{}
	rule := NewBoolRule(host, "Verbose", "optimizer", WithArrayOK(true))

	if err := rule.Validate([]interface{}{0, 1, "yes"}); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !rule.IsValid() {
		t.Errorf("mixed truthy array should coerce, invalid values: %v", rule.InvalidValues())
	}
	want := []interface{}{false, true, true}
	if !reflect.DeepEqual(rule.ValidatedValue(), want) {
		t.Errorf("ValidatedValue() = %v, want %v", rule.ValidatedValue(), want)
	}
}

func TestIntegerRuleArrayCoercion(t *testing.T) {
	host := &optimizer{}
	rule := NewIntegerRule(host, "Layers", "optimizer", WithArrayOK(true))

	if err := rule.Validate([]interface{}{1, 2, "3"}); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !rule.IsValid() {
		t.Errorf("numeric strings should coerce, invalid values: %v", rule.InvalidValues())
	}
	want := []interface{}{int64(1), int64(2), int64(3)}
	if !reflect.DeepEqual(rule.ValidatedValue(), want) {
		t.Errorf("ValidatedValue() = %v, want %v", rule.ValidatedValue(), want)
	}

	// スカラーも同じ変換規則でコアーションされる
	scalar := NewIntegerRule(host, "Epochs", "optimizer")
	if err := scalar.Validate("3"); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !scalar.IsValid() || scalar.ValidatedValue() != int64(3) {
		t.Errorf("scalar coercion: valid=%v value=%v", scalar.IsValid(), scalar.ValidatedValue())
	}

	// コアーション不能な要素が残る場合は無効のまま
	if err := rule.Validate([]interface{}{1, "abc"}); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if rule.IsValid() {
		t.Error("non-numeric element should fail IntegerRule")
	}
	if want := []interface{}{"abc"}; !reflect.DeepEqual(rule.InvalidValues(), want) {
		t.Errorf("InvalidValues() = %v, want %v", rule.InvalidValues(), want)
	}
}

func TestStringRuleStringifiesScalar(t *testing.T) {
	host := &optimizer{}
	rule := NewStringRule(host, "Metric", "optimizer")

	if err := rule.Validate(42); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !rule.IsValid() {
		t.Error("scalar should stringify and pass StringRule")
	}
	if got := rule.ValidatedValue(); got != "42" {
		t.Errorf("ValidatedValue() = %v, want %q", got, "42")
	}
}

func TestRuleArrayNotPermitted(t *testing.T) {
	host := &optimizer{}
	rule := NewIntegerRule(host, "Epochs", "optimizer")

	err := rule.Validate([]int{1, 2})
	if err == nil {
		t.Fatal("array without arrayOK must be a configuration error")
	}
	var cfg *errors.ConfigurationError
	if !errors.As(err, &cfg) {
		t.Errorf("error = %v, want ConfigurationError", err)
	}
}

func TestRuleMissingAttribute(t *testing.T) {
	host := &optimizer{}
	rule := NewIntegerRule(host, "Momentum", "optimizer")

	err := rule.Validate(5)
	if err == nil {
		t.Fatal("missing attribute must be an error")
	}
	var attr *errors.AttributeError
	if !errors.As(err, &attr) {
		t.Errorf("error = %v, want AttributeError", err)
	}
}

func TestRuleGating(t *testing.T) {
	host := &optimizer{Metric: "r2", Epochs: 10, MaxEpochs: 100}

	// ゲートが偽ならルールは適用されず、値はそのまま有効
	rule := NewIntegerRule(host, "Epochs", "optimizer").
		When(IsEqual(Attr(host, "Metric"), "mse"))
	if err := rule.Validate("not an int"); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !rule.IsValid() {
		t.Error("rule gated off must report valid")
	}
	if len(rule.InvalidValues()) != 0 {
		t.Errorf("gated-off rule must record no invalid values, got %v", rule.InvalidValues())
	}
	if len(rule.InvalidMessages()) != 0 {
		t.Errorf("gated-off rule must record no messages, got %v", rule.InvalidMessages())
	}

	// ゲートが真なら通常どおり評価される
	host.Metric = "mse"
	if err := rule.Validate("not an int"); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if rule.IsValid() {
		t.Error("rule gated on must evaluate the value")
	}
}

func TestRuleWhenAllWhenAny(t *testing.T) {
	host := &optimizer{Epochs: 10, MaxEpochs: 100, Metric: "r2"}

	rule := NewIntegerRule(host, "Epochs", "optimizer").
		WhenAll([]Condition{
			IsNumber(Attr(host, "Epochs")),
			IsLess(Attr(host, "Epochs"), Attr(host, "MaxEpochs")),
		}).
		WhenAny([]Condition{
			IsEqual(Attr(host, "Metric"), "r2"),
			IsEqual(Attr(host, "Metric"), "mse"),
		})

	if err := rule.Validate(5); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !rule.IsValid() {
		t.Error("all gates satisfied, integer value should pass")
	}

	// whenAnyのどちらも満たさなければルールは適用されない
	host.Metric = "mae"
	if err := rule.Validate("not an int"); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !rule.IsValid() {
		t.Error("unsatisfied whenAny must gate the rule off")
	}
}

func TestRuleConditionConfigErrors(t *testing.T) {
	host := &optimizer{}

	tests := []struct {
		name string
		rule *Rule
	}{
		{"nil when", NewIntegerRule(host, "Epochs", "optimizer").When(nil)},
		{"empty whenAll", NewIntegerRule(host, "Epochs", "optimizer").WhenAll(nil)},
		{"nil entry in whenAny", NewIntegerRule(host, "Epochs", "optimizer").WhenAny([]Condition{nil})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate(5)
			if err == nil {
				t.Fatal("expected a configuration error")
			}
			var cfg *errors.ConfigurationError
			if !errors.As(err, &cfg) {
				t.Errorf("error = %v, want ConfigurationError", err)
			}
		})
	}
}

func TestRuleValidateIsIdempotent(t *testing.T) {
	host := &optimizer{}
	rule := NewIntegerRule(host, "Epochs", "optimizer")

	for i := 0; i < 3; i++ {
		if err := rule.Validate("abc"); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
	}
	// 状態はValidateごとにリセットされ、蓄積しない
	if got := len(rule.InvalidValues()); got != 1 {
		t.Errorf("invalid values accumulated across passes: %d", got)
	}
	if got := len(rule.InvalidMessages()); got != 1 {
		t.Errorf("messages accumulated across passes: %d", got)
	}

	if err := rule.Validate(5); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !rule.IsValid() || len(rule.InvalidValues()) != 0 {
		t.Error("a later valid pass must clear earlier invalid state")
	}
}

func TestRuleMessageRecordedWhenValid(t *testing.T) {
	// 適用されたパスは有効時も1件のメッセージを残す
	host := &optimizer{}
	rule := NewIntegerRule(host, "Epochs", "optimizer")

	if err := rule.Validate(5); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !rule.IsValid() {
		t.Fatal("5 should satisfy IntegerRule")
	}
	if got := len(rule.InvalidMessages()); got != 1 {
		t.Errorf("messages = %d, want 1", got)
	}
}

func TestRuleAudit(t *testing.T) {
	host := &optimizer{}
	fixed := Audit{ID: uuid.MustParse("a2f1b9d0-0000-4000-8000-000000000001"), User: "trainer"}

	rule := NewIntegerRule(host, "Epochs", "optimizer",
		WithAudit(func() Audit { return fixed }))
	if rule.Audit() != fixed {
		t.Errorf("Audit() = %v, want injected provider value", rule.Audit())
	}

	// 既定のプロバイダはランダムなUUIDを払い出す
	a := NewIntegerRule(host, "Epochs", "optimizer").Audit()
	b := NewIntegerRule(host, "Epochs", "optimizer").Audit()
	if a.ID == b.ID {
		t.Error("default audit IDs must differ between rules")
	}
}

type explosive struct{}

func (explosive) Threshold() int { panic("broken getter") }

func TestRulePanickingGetterBecomesError(t *testing.T) {
	host := &optimizer{}
	rule := NewEqualRule(host, "Epochs", "optimizer", Attr(&explosive{}, "Threshold"))

	err := rule.Validate(5)
	if err == nil {
		t.Fatal("a panicking getter must surface as an error")
	}
	var panicErr *errors.PanicError
	if !errors.As(err, &panicErr) {
		t.Errorf("error = %v, want PanicError", err)
	}
}

func TestRuleInvalidError(t *testing.T) {
	host := &optimizer{}
	rule := NewIntegerRule(host, "Epochs", "optimizer")
	if err := rule.Validate("abc"); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	err := rule.InvalidError()
	var verr *errors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("InvalidError() = %v, want ValidationError", err)
	}
	if verr.Rule != "IntegerRule" || len(verr.Messages) != 1 {
		t.Errorf("ValidationError = %+v", verr)
	}
}
