package validation

import (
	"fmt"
	"regexp"

	"gonum.org/v1/gonum/floats"

	"github.com/decisionscients/mlstudio/pkg/errors"
)

// セマンティックルールは値を別の値（参照値）と突き合わせる。
// 参照値はリテラル、または compile() 時に解決される遅延束縛参照
// （instance, attribute の組）のどちらでも指定できる。

// semanticChecker は参照値の保持と解決を共通化する
type semanticChecker struct {
	baseChecker
	ref Operand
}

// compile は参照間接を現在の属性値へ解決する。リテラルの場合は何もしない。
func (c *semanticChecker) compile(*Rule) error { return c.ref.Compile() }

// Reference は解決済みの参照値を返す
func (c *semanticChecker) reference() Value { return c.ref.Value() }

// arraysEqual は配列同士の等価性を判定する。
// 両辺が数値配列の場合はgonumの要素単位比較を使用する。
func arraysEqual(a, b Value) bool {
	if af, ok := floatSlice(a); ok {
		if bf, ok2 := floatSlice(b); ok2 {
			return len(af) == len(bf) && floats.Equal(af, bf)
		}
	}
	return a.Equal(b)
}

// floatSlice は全要素が数値の配列を[]float64へ展開する
func floatSlice(v Value) ([]float64, bool) {
	if !v.IsArray() {
		return nil, false
	}
	out := make([]float64, v.Len())
	for i, e := range v.Elems() {
		f, ok := e.AsFloat()
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

// ---------------------------------------------------------------------------
//                                EqualRule
// ---------------------------------------------------------------------------

type equalChecker struct{ semanticChecker }

func (*equalChecker) name() string { return "EqualRule" }

// EqualRuleは値全体を1つの単位として判定する（要素分解しない）
func (*equalChecker) wholeValue() bool { return true }

func (c *equalChecker) evaluate(_ *Rule, v Value) bool {
	ref := c.reference()
	switch {
	case v.IsArray() && ref.IsArray():
		return !arraysEqual(v, ref)
	case !v.IsArray() && ref.IsArray():
		// 長さの異なるオブジェクト同士は常に不一致
		return true
	default:
		return !v.Equal(ref)
	}
}

func (c *equalChecker) message(r *Rule) string {
	return fmt.Sprintf("The %s property of the %s class is not equal to %s. Invalid value(s): %s.",
		r.targetName, r.parentName, c.reference().String(), r.invalidValuesString())
}

// NewEqualRule は「値が参照値と等しいこと」を検証するルールを作成する。
// referenceValueにはリテラル値、またはAttrで作成した遅延束縛参照を渡す。
func NewEqualRule(instance interface{}, targetName, parentName string, referenceValue interface{}, opts ...Option) *Rule {
	return newRule(instance, targetName, parentName,
		&equalChecker{semanticChecker{ref: operandOf(referenceValue)}}, opts...)
}

// ---------------------------------------------------------------------------
//                              NotEqualRule
// ---------------------------------------------------------------------------

type notEqualChecker struct{ semanticChecker }

func (*notEqualChecker) name() string { return "NotEqualRule" }

func (*notEqualChecker) wholeValue() bool { return true }

func (c *notEqualChecker) evaluate(_ *Rule, v Value) bool {
	ref := c.reference()
	switch {
	case v.IsArray() && ref.IsArray():
		return arraysEqual(v, ref)
	case !v.IsArray() && ref.IsArray():
		return false
	default:
		return v.Equal(ref)
	}
}

func (c *notEqualChecker) message(r *Rule) string {
	return fmt.Sprintf("The %s property of the %s class is equal to %s. Invalid value(s): %s.",
		r.targetName, r.parentName, c.reference().String(), r.invalidValuesString())
}

// NewNotEqualRule は「値が参照値と等しくないこと」を検証するルールを作成する
func NewNotEqualRule(instance interface{}, targetName, parentName string, referenceValue interface{}, opts ...Option) *Rule {
	return newRule(instance, targetName, parentName,
		&notEqualChecker{semanticChecker{ref: operandOf(referenceValue)}}, opts...)
}

// ---------------------------------------------------------------------------
//                               AllowedRule
// ---------------------------------------------------------------------------

type allowedChecker struct{ semanticChecker }

func (*allowedChecker) name() string { return "AllowedRule" }

func (c *allowedChecker) evaluate(_ *Rule, v Value) bool {
	ref := c.reference()
	if !ref.IsArray() {
		return !v.Equal(ref)
	}
	return !memberOf(v, ref)
}

func (c *allowedChecker) message(r *Rule) string {
	return fmt.Sprintf("The value of %s property of the %s class is not allowed. Allowed value(s): %s. Invalid value(s): %s.",
		r.targetName, r.parentName, c.reference().String(), r.invalidValuesString())
}

// NewAllowedRule は「値が許可された集合の要素であること」を検証するルールを作成する。
// 配列値は要素単位で許可集合と突き合わせる。
func NewAllowedRule(instance interface{}, targetName, parentName string, referenceValue interface{}, opts ...Option) *Rule {
	return newRule(instance, targetName, parentName,
		&allowedChecker{semanticChecker{ref: operandOf(referenceValue)}}, opts...)
}

// ---------------------------------------------------------------------------
//                              DisAllowedRule
// ---------------------------------------------------------------------------

type disAllowedChecker struct{ semanticChecker }

func (*disAllowedChecker) name() string { return "DisAllowedRule" }

func (c *disAllowedChecker) evaluate(_ *Rule, v Value) bool {
	ref := c.reference()
	if !ref.IsArray() {
		return v.Equal(ref)
	}
	return memberOf(v, ref)
}

func (c *disAllowedChecker) message(r *Rule) string {
	return fmt.Sprintf("The value of %s property of the %s class is disallowed. Disallowed value(s): %s. Invalid value(s): %s.",
		r.targetName, r.parentName, c.reference().String(), r.invalidValuesString())
}

// NewDisAllowedRule は「値が禁止された集合の要素でないこと」を検証するルールを作成する
func NewDisAllowedRule(instance interface{}, targetName, parentName string, referenceValue interface{}, opts ...Option) *Rule {
	return newRule(instance, targetName, parentName,
		&disAllowedChecker{semanticChecker{ref: operandOf(referenceValue)}}, opts...)
}

// ---------------------------------------------------------------------------
//                                LessRule
// ---------------------------------------------------------------------------

type lessChecker struct{ semanticChecker }

func (*lessChecker) name() string { return "LessRule" }

func (*lessChecker) wholeValue() bool { return true }

// checkParams は「参照値が配列なのは検証対象も配列のときだけ」という制約を検査する。
// 遅延束縛参照は解決前なので、リテラルの場合のみここで検査できる。
func (c *lessChecker) checkParams(r *Rule, v Value) error {
	if c.ref.ref == nil && c.reference().IsArray() && !v.IsArray() {
		return errors.NewConfigurationError("LessRule.Validate",
			"the reference value can be an array-like only when the evaluated attribute value is an array-like", nil)
	}
	return nil
}

// evaluate は要素単位の比較で判定する。配列対配列は同じ位置の要素同士、
// 配列対スカラーは各要素対スカラーで、すべて満たす場合のみ有効。
func (c *lessChecker) evaluate(r *Rule, v Value) bool {
	ok := func(cmp int) bool { return cmp < 0 }
	if r.inclusive {
		ok = func(cmp int) bool { return cmp <= 0 }
	}
	return !compareAll(v, c.reference(), ok)
}

func (c *lessChecker) message(r *Rule) string {
	return fmt.Sprintf("The %s property of the %s class is not less than %s. Invalid value(s): %s.",
		r.targetName, r.parentName, c.reference().String(), r.invalidValuesString())
}

// NewLessRule は「値が参照値より小さい（既定では以下）こと」を検証するルールを作成する。
// WithExclusiveを指定すると等値を許さない厳密な比較になる。
func NewLessRule(instance interface{}, targetName, parentName string, referenceValue interface{}, opts ...Option) *Rule {
	return newRule(instance, targetName, parentName,
		&lessChecker{semanticChecker{ref: operandOf(referenceValue)}}, opts...)
}

// ---------------------------------------------------------------------------
//                               GreaterRule
// ---------------------------------------------------------------------------

type greaterChecker struct{ semanticChecker }

func (*greaterChecker) name() string { return "GreaterRule" }

func (*greaterChecker) wholeValue() bool { return true }

func (c *greaterChecker) checkParams(r *Rule, v Value) error {
	if c.ref.ref == nil && c.reference().IsArray() && !v.IsArray() {
		return errors.NewConfigurationError("GreaterRule.Validate",
			"the reference value can be an array-like only when the evaluated attribute value is an array-like", nil)
	}
	return nil
}

func (c *greaterChecker) evaluate(r *Rule, v Value) bool {
	ok := func(cmp int) bool { return cmp > 0 }
	if r.inclusive {
		ok = func(cmp int) bool { return cmp >= 0 }
	}
	return !compareAll(v, c.reference(), ok)
}

func (c *greaterChecker) message(r *Rule) string {
	return fmt.Sprintf("The %s property of the %s class is not greater than %s. Invalid value(s): %s.",
		r.targetName, r.parentName, c.reference().String(), r.invalidValuesString())
}

// NewGreaterRule は「値が参照値より大きい（既定では以上）こと」を検証するルールを作成する
func NewGreaterRule(instance interface{}, targetName, parentName string, referenceValue interface{}, opts ...Option) *Rule {
	return newRule(instance, targetName, parentName,
		&greaterChecker{semanticChecker{ref: operandOf(referenceValue)}}, opts...)
}

// ---------------------------------------------------------------------------
//                               BetweenRule
// ---------------------------------------------------------------------------

type betweenChecker struct{ semanticChecker }

func (*betweenChecker) name() string { return "BetweenRule" }

// compile は参照を解決した後、[min, max] の形状を検査する
func (c *betweenChecker) compile(*Rule) error {
	if err := c.ref.Compile(); err != nil {
		return err
	}
	return checkBetweenReference(c.reference())
}

func checkBetweenReference(ref Value) error {
	if !ref.IsArray() || ref.Len() != 2 ||
		!ref.Elems()[0].IsNumber() || !ref.Elems()[1].IsNumber() {
		return errors.NewConfigurationError("BetweenRule",
			"the reference value must be an array-like of length=2, containing two numbers, min and max", ref.Interface())
	}
	return nil
}

func (c *betweenChecker) evaluate(r *Rule, v Value) bool {
	f, ok := v.AsFloat()
	if !ok {
		return true
	}
	ref := c.reference()
	min, _ := ref.Elems()[0].AsFloat()
	max, _ := ref.Elems()[1].AsFloat()
	if r.inclusive {
		return f < min || f > max
	}
	return f <= min || f >= max
}

func (c *betweenChecker) message(r *Rule) string {
	ref := c.reference()
	return fmt.Sprintf("The %s property of the %s class is not between [%s,%s]. Invalid value(s): %s.",
		r.targetName, r.parentName, ref.Elems()[0].String(), ref.Elems()[1].String(), r.invalidValuesString())
}

// NewBetweenRule は「値が[min, max]の範囲に収まること」を検証するルールを作成する。
// 参照値は2要素の数値配列でなければならない。リテラル参照の形状違反は
// 構築時に即座にエラーとなり、遅延束縛参照は解決時（compile）に検査される。
// WithExclusiveを指定すると開区間 (min, max) として評価する。
func NewBetweenRule(instance interface{}, targetName, parentName string, referenceValue interface{}, opts ...Option) (*Rule, error) {
	op := operandOf(referenceValue)
	if op.ref == nil {
		if err := checkBetweenReference(op.Value()); err != nil {
			return nil, err
		}
	}
	return newRule(instance, targetName, parentName,
		&betweenChecker{semanticChecker{ref: op}}, opts...), nil
}

// ---------------------------------------------------------------------------
//                                RegexRule
// ---------------------------------------------------------------------------

type regexChecker struct {
	semanticChecker
	re *regexp.Regexp
}

func (*regexChecker) name() string { return "RegexRule" }

// compile は参照を解決し、パターンとしてコンパイルする
func (c *regexChecker) compile(*Rule) error {
	if err := c.ref.Compile(); err != nil {
		return err
	}
	ref := c.reference()
	if !ref.IsString() {
		return errors.NewConfigurationError("RegexRule",
			"the reference value must be a regex pattern string", ref.Interface())
	}
	re, err := regexp.Compile(ref.StrVal())
	if err != nil {
		return errors.NewConfigurationError("RegexRule",
			"the reference value is not a valid regex pattern", ref.Interface())
	}
	c.re = re
	return nil
}

func (c *regexChecker) evaluate(_ *Rule, v Value) bool {
	if !v.IsString() {
		return true
	}
	return !c.re.MatchString(v.StrVal())
}

func (c *regexChecker) message(r *Rule) string {
	return fmt.Sprintf("The %s property of the %s class does not match regex pattern %s. Invalid value(s): %s.",
		r.targetName, r.parentName, c.reference().String(), r.invalidValuesString())
}

// NewRegexRule は「値が正規表現パターンにマッチすること」を検証するルールを作成する。
// リテラルで渡された不正なパターンは構築時に即座にエラーとなる。
// 配列値は要素単位でパターンと突き合わせる。
func NewRegexRule(instance interface{}, targetName, parentName string, referenceValue interface{}, opts ...Option) (*Rule, error) {
	op := operandOf(referenceValue)
	c := &regexChecker{semanticChecker: semanticChecker{ref: op}}
	if op.ref == nil {
		ref := op.Value()
		if !ref.IsString() {
			return nil, errors.NewConfigurationError("RegexRule",
				"the reference value must be a regex pattern string", ref.Interface())
		}
		re, err := regexp.Compile(ref.StrVal())
		if err != nil {
			return nil, errors.NewConfigurationError("RegexRule",
				"the reference value is not a valid regex pattern", ref.Interface())
		}
		c.re = re
	}
	return newRule(instance, targetName, parentName, c, opts...), nil
}
