package validation

import "fmt"

// シンタクティックルールは値そのものの型・形状を検査する。
// 各ルールは述語・コアーション・メッセージ描画のみを定義し、
// 評価の制御フローはRule本体が担う。

// ---------------------------------------------------------------------------
//                                NoneRule
// ---------------------------------------------------------------------------

type noneChecker struct{ baseChecker }

func (noneChecker) name() string { return "NoneRule" }

func (noneChecker) evaluate(_ *Rule, v Value) bool { return !v.IsAbsent() }

func (noneChecker) coerce(_ *Rule, v Value) (Value, bool) { return coerceAbsentScalar(v) }

func (noneChecker) message(r *Rule) string {
	return fmt.Sprintf("The %s property of the %s class is not None. Invalid value(s): %s.",
		r.targetName, r.parentName, r.invalidValuesString())
}

// NewNoneRule は「値が存在しないこと」を検証するルールを作成する。
// 文字列 "None"/"none" は値なしへコアーションされる。
func NewNoneRule(instance interface{}, targetName, parentName string, opts ...Option) *Rule {
	return newRule(instance, targetName, parentName, noneChecker{}, opts...)
}

// ---------------------------------------------------------------------------
//                              NotNoneRule
// ---------------------------------------------------------------------------

type notNoneChecker struct{ baseChecker }

func (notNoneChecker) name() string { return "NotNoneRule" }

func (notNoneChecker) evaluate(_ *Rule, v Value) bool { return v.IsAbsent() }

func (notNoneChecker) coerce(_ *Rule, v Value) (Value, bool) { return coerceAbsentScalar(v) }

func (notNoneChecker) message(r *Rule) string {
	return fmt.Sprintf("The %s property of the %s class has values that are None.",
		r.targetName, r.parentName)
}

// NewNotNoneRule は「値が存在すること」を検証するルールを作成する
func NewNotNoneRule(instance interface{}, targetName, parentName string, opts ...Option) *Rule {
	return newRule(instance, targetName, parentName, notNoneChecker{}, opts...)
}

// ---------------------------------------------------------------------------
//                               EmptyRule
// ---------------------------------------------------------------------------

type emptyChecker struct{ baseChecker }

func (emptyChecker) name() string { return "EmptyRule" }

func (emptyChecker) evaluate(_ *Rule, v Value) bool { return !v.IsEmpty() }

func (emptyChecker) message(r *Rule) string {
	return fmt.Sprintf("The %s property of the %s class is not empty. Invalid value(s): %s.",
		r.targetName, r.parentName, r.invalidValuesString())
}

// NewEmptyRule は「値が空であること」を検証するルールを作成する。コアーションは行わない。
func NewEmptyRule(instance interface{}, targetName, parentName string, opts ...Option) *Rule {
	return newRule(instance, targetName, parentName, emptyChecker{}, opts...)
}

// ---------------------------------------------------------------------------
//                              NotEmptyRule
// ---------------------------------------------------------------------------

type notEmptyChecker struct{ baseChecker }

func (notEmptyChecker) name() string { return "NotEmptyRule" }

func (notEmptyChecker) evaluate(_ *Rule, v Value) bool { return v.IsEmpty() }

func (notEmptyChecker) message(r *Rule) string {
	return fmt.Sprintf("The %s property of the %s class is empty.",
		r.targetName, r.parentName)
}

// NewNotEmptyRule は「値が空でないこと」を検証するルールを作成する。コアーションは行わない。
func NewNotEmptyRule(instance interface{}, targetName, parentName string, opts ...Option) *Rule {
	return newRule(instance, targetName, parentName, notEmptyChecker{}, opts...)
}

// ---------------------------------------------------------------------------
//                                BoolRule
// ---------------------------------------------------------------------------

type boolChecker struct{ baseChecker }

func (boolChecker) name() string { return "BoolRule" }

func (boolChecker) evaluate(_ *Rule, v Value) bool { return !v.IsBool() }

// coerce は既知の真偽表現（"true"/"yes"/"y"/"1" など）と数値（0/非ゼロ）を
// 真偽値へ変換する。配列は要素単位に同じ写像を適用する。
func (boolChecker) coerce(_ *Rule, v Value) (Value, bool) {
	if v.IsArray() {
		elems := v.Elems()
		out := make([]Value, len(elems))
		changed := false
		for i, e := range elems {
			cv, ok := coerceBoolScalar(e)
			if ok {
				changed = true
			}
			out[i] = cv
		}
		if !changed {
			return v, false
		}
		return Array(out), true
	}
	return coerceBoolScalar(v)
}

func (boolChecker) message(r *Rule) string {
	return fmt.Sprintf("The %s property of the %s class has non-Boolean values. Invalid value(s): %s.",
		r.targetName, r.parentName, r.invalidValuesString())
}

// NewBoolRule は「値が真偽値であること」を検証するルールを作成する
func NewBoolRule(instance interface{}, targetName, parentName string, opts ...Option) *Rule {
	return newRule(instance, targetName, parentName, boolChecker{}, opts...)
}

// ---------------------------------------------------------------------------
//                              IntegerRule
// ---------------------------------------------------------------------------

type integerChecker struct{ baseChecker }

func (integerChecker) name() string { return "IntegerRule" }

func (integerChecker) evaluate(_ *Rule, v Value) bool { return !v.IsInt() }

func (c integerChecker) coerce(_ *Rule, v Value) (Value, bool) {
	return coerceToKind(v, CoerceInt, c.name())
}

func (integerChecker) message(r *Rule) string {
	return fmt.Sprintf("The %s property of the %s class has values that are not integers. Invalid value(s): %s.",
		r.targetName, r.parentName, r.invalidValuesString())
}

// NewIntegerRule は「値が整数であること」を検証するルールを作成する。
// 配列は整数種別への同質コアーションを試みる。オーバーフローは
// 警告として記録され、エラーにはならない。
func NewIntegerRule(instance interface{}, targetName, parentName string, opts ...Option) *Rule {
	return newRule(instance, targetName, parentName, integerChecker{}, opts...)
}

// ---------------------------------------------------------------------------
//                               FloatRule
// ---------------------------------------------------------------------------

type floatChecker struct{ baseChecker }

func (floatChecker) name() string { return "FloatRule" }

func (floatChecker) evaluate(_ *Rule, v Value) bool { return !v.IsFloat() }

func (c floatChecker) coerce(_ *Rule, v Value) (Value, bool) {
	return coerceToKind(v, CoerceFloat, c.name())
}

func (floatChecker) message(r *Rule) string {
	return fmt.Sprintf("The %s property of the %s class has values that are not floats. Invalid value(s): %s.",
		r.targetName, r.parentName, r.invalidValuesString())
}

// NewFloatRule は「値が浮動小数点であること」を検証するルールを作成する
func NewFloatRule(instance interface{}, targetName, parentName string, opts ...Option) *Rule {
	return newRule(instance, targetName, parentName, floatChecker{}, opts...)
}

// ---------------------------------------------------------------------------
//                               NumberRule
// ---------------------------------------------------------------------------

type numberChecker struct{ baseChecker }

func (numberChecker) name() string { return "NumberRule" }

func (numberChecker) evaluate(_ *Rule, v Value) bool { return !v.IsNumber() }

func (c numberChecker) coerce(_ *Rule, v Value) (Value, bool) {
	return coerceToKind(v, CoerceNumber, c.name())
}

func (numberChecker) message(r *Rule) string {
	return fmt.Sprintf("The %s property of the %s class has values that are not numbers. Invalid value(s): %s.",
		r.targetName, r.parentName, r.invalidValuesString())
}

// NewNumberRule は「値が数値（整数または浮動小数点）であること」を検証するルールを作成する
func NewNumberRule(instance interface{}, targetName, parentName string, opts ...Option) *Rule {
	return newRule(instance, targetName, parentName, numberChecker{}, opts...)
}

// ---------------------------------------------------------------------------
//                               StringRule
// ---------------------------------------------------------------------------

type stringChecker struct{ baseChecker }

func (stringChecker) name() string { return "StringRule" }

func (stringChecker) evaluate(_ *Rule, v Value) bool { return !v.IsString() }

// coerce は同質配列なら文字列種別への同質コアーション、
// そうでなければ値全体の直接の文字列化を行う。
func (c stringChecker) coerce(_ *Rule, v Value) (Value, bool) {
	if IsHomogeneous(v) {
		return CoerceHomogeneous(v, CoerceString, c.name())
	}
	cv, err := coerceScalarString(v)
	if err != nil {
		return Str(v.String()), true
	}
	return cv, true
}

func (stringChecker) message(r *Rule) string {
	return fmt.Sprintf("The %s property of the %s class has values that are not strings. Invalid value(s): %s.",
		r.targetName, r.parentName, r.invalidValuesString())
}

// NewStringRule は「値が文字列であること」を検証するルールを作成する
func NewStringRule(instance interface{}, targetName, parentName string, opts ...Option) *Rule {
	return newRule(instance, targetName, parentName, stringChecker{}, opts...)
}
