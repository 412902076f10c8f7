package validation

import (
	"math"
	"strconv"
	"sync/atomic"

	"github.com/decisionscients/mlstudio/core/parallel"
	"github.com/decisionscients/mlstudio/pkg/errors"
)

// CoerceKind は同質配列コアーションの目標種別
type CoerceKind int

const (
	// CoerceInt は整数への変換
	CoerceInt CoerceKind = iota
	// CoerceFloat は浮動小数点への変換
	CoerceFloat
	// CoerceNumber は数値（整数または浮動小数点）への変換
	CoerceNumber
	// CoerceString は文字列への変換
	CoerceString
)

// String はCoerceKindの表示名を返す
func (k CoerceKind) String() string {
	switch k {
	case CoerceInt:
		return "int"
	case CoerceFloat:
		return "float"
	case CoerceNumber:
		return "number"
	default:
		return "string"
	}
}

// この件数を超える配列は要素変換を並列化する
const coerceParallelThreshold = 1024

// IsHomogeneous は配列のすべての要素が単一の変換可能な種別を
// 共有しているかどうかを判定する。数値同士（int/float混在）は同質とみなす。
func IsHomogeneous(v Value) bool {
	if !v.IsArray() {
		return false
	}
	elems := v.Elems()
	if len(elems) == 0 {
		return true
	}
	first := elems[0].Kind()
	numeric := elems[0].IsNumber()
	for _, e := range elems[1:] {
		if numeric && e.IsNumber() {
			continue
		}
		if e.Kind() != first {
			return false
		}
	}
	return true
}

// IsNumericConvertible は配列のすべての要素が数値へ変換可能
// （数値スカラーまたは数値として解釈できる文字列）かどうかを判定する。
func IsNumericConvertible(v Value) bool {
	if !v.IsArray() {
		return false
	}
	for _, e := range v.Elems() {
		if e.IsNumber() {
			continue
		}
		if e.Kind() == KindString {
			if _, err := strconv.ParseFloat(e.StrVal(), 64); err == nil {
				continue
			}
		}
		return false
	}
	return true
}

// errOverflow は要素変換時のオーバーフローを示す内部センチネル
var errOverflow = errors.New("coercion overflow")

// errNotConvertible は要素が目標種別へ変換できないことを示す内部センチネル
var errNotConvertible = errors.New("not convertible")

// CoerceHomogeneous は配列の全要素を指定された種別へ変換する。
// すべての要素が変換できた場合のみ (新しい配列, true) を返す。
// 変換失敗は警告としてログに流し、元の値と false を返す
// （コアーション失敗 ⇒ 変換は行われず元の無効状態が維持される、が既定の方針）。
func CoerceHomogeneous(v Value, kind CoerceKind, ruleName string) (Value, bool) {
	if !v.IsArray() {
		return v, false
	}

	elems := v.Elems()
	out := make([]Value, len(elems))
	var overflow int32
	var failed int32

	parallel.ParallelizeWithThreshold(len(elems), coerceParallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			cv, err := coerceScalar(elems[i], kind)
			if err != nil {
				if errors.Is(err, errOverflow) {
					atomic.StoreInt32(&overflow, 1)
				} else {
					atomic.StoreInt32(&failed, 1)
				}
				return
			}
			out[i] = cv
		}
	})

	if atomic.LoadInt32(&overflow) == 1 {
		// オーバーフローはログに記録するだけで、エラーとしては送出しない
		errors.Warn(errors.NewCoercionOverflowWarning(ruleName, kind.String(), v.Interface(),
			"value(s) exceed the representable range"))
		return v, false
	}
	if atomic.LoadInt32(&failed) == 1 {
		errors.Warn(errors.NewDataConversionWarning("array", kind.String(),
			"element(s) not convertible in "+ruleName))
		return v, false
	}

	// Numberへの変換は、全要素が整数で表せない限りfloatに揃える
	if kind == CoerceNumber {
		allInt := true
		for _, e := range out {
			if !e.IsInt() {
				allInt = false
				break
			}
		}
		if !allInt {
			for i, e := range out {
				if e.IsInt() {
					out[i] = Float(float64(e.IntVal()))
				}
			}
		}
	}

	return Array(out), true
}

// coerceToKind はスカラーと同質配列の両方を目標種別へ変換する。
// 配列は同質コアーション、スカラーは直接変換を行い、失敗は警告として記録する。
func coerceToKind(v Value, kind CoerceKind, ruleName string) (Value, bool) {
	if v.IsArray() {
		return CoerceHomogeneous(v, kind, ruleName)
	}
	cv, err := coerceScalar(v, kind)
	if err != nil {
		if errors.Is(err, errOverflow) {
			errors.Warn(errors.NewCoercionOverflowWarning(ruleName, kind.String(), v.Interface(),
				"value exceeds the representable range"))
		} else {
			errors.Warn(errors.NewDataConversionWarning(v.Kind().String(), kind.String(),
				"value not convertible in "+ruleName))
		}
		return v, false
	}
	return cv, true
}

// coerceScalar はスカラー1要素を目標種別へ変換する
func coerceScalar(v Value, kind CoerceKind) (Value, error) {
	switch kind {
	case CoerceInt:
		return coerceScalarInt(v)
	case CoerceFloat:
		return coerceScalarFloat(v)
	case CoerceNumber:
		if v.IsNumber() {
			return v, nil
		}
		if iv, err := coerceScalarInt(v); err == nil {
			return iv, nil
		}
		return coerceScalarFloat(v)
	case CoerceString:
		return coerceScalarString(v)
	}
	return v, errNotConvertible
}

func coerceScalarInt(v Value) (Value, error) {
	switch v.Kind() {
	case KindInt:
		return v, nil
	case KindFloat:
		f := v.FloatVal()
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return v, errNotConvertible
		}
		if f > math.MaxInt64 || f < math.MinInt64 {
			return v, errOverflow
		}
		return Int(int64(f)), nil
	case KindString:
		i, err := strconv.ParseInt(v.StrVal(), 10, 64)
		if err == nil {
			return Int(i), nil
		}
		if numErr, ok := err.(*strconv.NumError); ok && errors.Is(numErr.Err, strconv.ErrRange) {
			return v, errOverflow
		}
		// "3.0" のような整数値のfloat表記も受け入れる
		f, ferr := strconv.ParseFloat(v.StrVal(), 64)
		if ferr == nil && f == math.Trunc(f) && f <= math.MaxInt64 && f >= math.MinInt64 {
			return Int(int64(f)), nil
		}
		return v, errNotConvertible
	default:
		return v, errNotConvertible
	}
}

func coerceScalarFloat(v Value) (Value, error) {
	switch v.Kind() {
	case KindFloat:
		return v, nil
	case KindInt:
		return Float(float64(v.IntVal())), nil
	case KindString:
		f, err := strconv.ParseFloat(v.StrVal(), 64)
		if err == nil {
			return Float(f), nil
		}
		if numErr, ok := err.(*strconv.NumError); ok && errors.Is(numErr.Err, strconv.ErrRange) {
			return v, errOverflow
		}
		return v, errNotConvertible
	default:
		return v, errNotConvertible
	}
}

func coerceScalarString(v Value) (Value, error) {
	switch v.Kind() {
	case KindArray, KindOpaque:
		return v, errNotConvertible
	default:
		return Str(v.String()), nil
	}
}

// 真偽値コアーションで真/偽とみなす文字列表現
var (
	boolTrueStrings  = map[string]bool{"True": true, "true": true, "yes": true, "y": true, "1": true}
	boolFalseStrings = map[string]bool{"False": true, "false": true, "no": true, "n": true, "0": true}
)

// coerceBoolScalar はスカラーを真偽値へ変換する。
// 文字列は既知の真/偽表現のみ、数値は 0→false / 非ゼロ→true。
func coerceBoolScalar(v Value) (Value, bool) {
	switch v.Kind() {
	case KindString:
		if boolTrueStrings[v.StrVal()] {
			return Bool(true), true
		}
		if boolFalseStrings[v.StrVal()] {
			return Bool(false), true
		}
		return v, false
	case KindInt:
		return Bool(v.IntVal() != 0), true
	case KindFloat:
		return Bool(v.FloatVal() != 0), true
	default:
		return v, false
	}
}

// coerceAbsentScalar は "None"/"none" 文字列を値なしへ変換する
func coerceAbsentScalar(v Value) (Value, bool) {
	if v.Kind() == KindString && (v.StrVal() == "None" || v.StrVal() == "none") {
		return Absent(), true
	}
	return v, false
}
