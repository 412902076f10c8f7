package validation

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Kind は検証対象の値の種別を表すタグ
type Kind int

const (
	// KindAbsent は値が存在しない（nil）状態
	KindAbsent Kind = iota
	// KindBool は真偽値スカラー
	KindBool
	// KindInt は整数スカラー
	KindInt
	// KindFloat は浮動小数点スカラー
	KindFloat
	// KindString は文字列スカラー
	KindString
	// KindArray は要素列（Valueのシーケンス）
	KindArray
	// KindOpaque は上記のいずれにも分類できない値
	KindOpaque
)

// String はKindの表示名を返す
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	default:
		return "opaque"
	}
}

// Value は検証対象の値のタグ付き表現。
// 「配列か・数値か・同質か」を実行時の型プロービングではなく
// 構造的なマッチで判定できるようにする。
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Value
	raw  interface{} // 元の値（メッセージ描画とinvalid値の復元に使用）
}

// Absent は値なしを表すValueを返す
func Absent() Value { return Value{kind: KindAbsent} }

// Bool は真偽値のValueを作成する
func Bool(b bool) Value { return Value{kind: KindBool, b: b, raw: b} }

// Int は整数のValueを作成する
func Int(i int64) Value { return Value{kind: KindInt, i: i, raw: i} }

// Float は浮動小数点のValueを作成する
func Float(f float64) Value { return Value{kind: KindFloat, f: f, raw: f} }

// Str は文字列のValueを作成する
func Str(s string) Value { return Value{kind: KindString, s: s, raw: s} }

// Array は要素列のValueを作成する
func Array(elems []Value) Value {
	natives := make([]interface{}, len(elems))
	for i, e := range elems {
		natives[i] = e.Interface()
	}
	return Value{kind: KindArray, arr: elems, raw: natives}
}

// FromAny は任意のGo値をValueに変換する。
// nilはAbsent、スライス/配列はArray、数値・文字列・真偽値はスカラー、
// それ以外はOpaqueとして取り込まれる。ポインタは一段デリファレンスされる。
func FromAny(v interface{}) Value {
	if v == nil {
		return Absent()
	}
	switch x := v.(type) {
	case Value:
		return x
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Int(int64(x))
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint64:
		if x > math.MaxInt64 {
			return Float(float64(x))
		}
		return Int(int64(x))
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case string:
		return Str(x)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Absent()
		}
		return FromAny(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		elems := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elems[i] = FromAny(rv.Index(i).Interface())
		}
		return Array(elems)
	}

	return Value{kind: KindOpaque, raw: v}
}

// Kind は値の種別タグを返す
func (v Value) Kind() Kind { return v.kind }

// IsAbsent は値なしかどうかを返す
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// IsArray は要素列かどうかを返す
func (v Value) IsArray() bool { return v.kind == KindArray }

// IsBool は真偽値スカラーかどうかを返す
func (v Value) IsBool() bool { return v.kind == KindBool }

// IsInt は整数スカラーかどうかを返す
func (v Value) IsInt() bool { return v.kind == KindInt }

// IsFloat は浮動小数点スカラーかどうかを返す
func (v Value) IsFloat() bool { return v.kind == KindFloat }

// IsString は文字列スカラーかどうかを返す
func (v Value) IsString() bool { return v.kind == KindString }

// IsNumber は数値スカラー（整数または浮動小数点）かどうかを返す
func (v Value) IsNumber() bool { return v.kind == KindInt || v.kind == KindFloat }

// IsEmpty は「空」かどうかを返す。
// 値なし・長さゼロの文字列・長さゼロの配列を空とみなす。
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindAbsent:
		return true
	case KindString:
		return len(v.s) == 0
	case KindArray:
		return len(v.arr) == 0
	default:
		return false
	}
}

// BoolVal は真偽値を返す（KindBool以外ではゼロ値）
func (v Value) BoolVal() bool { return v.b }

// IntVal は整数値を返す（KindInt以外ではゼロ値）
func (v Value) IntVal() int64 { return v.i }

// FloatVal は浮動小数点値を返す（KindFloat以外ではゼロ値）
func (v Value) FloatVal() float64 { return v.f }

// StrVal は文字列値を返す（KindString以外では空文字列）
func (v Value) StrVal() string { return v.s }

// Elems は配列要素を返す（KindArray以外ではnil）
func (v Value) Elems() []Value { return v.arr }

// Len は配列の長さを返す（KindArray以外では0）
func (v Value) Len() int { return len(v.arr) }

// AsFloat は数値スカラーをfloat64として返す。数値以外はok=false。
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// Interface は元のGo値（ネイティブ表現）を返す
func (v Value) Interface() interface{} {
	if v.kind == KindAbsent {
		return nil
	}
	return v.raw
}

// Equal は2つのValueの等価性を判定する。
// 数値同士は種別（int/float）をまたいで数値として比較し、
// 配列同士は長さと要素の両方が一致した場合のみ等しい。
func (v Value) Equal(o Value) bool {
	if v.IsNumber() && o.IsNumber() {
		a, _ := v.AsFloat()
		b, _ := o.AsFloat()
		return a == b
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindAbsent:
		return true
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(v.raw, o.raw)
	}
}

// Compare は2つのスカラーの大小を比較する。
// 数値同士・文字列同士のみ比較可能で、それ以外はok=false。
// 戻り値は v<o のとき負、v==o のとき0、v>o のとき正。
func (v Value) Compare(o Value) (int, bool) {
	if v.IsNumber() && o.IsNumber() {
		a, _ := v.AsFloat()
		b, _ := o.AsFloat()
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		default:
			return 0, true
		}
	}
	if v.kind == KindString && o.kind == KindString {
		return strings.Compare(v.s, o.s), true
	}
	return 0, false
}

// String は表示用の文字列表現を返す
func (v Value) String() string {
	switch v.kind {
	case KindAbsent:
		return "None"
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, e := range v.arr {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v.raw)
	}
}
