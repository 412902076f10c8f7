package validation

import (
	"fmt"
	"regexp"

	"github.com/decisionscients/mlstudio/pkg/errors"
)

// Condition はルールの適用可否を判定する状態を持たない述語。
// 評価の前に必ずCompileを呼び、遅延束縛された参照を解決すること。
// エラー状態は持たず、Evaluateは純粋に真偽値を返す。
type Condition interface {
	// Compile はオペランドの参照間接（instance, attribute の組）を
	// 具体的な値へ解決する。検証パスの直前に毎回呼ばれる。
	Compile() error
	// Evaluate は述語を評価して真偽値を返す
	Evaluate() bool
	// Describe は診断出力用の短い表現を返す
	Describe() string
}

// ---------------------------------------------------------------------------
//                               Operand
// ---------------------------------------------------------------------------

// AttrRef は「参照値は別の(インスタンス, 属性)の組である」という間接表現。
// Compile時に属性の現在値へ解決される。
type AttrRef struct {
	Instance  interface{}
	Attribute string
}

// Attr は遅延束縛参照を作成するヘルパー
func Attr(instance interface{}, attribute string) *AttrRef {
	return &AttrRef{Instance: instance, Attribute: attribute}
}

// Operand は条件・セマンティックルールの比較対象。
// リテラル値または遅延束縛参照のどちらかを保持する。
type Operand struct {
	literal  interface{}
	ref      *AttrRef
	resolved Value
}

// operandOf は任意の値をOperandに包む。*AttrRefは参照として扱われる。
func operandOf(v interface{}) Operand {
	if ref, ok := v.(*AttrRef); ok {
		return Operand{ref: ref}
	}
	return Operand{literal: v, resolved: FromAny(v)}
}

// Compile は参照間接を解決する。リテラルの場合は何もしない。
// 参照形式の場合、instanceとattributeの両方が設定されていなければ失敗する。
func (o *Operand) Compile() error {
	if o.ref == nil {
		return nil
	}
	if o.ref.Instance == nil {
		return errors.NewReferenceError("reference must carry an 'instance'; it should contain the reference value")
	}
	if o.ref.Attribute == "" {
		return errors.NewReferenceError("reference must carry an 'attribute' name; the attribute should contain the reference value")
	}
	raw, err := attrValue(o.ref.Instance, o.ref.Attribute)
	if err != nil {
		return err
	}
	o.resolved = FromAny(raw)
	return nil
}

// Value は解決済みの値を返す。Compileの後に呼ぶこと。
func (o *Operand) Value() Value { return o.resolved }

// display は診断出力用の表現
func (o *Operand) display() string {
	if o.ref != nil {
		return fmt.Sprintf("%s(ref)", o.ref.Attribute)
	}
	return o.resolved.String()
}

// ---------------------------------------------------------------------------
//                          Syntactic conditions
// ---------------------------------------------------------------------------

// SyntacticCondition は単一の値に対する型・形状の述語
type SyntacticCondition struct {
	name string
	a    Operand
	pred func(Value) bool
}

// Compile はオペランドの参照を解決する
func (c *SyntacticCondition) Compile() error { return c.a.Compile() }

// Evaluate は述語を評価する
func (c *SyntacticCondition) Evaluate() bool { return c.pred(c.a.Value()) }

// Describe は "a IsNone" 形式の表現を返す
func (c *SyntacticCondition) Describe() string {
	return fmt.Sprintf("%s %s", c.a.display(), c.name)
}

// Name は条件の種別名を返す
func (c *SyntacticCondition) Name() string { return c.name }

func newSyntactic(name string, a interface{}, pred func(Value) bool) *SyntacticCondition {
	return &SyntacticCondition{name: name, a: operandOf(a), pred: pred}
}

// IsNone は値が存在しないことを判定する条件
func IsNone(a interface{}) *SyntacticCondition {
	return newSyntactic("IsNone", a, func(v Value) bool { return v.IsAbsent() })
}

// IsEmpty は値が空であることを判定する条件
func IsEmpty(a interface{}) *SyntacticCondition {
	return newSyntactic("IsEmpty", a, func(v Value) bool { return v.IsEmpty() })
}

// IsBool は値が真偽値であることを判定する条件
func IsBool(a interface{}) *SyntacticCondition {
	return newSyntactic("IsBool", a, func(v Value) bool { return v.IsBool() })
}

// IsInt は値が整数であることを判定する条件
func IsInt(a interface{}) *SyntacticCondition {
	return newSyntactic("IsInt", a, func(v Value) bool { return v.IsInt() })
}

// IsFloat は値が浮動小数点であることを判定する条件
func IsFloat(a interface{}) *SyntacticCondition {
	return newSyntactic("IsFloat", a, func(v Value) bool { return v.IsFloat() })
}

// IsNumber は値が数値であることを判定する条件
func IsNumber(a interface{}) *SyntacticCondition {
	return newSyntactic("IsNumber", a, func(v Value) bool { return v.IsNumber() })
}

// IsString は値が文字列であることを判定する条件
func IsString(a interface{}) *SyntacticCondition {
	return newSyntactic("IsString", a, func(v Value) bool { return v.IsString() })
}

// ---------------------------------------------------------------------------
//                          Semantic conditions
// ---------------------------------------------------------------------------

// SemanticCondition は2つの値を突き合わせる述語
type SemanticCondition struct {
	name string
	a    Operand
	b    Operand
	pred func(a, b Value) bool
}

// Compile は両オペランドの参照を解決する
func (c *SemanticCondition) Compile() error {
	if err := c.a.Compile(); err != nil {
		return err
	}
	return c.b.Compile()
}

// Evaluate は述語を評価する
func (c *SemanticCondition) Evaluate() bool { return c.pred(c.a.Value(), c.b.Value()) }

// Describe は "a IsEqual b" 形式の表現を返す
func (c *SemanticCondition) Describe() string {
	return fmt.Sprintf("%s %s %s", c.a.display(), c.name, c.b.display())
}

// Name は条件の種別名を返す
func (c *SemanticCondition) Name() string { return c.name }

func newSemantic(name string, a, b interface{}, pred func(a, b Value) bool) *SemanticCondition {
	return &SemanticCondition{name: name, a: operandOf(a), b: operandOf(b), pred: pred}
}

// IsEqual はaとbが等しいことを判定する条件
func IsEqual(a, b interface{}) *SemanticCondition {
	return newSemantic("IsEqual", a, b, func(av, bv Value) bool { return av.Equal(bv) })
}

// IsIn はaがコレクションbの要素であることを判定する条件。
// aが配列の場合、すべての要素がbに含まれるときに真となる。
func IsIn(a, b interface{}) *SemanticCondition {
	return newSemantic("IsIn", a, b, func(av, bv Value) bool {
		if !bv.IsArray() {
			return false
		}
		if av.IsArray() {
			for _, e := range av.Elems() {
				if !memberOf(e, bv) {
					return false
				}
			}
			return true
		}
		return memberOf(av, bv)
	})
}

// IsLess はa < bを判定する条件。配列は要素ごとに比較し、すべて満たすときに真。
func IsLess(a, b interface{}) *SemanticCondition {
	return newSemantic("IsLess", a, b, func(av, bv Value) bool {
		return compareAll(av, bv, func(c int) bool { return c < 0 })
	})
}

// IsGreater はa > bを判定する条件。配列は要素ごとに比較し、すべて満たすときに真。
func IsGreater(a, b interface{}) *SemanticCondition {
	return newSemantic("IsGreater", a, b, func(av, bv Value) bool {
		return compareAll(av, bv, func(c int) bool { return c > 0 })
	})
}

// IsMatch はaが正規表現パターンbにマッチすることを判定する条件。
// パターンが不正な場合、またはaが文字列でない場合は偽となる。
func IsMatch(a, b interface{}) *SemanticCondition {
	return newSemantic("IsMatch", a, b, func(av, bv Value) bool {
		if !av.IsString() || !bv.IsString() {
			return false
		}
		re, err := regexp.Compile(bv.StrVal())
		if err != nil {
			return false
		}
		return re.MatchString(av.StrVal())
	})
}

// memberOf はeがコレクションの要素かどうかを判定する
func memberOf(e Value, collection Value) bool {
	for _, m := range collection.Elems() {
		if e.Equal(m) {
			return true
		}
	}
	return false
}

// compareAll は2値の大小比較を要素単位で行い、すべての比較がokを満たすかを返す。
// 配列対配列は同じ長さの要素同士、配列対スカラーは各要素対スカラーで比較する。
// 比較不能な組はfalse。
func compareAll(a, b Value, ok func(int) bool) bool {
	switch {
	case a.IsArray() && b.IsArray():
		if a.Len() != b.Len() {
			return false
		}
		for i := range a.Elems() {
			c, comparable := a.Elems()[i].Compare(b.Elems()[i])
			if !comparable || !ok(c) {
				return false
			}
		}
		return true
	case a.IsArray():
		for _, e := range a.Elems() {
			c, comparable := e.Compare(b)
			if !comparable || !ok(c) {
				return false
			}
		}
		return true
	case b.IsArray():
		for _, e := range b.Elems() {
			c, comparable := a.Compare(e)
			if !comparable || !ok(c) {
				return false
			}
		}
		return true
	default:
		c, comparable := a.Compare(b)
		return comparable && ok(c)
	}
}
