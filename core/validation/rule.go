package validation

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/decisionscients/mlstudio/pkg/errors"
)

// ---------------------------------------------------------------------------
//                             Audit metadata
// ---------------------------------------------------------------------------

// Audit はルール構築時に付与される監査メタデータ。
// 評価ロジックでは一切使用されない不変のレコード。
type Audit struct {
	ID      uuid.UUID
	Created time.Time
	User    string
}

// AuditProvider は監査メタデータの供給源。
// 再現性が必要な場合は、プロセス全体の時刻・ユーザーを直接読む代わりに
// 固定値を返すプロバイダを注入する。
type AuditProvider func() Audit

// defaultAuditProvider は実時刻・OSユーザー・ランダムUUIDを使用する
func defaultAuditProvider() Audit {
	username := "unknown"
	if u, err := user.Current(); err == nil {
		username = u.Username
	}
	return Audit{ID: uuid.New(), Created: time.Now(), User: username}
}

// ---------------------------------------------------------------------------
//                          Checker capability
// ---------------------------------------------------------------------------

// checker はルール1種別分の評価能力。
// ルール集合は閉じた有限集合なので、オープンなサブクラス階層ではなく
// この能力インターフェースの実装の列挙で表現する。
type checker interface {
	// name はルールの種別名（メッセージとログで使用）
	name() string
	// compile は遅延束縛された参照値を解決する（検証パス直前に毎回呼ばれる）
	compile(r *Rule) error
	// checkParams はルール固有の前提条件を検査する
	checkParams(r *Rule, v Value) error
	// evaluate は値が「無効」ならtrueを返す
	evaluate(r *Rule, v Value) bool
	// coerce は無効だった値の変換を試みる。変換が起きた場合のみtrue。
	coerce(r *Rule, v Value) (Value, bool)
	// message は今回のパスのエラーメッセージを描画する
	message(r *Rule) string
	// wholeValue がtrueのルールは配列を要素分解せず全体として判定する
	wholeValue() bool
}

// baseChecker は省略可能なフックの既定実装
type baseChecker struct{}

func (baseChecker) compile(*Rule) error              { return nil }
func (baseChecker) checkParams(*Rule, Value) error   { return nil }
func (baseChecker) coerce(*Rule, Value) (Value, bool) { return Value{}, false }
func (baseChecker) wholeValue() bool                 { return false }

// ---------------------------------------------------------------------------
//                                  Rule
// ---------------------------------------------------------------------------

// Rule は1つの(オブジェクト, 属性)の組に束縛された検証チェック。
//
// 構築後にWhen/WhenAll/WhenAnyで適用条件を付与し、Validateで値を検証する。
// 検証の成否はIsValid/InvalidValues/InvalidMessagesで参照するか、
// InvalidErrorで例外ベースのハンドリングに切り替える。
//
// 1つのRuleインスタンスは並行再入に対して安全ではない
// （無効値・メッセージのリストが呼び出しをまたいで更新されるため）。
// 独立したRuleインスタンス同士の並行検証は安全。
type Rule struct {
	audit Audit

	// 検証対象への束縛
	instance   interface{}
	targetName string
	parentName string

	// 構成
	arrayOK   bool
	inclusive bool
	checker   checker
	configErr error

	// 適用条件
	when    Condition
	whenAll []Condition
	whenAny []Condition

	// 検証状態（Validateごとに再計算される）
	isValid         bool
	invalidValues   []Value
	invalidMessages []string
	validatedValue  Value

	out io.Writer
}

// Option はRuleの構成オプション
type Option func(*Rule)

// WithArrayOK は配列値の検証を許可する。
// 許可された配列は要素単位で再帰的に検証される。
func WithArrayOK(ok bool) Option {
	return func(r *Rule) { r.arrayOK = ok }
}

// WithExclusive はLess/Greater/Betweenの比較を排他的（等値を含まない）にする
func WithExclusive() Option {
	return func(r *Rule) { r.inclusive = false }
}

// WithAudit は監査メタデータのプロバイダを注入する
func WithAudit(provider AuditProvider) Option {
	return func(r *Rule) {
		if provider != nil {
			r.audit = provider()
		}
	}
}

// WithOutput はPrintRuleの出力先を差し替える（デフォルトは標準出力）
func WithOutput(w io.Writer) Option {
	return func(r *Rule) { r.out = w }
}

// newRule は共通部分を初期化する。各ルール種別のコンストラクタから呼ばれる。
func newRule(instance interface{}, targetName, parentName string, c checker, opts ...Option) *Rule {
	r := &Rule{
		audit:      defaultAuditProvider(),
		instance:   instance,
		targetName: targetName,
		parentName: parentName,
		inclusive:  true,
		checker:    c,
		isValid:    true,
		out:        os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ---------------------------------------------------------------------------
//                               Conditions
// ---------------------------------------------------------------------------

// When は「この条件が真のときのみルールを適用する」条件を設定する。
// 再度呼ぶと以前の条件を置き換える（加算ではない）。
func (r *Rule) When(condition Condition) *Rule {
	if condition == nil {
		r.configErr = errors.NewConfigurationError(r.checker.name()+".When",
			"condition must be of type Condition", nil)
		return r
	}
	r.when = condition
	return r
}

// WhenAll は「すべて真のときのみルールを適用する」条件群を設定する。
// 再度呼ぶと以前の条件群を置き換える。
func (r *Rule) WhenAll(conditions []Condition) *Rule {
	if err := checkConditions(r.checker.name()+".WhenAll", conditions); err != nil {
		r.configErr = err
		return r
	}
	r.whenAll = conditions
	return r
}

// WhenAny は「少なくとも1つ真のときのみルールを適用する」条件群を設定する。
// 再度呼ぶと以前の条件群を置き換える。
func (r *Rule) WhenAny(conditions []Condition) *Rule {
	if err := checkConditions(r.checker.name()+".WhenAny", conditions); err != nil {
		r.configErr = err
		return r
	}
	r.whenAny = conditions
	return r
}

func checkConditions(op string, conditions []Condition) error {
	if len(conditions) == 0 {
		return errors.NewConfigurationError(op,
			"conditions must be a non-empty array-like of Condition objects", nil)
	}
	for _, c := range conditions {
		if c == nil {
			return errors.NewConfigurationError(op,
				"conditions must not contain nil entries", nil)
		}
	}
	return nil
}

// evaluateConditions は when ∧ all(whenAll) ∧ any(whenAny) を評価する。
// 未設定のカテゴリは自明に真とみなす。
func (r *Rule) evaluateConditions() bool {
	if r.when != nil && !r.when.Evaluate() {
		return false
	}
	for _, c := range r.whenAll {
		if !c.Evaluate() {
			return false
		}
	}
	if len(r.whenAny) > 0 {
		satisfied := false
		for _, c := range r.whenAny {
			if c.Evaluate() {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
//                          Compile and validate
// ---------------------------------------------------------------------------

// Compile は一時的な検証状態をリセットし、付与されたすべての条件と
// 遅延束縛参照を解決する。Validate経由で検証パスの直前に毎回呼ばれるため、
// 前回の呼び出しの状態が漏れることはない。
func (r *Rule) Compile() error {
	r.isValid = true
	r.invalidValues = nil
	r.invalidMessages = nil

	if r.when != nil {
		if err := r.when.Compile(); err != nil {
			return err
		}
	}
	for _, c := range r.whenAll {
		if err := c.Compile(); err != nil {
			return err
		}
	}
	for _, c := range r.whenAny {
		if err := c.Compile(); err != nil {
			return err
		}
	}
	return r.checker.compile(r)
}

// validateParams は検証前の前提条件を検査する。
// 束縛された属性がホスト上に存在しない、またはarrayOK=falseで配列が
// 渡された場合は設定エラーを返す。
func (r *Rule) validateParams(v Value) error {
	if !hasAttr(r.instance, r.targetName) {
		return errors.NewAttributeError(r.targetName, r.parentName)
	}
	if !r.arrayOK && v.IsArray() {
		return errors.NewConfigurationError(r.checker.name()+".Validate",
			fmt.Sprintf("arrays are not permitted for the %s class %s property",
				r.parentName, r.targetName), nil)
	}
	return r.checker.checkParams(r, v)
}

// Validate は値を検証する。
// 戻り値のエラーは設定エラー（前提条件違反）のみで、検証失敗は
// IsValid/InvalidValues/InvalidMessagesに記録される。
//
// 初回パスで無効だった場合は一度だけコアーションを試み、値が変換された
// 場合のみ再評価する。再評価は明示的な二段階として実装されており、
// 深さは配列要素の再帰を除いて最大2で有界。
func (r *Rule) Validate(value interface{}) error {
	if r.configErr != nil {
		return r.configErr
	}
	return r.validatePass(FromAny(value), false)
}

// validatePass は1回分の評価パス。coerced=trueのパスではコアーションを再試行しない。
func (r *Rule) validatePass(v Value, coerced bool) error {
	if err := r.validateParams(v); err != nil {
		return err
	}
	if err := r.Compile(); err != nil {
		return err
	}

	// 条件が満たされない場合、ルールは適用されず値はそのまま有効
	if !r.evaluateConditions() {
		r.validatedValue = v
		r.isValid = true
		return nil
	}

	if r.checker.wholeValue() || !v.IsArray() {
		if r.checker.evaluate(r, v) {
			r.invalidValues = append(r.invalidValues, v)
		}
	} else {
		r.collectInvalid(v)
	}

	r.validatedValue = v
	// 適用されたパスごとに1件のメッセージを必ず記録する（有効時も同様）
	r.invalidMessages = append(r.invalidMessages, r.checker.message(r))
	r.isValid = len(r.invalidValues) == 0

	if !r.isValid && !coerced {
		if cv, ok := r.checker.coerce(r, v); ok {
			return r.validatePass(cv, true)
		}
	}
	return nil
}

// collectInvalid は配列を要素単位で再帰し、述語が真となる要素を収集する
func (r *Rule) collectInvalid(v Value) {
	if v.IsArray() {
		for _, e := range v.Elems() {
			r.collectInvalid(e)
		}
		return
	}
	if r.checker.evaluate(r, v) {
		r.invalidValues = append(r.invalidValues, v)
	}
}

// ---------------------------------------------------------------------------
//                               Accessors
// ---------------------------------------------------------------------------

// Name はルールの種別名を返す
func (r *Rule) Name() string { return r.checker.name() }

// Audit は構築時に付与された監査メタデータを返す
func (r *Rule) Audit() Audit { return r.audit }

// TargetName は束縛された属性名を返す
func (r *Rule) TargetName() string { return r.targetName }

// ParentName は属性の所有者ラベルを返す
func (r *Rule) ParentName() string { return r.parentName }

// ArrayOK は配列値が許可されているかを返す
func (r *Rule) ArrayOK() bool { return r.arrayOK }

// SetArrayOK は配列値の許可を変更する
func (r *Rule) SetArrayOK(ok bool) { r.arrayOK = ok }

// IsValid は直近のValidateの結果を返す
func (r *Rule) IsValid() bool { return r.isValid }

// ValidatedValue は直近に検証された（場合によってはコアーション済みの）値を返す
func (r *Rule) ValidatedValue() interface{} { return r.validatedValue.Interface() }

// InvalidValues は直近のパスで無効と判定された生の値を順序付きで返す
func (r *Rule) InvalidValues() []interface{} {
	out := make([]interface{}, len(r.invalidValues))
	for i, v := range r.invalidValues {
		out[i] = v.Interface()
	}
	return out
}

// InvalidMessages は描画済みのエラーメッセージを順序付きで返す
func (r *Rule) InvalidMessages() []string {
	return append([]string(nil), r.invalidMessages...)
}

// InvalidError は蓄積されたメッセージを運ぶエラーを返す。
// フラグ検査ではなく例外ベースのハンドリングを望む呼び出し側向け。
func (r *Rule) InvalidError() error {
	return errors.NewValidationError(r.checker.name(), r.InvalidMessages())
}

// invalidValuesString はメッセージ描画用に無効値の一覧を整形する
func (r *Rule) invalidValuesString() string {
	parts := make([]string, len(r.invalidValues))
	for i, v := range r.invalidValues {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
