// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// バリデーションエンジンの設定エラー・検証失敗・型変換警告を構造化された形で表現します。
package errors

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("MLStudio-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
// これにより、CoercionOverflowWarningなどのカスタム警告の処理方法を制御できます。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	// zerologが設定されている場合は優先的に使用
	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	// フォールバック: 従来のハンドラ
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	型変換（coercion）警告型
//
// ===========================================================================

// CoercionOverflowWarning は型変換中にオーバーフローが発生した場合の警告です。
// オーバーフローはエラーとして送出せず、「変換は行われなかった」として扱います。
type CoercionOverflowWarning struct {
	Rule   string
	Kind   string
	Value  interface{}
	Detail string
}

func (w *CoercionOverflowWarning) Error() string {
	return fmt.Sprintf("overflow during coercion to %s in %s. Value received: %v. %s",
		w.Kind, w.Rule, w.Value, w.Detail)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *CoercionOverflowWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("rule", w.Rule).
		Str("kind", w.Kind).
		Interface("value", w.Value).
		Str("detail", w.Detail).
		Str("type", "CoercionOverflowWarning")
}

// NewCoercionOverflowWarning は新しいCoercionOverflowWarningを作成します。
func NewCoercionOverflowWarning(rule, kind string, value interface{}, detail string) *CoercionOverflowWarning {
	return &CoercionOverflowWarning{Rule: rule, Kind: kind, Value: value, Detail: detail}
}

// DataConversionWarning はデータの型変換が失敗または暗黙的に行われた場合の警告です。
type DataConversionWarning struct {
	FromType string
	ToType   string
	Reason   string
}

func (w *DataConversionWarning) Error() string {
	return fmt.Sprintf("data conversion from %s to %s: %s", w.FromType, w.ToType, w.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *DataConversionWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("from_type", w.FromType).
		Str("to_type", w.ToType).
		Str("reason", w.Reason).
		Str("type", "DataConversionWarning")
}

// NewDataConversionWarning は新しいDataConversionWarningを作成します。
func NewDataConversionWarning(from, to, reason string) *DataConversionWarning {
	return &DataConversionWarning{FromType: from, ToType: to, Reason: reason}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// ConfigurationError はルールやルールセットの構成が不正な場合のエラーです。
// バリデーション実行前の前提条件違反（不正なオペレータ、存在しない属性など）を示します。
type ConfigurationError struct {
	Op     string
	Reason string
	Value  interface{}
}

func (e *ConfigurationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("mlstudio: %s: %s (got: %v)", e.Op, e.Reason, e.Value)
	}
	return fmt.Sprintf("mlstudio: %s: %s", e.Op, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ConfigurationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ConfigurationError")
}

// NewConfigurationError は新しいConfigurationErrorを作成し、スタックトレースを付与します。
func NewConfigurationError(op, reason string, value interface{}) error {
	err := &ConfigurationError{Op: op, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValidationError は検証失敗時に蓄積されたメッセージを保持するエラーです。
// Rule.InvalidError / RuleSet.InvalidError から返されます。
type ValidationError struct {
	Rule     string
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("mlstudio: %s: validation failed: %s", e.Rule, strings.Join(e.Messages, "; "))
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("rule", e.Rule).
		Strs("messages", e.Messages).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(rule string, messages []string) error {
	err := &ValidationError{Rule: rule, Messages: messages}
	return errors.WithStack(err)
}

// AttributeError は対象の属性がホストオブジェクト上に存在しない場合のエラーです。
type AttributeError struct {
	Attribute string
	Owner     string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("mlstudio: %s is not a valid attribute on the %s class", e.Attribute, e.Owner)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *AttributeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("attribute", e.Attribute).
		Str("owner", e.Owner).
		Str("type", "AttributeError")
}

// NewAttributeError は新しいAttributeErrorを作成し、スタックトレースを付与します。
func NewAttributeError(attribute, owner string) error {
	err := &AttributeError{Attribute: attribute, Owner: owner}
	return errors.WithStack(err)
}

// ReferenceError は遅延束縛参照（instance, attribute の組）が解決できない場合のエラーです。
type ReferenceError struct {
	Reason string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("mlstudio: reference resolution failed: %s", e.Reason)
}

// NewReferenceError は新しいReferenceErrorを作成し、スタックトレースを付与します。
func NewReferenceError(reason string) error {
	err := &ReferenceError{Reason: reason}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("mlstudio: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrInvalidOperator はRuleSetのオペレータが 'or'/'and' 以外の場合のエラーです。
	ErrInvalidOperator = New("invalid logical operator")
)
