package errors

import (
	"fmt"
	"runtime/debug"
)

// PanicError はリカバリされたpanicから生成されたエラーです。
// 発生時のスタックトレースと、どの操作で回収されたかを保持します。
type PanicError struct {
	// PanicValue はpanic()に渡された元の値
	PanicValue interface{}

	// StackTrace はpanic発生時点のスタックトレース
	StackTrace string

	// Operation はpanicを回収した操作の名前
	Operation string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// String はスタックトレースを含む詳細表現を返します。
func (e *PanicError) String() string {
	return fmt.Sprintf("panic in %s: %v\nStack trace:\n%s",
		e.Operation, e.PanicValue, e.StackTrace)
}

// NewPanicError は新しいPanicErrorを作成します。
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// Recover はdeferと共に使い、panicをエラーへ変換するユーティリティです。
// ホストオブジェクトの属性getterのように、ライブラリの外から渡された
// コードを呼び出す箇所で使用します。
//
// 使用例:
//
//	func readAttribute() (err error) {
//	    defer errors.Recover(&err, "readAttribute")
//	    // ... 外部コードの呼び出し ...
//	    return nil
//	}
func Recover(err *error, operation string) {
	if r := recover(); r != nil {
		panicErr := NewPanicError(operation, r)

		if *err != nil {
			*err = fmt.Errorf("panic in %s: %v (original error: %w)",
				operation, r, *err)
		} else {
			*err = panicErr
		}
	}
}

// SafeExecute は関数を実行し、panicが発生した場合はエラーへ変換して返します。
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
