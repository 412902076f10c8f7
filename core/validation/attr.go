package validation

import (
	"reflect"

	"github.com/decisionscients/mlstudio/pkg/errors"
)

// ホストオブジェクトへの束縛は「名前で1つの属性を読む」ことだけを要求する。
// エクスポートされたフィールド、または引数なし・戻り値1つのメソッドを属性として扱う。

// hasAttr はホストオブジェクトに指定した名前の属性が存在するかを判定する
func hasAttr(instance interface{}, name string) bool {
	if instance == nil || name == "" {
		return false
	}
	rv := reflect.ValueOf(instance)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return false
		}
		if m := rv.MethodByName(name); m.IsValid() {
			return methodIsGetter(m)
		}
		rv = rv.Elem()
	}
	if m := rv.MethodByName(name); m.IsValid() {
		return methodIsGetter(m)
	}
	if rv.Kind() == reflect.Struct {
		return rv.FieldByName(name).IsValid()
	}
	return false
}

// attrValue はホストオブジェクトから指定した名前の属性値を読み出す。
// getterメソッドはライブラリの外のコードなので、panicはエラーへ変換される。
func attrValue(instance interface{}, name string) (out interface{}, err error) {
	defer errors.Recover(&err, "attrValue")

	if instance == nil {
		return nil, errors.NewReferenceError("instance is nil")
	}
	rv := reflect.ValueOf(instance)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, errors.NewReferenceError("instance is nil")
		}
		if m := rv.MethodByName(name); m.IsValid() && methodIsGetter(m) {
			return m.Call(nil)[0].Interface(), nil
		}
		rv = rv.Elem()
	}
	if m := rv.MethodByName(name); m.IsValid() && methodIsGetter(m) {
		return m.Call(nil)[0].Interface(), nil
	}
	if rv.Kind() == reflect.Struct {
		f := rv.FieldByName(name)
		if f.IsValid() && f.CanInterface() {
			return f.Interface(), nil
		}
	}
	return nil, errors.NewAttributeError(name, rv.Type().String())
}

func methodIsGetter(m reflect.Value) bool {
	t := m.Type()
	return t.NumIn() == 0 && t.NumOut() == 1
}
