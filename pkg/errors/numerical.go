package errors

import (
	"fmt"
	"math"
)

// NumericalInstabilityError は数値計算がNaNまたはInfを生成した場合のエラーです。
// 学習率スケジュールの評価など、閉形式の計算が不正なハイパーパラメータの
// 組み合わせで破綻したことを示します。
type NumericalInstabilityError struct {
	Op     string
	Values []float64
}

func (e *NumericalInstabilityError) Error() string {
	return fmt.Sprintf("mlstudio: %s: numerical instability detected (values: %v)", e.Op, e.Values)
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成し、スタックトレースを付与します。
func NewNumericalInstabilityError(op string, values []float64) error {
	return WithStack(&NumericalInstabilityError{Op: op, Values: values})
}

// CheckNumericalStability は値列にNaNまたはInfが含まれていないかを検査します。
// 不安定な値は最大10件までエラーに収集されます。
func CheckNumericalStability(op string, values []float64) error {
	var unstable []float64
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			unstable = append(unstable, v)
			if len(unstable) >= 10 {
				break
			}
		}
	}
	if len(unstable) > 0 {
		return NewNumericalInstabilityError(op, unstable)
	}
	return nil
}

// CheckScalar は単一のスカラー値の数値安定性を検査します。
func CheckScalar(op string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewNumericalInstabilityError(op, []float64{value})
	}
	return nil
}
