package training

import (
	"github.com/decisionscients/mlstudio/core/validation"
	"github.com/decisionscients/mlstudio/pkg/errors"
)

// supportedMetrics はConfigで指定できる評価指標
var supportedMetrics = []string{"mse", "rmse", "mae", "r2"}

// Config は学習ハイパーパラメータのホストオブジェクト。
// フィールドはルールエンジンの(インスタンス, 属性)束縛の対象となり、
// Validateが構成全体の整合性を検査する。
type Config struct {
	Epochs       int
	BatchSize    int
	LearningRate float64
	Metric       string

	// EarlyStop が真のときのみ Patience が検査される
	EarlyStop bool
	Patience  int
}

// Validate は構成を検査し、違反があればValidationErrorを返す。
// すべてのルールを評価してからメッセージをまとめるため、
// 複数の違反が一度に報告される。
func (c *Config) Validate() error {
	var msgs []string

	check := func(r *validation.Rule, v interface{}) error {
		if err := r.Validate(v); err != nil {
			return err
		}
		if !r.IsValid() {
			msgs = append(msgs, r.InvalidMessages()...)
		}
		return nil
	}

	if err := check(validation.NewGreaterRule(c, "Epochs", "Config", 1), c.Epochs); err != nil {
		return err
	}
	if err := check(validation.NewGreaterRule(c, "BatchSize", "Config", 1), c.BatchSize); err != nil {
		return err
	}

	// 学習率は(0, 1]: 下限は排他的、上限は1を含む
	lower := validation.NewGreaterRule(c, "LearningRate", "Config", 0, validation.WithExclusive())
	upper, err := validation.NewBetweenRule(c, "LearningRate", "Config", []float64{0, 1})
	if err != nil {
		return err
	}
	set, err := validation.NewRuleSet(validation.OperatorAnd, lower, upper)
	if err != nil {
		return err
	}
	if err := set.Validate(c.LearningRate); err != nil {
		return err
	}
	if !set.IsValid() {
		msgs = append(msgs, set.InvalidMessages()...)
	}

	if err := check(validation.NewAllowedRule(c, "Metric", "Config", supportedMetrics), c.Metric); err != nil {
		return err
	}

	// 早期終了が有効なときだけ忍耐パラメータを検査する
	if err := check(validation.NewGreaterRule(c, "Patience", "Config", 1).
		When(validation.IsEqual(validation.Attr(c, "EarlyStop"), true)), c.Patience); err != nil {
		return err
	}
	if err := check(validation.NewLessRule(c, "Patience", "Config", validation.Attr(c, "Epochs"),
		validation.WithExclusive()).
		When(validation.IsEqual(validation.Attr(c, "EarlyStop"), true)), c.Patience); err != nil {
		return err
	}

	if len(msgs) > 0 {
		return errors.NewValidationError("Config", msgs)
	}
	return nil
}
