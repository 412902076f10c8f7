package validation

import (
	"io"
	"os"

	"github.com/decisionscients/mlstudio/pkg/errors"
)

// Operator はRuleSetの論理結合子
type Operator string

const (
	// OperatorOr はいずれかのルールが通れば有効
	OperatorOr Operator = "or"
	// OperatorAnd はすべてのルールが通った場合のみ有効
	OperatorAnd Operator = "and"
)

// RuleSet は論理結合子で束ねられたルールの複合体。
// 追加されたルールの所有権はRuleSetが排他的に持ち、
// 挿入順はメッセージの順序として意味を持つ。
type RuleSet struct {
	operator        Operator
	rules           []*Rule
	isValid         bool
	invalidMessages []string
	out             io.Writer
}

// NewRuleSet は新しいRuleSetを作成する。
// operatorは'or'または'and'のみ有効で、それ以外は即座にエラーとなる。
func NewRuleSet(operator Operator, rules ...*Rule) (*RuleSet, error) {
	s := &RuleSet{isValid: true, out: os.Stdout}
	if err := s.SetOperator(operator); err != nil {
		return nil, err
	}
	s.rules = append(s.rules, rules...)
	return s, nil
}

// Operator は現在の論理結合子を返す
func (s *RuleSet) Operator() Operator { return s.operator }

// SetOperator は論理結合子を設定する。{'or', 'and'}以外は代入時に拒否される。
func (s *RuleSet) SetOperator(operator Operator) error {
	if operator != OperatorOr && operator != OperatorAnd {
		return errors.NewConfigurationError("RuleSet.SetOperator",
			"invalid operator, valid operators are ['or', 'and']", string(operator))
	}
	s.operator = operator
	return nil
}

// SetOutput はPrintRuleSetの出力先を差し替える
func (s *RuleSet) SetOutput(w io.Writer) { s.out = w }

// AddRule はルールを末尾に追加する
func (s *RuleSet) AddRule(rule *Rule) {
	if rule == nil {
		return
	}
	s.rules = append(s.rules, rule)
}

// DelRule はルールを同一性で探して取り除く
func (s *RuleSet) DelRule(rule *Rule) {
	for i, r := range s.rules {
		if r == rule {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			return
		}
	}
}

// Rules は所有するルールを挿入順で返す
func (s *RuleSet) Rules() []*Rule { return s.rules }

// Compile は所有するすべてのルールをその場でコンパイルする
func (s *RuleSet) Compile() error {
	for _, r := range s.rules {
		if err := r.Compile(); err != nil {
			return err
		}
	}
	return nil
}

// Validate はすべてのルールのValidateを無条件に実行する（短絡評価はしない）。
// 各ルールの合否とメッセージを収集し、結合子で集約する:
// 'or'はいずれかが通れば有効、'and'はすべて通った場合のみ有効。
// 戻り値のエラーはいずれかのルールの設定エラーのみ。
func (s *RuleSet) Validate(value interface{}) error {
	s.isValid = true
	s.invalidMessages = nil

	results := make([]bool, 0, len(s.rules))
	for _, r := range s.rules {
		if err := r.Validate(value); err != nil {
			return err
		}
		results = append(results, r.IsValid())
		if !r.IsValid() {
			s.invalidMessages = append(s.invalidMessages, r.InvalidMessages()...)
		}
	}

	if s.operator == OperatorOr {
		s.isValid = false
		for _, ok := range results {
			if ok {
				s.isValid = true
				break
			}
		}
	} else {
		s.isValid = true
		for _, ok := range results {
			if !ok {
				s.isValid = false
				break
			}
		}
	}
	return nil
}

// IsValid は直近のValidateの集約結果を返す
func (s *RuleSet) IsValid() bool { return s.isValid }

// InvalidMessages は失敗したルールのメッセージを挿入順で返す
func (s *RuleSet) InvalidMessages() []string {
	return append([]string(nil), s.invalidMessages...)
}

// InvalidError は集約されたメッセージを運ぶエラーを返す
func (s *RuleSet) InvalidError() error {
	return errors.NewValidationError("RuleSet", s.InvalidMessages())
}
