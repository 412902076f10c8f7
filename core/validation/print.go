package validation

import "fmt"

// 診断用の出力。検証コントラクトの一部ではなく、ルールの構成を
// 人間が確認するためのインデント付きテキスト描画。

// PrintRule はルールの種別名と付与された条件を整形して出力する。
// 出力先はWithOutputで差し替えられる（デフォルトは標準出力）。
func (r *Rule) PrintRule() {
	// 参照が解決できなくても診断出力は行う
	_ = r.Compile()
	r.printRule()
}

func (r *Rule) printRule() {
	fmt.Fprintf(r.out, "\n  %s:\n", r.checker.name())
	if r.when != nil {
		r.printContext("when")
		r.printCondition(r.when)
	}
	if len(r.whenAny) > 0 {
		r.printContext("when any")
		for _, c := range r.whenAny {
			r.printCondition(c)
		}
	}
	if len(r.whenAll) > 0 {
		r.printContext("when all")
		for _, c := range r.whenAll {
			r.printCondition(c)
		}
	}
}

func (r *Rule) printContext(context string) {
	fmt.Fprintf(r.out, "    %s:\n", context)
}

func (r *Rule) printCondition(c Condition) {
	fmt.Fprintf(r.out, "      %s\n", c.Describe())
}

// PrintRuleSet は結合子の説明と所有する各ルールの構成を出力する
func (s *RuleSet) PrintRuleSet() {
	if len(s.rules) == 0 {
		return
	}
	operatorText := "passes validation if any of the following rules pass."
	if s.operator == OperatorAnd {
		operatorText = "passes validation if all of the following rules pass."
	}
	fmt.Fprintf(s.out, "\n RuleSet %s\n", operatorText)
	for _, r := range s.rules {
		prev := r.out
		r.out = s.out
		r.PrintRule()
		r.out = prev
	}
}
