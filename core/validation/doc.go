// Package validation implements the attribute-validation framework used to
// enforce constructor and parameter invariants across ML Studio classes.
//
// The framework is a small interpreter over a fluent, declarative rule
// language. A Rule binds one validation check to a single (object, attribute)
// pair; a RuleSet combines rules with a logical operator; Conditions gate
// whether a rule applies at all.
//
// # Rules
//
// Syntactic rules check the intrinsic type or shape of a value
// (NoneRule, NotNoneRule, EmptyRule, NotEmptyRule, BoolRule, IntegerRule,
// FloatRule, NumberRule, StringRule). Semantic rules check a value against a
// reference value (EqualRule, NotEqualRule, AllowedRule, DisAllowedRule,
// LessRule, GreaterRule, BetweenRule, RegexRule). The reference may be a
// literal or a late-bound (instance, attribute) pair created with Attr,
// resolved immediately before each validation pass.
//
// # Evaluation
//
// Validate compiles the rule (resetting transient state and resolving
// references), evaluates the applicability gates, and applies the rule's
// predicate, element-wise for array values when arrays are permitted.
// A failed first pass triggers at most one coercion attempt followed by a
// single re-evaluation of the coerced value.
//
// Example:
//
//	cfg := &Config{Epochs: 100, LearningRate: 0.1}
//	rule := validation.NewBoolRule(cfg, "Verbose", "Config")
//	if err := rule.Validate("yes"); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(rule.IsValid())          // true: "yes" was coerced to true
//	fmt.Println(rule.ValidatedValue())   // true
//
// A single Rule instance is not safe for concurrent reentrant calls;
// independent Rule instances may be validated concurrently.
package validation
