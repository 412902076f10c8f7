// Package mlstudio provides a declarative validation rule engine for machine
// learning hyperparameters and host objects, together with a family of
// learning-rate schedules whose construction is validated by the same engine.
//
// ML Studio lets a class declare what a valid attribute looks like (its type,
// its range, its membership in an allowed set) and defer the enforcement to
// reusable Rule and RuleSet objects.
//
// # Features
//
// - Declarative Rules: syntactic (type/shape) and semantic (reference value) checks
// - Conditional Application: When / WhenAll / WhenAny gates per rule
// - Late-Bound References: validate one attribute against the live value of another
// - Coercion: a single recovery pass for convertible values ("yes" -> true, "3" -> 3)
// - Structured Warnings: coercion failures surface as warnings, not errors
//
// # Installation
//
// Install ML Studio using go get:
//
//	go get github.com/decisionscients/mlstudio
//
// # Quick Start
//
// Here's a simple example of validating a hyperparameter:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/decisionscients/mlstudio/core/validation"
//	)
//
//	type Model struct {
//	    LearningRate float64
//	}
//
//	func main() {
//	    m := &Model{}
//	    rule, err := validation.NewBetweenRule(m, "LearningRate", "Model", []float64{0, 1})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    if err := rule.Validate(0.01); err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("valid:", rule.IsValid())
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - core/validation: the rule engine (rules, rule sets, conditions, coercion)
//   - core/parallel: parallel processing utilities
//   - training: learning-rate schedules and validated training configuration
//   - pkg/errors: structured errors and the warning system
//   - pkg/log: structured logging setup and attribute keys
//
// # License
//
// ML Studio is released under the MIT License.
package mlstudio
