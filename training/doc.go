// Package training provides learning-rate schedules and a validated training
// configuration object.
//
// Every schedule constructor checks its hyperparameters through the rule
// engine in core/validation: a schedule that constructs successfully is a
// schedule whose parameters are in range. Schedules are closed-form decay
// curves evaluated per epoch; only Adaptive carries observation state.
package training
