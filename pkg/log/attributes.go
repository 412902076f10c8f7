// Package log defines standard attribute keys for validation and training operations.
//
// Using these keys consistently across the library enables structured log
// analysis and filtering. The keys follow a hierarchical naming convention
// (e.g., "rule.name", "coerce.kind").
package log

// Rule and validation context.
// These attributes identify the rule, the attribute under validation, and its owner.
const (
	// RuleNameKey identifies the rule type performing the check.
	// Examples: "IntegerRule", "BetweenRule", "RuleSet"
	RuleNameKey = "rule.name"

	// RuleIDKey provides the unique identifier attached to a rule instance
	// at construction time (audit metadata).
	RuleIDKey = "rule.id"

	// AttributeKey names the host attribute the rule is bound to.
	// Examples: "learning_rate", "epochs"
	AttributeKey = "rule.attribute"

	// OwnerKey names the class owning the validated attribute.
	// Used only in human-readable messages, never in evaluation logic.
	OwnerKey = "rule.owner"

	// OperatorKey is the logical combinator of a RuleSet ("or" / "and").
	OperatorKey = "rule.operator"

	// MessagesKey carries the accumulated invalid messages of a failed
	// validation when an error attribute holds a ValidationError.
	MessagesKey = "rule.messages"
)

// Coercion context.
const (
	// CoerceKindKey is the target kind of a coercion attempt.
	// Examples: "bool", "int", "float", "number", "string"
	CoerceKindKey = "coerce.kind"

	// CoerceOutcomeKey records whether a coercion attempt changed the value.
	// Values: "coerced", "unchanged", "failed"
	CoerceOutcomeKey = "coerce.outcome"
)

// Training context.
const (
	// ScheduleNameKey identifies a learning-rate schedule.
	// Examples: "TimeDecay", "Adaptive"
	ScheduleNameKey = "schedule.name"

	// EpochKey is the epoch a schedule was evaluated at.
	EpochKey = "schedule.epoch"
)
