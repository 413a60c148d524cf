/*
errors.go - Rule lookup and normalization errors
*/
package rules

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrAllowanceRuleNotFound is returned when a city has no allowance rule.
	// Fatal for that one calculation.
	ErrAllowanceRuleNotFound = errors.New("allowance rule not found")

	// ErrUnknownLeaveType is returned when a label cannot be normalized to
	// a canonical leave type.
	ErrUnknownLeaveType = errors.New("unknown leave type")

	// ErrUnknownStage is returned for an unrecognized miscarriage stage label.
	ErrUnknownStage = errors.New("unknown miscarriage stage")

	// ErrUnknownPayoutMethod is returned for an unrecognized payout method.
	ErrUnknownPayoutMethod = errors.New("unknown payout method")

	// ErrDuplicateRule is returned when two rules share a uniqueness key.
	ErrDuplicateRule = errors.New("duplicate rule")

	// ErrInvalidRule is returned when a rule fails basic sanity checks.
	ErrInvalidRule = errors.New("invalid rule")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// RuleNotFoundError reports a missing city allowance rule with context.
type RuleNotFoundError struct {
	City string
}

func (e *RuleNotFoundError) Error() string {
	return fmt.Sprintf("no allowance rule for city %q", e.City)
}

func (e *RuleNotFoundError) Unwrap() error { return ErrAllowanceRuleNotFound }

// NormalizeError reports a label that failed canonicalization, with the
// raw label preserved for diagnostics.
type NormalizeError struct {
	Field string
	Label string
	Err   error
}

func (e *NormalizeError) Error() string {
	return fmt.Sprintf("cannot normalize %s label %q: %v", e.Field, e.Label, e.Err)
}

func (e *NormalizeError) Unwrap() error { return e.Err }

// IsNotFound returns true if the error indicates a missing rule.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAllowanceRuleNotFound)
}
