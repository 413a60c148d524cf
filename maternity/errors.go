/*
errors.go - Engine error taxonomy

PURPOSE:
  Three numeric-path error families, all of which propagate:
  - ValidationError(s): bad or missing caller input
  - rule-not-found:     surfaced via the rules package error types
  - ComputationError:   an internal formula input resolved to something
                        unusable; must never be masked as a zero result

  The narrative path (breakdown text) has no error type at all. It
  degrades to an explicit unavailable marker instead, because the
  derivation text is advisory audit material, not the authoritative
  numeric result.

USAGE:
  if errs, ok := err.(maternity.ValidationErrors); ok { ... per-field ... }
  if errors.Is(err, maternity.ErrComputation) { ... }
*/
package maternity

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the root of all input validation failures.
	ErrValidation = errors.New("invalid calculation input")

	// ErrComputation is the root of internal invariant violations.
	ErrComputation = errors.New("computation invariant violated")
)

// =============================================================================
// VALIDATION ERRORS - Per-field, collected
// =============================================================================

// ValidationError reports one invalid or missing input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every field failure for one input so a batch
// row reports all of its problems at once.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

func (e ValidationErrors) Unwrap() error { return ErrValidation }

// Messages returns the individual failure strings, for batch error rows.
func (e ValidationErrors) Messages() []string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return msgs
}

// =============================================================================
// COMPUTATION ERRORS
// =============================================================================

// ComputationError reports a formula input that resolved to an unusable
// value (non-positive base, inverted period, negative day count).
type ComputationError struct {
	Stage  string // which calculation step detected it
	Detail string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation error in %s: %s", e.Stage, e.Detail)
}

func (e *ComputationError) Unwrap() error { return ErrComputation }

// IsClientError returns true if the error is due to invalid caller input
// rather than an internal fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation)
}
