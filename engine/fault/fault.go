// Package fault defines the engine's two error kinds: invalid commands
// (recoverable, caused by untrusted input) and invariant violations
// (programmer or data errors, fatal to the operation). Validation failure
// is an ordinary return path, never a panic.
package fault

import (
	"errors"
	"fmt"
)

// CommandError reports a Command or Instruction that is inconsistent with
// the current world state. It carries a human-readable message naming the
// offending identifiers and the violated rule, and is safe to show to the
// player. A rejected command leaves the world untouched.
type CommandError struct {
	Reason string
}

func (e *CommandError) Error() string { return e.Reason }

// InvariantError reports a defect in the engine or its scripted
// extensions: a nil required argument, an out-of-range construction
// parameter, an append to a terminated history. No partial-state recovery
// is attempted.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string { return "invariant violation: " + e.Reason }

// Invalid constructs a CommandError from a format string.
func Invalid(format string, args ...any) error {
	return &CommandError{Reason: fmt.Sprintf(format, args...)}
}

// Invariant constructs an InvariantError from a format string.
func Invariant(format string, args ...any) error {
	return &InvariantError{Reason: fmt.Sprintf(format, args...)}
}

// IsInvalid reports whether err is (or wraps) a CommandError.
func IsInvalid(err error) bool {
	var ce *CommandError
	return errors.As(err, &ce)
}

// IsInvariant reports whether err is (or wraps) an InvariantError.
func IsInvariant(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
