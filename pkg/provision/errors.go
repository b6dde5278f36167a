package provision

import (
	"errors"
	"fmt"
)

// Pipeline errors.
var (
	// ErrValidation matches any ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrUnreachable matches any UnreachableError via errors.Is.
	ErrUnreachable = errors.New("device unreachable")

	// ErrInvalidConfig is returned by NewPipeline for missing collaborators.
	ErrInvalidConfig = errors.New("invalid pipeline configuration")
)

// ReasonUnreachable is the failure reason recorded when a readiness wait
// runs out.
const ReasonUnreachable = "device unreachable"

// ValidationError reports malformed target input. It is raised before any
// request is sent to the device.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// UnreachableError reports a readiness wait that ran out after Step.
type UnreachableError struct {
	Step Step
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("%s: %s", e.Step, ReasonUnreachable)
}

// Is lets errors.Is(err, ErrUnreachable) match.
func (e *UnreachableError) Is(target error) bool { return target == ErrUnreachable }
