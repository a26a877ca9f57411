package optimization

import (
	"errors"
	"fmt"
)

// Kind classifies optimization errors into the closed taxonomy used across
// the engine. Parse-time kinds (Config, UnknownBenchmark, InvalidStrategySpec)
// are raised before any run starts; runtime kinds carry the failing generation
// and particle context.
type Kind int

const (
	KindUnknown Kind = iota
	// KindConfig reports a missing or malformed configuration field.
	KindConfig
	// KindUnknownBenchmark reports a benchmark name outside the registry.
	KindUnknownBenchmark
	// KindInvalidStrategySpec reports a bad strategy grammar, name, arity
	// or an empty [min,max] interval.
	KindInvalidStrategySpec
	// KindDimensionMismatch reports a vector whose length disagrees with the
	// configured dimensionality or population size.
	KindDimensionMismatch
	// KindNumericInstability reports a non-finite fitness or position.
	KindNumericInstability
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindUnknownBenchmark:
		return "unknown_benchmark"
	case KindInvalidStrategySpec:
		return "invalid_strategy_spec"
	case KindDimensionMismatch:
		return "dimension_mismatch"
	case KindNumericInstability:
		return "numeric_instability"
	default:
		return "unknown"
	}
}

// Error is an optimization error with classification and context.
type Error struct {
	// Kind is the taxonomy bucket the error falls into.
	Kind Kind
	// Message describes the error that occurred.
	Message string
	// Op is the operation that caused the error.
	Op string
	// Component is the component where the error occurred.
	Component string
	// Err is the underlying error that triggered this one, if any.
	Err error
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var prefix string
	if e.Component != "" && e.Op != "" {
		prefix = fmt.Sprintf("%s: %s", e.Component, e.Op)
	} else if e.Component != "" {
		prefix = e.Component
	} else if e.Op != "" {
		prefix = e.Op
	}

	if e.Err != nil {
		if prefix != "" {
			return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	if prefix != "" {
		return fmt.Sprintf("%s: %s", prefix, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// WithOperation adds operation context to the error.
func (e *Error) WithOperation(op string) *Error {
	e.Op = op
	return e
}

// WithComponent adds component context to the error.
func (e *Error) WithComponent(component string) *Error {
	e.Component = component
	return e
}

// NewError creates a new error of the given kind.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewErrorf creates a new error of the given kind with a formatted message.
func NewErrorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError wraps an existing error with a kind and message.
// If err is nil, WrapError returns nil.
func WrapError(err error, kind Kind, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// ConfigError reports a missing or invalid configuration field.
func ConfigError(format string, args ...interface{}) *Error {
	return NewErrorf(KindConfig, format, args...)
}

// UnknownBenchmarkError reports a benchmark name that is not registered.
func UnknownBenchmarkError(name string, known []string) *Error {
	return NewErrorf(KindUnknownBenchmark, "unknown benchmark %q, available: %v", name, known)
}

// InvalidStrategySpecError reports a malformed strategy specification.
func InvalidStrategySpecError(format string, args ...interface{}) *Error {
	return NewErrorf(KindInvalidStrategySpec, format, args...)
}

// DimensionMismatchError reports a vector length that disagrees with the
// configured dimensions.
func DimensionMismatchError(want, got int) *Error {
	return NewErrorf(KindDimensionMismatch, "expected %d components, got %d", want, got)
}

// NumericInstabilityError reports a non-finite value with the failing
// generation and particle attached.
func NumericInstabilityError(generation, particle int, detail string) *Error {
	e := NewErrorf(KindNumericInstability, "non-finite %s at generation %d, particle %d", detail, generation, particle)
	return e.WithOperation("step")
}

// IsKind reports whether any error in err's chain is an optimization Error of
// the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
