package models

import "fmt"

// Error categories. Every typed error in the module unwraps to one of these.
var (
	ErrStrategy    = fmt.Errorf("strategy error")
	ErrChain       = fmt.Errorf("chain error")
	ErrProbability = fmt.Errorf("probability error")
	ErrPosition    = fmt.Errorf("position error")
	ErrCurve       = fmt.Errorf("curve error")
	ErrSurface     = fmt.Errorf("surface error")
	ErrGreeks      = fmt.Errorf("greeks error")
	ErrPricing     = fmt.Errorf("pricing error")
	ErrVolatility  = fmt.Errorf("volatility error")
)

var (
	ErrInvalidPosition     = fmt.Errorf("invalid position")
	ErrInvalidPositionType = fmt.Errorf("invalid position type")
	ErrPositionNotFound    = fmt.Errorf("position not found")
	ErrInvalidOption       = fmt.Errorf("invalid option")
	ErrExpiredOption       = fmt.Errorf("option has expired")
)

type OperationErrorKind string

const (
	NotSupported      OperationErrorKind = "not_supported"
	InvalidParameters OperationErrorKind = "invalid_parameters"
)

type OperationError struct {
	Kind      OperationErrorKind
	Category  error
	Operation string
	Reason    string
}

func (e *OperationError) Error() string {
	switch e.Kind {
	case NotSupported:
		return fmt.Sprintf("operation %s is not supported: %s", e.Operation, e.Reason)
	default:
		return fmt.Sprintf("invalid parameters for %s: %s", e.Operation, e.Reason)
	}
}

func (e *OperationError) Unwrap() error {
	return e.Category
}

func NewInvalidParametersError(category error, operation, reason string) error {
	return &OperationError{
		Kind:      InvalidParameters,
		Category:  category,
		Operation: operation,
		Reason:    reason,
	}
}

func NewNotSupportedError(category error, operation, reason string) error {
	return &OperationError{
		Kind:      NotSupported,
		Category:  category,
		Operation: operation,
		Reason:    reason,
	}
}

type PositionError struct {
	Kind   error
	Side   Side
	Reason string
}

func (e *PositionError) Error() string {
	if e.Side != "" {
		return fmt.Sprintf("%v (%s): %s", e.Kind, e.Side, e.Reason)
	}

	return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
}

func (e *PositionError) Unwrap() []error {
	return []error{ErrPosition, e.Kind}
}

func NewInvalidPositionError(reason string) error {
	return &PositionError{Kind: ErrInvalidPosition, Reason: reason}
}

func NewInvalidPositionTypeError(side Side, reason string) error {
	return &PositionError{Kind: ErrInvalidPositionType, Side: side, Reason: reason}
}

func NewPositionNotFoundError(side Side, reason string) error {
	return &PositionError{Kind: ErrPositionNotFound, Side: side, Reason: reason}
}
