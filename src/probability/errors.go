package probability

import (
	"fmt"

	"github.com/jiaming2012/optionstrat/src/models"
)

var (
	ErrInvalidPriceRange = fmt.Errorf("invalid price range")
	ErrInvalidPrice      = fmt.Errorf("invalid price")
	ErrInvalidStep       = fmt.Errorf("invalid step")
	ErrInvalidExpiration = fmt.Errorf("invalid expiration")
	ErrInvalidVolatility = fmt.Errorf("invalid volatility")
	ErrInvalidConfidence = fmt.Errorf("invalid trend confidence")
)

// PriceError reports bad price inputs to the probability model.
type PriceError struct {
	Kind      error
	Operation string
	Reason    string
}

func (e *PriceError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Operation, e.Kind, e.Reason)
}

func (e *PriceError) Unwrap() []error {
	return []error{models.ErrProbability, e.Kind}
}

// ExpirationError reports an unusable time horizon.
type ExpirationError struct {
	Operation string
	Reason    string
}

func (e *ExpirationError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Operation, ErrInvalidExpiration, e.Reason)
}

func (e *ExpirationError) Unwrap() []error {
	return []error{models.ErrProbability, ErrInvalidExpiration}
}

func priceErr(op string, kind error, format string, args ...interface{}) error {
	return &PriceError{Kind: kind, Operation: op, Reason: fmt.Sprintf(format, args...)}
}
