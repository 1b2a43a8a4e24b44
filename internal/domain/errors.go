package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the engine's failure taxonomy. Callers match them with
// errors.Is after unwrapping.
var (
	// ErrInsufficientData marks a profile computed from fewer than two
	// samples. Results stay valid but are flagged low-confidence.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidParameter rejects a single request whose service level or
	// lead time is outside the supported ranges.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrEntityNotFound aborts a request referencing an unknown store,
	// product or supplier.
	ErrEntityNotFound = errors.New("entity not found")
)

// Warning flags a recoverable condition (zero holding cost, zero total
// revenue, sanitized NaN/Inf) attached to a result instead of failing it.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	WarnZeroHoldingCost  = "zero_holding_cost"
	WarnZeroTotalRevenue = "zero_total_revenue"
	WarnNonFiniteValue   = "non_finite_value"
	WarnLowConfidence    = "low_confidence"
)

// InsufficientDataf builds an ErrInsufficientData with a formatted detail.
// Callers degrade on it rather than fail.
func InsufficientDataf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInsufficientData, fmt.Sprintf(format, args...))
}

// InvalidParameterf builds an ErrInvalidParameter with a formatted detail.
func InvalidParameterf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

// NotFoundf builds an ErrEntityNotFound with a formatted detail.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrEntityNotFound, fmt.Sprintf(format, args...))
}
