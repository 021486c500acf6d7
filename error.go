package meanosc

import (
	"fmt"
)

// RecoveryErrorReason defines the specific geometric constraint a
// mean-to-osculating recovery failed to satisfy.
type RecoveryErrorReason string

const (
	ReasonNegativeEccentricity    RecoveryErrorReason = "computed eccentricity negative"
	ReasonEccentricityTooHigh     RecoveryErrorReason = "eccentricity >= 1.0"
	ReasonNonElliptic             RecoveryErrorReason = "orbital energy not elliptic"
	ReasonDegenerateInclination   RecoveryErrorReason = "inclination degenerate for the element set"
	ReasonNonFiniteGeometry       RecoveryErrorReason = "non-finite intermediate geometry"
	ReasonSemiLatusRectumNegative RecoveryErrorReason = "semi-latus rectum negative"
)

// RecoveryError is returned when a closed-form mean-to-osculating recovery
// cannot produce a valid orbit. Conversions are never retried internally.
type RecoveryError struct {
	Theory string              // theory performing the recovery
	Reason RecoveryErrorReason // the constraint that was violated
	Value  float64             // the value that violated it
}

// Error returns the error message for RecoveryError.
func (e *RecoveryError) Error() string {
	return fmt.Sprintf("%s recovery failed: %s (value: %.6e)", e.Theory, e.Reason, e.Value)
}

// IndexError is returned for coefficient requests outside the valid
// (m, n, s) domain. Out-of-range indices are never silently truncated.
type IndexError struct {
	M, N, S   int
	MaxDegree int
}

// Error returns the error message for IndexError.
func (e *IndexError) Error() string {
	return fmt.Sprintf("coefficient index (m=%d, n=%d, s=%d) outside 0 <= m <= n <= %d, |s| <= n",
		e.M, e.N, e.S, e.MaxDegree)
}
