package meanosc

import (
	"math"
	"time"
)

// MeanOrbitalState is an averaged element set bound to an epoch, a frame and
// a perturbation theory able to recover the osculating orbit. The three
// recovery algorithms are variants of this one capability, not an
// inheritance hierarchy: each theory owns its own parameters.
//
// Every implementation guarantees that the produced orbit's Date() and
// Frame() are identical (not merely numerically close) to the state's own
// Epoch() and Frame().
type MeanOrbitalState interface {
	Epoch() time.Time
	Frame() *Frame
	MeanElements() MeanElements
	OrbitType() OrbitType
	PositionAngleType() PositionAngle
	ToOsculatingOrbit() (*Orbit, error)
}

// recoverOsculatingPV applies the first-order long-period (J3) and
// short-period (J2) periodic corrections to mean Keplerian elements and
// returns the osculating Cartesian state. This is the closed-form recovery
// shared by the Brouwer-Lyddane and SGP4-compatible theories; only the
// constants they feed it differ.
//
// The recovery is not iterative: any violated geometric constraint fails
// fast with a RecoveryError naming the theory.
func recoverOsculatingPV(theory string, mu, re, j2, j3, a, e, i, raan, aop, m float64) (Vector, Vector, error) {
	if e < 0.0 {
		return Vector{}, Vector{}, &RecoveryError{Theory: theory, Reason: ReasonNegativeEccentricity, Value: e}
	}
	if e >= 1.0-1e-6 {
		return Vector{}, Vector{}, &RecoveryError{Theory: theory, Reason: ReasonEccentricityTooHigh, Value: e}
	}
	sinio, cosio := math.Sincos(i)
	if math.Abs(cosio+1.0) < 1.5e-12 {
		// the long-period coefficient divides by (1 + cos i)
		return Vector{}, Vector{}, &RecoveryError{Theory: theory, Reason: ReasonDegenerateInclination, Value: i}
	}
	theta2 := cosio * cosio
	x3thm1 := 3.0*theta2 - 1.0
	x1mth2 := 1.0 - theta2
	x7thm1 := 7.0*theta2 - 1.0

	k2 := 0.5 * j2 * re * re
	a3ovk2 := -0.5 * j3 / j2 * re
	xlcof := 0.125 * a3ovk2 * sinio * (3.0 + 5.0*cosio) / (1.0 + cosio)
	aycof := 0.25 * a3ovk2 * sinio
	n := math.Sqrt(mu / (a * a * a))
	beta2 := 1.0 - e*e

	// long period periodics
	axn := e * math.Cos(aop)
	temp11 := 1.0 / (a * beta2)
	xll := temp11 * xlcof * axn
	aynl := temp11 * aycof
	ayn := e*math.Sin(aop) + aynl

	elsq := axn*axn + ayn*ayn
	if elsq >= 1.0 {
		return Vector{}, Vector{}, &RecoveryError{Theory: theory, Reason: ReasonEccentricityTooHigh, Value: math.Sqrt(elsq)}
	}

	// Kepler's equation for the perturbed eccentric argument of latitude
	capu := math.Mod(m+aop+xll, twoPi)
	epw := capu
	var sinepw, cosepw, ecose, esine float64
	maxNewton := 1.25 * math.Sqrt(elsq)
	for iter := 0; iter < 10; iter++ {
		sinepw, cosepw = math.Sincos(epw)
		ecose = axn*cosepw + ayn*sinepw
		esine = axn*sinepw - ayn*cosepw
		f := capu - epw + esine
		if math.Abs(f) < 1e-12 {
			break
		}
		delta := f / (1.0 - ecose)
		if iter == 0 {
			if delta > maxNewton {
				delta = maxNewton
			} else if delta < -maxNewton {
				delta = -maxNewton
			}
		}
		epw += delta
	}

	// short period preliminary quantities
	temp21 := 1.0 - elsq
	pl := a * temp21
	if pl < 0.0 {
		return Vector{}, Vector{}, &RecoveryError{Theory: theory, Reason: ReasonSemiLatusRectumNegative, Value: pl}
	}
	r := a * (1.0 - ecose)
	rdot := math.Sqrt(mu*a) * esine / r
	rfdot := math.Sqrt(mu*pl) / r

	temp32 := a / r
	betal := math.Sqrt(temp21)
	temp33 := 1.0 / (1.0 + betal)
	cosu := temp32 * (cosepw - axn + ayn*esine*temp33)
	sinu := temp32 * (sinepw - ayn - axn*esine*temp33)
	u := math.Atan2(sinu, cosu)
	sin2u := 2.0 * sinu * cosu
	cos2u := 2.0*cosu*cosu - 1.0

	// short period perturbations
	temp41 := 1.0 / pl
	temp42 := k2 * temp41
	temp43 := temp42 * temp41

	rk := r*(1.0-1.5*temp43*betal*x3thm1) + 0.5*temp42*x1mth2*cos2u
	uk := u - 0.25*temp43*x7thm1*sin2u
	xnodek := raan + 1.5*temp43*cosio*sin2u
	xinck := i + 1.5*temp43*cosio*sinio*cos2u
	rdotk := rdot - n*temp42*x1mth2*sin2u
	rfdotk := rfdot + n*temp42*(x1mth2*cos2u+1.5*x3thm1)

	pos, vel := planeToInertial(rk, uk, xnodek, xinck, rdotk, rfdotk)
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) ||
		math.IsNaN(vel.X) || math.IsNaN(vel.Y) || math.IsNaN(vel.Z) {
		return Vector{}, Vector{}, &RecoveryError{Theory: theory, Reason: ReasonNonFiniteGeometry, Value: math.NaN()}
	}
	return pos, vel, nil
}
