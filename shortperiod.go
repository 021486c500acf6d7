package meanosc

import (
	"fmt"
	"math"
)

// ShortPeriodTerms is a stateful function object mapping an osculating
// candidate orbit to the additive short-period correction vector. A term is
// produced by initializing a force contribution against a set of auxiliary
// elements, updated once per mean state, and then queried for candidate
// orbits. Corrections from several active contributions are summed
// component-wise by the caller.
type ShortPeriodTerms interface {
	// Name identifies the contribution that produced the term.
	Name() string

	// Value returns the six-component additive correction transforming mean
	// equinoctial elements into osculating ones at the candidate orbit.
	Value(candidate *Orbit) ([6]float64, error)
}

// ForceContribution is the two-phase protocol of a perturbing force: terms
// are allocated and configured once per auxiliary-element set, then refreshed
// from each new mean state as it evolves.
type ForceContribution interface {
	// Initialize allocates the short-period terms for this contribution,
	// with the slowly varying coefficients frozen from the auxiliary
	// geometry. When includeShortPeriod is false the returned terms always
	// evaluate to zero.
	Initialize(aux *AuxiliaryElements, includeShortPeriod bool, params []float64) ([]ShortPeriodTerms, error)

	// UpdateShortPeriodTerms refreezes the internal coefficients from the
	// current mean state. Until called, the terms carry the coefficients
	// of the auxiliary elements they were initialized against.
	UpdateShortPeriodTerms(params []float64, meanOrbit *Orbit) error
}

// J2Contribution is the first-order zonal contribution: its short-period
// term carries the classical J2 corrections to radius, latitude argument,
// node and inclination.
type J2Contribution struct {
	J2 float64 // unnormalized zonal coefficient (positive for Earth)
	Re float64 // reference radius of the field

	term *j2ShortPeriodTerms
}

func (c *J2Contribution) Initialize(aux *AuxiliaryElements, includeShortPeriod bool, params []float64) ([]ShortPeriodTerms, error) {
	if aux == nil {
		return nil, fmt.Errorf("auxiliary elements must not be nil")
	}
	c.term = &j2ShortPeriodTerms{
		j2:      c.J2,
		re:      c.Re,
		enabled: includeShortPeriod,
	}
	// freeze the inclination functions from the auxiliary geometry; the
	// half-angle components give cos(i) without recovering the angle
	cosio := aux.GammaRatio()
	c.term.freeze(math.Sqrt(1.0-cosio*cosio), cosio)
	return []ShortPeriodTerms{c.term}, nil
}

func (c *J2Contribution) UpdateShortPeriodTerms(params []float64, meanOrbit *Orbit) error {
	if c.term == nil {
		return fmt.Errorf("J2 contribution not initialized")
	}
	if meanOrbit == nil {
		return fmt.Errorf("mean orbit must not be nil")
	}
	_, _, i, _, _, _ := meanOrbit.KeplerianElements()
	sinio, cosio := math.Sincos(i)
	c.term.freeze(sinio, cosio)
	return nil
}

// j2ShortPeriodTerms evaluates the first-order J2 short-period correction.
// The inclination functions (x3thm1, x1mth2, x7thm1) are frozen from the
// auxiliary geometry, then refrozen at each mean-state update, as in the SGP4
// final position computation; the periodic arguments come from the candidate
// orbit.
type j2ShortPeriodTerms struct {
	j2, re  float64
	enabled bool

	sinio, cosio           float64
	x3thm1, x1mth2, x7thm1 float64
}

func (t *j2ShortPeriodTerms) freeze(sinio, cosio float64) {
	theta2 := cosio * cosio
	t.sinio = sinio
	t.cosio = cosio
	t.x3thm1 = 3.0*theta2 - 1.0
	t.x1mth2 = 1.0 - theta2
	t.x7thm1 = 7.0*theta2 - 1.0
}

func (t *j2ShortPeriodTerms) Name() string { return "J2" }

func (t *j2ShortPeriodTerms) Value(candidate *Orbit) ([6]float64, error) {
	var out [6]float64
	if !t.enabled {
		return out, nil
	}

	a, e, i, raan, aop, nu := candidate.KeplerianElements()
	p := a * (1.0 - e*e)
	if p <= 0.0 {
		return out, &RecoveryError{Theory: "J2 short-period", Reason: ReasonEccentricityTooHigh, Value: e}
	}
	mu := candidate.Mu()
	n := candidate.MeanMotion()
	snu, cnu := math.Sincos(nu)
	r := p / (1.0 + e*cnu)
	u := aop + nu
	sin2u, cos2u := math.Sincos(2.0 * u)

	h := math.Sqrt(mu * p)
	rdot := h / p * e * snu
	rfdot := h / r

	k2 := 0.5 * t.j2 * t.re * t.re
	tmp2 := k2 / p
	tmp3 := tmp2 / p
	betal := math.Sqrt(1.0 - e*e)

	rk := r*(1.0-1.5*tmp3*betal*t.x3thm1) + 0.5*tmp2*t.x1mth2*cos2u
	uk := u - 0.25*tmp3*t.x7thm1*sin2u
	xnodek := raan + 1.5*tmp3*t.cosio*sin2u
	xinck := i + 1.5*tmp3*t.cosio*t.sinio*cos2u
	rdotk := rdot - n*tmp2*t.x1mth2*sin2u
	rfdotk := rfdot + n*tmp2*(t.x1mth2*cos2u+1.5*t.x3thm1)

	pos, vel := planeToInertial(rk, uk, xnodek, xinck, rdotk, rfdotk)
	osc, err := NewOrbitFromPV(pos, vel, candidate.Date(), candidate.Frame(), mu)
	if err != nil {
		return out, fmt.Errorf("J2 short-period correction: %w", err)
	}

	out[0] = osc.SemiMajorAxis() - candidate.SemiMajorAxis()
	out[1] = osc.EquinoctialEx() - candidate.EquinoctialEx()
	out[2] = osc.EquinoctialEy() - candidate.EquinoctialEy()
	out[3] = osc.Hx() - candidate.Hx()
	out[4] = osc.Hy() - candidate.Hy()
	out[5] = wrapAngle(osc.MeanLongitude() - candidate.MeanLongitude())
	return out, nil
}

// planeToInertial maps an orbital-plane state (radius, latitude argument,
// node, inclination, radial and transverse velocity) to Cartesian
// coordinates, using the same orientation vectors as the SGP4 final position
// computation.
func planeToInertial(r, u, raan, incl, rdot, rfdot float64) (Vector, Vector) {
	sinuk, cosuk := math.Sincos(u)
	sinik, cosik := math.Sincos(incl)
	sinnok, cosnok := math.Sincos(raan)

	xmx := -sinnok * cosik
	xmy := cosnok * cosik

	ux := xmx*sinuk + cosnok*cosuk
	uy := xmy*sinuk + sinnok*cosuk
	uz := sinik * sinuk

	vx := xmx*cosuk - cosnok*sinuk
	vy := xmy*cosuk - sinnok*sinuk
	vz := sinik * cosuk

	pos := Vector{r * ux, r * uy, r * uz}
	vel := Vector{
		rdot*ux + rfdot*vx,
		rdot*uy + rfdot*vy,
		rdot*uz + rfdot*vz,
	}
	return pos, vel
}

func wrapAngle(x float64) float64 {
	x = math.Mod(x, twoPi)
	if x > math.Pi {
		x -= twoPi
	} else if x < -math.Pi {
		x += twoPi
	}
	return x
}
