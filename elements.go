package meanosc

import "math"

// OrbitType identifies the element convention a mean state operates in.
type OrbitType int

const (
	OrbitTypeEquinoctial OrbitType = iota
	OrbitTypeCircular
	OrbitTypeKeplerian
)

func (t OrbitType) String() string {
	switch t {
	case OrbitTypeEquinoctial:
		return "equinoctial"
	case OrbitTypeCircular:
		return "circular"
	case OrbitTypeKeplerian:
		return "keplerian"
	}
	return "unknown"
}

// PositionAngle identifies the angle convention of the sixth element.
type PositionAngle int

const (
	PositionAngleMean PositionAngle = iota
	PositionAngleEccentric
	PositionAngleTrue
)

// MeanElements is the closed family of averaged element vectors. ToArray
// returns the six components in declared accessor order, one scalar per
// accessor, with no aliasing of internal state.
type MeanElements interface {
	ToArray() [6]float64
	OrbitType() OrbitType
}

// EquinoctialMeanElements holds averaged equinoctial elements with the mean
// longitude as the angle. Instances are immutable; transformations produce
// new values.
type EquinoctialMeanElements struct {
	a, ex, ey, hx, hy, lm float64
}

func NewEquinoctialMeanElements(a, ex, ey, hx, hy, lm float64) EquinoctialMeanElements {
	return EquinoctialMeanElements{a: a, ex: ex, ey: ey, hx: hx, hy: hy, lm: lm}
}

func (e EquinoctialMeanElements) SemiMajorAxis() float64 { return e.a }
func (e EquinoctialMeanElements) EquinoctialEx() float64 { return e.ex }
func (e EquinoctialMeanElements) EquinoctialEy() float64 { return e.ey }
func (e EquinoctialMeanElements) Hx() float64            { return e.hx }
func (e EquinoctialMeanElements) Hy() float64            { return e.hy }
func (e EquinoctialMeanElements) MeanLongitude() float64 { return e.lm }

func (e EquinoctialMeanElements) ToArray() [6]float64 {
	return [6]float64{e.a, e.ex, e.ey, e.hx, e.hy, e.lm}
}

func (e EquinoctialMeanElements) OrbitType() OrbitType { return OrbitTypeEquinoctial }

// KeplerianMeanElements holds averaged classical elements with the mean
// anomaly as the angle.
type KeplerianMeanElements struct {
	a, e, i, raan, aop, m float64
}

func NewKeplerianMeanElements(a, e, i, raan, aop, m float64) KeplerianMeanElements {
	return KeplerianMeanElements{a: a, e: e, i: i, raan: raan, aop: aop, m: m}
}

func (e KeplerianMeanElements) SemiMajorAxis() float64   { return e.a }
func (e KeplerianMeanElements) Eccentricity() float64    { return e.e }
func (e KeplerianMeanElements) Inclination() float64     { return e.i }
func (e KeplerianMeanElements) RightAscension() float64  { return e.raan }
func (e KeplerianMeanElements) PerigeeArgument() float64 { return e.aop }
func (e KeplerianMeanElements) MeanAnomaly() float64     { return e.m }

func (e KeplerianMeanElements) ToArray() [6]float64 {
	return [6]float64{e.a, e.e, e.i, e.raan, e.aop, e.m}
}

func (e KeplerianMeanElements) OrbitType() OrbitType { return OrbitTypeKeplerian }

// CircularMeanElements holds averaged circular elements (semi-major axis,
// circular eccentricity vector, inclination, node, mean latitude argument).
type CircularMeanElements struct {
	a, ex, ey, i, raan, alphaM float64
}

func NewCircularMeanElements(a, ex, ey, i, raan, alphaM float64) CircularMeanElements {
	return CircularMeanElements{a: a, ex: ex, ey: ey, i: i, raan: raan, alphaM: alphaM}
}

func (e CircularMeanElements) SemiMajorAxis() float64        { return e.a }
func (e CircularMeanElements) CircularEx() float64           { return e.ex }
func (e CircularMeanElements) CircularEy() float64           { return e.ey }
func (e CircularMeanElements) Inclination() float64          { return e.i }
func (e CircularMeanElements) RightAscension() float64       { return e.raan }
func (e CircularMeanElements) MeanLatitudeArgument() float64 { return e.alphaM }

func (e CircularMeanElements) ToArray() [6]float64 {
	return [6]float64{e.a, e.ex, e.ey, e.i, e.raan, e.alphaM}
}

func (e CircularMeanElements) OrbitType() OrbitType { return OrbitTypeCircular }

// ToEquinoctial converts circular elements to the equinoctial convention.
func (e CircularMeanElements) ToEquinoctial() EquinoctialMeanElements {
	sr, cr := math.Sincos(e.raan)
	tan2 := math.Tan(e.i / 2.0)
	return EquinoctialMeanElements{
		a:  e.a,
		ex: e.ex*cr - e.ey*sr,
		ey: e.ex*sr + e.ey*cr,
		hx: tan2 * cr,
		hy: tan2 * sr,
		lm: e.alphaM + e.raan,
	}
}
