package meanosc

import (
	"fmt"
	"math"
	"time"
)

// Frame identifies a reference frame. The engine treats frame equality as
// reference identity: two frames are the same frame only when they are the
// same *Frame pointer, never by name or numeric comparison.
type Frame struct {
	Name string
}

// Predefined frames. Callers may define their own; identity is what matters.
var (
	FrameTEME = &Frame{Name: "TEME"}
	FrameGCRF = &Frame{Name: "GCRF"}
)

func (f *Frame) String() string { return f.Name }

// Vector holds Cartesian components in the orbit's frame.
type Vector struct {
	X, Y, Z float64
}

func (v Vector) Dot(o Vector) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vector) Cross(o Vector) Vector {
	return Vector{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector) Norm() float64 { return math.Sqrt(v.Dot(v)) }

func (v Vector) Scale(s float64) Vector { return Vector{v.X * s, v.Y * s, v.Z * s} }

func (v Vector) Add(o Vector) Vector { return Vector{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Orbit is an instantaneous (osculating) two-body orbit at one epoch, held
// internally in the direct equinoctial convention with the true longitude as
// the angle.
type Orbit struct {
	date  time.Time
	frame *Frame
	mu    float64

	a, ex, ey, hx, hy float64
	lv                float64
}

// NewEquinoctialOrbit builds an orbit from direct equinoctial elements; the
// supplied longitude l is interpreted per the given position angle convention.
func NewEquinoctialOrbit(a, ex, ey, hx, hy, l float64, angle PositionAngle, date time.Time, frame *Frame, mu float64) (*Orbit, error) {
	e2 := ex*ex + ey*ey
	if e2 >= 1.0 {
		return nil, &RecoveryError{Theory: "equinoctial", Reason: ReasonEccentricityTooHigh, Value: math.Sqrt(e2)}
	}
	if a <= 0.0 {
		return nil, &RecoveryError{Theory: "equinoctial", Reason: ReasonNonElliptic, Value: a}
	}
	o := &Orbit{date: date, frame: frame, mu: mu, a: a, ex: ex, ey: ey, hx: hx, hy: hy}
	switch angle {
	case PositionAngleTrue:
		o.lv = l
	case PositionAngleEccentric:
		o.lv = o.trueFromEccentric(l)
	default:
		o.lv = o.trueFromEccentric(o.eccentricFromMean(l))
	}
	return o, nil
}

// NewKeplerianOrbit builds an orbit from classical Keplerian elements with
// the anomaly interpreted per the given position angle convention.
func NewKeplerianOrbit(a, e, i, raan, aop, anomaly float64, angle PositionAngle, date time.Time, frame *Frame, mu float64) (*Orbit, error) {
	sr, cr := math.Sincos(raan)
	tan2 := math.Tan(i / 2.0)
	pomega := raan + aop
	ex := e * math.Cos(pomega)
	ey := e * math.Sin(pomega)
	return NewEquinoctialOrbit(a, ex, ey, tan2*cr, tan2*sr, pomega+anomaly, angle, date, frame, mu)
}

// NewOrbitFromPV builds the osculating orbit tangent to the given Cartesian
// state. Degenerate geometries (non-elliptic energy, exactly retrograde
// equatorial plane) fail with a RecoveryError instead of producing
// non-finite elements.
func NewOrbitFromPV(pos, vel Vector, date time.Time, frame *Frame, mu float64) (*Orbit, error) {
	r := pos.Norm()
	v2 := vel.Dot(vel)
	ainv := 2.0/r - v2/mu
	if ainv <= 0.0 {
		return nil, &RecoveryError{Theory: "equinoctial", Reason: ReasonNonElliptic, Value: ainv}
	}
	a := 1.0 / ainv

	hVec := pos.Cross(vel)
	hNorm := hVec.Norm()
	wu := hVec.Scale(1.0 / hNorm)
	d := 1.0 + wu.Z
	if math.Abs(d) < 1e-12 {
		// tan(i/2) blows up for an exactly retrograde equatorial orbit; the
		// direct equinoctial set cannot represent it.
		return nil, &RecoveryError{Theory: "equinoctial", Reason: ReasonDegenerateInclination, Value: math.Pi}
	}
	hx := -wu.Y / d
	hy := wu.X / d

	eVec := vel.Cross(hVec).Scale(1.0 / mu).Add(pos.Scale(-1.0 / r))
	f, g, _ := equinoctialTriad(hx, hy)
	ex := eVec.Dot(f)
	ey := eVec.Dot(g)
	if ex*ex+ey*ey >= 1.0 {
		return nil, &RecoveryError{Theory: "equinoctial", Reason: ReasonEccentricityTooHigh, Value: math.Hypot(ex, ey)}
	}

	lv := math.Atan2(pos.Dot(g), pos.Dot(f))
	return &Orbit{date: date, frame: frame, mu: mu, a: a, ex: ex, ey: ey, hx: hx, hy: hy, lv: lv}, nil
}

// equinoctialTriad returns the (f, g, w) orthonormal triad of the direct
// equinoctial frame defined by hx, hy.
func equinoctialTriad(hx, hy float64) (f, g, w Vector) {
	c := 1.0 + hx*hx + hy*hy
	f = Vector{(1.0 + hx*hx - hy*hy) / c, 2.0 * hx * hy / c, -2.0 * hy / c}
	g = Vector{2.0 * hx * hy / c, (1.0 - hx*hx + hy*hy) / c, 2.0 * hx / c}
	w = Vector{2.0 * hy / c, -2.0 * hx / c, (1.0 - hx*hx - hy*hy) / c}
	return f, g, w
}

func (o *Orbit) Date() time.Time { return o.date }
func (o *Orbit) Frame() *Frame   { return o.frame }
func (o *Orbit) Mu() float64     { return o.mu }

func (o *Orbit) SemiMajorAxis() float64 { return o.a }
func (o *Orbit) EquinoctialEx() float64 { return o.ex }
func (o *Orbit) EquinoctialEy() float64 { return o.ey }
func (o *Orbit) Hx() float64            { return o.hx }
func (o *Orbit) Hy() float64            { return o.hy }
func (o *Orbit) TrueLongitude() float64 { return o.lv }

func (o *Orbit) Eccentricity() float64 {
	return math.Hypot(o.ex, o.ey)
}

func (o *Orbit) Inclination() float64 {
	return 2.0 * math.Atan(math.Hypot(o.hx, o.hy))
}

// KeplerianElements returns the classical element set (a, e, i, raan, aop,
// true anomaly) equivalent to this orbit.
func (o *Orbit) KeplerianElements() (a, e, i, raan, aop, nu float64) {
	a = o.a
	e = o.Eccentricity()
	i = o.Inclination()
	raan = math.Atan2(o.hy, o.hx)
	pomega := math.Atan2(o.ey, o.ex)
	aop = pomega - raan
	nu = o.lv - pomega
	return a, e, i, raan, aop, nu
}

// eccentricFromMean solves the equinoctial Kepler equation
// lm = F - ex sin F + ey cos F for the eccentric longitude F by Newton
// iteration.
func (o *Orbit) eccentricFromMean(lm float64) float64 {
	f := lm
	for i := 0; i < 20; i++ {
		sf, cf := math.Sincos(f)
		fk := f - o.ex*sf + o.ey*cf - lm
		fdot := 1.0 - o.ex*cf - o.ey*sf
		df := fk / fdot
		f -= df
		if math.Abs(df) < 1e-14 {
			break
		}
	}
	return f
}

func (o *Orbit) trueFromEccentric(le float64) float64 {
	eps := math.Sqrt(1.0 - o.ex*o.ex - o.ey*o.ey)
	sle, cle := math.Sincos(le)
	num := o.ex*sle - o.ey*cle
	den := eps + 1.0 - o.ex*cle - o.ey*sle
	return le + 2.0*math.Atan(num/den)
}

func (o *Orbit) eccentricFromTrue(lv float64) float64 {
	eps := math.Sqrt(1.0 - o.ex*o.ex - o.ey*o.ey)
	slv, clv := math.Sincos(lv)
	num := o.ey*clv - o.ex*slv
	den := eps + 1.0 + o.ex*clv + o.ey*slv
	return lv + 2.0*math.Atan(num/den)
}

// EccentricLongitude returns the eccentric longitude of the orbit.
func (o *Orbit) EccentricLongitude() float64 {
	return o.eccentricFromTrue(o.lv)
}

// MeanLongitude returns the mean longitude of the orbit.
func (o *Orbit) MeanLongitude() float64 {
	le := o.eccentricFromTrue(o.lv)
	sle, cle := math.Sincos(le)
	return le - o.ex*sle + o.ey*cle
}

// MeanMotion returns the Keplerian mean motion.
func (o *Orbit) MeanMotion() float64 {
	return math.Sqrt(o.mu / (o.a * o.a * o.a))
}

// PositionVelocity returns the Cartesian state of the orbit in its frame.
func (o *Orbit) PositionVelocity() (Vector, Vector) {
	f, g, _ := equinoctialTriad(o.hx, o.hy)
	slv, clv := math.Sincos(o.lv)
	p := o.a * (1.0 - o.ex*o.ex - o.ey*o.ey)
	wq := 1.0 + o.ex*clv + o.ey*slv
	r := p / wq

	ur := f.Scale(clv).Add(g.Scale(slv))
	ut := f.Scale(-slv).Add(g.Scale(clv))

	sqmp := math.Sqrt(o.mu / p)
	vr := sqmp * (o.ex*slv - o.ey*clv)
	vt := sqmp * wq

	return ur.Scale(r), ur.Scale(vr).Add(ut.Scale(vt))
}

func (o *Orbit) String() string {
	return fmt.Sprintf("equinoctial orbit a=%.3f ex=%.3e ey=%.3e hx=%.3e hy=%.3e lv=%.6f",
		o.a, o.ex, o.ey, o.hx, o.hy, o.lv)
}

// MeanElements projects the orbit onto an equinoctial mean element vector
// (used by re-averaging round trips).
func (o *Orbit) MeanElements() EquinoctialMeanElements {
	return NewEquinoctialMeanElements(o.a, o.ex, o.ey, o.hx, o.hy, o.MeanLongitude())
}
