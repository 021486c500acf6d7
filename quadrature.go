package meanosc

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/integrate/quad"
)

// DefaultQuadratureNodes is the Gauss-Legendre node count used when a
// contribution does not configure one. 48 nodes converges for the
// non-conservative forces this engine averages; convergence for a new force
// should be checked against a doubled node count.
const DefaultQuadratureNodes = 48

// State is the instantaneous state a force model is evaluated at, generic
// over the scalar realization.
type State[T Scalar[T]] struct {
	Date     time.Time
	Frame    *Frame
	Mu       T
	Position Vec3[T]
	Velocity Vec3[T]
	Attitude Attitude[T]
}

// Attitude holds the body axes of the spacecraft in the state frame, and
// optionally the attitude rate. HasRate reports whether Rate was built; a
// force model whose value depends on the attitude rate must only be
// evaluated against rate-aware attitudes.
type Attitude[T Scalar[T]] struct {
	X, Y, Z Vec3[T]
	Rate    Vec3[T]
	HasRate bool
}

// AttitudeProvider builds the attitude for a quadrature evaluation. The two
// constructions are distinct on purpose: a rate-aware attitude can differ in
// value from a rate-unaware one for rate-dependent models, so picking the
// wrong one is a correctness bug, not a missed optimization.
type AttitudeProvider[T Scalar[T]] interface {
	Attitude(pos, vel Vec3[T], date time.Time) Attitude[T]
	AttitudeWithRate(pos, vel Vec3[T], date time.Time) Attitude[T]
}

// InertialAttitude is the trivial provider: body axes aligned with the
// frame, zero rate.
type InertialAttitude[T Scalar[T]] struct{}

func (InertialAttitude[T]) axes(pos Vec3[T]) Attitude[T] {
	one := pos.X.Const(1)
	zero := pos.X.Const(0)
	return Attitude[T]{
		X: Vec3[T]{one, zero, zero},
		Y: Vec3[T]{zero, one, zero},
		Z: Vec3[T]{zero, zero, one},
	}
}

func (p InertialAttitude[T]) Attitude(pos, vel Vec3[T], date time.Time) Attitude[T] {
	return p.axes(pos)
}

func (p InertialAttitude[T]) AttitudeWithRate(pos, vel Vec3[T], date time.Time) Attitude[T] {
	att := p.axes(pos)
	zero := pos.X.Const(0)
	att.Rate = Vec3[T]{zero, zero, zero}
	att.HasRate = true
	return att
}

// ForceModel is an instantaneous (non-conservative) acceleration model,
// written once against the scalar abstraction.
type ForceModel[T Scalar[T]] interface {
	// Acceleration returns the perturbing acceleration at the given state,
	// expressed in the state frame.
	Acceleration(s State[T], params []T) (Vec3[T], error)

	// DependsOnAttitudeRate reports whether the model's value depends on the
	// attitude rate.
	DependsOnAttitudeRate() bool
}

// GaussianAveraging averages an instantaneous force model over one orbital
// revolution of the true longitude with a fixed-order Gauss-Legendre rule,
// producing the secular rate of each averaged equinoctial element.
type GaussianAveraging[T Scalar[T]] struct {
	force      ForceModel[T]
	attitudes  AttitudeProvider[T]
	nodes      int
	retrograde int
}

// NewGaussianAveraging builds an averaging contribution in the direct
// convention (I = +1); SetRetrograde switches it. A zero node count selects
// DefaultQuadratureNodes.
func NewGaussianAveraging[T Scalar[T]](force ForceModel[T], attitudes AttitudeProvider[T], nodes int) (*GaussianAveraging[T], error) {
	if force == nil {
		return nil, fmt.Errorf("force model must not be nil")
	}
	if nodes == 0 {
		nodes = DefaultQuadratureNodes
	}
	if nodes < 2 {
		return nil, fmt.Errorf("quadrature node count must be >= 2, got %d", nodes)
	}
	if attitudes == nil {
		attitudes = InertialAttitude[T]{}
	}
	return &GaussianAveraging[T]{force: force, attitudes: attitudes, nodes: nodes, retrograde: 1}, nil
}

// SetRetrograde selects the direct/retrograde factor I used when mapping
// elements to node geometry, matching the convention of the auxiliary
// elements the caller averages against.
func (c *GaussianAveraging[T]) SetRetrograde(factor int) error {
	if factor != 1 && factor != -1 {
		return fmt.Errorf("retrograde factor must be +1 or -1, got %d", factor)
	}
	c.retrograde = factor
	return nil
}

// Retrograde returns the direct/retrograde factor in use.
func (c *GaussianAveraging[T]) Retrograde() int { return c.retrograde }

// LLimits returns the true longitude integration limits, one full revolution.
func (c *GaussianAveraging[T]) LLimits() (float64, float64) {
	return -math.Pi, math.Pi
}

// Nodes returns the configured quadrature node count.
func (c *GaussianAveraging[T]) Nodes() int { return c.nodes }

// MeanElementRates averages the force over one revolution. The supplied
// elements are equinoctial (a, ex, ey, hx, hy, lm); the returned vector holds
// the averaged rate of each element in the same order, excluding the central
// Keplerian mean motion term of the sixth element. The integrand at true
// longitude L is weighted by dM/dL = (r/a)^2 / B so the average is taken over
// the mean anomaly, then normalized by 2 pi.
func (c *GaussianAveraging[T]) MeanElementRates(date time.Time, frame *Frame, elements [6]T, mu T, params []T) ([6]T, error) {
	lo, hi := c.LLimits()
	x := make([]float64, c.nodes)
	wt := make([]float64, c.nodes)
	quad.Legendre{}.FixedLocations(x, wt, lo, hi)

	a, ex, ey, hx, hy := elements[0], elements[1], elements[2], elements[3], elements[4]
	zero := a.Const(0)
	rates := [6]T{zero, zero, zero, zero, zero, zero}
	rateAware := c.force.DependsOnAttitudeRate()

	for k := range x {
		lv := a.Const(x[k])
		geom := equinoctialGeometry(a, ex, ey, hx, hy, lv, mu, c.retrograde)

		var att Attitude[T]
		if rateAware {
			att = c.attitudes.AttitudeWithRate(geom.pos, geom.vel, date)
		} else {
			att = c.attitudes.Attitude(geom.pos, geom.vel, date)
		}
		s := State[T]{
			Date:     date,
			Frame:    frame,
			Mu:       mu,
			Position: geom.pos,
			Velocity: geom.vel,
			Attitude: att,
		}
		acc, err := c.force.Acceleration(s, params)
		if err != nil {
			return rates, fmt.Errorf("force evaluation at node %d (L=%.6f): %w", k, x[k], err)
		}

		nodeRates := equinoctialRates(geom, acc)
		// dM/dL measure times the quadrature weight, over 2 pi
		mf := geom.r.Mul(geom.r).Div(geom.a.Mul(geom.a).Mul(geom.b)).MulFloat(wt[k] / twoPi)
		for i := 0; i < 6; i++ {
			rates[i] = rates[i].Add(nodeRates[i].Mul(mf))
		}
	}
	return rates, nil
}

// nodeGeometry carries everything a quadrature node evaluation derives from
// the elements at one true longitude.
type nodeGeometry[T Scalar[T]] struct {
	a, ex, ey, hx, hy T
	mu                T
	iF                float64

	b, c     T // sqrt(1-ex^2-ey^2), 1+hx^2+hy^2
	f, g, w  Vec3[T]
	lv       T
	slv, clv T
	p, wq, r T
	pos, vel Vec3[T]
}

func equinoctialGeometry[T Scalar[T]](a, ex, ey, hx, hy, lv, mu T, retrograde int) nodeGeometry[T] {
	one := a.Const(1)
	iF := float64(retrograde)

	c := one.Add(hx.Mul(hx)).Add(hy.Mul(hy))
	inv := one.Div(c)
	f := Vec3[T]{
		one.Add(hx.Mul(hx)).Sub(hy.Mul(hy)),
		hx.Mul(hy).MulFloat(2),
		hy.MulFloat(-2 * iF),
	}.Scale(inv)
	g := Vec3[T]{
		hx.Mul(hy).MulFloat(2 * iF),
		one.Sub(hx.Mul(hx)).Add(hy.Mul(hy)).MulFloat(iF),
		hx.MulFloat(2),
	}.Scale(inv)
	w := Vec3[T]{
		hy.MulFloat(2),
		hx.MulFloat(-2),
		one.Sub(hx.Mul(hx)).Sub(hy.Mul(hy)).MulFloat(iF),
	}.Scale(inv)

	slv, clv := lv.SinCos()
	b := one.Sub(ex.Mul(ex)).Sub(ey.Mul(ey)).Sqrt()
	p := a.Mul(b).Mul(b)
	wq := one.Add(ex.Mul(clv)).Add(ey.Mul(slv))
	r := p.Div(wq)

	ur := f.Scale(clv).Add(g.Scale(slv))
	ut := f.Scale(slv.Neg()).Add(g.Scale(clv))
	sqmp := mu.Div(p).Sqrt()
	vr := sqmp.Mul(ex.Mul(slv).Sub(ey.Mul(clv)))
	vt := sqmp.Mul(wq)

	return nodeGeometry[T]{
		a: a, ex: ex, ey: ey, hx: hx, hy: hy, mu: mu, iF: iF,
		b: b, c: c, f: f, g: g, w: w,
		lv: lv, slv: slv, clv: clv, p: p, wq: wq, r: r,
		pos: ur.Scale(r),
		vel: ur.Scale(vr).Add(ut.Scale(vt)),
	}
}

// equinoctialRates evaluates the Gauss variational equations for the
// equinoctial element set under the acceleration acc, via the osculating
// condition (elements as functions of position and velocity, with the
// perturbation entering only through the velocity derivative).
func equinoctialRates[T Scalar[T]](geo nodeGeometry[T], acc Vec3[T]) [6]T {
	one := geo.a.Const(1)
	iF := geo.iF

	// semi-major axis, from the energy rate
	aDot := geo.a.Mul(geo.a).MulFloat(2).Mul(geo.vel.Dot(acc)).Div(geo.mu)

	// orbit normal and inclination vector
	hVec := geo.pos.Cross(geo.vel)
	hMag := hVec.Norm()
	hDotVec := geo.pos.Cross(acc)
	wDotVec := hDotVec.Sub(geo.w.Scale(hDotVec.Dot(geo.w))).Scale(one.Div(hMag))

	dz := one.Add(geo.w.Z.MulFloat(iF))
	dz2 := dz.Mul(dz)
	hxDot := wDotVec.Y.Neg().Mul(dz).Add(geo.w.Y.Mul(wDotVec.Z).MulFloat(iF)).Div(dz2)
	hyDot := wDotVec.X.Mul(dz).Sub(geo.w.X.Mul(wDotVec.Z).MulFloat(iF)).Div(dz2)

	// eccentricity vector, including the rotation of the (f, g) frame
	eVec := geo.vel.Cross(hVec).Scale(one.Div(geo.mu)).Sub(geo.pos.Scale(one.Div(geo.r)))
	eDotVec := acc.Cross(hVec).Add(geo.vel.Cross(hDotVec)).Scale(one.Div(geo.mu))

	inv := one.Div(geo.c)
	zero := geo.a.Const(0)
	twoHxInv := geo.hx.MulFloat(2).Mul(inv)
	twoHyInv := geo.hy.MulFloat(2).Mul(inv)
	dfdhx := Vec3[T]{geo.hx.MulFloat(2), geo.hy.MulFloat(2), zero}.Scale(inv).Sub(geo.f.Scale(twoHxInv))
	dfdhy := Vec3[T]{geo.hy.MulFloat(-2), geo.hx.MulFloat(2), geo.a.Const(-2 * iF)}.Scale(inv).Sub(geo.f.Scale(twoHyInv))
	dgdhx := Vec3[T]{geo.hy.MulFloat(2 * iF), geo.hx.MulFloat(-2 * iF), geo.a.Const(2)}.Scale(inv).Sub(geo.g.Scale(twoHxInv))
	dgdhy := Vec3[T]{geo.hx.MulFloat(2 * iF), geo.hy.MulFloat(2 * iF), zero}.Scale(inv).Sub(geo.g.Scale(twoHyInv))
	fDot := dfdhx.Scale(hxDot).Add(dfdhy.Scale(hyDot))
	gDot := dgdhx.Scale(hxDot).Add(dgdhy.Scale(hyDot))

	exDot := eDotVec.Dot(geo.f).Add(eVec.Dot(fDot))
	eyDot := eDotVec.Dot(geo.g).Add(eVec.Dot(gDot))

	// mean longitude: lm = F - ex sin F + ey cos F with F the eccentric
	// longitude; dF follows from holding the position fixed while the
	// elements and the (f, g) frame vary.
	num := geo.ey.Mul(geo.clv).Sub(geo.ex.Mul(geo.slv))
	den := geo.b.Add(one).Add(geo.ex.Mul(geo.clv)).Add(geo.ey.Mul(geo.slv))
	le := num.Atan2(den).MulFloat(2).Add(geo.lv)
	sle, cle := le.SinCos()

	beta := one.Div(one.Add(geo.b))
	dbex := geo.ex.Mul(beta).Mul(beta).Div(geo.b)
	dbey := geo.ey.Mul(beta).Mul(beta).Div(geo.b)

	exey := geo.ex.Mul(geo.ey)
	ex2 := geo.ex.Mul(geo.ex)
	ey2 := geo.ey.Mul(geo.ey)

	xOverA := one.Sub(ey2.Mul(beta)).Mul(cle).Add(exey.Mul(beta).Mul(sle)).Sub(geo.ex)
	yOverA := one.Sub(ex2.Mul(beta)).Mul(sle).Add(exey.Mul(beta).Mul(cle)).Sub(geo.ey)
	xF := geo.a.Mul(exey.Mul(beta).Mul(cle).Sub(one.Sub(ey2.Mul(beta)).Mul(sle)))
	yF := geo.a.Mul(one.Sub(ex2.Mul(beta)).Mul(cle).Sub(exey.Mul(beta).Mul(sle)))

	xEx := geo.a.Mul(
		ey2.Neg().Mul(cle).Mul(dbex).
			Add(geo.ey.Mul(beta).Mul(sle)).
			Add(exey.Mul(sle).Mul(dbex)).
			Sub(one))
	xEy := geo.a.Mul(
		geo.ey.Mul(beta).MulFloat(-2).Mul(cle).
			Sub(ey2.Mul(cle).Mul(dbey)).
			Add(geo.ex.Mul(beta).Mul(sle)).
			Add(exey.Mul(sle).Mul(dbey)))
	yEx := geo.a.Mul(
		geo.ex.Mul(beta).MulFloat(-2).Mul(sle).
			Sub(ex2.Mul(sle).Mul(dbex)).
			Add(geo.ey.Mul(beta).Mul(cle)).
			Add(exey.Mul(cle).Mul(dbex)))
	yEy := geo.a.Mul(
		ex2.Neg().Mul(sle).Mul(dbey).
			Add(geo.ex.Mul(beta).Mul(cle)).
			Add(exey.Mul(cle).Mul(dbey)).
			Sub(one))

	rx := geo.pos.Dot(fDot).Sub(xOverA.Mul(aDot)).Sub(xEx.Mul(exDot)).Sub(xEy.Mul(eyDot))
	ry := geo.pos.Dot(gDot).Sub(yOverA.Mul(aDot)).Sub(yEx.Mul(exDot)).Sub(yEy.Mul(eyDot))
	leDot := rx.Mul(xF).Add(ry.Mul(yF)).Div(xF.Mul(xF).Add(yF.Mul(yF)))

	rOverA := one.Sub(geo.ex.Mul(cle)).Sub(geo.ey.Mul(sle))
	lmDot := rOverA.Mul(leDot).Sub(exDot.Mul(sle)).Add(eyDot.Mul(cle))

	return [6]T{aDot, exDot, eyDot, hxDot, hyDot, lmDot}
}
