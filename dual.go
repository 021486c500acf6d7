package meanosc

import "math"

// Dual is the derivative-carrying realization of Scalar: a value paired with
// an ordered vector of partial derivatives with respect to a fixed set of
// free variables, propagated through every operation by the chain rule.
//
// The value part of every operation is computed with exactly the same
// floating-point expression the Real realization uses, so evaluating a dual
// computation with all-zero derivative seeds reproduces the plain-real result
// bit for bit.
type Dual struct {
	v float64
	d []float64
}

// NewDual builds a dual constant with nvars zero partial derivatives.
func NewDual(value float64, nvars int) Dual {
	return Dual{v: value, d: make([]float64, nvars)}
}

// NewDualVariable builds a dual seeded as the index-th free variable of nvars:
// its partial derivative with respect to itself is one.
func NewDualVariable(value float64, nvars, index int) Dual {
	d := make([]float64, nvars)
	d[index] = 1.0
	return Dual{v: value, d: d}
}

// Gradient returns a copy of the partial derivative vector.
func (a Dual) Gradient() []float64 {
	out := make([]float64, len(a.d))
	copy(out, a.d)
	return out
}

// Partial returns the partial derivative with respect to the i-th variable.
func (a Dual) Partial(i int) float64 { return a.d[i] }

func (a Dual) lift1(v float64, scale float64) Dual {
	d := make([]float64, len(a.d))
	for i, ai := range a.d {
		d[i] = scale * ai
	}
	return Dual{v: v, d: d}
}

func (a Dual) lift2(b Dual, v, sa, sb float64) Dual {
	d := make([]float64, len(a.d))
	for i, ai := range a.d {
		d[i] = sa*ai + sb*b.d[i]
	}
	return Dual{v: v, d: d}
}

func (a Dual) Add(b Dual) Dual { return a.lift2(b, a.v+b.v, 1, 1) }
func (a Dual) Sub(b Dual) Dual { return a.lift2(b, a.v-b.v, 1, -1) }
func (a Dual) Mul(b Dual) Dual { return a.lift2(b, a.v*b.v, b.v, a.v) }

func (a Dual) Div(b Dual) Dual {
	q := a.v / b.v
	return a.lift2(b, q, 1.0/b.v, -q/b.v)
}

func (a Dual) Neg() Dual               { return a.lift1(-a.v, -1) }
func (a Dual) MulFloat(f float64) Dual { return a.lift1(a.v*f, f) }
func (a Dual) AddFloat(f float64) Dual { return a.lift1(a.v+f, 1) }

func (a Dual) Pow(p float64) Dual {
	v := math.Pow(a.v, p)
	return a.lift1(v, p*math.Pow(a.v, p-1))
}

func (a Dual) Sqrt() Dual {
	v := math.Sqrt(a.v)
	return a.lift1(v, 0.5/v)
}

func (a Dual) Sin() Dual {
	return a.lift1(math.Sin(a.v), math.Cos(a.v))
}

func (a Dual) Cos() Dual {
	return a.lift1(math.Cos(a.v), -math.Sin(a.v))
}

func (a Dual) SinCos() (Dual, Dual) {
	s, c := math.Sincos(a.v)
	return a.lift1(s, c), a.lift1(c, -s)
}

func (a Dual) Tan() Dual {
	t := math.Tan(a.v)
	c := math.Cos(a.v)
	return a.lift1(t, 1.0/(c*c))
}

func (a Dual) Asin() Dual {
	return a.lift1(math.Asin(a.v), 1.0/math.Sqrt(1.0-a.v*a.v))
}

func (a Dual) Acos() Dual {
	return a.lift1(math.Acos(a.v), -1.0/math.Sqrt(1.0-a.v*a.v))
}

// Atan2 treats the receiver as y.
func (a Dual) Atan2(x Dual) Dual {
	v := math.Atan2(a.v, x.v)
	r2 := a.v*a.v + x.v*x.v
	return a.lift2(x, v, x.v/r2, -a.v/r2)
}

func (a Dual) Abs() Dual {
	if math.Signbit(a.v) {
		return a.lift1(math.Abs(a.v), -1)
	}
	return a.lift1(math.Abs(a.v), 1)
}

func (a Dual) Const(c float64) Dual {
	return Dual{v: c, d: make([]float64, len(a.d))}
}

func (a Dual) Value() float64 { return a.v }

func (a Dual) IsFinite() bool {
	if math.IsNaN(a.v) || math.IsInf(a.v, 0) {
		return false
	}
	for _, di := range a.d {
		if math.IsNaN(di) || math.IsInf(di, 0) {
			return false
		}
	}
	return true
}
