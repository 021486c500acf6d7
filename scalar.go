package meanosc

import "math"

// Scalar is the numeric abstraction all averaging and short-period algorithms
// are written against. It is instantiated for plain float64 values (Real) and
// for derivative-carrying values (Dual), so every force model is implemented
// exactly once and evaluated in either mode without branching.
//
// Division or transcendental calls producing non-finite results are not
// trapped here; the non-finite value propagates and callers validate it.
type Scalar[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Div(T) T
	Neg() T
	MulFloat(float64) T
	AddFloat(float64) T
	Pow(float64) T
	Sqrt() T
	Sin() T
	Cos() T
	SinCos() (sin, cos T)
	Tan() T
	Asin() T
	Acos() T
	Atan2(x T) T
	Abs() T

	// Const builds a constant with the same derivative shape as the receiver.
	Const(float64) T
	Value() float64
	IsFinite() bool
}

// Real is the plain float64 realization of Scalar.
type Real float64

func (r Real) Add(o Real) Real         { return r + o }
func (r Real) Sub(o Real) Real         { return r - o }
func (r Real) Mul(o Real) Real         { return r * o }
func (r Real) Div(o Real) Real         { return r / o }
func (r Real) Neg() Real               { return -r }
func (r Real) MulFloat(f float64) Real { return r * Real(f) }
func (r Real) AddFloat(f float64) Real { return r + Real(f) }
func (r Real) Pow(p float64) Real      { return Real(math.Pow(float64(r), p)) }
func (r Real) Sqrt() Real              { return Real(math.Sqrt(float64(r))) }
func (r Real) Sin() Real               { return Real(math.Sin(float64(r))) }
func (r Real) Cos() Real               { return Real(math.Cos(float64(r))) }
func (r Real) Tan() Real               { return Real(math.Tan(float64(r))) }
func (r Real) Asin() Real              { return Real(math.Asin(float64(r))) }
func (r Real) Acos() Real              { return Real(math.Acos(float64(r))) }
func (r Real) Atan2(x Real) Real       { return Real(math.Atan2(float64(r), float64(x))) }
func (r Real) Abs() Real               { return Real(math.Abs(float64(r))) }
func (r Real) Const(c float64) Real    { return Real(c) }
func (r Real) Value() float64          { return float64(r) }
func (r Real) IsFinite() bool          { return !math.IsNaN(float64(r)) && !math.IsInf(float64(r), 0) }

func (r Real) SinCos() (Real, Real) {
	s, c := math.Sincos(float64(r))
	return Real(s), Real(c)
}

// Vec3 is a three-component vector over the scalar abstraction.
type Vec3[T Scalar[T]] struct {
	X, Y, Z T
}

func (a Vec3[T]) Add(b Vec3[T]) Vec3[T] {
	return Vec3[T]{a.X.Add(b.X), a.Y.Add(b.Y), a.Z.Add(b.Z)}
}

func (a Vec3[T]) Sub(b Vec3[T]) Vec3[T] {
	return Vec3[T]{a.X.Sub(b.X), a.Y.Sub(b.Y), a.Z.Sub(b.Z)}
}

func (a Vec3[T]) Scale(s T) Vec3[T] {
	return Vec3[T]{a.X.Mul(s), a.Y.Mul(s), a.Z.Mul(s)}
}

func (a Vec3[T]) Dot(b Vec3[T]) T {
	return a.X.Mul(b.X).Add(a.Y.Mul(b.Y)).Add(a.Z.Mul(b.Z))
}

func (a Vec3[T]) Cross(b Vec3[T]) Vec3[T] {
	return Vec3[T]{
		X: a.Y.Mul(b.Z).Sub(a.Z.Mul(b.Y)),
		Y: a.Z.Mul(b.X).Sub(a.X.Mul(b.Z)),
		Z: a.X.Mul(b.Y).Sub(a.Y.Mul(b.X)),
	}
}

func (a Vec3[T]) Norm() T {
	return a.Dot(a).Sqrt()
}

func (a Vec3[T]) IsFinite() bool {
	return a.X.IsFinite() && a.Y.IsFinite() && a.Z.IsFinite()
}
