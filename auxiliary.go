package meanosc

import (
	"fmt"
	"math"
	"time"
)

// AuxiliaryElements bundles the per-evaluation geometry every force
// contribution consumes: equinoctial elements, derived scalars and the local
// orthonormal triad. Instances are ephemeral; they are rebuilt for every
// averaging or short-period evaluation because the underlying orbit changes.
type AuxiliaryElements struct {
	Date  time.Time
	Frame *Frame
	Mu    float64

	// Retrograde is the direct/retrograde factor I: +1 or -1.
	Retrograde int

	Sma float64 // semi-major axis
	Ecc float64 // eccentricity
	Ex  float64 // e cos(pomega), equinoctial convention
	Ey  float64 // e sin(pomega)
	Hx  float64 // tan(i/2) cos(raan)
	Hy  float64 // tan(i/2) sin(raan)
	LM  float64 // mean longitude

	N float64 // Keplerian mean motion
	A float64 // sqrt(mu * a)
	B float64 // sqrt(1 - ex^2 - ey^2)
	C float64 // 1 + hx^2 + hy^2

	// (F, G, W): two in-plane unit vectors and the orbit normal, oriented
	// consistently with the node/inclination convention and the I factor.
	F, G, W Vector
}

// NewAuxiliaryElements derives the auxiliary geometry from an orbit and a
// retrograde factor. The equinoctial convention keeps every quantity finite
// near zero eccentricity and near zero inclination; the only unrepresentable
// geometry (exactly retrograde equatorial with I=+1) is rejected at orbit
// construction, so no fallback denominators are needed here.
func NewAuxiliaryElements(orbit *Orbit, retrogradeFactor int) (*AuxiliaryElements, error) {
	if retrogradeFactor != 1 && retrogradeFactor != -1 {
		return nil, fmt.Errorf("retrograde factor must be +1 or -1, got %d", retrogradeFactor)
	}

	aux := &AuxiliaryElements{
		Date:       orbit.Date(),
		Frame:      orbit.Frame(),
		Mu:         orbit.Mu(),
		Retrograde: retrogradeFactor,
		Sma:        orbit.SemiMajorAxis(),
		Ex:         orbit.EquinoctialEx(),
		Ey:         orbit.EquinoctialEy(),
		Hx:         orbit.Hx(),
		Hy:         orbit.Hy(),
		LM:         orbit.MeanLongitude(),
	}
	aux.Ecc = math.Hypot(aux.Ex, aux.Ey)
	aux.N = orbit.MeanMotion()
	aux.A = math.Sqrt(aux.Mu * aux.Sma)
	b2 := 1.0 - aux.Ex*aux.Ex - aux.Ey*aux.Ey
	if b2 <= 0.0 {
		return nil, &RecoveryError{Theory: "auxiliary", Reason: ReasonEccentricityTooHigh, Value: aux.Ecc}
	}
	aux.B = math.Sqrt(b2)
	aux.C = 1.0 + aux.Hx*aux.Hx + aux.Hy*aux.Hy

	i := float64(retrogradeFactor)
	c := aux.C
	hx, hy := aux.Hx, aux.Hy
	aux.F = Vector{(1.0 + hx*hx - hy*hy) / c, 2.0 * hx * hy / c, -2.0 * i * hy / c}
	aux.G = Vector{2.0 * i * hx * hy / c, (1.0 - hx*hx + hy*hy) * i / c, 2.0 * hx / c}
	aux.W = Vector{2.0 * hy / c, -2.0 * hx / c, (1.0 - hx*hx - hy*hy) * i / c}

	return aux, nil
}

// GammaRatio returns the geometry ratio cos(i) used as the gamma parameter of
// the coefficient recurrences: (1 - hx^2 - hy^2) / C.
func (aux *AuxiliaryElements) GammaRatio() float64 {
	return (1.0 - aux.Hx*aux.Hx - aux.Hy*aux.Hy) / aux.C
}
