package meanosc

import (
	"fmt"
	"time"
)

// GravityField supplies the spherical-harmonics coefficients a
// harmonics-based theory consumes. The engine is agnostic to how the
// coefficients were parsed or cached.
type GravityField interface {
	Mu() float64
	ReferenceRadius() float64
	MaxDegree() int
	MaxOrder() int

	// UnnormalizedCnm and UnnormalizedSnm return the unnormalized
	// coefficients, failing for indices beyond the field's degree/order.
	UnnormalizedCnm(n, m int) (float64, error)
	UnnormalizedSnm(n, m int) (float64, error)
}

// ZonalField is an in-memory zonal-only gravity field (order 0).
type ZonalField struct {
	mu, re float64
	c      []float64 // c[n] = C(n,0), n = 0..len-1
}

// NewZonalField builds a zonal field from unnormalized C(n,0) coefficients
// starting at degree 2 (C00 is 1, C10 is 0 by convention).
func NewZonalField(mu, re float64, cn0 ...float64) *ZonalField {
	c := make([]float64, 2+len(cn0))
	c[0] = 1.0
	copy(c[2:], cn0)
	return &ZonalField{mu: mu, re: re, c: c}
}

// NewEarthZonalField returns the WGS-72 J2/J3/J4 zonal field used by the
// SGP4 constants.
func NewEarthZonalField() *ZonalField {
	return NewZonalField(muEarth, reEarth, -xj2, -xj3, -xj4)
}

func (f *ZonalField) Mu() float64              { return f.mu }
func (f *ZonalField) ReferenceRadius() float64 { return f.re }
func (f *ZonalField) MaxDegree() int           { return len(f.c) - 1 }
func (f *ZonalField) MaxOrder() int            { return 0 }

func (f *ZonalField) UnnormalizedCnm(n, m int) (float64, error) {
	if m != 0 || n < 0 || n >= len(f.c) {
		return 0, fmt.Errorf("zonal field has no C(%d,%d) coefficient (degree %d, order 0)", n, m, f.MaxDegree())
	}
	return f.c[n], nil
}

func (f *ZonalField) UnnormalizedSnm(n, m int) (float64, error) {
	if m != 0 || n < 0 || n >= len(f.c) {
		return 0, fmt.Errorf("zonal field has no S(%d,%d) coefficient (degree %d, order 0)", n, m, f.MaxDegree())
	}
	return 0.0, nil
}

// HarmonicsMeanState is an averaged state under the general harmonics-based
// theory: the short-period recovery is keyed off the gravity field's zonal
// coefficients through the force-contribution protocol.
type HarmonicsMeanState struct {
	epoch    time.Time
	frame    *Frame
	elements EquinoctialMeanElements
	field    GravityField
}

func NewHarmonicsMeanState(elements EquinoctialMeanElements, epoch time.Time, frame *Frame, field GravityField) (*HarmonicsMeanState, error) {
	if field == nil {
		return nil, fmt.Errorf("gravity field must not be nil")
	}
	if field.MaxDegree() < 2 {
		return nil, fmt.Errorf("harmonics theory needs degree >= 2, field has %d", field.MaxDegree())
	}
	return &HarmonicsMeanState{epoch: epoch, frame: frame, elements: elements, field: field}, nil
}

func (s *HarmonicsMeanState) Epoch() time.Time { return s.epoch }
func (s *HarmonicsMeanState) Frame() *Frame    { return s.frame }

func (s *HarmonicsMeanState) MeanElements() MeanElements { return s.elements }

func (s *HarmonicsMeanState) OrbitType() OrbitType { return OrbitTypeEquinoctial }

func (s *HarmonicsMeanState) PositionAngleType() PositionAngle { return PositionAngleMean }

// Mu returns the gravity field's own gravitational parameter, never a
// recomputed value.
func (s *HarmonicsMeanState) Mu() float64 { return s.field.Mu() }

// Field returns the spherical-harmonics provider backing the theory.
func (s *HarmonicsMeanState) Field() GravityField { return s.field }

// ToOsculatingOrbit recovers the osculating orbit by evaluating the zonal
// short-period terms at the mean state and adding them to the averaged
// elements.
func (s *HarmonicsMeanState) ToOsculatingOrbit() (*Orbit, error) {
	el := s.elements
	meanOrbit, err := NewEquinoctialOrbit(
		el.SemiMajorAxis(), el.EquinoctialEx(), el.EquinoctialEy(),
		el.Hx(), el.Hy(), el.MeanLongitude(),
		PositionAngleMean, s.epoch, s.frame, s.Mu())
	if err != nil {
		return nil, err
	}
	aux, err := NewAuxiliaryElements(meanOrbit, 1)
	if err != nil {
		return nil, err
	}

	c20, err := s.field.UnnormalizedCnm(2, 0)
	if err != nil {
		return nil, err
	}
	contribution := &J2Contribution{J2: -c20, Re: s.field.ReferenceRadius()}
	terms, err := contribution.Initialize(aux, true, nil)
	if err != nil {
		return nil, err
	}
	if err := contribution.UpdateShortPeriodTerms(nil, meanOrbit); err != nil {
		return nil, err
	}

	var delta [6]float64
	for _, term := range terms {
		d, err := term.Value(meanOrbit)
		if err != nil {
			return nil, err
		}
		for i := range delta {
			delta[i] += d[i]
		}
	}

	return NewEquinoctialOrbit(
		el.SemiMajorAxis()+delta[0],
		el.EquinoctialEx()+delta[1],
		el.EquinoctialEy()+delta[2],
		el.Hx()+delta[3],
		el.Hy()+delta[4],
		el.MeanLongitude()+delta[5],
		PositionAngleMean, s.epoch, s.frame, s.Mu())
}
