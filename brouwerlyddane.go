package meanosc

import (
	"fmt"
	"math"
	"time"
)

// BrouwerLyddaneMeanState is an averaged state under the Brouwer-Lyddane
// theory: secular rates from the J2, J2^2 and J4 zonals, osculating recovery
// through the closed-form J3 long-period and J2 short-period corrections.
// Elements are kept in the circular convention so the theory stays regular
// for the near-circular orbits it targets.
type BrouwerLyddaneMeanState struct {
	epoch    time.Time
	frame    *Frame
	elements CircularMeanElements
	field    GravityField
}

func NewBrouwerLyddaneMeanState(elements CircularMeanElements, epoch time.Time, frame *Frame, field GravityField) (*BrouwerLyddaneMeanState, error) {
	if field == nil {
		return nil, fmt.Errorf("gravity field must not be nil")
	}
	if field.MaxDegree() < 2 {
		return nil, fmt.Errorf("Brouwer-Lyddane theory needs degree >= 2, field has %d", field.MaxDegree())
	}
	return &BrouwerLyddaneMeanState{epoch: epoch, frame: frame, elements: elements, field: field}, nil
}

func (s *BrouwerLyddaneMeanState) Epoch() time.Time { return s.epoch }
func (s *BrouwerLyddaneMeanState) Frame() *Frame    { return s.frame }

func (s *BrouwerLyddaneMeanState) MeanElements() MeanElements { return s.elements }

func (s *BrouwerLyddaneMeanState) OrbitType() OrbitType { return OrbitTypeCircular }

func (s *BrouwerLyddaneMeanState) PositionAngleType() PositionAngle { return PositionAngleMean }

func (s *BrouwerLyddaneMeanState) Mu() float64 { return s.field.Mu() }

// zonalJ returns -C(n,0) or zero when the field does not carry the degree.
func (s *BrouwerLyddaneMeanState) zonalJ(n int) float64 {
	if n > s.field.MaxDegree() {
		return 0.0
	}
	c, err := s.field.UnnormalizedCnm(n, 0)
	if err != nil {
		return 0.0
	}
	return -c
}

// SecularRates returns the time derivatives of the circular mean elements
// from the J2 (with its square) and J4 secular terms, in the ToArray order.
func (s *BrouwerLyddaneMeanState) SecularRates() [6]float64 {
	el := s.elements
	a := el.SemiMajorAxis()
	ecc := math.Hypot(el.CircularEx(), el.CircularEy())
	re := s.field.ReferenceRadius()

	k2 := 0.5 * s.zonalJ(2) * re * re
	k4 := -0.375 * s.zonalJ(4) * re * re * re * re
	n := math.Sqrt(s.Mu() / (a * a * a))

	cosio := math.Cos(el.Inclination())
	theta2 := cosio * cosio
	theta4 := theta2 * theta2
	betao2 := 1.0 - ecc*ecc
	betao := math.Sqrt(betao2)
	pinvsq := 1.0 / (a * a * betao2 * betao2)

	temp1 := 3.0 * k2 * pinvsq * n
	temp2 := temp1 * k2 * pinvsq
	temp3 := 1.25 * k4 * pinvsq * pinvsq * n

	xmdot := n + 0.5*temp1*betao*(3.0*theta2-1.0) +
		0.0625*temp2*betao*(13.0-78.0*theta2+137.0*theta4)
	omgdot := -0.5*temp1*(1.0-5.0*theta2) +
		0.0625*temp2*(7.0-114.0*theta2+395.0*theta4) +
		temp3*(3.0-36.0*theta2+49.0*theta4)
	xnodot := -temp1*cosio + (0.5*temp2*(4.0-19.0*theta2)+
		2.0*temp3*(3.0-7.0*theta2))*cosio

	// the eccentricity vector rotates with the perigee
	return [6]float64{
		0.0,
		-omgdot * el.CircularEy(),
		omgdot * el.CircularEx(),
		0.0,
		xnodot,
		xmdot + omgdot,
	}
}

// ShiftedBy propagates the mean state to a new epoch with the secular rates
// held constant, leaving the receiver untouched.
func (s *BrouwerLyddaneMeanState) ShiftedBy(dt time.Duration) *BrouwerLyddaneMeanState {
	t := dt.Seconds()
	rates := s.SecularRates()
	el := s.elements.ToArray()
	for i := range el {
		el[i] += rates[i] * t
	}
	shifted := NewCircularMeanElements(el[0], el[1], el[2], el[3], el[4], el[5])
	return &BrouwerLyddaneMeanState{
		epoch:    s.epoch.Add(dt),
		frame:    s.frame,
		elements: shifted,
		field:    s.field,
	}
}

// ToOsculatingOrbit recovers the osculating orbit from the mean circular
// elements through the closed-form periodic corrections.
func (s *BrouwerLyddaneMeanState) ToOsculatingOrbit() (*Orbit, error) {
	el := s.elements
	ecc := math.Hypot(el.CircularEx(), el.CircularEy())
	aop := math.Atan2(el.CircularEy(), el.CircularEx())
	m := el.MeanLatitudeArgument() - aop

	pos, vel, err := recoverOsculatingPV("Brouwer-Lyddane",
		s.Mu(), s.field.ReferenceRadius(), s.zonalJ(2), s.zonalJ(3),
		el.SemiMajorAxis(), ecc, el.Inclination(), el.RightAscension(), aop, m)
	if err != nil {
		return nil, err
	}
	return NewOrbitFromPV(pos, vel, s.epoch, s.frame, s.Mu())
}
