package meanosc

import (
	"fmt"
	"math"
	"time"
)

// SGP4 gravity constants (WGS-72), in SI.
const (
	muSGP4 = 398600.8e9      // m^3/s^2
	reSGP4 = xkmper * 1000.0 // m
)

// SGP4MeanState is an averaged state in the SGP4 convention: the elements are
// the published TLE mean elements, carried unchanged, with the semi-major
// axis recovered from the Kozai mean motion. The osculating recovery applies
// the SGP4 periodic corrections at the epoch itself; propagation and drag are
// out of scope here.
type SGP4MeanState struct {
	epoch    time.Time
	frame    *Frame
	elements KeplerianMeanElements

	noKozai float64 // recovered mean motion, rad/s
	bstar   float64
}

// SGP4MeanStateOf builds the mean state from a parsed element set. The TLE
// fields pass through exactly: the eccentricity and B* are stored as parsed,
// each angle undergoes a single degree-to-radian multiplication.
func SGP4MeanStateOf(tle *TLE, frame *Frame) (*SGP4MeanState, error) {
	if tle == nil {
		return nil, fmt.Errorf("TLE must not be nil")
	}
	if frame == nil {
		frame = FrameTEME
	}
	if tle.MeanMotion <= 0.0 {
		return nil, fmt.Errorf("TLE mean motion must be positive, got %g rev/day", tle.MeanMotion)
	}

	nTLE := tle.MeanMotion * twoPi / minutesPerDay // rad/min
	incl := tle.Inclination * deg2rad

	// recover the Kozai mean motion and semi-major axis (in Earth radii)
	a1 := math.Pow(xke/nTLE, 2.0/3.0)
	cosio := math.Cos(incl)
	x3thm1 := 3.0*cosio*cosio - 1.0
	betao2 := 1.0 - tle.Eccentricity*tle.Eccentricity
	betao := math.Sqrt(betao2)

	tempInit := 1.5 * ck2 * x3thm1 / (betao * betao2)
	del1 := tempInit / (a1 * a1)
	a0 := a1 * (1.0 - del1*(1.0/3.0+del1*(1.0+del1*134.0/81.0)))
	del0 := tempInit / (a0 * a0)
	noKozai := nTLE / (1.0 + del0)
	aodp := a0 / (1.0 - del0)

	elements := NewKeplerianMeanElements(
		aodp*reSGP4,
		tle.Eccentricity,
		incl,
		tle.RightAscension*deg2rad,
		tle.ArgOfPerigee*deg2rad,
		tle.MeanAnomaly*deg2rad,
	)
	return &SGP4MeanState{
		epoch:    tle.EpochTime(),
		frame:    frame,
		elements: elements,
		noKozai:  noKozai / 60.0,
		bstar:    tle.Bstar,
	}, nil
}

// SGP4MeanStateOfOMM builds the mean state from an orbit mean-elements
// message.
func SGP4MeanStateOfOMM(omm *OMM, frame *Frame) (*SGP4MeanState, error) {
	tle, err := omm.ToTLE()
	if err != nil {
		return nil, err
	}
	return SGP4MeanStateOf(tle, frame)
}

func (s *SGP4MeanState) Epoch() time.Time { return s.epoch }
func (s *SGP4MeanState) Frame() *Frame    { return s.frame }

func (s *SGP4MeanState) MeanElements() MeanElements { return s.elements }

func (s *SGP4MeanState) OrbitType() OrbitType { return OrbitTypeKeplerian }

func (s *SGP4MeanState) PositionAngleType() PositionAngle { return PositionAngleMean }

// Mu returns the WGS-72 gravitational parameter the SGP4 constants assume.
func (s *SGP4MeanState) Mu() float64 { return muSGP4 }

// KozaiMeanMotion returns the recovered (unbraked) mean motion in rad/s.
func (s *SGP4MeanState) KozaiMeanMotion() float64 { return s.noKozai }

// Bstar returns the drag coefficient carried along from the element set.
func (s *SGP4MeanState) Bstar() float64 { return s.bstar }

// ToOsculatingOrbit recovers the epoch osculating orbit through the SGP4
// long- and short-period corrections.
func (s *SGP4MeanState) ToOsculatingOrbit() (*Orbit, error) {
	el := s.elements
	pos, vel, err := recoverOsculatingPV("SGP4",
		muSGP4, reSGP4, xj2, xj3,
		el.SemiMajorAxis(), el.Eccentricity(), el.Inclination(),
		el.RightAscension(), el.PerigeeArgument(), el.MeanAnomaly())
	if err != nil {
		return nil, err
	}
	return NewOrbitFromPV(pos, vel, s.epoch, s.frame, muSGP4)
}
