package meanosc

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const spotTLE = `1 22823U 93061A   03339.49496229  .00000140  00000-0  88028-4 0  4225
2 22823  98.4132 359.2998 0017888 100.4310 259.8872 14.18403464527664`

func parseSpotTLE(t *testing.T) *TLE {
	t.Helper()
	tle, err := ParseTLE(spotTLE)
	require.NoError(t, err)
	return tle
}

func TestSGP4ExtractionIdentity(t *testing.T) {
	tle := parseSpotTLE(t)
	state, err := SGP4MeanStateOf(tle, FrameTEME)
	require.NoError(t, err)

	el, ok := state.MeanElements().(KeplerianMeanElements)
	require.True(t, ok)

	// the parser delivers the published fields exactly
	assert.Equal(t, 0.0017888, tle.Eccentricity)
	assert.Equal(t, 98.4132, tle.Inclination)
	assert.Equal(t, 359.2998, tle.RightAscension)
	assert.Equal(t, 100.4310, tle.ArgOfPerigee)
	assert.Equal(t, 259.8872, tle.MeanAnomaly)

	// and they pass through exactly: no transformation on the eccentricity, a
	// single degree-to-radian product on each angle. The expectations are built
	// from the parsed fields so both sides round identically at runtime.
	assert.Equal(t, tle.Eccentricity, el.Eccentricity())
	assert.Equal(t, tle.Inclination*deg2rad, el.Inclination())
	assert.Equal(t, tle.RightAscension*deg2rad, el.RightAscension())
	assert.Equal(t, tle.ArgOfPerigee*deg2rad, el.PerigeeArgument())
	assert.Equal(t, tle.MeanAnomaly*deg2rad, el.MeanAnomaly())

	assert.Equal(t, OrbitTypeKeplerian, state.OrbitType())
	assert.Equal(t, PositionAngleMean, state.PositionAngleType())
	assert.Equal(t, tle.Bstar, state.Bstar())
}

func TestSGP4KozaiSemiMajorAxis(t *testing.T) {
	state, err := SGP4MeanStateOf(parseSpotTLE(t), FrameTEME)
	require.NoError(t, err)

	// 14.184 rev/day is a ~101.5 minute sun-synchronous orbit near 830 km
	a := state.MeanElements().ToArray()[0]
	assert.InDelta(t, 7.2e6, a, 0.05e6)

	// the recovered Kozai mean motion stays close to the published one
	nTLE := 14.18403464 * twoPi / 86400.0
	assert.InEpsilon(t, nTLE, state.KozaiMeanMotion(), 2e-3)
}

func TestSGP4EpochAndFrameFidelity(t *testing.T) {
	frame := &Frame{Name: "custom-TEME"}
	state, err := SGP4MeanStateOf(parseSpotTLE(t), frame)
	require.NoError(t, err)

	wantEpoch := time.Date(2003, 12, 5, 11, 52, 44, 741856000, time.UTC)
	assert.WithinDuration(t, wantEpoch, state.Epoch(), time.Microsecond)

	osc, err := state.ToOsculatingOrbit()
	require.NoError(t, err)
	assert.Equal(t, state.Epoch(), osc.Date())
	assert.Same(t, frame, osc.Frame())
}

func TestSGP4OsculatingRecovery(t *testing.T) {
	state, err := SGP4MeanStateOf(parseSpotTLE(t), FrameTEME)
	require.NoError(t, err)
	osc, err := state.ToOsculatingOrbit()
	require.NoError(t, err)

	el := state.MeanElements().ToArray()
	// short-period terms shift the elements by J2-sized amounts only
	assert.InDelta(t, el[0], osc.SemiMajorAxis(), 1e4)
	assert.InDelta(t, el[1], osc.Eccentricity(), 1e-3)
	assert.InDelta(t, el[2], osc.Inclination(), 1e-2)

	pos, _ := osc.PositionVelocity()
	assert.InDelta(t, el[0], pos.Norm(), 0.05e6)
}

func TestHarmonicsMuPassthrough(t *testing.T) {
	field := NewZonalField(1.0, 1.0, -1e-3)
	elements := NewEquinoctialMeanElements(2.0, 1e-3, 0, 0.1, 0.05, 0.7)
	state, err := NewHarmonicsMeanState(elements, testEpoch, FrameGCRF, field)
	require.NoError(t, err)

	// the field's own value, never recomputed
	assert.Equal(t, 1.0, state.Mu())
}

func TestHarmonicsOsculatingRecovery(t *testing.T) {
	field := NewEarthZonalField()
	elements := NewEquinoctialMeanElements(7.2e6, 1e-3, -2e-3, 0.1, 0.05, 1.3)
	state, err := NewHarmonicsMeanState(elements, testEpoch, FrameGCRF, field)
	require.NoError(t, err)

	osc, err := state.ToOsculatingOrbit()
	require.NoError(t, err)
	assert.Equal(t, state.Epoch(), osc.Date())
	assert.Same(t, FrameGCRF, osc.Frame())

	assert.InDelta(t, 7.2e6, osc.SemiMajorAxis(), 40e3)
	assert.InDelta(t, elements.Hx(), osc.Hx(), 1e-3)
	assert.InDelta(t, elements.Hy(), osc.Hy(), 1e-3)
	assert.InDelta(t, 0.0, wrapAngle(osc.MeanLongitude()-elements.MeanLongitude()), 1e-2)
}

func TestHarmonicsRejectsInvalidField(t *testing.T) {
	elements := NewEquinoctialMeanElements(7.2e6, 0, 0, 0, 0, 0)
	_, err := NewHarmonicsMeanState(elements, testEpoch, FrameGCRF, nil)
	assert.Error(t, err)

	degreeOne := NewZonalField(muEarth, reEarth)
	_, err = NewHarmonicsMeanState(elements, testEpoch, FrameGCRF, degreeOne)
	assert.Error(t, err)
}

func TestBrouwerLyddaneSecularRates(t *testing.T) {
	field := NewEarthZonalField()
	// sun-synchronous geometry: retrograde inclination, near-circular
	elements := NewCircularMeanElements(7.2e6, 1e-3, 5e-4, 98.4*deg2rad, 0.7, 2.1)
	state, err := NewBrouwerLyddaneMeanState(elements, testEpoch, FrameGCRF, field)
	require.NoError(t, err)

	rates := state.SecularRates()
	assert.Zero(t, rates[0])
	assert.Zero(t, rates[3])

	// cos(i) < 0 makes the node precess eastward, about one revolution per year
	assert.Positive(t, rates[4])
	assert.InDelta(t, twoPi/(365.25*86400.0), rates[4], 3e-8)

	// the latitude argument advances at roughly the mean motion
	n := math.Sqrt(field.Mu() / math.Pow(7.2e6, 3))
	assert.InEpsilon(t, n, rates[5], 5e-3)
}

func TestBrouwerLyddaneShiftedBy(t *testing.T) {
	field := NewEarthZonalField()
	elements := NewCircularMeanElements(7.2e6, 1e-3, 5e-4, 98.4*deg2rad, 0.7, 2.1)
	state, err := NewBrouwerLyddaneMeanState(elements, testEpoch, FrameGCRF, field)
	require.NoError(t, err)

	dt := 2 * time.Hour
	shifted := state.ShiftedBy(dt)
	assert.True(t, shifted.Epoch().Equal(testEpoch.Add(dt)))
	assert.Same(t, state.Frame(), shifted.Frame())

	rates := state.SecularRates()
	got := shifted.MeanElements().ToArray()
	want := elements.ToArray()
	for i := range want {
		want[i] += rates[i] * dt.Seconds()
	}
	assert.Equal(t, want, got)

	// the original state is untouched
	assert.Equal(t, elements, state.MeanElements())
}

func TestBrouwerLyddaneOsculatingRecovery(t *testing.T) {
	field := NewEarthZonalField()
	elements := NewCircularMeanElements(7.2e6, 1e-3, 5e-4, 98.4*deg2rad, 0.7, 2.1)
	state, err := NewBrouwerLyddaneMeanState(elements, testEpoch, FrameGCRF, field)
	require.NoError(t, err)

	osc, err := state.ToOsculatingOrbit()
	require.NoError(t, err)
	assert.Equal(t, testEpoch, osc.Date())
	assert.Same(t, FrameGCRF, osc.Frame())
	assert.Equal(t, field.Mu(), osc.Mu())

	assert.InDelta(t, elements.SemiMajorAxis(), osc.SemiMajorAxis(), 1e4)
	assert.InDelta(t, math.Hypot(1e-3, 5e-4), osc.Eccentricity(), 1e-3)
	assert.InDelta(t, elements.Inclination(), osc.Inclination(), 1e-2)
}

func TestRecoveryFailureReasons(t *testing.T) {
	var re *RecoveryError

	_, _, err := recoverOsculatingPV("test", muEarth, reEarth, xj2, xj3,
		7.2e6, -0.1, 1.0, 0, 0, 0)
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ReasonNegativeEccentricity, re.Reason)
	assert.Equal(t, "test", re.Theory)

	_, _, err = recoverOsculatingPV("test", muEarth, reEarth, xj2, xj3,
		7.2e6, 0.9999999, 1.0, 0, 0, 0)
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ReasonEccentricityTooHigh, re.Reason)

	_, _, err = recoverOsculatingPV("test", muEarth, reEarth, xj2, xj3,
		7.2e6, 0.001, math.Pi, 0, 0, 0)
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ReasonDegenerateInclination, re.Reason)
}

func TestMeanOrbitalStateInterfaces(t *testing.T) {
	// all three theories satisfy the averaged-state capability
	var _ MeanOrbitalState = (*HarmonicsMeanState)(nil)
	var _ MeanOrbitalState = (*BrouwerLyddaneMeanState)(nil)
	var _ MeanOrbitalState = (*SGP4MeanState)(nil)
}
