package meanosc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEquinoctialToArrayMatchesAccessors(t *testing.T) {
	e := NewEquinoctialMeanElements(7.2e6, 1e-3, -2e-3, 0.1, -0.2, 1.5)
	arr := e.ToArray()
	assert.Equal(t, e.SemiMajorAxis(), arr[0])
	assert.Equal(t, e.EquinoctialEx(), arr[1])
	assert.Equal(t, e.EquinoctialEy(), arr[2])
	assert.Equal(t, e.Hx(), arr[3])
	assert.Equal(t, e.Hy(), arr[4])
	assert.Equal(t, e.MeanLongitude(), arr[5])
	assert.Equal(t, OrbitTypeEquinoctial, e.OrbitType())
}

func TestKeplerianToArrayMatchesAccessors(t *testing.T) {
	e := NewKeplerianMeanElements(7.2e6, 0.01, 1.7, 0.5, 2.1, 3.0)
	arr := e.ToArray()
	assert.Equal(t, e.SemiMajorAxis(), arr[0])
	assert.Equal(t, e.Eccentricity(), arr[1])
	assert.Equal(t, e.Inclination(), arr[2])
	assert.Equal(t, e.RightAscension(), arr[3])
	assert.Equal(t, e.PerigeeArgument(), arr[4])
	assert.Equal(t, e.MeanAnomaly(), arr[5])
	assert.Equal(t, OrbitTypeKeplerian, e.OrbitType())
}

func TestCircularToArrayMatchesAccessors(t *testing.T) {
	e := NewCircularMeanElements(7.2e6, 1e-4, 2e-4, 1.7, 0.5, 2.1)
	arr := e.ToArray()
	assert.Equal(t, e.SemiMajorAxis(), arr[0])
	assert.Equal(t, e.CircularEx(), arr[1])
	assert.Equal(t, e.CircularEy(), arr[2])
	assert.Equal(t, e.Inclination(), arr[3])
	assert.Equal(t, e.RightAscension(), arr[4])
	assert.Equal(t, e.MeanLatitudeArgument(), arr[5])
	assert.Equal(t, OrbitTypeCircular, e.OrbitType())
}

func TestCircularToEquinoctial(t *testing.T) {
	a, ex, ey := 7.2e6, 3e-4, -1e-4
	incl, raan, alphaM := 1.7, 0.8, 2.4
	c := NewCircularMeanElements(a, ex, ey, incl, raan, alphaM)
	q := c.ToEquinoctial()

	// eccentricity magnitude and inclination survive the convention change
	assert.InDelta(t, math.Hypot(ex, ey), math.Hypot(q.EquinoctialEx(), q.EquinoctialEy()), 1e-18)
	assert.InDelta(t, math.Tan(incl/2.0), math.Hypot(q.Hx(), q.Hy()), 1e-15)
	assert.InDelta(t, raan, math.Atan2(q.Hy(), q.Hx()), 1e-15)
	assert.InDelta(t, alphaM+raan, q.MeanLongitude(), 1e-15)
	require.Equal(t, a, q.SemiMajorAxis())
}

func TestOrbitTypeString(t *testing.T) {
	assert.Equal(t, "equinoctial", OrbitTypeEquinoctial.String())
	assert.Equal(t, "circular", OrbitTypeCircular.String())
	assert.Equal(t, "keplerian", OrbitTypeKeplerian.String())
}
