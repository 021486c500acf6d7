package meanosc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func factorial(n int) float64 {
	f := 1.0
	for k := 2; k <= n; k++ {
		f *= float64(k)
	}
	return f
}

func referenceRatio(m, n, s, retrograde int) float64 {
	sign := 1.0
	if retrograde < 0 && (m-s)%2 != 0 {
		sign = -1.0
	}
	return sign * factorial(n-m) * factorial(n+m) / (factorial(n-s) * factorial(n+s))
}

func TestGammaRatioMatchesFactorials(t *testing.T) {
	for _, retro := range []int{1, -1} {
		g, err := NewGammaMnsFunction(8, 0.3, retro)
		require.NoError(t, err)
		for n := 0; n <= 8; n++ {
			for m := 0; m <= n; m++ {
				for s := -n; s <= n; s++ {
					got, err := g.Ratio(m, n, s)
					require.NoError(t, err)
					want := referenceRatio(m, n, s, retro)
					assert.InDelta(t, want, got, 1e-15*math.Abs(want)+1e-300,
						"rho(%d,%d,%d) I=%d", m, n, s, retro)
				}
			}
		}
	}
}

func TestGammaCacheGrowthStability(t *testing.T) {
	g, err := NewGammaMnsFunction(6, 0.1, 1)
	require.NoError(t, err)

	type key struct{ m, n, s int }
	before := make(map[key]float64)
	for n := 0; n <= 6; n++ {
		for m := 0; m <= n; m++ {
			for s := -n; s <= n; s++ {
				v, err := g.Ratio(m, n, s)
				require.NoError(t, err)
				before[key{m, n, s}] = v
			}
		}
	}

	// grow through a higher-degree request, then re-read every old entry
	_, err = g.Ratio(3, 14, -2)
	require.NoError(t, err)
	for k, want := range before {
		got, err := g.Ratio(k.m, k.n, k.s)
		require.NoError(t, err)
		// full precision, not approximate: growth recomputes the same recurrence
		assert.Equal(t, want, got, "rho(%d,%d,%d) changed across growth", k.m, k.n, k.s)
	}
}

func TestGammaTableOffsetBijection(t *testing.T) {
	tab := buildGammaTable(7, 1)
	seen := make(map[int]bool, len(tab.ratios))
	for n := 0; n <= 7; n++ {
		for m := 0; m <= n; m++ {
			for s := -n; s <= n; s++ {
				off := tab.offset(m, n, s)
				require.GreaterOrEqual(t, off, 0)
				require.Less(t, off, len(tab.ratios))
				require.False(t, seen[off], "offset collision at (%d,%d,%d)", m, n, s)
				seen[off] = true
			}
		}
	}
	assert.Len(t, seen, len(tab.ratios))
}

func TestGammaInvalidIndex(t *testing.T) {
	g, err := NewGammaMnsFunction(5, 0.2, 1)
	require.NoError(t, err)

	for _, idx := range [][3]int{
		{-1, 3, 0}, // m < 0
		{4, 3, 0},  // m > n
		{1, 3, 4},  // s > n
		{1, 3, -4}, // s < -n
	} {
		_, err := g.Value(idx[0], idx[1], idx[2])
		var ie *IndexError
		require.ErrorAs(t, err, &ie, "index (%d,%d,%d)", idx[0], idx[1], idx[2])

		_, err = g.Ratio(idx[0], idx[1], idx[2])
		require.ErrorAs(t, err, &ie)
	}

	_, err = NewGammaMnsFunction(-1, 0.0, 1)
	assert.Error(t, err)
	_, err = NewGammaMnsFunction(4, 0.0, 2)
	assert.Error(t, err)
}

func TestGammaValueBranches(t *testing.T) {
	gamma := 0.4
	g, err := NewGammaMnsFunction(6, gamma, 1)
	require.NoError(t, err)

	// s >= m branch
	v, err := g.Value(2, 4, 3)
	require.NoError(t, err)
	assert.InDelta(t, math.Pow(2.0, -3.0)*math.Pow(1.0+gamma, 2.0), v, 1e-15)

	// s <= -m branch
	v, err = g.Value(2, 4, -3)
	require.NoError(t, err)
	assert.InDelta(t, -math.Pow(2.0, -3.0)*math.Pow(1.0+gamma, -2.0), v, 1e-15)

	// interior branch uses the cached ratio
	v, err = g.Value(3, 5, 1)
	require.NoError(t, err)
	rho, err := g.Ratio(3, 5, 1)
	require.NoError(t, err)
	assert.InDelta(t, math.Pow(2.0, -3.0)*rho*math.Pow(1.0+gamma, 1.0), v, 1e-15)
}

func TestGammaValueSignedInfinity(t *testing.T) {
	// gamma = -I makes (1 + I*gamma) vanish; the s <= -m branch divides by it
	g, err := NewGammaMnsFunction(4, -1.0, 1)
	require.NoError(t, err)

	v, err := g.Value(2, 3, -3)
	require.NoError(t, err)
	assert.True(t, math.IsInf(v, 0), "expected signed infinity, got %g", v)
}
