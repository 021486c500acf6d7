package meanosc

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

// gammaTable holds factorial-ratio coefficients
//
//	rho(m, n, s) = I^(m-s) * (n-m)! (n+m)! / ((n-s)! (n+s)!)
//
// for all 0 <= m <= n <= maxDegree, -n <= s <= n, flattened with n as the
// outer index, m in the middle and s innermost. The table is immutable once
// built; growth allocates and fully recomputes a larger table.
type gammaTable struct {
	maxDegree int
	base      []int // offset of the (n, m=0, s=-n) entry per degree
	ratios    []float64
}

// offset implements the (m, n, s) -> flat index bijection in the exact
// n-outer / m-middle / s-inner enumeration order used by the builder.
func (t *gammaTable) offset(m, n, s int) int {
	return t.base[n] + m*(2*n+1) + (s + n)
}

func buildGammaTable(maxDegree, retrograde int) *gammaTable {
	t := &gammaTable{maxDegree: maxDegree}
	t.base = make([]int, maxDegree+1)
	size := 0
	for n := 0; n <= maxDegree; n++ {
		t.base[n] = size
		size += (n + 1) * (2*n + 1)
	}
	t.ratios = make([]float64, size)

	i := float64(retrograde)
	// rho(0, n, -n) = (n!)^2 / (2n)!, by recurrence over n
	rho00 := 1.0
	for n := 0; n <= maxDegree; n++ {
		if n > 0 {
			rho00 *= float64(n*n) / float64(2*n*(2*n-1))
		}
		colBase := rho00 // rho(m, n, -n)
		for m := 0; m <= n; m++ {
			if m > 0 {
				colBase *= float64(n+m) / float64(n-m+1)
			}
			rho := colBase
			sign := 1.0
			if retrograde < 0 && (m+n)%2 != 0 {
				sign = -1.0 // I^(m-s) at s = -n
			}
			for s := -n; s <= n; s++ {
				if s > -n {
					rho *= float64(n-s+1) / float64(n+s)
					sign *= i
				}
				t.ratios[t.offset(m, n, s)] = sign * rho
			}
		}
	}
	return t
}

// Process-wide coefficient cache, keyed by direct/retrograde. Growth is
// serialized by the mutex; lookups load an immutable snapshot and need no
// lock.
var (
	gammaGrowMu sync.Mutex
	gammaDirect atomic.Pointer[gammaTable]
	gammaRetro  atomic.Pointer[gammaTable]
)

func gammaCacheSlot(retrograde int) *atomic.Pointer[gammaTable] {
	if retrograde < 0 {
		return &gammaRetro
	}
	return &gammaDirect
}

// ensureGammaTable returns a table covering at least maxDegree, growing the
// shared cache if needed. Growth reallocates and recomputes the whole table;
// entries valid before the growth are reproduced exactly because the builder
// always runs the same recurrence from the same starting values.
func ensureGammaTable(maxDegree, retrograde int) *gammaTable {
	slot := gammaCacheSlot(retrograde)
	if t := slot.Load(); t != nil && t.maxDegree >= maxDegree {
		return t
	}
	gammaGrowMu.Lock()
	defer gammaGrowMu.Unlock()
	if t := slot.Load(); t != nil && t.maxDegree >= maxDegree {
		return t
	}
	t := buildGammaTable(maxDegree, retrograde)
	slot.Store(t)
	return t
}

// GammaMnsFunction evaluates the Gamma(m, n, s) coefficient family used by
// the tesseral and zonal expansions, parameterized by the geometry ratio
// gamma and the retrograde factor I.
type GammaMnsFunction struct {
	gamma      float64
	retrograde int
	opIGamma   float64 // 1 + I*gamma
}

// NewGammaMnsFunction pre-grows the shared coefficient cache up to maxDegree
// and binds the evaluator to gamma and the retrograde factor.
func NewGammaMnsFunction(maxDegree int, gamma float64, retrogradeFactor int) (*GammaMnsFunction, error) {
	if maxDegree < 0 {
		return nil, &IndexError{M: 0, N: maxDegree, S: 0, MaxDegree: maxDegree}
	}
	if retrogradeFactor != 1 && retrogradeFactor != -1 {
		return nil, fmt.Errorf("retrograde factor must be +1 or -1, got %d", retrogradeFactor)
	}
	ensureGammaTable(maxDegree, retrogradeFactor)
	return &GammaMnsFunction{
		gamma:      gamma,
		retrograde: retrogradeFactor,
		opIGamma:   1.0 + float64(retrogradeFactor)*gamma,
	}, nil
}

// Ratio returns the cached factorial-ratio coefficient rho(m, n, s), growing
// the shared table if n exceeds its current degree.
func (g *GammaMnsFunction) Ratio(m, n, s int) (float64, error) {
	if m < 0 || n < m || s < -n || s > n {
		return 0, &IndexError{M: m, N: n, S: s, MaxDegree: n}
	}
	t := ensureGammaTable(n, g.retrograde)
	return t.ratios[t.offset(m, n, s)], nil
}

// Value evaluates Gamma(m, n, s). The closed-form factor depends on the sign
// of (s - m): three branches around s = -m and s = m. At the s <= -m boundary
// the result may be mathematically infinite (for gamma = -I); the signed
// infinity is returned as-is, never clamped.
func (g *GammaMnsFunction) Value(m, n, s int) (float64, error) {
	if m < 0 || n < m || s < -n || s > n {
		return 0, &IndexError{M: m, N: n, S: s, MaxDegree: n}
	}
	i := float64(g.retrograde)
	switch {
	case s <= -m:
		return negPow(m-s) * math.Pow(2.0, float64(s)) * math.Pow(g.opIGamma, -i*float64(m)), nil
	case s >= m:
		return math.Pow(2.0, float64(-s)) * math.Pow(g.opIGamma, i*float64(m)), nil
	default:
		rho, err := g.Ratio(m, n, s)
		if err != nil {
			return 0, err
		}
		return negPow(m-s) * math.Pow(2.0, float64(-m)) * rho * math.Pow(g.opIGamma, i*float64(s)), nil
	}
}

func negPow(k int) float64 {
	if k < 0 {
		k = -k
	}
	if k%2 == 1 {
		return -1.0
	}
	return 1.0
}
