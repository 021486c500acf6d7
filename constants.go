package meanosc

import "math"

// Mathematical and physical constants
const (
	twoPi         = 2 * math.Pi
	deg2rad       = math.Pi / 180.0
	rad2deg       = 180.0 / math.Pi
	xkmper        = 6378.135       // Earth's equatorial radius in km (WGS-72, SGP4 convention)
	ae            = 1.0            // Distance units/earth radii
	xj2           = 0.001082616    // J2 harmonic (WGS-72)
	xj3           = -0.00000253881 // J3 harmonic (WGS-72)
	xj4           = -0.00000165597 // J4 harmonic (WGS-72)
	minutesPerDay = 1440.0

	// SI values used by the harmonics-based theories
	muEarth = 3.986004415e14 // m^3/s^2
	reEarth = 6378136.3      // m
)

// Computed values (non-constants)
var (
	xke = 60.0 / math.Sqrt(xkmper*xkmper*xkmper/398600.8) // sqrt(GM/R³) in ER^1.5/min
	ck2 = 0.5 * xj2 * ae * ae
)
