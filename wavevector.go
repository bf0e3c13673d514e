package pulse

import "math"

// Coeffs holds the second-order Taylor expansion of the wave vector
// around the center angular frequency: k0, k1 = dk/dω and k2 = d²k/dω².
// k1 sets the group velocity of the packet, k2 the group-velocity
// dispersion that broadens it over time.
type Coeffs [3]float64

func (c Coeffs) K0() float64 { return c[0] }
func (c Coeffs) K1() float64 { return c[1] }
func (c Coeffs) K2() float64 { return c[2] }

// WaveVector evaluates the dispersion relation
//
//	k(ν) = k0 + k1·(ω−ω0) + k2·(ω−ω0)²
//
// with ω = 2πν and ω0 = 2πν_center.
func WaveVector(nu, nuCenter float64, k Coeffs) float64 {
	omega := 2 * math.Pi * nu
	omega0 := 2 * math.Pi * nuCenter
	d := omega - omega0
	return k[0] + k[1]*d + k[2]*d*d
}
