package geom

import (
	"math"
	"math/rand/v2"
)

// Periodicity describes which axes of a domain wrap around and how long
// they are.
type Periodicity struct {
	Width    Vec
	Periodic [3]bool
	Is3D     bool
}

// NewPeriodicity returns a Periodicity for a domain with the given widths.
// No axis is periodic until marked with SetPeriodic.
func NewPeriodicity(width Vec, is3D bool) *Periodicity {
	p := &Periodicity{}
	p.Init(width, is3D)
	return p
}

// Init initializes a Periodicity instance.
func (p *Periodicity) Init(width Vec, is3D bool) {
	p.Width = width
	p.Is3D = is3D
	p.Periodic = [3]bool{}
}

// SetPeriodic marks axis dim as periodic.
func (p *Periodicity) SetPeriodic(dim int) {
	p.Periodic[dim] = true
}

// Dims returns the number of spatial dimensions.
func (p *Periodicity) Dims() int {
	if p.Is3D { return 3 }
	return 2
}

// Difference computes a - b under the minimum-image convention and returns
// the difference vector along with its length. The z component is dropped
// in 2D domains.
func (p *Periodicity) Difference(a, b Vec) (diff Vec, d float64) {
	dims := p.Dims()
	for i := 0; i < dims; i++ {
		diff[i] = a[i] - b[i]
		if p.Periodic[i] && math.Abs(diff[i]) > 0.5*p.Width[i] {
			diff[i] -= p.Width[i] * math.Round(diff[i]/p.Width[i])
		}
	}
	return diff, diff.Norm()
}

// Separation returns the unit direction from b to a and the distance
// between them. Coincident points are given a distance of 1% of radius and
// a random direction so that repulsion never has a zero-length axis.
func (p *Periodicity) Separation(
	a, b Vec, radius float64, rng *rand.Rand,
) (dir Vec, d float64) {
	diff, d := p.Difference(a, b)
	if d == 0 {
		return RandomDirection(rng, p.Is3D), 1e-2 * radius
	}
	return diff.Scale(1 / d), d
}

// RandomDirection returns a unit vector drawn uniformly from the sphere, or
// from the circle in the xy plane when is3D is false.
func RandomDirection(rng *rand.Rand, is3D bool) Vec {
	for {
		v := Vec{2*rng.Float64() - 1, 2*rng.Float64() - 1, 0}
		if is3D { v[2] = 2*rng.Float64() - 1 }
		if n := v.Norm(); n > 0 && n <= 1 { return v.Scale(1 / n) }
	}
}
