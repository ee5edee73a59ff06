/*package geom contains the geometric primitives used by the mechanics engine:
continuous and discrete vectors, minimum-image differences on periodic
domains, planar boundary shapes and padded grid indexing.
*/
package geom

import (
	"math"
)

// Vec is a three dimensional continuous vector. 2D domains keep the third
// component at zero.
type Vec [3]float64

// DVec is a discrete grid coordinate.
type DVec [3]int

// Add returns v + u.
func (v Vec) Add(u Vec) Vec {
	return Vec{v[0] + u[0], v[1] + u[1], v[2] + u[2]}
}

// Sub returns v - u.
func (v Vec) Sub(u Vec) Vec {
	return Vec{v[0] - u[0], v[1] - u[1], v[2] - u[2]}
}

// Scale returns k * v.
func (v Vec) Scale(k float64) Vec {
	return Vec{k * v[0], k * v[1], k * v[2]}
}

// Dot returns the scalar product of v and u.
func (v Vec) Dot(u Vec) float64 {
	return v[0]*u[0] + v[1]*u[1] + v[2]*u[2]
}

// Norm returns the Euclidean length of v.
func (v Vec) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec) Normalize() Vec {
	n := v.Norm()
	if n == 0 { return v }
	return v.Scale(1 / n)
}

// CosAngle returns the cosine of the angle between v and u, or 0 if either
// has zero length.
func (v Vec) CosAngle(u Vec) float64 {
	n := v.Norm() * u.Norm()
	if n == 0 { return 0 }
	return v.Dot(u) / n
}

// IsZero returns true if every component of v is exactly zero.
func (v Vec) IsZero() bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// IsValid returns false if any component is NaN or infinite.
func (v Vec) IsValid() bool {
	for i := 0; i < 3; i++ {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) { return false }
	}
	return true
}

// AddSelf adds u to v in place.
func (v *Vec) AddSelf(u Vec) {
	v[0] += u[0]
	v[1] += u[1]
	v[2] += u[2]
}

// SubSelf subtracts u from v in place.
func (v *Vec) SubSelf(u Vec) {
	v[0] -= u[0]
	v[1] -= u[1]
	v[2] -= u[2]
}

// Reset sets every component of v to zero.
func (v *Vec) Reset() {
	v[0], v[1], v[2] = 0, 0, 0
}

// Add returns dv + du.
func (dv DVec) Add(du DVec) DVec {
	return DVec{dv[0] + du[0], dv[1] + du[1], dv[2] + du[2]}
}

// Center returns the continuous coordinates of the center of the cell dv on
// a grid with the given resolution.
func (dv DVec) Center(res float64) Vec {
	return Vec{
		(float64(dv[0]) + 0.5) * res,
		(float64(dv[1]) + 0.5) * res,
		(float64(dv[2]) + 0.5) * res,
	}
}

// Discretize returns the cell containing v on a grid with the given
// resolution.
func Discretize(v Vec, res float64) DVec {
	return DVec{
		int(math.Floor(v[0] / res)),
		int(math.Floor(v[1] / res)),
		int(math.Floor(v[2] / res)),
	}
}
