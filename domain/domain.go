/*package domain describes the computational domain agents live in: its
discretization, its dimensionality and the ordered list of boundary
conditions on its sides.
*/
package domain

import (
	"fmt"

	"github.com/phil-mansfield/shove/boundary"
	"github.com/phil-mansfield/shove/geom"
)

const (
	// Values of the classification grid.
	Outside = -1
	Carrier = 0
	Inside = 1
)

// Domain is a box of NI x NJ x NK cells of width Resolution. 2D domains
// have NK == 1.
type Domain struct {
	Name string
	Resolution float64
	N geom.DVec
	Length geom.Vec
	Is3D, IsChemostat bool

	boundaries []boundary.Boundary
	grid *geom.Grid
	values []int8
	periodicity *geom.Periodicity
}

// New returns a domain with no boundaries.
func New(
	name string, res float64, n geom.DVec, is3D, chemostat bool,
) (*Domain, error) {
	if res <= 0 {
		return nil, fmt.Errorf(
			"Need to specify a positive Resolution for Domain '%s'.", name,
		)
	}
	if chemostat {
		n = geom.DVec{1, 1, 1}
	} else if !is3D {
		n[2] = 1
	}
	for i := 0; i < 3; i++ {
		if n[i] <= 0 {
			return nil, fmt.Errorf(
				"Domain '%s' has %d cells along axis %d, but needs at "+
					"least one.", name, n[i], i,
			)
		}
	}

	d := &Domain{
		Name: name, Resolution: res, N: n,
		Is3D: is3D, IsChemostat: chemostat,
	}
	for i := 0; i < 3; i++ {
		d.Length[i] = float64(n[i]) * res
	}
	d.grid = geom.NewPaddedGrid(n)
	d.values = make([]int8, d.grid.Volume)
	d.periodicity = geom.NewPeriodicity(d.Length, is3D)
	d.classify()

	return d, nil
}

// AddBoundaries appends boundaries to the domain's ordered list. Order
// matters: TestCrossedBoundary reports the first side a point is outside
// of.
func (d *Domain) AddBoundaries(bs ...boundary.Boundary) {
	for _, b := range bs {
		d.boundaries = append(d.boundaries, b)
		if b.IsCyclic() {
			if axis := b.Shape().Axis(); axis >= 0 {
				d.periodicity.SetPeriodic(axis)
			}
		}
	}
	d.classify()
}

// Boundaries returns the domain's boundaries in the order they were added.
func (d *Domain) Boundaries() []boundary.Boundary { return d.boundaries }

// Periodicity returns the minimum-image description of the domain.
func (d *Domain) Periodicity() *geom.Periodicity { return d.periodicity }

// Dims returns 3 for 3D domains and 2 otherwise.
func (d *Domain) Dims() int { return d.periodicity.Dims() }

// LengthZ is the extent of the omitted axis in 2D domains.
func (d *Domain) LengthZ() float64 { return d.Length[2] }

// classify marks every padded cell as outside, carrier or inside.
func (d *Domain) classify() {
	for idx := range d.values {
		dc := d.grid.DVec(idx)
		cc := dc.Center(d.Resolution)
		d.values[idx] = Inside
		for _, b := range d.boundaries {
			if b.IsOutside(cc) {
				d.values[idx] = Outside
				break
			}
			if b.IsSupport() && b.Distance(cc) < d.Resolution {
				d.values[idx] = Carrier
			}
		}
	}
}

// Value returns the classification of the cell containing p and false if p
// is not inside the interior of the grid.
func (d *Domain) Value(p geom.Vec) (int, bool) {
	dc := geom.Discretize(p, d.Resolution)
	if !d.validCell(dc) { return Outside, false }
	idx, _ := d.grid.DVecIdx(dc)
	return int(d.values[idx]), true
}

func (d *Domain) validCell(dc geom.DVec) bool {
	for i := 0; i < 3; i++ {
		if dc[i] < 0 || dc[i] >= d.N[i] { return false }
	}
	return true
}

// TestCrossedBoundary returns the boundary a point has crossed, or nil if
// the point is in a usable cell of the domain.
// A point outside the grid that no side is strictly outside of lies on
// the face of a high side, and that side is returned.
func (d *Domain) TestCrossedBoundary(p geom.Vec) boundary.Boundary {
	v, ok := d.Value(p)
	if ok && v >= Carrier { return nil }

	for _, b := range d.boundaries {
		if b.IsOutside(p) { return b }
	}
	if ok { return nil }
	for _, b := range d.boundaries {
		if b.Shape().IsOnOrOutside(p) { return b }
	}
	return nil
}

// IsInside returns true if no boundary considers p to be outside.
func (d *Domain) IsInside(p geom.Vec) bool {
	for _, b := range d.boundaries {
		if b.IsOutside(p) { return false }
	}
	return true
}

// Difference is the minimum-image difference a - b.
func (d *Domain) Difference(a, b geom.Vec) (geom.Vec, float64) {
	return d.periodicity.Difference(a, b)
}

// FirstSupport returns the first boundary agents can attach to, or nil.
func (d *Domain) FirstSupport() boundary.Boundary {
	for _, b := range d.boundaries {
		if b.IsSupport() { return b }
	}
	return nil
}

// sideAxes maps the conventional side names to the axis they are normal to
// and whether they sit at the high end of that axis.
var sideAxes = map[string]struct{
	axis int
	high bool
} {
	"y0z": {0, false}, "yNz": {0, true},
	"x0z": {1, false}, "xNz": {1, true},
	"x0y": {2, false}, "xNy": {2, true},
}

// StandardSide returns a boundary spec for one of the six faces of the
// domain box, named by the plane it lies in ("y0z" is the x = 0 face,
// "yNz" the x = Lx face). The opposite face is filled in for cyclic use.
func (d *Domain) StandardSide(name string) (*boundary.Spec, error) {
	sa, ok := sideAxes[name]
	if !ok {
		return nil, fmt.Errorf(
			"'%s' is not a standard side name. Expected one of [y0z | yNz "+
				"| x0z | xNz | x0y | xNy].", name,
		)
	}

	low, high := geom.DVec{}, geom.DVec{}
	lowOut, highOut := geom.DVec{}, geom.DVec{}
	low[sa.axis], lowOut[sa.axis] = -1, -1
	high[sa.axis], highOut[sa.axis] = d.N[sa.axis], 1

	spec := &boundary.Spec{
		Side: name, Resolution: d.Resolution, Is3D: d.Is3D,
		PointIn: low, VectorOut: lowOut,
		OppPointIn: high, OppVectorOut: highOut,
	}
	if sa.high {
		spec.PointIn, spec.OppPointIn = spec.OppPointIn, spec.PointIn
		spec.VectorOut, spec.OppVectorOut = spec.OppVectorOut, spec.VectorOut
	}
	return spec, nil
}

// AddStandardBoundary builds a boundary of the given kind on a standard
// side and adds it (and its partner, for cyclic sides) to the domain.
func (d *Domain) AddStandardBoundary(
	kind boundary.Kind, name string,
) ([]boundary.Boundary, error) {
	spec, err := d.StandardSide(name)
	if err != nil { return nil, err }
	bs, err := boundary.New(kind, spec)
	if err != nil { return nil, err }
	d.AddBoundaries(bs...)
	return bs, nil
}
