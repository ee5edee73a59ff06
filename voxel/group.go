package voxel

import (
	"math"

	"github.com/phil-mansfield/shove/boundary"
	"github.com/phil-mansfield/shove/geom"
)

const (
	// CauseDetachment is recorded on agents removed by KillAll.
	CauseDetachment = "detachment"
	// CauseInvalidMove is recorded on agents whose location left the grid.
	CauseInvalidMove = "invalidMove"
)

// Resident is an agent stored in the voxel index.
type Resident interface {
	Location() geom.Vec
	TotalMass() float64
	// TotalVolume includes any capsule.
	TotalVolume() float64
	SpeciesIndex() int
	GridIndex() int
	SetGridIndex(idx int)
	Die(cause string)
}

// Group is one voxel of the agent grid. It holds the agents located in the
// voxel, a table of its 26 (or 8, in 2D) neighbours with periodic sides
// already folded in, and aggregate statistics over its residents.
type Group struct {
	Index int
	DC geom.DVec
	CC geom.Vec
	Residents []Resident

	Status boundary.Status
	IsOutside, IsCarrier, IsBulk bool
	DistanceFromCarrier, DistanceFromBulk float64

	TotalMass, TotalConcentration, TotalVolume float64
	SpeciesConcentration []float64

	nbh [3][3][3]*Group
}

// newGroup creates the voxel at index idx and tests it against every
// boundary of the grid's domain.
func newGroup(g *Grid, idx int) *Group {
	gr := &Group{
		Index: idx,
		DC: g.index.DVec(idx),
		Status: boundary.StatusLiquid,
		SpeciesConcentration: make([]float64, g.species),
		DistanceFromCarrier: math.MaxFloat64,
		DistanceFromBulk: math.MaxFloat64,
	}
	gr.CC = gr.DC.Center(g.Resolution)
	if !g.Is3D { gr.CC[2] = 0 }

	if g.IsChemostat { return gr }

	for _, b := range g.domain.Boundaries() {
		if b.IsOutside(gr.CC) {
			gr.IsOutside = true
			gr.Status = boundary.StatusOutside
			if s, ok := b.Classify(); ok { gr.Status = s }
			break
		}
	}
	return gr
}

// init builds the neighbour table and the distances to the domain's
// supports and bulks.
func (gr *Group) init(g *Grid) {
	if gr.IsOutside || g.IsChemostat { return }

	kLo, kHi := 0, 2
	if !g.Is3D { kLo, kHi = 1, 1 }

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := kLo; k <= kHi; k++ {
				nb := gr.DC.Add(geom.DVec{i - 1, j - 1, k - 1})
				if idx, ok := g.resolve(nb); ok {
					gr.nbh[i][j][k] = g.groups[idx]
				}
			}
		}
	}

	gr.distanceFromBorders(g)
	gr.IsCarrier = gr.DistanceFromCarrier < g.Resolution
	gr.IsBulk = gr.DistanceFromBulk < g.Resolution
}

func (gr *Group) distanceFromBorders(g *Grid) {
	for _, b := range g.domain.Boundaries() {
		if b.IsSupport() {
			gr.DistanceFromCarrier = math.Min(
				gr.DistanceFromCarrier, b.Distance(gr.CC),
			)
		}
		if b.HasBulk() {
			gr.DistanceFromBulk = math.Min(
				gr.DistanceFromBulk, b.Distance(gr.CC),
			)
		}
	}
}

// RefreshElement recomputes the status and mass statistics of the voxel
// from its residents. voxelVolume is the cube of the grid resolution.
// Voxels outside the domain keep the status their boundary gave them.
func (gr *Group) RefreshElement(voxelVolume float64) {
	if !gr.IsOutside && gr.Status > boundary.StatusCarrier {
		if len(gr.Residents) > 0 {
			gr.Status = boundary.StatusPopulated
		} else {
			gr.Status = boundary.StatusLiquid
		}
	}
	if gr.IsCarrier { gr.Status = boundary.StatusCarrier }

	gr.TotalMass, gr.TotalConcentration = 0, 0
	for i := range gr.SpeciesConcentration { gr.SpeciesConcentration[i] = 0 }
	for _, r := range gr.Residents {
		m := r.TotalMass()
		gr.TotalMass += m
		gr.TotalConcentration += m / voxelVolume
		if s := r.SpeciesIndex(); s >= 0 && s < len(gr.SpeciesConcentration) {
			gr.SpeciesConcentration[s] += m / voxelVolume
		}
	}
}

// RefreshVolume recomputes and returns the summed volume of the residents,
// capsules included.
func (gr *Group) RefreshVolume() float64 {
	gr.TotalVolume = 0
	for _, r := range gr.Residents { gr.TotalVolume += r.TotalVolume() }
	return gr.TotalVolume
}

// Add places r in the voxel.
func (gr *Group) Add(r Resident) {
	gr.Residents = append(gr.Residents, r)
	if !gr.IsOutside { gr.Status = boundary.StatusPopulated }
	r.SetGridIndex(gr.Index)
}

// Remove takes r out of the voxel. It returns false if r was not there.
func (gr *Group) Remove(r Resident) bool {
	for i := range gr.Residents {
		if gr.Residents[i] != r { continue }
		last := len(gr.Residents) - 1
		copy(gr.Residents[i:], gr.Residents[i+1:])
		gr.Residents[last] = nil
		gr.Residents = gr.Residents[:last]
		if last == 0 && gr.Status == boundary.StatusPopulated {
			gr.Status = boundary.StatusLiquid
		}
		return true
	}
	return false
}

// KillAll kills every resident of the voxel with the given cause.
func (gr *Group) KillAll(cause string) int {
	rs := append([]Resident{}, gr.Residents...)
	for _, r := range rs { r.Die(cause) }
	return len(rs)
}

// Neighbour returns the voxel at offset (di, dj, dk), each in [-1, 1], or
// nil if no voxel could be resolved there.
func (gr *Group) Neighbour(di, dj, dk int) *Group {
	return gr.nbh[di+1][dj+1][dk+1]
}

// MoveX walks n voxels along x through the neighbour tables. It returns
// nil if the walk hits an unresolved slot and is safe to call on nil.
func (gr *Group) MoveX(n int) *Group { return gr.walk(n, 0) }

// MoveY walks n voxels along y.
func (gr *Group) MoveY(n int) *Group { return gr.walk(n, 1) }

// MoveZ walks n voxels along z.
func (gr *Group) MoveZ(n int) *Group { return gr.walk(n, 2) }

func (gr *Group) walk(n, dim int) *Group {
	step := 1
	if n < 0 { step, n = -1, -n }
	var off [3]int
	off[dim] = step

	out := gr
	for ; n > 0 && out != nil; n-- {
		out = out.nbh[off[0]+1][off[1]+1][off[2]+1]
	}
	return out
}

// FreeNeighbours counts the face neighbours whose status is liquid.
func (gr *Group) FreeNeighbours(is3D bool) int {
	n := 0
	faces := [][3]int{{-1, 0, 0}, {1, 0, 0}, {0, -1, 0}, {0, 1, 0}}
	if is3D { faces = append(faces, [3]int{0, 0, -1}, [3]int{0, 0, 1}) }
	for _, f := range faces {
		nb := gr.Neighbour(f[0], f[1], f[2])
		if nb != nil && nb.Status == boundary.StatusLiquid { n++ }
	}
	return n
}
