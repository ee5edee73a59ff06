/*package voxel is a spatial index over the agents of a domain. Agents are
binned into cubic voxels and every voxel knows its neighbours, with
periodic sides already folded in, so that the agents close enough to
interact with one another can be found without scanning the population.
*/
package voxel

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/shove/domain"
	"github.com/phil-mansfield/shove/geom"
	"github.com/phil-mansfield/shove/logging"
)

// maxFolds bounds the number of boundary images followed while resolving a
// neighbour slot.
const maxFolds = 8

// Grid is the agent grid: a padded box of cubic voxels covering a domain.
type Grid struct {
	Resolution float64
	N geom.DVec
	Is3D, IsChemostat bool

	domain *domain.Domain
	index *geom.Grid
	groups []*Group
	species int
	log logging.Logger
}

// New creates the agent grid for d. The requested resolution is corrected
// so that an integer number of voxels spans the domain along x, and the
// same corrected value is used along the other axes. nSpecies sets the
// length of each voxel's per-species concentration table.
func New(
	d *domain.Domain, res float64, nSpecies int, log logging.Logger,
) (*Grid, error) {
	if res <= 0 {
		return nil, fmt.Errorf(
			"Agent grid of domain '%s' needs a positive Resolution, but "+
				"was given %g.", d.Name, res,
		)
	}

	g := &Grid{
		Is3D: d.Is3D, IsChemostat: d.IsChemostat,
		domain: d, species: nSpecies, log: logging.Or(log),
	}

	if d.IsChemostat {
		g.Resolution = res
		g.N = geom.DVec{1, 1, 1}
	} else {
		nI := int(math.Ceil(d.Length[0] / res))
		g.Resolution = d.Length[0] / float64(nI)
		nJ := int(math.Ceil(d.Length[1] / g.Resolution))
		nK := 1
		if d.Is3D { nK = int(math.Ceil(d.Length[2] / g.Resolution)) }
		g.N = geom.DVec{nI, nJ, nK}
	}
	g.index = geom.NewPaddedGrid(g.N)

	n := g.index.Volume
	if d.IsChemostat { n = 1 }
	g.groups = make([]*Group, n)
	for i := range g.groups { g.groups[i] = newGroup(g, i) }
	for _, gr := range g.groups { gr.init(g) }

	g.log.Debugf(
		"Agent grid of '%s' uses %d x %d x %d voxels of width %g.",
		d.Name, g.N[0], g.N[1], g.N[2], g.Resolution,
	)
	return g, nil
}

// Domain returns the domain the grid covers.
func (g *Grid) Domain() *domain.Domain { return g.domain }

// Groups returns every voxel, including the padding band.
func (g *Grid) Groups() []*Group { return g.groups }

// Group returns the voxel with the given index.
func (g *Grid) Group(idx int) *Group { return g.groups[idx] }

// VoxelVolume is the cube of the resolution.
func (g *Grid) VoxelVolume() float64 {
	return g.Resolution * g.Resolution * g.Resolution
}

// IndexOf returns the index of the voxel containing p and false if p lies
// beyond the padding band.
func (g *Grid) IndexOf(p geom.Vec) (int, bool) {
	if g.IsChemostat { return 0, true }
	dc := geom.Discretize(p, g.Resolution)
	if !g.Is3D { dc[2] = 0 }
	return g.index.DVecIdx(dc)
}

// Position returns the discrete coordinates of a voxel.
func (g *Grid) Position(idx int) geom.DVec { return g.groups[idx].DC }

// Location returns the center of a voxel.
func (g *Grid) Location(idx int) geom.Vec { return g.groups[idx].CC }

// IsValid returns true if p lies in an interior voxel of the grid.
func (g *Grid) IsValid(p geom.Vec) bool {
	if !p.IsValid() { return false }
	if g.IsChemostat { return true }
	dc := geom.Discretize(p, g.Resolution)
	if !g.Is3D { dc[2] = 0 }
	for i := 0; i < 3; i++ {
		if dc[i] < 0 || dc[i] >= g.N[i] { return false }
	}
	return true
}

// resolve maps discrete coordinates to a voxel index, following boundary
// images through any side the voxel center has crossed.
func (g *Grid) resolve(dc geom.DVec) (int, bool) {
	idx, ok := g.index.DVecIdx(dc)
	if !ok { return -1, false }

	for n := 0; n < maxFolds; n++ {
		old := idx
		cc := g.groups[idx].CC
		b := g.domain.TestCrossedBoundary(cc)
		if b == nil { return idx, true }

		idx, ok = g.IndexOf(b.LookAt(cc))
		if !ok { return -1, false }
		if idx == old { return idx, true }
	}
	return -1, false
}

// Register places r in the voxel containing its location. Agents outside
// of the grid are killed.
func (g *Grid) Register(r Resident) bool {
	p := r.Location()
	idx, ok := g.IndexOf(p)
	if !ok || !g.IsValid(p) {
		g.log.Warnf("Agent location %v is not valid -> Killed.", p)
		r.Die(CauseInvalidMove)
		return false
	}
	g.groups[idx].Add(r)
	return true
}

// RegisterMove moves r between voxels after its location has changed. It
// returns false, after killing r, if the new location is not valid.
func (g *Grid) RegisterMove(r Resident) bool {
	p := r.Location()
	if !g.IsValid(p) {
		g.log.Warnf("Agent location %v is not valid -> Killed.", p)
		r.Die(CauseInvalidMove)
		return false
	}

	idx, _ := g.IndexOf(p)
	old := r.GridIndex()
	if idx == old { return true }

	if old >= 0 && old < len(g.groups) { g.groups[old].Remove(r) }
	g.groups[idx].Add(r)
	return true
}

// Remove takes r out of whichever voxel holds it.
func (g *Grid) Remove(r Resident) {
	idx := r.GridIndex()
	if idx < 0 || idx >= len(g.groups) { return }
	g.groups[idx].Remove(r)
	r.SetGridIndex(-1)
}

// PotentialShovers returns the residents of every voxel within dist of the
// voxel with the given index, that voxel included. Each voxel is visited
// at most once even when periodic sides wrap a walk back onto itself.
func (g *Grid) PotentialShovers(idx int, dist float64) []Resident {
	if g.IsChemostat {
		return append([]Resident{}, g.groups[0].Residents...)
	}

	radius := int(math.Floor(dist / g.Resolution))
	if radius < 1 { radius = 1 }
	kRadius := radius
	if !g.Is3D { kRadius = 0 }

	start := g.groups[idx]
	seen := map[int]bool{}
	out := []Resident{}
	for i := -radius; i <= radius; i++ {
		for j := -radius; j <= radius; j++ {
			for k := -kRadius; k <= kRadius; k++ {
				gr := start.MoveX(i).MoveY(j).MoveZ(k)
				if gr == nil || seen[gr.Index] { continue }
				seen[gr.Index] = true
				out = append(out, gr.Residents...)
			}
		}
	}
	return out
}

// RefreshGroups recomputes the status and statistics of every voxel.
func (g *Grid) RefreshGroups() {
	v := g.VoxelVolume()
	for _, gr := range g.groups {
		gr.RefreshElement(v)
		gr.RefreshVolume()
	}
}

// KillAll kills every resident of every voxel selected by match and
// returns the number of agents killed.
func (g *Grid) KillAll(cause string, match func(*Group) bool) int {
	n := 0
	for _, gr := range g.groups {
		if match(gr) { n += gr.KillAll(cause) }
	}
	return n
}
