package agent

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/shove/boundary"
	"github.com/phil-mansfield/shove/domain"
	"github.com/phil-mansfield/shove/geom"
	"github.com/phil-mansfield/shove/logging"
	"github.com/phil-mansfield/shove/voxel"
)

const (
	// Death causes. CauseOverBoard is recorded by boundaries, and
	// CauseDetachment and CauseInvalidMove by the agent grid.
	CauseOverBoard = boundary.CauseOverBoard
	CauseDetachment = voxel.CauseDetachment
	CauseDilution = "dilution"
	CauseInvalidMove = voxel.CauseInvalidMove
	CauseStarvation = "starvation"

	// attachmentRange is the number of total radii within which an agent
	// is attached to a support.
	attachmentRange = 3.0
)

// Space is the spatial context shared by every agent of a simulation.
type Space struct {
	Grid *voxel.Grid
	Domain *domain.Domain
	Rng *rand.Rand
	Log logging.Logger

	// AgentTimeStep is the minimum time between two division checks.
	AgentTimeStep float64
}

// NewSpace returns a Space over the given agent grid.
func NewSpace(
	grid *voxel.Grid, rng *rand.Rand, log logging.Logger, agentTimeStep float64,
) *Space {
	return &Space{
		Grid: grid, Domain: grid.Domain(), Rng: rng,
		Log: logging.Or(log), AgentTimeStep: agentTimeStep,
	}
}

func (sp *Space) is3D() bool { return sp.Domain.Is3D }

// Located is an agent with a position in the domain.
type Located struct {
	lineage Lineage
	species *Param
	space *Space

	location, movement geom.Vec
	radius, totalRadius float64
	volume, totalVolume float64
	totalMass float64
	masses []float64

	myDivRadius, myDeathRadius float64
	timeSinceDivisionCheck float64
	attached bool

	gridIndex int
	neighbours []*Located

	dead bool
	cause string
}

// Location returns the agent's position.
func (a *Located) Location() geom.Vec { return a.location }

// Movement returns the pending movement.
func (a *Located) Movement() geom.Vec { return a.movement }

// SetMovement replaces the pending movement.
func (a *Located) SetMovement(v geom.Vec) { a.movement = v }

// AddMovement adds v to the pending movement.
func (a *Located) AddMovement(v geom.Vec) { a.movement.AddSelf(v) }

// Radius returns the core radius.
func (a *Located) Radius() float64 { return a.radius }

// TotalRadius returns the radius including any capsule.
func (a *Located) TotalRadius() float64 { return a.totalRadius }

// Volume returns the core volume.
func (a *Located) Volume() float64 { return a.volume }

// TotalVolume returns the volume including any capsule.
func (a *Located) TotalVolume() float64 { return a.totalVolume }

// TotalMass returns the summed mass of every compartment.
func (a *Located) TotalMass() float64 { return a.totalMass }

// Masses returns a copy of the compartment masses.
func (a *Located) Masses() []float64 { return append([]float64{}, a.masses...) }

func (a *Located) Lineage() Lineage { return a.lineage }
func (a *Located) Species() *Param { return a.species }
func (a *Located) SpeciesIndex() int { return a.species.Index }
func (a *Located) GridIndex() int { return a.gridIndex }
func (a *Located) SetGridIndex(idx int) { a.gridIndex = idx }
func (a *Located) IsAttached() bool { return a.attached }
func (a *Located) IsDead() bool { return a.dead }
func (a *Located) DeathCause() string { return a.cause }

// DivRadius and DeathRadius return the radii drawn for this agent.
func (a *Located) DivRadius() float64 { return a.myDivRadius }
func (a *Located) DeathRadius() float64 { return a.myDeathRadius }

// ShoveRadius is the total radius scaled by the species' shove factor.
func (a *Located) ShoveRadius() float64 {
	return a.totalRadius * a.species.ShoveFactor
}

// InteractDistance is the range within which another agent of the same
// size could be shoved.
func (a *Located) InteractDistance() float64 {
	return 2*a.ShoveRadius() + a.species.ShoveLimit
}

// InteractDistanceWith is the range within which b would be shoved.
func (a *Located) InteractDistanceWith(b *Located) float64 {
	return a.ShoveRadius() + b.ShoveRadius() + a.species.ShoveLimit
}

// IsMoving returns true if the pending movement is more than a tenth of
// the total radius.
func (a *Located) IsMoving() bool {
	return a.movement.Norm() > a.totalRadius/10
}

// setLocation places the agent at p without touching the agent grid. In a
// chemostat every agent sits at the origin.
func (a *Located) setLocation(p geom.Vec) {
	if a.space.Domain.IsChemostat { p = geom.Vec{} }
	a.location = p
}

// Distance returns the minimum-image distance to b.
func (a *Located) Distance(b *Located) float64 {
	_, d := a.space.Domain.Periodicity().Separation(
		a.location, b.location, a.radius, a.space.Rng,
	)
	return d
}

// UpdateSize recomputes total mass, volumes, radii and attachment from the
// compartment masses.
func (a *Located) UpdateSize() {
	a.totalMass = floats.Sum(a.masses)
	if a.totalMass < 0 {
		a.space.Log.Warnf(
			"Negative mass %g on agent %s.", a.totalMass, a.lineage.Name(),
		)
	}
	a.updateVolume()
	a.updateRadius()
	if !a.space.Domain.IsChemostat { a.updateAttachment() }
}

func (a *Located) updateVolume() {
	vols := make([]float64, len(a.masses))
	floats.DivTo(vols, a.masses, a.species.Densities)
	a.totalVolume = floats.Sum(vols)
	if a.species.Capsule {
		a.volume = floats.Sum(vols[:len(vols)-1])
	} else {
		a.volume = a.totalVolume
	}
}

func (a *Located) updateRadius() {
	if a.space.Domain.IsChemostat || a.space.is3D() {
		a.radius = SphereRadius(a.volume)
		a.totalRadius = SphereRadius(a.totalVolume)
	} else {
		lz := a.space.Domain.LengthZ()
		a.radius = CylinderRadius(a.volume, lz)
		a.totalRadius = CylinderRadius(a.totalVolume, lz)
	}
}

// updateAttachment finds the nearest support of the domain and returns it,
// or nil if the domain has none.
func (a *Located) updateAttachment() boundary.Boundary {
	var nearest boundary.Boundary
	minDist := math.Inf(1)
	for _, b := range a.space.Domain.Boundaries() {
		if !b.IsSupport() { continue }
		if d := b.Distance(a.location); d < minDist {
			nearest, minDist = b, d
		}
	}

	a.attached = nearest != nil && minDist <= attachmentRange*a.totalRadius
	return nearest
}

// SphereRadius is the radius of a sphere of volume v. Non-positive volumes
// give a radius of zero.
func SphereRadius(v float64) float64 {
	if v <= 0 { return 0 }
	return math.Cbrt(3 * v / (4 * math.Pi))
}

// CylinderRadius is the radius of a cylinder of volume v and length l.
func CylinderRadius(v, l float64) float64 {
	if v <= 0 || l <= 0 { return 0 }
	return math.Sqrt(v / (math.Pi * l))
}
