package agent

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/shove/geom"
)

// Snapshot is an immutable copy of the state needed to build an agent.
// Masses is owned by the snapshot and is never aliased by an agent.
type Snapshot struct {
	Lineage Lineage
	Species *Param
	Location geom.Vec
	Masses []float64
	DivRadius, DeathRadius float64
}

// Snapshot copies the agent's current state.
func (a *Located) Snapshot() Snapshot {
	return Snapshot{
		Lineage: a.lineage, Species: a.species, Location: a.location,
		Masses: a.Masses(),
		DivRadius: a.myDivRadius, DeathRadius: a.myDeathRadius,
	}
}

// Builder constructs agents inside a Space.
type Builder struct {
	Space *Space
}

// Build returns a new, unregistered agent with its own copy of s.Masses
// and its size already computed.
func (b Builder) Build(s Snapshot) (*Located, error) {
	if len(s.Masses) != s.Species.Compartments() {
		return nil, fmt.Errorf(
			"Agent of species '%s' was given %d masses, but the species "+
				"has %d compartments.",
			s.Species.Name, len(s.Masses), s.Species.Compartments(),
		)
	}

	a := &Located{
		lineage: s.Lineage, species: s.Species, space: b.Space,
		masses: append([]float64{}, s.Masses...),
		myDivRadius: s.DivRadius, myDeathRadius: s.DeathRadius,
		timeSinceDivisionCheck: math.MaxFloat64,
		gridIndex: -1,
	}
	a.setLocation(s.Location)
	a.UpdateSize()
	return a, nil
}

// Progenitor builds the founder of a new family at loc and registers it
// with the agent grid. The agent is returned dead if loc is not a valid
// position.
func (b Builder) Progenitor(
	p *Param, family int, loc geom.Vec, masses []float64, now float64,
) (*Located, error) {
	rng := b.Space.Rng
	a, err := b.Build(Snapshot{
		Lineage: Lineage{ Family: family, Birthday: now },
		Species: p, Location: loc, Masses: masses,
		DivRadius: p.DrawDivRadius(rng), DeathRadius: p.DrawDeathRadius(rng),
	})
	if err != nil { return nil, err }
	b.Space.Grid.Register(a)
	return a, nil
}

// GrowthModel is the reaction collaborator that decides how much mass each
// compartment gains over a time step.
type GrowthModel interface {
	// Delta returns the change of every compartment of s over dt. It must
	// not modify s.
	Delta(s *Snapshot, dt float64) []float64
}

// ConstantRate grows each compartment exponentially at the species'
// GrowthRates. Compartments without a rate do not grow.
type ConstantRate struct{}

func (ConstantRate) Delta(s *Snapshot, dt float64) []float64 {
	out := make([]float64, len(s.Masses))
	for i, r := range s.Species.GrowthRates {
		if i >= len(out) { break }
		out[i] = s.Masses[i] * math.Expm1(r*dt)
	}
	return out
}

// Grow applies one step of growth. Every compartment's change is computed
// from the same snapshot before any of them is applied.
func (a *Located) Grow(dt float64, model GrowthModel) {
	snap := a.Snapshot()
	delta := model.Delta(&snap, dt)
	if len(delta) != len(a.masses) {
		a.space.Log.Errorf(
			"Growth model returned %d deltas for the %d compartments of "+
				"agent %s.", len(delta), len(a.masses), a.lineage.Name(),
		)
		return
	}
	floats.Add(a.masses, delta)
	a.totalMass = floats.Sum(a.masses)
}

// WillDivide advances the division-check timer by dt and, once at least
// AgentTimeStep has passed since the last check, returns true if the core
// radius exceeds the agent's division radius.
func (a *Located) WillDivide(dt float64) bool {
	a.timeSinceDivisionCheck += dt
	if a.timeSinceDivisionCheck < a.space.AgentTimeStep { return false }
	a.timeSinceDivisionCheck = 0
	return a.radius > a.myDivRadius
}

// WillDie returns true if the agent's mass is negative or its core radius
// has fallen to its death radius.
func (a *Located) WillDie() bool {
	if a.totalMass < 0 { return true }
	return a.radius <= a.myDeathRadius
}

// Divide splits the agent in two at time now and returns the child,
// already registered with the agent grid. Division and death radii are
// redrawn for both the parent and the child. The child receives a
// deviated fraction of every compartment, and outside of a chemostat the
// pair is pushed apart along a random direction by half their interaction
// distance.
func (a *Located) Divide(now float64) (*Located, error) {
	p, rng := a.species, a.space.Rng

	a.myDivRadius = p.DrawDivRadius(rng)
	a.myDeathRadius = p.DrawDeathRadius(rng)

	lin, ok := a.lineage.child(now)
	if !ok {
		a.space.Log.Warnf(
			"Genealogy of family %d wrapped around at generation %d.",
			lin.Family, lin.Generation,
		)
	}

	frac := p.DrawBabyMassFrac(rng)
	childMasses := a.Masses()
	floats.Scale(frac, childMasses)
	floats.Sub(a.masses, childMasses)

	child, err := Builder{ a.space }.Build(Snapshot{
		Lineage: lin, Species: p, Location: a.location, Masses: childMasses,
		DivRadius: p.DrawDivRadius(rng), DeathRadius: p.DrawDeathRadius(rng),
	})
	if err != nil { return nil, err }
	a.UpdateSize()

	if !a.space.Domain.IsChemostat {
		dir := a.divisionDirection(a.InteractDistanceWith(child) / 2)
		child.movement.SubSelf(dir)
		a.movement.AddSelf(dir)
	}

	a.space.Grid.Register(child)
	return child, nil
}

// divisionDirection returns a vector of length dist in a direction drawn
// from two uniform angles. The z component is zero in 2D.
func (a *Located) divisionDirection(dist float64) geom.Vec {
	rng := a.space.Rng
	phi := 2 * math.Pi * rng.Float64()
	theta := 2 * math.Pi * rng.Float64()

	out := geom.Vec{
		dist * math.Sin(phi) * math.Cos(theta),
		dist * math.Sin(phi) * math.Sin(theta),
		0,
	}
	if a.space.is3D() { out[2] = dist * math.Cos(phi) }
	return out
}

// Die marks the agent as dead and removes it from the agent grid. Later
// calls are ignored.
func (a *Located) Die(cause string) {
	if a.dead { return }
	a.dead, a.cause = true, cause
	a.movement.Reset()
	a.space.Grid.Remove(a)
	a.space.Log.Debugf("Agent %s died (%s).", a.lineage.Name(), cause)
}

// Step runs one outer simulation step: growth, size update, division and
// death. It returns the child if the agent divided.
func (a *Located) Step(dt, now float64, model GrowthModel) (*Located, error) {
	if a.dead { return nil, nil }

	a.Grow(dt, model)
	a.UpdateSize()

	var child *Located
	if a.WillDivide(dt) {
		var err error
		if child, err = a.Divide(now); err != nil { return nil, err }
	}
	if a.WillDie() { a.Die(CauseStarvation) }
	return child, nil
}

// TransferCompounds moves ratio of every compartment of a into b.
func (a *Located) TransferCompounds(b *Located, ratio float64) {
	m := a.Masses()
	floats.Scale(ratio, m)
	floats.Add(b.masses, m)
	floats.Sub(a.masses, m)
	a.UpdateSize()
	b.UpdateSize()
}

// FindCloseSiblings replaces the neighbour list with the agents of the
// given species whose centers are within twice the summed shove radii,
// and returns it.
func (a *Located) FindCloseSiblings(speciesIndex int) []*Located {
	a.collectNeighbours(a.InteractDistance())
	out := a.neighbours[:0]
	for _, nb := range a.neighbours {
		if nb.species.Index != speciesIndex { continue }
		if a.Distance(nb) > 2*(a.ShoveRadius()+nb.ShoveRadius()) { continue }
		out = append(out, nb)
	}
	a.neighbours = out
	return out
}

// PickNeighbour returns a uniformly chosen member of the neighbour list,
// or nil if it is empty.
func (a *Located) PickNeighbour() *Located {
	if len(a.neighbours) == 0 { return nil }
	return a.neighbours[a.space.Rng.IntN(len(a.neighbours))]
}
