package agent

import (
	"math"
	"math/rand/v2"

	"github.com/phil-mansfield/shove/geom"
)

const (
	// attachmentGain is the stiffness of the spring tying an attached
	// agent to its support.
	attachmentGain = 0.1
	// springDecay sets how quickly spring gain falls off with the gap,
	// in units of total radius.
	springDecay = 5.0
)

// Interact runs one relaxation pass for the agent: it commits the movement
// left over from the previous pass, gathers its neighbours and accumulates
// a push (shoveOnly) or spring movement against each of them. If seq is
// set, the new movement is committed immediately and Move's return value
// is passed through. Otherwise Interact returns 0 and the movement waits
// for the next pass or an explicit Move.
func (a *Located) Interact(mutual, shoveOnly, seq bool, gain float64) float64 {
	a.Move()
	if a.dead { return 0 }

	a.accumulate(mutual, shoveOnly, gain, a.space.Rng)

	if seq { return a.Move() }
	return 0
}

// Accumulate adds the push or spring movement of every neighbour to the
// pending movements without committing anything. Without mutual it only
// writes to the agent itself, so different agents may accumulate
// concurrently as long as nothing is moving. rng is used only for
// coincident neighbours and must not be shared between goroutines.
func (a *Located) Accumulate(
	mutual, shoveOnly bool, gain float64, rng *rand.Rand,
) {
	if a.dead { return }
	a.accumulate(mutual, shoveOnly, gain, rng)
}

func (a *Located) accumulate(
	mutual, shoveOnly bool, gain float64, rng *rand.Rand,
) {
	dist := a.InteractDistance()
	if !shoveOnly { dist += a.ShoveRadius() }
	a.collectNeighbours(dist)

	for _, nb := range a.neighbours {
		if shoveOnly {
			a.push(nb, mutual, gain, rng)
		} else {
			a.spring(nb, mutual, gain, rng)
		}
	}
	a.neighbours = a.neighbours[:0]
}

// collectNeighbours replaces the neighbour list with every other living
// agent in the voxels within dist.
func (a *Located) collectNeighbours(dist float64) {
	a.neighbours = a.neighbours[:0]
	if a.gridIndex < 0 { return }
	for _, r := range a.space.Grid.PotentialShovers(a.gridIndex, dist) {
		nb, ok := r.(*Located)
		if !ok || nb == a || nb.dead { continue }
		a.neighbours = append(a.neighbours, nb)
	}
}

// Neighbours returns the neighbour list built by the last call that
// gathered one.
func (a *Located) Neighbours() []*Located { return a.neighbours }

// separation returns the unit vector from nb to a and their distance.
func (a *Located) separation(
	nb *Located, rng *rand.Rand,
) (geom.Vec, float64) {
	return a.space.Domain.Periodicity().Separation(
		a.location, nb.location, a.radius, rng,
	)
}

// AddPushMovement shoves the agent away from nb if their shove radii
// overlap. The movement has magnitude gain times the overlap and is split
// evenly between the two agents when mutual is set. It returns true if
// the agents overlapped.
func (a *Located) AddPushMovement(nb *Located, mutual bool, gain float64) bool {
	return a.push(nb, mutual, gain, a.space.Rng)
}

func (a *Located) push(
	nb *Located, mutual bool, gain float64, rng *rand.Rand,
) bool {
	if nb == a { return false }

	dir, d := a.separation(nb, rng)
	gap := d - (a.ShoveRadius() + nb.ShoveRadius() + a.species.ShoveLimit)
	if gap > 0 { return false }

	if mutual {
		step := dir.Scale(gain * 0.5 * math.Abs(gap))
		a.movement.AddSelf(step)
		nb.movement.SubSelf(step)
	} else {
		a.movement.AddSelf(dir.Scale(math.Abs(gain * gap)))
	}
	return true
}

// AddSpringMovement pulls the agent towards nb (or pushes it away, if
// they overlap) in proportion to the gap between their shove radii. The
// gain decays exponentially with the gap and vanishes once the gap exceeds
// the total radius. It returns true if the resulting movement is larger
// than the radius times the gain.
func (a *Located) AddSpringMovement(nb *Located, mutual bool, gain float64) bool {
	return a.spring(nb, mutual, gain, a.space.Rng)
}

func (a *Located) spring(
	nb *Located, mutual bool, gain float64, rng *rand.Rand,
) bool {
	if nb == a { return false }

	dir, d := a.separation(nb, rng)
	delta := d - (a.ShoveRadius() + nb.ShoveRadius() + a.species.ShoveLimit)

	lMax := a.totalRadius
	if delta > 0 { gain *= math.Exp(-delta * springDecay / lMax) }
	if delta > lMax { gain = 0 }

	if mutual {
		step := dir.Scale(-0.5 * delta * gain)
		a.movement.AddSelf(step)
		nb.movement.SubSelf(step)
	} else {
		a.movement.AddSelf(dir.Scale(-delta * gain))
	}
	return a.movement.Norm() > a.radius*gain
}

// AddSpringAttachment pulls an attached agent back towards its nearest
// support so that it rests one shove radius away from it. Relaxation passes
// never apply it. It returns true if the resulting movement is more than a
// tenth of the radius.
func (a *Located) AddSpringAttachment() bool {
	return a.springAttachment(a.space.Rng)
}

func (a *Located) springAttachment(rng *rand.Rand) bool {
	support := a.updateAttachment()
	if support == nil { return false }

	dir, d := a.space.Domain.Periodicity().Separation(
		a.location, support.OrthoProj(a.location), a.radius, rng,
	)
	delta := d - a.ShoveRadius()

	gain := attachmentGain
	if delta > a.totalRadius { gain = 0 }

	a.movement.AddSelf(dir.Scale(-delta * gain))
	return a.movement.Norm() > a.radius*attachmentGain
}

// Move commits the pending movement. Non-finite movements, and movements
// out of the plane of a 2D domain, are logged and dropped. The target is
// corrected by every boundary it crosses, the agent is re-registered with
// the agent grid and the movement is reset. Move returns the distance
// actually travelled in units of total radius, and 0 without touching the
// grid if there was nothing to move.
func (a *Located) Move() float64 {
	if a.dead {
		a.movement.Reset()
		return 0
	}

	if !a.movement.IsValid() {
		a.space.Log.Warnf(
			"Incorrect movement %v of agent %s.",
			a.movement, a.lineage.Name(),
		)
		a.movement.Reset()
	}
	if !a.space.is3D() && a.movement[2] != 0 {
		a.space.Log.Warnf(
			"Agent %s tried to move by %g along z in a 2D domain.",
			a.lineage.Name(), a.movement[2],
		)
		a.movement.Reset()
	}

	if a.movement.IsZero() { return 0 }

	old := a.location
	target := a.CheckBoundaries()
	if a.dead {
		a.movement.Reset()
		return 0
	}

	a.location = target
	a.space.Grid.RegisterMove(a)
	a.movement.Reset()

	_, d := a.space.Domain.Difference(a.location, old)
	if a.totalRadius <= 0 { return d }
	return d / a.totalRadius
}

// CheckBoundaries returns the target of the pending movement after every
// boundary it crosses has corrected it. At most one more correction than
// the domain has dimensions is applied. Past that the last target is kept
// and the anomaly is logged.
func (a *Located) CheckBoundaries() geom.Vec {
	target := a.location.Add(a.movement)
	maxCorrections := a.space.Domain.Dims() + 1

	for n := 0; !a.dead; n++ {
		b := a.space.Domain.TestCrossedBoundary(target)
		if b == nil { break }
		if n >= maxCorrections {
			a.space.Log.Warnf(
				"Agent %s still crosses %s at %v after %d corrections.",
				a.lineage.Name(), b, target, n,
			)
			break
		}
		b.CorrectMovement(a, &target)
	}
	return target
}
