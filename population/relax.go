package population

import (
	"math"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/phil-mansfield/shove/agent"
)

// ShoveAllLocated runs relaxation passes until fewer agents than the
// configured fraction of the population are still moving, or until
// maxIter passes have run. fullRelax multiplies maxIter by five. It
// returns the number of agents moving in the last pass and the number of
// passes run, which are also stored in NMoved and ShoveIter.
func (c *Container) ShoveAllLocated(
	fullRelax, shoveOnly bool, maxIter int, gain float64,
) (nMoved, iter int) {
	if fullRelax { maxIter *= 5 }

	limit := int(float64(len(c.agents)) * c.cfg.ShovingFraction)
	if limit < 1 { limit = 1 }

	nMoved = limit
	for nMoved >= limit && iter < maxIter {
		nMoved = c.PerformMove(shoveOnly, c.cfg.Synchronous, gain)
		iter++
	}

	c.NMoved, c.ShoveIter = nMoved, iter
	c.rec.Relaxation(iter, nMoved)
	return nMoved, iter
}

// RelaxGrid fully relaxes a freshly seeded population with two rounds of
// push-only passes. It does nothing in a chemostat.
func (c *Container) RelaxGrid() {
	if c.space.Domain.IsChemostat { return }

	c.Shuffle()
	for i := 0; i < 2; i++ {
		c.ShoveAllLocated(true, true, c.cfg.ShovingMaxIter/2, 1)
	}
	c.RemoveAllDead()
	c.log.Infof(
		"Relaxed %d agents: %d still moving after %d iterations.",
		len(c.agents), c.NMoved, c.ShoveIter,
	)
}

// PerformMove runs one relaxation pass over every agent and returns the
// number of agents whose displacement was at least a tenth of the gain,
// in units of their total radius. A sequential pass moves each agent as
// soon as its neighbours have been seen. A synchronous pass accumulates
// every agent's movement against the same configuration before committing
// any of it.
func (c *Container) PerformMove(
	shoveOnly, synchronous bool, gain float64,
) int {
	threshold := movedFraction * gain
	nMoved := 0

	if !synchronous {
		for _, a := range c.agents {
			d := a.Interact(c.cfg.Mutual, shoveOnly, true, gain)
			if d >= threshold { nMoved++ }
		}
		return nMoved
	}

	c.accumulateAll(shoveOnly, gain)
	for _, a := range c.agents {
		d := a.Move()
		if d >= threshold { nMoved++ }
	}
	return nMoved
}

// accumulateAll accumulates the movement of every agent without moving
// any. Non-mutual passes are split across Workers goroutines, each with
// its own generator seeded from the shared one.
func (c *Container) accumulateAll(shoveOnly bool, gain float64) {
	workers := c.cfg.Workers
	if c.cfg.Mutual || workers < 2 || len(c.agents) < workers {
		for _, a := range c.agents {
			a.Accumulate(c.cfg.Mutual, shoveOnly, gain, c.space.Rng)
		}
		return
	}

	chunk := int(math.Ceil(float64(len(c.agents)) / float64(workers)))
	g := new(errgroup.Group)
	g.SetLimit(workers)
	for start := 0; start < len(c.agents); start += chunk {
		end := min(start+chunk, len(c.agents))
		agents := c.agents[start:end]
		rng := rand.New(rand.NewPCG(c.space.Rng.Uint64(), c.space.Rng.Uint64()))

		g.Go(func() error {
			for _, a := range agents {
				a.Accumulate(false, shoveOnly, gain, rng)
			}
			return nil
		})
	}
	g.Wait()
}

// Overlaps returns the number of pairs of living agents whose shove radii
// overlap by more than tol.
func (c *Container) Overlaps(tol float64) int {
	n := 0
	for i, a := range c.agents {
		if a.IsDead() { continue }
		for _, b := range c.agents[i+1:] {
			if b.IsDead() { continue }
			if overlap(a, b) > tol { n++ }
		}
	}
	return n
}

func overlap(a, b *agent.Located) float64 {
	return a.ShoveRadius() + b.ShoveRadius() - a.Distance(b)
}
