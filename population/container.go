/*package population owns the list of living agents. It hands out family
numbers, records births and deaths, steps every agent through growth and
division, and drives the shoving relaxation that keeps agents from
overlapping.
*/
package population

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/shove/agent"
	"github.com/phil-mansfield/shove/geom"
	"github.com/phil-mansfield/shove/logging"
)

const (
	// stepShoveIter caps the relaxation run after each agent sub-step.
	stepShoveIter = 15
	// movedFraction is the normalized displacement, in units of the gain,
	// above which an agent counts as having moved.
	movedFraction = 0.1
)

// Config holds the relaxation and dilution settings of a Container.
type Config struct {
	// ShovingFraction is the fraction of agents that may still be moving
	// when a relaxation run is considered converged.
	ShovingFraction float64
	ShovingMaxIter int
	Mutual bool
	// Synchronous accumulates every agent's movement before committing
	// any of it.
	Synchronous bool
	// Workers is the number of goroutines used to accumulate non-mutual
	// synchronous passes. Values below 2 keep the pass sequential.
	Workers int
	// DilutionRate is the chemostat dilution rate. Zero disables it.
	DilutionRate float64
}

// DefaultConfig returns the settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		ShovingFraction: 0.025, ShovingMaxIter: 250, Mutual: true,
		Workers: 1,
	}
}

// Recorder receives the counts produced by a Container.
type Recorder interface {
	Relaxation(iterations, moved int)
	Birth(species string)
	Death(species, cause string)
	Population(n int)
}

type noOpRecorder struct{}

func (noOpRecorder) Relaxation(iterations, moved int) {}
func (noOpRecorder) Birth(species string) {}
func (noOpRecorder) Death(species, cause string) {}
func (noOpRecorder) Population(n int) {}

// Container is the population of located agents.
type Container struct {
	space *agent.Space
	builder agent.Builder
	cfg Config
	rec Recorder
	log logging.Logger

	agents []*agent.Located
	nextFamily int
	dilutionTally float64

	// ShoveIter and NMoved describe the last relaxation run.
	ShoveIter, NMoved int
}

// New returns an empty Container. rec may be nil.
func New(space *agent.Space, cfg Config, rec Recorder) (*Container, error) {
	if cfg.ShovingFraction < 0 || cfg.ShovingFraction > 1 {
		return nil, fmt.Errorf(
			"ShovingFraction must be in [0, 1], but is %g.",
			cfg.ShovingFraction,
		)
	} else if cfg.ShovingMaxIter <= 0 {
		return nil, fmt.Errorf(
			"ShovingMaxIter must be positive, but is %d.", cfg.ShovingMaxIter,
		)
	} else if cfg.DilutionRate < 0 {
		return nil, fmt.Errorf(
			"DilutionRate must be non-negative, but is %g.", cfg.DilutionRate,
		)
	}
	if rec == nil { rec = noOpRecorder{} }

	return &Container{
		space: space, builder: agent.Builder{ Space: space },
		cfg: cfg, rec: rec, log: logging.Or(space.Log),
	}, nil
}

// Agents returns the agent list. Dead agents stay in it until
// RemoveAllDead is called.
func (c *Container) Agents() []*agent.Located { return c.agents }

// Len returns the number of agents in the list.
func (c *Container) Len() int { return len(c.agents) }

// NextFamily returns a family number that has not been handed out yet.
func (c *Container) NextFamily() int {
	f := c.nextFamily
	c.nextFamily++
	return f
}

// AddProgenitor creates the founder of a new family and adds it to the
// population.
func (c *Container) AddProgenitor(
	p *agent.Param, loc geom.Vec, masses []float64, now float64,
) (*agent.Located, error) {
	a, err := c.builder.Progenitor(p, c.NextFamily(), loc, masses, now)
	if err != nil { return nil, err }
	c.RegisterBirth(a)
	return a, nil
}

// RegisterBirth adds a to the population.
func (c *Container) RegisterBirth(a *agent.Located) {
	c.agents = append(c.agents, a)
	c.rec.Birth(a.Species().Name)
}

// RegisterDeath kills a. It stays in the agent list until RemoveAllDead.
func (c *Container) RegisterDeath(a *agent.Located, cause string) {
	a.Die(cause)
}

// RemoveAllDead drops every dead agent from the list and returns how many
// there were.
func (c *Container) RemoveAllDead() int {
	alive := c.agents[:0]
	n := 0
	for _, a := range c.agents {
		if a.IsDead() {
			n++
			c.rec.Death(a.Species().Name, a.DeathCause())
			continue
		}
		alive = append(alive, a)
	}
	for i := len(alive); i < len(c.agents); i++ { c.agents[i] = nil }
	c.agents = alive
	c.rec.Population(len(c.agents))
	return n
}

// Shuffle randomizes the order agents are visited in.
func (c *Container) Shuffle() {
	c.space.Rng.Shuffle(len(c.agents), func(i, j int) {
		c.agents[i], c.agents[j] = c.agents[j], c.agents[i]
	})
}

// RefreshGroups recomputes the status and statistics of every voxel.
func (c *Container) RefreshGroups() { c.space.Grid.RefreshGroups() }

// StepStats summarizes one call to Step.
type StepStats struct {
	Agents, Born, Dead int
	ShoveIter, Moved int
}

// Step advances every agent by dt, starting at time now. The step is
// split into sub-steps no longer than the agent time step; each one grows
// and divides the agents, dilutes a chemostat, removes the dead and
// relaxes briefly. A full relaxation run follows the last sub-step.
func (c *Container) Step(
	dt, now float64, model agent.GrowthModel,
) (StepStats, error) {
	stats := StepStats{ Agents: len(c.agents) }
	chemostat := c.space.Domain.IsChemostat

	nSub := 1
	if ts := c.space.AgentTimeStep; ts > 0 && ts < dt {
		nSub = int(math.Ceil(dt/ts - 1e-9))
	}
	h := dt / float64(nSub)

	c.Shuffle()
	for sub := 1; sub <= nSub; sub++ {
		elapsed := h * float64(sub)

		n := len(c.agents)
		for i := 0; i < n; i++ {
			child, err := c.agents[i].Step(h, now+elapsed, model)
			if err != nil { return stats, err }
			if child != nil { c.RegisterBirth(child) }
		}
		stats.Born += len(c.agents) - n

		c.Shuffle()
		if chemostat { c.AgentFlushedAway(h) }
		stats.Dead += c.RemoveAllDead()

		if !chemostat { c.ShoveAllLocated(false, true, stepShoveIter, 1) }
	}

	if !chemostat {
		c.ShoveAllLocated(false, true, c.cfg.ShovingMaxIter, 1)
		c.log.Infof(
			"%d/%d agents moving after %d shove iterations.",
			c.NMoved, len(c.agents), c.ShoveIter,
		)
		c.RefreshGroups()
	}
	stats.Dead += c.RemoveAllDead()
	stats.ShoveIter, stats.Moved = c.ShoveIter, c.NMoved

	c.log.Infof(
		"Agents stepped/dead/born: %d/%d/%d",
		stats.Agents, stats.Dead, stats.Born,
	)
	return stats, nil
}

// AgentFlushedAway kills the fraction of the population washed out of a
// chemostat over dt. The fractional part of the expected count is carried
// over to the next call.
func (c *Container) AgentFlushedAway(dt float64) int {
	if c.cfg.DilutionRate <= 0 { return 0 }

	c.Shuffle()
	expected := c.cfg.DilutionRate*dt*float64(len(c.agents)) + c.dilutionTally
	n := int(math.Floor(expected))
	c.dilutionTally = expected - float64(n)
	if n > len(c.agents) { n = len(c.agents) }

	for _, a := range c.agents[:n] { a.Die(agent.CauseDilution) }
	return n
}
