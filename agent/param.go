/*package agent implements located agents: spherical (or, in 2D, cylindrical)
organisms with a position, a mass split across particle compartments and a
pending movement that is accumulated by pairwise shoving and committed
through the domain's boundary conditions.
*/
package agent

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Param holds the species-level parameters shared by every agent of a
// species.
type Param struct {
	Name string
	Index int

	DivRadius, DivRadiusCV float64
	DeathRadius, DeathRadiusCV float64
	BabyMassFrac, BabyMassFracCV float64
	ShoveFactor, ShoveLimit float64

	// Densities has one entry per particle compartment. If Capsule is set,
	// the last compartment is the capsule and only counts towards the
	// total volume and radius.
	Densities []float64
	Capsule bool

	// GrowthRates are per-compartment specific rates used by ConstantRate.
	GrowthRates []float64
}

// DefaultParam returns the parameters of a species with one compartment of
// unit density.
func DefaultParam(name string, index int) *Param {
	return &Param{
		Name: name, Index: index,
		DivRadius: 0.97, DivRadiusCV: 0.1,
		DeathRadius: 0.2, DeathRadiusCV: 0.1,
		BabyMassFrac: 0.5, BabyMassFracCV: 0.1,
		ShoveFactor: 1.15, ShoveLimit: 0,
		Densities: []float64{ 1 },
	}
}

// Compartments returns the number of particle compartments.
func (p *Param) Compartments() int { return len(p.Densities) }

// Validate returns an error describing the first invalid parameter.
func (p *Param) Validate() error {
	switch {
	case len(p.Densities) == 0:
		return fmt.Errorf("Species '%s' has no particle Density.", p.Name)
	case p.Capsule && len(p.Densities) < 2:
		return fmt.Errorf(
			"Species '%s' has a Capsule, so it needs at least two particle "+
				"Densities.", p.Name,
		)
	case p.ShoveFactor <= 0:
		return fmt.Errorf(
			"ShoveFactor of species '%s' must be positive, but is %g.",
			p.Name, p.ShoveFactor,
		)
	case p.DivRadius <= p.DeathRadius:
		return fmt.Errorf(
			"DivRadius of species '%s' is %g, which is not larger than "+
				"its DeathRadius %g.", p.Name, p.DivRadius, p.DeathRadius,
		)
	case len(p.GrowthRates) > len(p.Densities):
		return fmt.Errorf(
			"Species '%s' has %d GrowthRate values for %d compartments.",
			p.Name, len(p.GrowthRates), len(p.Densities),
		)
	}

	for i, rho := range p.Densities {
		if rho <= 0 {
			return fmt.Errorf(
				"Density %d of species '%s' must be positive, but is %g.",
				i, p.Name, rho,
			)
		}
	}
	for _, x := range []float64{
		p.DivRadiusCV, p.DeathRadiusCV, p.BabyMassFracCV, p.ShoveLimit,
	} {
		if x < 0 {
			return fmt.Errorf(
				"Species '%s' has a negative CV or ShoveLimit (%g).",
				p.Name, x,
			)
		}
	}
	return nil
}

// MaximumRadius is the largest division radius a draw is likely to give.
func (p *Param) MaximumRadius() float64 {
	return p.DivRadius * (1 + p.DivRadiusCV)
}

// DrawDivRadius samples a division radius for one agent.
func (p *Param) DrawDivRadius(rng *rand.Rand) float64 {
	return DeviateFrom(p.DivRadius, p.DivRadiusCV, rng)
}

// DrawDeathRadius samples a death radius for one agent.
func (p *Param) DrawDeathRadius(rng *rand.Rand) float64 {
	return DeviateFrom(p.DeathRadius, p.DeathRadiusCV, rng)
}

// DrawBabyMassFrac samples the fraction of mass given to a child.
func (p *Param) DrawBabyMassFrac(rng *rand.Rand) float64 {
	return DeviateFrom(p.BabyMassFrac, p.BabyMassFracCV, rng)
}

// DeviateFrom returns mu perturbed by a relative deviation of cv. The
// deviate is mu (1 + cv N), where N is a standard normal truncated to
// [-2, 2], and it is redrawn until it has the same sign as mu. mu is
// returned unchanged if mu or cv is zero.
func DeviateFrom(mu, cv float64, rng *rand.Rand) float64 {
	if mu == 0 || cv == 0 { return mu }

	for {
		out := mu * (1 + cv*truncatedNormal(rng))
		if math.Signbit(out) == math.Signbit(mu) && out != 0 {
			return out
		}
	}
}

func truncatedNormal(rng *rand.Rand) float64 {
	for {
		n := rng.NormFloat64()
		if math.Abs(n) <= 2 { return n }
	}
}
