package boundary

import (
	"fmt"
	"strings"

	"github.com/phil-mansfield/shove/geom"
)

// Spec describes one configured side. OppPointIn and OppVectorOut are only
// read for Cyclic sides, Bulk for sides connected to a bulk, and
// Permeability for GasMembrane sides.
type Spec struct {
	Side string
	PointIn, VectorOut geom.DVec
	OppPointIn, OppVectorOut geom.DVec
	Resolution float64
	Is3D bool

	Bulk string
	Permeability map[string]float64
}

// New builds the boundaries described by spec. Cyclic specs yield the
// configured side followed by its partner; every other kind yields a single
// side.
func New(kind Kind, spec *Spec) ([]Boundary, error) {
	if spec.Resolution <= 0 {
		return nil, fmt.Errorf(
			"Boundary '%s' needs a positive resolution, but was given %g.",
			spec.Side, spec.Resolution,
		)
	} else if spec.VectorOut == (geom.DVec{}) {
		return nil, fmt.Errorf(
			"Boundary '%s' needs a non-zero VectorOut.", spec.Side,
		)
	}

	shape := geom.NewPlanar(spec.PointIn, spec.VectorOut, spec.Resolution)
	base := side{
		name: spec.Side, kind: kind, shape: shape, activeForSolute: true,
	}

	switch kind {
	case Cyclic:
		if spec.OppVectorOut == (geom.DVec{}) {
			return nil, fmt.Errorf(
				"Cyclic boundary '%s' needs an OppVectorOut.", spec.Side,
			)
		} else if !strings.Contains(spec.Side, "0") {
			return nil, fmt.Errorf(
				"Cyclic boundary '%s' must be declared on its low side "+
					"(e.g. y0z), its partner is created automatically.",
				spec.Side,
			)
		}
		opp := geom.NewPlanar(
			spec.OppPointIn, spec.OppVectorOut, spec.Resolution,
		)
		if !spec.Is3D && strings.Contains(spec.Side, "x0y") {
			base.activeForSolute = false
		}
		c := &cyclicSide{ side: base, opp: opp }
		return []Boundary{ c, c.otherSide() }, nil
	case Bulk:
		return []Boundary{
			&bulkSide{ side: base, bulk: spec.Bulk, hasBulk: true },
		}, nil
	case Constant:
		return []Boundary{ &bulkSide{ side: base, bulk: spec.Bulk } }, nil
	case ZeroFlux:
		return []Boundary{ &solidSide{ base } }, nil
	case GasMembrane:
		perm := map[string]float64{}
		for solute, p := range spec.Permeability { perm[solute] = p }
		return []Boundary{
			&membraneSide{
				solidSide: solidSide{ base },
				bulk: spec.Bulk, permeability: perm,
			},
		}, nil
	case Agar:
		return []Boundary{ &agarSide{ base } }, nil
	}

	return nil, fmt.Errorf(
		"Boundary '%s' has unrecognized kind %d.", spec.Side, int(kind),
	)
}

// otherSide returns the partner of c: the shapes swap roles and the side
// name has its first '0' replaced with 'N'.
func (c *cyclicSide) otherSide() *cyclicSide {
	out := &cyclicSide{ side: c.side, opp: c.shape }
	out.shape = c.opp
	out.name = strings.Replace(c.name, "0", "N", 1)
	return out
}
