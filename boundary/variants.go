package boundary

import (
	"github.com/phil-mansfield/shove/geom"
)

// cyclicSide is one half of a periodic pair. opp is the shape of the
// partner side.
type cyclicSide struct {
	side
	opp *geom.Planar
}

func (c *cyclicSide) IsCyclic() bool { return true }

// symmetric returns the image of p on the opposite side, found by walking
// from p along this side's inward normal.
func (c *cyclicSide) symmetric(p geom.Vec) (geom.Vec, bool) {
	return c.opp.Intersection(p, c.shape.NormalInside())
}

func (c *cyclicSide) LookAt(p geom.Vec) geom.Vec {
	n, ok := c.shape.Intersection(p, c.shape.NormalInside())
	if !ok { return p }
	b, ok := c.symmetric(n)
	if !ok { return p }
	return p.Add(b.Sub(n))
}

func (c *cyclicSide) Classify() (Status, bool) { return StatusOutside, true }

func (c *cyclicSide) CorrectMovement(m Movable, target *geom.Vec) {
	loc := m.Location()
	crossing, ok := c.shape.Intersection(loc, m.Movement())
	if !ok { return }
	residual := target.Sub(crossing)
	image, ok := c.symmetric(crossing)
	if !ok { return }
	*target = image.Add(residual)
	m.SetMovement(target.Sub(loc))
}

// bulkSide is a side connected to a well-mixed bulk liquid. Agents that
// cross it are washed away.
type bulkSide struct {
	side
	bulk string
	hasBulk bool
}

func (b *bulkSide) HasBulk() bool { return b.hasBulk }

// BulkName returns the name of the bulk compartment the side is connected
// to.
func (b *bulkSide) BulkName() string { return b.bulk }

func (b *bulkSide) Classify() (Status, bool) { return StatusBulk, true }

func (b *bulkSide) CorrectMovement(m Movable, target *geom.Vec) {
	b.deadlyBoundary(m, target, CauseOverBoard)
}

// solidSide is an impermeable substratum. Agents are reflected back inside.
type solidSide struct {
	side
}

func (s *solidSide) IsSupport() bool { return true }

func (s *solidSide) Classify() (Status, bool) { return StatusCarrier, true }

func (s *solidSide) CorrectMovement(m Movable, target *geom.Vec) {
	s.hardBoundary(m, target)
}

// membraneSide is a substratum that lets selected solutes through from a
// connected bulk. Agents see it as a solid side.
type membraneSide struct {
	solidSide
	bulk string
	permeability map[string]float64
}

// BulkName returns the name of the bulk compartment behind the membrane.
func (mb *membraneSide) BulkName() string { return mb.bulk }

// PermeableTo returns the membrane permeability for a solute and whether
// the solute crosses the membrane at all.
func (mb *membraneSide) PermeableTo(solute string) (float64, bool) {
	p, ok := mb.permeability[solute]
	return p, ok
}

// agarSide is a gel substratum. It supports agents but does not
// reclassify the voxels it excludes.
type agarSide struct {
	side
}

func (a *agarSide) IsSupport() bool { return true }

func (a *agarSide) Classify() (Status, bool) { return StatusOutside, false }

func (a *agarSide) CorrectMovement(m Movable, target *geom.Vec) {
	a.hardBoundary(m, target)
}

// Connected is implemented by sides linked to a bulk compartment.
type Connected interface {
	BulkName() string
}

// Permeable is implemented by gas membranes.
type Permeable interface {
	PermeableTo(solute string) (float64, bool)
}
