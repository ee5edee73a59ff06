package agent

import (
	"fmt"
)

// maxGeneration is the number of divisions a genealogy can record before
// its bits wrap around.
const maxGeneration = 64

// Lineage identifies an agent within its family tree. Genealogy is the
// binary path from the family's progenitor: a child's genealogy is its
// parent's with the bit for the parent's generation set.
type Lineage struct {
	Family int
	Genealogy uint64
	Generation int
	Birthday float64
}

// Name returns the "family-genealogy" label used in logs.
func (l Lineage) Name() string {
	return fmt.Sprintf("%d-%d", l.Family, l.Genealogy)
}

// child advances l by one generation and returns the lineage of the child
// born at time now. ok is false if the genealogy has wrapped around.
func (l *Lineage) child(now float64) (c Lineage, ok bool) {
	c = Lineage{ Family: l.Family, Birthday: now }
	ok = l.Generation < maxGeneration
	c.Genealogy = l.Genealogy + (uint64(1) << uint(l.Generation%maxGeneration))
	l.Generation++
	c.Generation = l.Generation
	return c, ok
}
