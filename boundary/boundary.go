/*package boundary implements the boundary conditions that sit on the sides
of a computational domain. Each side tests whether points are outside it,
corrects agent movements that cross it, classifies the voxels it excludes
and, for periodic sides, folds coordinates back into the domain.
*/
package boundary

import (
	"fmt"

	"github.com/phil-mansfield/shove/geom"
)

const (
	// CauseOverBoard is recorded on agents killed by crossing into a bulk.
	CauseOverBoard = "overBoard"
)

// Movable is the part of an agent a boundary needs in order to correct its
// movement.
type Movable interface {
	Location() geom.Vec
	Movement() geom.Vec
	SetMovement(m geom.Vec)
	TotalRadius() float64
	Die(cause string)
}

// Boundary is one side of a domain. The set of implementations is closed:
// values are only created by New.
type Boundary interface {
	Side() string
	Kind() Kind
	Shape() *geom.Planar

	IsOutside(p geom.Vec) bool
	Distance(p geom.Vec) float64
	OrthoProj(p geom.Vec) geom.Vec
	Intersection(pos, vec geom.Vec) (geom.Vec, bool)

	// LookAt maps a point just outside a periodic side to the equivalent
	// point inside the opposite side. Other sides return p.
	LookAt(p geom.Vec) geom.Vec
	// Classify returns the status of a voxel excluded by this side. ok is
	// false if the side leaves the status untouched.
	Classify() (s Status, ok bool)
	// CorrectMovement rewrites the movement of m and the target it is
	// heading to so that the move no longer crosses this side.
	CorrectMovement(m Movable, target *geom.Vec)

	IsCyclic() bool
	IsSupport() bool
	HasBulk() bool
	IsActiveForSolute() bool

	String() string

	sealed()
}

// side holds the state shared by every boundary kind.
type side struct {
	name string
	kind Kind
	shape *geom.Planar
	activeForSolute bool
}

func (s *side) Side() string { return s.name }
func (s *side) Kind() Kind { return s.kind }
func (s *side) Shape() *geom.Planar { return s.shape }

func (s *side) IsOutside(p geom.Vec) bool { return s.shape.IsOutside(p) }
func (s *side) Distance(p geom.Vec) float64 { return s.shape.Distance(p) }
func (s *side) OrthoProj(p geom.Vec) geom.Vec { return s.shape.OrthoProj(p) }

func (s *side) Intersection(pos, vec geom.Vec) (geom.Vec, bool) {
	return s.shape.Intersection(pos, vec)
}

func (s *side) LookAt(p geom.Vec) geom.Vec { return p }

func (s *side) IsCyclic() bool { return false }
func (s *side) IsSupport() bool { return false }
func (s *side) HasBulk() bool { return false }
func (s *side) IsActiveForSolute() bool { return s.activeForSolute }

func (s *side) String() string {
	return fmt.Sprintf("%s:%s", s.kind, s.name)
}

func (s *side) sealed() { }

// hardBoundary projects target onto the side and pushes it back inside by
// the agent's total radius so that the whole body stays in the domain.
func (s *side) hardBoundary(m Movable, target *geom.Vec) {
	t := s.shape.OrthoProj(*target)
	t.AddSelf(s.shape.NormalInside().Scale(m.TotalRadius()))
	*target = t
	m.SetMovement(t.Sub(m.Location()))
}

// deadlyBoundary kills m and cancels its move.
func (s *side) deadlyBoundary(m Movable, target *geom.Vec, cause string) {
	m.Die(cause)
	m.SetMovement(geom.Vec{})
	*target = m.Location()
}
