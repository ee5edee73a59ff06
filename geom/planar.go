package geom

// Planar is an infinite plane defined by a point on it and its outward
// normal. Points on the normal's side of the plane are outside.
type Planar struct {
	PointIn, VectorOut Vec
	DCIn, DCOut DVec
}

// NewPlanar returns a plane built from grid coordinates. pointIn is the
// first cell outside the domain and vectorOut points away from it.
func NewPlanar(pointIn, vectorOut DVec, res float64) *Planar {
	p := &Planar{}
	p.Init(pointIn, vectorOut, res)
	return p
}

// Init initializes a Planar instance. The continuous anchor lies on the
// face of the pointIn cell that touches the domain.
func (p *Planar) Init(pointIn, vectorOut DVec, res float64) {
	p.DCIn, p.DCOut = pointIn, vectorOut
	for i := 0; i < 3; i++ {
		// Integer division is intentional: only an inward-facing -1
		// shifts the anchor by a full cell.
		p.PointIn[i] = float64(pointIn[i] + (1-vectorOut[i])/2) * res
		p.VectorOut[i] = float64(vectorOut[i])
	}
}

// IsOutside returns true if v lies strictly on the outer side of the plane.
func (p *Planar) IsOutside(v Vec) bool {
	return p.VectorOut.CosAngle(v.Sub(p.PointIn)) > 0
}

// IsOnOrOutside returns true if v lies on the plane or on its outer side.
func (p *Planar) IsOnOrOutside(v Vec) bool {
	return p.VectorOut.Dot(v.Sub(p.PointIn)) >= 0
}

// Intersection returns the point where the line through pos with direction
// vec meets the plane. ok is false when the line is parallel to the plane.
func (p *Planar) Intersection(pos, vec Vec) (out Vec, ok bool) {
	nv := p.VectorOut.Dot(vec)
	if nv == 0 { return Vec{}, false }
	d := -p.VectorOut.Dot(p.PointIn)
	k := (-d - p.VectorOut.Dot(pos)) / nv
	return pos.Add(vec.Scale(k)), true
}

// OrthoProj returns the orthogonal projection of v onto the plane.
func (p *Planar) OrthoProj(v Vec) Vec {
	n := p.VectorOut
	d := -n.Dot(p.PointIn)
	k := -(d + n.Dot(v)) / n.Dot(n)
	return v.Add(n.Scale(k))
}

// NormalInside returns the unit normal pointing into the domain.
func (p *Planar) NormalInside() Vec {
	return p.VectorOut.Scale(-1).Normalize()
}

// NormalOutside returns the unit normal pointing out of the domain.
func (p *Planar) NormalOutside() Vec {
	return p.VectorOut.Normalize()
}

// Distance returns the distance from v to the plane.
func (p *Planar) Distance(v Vec) float64 {
	out, ok := p.Intersection(v, p.VectorOut)
	if !ok { return 0 }
	return out.Sub(v).Norm()
}

// DistanceTo returns the distance between p and a parallel plane, measured
// from p's anchor along p's outward normal.
func (p *Planar) DistanceTo(other *Planar) float64 {
	out, ok := other.Intersection(p.PointIn, p.VectorOut)
	if !ok { return 0 }
	return out.Sub(p.PointIn).Norm()
}

// IsOnBoundary returns true if v is outside the plane but within res of it.
func (p *Planar) IsOnBoundary(v Vec, res float64) bool {
	return p.IsOutside(v) && v.Sub(p.OrthoProj(v)).Norm() <= res
}

// Axis returns the index of the axis the plane is normal to, or -1 if the
// plane is not axis aligned.
func (p *Planar) Axis() int {
	axis := -1
	for i := 0; i < 3; i++ {
		if p.DCOut[i] == 0 { continue }
		if axis != -1 { return -1 }
		axis = i
	}
	return axis
}
