package geom

// Grid provides an interface for reasoning over a 1D slice as if it were a
// 3D grid. Padded grids use an origin of -1 so that a band of ghost cells
// surrounds the interior.
type Grid struct {
	Origin, Width DVec
	Length, Area, Volume int
	uBounds DVec
}

// NewGrid returns a new Grid instance.
func NewGrid(origin, width DVec) *Grid {
	g := &Grid{}
	g.Init(origin, width)
	return g
}

// NewPaddedGrid returns a Grid covering the n[0] x n[1] x n[2] interior
// cells plus one ghost cell on every side.
func NewPaddedGrid(n DVec) *Grid {
	return NewGrid(DVec{-1, -1, -1}, DVec{n[0] + 2, n[1] + 2, n[2] + 2})
}

// Init initializes a Grid instance.
func (g *Grid) Init(origin, width DVec) {
	g.Origin = origin
	g.Width = width

	g.Length = width[0]
	g.Area = width[0] * width[1]
	g.Volume = width[0] * width[1] * width[2]

	for i := 0; i < 3; i++ {
		g.uBounds[i] = g.Origin[i] + g.Width[i]
	}
}

// Idx returns the grid index corresponding to a set of coordinates.
func (g *Grid) Idx(x, y, z int) int {
	return ((x - g.Origin[0]) + (y-g.Origin[1])*g.Length +
		(z-g.Origin[2])*g.Area)
}

// IdxCheck returns an index and true if the given coordinate are valid and
// false otherwise.
func (g *Grid) IdxCheck(x, y, z int) (idx int, ok bool) {
	if !g.BoundsCheck(x, y, z) {
		return -1, false
	}

	return g.Idx(x, y, z), true
}

// BoundsCheck returns true if the given coordinates are within the Grid and
// false otherwise.
func (g *Grid) BoundsCheck(x, y, z int) bool {
	return (g.Origin[0] <= x && g.Origin[1] <= y && g.Origin[2] <= z) &&
		(x < g.uBounds[0] && y < g.uBounds[1] &&
			z < g.uBounds[2])
}

// Coords returns the x, y, z coordinates of a point from its grid index.
func (g *Grid) Coords(idx int) (x, y, z int) {
	x = idx%g.Length + g.Origin[0]
	y = (idx%g.Area)/g.Length + g.Origin[1]
	z = idx/g.Area + g.Origin[2]
	return x, y, z
}

// DVecIdx is Idx for a DVec.
func (g *Grid) DVecIdx(dc DVec) (idx int, ok bool) {
	return g.IdxCheck(dc[0], dc[1], dc[2])
}

// DVec returns the coordinates of a grid index as a DVec.
func (g *Grid) DVec(idx int) DVec {
	x, y, z := g.Coords(idx)
	return DVec{x, y, z}
}
