package boundary

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/shove/geom"
)

type mover struct {
	loc, move geom.Vec
	radius float64
	cause string
}

func (m *mover) Location() geom.Vec { return m.loc }
func (m *mover) Movement() geom.Vec { return m.move }
func (m *mover) SetMovement(v geom.Vec) { m.move = v }
func (m *mover) TotalRadius() float64 { return m.radius }
func (m *mover) Die(cause string) { m.cause = cause }

func vecEq(t *testing.T, expected, actual geom.Vec) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, expected[i], actual[i], 1e-9,
			"component %d of %v vs %v", i, expected, actual)
	}
}

// xPair returns the periodic pair of sides normal to x for a domain of
// n cells of width res.
func xPair(t *testing.T, n int, res float64) (low, high Boundary) {
	bs, err := New(Cyclic, &Spec{
		Side: "y0z", Resolution: res, Is3D: true,
		PointIn: geom.DVec{-1, 0, 0}, VectorOut: geom.DVec{-1, 0, 0},
		OppPointIn: geom.DVec{n, 0, 0}, OppVectorOut: geom.DVec{1, 0, 0},
	})
	require.NoError(t, err)
	require.Len(t, bs, 2)
	return bs[0], bs[1]
}

func TestKindFromString(t *testing.T) {
	table := []struct{
		name string
		kind Kind
		ok bool
	} {
		{"BoundaryCyclic", Cyclic, true},
		{"bulk", Bulk, true},
		{"BoundaryConstant", Constant, true},
		{"zeroflux", ZeroFlux, true},
		{"BoundaryGasMembrane", GasMembrane, true},
		{"Agar", Agar, true},
		{"BoundaryEpithelium", Cyclic, false},
	}

	for i, test := range table {
		k, ok := KindFromString(test.name)
		if ok != test.ok || (ok && k != test.kind) {
			t.Errorf("%d) KindFromString(%q) = %v, %v", i, test.name, k, ok)
		}
	}

	for k := Kind(0); k < EndKind; k++ {
		parsed, ok := KindFromString(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, parsed)
	}
}

func TestCyclicPair(t *testing.T) {
	low, high := xPair(t, 10, 1)

	assert.Equal(t, "y0z", low.Side())
	assert.Equal(t, "yNz", high.Side())
	assert.True(t, low.IsCyclic())
	assert.True(t, high.IsCyclic())
	assert.False(t, low.IsSupport())

	s, ok := high.Classify()
	assert.True(t, ok)
	assert.Equal(t, StatusOutside, s)

	assert.True(t, high.IsOutside(geom.Vec{10.5, 5, 5}))
	assert.False(t, high.IsOutside(geom.Vec{9.5, 5, 5}))
	assert.True(t, low.IsOutside(geom.Vec{-0.5, 5, 5}))

	vecEq(t, geom.Vec{0.5, 5, 5}, high.LookAt(geom.Vec{10.5, 5, 5}))
	vecEq(t, geom.Vec{9.5, 5, 5}, low.LookAt(geom.Vec{-0.5, 5, 5}))
}

func TestCyclicCorrectMovement(t *testing.T) {
	_, high := xPair(t, 10, 1)

	m := &mover{loc: geom.Vec{9.9, 5, 5}, move: geom.Vec{0.5, 0, 0}, radius: 1}
	target := m.loc.Add(m.move)
	require.True(t, high.IsOutside(target))

	high.CorrectMovement(m, &target)
	vecEq(t, geom.Vec{0.4, 5, 5}, target)
	vecEq(t, target.Sub(m.loc), m.move)
	assert.Equal(t, "", m.cause)
}

func TestCyclicSolute2D(t *testing.T) {
	bs, err := New(Cyclic, &Spec{
		Side: "x0y", Resolution: 1, Is3D: false,
		PointIn: geom.DVec{0, 0, -1}, VectorOut: geom.DVec{0, 0, -1},
		OppPointIn: geom.DVec{0, 0, 1}, OppVectorOut: geom.DVec{0, 0, 1},
	})
	require.NoError(t, err)
	assert.False(t, bs[0].IsActiveForSolute())
	assert.False(t, bs[1].IsActiveForSolute())
	assert.Equal(t, "xNy", bs[1].Side())
}

func TestBulkKills(t *testing.T) {
	for _, kind := range []Kind{ Bulk, Constant } {
		bs, err := New(kind, &Spec{
			Side: "xNz", Resolution: 1, Bulk: "tank",
			PointIn: geom.DVec{0, 10, 0}, VectorOut: geom.DVec{0, 1, 0},
		})
		require.NoError(t, err)
		b := bs[0]

		m := &mover{loc: geom.Vec{5, 9.8, 5}, move: geom.Vec{0, 0.5, 0}, radius: 1}
		target := m.loc.Add(m.move)
		b.CorrectMovement(m, &target)

		assert.Equal(t, CauseOverBoard, m.cause)
		assert.True(t, m.move.IsZero())
		assert.Equal(t, m.loc, target)
		assert.Equal(t, kind == Bulk, b.HasBulk())
		assert.Equal(t, "tank", b.(Connected).BulkName())

		s, ok := b.Classify()
		assert.True(t, ok)
		assert.Equal(t, StatusBulk, s)
	}
}

func TestSolidReflects(t *testing.T) {
	for _, kind := range []Kind{ ZeroFlux, GasMembrane, Agar } {
		bs, err := New(kind, &Spec{
			Side: "x0z", Resolution: 1,
			PointIn: geom.DVec{0, -1, 0}, VectorOut: geom.DVec{0, -1, 0},
			Permeability: map[string]float64{"oxygen": 2},
		})
		require.NoError(t, err)
		b := bs[0]
		assert.True(t, b.IsSupport())
		assert.False(t, b.HasBulk())

		m := &mover{loc: geom.Vec{5, 0.5, 5}, move: geom.Vec{0.1, -1, 0}, radius: 0.3}
		target := m.loc.Add(m.move)
		b.CorrectMovement(m, &target)

		vecEq(t, geom.Vec{5.1, 0.3, 5}, target)
		vecEq(t, target.Sub(m.loc), m.move)
		assert.False(t, b.IsOutside(target))
		assert.InDelta(t, 0.3, b.Distance(target), 1e-9)
	}
}

func TestClassify(t *testing.T) {
	table := []struct{
		kind Kind
		status Status
		ok bool
	} {
		{ZeroFlux, StatusCarrier, true},
		{GasMembrane, StatusCarrier, true},
		{Agar, StatusOutside, false},
	}

	for i, test := range table {
		bs, err := New(test.kind, &Spec{
			Side: "x0z", Resolution: 1,
			PointIn: geom.DVec{0, -1, 0}, VectorOut: geom.DVec{0, -1, 0},
		})
		require.NoError(t, err)
		s, ok := bs[0].Classify()
		if ok != test.ok || (ok && s != test.status) {
			t.Errorf("%d) %s.Classify() = %s, %v", i, test.kind, s, ok)
		}
	}
}

func TestMembranePermeability(t *testing.T) {
	bs, err := New(GasMembrane, &Spec{
		Side: "x0z", Resolution: 1, Bulk: "gas",
		PointIn: geom.DVec{0, -1, 0}, VectorOut: geom.DVec{0, -1, 0},
		Permeability: map[string]float64{"oxygen": 2},
	})
	require.NoError(t, err)

	p, ok := bs[0].(Permeable).PermeableTo("oxygen")
	assert.True(t, ok)
	assert.Equal(t, 2.0, p)
	_, ok = bs[0].(Permeable).PermeableTo("nitrate")
	assert.False(t, ok)
}

func TestNewErrors(t *testing.T) {
	_, err := New(ZeroFlux, &Spec{ Side: "a", VectorOut: geom.DVec{1, 0, 0} })
	assert.Error(t, err)
	_, err = New(ZeroFlux, &Spec{ Side: "a", Resolution: 1 })
	assert.Error(t, err)
	_, err = New(Cyclic, &Spec{
		Side: "a", Resolution: 1, VectorOut: geom.DVec{1, 0, 0},
	})
	assert.Error(t, err)
	_, err = New(EndKind, &Spec{
		Side: "a", Resolution: 1, VectorOut: geom.DVec{1, 0, 0},
	})
	assert.Error(t, err)
}

func TestHardBoundaryKeepsBodyInside(t *testing.T) {
	bs, err := New(ZeroFlux, &Spec{
		Side: "x0z", Resolution: 2,
		PointIn: geom.DVec{0, -1, 0}, VectorOut: geom.DVec{0, -1, 0},
	})
	require.NoError(t, err)
	b := bs[0]

	for i := 0; i < 20; i++ {
		r := 0.1 + 0.05*float64(i)
		m := &mover{
			loc: geom.Vec{3, 1, 3}, radius: r,
			move: geom.Vec{math.Sin(float64(i)), -3 - float64(i), 0},
		}
		target := m.loc.Add(m.move)
		b.CorrectMovement(m, &target)
		if b.Distance(target) < r-1e-9 || b.IsOutside(target) {
			t.Errorf("%d) corrected target %v of radius %g crosses %s",
				i, target, r, b)
		}
	}
}
