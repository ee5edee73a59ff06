package geom

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	testEps = 1e-9
)

func epsEq(x, y, eps float64) bool {
	return math.Abs(x-y) <= eps
}

func (v1 Vec) epsEq(v2 Vec, eps float64) bool {
	for i := 0; i < 3; i++ {
		if !epsEq(v1[i], v2[i], eps) { return false }
	}
	return true
}

func (v *Vec) random(gen *rand.Rand, width float64) {
	v[0] = gen.Float64() * width
	v[1] = gen.Float64() * width
	v[2] = gen.Float64() * width
}

func periodicX(width float64) *Periodicity {
	p := NewPeriodicity(Vec{width, width, width}, true)
	p.SetPeriodic(0)
	return p
}

func TestDifference(t *testing.T) {
	table := []struct{
		a, b Vec
		periodic bool
		diff Vec
		d float64
	} {
		{Vec{1, 0, 0}, Vec{0, 0, 0}, true, Vec{1, 0, 0}, 1},
		{Vec{9.5, 0, 0}, Vec{0.5, 0, 0}, true, Vec{-1, 0, 0}, 1},
		{Vec{0.5, 0, 0}, Vec{9.5, 0, 0}, true, Vec{1, 0, 0}, 1},
		{Vec{9.5, 0, 0}, Vec{0.5, 0, 0}, false, Vec{9, 0, 0}, 9},
		{Vec{3, 4, 0}, Vec{0, 0, 0}, true, Vec{3, 4, 0}, 5},
		{Vec{0, 9, 0}, Vec{0, 0, 0}, true, Vec{0, 9, 0}, 9},
	}

	for i, test := range table {
		p := NewPeriodicity(Vec{10, 10, 10}, true)
		if test.periodic { p.SetPeriodic(0) }
		diff, d := p.Difference(test.a, test.b)
		if !diff.epsEq(test.diff, testEps) || !epsEq(d, test.d, testEps) {
			t.Errorf("%d) Difference(%v, %v) = %v, %g, not %v, %g",
				i, test.a, test.b, diff, d, test.diff, test.d)
		}
	}
}

func TestDifference2D(t *testing.T) {
	p := NewPeriodicity(Vec{10, 10, 1}, false)
	diff, d := p.Difference(Vec{1, 1, 5}, Vec{0, 1, 0})
	assert.Equal(t, Vec{1, 0, 0}, diff)
	assert.Equal(t, 1.0, d)
}

func TestPeriodicityInvariance(t *testing.T) {
	gen := rand.New(rand.NewPCG(1, 2))
	width := 10.0
	p := periodicX(width)

	for i := 0; i < 200; i++ {
		a, b := &Vec{}, &Vec{}
		a.random(gen, width)
		b.random(gen, width)
		// Exactly half a box apart is ambiguous under minimum image.
		if epsEq(math.Abs(a[0]-b[0]), width/2, 1e-6) { continue }

		diff0, d0 := p.Difference(*a, *b)
		for k := -3; k <= 3; k++ {
			shifted := *a
			shifted[0] += float64(k) * width
			diffK, dK := p.Difference(shifted, *b)
			if !diffK.epsEq(diff0, 1e-9) || !epsEq(dK, d0, 1e-9) {
				t.Errorf("%d) shift %d: Difference(%v, %v) = %v, not %v",
					i, k, shifted, *b, diffK, diff0)
			}
		}
	}
}

func TestSeparationCoincident(t *testing.T) {
	gen := rand.New(rand.NewPCG(3, 4))

	p3 := NewPeriodicity(Vec{10, 10, 10}, true)
	dir, d := p3.Separation(Vec{1, 1, 1}, Vec{1, 1, 1}, 2, gen)
	assert.InDelta(t, 0.02, d, testEps)
	assert.InDelta(t, 1.0, dir.Norm(), testEps)

	p2 := NewPeriodicity(Vec{10, 10, 1}, false)
	dir, d = p2.Separation(Vec{1, 1, 0}, Vec{1, 1, 0}, 1, gen)
	assert.InDelta(t, 0.01, d, testEps)
	assert.Equal(t, 0.0, dir[2])
	assert.InDelta(t, 1.0, dir.Norm(), testEps)
}

func TestRandomDirection(t *testing.T) {
	gen := rand.New(rand.NewPCG(7, 8))
	n := 100000

	table := []struct{
		is3D bool
		meanAbsX float64
	} {
		{true, 0.5},
		{false, 2 / math.Pi},
	}

	for i, test := range table {
		sum, sumAbs := Vec{}, 0.0
		for j := 0; j < n; j++ {
			v := RandomDirection(gen, test.is3D)
			if math.Abs(v.Norm() - 1) > 1e-12 {
				t.Fatalf("%d) direction %v is not a unit vector.", i, v)
			}
			if !test.is3D && v[2] != 0 {
				t.Fatalf("%d) 2D direction %v leaves the plane.", i, v)
			}
			sum.AddSelf(v)
			sumAbs += math.Abs(v[0])
		}
		if mean := sum.Scale(1 / float64(n)); mean.Norm() > 0.01 {
			t.Errorf("%d) mean direction %v is not near zero.", i, mean)
		}
		if got := sumAbs / float64(n); math.Abs(got - test.meanAbsX) > 0.01 {
			t.Errorf("%d) expected mean |x| of %g, got %g.",
				i, test.meanAbsX, got)
		}
	}
}

func TestVecValid(t *testing.T) {
	assert.True(t, Vec{1, 2, 3}.IsValid())
	assert.False(t, Vec{math.NaN(), 0, 0}.IsValid())
	assert.False(t, Vec{0, math.Inf(1), 0}.IsValid())
	assert.True(t, Vec{}.IsZero())
	assert.False(t, Vec{0, 0, 1e-12}.IsZero())
	assert.Equal(t, Vec{}, Vec{}.Normalize())
}

func TestPlanar(t *testing.T) {
	res := 1.0
	// x = 10 face of a 10-cell domain, and the x = 0 face.
	high := NewPlanar(DVec{10, 0, 0}, DVec{1, 0, 0}, res)
	low := NewPlanar(DVec{-1, 0, 0}, DVec{-1, 0, 0}, res)

	assert.Equal(t, Vec{10, 0, 0}, high.PointIn)
	assert.Equal(t, Vec{0, 0, 0}, low.PointIn)

	table := []struct{
		p *Planar
		v Vec
		outside bool
		dist float64
	} {
		{high, Vec{9.9, 5, 5}, false, 0.1},
		{high, Vec{10.4, 5, 5}, true, 0.4},
		{high, Vec{10, 5, 5}, false, 0},
		{low, Vec{-0.5, 5, 5}, true, 0.5},
		{low, Vec{0.25, 5, 5}, false, 0.25},
	}

	for i, test := range table {
		if test.p.IsOutside(test.v) != test.outside {
			t.Errorf("%d) IsOutside(%v) = %v", i, test.v, !test.outside)
		}
		if d := test.p.Distance(test.v); !epsEq(d, test.dist, testEps) {
			t.Errorf("%d) Distance(%v) = %g, not %g", i, test.v, d, test.dist)
		}
	}

	assert.True(t, high.IsOnOrOutside(Vec{10, 5, 5}))
	assert.True(t, high.IsOnOrOutside(Vec{10.4, 5, 5}))
	assert.False(t, high.IsOnOrOutside(Vec{9.99, 5, 5}))
	assert.True(t, low.IsOnOrOutside(Vec{0, 5, 5}))

	x, ok := high.Intersection(Vec{9.9, 5, 5}, Vec{0.5, 0, 0})
	assert.True(t, ok)
	assert.True(t, x.epsEq(Vec{10, 5, 5}, testEps))

	_, ok = high.Intersection(Vec{9.9, 5, 5}, Vec{0, 1, 0})
	assert.False(t, ok)

	assert.True(t, high.OrthoProj(Vec{12, 3, 4}).epsEq(Vec{10, 3, 4}, testEps))
	assert.Equal(t, Vec{-1, 0, 0}, high.NormalInside())
	assert.InDelta(t, 10.0, high.DistanceTo(low), testEps)
	assert.Equal(t, 0, high.Axis())
	assert.True(t, high.IsOnBoundary(Vec{10.5, 1, 1}, res))
	assert.False(t, high.IsOnBoundary(Vec{11.5, 1, 1}, res))
}

func TestGrid(t *testing.T) {
	g := NewPaddedGrid(DVec{4, 3, 2})
	assert.Equal(t, 6*5*4, g.Volume)

	table := []struct{
		x, y, z int
		ok bool
	} {
		{-1, -1, -1, true},
		{0, 0, 0, true},
		{4, 3, 2, true},
		{5, 0, 0, false},
		{0, -2, 0, false},
	}

	for i, test := range table {
		idx, ok := g.IdxCheck(test.x, test.y, test.z)
		if ok != test.ok {
			t.Errorf("%d) IdxCheck(%d, %d, %d) gives %v, not %v",
				i, test.x, test.y, test.z, ok, test.ok)
			continue
		}
		if !ok { continue }
		x, y, z := g.Coords(idx)
		if x != test.x || y != test.y || z != test.z {
			t.Errorf("%d) Coords(%d) = (%d, %d, %d), not (%d, %d, %d)",
				i, idx, x, y, z, test.x, test.y, test.z)
		}
	}

	assert.Equal(t, 0, g.Idx(-1, -1, -1))
	assert.Equal(t, DVec{0, 0, 0}, g.DVec(g.Idx(0, 0, 0)))
}

func TestDiscretize(t *testing.T) {
	assert.Equal(t, DVec{0, 1, -1}, Discretize(Vec{0.5, 1.5, -0.5}, 1))
	assert.Equal(t, Vec{1, 3, 5}, DVec{0, 1, 2}.Center(2))
}

func BenchmarkDifference(b *testing.B) {
	gen := rand.New(rand.NewPCG(5, 6))
	vs := make([]Vec, 1024)
	for i := range vs { vs[i].random(gen, 10) }
	p := periodicX(10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Difference(vs[i%len(vs)], vs[(i+1)%len(vs)])
	}
}
