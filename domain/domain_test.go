package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/shove/boundary"
	"github.com/phil-mansfield/shove/geom"
)

// biofilmBox is a 10 x 10 x 10 box, periodic in x and z, with a solid
// substratum at y = 0 and a bulk liquid at y = 10.
func biofilmBox(t *testing.T) *Domain {
	d, err := New("box", 1, geom.DVec{10, 10, 10}, true, false)
	require.NoError(t, err)

	sides := []struct{
		kind boundary.Kind
		name string
	} {
		{boundary.Cyclic, "y0z"},
		{boundary.ZeroFlux, "x0z"},
		{boundary.Bulk, "xNz"},
		{boundary.Cyclic, "x0y"},
	}
	for _, s := range sides {
		_, err := d.AddStandardBoundary(s.kind, s.name)
		require.NoError(t, err)
	}
	return d
}

func TestNew(t *testing.T) {
	_, err := New("bad", 0, geom.DVec{1, 1, 1}, true, false)
	assert.Error(t, err)
	_, err = New("bad", 1, geom.DVec{0, 1, 1}, true, false)
	assert.Error(t, err)

	d, err := New("flat", 2, geom.DVec{8, 4, 7}, false, false)
	require.NoError(t, err)
	assert.Equal(t, geom.DVec{8, 4, 1}, d.N)
	assert.Equal(t, geom.Vec{16, 8, 2}, d.Length)
	assert.Equal(t, 2.0, d.LengthZ())
	assert.Equal(t, 2, d.Dims())

	c, err := New("tank", 2, geom.DVec{8, 4, 7}, false, true)
	require.NoError(t, err)
	assert.Equal(t, geom.DVec{1, 1, 1}, c.N)
}

func TestBoundaryOrder(t *testing.T) {
	d := biofilmBox(t)

	names := []string{}
	for _, b := range d.Boundaries() { names = append(names, b.Side()) }
	assert.Equal(t,
		[]string{"y0z", "yNz", "x0z", "xNz", "x0y", "xNy"}, names)

	assert.Equal(t, [3]bool{true, false, true}, d.Periodicity().Periodic)
	assert.Equal(t, "x0z", d.FirstSupport().Side())
}

func TestTestCrossedBoundary(t *testing.T) {
	d := biofilmBox(t)

	table := []struct{
		p geom.Vec
		side string
	} {
		{geom.Vec{9.5, 5, 5}, ""},
		{geom.Vec{5, 0.5, 5}, ""},
		{geom.Vec{10.4, 5, 5}, "yNz"},
		{geom.Vec{-0.2, 5, 5}, "y0z"},
		{geom.Vec{5, -0.1, 5}, "x0z"},
		{geom.Vec{5, 10.5, 5}, "xNz"},
		{geom.Vec{5, 5, 10.5}, "xNy"},
		{geom.Vec{10, 5, 5}, "yNz"},
		{geom.Vec{5, 10, 5}, "xNz"},
		{geom.Vec{5, 5, 10}, "xNy"},
		{geom.Vec{0, 5, 5}, ""},
	}

	for i, test := range table {
		b := d.TestCrossedBoundary(test.p)
		side := ""
		if b != nil { side = b.Side() }
		if side != test.side {
			t.Errorf("%d) TestCrossedBoundary(%v) = '%s', not '%s'",
				i, test.p, side, test.side)
		}
	}
}

func TestClassification(t *testing.T) {
	d := biofilmBox(t)

	table := []struct{
		p geom.Vec
		value int
		ok bool
	} {
		{geom.Vec{5, 0.5, 5}, Carrier, true},
		{geom.Vec{5, 1.5, 5}, Inside, true},
		{geom.Vec{5, 9.5, 5}, Inside, true},
		{geom.Vec{5, -0.5, 5}, Outside, false},
		{geom.Vec{11, 5, 5}, Outside, false},
	}

	for i, test := range table {
		v, ok := d.Value(test.p)
		if v != test.value || ok != test.ok {
			t.Errorf("%d) Value(%v) = %d, %v, not %d, %v",
				i, test.p, v, ok, test.value, test.ok)
		}
	}

	assert.True(t, d.IsInside(geom.Vec{5, 5, 5}))
	assert.False(t, d.IsInside(geom.Vec{5, 11, 5}))
}

func TestDifference(t *testing.T) {
	d := biofilmBox(t)
	diff, dist := d.Difference(geom.Vec{9.5, 9.5, 9.5}, geom.Vec{0.5, 0.5, 0.5})
	assert.InDelta(t, -1, diff[0], 1e-12)
	assert.InDelta(t, 9, diff[1], 1e-12)
	assert.InDelta(t, -1, diff[2], 1e-12)
	assert.InDelta(t, 9.1104335791443, dist, 1e-9)
}

func TestStandardSide(t *testing.T) {
	d, err := New("box", 2, geom.DVec{5, 6, 7}, true, false)
	require.NoError(t, err)

	spec, err := d.StandardSide("xNz")
	require.NoError(t, err)
	assert.Equal(t, geom.DVec{0, 6, 0}, spec.PointIn)
	assert.Equal(t, geom.DVec{0, 1, 0}, spec.VectorOut)
	assert.Equal(t, geom.DVec{0, -1, 0}, spec.OppPointIn)
	assert.Equal(t, geom.DVec{0, -1, 0}, spec.OppVectorOut)

	_, err = d.StandardSide("top")
	assert.Error(t, err)
	_, err = d.AddStandardBoundary(boundary.Cyclic, "yNz")
	assert.Error(t, err)
}
