package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	r := New()

	r.Birth("het")
	r.Birth("het")
	r.Birth("aob")
	r.Death("het", "starvation")
	r.Death("aob", "dilution")
	r.Death("aob", "dilution")
	r.Population(4)
	r.Relaxation(12, 0)
	r.Relaxation(3, 1)

	table := []struct{
		got, want float64
	} {
		{testutil.ToFloat64(r.births.WithLabelValues("het")), 2},
		{testutil.ToFloat64(r.births.WithLabelValues("aob")), 1},
		{testutil.ToFloat64(r.deaths.WithLabelValues("het", "starvation")), 1},
		{testutil.ToFloat64(r.deaths.WithLabelValues("aob", "dilution")), 2},
		{testutil.ToFloat64(r.population), 4},
		{testutil.ToFloat64(r.relaxRuns), 2},
		{testutil.ToFloat64(r.relaxMoved), 1},
	}

	for i, test := range table {
		if test.got != test.want {
			t.Errorf("%d) expected %g, got %g.", i, test.want, test.got)
		}
	}

	mfs, err := r.Registry().Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 6)
}

func TestWriteFile(t *testing.T) {
	r := New()
	r.Birth("het")
	r.Population(1)

	path := filepath.Join(t.TempDir(), "run.prom")
	require.NoError(t, r.WriteFile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(b)
	assert.True(t, strings.Contains(text, `shove_births_total{species="het"} 1`))
	assert.True(t, strings.Contains(text, "shove_agents 1"))
}
