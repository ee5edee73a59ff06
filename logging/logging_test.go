package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	table := []struct{
		name string
		level Level
	} {
		{"debug", Debug},
		{"INFO", Info},
		{" warning ", Warn},
		{"warn", Warn},
		{"Error", Error},
		{"nonsense", Info},
	}

	for i, test := range table {
		if l := ParseLevel(test.name); l != test.level {
			t.Errorf("%d) ParseLevel(%q) = %s, not %s",
				i, test.name, l, test.level)
		}
	}
}

func TestLevelLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, "warn")

	l.Debugf("hidden %d", 1)
	l.Infof("hidden %d", 2)
	l.Warnf("shown %d", 3)
	l.Errorf("shown %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] shown 3")
	assert.Contains(t, out, "[ERROR] shown 4")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestOr(t *testing.T) {
	assert.Equal(t, NoOp{}, Or(nil))
	l := New(&bytes.Buffer{}, "info")
	assert.Equal(t, Logger(l), Or(l))
}
