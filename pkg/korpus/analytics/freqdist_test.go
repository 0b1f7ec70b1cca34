package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterDistributionOrder(t *testing.T) {
	c := NewCounter()
	for _, v := range []string{"b", "a", "c", "a", "c", "d"} {
		c.Add(v)
	}

	d := c.Distribution()
	assert.Equal(t, 6, d.Total)
	assert.Equal(t, 4, d.Unique)
	// a and c tie at 2: a was seen before c. b and d tie at 1: b first.
	assert.Equal(t, []string{"a", "c", "b", "d"}, d.Values())
}

func TestCounterCounts(t *testing.T) {
	c := NewCounter()
	c.Add("x")
	c.Add("x")

	assert.Equal(t, 2, c.Count("x"))
	assert.Equal(t, 0, c.Count("y"))
	assert.Equal(t, 2, c.Total())
	assert.Equal(t, 1, c.Unique())
}

func TestDistributionTopAndLookup(t *testing.T) {
	c := NewCounter()
	for _, v := range []string{"x", "y", "y", "z", "z", "z"} {
		c.Add(v)
	}
	d := c.Distribution()

	top := d.Top(2)
	require.Len(t, top, 2)
	assert.Equal(t, Entry{Value: "z", Count: 3}, top[0])
	assert.Equal(t, Entry{Value: "y", Count: 2}, top[1])
	assert.Len(t, d.Top(0), 3)
	assert.Len(t, d.Top(10), 3)

	n, ok := d.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, 1, n)
	_, ok = d.Lookup("missing")
	assert.False(t, ok)
}

func TestEmptyCounter(t *testing.T) {
	d := NewCounter().Distribution()
	assert.Zero(t, d.Total)
	assert.Zero(t, d.Unique)
	assert.Empty(t, d.Entries)
}
