package modcache

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache_InsertionOrder(t *testing.T) {
	c := New()
	for _, id := range []string{"c", "a", "b"} {
		_, created := c.GetOrCreate(id)
		assert.True(t, created)
	}
	_, created := c.GetOrCreate("a")
	assert.False(t, created)

	assert.Equal(t, 3, c.Len())

	var seen []string
	c.Range(func(r *Record) bool {
		seen = append(seen, r.ID())
		return true
	})
	assert.Equal(t, []string{"c", "a", "b"}, seen)
}

func TestCache_RangeStopsEarly(t *testing.T) {
	c := New()
	c.GetOrCreate("a")
	c.GetOrCreate("b")

	count := 0
	c.Range(func(*Record) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

func TestCache_Invalidate(t *testing.T) {
	c := New()
	rec, _ := c.GetOrCreate("a")
	rec.Finish(rec.Begin(), "x", nil)

	assert.True(t, c.Invalidate("a"))
	assert.Equal(t, StatusAbsent, rec.Status())
	assert.True(t, c.Invalidate("a"), "invalidating a reset entry is a no-op but the entry exists")
	assert.False(t, c.Invalidate("missing"))
	assert.Equal(t, 1, c.Len())
}

func TestCache_InvalidateUnless(t *testing.T) {
	c := New()
	for _, id := range []string{"keep:1", "drop:1", "keep:2", "drop:2"} {
		rec, _ := c.GetOrCreate(id)
		rec.Finish(rec.Begin(), id, nil)
	}

	got := c.InvalidateUnless(func(id string) bool { return strings.HasPrefix(id, "keep:") })
	assert.Equal(t, []string{"drop:1", "drop:2"}, got)

	for _, rec := range c.Records() {
		if strings.HasPrefix(rec.ID(), "keep:") {
			assert.True(t, rec.Evaluated(), rec.ID())
			assert.Equal(t, rec.ID(), rec.Exports())
		} else {
			assert.False(t, rec.Evaluated(), rec.ID())
			assert.Nil(t, rec.Exports())
		}
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := string(rune('a' + i%10))
			rec, _ := c.GetOrCreate(id)
			rec.Begin()
			_ = c.Records()
			c.InvalidateUnless(func(string) bool { return false })
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, c.Len())
}

func TestCache_String(t *testing.T) {
	c := New()
	c.GetOrCreate("/tests/a.star")
	out := c.String()
	assert.Contains(t, out, "Module Cache (1)")
	assert.Contains(t, out, "/tests/a.star")
	assert.Contains(t, out, "absent")

	rec, _ := c.GetOrCreate("/tests/b.star")
	load := rec.Begin()
	rec.SetCompiled(load, stubProgram{})
	rec.Finish(load, nil, nil)
	assert.Contains(t, c.String(), "settled, compiled")
}
