package ripple_test

import (
	"testing"

	"github.com/delaneyj/cellparty/ripple"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// should return the written value immediately after a write
func TestCellSetAndGet(t *testing.T) {
	rs := ripple.NewReactiveSystem()
	c := ripple.Cell(rs, 1)
	assert.Equal(t, 1, c.Value())

	c.SetValue(42)
	assert.Equal(t, 42, c.Value())
}

// should not notify listeners when the same value is written again
func TestCellSetSameValueNoNotify(t *testing.T) {
	rs := ripple.NewReactiveSystem()
	c := ripple.Cell(rs, "hello")

	fires := 0
	c.Subscribe(func(next, prev string) {
		fires++
	})

	c.SetValue("hello")
	assert.Equal(t, 0, fires)

	c.SetValue("world")
	assert.Equal(t, 1, fires)
}

// should apply Update as set(fn(get()))
func TestCellUpdate(t *testing.T) {
	rs := ripple.NewReactiveSystem()
	c := ripple.Cell(rs, 10)
	c.Update(func(v int) int { return v * 2 })
	assert.Equal(t, 20, c.Value())
}

// should deliver old and new values to listeners
func TestCellSubscribeDeliversOldAndNew(t *testing.T) {
	rs := ripple.NewReactiveSystem()
	c := ripple.Cell(rs, 1)

	var gotNext, gotPrev int
	c.Subscribe(func(next, prev int) {
		gotNext, gotPrev = next, prev
	})

	c.SetValue(2)
	assert.Equal(t, 2, gotNext)
	assert.Equal(t, 1, gotPrev)
}

// should make double unsubscribe a no-op
func TestCellDoubleUnsubscribeNoop(t *testing.T) {
	rs := ripple.NewReactiveSystem()
	c := ripple.Cell(rs, 0)

	fires := 0
	stop := c.Subscribe(func(next, prev int) {
		fires++
	})

	c.SetValue(1)
	require.Equal(t, 1, fires)

	stop()
	stop()
	c.SetValue(2)
	assert.Equal(t, 1, fires)
}

// should resolve transitively when a cell tracks another cell
func TestCellSetSourceResolvesTransitively(t *testing.T) {
	rs := ripple.NewReactiveSystem()
	c1 := ripple.Cell(rs, 10)
	c2 := ripple.Cell(rs, 0)
	c3 := ripple.Cell(rs, 0)

	c2.SetSource(c1)
	c3.SetSource(c2)

	assert.Equal(t, 10, c2.Value())
	assert.Equal(t, 10, c3.Value())

	c1.SetValue(11)
	assert.Equal(t, 11, c3.Value())
}

// should propagate source changes to listeners of the tracking cell
func TestCellSourceChangesNotify(t *testing.T) {
	rs := ripple.NewReactiveSystem()
	c1 := ripple.Cell(rs, 10)
	c2 := ripple.Cell(rs, 0)
	c2.SetSource(c1)

	var gotNext, gotPrev int
	fires := 0
	c2.Subscribe(func(next, prev int) {
		fires++
		gotNext, gotPrev = next, prev
	})

	c1.SetValue(11)
	require.Equal(t, 1, fires)
	assert.Equal(t, 11, gotNext)
	assert.Equal(t, 10, gotPrev)
}

// should drop the tracked source when a direct value is written
func TestCellSetValueDropsSource(t *testing.T) {
	rs := ripple.NewReactiveSystem()
	c1 := ripple.Cell(rs, 10)
	c2 := ripple.Cell(rs, 0)
	c2.SetSource(c1)
	require.Equal(t, 10, c2.Value())

	c2.SetValue(5)
	assert.Equal(t, 5, c2.Value())

	c1.SetValue(99)
	assert.Equal(t, 5, c2.Value())
}

// should keep the alias when the written value equals the resolved value
func TestCellSetSameResolvedValueKeepsSource(t *testing.T) {
	rs := ripple.NewReactiveSystem()
	c1 := ripple.Cell(rs, 10)
	c2 := ripple.Cell(rs, 0)
	c2.SetSource(c1)

	c2.SetValue(10)
	c1.SetValue(11)
	assert.Equal(t, 11, c2.Value())
}

// should not notify when re-wiring to a source with the same resolved value
func TestCellSetSourceSameResolvedValueNoNotify(t *testing.T) {
	rs := ripple.NewReactiveSystem()
	c1 := ripple.Cell(rs, 7)
	c2 := ripple.Cell(rs, 7)

	fires := 0
	c2.Subscribe(func(next, prev int) {
		fires++
	})

	c2.SetSource(c1)
	assert.Equal(t, 0, fires)

	c1.SetValue(8)
	assert.Equal(t, 1, fires)
}
