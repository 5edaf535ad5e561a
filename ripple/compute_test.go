package ripple_test

import (
	"testing"

	"github.com/delaneyj/cellparty/ripple"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// should capture the cells read during evaluation
func TestComputeCapturesReads(t *testing.T) {
	rs := ripple.NewReactiveSystem()
	first := ripple.Cell(rs, "John")
	last := ripple.Cell(rs, "Doe")

	full := ripple.Compute(rs, func() string {
		return first.Value() + " " + last.Value()
	})

	assert.Equal(t, "John Doe", full.Value())

	last.SetValue("Smith")
	assert.Equal(t, "John Smith", full.Value())
}

// should re-evaluate on every access while unobserved
func TestComputeReevaluatesWhileUnobserved(t *testing.T) {
	rs := ripple.NewReactiveSystem()
	c := ripple.Cell(rs, 1)

	runs := 0
	d := ripple.Compute(rs, func() int {
		runs++
		return c.Value()
	})

	d.Value()
	d.Value()
	assert.Equal(t, 2, runs)
}

// should re-derive the dependency set on each evaluation
func TestComputeDynamicDependencies(t *testing.T) {
	rs := ripple.NewReactiveSystem()
	useLeft := ripple.Cell(rs, true)
	left := ripple.Cell(rs, "L1")
	right := ripple.Cell(rs, "R1")

	picked := ripple.Compute(rs, func() string {
		if useLeft.Value() {
			return left.Value()
		}
		return right.Value()
	})

	fires := 0
	picked.Subscribe(func(next, prev string) {
		fires++
	})

	// right was not read on the last run, so it must not trigger
	right.SetValue("R2")
	assert.Equal(t, 0, fires)

	left.SetValue("L2")
	require.Equal(t, 1, fires)

	useLeft.SetValue(false)
	require.Equal(t, 2, fires)
	assert.Equal(t, "R2", picked.Value())

	// left is no longer read, right now is
	left.SetValue("L3")
	assert.Equal(t, 2, fires)

	right.SetValue("R3")
	assert.Equal(t, 3, fires)
}

// should fire once per relevant upstream change while observed
func TestComputeRunsOncePerChangeWhileObserved(t *testing.T) {
	rs := ripple.NewReactiveSystem()
	c := ripple.Cell(rs, 1)

	runs := 0
	d := ripple.Compute(rs, func() int {
		runs++
		return c.Value() * 2
	})

	d.Subscribe(func(next, prev int) {})
	runs = 0

	c.SetValue(2)
	assert.Equal(t, 1, runs)

	d.Value()
	d.Value()
	assert.Equal(t, 1, runs)
}

// should fail fast when computes nest
func TestComputeNestedPanics(t *testing.T) {
	rs := ripple.NewReactiveSystem()
	c := ripple.Cell(rs, 1)

	inner := ripple.Compute(rs, func() int {
		return c.Value() + 1
	})
	outer := ripple.Compute(rs, func() int {
		return inner.Value() + 1
	})

	require.Panics(t, func() {
		outer.Value()
	})
}

// should not capture reads between PauseTracking and ResumeTracking
func TestPauseTrackingExcludesReads(t *testing.T) {
	rs := ripple.NewReactiveSystem()
	tracked := ripple.Cell(rs, 1)
	untracked := ripple.Cell(rs, 100)

	d := ripple.Compute(rs, func() int {
		v := tracked.Value()
		rs.PauseTracking()
		v += untracked.Value()
		rs.ResumeTracking()
		return v
	})

	fires := 0
	d.Subscribe(func(next, prev int) {
		fires++
	})

	untracked.SetValue(200)
	assert.Equal(t, 0, fires)

	tracked.SetValue(2)
	require.Equal(t, 1, fires)
	assert.Equal(t, 202, d.Value())
}
