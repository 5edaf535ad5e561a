package ripple

// Compute derives a cell from a zero-argument function. Every cell read
// during a run of fn is captured as a dependency for that run, so the
// dependency set follows whatever branches fn actually took. Capture state is
// a single frame: evaluating a Compute cell from inside another one panics.
func Compute[T comparable](rs *ReactiveSystem, fn func() T) *DerivedCell[T] {
	n := &cellNode{
		rs:      rs,
		ambient: true,
		dirty:   true,
		compute: func(_ []any, _ any) any {
			return fn()
		},
	}
	d := &DerivedCell[T]{n: n}
	n.owner = d
	rs.notifyCreated(d)
	return d
}
