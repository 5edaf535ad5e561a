package ripple

// DerivedCell is a read-only cell computed from other cells. While nobody
// observes it, reads re-evaluate (memoized against the input tuple); once a
// listener depends on it, the flush pass keeps it fresh.
type DerivedCell[T any] struct {
	n *cellNode
}

func (d *DerivedCell[T]) node() *cellNode { return d.n }

func (d *DerivedCell[T]) Value() T {
	t, _ := d.n.read().(T)
	return t
}

func (d *DerivedCell[T]) Subscribe(fn func(next, prev T)) (stop func()) {
	return d.n.subscribe(func(next, prev any) {
		nt, _ := next.(T)
		pt, _ := prev.(T)
		fn(nt, pt)
	})
}

func newDerived(rs *ReactiveSystem, inputs []*cellNode, fn computeFunc) *cellNode {
	return &cellNode{
		rs:      rs,
		compute: fn,
		inputs:  inputs,
		dirty:   true,
	}
}

// Select derives a single-input cell through fn.
func Select[T, U comparable](rs *ReactiveSystem, src Observable[T], fn func(T) U) *DerivedCell[U] {
	n := newDerived(rs, []*cellNode{src.node()}, func(args []any, _ any) any {
		return fn(args[0].(T))
	})
	d := &DerivedCell[U]{n: n}
	n.owner = d
	rs.notifyCreated(d)
	return d
}

// SelectSource derives through a function that picks another cell: the
// returned cell becomes the source the value resolves through, and an extra
// dependency until the next recomputation picks a different one.
func SelectSource[T comparable, U any](rs *ReactiveSystem, src Observable[T], fn func(T) Observable[U]) *DerivedCell[U] {
	n := newDerived(rs, []*cellNode{src.node()}, func(args []any, _ any) any {
		return fn(args[0].(T))
	})
	d := &DerivedCell[U]{n: n}
	n.owner = d
	rs.notifyCreated(d)
	return d
}

// Filter retains the last value of src that passed pred. If the initial
// value fails the predicate the cell starts at the zero value.
func Filter[T comparable](rs *ReactiveSystem, src Observable[T], pred func(T) bool) *DerivedCell[T] {
	n := newDerived(rs, []*cellNode{src.node()}, func(args []any, prev any) any {
		v := args[0].(T)
		if pred(v) {
			return v
		}
		if kept, ok := prev.(T); ok {
			return kept
		}
		var zero T
		return zero
	})
	d := &DerivedCell[T]{n: n}
	n.owner = d
	rs.notifyCreated(d)
	return d
}
