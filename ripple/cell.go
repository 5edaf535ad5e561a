package ripple

// WriteableCell is a root cell: it holds a value directly, or tracks another
// cell after SetSource.
type WriteableCell[T comparable] struct {
	n *cellNode
}

func Cell[T comparable](rs *ReactiveSystem, initial T) *WriteableCell[T] {
	c := &WriteableCell[T]{
		n: &cellNode{rs: rs, value: initial},
	}
	c.n.owner = c
	rs.notifyCreated(c)
	return c
}

func (c *WriteableCell[T]) node() *cellNode { return c.n }

func (c *WriteableCell[T]) Value() T {
	t, _ := c.n.read().(T)
	return t
}

// SetValue stores v. Writing the value the cell already resolves to is a
// no-op; otherwise any tracked source is dropped and downstream cells settle,
// immediately unless a batch is open.
func (c *WriteableCell[T]) SetValue(v T) {
	n := c.n
	prev := n.peek()
	if t, ok := prev.(T); ok && t == v {
		return
	}
	n.setSource(nil)
	n.value = v
	n.rs.recordWrite(n, prev)
}

// SetSource re-wires the cell to track src: reads resolve through it
// transitively and its changes propagate to this cell's downstream.
func (c *WriteableCell[T]) SetSource(src Observable[T]) {
	n := c.n
	prev := n.peek()
	n.setSource(src.node())
	n.rs.recordWrite(n, prev)
}

func (c *WriteableCell[T]) Update(fn func(T) T) {
	c.SetValue(fn(c.Value()))
}

func (c *WriteableCell[T]) Subscribe(fn func(next, prev T)) (stop func()) {
	return c.n.subscribe(func(next, prev any) {
		nt, _ := next.(T)
		pt, _ := prev.(T)
		fn(nt, pt)
	})
}
