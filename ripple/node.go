package ripple

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// AnyCell is the type-erased handle shared by writable and derived cells.
// Heterogeneous input lists (CombineAll) and instrumentation work in terms
// of it.
type AnyCell interface {
	node() *cellNode
}

// Observable is the read side of a cell: current value plus change
// notification. Both *WriteableCell and *DerivedCell satisfy it.
type Observable[T any] interface {
	AnyCell
	Value() T
	Subscribe(fn func(next, prev T)) (stop func())
}

type listener struct {
	fn      func(next, prev any)
	stopped bool
}

// computeFunc recomputes a derived cell. args holds the resolved values of
// the cell's inputs in order (nil for ambient cells, which read through the
// capture frame instead), prev the cell's previous effective value.
type computeFunc func(args []any, prev any) any

// cellNode is the untyped graph node behind every cell. The generic wrappers
// only adapt values at the boundary; all edge bookkeeping, attachment state
// and invalidation happens here.
//
// Input edges are structural and live as long as the node does. Output edges
// exist only while the downstream node is attached, so a derived cell nobody
// listens to is not reachable from its inputs and can be collected.
type cellNode struct {
	rs      *ReactiveSystem
	owner   AnyCell
	compute computeFunc // nil for writable roots
	ambient bool

	inputs  []*cellNode // ordered; rebuilt per evaluation for ambient cells
	source  *cellNode   // set while the effective value tracks another cell
	outputs []*cellNode // attached downstream cells only

	listeners []*listener

	value    any   // last known effective value
	memo     []any // resolved input tuple of the previous evaluation
	hasMemo  bool
	attached bool
	dirty    bool // cache went stale while detached
}

// read resolves the node's current effective value, registering it with the
// ambient capture frame if one is open. Attached nodes are kept fresh by the
// flush pass and return their cache; detached ones re-evaluate.
func (n *cellNode) read() any {
	if fr := n.rs.frame; fr != nil && fr.owner != n {
		fr.record(n)
	}
	if n.compute == nil {
		if n.source != nil {
			v := n.source.read()
			n.value = v
			return v
		}
		return n.value
	}
	if n.attached && !n.dirty {
		return n.value
	}
	v := n.evaluate()
	n.value = v
	n.dirty = false
	return v
}

// peek resolves the current value without registering a capture dependency.
func (n *cellNode) peek() any {
	rs := n.rs
	fr := rs.frame
	rs.frame = nil
	v := n.read()
	rs.frame = fr
	return v
}

// evaluate recomputes a derived node. Declarative nodes are memoized against
// the previous resolved input tuple; a hit reuses the last result without
// calling the compute function. A compute function returning another cell
// makes that cell the node's source: the effective value is resolved through
// it and it stays a dependency until a later evaluation supersedes it.
func (n *cellNode) evaluate() any {
	if n.ambient {
		return n.evaluateAmbient()
	}

	// Inputs of a declarative node are fixed; reads during evaluation must
	// not leak into an enclosing capture frame.
	rs := n.rs
	fr := rs.frame
	rs.frame = nil
	defer func() { rs.frame = fr }()

	args := make([]any, len(n.inputs))
	for i, in := range n.inputs {
		args[i] = in.read()
	}
	if n.hasMemo && sameTuple(args, n.memo) {
		if n.source != nil {
			return n.source.read()
		}
		return n.value
	}

	res := n.compute(args, n.value)
	n.memo = args
	n.hasMemo = true
	if src, ok := res.(AnyCell); ok && src != nil {
		n.setSource(src.node())
		return n.source.read()
	}
	n.setSource(nil)
	return res
}

// evaluateAmbient runs the compute function under a fresh capture frame and
// rewires the input set to exactly the cells read during this run. The frame
// is a single slot; starting a second capture while one is open is a caller
// bug and fails fast.
func (n *cellNode) evaluateAmbient() any {
	rs := n.rs
	if rs.frame != nil {
		panic("ripple: ambient computes cannot nest, wrap inner reads in their own cell instead")
	}
	fr := &captureFrame{
		owner: n,
		seen:  mapset.NewThreadUnsafeSet[*cellNode](),
	}
	rs.frame = fr

	var res any
	func() {
		defer func() { rs.frame = nil }()
		res = n.compute(nil, n.value)
	}()

	n.rewire(fr.order, fr.seen)
	return res
}

// rewire replaces the input set after an ambient evaluation. Edges present in
// both the old and new sets are left untouched so unchanged dependencies see
// no detach/attach churn.
func (n *cellNode) rewire(next []*cellNode, nextSet mapset.Set[*cellNode]) {
	if n.attached {
		for _, old := range n.inputs {
			if nextSet.Contains(old) {
				continue
			}
			old.removeOutput(n)
			old.maybeDetach()
		}
		prev := mapset.NewThreadUnsafeSet(n.inputs...)
		for _, in := range next {
			if prev.Contains(in) {
				continue
			}
			in.addOutput(n)
			in.attach()
		}
	}
	n.inputs = next
}

// setSource swaps the aliased cell the effective value resolves through.
func (n *cellNode) setSource(src *cellNode) {
	if n.source == src {
		return
	}
	if n.attached && n.source != nil {
		n.source.removeOutput(n)
		n.source.maybeDetach()
	}
	n.source = src
	if n.attached && src != nil {
		src.addOutput(n)
		src.attach()
	}
}

// attach brings a node into the live set: recompute fresh so future
// notifications carry a correct previous value, then attach every current
// input. Evaluation runs before the flag flips so edge bookkeeping during it
// stays a no-op.
func (n *cellNode) attach() {
	if n.attached {
		return
	}
	if n.compute != nil {
		n.value = n.evaluate()
	} else if n.source != nil {
		n.value = n.source.read()
	}
	n.dirty = false
	n.attached = true
	for _, in := range n.inputs {
		in.addOutput(n)
		in.attach()
	}
	if n.source != nil {
		n.source.addOutput(n)
		n.source.attach()
	}
	n.rs.notifyAttached(n)
}

// maybeDetach drops the node out of the live set once nothing holds it there:
// no listeners and no attached downstream cell. Inputs kept attached by
// another attached output stay attached.
func (n *cellNode) maybeDetach() {
	if !n.attached || len(n.listeners) > 0 || len(n.outputs) > 0 {
		return
	}
	n.attached = false
	n.dirty = true
	for _, in := range n.inputs {
		in.removeOutput(n)
		in.maybeDetach()
	}
	if n.source != nil {
		n.source.removeOutput(n)
		n.source.maybeDetach()
	}
	n.rs.notifyDetached(n)
}

func (n *cellNode) addOutput(out *cellNode) {
	n.outputs = append(n.outputs, out)
}

func (n *cellNode) removeOutput(out *cellNode) {
	for i, o := range n.outputs {
		if o == out {
			n.outputs = append(n.outputs[:i], n.outputs[i+1:]...)
			return
		}
	}
}

func (n *cellNode) subscribe(fn func(next, prev any)) (stop func()) {
	l := &listener{fn: fn}
	n.listeners = append(n.listeners, l)
	n.attach()
	return func() {
		if l.stopped {
			return
		}
		l.stopped = true
		for i, x := range n.listeners {
			if x == l {
				n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)
				break
			}
		}
		n.maybeDetach()
	}
}

// fire invokes every listener present when the pass started. A listener
// unsubscribing itself or a sibling mid-pass neither skips nor double-invokes
// anyone from that snapshot.
func (n *cellNode) fire(next, prev any) {
	if len(n.listeners) == 0 {
		return
	}
	snapshot := make([]*listener, len(n.listeners))
	copy(snapshot, n.listeners)
	for _, l := range snapshot {
		l.fn(next, prev)
	}
}

// refresh recomputes during a flush pass and returns the settled value.
func (n *cellNode) refresh() any {
	if n.compute != nil {
		if n.attached {
			n.value = n.evaluate()
			n.dirty = false
		}
	} else if n.source != nil {
		n.value = n.source.read()
	}
	return n.value
}

// identical is reference/identity equality on boxed values. Values whose
// dynamic type is not comparable are treated as always different.
func identical(a, b any) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

func sameTuple(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !identical(a[i], b[i]) {
			return false
		}
	}
	return true
}
