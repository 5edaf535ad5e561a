// Package ripple is a reactive-value engine: writable cells hold values,
// derived cells recompute from other cells, and listeners receive old/new
// pairs in dependency order. Cells nobody observes cost nothing between
// reads; writes inside a batch coalesce into one notification per cell.
//
// The engine is single-threaded and cooperative. A ReactiveSystem must only
// ever be used from one goroutine.
package ripple

import (
	mapset "github.com/deckarep/golang-set/v2"
)

type captureFrame struct {
	owner *cellNode
	seen  mapset.Set[*cellNode]
	order []*cellNode
}

func (fr *captureFrame) record(n *cellNode) {
	if fr.seen.Contains(n) {
		return
	}
	fr.seen.Add(n)
	fr.order = append(fr.order, n)
}

// ReactiveSystem owns the batch state, the ambient capture frame and the
// pluggable flush scheduler for one graph of cells.
type ReactiveSystem struct {
	batchDepth int
	flushing   bool
	scheduled  bool
	pending    []*cellNode
	pendingSet mapset.Set[*cellNode]
	preBatch   map[*cellNode]any

	run        func(flush func())
	frame      *captureFrame
	pauseStack []*captureFrame
	probes     []Probe
}

func NewReactiveSystem() *ReactiveSystem {
	return &ReactiveSystem{
		pendingSet: mapset.NewThreadUnsafeSet[*cellNode](),
		preBatch:   map[*cellNode]any{},
	}
}

func (rs *ReactiveSystem) StartBatch() {
	rs.batchDepth++
}

func (rs *ReactiveSystem) EndBatch() {
	rs.batchDepth--
	if rs.batchDepth == 0 {
		rs.flush()
	}
}

func (rs *ReactiveSystem) Batch(cb func()) {
	rs.StartBatch()
	defer rs.EndBatch()
	cb()
}

// SetScheduler installs the hook that runs the pending flush. By default the
// flush runs synchronously inside the outermost write; an external scheduler
// (a render loop, say) can defer the block to coalesce further.
func (rs *ReactiveSystem) SetScheduler(run func(flush func())) {
	rs.run = run
}

// PauseTracking stops reads from registering with the open capture frame
// until the matching ResumeTracking.
func (rs *ReactiveSystem) PauseTracking() {
	rs.pauseStack = append(rs.pauseStack, rs.frame)
	rs.frame = nil
}

func (rs *ReactiveSystem) ResumeTracking() {
	lastIdx := len(rs.pauseStack) - 1
	rs.frame = rs.pauseStack[lastIdx]
	rs.pauseStack = rs.pauseStack[:lastIdx]
}

// recordWrite stores the pre-batch value of n on first touch, queues n for
// the current batch and flushes if no batch is open.
func (rs *ReactiveSystem) recordWrite(n *cellNode, prev any) {
	if _, ok := rs.preBatch[n]; !ok {
		rs.preBatch[n] = prev
	}
	if !rs.pendingSet.Contains(n) {
		rs.pendingSet.Add(n)
		rs.pending = append(rs.pending, n)
	}
	if rs.batchDepth == 0 && !rs.flushing {
		rs.flush()
	}
}

func (rs *ReactiveSystem) flush() {
	if len(rs.pending) == 0 {
		return
	}
	if rs.run == nil {
		rs.drain()
		return
	}
	if rs.scheduled {
		return
	}
	rs.scheduled = true
	rs.run(func() {
		rs.scheduled = false
		rs.drain()
	})
}

// drain settles the batch: every cell downstream of a written cell is
// recomputed exactly once, inputs before outputs, and its listeners fire once
// with (settled value, value before the batch) - but only if those differ.
// Writes issued from inside a listener queue up and settle in a follow-up
// pass before drain returns.
func (rs *ReactiveSystem) drain() {
	if rs.flushing {
		return
	}
	rs.flushing = true
	defer func() { rs.flushing = false }()

	for len(rs.pending) > 0 {
		roots := rs.pending
		rs.pending = nil
		rs.pendingSet.Clear()
		pre := rs.preBatch
		rs.preBatch = map[*cellNode]any{}

		for _, n := range affectedInOrder(roots) {
			prev, seeded := pre[n]
			if !seeded {
				prev = n.value
			}
			next := n.refresh()
			if identical(next, prev) {
				continue
			}
			rs.notifyChanged(n, prev, next)
			n.fire(next, prev)
		}
	}
}

// affectedInOrder collects every cell reachable from the written roots along
// attached output edges, topologically ordered so each cell follows all of
// its inputs within the set.
func affectedInOrder(roots []*cellNode) []*cellNode {
	seen := mapset.NewThreadUnsafeSet[*cellNode]()
	var post []*cellNode
	var visit func(n *cellNode)
	visit = func(n *cellNode) {
		if seen.Contains(n) {
			return
		}
		seen.Add(n)
		for _, out := range n.outputs {
			visit(out)
		}
		post = append(post, n)
	}
	for _, r := range roots {
		visit(r)
	}
	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}
