package ripple

import (
	"fmt"
	"log/slog"
)

// Probe receives lifecycle events from the engine for debugging and devtools.
// Probes observe only: they run after the state change they report and must
// not mutate the graph.
type Probe interface {
	CellCreated(c AnyCell)
	ValueChanged(c AnyCell, prev, next any)
	Attached(c AnyCell)
	Detached(c AnyCell)
}

// Instrument registers a probe. Multiple probes fire in registration order.
func (rs *ReactiveSystem) Instrument(p Probe) {
	rs.probes = append(rs.probes, p)
}

func (rs *ReactiveSystem) notifyCreated(c AnyCell) {
	for _, p := range rs.probes {
		p.CellCreated(c)
	}
}

func (rs *ReactiveSystem) notifyChanged(n *cellNode, prev, next any) {
	for _, p := range rs.probes {
		p.ValueChanged(n.owner, prev, next)
	}
}

func (rs *ReactiveSystem) notifyAttached(n *cellNode) {
	for _, p := range rs.probes {
		p.Attached(n.owner)
	}
}

func (rs *ReactiveSystem) notifyDetached(n *cellNode) {
	for _, p := range rs.probes {
		p.Detached(n.owner)
	}
}

// NoopProbe satisfies Probe and does nothing; embed it to implement a subset.
type NoopProbe struct{}

func (NoopProbe) CellCreated(AnyCell)            {}
func (NoopProbe) ValueChanged(AnyCell, any, any) {}
func (NoopProbe) Attached(AnyCell)               {}
func (NoopProbe) Detached(AnyCell)               {}

// SlogProbe logs every engine event at debug level.
type SlogProbe struct {
	Log *slog.Logger
}

func cellID(c AnyCell) string {
	if c == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%p", c.node())
}

func (p SlogProbe) CellCreated(c AnyCell) {
	p.Log.Debug("cell created", "cell", cellID(c))
}

func (p SlogProbe) ValueChanged(c AnyCell, prev, next any) {
	p.Log.Debug("value changed", "cell", cellID(c), "prev", prev, "next", next)
}

func (p SlogProbe) Attached(c AnyCell) {
	p.Log.Debug("attached", "cell", cellID(c))
}

func (p SlogProbe) Detached(c AnyCell) {
	p.Log.Debug("detached", "cell", cellID(c))
}
