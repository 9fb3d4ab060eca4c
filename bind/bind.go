// Package bind implements the three bidirectional binding tables that
// connect the immutable device graph (package device) to the mutable
// netlist (package netlist): bel↔cell, wire↔net, and pip→net.
//
// Each table's "forward" half already lives on the bound-to entity itself
// (a Cell's own Bel field, a Net's own Route map); Tables stores only the
// reverse half and enforces that the two halves never disagree by routing
// every mutation through Bind/Unbind rather than letting callers poke at
// netlist.Cell.Bel directly.
package bind

import (
	"fmt"

	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/internal/corepanic"
	"github.com/sarchlab/fabricpnr/netlist"
)

// Tables holds the reverse-direction binding maps for one Netlist/Graph
// pair.
type Tables struct {
	graph *device.Graph
	nl    *netlist.Netlist

	belToCell map[device.BelID]netlist.CellID
	wireToNet map[device.WireID]netlist.NetID
	pipToNet  map[device.PipID]netlist.NetID
}

// NewTables creates an empty binding table set over graph and nl.
func NewTables(graph *device.Graph, nl *netlist.Netlist) *Tables {
	return &Tables{
		graph:     graph,
		nl:        nl,
		belToCell: make(map[device.BelID]netlist.CellID),
		wireToNet: make(map[device.WireID]netlist.NetID),
		pipToNet:  make(map[device.PipID]netlist.NetID),
	}
}

// CellAtBel returns the cell bound to bel, if any.
func (t *Tables) CellAtBel(bel device.BelID) (netlist.CellID, bool) {
	c, ok := t.belToCell[bel]
	return c, ok
}

// NetAtWire returns the net bound to wire, if any.
func (t *Tables) NetAtWire(wire device.WireID) (netlist.NetID, bool) {
	n, ok := t.wireToNet[wire]
	return n, ok
}

// NetAtPip returns the net owning pip, derived as "whichever net owns the
// pip's destination wire".
func (t *Tables) NetAtPip(pip device.PipID) (netlist.NetID, bool) {
	dst := t.graph.Pips[pip].Dst
	return t.NetAtWire(dst)
}

// BindBel binds cell to bel with the given strength. It is an assertion
// failure (not a user error) to bind an already-bound bel or an
// already-bound cell — the placer is required to check BelAvailable
// first.
func (t *Tables) BindBel(bel device.BelID, cell netlist.CellID, strength netlist.Strength) {
	existing, alreadyBound := t.belToCell[bel]
	corepanic.Assert(!alreadyBound, "!alreadyBound",
		fmt.Sprintf("bind: bel %d already bound to cell %d", bel, existing))

	c := t.nl.MustCell(cell)
	corepanic.Assert(c.Bel == device.NoBel, "c.Bel == device.NoBel", "bind: cell already bound to a bel")

	t.belToCell[bel] = cell
	c.Bel = bel
	c.Strength = strength
}

// UnbindBel removes the binding at bel, if any.
func (t *Tables) UnbindBel(bel device.BelID) {
	cell, ok := t.belToCell[bel]
	if !ok {
		return
	}
	delete(t.belToCell, bel)
	c := t.nl.MustCell(cell)
	c.Bel = device.NoBel
	c.Strength = netlist.StrengthNone
}

// UnbindCell removes whatever bel a cell is bound to, if any.
func (t *Tables) UnbindCell(cell netlist.CellID) {
	c := t.nl.MustCell(cell)
	if c.Bel == device.NoBel {
		return
	}
	t.UnbindBel(c.Bel)
}

// BindWire binds wire into net's routing tree, arriving via pip (NoPip for
// the net's own source wire), with the given strength.
func (t *Tables) BindWire(wire device.WireID, net netlist.NetID, pip device.PipID, strength netlist.Strength) {
	if existing, ok := t.wireToNet[wire]; ok && existing != net {
		corepanic.Fail(fmt.Sprintf("existing == %d", net), fmt.Sprintf("bind: wire %d already bound to net %d", wire, existing))
	}

	n := t.nl.MustNet(net)
	if n.Route == nil {
		n.Route = make(map[device.WireID]netlist.RouteEdge)
	}
	n.Route[wire] = netlist.RouteEdge{Pip: pip, Strength: strength}
	t.wireToNet[wire] = net

	if pip != device.NoPip {
		t.pipToNet[pip] = net
	}
}

// UnbindWire removes wire from whatever net's routing tree it is part of.
func (t *Tables) UnbindWire(wire device.WireID) {
	net, ok := t.wireToNet[wire]
	if !ok {
		return
	}
	n := t.nl.MustNet(net)
	if edge, ok := n.Route[wire]; ok && edge.Pip != device.NoPip {
		delete(t.pipToNet, edge.Pip)
	}
	delete(n.Route, wire)
	delete(t.wireToNet, wire)
}

// UnbindNet tears down a net's entire routing tree.
func (t *Tables) UnbindNet(net netlist.NetID) {
	n := t.nl.MustNet(net)
	wires := make([]device.WireID, 0, len(n.Route))
	for w := range n.Route {
		wires = append(wires, w)
	}
	for _, w := range wires {
		t.UnbindWire(w)
	}
}

// BelAvailable reports whether bel has no cell bound to it.
func (t *Tables) BelAvailable(bel device.BelID) bool {
	_, ok := t.belToCell[bel]
	return !ok
}

// WireAvailable reports whether wire is unbound, or already bound to net
// (a net may always extend its own routing tree at no additional cost).
func (t *Tables) WireAvailable(wire device.WireID, net netlist.NetID) bool {
	bound, ok := t.wireToNet[wire]
	return !ok || bound == net
}

// CheckInvariants verifies the bel/wire/pip binding tables agree with the
// netlist's own view of its bindings. It is intended for tests and for the
// context's debug-mode consistency pass, not the hot path.
func (t *Tables) CheckInvariants() error {
	for bel, cell := range t.belToCell {
		c := t.nl.Cell(cell)
		if c == nil || c.Bel != bel {
			return fmt.Errorf("bind: invariant violated at bel %d / cell %d", bel, cell)
		}
	}

	var err error
	t.nl.AllNets(func(id netlist.NetID, n *netlist.Net) {
		if err != nil {
			return
		}
		for w := range n.Route {
			if bound := t.wireToNet[w]; bound != id {
				err = fmt.Errorf("bind: wire %d maps to net %d but net %d claims it", w, bound, id)
				return
			}
		}
	})

	return err
}
