// Package route implements the negotiated-congestion router: a
// ripup-and-retry router that lets nets share physical wires across
// iterations while driving congestion costs until every wire is used by
// at most one net. Each iteration rips up every non-locked net, routes
// every arc with A*, counts wires claimed by more than one net, raises
// their history cost, and repeats until a full iteration is conflict-free
// or the iteration cap is hit.
package route

import (
	"fmt"

	"github.com/sarchlab/fabricpnr/arch"
	"github.com/sarchlab/fabricpnr/bind"
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/netlist"
	"github.com/sarchlab/fabricpnr/rng"
)

// Config tunes the negotiated-congestion iteration loop.
type Config struct {
	MaxIterations int
	// PressureFactor is the initial per-wire occupancy cost multiplier,
	// raised slightly after every iteration.
	PressureFactor float64
	// PressureGrowth multiplies PressureFactor after each iteration.
	PressureGrowth float64
	// HistoryFactor scales the congestion penalty added to a wire's
	// history cost every iteration it remains congested.
	HistoryFactor float64
	// MaxGlobalHops bounds the dedicated-routing BFS used for clock/reset
	// nets before the main router runs.
	MaxGlobalHops int
}

// DefaultConfig returns reasonable defaults for a small-to-medium design.
func DefaultConfig() Config {
	return Config{
		MaxIterations:  100,
		PressureFactor: 1.0,
		PressureGrowth: 1.3,
		HistoryFactor:  1.0,
		MaxGlobalHops:  64,
	}
}

// Error is a fatal router failure: the iteration cap was exceeded with
// residual congestion. Per-arc failures are expected transients and never
// surface as an Error.
type Error struct {
	Iterations int
	Congested  []device.WireID
}

func (e *Error) Error() string {
	return fmt.Sprintf("route: failed to converge after %d iterations (%d wires still congested)", e.Iterations, len(e.Congested))
}

// Router negotiates wire sharing across nets until every wire is used by
// at most one net, then commits the result into the binding tables.
type Router struct {
	Graph *device.Graph
	Tbl   *bind.Tables
	NL    *netlist.Netlist
	Arch  arch.Arch
	RNG   *rng.RNG
	Cfg   Config

	wires []wireState
	nets  map[netlist.NetID]*netState

	// Iterations records how many iterations the last RouteAll call took,
	// for reporting.
	Iterations int

	// Sink, if non-nil, records a snapshot of this iteration's congestion
	// and history costs after every iteration — an optional observability
	// hook, not part of the router's correctness contract.
	Sink HistorySink
}

// HistorySink receives one snapshot per negotiated-congestion iteration.
// The only implementation in this package is the sqlite-backed
// HistoryDB; tests may supply their own for assertions without a database.
type HistorySink interface {
	RecordIteration(iter int, pressureFactor float64, congested []device.WireID, historyCost func(device.WireID) float64) error
}

// wireState is the router's own per-wire bookkeeping, kept separate from
// bind.Tables: during negotiated congestion, multiple nets may
// legitimately share one wire for several iterations before the history
// cost drives them apart, which bind.Tables' single-owner BindWire would
// reject outright.
type wireState struct {
	occupants   []netlist.NetID // nets currently using this wire, this iteration
	historyCost float64
}

func (w *wireState) occupancy() int { return len(w.occupants) }

func (w *wireState) hasOccupant(n netlist.NetID) bool {
	for _, o := range w.occupants {
		if o == n {
			return true
		}
	}
	return false
}

func (w *wireState) addOccupant(n netlist.NetID) {
	if !w.hasOccupant(n) {
		w.occupants = append(w.occupants, n)
	}
}

func (w *wireState) removeOccupant(n netlist.NetID) {
	for i, o := range w.occupants {
		if o == n {
			w.occupants = append(w.occupants[:i], w.occupants[i+1:]...)
			return
		}
	}
}

// arc is one source-bel-pin to sink-bel-pin connection within a net.
type arc struct {
	userIndex int // index into the net's LiveUsers(), or -1 for a dedicated-global sentinel arc
	srcWire   device.WireID
	dstWire   device.WireID
	state     arcState
}

type arcState uint8

const (
	arcUnrouted arcState = iota
	arcRouted
	arcFailedThisIter
)

// netState is the router's working routing tree for one net: which wires
// are currently part of the tree and the uphill pip that reached each one
// (device.NoPip for the net's own source wire), plus its arcs.
type netState struct {
	srcWire  device.WireID
	arcs     []arc
	tree     map[device.WireID]device.PipID
	strength netlist.Strength
}

// NewRouter builds a Router over graph/tbl/nl, using a the given Arch for
// availability/delay queries and rng for tie-breaking.
func NewRouter(graph *device.Graph, tbl *bind.Tables, nl *netlist.Netlist, a arch.Arch, r *rng.RNG, cfg Config) *Router {
	return &Router{
		Graph: graph,
		Tbl:   tbl,
		NL:    nl,
		Arch:  a,
		RNG:   r,
		Cfg:   cfg,
		wires: make([]wireState, len(graph.Wires)),
		nets:  make(map[netlist.NetID]*netState),
	}
}

// resolvePortWire finds the wire touched by cell's bel pin named port,
// given cell is bound to a bel.
func (r *Router) resolvePortWire(cell netlist.CellID, port netlist.PortRef) (device.WireID, bool) {
	c := r.NL.Cell(cell)
	if c == nil || c.Bel == device.NoBel {
		return device.NoWire, false
	}
	bel := &r.Graph.Bels[c.Bel]
	for i, pin := range bel.Pins {
		if pin.Name == port.Port {
			return r.Arch.BelPinWire(c.Bel, i), true
		}
	}
	return device.NoWire, false
}

// buildNetState constructs arcs for net from its current driver/users.
// Nets with no driver or no users have no arcs and route trivially.
func (r *Router) buildNetState(id netlist.NetID, n *netlist.Net) *netState {
	ns := &netState{tree: make(map[device.WireID]device.PipID), srcWire: device.NoWire, strength: netlist.StrengthWeak}

	srcWire, ok := r.resolvePortWire(n.Driver.Cell, netlist.PortRef{Cell: n.Driver.Cell, Port: n.Driver.Port})
	if !ok {
		return ns
	}
	ns.srcWire = srcWire

	for i, u := range n.LiveUsers() {
		dstWire, ok := r.resolvePortWire(u.Cell, netlist.PortRef{Cell: u.Cell, Port: u.Port})
		if !ok {
			continue
		}
		ns.arcs = append(ns.arcs, arc{userIndex: i, srcWire: srcWire, dstWire: dstWire, state: arcUnrouted})
	}

	return ns
}

// RouteAll runs the negotiated-congestion iteration loop over every net in
// nl with at least one arc, then commits the converged result into the
// binding tables. A net with no arcs (undriven, or driven but unused)
// routes trivially in the first iteration.
func (r *Router) RouteAll() error {
	r.dedicatedRouteGlobals()

	r.NL.AllNets(func(id netlist.NetID, n *netlist.Net) {
		if _, ok := r.nets[id]; !ok {
			r.nets[id] = r.buildNetState(id, n)
		}
	})

	for iter := 1; iter <= r.Cfg.MaxIterations; iter++ {
		r.Iterations = iter
		r.ripUp()

		var order []netlist.NetID
		for id := range r.nets {
			order = append(order, id)
		}
		sortNetIDs(order)

		for _, id := range order {
			r.routeNet(id, r.nets[id])
		}

		congested := r.countAndPenalizeConflicts()

		if r.Sink != nil {
			if err := r.Sink.RecordIteration(iter, r.Cfg.PressureFactor, congested, r.wireHistoryCost); err != nil {
				return fmt.Errorf("route: history sink: %w", err)
			}
		}

		if len(congested) == 0 {
			r.commit()
			return nil
		}

		r.Cfg.PressureFactor *= r.Cfg.PressureGrowth
	}

	return &Error{Iterations: r.Cfg.MaxIterations, Congested: r.congestedWires()}
}

// sortNetIDs fixes net visitation order to ascending id: visitation order
// is part of the router's deterministic contract, so only the A*
// tie-breaking inside routeArc draws from the RNG.
func sortNetIDs(ids []netlist.NetID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}

func sortWireIDs(ids []device.WireID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}

// ripUp clears every net's working tree whose routing strength is below
// Locked, returning their wires to the unoccupied state.
func (r *Router) ripUp() {
	for id, ns := range r.nets {
		if ns.strength >= netlist.StrengthLocked {
			continue
		}
		for w := range ns.tree {
			r.wires[w].removeOccupant(id)
		}
		ns.tree = make(map[device.WireID]device.PipID)
		for i := range ns.arcs {
			ns.arcs[i].state = arcUnrouted
		}
	}
}

// routeNet routes every unrouted arc of net id in turn, growing ns.tree
// incrementally so later arcs can reuse wires earlier arcs already
// claimed at no additional cost.
func (r *Router) routeNet(id netlist.NetID, ns *netState) {
	if ns.srcWire == device.NoWire {
		return
	}
	if _, ok := ns.tree[ns.srcWire]; !ok {
		ns.tree[ns.srcWire] = device.NoPip
		r.wires[ns.srcWire].addOccupant(id)
	}

	for i := range ns.arcs {
		a := &ns.arcs[i]
		if a.state == arcRouted {
			if _, ok := ns.tree[a.dstWire]; ok {
				continue
			}
			a.state = arcUnrouted
		}

		path, ok := r.routeArc(id, ns, a.dstWire)
		if !ok {
			a.state = arcFailedThisIter
			continue
		}

		for w, p := range path {
			ns.tree[w] = p
			r.wires[w].addOccupant(id)
		}
		a.state = arcRouted
	}
}

// countAndPenalizeConflicts scans every wire used this iteration,
// incrementing the history cost of any wire shared by more than one net,
// and returns the list of congested wires.
func (r *Router) countAndPenalizeConflicts() []device.WireID {
	var congested []device.WireID
	for w := range r.wires {
		occ := r.wires[w].occupancy()
		if occ > 1 {
			r.wires[w].historyCost += r.Cfg.HistoryFactor * float64(occ-1)
			congested = append(congested, device.WireID(w))
		}
	}
	return congested
}

// wireHistoryCost is the accessor HistorySink implementations use to read
// a wire's accumulated congestion penalty without exposing wireState.
func (r *Router) wireHistoryCost(w device.WireID) float64 {
	return r.wires[w].historyCost
}

func (r *Router) congestedWires() []device.WireID {
	var out []device.WireID
	for w := range r.wires {
		if r.wires[w].occupancy() > 1 {
			out = append(out, device.WireID(w))
		}
	}
	return out
}

// commit writes every net's converged working tree into the netlist and
// the binding tables. Called only once RouteAll has observed zero
// congestion, so every BindWire call below is guaranteed conflict-free.
func (r *Router) commit() {
	for id, ns := range r.nets {
		if ns.srcWire == device.NoWire {
			continue
		}
		order := orderedWires(ns.tree)
		for _, w := range order {
			if _, already := r.Tbl.NetAtWire(w); already {
				continue
			}
			r.Tbl.BindWire(w, id, ns.tree[w], netlist.StrengthWeak)
		}
	}
}

// orderedWires returns tree's keys with the source wire (NoPip entry)
// first, so BindWire always sees a wire's own driver before its
// downstream wires — not required for correctness (BindWire doesn't
// validate ancestry) but keeps Net.Route populated in a stable,
// reviewable order.
func orderedWires(tree map[device.WireID]device.PipID) []device.WireID {
	var out []device.WireID
	for w, p := range tree {
		if p == device.NoPip {
			out = append(out, w)
		}
	}
	for w, p := range tree {
		if p != device.NoPip {
			out = append(out, w)
		}
	}
	return out
}
