// Package netlist models the mutable design: cells, nets, ports,
// hierarchical cells, and regions. Cells and nets are created
// by the netlist front-end and by the packer pipeline; they are destroyed
// only when explicitly removed, and live exactly as long as the owning
// Netlist.
//
// Cells and nets never hold pointers to each
// other: a Cell's ports carry the NetID they connect to, and a Net's user
// list is a slice of (cell, port) pairs addressed by a stable UserIndex.
// This avoids owning-pointer cycles and keeps serialization trivial.
//
// Binding (which cell occupies which bel, which net occupies which wires)
// is layered on top in package bind, which depends on both device and
// netlist; netlist itself only stores the "forward" half of each binding
// (a cell's own Bel field, a net's own Route map) so that a Cell or Net
// can be inspected without reaching into the binding tables.
package netlist

import (
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/internal/corepanic"
)

// CellID and NetID are dense indices into a Netlist's arenas. A removed
// cell or net's slot stays tombstoned (Live: false) and the arenas are
// never compacted, so previously-handed-out indices stay valid across
// insertion/removal. A net's user list is tombstoned the same way until
// Compact is called on that net.
type CellID int32

// NetID indexes a Netlist's net arena.
type NetID int32

// NoCell and NoNet are the sentinel "absent" values.
const (
	NoCell CellID = -1
	NoNet  NetID  = -1
)

// Strength is the placement/routing strength tag of a binding.
type Strength uint8

// The binding strengths, ordered weakest to strongest; ripup only removes
// bindings with Strength < Locked.
const (
	StrengthNone Strength = iota
	StrengthWeak
	StrengthStrong
	StrengthFixed
	StrengthLocked
	StrengthUser
)

// PortRef identifies one port by its owning cell and the port's name.
type PortRef struct {
	Cell CellID
	Port idstring.ID
}

// Port is a typed endpoint on a cell.
type Port struct {
	Name idstring.ID
	Dir  device.Direction

	// Net is the net this port connects to, or NoNet if unconnected.
	Net NetID
	// UserIndex is this port's stable slot in Net.Users when Dir is an
	// input (a "user"); it is -1 for the driver port and for unconnected
	// ports. UserIndex survives later insertions/removals into the same
	// net's user list because removal only tombstones the slot.
	UserIndex int
}

// ClusterRel is a cell's placement offset relative to its cluster's root:
// relative constraints (Δx, Δy, Δz, an abs-z flag) used by macros whose
// members must land in a fixed relative arrangement.
type ClusterRel struct {
	Root   CellID
	DX, DY int32
	DZ     int32
	AbsZ   bool
}

// Cell is an instance of a primitive.
type Cell struct {
	Live bool
	Name idstring.ID
	Type idstring.ID

	Attrs  map[idstring.ID]Property
	Params map[idstring.ID]Property

	Ports     map[idstring.ID]*Port
	portOrder []idstring.ID // insertion order, for deterministic iteration

	Bel      device.BelID
	Strength Strength

	HasCluster bool
	Cluster    ClusterRel

	HasRegion bool
	Region    RegionID
}

// PortsInOrder returns the cell's ports in insertion order, for callers that need
// deterministic iteration (the packer's rule application in particular).
func (c *Cell) PortsInOrder() []*Port {
	out := make([]*Port, len(c.portOrder))
	for i, name := range c.portOrder {
		out[i] = c.Ports[name]
	}
	return out
}

// RegionID indexes a Netlist's region table.
type RegionID int32

// Region is a named rectangle + bel-set constraint.
type Region struct {
	Name      idstring.ID
	X0, Y0    int32
	X1, Y1    int32
	BucketSet map[idstring.ID]bool
}

// NetUser is one entry in a Net's user (sink) list. Tombstoned entries
// have Cell == NoCell and are skipped by iteration but keep their index
// stable for any PortRef.UserIndex pointing at them.
type NetUser struct {
	Cell CellID
	Port idstring.ID
}

// RouteEdge is the uphill pip feeding one wire in a net's routing tree,
// plus the strength of that routing decision.
type RouteEdge struct {
	Pip      device.PipID // NoPip for the net's own source wire
	Strength Strength
}

// Net is a logical signal: one optional driver, zero or more
// users, and its current routing tree expressed as wire → uphill-pip
// (populated by the router, empty before routing).
type Net struct {
	Live   bool
	Name   idstring.ID
	Attrs  map[idstring.ID]Property
	Driver PortRef // Driver.Cell == NoCell if undriven

	Users     []NetUser
	liveUsers int // count of non-tombstoned entries

	Route map[device.WireID]RouteEdge
}

// Netlist is the full mutable design: the cell/net/region arenas plus the
// idstring pool they're interned against.
type Netlist struct {
	Pool *idstring.Pool

	cells   []Cell
	nets    []Net
	regions []Region

	cellByName map[idstring.ID]CellID
	netByName  map[idstring.ID]NetID

	liveCellCount int
	liveNetCount  int
}

// New creates an empty Netlist interning names through pool.
func New(pool *idstring.Pool) *Netlist {
	return &Netlist{
		Pool:       pool,
		cellByName: make(map[idstring.ID]CellID),
		netByName:  make(map[idstring.ID]NetID),
	}
}

// Cell returns a pointer to the cell with id, or nil if id is out of range
// or tombstoned.
func (nl *Netlist) Cell(id CellID) *Cell {
	if int(id) < 0 || int(id) >= len(nl.cells) || !nl.cells[id].Live {
		return nil
	}
	return &nl.cells[id]
}

// MustCell is Cell but panics (an assertion failure) if id is absent —
// for call sites that have already established id must be live.
func (nl *Netlist) MustCell(id CellID) *Cell {
	c := nl.Cell(id)
	corepanic.Assert(c != nil, "c != nil", "netlist: MustCell on absent cell")
	return c
}

// Net returns a pointer to the net with id, or nil if id is out of range
// or tombstoned.
func (nl *Netlist) Net(id NetID) *Net {
	if int(id) < 0 || int(id) >= len(nl.nets) || !nl.nets[id].Live {
		return nil
	}
	return &nl.nets[id]
}

// MustNet is Net but panics if id is absent.
func (nl *Netlist) MustNet(id NetID) *Net {
	n := nl.Net(id)
	corepanic.Assert(n != nil, "n != nil", "netlist: MustNet on absent net")
	return n
}

// CellByName looks up a live cell by its interned name.
func (nl *Netlist) CellByName(name idstring.ID) (CellID, bool) {
	id, ok := nl.cellByName[name]
	if ok && !nl.cells[id].Live {
		return NoCell, false
	}
	return id, ok
}

// NetByName looks up a live net by its interned name.
func (nl *Netlist) NetByName(name idstring.ID) (NetID, bool) {
	id, ok := nl.netByName[name]
	if ok && !nl.nets[id].Live {
		return NoNet, false
	}
	return id, ok
}

// CellCount returns the number of live cells.
func (nl *Netlist) CellCount() int { return nl.liveCellCount }

// NetCount returns the number of live nets.
func (nl *Netlist) NetCount() int { return nl.liveNetCount }

// AllCells iterates every live cell in arena order, calling fn(id, cell).
func (nl *Netlist) AllCells(fn func(CellID, *Cell)) {
	for i := range nl.cells {
		if nl.cells[i].Live {
			fn(CellID(i), &nl.cells[i])
		}
	}
}

// AllNets iterates every live net in arena order, calling fn(id, net).
func (nl *Netlist) AllNets(fn func(NetID, *Net)) {
	for i := range nl.nets {
		if nl.nets[i].Live {
			fn(NetID(i), &nl.nets[i])
		}
	}
}
