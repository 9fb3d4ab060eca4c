package arch

import (
	"math"

	"github.com/sarchlab/fabricpnr/bind"
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

var (
	_ Arch = (*GridArch)(nil)
	_ Arch = (*MockArch)(nil)
)

// DelayRule is one cell-type timing arc loaded by a device family's arch
// description.
type DelayRule struct {
	CellType idstring.ID
	From, To idstring.ID
	Comb     float64 // combinational delay, valid when Clock is the zero value
	Clock    idstring.ID
	Setup    float64
	Hold     float64
	ClockToQ float64
}

// GridArch is the default Arch implementation: a uniform (x, y) grid fabric
// whose bel/wire/pip geometry lives entirely in the device.Graph, with a
// small table of cell-type timing rules and pin styles layered on top.
// Device families that don't fit a uniform grid can implement Arch
// directly instead.
type GridArch struct {
	Graph *device.Graph
	Tbl   *bind.Tables

	delayRules  map[delayKey]DelayRule
	pinStyles   map[pinKey]PinStyle
	cellBuckets map[idstring.ID]map[idstring.ID]bool // cellType -> allowed bel buckets

	gridDelay  float64 // nanoseconds per Manhattan grid step
	globalBufs []device.BelID
}

type delayKey struct {
	cellType, from, to idstring.ID
}

type pinKey struct {
	cellType, port idstring.ID
}

// NewGridArch builds a GridArch over an already-constructed device graph
// and binding tables. gridDelay is the per-unit-Manhattan-distance delay
// used by PredictDelay.
func NewGridArch(graph *device.Graph, tbl *bind.Tables, gridDelay float64) *GridArch {
	return &GridArch{
		Graph:       graph,
		Tbl:         tbl,
		delayRules:  make(map[delayKey]DelayRule),
		pinStyles:   make(map[pinKey]PinStyle),
		cellBuckets: make(map[idstring.ID]map[idstring.ID]bool),
		gridDelay:   gridDelay,
	}
}

// AllowBucket records that cells of cellType may be placed on bels whose
// Bucket is bucket. A cellType with no recorded buckets is allowed on any
// bel (BelValidForCellType returns true unconditionally until the first
// call for that type).
func (a *GridArch) AllowBucket(cellType, bucket idstring.ID) {
	set, ok := a.cellBuckets[cellType]
	if !ok {
		set = make(map[idstring.ID]bool)
		a.cellBuckets[cellType] = set
	}
	set[bucket] = true
}

// AddDelayRule registers one timing arc for a cell type.
func (a *GridArch) AddDelayRule(r DelayRule) {
	a.delayRules[delayKey{r.CellType, r.From, r.To}] = r
}

// AddPinStyle registers one cell-type/port default-drive style.
func (a *GridArch) AddPinStyle(cellType, port idstring.ID, style PinStyle) {
	a.pinStyles[pinKey{cellType, port}] = style
}

// AddGlobalBuffer registers bel as a global clock buffer site, counted by
// GlobalBufferCount for the packer's promotion-budget check.
func (a *GridArch) AddGlobalBuffer(bel device.BelID) {
	a.globalBufs = append(a.globalBufs, bel)
}

func (a *GridArch) AllBels() []device.BelID {
	out := make([]device.BelID, len(a.Graph.Bels))
	for i := range a.Graph.Bels {
		out[i] = device.BelID(i)
	}
	return out
}

func (a *GridArch) AllWires() []device.WireID {
	out := make([]device.WireID, len(a.Graph.Wires))
	for i := range a.Graph.Wires {
		out[i] = device.WireID(i)
	}
	return out
}

func (a *GridArch) AllPips() []device.PipID {
	out := make([]device.PipID, len(a.Graph.Pips))
	for i := range a.Graph.Pips {
		out[i] = device.PipID(i)
	}
	return out
}

func (a *GridArch) PipsUphill(w device.WireID) []device.PipID   { return a.Graph.PipsUphill(w) }
func (a *GridArch) PipsDownhill(w device.WireID) []device.PipID { return a.Graph.PipsDownhill(w) }
func (a *GridArch) BelPins(w device.WireID) []device.WireBelPinRef {
	return a.Graph.Wires[w].BelPins
}

func (a *GridArch) BelByName(name idstring.ID) (device.BelID, bool)   { return a.Graph.BelByName(name) }
func (a *GridArch) WireByName(name idstring.ID) (device.WireID, bool) { return a.Graph.WireByName(name) }
func (a *GridArch) PipByName(name idstring.ID) (device.PipID, bool)   { return a.Graph.PipByName(name) }
func (a *GridArch) PipSrcWire(p device.PipID) device.WireID           { return a.Graph.Pips[p].Src }
func (a *GridArch) PipDstWire(p device.PipID) device.WireID           { return a.Graph.Pips[p].Dst }
func (a *GridArch) PipIsDedicated(p device.PipID) bool {
	return a.Graph.Pips[p].Category == device.CategoryDedicated
}
func (a *GridArch) BelPinWire(b device.BelID, pinIdx int) device.WireID {
	return a.Graph.BelPinWire(b, pinIdx)
}

func (a *GridArch) BelPinWireByName(b device.BelID, pin idstring.ID) (device.WireID, bool) {
	for _, p := range a.Graph.Bels[b].Pins {
		if p.Name == pin {
			return p.Wire, true
		}
	}
	return device.NoWire, false
}

func (a *GridArch) BelName(b device.BelID) idstring.ID { return a.Graph.Bels[b].Name }

func (a *GridArch) BelLocation(b device.BelID) (x, y, z int32) {
	bel := &a.Graph.Bels[b]
	return bel.X, bel.Y, bel.Z
}

func (a *GridArch) BelType(b device.BelID) idstring.ID   { return a.Graph.Bels[b].Type }
func (a *GridArch) BelBucket(b device.BelID) idstring.ID { return a.Graph.Bels[b].Bucket }

func (a *GridArch) BelAvailable(b device.BelID) bool { return a.Tbl.BelAvailable(b) }
func (a *GridArch) WireAvailable(w device.WireID, net netlist.NetID) bool {
	return a.Tbl.WireAvailable(w, net)
}

// PipAvailable reports whether pip's destination wire is free.
func (a *GridArch) PipAvailable(p device.PipID) bool {
	dst := a.Graph.Pips[p].Dst
	_, bound := a.Tbl.NetAtWire(dst)
	return !bound
}

// PipAvailableForNet reports whether pip can be used to extend net's
// routing tree: either its destination wire is free, or already owned by
// net.
func (a *GridArch) PipAvailableForNet(p device.PipID, net netlist.NetID) bool {
	dst := a.Graph.Pips[p].Dst
	return a.Tbl.WireAvailable(dst, net)
}

func (a *GridArch) PipDelay(p device.PipID) float64 { return a.Graph.Pips[p].Delay }
func (a *GridArch) WireDelay(w device.WireID) float64 { return 0 }

func (a *GridArch) CellCombinationalDelay(cellType, fromPort, toPort idstring.ID) (float64, bool) {
	r, ok := a.delayRules[delayKey{cellType, fromPort, toPort}]
	if !ok || r.Clock != idstring.Empty {
		return 0, false
	}
	return r.Comb, true
}

func (a *GridArch) CellSequentialDelay(cellType, port, clockPort idstring.ID) (setup, hold, clockToQ float64, ok bool) {
	r, found := a.delayRules[delayKey{cellType, clockPort, port}]
	if !found || r.Clock == idstring.Empty {
		return 0, 0, 0, false
	}
	return r.Setup, r.Hold, r.ClockToQ, true
}

// EstimateDelay is the router's cheap per-step cost heuristic: the
// Manhattan distance between the two wires' grid coordinates times the
// per-grid-step delay, with no fixed per-pip term, used alongside the
// history-cost/pressure-factor terms in the A* search.
func (a *GridArch) EstimateDelay(src, dst device.WireID) float64 {
	sw, dw := &a.Graph.Wires[src], &a.Graph.Wires[dst]
	dx := math.Abs(float64(dw.X - sw.X))
	dy := math.Abs(float64(dw.Y - sw.Y))
	return (dx + dy) * a.gridDelay
}

// PredictDelay is the placer's pre-route cost estimator: pure Manhattan
// distance between two bels' locations times the per-grid-step delay
// constant.
func (a *GridArch) PredictDelay(srcBel device.BelID, srcPin idstring.ID, dstBel device.BelID, dstPin idstring.ID) float64 {
	sx, sy, _ := a.BelLocation(srcBel)
	dx, dy, _ := a.BelLocation(dstBel)
	manhattan := math.Abs(float64(dx-sx)) + math.Abs(float64(dy-sy))
	return manhattan * a.gridDelay
}

// BelBoundingBox returns the rectangle spanning a and b, grown by slack on
// every side, used to prune the router's A* search.
func (a *GridArch) BelBoundingBox(a1, b device.BelID, slack int32) BoundingBox {
	ax, ay, _ := a.BelLocation(a1)
	bx, by, _ := a.BelLocation(b)
	x0, x1 := ax, bx
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	y0, y1 := ay, by
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return BoundingBox{X0: x0 - slack, Y0: y0 - slack, X1: x1 + slack, Y1: y1 + slack}
}

// BelValidForCellType reports whether bel's bucket can host cellType. A
// GridArch keys valid placement purely off the bel's declared bucket,
// recorded per cell type by AllowBucket at arch-construction time.
func (a *GridArch) BelValidForCellType(cellType idstring.ID, bel device.BelID) bool {
	allowed, ok := a.cellBuckets[cellType]
	if !ok {
		return true
	}
	return allowed[a.Graph.Bels[bel].Bucket]
}

// BelLocationValid reports every tile valid: GridArch has no
// tile-co-location rules of its own and does not call package place's
// tile-status checker. Device families with real co-location
// constraints wrap GridArch and override this method.
func (a *GridArch) BelLocationValid(tile TileKey, explain bool) (bool, string) {
	return true, ""
}

func (a *GridArch) OnBelChange(b device.BelID, cell netlist.CellID, bound bool)  {}
func (a *GridArch) OnWireChange(w device.WireID, net netlist.NetID, bound bool) {}
func (a *GridArch) OnPipChange(p device.PipID, net netlist.NetID, bound bool)   {}

func (a *GridArch) GlobalBufferCount() int { return len(a.globalBufs) }

func (a *GridArch) PinStyle(cellType, port idstring.ID) PinStyle {
	return a.pinStyles[pinKey{cellType, port}]
}

// LutPermutationEquivalent reports whether permuting bel's LUT inputs by
// perm yields an equivalent configuration, always true for a plain LUT bel.
func (a *GridArch) LutPermutationEquivalent(bel device.BelID, perm []int) bool {
	return true
}

func (a *GridArch) GridDelay() float64 { return a.gridDelay }
