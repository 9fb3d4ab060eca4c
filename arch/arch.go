// Package arch defines the narrow capability interface every generic
// algorithm (packer, placer validity checker, router, timing analyzer) is
// written against. A new device family implements only this
// interface plus a pack function; everything else is built over it.
package arch

import (
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

// BoundingBox is an inclusive (x0,y0)-(x1,y1) rectangle used to prune
// placement and routing search.
type BoundingBox struct {
	X0, Y0, X1, Y1 int32
}

// Contains reports whether (x, y) lies within the box.
func (b BoundingBox) Contains(x, y int32) bool {
	return x >= b.X0 && x <= b.X1 && y >= b.Y0 && y <= b.Y1
}

// Arch is the capability contract every device family must satisfy.
// Generic algorithms take an Arch value (not a concrete struct) so they
// work across families without any virtual dispatch layer.
type Arch interface {
	// --- Enumerations ---
	AllBels() []device.BelID
	AllWires() []device.WireID
	AllPips() []device.PipID
	PipsUphill(w device.WireID) []device.PipID
	PipsDownhill(w device.WireID) []device.PipID
	BelPins(w device.WireID) []device.WireBelPinRef

	// --- Lookups ---
	BelByName(name idstring.ID) (device.BelID, bool)
	WireByName(name idstring.ID) (device.WireID, bool)
	PipByName(name idstring.ID) (device.PipID, bool)
	PipSrcWire(p device.PipID) device.WireID
	PipDstWire(p device.PipID) device.WireID
	PipIsDedicated(p device.PipID) bool
	BelPinWire(b device.BelID, pinIdx int) device.WireID
	BelPinWireByName(b device.BelID, pin idstring.ID) (device.WireID, bool)
	BelName(b device.BelID) idstring.ID
	BelLocation(b device.BelID) (x, y, z int32)
	BelType(b device.BelID) idstring.ID
	BelBucket(b device.BelID) idstring.ID

	// --- Availability ---
	BelAvailable(b device.BelID) bool
	WireAvailable(w device.WireID, net netlist.NetID) bool
	PipAvailable(p device.PipID) bool
	PipAvailableForNet(p device.PipID, net netlist.NetID) bool

	// --- Delay ---
	PipDelay(p device.PipID) float64
	WireDelay(w device.WireID) float64
	CellCombinationalDelay(cellType, fromPort, toPort idstring.ID) (float64, bool)
	CellSequentialDelay(cellType, port, clockPort idstring.ID) (setup, hold, clockToQ float64, ok bool)

	// --- Estimators ---
	EstimateDelay(src, dst device.WireID) float64
	PredictDelay(srcBel device.BelID, srcPin idstring.ID, dstBel device.BelID, dstPin idstring.ID) float64
	BelBoundingBox(a, b device.BelID, slack int32) BoundingBox

	// --- Validity ---
	BelValidForCellType(cellType idstring.ID, bel device.BelID) bool
	BelLocationValid(tile TileKey, explain bool) (ok bool, reason string)

	// --- Mutation hooks ---
	OnBelChange(b device.BelID, cell netlist.CellID, bound bool)
	OnWireChange(w device.WireID, net netlist.NetID, bound bool)
	OnPipChange(p device.PipID, net netlist.NetID, bound bool)

	// --- Misc capabilities used by the packer/router ---
	GlobalBufferCount() int
	PinStyle(cellType, port idstring.ID) PinStyle
	LutPermutationEquivalent(bel device.BelID, perm []int) bool
	GridDelay() float64
}

// TileKey identifies one tile (an (x, y) location grouping co-located
// bels) for the placement validity checker.
type TileKey struct {
	X, Y int32
}

// PinStyle is the architecture-defined default-connection behavior for one
// cell-type/port pair, consulted by the packer's constant-handling pass.
type PinStyle struct {
	DefaultZero  bool // PINDEF_0
	DefaultOne   bool // PINDEF_1
	HardInvert   bool // a hard inverter exists at this pin
	HardConstSel bool // a hard constant-select mux exists at this pin
	GlobalClock  bool // PINGLB_CLK: counts toward global-buffer promotion fanout
}
