// Package place implements the placement validity checker: the fast,
// incremental predicates consulted by an external placement search after
// every trial bel↔cell bind. The checker never mutates bindings; it only
// reads the bound state at one tile and reports whether the co-location
// rules hold.
//
// Checks return a single boolean (plus an optional explanation string)
// rather than an issue list, since the placer calls this on the hot path
// after every trial move.
package place

import (
	"fmt"

	"github.com/sarchlab/fabricpnr/arch"
	"github.com/sarchlab/fabricpnr/bind"
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

// TileLimits bounds one tile's co-location capacity, supplied by the
// architecture description.
type TileLimits struct {
	// MaxMuxInputs caps the combined distinct input-net count of LUTs
	// sharing one physical input mux.
	MaxMuxInputs int
	// MaxINITBits caps the combined INIT storage width of LUTs sharing
	// one mux slot.
	MaxINITBits int
	// ControlSetRegions is the number of independent FF control-set
	// regions per tile.
	ControlSetRegions int
	// FFsPerRegion maps a z-offset to the control-set region index it
	// belongs to.
	FFsPerRegion map[int32]int
}

// TileStatus groups every cell currently bound at one tile (x, y) into the
// per-z-offset slots the generic legality checks walk. Callers (the
// placer driving trial moves) build one TileStatus per candidate tile
// from the current binding state before calling Check.
type TileStatus struct {
	X, Y int32

	// Cells maps a bel's z-offset to the cell bound there, if any.
	Cells map[int32]netlist.CellID
}

// NewTileStatus collects every cell bound to a bel at (x, y) into a
// TileStatus, reading the bel locations from graph and the bindings from
// tbl.
func NewTileStatus(graph *device.Graph, tbl *bind.Tables, x, y int32) *TileStatus {
	ts := &TileStatus{X: x, Y: y, Cells: make(map[int32]netlist.CellID)}
	for bi := range graph.Bels {
		b := &graph.Bels[bi]
		if b.X != x || b.Y != y {
			continue
		}
		if cell, ok := tbl.CellAtBel(device.BelID(bi)); ok {
			ts.Cells[b.Z] = cell
		}
	}
	return ts
}

// Checker evaluates TileStatus values against one architecture's tile
// limits and a netlist's cell records.
type Checker struct {
	NL     *netlist.Netlist
	Pool   *idstring.Pool
	Limits TileLimits
}

// NewChecker builds a Checker over nl, interning identifiers through pool.
func NewChecker(nl *netlist.Netlist, pool *idstring.Pool, limits TileLimits) *Checker {
	return &Checker{NL: nl, Pool: pool, Limits: limits}
}

// Check runs every co-location predicate against ts and reports whether
// the tile is legal. When explain is true and the tile is illegal, reason
// names the first predicate that failed; Check is side-effect free with
// respect to bindings in either case.
func (c *Checker) Check(ts *TileStatus, a arch.Arch, explain bool) (ok bool, reason string) {
	checks := []func(*TileStatus) string{
		c.checkMuxSharing,
		c.checkControlSets,
		c.checkCarryContiguity,
		c.checkMuxWidths,
		c.checkFFDataRouting,
		c.checkExtendedStorage,
	}

	for _, fn := range checks {
		if msg := fn(ts); msg != "" {
			if explain {
				return false, msg
			}
			return false, ""
		}
	}

	return true, ""
}

// cellsOfType returns the cells in ts bound at the given type, in
// ascending z-offset order for deterministic iteration.
func (c *Checker) cellsOfType(ts *TileStatus, typeName string) []netlist.CellID {
	want := c.Pool.Intern(typeName)
	zs := sortedZ(ts)
	var out []netlist.CellID
	for _, z := range zs {
		cell := c.NL.Cell(ts.Cells[z])
		if cell != nil && cell.Type == want {
			out = append(out, ts.Cells[z])
		}
	}
	return out
}

func sortedZ(ts *TileStatus) []int32 {
	zs := make([]int32, 0, len(ts.Cells))
	for z := range ts.Cells {
		zs = append(zs, z)
	}
	for i := 1; i < len(zs); i++ {
		for j := i; j > 0 && zs[j-1] > zs[j]; j-- {
			zs[j-1], zs[j] = zs[j], zs[j-1]
		}
	}
	return zs
}

func fmtIssue(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
