package place

import (
	"strconv"

	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

// controlSetFingerprintParams are the FF parameters in a control-set
// region's fingerprint: clock, enable and reset polarity, and sync/async
// mode. The clock, enable and reset nets are added by
// controlSetFingerprint.
var controlSetFingerprintParams = []string{"CLKMUX", "CEMUX", "LSRMUX", "SRMODE", "REGSET"}

const combType = "LUTCOMB"
const ffType = "FF"
const carryHeadType = "CCU2_HEAD"
const carryTailType = "CCU2_TAIL"
const mux2Type = "MUX2COMB"
const distRAMType = "LUTRAM"

const initParam = "INIT"
const dataSelParam = "DATA_SEL"

// checkMuxSharing enforces that LUTs sharing one physical input mux stay
// within the architecture's mux width and INIT storage budget.
func (c *Checker) checkMuxSharing(ts *TileStatus) string {
	luts := c.cellsOfType(ts, combType)
	if len(luts) == 0 {
		return ""
	}

	distinctInputs := make(map[netlist.NetID]bool)
	totalInitBits := 0
	for _, id := range luts {
		cell := c.NL.MustCell(id)
		for _, p := range cell.PortsInOrder() {
			if p.Net != netlist.NoNet && p.Dir != device.DirOut {
				distinctInputs[p.Net] = true
			}
		}
		if v, ok := cell.Params[c.Pool.Intern(initParam)]; ok && v.IsBits() {
			totalInitBits += v.Width()
		}
	}

	if c.Limits.MaxMuxInputs > 0 && len(distinctInputs) > c.Limits.MaxMuxInputs {
		return fmtIssue("tile (%d,%d): %d distinct LUT inputs exceed mux width %d", ts.X, ts.Y, len(distinctInputs), c.Limits.MaxMuxInputs)
	}
	if c.Limits.MaxINITBits > 0 && totalInitBits > c.Limits.MaxINITBits {
		return fmtIssue("tile (%d,%d): %d combined INIT bits exceed slot budget %d", ts.X, ts.Y, totalInitBits, c.Limits.MaxINITBits)
	}
	return ""
}

// checkControlSets enforces that every FF in one control-set region
// agrees on (clock, clock polarity, enable, enable polarity, reset,
// reset polarity, sync/async).
func (c *Checker) checkControlSets(ts *TileStatus) string {
	if c.Limits.FFsPerRegion == nil {
		return ""
	}

	fingerprints := make(map[int]string)
	for z, cellID := range ts.Cells {
		cell := c.NL.Cell(cellID)
		if cell == nil || cell.Type != c.Pool.Intern(ffType) {
			continue
		}
		region, ok := c.Limits.FFsPerRegion[z]
		if !ok {
			continue
		}
		fp := controlSetFingerprint(c.Pool, cell)
		if existing, seen := fingerprints[region]; seen && existing != fp {
			return fmtIssue("tile (%d,%d): control-set region %d has mismatched FFs", ts.X, ts.Y, region)
		}
		fingerprints[region] = fp
	}
	return ""
}

// controlSetFingerprint renders an FF's control set (its clock, enable and
// reset nets plus the parameters above) as one comparable string.
func controlSetFingerprint(pool *idstring.Pool, cell *netlist.Cell) string {
	fp := ""
	for _, name := range controlSetFingerprintParams {
		if v, ok := cell.Params[pool.Intern(name)]; ok && v.IsString() {
			fp += name + "=" + v.AsString() + ";"
		}
	}
	for _, name := range []string{"CLK", "CE", "LSR"} {
		if p, ok := cell.Ports[pool.Intern(name)]; ok && p.Net != netlist.NoNet {
			fp += name + "=" + strconv.Itoa(int(p.Net)) + ";"
		}
	}
	return fp
}

// checkCarryContiguity enforces that a carry cell at z-offset k has the
// adjacent cell at z-offset k-1 also be carry, or be the chain head.
func (c *Checker) checkCarryContiguity(ts *TileStatus) string {
	headT, tailT := c.Pool.Intern(carryHeadType), c.Pool.Intern(carryTailType)

	for z, cellID := range ts.Cells {
		cell := c.NL.Cell(cellID)
		if cell == nil || cell.Type != tailT {
			continue
		}
		below, ok := ts.Cells[z-1]
		if !ok {
			return fmtIssue("tile (%d,%d): carry tail at z=%d has no adjacent cell below it", ts.X, ts.Y, z)
		}
		belowCell := c.NL.Cell(below)
		if belowCell == nil || (belowCell.Type != headT && belowCell.Type != tailT) {
			return fmtIssue("tile (%d,%d): carry chain broken at z=%d", ts.X, ts.Y, z)
		}
	}
	return ""
}

// checkMuxWidths enforces that split MUX2/MUX4/MUX8 cells of different
// widths don't mix within one tile. The z-offsets of mux cells relative to
// their LUTs are not checked.
func (c *Checker) checkMuxWidths(ts *TileStatus) string {
	muxT := c.Pool.Intern(mux2Type)
	widths := make(map[string]bool)
	for _, cellID := range ts.Cells {
		cell := c.NL.Cell(cellID)
		if cell == nil || cell.Type != muxT {
			continue
		}
		if v, ok := cell.Params[c.Pool.Intern("WIDTH")]; ok && v.IsString() {
			widths[v.AsString()] = true
		}
	}
	if len(widths) > 1 {
		return fmtIssue("tile (%d,%d): mixed mux widths in one tile", ts.X, ts.Y)
	}
	return ""
}

// checkFFDataRouting enforces that an FF's data input net either equals
// its paired LUT's combinational output (fusion) or an explicit secondary
// routing path, and never both, and never neither when the FF is present
// without a paired LUT.
func (c *Checker) checkFFDataRouting(ts *TileStatus) string {
	ffT, combT := c.Pool.Intern(ffType), c.Pool.Intern(combType)
	diPort := c.Pool.Intern("DI")
	mPort := c.Pool.Intern("M")

	for z, cellID := range ts.Cells {
		ff := c.NL.Cell(cellID)
		if ff == nil || ff.Type != ffT {
			continue
		}

		pairedLUT, hasLUT := ts.Cells[z-1]
		var lutCell *netlist.Cell
		if hasLUT {
			lutCell = c.NL.Cell(pairedLUT)
			if lutCell != nil && lutCell.Type != combT {
				lutCell = nil
			}
		}

		viaFusion := false
		fusedToLUT := false
		if p, ok := ff.Ports[diPort]; ok && p.Net != netlist.NoNet {
			viaFusion = true
			fusedToLUT = lutCell != nil && c.NL.MustNet(p.Net).Driver.Cell == pairedLUT
		}
		viaSecondary := false
		if p, ok := ff.Ports[mPort]; ok && p.Net != netlist.NoNet {
			viaSecondary = true
		}

		if viaFusion && viaSecondary {
			return fmtIssue("tile (%d,%d): FF at z=%d has both fused and secondary data routing", ts.X, ts.Y, z)
		}
		if viaFusion && !fusedToLUT {
			return fmtIssue("tile (%d,%d): FF at z=%d DI is not driven by its paired LUT", ts.X, ts.Y, z)
		}
		if !viaFusion && !viaSecondary && lutCell == nil {
			return fmtIssue("tile (%d,%d): FF at z=%d has no data source and no paired LUT", ts.X, ts.Y, z)
		}
	}
	return ""
}

// checkExtendedStorage enforces that a tile holding a distributed-RAM
// (LUTRAM) cell holds no other cell type except FFs. Shift-register mode is
// not checked.
func (c *Checker) checkExtendedStorage(ts *TileStatus) string {
	ramT := c.Pool.Intern(distRAMType)
	ramPresent := false
	for _, cellID := range ts.Cells {
		cell := c.NL.Cell(cellID)
		if cell != nil && cell.Type == ramT {
			ramPresent = true
			break
		}
	}
	if !ramPresent {
		return ""
	}

	for _, cellID := range ts.Cells {
		cell := c.NL.Cell(cellID)
		if cell == nil || cell.Type == ramT {
			continue
		}
		if cell.Type != c.Pool.Intern(ffType) {
			return fmtIssue("tile (%d,%d): distributed-RAM mode excludes cell type in same tile", ts.X, ts.Y)
		}
	}
	return ""
}
