package pack

import (
	"github.com/sarchlab/fabricpnr/arch"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

// familyAliases maps a family-specific primitive name to its core
// variant. A device family extends this via RegisterAlias.
var familyAliases = map[string]string{
	"LUT4_FAM": "LUT4",
	"VHI_FAM":  "VHI",
	"VLO_FAM":  "VLO",
	"INV_FAM":  "INV",
	"CCU2_FAM": "CCU2",
	"MUX2_FAM": "MUX2",
}

// RegisterAlias adds or overrides a family-specific-to-core primitive name
// mapping consulted by primitiveNormalization.
func RegisterAlias(familyType, coreType string) {
	familyAliases[familyType] = coreType
}

// primitiveNormalization replaces family-specific primitive names with
// their core variants and strips bracket characters from every port name
// so later rules match uniformly.
func primitiveNormalization(nl *netlist.Netlist, pool *idstring.Pool, a arch.Arch) error {
	for familyType, coreType := range familyAliases {
		for _, id := range cellsOfType(nl, pool, familyType) {
			c := nl.MustCell(id)
			stripCellPortBrackets(nl, pool, id, c)
			c.Type = pool.Intern(coreType)
		}
	}
	return nil
}

func stripCellPortBrackets(nl *netlist.Netlist, pool *idstring.Pool, id netlist.CellID, c *netlist.Cell) {
	for _, p := range append([]*netlist.Port(nil), c.PortsInOrder()...) {
		stripped := stripBrackets(pool.String(p.Name))
		if stripped == pool.String(p.Name) {
			continue
		}
		newID := pool.Intern(stripped)
		if _, clash := c.Ports[newID]; clash {
			continue
		}
		nl.RenamePort(id, p.Name, newID)
	}
}

// ffVariant describes one family-specific flip-flop's mux-select encoding.
type ffVariant struct {
	typeName              string
	clockPolarityInverted bool
	syncReset             bool
	setNotReset           bool
	portMap               map[string]string // CD->LSR, PD->LSR, SP->CE, CK->CLK, D->M
}

var ffVariants = map[string]ffVariant{
	"FD1P3BX": {typeName: "FD1P3BX", syncReset: false, setNotReset: false,
		portMap: map[string]string{"CD": "LSR", "CK": "CLK", "D": "M"}},
	"FD1P3DX": {typeName: "FD1P3DX", syncReset: false, setNotReset: false,
		portMap: map[string]string{"PD": "LSR", "CK": "CLK", "D": "M"}},
	"FD1S3BX": {typeName: "FD1S3BX", syncReset: true, setNotReset: false,
		portMap: map[string]string{"CD": "LSR", "SP": "CE", "CK": "CLK", "D": "M"}},
	"FD1S3IX": {typeName: "FD1S3IX", syncReset: true, setNotReset: true,
		portMap: map[string]string{"PD": "LSR", "SP": "CE", "CK": "CLK", "D": "M"}},
}

const coreFFType = "FF"

// ffNormalization rewrites each family-specific FF variant to the common
// FF type, migrating ports and recording the variant's fixed mux-select
// parameters.
func ffNormalization(nl *netlist.Netlist, pool *idstring.Pool, a arch.Arch) error {
	for typeName, variant := range ffVariants {
		for _, id := range cellsOfType(nl, pool, typeName) {
			c := nl.MustCell(id)
			for oldName, newName := range variant.portMap {
				oldID := pool.Intern(oldName)
				if _, ok := c.Ports[oldID]; !ok {
					continue
				}
				newID := pool.Intern(newName)
				if _, clash := c.Ports[newID]; clash {
					continue
				}
				nl.RenamePort(id, oldID, newID)
			}

			if c.Params == nil {
				c.Params = make(map[idstring.ID]netlist.Property)
			}
			c.Params[pool.Intern("CLKMUX")] = netlist.NewStringProperty(boolStr(variant.clockPolarityInverted))
			c.Params[pool.Intern("SRMODE")] = netlist.NewStringProperty(syncAsyncStr(variant.syncReset))
			c.Params[pool.Intern("REGSET")] = netlist.NewStringProperty(setResetStr(variant.setNotReset))
			c.Type = pool.Intern(coreFFType)
		}
	}
	return nil
}

func boolStr(b bool) string {
	if b {
		return "INV"
	}
	return "NOINV"
}

func syncAsyncStr(sync bool) string {
	if sync {
		return "SYNC"
	}
	return "ASYNC"
}

func setResetStr(set bool) string {
	if set {
		return "SET"
	}
	return "RESET"
}

// lutFamilyTypes are rewritten to the common combinational cell type by
// lutNormalization.
var lutFamilyTypes = []string{"LUT4", "INV", "VHI", "VLO"}

const coreCombType = "LUTCOMB"
const initParam = "INIT"

// lutNormalization rewrites LUT4/inverter/VHI/VLO to a common
// combinational cell, parses INIT as a 16-bit vector, and forces constant
// drivers to saturated INITs.
func lutNormalization(nl *netlist.Netlist, pool *idstring.Pool, a arch.Arch) error {
	initID := pool.Intern(initParam)

	for _, typeName := range lutFamilyTypes {
		for _, id := range cellsOfType(nl, pool, typeName) {
			c := nl.MustCell(id)
			if c.Params == nil {
				c.Params = make(map[idstring.ID]netlist.Property)
			}

			switch typeName {
			case "VHI":
				c.Params[initID] = netlist.NewBitsProperty(allBits(16, netlist.Bit1))
			case "VLO":
				c.Params[initID] = netlist.NewBitsProperty(allBits(16, netlist.Bit0))
			case "INV":
				// INIT = 0101...0101 inverts its single input across every
				// minterm; represented directly as the alternating pattern.
				c.Params[initID] = netlist.ParseBitsProperty(16, "16'h5555")
			default:
				if v, ok := c.Params[initID]; ok && v.IsString() {
					c.Params[initID] = netlist.ParseBitsProperty(16, v.AsString())
				}
			}

			c.Type = pool.Intern(coreCombType)
		}
	}
	return nil
}

func allBits(width int, b netlist.Bit) []netlist.Bit {
	out := make([]netlist.Bit, width)
	for i := range out {
		out[i] = b
	}
	return out
}
