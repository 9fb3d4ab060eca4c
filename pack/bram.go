package pack

import (
	"strconv"

	"github.com/sarchlab/fabricpnr/arch"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

// bramSourceTypes are the dual-port/pseudo-dual-port BRAM primitives
// rewritten to a single hardware-BRAM cell.
var bramSourceTypes = []string{"TDP_RAM", "PDP_RAM"}

const coreBRAMType = "DP16K"

// bramDefaults fill in read/write width and output-register parameters so
// the timing analyzer's key lookup always succeeds.
var bramDefaults = map[string]string{
	"DATA_WIDTH_A": "18",
	"DATA_WIDTH_B": "18",
	"OUTREG_A":     "0",
	"OUTREG_B":     "0",
}

// bramPacking rewrites every dual-port/pseudo-dual-port BRAM primitive to
// the core hardware-BRAM cell type, filling default width/output-register
// parameters and assigning a unique write-ID used as the bitstream memory
// instance key. Write-IDs count from zero per run, so the assignment is
// deterministic for a given input netlist.
func bramPacking(nl *netlist.Netlist, pool *idstring.Pool, a arch.Arch) error {
	nextWriteID := 0
	for _, typeName := range bramSourceTypes {
		for _, id := range cellsOfType(nl, pool, typeName) {
			c := nl.MustCell(id)
			if c.Params == nil {
				c.Params = make(map[idstring.ID]netlist.Property)
			}
			for k, v := range bramDefaults {
				kid := pool.Intern(k)
				if _, ok := c.Params[kid]; !ok {
					c.Params[kid] = netlist.NewStringProperty(v)
				}
			}
			c.Params[pool.Intern("WID")] = netlist.NewStringProperty(strconv.Itoa(nextWriteID))
			nextWriteID++
			c.Type = pool.Intern(coreBRAMType)
		}
	}
	return nil
}
