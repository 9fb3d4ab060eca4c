package pack

import (
	"github.com/sarchlab/fabricpnr/arch"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

const wideFunctionSourceType = "MUX2_LUT"
const wideFunctionChildType = "LUTCOMB"

// wideFunctionSplit rewrites a 2-input MUX on top of two 4-LUTs into two
// combinational cells in a fixed cluster, transferring INIT values
// unchanged.
func wideFunctionSplit(nl *netlist.Netlist, pool *idstring.Pool, a arch.Arch) error {
	initID := pool.Intern(initParam)

	for _, id := range cellsOfType(nl, pool, wideFunctionSourceType) {
		c := nl.MustCell(id)
		base := pool.String(c.Name)

		lutA := nl.CreateCell(base+"$lutA", wideFunctionChildType)
		lutB := nl.CreateCell(base+"$lutB", wideFunctionChildType)

		for _, name := range []string{"A0", "A1", "A2", "A3", "Z0"} {
			movePortIfPresent(nl, pool, id, lutA, name)
		}
		for _, name := range []string{"B0", "B1", "B2", "B3", "Z1"} {
			movePortIfPresent(nl, pool, id, lutB, name)
		}
		movePortIfPresent(nl, pool, id, lutA, "SEL")
		copyPortConnection(nl, pool, lutA, lutB, "SEL", true)

		if v, ok := c.Params[initID]; ok {
			ac := nl.MustCell(lutA)
			bc := nl.MustCell(lutB)
			if ac.Params == nil {
				ac.Params = make(map[idstring.ID]netlist.Property)
			}
			if bc.Params == nil {
				bc.Params = make(map[idstring.ID]netlist.Property)
			}
			ac.Params[initID] = v
			bc.Params[initID] = v
		}

		ac, bc := nl.MustCell(lutA), nl.MustCell(lutB)
		ac.HasCluster, bc.HasCluster = true, true
		ac.Cluster = netlist.ClusterRel{Root: lutA, DX: 0, DY: 0, DZ: 0, AbsZ: false}
		bc.Cluster = netlist.ClusterRel{Root: lutA, DX: 0, DY: 0, DZ: 1, AbsZ: false}

		deleteIfDangling(nl, id)
	}
	return nil
}
