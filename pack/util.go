package pack

import (
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

// cellsOfType returns the ids of every live cell whose type is typeName,
// snapshotted up front so a stage can safely create/delete cells while
// iterating its matches.
func cellsOfType(nl *netlist.Netlist, pool *idstring.Pool, typeName string) []netlist.CellID {
	want := pool.Intern(typeName)
	var out []netlist.CellID
	nl.AllCells(func(id netlist.CellID, c *netlist.Cell) {
		if c.Type == want {
			out = append(out, id)
		}
	})
	return out
}

// driverOf returns the cell/port driving the net connected to cell.port,
// or false if the port is unconnected or undriven.
func driverOf(nl *netlist.Netlist, cell netlist.CellID, port idstring.ID) (netlist.CellID, idstring.ID, bool) {
	c := nl.MustCell(cell)
	p, ok := c.Ports[port]
	if !ok || p.Net == netlist.NoNet {
		return netlist.NoCell, 0, false
	}
	n := nl.MustNet(p.Net)
	if n.Driver.Cell == netlist.NoCell {
		return netlist.NoCell, 0, false
	}
	return n.Driver.Cell, n.Driver.Port, true
}

// deleteIfDangling removes cell if none of its ports are connected anymore
// (the common "trim the now-unused upstream cell" step across several
// passes).
func deleteIfDangling(nl *netlist.Netlist, cell netlist.CellID) {
	c := nl.Cell(cell)
	if c == nil {
		return
	}
	for _, p := range c.Ports {
		if p.Net != netlist.NoNet {
			return
		}
	}
	nl.RemoveCell(cell)
}
