package pack

import (
	"fmt"
	"sort"

	"github.com/sarchlab/fabricpnr/arch"
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

const globalBufferType = "DCC"

// globalBufferPromotion counts clock-port sinks per net using the
// architecture's PINGLB_CLK pin style, ranks nets by fanout, and inserts a
// DCC buffer between each of the top-ranked nets (bounded by the device's
// remaining global-buffer budget) and every sink not already downstream of
// a DCC.
func globalBufferPromotion(nl *netlist.Netlist, pool *idstring.Pool, a arch.Arch, maxGlobalBuffers int) error {
	budget := maxGlobalBuffers
	if n := a.GlobalBufferCount(); n > 0 && (budget == 0 || n < budget) {
		// The device's declared global-buffer inventory caps promotion
		// regardless of the configured limit.
		budget = n
	}
	budget -= countExistingDCCs(nl, pool)
	if budget <= 0 {
		return nil
	}

	type candidate struct {
		net    netlist.NetID
		fanout int
	}
	var candidates []candidate

	nl.AllNets(func(id netlist.NetID, n *netlist.Net) {
		count := 0
		for _, u := range n.LiveUsers() {
			uc := nl.MustCell(u.Cell)
			if a.PinStyle(uc.Type, u.Port).GlobalClock {
				count++
			}
		}
		if count > 0 {
			candidates = append(candidates, candidate{net: id, fanout: count})
		}
	})

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].fanout != candidates[j].fanout {
			return candidates[i].fanout > candidates[j].fanout
		}
		return candidates[i].net < candidates[j].net
	})

	if len(candidates) > budget {
		candidates = candidates[:budget]
	}

	for i, cand := range candidates {
		insertGlobalBuffer(nl, pool, a, cand.net, i)
	}
	return nil
}

func countExistingDCCs(nl *netlist.Netlist, pool *idstring.Pool) int {
	return len(cellsOfType(nl, pool, globalBufferType))
}

func insertGlobalBuffer(nl *netlist.Netlist, pool *idstring.Pool, a arch.Arch, net netlist.NetID, idx int) {
	n := nl.MustNet(net)
	if n.Driver.Cell == netlist.NoCell {
		return
	}

	dcc := nl.CreateCell(fmt.Sprintf("%s$dcc%d", pool.String(n.Name), idx), globalBufferType)
	nl.AddPort(dcc, "CLKI", device.DirIn)
	nl.AddPort(dcc, "CLKO", device.DirOut)

	outNet := nl.CreateNet(fmt.Sprintf("%s$dcc%d_o", pool.String(n.Name), idx))
	_ = nl.ConnectDriver(outNet, dcc, pool.Intern("CLKO"))
	nl.ConnectUser(net, dcc, pool.Intern("CLKI"))

	// CreateNet may have grown the net arena; re-resolve before walking
	// the user list.
	n = nl.MustNet(net)

	for _, u := range n.LiveUsers() {
		uc := nl.MustCell(u.Cell)
		if uc.Type == pool.Intern(globalBufferType) {
			continue
		}
		if !a.PinStyle(uc.Type, u.Port).GlobalClock {
			continue
		}
		nl.Disconnect(u.Cell, u.Port)
		nl.ConnectUser(outNet, u.Cell, u.Port)
	}
	nl.Compact(net)
}

// globalCellOrder orders the global-resource topological sort in
// globalBufferPlacement: a PLL must be placed and routed before the DCCs
// its clock feeds, which must land before any downstream DCS.
var globalCellOrder = map[string]int{
	"PLL": 0,
	"DCC": 1,
	"DCS": 2,
}

// maxGlobalPlacementHops bounds the dedicated-routing walk below; clock
// spines are shallow trees, so a chain longer than this is a miss.
const maxGlobalPlacementHops = 64

// globalBufferPlacement topologically orders global-resource cells by
// their clock-path dependencies (a PLL feeds DCCs, which feed any DCS)
// and, for each, constrains it to a bel whose input is reachable from its
// already-constrained upstream driver's output over dedicated
// (non-general) routing, found by breadth-first walk. When the walk finds
// nothing — or the cell has no constrained upstream — it falls back to
// the Manhattan-nearest compatible bel.
func globalBufferPlacement(nl *netlist.Netlist, pool *idstring.Pool, a arch.Arch) error {
	var globals []netlist.CellID
	for typeName := range globalCellOrder {
		globals = append(globals, cellsOfType(nl, pool, typeName)...)
	}

	sort.Slice(globals, func(i, j int) bool {
		ti := pool.String(nl.MustCell(globals[i]).Type)
		tj := pool.String(nl.MustCell(globals[j]).Type)
		oi, oj := globalCellOrder[ti], globalCellOrder[tj]
		if oi != oj {
			return oi < oj
		}
		return globals[i] < globals[j]
	})

	belAttr := pool.Intern("BEL")
	taken := make(map[device.BelID]bool)
	placedBel := make(map[netlist.CellID]device.BelID)

	for _, id := range globals {
		c := nl.MustCell(id)

		// The upstream anchor: the output wire of whichever
		// already-constrained global drives one of this cell's inputs,
		// plus the input port it arrives on.
		anchorBel := device.NoBel
		anchorWire := device.NoWire
		inPort := idstring.Empty
		for _, p := range c.PortsInOrder() {
			if p.Dir != device.DirIn || p.Net == netlist.NoNet {
				continue
			}
			drv := nl.MustNet(p.Net).Driver
			if drv.Cell == netlist.NoCell {
				continue
			}
			b, ok := placedBel[drv.Cell]
			if !ok {
				continue
			}
			anchorBel = b
			inPort = p.Name
			if w, ok := a.BelPinWireByName(b, drv.Port); ok {
				anchorWire = w
			}
			break
		}

		var candidates []device.BelID
		for _, b := range a.AllBels() {
			if taken[b] || !a.BelAvailable(b) || !a.BelValidForCellType(c.Type, b) {
				continue
			}
			candidates = append(candidates, b)
		}
		if len(candidates) == 0 {
			continue
		}

		chosen := device.NoBel
		if anchorWire != device.NoWire {
			for _, b := range candidates {
				w, ok := a.BelPinWireByName(b, inPort)
				if ok && dedicatedReachable(a, anchorWire, w) {
					chosen = b
					break
				}
			}
		}
		if chosen == device.NoBel && anchorBel != device.NoBel {
			chosen = manhattanNearest(a, candidates, anchorBel)
		}
		if chosen == device.NoBel {
			chosen = candidates[0]
		}

		taken[chosen] = true
		placedBel[id] = chosen
		if c.Attrs == nil {
			c.Attrs = make(map[idstring.ID]netlist.Property)
		}
		c.Attrs[belAttr] = netlist.NewStringProperty(pool.String(a.BelName(chosen)))
	}

	return nil
}

// dedicatedReachable walks downhill from src over dedicated pips only,
// reporting whether dst is reachable within maxGlobalPlacementHops.
func dedicatedReachable(a arch.Arch, src, dst device.WireID) bool {
	if src == dst {
		return true
	}
	type entry struct {
		wire device.WireID
		hops int
	}
	visited := map[device.WireID]bool{src: true}
	queue := []entry{{src, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.hops >= maxGlobalPlacementHops {
			continue
		}
		for _, p := range a.PipsDownhill(cur.wire) {
			if !a.PipIsDedicated(p) {
				continue
			}
			nw := a.PipDstWire(p)
			if visited[nw] {
				continue
			}
			if nw == dst {
				return true
			}
			visited[nw] = true
			queue = append(queue, entry{nw, cur.hops + 1})
		}
	}
	return false
}

// manhattanNearest picks the candidate closest to anchor by |Δx|+|Δy|,
// breaking ties on bel id.
func manhattanNearest(a arch.Arch, candidates []device.BelID, anchor device.BelID) device.BelID {
	ax, ay, _ := a.BelLocation(anchor)
	best := device.NoBel
	bestDist := int32(-1)
	for _, b := range candidates {
		x, y, _ := a.BelLocation(b)
		dx, dy := x-ax, y-ay
		if dx < 0 {
			dx = -dx
		}
		if dy < 0 {
			dy = -dy
		}
		d := dx + dy
		if best == device.NoBel || d < bestDist {
			best = b
			bestDist = d
		}
	}
	return best
}
