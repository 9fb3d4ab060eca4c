package pack

import (
	"strconv"

	"github.com/sarchlab/fabricpnr/arch"
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

const carrySourceType = "CCU2"
const carryHeadType = "CCU2_HEAD"
const carryTailType = "CCU2_TAIL"

// carryChainExpansion splits each carry cell into two combinational cells
// (head owns the external FCI, tail owns the external FCO) sharing an
// internal carry wire, walks every chain link-by-link via net-use of FCO
// to number cells with an in-chain index, and derives each half's cluster
// offset from that index against the chain's head (Δz from the index, Δx
// always 0).
func carryChainExpansion(nl *netlist.Netlist, pool *idstring.Pool, a arch.Arch) error {
	sources := cellsOfType(nl, pool, carrySourceType)
	if len(sources) == 0 {
		return nil
	}

	heads := make(map[netlist.CellID]netlist.CellID, len(sources)) // source -> head half
	tails := make(map[netlist.CellID]netlist.CellID, len(sources)) // source -> tail half
	headOwner := make(map[netlist.CellID]netlist.CellID, len(sources))

	for _, id := range sources {
		head, tail := splitCarryCell(nl, pool, id)
		heads[id] = head
		tails[id] = tail
		headOwner[head] = id
	}

	fci := pool.Intern("FCI")
	fco := pool.Intern("FCO")

	visited := make(map[netlist.CellID]bool, len(sources))
	for _, id := range sources {
		if visited[id] {
			continue
		}
		if !chainStartsAt(nl, heads[id], fci, headOwner) {
			continue
		}
		if err := numberChain(nl, pool, id, heads, tails, headOwner, fco, visited); err != nil {
			return err
		}
	}

	// Any source cell left unvisited belongs to a cycle (no cell whose
	// FCI is externally undriven): treat the first unvisited cell in
	// iteration order as an arbitrary chain start so every cell is still
	// numbered.
	for _, id := range sources {
		if !visited[id] {
			if err := numberChain(nl, pool, id, heads, tails, headOwner, fco, visited); err != nil {
				return err
			}
		}
	}

	return nil
}

func splitCarryCell(nl *netlist.Netlist, pool *idstring.Pool, id netlist.CellID) (head, tail netlist.CellID) {
	c := nl.MustCell(id)
	base := pool.String(c.Name)

	head = nl.CreateCell(base+"$ccuA", carryHeadType)
	tail = nl.CreateCell(base+"$ccuB", carryTailType)

	for _, name := range []string{"A0", "B0", "C0", "D0", "S0", "FCI"} {
		movePortIfPresent(nl, pool, id, head, name)
	}
	for _, name := range []string{"A1", "B1", "C1", "D1", "S1", "FCO"} {
		movePortIfPresent(nl, pool, id, tail, name)
	}

	carryWire := nl.CreateNet(base + "$carry")
	nl.AddPort(head, "COUT", device.DirOut)
	_ = nl.ConnectDriver(carryWire, head, pool.Intern("COUT"))
	nl.AddPort(tail, "CIN", device.DirIn)
	nl.ConnectUser(carryWire, tail, pool.Intern("CIN"))

	deleteIfDangling(nl, id)
	return head, tail
}

// chainStartsAt reports whether head's external FCI is undriven, or driven
// by a cell that isn't any carry cell's head half — i.e. head begins its
// chain.
func chainStartsAt(nl *netlist.Netlist, head netlist.CellID, fci idstring.ID, headOwner map[netlist.CellID]netlist.CellID) bool {
	drvCell, _, ok := driverOf(nl, head, fci)
	if !ok {
		return true
	}
	_, isHead := headOwner[drvCell]
	return !isHead
}

// numberChain walks a carry chain forward link-by-link starting at source
// cell startID, assigning each link an in-chain index recorded as a
// CHAIN_INDEX parameter on both halves, and placing all halves in one
// cluster rooted at the chain's first head, with link idx's head at
// Δz = idx*8 and its tail at idx*8+1, so the whole chain packs into one
// column. It
// errors if a chain branches (an FCO net with more than one consumer) or
// an FCO net feeds a non-carry successor.
func numberChain(
	nl *netlist.Netlist, pool *idstring.Pool,
	startID netlist.CellID,
	heads, tails map[netlist.CellID]netlist.CellID,
	headOwner map[netlist.CellID]netlist.CellID,
	fco idstring.ID,
	visited map[netlist.CellID]bool,
) error {
	idx := 0
	cur := startID
	root := heads[startID]
	chainIdxParam := pool.Intern("CHAIN_INDEX")

	for {
		if visited[cur] {
			break
		}
		visited[cur] = true

		for half, cellID := range []netlist.CellID{heads[cur], tails[cur]} {
			c := nl.MustCell(cellID)
			c.HasCluster = true
			c.Cluster.Root = root
			c.Cluster.DX = 0
			// z-offsets step by 8 between links, matching the physical
			// carry-slot layout: halves of link idx land at z=idx*8+half,
			// not a flat sequential count.
			c.Cluster.DZ = int32(idx<<3 | half)
			if c.Params == nil {
				c.Params = make(map[idstring.ID]netlist.Property)
			}
			c.Params[chainIdxParam] = netlist.NewStringProperty(strconv.Itoa(idx))
		}

		tail := nl.MustCell(tails[cur])
		p, ok := tail.Ports[fco]
		if !ok || p.Net == netlist.NoNet {
			break
		}
		n := nl.MustNet(p.Net)
		users := n.LiveUsers()
		if len(users) > 1 {
			return &Error{Stage: "carry_chain_expansion", Msg: "carry chain FCO net has more than one consumer"}
		}
		if len(users) == 0 {
			break
		}
		nextHead := users[0].Cell
		nextID, ok := headOwner[nextHead]
		if !ok {
			return &Error{Stage: "carry_chain_expansion", Msg: "carry chain FCO feeds a non-carry successor"}
		}

		cur = nextID
		idx++
	}
	return nil
}
