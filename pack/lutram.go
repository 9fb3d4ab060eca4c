package pack

import (
	"fmt"

	"github.com/sarchlab/fabricpnr/arch"
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

const lutRAMSourceType = "DPR16X4"
const ramWriteType = "RAMW"
const lutRAMChildType = "LUTRAM"
const lutRAMWidth = 4
const lutRAMDepthBits = 16

// lutRAMSplit expands a 16×4 distributed-RAM primitive into one
// "RAM-write" control cell and four LUT-RAM combinational cells, splitting
// the 64-bit INIT by interleaving: bit 4·j+i of the
// source becomes bit j of the i-th child's INIT.
func lutRAMSplit(nl *netlist.Netlist, pool *idstring.Pool, a arch.Arch) error {
	for _, id := range cellsOfType(nl, pool, lutRAMSourceType) {
		splitLUTRAM(nl, pool, id)
	}
	return nil
}

func splitLUTRAM(nl *netlist.Netlist, pool *idstring.Pool, id netlist.CellID) {
	c := nl.MustCell(id)
	base := pool.String(c.Name)

	initID := pool.Intern(initParam)
	src, ok := c.Params[initID]
	var srcBits []netlist.Bit
	if ok && src.IsBits() {
		srcBits = make([]netlist.Bit, src.Width())
		for i := 0; i < src.Width(); i++ {
			srcBits[i] = src.Bit(i)
		}
	} else {
		srcBits = allBits(lutRAMWidth*lutRAMDepthBits, netlist.Bit0)
	}

	writeCell := nl.CreateCell(base+"$ramw", ramWriteType)
	for _, name := range []string{"WCK", "WRE", "AD0", "AD1", "AD2", "AD3"} {
		movePortIfPresent(nl, pool, id, writeCell, name)
	}

	children := make([]netlist.CellID, lutRAMWidth)
	for i := 0; i < lutRAMWidth; i++ {
		childID := nl.CreateCell(fmt.Sprintf("%s$lutram%d", base, i), lutRAMChildType)
		children[i] = childID

		movePortIfPresent(nl, pool, id, childID, fmt.Sprintf("DI%d", i))
		movePortIfPresent(nl, pool, id, childID, fmt.Sprintf("DO%d", i))
		for _, a := range []string{"AD0", "AD1", "AD2", "AD3"} {
			copyPortConnection(nl, pool, writeCell, childID, a, true)
		}

		childBits := make([]netlist.Bit, lutRAMDepthBits)
		for j := 0; j < lutRAMDepthBits; j++ {
			childBits[j] = srcBits[lutRAMWidth*j+i]
		}
		cc := nl.MustCell(childID)
		if cc.Params == nil {
			cc.Params = make(map[idstring.ID]netlist.Property)
		}
		cc.Params[initID] = netlist.NewBitsProperty(childBits)

		cc.HasCluster = true
		cc.Cluster = netlist.ClusterRel{Root: writeCell, DX: 0, DY: 0, DZ: int32(i + 1), AbsZ: false}
	}

	wc := nl.MustCell(writeCell)
	wc.HasCluster = true
	wc.Cluster = netlist.ClusterRel{Root: writeCell, DX: 0, DY: 0, DZ: 0, AbsZ: false}

	deleteIfDangling(nl, id)
}

// movePortIfPresent moves a connected port from src to dst under the same
// name, leaving src's port in place but unconnected (used when the port genuinely
// belongs to only one child, unlike copyPortConnection's shared-input
// case).
func movePortIfPresent(nl *netlist.Netlist, pool *idstring.Pool, src, dst netlist.CellID, name string) {
	id := pool.Intern(name)
	sc := nl.MustCell(src)
	p, ok := sc.Ports[id]
	if !ok {
		return
	}
	nl.AddPort(dst, name, p.Dir)
	if p.Net == netlist.NoNet {
		return
	}
	net := p.Net
	dir := p.Dir
	nl.Disconnect(src, id)
	if dir == device.DirOut || dir == device.DirInout {
		_ = nl.ConnectDriver(net, dst, id)
	} else {
		nl.ConnectUser(net, dst, id)
	}
}

// copyPortConnection connects dst's port to whatever net src's sameName
// port is connected to, for fanout address lines every LUT-RAM child
// shares with the write-control cell. dst is always an input here.
func copyPortConnection(nl *netlist.Netlist, pool *idstring.Pool, src, dst netlist.CellID, name string, addIfMissing bool) {
	id := pool.Intern(name)
	sc := nl.MustCell(src)
	p, ok := sc.Ports[id]
	if !ok || p.Net == netlist.NoNet {
		return
	}
	if addIfMissing {
		nl.AddPort(dst, name, p.Dir)
	}
	nl.ConnectUser(p.Net, dst, id)
}
