package timing

import (
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

// nodeKey identifies one (cell, port) pin in the arrival-time graph.
type nodeKey struct {
	cell netlist.CellID
	port idstring.ID
}

type visitState uint8

const (
	stateUnvisited visitState = iota
	stateVisiting
	stateDone
)

// nodeInfo is the memoized result of computing one pin's arrival time.
type nodeInfo struct {
	state   visitState
	arrival float64

	hasPred bool
	pred    nodeKey
	seg     Segment

	isRegSrc bool
	clock    idstring.ID
	negedge  bool
}

// arrival computes (and memoizes) the worst-case arrival time at nk,
// walking backward through the combinational netlist: a register's Q
// output starts at its clock-to-Q delay, a plain input pin's arrival is
// its driving net's arrival plus routing delay, and a combinational
// output's arrival is the max over its input arcs of (input arrival +
// cell delay).
func (an *Analyzer) arrival(nk nodeKey) (*nodeInfo, error) {
	if info, ok := an.memo[nk]; ok {
		if info.state == stateVisiting {
			return nil, &LoopError{Cell: nk.cell, Port: nk.port}
		}
		return info, nil
	}

	info := &nodeInfo{state: stateVisiting}
	an.memo[nk] = info

	c := an.NL.MustCell(nk.cell)
	p := c.Ports[nk.port]

	switch {
	case p.Dir == device.DirOut:
		if clkPort, clkNet2, neg2, ok := an.sequentialSourceInfo(nk.cell, nk.port); ok {
			_, _, clockToQ, _ := an.Arch.CellSequentialDelay(c.Type, nk.port, clkPort)
			info.arrival = clockToQ
			info.isRegSrc = true
			info.clock = clkNet2
			info.negedge = neg2
			info.seg = an.pinSegment(nk.cell, clkPort, nk.cell, nk.port, clockToQ, "clk-to-q", "")
			break
		}
		info.arrival, info.hasPred, info.pred, info.seg = 0, false, nodeKey{}, Segment{}
		for _, in := range c.PortsInOrder() {
			if in.Dir != device.DirIn {
				continue
			}
			delay, ok := an.Arch.CellCombinationalDelay(c.Type, in.Name, nk.port)
			if !ok {
				continue
			}
			inInfo, err := an.arrival(nodeKey{nk.cell, in.Name})
			if err != nil {
				return nil, err
			}
			total := inInfo.arrival + delay
			if !info.hasPred || total > info.arrival {
				info.arrival = total
				info.hasPred = true
				info.pred = nodeKey{nk.cell, in.Name}
				info.seg = an.pinSegment(nk.cell, in.Name, nk.cell, nk.port, delay, "logic", "")
			}
		}
		if !info.hasPred {
			info.seg = an.pinSegment(nk.cell, nk.port, nk.cell, nk.port, 0, "source", "")
		}

	case p.Dir == device.DirIn:
		// A clocked data input's arrival still comes purely from its
		// driving net; the setup margin is added by Run once the worst
		// sink across all registers in the domain is known.
		if p.Net == netlist.NoNet {
			info.hasPred = false
			info.arrival = 0
			info.seg = an.pinSegment(nk.cell, nk.port, nk.cell, nk.port, 0, "source", "")
			break
		}
		n := an.NL.MustNet(p.Net)
		if n.Driver.Cell == netlist.NoCell {
			info.hasPred = false
			info.arrival = 0
			info.seg = an.pinSegment(nk.cell, nk.port, nk.cell, nk.port, 0, "source", "")
			break
		}
		driverInfo, err := an.arrival(nodeKey{n.Driver.Cell, n.Driver.Port})
		if err != nil {
			return nil, err
		}
		routeDelay := an.routeDelayToSink(n, nk.cell, nk.port)
		info.arrival = driverInfo.arrival + routeDelay
		info.hasPred = true
		info.pred = nodeKey{n.Driver.Cell, n.Driver.Port}
		info.seg = an.pinSegment(n.Driver.Cell, n.Driver.Port, nk.cell, nk.port, routeDelay, "routing", an.Pool.String(n.Name))
	}

	info.state = stateDone
	return info, nil
}

// sequentialSourceInfo reports whether port on cell is a clocked register
// output (a Q pin), returning the clock port name, the net driving that
// clock port, and its polarity.
func (an *Analyzer) sequentialSourceInfo(cell netlist.CellID, port idstring.ID) (clkPort, clkNet idstring.ID, negedge bool, ok bool) {
	c := an.NL.MustCell(cell)
	clkPort, clkNet, negedge, found := an.findClock(c)
	if !found {
		return 0, 0, false, false
	}
	_, _, _, ruleOK := an.Arch.CellSequentialDelay(c.Type, port, clkPort)
	if !ruleOK {
		return 0, 0, false, false
	}
	return clkPort, clkNet, negedge, true
}

// sequentialSinkInfo reports whether port on cell is a clocked register
// data input (a D pin subject to a setup check).
func (an *Analyzer) sequentialSinkInfo(cell netlist.CellID, port idstring.ID) (clkPort, clkNet idstring.ID, negedge bool, ok bool) {
	c := an.NL.MustCell(cell)
	clkPort, clkNet, negedge, found := an.findClock(c)
	if !found {
		return 0, 0, false, false
	}
	_, _, _, ruleOK := an.Arch.CellSequentialDelay(c.Type, port, clkPort)
	if !ruleOK {
		return 0, 0, false, false
	}
	return clkPort, clkNet, negedge, true
}

// findClock locates cell's clock port via the architecture's pin style
// and resolves the net driving it, plus the clock's polarity, read off a
// CLKMUX parameter when present (bit 0 set means the control set fusion
// pass selected the inverted clock edge).
func (an *Analyzer) findClock(c *netlist.Cell) (clkPort, clkNet idstring.ID, negedge bool, ok bool) {
	for _, p := range c.PortsInOrder() {
		if p.Dir != device.DirIn {
			continue
		}
		if !an.Arch.PinStyle(c.Type, p.Name).GlobalClock {
			continue
		}
		if p.Net == netlist.NoNet {
			continue
		}
		net := an.NL.MustNet(p.Net)
		clkPort = p.Name
		clkNet = net.Name
		ok = true
		break
	}
	if !ok {
		return 0, 0, false, false
	}

	if clkMux, exists := c.Params[an.Pool.Intern("CLKMUX")]; exists && clkMux.IsBits() {
		negedge = clkMux.Int64()&1 != 0
	}
	return clkPort, clkNet, negedge, true
}

// routeDelayToSink sums pip delays along sink's routed path back to its
// net's source wire.
func (an *Analyzer) routeDelayToSink(n *netlist.Net, sinkCell netlist.CellID, sinkPort idstring.ID) float64 {
	w, ok := an.portWire(sinkCell, sinkPort)
	if !ok {
		return 0
	}
	var total float64
	for {
		edge, ok := n.Route[w]
		if !ok || edge.Pip == device.NoPip {
			break
		}
		total += an.Arch.PipDelay(edge.Pip)
		w = an.Arch.PipSrcWire(edge.Pip)
	}
	return total
}

// portWire resolves the wire touched by cell's named bel pin.
func (an *Analyzer) portWire(cell netlist.CellID, port idstring.ID) (device.WireID, bool) {
	c := an.NL.MustCell(cell)
	if c.Bel == device.NoBel {
		return device.NoWire, false
	}
	bel := &an.Graph.Bels[c.Bel]
	for i, pin := range bel.Pins {
		if pin.Name == port {
			return an.Arch.BelPinWire(c.Bel, i), true
		}
	}
	return device.NoWire, false
}

// pinSegment builds a Segment between two (cell, port) pins, resolving
// each side's physical location via the bound bel.
func (an *Analyzer) pinSegment(fromCell netlist.CellID, fromPort idstring.ID, toCell netlist.CellID, toPort idstring.ID, delay float64, typ, net string) Segment {
	fc := an.NL.MustCell(fromCell)
	tc := an.NL.MustCell(toCell)

	seg := Segment{
		Delay:    delay,
		FromCell: an.Pool.String(fc.Name),
		FromPort: an.Pool.String(fromPort),
		ToCell:   an.Pool.String(tc.Name),
		ToPort:   an.Pool.String(toPort),
		Type:     typ,
		Net:      net,
	}
	if fc.Bel != device.NoBel {
		x, y, _ := an.Arch.BelLocation(fc.Bel)
		seg.FromLoc = [2]int32{x, y}
	}
	if tc.Bel != device.NoBel {
		x, y, _ := an.Arch.BelLocation(tc.Bel)
		seg.ToLoc = [2]int32{x, y}
	}
	return seg
}

// reconstructPath walks the predecessor chain from sink back to a
// register source or primary input, returning the path's segments in
// source-to-sink order, the final setup segment, and the source's clock
// event name ("<async>" for a primary input).
func (an *Analyzer) reconstructPath(sink nodeKey, setup float64) ([]Segment, Segment, string) {
	var chain []Segment
	cur := sink
	sourceEvent := "<async>"

	for {
		info := an.memo[cur]
		if info.isRegSrc {
			sourceEvent = clockEventName(an.Pool, info.clock, info.negedge)
			chain = append(chain, info.seg)
			break
		}
		if !info.hasPred {
			chain = append(chain, info.seg)
			break
		}
		chain = append(chain, info.seg)
		cur = info.pred
	}

	// chain was built sink-to-source; reverse it.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	c := an.NL.MustCell(sink.cell)
	setupSeg := Segment{
		Delay:    setup,
		FromCell: an.Pool.String(c.Name),
		FromPort: an.Pool.String(sink.port),
		ToCell:   an.Pool.String(c.Name),
		ToPort:   an.Pool.String(sink.port),
		Type:     "setup",
	}
	if c.Bel != device.NoBel {
		x, y, _ := an.Arch.BelLocation(c.Bel)
		setupSeg.FromLoc, setupSeg.ToLoc = [2]int32{x, y}, [2]int32{x, y}
	}

	return chain, setupSeg, sourceEvent
}

// routingSegment builds the detailed per-net timing segment for one of
// net's live users, for the optional detailed_net_timings report section.
func (an *Analyzer) routingSegment(n *netlist.Net, u netlist.NetUser) (Segment, bool) {
	if n.Driver.Cell == netlist.NoCell {
		return Segment{}, false
	}
	delay := an.routeDelayToSink(n, u.Cell, u.Port)
	return an.pinSegment(n.Driver.Cell, n.Driver.Port, u.Cell, u.Port, delay, "routing", an.Pool.String(n.Name)), true
}
