package route

import (
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/netlist"
)

// dedicatedRouteGlobals pre-routes every net whose driver is bound to a
// bel on a dedicated (non-general) clock/reset resource, using a
// breadth-first search restricted to device.CategoryDedicated pips before
// the main negotiated-congestion router runs. The search runs forward from
// the driver wire over downhill pips, not backward from each sink. This guarantees such nets
// occupy dedicated clock trees rather than contending for general
// routing with everything else.
func (r *Router) dedicatedRouteGlobals() {
	r.NL.AllNets(func(id netlist.NetID, n *netlist.Net) {
		if n.Driver.Cell == netlist.NoCell {
			return
		}
		srcWire, ok := r.resolvePortWire(n.Driver.Cell, netlist.PortRef{Cell: n.Driver.Cell, Port: n.Driver.Port})
		if !ok || !r.driverIsGlobalResource(srcWire) {
			return
		}

		ns := r.buildNetState(id, n)
		if ns.srcWire == device.NoWire {
			return
		}
		ns.tree[ns.srcWire] = device.NoPip
		ns.strength = netlist.StrengthLocked

		for i := range ns.arcs {
			a := &ns.arcs[i]
			path, ok := r.dedicatedBFS(id, ns.srcWire, a.dstWire)
			if !ok {
				// Not every net driven from a global-capable wire needs
				// a dedicated path (e.g. it may also fan out generally);
				// leave the arc unrouted for the main router to pick up.
				a.state = arcUnrouted
				continue
			}
			for w, p := range path {
				ns.tree[w] = p
			}
			a.state = arcRouted
		}

		for w := range ns.tree {
			r.wires[w].addOccupant(id)
		}
		r.nets[id] = ns
	})
}

// driverIsGlobalResource reports whether wire is the output of a bel whose
// type marks it a global-resource driver (PLL/DCC/DCS/oscillator). The
// generic router only knows "dedicated" pips exist downstream of such
// wires; which bels count as global-resource drivers is an
// architecture-specific question, answered here by checking whether any
// downhill pip from wire is itself CategoryDedicated.
func (r *Router) driverIsGlobalResource(wire device.WireID) bool {
	for _, p := range r.Graph.PipsDownhill(wire) {
		if r.Graph.Pips[p].Category == device.CategoryDedicated {
			return true
		}
	}
	return false
}

// dedicatedBFS is a breadth-first walk from src to dst restricted to
// CategoryDedicated pips, costed by hop count primary and dedicated-hop
// count secondary (trivially satisfied since every hop here already is
// dedicated), bounded by Cfg.MaxGlobalHops.
func (r *Router) dedicatedBFS(net netlist.NetID, src, dst device.WireID) (map[device.WireID]device.PipID, bool) {
	type queueEntry struct {
		wire device.WireID
		hops int
	}

	visited := map[device.WireID]bool{src: true}
	cameFrom := make(map[device.WireID]device.PipID)
	queue := []queueEntry{{src, 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.wire == dst {
			out := make(map[device.WireID]device.PipID)
			w := dst
			for w != src {
				p, ok := cameFrom[w]
				if !ok {
					break
				}
				out[w] = p
				w = r.Arch.PipSrcWire(p)
			}
			return out, true
		}
		if cur.hops >= r.Cfg.MaxGlobalHops {
			continue
		}

		for _, p := range r.Graph.PipsDownhill(cur.wire) {
			if r.Graph.Pips[p].Category != device.CategoryDedicated {
				continue
			}
			if !r.Arch.PipAvailableForNet(p, net) {
				continue
			}
			nw := r.Arch.PipDstWire(p)
			if visited[nw] {
				continue
			}
			visited[nw] = true
			cameFrom[nw] = p
			queue = append(queue, queueEntry{nw, cur.hops + 1})
		}
	}

	return nil, false
}
