package route

import (
	"container/heap"

	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/netlist"
)

// routeArc runs A* from every wire already in ns.tree (so an arc can reuse
// wires a previous arc of the same net already claimed, at no additional
// cost) toward dst, skipping pips arch rejects for this net and wires
// outside the net's bounding box. It returns the new wire→pip edges to add
// to the tree (dst's own multi-source ancestor is not included if it is
// already present in ns.tree).
func (r *Router) routeArc(net netlist.NetID, ns *netState, dst device.WireID) (map[device.WireID]device.PipID, bool) {
	if _, already := ns.tree[dst]; already {
		return nil, true
	}

	sw := r.Graph.Wires[ns.srcWire]
	dw := r.Graph.Wires[dst]
	bbox := boundingBox(sw.X, sw.Y, dw.X, dw.Y, arcSlack)

	pq := &frontier{}
	heap.Init(pq)
	visited := make(map[device.WireID]bool)
	cameFrom := make(map[device.WireID]device.PipID)
	bestCost := make(map[device.WireID]float64)

	// Seed in ascending wire order: each push draws a tiebreak from the
	// RNG, so the draw order must not depend on map iteration order.
	seeds := make([]device.WireID, 0, len(ns.tree))
	for w := range ns.tree {
		seeds = append(seeds, w)
	}
	sortWireIDs(seeds)
	for _, w := range seeds {
		bestCost[w] = 0
		heap.Push(pq, &frontierItem{wire: w, cost: 0, heuristic: r.Arch.EstimateDelay(w, dst), tiebreak: r.nextTiebreak()})
	}

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*frontierItem)
		w := item.wire
		if visited[w] {
			continue
		}
		visited[w] = true

		if w == dst {
			return r.backtrace(cameFrom, ns.tree, w), true
		}

		for _, p := range r.Arch.PipsDownhill(w) {
			if !r.Arch.PipAvailableForNet(p, net) {
				continue
			}
			nw := r.Arch.PipDstWire(p)
			if visited[nw] {
				continue
			}
			if !bbox.Contains(r.Graph.Wires[nw].X, r.Graph.Wires[nw].Y) {
				continue
			}

			edgeCost := r.Arch.PipDelay(p) + r.Cfg.PressureFactor*float64(r.wires[nw].occupancy()) + r.wires[nw].historyCost
			total := item.cost + edgeCost
			if existing, ok := bestCost[nw]; ok && existing <= total {
				continue
			}
			bestCost[nw] = total
			cameFrom[nw] = p
			heap.Push(pq, &frontierItem{wire: nw, cost: total, heuristic: r.Arch.EstimateDelay(nw, dst), tiebreak: r.nextTiebreak()})
		}
	}

	return nil, false
}

// arcSlack grows the per-arc bounding box beyond the straight-line
// src/dst rectangle so the search can still detour around congestion.
const arcSlack = int32(4)

func boundingBox(x0, y0, x1, y1, slack int32) bboxRect {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return bboxRect{x0 - slack, y0 - slack, x1 + slack, y1 + slack}
}

type bboxRect struct {
	x0, y0, x1, y1 int32
}

func (b bboxRect) Contains(x, y int32) bool {
	return x >= b.x0 && x <= b.x1 && y >= b.y0 && y <= b.y1
}

// nextTiebreak draws a small jitter value from the router's RNG so that
// equal-cost frontier entries pop in a deterministic-but-seed-dependent
// order, instead of whatever order container/heap's sift happens to
// produce.
func (r *Router) nextTiebreak() uint64 {
	if r.RNG == nil {
		return 0
	}
	return r.RNG.NextU64()
}

// backtrace walks cameFrom from dst back to whichever wire already in
// existing (the net's current tree) the search grew from, collecting the
// new wire→pip edges along the way.
func (r *Router) backtrace(cameFrom map[device.WireID]device.PipID, existing map[device.WireID]device.PipID, dst device.WireID) map[device.WireID]device.PipID {
	out := make(map[device.WireID]device.PipID)
	cur := dst
	for {
		if _, already := existing[cur]; already {
			return out
		}
		pip, ok := cameFrom[cur]
		if !ok {
			return out
		}
		out[cur] = pip
		cur = r.Arch.PipSrcWire(pip)
	}
}
