package route

import "github.com/sarchlab/fabricpnr/device"

// frontierItem is one entry in the A* priority queue: the accumulated
// cost so far, the heuristic estimate to the target, and an RNG-drawn
// tiebreak used only when cost+heuristic is exactly equal.
type frontierItem struct {
	wire      device.WireID
	cost      float64
	heuristic float64
	tiebreak  uint64
	index     int
}

// frontier is a container/heap.Interface min-heap ordered by
// cost+heuristic, breaking ties on the tiebreak field so that the search
// order is deterministic for a fixed RNG seed rather than dependent on
// insertion order.
type frontier []*frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	ci := f[i].cost + f[i].heuristic
	cj := f[j].cost + f[j].heuristic
	if ci != cj {
		return ci < cj
	}
	return f[i].tiebreak < f[j].tiebreak
}

func (f frontier) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
	f[i].index = i
	f[j].index = j
}

func (f *frontier) Push(x any) {
	item := x.(*frontierItem)
	item.index = len(*f)
	*f = append(*f, item)
}

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return item
}
