// Package timing implements the static timing analyzer: it consumes the
// current bel/wire bindings plus arch delay queries and produces, per
// clock domain, an achieved period and worst-case critical path, plus
// optional per-net detailed timing. Arrival times are computed by a
// memoized recursive walk over (cell, port) pin nodes, rooted at every
// clocked data input and bottoming out at register outputs and undriven
// primary inputs.
package timing

import (
	"fmt"
	"sort"

	"github.com/sarchlab/fabricpnr/arch"
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

// Segment is one hop of a timing path.
type Segment struct {
	Delay    float64
	FromCell string
	FromPort string
	FromLoc  [2]int32
	ToCell   string
	ToPort   string
	ToLoc    [2]int32
	Type     string // "clk-to-q", "source", "logic", "setup", "routing"
	Net      string // set only for Type == "routing"
}

// Path is one from-clock-event to to-clock-event timing path.
type Path struct {
	From     string
	To       string
	Segments []Segment
}

// TotalDelay sums a path's segment delays.
func (p Path) TotalDelay() float64 {
	var total float64
	for _, s := range p.Segments {
		total += s.Delay
	}
	return total
}

// DomainResult is the achieved timing of one clock domain.
type DomainResult struct {
	Clock          string // bare clock net name, "" for the async domain
	ClockEvent     string // "posedge <clk>" / "negedge <clk>" / "<async>"
	AchievedPeriod float64
	Constraint     float64 // 0 if no constraint was supplied
}

// NetTiming is the per-net detailed timing record, populated only when
// Config.DetailedNetTimings is set.
type NetTiming struct {
	Net      string
	Segments []Segment
}

// Result is everything one Analyzer.Run call produces.
type Result struct {
	Domains       []DomainResult
	CriticalPaths []Path
	NetTimings    []NetTiming
}

// Config tunes one analysis run.
type Config struct {
	// Constraints maps a clock net's interned name to its user period
	// constraint in nanoseconds; a domain with no entry here is reported
	// with Constraint == 0.
	Constraints map[idstring.ID]float64
	// DetailedNetTimings requests the optional per-net section.
	DetailedNetTimings bool
}

// Analyzer walks the bound netlist computing arrival times over a
// combinational DAG rooted at register outputs and primary inputs.
type Analyzer struct {
	NL    *netlist.Netlist
	Graph *device.Graph
	Arch  arch.Arch
	Pool  *idstring.Pool

	memo map[nodeKey]*nodeInfo
}

// NewAnalyzer builds an Analyzer over nl/graph/a, interning names through
// pool.
func NewAnalyzer(nl *netlist.Netlist, graph *device.Graph, a arch.Arch, pool *idstring.Pool) *Analyzer {
	return &Analyzer{NL: nl, Graph: graph, Arch: a, Pool: pool}
}

// LoopError reports a combinational loop found while computing arrival
// times — an architecture-limitation-class failure, since the
// packer is expected to have already broken every feedback path at a
// register.
type LoopError struct {
	Cell netlist.CellID
	Port idstring.ID
}

func (e *LoopError) Error() string {
	return fmt.Sprintf("timing: combinational loop through cell %d port %d", e.Cell, e.Port)
}

// Run computes every clock domain's achieved period and worst-case
// critical path, plus optional per-net timings.
func (an *Analyzer) Run(cfg Config) (*Result, error) {
	an.memo = make(map[nodeKey]*nodeInfo)

	domains := make(map[domainKey]*domainState)

	// Unbound cells still analyze: their routing delay is simply zero,
	// which lets constraints be sanity-checked before placement.
	var loopErr error
	an.NL.AllCells(func(id netlist.CellID, c *netlist.Cell) {
		if loopErr != nil {
			return
		}
		for _, p := range c.PortsInOrder() {
			if p.Dir != device.DirIn {
				continue
			}
			clkPort, clkNet, negedge, ok := an.sequentialSinkInfo(id, p.Name)
			if !ok {
				continue
			}
			info, err := an.arrival(nodeKey{id, p.Name})
			if err != nil {
				loopErr = err
				return
			}
			setup, _, _, _ := an.Arch.CellSequentialDelay(c.Type, p.Name, clkPort)

			dk := domainKey{clkNet, negedge}
			ds := domains[dk]
			if ds == nil {
				ds = &domainState{}
				domains[dk] = ds
			}
			achieved := info.arrival + setup
			if achieved > ds.best {
				ds.best = achieved
				ds.bestSink = nodeKey{id, p.Name}
				ds.bestSetup = setup
			}
		}
	})
	if loopErr != nil {
		return nil, loopErr
	}

	var out Result
	var domainOrder []domainKey
	for dk := range domains {
		domainOrder = append(domainOrder, dk)
	}
	sort.Slice(domainOrder, func(i, j int) bool {
		if domainOrder[i].clock != domainOrder[j].clock {
			return domainOrder[i].clock < domainOrder[j].clock
		}
		return !domainOrder[i].negedge && domainOrder[j].negedge
	})

	for _, dk := range domainOrder {
		ds := domains[dk]
		event := clockEventName(an.Pool, dk.clock, dk.negedge)
		constraint := cfg.Constraints[dk.clock]
		clockName := ""
		if dk.clock != idstring.Empty {
			clockName = an.Pool.String(dk.clock)
		}
		out.Domains = append(out.Domains, DomainResult{
			Clock:          clockName,
			ClockEvent:     event,
			AchievedPeriod: ds.best,
			Constraint:     constraint,
		})

		segs, setupSeg, sourceEvent := an.reconstructPath(ds.bestSink, ds.bestSetup)
		segs = append(segs, setupSeg)
		out.CriticalPaths = append(out.CriticalPaths, Path{
			From:     sourceEvent,
			To:       event,
			Segments: segs,
		})
	}

	if cfg.DetailedNetTimings {
		an.NL.AllNets(func(id netlist.NetID, n *netlist.Net) {
			if n.Driver.Cell == netlist.NoCell {
				return
			}
			nt := NetTiming{Net: an.Pool.String(n.Name)}
			for _, u := range n.LiveUsers() {
				seg, ok := an.routingSegment(n, u)
				if ok {
					nt.Segments = append(nt.Segments, seg)
				}
			}
			out.NetTimings = append(out.NetTimings, nt)
		})
	}

	return &out, nil
}

type domainKey struct {
	clock   idstring.ID
	negedge bool
}

type domainState struct {
	best      float64
	bestSink  nodeKey
	bestSetup float64
}

// clockEventName renders a clock domain's event name: "<async>" for
// the zero clock handle, else "posedge <clk>" / "negedge <clk>".
func clockEventName(pool *idstring.Pool, clock idstring.ID, negedge bool) string {
	if clock == idstring.Empty {
		return "<async>"
	}
	if negedge {
		return fmt.Sprintf("negedge %s", pool.String(clock))
	}
	return fmt.Sprintf("posedge %s", pool.String(clock))
}
