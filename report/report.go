// Package report builds the final run report: bel-bucket utilization,
// per-clock achieved frequency, critical paths and optional per-net
// detailed timing, in both a bit-exact JSON form and a console summary.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/fabricpnr/arch"
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/timing"
)

// Utilization is one bel bucket's usage count.
type Utilization struct {
	Used      int `json:"used"`
	Available int `json:"available"`
}

// Fmax is one clock domain's achieved-vs-constraint frequency, in MHz.
type Fmax struct {
	Achieved   float64 `json:"achieved"`
	Constraint float64 `json:"constraint"`
}

// Loc is a bel's (x, y) grid location.
type Loc struct {
	X int32 `json:"-"`
	Y int32 `json:"-"`
}

// MarshalJSON renders a Loc as a two-element [x, y] array rather than
// an object.
func (l Loc) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int32{l.X, l.Y})
}

// Endpoint is one side of a timing segment.
type Endpoint struct {
	Cell string `json:"cell"`
	Port string `json:"port"`
	Loc  Loc    `json:"loc"`
}

// Segment is one hop of a critical path or net timing record.
type Segment struct {
	Delay float64  `json:"delay"`
	From  Endpoint `json:"from"`
	To    Endpoint `json:"to"`
	Type  string   `json:"type"`
	Net   string   `json:"net,omitempty"`
}

// CriticalPath is one from-clock-event to to-clock-event path.
type CriticalPath struct {
	From string    `json:"from"`
	To   string    `json:"to"`
	Path []Segment `json:"path"`
}

// NetTiming is one net's detailed per-user timing, emitted only when
// requested.
type NetTiming struct {
	Net  string    `json:"net"`
	Path []Segment `json:"path"`
}

// Report is the top-level JSON document.
type Report struct {
	Utilization         map[string]Utilization `json:"utilization"`
	Fmax                map[string]Fmax        `json:"fmax"`
	CriticalPaths       []CriticalPath         `json:"critical_paths"`
	DetailedNetTimings  []NetTiming            `json:"detailed_net_timings,omitempty"`
	hasDetailedTimings  bool
}

// Build assembles a Report from a completed timing analysis plus the
// architecture's bel inventory for the utilization section, where a bel
// counts as used when the architecture reports it unavailable.
func Build(a arch.Arch, graph *device.Graph, pool *idstring.Pool, tr *timing.Result) *Report {
	r := &Report{
		Utilization: buildUtilization(a, graph, pool),
		Fmax:        make(map[string]Fmax),
	}

	for _, d := range tr.Domains {
		if d.Clock == "" {
			// The async domain has no fmax; its worst path still appears
			// under critical_paths below.
			continue
		}
		r.Fmax[d.Clock] = Fmax{
			Achieved:   periodToMHz(d.AchievedPeriod),
			Constraint: periodToMHz(d.Constraint),
		}
	}

	for _, p := range tr.CriticalPaths {
		r.CriticalPaths = append(r.CriticalPaths, CriticalPath{
			From: p.From,
			To:   p.To,
			Path: convertSegments(p.Segments),
		})
	}

	if tr.NetTimings != nil {
		r.hasDetailedTimings = true
		for _, nt := range tr.NetTimings {
			r.DetailedNetTimings = append(r.DetailedNetTimings, NetTiming{
				Net:  nt.Net,
				Path: convertSegments(nt.Segments),
			})
		}
	}

	return r
}

func buildUtilization(a arch.Arch, graph *device.Graph, pool *idstring.Pool) map[string]Utilization {
	out := make(map[string]Utilization)
	for _, b := range a.AllBels() {
		if graph.Bels[b].Hidden {
			continue
		}
		bucket := pool.String(graph.Bels[b].Bucket)
		u := out[bucket]
		u.Available++
		if !a.BelAvailable(b) {
			u.Used++
		}
		out[bucket] = u
	}
	return out
}

func convertSegments(segs []timing.Segment) []Segment {
	out := make([]Segment, len(segs))
	for i, s := range segs {
		out[i] = Segment{
			Delay: s.Delay,
			From:  Endpoint{Cell: s.FromCell, Port: s.FromPort, Loc: Loc{s.FromLoc[0], s.FromLoc[1]}},
			To:    Endpoint{Cell: s.ToCell, Port: s.ToPort, Loc: Loc{s.ToLoc[0], s.ToLoc[1]}},
			Type:  s.Type,
			Net:   s.Net,
		}
	}
	return out
}

// periodToMHz converts a nanosecond period to a frequency in MHz, 0 for a
// zero/absent period (e.g. an unset constraint).
func periodToMHz(period float64) float64 {
	if period <= 0 {
		return 0
	}
	return 1000.0 / period
}

// MarshalJSON emits exactly the documented key set, omitting
// detailed_net_timings entirely when it was never requested (rather than
// emitting an empty list).
func (r *Report) MarshalJSON() ([]byte, error) {
	type wire struct {
		Utilization        map[string]Utilization `json:"utilization"`
		Fmax               map[string]Fmax        `json:"fmax"`
		CriticalPaths      []CriticalPath         `json:"critical_paths"`
		DetailedNetTimings []NetTiming            `json:"detailed_net_timings,omitempty"`
	}
	w := wire{
		Utilization:   r.Utilization,
		Fmax:          r.Fmax,
		CriticalPaths: r.CriticalPaths,
	}
	if r.hasDetailedTimings {
		w.DetailedNetTimings = r.DetailedNetTimings
		if w.DetailedNetTimings == nil {
			w.DetailedNetTimings = []NetTiming{}
		}
	}
	return json.Marshal(w)
}

// WriteJSON writes the bit-exact report document to w.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteSummary renders a human-readable console summary: a utilization
// table, one fmax line per clock domain, and a critical-path digest.
func (r *Report) WriteSummary(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "PLACE & ROUTE REPORT")
	fmt.Fprintln(w, separator)

	fmt.Fprintln(w, "\nUTILIZATION")
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Bucket", "Used", "Available", "Pct"})
	var buckets []string
	for b := range r.Utilization {
		buckets = append(buckets, b)
	}
	sort.Strings(buckets)
	for _, b := range buckets {
		u := r.Utilization[b]
		pct := 0.0
		if u.Available > 0 {
			pct = 100.0 * float64(u.Used) / float64(u.Available)
		}
		t.AppendRow(table.Row{b, u.Used, u.Available, fmt.Sprintf("%.1f%%", pct)})
	}
	t.Render()

	fmt.Fprintln(w, "\nCLOCK SUMMARY")
	var clocks []string
	for c := range r.Fmax {
		clocks = append(clocks, c)
	}
	sort.Strings(clocks)
	for _, c := range clocks {
		f := r.Fmax[c]
		status := ""
		if f.Constraint > 0 {
			if f.Achieved < f.Constraint {
				status = "  [VIOLATED]"
			} else {
				status = "  [MET]"
			}
		}
		fmt.Fprintf(w, "  %s: %.2f MHz (constraint %.2f MHz)%s\n", c, f.Achieved, f.Constraint, status)
	}

	fmt.Fprintf(w, "\nCRITICAL PATHS: %d\n", len(r.CriticalPaths))
	for _, p := range r.CriticalPaths {
		var total float64
		for _, s := range p.Path {
			total += s.Delay
		}
		fmt.Fprintf(w, "  %s -> %s: %.3f ns over %d segments\n", p.From, p.To, total, len(p.Path))
	}

	fmt.Fprintln(w)
}
