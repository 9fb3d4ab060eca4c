// Package observer implements the read-only UI-observer side of the
// context's concurrency discipline: a single HTTP endpoint that takes
// the UI lock, serializes a consistent snapshot of the current binding
// state, and releases it.
package observer

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/sarchlab/fabricpnr/ctx"
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/netlist"
)

// CellBinding is one bound cell in a snapshot.
type CellBinding struct {
	Cell string `json:"cell"`
	Bel  string `json:"bel"`
	X    int32  `json:"x"`
	Y    int32  `json:"y"`
	Z    int32  `json:"z"`
}

// NetBinding is one net's current routing-tree size in a snapshot.
type NetBinding struct {
	Net   string `json:"net"`
	Wires int    `json:"wires"`
}

// Snapshot is the JSON body GET /snapshot returns.
type Snapshot struct {
	Cells []CellBinding `json:"cells"`
	Nets  []NetBinding  `json:"nets"`
}

// Server is the UI-observer HTTP server. It never mutates the context —
// every request takes c.LockUI, builds the response, and calls
// c.UnlockUI before writing anything to the response body, so a slow
// client never holds the lock.
type Server struct {
	c      *ctx.Context
	router *mux.Router
}

// New builds an observer Server over c. Call Handler to get the
// http.Handler to serve, typically via http.ListenAndServe.
func New(c *ctx.Context) *Server {
	s := &Server{c: c, router: mux.NewRouter()}
	s.router.HandleFunc("/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	return s
}

// Handler returns the http.Handler to mount.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleSnapshot(w http.ResponseWriter, req *http.Request) {
	snap := s.takeSnapshot()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		slog.Error("observer: failed to encode snapshot", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// takeSnapshot acquires the UI lock, copies out every live binding, and
// releases the lock before returning — the only suspension-adjacent
// section in this package, mirroring the worker's Yield discipline from
// the observer's side.
func (s *Server) takeSnapshot() Snapshot {
	s.c.LockUI()
	defer s.c.UnlockUI()

	var snap Snapshot

	s.c.NL.AllCells(func(id netlist.CellID, c *netlist.Cell) {
		if c.Bel == device.NoBel {
			return
		}
		bel := s.c.Graph.Bels[c.Bel]
		snap.Cells = append(snap.Cells, CellBinding{
			Cell: s.c.Pool.String(c.Name),
			Bel:  s.c.Pool.String(bel.Name),
			X:    bel.X, Y: bel.Y, Z: bel.Z,
		})
	})

	s.c.NL.AllNets(func(id netlist.NetID, n *netlist.Net) {
		if len(n.Route) == 0 {
			return
		}
		snap.Nets = append(snap.Nets, NetBinding{
			Net:   s.c.Pool.String(n.Name),
			Wires: len(n.Route),
		})
	})

	sort.Slice(snap.Cells, func(i, j int) bool { return snap.Cells[i].Cell < snap.Cells[j].Cell })
	sort.Slice(snap.Nets, func(i, j int) bool { return snap.Nets[i].Net < snap.Nets[j].Net })

	return snap
}
