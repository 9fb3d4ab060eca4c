// Package ctx assembles the top-level process state — the idstring
// pool, RNG, device graph, netlist and binding tables — behind the
// main-lock/UI-lock concurrency discipline one worker and at most one
// observer share. Every piece of mutable state is threaded explicitly
// through the Context rather than hidden behind package globals.
package ctx

import (
	"log/slog"
	"sync"

	"github.com/shirou/gopsutil/cpu"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/fabricpnr/bind"
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
	"github.com/sarchlab/fabricpnr/rng"
)

// Identity names whoever currently holds the main lock: the worker
// goroutine running the pack/place/route pipeline, or nil when unheld.
// Any comparable value works; callers typically pass a small sentinel
// or a *Worker token.
type Identity any

// Context is the single mutable-state holder shared by the worker and
// at most one observer. Graph is built once and never mutated again
// after construction, so it is read lock-free; NL and Tbl are the only
// fields protected by the main lock.
type Context struct {
	Pool  *idstring.Pool
	RNG   *rng.RNG
	Graph *device.Graph
	NL    *netlist.Netlist
	Tbl   *bind.Tables

	// Ids is the well-known constids table, interned at construction so
	// every architecture shares the same prefix of handles.
	Ids idstring.ConstIDs

	mainMu sync.Mutex
	uiMu   sync.Mutex
	owner  Identity
}

// New builds a Context over an already-constructed (and now immutable)
// device graph and a fresh netlist/binding-table pair, logging the host
// CPU count once at construction time.
func New(pool *idstring.Pool, seed uint64, graph *device.Graph) *Context {
	nl := netlist.New(pool)
	c := &Context{
		Pool:  pool,
		RNG:   rng.New(seed),
		Graph: graph,
		NL:    nl,
		Tbl:   bind.NewTables(graph, nl),
		Ids:   pool.InternConstIDs(),
	}

	if counts, err := cpu.Counts(true); err == nil {
		slog.Info("context created", "cpus", counts, "seed", seed)
	} else {
		slog.Info("context created", "seed", seed)
	}

	atexit.Register(func() {
		slog.Debug("context exiting")
	})

	return c
}

// Lock acquires the main lock on behalf of who, recording the owner so
// Unlock can assert it is released by the same identity.
func (c *Context) Lock(who Identity) {
	c.mainMu.Lock()
	c.owner = who
}

// Unlock releases the main lock. who must be the identity that last
// called Lock; a mismatch is a programmer bug, not a recoverable error.
func (c *Context) Unlock(who Identity) {
	if c.owner != who {
		panic("ctx: Unlock called by non-owner identity")
	}
	c.owner = nil
	c.mainMu.Unlock()
}

// Yield is the only suspension point in the worker loop: it releases
// the main lock, gives a waiting observer a bounded window to take the
// UI lock, then reacquires the main lock. Binding mutations never
// straddle a Yield call.
func (c *Context) Yield(who Identity) {
	c.Unlock(who)
	c.uiMu.Lock()
	c.uiMu.Unlock()
	c.Lock(who)
}

// LockUI is the observer's entry point: it takes the UI lock first,
// then the main lock, so a worker's in-flight Yield always completes
// before the observer proceeds.
func (c *Context) LockUI() {
	c.uiMu.Lock()
	c.mainMu.Lock()
}

// UnlockUI releases in the reverse order LockUI acquired.
func (c *Context) UnlockUI() {
	c.mainMu.Unlock()
	c.uiMu.Unlock()
}
