// Package idstring implements the process-wide string interning pool.
//
// Every symbolic name in the core (cell types, port names, attribute keys,
// bel/wire/pip names, ...) is interned into a dense 32-bit handle so that
// equality, hashing, and map lookups on identifiers never touch a string.
package idstring

import "sync"

// ID is an interned string handle. The zero value is the empty string,
// which is always handle 0 in every pool.
type ID uint32

// Empty is the reserved handle for the empty string.
const Empty ID = 0

// Pool is a two-way mapping between strings and dense ID handles.
//
// A Pool is safe for concurrent use: minting a new handle takes the writer
// lock, and lookups of an already-minted ID take the read lock on an
// append-only slice.
type Pool struct {
	mu      sync.RWMutex
	strToID map[string]ID
	idToStr []string
}

// NewPool creates an empty pool with the empty string pre-interned as
// handle 0.
func NewPool() *Pool {
	p := &Pool{
		strToID: make(map[string]ID),
		idToStr: make([]string, 0, 64),
	}
	p.idToStr = append(p.idToStr, "")
	p.strToID[""] = Empty
	return p
}

// Intern returns the handle for s, minting a new one if s has never been
// seen by this pool. Intern is idempotent: calling it twice with the same
// string always returns the same handle.
func (p *Pool) Intern(s string) ID {
	if s == "" {
		return Empty
	}

	p.mu.RLock()
	if id, ok := p.strToID[s]; ok {
		p.mu.RUnlock()
		return id
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Re-check under the write lock: another writer may have interned s
	// between the RUnlock above and this Lock.
	if id, ok := p.strToID[s]; ok {
		return id
	}

	id := ID(len(p.idToStr))
	p.idToStr = append(p.idToStr, s)
	p.strToID[s] = id

	return id
}

// String returns the string for a previously minted handle. It panics if
// the handle was never minted by this pool — that is always a programmer
// error, not a user error.
func (p *Pool) String(id ID) string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if int(id) >= len(p.idToStr) {
		panic("idstring: handle not minted by this pool")
	}

	return p.idToStr[id]
}

// Lookup returns the handle for s and whether s has already been interned,
// without minting a new handle.
func (p *Pool) Lookup(s string) (ID, bool) {
	if s == "" {
		return Empty, true
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	id, ok := p.strToID[s]
	return id, ok
}

// Len returns the number of distinct strings interned, including the
// empty string.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.idToStr)
}

// List is a handle sequence used to form hierarchical names (e.g.
// "top/sub/leaf") without ever materializing the joined string. Equality
// on List values is lexicographic on the component handles.
type List []ID

// Equal reports whether two Lists name the same hierarchical path.
func (l List) Equal(o List) bool {
	if len(l) != len(o) {
		return false
	}
	for i := range l {
		if l[i] != o[i] {
			return false
		}
	}
	return true
}

// Less implements a total order over Lists suitable for sorted output,
// comparing handle-by-handle (not string-by-string — a List never touches
// the pool to compare).
func (l List) Less(o List) bool {
	n := len(l)
	if len(o) < n {
		n = len(o)
	}
	for i := 0; i < n; i++ {
		if l[i] != o[i] {
			return l[i] < o[i]
		}
	}
	return len(l) < len(o)
}

// String joins the List's components using the pool's strings, separated
// by sep. This is the only operation on List that touches the pool.
func (l List) String(p *Pool, sep string) string {
	out := ""
	for i, id := range l {
		if i > 0 {
			out += sep
		}
		out += p.String(id)
	}
	return out
}
