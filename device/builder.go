package device

import "github.com/sarchlab/fabricpnr/idstring"

// Builder constructs a Graph incrementally: Add* calls append entities
// and maintain both directions of the incidence lists, and Build
// finalizes the lookup tables and checks consistency.
type Builder struct {
	pool  *idstring.Pool
	graph Graph
}

// NewBuilder creates a Builder that interns names through pool.
func NewBuilder(pool *idstring.Pool) Builder {
	return Builder{pool: pool}
}

// AddWire appends a wire and returns its id.
func (b *Builder) AddWire(name string, typ string, x, y int32) WireID {
	id := WireID(len(b.graph.Wires))
	b.graph.Wires = append(b.graph.Wires, Wire{
		Name: b.pool.Intern(name),
		Type: b.pool.Intern(typ),
		X:    x,
		Y:    y,
	})
	return id
}

// AddBel appends a bel and returns its id. Pins are added afterward with
// AddBelPin so that each pin's wire can reference bels added earlier.
func (b *Builder) AddBel(name, typ string, x, y, z int32, bucket string) BelID {
	id := BelID(len(b.graph.Bels))
	b.graph.Bels = append(b.graph.Bels, Bel{
		Name:   b.pool.Intern(name),
		Type:   b.pool.Intern(typ),
		X:      x,
		Y:      y,
		Z:      z,
		Bucket: b.pool.Intern(bucket),
	})
	return id
}

// SetBelHidden marks a bel as excluded from utilization counts.
func (b *Builder) SetBelHidden(bel BelID, hidden bool) {
	b.graph.Bels[bel].Hidden = hidden
}

// AddBelPin adds a pin to bel bound to wire, and records the back-reference
// on the wire so BelPins incidence stays consistent.
func (b *Builder) AddBelPin(bel BelID, name string, dir Direction, wire WireID) {
	pinIdx := len(b.graph.Bels[bel].Pins)
	b.graph.Bels[bel].Pins = append(b.graph.Bels[bel].Pins, BelPin{
		Name: b.pool.Intern(name),
		Dir:  dir,
		Wire: wire,
	})
	b.graph.Wires[wire].BelPins = append(b.graph.Wires[wire].BelPins, WireBelPinRef{
		Bel:    bel,
		PinIdx: pinIdx,
	})
}

// AddPip adds a directed pip from src to dst and returns its id, updating
// both wires' uphill/downhill lists so the incidence invariant holds.
func (b *Builder) AddPip(name, typ string, src, dst WireID, x, y int32, delay float64, category PipCategory) PipID {
	id := PipID(len(b.graph.Pips))
	b.graph.Pips = append(b.graph.Pips, Pip{
		Name:     b.pool.Intern(name),
		Src:      src,
		Dst:      dst,
		X:        x,
		Y:        y,
		Type:     b.pool.Intern(typ),
		Delay:    delay,
		Category: category,
	})
	b.graph.Wires[src].Downhill = append(b.graph.Wires[src].Downhill, id)
	b.graph.Wires[dst].Uphill = append(b.graph.Wires[dst].Uphill, id)
	return id
}

// AddPseudoPip is AddPip for a pip with no bitstream effect, carrying an
// architecture-defined tag.
func (b *Builder) AddPseudoPip(name, typ string, src, dst WireID, x, y int32, delay float64, tag string) PipID {
	id := b.AddPip(name, typ, src, dst, x, y, delay, CategoryGeneral)
	b.graph.Pips[id].Pseudo = true
	b.graph.Pips[id].Tag = tag
	return id
}

// Build finalizes the graph: it populates the name-lookup tables and
// checks the incidence invariant, then returns the immutable
// Graph. The Builder must not be used again afterward.
func (b *Builder) Build() *Graph {
	g := b.graph

	g.belByName = make(map[idstring.ID]BelID, len(g.Bels))
	for i := range g.Bels {
		g.belByName[g.Bels[i].Name] = BelID(i)
	}

	g.wireByName = make(map[idstring.ID]WireID, len(g.Wires))
	for i := range g.Wires {
		g.wireByName[g.Wires[i].Name] = WireID(i)
	}

	g.pipByName = make(map[idstring.ID]PipID, len(g.Pips))
	for i := range g.Pips {
		g.pipByName[g.Pips[i].Name] = PipID(i)
	}

	g.checkConsistency()

	return &g
}
