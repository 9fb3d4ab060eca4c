package netlist

import (
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
)

// CreateCell adds a new cell of the given type and returns its id. The
// cell starts with no ports, no bel, and StrengthNone.
func (nl *Netlist) CreateCell(name, typ string) CellID {
	id := nl.cellByNameOrAlloc(name)
	nl.cells[id] = Cell{
		Live:   true,
		Name:   nl.Pool.Intern(name),
		Type:   nl.Pool.Intern(typ),
		Attrs:  make(map[idstring.ID]Property),
		Params: make(map[idstring.ID]Property),
		Ports:  make(map[idstring.ID]*Port),
		Bel:    device.NoBel,
	}
	nl.liveCellCount++
	return id
}

func (nl *Netlist) cellByNameOrAlloc(name string) CellID {
	id := CellID(len(nl.cells))
	nl.cells = append(nl.cells, Cell{})
	nl.cellByName[nl.Pool.Intern(name)] = id
	return id
}

// RemoveCell destroys a cell. Every port it still has must already be
// disconnected (callers — chiefly the packer — disconnect ports before
// deleting the cell they belonged to); this is an assertion, not a user
// error, since a dangling reference would only arise from an internal
// bug in the caller.
func (nl *Netlist) RemoveCell(id CellID) {
	c := nl.MustCell(id)
	for _, p := range c.Ports {
		if p.Net != NoNet {
			panic("netlist: RemoveCell on a cell with a connected port")
		}
	}
	if c.Bel != device.NoBel {
		panic("netlist: RemoveCell on a bound cell; unbind first")
	}

	c.Live = false
	nl.liveCellCount--
}

// AddPort adds a named port of the given direction to cell. Ports are
// tracked in insertion order for deterministic downstream iteration (rule
// application in particular must be order-independent in *result* but
// order-stable in *trace*, so tests can assert on it).
func (nl *Netlist) AddPort(cell CellID, name string, dir device.Direction) {
	c := nl.MustCell(cell)
	id := nl.Pool.Intern(name)
	if _, exists := c.Ports[id]; exists {
		panic("netlist: duplicate port " + name)
	}
	c.Ports[id] = &Port{Name: id, Dir: dir, Net: NoNet, UserIndex: -1}
	c.portOrder = append(c.portOrder, id)
}

// RemovePort removes a port from a cell; the port must already be
// disconnected.
func (nl *Netlist) RemovePort(cell CellID, name idstring.ID) {
	c := nl.MustCell(cell)
	p, ok := c.Ports[name]
	if !ok {
		return
	}
	if p.Net != NoNet {
		panic("netlist: RemovePort on a connected port")
	}
	delete(c.Ports, name)
	for i, n := range c.portOrder {
		if n == name {
			c.portOrder = append(c.portOrder[:i], c.portOrder[i+1:]...)
			break
		}
	}
}

// RenamePort renames a port in place, preserving its connection state —
// used by the packer's port-rename rewrite. The connected net's own
// driver/user record is updated too, so the net side never refers to a
// name the cell no longer has.
func (nl *Netlist) RenamePort(cell CellID, oldName, newName idstring.ID) {
	c := nl.MustCell(cell)
	p, ok := c.Ports[oldName]
	if !ok {
		panic("netlist: RenamePort on a nonexistent port")
	}
	if _, clash := c.Ports[newName]; clash {
		panic("netlist: RenamePort target name already in use")
	}
	delete(c.Ports, oldName)
	p.Name = newName
	c.Ports[newName] = p
	for i, n := range c.portOrder {
		if n == oldName {
			c.portOrder[i] = newName
			break
		}
	}

	if p.Net != NoNet {
		n := nl.MustNet(p.Net)
		if n.Driver.Cell == cell && n.Driver.Port == oldName {
			n.Driver.Port = newName
		} else if p.UserIndex >= 0 {
			n.Users[p.UserIndex].Port = newName
		}
	}
}

// SetType reassigns a cell's type, used when the packer rewrites a cell to
// its target primitive after applying a rule.
func (nl *Netlist) SetType(cell CellID, typ string) {
	nl.MustCell(cell).Type = nl.Pool.Intern(typ)
}
