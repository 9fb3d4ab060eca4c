package netlist

import "github.com/sarchlab/fabricpnr/idstring"

// CreateNet adds a new, undriven, user-less net and returns its id.
func (nl *Netlist) CreateNet(name string) NetID {
	id := NetID(len(nl.nets))
	nl.nets = append(nl.nets, Net{
		Live:   true,
		Name:   nl.Pool.Intern(name),
		Attrs:  make(map[idstring.ID]Property),
		Driver: PortRef{Cell: NoCell},
	})
	nl.netByName[nl.Pool.Intern(name)] = id
	nl.liveNetCount++
	return id
}

// RemoveNet destroys a net. It must have no driver and no live users left
// (callers disconnect every port first) and no routing tree bound to it.
func (nl *Netlist) RemoveNet(id NetID) {
	n := nl.MustNet(id)
	if n.Driver.Cell != NoCell {
		panic("netlist: RemoveNet on a driven net")
	}
	if n.liveUsers != 0 {
		panic("netlist: RemoveNet on a net with live users")
	}
	if len(n.Route) != 0 {
		panic("netlist: RemoveNet on a routed net; unroute first")
	}

	n.Live = false
	nl.liveNetCount--
}

// ConnectDriver connects cell.port (which must be an output or inout) as
// net's driver. A net has at most one driver; connecting a second driver
// is a user error (a multiply-driven net), not an assertion, since it can
// arise from a malformed input netlist.
func (nl *Netlist) ConnectDriver(netID NetID, cell CellID, portName idstring.ID) error {
	n := nl.MustNet(netID)
	if n.Driver.Cell != NoCell {
		return &MultipleDriverError{Net: n.Name, Cell: cell}
	}

	c := nl.MustCell(cell)
	p, ok := c.Ports[portName]
	if !ok {
		panic("netlist: ConnectDriver on a nonexistent port")
	}
	if p.Net != NoNet {
		panic("netlist: ConnectDriver on an already-connected port")
	}

	p.Net = netID
	p.UserIndex = -1
	n.Driver = PortRef{Cell: cell, Port: portName}

	return nil
}

// ConnectUser connects cell.port (an input) as one of net's users,
// returning the stable UserIndex of the new entry.
func (nl *Netlist) ConnectUser(netID NetID, cell CellID, portName idstring.ID) int {
	n := nl.MustNet(netID)

	c := nl.MustCell(cell)
	p, ok := c.Ports[portName]
	if !ok {
		panic("netlist: ConnectUser on a nonexistent port")
	}
	if p.Net != NoNet {
		panic("netlist: ConnectUser on an already-connected port")
	}

	idx := nl.allocUserSlot(n, cell, portName)
	p.Net = netID
	p.UserIndex = idx

	return idx
}

// allocUserSlot reuses a tombstoned slot if one exists, else appends.
func (nl *Netlist) allocUserSlot(n *Net, cell CellID, portName idstring.ID) int {
	for i := range n.Users {
		if n.Users[i].Cell == NoCell {
			n.Users[i] = NetUser{Cell: cell, Port: portName}
			n.liveUsers++
			return i
		}
	}
	n.Users = append(n.Users, NetUser{Cell: cell, Port: portName})
	n.liveUsers++
	return len(n.Users) - 1
}

// Disconnect removes the connection on cell.port, tombstoning its slot in
// the net's user list (or clearing Driver) but leaving other UserIndex
// values unaffected.
func (nl *Netlist) Disconnect(cell CellID, portName idstring.ID) {
	c := nl.MustCell(cell)
	p, ok := c.Ports[portName]
	if !ok || p.Net == NoNet {
		return
	}

	n := nl.MustNet(p.Net)
	if n.Driver.Cell == cell && n.Driver.Port == portName {
		n.Driver = PortRef{Cell: NoCell}
	} else if p.UserIndex >= 0 {
		n.Users[p.UserIndex] = NetUser{Cell: NoCell}
		n.liveUsers--
	}

	p.Net = NoNet
	p.UserIndex = -1
}

// Compact drops tombstoned user-list entries from net, invalidating any
// previously handed-out UserIndex — callers must only invoke this at a
// point where no stale UserIndex is held (e.g. once per packer pass
// boundary).
func (nl *Netlist) Compact(netID NetID) {
	n := nl.MustNet(netID)
	compacted := make([]NetUser, 0, n.liveUsers)
	for _, u := range n.Users {
		if u.Cell != NoCell {
			compacted = append(compacted, u)
		}
	}
	n.Users = compacted

	for i, u := range n.Users {
		if u.Cell == NoCell {
			continue
		}
		nl.MustCell(u.Cell).Ports[u.Port].UserIndex = i
	}
}

// LiveUsers returns the net's users with tombstoned slots skipped.
func (n *Net) LiveUsers() []NetUser {
	out := make([]NetUser, 0, n.liveUsers)
	for _, u := range n.Users {
		if u.Cell != NoCell {
			out = append(out, u)
		}
	}
	return out
}

// FanOut returns the number of live users of a net.
func (n *Net) FanOut() int { return n.liveUsers }

// MultipleDriverError reports that a net was asked to accept a second
// driver.
type MultipleDriverError struct {
	Net  idstring.ID
	Cell CellID
}

func (e *MultipleDriverError) Error() string {
	return "netlist: net already has a driver"
}
