// Package constraint parses the four external constraint file formats
// (XDC, QSF, PDC, PCF) into attributes on cells and nets, plus a handful
// of record types (clock constraints, prohibit rules) that have no direct
// cell/net home.
//
// Each parser follows the same shape: strip trailing comments, split the
// line on whitespace/braces/quotes, switch on the first token, apply one
// handler per command name.
package constraint

import (
	"fmt"
	"regexp"

	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

// locAttr and belAttr mirror pack/io.go's constraint attribute names so a
// parsed LOC/BEL constraint flows into the packer unchanged.
const (
	locAttr = "LOC"
	belAttr = "BEL"
	// clockPeriodAttr mirrors pack/clock.go's clockPeriodAttr so a parsed
	// create_clock/set_frequency constraint seeds derivedClockConstraints.
	clockPeriodAttr = "CLOCK_PERIOD_NS"
)

// ClockConstraint is one user-supplied clock period, keyed by the
// resolved clock net so timing.Config.Constraints can be built directly
// from Result.Clocks.
type ClockConstraint struct {
	Name       string
	Net        netlist.NetID
	PeriodNs   float64
	AchievedOK bool // false if Net could not be resolved
}

// ProhibitKind distinguishes the three PCF prohibit-command targets.
type ProhibitKind uint8

const (
	ProhibitPip ProhibitKind = iota
	ProhibitWire
	ProhibitBel
)

// ProhibitRule is one PCF regex-pattern exclusion; the arch layer
// consults these to answer *_available queries for names the pattern
// matches.
type ProhibitRule struct {
	Kind    ProhibitKind
	Pattern *regexp.Regexp
}

// PseudoPlug is one PCF set_pseudo_plug declaration: an architecture
// pseudo-pip between a bel pin and a wire, with an explicit timing arc.
type PseudoPlug struct {
	Port        string
	Wire        string
	TimingIn    string
	TimingOut   string
	TimingMinNs float64
	TimingMaxNs float64
}

// GlobalAssignment is a QSF set_global_assignment: a design-wide key/value
// pair with no single cell/net/port to attach to.
type GlobalAssignment struct {
	Name  string
	Value string
}

// Result accumulates everything a parse pass produced. Attribute
// assignments targeting a resolved cell or net are applied directly to
// the Netlist as they are parsed; everything else (clocks, prohibits,
// pseudo-plugs, global assignments) is returned for the caller to wire
// into the arch/timing layers.
type Result struct {
	Clocks      []ClockConstraint
	Prohibits   []ProhibitRule
	PseudoPlugs []PseudoPlug
	Globals     []GlobalAssignment
	// Warnings holds unsupported-but-non-fatal diagnostics: an
	// unrecognized attribute or command is logged and ignored rather than
	// failing the run.
	Warnings []string
}

// Error is a user error: a malformed constraint file. Immediately fatal.
type Error struct {
	File string
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("constraint: %s:%d: %s", e.File, e.Line, e.Msg)
}

// resolver resolves the bare object names a constraint command names
// (get_ports/get_cells/... results, or QSF/PDC/PCF's direct name
// arguments) against the netlist. A name resolves to a cell if one
// exists with that name, else to a net, matching the observation that
// every object class in practice (port, cell, pin-owning cell) is
// represented as a Cell in this netlist model — a Port is a field of its
// owning Cell, not a free-standing netlist object.
type resolver struct {
	nl   *netlist.Netlist
	pool *idstring.Pool
}

// object is a resolved constraint target: either a cell, a net, or (for
// get_pins-style "cell/port" names) a specific port on a cell.
type object struct {
	cell netlist.CellID
	net  netlist.NetID
	port idstring.ID // idstring.Empty unless this object names one pin
}

func (r *resolver) resolve(name string) (object, bool) {
	if cellName, portName, ok := splitPinName(name); ok {
		if cid, found := r.nl.CellByName(r.pool.Intern(cellName)); found {
			return object{cell: cid, net: netlist.NoNet, port: r.pool.Intern(portName)}, true
		}
		return object{}, false
	}

	id := r.pool.Intern(name)
	if cid, ok := r.nl.CellByName(id); ok {
		return object{cell: cid, net: netlist.NoNet}, true
	}
	if nid, ok := r.nl.NetByName(id); ok {
		return object{cell: netlist.NoCell, net: nid}, true
	}
	return object{}, false
}

// splitPinName splits a get_pins-style "cellname/portname" reference.
func splitPinName(name string) (cell, port string, ok bool) {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			return name[:i], name[i+1:], true
		}
	}
	return "", "", false
}

// netOf returns the net an object refers to: directly if it is a net, or
// the net driven by its sole output port if it is a cell standing in for
// a top-level port ("[get_ports clk_in]" resolves to clk_in's net).
func (r *resolver) netOf(o object) (netlist.NetID, bool) {
	if o.net != netlist.NoNet {
		return o.net, true
	}
	c := r.nl.Cell(o.cell)
	if c == nil {
		return netlist.NoNet, false
	}
	for _, p := range c.PortsInOrder() {
		if p.Net != netlist.NoNet {
			return p.Net, true
		}
	}
	return netlist.NoNet, false
}

// setAttr sets a string attribute on the object a command targets: a
// cell's Attrs map, or a net's Attrs map if the object resolved to a bare
// net (set_property on a net-level constraint such as a TIG).
func (r *resolver) setAttr(o object, key, value string) {
	keyID := r.pool.Intern(key)
	if o.cell != netlist.NoCell {
		c := r.nl.MustCell(o.cell)
		c.Attrs[keyID] = netlist.NewStringProperty(value)
		return
	}
	n := r.nl.MustNet(o.net)
	n.Attrs[keyID] = netlist.NewStringProperty(value)
}

// errMissingArg and errBadFloat build the user-facing parse errors the
// per-format command parsers return; every format shares the same
// "required flag absent" / "not a number" failure shapes.
func errMissingArg(flag string) error {
	return fmt.Errorf("missing argument for %s", flag)
}

func errBadFloat(flag, got string) error {
	return fmt.Errorf("%s: %q is not a number", flag, got)
}
