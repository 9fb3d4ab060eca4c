// Package pack implements the packer pipeline: an ordered
// sequence of netlist rewrites that lower a generic, family-agnostic
// netlist down to the primitives a particular architecture places and
// routes.
//
// Every pass of the pipeline is a plain Go function operating directly on
// the netlist (see NewDefaultPipeline). Rule and Apply describe a generic
// table-driven rewrite (source cell type, target cell type, port/parameter
// renames, defaults); no pipeline stage calls Apply.
package pack

import (
	"strings"

	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

// PortRename maps a source cell's port name to one or more target port
// names — most entries are 1→1, but DSP-style macros fan a single source
// pin out to several primitive pins.
type PortRename map[string][]string

// ParamRename maps a source parameter name to its target name.
type ParamRename map[string]string

// BitsParse directs that a named parameter be reinterpreted as a bit
// vector of the given width before being written to the target cell.
type BitsParse struct {
	Param string
	Width int
}

// Rule is one table-driven cell-type rewrite.
type Rule struct {
	SourceType string
	TargetType string

	Ports  PortRename
	Params ParamRename

	Defaults map[string]string
	Parses   []BitsParse

	FixedAttrs  map[string]string
	FixedParams map[string]string
}

// stripBrackets implements the "missing mappings strip [ and ] to form the
// new name" default behavior.
func stripBrackets(name string) string {
	r := strings.NewReplacer("[", "", "]", "")
	return r.Replace(name)
}

// Apply performs the generic rewrite described by r on cell, in place:
// rename ports, rename parameters, apply defaults, apply bit-vector
// parses, apply fixed assignments, then retype the cell.
func Apply(nl *netlist.Netlist, pool *idstring.Pool, cell netlist.CellID, r Rule) {
	c := nl.MustCell(cell)

	for _, name := range append([]idstring.ID(nil), portNames(c)...) {
		oldName := pool.String(name)
		targets, ok := r.Ports[oldName]
		if !ok {
			targets = []string{stripBrackets(oldName)}
		}
		if len(targets) == 1 && targets[0] == oldName {
			continue
		}
		for i, t := range targets {
			if i == 0 {
				nl.RenamePort(cell, name, pool.Intern(t))
			}
			// Additional fanout targets (1→N) are left for the caller
			// (e.g. DSP expansion) to wire explicitly onto new cells;
			// Apply only performs the primary rename.
		}
	}

	if c.Params == nil {
		c.Params = make(map[idstring.ID]netlist.Property)
	}
	for from, to := range r.Params {
		fromID := pool.Intern(from)
		if v, ok := c.Params[fromID]; ok {
			delete(c.Params, fromID)
			c.Params[pool.Intern(to)] = v
		}
	}

	for k, v := range r.Defaults {
		id := pool.Intern(k)
		if _, ok := c.Params[id]; !ok {
			c.Params[id] = netlist.NewStringProperty(v)
		}
	}

	for _, p := range r.Parses {
		id := pool.Intern(p.Param)
		if v, ok := c.Params[id]; ok && v.IsString() {
			c.Params[id] = netlist.ParseBitsProperty(p.Width, v.AsString())
		}
	}

	if c.Attrs == nil {
		c.Attrs = make(map[idstring.ID]netlist.Property)
	}
	for k, v := range r.FixedAttrs {
		c.Attrs[pool.Intern(k)] = netlist.NewStringProperty(v)
	}
	for k, v := range r.FixedParams {
		c.Params[pool.Intern(k)] = netlist.NewStringProperty(v)
	}

	c.Type = pool.Intern(r.TargetType)
}

func portNames(c *netlist.Cell) []idstring.ID {
	out := make([]idstring.ID, 0, len(c.Ports))
	for _, p := range c.PortsInOrder() {
		out = append(out, p.Name)
	}
	return out
}
