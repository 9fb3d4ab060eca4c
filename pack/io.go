package pack

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sarchlab/fabricpnr/arch"
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

// ioStandardAttr is the user constraint attribute naming a port's IO
// electrical standard (e.g. LVCMOS33, lvcmos33); constraint files write it
// in whatever case the user typed, but the architecture's pin-style table
// keys on the canonical upper-case form.
const ioStandardAttr = "IO_STANDARD"

var ioStandardCaser = cases.Upper(language.Und)

// Synthesizer-inserted placeholder IO buffer types, replaced by the real
// architecture buffer during io_preparation.
const (
	placeholderIBUF  = "IBUF_PLACEHOLDER"
	placeholderOBUF  = "OBUF_PLACEHOLDER"
	placeholderIOBUF = "IOBUF_PLACEHOLDER"

	realIB  = "IB"
	realOB  = "OB"
	realIOB = "IOB"
)

// locAttr is the user constraint attribute mapping a top-level port to a
// package pin.
const locAttr = "LOC"

// ioPreparation matches synthesizer-placeholder IO buffers to their real
// architecture IO bel by the user's LOC constraint, then removes the
// placeholder.
func ioPreparation(nl *netlist.Netlist, pool *idstring.Pool, a arch.Arch) error {
	for _, placeholder := range [][2]string{
		{placeholderIBUF, realIB},
		{placeholderOBUF, realOB},
		{placeholderIOBUF, realIOB},
	} {
		for _, id := range cellsOfType(nl, pool, placeholder[0]) {
			if err := replaceIOPlaceholder(nl, pool, id, placeholder[1]); err != nil {
				return err
			}
		}
	}
	return nil
}

func replaceIOPlaceholder(nl *netlist.Netlist, pool *idstring.Pool, id netlist.CellID, realType string) error {
	c := nl.MustCell(id)
	loc, ok := c.Attrs[pool.Intern(locAttr)]
	if !ok || !loc.IsString() {
		return &Error{Stage: "io_preparation", Msg: "IO buffer without a LOC constraint"}
	}

	real := nl.CreateCell(pool.String(c.Name)+"$io", realType)
	nl.MustCell(real).Attrs[pool.Intern("BEL")] = netlist.NewStringProperty(loc.AsString())
	if std, ok := c.Attrs[pool.Intern(ioStandardAttr)]; ok && std.IsString() {
		nl.MustCell(real).Attrs[pool.Intern(ioStandardAttr)] = netlist.NewStringProperty(ioStandardCaser.String(std.AsString()))
	}

	for _, p := range c.PortsInOrder() {
		nl.AddPort(real, pool.String(p.Name), p.Dir)
		if p.Net == netlist.NoNet {
			continue
		}
		if p.Dir == device.DirOut {
			net := p.Net
			nl.Disconnect(id, p.Name)
			_ = nl.ConnectDriver(net, real, p.Name)
		} else {
			net := p.Net
			nl.Disconnect(id, p.Name)
			nl.ConnectUser(net, real, p.Name)
		}
	}

	nl.RemoveCell(id)
	return nil
}

// IO-logic primitive types merged onto the same pad in io_logic_merge:
// input/output DDR registers and tristate-enable registers.
const (
	ioLogicInputDDR   = "IDDR_LOGIC"
	ioLogicOutputDDR  = "ODDR_LOGIC"
	ioLogicTristateFF = "TSREG_LOGIC"
)

const padAttr = "PAD"

// ioLogicMerge merges every IO-logic cell sharing a PAD attribute into one
// cell constrained to the bel adjacent to that pad, and absorbs a
// tristate-enable flip-flop into the merged cell when its clock/reset
// agree with the logic cell's.
func ioLogicMerge(nl *netlist.Netlist, pool *idstring.Pool, a arch.Arch) error {
	groups := make(map[string][]netlist.CellID)
	for _, typeName := range []string{ioLogicInputDDR, ioLogicOutputDDR, ioLogicTristateFF} {
		for _, id := range cellsOfType(nl, pool, typeName) {
			c := nl.MustCell(id)
			pad, ok := c.Attrs[pool.Intern(padAttr)]
			if !ok || !pad.IsString() {
				continue
			}
			key := pad.AsString()
			groups[key] = append(groups[key], id)
		}
	}

	for pad, ids := range groups {
		if len(ids) == 1 {
			continue
		}
		if err := mergeIOLogicGroup(nl, pool, pad, ids); err != nil {
			return err
		}
	}
	return nil
}

func mergeIOLogicGroup(nl *netlist.Netlist, pool *idstring.Pool, pad string, ids []netlist.CellID) error {
	keep := ids[0]
	kc := nl.MustCell(keep)
	padAttrID := pool.Intern(padAttr)
	tsregType := pool.Intern(ioLogicTristateFF)

	for _, id := range ids[1:] {
		c := nl.MustCell(id)
		if c.Type == tsregType && !sharesControlNets(nl, pool, keep, id) {
			return &Error{Stage: "io_logic_merge", Msg: "tristate register at pad " + pad + " does not share the IO-logic cell's clock/reset"}
		}
		for _, p := range c.PortsInOrder() {
			if _, exists := kc.Ports[p.Name]; exists {
				continue
			}
			nl.AddPort(keep, pool.String(p.Name), p.Dir)
			if p.Net == netlist.NoNet {
				continue
			}
			net := p.Net
			dir := p.Dir
			nl.Disconnect(id, p.Name)
			if dir == device.DirOut {
				_ = nl.ConnectDriver(net, keep, p.Name)
			} else {
				nl.ConnectUser(net, keep, p.Name)
			}
		}
		deleteIfDangling(nl, id)
	}

	kc.Attrs[padAttrID] = netlist.NewStringProperty(pad)
	return nil
}

// sharesControlNets reports whether two IO-logic cells agree on the nets
// driving their CLK and LSR ports, the precondition for absorbing a
// tristate-enable register into the pad's merged IO-logic cell. A port
// absent on either side counts as agreement.
func sharesControlNets(nl *netlist.Netlist, pool *idstring.Pool, a, b netlist.CellID) bool {
	ac, bc := nl.MustCell(a), nl.MustCell(b)
	for _, name := range []string{"CLK", "LSR"} {
		id := pool.Intern(name)
		ap, aok := ac.Ports[id]
		bp, bok := bc.Ports[id]
		if !aok || !bok {
			continue
		}
		if ap.Net != bp.Net {
			return false
		}
	}
	return true
}
