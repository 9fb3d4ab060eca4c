package pack

import (
	"github.com/sarchlab/fabricpnr/arch"
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

const constZeroNetName = "$PACKER_GND"
const constOneNetName = "$PACKER_VCC"
const constZeroDriverType = "GND_DRIVER"
const constOneDriverType = "VCC_DRIVER"

// invINIT is the INIT lutNormalization leaves on an inverter-derived
// combinational cell (alternating per input A, independent of any other
// input) — by the time constant_handling runs, lut_normalization has
// already rewritten every INV cell's type to coreCombType, so a hard
// inverter is recognized by this bit pattern rather than by type name.
var invINIT = netlist.ParseBitsProperty(16, "16'h5555")

// constantHandling connects every disconnected-with-default input to one
// of two lazily-created constant nets, absorbs hard-inverted/hard-constant
// pins directly into the consuming cell's mux configuration, and trims the
// inverter/constant-driver cells whose outputs this leaves without users.
func constantHandling(nl *netlist.Netlist, pool *idstring.Pool, a arch.Arch) error {
	zeroNet, oneNet := netlist.NoNet, netlist.NoNet

	var touched []netlist.CellID
	nl.AllCells(func(id netlist.CellID, c *netlist.Cell) {
		touched = append(touched, id)
	})

	for _, id := range touched {
		c := nl.MustCell(id)
		for _, p := range c.PortsInOrder() {
			if p.Dir == device.DirOut {
				continue
			}
			style := a.PinStyle(c.Type, p.Name)

			if p.Net == netlist.NoNet {
				switch {
				case style.DefaultZero:
					if zeroNet == netlist.NoNet {
						zeroNet = getOrCreateConstNet(nl, pool, constZeroNetName, constZeroDriverType)
						c = nl.MustCell(id)
					}
					nl.ConnectUser(zeroNet, id, p.Name)
				case style.DefaultOne:
					if oneNet == netlist.NoNet {
						oneNet = getOrCreateConstNet(nl, pool, constOneNetName, constOneDriverType)
						c = nl.MustCell(id)
					}
					nl.ConnectUser(oneNet, id, p.Name)
				}
				continue
			}

			drvCell, drvPort, ok := driverOf(nl, id, p.Name)
			if !ok {
				continue
			}

			if style.HardInvert && isInverterCell(nl, pool, drvCell) {
				invIn, invInOk := invInputDriver(nl, pool, drvCell)
				nl.Disconnect(id, p.Name)
				if invInOk {
					nl.ConnectUser(invIn, id, p.Name)
				}
				markPinMux(nl, pool, c, p.Name, "inverted")
				trimIfUnused(nl, drvCell)
				continue
			}

			if style.HardConstSel && isConstantDriver(nl, drvCell) {
				constVal := constantDriverValue(nl, drvCell)
				nl.Disconnect(id, p.Name)
				markPinMux(nl, pool, c, p.Name, constVal)
				trimIfUnused(nl, drvCell)
				continue
			}

			_ = drvPort
		}
	}

	return nil
}

// trimIfUnused removes cell once none of its outputs has a live user left,
// disconnecting its remaining ports first so its input nets drop it.
func trimIfUnused(nl *netlist.Netlist, cell netlist.CellID) {
	c := nl.MustCell(cell)
	for _, p := range c.Ports {
		if p.Dir != device.DirIn && p.Net != netlist.NoNet && nl.MustNet(p.Net).FanOut() > 0 {
			return
		}
	}
	for _, p := range c.PortsInOrder() {
		if p.Net != netlist.NoNet {
			nl.Disconnect(cell, p.Name)
		}
	}
	nl.RemoveCell(cell)
}

func getOrCreateConstNet(nl *netlist.Netlist, pool *idstring.Pool, netName, driverType string) netlist.NetID {
	if id, ok := nl.NetByName(pool.Intern(netName)); ok {
		return id
	}
	net := nl.CreateNet(netName)
	drv := nl.CreateCell(netName+"$drv", driverType)
	nl.AddPort(drv, "Y", device.DirOut)
	_ = nl.ConnectDriver(net, drv, pool.Intern("Y"))
	return net
}

// isInverterCell reports whether cell is a lutNormalization-derived
// inverter: a core combinational cell whose INIT is the alternating
// pattern an inverter on input A produces regardless of every other
// input.
func isInverterCell(nl *netlist.Netlist, pool *idstring.Pool, cell netlist.CellID) bool {
	c := nl.Cell(cell)
	if c == nil || c.Type != pool.Intern(coreCombType) {
		return false
	}
	v, ok := c.Params[idOfInit(nl, c)]
	return ok && v.IsBits() && v.Equal(invINIT)
}

func invInputDriver(nl *netlist.Netlist, pool *idstring.Pool, invCell netlist.CellID) (netlist.NetID, bool) {
	c := nl.MustCell(invCell)
	p, ok := c.Ports[pool.Intern("A")]
	if !ok || p.Net == netlist.NoNet {
		return netlist.NoNet, false
	}
	return p.Net, true
}

// isConstantDriver reports whether cell is a constant-zero/one driver: no
// connected inputs and a saturated INIT, matching the shape
// lutNormalization leaves behind for VHI/VLO-derived cells.
func isConstantDriver(nl *netlist.Netlist, cell netlist.CellID) bool {
	c := nl.Cell(cell)
	if c == nil {
		return false
	}
	for _, p := range c.Ports {
		if p.Dir != device.DirOut && p.Net != netlist.NoNet {
			return false
		}
	}
	v, ok := c.Params[idOfInit(nl, c)]
	if !ok || !v.IsBits() {
		return false
	}
	return v.AllZeros() || v.AllOnes()
}

func constantDriverValue(nl *netlist.Netlist, cell netlist.CellID) string {
	c := nl.MustCell(cell)
	v := c.Params[idOfInit(nl, c)]
	if v.AllOnes() {
		return "CONST_1"
	}
	return "CONST_0"
}

func idOfInit(nl *netlist.Netlist, c *netlist.Cell) idstring.ID {
	return nl.Pool.Intern(initParam)
}

func markPinMux(nl *netlist.Netlist, pool *idstring.Pool, c *netlist.Cell, port idstring.ID, value string) {
	if c.Attrs == nil {
		c.Attrs = make(map[idstring.ID]netlist.Property)
	}
	key := pool.Intern("PINMUX_" + pool.String(port))
	c.Attrs[key] = netlist.NewStringProperty(value)
}
