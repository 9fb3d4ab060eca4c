package pack

import (
	"fmt"

	"github.com/sarchlab/fabricpnr/arch"
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

// dspMacro describes one high-level DSP macro's fixed expansion topology.
// Bus ports on the source netlist are modeled as one single-bit port per
// index — "A[0]".."A[n]" — the same bit-blasted convention
// primitiveNormalization's bracket-stripping rule assumes elsewhere in
// the pipeline.
type dspMacro struct {
	primitives []dspPrimitive
	busPorts   []dspBusPort
}

type dspPrimitive struct {
	typeName   string
	dx, dy, dz int32
}

// dspBusPort copies bits [lo, lo+width) of macroPort onto bits
// [0, width) of primitives[primitiveIdx]'s primitivePort.
type dspBusPort struct {
	macroPort     string
	primitiveIdx  int
	primitivePort string
	lo, width     int
	// signParam, when set, is a parameter copied onto the target
	// primitive only for this slice.
	signParam string
}

// dspLibrary is the set of macros this pipeline knows how to expand. A
// device family registers additional macros at construction via
// RegisterDSPMacro.
var dspLibrary = map[string]dspMacro{
	"MULT9X9": {
		primitives: []dspPrimitive{
			{"PREADD9", 0, 0, 0},
			{"MULT9", 0, 0, 1},
		},
		busPorts: []dspBusPort{
			{"A", 0, "A", 0, 9, ""},
			{"B", 1, "B", 0, 9, ""},
			{"Z", 1, "Z", 0, 18, ""},
		},
	},
	"MULT18X18": {
		primitives: []dspPrimitive{
			{"MULT18", 0, 0, 0},
			{"MULT18", 0, 0, 1},
		},
		busPorts: []dspBusPort{
			{"A", 0, "A", 0, 18, ""},
			{"B", 0, "B", 0, 18, ""},
			{"A", 1, "A", 18, 18, "ASIGNED"},
			{"B", 1, "B", 18, 18, "BSIGNED"},
			{"Z", 1, "Z", 0, 36, ""},
		},
	},
}

// RegisterDSPMacro adds or overrides one DSP macro's expansion topology.
func RegisterDSPMacro(sourceType string, macro dspMacro) {
	dspLibrary[sourceType] = macro
}

// dspExpansion lowers each high-level DSP macro cell to a fixed cluster of
// primitives, bus-slicing its bit-blasted ports across them.
func dspExpansion(nl *netlist.Netlist, pool *idstring.Pool, a arch.Arch) error {
	for macroName, macro := range dspLibrary {
		for _, id := range cellsOfType(nl, pool, macroName) {
			expandDSPMacro(nl, pool, id, macro)
		}
	}
	return nil
}

func bitPortName(base string, bit int) string {
	return fmt.Sprintf("%s[%d]", base, bit)
}

func expandDSPMacro(nl *netlist.Netlist, pool *idstring.Pool, macroID netlist.CellID, macro dspMacro) {
	c := nl.MustCell(macroID)
	baseName := pool.String(c.Name)

	prims := make([]netlist.CellID, len(macro.primitives))
	for i, pr := range macro.primitives {
		name := fmt.Sprintf("%s$dsp%d", baseName, i)
		prims[i] = nl.CreateCell(name, pr.typeName)
	}

	for _, bp := range macro.busPorts {
		dst := prims[bp.primitiveIdx]

		for bit := 0; bit < bp.width; bit++ {
			srcName := pool.Intern(bitPortName(bp.macroPort, bp.lo+bit))
			p, ok := c.Ports[srcName]
			if !ok {
				continue
			}
			dstPortName := bitPortName(bp.primitivePort, bit)
			nl.AddPort(dst, dstPortName, p.Dir)
			dstPort := pool.Intern(dstPortName)

			if p.Net == netlist.NoNet {
				continue
			}
			net := p.Net
			dir := p.Dir
			nl.Disconnect(macroID, srcName)
			if dir == device.DirOut {
				_ = nl.ConnectDriver(net, dst, dstPort)
			} else {
				nl.ConnectUser(net, dst, dstPort)
			}
		}

		if bp.signParam != "" {
			if v, ok := c.Params[pool.Intern(bp.signParam)]; ok {
				pc := nl.MustCell(dst)
				if pc.Params == nil {
					pc.Params = make(map[idstring.ID]netlist.Property)
				}
				pc.Params[pool.Intern(bp.signParam)] = v
			}
		}
	}

	for k, v := range c.Params {
		for _, pr := range prims {
			pc := nl.MustCell(pr)
			if pc.Params == nil {
				pc.Params = make(map[idstring.ID]netlist.Property)
			}
			pc.Params[k] = v
		}
	}

	for i, pr := range macro.primitives {
		pc := nl.MustCell(prims[i])
		pc.HasCluster = true
		pc.Cluster = netlist.ClusterRel{Root: prims[0], DX: pr.dx, DY: pr.dy, DZ: pr.dz, AbsZ: false}
	}

	deleteIfDangling(nl, macroID)
}
