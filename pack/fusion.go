package pack

import (
	"github.com/sarchlab/fabricpnr/arch"
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

// thruINIT is the INIT of a pass-through ("identity on A0") combinational
// cell, the complement of the inverter pattern lutNormalization assigns to
// INV cells.
const thruINIT = "16'hAAAA"

// controlSetFingerprintParams are the FF parameters that together make up
// a cluster's control-set fingerprint.
var controlSetFingerprintParams = []string{"CLKMUX", "SRMODE", "REGSET"}

// lutFFFusion co-constrains each eligible (LUT, FF) pair into one cluster:
// the FF's data input is driven by a fanout-1 LUT in plain-logic mode, and
// the FF has no existing cluster membership. The FF's M port is renamed to
// DI, its data-select parameter marked "from LUT output", and the
// cluster's control-set fingerprint recorded so later fusions into the
// same carry cluster must match it. rejectInCarryCluster, if non-nil, is
// consulted to probabilistically cap fusion within carry clusters.
func lutFFFusion(nl *netlist.Netlist, pool *idstring.Pool, a arch.Arch, rejectInCarryCluster func() bool) error {
	ffType := pool.Intern(coreFFType)
	lutType := pool.Intern(coreCombType)
	mPort := pool.Intern("M")
	diPort := pool.Intern("DI")

	clusterFingerprint := make(map[netlist.CellID][]string) // cluster root -> fingerprint

	var ffs []netlist.CellID
	nl.AllCells(func(id netlist.CellID, c *netlist.Cell) {
		if c.Type == ffType {
			ffs = append(ffs, id)
		}
	})

	for _, ffID := range ffs {
		ff := nl.MustCell(ffID)
		if ff.HasCluster {
			continue
		}
		p, ok := ff.Ports[mPort]
		if !ok || p.Net == netlist.NoNet {
			continue
		}

		lutID, lutPort, ok := driverOf(nl, ffID, mPort)
		if !ok {
			continue
		}
		lut := nl.Cell(lutID)
		if lut == nil || lut.Type != lutType {
			continue
		}
		if nl.MustNet(p.Net).FanOut() != 1 {
			continue
		}
		if lut.HasCluster && rejectInCarryCluster != nil && rejectInCarryCluster() {
			continue
		}

		fp := fingerprintOf(pool, ff)
		root := lutID
		if lut.HasCluster {
			root = lut.Cluster.Root
		}
		if existing, ok := clusterFingerprint[root]; ok && !sameFingerprint(existing, fp) {
			continue
		}
		clusterFingerprint[root] = fp

		nl.RenamePort(ffID, mPort, diPort)
		ff.HasCluster = true
		if lut.HasCluster {
			ff.Cluster = netlist.ClusterRel{Root: lut.Cluster.Root, DX: lut.Cluster.DX, DY: lut.Cluster.DY, DZ: lut.Cluster.DZ, AbsZ: lut.Cluster.AbsZ}
		} else {
			ff.Cluster = netlist.ClusterRel{Root: lutID, DX: 0, DY: 0, DZ: 1, AbsZ: false}
			lut.HasCluster = true
			lut.Cluster = netlist.ClusterRel{Root: lutID, DX: 0, DY: 0, DZ: 0, AbsZ: false}
		}
		if ff.Params == nil {
			ff.Params = make(map[idstring.ID]netlist.Property)
		}
		ff.Params[pool.Intern("DATA_SEL")] = netlist.NewStringProperty("LUT_OUTPUT")

		_ = lutPort
	}

	fuseLooseFlipFlops(nl, pool, ffs, mPort, diPort)

	return nil
}

// fuseLooseFlipFlops gives every flip-flop that never found a fusable LUT
// driver a cluster of its own anyway: a new pass-through combinational
// cell wired as an identity buffer ahead of the FF's data input, so every
// FF ends up in a LUT+FF pair rather than unclustered.
func fuseLooseFlipFlops(nl *netlist.Netlist, pool *idstring.Pool, ffs []netlist.CellID, mPort, diPort idstring.ID) {
	a0Port := pool.Intern("A0")
	zPort := pool.Intern("Z")
	initID := pool.Intern(initParam)
	dataSelID := pool.Intern("DATA_SEL")

	for _, ffID := range ffs {
		ff := nl.MustCell(ffID)
		if ff.HasCluster {
			continue
		}
		p, ok := ff.Ports[mPort]
		if !ok || p.Net == netlist.NoNet {
			continue
		}
		inNet := p.Net

		base := pool.String(ff.Name)
		lutID := nl.CreateCell(base+"$thru", coreCombType)
		nl.AddPort(lutID, "A0", device.DirIn)
		nl.AddPort(lutID, "Z", device.DirOut)

		nl.Disconnect(ffID, mPort)
		nl.ConnectUser(inNet, lutID, a0Port)

		outNet := nl.CreateNet(base + "$thru_out")
		_ = nl.ConnectDriver(outNet, lutID, zPort)
		nl.RenamePort(ffID, mPort, diPort)
		nl.ConnectUser(outNet, ffID, diPort)

		lut := nl.MustCell(lutID)
		lut.Params = map[idstring.ID]netlist.Property{initID: netlist.ParseBitsProperty(16, thruINIT)}
		lut.HasCluster = true
		lut.Cluster = netlist.ClusterRel{Root: lutID, DX: 0, DY: 0, DZ: 0, AbsZ: false}

		// CreateCell may have grown the cell arena; re-resolve ff before
		// writing its cluster fields.
		ff = nl.MustCell(ffID)
		ff.HasCluster = true
		ff.Cluster = netlist.ClusterRel{Root: lutID, DX: 0, DY: 0, DZ: 1, AbsZ: false}
		if ff.Params == nil {
			ff.Params = make(map[idstring.ID]netlist.Property)
		}
		ff.Params[dataSelID] = netlist.NewStringProperty("LUT_OUTPUT")
	}
}

func fingerprintOf(pool *idstring.Pool, ff *netlist.Cell) []string {
	out := make([]string, len(controlSetFingerprintParams))
	for i, name := range controlSetFingerprintParams {
		if v, ok := ff.Params[pool.Intern(name)]; ok && v.IsString() {
			out[i] = v.AsString()
		}
	}
	return out
}

func sameFingerprint(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
