package pack_test

import (
	"strconv"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/sarchlab/fabricpnr/arch"
	"github.com/sarchlab/fabricpnr/bind"
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
	"github.com/sarchlab/fabricpnr/pack"
)

func TestPack(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Pack Suite")
}

// barearch builds an empty-but-usable GridArch: no bels at all, which is
// fine since every scenario below only exercises netlist-level rewrites,
// never placement.
func bareArch() arch.Arch {
	pool := idstring.NewPool()
	db := device.NewBuilder(pool)
	graph := db.Build()
	tbl := bind.NewTables(graph, netlist.New(pool))
	return arch.NewGridArch(graph, tbl, 1.0)
}

var _ = ginkgo.Describe("Pipeline", func() {
	ginkgo.It("terminates without error on an empty netlist", func() {
		pool := idstring.NewPool()
		nl := netlist.New(pool)
		p := pack.NewDefaultPipeline(pack.Config{MaxGlobalBuffers: 8})

		gomega.Expect(p.Run(nl, pool, bareArch())).To(gomega.Succeed())
		gomega.Expect(nl.CellCount()).To(gomega.Equal(0))
	})

	// A LUT4 (INIT=0x5555) feeding a fanout-1 FD1P3DX flip-flop fuses
	// into one cluster of two cells at consecutive z offsets, with the
	// FF's data-select parameter marked "from LUT".
	ginkgo.It("fuses a fanout-1 LUT into its consuming flip-flop", func() {
		pool := idstring.NewPool()
		nl := netlist.New(pool)

		lut := nl.CreateCell("L", "LUT4")
		nl.AddPort(lut, "Z", device.DirOut)
		nl.MustCell(lut).Params = map[idstring.ID]netlist.Property{
			pool.Intern("INIT"): netlist.NewStringProperty("16'h5555"),
		}

		ff := nl.CreateCell("F", "FD1P3DX")
		nl.AddPort(ff, "D", device.DirIn)
		nl.AddPort(ff, "CK", device.DirIn)
		nl.AddPort(ff, "Q", device.DirOut)

		n := nl.CreateNet("n")
		gomega.Expect(nl.ConnectDriver(n, lut, pool.Intern("Z"))).To(gomega.Succeed())
		nl.ConnectUser(n, ff, pool.Intern("D"))

		p := pack.NewDefaultPipeline(pack.Config{MaxGlobalBuffers: 8, FuseLUTFF: true})
		gomega.Expect(p.Run(nl, pool, bareArch())).To(gomega.Succeed())

		// ff_normalization renames the D port to M, then lut_ff_fusion
		// renames it again to DI.
		ffc := nl.MustCell(ff)
		gomega.Expect(ffc.Type).To(gomega.Equal(pool.Intern("FF")))
		_, hasM := ffc.Ports[pool.Intern("M")]
		_, hasDI := ffc.Ports[pool.Intern("DI")]
		gomega.Expect(hasM).To(gomega.BeFalse())
		gomega.Expect(hasDI).To(gomega.BeTrue())

		gomega.Expect(ffc.HasCluster).To(gomega.BeTrue())
		gomega.Expect(ffc.Params[pool.Intern("DATA_SEL")].AsString()).To(gomega.Equal("LUT_OUTPUT"))

		lutc := nl.MustCell(lut)
		gomega.Expect(lutc.Type).To(gomega.Equal(pool.Intern("LUTCOMB")))
		gomega.Expect(lutc.HasCluster).To(gomega.BeTrue())
		gomega.Expect(lutc.Cluster.Root).To(gomega.Equal(lut))
		gomega.Expect(ffc.Cluster.Root).To(gomega.Equal(lut))
		gomega.Expect(ffc.Cluster.DZ).To(gomega.Equal(int32(1)))
	})

	// A flip-flop whose data input has no LUT driver at all (an
	// undriven net, standing in for a top-level or already-placed
	// source) still ends up clustered: fusion gives it its own
	// pass-through LUT rather than leaving it unfused.
	ginkgo.It("gives an undriven flip-flop its own pass-through LUT", func() {
		pool := idstring.NewPool()
		nl := netlist.New(pool)

		ff := nl.CreateCell("F", "FD1P3DX")
		nl.AddPort(ff, "D", device.DirIn)
		nl.AddPort(ff, "CK", device.DirIn)
		nl.AddPort(ff, "Q", device.DirOut)

		n := nl.CreateNet("n")
		nl.ConnectUser(n, ff, pool.Intern("D"))

		p := pack.NewDefaultPipeline(pack.Config{MaxGlobalBuffers: 8, FuseLUTFF: true})
		gomega.Expect(p.Run(nl, pool, bareArch())).To(gomega.Succeed())

		ffc := nl.MustCell(ff)
		gomega.Expect(ffc.HasCluster).To(gomega.BeTrue())
		gomega.Expect(ffc.Cluster.DZ).To(gomega.Equal(int32(1)))

		lutc := nl.MustCell(ffc.Cluster.Root)
		gomega.Expect(lutc.Type).To(gomega.Equal(pool.Intern("LUTCOMB")))
		gomega.Expect(lutc.HasCluster).To(gomega.BeTrue())
		gomega.Expect(lutc.Params[pool.Intern("INIT")].ToString()).To(gomega.Equal("1010101010101010"))
	})

	// Four chained CCU2 cells (CIN/COUT), tail COUT unused, split into
	// eight combinational cells (head+tail per link) in one cluster, with
	// a CHAIN_INDEX parameter numbering each link.
	ginkgo.It("expands a four-cell carry chain into eight numbered halves", func() {
		pool := idstring.NewPool()
		nl := netlist.New(pool)

		var links []netlist.CellID
		for i := 0; i < 4; i++ {
			id := nl.CreateCell(ccuName(i), "CCU2")
			nl.AddPort(id, "FCI", device.DirIn)
			nl.AddPort(id, "FCO", device.DirOut)
			links = append(links, id)
		}
		for i := 0; i < 3; i++ {
			carry := nl.CreateNet(ccuName(i) + "$fco")
			gomega.Expect(nl.ConnectDriver(carry, links[i], pool.Intern("FCO"))).To(gomega.Succeed())
			nl.ConnectUser(carry, links[i+1], pool.Intern("FCI"))
		}

		p := pack.NewDefaultPipeline(pack.Config{MaxGlobalBuffers: 8})
		gomega.Expect(p.Run(nl, pool, bareArch())).To(gomega.Succeed())

		headType := pool.Intern("CCU2_HEAD")
		tailType := pool.Intern("CCU2_TAIL")
		var heads, tails int
		var root netlist.CellID = netlist.NoCell
		seenIdx := map[string]bool{}
		seenDZ := map[int32]bool{}

		nl.AllCells(func(id netlist.CellID, c *netlist.Cell) {
			switch c.Type {
			case headType:
				heads++
			case tailType:
				tails++
			default:
				return
			}
			gomega.Expect(c.HasCluster).To(gomega.BeTrue())
			if root == netlist.NoCell {
				root = c.Cluster.Root
			}
			gomega.Expect(c.Cluster.Root).To(gomega.Equal(root))
			if v, ok := c.Params[pool.Intern("CHAIN_INDEX")]; ok {
				seenIdx[v.AsString()] = true
			}
			seenDZ[c.Cluster.DZ] = true
		})

		gomega.Expect(heads).To(gomega.Equal(4))
		gomega.Expect(tails).To(gomega.Equal(4))
		gomega.Expect(seenIdx).To(gomega.HaveLen(4))

		// Links pack into physical carry slots 8 apart, not a flat
		// sequential count: head/tail pairs land at z=0,1 / 8,9 / 16,17 /
		// 24,25 for links 0..3.
		wantDZ := map[int32]bool{0: true, 1: true, 8: true, 9: true, 16: true, 17: true, 24: true, 25: true}
		gomega.Expect(seenDZ).To(gomega.Equal(wantDZ))
	})

	// A net driven by an INV cell feeds an FF's CE input which
	// supports hard inversion per the architecture's pin style; after
	// constant_handling the INV is gone and CE is marked inverted.
	ginkgo.It("absorbs a hard-invertible INV into the consuming pin mux", func() {
		pool := idstring.NewPool()
		nl := netlist.New(pool)
		db := device.NewBuilder(pool)
		graph := db.Build()
		tbl := bind.NewTables(graph, nl)
		ga := arch.NewGridArch(graph, tbl, 1.0)
		ga.AddPinStyle(pool.Intern("FF"), pool.Intern("CE"), arch.PinStyle{HardInvert: true})

		src := nl.CreateCell("S", "LUT4")
		nl.AddPort(src, "Z", device.DirOut)

		inv := nl.CreateCell("I", "INV")
		nl.AddPort(inv, "A", device.DirIn)
		nl.AddPort(inv, "Z", device.DirOut)

		ff := nl.CreateCell("F", "FD1S3BX")
		nl.AddPort(ff, "CE", device.DirIn)
		nl.AddPort(ff, "D", device.DirIn)
		nl.AddPort(ff, "CK", device.DirIn)

		srcNet := nl.CreateNet("src")
		gomega.Expect(nl.ConnectDriver(srcNet, src, pool.Intern("Z"))).To(gomega.Succeed())
		nl.ConnectUser(srcNet, inv, pool.Intern("A"))

		invNet := nl.CreateNet("inv_out")
		gomega.Expect(nl.ConnectDriver(invNet, inv, pool.Intern("Z"))).To(gomega.Succeed())
		nl.ConnectUser(invNet, ff, pool.Intern("CE"))

		p := pack.NewDefaultPipeline(pack.Config{MaxGlobalBuffers: 8})
		gomega.Expect(p.Run(nl, pool, ga)).To(gomega.Succeed())

		_, invStillThere := nl.CellByName(pool.Intern("I"))
		gomega.Expect(invStillThere).To(gomega.BeFalse())

		ffc := nl.MustCell(ff)
		ce := ffc.Ports[pool.Intern("CE")]
		gomega.Expect(ce.Net).NotTo(gomega.Equal(netlist.NoNet))
		gomega.Expect(nl.MustNet(ce.Net).Name).To(gomega.Equal(pool.Intern("src")))
		gomega.Expect(ffc.Attrs[pool.Intern("PINMUX_CE")].AsString()).To(gomega.Equal("inverted"))
	})

	// 20 nets with clock fanouts 1..20 and a device with a 16-global
	// budget; exactly the top 16 by fanout get a DCC.
	ginkgo.It("promotes only the top-fanout clock nets up to the global budget", func() {
		pool := idstring.NewPool()
		nl := netlist.New(pool)
		db := device.NewBuilder(pool)
		graph := db.Build()
		tbl := bind.NewTables(graph, nl)
		ga := arch.NewGridArch(graph, tbl, 1.0)
		ga.AddPinStyle(pool.Intern("FF"), pool.Intern("CLK"), arch.PinStyle{GlobalClock: true})

		const numNets = 20
		const budget = 16
		fanoutOf := make(map[netlist.NetID]int)
		for i := 0; i < numNets; i++ {
			drv := nl.CreateCell(cellName("drv", i), "LUTCOMB")
			nl.AddPort(drv, "Z", device.DirOut)
			net := nl.CreateNet(cellName("clk", i))
			gomega.Expect(nl.ConnectDriver(net, drv, pool.Intern("Z"))).To(gomega.Succeed())

			fanout := i + 1
			for j := 0; j < fanout; j++ {
				sink := nl.CreateCell(cellName2("ff", i, j), "FF")
				nl.AddPort(sink, "CLK", device.DirIn)
				nl.ConnectUser(net, sink, pool.Intern("CLK"))
			}
			fanoutOf[net] = fanout
		}

		p := pack.NewDefaultPipeline(pack.Config{MaxGlobalBuffers: budget})
		gomega.Expect(p.Run(nl, pool, ga)).To(gomega.Succeed())

		dccType := pool.Intern("DCC")
		promotedCount := 0
		// fanouts 1..20: the 16 largest are 5..20, the cutoff below.
		const cutoff = numNets - budget + 1
		for net, fanout := range fanoutOf {
			n := nl.MustNet(net)
			hasDCC := false
			for _, u := range n.LiveUsers() {
				if nl.MustCell(u.Cell).Type == dccType {
					hasDCC = true
				}
			}
			if fanout >= cutoff {
				gomega.Expect(hasDCC).To(gomega.BeTrue())
				promotedCount++
			} else {
				gomega.Expect(hasDCC).To(gomega.BeFalse())
			}
		}
		gomega.Expect(promotedCount).To(gomega.Equal(budget))
	})
})

func ccuName(i int) string {
	return "ccu" + strconv.Itoa(i)
}

func cellName(prefix string, i int) string {
	return prefix + strconv.Itoa(i)
}

func cellName2(prefix string, i, j int) string {
	return prefix + strconv.Itoa(i) + "_" + strconv.Itoa(j)
}
