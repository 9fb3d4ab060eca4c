package bind_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/sarchlab/fabricpnr/bind"
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

func TestBind(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Bind Suite")
}

func tinySetup() (*device.Graph, *netlist.Netlist, *bind.Tables, device.BelID, device.BelID, netlist.CellID) {
	pool := idstring.NewPool()
	db := device.NewBuilder(pool)
	w0 := db.AddWire("W0", "G", 0, 0)
	w1 := db.AddWire("W1", "G", 1, 0)
	belA := db.AddBel("A", "LUT4", 0, 0, 0, "LOGIC")
	belB := db.AddBel("B", "LUT4", 1, 0, 0, "LOGIC")
	graph := db.Build()

	nl := netlist.New(pool)
	cell := nl.CreateCell("c0", "LUT4")

	tbl := bind.NewTables(graph, nl)
	_ = w0
	_ = w1
	return graph, nl, tbl, belA, belB, cell
}

var _ = ginkgo.Describe("Tables", func() {
	ginkgo.It("keeps bel<->cell consistent in both directions", func() {
		_, nl, tbl, belA, _, cell := tinySetup()

		tbl.BindBel(belA, cell, netlist.StrengthStrong)
		bound, ok := tbl.CellAtBel(belA)
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(bound).To(gomega.Equal(cell))
		gomega.Expect(nl.MustCell(cell).Bel).To(gomega.Equal(belA))

		tbl.UnbindBel(belA)
		_, ok = tbl.CellAtBel(belA)
		gomega.Expect(ok).To(gomega.BeFalse())
		gomega.Expect(nl.MustCell(cell).Bel).To(gomega.Equal(device.NoBel))
	})

	ginkgo.It("refuses to double-bind a bel", func() {
		_, nl, tbl, belA, _, cell := tinySetup()
		other := nl.CreateCell("c1", "LUT4")

		tbl.BindBel(belA, cell, netlist.StrengthWeak)
		gomega.Expect(func() {
			tbl.BindBel(belA, other, netlist.StrengthWeak)
		}).To(gomega.Panic())
	})

	ginkgo.It("reports wire availability shared by the owning net", func() {
		graph, nl, tbl, _, _, _ := tinySetup()
		net := nl.CreateNet("n0")

		w := device.WireID(0)
		gomega.Expect(tbl.WireAvailable(w, net)).To(gomega.BeTrue())

		tbl.BindWire(w, net, device.NoPip, netlist.StrengthStrong)
		gomega.Expect(tbl.WireAvailable(w, net)).To(gomega.BeTrue())

		other := nl.CreateNet("n1")
		gomega.Expect(tbl.WireAvailable(w, other)).To(gomega.BeFalse())

		_ = graph
	})

	ginkgo.It("verifies the routing tree reaches the driver wire", func() {
		graph, nl, tbl, _, _, _ := tinySetup()
		net := nl.CreateNet("n0")

		driver := device.WireID(0)
		sink := device.WireID(1)
		pip := device.PipID(0)
		// fabricate a one-pip graph for this check
		graph.Pips = []device.Pip{{Src: driver, Dst: sink}}

		tbl.BindWire(driver, net, device.NoPip, netlist.StrengthStrong)
		tbl.BindWire(sink, net, pip, netlist.StrengthStrong)

		gomega.Expect(bind.RouteReachesDriver(nl, graph, net, driver)).To(gomega.Succeed())
	})

	ginkgo.It("builds the exact routing tree expected for a one-pip net", func() {
		graph, nl, tbl, _, _, _ := tinySetup()
		net := nl.CreateNet("n0")

		driver := device.WireID(0)
		sink := device.WireID(1)
		pip := device.PipID(0)
		graph.Pips = []device.Pip{{Src: driver, Dst: sink}}

		tbl.BindWire(driver, net, device.NoPip, netlist.StrengthStrong)
		tbl.BindWire(sink, net, pip, netlist.StrengthStrong)

		want := map[device.WireID]netlist.RouteEdge{
			driver: {Pip: device.NoPip, Strength: netlist.StrengthStrong},
			sink:   {Pip: pip, Strength: netlist.StrengthStrong},
		}
		if diff := cmp.Diff(want, nl.MustNet(net).Route); diff != "" {
			ginkgo.Fail("routing tree mismatch (-want +got):\n" + diff)
		}
	})
})
