package timing_test

import (
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/sarchlab/fabricpnr/arch"
	"github.com/sarchlab/fabricpnr/bind"
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
	"github.com/sarchlab/fabricpnr/timing"
)

func TestTiming(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Timing Suite")
}

var _ = ginkgo.Describe("Analyzer", func() {
	ginkgo.It("computes achieved period across a LUT-to-FF path", func() {
		pool := idstring.NewPool()
		db := device.NewBuilder(pool)
		graph := db.Build()

		nl := netlist.New(pool)
		tbl := bind.NewTables(graph, nl)
		ga := arch.NewGridArch(graph, tbl, 0.1)

		lut := pool.Intern("LUT4")
		ff := pool.Intern("FF")
		portI := pool.Intern("I")
		portO := pool.Intern("O")
		portD := pool.Intern("D")
		portQ := pool.Intern("Q")
		portClk := pool.Intern("CLK")
		clockFlag := pool.Intern("CLK")

		ga.AddDelayRule(arch.DelayRule{CellType: lut, From: portI, To: portO, Comb: 0.3})
		ga.AddDelayRule(arch.DelayRule{CellType: ff, From: portClk, To: portQ, Clock: clockFlag, ClockToQ: 0.5})
		ga.AddDelayRule(arch.DelayRule{CellType: ff, From: portClk, To: portD, Clock: clockFlag, Setup: 0.2})
		ga.AddPinStyle(ff, portClk, arch.PinStyle{GlobalClock: true})

		gen := nl.CreateCell("clkgen", "CLKGEN")
		nl.AddPort(gen, "O", device.DirOut)

		l := nl.CreateCell("l", "LUT4")
		nl.AddPort(l, "I", device.DirIn)
		nl.AddPort(l, "O", device.DirOut)

		f := nl.CreateCell("f", "FF")
		nl.AddPort(f, "D", device.DirIn)
		nl.AddPort(f, "Q", device.DirOut)
		nl.AddPort(f, "CLK", device.DirIn)

		clk0 := nl.CreateNet("clk0")
		gomega.Expect(nl.ConnectDriver(clk0, gen, pool.Intern("O"))).To(gomega.Succeed())
		nl.ConnectUser(clk0, f, portClk)

		n1 := nl.CreateNet("n1")
		gomega.Expect(nl.ConnectDriver(n1, l, portO)).To(gomega.Succeed())
		nl.ConnectUser(n1, f, portD)

		// Bels are optional for timing analysis; this design deliberately
		// leaves cells unbound to exercise the zero-routing-delay path.
		an := timing.NewAnalyzer(nl, graph, ga, pool)
		result, err := an.Run(timing.Config{})
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		gomega.Expect(result.Domains).To(gomega.HaveLen(1))
		gomega.Expect(result.Domains[0].ClockEvent).To(gomega.Equal("posedge clk0"))
		gomega.Expect(result.Domains[0].AchievedPeriod).To(gomega.BeNumerically("~", 0.5, 1e-9))

		gomega.Expect(result.CriticalPaths).To(gomega.HaveLen(1))
		path := result.CriticalPaths[0]
		gomega.Expect(path.From).To(gomega.Equal("<async>"))
		gomega.Expect(path.To).To(gomega.Equal("posedge clk0"))
		gomega.Expect(path.TotalDelay()).To(gomega.BeNumerically("~", 0.5, 1e-9))
	})

	ginkgo.It("reports <async> for an unclocked combinational path", func() {
		pool := idstring.NewPool()
		db := device.NewBuilder(pool)
		graph := db.Build()
		nl := netlist.New(pool)
		tbl := bind.NewTables(graph, nl)
		ga := arch.NewGridArch(graph, tbl, 0.1)

		an := timing.NewAnalyzer(nl, graph, ga, pool)
		result, err := an.Run(timing.Config{})
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(result.Domains).To(gomega.BeEmpty())
	})
})
