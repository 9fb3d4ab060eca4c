package report_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/sarchlab/fabricpnr/arch"
	"github.com/sarchlab/fabricpnr/bind"
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
	"github.com/sarchlab/fabricpnr/report"
	"github.com/sarchlab/fabricpnr/timing"
)

func TestReport(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Report Suite")
}

var _ = ginkgo.Describe("Report", func() {
	ginkgo.It("builds the exact top-level key set and omits detailed timings when unrequested", func() {
		pool := idstring.NewPool()
		db := device.NewBuilder(pool)
		db.AddBel("B0", "LUT4", 0, 0, 0, "LOGIC")
		db.AddBel("B1", "LUT4", 1, 0, 0, "LOGIC")
		graph := db.Build()

		nl := netlist.New(pool)
		tbl := bind.NewTables(graph, nl)
		ga := arch.NewGridArch(graph, tbl, 0.1)

		tr := &timing.Result{
			Domains: []timing.DomainResult{
				{Clock: "clk0", ClockEvent: "posedge clk0", AchievedPeriod: 2.0, Constraint: 10.0},
			},
		}

		rpt := report.Build(ga, graph, pool, tr)

		var buf bytes.Buffer
		gomega.Expect(rpt.WriteJSON(&buf)).To(gomega.Succeed())

		var decoded map[string]json.RawMessage
		gomega.Expect(json.Unmarshal(buf.Bytes(), &decoded)).To(gomega.Succeed())
		gomega.Expect(decoded).To(gomega.HaveKey("utilization"))
		gomega.Expect(decoded).To(gomega.HaveKey("fmax"))
		gomega.Expect(decoded).To(gomega.HaveKey("critical_paths"))
		gomega.Expect(decoded).NotTo(gomega.HaveKey("detailed_net_timings"))

		gomega.Expect(rpt.Utilization["LOGIC"].Available).To(gomega.Equal(2))
		gomega.Expect(rpt.Fmax["clk0"].Achieved).To(gomega.BeNumerically("~", 500.0, 1e-9))
	})

	ginkgo.It("includes detailed_net_timings when the analyzer produced any", func() {
		pool := idstring.NewPool()
		db := device.NewBuilder(pool)
		graph := db.Build()
		nl := netlist.New(pool)
		tbl := bind.NewTables(graph, nl)
		ga := arch.NewGridArch(graph, tbl, 0.1)

		tr := &timing.Result{
			NetTimings: []timing.NetTiming{{Net: "n0"}},
		}
		rpt := report.Build(ga, graph, pool, tr)

		var buf bytes.Buffer
		gomega.Expect(rpt.WriteJSON(&buf)).To(gomega.Succeed())
		var decoded map[string]json.RawMessage
		gomega.Expect(json.Unmarshal(buf.Bytes(), &decoded)).To(gomega.Succeed())
		gomega.Expect(decoded).To(gomega.HaveKey("detailed_net_timings"))
	})
})
