package constraint_test

import (
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/sarchlab/fabricpnr/constraint"
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

func TestConstraint(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Constraint Suite")
}

func newTestNetlist() (*netlist.Netlist, *idstring.Pool) {
	pool := idstring.NewPool()
	nl := netlist.New(pool)

	lut := nl.CreateCell("clk_in", "LUTCOMB")
	nl.AddPort(lut, "Z", device.DirOut)
	n := nl.CreateNet("clk_net")
	_ = nl.ConnectDriver(n, lut, pool.Intern("Z"))

	io := nl.CreateCell("data_out", "OBUF_PLACEHOLDER")
	nl.AddPort(io, "I", device.DirIn)

	return nl, pool
}

var _ = ginkgo.Describe("ParseXDC", func() {
	ginkgo.It("sets a LOC attribute from set_property", func() {
		nl, pool := newTestNetlist()
		lines := []string{`set_property LOC "A1" [get_ports data_out]`}

		res, err := constraint.ParseXDC("t.xdc", lines, nl)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(res.Warnings).To(gomega.BeEmpty())

		id, ok := nl.CellByName(pool.Intern("data_out"))
		gomega.Expect(ok).To(gomega.BeTrue())
		c := nl.MustCell(id)
		loc, ok := c.Attrs[pool.Intern("LOC")]
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(loc.AsString()).To(gomega.Equal("A1"))
	})

	ginkgo.It("resolves create_clock to the driven net and records a ClockConstraint", func() {
		nl, pool := newTestNetlist()
		lines := []string{`create_clock -period 10.0 -name sys_clk [get_ports clk_in]`}

		res, err := constraint.ParseXDC("t.xdc", lines, nl)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(res.Clocks).To(gomega.HaveLen(1))
		gomega.Expect(res.Clocks[0].PeriodNs).To(gomega.Equal(10.0))
		gomega.Expect(res.Clocks[0].AchievedOK).To(gomega.BeTrue())

		n := nl.MustNet(res.Clocks[0].Net)
		period, ok := n.Attrs[pool.Intern("CLOCK_PERIOD_NS")]
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(period.AsString()).To(gomega.Equal("10.0"))
	})

	ginkgo.It("applies a -dict property list to every named object", func() {
		nl, pool := newTestNetlist()
		lines := []string{`set_property -dict "IOSTANDARD LVCMOS33 DRIVE 12" [get_ports data_out]`}

		_, err := constraint.ParseXDC("t.xdc", lines, nl)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		id, _ := nl.CellByName(pool.Intern("data_out"))
		c := nl.MustCell(id)
		gomega.Expect(c.Attrs[pool.Intern("IOSTANDARD")].AsString()).To(gomega.Equal("LVCMOS33"))
		gomega.Expect(c.Attrs[pool.Intern("DRIVE")].AsString()).To(gomega.Equal("12"))
	})

	ginkgo.It("rejects a malformed create_clock with a file/line error", func() {
		nl, _ := newTestNetlist()
		lines := []string{`create_clock -period notanumber [get_ports clk_in]`}

		_, err := constraint.ParseXDC("bad.xdc", lines, nl)
		gomega.Expect(err).To(gomega.HaveOccurred())
		gomega.Expect(err.Error()).To(gomega.ContainSubstring("bad.xdc:1"))
	})

	ginkgo.It("warns but does not fail on an unrecognized command", func() {
		nl, _ := newTestNetlist()
		lines := []string{`frobnicate_the_design now`}

		res, err := constraint.ParseXDC("t.xdc", lines, nl)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(res.Warnings).To(gomega.HaveLen(1))
	})
})

var _ = ginkgo.Describe("ParseQSF", func() {
	ginkgo.It("sets LOC from set_location_assignment and a named attribute from set_instance_assignment", func() {
		nl, pool := newTestNetlist()
		lines := []string{
			`set_location_assignment PIN_A3 -to data_out`,
			`set_instance_assignment -name IO_STANDARD "3.3-V LVTTL" -to data_out`,
		}

		_, err := constraint.ParseQSF("t.qsf", lines, nl)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		id, _ := nl.CellByName(pool.Intern("data_out"))
		c := nl.MustCell(id)
		gomega.Expect(c.Attrs[pool.Intern("LOC")].AsString()).To(gomega.Equal("PIN_A3"))
		gomega.Expect(c.Attrs[pool.Intern("IO_STANDARD")].AsString()).To(gomega.Equal("3.3-V LVTTL"))
	})

	ginkgo.It("returns a global assignment with no cell/net target", func() {
		nl, _ := newTestNetlist()
		lines := []string{`set_global_assignment -name FAMILY "Cyclone V"`}

		res, err := constraint.ParseQSF("t.qsf", lines, nl)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(res.Globals).To(gomega.Equal([]constraint.GlobalAssignment{
			{Name: "FAMILY", Value: "Cyclone V"},
		}))
	})
})

var _ = ginkgo.Describe("ParsePDC", func() {
	ginkgo.It("sets LOC from ldc_set_location and multiple attrs from ldc_set_port", func() {
		nl, pool := newTestNetlist()
		lines := []string{
			`ldc_set_location -site {B4} data_out`,
			`ldc_set_port -iobuf {IO_TYPE=LVCMOS33 PULLMODE=UP} data_out`,
		}

		_, err := constraint.ParsePDC("t.pdc", lines, nl)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		id, _ := nl.CellByName(pool.Intern("data_out"))
		c := nl.MustCell(id)
		gomega.Expect(c.Attrs[pool.Intern("LOC")].AsString()).To(gomega.Equal("B4"))
		gomega.Expect(c.Attrs[pool.Intern("IO_TYPE")].AsString()).To(gomega.Equal("LVCMOS33"))
		gomega.Expect(c.Attrs[pool.Intern("PULLMODE")].AsString()).To(gomega.Equal("UP"))
	})
})

var _ = ginkgo.Describe("ParsePCF", func() {
	ginkgo.It("sets BEL from set_io", func() {
		nl, pool := newTestNetlist()
		lines := []string{`set_io data_out 23`}

		_, err := constraint.ParsePCF("t.pcf", lines, nl)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		id, _ := nl.CellByName(pool.Intern("data_out"))
		gomega.Expect(nl.MustCell(id).Attrs[pool.Intern("BEL")].AsString()).To(gomega.Equal("23"))
	})

	ginkgo.It("converts set_frequency MHz into a nanosecond ClockConstraint", func() {
		nl, _ := newTestNetlist()
		lines := []string{`set_frequency clk_in 100`}

		res, err := constraint.ParsePCF("t.pcf", lines, nl)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(res.Clocks).To(gomega.HaveLen(1))
		gomega.Expect(res.Clocks[0].PeriodNs).To(gomega.BeNumerically("~", 10.0, 1e-9))
	})

	ginkgo.It("parses set_pseudo_plug's colon-delimited timing fields", func() {
		nl, _ := newTestNetlist()
		lines := []string{`set_pseudo_plug --port A:WIRE0 --timing IN:OUT:0.1:0.5`}

		res, err := constraint.ParsePCF("t.pcf", lines, nl)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(res.PseudoPlugs).To(gomega.Equal([]constraint.PseudoPlug{
			{Port: "A", Wire: "WIRE0", TimingIn: "IN", TimingOut: "OUT", TimingMinNs: 0.1, TimingMaxNs: 0.5},
		}))
	})

	ginkgo.It("compiles prohibit_pip/wire/bel regex rules", func() {
		nl, _ := newTestNetlist()
		lines := []string{
			`prohibit_pip ^GLB.*`,
			`prohibit_wire ^TEST.*`,
			`prohibit_bel ^DSP.*`,
		}

		res, err := constraint.ParsePCF("t.pcf", lines, nl)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(res.Prohibits).To(gomega.HaveLen(3))
		gomega.Expect(res.Prohibits[0].Kind).To(gomega.Equal(constraint.ProhibitPip))
		gomega.Expect(res.Prohibits[0].Pattern.MatchString("GLB_BUF0")).To(gomega.BeTrue())
	})

	ginkgo.It("rejects a malformed set_frequency value with a file/line error", func() {
		nl, _ := newTestNetlist()
		lines := []string{`set_frequency clk_in zero`}

		_, err := constraint.ParsePCF("bad.pcf", lines, nl)
		gomega.Expect(err).To(gomega.HaveOccurred())
		gomega.Expect(err.Error()).To(gomega.ContainSubstring("bad.pcf:1"))
	})
})
