package device_test

import (
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
)

func TestDevice(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Device Graph Suite")
}

// buildTinyGraph makes one bel with an output pin, one bel with an input
// pin, one wire per pin, and one pip connecting them.
func buildTinyGraph() (*device.Graph, device.BelID, device.BelID, device.PipID) {
	pool := idstring.NewPool()
	b := device.NewBuilder(pool)

	srcWire := b.AddWire("W0", "GENERAL", 0, 0)
	dstWire := b.AddWire("W1", "GENERAL", 1, 0)

	srcBel := b.AddBel("BEL_LUT", "LUT4", 0, 0, 0, "LOGIC")
	b.AddBelPin(srcBel, "Z", device.DirOut, srcWire)

	dstBel := b.AddBel("BEL_FF", "FD1P3DX", 1, 0, 0, "LOGIC")
	b.AddBelPin(dstBel, "D", device.DirIn, dstWire)

	pip := b.AddPip("P0", "GENERAL", srcWire, dstWire, 0, 0, 0.1, device.CategoryGeneral)

	return b.Build(), srcBel, dstBel, pip
}

var _ = ginkgo.Describe("Graph", func() {
	ginkgo.It("keeps wire incidence and pip endpoints consistent", func() {
		g, _, _, pip := buildTinyGraph()

		gomega.Expect(g.PipsDownhill(g.Pips[pip].Src)).To(gomega.ContainElement(pip))
		gomega.Expect(g.PipsUphill(g.Pips[pip].Dst)).To(gomega.ContainElement(pip))
	})

	ginkgo.It("resolves bel pins to the right wire", func() {
		g, srcBel, _, _ := buildTinyGraph()
		gomega.Expect(g.BelPinWire(srcBel, 0)).To(gomega.Equal(g.Pips[0].Src))
	})

	ginkgo.It("looks bels/wires/pips up by interned name", func() {
		pool := idstring.NewPool()
		b := device.NewBuilder(pool)
		w := b.AddWire("CLK_WIRE", "CLOCK", 0, 0)
		g := b.Build()

		found, ok := g.WireByName(pool.Intern("CLK_WIRE"))
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(found).To(gomega.Equal(w))
	})
	ginkgo.It("marks hidden bels so they can be excluded from utilization", func() {
		pool := idstring.NewPool()
		b := device.NewBuilder(pool)
		bel := b.AddBel("PAD", "IOPAD", 0, 0, 0, "IO")
		b.SetBelHidden(bel, true)
		g := b.Build()

		gomega.Expect(g.Bels[bel].Hidden).To(gomega.BeTrue())
	})
})
