package place_test

import (
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
	"github.com/sarchlab/fabricpnr/place"
)

func TestPlace(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Place Suite")
}

var _ = ginkgo.Describe("Checker", func() {
	var (
		pool *idstring.Pool
		nl   *netlist.Netlist
		c    *place.Checker
	)

	ginkgo.BeforeEach(func() {
		pool = idstring.NewPool()
		nl = netlist.New(pool)
		c = place.NewChecker(nl, pool, place.TileLimits{})
	})

	ginkgo.It("accepts an empty tile", func() {
		ts := &place.TileStatus{X: 0, Y: 0, Cells: map[int32]netlist.CellID{}}
		ok, _ := c.Check(ts, nil, false)
		gomega.Expect(ok).To(gomega.BeTrue())
	})

	ginkgo.It("rejects a carry tail with no adjacent carry cell", func() {
		tail := nl.CreateCell("T", "CCU2_TAIL")
		ts := &place.TileStatus{X: 0, Y: 0, Cells: map[int32]netlist.CellID{2: tail}}
		ok, reason := c.Check(ts, nil, true)
		gomega.Expect(ok).To(gomega.BeFalse())
		gomega.Expect(reason).To(gomega.ContainSubstring("carry"))
	})

	ginkgo.It("accepts a carry tail with a head below it", func() {
		head := nl.CreateCell("H", "CCU2_HEAD")
		tail := nl.CreateCell("T", "CCU2_TAIL")
		ts := &place.TileStatus{X: 0, Y: 0, Cells: map[int32]netlist.CellID{0: head, 1: tail}}
		ok, _ := c.Check(ts, nil, false)
		gomega.Expect(ok).To(gomega.BeTrue())
	})

	ginkgo.It("rejects an FF with no data source and no paired LUT", func() {
		ff := nl.CreateCell("F", "FF")
		ts := &place.TileStatus{X: 0, Y: 0, Cells: map[int32]netlist.CellID{1: ff}}
		ok, reason := c.Check(ts, nil, true)
		gomega.Expect(ok).To(gomega.BeFalse())
		gomega.Expect(reason).To(gomega.ContainSubstring("data source"))
	})

	ginkgo.It("accepts an FF fused to its paired LUT via DI", func() {
		lut := nl.CreateCell("L", "LUTCOMB")
		ff := nl.CreateCell("F", "FF")
		nl.AddPort(lut, "F", device.DirOut)
		nl.AddPort(ff, "DI", device.DirIn)
		n := nl.CreateNet("n1")
		gomega.Expect(nl.ConnectDriver(n, lut, pool.Intern("F"))).To(gomega.Succeed())
		nl.ConnectUser(n, ff, pool.Intern("DI"))

		ts := &place.TileStatus{X: 0, Y: 0, Cells: map[int32]netlist.CellID{0: lut, 1: ff}}
		ok, _ := c.Check(ts, nil, false)
		gomega.Expect(ok).To(gomega.BeTrue())
	})

	ginkgo.It("rejects an FF wired both via DI and via a secondary M path", func() {
		lut := nl.CreateCell("L", "LUTCOMB")
		ff := nl.CreateCell("F", "FF")
		nl.AddPort(lut, "F", device.DirOut)
		nl.AddPort(ff, "DI", device.DirIn)
		nl.AddPort(ff, "M", device.DirIn)
		n := nl.CreateNet("n1")
		gomega.Expect(nl.ConnectDriver(n, lut, pool.Intern("F"))).To(gomega.Succeed())
		nl.ConnectUser(n, ff, pool.Intern("DI"))
		n2 := nl.CreateNet("n2")
		other := nl.CreateCell("O", "LUTCOMB")
		nl.AddPort(other, "F", device.DirOut)
		gomega.Expect(nl.ConnectDriver(n2, other, pool.Intern("F"))).To(gomega.Succeed())
		nl.ConnectUser(n2, ff, pool.Intern("M"))

		ts := &place.TileStatus{X: 0, Y: 0, Cells: map[int32]netlist.CellID{0: lut, 1: ff}}
		ok, reason := c.Check(ts, nil, true)
		gomega.Expect(ok).To(gomega.BeFalse())
		gomega.Expect(reason).To(gomega.ContainSubstring("fused and secondary"))
	})
})
