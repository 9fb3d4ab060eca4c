package netlist_test

import (
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

func TestNetlist(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Netlist Suite")
}

var _ = ginkgo.Describe("Netlist", func() {
	var (
		pool *idstring.Pool
		nl   *netlist.Netlist
	)

	ginkgo.BeforeEach(func() {
		pool = idstring.NewPool()
		nl = netlist.New(pool)
	})

	ginkgo.It("creates and connects cells through a net", func() {
		lut := nl.CreateCell("L", "LUT4")
		ff := nl.CreateCell("F", "FD1P3DX")
		nl.AddPort(lut, "Z", device.DirOut)
		nl.AddPort(ff, "D", device.DirIn)

		n := nl.CreateNet("n1")
		gomega.Expect(nl.ConnectDriver(n, lut, pool.Intern("Z"))).To(gomega.Succeed())
		idx := nl.ConnectUser(n, ff, pool.Intern("D"))
		gomega.Expect(idx).To(gomega.Equal(0))

		gomega.Expect(nl.MustNet(n).FanOut()).To(gomega.Equal(1))
		gomega.Expect(nl.MustNet(n).Driver.Cell).To(gomega.Equal(lut))
	})

	ginkgo.It("rejects a second driver as a user error", func() {
		a := nl.CreateCell("A", "LUT4")
		b := nl.CreateCell("B", "LUT4")
		nl.AddPort(a, "Z", device.DirOut)
		nl.AddPort(b, "Z", device.DirOut)

		n := nl.CreateNet("n1")
		gomega.Expect(nl.ConnectDriver(n, a, pool.Intern("Z"))).To(gomega.Succeed())
		err := nl.ConnectDriver(n, b, pool.Intern("Z"))
		gomega.Expect(err).To(gomega.HaveOccurred())
	})

	ginkgo.It("keeps UserIndex stable across tombstoning and compaction", func() {
		lut := nl.CreateCell("L", "LUT4")
		nl.AddPort(lut, "Z", device.DirOut)
		n := nl.CreateNet("n1")
		_ = nl.ConnectDriver(n, lut, pool.Intern("Z"))

		var users []netlist.CellID
		for i := 0; i < 3; i++ {
			ff := nl.CreateCell(string(rune('A'+i)), "FD1P3DX")
			nl.AddPort(ff, "D", device.DirIn)
			nl.ConnectUser(n, ff, pool.Intern("D"))
			users = append(users, ff)
		}

		// Disconnect the middle user; its slot tombstones but the others'
		// UserIndex values must not shift until Compact runs.
		nl.Disconnect(users[1], pool.Intern("D"))
		gomega.Expect(nl.MustNet(n).FanOut()).To(gomega.Equal(2))

		thirdPort := nl.MustCell(users[2]).Ports[pool.Intern("D")]
		beforeIdx := thirdPort.UserIndex
		gomega.Expect(beforeIdx).To(gomega.Equal(2))

		nl.Compact(n)
		afterIdx := thirdPort.UserIndex
		gomega.Expect(afterIdx).To(gomega.Equal(1))
		gomega.Expect(nl.MustNet(n).FanOut()).To(gomega.Equal(2))
	})

	ginkgo.It("round-trips bit-vector properties through their string form", func() {
		p := netlist.ParseBitsProperty(16, "16'h5555")
		s := p.ToString()
		p2 := netlist.FromString(16, s)
		gomega.Expect(p2.Equal(p)).To(gomega.BeTrue())
	})

	ginkgo.It("extracts bus slices the way the DSP expander needs", func() {
		p := netlist.ParseBitsProperty(32, "32'hFFFF0000")
		lo := p.Extract(0, 16)
		hi := p.Extract(16, 16)
		gomega.Expect(lo.AllZeros()).To(gomega.BeTrue())
		gomega.Expect(hi.AllOnes()).To(gomega.BeTrue())
	})

	ginkgo.It("constrains cells to rectangular regions with a bucket set", func() {
		region := nl.CreateRegion("r0", 0, 0, 3, 3, []string{"LOGIC"})
		r := nl.Region(region)
		gomega.Expect(r.Contains(2, 2)).To(gomega.BeTrue())
		gomega.Expect(r.Contains(4, 4)).To(gomega.BeFalse())
		gomega.Expect(r.AllowsBucket(pool.Intern("LOGIC"))).To(gomega.BeTrue())
		gomega.Expect(r.AllowsBucket(pool.Intern("DSP"))).To(gomega.BeFalse())
	})
})
