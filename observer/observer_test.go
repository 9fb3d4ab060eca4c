package observer_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/sarchlab/fabricpnr/bind"
	"github.com/sarchlab/fabricpnr/ctx"
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
	"github.com/sarchlab/fabricpnr/observer"
)

func TestObserver(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Observer Suite")
}

var _ = ginkgo.Describe("Server", func() {
	ginkgo.It("reports every bound cell and routed net, sorted by name", func() {
		pool := idstring.NewPool()
		b := device.NewBuilder(pool)
		w0 := b.AddWire("W0", "G", 0, 0)
		bel := b.AddBel("BEL0", "LUTCOMB", 2, 3, 0, "LOGIC")
		b.AddBelPin(bel, "Z", device.DirOut, w0)
		graph := b.Build()

		nl := netlist.New(pool)
		tbl := bind.NewTables(graph, nl)

		cell := nl.CreateCell("lut0", "LUTCOMB")
		nl.AddPort(cell, "Z", device.DirOut)
		tbl.BindBel(bel, cell, netlist.StrengthFixed)

		net := nl.CreateNet("n0")
		_ = nl.ConnectDriver(net, cell, pool.Intern("Z"))
		tbl.BindWire(w0, net, device.NoPip, netlist.StrengthWeak)

		c := &ctx.Context{Pool: pool, Graph: graph, NL: nl, Tbl: tbl}
		srv := observer.New(c)

		req := httptest.NewRequest(http.MethodGet, "/snapshot", nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

		var snap observer.Snapshot
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &snap)).To(gomega.Succeed())

		gomega.Expect(snap.Cells).To(gomega.Equal([]observer.CellBinding{
			{Cell: "lut0", Bel: "BEL0", X: 2, Y: 3, Z: 0},
		}))
		gomega.Expect(snap.Nets).To(gomega.Equal([]observer.NetBinding{
			{Net: "n0", Wires: 1},
		}))
	})

	ginkgo.It("omits unbound cells and unrouted nets", func() {
		pool := idstring.NewPool()
		builder := device.NewBuilder(pool)
		graph := builder.Build()
		nl := netlist.New(pool)
		tbl := bind.NewTables(graph, nl)

		nl.CreateCell("loose", "LUTCOMB")
		nl.CreateNet("unrouted")

		c := &ctx.Context{Pool: pool, Graph: graph, NL: nl, Tbl: tbl}
		srv := observer.New(c)

		req := httptest.NewRequest(http.MethodGet, "/snapshot", nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		var snap observer.Snapshot
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &snap)).To(gomega.Succeed())
		gomega.Expect(snap.Cells).To(gomega.BeEmpty())
		gomega.Expect(snap.Nets).To(gomega.BeEmpty())
	})
})
