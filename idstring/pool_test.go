package idstring_test

import (
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/sarchlab/fabricpnr/idstring"
)

func TestIdstring(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "IdString Pool Suite")
}

var _ = ginkgo.Describe("Pool", func() {
	var pool *idstring.Pool

	ginkgo.BeforeEach(func() {
		pool = idstring.NewPool()
	})

	ginkgo.It("reserves handle 0 for the empty string", func() {
		gomega.Expect(pool.Intern("")).To(gomega.Equal(idstring.Empty))
		gomega.Expect(pool.String(idstring.Empty)).To(gomega.Equal(""))
	})

	ginkgo.It("is idempotent on repeated interning", func() {
		a := pool.Intern("id_CLK")
		b := pool.Intern("id_CLK")
		gomega.Expect(a).To(gomega.Equal(b))
		gomega.Expect(pool.Intern(pool.String(a))).To(gomega.Equal(a))
	})

	ginkgo.It("mints distinct handles for distinct strings", func() {
		a := pool.Intern("A")
		b := pool.Intern("B")
		gomega.Expect(a).NotTo(gomega.Equal(b))
	})

	ginkgo.It("round-trips through String", func() {
		id := pool.Intern("LUT4")
		gomega.Expect(pool.String(id)).To(gomega.Equal("LUT4"))
	})

	ginkgo.It("reports Lookup without minting", func() {
		_, ok := pool.Lookup("never-interned")
		gomega.Expect(ok).To(gomega.BeFalse())

		id := pool.Intern("FD1P3DX")
		found, ok := pool.Lookup("FD1P3DX")
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(found).To(gomega.Equal(id))
	})

	ginkgo.It("shares a constid prefix across calls", func() {
		ids1 := pool.InternConstIDs()
		ids2 := pool.InternConstIDs()
		gomega.Expect(ids1).To(gomega.Equal(ids2))
		gomega.Expect(pool.String(ids1.CLK)).To(gomega.Equal("CLK"))
	})

	ginkgo.Describe("List", func() {
		ginkgo.It("compares lexicographically on handles, not strings", func() {
			a := idstring.List{pool.Intern("top"), pool.Intern("leaf")}
			b := idstring.List{pool.Intern("top"), pool.Intern("leaf")}
			gomega.Expect(a.Equal(b)).To(gomega.BeTrue())
		})

		ginkgo.It("joins through the pool", func() {
			l := idstring.List{pool.Intern("top"), pool.Intern("sub"), pool.Intern("leaf")}
			gomega.Expect(l.String(pool, "/")).To(gomega.Equal("top/sub/leaf"))
		})
	})
})
