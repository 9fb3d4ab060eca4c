package rng_test

import (
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/sarchlab/fabricpnr/rng"
)

func TestRng(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "RNG Suite")
}

var _ = ginkgo.Describe("RNG", func() {
	ginkgo.It("is deterministic given the same seed", func() {
		a := rng.New(42)
		b := rng.New(42)

		for i := 0; i < 100; i++ {
			gomega.Expect(a.NextU64()).To(gomega.Equal(b.NextU64()))
		}
	})

	ginkgo.It("diverges on different seeds", func() {
		a := rng.New(1)
		b := rng.New(2)
		gomega.Expect(a.NextU64()).NotTo(gomega.Equal(b.NextU64()))
	})

	ginkgo.It("always returns 0 from NextBounded(1)", func() {
		r := rng.New(7)
		for i := 0; i < 10; i++ {
			gomega.Expect(r.NextBounded(1)).To(gomega.Equal(uint64(0)))
		}
	})

	ginkgo.It("never exceeds the bound", func() {
		r := rng.New(99)
		for i := 0; i < 1000; i++ {
			v := r.NextBounded(7)
			gomega.Expect(v).To(gomega.BeNumerically("<", 7))
		}
	})

	ginkgo.It("no-ops Shuffle on length 0 or 1", func() {
		r := rng.New(1)
		empty := []int{}
		rng.Shuffle(r, empty)
		gomega.Expect(empty).To(gomega.BeEmpty())

		one := []int{5}
		rng.Shuffle(r, one)
		gomega.Expect(one).To(gomega.Equal([]int{5}))
	})

	ginkgo.It("shuffles deterministically given the same seed", func() {
		a := make([]int, 20)
		b := make([]int, 20)
		for i := range a {
			a[i] = i
			b[i] = i
		}

		rng.Shuffle(rng.New(123), a)
		rng.Shuffle(rng.New(123), b)

		gomega.Expect(a).To(gomega.Equal(b))
	})

	ginkgo.It("remaps a zero seed to a non-degenerate state", func() {
		r := rng.New(0)
		v := r.NextU64()
		gomega.Expect(v).NotTo(gomega.BeZero())
	})
})
