package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/sarchlab/fabricpnr/config"
)

func TestConfig(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Config Suite")
}

var _ = ginkgo.Describe("NewRunConfig", func() {
	ginkgo.It("returns the documented defaults", func() {
		c := config.NewRunConfig()
		gomega.Expect(c.Seed).To(gomega.Equal(uint64(1)))
		gomega.Expect(c.Router.MaxIterations).To(gomega.Equal(100))
		gomega.Expect(c.Router.PressureGrowth).To(gomega.Equal(1.3))
		gomega.Expect(c.Pack.FuseLUTFF).To(gomega.BeTrue())
	})
})

var _ = ginkgo.Describe("RunConfig fluent builders", func() {
	ginkgo.It("chains With* calls without mutating the receiver", func() {
		base := config.NewRunConfig()
		tuned := base.WithSeed(42).WithMaxIterations(5).WithFuseLUTFF(false)

		gomega.Expect(base.Seed).To(gomega.Equal(uint64(1)))
		gomega.Expect(tuned.Seed).To(gomega.Equal(uint64(42)))
		gomega.Expect(tuned.Router.MaxIterations).To(gomega.Equal(5))
		gomega.Expect(tuned.Pack.FuseLUTFF).To(gomega.BeFalse())
	})
})

var _ = ginkgo.Describe("ResolveFabRoot", func() {
	ginkgo.It("prefers the explicit override over the environment", func() {
		os.Setenv(config.FabRootEnv, "/env/path")
		defer os.Unsetenv(config.FabRootEnv)

		c := config.NewRunConfig().WithFabRoot("/explicit/path")
		gomega.Expect(c.ResolveFabRoot()).To(gomega.Equal("/explicit/path"))
	})

	ginkgo.It("falls back to the environment variable when unset", func() {
		os.Setenv(config.FabRootEnv, "/env/path")
		defer os.Unsetenv(config.FabRootEnv)

		c := config.NewRunConfig()
		gomega.Expect(c.ResolveFabRoot()).To(gomega.Equal("/env/path"))
	})
})

var _ = ginkgo.Describe("LoadFile", func() {
	ginkgo.It("overlays only the fields present in the YAML file on top of base", func() {
		dir, err := os.MkdirTemp("", "pnr-config-test")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		defer os.RemoveAll(dir)

		path := filepath.Join(dir, "run.yaml")
		yamlBody := "seed: 7\nmax_iterations: 20\nfab_root: /fab\n"
		gomega.Expect(os.WriteFile(path, []byte(yamlBody), 0o644)).To(gomega.Succeed())

		base := config.NewRunConfig()
		out, err := config.LoadFile(path, base)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		gomega.Expect(out.Seed).To(gomega.Equal(uint64(7)))
		gomega.Expect(out.Router.MaxIterations).To(gomega.Equal(20))
		gomega.Expect(out.FabRoot).To(gomega.Equal("/fab"))
		// Untouched fields retain base's defaults.
		gomega.Expect(out.Router.PressureGrowth).To(gomega.Equal(base.Router.PressureGrowth))
	})

	ginkgo.It("returns an error for a nonexistent file", func() {
		_, err := config.LoadFile("/nonexistent/run.yaml", config.NewRunConfig())
		gomega.Expect(err).To(gomega.HaveOccurred())
	})
})
