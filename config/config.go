// Package config holds the run-time configuration for one pack/place/route
// invocation: the RNG seed, router iteration tuning, the optional
// FAB_ROOT fabric-data override, and an optional history-cost database
// path. RunConfig is a value type with With* setters returning a
// modified copy, so a base config can be forked per run.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/fabricpnr/pack"
	"github.com/sarchlab/fabricpnr/route"
)

// FabRootEnv is the environment variable the fabric loader consults to
// locate device data.
const FabRootEnv = "FAB_ROOT"

// RunConfig is the full set of tunables for one run. Zero value is not
// meaningful; use NewRunConfig for sensible defaults.
type RunConfig struct {
	Seed uint64

	Router route.Config
	Pack   pack.Config

	// FabRoot overrides the FAB_ROOT environment variable; empty means
	// "consult the environment".
	FabRoot string

	// HistoryDBPath, if non-empty, enables the router's optional
	// per-iteration history-cost snapshot sink (see route/historydb).
	HistoryDBPath string
}

// NewRunConfig returns a RunConfig with the defaults used when no
// run-config file is supplied.
func NewRunConfig() RunConfig {
	return RunConfig{
		Seed:   1,
		Router: route.DefaultConfig(),
		Pack: pack.Config{
			MaxGlobalBuffers: 16,
			FuseLUTFF:        true,
		},
	}
}

// WithSeed sets the RNG seed.
func (c RunConfig) WithSeed(seed uint64) RunConfig {
	c.Seed = seed
	return c
}

// WithMaxIterations sets the router's iteration cap.
func (c RunConfig) WithMaxIterations(n int) RunConfig {
	c.Router.MaxIterations = n
	return c
}

// WithPressureGrowth sets the router's per-iteration pressure multiplier.
func (c RunConfig) WithPressureGrowth(g float64) RunConfig {
	c.Router.PressureGrowth = g
	return c
}

// WithHistoryFactor sets the router's congestion history multiplier.
func (c RunConfig) WithHistoryFactor(f float64) RunConfig {
	c.Router.HistoryFactor = f
	return c
}

// WithFabRoot overrides the FAB_ROOT lookup.
func (c RunConfig) WithFabRoot(path string) RunConfig {
	c.FabRoot = path
	return c
}

// WithHistoryDB enables the router's optional history-cost snapshot sink.
func (c RunConfig) WithHistoryDB(path string) RunConfig {
	c.HistoryDBPath = path
	return c
}

// WithFuseLUTFF toggles the packer's optional LUT+FF fusion pass.
func (c RunConfig) WithFuseLUTFF(on bool) RunConfig {
	c.Pack.FuseLUTFF = on
	return c
}

// ResolveFabRoot returns the FabRoot override if set, else the FAB_ROOT
// environment variable, else "".
func (c RunConfig) ResolveFabRoot() string {
	if c.FabRoot != "" {
		return c.FabRoot
	}
	return os.Getenv(FabRootEnv)
}

// fileConfig is the YAML-on-disk shape for a run-config file: a flat
// subset of RunConfig's fields the user may want to override without
// writing Go.
type fileConfig struct {
	Seed             uint64  `yaml:"seed"`
	MaxIterations    int     `yaml:"max_iterations"`
	PressureFactor   float64 `yaml:"pressure_factor"`
	PressureGrowth   float64 `yaml:"pressure_growth"`
	HistoryFactor    float64 `yaml:"history_factor"`
	MaxGlobalHops    int     `yaml:"max_global_hops"`
	MaxGlobalBuffers int     `yaml:"max_global_buffers"`
	FuseLUTFF        *bool   `yaml:"fuse_lut_ff"`
	FabRoot          string  `yaml:"fab_root"`
	HistoryDBPath    string  `yaml:"history_db"`
}

// LoadFile reads a YAML run-config file and applies its fields on top of
// base, leaving any field absent from the file untouched.
func LoadFile(path string, base RunConfig) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return base, err
	}

	out := base
	if fc.Seed != 0 {
		out.Seed = fc.Seed
	}
	if fc.MaxIterations != 0 {
		out.Router.MaxIterations = fc.MaxIterations
	}
	if fc.PressureFactor != 0 {
		out.Router.PressureFactor = fc.PressureFactor
	}
	if fc.PressureGrowth != 0 {
		out.Router.PressureGrowth = fc.PressureGrowth
	}
	if fc.HistoryFactor != 0 {
		out.Router.HistoryFactor = fc.HistoryFactor
	}
	if fc.MaxGlobalHops != 0 {
		out.Router.MaxGlobalHops = fc.MaxGlobalHops
	}
	if fc.MaxGlobalBuffers != 0 {
		out.Pack.MaxGlobalBuffers = fc.MaxGlobalBuffers
	}
	if fc.FuseLUTFF != nil {
		out.Pack.FuseLUTFF = *fc.FuseLUTFF
	}
	if fc.FabRoot != "" {
		out.FabRoot = fc.FabRoot
	}
	if fc.HistoryDBPath != "" {
		out.HistoryDBPath = fc.HistoryDBPath
	}

	return out, nil
}
