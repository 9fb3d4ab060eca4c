package pack

import (
	"fmt"

	"github.com/sarchlab/fabricpnr/arch"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

// Error is a packer error. Packer errors are always fatal.
type Error struct {
	Stage string
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("pack: %s: %s", e.Stage, e.Msg)
}

// Stage is one named pass of the pipeline.
type Stage struct {
	Name string
	Run  func(nl *netlist.Netlist, pool *idstring.Pool, a arch.Arch) error
}

// Pipeline is the ordered sequence of packer passes.
type Pipeline struct {
	Stages []Stage
}

// NewDefaultPipeline returns the full 15-stage packer pipeline in
// execution order. Stage 14 (LUT+FF fusion) is optional and is gated by
// cfg.FuseLUTFF.
func NewDefaultPipeline(cfg Config) *Pipeline {
	p := &Pipeline{}
	p.Stages = []Stage{
		{"io_preparation", ioPreparation},
		{"io_logic_merge", ioLogicMerge},
		{"dsp_expansion", dspExpansion},
		{"primitive_normalization", primitiveNormalization},
		{"bram_packing", bramPacking},
		{"lutram_split", lutRAMSplit},
		{"carry_chain_expansion", carryChainExpansion},
		{"wide_function_split", wideFunctionSplit},
		{"ff_normalization", ffNormalization},
		{"lut_normalization", lutNormalization},
		{"constant_handling", constantHandling},
		{"global_buffer_promotion", func(nl *netlist.Netlist, pool *idstring.Pool, a arch.Arch) error {
			return globalBufferPromotion(nl, pool, a, cfg.MaxGlobalBuffers)
		}},
		{"global_buffer_placement", globalBufferPlacement},
	}
	if cfg.FuseLUTFF {
		p.Stages = append(p.Stages, Stage{"lut_ff_fusion", func(nl *netlist.Netlist, pool *idstring.Pool, a arch.Arch) error {
			return lutFFFusion(nl, pool, a, cfg.FusionRejectRNG)
		}})
	}
	p.Stages = append(p.Stages, Stage{"derived_clock_constraints", derivedClockConstraints})
	return p
}

// Config tunes optional packer behavior.
type Config struct {
	MaxGlobalBuffers int
	FuseLUTFF        bool
	// FusionRejectRNG, if non-nil, returns true to reject a would-be
	// fusion inside a carry cluster, bounding cluster growth.
	FusionRejectRNG func() bool
}

// Run executes every stage in order, stopping at the first error — packer
// errors are fatal so there is no point continuing past one.
func (p *Pipeline) Run(nl *netlist.Netlist, pool *idstring.Pool, a arch.Arch) error {
	for _, s := range p.Stages {
		if err := s.Run(nl, pool, a); err != nil {
			return fmt.Errorf("pack: stage %q failed: %w", s.Name, err)
		}
	}
	return nil
}
