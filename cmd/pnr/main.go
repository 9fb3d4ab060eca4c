// Command pnr is a minimal reference driver over the core library: it
// builds a tiny demo device and netlist, applies optional XDC/PCF
// constraint files, runs the packer, routes every net, analyzes timing,
// and emits the JSON report plus a console summary.
//
// The placement search algorithm itself lives outside the core, and this
// driver reads no netlist file: the demo design it builds is already bound
// to its bels.
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/fabricpnr/arch"
	"github.com/sarchlab/fabricpnr/bind"
	"github.com/sarchlab/fabricpnr/config"
	"github.com/sarchlab/fabricpnr/constraint"
	"github.com/sarchlab/fabricpnr/ctx"
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
	"github.com/sarchlab/fabricpnr/observer"
	"github.com/sarchlab/fabricpnr/pack"
	"github.com/sarchlab/fabricpnr/place"
	"github.com/sarchlab/fabricpnr/report"
	"github.com/sarchlab/fabricpnr/rng"
	"github.com/sarchlab/fabricpnr/route"
	"github.com/sarchlab/fabricpnr/timing"
)

func main() {
	cfgPath := flag.String("config", "", "run-config YAML file")
	xdcPath := flag.String("xdc", "", "XDC constraint file")
	pcfPath := flag.String("pcf", "", "PCF constraint file")
	reportPath := flag.String("report", "", "write the JSON report here instead of stdout")
	serve := flag.String("serve", "", "if set, serve the UI-observer snapshot endpoint on this address (e.g. :8080) after routing")
	flag.Parse()

	run := config.NewRunConfig()
	if *cfgPath != "" {
		var err error
		run, err = config.LoadFile(*cfgPath, run)
		if err != nil {
			fatal("config", err)
		}
	}

	atexit.Register(func() { slog.Debug("pnr: exiting") })

	pool := idstring.NewPool()
	graph, a, nl := buildDemoDesign(pool, run.ResolveFabRoot())

	if *xdcPath != "" {
		applyConstraintFile(*xdcPath, nl, constraint.ParseXDC)
	}
	if *pcfPath != "" {
		applyConstraintFile(*pcfPath, nl, constraint.ParsePCF)
	}

	if err := pack.NewDefaultPipeline(run.Pack).Run(nl, pool, a); err != nil {
		fatal("pack", err)
	}

	tbl := a.(*arch.GridArch).Tbl
	c := &ctx.Context{Pool: pool, RNG: rng.New(run.Seed), Graph: graph, NL: nl, Tbl: tbl}

	r := route.NewRouter(graph, tbl, nl, a, c.RNG, run.Router)
	if run.HistoryDBPath != "" {
		db, err := route.OpenHistoryDB(run.HistoryDBPath)
		if err != nil {
			fatal("route", err)
		}
		defer db.Close()
		r.Sink = db
	}
	if err := r.RouteAll(); err != nil {
		fatal("route", err)
	}

	an := timing.NewAnalyzer(nl, graph, a, pool)
	tr, err := an.Run(timing.Config{})
	if err != nil {
		fatal("timing", err)
	}

	rep := report.Build(a, graph, pool, tr)
	writeReport(rep, *reportPath)

	if *serve != "" {
		srv := observer.New(c)
		slog.Info("pnr: serving observer snapshot", "addr", *serve)
		if err := http.ListenAndServe(*serve, srv.Handler()); err != nil {
			fatal("observer", err)
		}
	}
}

func fatal(stage string, err error) {
	slog.Error("pnr: fatal error", "stage", stage, "error", err)
	atexit.Exit(1)
}

func applyConstraintFile(path string, nl *netlist.Netlist, parse func(file string, lines []string, nl *netlist.Netlist) (*constraint.Result, error)) {
	data, err := os.ReadFile(path)
	if err != nil {
		fatal("constraint", err)
	}
	res, err := parse(path, splitLines(string(data)), nl)
	if err != nil {
		fatal("constraint", err)
	}
	for _, w := range res.Warnings {
		slog.Warn(w)
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func writeReport(rep *report.Report, path string) {
	var w *os.File
	if path == "" {
		w = os.Stdout
	} else {
		f, err := os.Create(path)
		if err != nil {
			fatal("report", err)
		}
		defer f.Close()
		w = f
	}

	if err := rep.WriteJSON(w); err != nil {
		fatal("report", err)
	}

	rep.WriteSummary(os.Stderr)
}

// buildDemoDesign constructs a tiny single-tile fabric (one LUT bel and one
// FF bel connected by one pip) and a pre-packed, pre-placed design bound to it.
// fabRoot is logged but otherwise unused until a per-family fabric
// loader is wired in.
func buildDemoDesign(pool *idstring.Pool, fabRoot string) (*device.Graph, arch.Arch, *netlist.Netlist) {
	if fabRoot != "" {
		slog.Info("pnr: FAB_ROOT set but no per-family loader is wired", "fab_root", fabRoot)
	}

	b := device.NewBuilder(pool)
	wA := b.AddWire("X0Y0.LUT_OUT", "LOGIC", 0, 0)
	wB := b.AddWire("X0Y0.FF_IN", "LOGIC", 0, 0)

	belLUT := b.AddBel("X0Y0.LUT0", "LUTCOMB", 0, 0, 0, "LOGIC")
	b.AddBelPin(belLUT, "Z", device.DirOut, wA)

	belFF := b.AddBel("X0Y0.FF0", "FF", 0, 0, 1, "LOGIC")
	b.AddBelPin(belFF, "M", device.DirIn, wB)

	b.AddPip("X0Y0.LUT_OUT_TO_FF_IN", "LOCAL", wA, wB, 0, 0, 0.05, device.CategoryGeneral)

	graph := b.Build()

	nl := netlist.New(pool)
	tbl := bind.NewTables(graph, nl)
	ga := arch.NewGridArch(graph, tbl, 0.1)
	ga.AddDelayRule(arch.DelayRule{
		CellType: pool.Intern("LUTCOMB"),
		From:     pool.Intern("A"), To: pool.Intern("Z"),
		Comb: 0.3,
	})
	ga.AddDelayRule(arch.DelayRule{
		CellType: pool.Intern("FF"),
		From:     pool.Intern("CLK"), To: pool.Intern("M"),
		Clock: pool.Intern("CLK"), Setup: 0.1, Hold: 0.05, ClockToQ: 0.2,
	})

	lut := nl.CreateCell("lut0", "LUTCOMB")
	nl.AddPort(lut, "A", device.DirIn)
	nl.AddPort(lut, "Z", device.DirOut)

	ff := nl.CreateCell("ff0", "FF")
	nl.AddPort(ff, "M", device.DirIn)
	nl.AddPort(ff, "Q", device.DirOut)

	net := nl.CreateNet("lut0_z")
	_ = nl.ConnectDriver(net, lut, pool.Intern("Z"))
	nl.ConnectUser(net, ff, pool.Intern("M"))

	tbl.BindBel(belLUT, lut, netlist.StrengthFixed)
	tbl.BindBel(belFF, ff, netlist.StrengthFixed)

	checker := place.NewChecker(nl, pool, place.TileLimits{})
	ts := place.NewTileStatus(graph, tbl, 0, 0)
	if ok, reason := checker.Check(ts, ga, true); !ok {
		slog.Warn("pnr: demo design failed tile legality check", "reason", reason)
	}

	return graph, ga, nl
}
