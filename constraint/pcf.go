package constraint

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sarchlab/fabricpnr/netlist"
)

// ParsePCF parses a FABulous PCF constraint file: set_io,
// set_frequency, set_cell, set_pseudo_plug, and the prohibit_pip /
// prohibit_wire / prohibit_bel regex commands. PCF is plain
// whitespace-delimited, line-oriented (no Tcl quoting at all).
func ParsePCF(file string, lines []string, nl *netlist.Netlist) (*Result, error) {
	r := &resolver{nl: nl, pool: nl.Pool}
	res := &Result{}

	for lineNo, line := range lines {
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		var err error
		switch words[0] {
		case "set_io":
			err = parseSetIO(words[1:], r)
		case "set_frequency":
			err = parseSetFrequency(words[1:], r, res)
		case "set_cell":
			err = parseSetCell(words[1:], r)
		case "set_pseudo_plug":
			var pp PseudoPlug
			pp, err = parseSetPseudoPlug(words[1:])
			if err == nil {
				res.PseudoPlugs = append(res.PseudoPlugs, pp)
			}
		case "prohibit_pip":
			err = appendProhibit(res, ProhibitPip, words[1:])
		case "prohibit_wire":
			err = appendProhibit(res, ProhibitWire, words[1:])
		case "prohibit_bel":
			err = appendProhibit(res, ProhibitBel, words[1:])
		default:
			res.Warnings = append(res.Warnings, "constraint: pcf: unrecognized command "+words[0])
		}
		if err != nil {
			return nil, &Error{File: file, Line: lineNo + 1, Msg: err.Error()}
		}
	}

	return res, nil
}

// parseSetIO implements "set_io <port> <pkg-pin>": sets the BEL attribute
// on the cell named <port> to the package pin.
func parseSetIO(args []string, r *resolver) error {
	if len(args) < 2 {
		return errMissingArg("set_io port pin")
	}
	obj, ok := r.resolve(args[0])
	if !ok {
		return nil
	}
	r.setAttr(obj, belAttr, args[1])
	return nil
}

// parseSetFrequency implements "set_frequency <clk> <mhz>", recording a
// ClockConstraint in nanoseconds (the unit every other format and
// timing.Config.Constraints use).
func parseSetFrequency(args []string, r *resolver, res *Result) error {
	if len(args) < 2 {
		return errMissingArg("set_frequency clk mhz")
	}
	mhz, err := strconv.ParseFloat(args[1], 64)
	if err != nil || mhz <= 0 {
		return errBadFloat("set_frequency", args[1])
	}
	periodNs := 1000.0 / mhz

	cc := ClockConstraint{Name: args[0], PeriodNs: periodNs, Net: netlist.NoNet}
	if obj, ok := r.resolve(args[0]); ok {
		if net, ok := r.netOf(obj); ok {
			cc.Net = net
			cc.AchievedOK = true
			r.setAttr(object{cell: netlist.NoCell, net: net}, clockPeriodAttr, strconv.FormatFloat(periodNs, 'f', -1, 64))
		}
	}
	res.Clocks = append(res.Clocks, cc)
	return nil
}

// parseSetCell implements "set_cell <cell> <key> <value>", a bare
// attribute assignment with no -name/-to flag syntax.
func parseSetCell(args []string, r *resolver) error {
	if len(args) < 3 {
		return errMissingArg("set_cell cell key value")
	}
	obj, ok := r.resolve(args[0])
	if !ok {
		return nil
	}
	r.setAttr(obj, args[1], args[2])
	return nil
}

// parseSetPseudoPlug implements "set_pseudo_plug --port p:wire --timing
// in:out:min:max". Neither flag names a netlist object directly — the
// plug describes an architecture-level pseudo-pip declaration, so the
// result is returned for the arch layer to consume rather than written
// as a cell/net attribute.
func parseSetPseudoPlug(args []string) (PseudoPlug, error) {
	var pp PseudoPlug
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--port":
			i++
			if i >= len(args) {
				return pp, errMissingArg("--port")
			}
			port, wire, ok := strings.Cut(args[i], ":")
			if !ok {
				return pp, errMissingArg("--port p:wire")
			}
			pp.Port, pp.Wire = port, wire
		case "--timing":
			i++
			if i >= len(args) {
				return pp, errMissingArg("--timing")
			}
			parts := strings.Split(args[i], ":")
			if len(parts) != 4 {
				return pp, errMissingArg("--timing in:out:min:max")
			}
			minNs, err := strconv.ParseFloat(parts[2], 64)
			if err != nil {
				return pp, errBadFloat("--timing min", parts[2])
			}
			maxNs, err := strconv.ParseFloat(parts[3], 64)
			if err != nil {
				return pp, errBadFloat("--timing max", parts[3])
			}
			pp.TimingIn, pp.TimingOut = parts[0], parts[1]
			pp.TimingMinNs, pp.TimingMaxNs = minNs, maxNs
		}
	}
	if pp.Port == "" {
		return pp, errMissingArg("--port")
	}
	return pp, nil
}

func appendProhibit(res *Result, kind ProhibitKind, args []string) error {
	if len(args) < 1 {
		return errMissingArg("prohibit pattern")
	}
	re, err := regexp.Compile(args[0])
	if err != nil {
		return err
	}
	res.Prohibits = append(res.Prohibits, ProhibitRule{Kind: kind, Pattern: re})
	return nil
}
