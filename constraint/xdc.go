package constraint

import (
	"strconv"
	"strings"

	"github.com/sarchlab/fabricpnr/netlist"
)

// ParseXDC parses an XDC constraint file, a Tcl subset:
// get_ports/get_cells/get_nets/get_pins/get_iobanks selectors,
// create_clock, and set_property (plain or -dict form). Attribute
// assignments are applied directly to nl as they are parsed.
func ParseXDC(file string, lines []string, nl *netlist.Netlist) (*Result, error) {
	r := &resolver{nl: nl, pool: nl.Pool}
	res := &Result{}

	selectorEval := func(cmd []string) []string {
		if len(cmd) == 0 {
			return nil
		}
		switch cmd[0] {
		case "get_ports", "get_cells", "get_nets", "get_pins", "get_iobanks":
			return cmd[1:]
		default:
			return nil
		}
	}

	for lineNo, line := range lines {
		words := tclTokenize(line)
		if len(words) == 0 {
			continue
		}
		words = evalArgs(words, selectorEval)

		switch words[0] {
		case "get_ports", "get_cells", "get_nets", "get_pins", "get_iobanks":
			// a bare selector on its own line has no effect; nothing to do
		case "create_clock":
			cc, err := parseCreateClock(words[1:], r)
			if err != nil {
				return nil, &Error{File: file, Line: lineNo + 1, Msg: err.Error()}
			}
			res.Clocks = append(res.Clocks, cc)
		case "set_property":
			if err := parseSetProperty(words[1:], r); err != nil {
				return nil, &Error{File: file, Line: lineNo + 1, Msg: err.Error()}
			}
		default:
			res.Warnings = append(res.Warnings, "constraint: xdc: unrecognized command "+words[0])
		}
	}

	return res, nil
}

func parseCreateClock(args []string, r *resolver) (ClockConstraint, error) {
	var periodStr, name string
	var objects []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-period":
			i++
			if i >= len(args) {
				return ClockConstraint{}, errMissingArg("-period")
			}
			periodStr = args[i]
		case "-name":
			i++
			if i >= len(args) {
				return ClockConstraint{}, errMissingArg("-name")
			}
			name = args[i]
		default:
			objects = append(objects, args[i])
		}
	}

	period, err := strconv.ParseFloat(periodStr, 64)
	if err != nil {
		return ClockConstraint{}, errBadFloat("-period", periodStr)
	}

	cc := ClockConstraint{Name: name, PeriodNs: period, Net: netlist.NoNet}
	for _, objName := range objects {
		obj, ok := r.resolve(objName)
		if !ok {
			continue
		}
		net, ok := r.netOf(obj)
		if !ok {
			continue
		}
		cc.Net = net
		cc.AchievedOK = true
		r.setAttr(object{cell: netlist.NoCell, net: net}, clockPeriodAttr, periodStr)
		break
	}

	return cc, nil
}

func parseSetProperty(args []string, r *resolver) error {
	if len(args) > 0 && args[0] == "-dict" {
		if len(args) < 2 {
			return errMissingArg("-dict")
		}
		pairs := strings.Fields(args[1])
		objects := args[2:]
		for i := 0; i+1 < len(pairs); i += 2 {
			applyToObjects(objects, pairs[i], pairs[i+1], r)
		}
		return nil
	}

	if len(args) < 3 {
		return errMissingArg("set_property key value objects")
	}
	key, value := args[0], args[1]
	applyToObjects(args[2:], key, value, r)
	return nil
}

func applyToObjects(names []string, key, value string, r *resolver) {
	for _, name := range names {
		obj, ok := r.resolve(name)
		if !ok {
			continue
		}
		r.setAttr(obj, key, value)
	}
}
