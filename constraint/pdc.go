package constraint

import (
	"strings"

	"github.com/sarchlab/fabricpnr/netlist"
)

// ParsePDC parses a PDC constraint file: ldc_set_location
// (a LOC-equivalent) and ldc_set_port (a multi-key "-iobuf k=v k=v ..."
// attribute list). PDC shares XDC's Tcl-subset quoting, so it reuses
// tclTokenize.
func ParsePDC(file string, lines []string, nl *netlist.Netlist) (*Result, error) {
	r := &resolver{nl: nl, pool: nl.Pool}
	res := &Result{}

	for lineNo, line := range lines {
		words := tclTokenize(line)
		if len(words) == 0 {
			continue
		}

		var err error
		switch words[0] {
		case "ldc_set_location":
			err = parseLdcSetLocation(words[1:], r)
		case "ldc_set_port":
			err = parseLdcSetPort(words[1:], r)
		default:
			res.Warnings = append(res.Warnings, "constraint: pdc: unrecognized command "+words[0])
		}
		if err != nil {
			return nil, &Error{File: file, Line: lineNo + 1, Msg: err.Error()}
		}
	}

	return res, nil
}

func parseLdcSetLocation(args []string, r *resolver) error {
	var site string
	var objects []string
	for i := 0; i < len(args); i++ {
		if args[i] == "-site" {
			i++
			if i >= len(args) {
				return errMissingArg("-site")
			}
			site = args[i]
			continue
		}
		objects = append(objects, args[i])
	}
	if site == "" {
		return errMissingArg("-site")
	}
	for _, name := range objects {
		obj, ok := r.resolve(name)
		if !ok {
			continue
		}
		r.setAttr(obj, locAttr, site)
	}
	return nil
}

func parseLdcSetPort(args []string, r *resolver) error {
	var kvList string
	var objects []string
	for i := 0; i < len(args); i++ {
		if args[i] == "-iobuf" {
			i++
			if i >= len(args) {
				return errMissingArg("-iobuf")
			}
			kvList = args[i]
			continue
		}
		objects = append(objects, args[i])
	}
	if kvList == "" {
		return errMissingArg("-iobuf")
	}

	pairs := strings.Fields(kvList)
	for _, name := range objects {
		obj, ok := r.resolve(name)
		if !ok {
			continue
		}
		for _, kv := range pairs {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				continue
			}
			r.setAttr(obj, k, v)
		}
	}
	return nil
}
