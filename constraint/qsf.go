package constraint

import (
	"strings"

	"github.com/sarchlab/fabricpnr/netlist"
)

// ParseQSF parses a QSF constraint file: set_location_assignment,
// set_instance_assignment, and set_global_assignment. Lines are split by
// qsfFields after stripping a trailing comment.
func ParseQSF(file string, lines []string, nl *netlist.Netlist) (*Result, error) {
	r := &resolver{nl: nl, pool: nl.Pool}
	res := &Result{}

	for lineNo, line := range lines {
		words := qsfFields(line)
		if len(words) == 0 {
			continue
		}

		var err error
		switch words[0] {
		case "set_location_assignment":
			err = parseSetLocationAssignment(words[1:], r)
		case "set_instance_assignment":
			err = parseSetInstanceAssignment(words[1:], r)
		case "set_global_assignment":
			ga, e := parseSetGlobalAssignment(words[1:])
			err = e
			if e == nil {
				res.Globals = append(res.Globals, ga)
			}
		default:
			res.Warnings = append(res.Warnings, "constraint: qsf: unrecognized command "+words[0])
		}
		if err != nil {
			return nil, &Error{File: file, Line: lineNo + 1, Msg: err.Error()}
		}
	}

	return res, nil
}

// qsfFields strips a trailing # comment from a QSF line and splits the
// rest with the shared Tcl tokenizer, so a quoted string, a {braced} word
// or a [bracketed] command each form one field.
func qsfFields(line string) []string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		line = line[:idx]
	}
	return tclTokenize(line)
}

func parseSetLocationAssignment(args []string, r *resolver) error {
	var loc, to string
	for i := 0; i < len(args); i++ {
		if args[i] == "-to" {
			i++
			if i >= len(args) {
				return errMissingArg("-to")
			}
			to = args[i]
			continue
		}
		loc = args[i]
	}
	if to == "" {
		return errMissingArg("-to")
	}
	obj, ok := r.resolve(to)
	if !ok {
		return nil
	}
	r.setAttr(obj, locAttr, loc)
	return nil
}

func parseSetInstanceAssignment(args []string, r *resolver) error {
	var name, to string
	var rest []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-name":
			i++
			if i >= len(args) {
				return errMissingArg("-name")
			}
			name = args[i]
		case "-to":
			i++
			if i >= len(args) {
				return errMissingArg("-to")
			}
			to = args[i]
		default:
			rest = append(rest, args[i])
		}
	}
	if name == "" || to == "" {
		return errMissingArg("-name/-to")
	}
	value := ""
	if len(rest) > 0 {
		value = rest[0]
	}
	obj, ok := r.resolve(to)
	if !ok {
		return nil
	}
	r.setAttr(obj, name, value)
	return nil
}

func parseSetGlobalAssignment(args []string) (GlobalAssignment, error) {
	var name string
	var rest []string
	for i := 0; i < len(args); i++ {
		if args[i] == "-name" {
			i++
			if i >= len(args) {
				return GlobalAssignment{}, errMissingArg("-name")
			}
			name = args[i]
			continue
		}
		rest = append(rest, args[i])
	}
	if name == "" {
		return GlobalAssignment{}, errMissingArg("-name")
	}
	return GlobalAssignment{Name: name, Value: strings.Join(rest, " ")}, nil
}
