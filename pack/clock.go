package pack

import (
	"strconv"

	"github.com/sarchlab/fabricpnr/arch"
	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/idstring"
	"github.com/sarchlab/fabricpnr/netlist"
)

const clockPeriodAttr = "CLOCK_PERIOD_NS"
const derivedClockSafetyCap = 64

// clockDeriver is how one global-resource cell type turns its input
// clock period(s) into an output period.
type clockDeriver func(inputs []float64, params map[idstring.ID]netlist.Property, pool *idstring.Pool) (float64, bool)

var clockDerivers = map[string]clockDeriver{
	"DCC": func(inputs []float64, params map[idstring.ID]netlist.Property, pool *idstring.Pool) (float64, bool) {
		if len(inputs) == 0 {
			return 0, false
		}
		return inputs[0], true // identity
	},
	"DCS": func(inputs []float64, params map[idstring.ID]netlist.Property, pool *idstring.Pool) (float64, bool) {
		if len(inputs) == 0 {
			return 0, false
		}
		min := inputs[0]
		for _, v := range inputs[1:] {
			if v < min {
				min = v
			}
		}
		return min, true
	},
	"OSC": func(inputs []float64, params map[idstring.ID]netlist.Property, pool *idstring.Pool) (float64, bool) {
		div, ok := params[pool.Intern("DIVIDER")]
		if !ok || !div.IsString() {
			return 0, false
		}
		return parseDivider(div.AsString()), true
	},
	"PLL": func(inputs []float64, params map[idstring.ID]netlist.Property, pool *idstring.Pool) (float64, bool) {
		if len(inputs) == 0 {
			return 0, false
		}
		fb, okFB := params[pool.Intern("FEEDBACK_DIV")]
		out, okOut := params[pool.Intern("OUTPUT_DIV")]
		if !okFB || !okOut {
			return 0, false
		}
		fbDiv := parseDivider(fb.AsString())
		outDiv := parseDivider(out.AsString())
		if outDiv == 0 {
			return 0, false
		}
		return inputs[0] * fbDiv / outDiv, true
	},
}

func parseDivider(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 1
	}
	return v
}

// derivedClockConstraints iteratively propagates user-supplied clock
// periods across DCC (identity), DCS (minimum of inputs), internal
// oscillators (fixed divider), and PLLs (input period × feedback divider
// / output divider), halting when one full iteration changes no
// constraint or after a fixed safety cap.
func derivedClockConstraints(nl *netlist.Netlist, pool *idstring.Pool, a arch.Arch) error {
	periodAttr := pool.Intern(clockPeriodAttr)

	for iter := 0; iter < derivedClockSafetyCap; iter++ {
		changed := false

		for typeName, deriver := range clockDerivers {
			for _, id := range cellsOfType(nl, pool, typeName) {
				c := nl.MustCell(id)
				if _, already := c.Attrs[periodAttr]; already {
					continue
				}

				var inputs []float64
				ok := true
				for _, p := range c.PortsInOrder() {
					if p.Dir == device.DirOut {
						continue
					}
					// Only clock-class inputs carry a period; a select or
					// enable pin must not block derivation.
					if !a.PinStyle(c.Type, p.Name).GlobalClock {
						continue
					}
					drvCell, _, found := driverOf(nl, id, p.Name)
					if !found {
						ok = false
						break
					}
					period, found := nl.MustCell(drvCell).Attrs[periodAttr]
					if !found || !period.IsString() {
						ok = false
						break
					}
					v, err := strconv.ParseFloat(period.AsString(), 64)
					if err != nil {
						ok = false
						break
					}
					inputs = append(inputs, v)
				}
				if !ok {
					continue
				}

				period, derived := deriver(inputs, c.Params, pool)
				if !derived {
					continue
				}
				if c.Attrs == nil {
					c.Attrs = make(map[idstring.ID]netlist.Property)
				}
				c.Attrs[periodAttr] = netlist.NewStringProperty(strconv.FormatFloat(period, 'f', -1, 64))
				changed = true
			}
		}

		if !changed {
			break
		}
	}

	return nil
}
