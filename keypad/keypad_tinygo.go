//go:build tinygo

package keypad

import "machine"

// NewMachineScanner configures rows as pulled-up inputs and columns as
// outputs, then returns a Scanner over them.
func NewMachineScanner(rows [Rows]machine.Pin, cols [Cols]machine.Pin, layout Layout) *Scanner {
	var in [Rows]Input
	var out [Cols]Output
	for i, p := range rows {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		in[i] = p
	}
	for i, p := range cols {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		out[i] = p
	}
	return NewScanner(in, out, layout)
}
