package remote

import (
	"github.com/sparques/irremote/codes"
	"github.com/sparques/irremote/diag"
	"github.com/sparques/irremote/keypad"
)

// Transmitter puts a code on the air. nec.Transmitter implements it.
type Transmitter interface {
	Transmit(code uint32, bits int)
}

// Dispatcher turns button presses into transmissions.
type Dispatcher struct {
	table *codes.Table
	tx    Transmitter
	bits  int
	sink  diag.Sink
}

func NewDispatcher(table *codes.Table, tx Transmitter, bits int, sink diag.Sink) *Dispatcher {
	if sink == nil {
		sink = diag.Nop
	}
	return &Dispatcher{table: table, tx: tx, bits: bits, sink: sink}
}

// Dispatch transmits the code currently bound to b. Unknown buttons are
// ignored and reported as false.
func (d *Dispatcher) Dispatch(b keypad.Button) bool {
	code, ok := d.table.Lookup(b)
	if !ok {
		return false
	}
	d.tx.Transmit(code, d.bits)
	d.sink.Emit(diag.Event{Kind: diag.KindPressed, Button: b, Code: code})
	return true
}
