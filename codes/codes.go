// Package codes holds the button to IR code table.
package codes

import "github.com/sparques/irremote/keypad"

// Table is indexed by keypad.Button.
type Table [keypad.NumButtons]uint32

// Defaults are the NEC codes compiled into the image, in button order.
var Defaults = Table{
	keypad.Button0:           0xFF4AB5,
	keypad.Button1:           0xFF6897,
	keypad.Button2:           0xFF9867,
	keypad.Button3:           0xFFB04F,
	keypad.Button4:           0xFF30CF,
	keypad.Button5:           0xFF18E7,
	keypad.Button6:           0xFF7A85,
	keypad.Button7:           0xFF10EF,
	keypad.Button8:           0xFF38C7,
	keypad.Button9:           0xFF5AA5,
	keypad.ButtonMute:        0xFF42BD,
	keypad.ButtonInput:       0xFF52AD,
	keypad.ButtonChannelUp:   0xFF629D,
	keypad.ButtonChannelDown: 0xFFA857,
	keypad.ButtonVolumeUp:    0xFF906F,
	keypad.ButtonVolumeDown:  0xFFE01F,
}

// New returns a table initialised from defaults.
func New(defaults Table) *Table {
	t := defaults
	return &t
}

// Lookup returns the code bound to b.
func (t *Table) Lookup(b keypad.Button) (uint32, bool) {
	if !b.Valid() {
		return 0, false
	}
	return t[b], true
}

// Assign binds code to b. Any value is accepted, duplicates included.
func (t *Table) Assign(b keypad.Button, code uint32) bool {
	if !b.Valid() {
		return false
	}
	t[b] = code
	return true
}

// Entries returns a copy of the table.
func (t *Table) Entries() Table {
	return *t
}
