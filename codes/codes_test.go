package codes_test

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/sparques/irremote/codes"
	"github.com/sparques/irremote/keypad"
)

func TestNewCopiesDefaults(t *testing.T) {
	tbl := codes.New(codes.Defaults)
	tbl.Assign(keypad.Button1, 1)
	assert.Equal(t, uint32(0xFF6897), codes.Defaults[keypad.Button1])
}

func TestAssignThenLookup(t *testing.T) {
	tbl := codes.New(codes.Defaults)
	for _, b := range keypad.Buttons() {
		v := 0xDEAD0000 | uint32(b)
		assert.True(t, tbl.Assign(b, v))
		got, ok := tbl.Lookup(b)
		assert.True(t, ok)
		assert.Equal(t, v, got, "button %s", b)
	}
}

func TestAssignAcceptsAnyValue(t *testing.T) {
	tbl := codes.New(codes.Defaults)
	assert.True(t, tbl.Assign(keypad.Button0, 0))
	assert.True(t, tbl.Assign(keypad.Button7, codes.Defaults[keypad.ButtonMute]))

	zero, _ := tbl.Lookup(keypad.Button0)
	assert.Equal(t, uint32(0), zero)
	seven, _ := tbl.Lookup(keypad.Button7)
	mute, _ := tbl.Lookup(keypad.ButtonMute)
	assert.Equal(t, mute, seven)
}

func TestUnknownButton(t *testing.T) {
	tbl := codes.New(codes.Defaults)
	_, ok := tbl.Lookup(keypad.Button(42))
	assert.False(t, ok)
	assert.False(t, tbl.Assign(keypad.Button(42), 1))
	assert.Equal(t, codes.Defaults, tbl.Entries())
}
