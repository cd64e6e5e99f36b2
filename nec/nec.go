// Package nec implements the NEC infrared protocol on top of irremote pairs:
// frame marshalling for transmission and an irremote.RxStateMachine that
// decodes received frames.
//
// Codes are handled the way consumer remote tables list them: the 32-bit
// value is sent most significant bit first, so 0x00FFA25D goes out as
// address 0x00, inverted address 0xFF, command 0xA2, inverted command 0x5D.
package nec

import (
	"time"

	"github.com/sparques/irremote"
)

// DefaultBits is the width of a standard NEC data field.
const DefaultBits = 32

var (
	StartPair = irremote.TimePair{9 * time.Millisecond, 4500 * time.Microsecond}
	// RepeatPair leads the short frame a remote sends while a button is
	// held; only the stop mark follows it.
	RepeatPair = irremote.TimePair{9 * time.Millisecond, 2250 * time.Microsecond}
	ZeroPair   = irremote.TimePair{562500 * time.Nanosecond, 562500 * time.Nanosecond}
	OnePair    = irremote.TimePair{562500 * time.Nanosecond, 1687500 * time.Nanosecond}
	// StopPair is the trailing mark; nothing follows it.
	StopPair = irremote.TimePair{562500 * time.Nanosecond, 0}
)

// Frame is one NEC transmission of the low Bits bits of Code.
type Frame struct {
	Code uint32
	Bits int
}

func clampBits(bits int) int {
	if bits <= 0 || bits > DefaultBits {
		return DefaultBits
	}
	return bits
}

// MarshalFrame implements irremote.FrameMarshaller.
func (f Frame) MarshalFrame() []irremote.TimePair {
	bits := clampBits(f.Bits)
	out := make([]irremote.TimePair, 0, bits+2)

	out = append(out, StartPair)
	for bit := bits - 1; bit >= 0; bit-- {
		if (f.Code>>bit)&1 == 1 {
			out = append(out, OnePair)
		} else {
			out = append(out, ZeroPair)
		}
	}
	out = append(out, StopPair)

	return out
}

// Address returns the address byte of a standard 32-bit frame.
func (f Frame) Address() uint8 { return uint8(f.Code >> 24) }

// Command returns the command byte of a standard 32-bit frame.
func (f Frame) Command() uint8 { return uint8(f.Code >> 8) }

// Checked reports whether the command byte is followed by its inverse, as
// in every standard and extended NEC frame.
func (f Frame) Checked() bool {
	return uint8(f.Code>>8) == ^uint8(f.Code)
}

// Transmitter sends NEC frames through an irremote.PairSender.
type Transmitter struct {
	out irremote.PairSender
}

func NewTransmitter(out irremote.PairSender) *Transmitter {
	return &Transmitter{out: out}
}

// Transmit sends code using bits data bits (DefaultBits when bits is 0).
// It blocks for the length of the pulse train.
func (t *Transmitter) Transmit(code uint32, bits int) {
	irremote.SendFrames(t.out, Frame{Code: code, Bits: bits})
}
