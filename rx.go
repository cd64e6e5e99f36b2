//go:build tinygo

package irremote

import (
	. "machine"
	"time"
)

// RxDevice timestamps the edges of a receiver pin from its interrupt handler
// and feeds the resulting pairs to an RxStateMachine. The state machine runs
// in interrupt context: it must not block or allocate.
type RxDevice struct {
	pin   Pin
	timer *EdgeTimer
}

// NewRxDevice configures pin as an input. Most demodulating receivers carry
// their own pull-up; pullup adds the MCU's internal one.
func NewRxDevice(pin Pin, rsm RxStateMachine, pullup bool) *RxDevice {
	mode := PinInput
	if pullup {
		mode = PinInputPullup
	}
	pin.Configure(PinConfig{Mode: mode})
	return &RxDevice{
		pin:   pin,
		timer: NewEdgeTimer(rsm, true),
	}
}

func (rx *RxDevice) interruptHandler(interruptPin Pin) {
	rx.timer.Edge(rx.pin.Get(), time.Now())
}

// StartInverted sets the interrupt handler and thus starts processing signals
// from a demodulating receiver, whose output is low while the carrier is
// present.
func (rx *RxDevice) StartInverted() error {
	return rx.pin.SetInterrupt(PinFalling|PinRising, rx.interruptHandler)
}

// Stop disables the interrupt handler.
func (rx *RxDevice) Stop() error {
	return rx.pin.SetInterrupt(PinFalling|PinRising, nil)
}
