//go:build tinygo

package irremote

import (
	. "machine"
	"time"

	"github.com/sparques/pwm"
)

// TxDevice drives an IR LED with a PWM generated carrier. Marks run the
// carrier at 50% duty, spaces hold it at zero.
type TxDevice struct {
	pin    Pin
	pgroup pwm.Group
	ch     uint8
	duty   uint32
}

// NewTxDevice configures pin for PWM output at Freq38Khz.
func NewTxDevice(pin Pin) (*TxDevice, error) {
	return NewTxDeviceFreq(pin, Freq38Khz)
}

// NewTxDeviceFreq is NewTxDevice with an explicit carrier frequency.
func NewTxDeviceFreq(pin Pin, freq uint64) (*TxDevice, error) {
	pin.Configure(PinConfig{Mode: PinPWM})
	pgroup := pwm.Get(pin)
	pgroup.Configure(PWMConfig{Period: uint64(1e9) / freq})
	ch, err := pgroup.Channel(pin)
	if err != nil {
		return nil, err
	}
	pgroup.Set(ch, 0)
	return &TxDevice{
		pin:    pin,
		pgroup: pgroup,
		ch:     ch,
		duty:   pgroup.Top() / 2,
	}, nil
}

func (tx *TxDevice) SendPair(pair TimePair) {
	tx.pgroup.Set(tx.ch, tx.duty)
	time.Sleep(pair.Mark())
	tx.pgroup.Set(tx.ch, 0)
	if pair.Space() > 0 {
		time.Sleep(pair.Space())
	}
}

// SendPairs implements PairSender.
func (tx *TxDevice) SendPairs(pairs ...TimePair) {
	for _, p := range pairs {
		tx.SendPair(p)
	}
}
