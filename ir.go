// Package irremote holds the pulse-level building blocks shared by the
// infrared transmitter and receiver: mark/space pairs, the interface
// protocol frames implement to become pulse trains, and the edge timer that
// turns receiver level changes back into pairs.
//
// The hardware bound devices (TxDevice, RxDevice) are only built by TinyGo.
package irremote

import "time"

const (
	// Freq38Khz is the most commonly used frequency for IR remotes
	Freq38Khz = 38000
)

// TimePair encodes two durations: how long the carrier is on (mark) followed
// by how long it is off (space).
type TimePair [2]time.Duration

// Mark returns the carrier-on duration.
func (p TimePair) Mark() time.Duration { return p[0] }

// Space returns the carrier-off duration.
func (p TimePair) Space() time.Duration { return p[1] }

// FrameMarshaller defines an interface for marshalling data to slice of TimePairs
type FrameMarshaller interface {
	MarshalFrame() []TimePair
}

// PairSender is anything that can put a pulse train on the air.
// Calls block until the last pair has been emitted.
type PairSender interface {
	SendPairs(pairs ...TimePair)
}

// RxStateMachine consumes decoded mark/space pairs.
type RxStateMachine interface {
	HandleTimePair(TimePair)
}

type multiRxStateMachine []RxStateMachine

func (mrsm multiRxStateMachine) HandleTimePair(pair TimePair) {
	for i := range mrsm {
		mrsm[i].HandleTimePair(pair)
	}
}

// MultiRxStateMachine accepts a list of RxStateMachines and returns an object
// that also implements RxStateMachine. When HandleTimePair is called against it,
// it calls HandleTimePair against all the RxStateMachines used to define it.
// In this way, a single IR receiver can feed a decoder and a capture/log
// consumer at the same time.
func MultiRxStateMachine(rsm ...RxStateMachine) RxStateMachine {
	return multiRxStateMachine(rsm)
}

// RxStateMachineFunc adapts a plain function to RxStateMachine.
type RxStateMachineFunc func(TimePair)

func (f RxStateMachineFunc) HandleTimePair(pair TimePair) { f(pair) }

// SendFrames marshals each frame and hands the pairs to s in order.
func SendFrames(s PairSender, fms ...FrameMarshaller) {
	for _, fm := range fms {
		s.SendPairs(fm.MarshalFrame()...)
	}
}
