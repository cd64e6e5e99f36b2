package irremote

import "time"

// EdgeTimer turns pin level changes into mark/space TimePairs.
//
// A pair is emitted when the carrier turns on again, so each pair carries
// the previous mark and the space that followed it. Demodulating receivers
// idle high and pull the line low while the carrier is present; use an
// inverted EdgeTimer for those.
type EdgeTimer struct {
	sm       RxStateMachine
	inverted bool
	lastEdge time.Time
	mark     time.Duration
}

// NewEdgeTimer returns an EdgeTimer feeding sm.
func NewEdgeTimer(sm RxStateMachine, inverted bool) *EdgeTimer {
	return &EdgeTimer{sm: sm, inverted: inverted}
}

// Edge records that the pin changed to level at t.
func (e *EdgeTimer) Edge(level bool, t time.Time) {
	elapsed := t.Sub(e.lastEdge)
	e.lastEdge = t
	if level != e.inverted {
		// carrier back on: the space that just ended closes the pair
		e.sm.HandleTimePair(TimePair{e.mark, elapsed})
		return
	}
	e.mark = elapsed
}
