// Package keypad reads a 4x4 row/column button matrix.
//
// Columns are outputs that idle high and are pulled low one at a time; rows
// are pulled-up inputs that read low while a button joins them to the active
// column. TinyGo's machine.Pin satisfies both Input and Output directly.
package keypad

import "time"

const (
	Rows = 4
	Cols = 4
)

// Button is one of the 16 keys of the remote. The value is also the index
// of the key's entry in the code table.
type Button uint8

const (
	Button0 Button = iota
	Button1
	Button2
	Button3
	Button4
	Button5
	Button6
	Button7
	Button8
	Button9
	ButtonMute
	ButtonInput
	ButtonChannelUp
	ButtonChannelDown
	ButtonVolumeUp
	ButtonVolumeDown

	NumButtons = int(iota)
)

var names = [NumButtons]string{
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
	"Mute", "Input", "Ch+", "Ch-", "Vol+", "Vol-",
}

var keys = [NumButtons]rune{
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
	'*', '#', 'U', 'D', '+', '-',
}

// Valid reports whether b is one of the 16 known buttons.
func (b Button) Valid() bool {
	return int(b) < NumButtons
}

// String returns the button's display name, e.g. "Vol+".
func (b Button) String() string {
	if !b.Valid() {
		return "?"
	}
	return names[b]
}

// Key returns the character printed on the key, e.g. '+'.
func (b Button) Key() rune {
	if !b.Valid() {
		return 0
	}
	return keys[b]
}

// ButtonForKey maps a key character back to its Button.
func ButtonForKey(r rune) (Button, bool) {
	for i, k := range keys {
		if k == r {
			return Button(i), true
		}
	}
	return 0, false
}

// ButtonForName maps a display name (or a single key character) back to its
// Button.
func ButtonForName(name string) (Button, bool) {
	for i, n := range names {
		if n == name {
			return Button(i), true
		}
	}
	if r := []rune(name); len(r) == 1 {
		return ButtonForKey(r[0])
	}
	return 0, false
}

// Buttons returns all buttons in table order.
func Buttons() []Button {
	out := make([]Button, NumButtons)
	for i := range out {
		out[i] = Button(i)
	}
	return out
}

// Layout maps matrix positions to buttons, indexed [row][col].
type Layout [Rows][Cols]Button

// DefaultLayout is the phone-style keypad with channel and volume keys in
// the right hand column.
var DefaultLayout = Layout{
	{Button1, Button2, Button3, ButtonChannelUp},
	{Button4, Button5, Button6, ButtonChannelDown},
	{Button7, Button8, Button9, ButtonVolumeUp},
	{ButtonMute, Button0, ButtonInput, ButtonVolumeDown},
}

// Input is a row line.
type Input interface {
	Get() bool
}

// Output is a column line.
type Output interface {
	High()
	Low()
}

// Scanner polls the matrix.
type Scanner struct {
	rows   [Rows]Input
	cols   [Cols]Output
	layout Layout
}

// NewScanner returns a Scanner and parks every column high.
func NewScanner(rows [Rows]Input, cols [Cols]Output, layout Layout) *Scanner {
	s := &Scanner{rows: rows, cols: cols, layout: layout}
	for _, c := range s.cols {
		c.High()
	}
	return s
}

// Scan reports the first pressed button found, column by column and row by
// row within a column. Every column is high again when Scan returns.
func (s *Scanner) Scan() (Button, bool) {
	for c, col := range s.cols {
		col.Low()
		for r, row := range s.rows {
			if !row.Get() {
				col.High()
				return s.layout[r][c], true
			}
		}
		col.High()
	}
	return 0, false
}

// DefaultDebounce is the minimum spacing between two accepted presses.
const DefaultDebounce = 200 * time.Millisecond

// Debouncer rate limits presses. A held key is seen on every scan; only
// scans more than Interval after the last accepted press get through.
type Debouncer struct {
	Interval time.Duration

	last   time.Time
	primed bool
}

// Accept reports whether a press seen at now should be acted on, and if so
// records it.
func (d *Debouncer) Accept(now time.Time) bool {
	if d.primed && now.Sub(d.last) <= d.Interval {
		return false
	}
	d.Hold(now)
	return true
}

// Hold restarts the interval at now without acting on a press.
func (d *Debouncer) Hold(now time.Time) {
	d.last = now
	d.primed = true
}
