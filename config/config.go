// Package config holds the remote's runtime configuration: which optional
// parts are enabled, loop timings, code overrides and, for Linux boards, the
// pin names.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sparques/irremote/codes"
	"github.com/sparques/irremote/keypad"
	"github.com/sparques/irremote/nec"
	"github.com/sparques/irremote/remote"
)

var (
	ErrUnknownButton = errors.New("unknown_button")
	ErrBadCode       = errors.New("bad_code")
	ErrBadBits       = errors.New("bad_bits")
)

// Config is the JSON document read at startup.
type Config struct {
	Debug   bool `json:"debug"`
	Display bool `json:"display"`
	Learn   bool `json:"learn"`
	// Trace logs every raw IR pair the receiver sees.
	Trace bool `json:"trace,omitempty"`
	// Policy is "exclusive" or "passthrough"; see remote.Policy.
	Policy         string `json:"policy,omitempty"`
	// Bits is the NEC width transmitted, RxBits the width decoded when
	// learning.
	Bits           int    `json:"bits,omitempty"`
	RxBits         int    `json:"rx_bits,omitempty"`
	DebounceMs     int    `json:"debounce_ms,omitempty"`
	LearnWindowMs  int    `json:"learn_window_ms,omitempty"`
	PollIntervalMs int    `json:"poll_interval_ms,omitempty"`
	// Codes overrides table entries, keyed by button name ("Vol+") or key
	// ("+"). Values are parsed with base prefix, e.g. "0xFF906F".
	Codes map[string]string `json:"codes,omitempty"`
	Pins  Pins              `json:"pins"`
}

// Pins names the Linux GPIO lines (periph.io names such as "GPIO18").
type Pins struct {
	Rows        [keypad.Rows]string `json:"rows"`
	Cols        [keypad.Cols]string `json:"cols"`
	IRLed       string              `json:"ir_led"`
	IRRecv      string              `json:"ir_recv,omitempty"`
	I2C         string              `json:"i2c,omitempty"`
	DisplayAddr uint16              `json:"display_addr,omitempty"`
}

// Default mirrors the stock firmware: debug output on, display and learning
// off.
func Default() Config {
	return Config{
		Debug:          true,
		Policy:         remote.PolicyExclusive.String(),
		Bits:           nec.DefaultBits,
		RxBits:         nec.DefaultBits,
		DebounceMs:     int(keypad.DefaultDebounce / time.Millisecond),
		LearnWindowMs:  int(remote.DefaultLearnWindow / time.Millisecond),
		PollIntervalMs: 1,
		Pins: Pins{
			Rows:        [keypad.Rows]string{"GPIO5", "GPIO6", "GPIO13", "GPIO19"},
			Cols:        [keypad.Cols]string{"GPIO12", "GPIO16", "GPIO20", "GPIO21"},
			IRLed:       "GPIO18",
			IRRecv:      "GPIO17",
			DisplayAddr: 0x3C,
		},
	}
}

// Parse decodes data over the defaults.
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads the file at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}
	return Parse(data)
}

// Validate checks everything that can be checked without hardware.
func (c Config) Validate() error {
	for _, bits := range []int{c.Bits, c.RxBits} {
		if bits < 0 || bits > nec.DefaultBits {
			return fmt.Errorf("%w: %d", ErrBadBits, bits)
		}
	}
	if _, err := remote.ParsePolicy(c.Policy); err != nil {
		return fmt.Errorf("%w: %q", err, c.Policy)
	}
	_, err := c.Table()
	return err
}

// Table returns the default table with the configured overrides applied.
func (c Config) Table() (*codes.Table, error) {
	t := codes.New(codes.Defaults)
	for name, raw := range c.Codes {
		b, ok := keypad.ButtonForName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownButton, name)
		}
		code, err := strconv.ParseUint(raw, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q", ErrBadCode, name, raw)
		}
		t.Assign(b, uint32(code))
	}
	return t, nil
}

// Receiver returns a learning receiver decoding RxBits wide frames.
func (c Config) Receiver() *nec.Receiver {
	return nec.NewReceiver(c.RxBits)
}

// Remote returns the loop configuration.
func (c Config) Remote() (remote.Config, error) {
	policy, err := remote.ParsePolicy(c.Policy)
	if err != nil {
		return remote.Config{}, err
	}
	return remote.Config{
		Bits:         c.Bits,
		Debounce:     time.Duration(c.DebounceMs) * time.Millisecond,
		Learn:        c.Learn,
		LearnWindow:  time.Duration(c.LearnWindowMs) * time.Millisecond,
		Policy:       policy,
		PollInterval: time.Duration(c.PollIntervalMs) * time.Millisecond,
	}, nil
}
