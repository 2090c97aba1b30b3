// Package config holds the agent's boot configuration: a flat struct
// populated from CLI flags by cmd/agent.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Flag bits for the --flags bitmask.
const (
	FlagStartVideoStream uint32 = 1 << iota
	FlagTurnOffDisplay
	FlagStreamAudio
	FlagUseUinput
	FlagAutoResetUI
	FlagDebugLayout
	FlagGestureNav
)

const (
	DefaultMaxBitRate = 10_000_000 // applied when --max_bit_rate is 0
	MinBitRate        = 100_000    // floor of the encoder recovery ladder
)

// Size is a width/height pair, used for --max_size and computed video sizes.
type Size struct {
	W, H int32
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.W, s.H) }

// Config is the fully-parsed boot configuration.
type Config struct {
	Socket      string
	LogLevel    string
	MaxSize     Size
	Orientation int32
	Flags       uint32
	MaxBitRate  int
	Codec       string
}

func (c Config) HasFlag(bit uint32) bool { return c.Flags&bit != 0 }

// ParseSize parses the "W,H" form of --max_size.
func ParseSize(s string) (Size, error) {
	if s == "" {
		return Size{}, nil
	}
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return Size{}, errors.Errorf("malformed --max_size %q, want W,H", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || w <= 0 {
		return Size{}, errors.Errorf("malformed --max_size width %q", parts[0])
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || h <= 0 {
		return Size{}, errors.Errorf("malformed --max_size height %q", parts[1])
	}
	return Size{W: int32(w), H: int32(h)}, nil
}

// Validate checks the flag invariants: --socket is required, W,H > 0
// when given, orientation is reduced mod 4.
func (c *Config) Validate() error {
	if c.Socket == "" {
		return errors.New("--socket is required")
	}
	if c.MaxSize.W < 0 || c.MaxSize.H < 0 {
		return errors.New("--max_size must have W,H > 0")
	}
	c.Orientation &= 3
	if c.MaxBitRate <= 0 {
		c.MaxBitRate = DefaultMaxBitRate
	}
	if c.Codec == "" {
		c.Codec = "h264"
	}
	return nil
}
