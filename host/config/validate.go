// host/config/validate.go
package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration correctness.
// It performs declarative validation only and does not mutate cfg.
// Zero values are accepted; Normalize fills them in.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	s := cfg.Serial
	if s.Baud < 0 {
		return fmt.Errorf("serial: baud must be positive, got %d", s.Baud)
	}
	if s.ReadTimeoutMs < 0 || s.ReplyTimeoutMs < 0 || s.SelfTestTimeoutMs < 0 {
		return fmt.Errorf("serial: timeouts must not be negative")
	}

	i := cfg.I2C
	switch i.Mode {
	case "", ModeHardware:
	case ModeBitBang:
		if i.SCL == "" || i.SDA == "" {
			return fmt.Errorf("i2c: bitbang mode needs scl and sda pins")
		}
		if i.SCL == i.SDA {
			return fmt.Errorf("i2c: scl and sda must be different pins, both %q", i.SCL)
		}
	default:
		return fmt.Errorf("i2c: unknown mode %q (want %q or %q)", i.Mode, ModeHardware, ModeBitBang)
	}
	// 7-bit address, reserved ranges excluded
	if i.Address != 0 && (i.Address < 0x08 || i.Address > 0x77) {
		return fmt.Errorf("i2c: address 0x%02X outside 0x08-0x77", i.Address)
	}
	if i.HalfClockUs < 0 {
		return fmt.Errorf("i2c: half_clock_us must not be negative")
	}

	m := cfg.MQTT
	if m.Broker == "" && m.Topic != "" {
		return fmt.Errorf("mqtt: topic %q set without broker", m.Topic)
	}
	if strings.ContainsAny(m.Topic, "+#") {
		return fmt.Errorf("mqtt: topic %q must not contain wildcards", m.Topic)
	}

	return nil
}
