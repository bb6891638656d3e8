// host/config/normalize.go
package config

import "strings"

// Defaults applied by Normalize
const (
	DefaultDevice            = "/dev/ttyUSB0"
	DefaultBaud              = 115200
	DefaultReadTimeoutMs     = 100
	DefaultReplyTimeoutMs    = 500
	DefaultSelfTestTimeoutMs = 10000
	DefaultI2CBus            = "/dev/i2c-1"
	DefaultI2CAddress        = 0x5A
	DefaultHalfClockUs       = 5
	DefaultTopic             = "haptic"
)

// Normalize fills in defaults. It is allowed to mutate configuration and
// must be called only after Validate.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	s := &cfg.Serial
	if s.Device == "" {
		s.Device = DefaultDevice
	}
	if s.Baud == 0 {
		s.Baud = DefaultBaud
	}
	if s.ReadTimeoutMs == 0 {
		s.ReadTimeoutMs = DefaultReadTimeoutMs
	}
	if s.ReplyTimeoutMs == 0 {
		s.ReplyTimeoutMs = DefaultReplyTimeoutMs
	}
	// The diagnostic polls every 100ms until the device finishes
	if s.SelfTestTimeoutMs == 0 {
		s.SelfTestTimeoutMs = DefaultSelfTestTimeoutMs
	}

	i := &cfg.I2C
	if i.Mode == "" {
		i.Mode = ModeHardware
	}
	if i.Bus == "" {
		i.Bus = DefaultI2CBus
	}
	if i.Address == 0 {
		i.Address = DefaultI2CAddress
	}
	if i.HalfClockUs == 0 {
		i.HalfClockUs = DefaultHalfClockUs
	}

	m := &cfg.MQTT
	m.Topic = strings.Trim(m.Topic, "/")
	if m.Broker != "" && m.Topic == "" {
		m.Topic = DefaultTopic
	}
}
