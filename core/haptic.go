// DRV2605L haptic driver
// Drives an LRA through the internal waveform library and runs the device
// self-test (auto diagnostics).
package core

import (
	"errors"
	"time"
)

// Waveform library effect range. See page 63 of the datasheet.
const (
	MinEffect = 0
	MaxEffect = 123
)

var (
	ErrInvalidEffect     = errors.New("haptic: invalid effect")
	ErrDiagnosticTimeout = errors.New("haptic: diagnostic did not complete")
)

// HapticConfig holds the fixed timing and addressing of the controller.
// Zero fields take the defaults below.
type HapticConfig struct {
	Address I2CAddress

	// SettleDelay is waited before the first register write after power-up
	// (initialise procedure, page 59 of the datasheet). Default 250µs.
	SettleDelay time.Duration

	// PresenceTimeout bounds the ACK check of the self-test. Default 5ms.
	PresenceTimeout time.Duration

	// DiagPollInterval is the delay between GO register reads while the
	// diagnostic runs. Default 100ms.
	DiagPollInterval time.Duration

	// Sleep defaults to time.Sleep.
	Sleep SleepFunc
}

// DefaultHapticConfig returns the configuration used by the firmware.
func DefaultHapticConfig() HapticConfig {
	var cfg HapticConfig
	cfg.applyDefaults()
	return cfg
}

func (c *HapticConfig) applyDefaults() {
	if c.Address == 0 {
		c.Address = HapticAddress
	}
	if c.SettleDelay == 0 {
		c.SettleDelay = 250 * time.Microsecond
	}
	if c.PresenceTimeout == 0 {
		c.PresenceTimeout = 5 * time.Millisecond
	}
	if c.DiagPollInterval == 0 {
		c.DiagPollInterval = 100 * time.Millisecond
	}
	if c.Sleep == nil {
		c.Sleep = time.Sleep
	}
}

// Haptic owns the DRV2605L register map. It is not safe for concurrent use;
// the firmware calls it from the main loop only.
type Haptic struct {
	bus Bus
	cfg HapticConfig
}

// NewHaptic creates a controller on bus. It does not touch the device.
func NewHaptic(bus Bus, cfg HapticConfig) *Haptic {
	cfg.applyDefaults()
	return &Haptic{
		bus: bus,
		cfg: cfg,
	}
}

// Config returns the effective configuration.
func (h *Haptic) Config() HapticConfig {
	return h.cfg
}

// Initialize puts the device in internal trigger mode with the LRA library
// and LRA feedback. Call once at start-up before PlayEffect or RunSelfTest.
func (h *Haptic) Initialize() {
	h.cfg.Sleep(h.cfg.SettleDelay)
	h.writeRegister(RegMode, ModeInternalTrigger)
	h.writeRegister(RegLibrarySelection, LibraryLRA)
	h.writeRegister(RegFeedbackControl, FeedbackLRA)
}

// PlayEffect plays a waveform library effect. Out of range ids return
// ErrInvalidEffect without any bus activity. Playback completion is not
// waited for.
func (h *Haptic) PlayEffect(effect int) error {
	if effect < MinEffect || effect > MaxEffect {
		return ErrInvalidEffect
	}
	h.writeRegister(RegWaveformSequencer, byte(effect))
	h.writeRegister(RegGo, GoTrigger)
	return nil
}

// readRegister: START, address+W, register, repeated START, address+R,
// one byte with NACK, STOP.
func (h *Haptic) readRegister(reg Register) byte {
	h.bus.Start()
	h.bus.SendAddressWrite(h.cfg.Address)
	h.bus.Send(byte(reg))
	h.bus.RepeatedStart()
	h.bus.SendAddressRead(h.cfg.Address)
	value := h.bus.Receive(false)
	h.bus.Stop()
	RecordEvent(EvtRegRead, uint8(reg), value)
	return value
}

// writeRegister: START, address+W, register, value, STOP.
func (h *Haptic) writeRegister(reg Register, value byte) {
	h.bus.Start()
	h.bus.SendAddressWrite(h.cfg.Address)
	h.bus.Send(byte(reg))
	h.bus.Send(value)
	h.bus.Stop()
	RecordEvent(EvtRegWrite, uint8(reg), value)
}

func (h *Haptic) readStatus() Status {
	return DecodeStatus(h.readRegister(RegStatus))
}
