//go:build rp2040

package main

import (
	"errors"
	"machine"

	"hapticfw/core"
)

// BusMode selects how the DRV2605L is reached
type BusMode uint8

const (
	// BusBitBang drives SCL/SDA as software open-drain lines
	BusBitBang BusMode = iota

	// BusHardware uses the I2C0 peripheral on the same pins
	BusHardware
)

// Haptic bus wiring
const (
	hapticSDA = machine.GPIO4
	hapticSCL = machine.GPIO5
)

// GetBusMode returns the bus used by this build.
// Bit-banged by default, matching the 100kHz timing of the reference board.
func GetBusMode() BusMode {
	return BusBitBang
}

// NewBus creates the register bus for mode
func NewBus(mode BusMode) (core.Bus, error) {
	switch mode {
	case BusBitBang:
		return core.NewBitBangBus(NewRPGPIODriver(), core.BitBangConfig{
			SCL: core.GPIOPin(hapticSCL),
			SDA: core.GPIOPin(hapticSDA),
		}), nil
	case BusHardware:
		return NewHardwareBus()
	}
	return nil, errors.New("unsupported bus mode")
}
