//go:build rp2040

package main

import (
	"machine"

	"hapticfw/core"
)

// hapticI2CFrequency matches the bit-banged half clock of 5µs
const hapticI2CFrequency = 100 * machine.KHz

// NewHardwareBus configures I2C0 on the haptic pins and wraps it as a
// register bus. machine.I2C satisfies drivers.I2C, so the Tx based adapter
// applies unchanged.
func NewHardwareBus() (core.Bus, error) {
	i2c := machine.I2C0
	err := i2c.Configure(machine.I2CConfig{
		Frequency: hapticI2CFrequency,
		SDA:       hapticSDA,
		SCL:       hapticSCL,
	})
	if err != nil {
		return nil, err
	}
	return core.NewTxBus(i2c), nil
}
