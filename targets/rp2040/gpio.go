//go:build rp2040

package main

import (
	"machine"

	"hapticfw/core"
)

type pinMode uint8

const (
	pinUnconfigured pinMode = iota
	pinOutput
	pinInputPullUp
)

// RPGPIODriver implements core.GPIODriver for RP2040. Pins are switched
// between output and pulled-up input on every open-drain transition, so the
// current mode is tracked to skip redundant reconfiguration.
type RPGPIODriver struct {
	modes map[core.GPIOPin]pinMode
}

// NewRPGPIODriver creates a new RP2040 GPIO driver
func NewRPGPIODriver() *RPGPIODriver {
	return &RPGPIODriver{
		modes: make(map[core.GPIOPin]pinMode),
	}
}

// ConfigureOutput configures a pin as a digital output
func (d *RPGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	if d.modes[pin] == pinOutput {
		return nil
	}
	d.machinePin(pin).Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.modes[pin] = pinOutput
	return nil
}

// ConfigureInputPullUp configures a pin as an input with pull-up resistor
func (d *RPGPIODriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	if d.modes[pin] == pinInputPullUp {
		return nil
	}
	d.machinePin(pin).Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	d.modes[pin] = pinInputPullUp
	return nil
}

// SetPin sets the output latch. On an input pin the value takes effect at
// the next ConfigureOutput.
func (d *RPGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	d.machinePin(pin).Set(value)
	return nil
}

// ReadPin reads the pin level
func (d *RPGPIODriver) ReadPin(pin core.GPIOPin) bool {
	return d.machinePin(pin).Get()
}

// RP2040 pins map directly to GPIO numbers
func (d *RPGPIODriver) machinePin(pin core.GPIOPin) machine.Pin {
	return machine.Pin(pin)
}
