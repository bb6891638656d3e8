package core

import "time"

// I2CAddress is a 7-bit I2C device address.
type I2CAddress uint8

// Bus is the two-wire register bus primitive the haptic controller is built on.
// Every transaction is bracketed by Start and Stop; the Send* methods report
// whether the client acknowledged the byte.
type Bus interface {
	// Start issues a START condition.
	Start()

	// RepeatedStart issues a repeated START without releasing the bus.
	RepeatedStart()

	// Stop issues a STOP condition and releases the bus.
	Stop()

	// SendAddressWrite sends the address byte with the write bit.
	SendAddressWrite(addr I2CAddress) bool

	// SendAddressRead sends the address byte with the read bit.
	SendAddressRead(addr I2CAddress) bool

	// Send transmits one data byte.
	Send(b byte) bool

	// Receive reads one byte. ack requests another byte from the client;
	// pass false for the last byte of a transfer.
	Receive(ack bool) byte

	// StartSequence issues START followed by the address with the write bit,
	// retrying until the client acknowledges or timeout elapses. The caller
	// must issue Stop afterwards regardless of the result.
	StartSequence(addr I2CAddress, timeout time.Duration) bool
}

// SleepFunc blocks for the given duration.
type SleepFunc func(d time.Duration)
