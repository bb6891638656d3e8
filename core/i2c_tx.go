package core

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

var (
	ErrBusNotConfigured = errors.New("i2c: bus not configured")
	ErrNoAck            = errors.New("i2c: no acknowledge")
)

// TxBus implements Bus on top of a transaction-level I2C controller
// (machine.I2C on the MCU, a periph.io bus on Linux). Bytes sent between
// Start and Stop are collected and issued as one Tx; a Receive issues the
// collected bytes followed by a repeated-start read of one byte.
//
// Only one Receive per transaction is supported, which is all the register
// protocol needs.
type TxBus struct {
	i2c   drivers.I2C
	sleep SleepFunc
	now   func() time.Time

	addr    uint16
	read    bool
	flushed bool
	w       [8]byte
	n       int
	r       [1]byte
	err     error
}

// NewTxBus wraps i2c.
func NewTxBus(i2c drivers.I2C) *TxBus {
	return &TxBus{
		i2c:   i2c,
		sleep: time.Sleep,
		now:   time.Now,
	}
}

// Err returns the error of the last failed transfer, if any, and clears it.
func (b *TxBus) Err() error {
	err := b.err
	b.err = nil
	return err
}

func (b *TxBus) fail(err error) {
	b.err = err
	DebugPrintln("[I2C] transfer failed: " + err.Error())
}

func (b *TxBus) Start() {
	b.n = 0
	b.read = false
	b.flushed = false
}

func (b *TxBus) RepeatedStart() {}

func (b *TxBus) Stop() {
	if b.flushed || b.read || b.n == 0 {
		b.n = 0
		return
	}
	b.flushed = true
	if b.i2c == nil {
		b.fail(ErrBusNotConfigured)
		return
	}
	if err := b.i2c.Tx(b.addr, b.w[:b.n], nil); err != nil {
		b.fail(err)
	}
	b.n = 0
}

func (b *TxBus) SendAddressWrite(addr I2CAddress) bool {
	b.addr = uint16(addr)
	b.read = false
	return b.i2c != nil
}

func (b *TxBus) SendAddressRead(addr I2CAddress) bool {
	b.addr = uint16(addr)
	b.read = true
	return b.i2c != nil
}

func (b *TxBus) Send(value byte) bool {
	if b.n == len(b.w) {
		return false
	}
	b.w[b.n] = value
	b.n++
	return true
}

func (b *TxBus) Receive(ack bool) byte {
	b.flushed = true
	if b.i2c == nil {
		b.fail(ErrBusNotConfigured)
		return 0
	}
	b.r[0] = 0
	if err := b.i2c.Tx(b.addr, b.w[:b.n], b.r[:]); err != nil {
		b.fail(err)
		return 0
	}
	b.n = 0
	return b.r[0]
}

// StartSequence probes the client with a one byte read until it answers or
// timeout elapses. Transaction-level controllers cannot issue a bare
// address, so the read stands in for the addressed write.
func (b *TxBus) StartSequence(addr I2CAddress, timeout time.Duration) bool {
	b.Start()
	b.addr = uint16(addr)
	b.flushed = true
	if b.i2c == nil {
		b.fail(ErrBusNotConfigured)
		return false
	}
	deadline := b.now().Add(timeout)
	for {
		err := b.i2c.Tx(b.addr, nil, b.r[:])
		if err == nil {
			return true
		}
		if !b.now().Before(deadline) {
			b.fail(ErrNoAck)
			return false
		}
		b.sleep(100 * time.Microsecond)
	}
}
