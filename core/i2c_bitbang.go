package core

import "time"

// BitBangConfig describes a software I2C master.
type BitBangConfig struct {
	SCL GPIOPin
	SDA GPIOPin

	// HalfClock is half the SCL period. Default 5µs (100kHz).
	HalfClock time.Duration

	// StretchLimit bounds the number of half clocks waited for a client
	// holding SCL low. Default 100.
	StretchLimit int

	Sleep SleepFunc
	Now   func() time.Time
}

func (c *BitBangConfig) applyDefaults() {
	if c.HalfClock == 0 {
		c.HalfClock = 5 * time.Microsecond
	}
	if c.StretchLimit == 0 {
		c.StretchLimit = 100
	}
	if c.Sleep == nil {
		c.Sleep = time.Sleep
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// BitBangBus is a single-master software I2C bus on two GPIO pins.
type BitBangBus struct {
	gpio GPIODriver
	cfg  BitBangConfig
}

// NewBitBangBus releases both lines and returns the bus.
func NewBitBangBus(gpio GPIODriver, cfg BitBangConfig) *BitBangBus {
	cfg.applyDefaults()
	b := &BitBangBus{
		gpio: gpio,
		cfg:  cfg,
	}
	b.release(cfg.SDA)
	b.release(cfg.SCL)
	return b
}

func (b *BitBangBus) delay() {
	b.cfg.Sleep(b.cfg.HalfClock)
}

// drive pulls the line low. The latch is set before the direction so the
// pin never drives high.
func (b *BitBangBus) drive(pin GPIOPin) {
	_ = b.gpio.SetPin(pin, false)
	_ = b.gpio.ConfigureOutput(pin)
}

func (b *BitBangBus) release(pin GPIOPin) {
	_ = b.gpio.ConfigureInputPullUp(pin)
}

// releaseSCL lets SCL rise and waits out clock stretching.
func (b *BitBangBus) releaseSCL() {
	b.release(b.cfg.SCL)
	for i := 0; i < b.cfg.StretchLimit && !b.gpio.ReadPin(b.cfg.SCL); i++ {
		b.delay()
	}
}

func (b *BitBangBus) Start() {
	b.release(b.cfg.SDA)
	b.releaseSCL()
	b.delay()
	b.drive(b.cfg.SDA)
	b.delay()
	b.drive(b.cfg.SCL)
	b.delay()
}

func (b *BitBangBus) RepeatedStart() {
	b.release(b.cfg.SDA)
	b.delay()
	b.releaseSCL()
	b.delay()
	b.drive(b.cfg.SDA)
	b.delay()
	b.drive(b.cfg.SCL)
	b.delay()
}

func (b *BitBangBus) Stop() {
	b.drive(b.cfg.SDA)
	b.delay()
	b.releaseSCL()
	b.delay()
	b.release(b.cfg.SDA)
	b.delay()
}

func (b *BitBangBus) writeBit(bit bool) {
	if bit {
		b.release(b.cfg.SDA)
	} else {
		b.drive(b.cfg.SDA)
	}
	b.delay()
	b.releaseSCL()
	b.delay()
	b.drive(b.cfg.SCL)
}

func (b *BitBangBus) readBit() bool {
	b.release(b.cfg.SDA)
	b.delay()
	b.releaseSCL()
	b.delay()
	bit := b.gpio.ReadPin(b.cfg.SDA)
	b.drive(b.cfg.SCL)
	return bit
}

// Send shifts out b MSB first and returns true if the client pulled SDA low
// on the ninth clock.
func (b *BitBangBus) Send(value byte) bool {
	for i := 7; i >= 0; i-- {
		b.writeBit(value&(1<<uint(i)) != 0)
	}
	return !b.readBit()
}

func (b *BitBangBus) SendAddressWrite(addr I2CAddress) bool {
	return b.Send(byte(addr) << 1)
}

func (b *BitBangBus) SendAddressRead(addr I2CAddress) bool {
	return b.Send(byte(addr)<<1 | 1)
}

func (b *BitBangBus) Receive(ack bool) byte {
	var value byte
	for i := 0; i < 8; i++ {
		value <<= 1
		if b.readBit() {
			value |= 1
		}
	}
	b.writeBit(!ack)
	b.release(b.cfg.SDA)
	return value
}

func (b *BitBangBus) StartSequence(addr I2CAddress, timeout time.Duration) bool {
	deadline := b.cfg.Now().Add(timeout)
	for {
		b.Start()
		if b.SendAddressWrite(addr) {
			return true
		}
		if !b.cfg.Now().Before(deadline) {
			return false
		}
		b.Stop()
	}
}
