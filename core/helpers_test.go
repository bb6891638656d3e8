package core

import "time"

// busOp is one completed register access seen by a test device.
type busOp struct {
	write bool
	reg   Register
	value byte
}

func w(reg Register, value byte) busOp { return busOp{write: true, reg: reg, value: value} }
func r(reg Register, value byte) busOp { return busOp{reg: reg, value: value} }

// fakeBus is a Bus with a DRV2605L-like register file behind it. It follows
// the primitive sequence the way a real client would: the first byte after
// an addressed write is the register pointer, further bytes are written and
// post-increment the pointer; reads return the pointed register.
type fakeBus struct {
	addr    I2CAddress
	present bool
	regs    [256]byte
	ops     []busOp
	probes  int
	stops   int

	// busyPolls is the number of GO reads that still return 1 after a
	// diagnostic is triggered. Negative never clears.
	busyPolls int
	// diagStatus is loaded into the status register when a diagnostic starts.
	diagStatus Status

	panicOnSend bool

	selected bool
	reading  bool
	ptrSet   bool
	ptr      Register
	busyLeft int
}

func newFakeBus() *fakeBus {
	b := &fakeBus{
		addr:       HapticAddress,
		present:    true,
		diagStatus: Status{DeviceID: ExpectedDeviceID},
	}
	b.regs[RegStatus] = Status{DeviceID: ExpectedDeviceID}.Encode()
	return b
}

func (b *fakeBus) Start() {
	b.selected = false
	b.reading = false
	b.ptrSet = false
}

func (b *fakeBus) RepeatedStart() {
	b.selected = false
	b.reading = false
}

func (b *fakeBus) Stop() {
	b.stops++
	b.selected = false
}

func (b *fakeBus) SendAddressWrite(addr I2CAddress) bool {
	b.selected = b.present && addr == b.addr
	b.reading = false
	return b.selected
}

func (b *fakeBus) SendAddressRead(addr I2CAddress) bool {
	b.selected = b.present && addr == b.addr
	b.reading = true
	return b.selected
}

func (b *fakeBus) Send(value byte) bool {
	if b.panicOnSend {
		panic("bus fault")
	}
	if !b.selected || b.reading {
		return false
	}
	if !b.ptrSet {
		b.ptr = Register(value)
		b.ptrSet = true
		return true
	}
	b.regs[b.ptr] = value
	b.ops = append(b.ops, w(b.ptr, value))
	if b.ptr == RegGo && value == GoTrigger && b.regs[RegMode] == ModeDiagnostics {
		b.busyLeft = b.busyPolls
		b.regs[RegStatus] = b.diagStatus.Encode()
	}
	b.ptr++
	return true
}

func (b *fakeBus) Receive(ack bool) byte {
	if !b.selected || !b.reading {
		return 0xFF
	}
	value := b.regs[b.ptr]
	if b.ptr == RegGo && value == GoTrigger {
		if b.busyLeft == 0 {
			b.regs[RegGo] = 0
			value = 0
		} else if b.busyLeft > 0 {
			b.busyLeft--
		}
	}
	b.ops = append(b.ops, r(b.ptr, value))
	b.ptr++
	return value
}

func (b *fakeBus) StartSequence(addr I2CAddress, timeout time.Duration) bool {
	b.probes++
	return b.present && addr == b.addr
}

// fakeClock advances only when slept on.
type fakeClock struct {
	t      time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) sleep(d time.Duration) {
	c.t = c.t.Add(d)
	c.sleeps = append(c.sleeps, d)
}

func (c *fakeClock) now() time.Time {
	return c.t
}
