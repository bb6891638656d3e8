// Package periphbus connects the haptic core to Linux I2C and GPIO through
// periph.io.
package periphbus

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"hapticfw/core"
)

var ErrUnknownPin = errors.New("periphbus: unknown pin")

var initOnce struct {
	sync.Once
	err error
}

// Init loads the periph host drivers. Safe to call more than once.
func Init() error {
	initOnce.Do(func() {
		if _, err := host.Init(); err != nil {
			initOnce.err = fmt.Errorf("could not init host: %w", err)
		}
	})
	return initOnce.err
}

// OpenI2C opens a Linux I2C bus by name, e.g. "/dev/i2c-1" or "1". The
// returned bus satisfies drivers.I2C and can be wrapped by core.NewTxBus.
func OpenI2C(name string) (i2c.BusCloser, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("could not open bus %q: %w", name, err)
	}
	return bus, nil
}

// GPIO implements core.GPIODriver on periph pins. Pins are addressed by
// their periph pin number.
type GPIO struct {
	mu     sync.Mutex
	pins   map[core.GPIOPin]gpio.PinIO
	latch  map[core.GPIOPin]gpio.Level
	output map[core.GPIOPin]bool
}

// NewGPIO creates a driver for pins.
func NewGPIO(pins ...gpio.PinIO) *GPIO {
	g := &GPIO{
		pins:   make(map[core.GPIOPin]gpio.PinIO, len(pins)),
		latch:  make(map[core.GPIOPin]gpio.Level, len(pins)),
		output: make(map[core.GPIOPin]bool, len(pins)),
	}
	for _, p := range pins {
		g.pins[core.GPIOPin(p.Number())] = p
	}
	return g
}

// OpenLines looks up the SCL and SDA pins by name and returns a driver
// for them together with a bit-bang bus configuration.
func OpenLines(scl, sda string) (*GPIO, core.BitBangConfig, error) {
	if err := Init(); err != nil {
		return nil, core.BitBangConfig{}, err
	}
	sclPin := gpioreg.ByName(scl)
	if sclPin == nil {
		return nil, core.BitBangConfig{}, fmt.Errorf("%w: scl %q", ErrUnknownPin, scl)
	}
	sdaPin := gpioreg.ByName(sda)
	if sdaPin == nil {
		return nil, core.BitBangConfig{}, fmt.Errorf("%w: sda %q", ErrUnknownPin, sda)
	}
	cfg := core.BitBangConfig{
		SCL: core.GPIOPin(sclPin.Number()),
		SDA: core.GPIOPin(sdaPin.Number()),
	}
	return NewGPIO(sclPin, sdaPin), cfg, nil
}

func (g *GPIO) pin(pin core.GPIOPin) (gpio.PinIO, error) {
	p, ok := g.pins[pin]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPin, pin)
	}
	return p, nil
}

// ConfigureOutput drives the pin with its latched level
func (g *GPIO) ConfigureOutput(pin core.GPIOPin) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.pin(pin)
	if err != nil {
		return err
	}
	if err := p.Out(g.latch[pin]); err != nil {
		return err
	}
	g.output[pin] = true
	return nil
}

// ConfigureInputPullUp releases the pin to its pull-up
func (g *GPIO) ConfigureInputPullUp(pin core.GPIOPin) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.pin(pin)
	if err != nil {
		return err
	}
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return err
	}
	g.output[pin] = false
	return nil
}

// SetPin latches value. The pin is only driven while it is an output.
func (g *GPIO) SetPin(pin core.GPIOPin, value bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.pin(pin)
	if err != nil {
		return err
	}
	level := gpio.Level(value)
	g.latch[pin] = level
	if g.output[pin] {
		return p.Out(level)
	}
	return nil
}

// ReadPin returns the line level. Unknown pins read high, like a
// released line.
func (g *GPIO) ReadPin(pin core.GPIOPin) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.pins[pin]
	if !ok {
		return true
	}
	return p.Read() == gpio.High
}
