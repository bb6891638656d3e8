package core

import (
	"io"
	"time"
)

// Transport is the serial link the firmware is driven over.
type Transport interface {
	ByteSource
	io.Writer

	// Tasks performs the transport's internal bookkeeping. Called once per
	// main loop iteration.
	Tasks()
}

// Firmware ties the haptic controller and the command receiver to a
// transport and runs the cooperative main loop.
type Firmware struct {
	Haptic   *Haptic
	Receiver *Receiver

	transport Transport
	idle      time.Duration
	panics    uint32
}

// NewFirmware creates the firmware on bus and transport. Nothing is sent to
// the device until Start.
func NewFirmware(bus Bus, transport Transport, cfg HapticConfig) *Firmware {
	haptic := NewHaptic(bus, cfg)
	return &Firmware{
		Haptic:    haptic,
		Receiver:  NewReceiver(transport, transport, haptic),
		transport: transport,
		idle:      10 * time.Microsecond,
	}
}

// Start initialises the haptic driver and prints the reset cause and the
// start-up banner.
func (f *Firmware) Start(cause ResetCause) {
	f.Haptic.Initialize()
	f.println(ResetCauseMessage(cause))
	f.println(Banner())
}

// Step runs one main loop iteration. A panic inside the iteration is
// recovered, the event ring dumped and the partial line discarded.
func (f *Firmware) Step() {
	defer func() {
		if r := recover(); r != nil {
			f.panics++
			DebugPrintln("[LOOP] recovered panic " + utoa(f.panics))
			DumpEvents()
			f.Receiver.Reset()
		}
	}()

	f.transport.Tasks()
	f.Receiver.PollStep()
}

// Run loops until done is closed. A nil done runs forever.
func (f *Firmware) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}

		f.Step()

		// Yield to the transport reader
		time.Sleep(f.idle)
	}
}

// Panics returns the number of recovered main loop panics.
func (f *Firmware) Panics() uint32 {
	return f.panics
}

func (f *Firmware) println(s string) {
	_, _ = io.WriteString(f.transport, s+"\n")
}
