package core

import "io"

// CommandBufferSize is the longest command line, excluding the terminator.
const CommandBufferSize = 64

// ByteSource is a non-blocking serial receive interface.
type ByteSource interface {
	// Available returns the number of bytes that can be read without blocking
	Available() int

	// ReadByte reads one byte
	ReadByte() (byte, error)
}

// Effects is the part of the haptic controller driven by commands.
type Effects interface {
	PlayEffect(effect int) error
	RunSelfTest() SelfTestResult
}

// Receiver assembles newline terminated command lines from a serial
// transport and dispatches them. It owns its line buffer; one instance per
// transport, used from a single loop.
type Receiver struct {
	in       ByteSource
	out      io.Writer
	haptic   Effects
	commands *CommandTable

	buf [CommandBufferSize]byte
	n   int

	overruns uint32
	lines    uint32
}

// NewReceiver creates a receiver reading from in, printing to out and
// driving haptic.
func NewReceiver(in ByteSource, out io.Writer, haptic Effects) *Receiver {
	r := &Receiver{
		in:     in,
		out:    out,
		haptic: haptic,
	}
	r.commands = r.buildCommands()
	return r
}

// Command grammar, first match wins.
func (r *Receiver) buildCommands() *CommandTable {
	t := NewCommandTable()
	t.Register("effect", "<0-123>", isEffectID, r.handleEffect)
	t.Register("test", "test", Literal("test"), r.handleTest)
	t.Register("version", "version", Literal("version"), r.handleVersion)
	t.Register("help", "help", Literal("help"), r.handleHelp)
	t.SetFallback(r.handleInvalid)
	return t
}

// PollStep drains every byte currently available. Call repeatedly from the
// main loop.
func (r *Receiver) PollStep() {
	for r.in.Available() > 0 {
		b, err := r.in.ReadByte()
		if err != nil {
			return
		}

		// Process message
		if b == '\n' {
			line := string(r.buf[:r.n])
			r.n = 0
			r.ProcessCommand(line)
			continue
		}

		// Line too long: drop it along with this byte
		if r.n == len(r.buf) {
			r.n = 0
			r.overruns++
			RecordEvent(EvtOverrun, 0, 0)
			DebugPrintln("[RX] line overrun, total " + utoa(r.overruns))
			r.println("Receive buffer overrun")
			continue
		}

		r.buf[r.n] = b
		r.n++
	}
}

// ProcessCommand runs one command line.
func (r *Receiver) ProcessCommand(line string) {
	r.lines++
	RecordEvent(EvtCommand, 0, uint8(len(line)))
	r.commands.Dispatch(line)
}

// Pending returns the number of buffered bytes of the unterminated line.
func (r *Receiver) Pending() int {
	return r.n
}

// Overruns returns the number of discarded over-long lines.
func (r *Receiver) Overruns() uint32 {
	return r.overruns
}

// Lines returns the number of dispatched lines.
func (r *Receiver) Lines() uint32 {
	return r.lines
}

// Reset discards the unterminated line.
func (r *Receiver) Reset() {
	r.n = 0
}

func (r *Receiver) println(s string) {
	_, _ = io.WriteString(r.out, s+"\n")
}

func isEffectID(line string) bool {
	_, ok := parseEffectID(line)
	return ok
}

func (r *Receiver) handleEffect(line string) {
	effect, _ := parseEffectID(line)
	if err := r.haptic.PlayEffect(effect); err != nil {
		r.println("Invalid haptic effect")
	}
}

func (r *Receiver) handleTest(string) {
	r.println(ResultToText(r.haptic.RunSelfTest()))
}

func (r *Receiver) handleVersion(string) {
	r.println(FirmwareVersion)
}

func (r *Receiver) handleHelp(string) {
	r.println("Commands: " + r.commands.Usage())
}

func (r *Receiver) handleInvalid(line string) {
	r.println("Invalid command " + line)
}
