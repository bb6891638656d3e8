package core

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// fakeSource serves queued bytes.
type fakeSource struct {
	data []byte
	err  error
}

func (s *fakeSource) feed(data string) {
	s.data = append(s.data, data...)
}

func (s *fakeSource) Available() int {
	return len(s.data)
}

func (s *fakeSource) ReadByte() (byte, error) {
	if s.err != nil {
		return 0, s.err
	}
	b := s.data[0]
	s.data = s.data[1:]
	return b, nil
}

// fakeEffects records commands instead of driving a device.
type fakeEffects struct {
	played []int
	tests  int
	result SelfTestResult
}

func (e *fakeEffects) PlayEffect(effect int) error {
	if effect < MinEffect || effect > MaxEffect {
		return ErrInvalidEffect
	}
	e.played = append(e.played, effect)
	return nil
}

func (e *fakeEffects) RunSelfTest() SelfTestResult {
	e.tests++
	return e.result
}

func newTestReceiver() (*Receiver, *fakeSource, *bytes.Buffer, *fakeEffects) {
	src := &fakeSource{}
	out := &bytes.Buffer{}
	fx := &fakeEffects{}
	return NewReceiver(src, out, fx), src, out, fx
}

func TestReceiverPlayEffect(t *testing.T) {
	bus := newFakeBus()
	h := newTestHaptic(bus, newFakeClock())
	src := &fakeSource{}
	out := &bytes.Buffer{}
	rx := NewReceiver(src, out, h)

	src.feed("5\n")
	rx.PollStep()

	want := []busOp{w(RegWaveformSequencer, 5), w(RegGo, GoTrigger)}
	if !reflect.DeepEqual(bus.ops, want) {
		t.Errorf("Expected PlayEffect(5) register writes, got %v", bus.ops)
	}
	if out.Len() != 0 {
		t.Errorf("Expected no output, got %q", out.String())
	}
}

func TestReceiverCommands(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		output string
		played []int
		tests  int
	}{
		{"effect", "5\n", "", []int{5}, 0},
		{"first effect", "0\n", "", []int{0}, 0},
		{"last effect", "123\n", "", []int{123}, 0},
		{"hex effect", "0x10\n", "", []int{16}, 0},
		{"octal effect", "010\n", "", []int{8}, 0},
		{"signed effect", "+7\n", "", []int{7}, 0},
		{"leading blank", " 3\n", "", []int{3}, 0},
		{"effect too big", "124\n", "Invalid haptic effect\n", nil, 0},
		{"negative effect", "-1\n", "Invalid haptic effect\n", nil, 0},
		{"huge effect", "99999999999999999999\n", "Invalid haptic effect\n", nil, 0},
		{"trailing text", "5abc\n", "Invalid command 5abc\n", nil, 0},
		{"test", "test\n", "Over current\n", nil, 1},
		{"version", "version\n", "v1.0.0\n", nil, 0},
		{"help", "help\n", "Commands: <0-123> test version help\n", nil, 0},
		{"unknown", "bogus\n", "Invalid command bogus\n", nil, 0},
		{"case sensitive", "TEST\n", "Invalid command TEST\n", nil, 0},
		{"carriage return kept", "version\r\n", "Invalid command version\r\n", nil, 0},
		{"empty line", "\n", "Invalid command \n", nil, 0},
		{"several lines", "1\n2\nversion\n", "v1.0.0\n", []int{1, 2}, 0},
		{"unterminated", "version", "", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rx, src, out, fx := newTestReceiver()
			fx.result = SelfTestOverCurrent

			src.feed(tt.input)
			rx.PollStep()

			if out.String() != tt.output {
				t.Errorf("Expected output %q, got %q", tt.output, out.String())
			}
			if !reflect.DeepEqual(fx.played, tt.played) {
				t.Errorf("Expected effects %v, got %v", tt.played, fx.played)
			}
			if fx.tests != tt.tests {
				t.Errorf("Expected %d self-tests, got %d", tt.tests, fx.tests)
			}
		})
	}
}

func TestReceiverSplitLine(t *testing.T) {
	rx, src, out, _ := newTestReceiver()

	src.feed("ver")
	rx.PollStep()
	if rx.Pending() != 3 {
		t.Errorf("Expected 3 pending bytes, got %d", rx.Pending())
	}
	if out.Len() != 0 {
		t.Errorf("Expected no output yet, got %q", out.String())
	}

	src.feed("sion\n")
	rx.PollStep()
	if out.String() != "v1.0.0\n" {
		t.Errorf("Expected version, got %q", out.String())
	}
	if rx.Pending() != 0 {
		t.Errorf("Expected empty buffer, got %d bytes", rx.Pending())
	}
}

func TestReceiverFullLine(t *testing.T) {
	rx, src, out, _ := newTestReceiver()
	line := strings.Repeat("a", CommandBufferSize)

	src.feed(line + "\n")
	rx.PollStep()

	if out.String() != "Invalid command "+line+"\n" {
		t.Errorf("Expected the 64 byte line to be dispatched, got %q", out.String())
	}
	if rx.Overruns() != 0 {
		t.Errorf("Expected no overrun, got %d", rx.Overruns())
	}
}

func TestReceiverOverrun(t *testing.T) {
	rx, src, out, fx := newTestReceiver()

	src.feed(strings.Repeat("a", CommandBufferSize+1))
	rx.PollStep()

	if out.String() != "Receive buffer overrun\n" {
		t.Errorf("Expected overrun message, got %q", out.String())
	}
	if rx.Overruns() != 1 {
		t.Errorf("Expected 1 overrun, got %d", rx.Overruns())
	}
	if rx.Pending() != 0 {
		t.Errorf("Expected buffer emptied, got %d bytes", rx.Pending())
	}

	// The next line is received intact
	out.Reset()
	src.feed("version\n7\n")
	rx.PollStep()
	if out.String() != "v1.0.0\n" {
		t.Errorf("Expected version after overrun, got %q", out.String())
	}
	if !reflect.DeepEqual(fx.played, []int{7}) {
		t.Errorf("Expected effect 7 after overrun, got %v", fx.played)
	}
}

func TestReceiverOverrunTail(t *testing.T) {
	rx, src, out, fx := newTestReceiver()

	// The byte that overruns is dropped; the following bytes form a new line
	src.feed(strings.Repeat("x", CommandBufferSize+1) + "test\n")
	rx.PollStep()

	want := "Receive buffer overrun\nPassed\n"
	if out.String() != want {
		t.Errorf("Expected %q, got %q", want, out.String())
	}
	if fx.tests != 1 {
		t.Errorf("Expected 1 self-test, got %d", fx.tests)
	}
}

func TestReceiverReadError(t *testing.T) {
	rx, src, out, _ := newTestReceiver()

	src.feed("version\n")
	src.err = errors.New("uart fault")
	rx.PollStep()

	if out.Len() != 0 || rx.Lines() != 0 {
		t.Errorf("Expected nothing processed on read error, got %q", out.String())
	}
}

func TestReceiverCounters(t *testing.T) {
	rx, src, _, _ := newTestReceiver()

	src.feed("1\n2\npartial")
	rx.PollStep()

	if rx.Lines() != 2 {
		t.Errorf("Expected 2 lines, got %d", rx.Lines())
	}
	rx.Reset()
	if rx.Pending() != 0 {
		t.Errorf("Expected Reset to drop the partial line, got %d", rx.Pending())
	}
}
