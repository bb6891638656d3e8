package core

import (
	"math"
	"reflect"
	"testing"
	"time"
)

func newTestHaptic(bus Bus, clk *fakeClock) *Haptic {
	return NewHaptic(bus, HapticConfig{Sleep: clk.sleep})
}

func TestHapticDefaults(t *testing.T) {
	cfg := DefaultHapticConfig()
	if cfg.Address != 0x5A {
		t.Errorf("Expected address 0x5A, got 0x%02X", cfg.Address)
	}
	if cfg.SettleDelay != 250*time.Microsecond {
		t.Errorf("Expected 250µs settle delay, got %v", cfg.SettleDelay)
	}
	if cfg.PresenceTimeout != 5*time.Millisecond {
		t.Errorf("Expected 5ms presence timeout, got %v", cfg.PresenceTimeout)
	}
	if cfg.DiagPollInterval != 100*time.Millisecond {
		t.Errorf("Expected 100ms poll interval, got %v", cfg.DiagPollInterval)
	}
}

func TestHapticInitialize(t *testing.T) {
	bus := newFakeBus()
	clk := newFakeClock()
	h := newTestHaptic(bus, clk)

	h.Initialize()

	if len(clk.sleeps) == 0 || clk.sleeps[0] != 250*time.Microsecond {
		t.Errorf("Expected 250µs settle delay first, got %v", clk.sleeps)
	}
	want := []busOp{
		w(RegMode, 0x00),
		w(RegLibrarySelection, 0x06),
		w(RegFeedbackControl, 0xB6),
	}
	if !reflect.DeepEqual(bus.ops, want) {
		t.Errorf("Unexpected register sequence:\n got %v\nwant %v", bus.ops, want)
	}
	if bus.stops != 3 {
		t.Errorf("Expected 3 transactions, got %d", bus.stops)
	}
}

func TestHapticInitializeIsRepeatable(t *testing.T) {
	bus := newFakeBus()
	h := newTestHaptic(bus, newFakeClock())

	h.Initialize()
	first := append([]busOp(nil), bus.ops...)
	bus.ops = nil
	h.Initialize()

	if !reflect.DeepEqual(bus.ops, first) {
		t.Errorf("Second Initialize differs: %v vs %v", bus.ops, first)
	}
}

func TestPlayEffect(t *testing.T) {
	tests := []struct {
		effect int
		valid  bool
	}{
		{0, true},
		{1, true},
		{47, true},
		{123, true},
		{124, false},
		{-1, false},
		{255, false},
		{math.MinInt32, false},
		{math.MaxInt32, false},
	}

	for _, tt := range tests {
		bus := newFakeBus()
		h := newTestHaptic(bus, newFakeClock())

		err := h.PlayEffect(tt.effect)
		if tt.valid {
			if err != nil {
				t.Errorf("PlayEffect(%d) failed: %v", tt.effect, err)
			}
			want := []busOp{
				w(RegWaveformSequencer, byte(tt.effect)),
				w(RegGo, 0x01),
			}
			if !reflect.DeepEqual(bus.ops, want) {
				t.Errorf("PlayEffect(%d) register sequence: got %v want %v", tt.effect, bus.ops, want)
			}
			continue
		}
		if err != ErrInvalidEffect {
			t.Errorf("PlayEffect(%d): expected ErrInvalidEffect, got %v", tt.effect, err)
		}
		if len(bus.ops) != 0 || bus.stops != 0 {
			t.Errorf("PlayEffect(%d): expected no bus activity, got %v", tt.effect, bus.ops)
		}
	}
}

func TestPlayEffectFullRange(t *testing.T) {
	bus := newFakeBus()
	h := newTestHaptic(bus, newFakeClock())

	for effect := MinEffect; effect <= MaxEffect; effect++ {
		if err := h.PlayEffect(effect); err != nil {
			t.Fatalf("PlayEffect(%d) failed: %v", effect, err)
		}
		if bus.regs[RegWaveformSequencer] != byte(effect) {
			t.Fatalf("Expected sequencer %d, got %d", effect, bus.regs[RegWaveformSequencer])
		}
	}
	if len(bus.ops) != 2*(MaxEffect+1) {
		t.Errorf("Expected %d writes, got %d", 2*(MaxEffect+1), len(bus.ops))
	}
}

func TestRunSelfTestAckFailed(t *testing.T) {
	bus := newFakeBus()
	bus.present = false
	h := newTestHaptic(bus, newFakeClock())

	if got := h.RunSelfTest(); got != SelfTestAckFailed {
		t.Errorf("Expected %v, got %v", SelfTestAckFailed, got)
	}
	if bus.probes != 1 {
		t.Errorf("Expected one presence probe, got %d", bus.probes)
	}
	if bus.stops != 1 {
		t.Errorf("Expected the probe to be closed with STOP, got %d stops", bus.stops)
	}
	if len(bus.ops) != 0 {
		t.Errorf("Expected no register access, got %v", bus.ops)
	}
}

func TestRunSelfTestInvalidID(t *testing.T) {
	for _, id := range []uint8{0, 3, 6} {
		bus := newFakeBus()
		bus.regs[RegStatus] = Status{DeviceID: id}.Encode()
		h := newTestHaptic(bus, newFakeClock())

		if got := h.RunSelfTest(); got != SelfTestInvalidID {
			t.Errorf("ID %d: expected %v, got %v", id, SelfTestInvalidID, got)
		}
		// No diagnostics were started
		want := []busOp{r(RegStatus, Status{DeviceID: id}.Encode())}
		if !reflect.DeepEqual(bus.ops, want) {
			t.Errorf("ID %d: unexpected register sequence %v", id, bus.ops)
		}
	}
}

func TestRunSelfTestOutcomes(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   SelfTestResult
	}{
		{"clean", Status{}, SelfTestPassed},
		{"diag", Status{DiagResult: true}, SelfTestDiagnosticsFailed},
		{"overtemp", Status{OverTemp: true}, SelfTestOverTemperature},
		{"overcurrent", Status{OCDetect: true}, SelfTestOverCurrent},
		{"diag wins", Status{DiagResult: true, OverTemp: true, OCDetect: true}, SelfTestDiagnosticsFailed},
		{"overtemp before overcurrent", Status{OverTemp: true, OCDetect: true}, SelfTestOverTemperature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := newFakeBus()
			tt.status.DeviceID = ExpectedDeviceID
			bus.diagStatus = tt.status
			h := newTestHaptic(bus, newFakeClock())

			if got := h.RunSelfTest(); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
			if bus.regs[RegMode] != ModeInternalTrigger {
				t.Errorf("Expected mode restored to internal trigger, got %d", bus.regs[RegMode])
			}
		})
	}
}

func TestRunSelfTestPollsUntilGoClears(t *testing.T) {
	bus := newFakeBus()
	bus.busyPolls = 3
	clk := newFakeClock()
	h := newTestHaptic(bus, clk)

	if got := h.RunSelfTest(); got != SelfTestPassed {
		t.Fatalf("Expected %v, got %v", SelfTestPassed, got)
	}

	status := Status{DeviceID: ExpectedDeviceID}.Encode()
	want := []busOp{
		r(RegStatus, status),
		w(RegMode, ModeDiagnostics),
		w(RegGo, GoTrigger),
		r(RegGo, 1),
		r(RegGo, 1),
		r(RegGo, 1),
		r(RegGo, 0),
		w(RegMode, ModeInternalTrigger),
		r(RegStatus, status),
	}
	if !reflect.DeepEqual(bus.ops, want) {
		t.Errorf("Unexpected register sequence:\n got %v\nwant %v", bus.ops, want)
	}

	polls := 0
	for _, d := range clk.sleeps {
		if d == 100*time.Millisecond {
			polls++
		}
	}
	if polls != 4 {
		t.Errorf("Expected 4 poll delays, got %d", polls)
	}
}

func TestRunSelfTestWithinTimeout(t *testing.T) {
	bus := newFakeBus()
	bus.busyPolls = -1
	h := newTestHaptic(bus, newFakeClock())

	got, err := h.RunSelfTestWithin(5)
	if err != ErrDiagnosticTimeout {
		t.Errorf("Expected ErrDiagnosticTimeout, got %v", err)
	}
	if got != SelfTestDiagnosticsFailed {
		t.Errorf("Expected %v, got %v", SelfTestDiagnosticsFailed, got)
	}

	goReads := 0
	for _, op := range bus.ops {
		if !op.write && op.reg == RegGo {
			goReads++
		}
	}
	if goReads != 5 {
		t.Errorf("Expected 5 GO reads, got %d", goReads)
	}
	if last := bus.ops[len(bus.ops)-1]; last != w(RegMode, ModeInternalTrigger) {
		t.Errorf("Expected mode restore last, got %v", last)
	}
}

func TestRunSelfTestWithinCompletes(t *testing.T) {
	bus := newFakeBus()
	bus.busyPolls = 2
	bus.diagStatus = Status{DeviceID: ExpectedDeviceID, OCDetect: true}
	h := newTestHaptic(bus, newFakeClock())

	got, err := h.RunSelfTestWithin(10)
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if got != SelfTestOverCurrent {
		t.Errorf("Expected %v, got %v", SelfTestOverCurrent, got)
	}
}

func TestResultToText(t *testing.T) {
	want := map[SelfTestResult]string{
		SelfTestPassed:            "Passed",
		SelfTestAckFailed:         "ACK failed",
		SelfTestInvalidID:         "Invalid ID",
		SelfTestDiagnosticsFailed: "Diagnostic failed",
		SelfTestOverTemperature:   "Over temperature",
		SelfTestOverCurrent:       "Over current",
	}

	seen := make(map[string]bool)
	for r := SelfTestResult(0); r < numSelfTestResults; r++ {
		text := ResultToText(r)
		if text == "" {
			t.Errorf("Result %d has no text", r)
		}
		if seen[text] {
			t.Errorf("Result %d text %q is not unique", r, text)
		}
		seen[text] = true
		if text != want[r] {
			t.Errorf("Result %d: expected %q, got %q", r, want[r], text)
		}
		if r.String() != text {
			t.Errorf("String() mismatch for %d", r)
		}
	}

	if got := ResultToText(numSelfTestResults); got != "" {
		t.Errorf("Expected empty text out of range, got %q", got)
	}
}

func TestDecodeStatus(t *testing.T) {
	tests := []struct {
		raw  byte
		want Status
	}{
		{0x00, Status{}},
		{0xE0, Status{DeviceID: 7}},
		{0xE1, Status{DeviceID: 7, OCDetect: true}},
		{0xE2, Status{DeviceID: 7, OverTemp: true}},
		{0xE8, Status{DeviceID: 7, DiagResult: true}},
		{0x0B, Status{OCDetect: true, OverTemp: true, DiagResult: true}},
		{0x14, Status{}}, // Reserved bits
		{0x60, Status{DeviceID: 3}},
	}

	for _, tt := range tests {
		if got := DecodeStatus(tt.raw); got != tt.want {
			t.Errorf("DecodeStatus(0x%02X): expected %+v, got %+v", tt.raw, tt.want, got)
		}
	}

	if got := (Status{DeviceID: 7, OverTemp: true}).Encode(); got != 0xE2 {
		t.Errorf("Expected 0xE2, got 0x%02X", got)
	}
}
