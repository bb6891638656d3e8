package core

// SelfTestResult is the outcome of RunSelfTest.
type SelfTestResult uint8

const (
	SelfTestPassed SelfTestResult = iota
	SelfTestAckFailed
	SelfTestInvalidID
	SelfTestDiagnosticsFailed
	SelfTestOverTemperature
	SelfTestOverCurrent

	numSelfTestResults
)

// Indexed by SelfTestResult. The array length is the variant count, so an
// entry for a value past the last variant does not compile.
var selfTestText = [numSelfTestResults]string{
	SelfTestPassed:            "Passed",
	SelfTestAckFailed:         "ACK failed",
	SelfTestInvalidID:         "Invalid ID",
	SelfTestDiagnosticsFailed: "Diagnostic failed",
	SelfTestOverTemperature:   "Over temperature",
	SelfTestOverCurrent:       "Over current",
}

// ResultToText returns the message printed for r.
func ResultToText(r SelfTestResult) string {
	if r >= numSelfTestResults {
		return ""
	}
	return selfTestText[r]
}

func (r SelfTestResult) String() string {
	return ResultToText(r)
}

// RunSelfTest checks the client ACK, the device ID and then runs the device
// diagnostics. It blocks until the device clears GO; there is no timeout.
func (h *Haptic) RunSelfTest() SelfTestResult {
	result, _ := h.runSelfTest(0)
	RecordEvent(EvtSelfTest, 0, uint8(result))
	return result
}

// RunSelfTestWithin is RunSelfTest with the diagnostic poll limited to
// maxPolls reads of GO. When the limit is hit the mode register is restored
// and ErrDiagnosticTimeout is returned with SelfTestDiagnosticsFailed.
func (h *Haptic) RunSelfTestWithin(maxPolls int) (SelfTestResult, error) {
	if maxPolls <= 0 {
		maxPolls = 1
	}
	return h.runSelfTest(maxPolls)
}

// maxPolls == 0 polls forever.
func (h *Haptic) runSelfTest(maxPolls int) (SelfTestResult, error) {
	// Client ACK
	ack := h.bus.StartSequence(h.cfg.Address, h.cfg.PresenceTimeout)
	h.bus.Stop()
	if !ack {
		return SelfTestAckFailed, nil
	}

	// Device ID
	if h.readStatus().DeviceID != ExpectedDeviceID {
		return SelfTestInvalidID, nil
	}

	// Diagnostics
	h.writeRegister(RegMode, ModeDiagnostics)
	h.writeRegister(RegGo, GoTrigger)
	polls := 0
	for {
		h.cfg.Sleep(h.cfg.DiagPollInterval)
		if h.readRegister(RegGo) != GoTrigger {
			break
		}
		polls++
		if maxPolls > 0 && polls >= maxPolls {
			h.writeRegister(RegMode, ModeInternalTrigger)
			return SelfTestDiagnosticsFailed, ErrDiagnosticTimeout
		}
	}
	h.writeRegister(RegMode, ModeInternalTrigger)

	status := h.readStatus()
	switch {
	case status.DiagResult:
		return SelfTestDiagnosticsFailed, nil
	case status.OverTemp:
		return SelfTestOverTemperature, nil
	case status.OCDetect:
		return SelfTestOverCurrent, nil
	}
	return SelfTestPassed, nil
}
