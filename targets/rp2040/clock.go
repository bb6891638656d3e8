//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"

	"hapticfw/core"
)

// RP2040 reset reporting registers
const (
	watchdogBase   = 0x40058000
	watchdogREASON = watchdogBase + 0x08 // Why the last reset was a watchdog reset

	chipResetBase = 0x40064000 // VREG_AND_CHIP_RESET
	chipRESET     = chipResetBase + 0x08
)

// Register bits
const (
	reasonTimer = 1 << 0 // Watchdog timer expired
	reasonForce = 1 << 1 // Watchdog forced by software

	hadPOR        = 1 << 8  // Power-on or brown-out
	hadRUN        = 1 << 16 // RUN pin
	hadPSMRestart = 1 << 20 // Debug port restart
)

var (
	watchdogReason = (*volatile.Register32)(unsafe.Pointer(uintptr(watchdogREASON)))
	chipReset      = (*volatile.Register32)(unsafe.Pointer(uintptr(chipRESET)))
)

// ReadResetCause decodes the reason for the last reset. Watchdog reasons
// take priority since the chip reset register keeps its last value across
// watchdog resets.
func ReadResetCause() core.ResetCause {
	reason := watchdogReason.Get()
	switch {
	case reason&reasonForce != 0:
		return core.ResetSoftware
	case reason&reasonTimer != 0:
		return core.ResetWatchdog
	}

	chip := chipReset.Get()
	switch {
	case chip&hadPOR != 0:
		return core.ResetPowerOn
	case chip&hadRUN != 0:
		return core.ResetExternal
	case chip&hadPSMRestart != 0:
		return core.ResetSoftware
	}
	return core.ResetUnknown
}
