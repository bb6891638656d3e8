package core

// ResetCause is the reason for the last MCU reset
type ResetCause uint8

const (
	ResetUnknown ResetCause = iota
	ResetPowerOn
	ResetExternal
	ResetWatchdog
	ResetSoftware
)

// String returns the reset cause description
func (c ResetCause) String() string {
	switch c {
	case ResetPowerOn:
		return "Power-on"
	case ResetExternal:
		return "External reset pin"
	case ResetWatchdog:
		return "Watchdog timeout"
	case ResetSoftware:
		return "Software reset"
	default:
		return "Unknown"
	}
}

// ResetCauseMessage returns the line printed at start-up
func ResetCauseMessage(c ResetCause) string {
	return "Reset cause: " + c.String()
}
