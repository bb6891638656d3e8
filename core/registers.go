package core

// DRV2605L I2C client address.
const HapticAddress I2CAddress = 0x5A

// Register is a DRV2605L register offset.
type Register uint8

// Registers used by the firmware. See the DRV2605L datasheet register map.
const (
	RegStatus            Register = 0x00
	RegMode              Register = 0x01
	RegLibrarySelection  Register = 0x03
	RegWaveformSequencer Register = 0x04
	RegGo                Register = 0x0C
	RegFeedbackControl   Register = 0x1A
)

// Register values.
const (
	ModeInternalTrigger byte = 0x00
	ModeDiagnostics     byte = 0x06

	LibraryLRA byte = 0x06

	// N_ERM_LRA=1, FB_BRAKE_FACTOR=3, LOOP_GAIN=1, BEMF_GAIN=2
	FeedbackLRA byte = 0b10110110

	GoTrigger byte = 0x01
)

// ExpectedDeviceID is the DEVICE_ID field reported by a DRV2605L.
const ExpectedDeviceID = 7

// Status register layout:
//
//	bit 0    OC_DETECT   over-current
//	bit 1    OVER_TEMP   over-temperature
//	bit 2    reserved
//	bit 3    DIAG_RESULT diagnostic failure
//	bit 4    reserved
//	bits 5-7 DEVICE_ID
const (
	statusOCDetectMask   = 0x01
	statusOverTempMask   = 0x02
	statusDiagResultMask = 0x08
	statusDeviceIDShift  = 5
	statusDeviceIDMask   = 0x07
)

// Status is a decoded status register value.
type Status struct {
	OCDetect   bool
	OverTemp   bool
	DiagResult bool
	DeviceID   uint8
}

// DecodeStatus decodes a raw status register byte.
func DecodeStatus(raw byte) Status {
	return Status{
		OCDetect:   raw&statusOCDetectMask != 0,
		OverTemp:   raw&statusOverTempMask != 0,
		DiagResult: raw&statusDiagResultMask != 0,
		DeviceID:   (raw >> statusDeviceIDShift) & statusDeviceIDMask,
	}
}

// Encode packs s back into the register layout. Reserved bits are zero.
func (s Status) Encode() byte {
	var raw byte
	if s.OCDetect {
		raw |= statusOCDetectMask
	}
	if s.OverTemp {
		raw |= statusOverTempMask
	}
	if s.DiagResult {
		raw |= statusDiagResultMask
	}
	raw |= (s.DeviceID & statusDeviceIDMask) << statusDeviceIDShift
	return raw
}
