package core

const (
	// FirmwareVersion is reported by the "version" command
	FirmwareVersion = "v1.0.0"

	// DeviceName is printed in the start-up banner
	DeviceName = "x-IMU3-SA-Haptic"
)

// Banner returns the start-up message
func Banner() string {
	return DeviceName + " " + FirmwareVersion
}
