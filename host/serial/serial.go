package serial

import (
	"io"
)

// Port is a serial link to the haptic board's command UART.
// Implementations:
// - Native serial (using github.com/tarm/serial)
// - Pipes and fakes in tests
type Port interface {
	io.ReadWriteCloser

	// Flush discards data received but not read
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate of the board's command UART
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// Command UART defaults
const (
	DefaultBaud        = 115200
	DefaultReadTimeout = 100
)

// DefaultConfig returns the board's default settings for device
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: DefaultReadTimeout,
	}
}
