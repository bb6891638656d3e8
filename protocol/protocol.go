// Package protocol implements the serial side of the haptic firmware:
// byte buffering between the transport driver and the command receiver.
package protocol

// Buffer sizes of the serial transport
const (
	ReadBufferSize = 2048 // Receive FIFO capacity
	ReadChunkSize  = 64   // Bytes pulled from the driver per read
)
