package protocol

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var (
	ErrLineTimeout     = errors.New("line timeout")
	ErrTransportClosed = errors.New("transport stopped")
)

// LineHandler is called for every line received from the device
type LineHandler func(line string)

// HostTransport is the host side of the line protocol: it writes command
// lines and delivers reply lines, read by a background goroutine.
type HostTransport struct {
	// Serial I/O
	port io.ReadWriteCloser

	// Bytes read but not yet split into lines
	inputBuffer *ByteFIFO
	partial     []byte

	// Received lines for synchronous retrieval
	lineChan chan string

	// Optional callback, e.g. for a monitor
	handlerMutex sync.RWMutex
	lineHandler  LineHandler

	writeMutex sync.Mutex
	readMutex  sync.Mutex

	stopChan  chan struct{}
	doneChan  chan struct{}
	closeOnce sync.Once
}

// NewHostTransport creates a transport on port and starts its reader
func NewHostTransport(port io.ReadWriteCloser) *HostTransport {
	t := &HostTransport{
		port:        port,
		inputBuffer: NewByteFIFO(ReadBufferSize),
		partial:     make([]byte, 0, ReadChunkSize),
		lineChan:    make(chan string, 16),
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
	}

	go t.readLoop()

	return t
}

// SendLine writes line followed by the newline terminator
func (t *HostTransport) SendLine(line string) error {
	t.writeMutex.Lock()
	defer t.writeMutex.Unlock()

	msg := []byte(line + "\n")
	n, err := t.port.Write(msg)
	if err != nil {
		return err
	}
	if n != len(msg) {
		return fmt.Errorf("incomplete write: %d/%d bytes", n, len(msg))
	}
	return nil
}

// ReceiveLine returns the next line, waiting at most timeout
func (t *HostTransport) ReceiveLine(timeout time.Duration) (string, error) {
	select {
	case line := <-t.lineChan:
		return line, nil

	case <-time.After(timeout):
		return "", ErrLineTimeout

	case <-t.stopChan:
		return "", ErrTransportClosed
	}
}

// SetLineHandler sets a callback run for every received line
func (t *HostTransport) SetLineHandler(handler LineHandler) {
	t.handlerMutex.Lock()
	defer t.handlerMutex.Unlock()
	t.lineHandler = handler
}

// readLoop continuously reads from the port and splits lines
func (t *HostTransport) readLoop() {
	defer close(t.doneChan)

	buffer := make([]byte, 256)

	for {
		select {
		case <-t.stopChan:
			return
		default:
		}

		n, err := t.port.Read(buffer)
		if n > 0 {
			t.inputBuffer.Write(buffer[:n])
			t.processLines()
		}
		if err != nil {
			// Serial ports report a read timeout as EOF; retry until closed
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// processLines moves complete lines from the input buffer to the consumers
func (t *HostTransport) processLines() {
	t.readMutex.Lock()
	defer t.readMutex.Unlock()

	for {
		b, err := t.inputBuffer.ReadByte()
		if err != nil {
			return
		}
		if b != '\n' {
			t.partial = append(t.partial, b)
			continue
		}
		line := strings.TrimSuffix(string(t.partial), "\r")
		t.partial = t.partial[:0]
		t.dispatchLine(line)
	}
}

func (t *HostTransport) dispatchLine(line string) {
	t.handlerMutex.RLock()
	handler := t.lineHandler
	t.handlerMutex.RUnlock()
	if handler != nil {
		handler(line)
	}

	select {
	case t.lineChan <- line:
	default:
		// Channel full, drop oldest
		select {
		case <-t.lineChan:
		default:
		}
		t.lineChan <- line
	}
}

// Drain discards received but unread lines
func (t *HostTransport) Drain() {
	for {
		select {
		case <-t.lineChan:
		default:
			return
		}
	}
}

// Close stops the reader and closes the port
func (t *HostTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.stopChan)
		// Closing the port unblocks a pending Read
		if t.port != nil {
			err = t.port.Close()
		}
		<-t.doneChan
	})
	return err
}
