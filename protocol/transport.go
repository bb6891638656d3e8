package protocol

import (
	"io"
	"strconv"
	"sync"
	"time"
)

// LogFunc receives transport diagnostics
type LogFunc func(msg string)

// StreamTransport feeds bytes from a blocking reader into a FIFO so the main
// loop can poll them without blocking. Output goes straight to the writer.
type StreamTransport struct {
	mu sync.Mutex
	rx *ByteFIFO

	r io.Reader
	w io.Writer

	dropped  uint32 // Bytes lost to a full FIFO
	reported uint32
	readErr  error
	errShown bool

	log LogFunc
}

// NewStreamTransport creates a transport reading r and writing w.
// rxSize <= 0 selects ReadBufferSize.
func NewStreamTransport(r io.Reader, w io.Writer, rxSize int) *StreamTransport {
	if rxSize <= 0 {
		rxSize = ReadBufferSize
	}
	return &StreamTransport{
		rx: NewByteFIFO(rxSize),
		r:  r,
		w:  w,
	}
}

// SetLogger sets the diagnostics sink used by Tasks
func (t *StreamTransport) SetLogger(log LogFunc) {
	t.log = log
}

// Start launches the reader goroutine
func (t *StreamTransport) Start() {
	go t.readerLoop()
}

func (t *StreamTransport) readerLoop() {
	buf := make([]byte, ReadChunkSize)
	for {
		n, err := t.r.Read(buf)
		if n > 0 {
			t.Push(buf[:n])
		}
		if err != nil {
			t.mu.Lock()
			t.readErr = err
			t.mu.Unlock()
			return
		}
		if n == 0 {
			// Yield to avoid a busy loop
			time.Sleep(100 * time.Microsecond)
		}
	}
}

// Push appends received bytes; bytes that do not fit are dropped and
// counted. Returns the number of bytes stored.
func (t *StreamTransport) Push(data []byte) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	written := t.rx.Write(data)
	t.dropped += uint32(len(data) - written)
	return written
}

// Available returns the number of buffered bytes
func (t *StreamTransport) Available() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rx.Available()
}

// ReadByte removes one buffered byte
func (t *StreamTransport) ReadByte() (byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rx.ReadByte()
}

// Write sends p to the output
func (t *StreamTransport) Write(p []byte) (int, error) {
	return t.w.Write(p)
}

// Tasks reports dropped bytes and a terminated reader
func (t *StreamTransport) Tasks() {
	t.mu.Lock()
	dropped := t.dropped - t.reported
	t.reported = t.dropped
	err := t.readErr
	showErr := err != nil && !t.errShown
	if showErr {
		t.errShown = true
	}
	t.mu.Unlock()

	if t.log == nil {
		return
	}
	if dropped > 0 {
		t.log("[SERIAL] receive FIFO full, dropped " + strconv.FormatUint(uint64(dropped), 10) + " bytes")
	}
	if showErr {
		t.log("[SERIAL] reader stopped: " + err.Error())
	}
}

// Dropped returns the total number of bytes lost to a full FIFO
func (t *StreamTransport) Dropped() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dropped
}

// Err returns the error that stopped the reader, if any
func (t *StreamTransport) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.readErr
}
