package protocol

import "errors"

// ErrEmpty is returned by ReadByte when no data is buffered
var ErrEmpty = errors.New("fifo empty")

// ByteFIFO is a fixed-capacity ring of received bytes. It is not
// synchronised; transports guard it with their own lock.
type ByteFIFO struct {
	buf  []byte
	head int // Oldest byte
	n    int // Bytes stored
}

// NewByteFIFO creates a FIFO holding up to capacity bytes.
func NewByteFIFO(capacity int) *ByteFIFO {
	if capacity < 1 {
		capacity = 1
	}
	return &ByteFIFO{buf: make([]byte, capacity)}
}

// Write stores as much of data as fits and returns the count stored.
// Bytes past the free space are not stored; the caller accounts for them.
func (f *ByteFIFO) Write(data []byte) int {
	stored := 0
	for _, b := range data {
		if f.n == len(f.buf) {
			break
		}
		f.buf[(f.head+f.n)%len(f.buf)] = b
		f.n++
		stored++
	}
	return stored
}

// ReadByte removes and returns the oldest byte
func (f *ByteFIFO) ReadByte() (byte, error) {
	if f.n == 0 {
		return 0, ErrEmpty
	}
	b := f.buf[f.head]
	f.head = (f.head + 1) % len(f.buf)
	f.n--
	return b, nil
}

// Available returns the number of buffered bytes
func (f *ByteFIFO) Available() int {
	return f.n
}

// Free returns the remaining capacity
func (f *ByteFIFO) Free() int {
	return len(f.buf) - f.n
}

// Reset discards everything buffered
func (f *ByteFIFO) Reset() {
	f.head = 0
	f.n = 0
}
