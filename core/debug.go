package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event records a bus or receiver event for post-mortem analysis
type Event struct {
	Type  uint8 // Event type code
	Reg   uint8 // Register, when relevant
	Value uint8 // Value written or read
}

// Event type codes
const (
	EvtRegWrite = 1 // Register written
	EvtRegRead  = 2 // Register read
	EvtSelfTest = 3 // Self-test finished, Value = SelfTestResult
	EvtOverrun  = 4 // Receive buffer overrun
	EvtCommand  = 5 // Command line dispatched, Value = line length
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Event capture ring buffer (non-blocking, for post-mortem)
	eventRing     [EventRingSize]Event
	eventRingHead uint8        // Next write position
	eventsEnabled bool  = true // Always capture events

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16) // Buffer 16 messages
	go debugOutputWorker()
}

// debugOutputWorker runs in background, drains debug channel
func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking)
// Returns immediately even if channel is full (drops message)
func DebugAsync(msg string) {
	if debugChan != nil && debugEnabled {
		select {
		case debugChan <- msg:
		default:
		}
	}
}

// RecordEvent captures an event in the ring buffer
func RecordEvent(eventType, reg, value uint8) {
	if !eventsEnabled {
		return
	}
	idx := eventRingHead
	eventRing[idx] = Event{
		Type:  eventType,
		Reg:   reg,
		Value: value,
	}
	eventRingHead = (idx + 1) % EventRingSize
}

// RecentEvents returns the captured events, oldest first
func RecentEvents() []Event {
	events := make([]Event, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.Type == 0 {
			continue // Empty slot
		}
		events = append(events, evt)
	}
	return events
}

// DumpEvents outputs the event ring buffer (call on panic recovery)
func DumpEvents() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[EVENTS] === Event Ring Dump ===")
	for _, evt := range RecentEvents() {
		var name string
		switch evt.Type {
		case EvtRegWrite:
			name = "REG_WRITE"
		case EvtRegRead:
			name = "REG_READ"
		case EvtSelfTest:
			name = "SELF_TEST"
		case EvtOverrun:
			name = "OVERRUN"
		case EvtCommand:
			name = "COMMAND"
		default:
			name = "UNKNOWN"
		}

		debugPrintln("[EVENTS] " + name +
			" reg=0x" + hex8(evt.Reg) +
			" value=" + utoa(uint32(evt.Value)))
	}
	debugPrintln("[EVENTS] === End Dump ===")
}

// ClearEvents clears the event buffer
func ClearEvents() {
	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventRingHead = 0
}
