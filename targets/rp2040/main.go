//go:build rp2040

package main

import (
	"machine"
	"time"

	"hapticfw/core"
	"hapticfw/protocol"
)

func main() {
	// Read before anything touches the watchdog
	cause := ReadResetCause()

	// Disable a watchdog left running by the previous image
	_ = machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})

	InitDebug()

	// Command link
	uart, err := InitCommandUART()
	if err != nil {
		core.DebugPrintln("[UART] configure failed: " + err.Error())
		blinkForever()
	}
	transport := protocol.NewStreamTransport(uart, uart, protocol.ReadBufferSize)
	transport.SetLogger(core.DebugAsync)
	transport.Start()

	// Register bus
	bus, err := NewBus(GetBusMode())
	if err != nil {
		// Keep serving commands; the self-test will report ACK failed
		core.DebugPrintln("[I2C] " + err.Error())
		bus = core.NewTxBus(nil)
	}

	fw := core.NewFirmware(bus, transport, core.DefaultHapticConfig())
	fw.Start(cause)
	fw.Run(nil)
}

// blinkForever flashes the LED rapidly to indicate a fatal start-up error
func blinkForever() {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		led.High()
		time.Sleep(100 * time.Millisecond)
		led.Low()
		time.Sleep(100 * time.Millisecond)
	}
}
