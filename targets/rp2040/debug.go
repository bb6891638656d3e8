//go:build rp2040

package main

import (
	"machine"

	"hapticfw/core"
)

// debugOutput enables the USB CDC debug channel. The command link is UART0,
// so debug text never mixes with command replies.
const debugOutput = true

// InitDebug routes core debug output to USB CDC
func InitDebug() {
	core.SetDebugWriter(func(s string) {
		_, _ = machine.Serial.Write([]byte(s + "\r\n"))
	})
	core.SetDebugEnabled(debugOutput)
	core.InitAsyncDebug()
}
