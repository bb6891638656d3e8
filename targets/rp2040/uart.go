//go:build rp2040

package main

import (
	"context"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

// Command link settings
const (
	commandBaud = 115200
	commandTX   = machine.GPIO0
	commandRX   = machine.GPIO1
)

// commandUART adapts uartx to io.ReadWriter. Read blocks until at least one
// byte arrives, which is what the transport reader goroutine expects.
type commandUART struct {
	u *uartx.UART
}

func (c *commandUART) Read(p []byte) (int, error) {
	return c.u.RecvSomeContext(context.Background(), p)
}

func (c *commandUART) Write(p []byte) (int, error) {
	return c.u.Write(p)
}

// InitCommandUART configures UART0 as the command link
func InitCommandUART() (*commandUART, error) {
	u := uartx.UART0
	err := u.Configure(uartx.UARTConfig{
		BaudRate: commandBaud,
		TX:       commandTX,
		RX:       commandRX,
	})
	if err != nil {
		return nil, err
	}
	return &commandUART{u: u}, nil
}
