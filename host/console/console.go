// Package console drives the haptic firmware's line protocol from a host.
package console

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"hapticfw/core"
	"hapticfw/protocol"
)

var (
	ErrReplyTimeout   = errors.New("console: no reply from device")
	ErrInvalidCommand = errors.New("console: device rejected command")
	ErrUnknownResult  = errors.New("console: unrecognised self-test result")
)

// Firmware reply texts
const (
	replyInvalidEffect  = "Invalid haptic effect"
	replyInvalidCommand = "Invalid command "
	replyOverrun        = "Receive buffer overrun"
)

// Options tune reply waiting. Zero fields take defaults.
type Options struct {
	// ReplyTimeout bounds the wait for version and help replies
	ReplyTimeout time.Duration

	// SelfTestTimeout bounds the wait for the self-test result
	SelfTestTimeout time.Duration

	// QuietPeriod is how long Play waits for an error reply. A successful
	// effect command produces no output.
	QuietPeriod time.Duration
}

func (o *Options) applyDefaults() {
	if o.ReplyTimeout == 0 {
		o.ReplyTimeout = 500 * time.Millisecond
	}
	if o.SelfTestTimeout == 0 {
		o.SelfTestTimeout = 10 * time.Second
	}
	if o.QuietPeriod == 0 {
		o.QuietPeriod = 50 * time.Millisecond
	}
}

// Client sends commands to the firmware and interprets the replies.
// Commands are serialised by the caller; a Client is not safe for
// concurrent commands.
type Client struct {
	t    *protocol.HostTransport
	opts Options
}

// New creates a client on port. The client owns the port and closes it.
func New(port io.ReadWriteCloser, opts Options) *Client {
	opts.applyDefaults()
	return &Client{
		t:    protocol.NewHostTransport(port),
		opts: opts,
	}
}

// Close stops the client and closes the port
func (c *Client) Close() error {
	return c.t.Close()
}

// SetMonitor sets a callback for every line the device prints, including
// unsolicited ones such as the start-up banner.
func (c *Client) SetMonitor(fn func(line string)) {
	c.t.SetLineHandler(fn)
}

// Send writes one raw command line after discarding stale replies
func (c *Client) Send(line string) error {
	if strings.ContainsRune(line, '\n') {
		return fmt.Errorf("console: line must not contain a newline")
	}
	c.t.Drain()
	return c.t.SendLine(line)
}

// ReadLine returns the next reply line
func (c *Client) ReadLine(timeout time.Duration) (string, error) {
	line, err := c.t.ReceiveLine(timeout)
	if err == protocol.ErrLineTimeout {
		return "", ErrReplyTimeout
	}
	return line, err
}

// Play triggers a waveform library effect
func (c *Client) Play(effect int) error {
	if err := c.Send(strconv.Itoa(effect)); err != nil {
		return err
	}
	line, err := c.ReadLine(c.opts.QuietPeriod)
	if err == ErrReplyTimeout {
		return nil
	}
	if err != nil {
		return err
	}
	return classify(line)
}

// SelfTest runs the device self-test and returns its result
func (c *Client) SelfTest() (core.SelfTestResult, error) {
	if err := c.Send("test"); err != nil {
		return 0, err
	}
	line, err := c.ReadLine(c.opts.SelfTestTimeout)
	if err != nil {
		return 0, err
	}
	if err := classify(line); err != nil {
		return 0, err
	}
	return ParseSelfTestResult(line)
}

// Version returns the firmware version string
func (c *Client) Version() (string, error) {
	return c.query("version")
}

// Help returns the firmware's command summary
func (c *Client) Help() (string, error) {
	return c.query("help")
}

func (c *Client) query(cmd string) (string, error) {
	if err := c.Send(cmd); err != nil {
		return "", err
	}
	line, err := c.ReadLine(c.opts.ReplyTimeout)
	if err != nil {
		return "", err
	}
	if err := classify(line); err != nil {
		return "", err
	}
	return line, nil
}

// Raw sends line and collects every reply until the device goes quiet
// for ReplyTimeout.
func (c *Client) Raw(line string) ([]string, error) {
	if err := c.Send(line); err != nil {
		return nil, err
	}
	var replies []string
	for {
		reply, err := c.ReadLine(c.opts.ReplyTimeout)
		if err == ErrReplyTimeout {
			return replies, nil
		}
		if err != nil {
			return replies, err
		}
		replies = append(replies, reply)
	}
}

// classify maps the firmware's error replies to errors
func classify(line string) error {
	switch {
	case line == replyInvalidEffect:
		return core.ErrInvalidEffect
	case strings.HasPrefix(line, replyInvalidCommand):
		return fmt.Errorf("%w: %q", ErrInvalidCommand, strings.TrimPrefix(line, replyInvalidCommand))
	case line == replyOverrun:
		return fmt.Errorf("%w: line too long", ErrInvalidCommand)
	}
	return nil
}

// ParseSelfTestResult maps a self-test reply back to its result
func ParseSelfTestResult(text string) (core.SelfTestResult, error) {
	for r := core.SelfTestPassed; ; r++ {
		name := core.ResultToText(r)
		if name == "" {
			break
		}
		if name == text {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownResult, text)
}
