package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"hapticfw/core"
	"hapticfw/host/console"
	"hapticfw/host/report"
)

const shellKey = "$haptic"

// Shell is the interactive front end of a console client.
type Shell struct {
	Shell    *ishell.Shell
	Client   *console.Client
	Reporter report.Reporter

	monitor int32
}

// NewShell creates a shell with all commands registered.
func NewShell(client *console.Client, reporter report.Reporter) *Shell {
	s := &Shell{
		Shell:    ishell.New(),
		Client:   client,
		Reporter: reporter,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt("haptic > ")
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	client.SetMonitor(s.onLine)
	return s
}

// ShellFrom gets the Shell from an ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Run processes args as one command, or starts the interactive shell
// when there are none.
func (s *Shell) Run(interactive bool, args ...string) error {
	if len(args) > 0 {
		return s.Shell.Process(args...)
	}
	if !interactive {
		return errors.New("command expected")
	}
	s.Shell.Println("x-IMU3 haptic console. Type 'help' for commands.")
	s.Shell.Run()
	return nil
}

func (s *Shell) onLine(line string) {
	if atomic.LoadInt32(&s.monitor) != 0 {
		s.Shell.Println("<< " + line)
	}
	glog.V(2).Infof("RX %q", line)
}

var commands = []*ishell.Cmd{
	&PlayCmd,
	&TestCmd,
	&VersionCmd,
	&BoardHelpCmd,
	&RawCmd,
	&MonitorCmd,
}

var (
	// PlayCmd plays one waveform library effect.
	PlayCmd = ishell.Cmd{
		Name:    "play",
		Aliases: []string{"p"},
		Help:    "EFFECT (0-123)",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(errors.New("usage: play EFFECT"))
				return
			}
			effect, err := strconv.ParseInt(c.Args[0], 0, 32)
			if err != nil {
				c.Err(fmt.Errorf("bad effect %q", c.Args[0]))
				return
			}
			if err := ShellFrom(c).Client.Play(int(effect)); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		},
	}

	// TestCmd runs the board self-test and reports the result.
	TestCmd = ishell.Cmd{
		Name:    "test",
		Aliases: []string{"t"},
		Help:    "run the actuator self-test",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			c.Println("Running self-test...")
			result, err := s.Client.SelfTest()
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(core.ResultToText(result))

			version, err := s.Client.Version()
			if err != nil {
				glog.Warningf("version for report: %v", err)
			}
			if err := s.Reporter.Report(report.NewReport(result, version)); err != nil {
				c.Err(fmt.Errorf("report: %w", err))
			}
		},
	}

	// VersionCmd prints the firmware version.
	VersionCmd = ishell.Cmd{
		Name:    "version",
		Aliases: []string{"v"},
		Help:    "print the firmware version",
		Func: func(c *ishell.Context) {
			version, err := ShellFrom(c).Client.Version()
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(version)
		},
	}

	// BoardHelpCmd prints the board's own command summary.
	BoardHelpCmd = ishell.Cmd{
		Name: "board-help",
		Help: "print the firmware's command list",
		Func: func(c *ishell.Context) {
			help, err := ShellFrom(c).Client.Help()
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(help)
		},
	}

	// RawCmd sends a line unchanged and prints every reply.
	RawCmd = ishell.Cmd{
		Name:    "raw",
		Aliases: []string{"r"},
		Help:    "LINE",
		Func: func(c *ishell.Context) {
			replies, err := ShellFrom(c).Client.Raw(strings.Join(c.Args, " "))
			for _, reply := range replies {
				c.Println(reply)
			}
			if err != nil {
				c.Err(err)
			}
		},
	}

	// MonitorCmd toggles printing of every received line.
	MonitorCmd = ishell.Cmd{
		Name:    "monitor",
		Aliases: []string{"m"},
		Help:    "on|off",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			on := atomic.LoadInt32(&s.monitor) == 0
			if len(c.Args) == 1 {
				on = c.Args[0] == "on"
			}
			var v int32
			if on {
				v = 1
			}
			atomic.StoreInt32(&s.monitor, v)
			c.Printf("monitor %v\n", on)
		},
	}
)
