// Command haptic-linux runs the haptic firmware on a Linux board with the
// DRV2605L on an i2c-dev bus or two GPIO lines. Commands are read from
// stdin and replies written to stdout, so the process can sit behind a
// serial getty, socat or a pipe.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"

	"hapticfw/core"
	"hapticfw/host/config"
	"hapticfw/host/periphbus"
	"hapticfw/protocol"
)

var (
	configPath = flag.String("config", "", "YAML configuration file")
	mode       = flag.String("mode", "", "I2C mode: hardware or bitbang (overrides config)")
	busName    = flag.String("bus", "", "i2c-dev bus name (overrides config)")
)

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return nil, err
		}
	}
	if *mode != "" {
		cfg.I2C.Mode = *mode
	}
	if *busName != "" {
		cfg.I2C.Bus = *busName
	}
	return cfg, config.Validate(cfg)
}

// openBus builds the controller bus described by cfg. The returned
// closer releases the i2c-dev handle, if any.
func openBus(cfg config.I2CConfig) (core.Bus, func(), error) {
	switch cfg.Mode {
	case config.ModeBitBang:
		gpio, bb, err := periphbus.OpenLines(cfg.SCL, cfg.SDA)
		if err != nil {
			return nil, nil, err
		}
		bb.HalfClock = cfg.HalfClock()
		glog.Infof("bit-banged i2c on scl=%s sda=%s", cfg.SCL, cfg.SDA)
		return core.NewBitBangBus(gpio, bb), func() {}, nil

	default:
		bus, err := periphbus.OpenI2C(cfg.Bus)
		if err != nil {
			return nil, nil, err
		}
		glog.Infof("i2c-dev bus %s", cfg.Bus)
		return core.NewTxBus(bus), func() { bus.Close() }, nil
	}
}

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	core.SetDebugWriter(func(msg string) { glog.Info(msg) })
	core.SetDebugEnabled(bool(glog.V(1)))

	bus, closeBus, err := openBus(cfg.I2C)
	if err != nil {
		glog.Errorf("open bus: %v", err)
		glog.Flush()
		os.Exit(1)
	}
	defer closeBus()

	transport := protocol.NewStreamTransport(os.Stdin, os.Stdout, protocol.ReadBufferSize)
	transport.SetLogger(func(msg string) { glog.Warning(msg) })
	transport.Start()

	hcfg := core.DefaultHapticConfig()
	hcfg.Address = core.I2CAddress(cfg.I2C.Address)

	fw := core.NewFirmware(bus, transport, hcfg)
	fw.Start(core.ResetPowerOn)

	done := make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		s := <-sig
		glog.Infof("received %v, stopping", s)
		close(done)
	}()

	fw.Run(done)
}
