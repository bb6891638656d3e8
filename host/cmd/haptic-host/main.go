// Command haptic-host drives the haptic board's command UART from a
// workstation.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"hapticfw/host/config"
	"hapticfw/host/console"
	"hapticfw/host/report"
	"hapticfw/host/serial"
)

var (
	configPath = flag.String("config", "", "YAML configuration file")
	device     = flag.String("device", "", "Serial device path (overrides config)")
	baud       = flag.Int("baud", 0, "Baud rate (overrides config)")
	evalOnly   = flag.Bool("e", false, "Run the command given as arguments and exit")
)

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return nil, err
		}
	}
	if *device != "" {
		cfg.Serial.Device = *device
	}
	if *baud != 0 {
		cfg.Serial.Baud = *baud
	}
	return cfg, config.Validate(cfg)
}

func newReporter(cfg config.MQTTConfig) report.Reporter {
	if cfg.Broker == "" {
		return report.NopReporter{}
	}
	r, err := report.NewMQTTReporter(cfg.Broker, cfg.Topic)
	if err != nil {
		glog.Warningf("self-test reporting disabled: %v", err)
		return report.NopReporter{}
	}
	glog.Infof("reporting self-tests to %s", r.Topic())
	return r
}

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	port, err := serial.Open(&serial.Config{
		Device:      cfg.Serial.Device,
		Baud:        cfg.Serial.Baud,
		ReadTimeout: cfg.Serial.ReadTimeoutMs,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := port.Flush(); err != nil {
		glog.Warningf("flush %s: %v", cfg.Serial.Device, err)
	}
	glog.Infof("connected to %s at %d baud", cfg.Serial.Device, cfg.Serial.Baud)

	client := console.New(port, console.Options{
		ReplyTimeout:    cfg.Serial.ReplyTimeout(),
		SelfTestTimeout: cfg.Serial.SelfTestTimeout(),
	})
	defer client.Close()

	reporter := newReporter(cfg.MQTT)
	defer reporter.Close()

	sh := NewShell(client, reporter)
	if err := sh.Run(!*evalOnly, flag.Args()...); err != nil {
		glog.Errorf("%v", err)
		glog.Flush()
		os.Exit(1)
	}
}
