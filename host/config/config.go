// host/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Serial SerialConfig `yaml:"serial"`
	I2C    I2CConfig    `yaml:"i2c"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
}

// ---- SERIAL (haptic-host) ----

type SerialConfig struct {
	Device            string `yaml:"device"`
	Baud              int    `yaml:"baud"`
	ReadTimeoutMs     int    `yaml:"read_timeout_ms"`
	ReplyTimeoutMs    int    `yaml:"reply_timeout_ms"`
	SelfTestTimeoutMs int    `yaml:"selftest_timeout_ms"`
}

// ---- I2C (haptic-linux) ----

type I2CConfig struct {
	// "hardware" uses an i2c-dev bus, "bitbang" two GPIO lines
	Mode    string `yaml:"mode"`
	Bus     string `yaml:"bus"`
	Address uint8  `yaml:"address"`

	// bitbang only
	SCL         string `yaml:"scl"`
	SDA         string `yaml:"sda"`
	HalfClockUs int    `yaml:"half_clock_us"`
}

// ---- MQTT (optional) ----

type MQTTConfig struct {
	// Empty disables reporting
	Broker string `yaml:"broker"`
	Topic  string `yaml:"topic"`
}

// I2C modes
const (
	ModeHardware = "hardware"
	ModeBitBang  = "bitbang"
)

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	Normalize(cfg)
	return cfg
}

// Load reads, validates and normalizes a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML, validates and normalizes it
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	Normalize(&cfg)
	return &cfg, nil
}

// ReadTimeout is the serial read timeout
func (c SerialConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMs) * time.Millisecond
}

// ReplyTimeout bounds the wait for a command reply
func (c SerialConfig) ReplyTimeout() time.Duration {
	return time.Duration(c.ReplyTimeoutMs) * time.Millisecond
}

// SelfTestTimeout bounds the wait for the self-test result
func (c SerialConfig) SelfTestTimeout() time.Duration {
	return time.Duration(c.SelfTestTimeoutMs) * time.Millisecond
}

// HalfClock is the bit-banged half clock period
func (c I2CConfig) HalfClock() time.Duration {
	return time.Duration(c.HalfClockUs) * time.Microsecond
}
