// Package config loads the bridge settings from a TOML file.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Protocol names accepted in [decoder].
const (
	ProtocolFrame = "frame"
	ProtocolBlock = "block"
)

type Config struct {
	Serial  SerialConfig  `toml:"serial"`
	OSC     OSCConfig     `toml:"osc"`
	Decoder DecoderConfig `toml:"decoder"`
	Monitor MonitorConfig `toml:"monitor"`
	Log     LogConfig     `toml:"log"`
}

type SerialConfig struct {
	Port string `toml:"port"`
	Baud int    `toml:"baud"`
}

type OSCConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type DecoderConfig struct {
	Protocol string `toml:"protocol"`
}

// MonitorConfig enables the HTTP monitor when Addr is set.
type MonitorConfig struct {
	Addr string `toml:"addr"`
}

type LogConfig struct {
	Level string `toml:"level"`

	// Verbose logs every event, same as level "debug".
	Verbose bool `toml:"verbose"`
}

// Default returns the settings used without a config file.
func Default() Config {
	return Config{
		Serial:  SerialConfig{Port: "/dev/ttyACM0", Baud: 38400},
		OSC:     OSCConfig{Host: "127.0.0.1", Port: 12000},
		Decoder: DecoderConfig{Protocol: ProtocolFrame},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Serial.Port) == "" {
		return fmt.Errorf("serial.port is required")
	}
	if cfg.Serial.Baud <= 0 {
		return fmt.Errorf("serial.baud must be positive, got %d", cfg.Serial.Baud)
	}
	if strings.TrimSpace(cfg.OSC.Host) == "" {
		return fmt.Errorf("osc.host is required")
	}
	if cfg.OSC.Port <= 0 || cfg.OSC.Port > 65535 {
		return fmt.Errorf("osc.port out of range: %d", cfg.OSC.Port)
	}
	switch cfg.Decoder.Protocol {
	case ProtocolFrame, ProtocolBlock:
	default:
		return fmt.Errorf("unknown decoder.protocol %q", cfg.Decoder.Protocol)
	}
	return nil
}

// LogLevel returns the effective log level name.
func (cfg Config) LogLevel() string {
	if cfg.Log.Verbose {
		return "debug"
	}
	if cfg.Log.Level == "" {
		return "info"
	}
	return cfg.Log.Level
}
