// ABOUTME: CLI configuration loading and validation
// ABOUTME: Viper-backed YAML config for device address, output and channel definitions
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config is the lanxictl configuration file.
type Config struct {
	Device    DeviceConfig        `mapstructure:"device" yaml:"device"`
	Output    OutputConfig        `mapstructure:"output" yaml:"output"`
	Recording RecordingConfig     `mapstructure:"recording" yaml:"recording"`
	Channels  []ChannelDefinition `mapstructure:"channels" yaml:"channels"`
}

// DeviceConfig locates the instrument.
type DeviceConfig struct {
	Address        string `mapstructure:"address" yaml:"address"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// OutputConfig controls where downloaded containers land.
type OutputConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// RecordingConfig holds defaults for the record command.
type RecordingConfig struct {
	Name            string  `mapstructure:"name" yaml:"name"`
	SampleRate      int     `mapstructure:"sample_rate" yaml:"sample_rate"`
	DurationSeconds float64 `mapstructure:"duration_seconds" yaml:"duration_seconds"`
	SettleSeconds   float64 `mapstructure:"settle_seconds" yaml:"settle_seconds"`
	AutoFetch       bool    `mapstructure:"auto_fetch" yaml:"auto_fetch"`
}

// ChannelDefinition configures one input channel.
type ChannelDefinition struct {
	Channel        int     `mapstructure:"channel" yaml:"channel"`
	Name           string  `mapstructure:"name" yaml:"name"`
	Filter         string  `mapstructure:"filter" yaml:"filter"`
	Range          string  `mapstructure:"range" yaml:"range"`
	Sensitivity    float64 `mapstructure:"sensitivity" yaml:"sensitivity,omitempty"`
	Unit           string  `mapstructure:"unit" yaml:"unit,omitempty"`
	Powered        bool    `mapstructure:"powered" yaml:"powered,omitempty"`
	SerialNumber   string  `mapstructure:"serial_number" yaml:"serial_number,omitempty"`
	TransducerType string  `mapstructure:"transducer_type" yaml:"transducer_type,omitempty"`
}

// DefaultPath is where Load looks when no explicit path is given.
func DefaultPath() string {
	return os.ExpandEnv("$HOME/.config/lanxictl.yaml")
}

// Load reads and validates a config file. A missing file yields defaults,
// so the CLI works with flags alone.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("device.timeout_seconds", 30)
	v.SetDefault("output.directory", ".")
	v.SetDefault("recording.name", "Recording")
	v.SetDefault("recording.sample_rate", 131072)
	v.SetDefault("recording.duration_seconds", 10)
	v.SetDefault("recording.settle_seconds", 2)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyChannelDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyChannelDefaults fills per-channel fields the file may omit.
func applyChannelDefaults(cfg *Config) {
	for i := range cfg.Channels {
		ch := &cfg.Channels[i]
		if ch.Filter == "" {
			ch.Filter = "7.0 Hz"
		}
		if ch.Range == "" {
			ch.Range = "10 Vpeak"
		}
	}
}

var validSampleRates = map[int]bool{
	4096: true, 8192: true, 16384: true, 32768: true, 65536: true, 131072: true,
}

// Validate rejects configurations the device would refuse, before any
// network call happens.
func (c *Config) Validate() error {
	if !validSampleRates[c.Recording.SampleRate] {
		return fmt.Errorf("sample_rate %d is not a supported device rate", c.Recording.SampleRate)
	}
	if c.Recording.DurationSeconds <= 0 {
		return fmt.Errorf("duration_seconds must be positive, got %g", c.Recording.DurationSeconds)
	}
	if c.Recording.SettleSeconds < 0 {
		return fmt.Errorf("settle_seconds must not be negative, got %g", c.Recording.SettleSeconds)
	}
	if c.Device.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.Device.TimeoutSeconds)
	}

	seen := map[int]bool{}
	for _, ch := range c.Channels {
		if ch.Channel < 1 {
			return fmt.Errorf("channel number %d must be >= 1", ch.Channel)
		}
		if seen[ch.Channel] {
			return fmt.Errorf("channel %d defined twice", ch.Channel)
		}
		seen[ch.Channel] = true
	}
	return nil
}
