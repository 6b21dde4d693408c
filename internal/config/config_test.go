// ABOUTME: Tests for CLI configuration loading
// ABOUTME: Covers defaults, file parsing and validation failures
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lanxictl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Device.TimeoutSeconds)
	assert.Equal(t, ".", cfg.Output.Directory)
	assert.Equal(t, 131072, cfg.Recording.SampleRate)
	assert.Equal(t, 10.0, cfg.Recording.DurationSeconds)
	assert.Empty(t, cfg.Channels)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
device:
  address: 192.168.1.101
output:
  directory: /data/recordings
recording:
  name: Shaker sweep
  sample_rate: 8192
  duration_seconds: 10
channels:
  - channel: 1
    name: Input signal
    filter: 7.0 Hz
    range: 10 Vpeak
  - channel: 2
    name: Accel
    sensitivity: 0.0997
    unit: m per s2
    powered: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.101", cfg.Device.Address)
	assert.Equal(t, "/data/recordings", cfg.Output.Directory)
	assert.Equal(t, "Shaker sweep", cfg.Recording.Name)
	assert.Equal(t, 8192, cfg.Recording.SampleRate)

	require.Len(t, cfg.Channels, 2)
	assert.Equal(t, "Input signal", cfg.Channels[0].Name)
	assert.True(t, cfg.Channels[1].Powered)
	// Omitted filter and range take device defaults.
	assert.Equal(t, "7.0 Hz", cfg.Channels[1].Filter)
	assert.Equal(t, "10 Vpeak", cfg.Channels[1].Range)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 131072, cfg.Recording.SampleRate)
}

func TestValidateBadSampleRate(t *testing.T) {
	path := writeConfig(t, "recording:\n  sample_rate: 44100\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "sample_rate")
}

func TestValidateBadDuration(t *testing.T) {
	path := writeConfig(t, "recording:\n  duration_seconds: -1\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "duration_seconds")
}

func TestValidateDuplicateChannel(t *testing.T) {
	path := writeConfig(t, `
channels:
  - channel: 1
  - channel: 1
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "defined twice")
}

func TestValidateChannelNumber(t *testing.T) {
	path := writeConfig(t, "channels:\n  - channel: 0\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "must be >= 1")
}
