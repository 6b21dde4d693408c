// ABOUTME: Client-side settings snapshot and setters
// ABOUTME: Immutable rebuild on every change so last-write-wins stays auditable
package lanxi

import (
	"fmt"
	"regexp"
	"strings"
)

// Supported per-channel filter settings.
var supportedFilters = []string{
	"DC", "0.1 Hz 10%", "0.7 Hz", "1.0 Hz 10%", "7.0 Hz", "22.4 Hz", "Intensity",
}

// Supported input ranges.
var supportedRanges = []string{"10 Vpeak", "31.6 Vpeak"}

// sampleRateBandwidth maps the discrete sample rates to the bandwidth
// strings the device configures channels with.
var sampleRateBandwidth = map[int]string{
	131072: "51.2 kHz",
	65536:  "25.6 kHz",
	32768:  "12.8 kHz",
	16384:  "6.4 kHz",
	8192:   "3.2 kHz",
	4096:   "1.6 kHz",
}

// maxNameLen is the device-imposed label length limit; longer names are
// truncated, not rejected.
const maxNameLen = 64

// The firmware is picky about label characters; allow a conservative set.
var labelChars = regexp.MustCompile(`^[a-zA-Z0-9\-_ .]*$`)

// Settings is the input configuration document pushed to the device. It is
// treated as an immutable snapshot: setters clone it, never mutate in place.
type Settings struct {
	Name     string    `json:"name"`
	Channels []Channel `json:"channels"`
}

// Channel is one input lane's configuration.
type Channel struct {
	Enabled    bool       `json:"enabled"`
	Name       string     `json:"name"`
	Bandwidth  string     `json:"bandwidth"`
	Filter     string     `json:"filter"`
	Range      string     `json:"range"`
	CCLD       bool       `json:"ccld"` // constant-current transducer power
	Transducer Transducer `json:"transducer"`
}

// Transducer describes the sensor wired to a channel.
type Transducer struct {
	Sensitivity  float64        `json:"sensitivity"`
	Unit         string         `json:"unit"`
	SerialNumber string         `json:"serialNumber"`
	Type         TransducerType `json:"type"`
}

// TransducerType is the firmware's nested type record.
type TransducerType struct {
	Number string `json:"number"`
}

// clone deep-copies a settings snapshot.
func (s Settings) clone() Settings {
	out := s
	out.Channels = make([]Channel, len(s.Channels))
	copy(out.Channels, s.Channels)
	return out
}

// SampleRate reports the configured sample rate, 0 when the bandwidth is
// not one the client knows.
func (s Settings) SampleRate() int {
	if len(s.Channels) == 0 {
		return 0
	}
	for rate, bw := range sampleRateBandwidth {
		if bw == s.Channels[0].Bandwidth {
			return rate
		}
	}
	return 0
}

// ChannelConfig carries the caller-facing parameters for SetChannel.
// Zero-valued optional fields take device defaults.
type ChannelConfig struct {
	Name           string  // default "Channel <n>"
	Filter         string  // required, one of supportedFilters
	Range          string  // required, one of supportedRanges
	Sensitivity    float64 // default 1
	Unit           string  // default "V"
	Powered        bool    // transducer excitation power
	SerialNumber   string  // default "0"
	TransducerType string  // default "None"
}

// checkLabel validates the conservative character set the device accepts.
func checkLabel(what, s string) error {
	if !labelChars.MatchString(s) {
		return invalidf("%s %q may only contain a-z, A-Z, 0-9, '-', '_', ' ' and '.'", what, s)
	}
	return nil
}

// checkChannel bounds-checks a 1-based channel number.
func (i *Instrument) checkChannel(channel int) error {
	if channel < 1 || channel > i.info.NumberOfInputChannels {
		return invalidf("channel %d out of range 1..%d", channel, i.info.NumberOfInputChannels)
	}
	return nil
}

// DisableAll disables every channel for the next recording. Idempotent.
func (i *Instrument) DisableAll() {
	s := i.settings.clone()
	for ch := range s.Channels {
		s.Channels[ch].Enabled = false
	}
	i.settings = s
}

// EnableChannel enables one channel without touching its configuration.
func (i *Instrument) EnableChannel(channel int) error {
	if err := i.checkChannel(channel); err != nil {
		return err
	}
	s := i.settings.clone()
	s.Channels[channel-1].Enabled = true
	i.settings = s
	return nil
}

// DisableChannel disables one channel.
func (i *Instrument) DisableChannel(channel int) error {
	if err := i.checkChannel(channel); err != nil {
		return err
	}
	s := i.settings.clone()
	s.Channels[channel-1].Enabled = false
	i.settings = s
	return nil
}

// SetSampleRate sets the device-wide sample rate. The rate must be one of
// the discrete supported rates.
func (i *Instrument) SetSampleRate(rate int) error {
	bw, ok := sampleRateBandwidth[rate]
	if !ok {
		return invalidf("sample rate %d not supported, want one of %v", rate, supportedSampleRates())
	}
	s := i.settings.clone()
	for ch := range s.Channels {
		s.Channels[ch].Bandwidth = bw
	}
	i.settings = s
	return nil
}

// SetName sets the label for the next recording. Names beyond the device
// limit are truncated.
func (i *Instrument) SetName(name string) error {
	if err := checkLabel("name", name); err != nil {
		return err
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	s := i.settings.clone()
	s.Name = name
	i.settings = s
	return nil
}

// SetChannel configures one channel, overwriting any prior configuration of
// that channel completely (last write wins, no merge).
func (i *Instrument) SetChannel(channel int, cfg ChannelConfig) error {
	if err := i.checkChannel(channel); err != nil {
		return err
	}
	if !contains(supportedFilters, cfg.Filter) {
		return invalidf("filter %q not supported, want one of %v", cfg.Filter, supportedFilters)
	}
	if !contains(supportedRanges, cfg.Range) {
		return invalidf("range %q not supported, want one of %v", cfg.Range, supportedRanges)
	}

	if cfg.Name == "" {
		cfg.Name = fmt.Sprintf("Channel %d", channel)
	}
	if cfg.Sensitivity == 0 {
		cfg.Sensitivity = 1
	}
	if cfg.Unit == "" {
		cfg.Unit = "V"
	}
	if cfg.SerialNumber == "" {
		cfg.SerialNumber = "0"
	}
	if cfg.TransducerType == "" {
		cfg.TransducerType = "None"
	}

	for _, check := range []struct{ what, val string }{
		{"channel name", cfg.Name},
		{"unit", cfg.Unit},
		{"serial number", cfg.SerialNumber},
		{"transducer type", cfg.TransducerType},
	} {
		if err := checkLabel(check.what, check.val); err != nil {
			return err
		}
	}

	s := i.settings.clone()
	prev := s.Channels[channel-1]
	s.Channels[channel-1] = Channel{
		Enabled:   true,
		Name:      cfg.Name,
		Bandwidth: prev.Bandwidth, // sample rate is device-wide
		Filter:    cfg.Filter,
		Range:     cfg.Range,
		CCLD:      cfg.Powered,
		Transducer: Transducer{
			Sensitivity:  cfg.Sensitivity,
			Unit:         cfg.Unit,
			SerialNumber: cfg.SerialNumber,
			Type:         TransducerType{Number: cfg.TransducerType},
		},
	}
	i.settings = s
	return nil
}

// Settings returns the current snapshot.
func (i *Instrument) Settings() Settings {
	return i.settings.clone()
}

// SampleRate reports the currently configured sample rate.
func (i *Instrument) SampleRate() int {
	return i.settings.SampleRate()
}

// AdoptSettings takes a stored recording's setup as the snapshot for the
// next recording.
func (i *Instrument) AdoptSettings(rec Recording) {
	s := Settings{Name: rec.Setup.Name, Channels: make([]Channel, len(rec.Setup.Channels))}
	copy(s.Channels, rec.Setup.Channels)
	i.settings = s
}

// describeSettings renders a snapshot the way the CLI shows it.
func describeSettings(s Settings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\t%s\n", s.Name)
	for idx, ch := range s.Channels {
		if !ch.Enabled {
			continue
		}
		powered := "."
		if ch.CCLD {
			powered = ", Powered."
		}
		fmt.Fprintf(&b, "\tChannel %d : %s\n\t\t%s, %s filter, %s, %gV/%s%s\n",
			idx+1, ch.Name, ch.Bandwidth, ch.Filter, ch.Range,
			ch.Transducer.Sensitivity, ch.Transducer.Unit, powered)
	}
	return b.String()
}

func supportedSampleRates() []int {
	return []int{4096, 8192, 16384, 32768, 65536, 131072}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
