// ABOUTME: Tests for the settings snapshot setters
// ABOUTME: Covers validation, defaults and last-write-wins overwrite semantics
package lanxi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetSampleRateRoundTrip(t *testing.T) {
	_, inst := dialFake(t)

	for _, rate := range supportedSampleRates() {
		require.NoError(t, inst.SetSampleRate(rate))
		assert.Equal(t, rate, inst.SampleRate())
	}
}

func TestSetSampleRateUnsupported(t *testing.T) {
	_, inst := dialFake(t)

	err := inst.SetSampleRate(44100)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSetChannelOverwritesCompletely(t *testing.T) {
	_, inst := dialFake(t)

	require.NoError(t, inst.SetChannel(1, ChannelConfig{
		Name:         "Force",
		Filter:       "DC",
		Range:        "31.6 Vpeak",
		Sensitivity:  0.0997,
		Unit:         "N",
		Powered:      true,
		SerialNumber: "12345",
	}))
	require.NoError(t, inst.SetChannel(1, ChannelConfig{
		Name:   "Input signal",
		Filter: "7.0 Hz",
		Range:  "10 Vpeak",
	}))

	ch := inst.Settings().Channels[0]
	assert.True(t, ch.Enabled)
	assert.Equal(t, "Input signal", ch.Name)
	assert.Equal(t, "7.0 Hz", ch.Filter)
	assert.Equal(t, "10 Vpeak", ch.Range)
	// No field leaks from the first call: everything optional is back at
	// its default.
	assert.False(t, ch.CCLD)
	assert.Equal(t, 1.0, ch.Transducer.Sensitivity)
	assert.Equal(t, "V", ch.Transducer.Unit)
	assert.Equal(t, "0", ch.Transducer.SerialNumber)
	assert.Equal(t, "None", ch.Transducer.Type.Number)
}

func TestSetChannelOutOfRange(t *testing.T) {
	_, inst := dialFake(t)

	for _, ch := range []int{0, -1, 5} {
		err := inst.SetChannel(ch, ChannelConfig{Filter: "7.0 Hz", Range: "10 Vpeak"})
		assert.ErrorIs(t, err, ErrInvalidParameter, "channel %d", ch)
	}
}

func TestSetChannelBadEnums(t *testing.T) {
	_, inst := dialFake(t)

	err := inst.SetChannel(1, ChannelConfig{Filter: "50 Hz", Range: "10 Vpeak"})
	assert.ErrorIs(t, err, ErrInvalidParameter)

	err = inst.SetChannel(1, ChannelConfig{Filter: "7.0 Hz", Range: "5 Vpeak"})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSetChannelBadLabel(t *testing.T) {
	_, inst := dialFake(t)

	err := inst.SetChannel(1, ChannelConfig{Name: "bad/name", Filter: "7.0 Hz", Range: "10 Vpeak"})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSetNameTruncates(t *testing.T) {
	_, inst := dialFake(t)

	long := strings.Repeat("x", maxNameLen+20)
	require.NoError(t, inst.SetName(long))
	assert.Len(t, inst.Settings().Name, maxNameLen)
}

func TestSetNameBadCharacters(t *testing.T) {
	_, inst := dialFake(t)

	err := inst.SetName("no:colons")
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestDisableAllIdempotent(t *testing.T) {
	_, inst := dialFake(t)

	require.NoError(t, inst.EnableChannel(2))
	inst.DisableAll()
	inst.DisableAll()
	for _, ch := range inst.Settings().Channels {
		assert.False(t, ch.Enabled)
	}
}

func TestSettersRebuildSnapshot(t *testing.T) {
	_, inst := dialFake(t)

	before := inst.Settings()
	require.NoError(t, inst.SetChannel(3, ChannelConfig{Filter: "DC", Range: "10 Vpeak"}))

	// The earlier snapshot is untouched: setters clone, never mutate.
	assert.False(t, before.Channels[2].Enabled)
	assert.True(t, inst.Settings().Channels[2].Enabled)
}

func TestAdoptSettings(t *testing.T) {
	_, inst := dialFake(t)

	rec := Recording{
		URI: "/rest/rec/measurements/0000000099",
		Setup: RecordingSetup{
			Name:     "Earlier run",
			Channels: []Channel{{Enabled: true, Name: "Force", Filter: "DC", Range: "10 Vpeak"}},
		},
	}
	inst.AdoptSettings(rec)

	s := inst.Settings()
	assert.Equal(t, "Earlier run", s.Name)
	require.Len(t, s.Channels, 1)
	assert.Equal(t, "Force", s.Channels[0].Name)
}
