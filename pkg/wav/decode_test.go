// ABOUTME: Tests for container decoding
// ABOUTME: Covers round trips, scaling, sidecars and malformed files
package wav

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMetadata(channels int) *Metadata {
	m := &Metadata{
		Version:  "2.10",
		Date:     "2026-08-23 12:00:00",
		Label:    "Shaker sweep",
		UnitName: "Channel units",
	}
	for ch := 1; ch <= channels; ch++ {
		m.Transducers = append(m.Transducers, "None")
		m.Sensitivities = append(m.Sensitivities, 1)
		m.Scales = append(m.Scales, 1)
		m.ChannelNames = append(m.ChannelNames, "Input "+string(rune('0'+ch)))
		m.ChannelUnits = append(m.ChannelUnits, "V")
	}
	return m
}

func TestRoundTripFloat(t *testing.T) {
	samples := [][]float64{
		{0, 0.5, -0.5, 0.25},
		{1, -1, 0.125, -0.125},
	}
	meta := testMetadata(2)
	meta.Scales = []float64{2, 0.5}

	in := &Container{
		Header: Header{
			AudioFormat:   FormatIEEEFloat,
			BitsPerSample: 32,
			SampleRate:    8192,
			Metadata:      meta,
		},
		Samples: samples,
	}

	b, err := EncodeBytes(in)
	require.NoError(t, err)

	out, err := DecodeBytes(b)
	require.NoError(t, err)

	assert.Equal(t, FormatIEEEFloat, out.Header.AudioFormat)
	assert.Equal(t, 2, out.Header.NumChannels)
	assert.Equal(t, 8192, out.Header.SampleRate)
	assert.Equal(t, 32, out.Header.BitsPerSample)
	require.NotNil(t, out.Header.Metadata)
	assert.Equal(t, meta, out.Header.Metadata)
	assert.Equal(t, samples, out.Samples)
}

func TestRoundTripPCM16(t *testing.T) {
	// Values chosen as exact multiples of 1/32768 so the integer packing
	// is lossless.
	samples := [][]float64{
		{0, 100.0 / 32768, -100.0 / 32768, 0.5},
	}

	in := &Container{
		Header: Header{
			AudioFormat:   FormatPCM,
			BitsPerSample: 16,
			SampleRate:    4096,
		},
		Samples: samples,
	}

	b, err := EncodeBytes(in)
	require.NoError(t, err)

	out, err := DecodeBytes(b)
	require.NoError(t, err)

	assert.Nil(t, out.Header.Metadata)
	assert.Equal(t, samples, out.Samples)
	assert.InDelta(t, 4.0/4096, out.Duration(), 1e-12)
}

func TestRoundTripPCM24Scaled(t *testing.T) {
	samples := [][]float64{
		{0, 0.5, -0.25},
		{0.125, -0.5, 0},
	}
	meta := testMetadata(2)
	meta.Scales = []float64{4, 0.25}

	scaled := make([][]float64, len(samples))
	for ch := range samples {
		scaled[ch] = make([]float64, len(samples[ch]))
		for i, v := range samples[ch] {
			scaled[ch][i] = v * meta.Scales[ch]
		}
	}

	in := &Container{
		Header: Header{
			AudioFormat:   FormatPCM,
			BitsPerSample: 24,
			SampleRate:    16384,
			Metadata:      meta,
		},
		Samples: scaled,
	}

	b, err := EncodeBytes(in)
	require.NoError(t, err)

	out, err := DecodeBytes(b)
	require.NoError(t, err)

	require.Len(t, out.Samples, 2)
	for ch := range scaled {
		for i := range scaled[ch] {
			assert.InDelta(t, scaled[ch][i], out.Samples[ch][i], 1e-6)
		}
	}
}

func TestDecodeBadMagic(t *testing.T) {
	b := []byte("RIFX\x00\x00\x00\x00WAVE")
	_, err := DecodeBytes(append(b, make([]byte, 32)...))
	assert.ErrorIs(t, err, ErrMalformedContainer)
}

func TestDecodeTooShort(t *testing.T) {
	_, err := DecodeBytes([]byte("RIFF"))
	assert.ErrorIs(t, err, ErrMalformedContainer)
}

func TestDecodeTruncatedData(t *testing.T) {
	in := &Container{
		Header: Header{
			AudioFormat:   FormatPCM,
			BitsPerSample: 16,
			SampleRate:    8192,
		},
		Samples: [][]float64{{0.1, 0.2, 0.3, 0.4}},
	}
	b, err := EncodeBytes(in)
	require.NoError(t, err)

	// Chop the tail so the declared data size exceeds the bytes present.
	_, err = DecodeBytes(b[:len(b)-3])
	assert.ErrorIs(t, err, ErrMalformedContainer)
}

func TestDecodeInflatedDataSize(t *testing.T) {
	in := &Container{
		Header: Header{
			AudioFormat:   FormatPCM,
			BitsPerSample: 16,
			SampleRate:    8192,
		},
		Samples: [][]float64{{0.1, 0.2}},
	}
	b, err := EncodeBytes(in)
	require.NoError(t, err)

	// The data chunk header sits right after RIFF(12) + fmt(8+16).
	sizeOff := 12 + 24 + 4
	binary.LittleEndian.PutUint32(b[sizeOff:], 1<<20)

	_, err = DecodeBytes(b)
	assert.ErrorIs(t, err, ErrMalformedContainer)
}

func TestDecodeInconsistentBlockAlign(t *testing.T) {
	in := &Container{
		Header: Header{
			AudioFormat:   FormatPCM,
			BitsPerSample: 16,
			SampleRate:    8192,
		},
		Samples: [][]float64{{0.1, 0.2}},
	}
	b, err := EncodeBytes(in)
	require.NoError(t, err)

	// block align lives at fmt offset 12
	binary.LittleEndian.PutUint16(b[12+8+12:], 7)

	_, err = DecodeBytes(b)
	assert.ErrorIs(t, err, ErrMalformedContainer)
}

func TestDecodeUnsupportedFormatTag(t *testing.T) {
	in := &Container{
		Header: Header{
			AudioFormat:   FormatPCM,
			BitsPerSample: 16,
			SampleRate:    8192,
		},
		Samples: [][]float64{{0.1}},
	}
	b, err := EncodeBytes(in)
	require.NoError(t, err)

	binary.LittleEndian.PutUint16(b[12+8:], 2) // ADPCM, not emitted by the device

	_, err = DecodeBytes(b)
	assert.ErrorIs(t, err, ErrMalformedContainer)
}

func TestDecodeFileWithSidecar(t *testing.T) {
	dir := t.TempDir()

	in := &Container{
		Header: Header{
			AudioFormat:   FormatPCM,
			BitsPerSample: 16,
			SampleRate:    8192,
		},
		Samples: [][]float64{{0, 0.5}},
	}

	path := filepath.Join(dir, "rec.wav")
	require.NoError(t, EncodeFile(path, in))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rec.json"),
		[]byte(`{"name":"Shaker sweep","datetime":1755950400000}`), 0644))

	out, err := DecodeFile(path)
	require.NoError(t, err)
	require.NotNil(t, out.Setup)
	assert.Equal(t, "Shaker sweep", out.Setup["name"])
}

func TestDecodeFileWithoutSidecar(t *testing.T) {
	dir := t.TempDir()

	in := &Container{
		Header: Header{
			AudioFormat:   FormatPCM,
			BitsPerSample: 16,
			SampleRate:    8192,
		},
		Samples: [][]float64{{0}},
	}

	path := filepath.Join(dir, "rec.wav")
	require.NoError(t, EncodeFile(path, in))

	out, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Nil(t, out.Setup)
}

func TestDecodeVerbose(t *testing.T) {
	in := &Container{
		Header: Header{
			AudioFormat:   FormatPCM,
			BitsPerSample: 16,
			SampleRate:    8192,
		},
		Samples: [][]float64{{0.25}},
	}
	b, err := EncodeBytes(in)
	require.NoError(t, err)

	_, err = DecodeBytes(b, WithVerbose(zerolog.Nop()))
	assert.NoError(t, err)
}

func TestReadHeaderOnly(t *testing.T) {
	in := &Container{
		Header: Header{
			AudioFormat:   FormatIEEEFloat,
			BitsPerSample: 32,
			SampleRate:    131072,
			Metadata:      testMetadata(3),
		},
		Samples: [][]float64{{0, 0}, {0, 0}, {0, 0}},
	}
	b, err := EncodeBytes(in)
	require.NoError(t, err)

	h, err := ReadHeaderBytes(b)
	require.NoError(t, err)
	assert.Equal(t, 3, h.NumChannels)
	assert.Equal(t, 131072, h.SampleRate)
	require.NotNil(t, h.Metadata)
	assert.Equal(t, "Shaker sweep", h.Metadata.Label)
	assert.Equal(t, []string{"Input 1", "Input 2", "Input 3"}, h.Metadata.ChannelNames)
}
