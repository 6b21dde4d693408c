// ABOUTME: Container sample decoding
// ABOUTME: De-interleaves frames and scales samples per the declared format
package wav

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"math"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Option adjusts decoder behavior.
type Option func(*decoder)

// WithVerbose logs every parsed header field at debug level.
func WithVerbose(logger zerolog.Logger) Option {
	return func(d *decoder) {
		d.log = logger
		d.verbose = true
	}
}

type decoder struct {
	log     zerolog.Logger
	verbose bool
}

// Decode reads a complete container from r.
func Decode(r io.Reader, opts ...Option) (*Container, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(b, opts...)
}

// DecodeBytes decodes an in-memory container.
func DecodeBytes(b []byte, opts ...Option) (*Container, error) {
	d := &decoder{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(d)
	}
	return d.decode(b)
}

// DecodeFile decodes a container from disk. A JSON settings sidecar next to
// the file (same name, .json extension) is loaded into Container.Setup when
// present.
func DecodeFile(path string, opts ...Option) (*Container, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c, err := DecodeBytes(b, opts...)
	if err != nil {
		return nil, err
	}

	sidecar := strings.TrimSuffix(path, ".wav") + ".json"
	if sb, err := os.ReadFile(sidecar); err == nil {
		var setup map[string]interface{}
		if err := json.Unmarshal(sb, &setup); err == nil {
			c.Setup = setup
		}
	}

	return c, nil
}

func (d *decoder) decode(b []byte) (*Container, error) {
	p, err := parseContainer(b)
	if err != nil {
		return nil, err
	}
	h := p.header

	if d.verbose {
		d.log.Debug().
			Str("chunk_id", h.ChunkID).
			Uint32("chunk_size", h.ChunkSize).
			Int("audio_format", h.AudioFormat).
			Int("channels", h.NumChannels).
			Int("sample_rate", h.SampleRate).
			Int("byte_rate", h.ByteRate).
			Int("block_align", h.BlockAlign).
			Int("bits_per_sample", h.BitsPerSample).
			Uint32("data_size", h.DataSize).
			Uint32("meta_chunk_size", h.MetaChunkSize).
			Bool("annex", h.Metadata != nil).
			Msg("parsed container header")
	}

	data := b[p.dataOffset : p.dataOffset+int(h.DataSize)]
	frames := int(h.DataSize) / h.BlockAlign
	sampleSize := h.BitsPerSample / 8

	samples := make([][]float64, h.NumChannels)
	for ch := range samples {
		samples[ch] = make([]float64, frames)
	}

	for f := 0; f < frames; f++ {
		base := f * h.BlockAlign
		for ch := 0; ch < h.NumChannels; ch++ {
			off := base + ch*sampleSize
			samples[ch][f] = decodeSample(h.AudioFormat, h.BitsPerSample, data[off:off+sampleSize])
		}
	}

	// The annex scale incorporates transducer sensitivity, so applying it
	// converts normalized samples straight to engineering units.
	if h.Metadata != nil && len(h.Metadata.Scales) == h.NumChannels {
		for ch, scale := range h.Metadata.Scales {
			for f := range samples[ch] {
				samples[ch][f] *= scale
			}
		}
	}

	if d.verbose {
		d.log.Debug().
			Int("channels", h.NumChannels).
			Int("samples_per_channel", frames).
			Msg("decoded container samples")
	}

	return &Container{Header: h, Samples: samples}, nil
}

// decodeSample converts one little-endian sample to float64. Integer
// formats are normalized to [-1, 1); floats pass through unchanged.
func decodeSample(format, bits int, b []byte) float64 {
	if format == FormatIEEEFloat {
		if bits == 64 {
			return math.Float64frombits(binary.LittleEndian.Uint64(b))
		}
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	}

	switch bits {
	case 16:
		return float64(int16(binary.LittleEndian.Uint16(b))) / 32768
	case 24:
		v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
		if v&0x800000 != 0 {
			v |= ^int32(0xFFFFFF) // sign extend
		}
		return float64(v) / 8388608
	default: // 32
		return float64(int32(binary.LittleEndian.Uint32(b))) / 2147483648
	}
}
