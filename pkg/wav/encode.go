// ABOUTME: Container encoding
// ABOUTME: Writes RIFF chunks and the vendor annex as the decoder's inverse
package wav

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"os"
)

// Encode writes c as a container. It is the exact inverse of Decode: the
// per-channel annex scale is divided back out before samples are packed, so
// decoding the output reproduces the input.
func Encode(w io.Writer, c *Container) error {
	b, err := EncodeBytes(c)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// EncodeBytes encodes c into an in-memory container.
func EncodeBytes(c *Container) ([]byte, error) {
	h := c.Header

	if h.AudioFormat == 0 {
		h.AudioFormat = FormatPCM
	}
	if h.BitsPerSample == 0 {
		h.BitsPerSample = 16
	}
	h.NumChannels = len(c.Samples)
	if err := encodableFormat(&h); err != nil {
		return nil, err
	}

	frames := 0
	if h.NumChannels > 0 {
		frames = len(c.Samples[0])
	}
	for ch := range c.Samples {
		if len(c.Samples[ch]) != frames {
			return nil, malformed("channel %d has %d samples, channel 1 has %d",
				ch+1, len(c.Samples[ch]), frames)
		}
	}

	sampleSize := h.BitsPerSample / 8
	h.BlockAlign = h.NumChannels * sampleSize
	h.ByteRate = h.SampleRate * h.BlockAlign
	h.DataSize = uint32(frames * h.BlockAlign)

	data := make([]byte, h.DataSize)
	for f := 0; f < frames; f++ {
		base := f * h.BlockAlign
		for ch := 0; ch < h.NumChannels; ch++ {
			v := c.Samples[ch][f]
			if h.Metadata != nil && ch < len(h.Metadata.Scales) && h.Metadata.Scales[ch] != 0 {
				v /= h.Metadata.Scales[ch]
			}
			encodeSample(h.AudioFormat, h.BitsPerSample, v, data[base+ch*sampleSize:])
		}
	}

	var meta []byte
	if h.MetaChunkSize > 0 {
		meta = make([]byte, h.MetaChunkSize) // opaque vendor chunk
	}

	var annex []byte
	if h.Metadata != nil {
		annex = encodeAnnex(h.Metadata)
	}

	var buf bytes.Buffer
	chunkBytes := 4 + 8 + 16 + 8 + len(data)
	if meta != nil {
		chunkBytes += 8 + len(meta)
	}

	buf.WriteString("RIFF")
	writeU32(&buf, uint32(chunkBytes))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	writeU32(&buf, 16)
	writeU16(&buf, uint16(h.AudioFormat))
	writeU16(&buf, uint16(h.NumChannels))
	writeU32(&buf, uint32(h.SampleRate))
	writeU32(&buf, uint32(h.ByteRate))
	writeU16(&buf, uint16(h.BlockAlign))
	writeU16(&buf, uint16(h.BitsPerSample))

	if meta != nil {
		buf.WriteString("meta")
		writeU32(&buf, uint32(len(meta)))
		buf.Write(meta)
	}

	buf.WriteString("data")
	writeU32(&buf, uint32(len(data)))
	buf.Write(data)

	buf.Write(annex)

	return buf.Bytes(), nil
}

// EncodeFile writes c to path.
func EncodeFile(path string, c *Container) error {
	b, err := EncodeBytes(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func encodableFormat(h *Header) error {
	switch h.AudioFormat {
	case FormatPCM:
		if h.BitsPerSample != 16 && h.BitsPerSample != 24 && h.BitsPerSample != 32 {
			return malformed("cannot encode PCM at %d bits", h.BitsPerSample)
		}
	case FormatIEEEFloat:
		if h.BitsPerSample != 32 && h.BitsPerSample != 64 {
			return malformed("cannot encode float at %d bits", h.BitsPerSample)
		}
	default:
		return malformed("cannot encode format tag %d", h.AudioFormat)
	}
	if h.NumChannels < 1 {
		return malformed("cannot encode %d channels", h.NumChannels)
	}
	if reason := h.Metadata.scalesMismatch(h.NumChannels); reason != "" {
		return malformed("%s", reason)
	}
	return nil
}

// scalesMismatch reports a non-empty reason when annex scales cannot cover
// the channel count.
func (m *Metadata) scalesMismatch(channels int) string {
	if m == nil || len(m.Scales) == 0 {
		return ""
	}
	if len(m.Scales) != channels {
		return "annex scale count does not match channel count"
	}
	return ""
}

// encodeSample packs one float64 sample little-endian at b[0:].
func encodeSample(format, bits int, v float64, b []byte) {
	if format == FormatIEEEFloat {
		if bits == 64 {
			binary.LittleEndian.PutUint64(b, math.Float64bits(v))
		} else {
			binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
		}
		return
	}

	switch bits {
	case 16:
		binary.LittleEndian.PutUint16(b, uint16(clampInt(v*32768, -32768, 32767)))
	case 24:
		n := clampInt(v*8388608, -8388608, 8388607)
		b[0] = byte(n)
		b[1] = byte(n >> 8)
		b[2] = byte(n >> 16)
	default: // 32
		binary.LittleEndian.PutUint32(b, uint32(clampInt(v*2147483648, math.MinInt32, math.MaxInt32)))
	}
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func clampInt(v float64, min, max int64) int64 {
	n := int64(math.Round(v))
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
