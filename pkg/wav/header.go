// ABOUTME: Container header parsing
// ABOUTME: Walks RIFF chunks and validates the fmt/data/meta layout
package wav

import (
	"encoding/binary"
	"io"
	"os"
)

// riffHeaderSize is the fixed "RIFF <size> WAVE" preamble.
const riffHeaderSize = 12

// parsed is the result of walking the chunk list: the validated header plus
// the byte offsets the decoder needs.
type parsed struct {
	header     Header
	dataOffset int
	annex      []byte
}

// ReadHeader parses the container header (and vendor annex, when present)
// without decoding any samples.
func ReadHeader(r io.Reader) (*Header, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ReadHeaderBytes(b)
}

// ReadHeaderBytes is ReadHeader over an in-memory container.
func ReadHeaderBytes(b []byte) (*Header, error) {
	p, err := parseContainer(b)
	if err != nil {
		return nil, err
	}
	return &p.header, nil
}

// ReadHeaderFile is ReadHeader for a file on disk.
func ReadHeaderFile(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadHeader(f)
}

// parseContainer walks the chunk list and returns the header together with
// the data chunk location and the trailing annex bytes.
func parseContainer(b []byte) (*parsed, error) {
	if len(b) < riffHeaderSize {
		return nil, malformed("file too short for RIFF header (%d bytes)", len(b))
	}

	p := &parsed{}
	h := &p.header

	h.ChunkID = string(b[0:4])
	h.ChunkSize = binary.LittleEndian.Uint32(b[4:8])
	h.Format = string(b[8:12])

	if h.ChunkID != "RIFF" || h.Format != "WAVE" {
		return nil, malformed("bad signature %q/%q, want RIFF/WAVE", h.ChunkID, h.Format)
	}

	n := riffHeaderSize
	sawFmt := false
	sawData := false

	for n+8 <= len(b) {
		id := string(b[n : n+4])
		size := int(binary.LittleEndian.Uint32(b[n+4 : n+8]))
		n += 8

		if size > len(b)-n {
			return nil, malformed("%q chunk declares %d bytes, only %d remain", id, size, len(b)-n)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, malformed("fmt chunk too small (%d bytes)", size)
			}
			h.AudioFormat = int(binary.LittleEndian.Uint16(b[n : n+2]))
			h.NumChannels = int(binary.LittleEndian.Uint16(b[n+2 : n+4]))
			h.SampleRate = int(binary.LittleEndian.Uint32(b[n+4 : n+8]))
			h.ByteRate = int(binary.LittleEndian.Uint32(b[n+8 : n+12]))
			h.BlockAlign = int(binary.LittleEndian.Uint16(b[n+12 : n+14]))
			h.BitsPerSample = int(binary.LittleEndian.Uint16(b[n+14 : n+16]))
			sawFmt = true

		case "meta":
			// Opaque vendor chunk, content skipped but size recorded.
			h.MetaChunkSize = uint32(size)

		case "data":
			h.DataSize = uint32(size)
			p.dataOffset = n
			sawData = true
		}

		n += size
		if sawData {
			// The vendor annex follows the data chunk directly; it is not
			// a chunk, so the walk ends here.
			break
		}
		if size%2 == 1 && n < len(b) {
			n++ // chunks are word aligned
		}
	}

	if !sawFmt {
		return nil, malformed("no fmt chunk")
	}
	if !sawData {
		return nil, malformed("no data chunk")
	}
	if err := validateFormat(h); err != nil {
		return nil, err
	}

	p.annex = b[n:]
	if len(p.annex) > annexPrefixSize {
		meta, err := parseAnnex(p.annex, h.NumChannels)
		if err != nil {
			return nil, err
		}
		h.Metadata = meta
	}

	return p, nil
}

// validateFormat rejects channel-count/bit-depth combinations that cannot
// describe the declared data length.
func validateFormat(h *Header) error {
	switch h.AudioFormat {
	case FormatPCM:
		if h.BitsPerSample != 16 && h.BitsPerSample != 24 && h.BitsPerSample != 32 {
			return malformed("unsupported PCM bit depth %d", h.BitsPerSample)
		}
	case FormatIEEEFloat:
		if h.BitsPerSample != 32 && h.BitsPerSample != 64 {
			return malformed("unsupported float bit depth %d", h.BitsPerSample)
		}
	default:
		return malformed("unsupported format tag %d", h.AudioFormat)
	}

	if h.NumChannels < 1 {
		return malformed("channel count %d", h.NumChannels)
	}

	frameSize := h.NumChannels * h.BitsPerSample / 8
	if h.BlockAlign != frameSize {
		return malformed("block align %d does not match %d channels at %d bits",
			h.BlockAlign, h.NumChannels, h.BitsPerSample)
	}
	if int(h.DataSize)%frameSize != 0 {
		return malformed("data size %d is not a whole number of %d-byte frames",
			h.DataSize, frameSize)
	}

	return nil
}
