// ABOUTME: Container type definitions
// ABOUTME: Defines Header, Metadata and Container plus malformed-file errors
package wav

import (
	"errors"
	"fmt"
)

// Format tags from the fmt chunk.
const (
	FormatPCM       = 1 // signed integer samples
	FormatIEEEFloat = 3 // float32/float64 samples
)

// ErrMalformedContainer matches any decode failure via errors.Is.
var ErrMalformedContainer = errors.New("malformed container")

// MalformedContainerError reports a file the decoder cannot make sense of.
type MalformedContainerError struct {
	Reason string
}

func (e *MalformedContainerError) Error() string {
	return fmt.Sprintf("malformed container: %s", e.Reason)
}

// Is makes the error match ErrMalformedContainer.
func (e *MalformedContainerError) Is(target error) bool {
	return target == ErrMalformedContainer
}

func malformed(format string, args ...interface{}) error {
	return &MalformedContainerError{Reason: fmt.Sprintf(format, args...)}
}

// Header holds the parsed container header.
//
// Metadata is nil when the file carries no vendor annex, so callers can
// distinguish "no annex" from "annex present but empty".
type Header struct {
	ChunkID       string // "RIFF"
	ChunkSize     uint32
	Format        string // "WAVE"
	AudioFormat   int    // FormatPCM or FormatIEEEFloat
	NumChannels   int
	SampleRate    int
	ByteRate      int
	BlockAlign    int
	BitsPerSample int
	DataSize      uint32
	MetaChunkSize uint32 // size of the opaque vendor "meta" chunk, 0 if absent

	Metadata *Metadata
}

// Metadata is the decoded vendor annex appended after the data chunk.
type Metadata struct {
	Version       string
	Date          string
	Label         string
	UnitName      string
	Transducers   []string
	Sensitivities []float64
	Scales        []float64
	ChannelNames  []string
	ChannelUnits  []string
}

// Container is a fully decoded recording.
//
// Samples holds one slice per channel, all of equal length, de-interleaved
// and scaled: integer formats are normalized to [-1, 1) and multiplied by
// the per-channel annex scale when one is present (the scale already
// incorporates transducer sensitivity); float formats pass through.
type Container struct {
	Header  Header
	Samples [][]float64

	// Setup is the settings document from the recording's JSON sidecar,
	// nil when no sidecar was found next to the file.
	Setup map[string]interface{}
}

// Duration returns the recording length in seconds, 0 for an empty file.
func (c *Container) Duration() float64 {
	if len(c.Samples) == 0 || c.Header.SampleRate == 0 {
		return 0
	}
	return float64(len(c.Samples[0])) / float64(c.Header.SampleRate)
}
