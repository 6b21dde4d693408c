// ABOUTME: Recording container codec package
// ABOUTME: Decodes and encodes the recorder's WAV-like container format
// Package wav decodes the recording containers produced by a LAN-XI class
// signal recorder.
//
// The container is a chunked RIFF/WAVE file carrying interleaved
// multi-channel samples plus a vendor annex appended after the last chunk.
// The annex holds recording metadata the standard header cannot express:
// the recording label, per-channel transducer descriptions, sensitivities,
// scale factors and channel display names.
//
// Typical use:
//
//	c, err := wav.DecodeFile("Input_signal_20260823120000.wav")
//	// c.Samples[0] is channel 1, scaled to engineering units
//	// c.Header.Metadata.Label is the recording name
//
// An encoder is provided as the exact inverse of the decoder; it exists for
// building test fixtures and re-writing downloaded containers.
package wav
