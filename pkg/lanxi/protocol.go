// ABOUTME: Wire types for the device control protocol
// ABOUTME: Mirrors the firmware's JSON documents for info, status and recordings
package lanxi

import (
	"strings"
	"time"
)

// Recorder application states reported by the device.
const (
	StateIdle        = "Idle"
	StateOpened      = "RecorderOpened"
	StateConfiguring = "RecorderConfiguring"
	StateStreaming   = "RecorderStreaming"
	StateRecording   = "RecorderRecording"
)

// recordingIDLen is the length of the device-assigned id at the end of a
// measurement URI.
const recordingIDLen = 10

// ModuleInfo describes the device hardware as reported by
// rest/rec/module/info.
type ModuleInfo struct {
	NumberOfInputChannels int      `json:"numberOfInputChannels"`
	SDCardInserted        bool     `json:"sdCardInserted"`
	SupportedFilters      []string `json:"supportedFilters"`
	SupportedSampleRates  []int    `json:"supportedSampleRates"`
	SupportedRanges       []string `json:"supportedRanges"`
}

// onChange is the payload of rest/rec/onchange.
type onChange struct {
	LastUpdateTag int    `json:"lastUpdateTag"`
	ModuleState   string `json:"moduleState"`
}

// Status is a point-in-time device status snapshot.
type Status struct {
	State         string
	LastUpdateTag int
	DeviceTime    time.Time // from the response Date header
}

// Recording is one stored measurement as listed by rest/rec/measurements.
type Recording struct {
	URI      string         `json:"uri"`
	Size     int64          `json:"size"`     // bytes
	Duration int64          `json:"duration"` // milliseconds
	Setup    RecordingSetup `json:"setup"`
}

// RecordingSetup is the settings document the recording was made with.
type RecordingSetup struct {
	Name     string    `json:"name"`
	Datetime int64     `json:"datetime"` // epoch milliseconds, UTC
	Channels []Channel `json:"channels"`
}

// ID returns the device-assigned recording id (the URI tail).
func (r Recording) ID() string {
	if len(r.URI) < recordingIDLen {
		return r.URI
	}
	return r.URI[len(r.URI)-recordingIDLen:]
}

// StartTime returns the recording start time.
func (r Recording) StartTime() time.Time {
	return time.UnixMilli(r.Setup.Datetime).UTC()
}

// Seconds returns the recording length in seconds.
func (r Recording) Seconds() float64 {
	return float64(r.Duration) / 1000
}

// Slice returns a window of recs. A negative start counts from the end, so
// Slice(recs, -3, 0) is the three most recent recordings in creation order.
// A count <= 0 means "through the end". Out-of-range bounds are clamped;
// the result is never nil for in-range windows, just empty.
func Slice(recs []Recording, start, count int) []Recording {
	if start < 0 {
		start += len(recs)
	}
	if start < 0 {
		start = 0
	}
	if start >= len(recs) {
		return []Recording{}
	}

	end := len(recs)
	if count > 0 && start+count < end {
		end = start + count
	}
	return recs[start:end]
}

// findRecording resolves an id against a listing.
func findRecording(recs []Recording, id string) (Recording, bool) {
	for _, r := range recs {
		if r.ID() == id || strings.HasSuffix(r.URI, id) {
			return r, true
		}
	}
	return Recording{}, false
}
