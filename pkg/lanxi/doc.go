// ABOUTME: Instrument session controller package
// ABOUTME: Drives the recorder's HTTP control protocol as high-level operations
// Package lanxi remote-controls a LAN-XI class multi-channel signal recorder
// over its HTTP control interface.
//
// The device API is low-level (raw parameter documents and a small state
// machine), so the Instrument type keeps a client-side settings snapshot and
// translates caller intents into the required call sequences:
//
//	inst, err := lanxi.Dial(ctx, "192.168.1.101")
//	inst.DisableAll()
//	inst.SetChannel(1, lanxi.ChannelConfig{Name: "Input signal", Filter: "7.0 Hz", Range: "10 Vpeak"})
//	inst.SetSampleRate(8192)
//	inst.SetName("Shaker sweep")
//	_, err = inst.PowerUp(ctx)
//	// allow powered transducers to settle before recording
//	id, err := inst.Record(ctx, 10*time.Second)
//	path, err := inst.GetWAV(ctx, "out", id)
//	err = inst.PowerDown(ctx)
//
// Every operation is synchronous and blocking; Record blocks for the full
// recording duration plus device-side finalization. The device is a single
// stateful resource: one caller at a time, no concurrent operations against
// the same session. Errors surface immediately, never retried — retry
// policy belongs to the caller.
package lanxi
