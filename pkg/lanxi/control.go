// ABOUTME: Recorder state-machine operations
// ABOUTME: Open/close, power up/down, and the blocking record sequence
package lanxi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// statePollInterval paces the finalization polls after stop/finish.
	statePollInterval = 250 * time.Millisecond

	// stateSettleTimeout bounds how long the device may take to reach the
	// expected state after a transition command.
	stateSettleTimeout = 15 * time.Second
)

// Open opens the recorder application. The device must be idle.
func (i *Instrument) Open(ctx context.Context) error {
	if _, err := i.Status(ctx); err != nil {
		return err
	}
	if i.state != StateIdle {
		return &StateError{Op: "open", Want: StateIdle, Got: i.state}
	}
	if err := i.put(ctx, "rest/rec/open"); err != nil {
		return err
	}
	_, err := i.Status(ctx)
	return err
}

// Close closes the recorder application.
func (i *Instrument) Close(ctx context.Context) error {
	if _, err := i.Status(ctx); err != nil {
		return err
	}
	if i.state != StateOpened {
		return &StateError{Op: "close", Want: StateOpened, Got: i.state}
	}
	if err := i.put(ctx, "rest/rec/close"); err != nil {
		return err
	}
	_, err := i.Status(ctx)
	return err
}

// Reboot reboots the device. The session is unusable afterwards; dial again
// once the device is back.
func (i *Instrument) Reboot(ctx context.Context) error {
	_, _, err := i.do(ctx, http.MethodPost, "", []byte("reboot=1"), "application/x-www-form-urlencoded")
	return err
}

// PowerUp pushes the settings snapshot to the device and brings it into the
// streaming state, applying transducer power where configured. It returns
// the settings as the device applied them. Any settling delay powered
// transducers need before a valid recording is the caller's to insert.
func (i *Instrument) PowerUp(ctx context.Context) (Settings, error) {
	if _, err := i.Status(ctx); err != nil {
		return Settings{}, err
	}
	if i.state != StateOpened {
		return Settings{}, &StateError{Op: "power up", Want: StateOpened, Got: i.state}
	}

	if err := i.put(ctx, "rest/rec/create"); err != nil {
		return Settings{}, err
	}

	doc, err := json.Marshal(i.settings)
	if err != nil {
		return Settings{}, fmt.Errorf("marshal settings: %w", err)
	}
	if _, _, err := i.do(ctx, http.MethodPut, "rest/rec/channels/input", doc, "text/plain; charset=UTF-8"); err != nil {
		return Settings{}, err
	}

	if err := i.waitForState(ctx, "power up", StateStreaming); err != nil {
		return Settings{}, err
	}

	var applied Settings
	if err := i.getJSON(ctx, "rest/rec/channels/input", &applied); err != nil {
		return Settings{}, err
	}
	i.settings = applied

	i.log.Info().Str("name", applied.Name).Msg("instrument powered up")
	return applied.clone(), nil
}

// Record arms and runs a recording of the given duration, blocking until
// the device reports it finalized, and returns the recording id. The wait
// honors ctx: on cancellation the recording is stopped and ctx's error is
// returned.
func (i *Instrument) Record(ctx context.Context, duration time.Duration) (string, error) {
	uri, err := i.startMeasurement(ctx)
	if err != nil {
		return "", err
	}
	id := uri[len(uri)-recordingIDLen:]

	i.log.Info().Str("id", id).Dur("duration", duration).Msg("recording started")

	var waitErr error
	select {
	case <-time.After(duration):
	case <-ctx.Done():
		waitErr = ctx.Err()
	}

	// Stop even when cancelled so the device is not left recording. Use a
	// fresh context in that case.
	stopCtx := ctx
	if waitErr != nil {
		var cancel context.CancelFunc
		stopCtx, cancel = context.WithTimeout(context.Background(), stateSettleTimeout)
		defer cancel()
	}
	if err := i.put(stopCtx, strings.TrimPrefix(uri, "/")+"/stop"); err != nil {
		return "", err
	}
	if waitErr != nil {
		return "", waitErr
	}

	// Device-side finalization: the recorder drops back to streaming once
	// the measurement is fully written out.
	if err := i.waitForState(ctx, "record", StateStreaming); err != nil {
		return "", err
	}

	i.log.Info().Str("id", id).Msg("recording finalized")
	return id, nil
}

// StartRecord begins an open-ended recording and returns its id. Pair with
// StopRecord.
func (i *Instrument) StartRecord(ctx context.Context) (string, error) {
	uri, err := i.startMeasurement(ctx)
	if err != nil {
		return "", err
	}
	i.currentURI = uri
	if _, err := i.Status(ctx); err != nil {
		return "", err
	}
	return uri[len(uri)-recordingIDLen:], nil
}

// StopRecord stops the recording started by StartRecord and waits for
// finalization.
func (i *Instrument) StopRecord(ctx context.Context) error {
	if i.currentURI == "" {
		return &StateError{Op: "stop record", Want: StateRecording, Got: i.state}
	}
	if err := i.put(ctx, strings.TrimPrefix(i.currentURI, "/")+"/stop"); err != nil {
		return err
	}
	i.currentURI = ""
	return i.waitForState(ctx, "stop record", StateStreaming)
}

// PowerDown finishes the measurement setup, dropping power to powered
// transducers, and refreshes the recording list. Safe to call when already
// powered down.
func (i *Instrument) PowerDown(ctx context.Context) error {
	if _, err := i.Status(ctx); err != nil {
		return err
	}
	if i.state == StateOpened || i.state == StateIdle {
		return nil
	}

	if err := i.put(ctx, "rest/rec/finish"); err != nil {
		return err
	}
	if err := i.waitForState(ctx, "power down", StateOpened); err != nil {
		return err
	}

	_, err := i.ListRecordings(ctx)
	return err
}

// Transducers returns the transducer detection report for all channels.
func (i *Instrument) Transducers(ctx context.Context) ([]map[string]interface{}, error) {
	var out []map[string]interface{}
	if err := i.getJSON(ctx, "rest/rec/channels/input/all/transducers", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// startMeasurement presses the start button and returns the measurement URI.
func (i *Instrument) startMeasurement(ctx context.Context) (string, error) {
	if _, err := i.Status(ctx); err != nil {
		return "", err
	}
	if i.state != StateStreaming {
		return "", &StateError{Op: "record", Want: StateStreaming, Got: i.state}
	}

	_, body, err := i.do(ctx, http.MethodPost, "rest/rec/measurements", []byte{}, "")
	if err != nil {
		return "", err
	}

	uri := strings.TrimSpace(string(body))
	if !strings.HasPrefix(uri, "/rest/rec/measurements/") || len(uri) < recordingIDLen {
		return "", &ProtocolError{Op: "record", Detail: fmt.Sprintf("unexpected measurement uri %q", uri)}
	}
	return uri, nil
}

// waitForState polls the device until it reaches want.
func (i *Instrument) waitForState(ctx context.Context, op, want string) error {
	deadline := time.Now().Add(stateSettleTimeout)
	for {
		if _, err := i.Status(ctx); err != nil {
			return err
		}
		if i.state == want {
			return nil
		}
		if time.Now().After(deadline) {
			return &ProtocolError{Op: op, Detail: fmt.Sprintf("device stuck in state %q waiting for %q", i.state, want)}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(statePollInterval):
		}
	}
}
