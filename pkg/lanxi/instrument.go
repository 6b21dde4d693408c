// ABOUTME: Instrument session type, constructor and HTTP plumbing
// ABOUTME: Builds browser-like requests and maps failures onto the error taxonomy
package lanxi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// defaultTimeout bounds every individual control request.
const defaultTimeout = 30 * time.Second

// Instrument is a session against one recorder. It is not safe for
// concurrent use: the device is a single stateful resource and expects
// serialized access from one caller.
type Instrument struct {
	addr    string
	baseURL string
	hc      *http.Client
	log     zerolog.Logger

	info       ModuleInfo
	settings   Settings
	recordings []Recording
	state      string
	lastUpdate int
	currentURI string
}

// Option adjusts session construction.
type Option func(*Instrument)

// WithHTTPClient substitutes the HTTP client, e.g. to set a transport or a
// tighter timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(i *Instrument) { i.hc = hc }
}

// WithLogger attaches a structured logger; the default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(i *Instrument) { i.log = log }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(i *Instrument) { i.hc.Timeout = d }
}

// Dial connects to the recorder at addr (host or host:port), synchronizes
// the device clock, opens the recorder application when the device is idle,
// and primes the session with the module info and default input settings.
func Dial(ctx context.Context, addr string, opts ...Option) (*Instrument, error) {
	i := &Instrument{
		addr:    addr,
		baseURL: "http://" + addr + "/",
		hc:      &http.Client{Timeout: defaultTimeout},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(i)
	}

	if _, err := i.Status(ctx); err != nil {
		return nil, err
	}

	// The device clock drifts when unpowered; set it from the host.
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if _, _, err := i.do(ctx, http.MethodPut, "rest/rec/module/time", []byte(now), "text/plain; charset=UTF-8"); err != nil {
		return nil, err
	}

	if i.state == StateIdle {
		if err := i.Open(ctx); err != nil {
			return nil, err
		}
	}

	if err := i.getJSON(ctx, "rest/rec/module/info", &i.info); err != nil {
		return nil, err
	}
	if err := i.getJSON(ctx, "rest/rec/channels/input/default", &i.settings); err != nil {
		return nil, err
	}
	if _, err := i.ListRecordings(ctx); err != nil {
		return nil, err
	}

	i.log.Info().
		Str("addr", addr).
		Int("channels", i.info.NumberOfInputChannels).
		Bool("sd_card", i.info.SDCardInserted).
		Msg("connected to instrument")

	return i, nil
}

// Addr returns the device network address.
func (i *Instrument) Addr() string { return i.addr }

// Info returns the cached module info fetched at dial time.
func (i *Instrument) Info() ModuleInfo { return i.info }

// State returns the recorder state observed by the last status query.
func (i *Instrument) State() string { return i.state }

// Status queries rest/rec/onchange and refreshes the cached state.
func (i *Instrument) Status(ctx context.Context) (Status, error) {
	resp, body, err := i.do(ctx, http.MethodGet, "rest/rec/onchange?last=0", nil, "")
	if err != nil {
		return Status{}, err
	}

	var oc onChange
	if err := json.Unmarshal(body, &oc); err != nil {
		return Status{}, &ProtocolError{Op: "status", Detail: fmt.Sprintf("bad onchange payload: %v", err)}
	}
	i.state = oc.ModuleState
	i.lastUpdate = oc.LastUpdateTag

	st := Status{State: oc.ModuleState, LastUpdateTag: oc.LastUpdateTag}
	if t, err := http.ParseTime(resp.Header.Get("Date")); err == nil {
		st.DeviceTime = t
	}
	return st, nil
}

// String summarizes the device, its settings snapshot and the last observed
// state.
func (i *Instrument) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Instrument %s:\n", i.addr)
	fmt.Fprintf(&b, "    %d channels\n", i.info.NumberOfInputChannels)
	sd := "not inserted"
	if i.info.SDCardInserted {
		sd = "inserted"
	}
	fmt.Fprintf(&b, "    SD card is %s\n", sd)
	fmt.Fprintf(&b, "    Filters     : %v\n", i.info.SupportedFilters)
	fmt.Fprintf(&b, "    SampleRates : %v\n", i.info.SupportedSampleRates)
	fmt.Fprintf(&b, "    Ranges      : %v\n", i.info.SupportedRanges)
	fmt.Fprintf(&b, "    State       : %s\n", i.state)
	b.WriteString(describeSettings(i.settings))
	return b.String()
}

// baseHeader builds the browser-like header set the firmware expects.
func (i *Instrument) baseHeader() http.Header {
	h := http.Header{}
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.5")
	h.Set("If-Modified-Since", "Sat, 1 Jan 2005 00:00:00 GMT")
	h.Set("Referer", i.baseURL+"recorder")
	return h
}

// do performs one control request and maps failures onto the error
// taxonomy: transport errors become CommError, HTTP 404 becomes ErrNotFound
// and any other non-2xx status becomes ProtocolError.
func (i *Instrument) do(ctx context.Context, method, path string, body []byte, contentType string) (*http.Response, []byte, error) {
	op := method + " " + path

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, i.baseURL+path, rd)
	if err != nil {
		return nil, nil, &CommError{Op: op, Err: err}
	}
	req.Header = i.baseHeader()
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	i.log.Debug().Str("method", method).Str("path", path).Msg("device request")

	resp, err := i.hc.Do(req)
	if err != nil {
		return nil, nil, &CommError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &CommError{Op: op, Err: err}
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &ProtocolError{Op: op, Status: resp.StatusCode, Detail: strings.TrimSpace(string(data))}
	}

	return resp, data, nil
}

// getJSON performs a GET and decodes the JSON payload into v.
func (i *Instrument) getJSON(ctx context.Context, path string, v interface{}) error {
	_, body, err := i.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &ProtocolError{Op: "GET " + path, Detail: fmt.Sprintf("bad payload: %v", err)}
	}
	return nil
}

// put issues a bodyless PUT, the device's idiom for state transitions.
func (i *Instrument) put(ctx context.Context, path string) error {
	_, _, err := i.do(ctx, http.MethodPut, path, nil, "text/plain")
	return err
}
