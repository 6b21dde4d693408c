// ABOUTME: Websocket listener for device state-change notifications
// ABOUTME: Decodes the notification feed into a channel of state events
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Event is one state-change notification pushed by the device.
type Event struct {
	ModuleState    string `json:"moduleState"`
	LastUpdateTag  int    `json:"lastUpdateTag"`
	SDCardInserted bool   `json:"sdCardInserted"`
}

// Listener consumes the device's notification feed. It does not reconnect;
// when the feed drops, Events is closed and the caller decides whether to
// dial again.
type Listener struct {
	addr string
	log  zerolog.Logger

	conn   *websocket.Conn
	mu     sync.Mutex
	events chan Event

	ctx    context.Context
	cancel context.CancelFunc
}

// NewListener creates a listener for the device at addr (host or host:port).
func NewListener(addr string, log zerolog.Logger) *Listener {
	ctx, cancel := context.WithCancel(context.Background())
	return &Listener{
		addr:   addr,
		log:    log,
		events: make(chan Event, 16),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Connect dials the notification endpoint and starts the read loop.
func (l *Listener) Connect() error {
	u := url.URL{Scheme: "ws", Host: l.addr, Path: "/notifications"}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial notifications: %w", err)
	}

	l.mu.Lock()
	l.conn = conn
	l.mu.Unlock()

	l.log.Debug().Str("url", u.String()).Msg("notification feed connected")

	go l.readLoop()
	return nil
}

// Events returns the channel of decoded notifications. It is closed when
// the feed ends.
func (l *Listener) Events() <-chan Event {
	return l.events
}

// Close tears the feed down.
func (l *Listener) Close() error {
	l.cancel()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn != nil {
		return l.conn.Close()
	}
	return nil
}

// readLoop decodes notification frames until the connection drops.
func (l *Listener) readLoop() {
	defer close(l.events)

	for {
		select {
		case <-l.ctx.Done():
			return
		default:
		}

		_, data, err := l.conn.ReadMessage()
		if err != nil {
			if l.ctx.Err() == nil {
				l.log.Debug().Err(err).Msg("notification feed closed")
			}
			return
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			l.log.Debug().Err(err).Msg("skipping undecodable notification")
			continue
		}

		select {
		case l.events <- ev:
		case <-l.ctx.Done():
			return
		}
	}
}
