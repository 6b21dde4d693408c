// ABOUTME: Tests for the notification listener
// ABOUTME: Uses an httptest websocket server emulating the device feed
package notify

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{}

func notifyServer(t *testing.T, frames []string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/notifications" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return strings.TrimPrefix(srv.URL, "http://")
}

func TestListenerReceivesEvents(t *testing.T) {
	addr := notifyServer(t, []string{
		`{"moduleState":"RecorderStreaming","lastUpdateTag":7,"sdCardInserted":true}`,
		`{"moduleState":"RecorderRecording","lastUpdateTag":8,"sdCardInserted":true}`,
	})

	l := NewListener(addr, zerolog.Nop())
	require.NoError(t, l.Connect())
	defer l.Close()

	ev := <-l.Events()
	assert.Equal(t, "RecorderStreaming", ev.ModuleState)
	assert.Equal(t, 7, ev.LastUpdateTag)

	ev = <-l.Events()
	assert.Equal(t, "RecorderRecording", ev.ModuleState)
}

func TestListenerSkipsGarbageFrames(t *testing.T) {
	addr := notifyServer(t, []string{
		`not json`,
		`{"moduleState":"Idle","lastUpdateTag":1}`,
	})

	l := NewListener(addr, zerolog.Nop())
	require.NoError(t, l.Connect())
	defer l.Close()

	ev := <-l.Events()
	assert.Equal(t, "Idle", ev.ModuleState)
}

func TestListenerChannelClosesOnDisconnect(t *testing.T) {
	addr := notifyServer(t, []string{`{"moduleState":"Idle","lastUpdateTag":1}`})

	l := NewListener(addr, zerolog.Nop())
	require.NoError(t, l.Connect())
	defer l.Close()

	<-l.Events()

	select {
	case _, open := <-l.Events():
		assert.False(t, open, "events channel should close when the feed ends")
	case <-time.After(2 * time.Second):
		t.Fatal("events channel did not close")
	}
}

func TestListenerConnectRefused(t *testing.T) {
	l := NewListener("127.0.0.1:1", zerolog.Nop())
	assert.Error(t, l.Connect())
}
