// ABOUTME: Bubbletea model for the live instrument dashboard
// ABOUTME: Renders connection, recorder state and recording catalog updates
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// StatusMsg updates the recorder state display.
type StatusMsg struct {
	State          string
	LastUpdateTag  int
	SDCardInserted bool
}

// ConnMsg updates the connection display.
type ConnMsg struct {
	Connected bool
	Addr      string
}

// RecordingsMsg updates the catalog display.
type RecordingsMsg struct {
	Count  int
	Latest string
}

// ChannelLine is one row of the channel table.
type ChannelLine struct {
	Number  int
	Name    string
	Enabled bool
	Detail  string
}

// ChannelsMsg replaces the channel table.
type ChannelsMsg struct {
	Channels []ChannelLine
}

// FeedClosedMsg reports the notification feed dropping.
type FeedClosedMsg struct{}

// Model represents the dashboard state.
type Model struct {
	connected bool
	addr      string

	state         string
	lastUpdateTag int
	sdCard        bool
	feedClosed    bool

	channels []ChannelLine

	recordings int
	latest     string

	showDebug bool

	width  int
	height int
}

// NewModel creates a dashboard model.
func NewModel(addr string) Model {
	return Model{addr: addr, state: "unknown"}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "d":
			m.showDebug = !m.showDebug
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case ConnMsg:
		m.connected = msg.Connected
		if msg.Addr != "" {
			m.addr = msg.Addr
		}
	case StatusMsg:
		m.state = msg.State
		m.lastUpdateTag = msg.LastUpdateTag
		m.sdCard = msg.SDCardInserted
	case ChannelsMsg:
		m.channels = msg.Channels
	case RecordingsMsg:
		m.recordings = msg.Count
		m.latest = msg.Latest
	case FeedClosedMsg:
		m.feedClosed = true
		m.connected = false
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var s strings.Builder
	s.WriteString(m.renderHeader())
	s.WriteString(m.renderChannels())
	s.WriteString(m.renderRecordings())
	if m.showDebug {
		s.WriteString(m.renderDebug())
	}
	s.WriteString("│ q: quit   d: debug                                   │\n")
	s.WriteString("└──────────────────────────────────────────────────────┘\n")
	return s.String()
}

func (m Model) renderHeader() string {
	conn := "Disconnected"
	if m.connected {
		conn = fmt.Sprintf("Connected to %s", m.addr)
	} else if m.feedClosed {
		conn = fmt.Sprintf("Feed lost (%s)", m.addr)
	}

	sd := "no SD card"
	if m.sdCard {
		sd = "SD card inserted"
	}

	return fmt.Sprintf(`┌─ Instrument Monitor ─────────────────────────────────┐
│ Status: %-45s│
│ State:  %-21s %-23s│
├──────────────────────────────────────────────────────┤
`, truncate(conn, 45), truncate(m.state, 21), sd)
}

func (m Model) renderChannels() string {
	if len(m.channels) == 0 {
		return "│ No channel configuration                             │\n"
	}

	var s strings.Builder
	s.WriteString("│ Channels:                                            │\n")
	for _, ch := range m.channels {
		mark := " "
		if ch.Enabled {
			mark = "●"
		}
		line := fmt.Sprintf("%s %d %s  %s", mark, ch.Number, ch.Name, ch.Detail)
		fmt.Fprintf(&s, "│   %-51s│\n", truncate(line, 51))
	}
	return s.String()
}

func (m Model) renderRecordings() string {
	line := fmt.Sprintf("%d stored", m.recordings)
	if m.latest != "" {
		line += ", latest: " + m.latest
	}
	return fmt.Sprintf("│ Recordings: %-41s│\n", truncate(line, 41))
}

func (m Model) renderDebug() string {
	return fmt.Sprintf("│ lastUpdateTag=%-39d│\n", m.lastUpdateTag)
}

// truncate shortens a string to fit a column.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max < 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
