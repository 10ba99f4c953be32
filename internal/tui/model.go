package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/feed"
)

const requestTimeout = 15 * time.Second

// Model renders the live order feed and forwards staff actions to it.
type Model struct {
	feed          *feed.Feed
	pollInterval  time.Duration
	alertDuration time.Duration

	snap   feed.Snapshot
	cursor int
	status string

	width  int
	height int

	keys keyMap
}

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Select      key.Binding
	Acknowledge key.Binding
	Propose     key.Binding
	Commit      key.Binding
	Delete      key.Binding
	Resume      key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "arriba"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "abajo"),
		),
		Select: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("espacio", "seleccionar"),
		),
		Acknowledge: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "visto"),
		),
		Propose: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "estado"),
		),
		Commit: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "confirmar"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "eliminar"),
		),
		Resume: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reanudar"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "salir"),
		),
	}
}

// NewModel creates the feed screen.
func NewModel(f *feed.Feed, pollInterval, alertDuration time.Duration) Model {
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	if alertDuration <= 0 {
		alertDuration = 3 * time.Second
	}
	return Model{
		feed:          f,
		pollInterval:  pollInterval,
		alertDuration: alertDuration,
		keys:          defaultKeyMap(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.tick())
}

type tickMsg time.Time

type refreshedMsg struct {
	err error
}

type alertExpiredMsg struct{}

type actionMsg struct {
	verb   string
	number string
	err    error
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return refreshedMsg{err: m.feed.Refresh(ctx)}
	}
}

func (m Model) expireAlert() tea.Cmd {
	return tea.Tick(m.alertDuration, func(time.Time) tea.Msg {
		return alertExpiredMsg{}
	})
}

func (m Model) commit(number string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return actionMsg{verb: "confirmado", number: number, err: m.feed.Commit(ctx, number)}
	}
}

func (m Model) remove(number string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return actionMsg{verb: "eliminado", number: number, err: m.feed.Delete(ctx, number)}
	}
}

// statusForKey maps the digit keys to statuses in workflow order.
func statusForKey(k string) (model.OrderStatus, bool) {
	if len(k) != 1 || k[0] < '1' || k[0] > '5' {
		return "", false
	}
	return model.OrderStatuses[k[0]-'1'], true
}

func (m Model) current() (feed.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snap.Entries) {
		return feed.Entry{}, false
	}
	return m.snap.Entries[m.cursor], true
}
