package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		if m.feed.Stopped() {
			return m, m.tick()
		}
		return m, tea.Batch(m.refresh(), m.tick())

	case refreshedMsg:
		m.sync()
		if m.snap.Alert {
			return m, m.expireAlert()
		}
		return m, nil

	case alertExpiredMsg:
		m.sync()
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.status = msg.number + ": " + msg.err.Error()
		} else {
			m.status = msg.number + " " + msg.verb
		}
		m.sync()
		return m, m.refresh()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if len(m.snap.Entries) > 0 {
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.snap.Entries) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if len(m.snap.Entries) > 0 {
			m.cursor = (m.cursor + 1) % len(m.snap.Entries)
		}
		return m, nil

	case key.Matches(msg, m.keys.Resume):
		m.feed.Resume()
		return m, m.refresh()
	}

	entry, ok := m.current()
	if !ok {
		return m, nil
	}
	number := entry.Order.Number

	switch {
	case key.Matches(msg, m.keys.Select):
		m.feed.ToggleSelected(number)
	case key.Matches(msg, m.keys.Acknowledge):
		m.feed.Acknowledge(number)
	case key.Matches(msg, m.keys.Propose):
		if status, ok := statusForKey(msg.String()); ok {
			m.feed.Propose(number, status)
		}
	case key.Matches(msg, m.keys.Commit):
		if entry.PendingStatus == "" {
			m.status = number + ": elija un estado primero"
			return m, nil
		}
		return m, m.commit(number)
	case key.Matches(msg, m.keys.Delete):
		return m, m.remove(number)
	default:
		return m, nil
	}

	m.sync()
	return m, nil
}

// sync copies the feed state and keeps the cursor in range.
func (m *Model) sync() {
	m.snap = m.feed.Snapshot()
	if m.cursor >= len(m.snap.Entries) {
		m.cursor = len(m.snap.Entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
