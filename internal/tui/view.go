package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	title := "  Pedidos activos"
	if !m.snap.Updated.IsZero() {
		title += "  ·  " + m.snap.Updated.Format("15:04:05")
	}
	b.WriteString(styleHeader.Width(max(m.width, 40)).Render(title))
	b.WriteString("\n\n")

	if m.snap.Alert {
		b.WriteString(styleAlert.Render("¡Nuevo pedido! " + strings.Join(m.snap.Arrived, ", ")))
		b.WriteString("\n\n")
	}
	if m.snap.Notice != "" {
		b.WriteString(styleNotice.Render("  " + m.snap.Notice))
		b.WriteString("\n\n")
	}

	b.WriteString(styleTableHeader.Render(fmt.Sprintf("    %-12s %-6s %-24s %-16s %-18s %s",
		"Orden", "Hora", "Pedido", "Cliente", "Estado", "Propuesto")))
	b.WriteString("\n")

	if len(m.snap.Entries) == 0 {
		b.WriteString(styleHelp.Render("  Sin pedidos activos."))
		b.WriteString("\n")
	}

	for i, e := range m.snap.Entries {
		marker := " "
		if e.Selected {
			marker = "x"
		}
		seen := "•"
		if e.Acknowledged {
			seen = " "
		}

		pending := ""
		if e.PendingStatus != "" {
			pending = stylePending.Render("→ " + e.PendingStatus.Label())
		}

		label := e.Order.StatusLabel
		if label == "" {
			label = e.Order.Status.Label()
		}

		line := fmt.Sprintf("%s%s  %-12s %-6s %-24s %-16s %-18s %s",
			styleNew.Render(seen), marker,
			truncate(e.Order.Number, 12),
			e.Order.TimeOfDay,
			truncate(e.Order.Item, 24),
			truncate(e.Order.CustomerName, 16),
			label,
			pending,
		)
		if i == m.cursor {
			b.WriteString(styleRowCursor.Render(line))
		} else {
			b.WriteString(styleRow.Render(line))
		}
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n  " + m.status + "\n")
	}

	b.WriteString("\n")
	b.WriteString(styleHelp.Render(m.help()))
	return b.String()
}

func (m Model) help() string {
	bindings := []key.Binding{
		m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Acknowledge,
		m.keys.Propose, m.keys.Commit, m.keys.Delete, m.keys.Resume, m.keys.Quit,
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return "  " + strings.Join(parts, " · ") + "\n  1 pendiente · 2 procesando · 3 listo para enviar · 4 enviado · 5 cancelado"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
