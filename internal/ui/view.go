package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/seivan/hoard/internal/config"
	"github.com/seivan/hoard/internal/format/table"
	"github.com/seivan/hoard/internal/session"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	footerHints = "Create <Ctrl-W> | Delete <Ctrl-X> | GPT <Ctrl-A>"

	keyNotConfiguredText = "No GPT API key configured.\n" +
		"Set gpt_api_key in config.yml or export OPENAI_API_KEY.\n\n" +
		"Press any key to continue."
)

func defaultsForStyles() config.File {
	return config.Defaults("")
}

// View renders the current snapshot.
func (m *Model) View() string {
	snap := m.controller.Snapshot()
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	height := m.height
	if height <= 0 {
		height = defaultHeight
	}

	if snap.PopupVisible {
		return m.renderPopup(snap, width, height)
	}

	var b strings.Builder
	b.WriteString(m.renderTabs(snap, width))
	b.WriteString("\n\n")
	b.WriteString(m.renderList(snap, width))
	b.WriteString("\n")
	if snap.Mode == session.ModeEdit {
		b.WriteString(m.renderEditPanes(snap, width))
	} else {
		b.WriteString(m.renderDetailPanes(snap, width))
	}
	b.WriteString("\n")
	b.WriteString(m.renderQuery(snap, width))
	b.WriteString("\n")
	if snap.Status != "" {
		b.WriteString(m.styles.Error.Render(truncate.String(snap.Status, uint(width))))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Footer.Render(truncate.String(footerHints, uint(width))))
	return b.String()
}

func (m *Model) renderTabs(snap session.Snapshot, width int) string {
	parts := make([]string, 0, len(snap.Namespaces))
	for i, ns := range snap.Namespaces {
		if i == snap.NamespaceIndex {
			parts = append(parts, m.styles.SelectedTab.Render(ns))
		} else {
			parts = append(parts, m.styles.Tab.Render(ns))
		}
	}
	line := " " + strings.Join(parts, m.styles.Tab.Render(" | "))
	return truncate.String(line, uint(width))
}

func (m *Model) renderList(snap session.Snapshot, width int) string {
	if len(snap.View) == 0 {
		return m.styles.Item.Render("  no commands")
	}
	rows := make([][]string, len(snap.View))
	for i, e := range snap.View {
		rows[i] = []string{e.Name, e.TagString()}
	}
	lines := table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignLeft})
	var b strings.Builder
	for i, line := range lines {
		text := truncate.String("  "+line, uint(width))
		if i == snap.Selection {
			b.WriteString(m.styles.SelectedItem.Render(text))
		} else {
			b.WriteString(m.styles.Item.Render(text))
		}
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) renderDetailPanes(snap session.Snapshot, width int) string {
	var command, description string
	if len(snap.View) > 0 && snap.Selection >= 0 && snap.Selection < len(snap.View) {
		entry := snap.View[snap.Selection]
		command = entry.Command
		description = entry.Description
	}
	var b strings.Builder
	b.WriteString(m.styles.PaneTitle.Render("Command"))
	b.WriteString("\n")
	b.WriteString(m.styles.PaneBody.Render(truncate.String("  "+command, uint(width))))
	b.WriteString("\n")
	b.WriteString(m.styles.PaneTitle.Render("Description"))
	b.WriteString("\n")
	b.WriteString(m.styles.PaneBody.Render(truncate.String("  "+description, uint(width))))
	b.WriteString("\n")
	return b.String()
}

// renderEditPanes coerces the detail area into the four entry fields, with
// the live buffer shown under the active field.
func (m *Model) renderEditPanes(snap session.Snapshot, width int) string {
	fields := []struct {
		field session.EditField
		title string
		value string
	}{
		{session.FieldName, "Name", snap.Draft.Name},
		{session.FieldCommand, "Command", snap.Draft.Command},
		{session.FieldTags, "Tags", snap.Draft.TagString()},
		{session.FieldDescription, "Description", snap.Draft.Description},
	}
	var b strings.Builder
	for _, f := range fields {
		if f.field == snap.Field {
			b.WriteString(m.styles.ActivePaneTitle.Render(f.title))
			b.WriteString("\n")
			b.WriteString(m.styles.PaneBody.Render(truncate.String("  "+snap.EditBuffer+"_", uint(width))))
		} else {
			b.WriteString(m.styles.PaneTitle.Render(f.title))
			b.WriteString("\n")
			b.WriteString(m.styles.PaneBody.Render(truncate.String("  "+f.value, uint(width))))
		}
		b.WriteString("\n")
	}
	if snap.Field == session.FieldTags && m.store != nil {
		if known := m.store.SortedTags(); len(known) > 0 {
			hint := "known tags: " + strings.Join(known, ", ")
			b.WriteString(m.styles.Footer.Render(truncate.String(hint, uint(width))))
			b.WriteString("\n")
		}
	}
	b.WriteString(m.styles.Footer.Render("Next field <Tab> | Save <Enter> | Cancel <Esc>"))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderQuery(snap session.Snapshot, width int) string {
	if snap.Mode != session.ModeSearch {
		return ""
	}
	text := truncate.String(snap.Query, uint(max(width-len(m.queryPrefix)-2, 1)))
	return m.styles.QueryPrefix.Render(m.queryPrefix) + m.styles.Query.Render(" "+text) + m.queryCursor.View()
}

func (m *Model) renderPopup(snap session.Snapshot, width, height int) string {
	var body string
	switch snap.Mode {
	case session.ModeKeyNotConfigured:
		body = keyNotConfiguredText
	case session.ModeGptPrompt:
		body = "Describe the command to generate:\n\n> " + snap.GptInput + "_\n\nSubmit <Enter> | Cancel <Esc>"
	default:
		body = snap.GptInput
	}
	box := m.styles.Popup.Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
