package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func renderSidebar(m Model, width, height int) string {
	entries := m.sidebarEntries()
	if len(entries) == 0 {
		return m.styles.muted.Render("No workspaces")
	}

	names := map[string]string{}
	colors := map[string]string{}
	pages := map[string]string{}
	for _, ws := range m.workspaces {
		names[ws.ID] = ws.Name
		colors[ws.ID] = ws.Color
		for _, p := range ws.Pages {
			pages[p.ID] = p.Icon + " " + p.Name
		}
	}

	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		prefix := "  "
		if i == m.sidebarCursor && m.activePane == PaneSidebar {
			prefix = m.styles.cursor.Render("› ")
		}
		if e.pageID == "" {
			label := truncate(names[e.workspaceID], width-2)
			style := m.styles.title.Foreground(lipgloss.Color(colors[e.workspaceID]))
			lines = append(lines, prefix+style.Render(label))
			continue
		}
		label := truncate(pages[e.pageID], width-4)
		if e.pageID == m.sel.PageID {
			label = m.styles.selected.Render(label)
		}
		lines = append(lines, prefix+"  "+label)
	}

	start := 0
	if height > 0 && len(lines) > height {
		start = m.sidebarCursor - height + 1
		if start < 0 {
			start = 0
		}
		lines = lines[start : start+height]
	}
	return strings.Join(lines, "\n")
}
