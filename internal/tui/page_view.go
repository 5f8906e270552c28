package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/jbonatakis/trackflow/internal/workspace"
)

var blockTitles = map[workspace.BlockType]string{
	workspace.BlockText:     "Text",
	workspace.BlockTodo:     "Todo List",
	workspace.BlockCalendar: "Calendar",
	workspace.BlockHabit:    "Habit Tracker",
	workspace.BlockGoal:     "Goal",
	workspace.BlockJournal:  "Journal",
}

func renderPage(m Model, width, height int) string {
	p, ok := m.currentPage()
	if !ok {
		if _, hasWS := m.currentWorkspace(); hasWS {
			return m.styles.muted.Render("No pages yet. Press n to create one.")
		}
		return m.styles.muted.Render("Select a workspace from the sidebar.")
	}

	lines, cursorLine := pageLines(m, p)
	content := strings.Join(lines, "\n")
	return applyViewport(content, width, height, scrollOffset(cursorLine, len(lines), height))
}

// pageLines renders the page and reports the line of the focused row.
func pageLines(m Model, p workspace.Page) ([]string, int) {
	today := m.now()
	rows := m.pageRows()
	focused := pageRow{}
	if m.rowCursor >= 0 && m.rowCursor < len(rows) {
		focused = rows[m.rowCursor]
	}
	showCursor := m.activePane == PanePage

	lines := []string{
		m.styles.title.Render(p.Icon + " " + p.Name),
		m.styles.muted.Render("updated " + p.UpdatedAt.Local().Format("2006-01-02 15:04")),
		"",
	}
	cursorLine := 0
	mark := func(row pageRow, text string) string {
		if showCursor && row == focused {
			cursorLine = len(lines)
			return m.styles.cursor.Render("› ") + text
		}
		return "  " + text
	}

	if len(p.Blocks) == 0 {
		lines = append(lines, m.styles.muted.Render("Empty page. Press a to add a block."))
	}
	for _, b := range p.Blocks {
		header := m.styles.blockLabel.Render(blockTitles[b.Type])
		if summary := blockHeaderSummary(b, today); summary != "" {
			header += "  " + m.styles.muted.Render(summary)
		}
		lines = append(lines, mark(pageRow{blockID: b.ID}, header))

		for _, body := range blockBody(m, b, today) {
			if body.row == nil {
				lines = append(lines, body.text)
				continue
			}
			lines = append(lines, mark(*body.row, "  "+body.text))
		}
		lines = append(lines, "")
	}
	return lines, cursorLine
}

func blockHeaderSummary(b workspace.Block, today time.Time) string {
	switch b.Content.(type) {
	case workspace.TextContent:
		return ""
	default:
		return workspace.Summary(b, today)
	}
}

// bodyLine is one rendered line under a block header; row is set for
// lines the cursor can land on.
type bodyLine struct {
	text string
	row  *pageRow
}

func plain(texts ...string) []bodyLine {
	out := make([]bodyLine, 0, len(texts))
	for _, t := range texts {
		out = append(out, bodyLine{text: t})
	}
	return out
}

func blockBody(m Model, b workspace.Block, today time.Time) []bodyLine {
	const indent = "    "
	var out []bodyLine
	switch c := b.Content.(type) {
	case workspace.TextContent:
		if c == "" {
			return plain(indent + m.styles.muted.Render("(empty)"))
		}
		for _, line := range strings.Split(string(c), "\n") {
			out = append(out, plain(indent+line)...)
		}
	case workspace.TodoContent:
		if len(c) == 0 {
			return plain(indent + m.styles.muted.Render("No tasks yet"))
		}
		for _, it := range c {
			text := "[ ] " + it.Text
			if it.Completed {
				text = m.styles.done.Render("[x] " + it.Text)
			}
			out = append(out, bodyLine{text: text, row: &pageRow{blockID: b.ID, itemID: it.ID}})
		}
	case workspace.HabitContent:
		days, err := c.Week()
		if err == nil {
			var head strings.Builder
			for _, d := range days {
				head.WriteString(d.UTC().Format("Mon")[:2] + " ")
			}
			out = append(out, plain(indent+m.styles.muted.Render(fmt.Sprintf("%-18s %s", "week of "+days[0].UTC().Format("Jan 2"), head.String())))...)
		}
		for _, h := range c.Habits {
			var grid strings.Builder
			for _, d := range days {
				if c.Completed(h.ID, d) {
					grid.WriteString("●  ")
				} else {
					grid.WriteString("·  ")
				}
			}
			box := "[ ]"
			if c.Completed(h.ID, today) {
				box = "[x]"
			}
			text := fmt.Sprintf("%s %-14s %s streak %d", box, truncate(h.Name, 14), grid.String(), c.Streak(h.ID, today))
			out = append(out, bodyLine{text: text, row: &pageRow{blockID: b.ID, itemID: h.ID}})
		}
	case workspace.GoalContent:
		out = plain(indent + progressBar(c.Progress(), 20))
	case workspace.CalendarContent:
		day, err := workspace.ParseDate(c.SelectedDate)
		if err != nil {
			day = today
		}
		out = plain(indent + m.styles.muted.Render(day.UTC().Format("Monday, Jan 2 2006")))
		events := c.EventsOn(day)
		if len(events) == 0 {
			out = append(out, plain(indent+m.styles.muted.Render("No events"))...)
		}
		for _, ev := range events {
			out = append(out, plain(fmt.Sprintf("%s%-8s %s", indent, workspace.FormatTime(ev.Time), ev.Title))...)
		}
	case workspace.JournalContent:
		date := c.Date
		if t, err := workspace.ParseDate(c.Date); err == nil {
			date = t.UTC().Format("Jan 2 2006")
		}
		out = plain(indent + date + " " + c.Mood)
		if c.Text == "" {
			out = append(out, plain(indent+m.styles.muted.Render("(no entry)"))...)
		}
		for _, line := range strings.Split(c.Text, "\n") {
			if line != "" {
				out = append(out, plain(indent+line)...)
			}
		}
	}
	return out
}

func progressBar(percent float64, width int) string {
	if percent < 0 {
		percent = 0
	}
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + fmt.Sprintf("] %.0f%%", percent)
}

// scrollOffset keeps the cursor line inside a window of height lines.
func scrollOffset(cursorLine, total, height int) int {
	if height <= 0 || total <= height {
		return 0
	}
	offset := cursorLine - height/2
	if offset < 0 {
		offset = 0
	}
	if offset > total-height {
		offset = total - height
	}
	return offset
}

// applyViewport renders content in a viewport of the given size at offset.
func applyViewport(content string, width, height, offset int) string {
	if height <= 0 || width <= 0 {
		return content
	}
	view := viewport.New(width, height)
	view.SetContent(content)
	view.SetYOffset(offset)
	return view.View()
}

func renderModal(m Model, width, height int) string {
	var body string
	switch m.inputMode {
	case InputNewPage:
		ws, _ := m.currentWorkspace()
		body = m.styles.title.Render("New page in "+ws.Name) + "\n\n" + m.input.View() + "\n\n" + m.styles.muted.Render("enter create · esc cancel")
	case InputAddBlock:
		var b strings.Builder
		b.WriteString(m.styles.title.Render("Add block") + "\n\n")
		for i, t := range workspace.BlockTypes {
			fmt.Fprintf(&b, "%d  %s\n", i+1, blockTitles[t])
		}
		b.WriteString("\n" + m.styles.muted.Render("1-6 choose · esc cancel"))
		body = b.String()
	case InputConfirmDeletePage:
		name := m.pendingID
		if p, ok := m.currentPage(); ok && p.ID == m.pendingID {
			name = p.Icon + " " + p.Name
		}
		body = m.styles.title.Render("Delete page "+name+"?") + "\n\n" + m.styles.muted.Render("Its blocks are deleted too. y confirm · n cancel")
	case InputConfirmDeleteBlock:
		body = m.styles.title.Render("Delete this block?") + "\n\n" + m.styles.muted.Render("y confirm · n cancel")
	}
	return m.styles.modal.Render(body)
}
