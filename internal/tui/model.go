package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jbonatakis/trackflow/internal/workspace"
)

type ActivePane int

const (
	PaneSidebar ActivePane = iota
	PanePage
)

type InputMode int

const (
	InputNone InputMode = iota
	InputNewPage
	InputAddBlock
	InputConfirmDeletePage
	InputConfirmDeleteBlock
)

type StatusLine struct {
	Message string
	IsError bool
}

// sidebarEntry is a workspace header (pageID empty) or one of its pages.
type sidebarEntry struct {
	workspaceID string
	pageID      string
}

// pageRow is a focusable row of the page pane: a block header (itemID
// empty), a todo item or a habit.
type pageRow struct {
	blockID string
	itemID  string
}

type Model struct {
	session *workspace.Session
	now     func() time.Time
	styles  styles

	workspaces []workspace.Workspace
	sel        workspace.Selection
	dirty      bool

	activePane    ActivePane
	sidebarCursor int
	rowCursor     int

	inputMode InputMode
	input     textinput.Model
	pendingID string

	status       *StatusLine
	windowWidth  int
	windowHeight int
}

func NewModel(session *workspace.Session, opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ti := textinput.New()
	ti.Placeholder = "Page name"
	ti.CharLimit = 120
	ti.Width = 40

	m := Model{
		session:    session,
		now:        now,
		styles:     newStyles(opts.Theme),
		activePane: PaneSidebar,
		input:      ti,
	}
	m.refresh()
	m.syncSidebarCursor()
	if m.sel.PageID != "" {
		m.activePane = PanePage
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh re-reads the Store and clamps cursors to the new shape.
func (m *Model) refresh() {
	store := m.session.Store()
	m.workspaces = store.Workspaces()
	m.sel = store.Selection()
	m.dirty = store.Dirty()
	m.sidebarCursor = clamp(m.sidebarCursor, 0, len(m.sidebarEntries())-1)
	m.rowCursor = clamp(m.rowCursor, 0, len(m.pageRows())-1)
}

func (m *Model) syncSidebarCursor() {
	for i, e := range m.sidebarEntries() {
		if m.sel.PageID != "" && e.pageID == m.sel.PageID {
			m.sidebarCursor = i
			return
		}
		if m.sel.PageID == "" && e.pageID == "" && e.workspaceID == m.sel.WorkspaceID {
			m.sidebarCursor = i
			return
		}
	}
}

func (m Model) sidebarEntries() []sidebarEntry {
	var out []sidebarEntry
	for _, ws := range m.workspaces {
		out = append(out, sidebarEntry{workspaceID: ws.ID})
		for _, p := range ws.Pages {
			out = append(out, sidebarEntry{workspaceID: ws.ID, pageID: p.ID})
		}
	}
	return out
}

func (m Model) currentPage() (workspace.Page, bool) {
	for _, ws := range m.workspaces {
		if ws.ID != m.sel.WorkspaceID {
			continue
		}
		for _, p := range ws.Pages {
			if p.ID == m.sel.PageID {
				return p, true
			}
		}
	}
	return workspace.Page{}, false
}

func (m Model) currentWorkspace() (workspace.Workspace, bool) {
	for _, ws := range m.workspaces {
		if ws.ID == m.sel.WorkspaceID {
			return ws, true
		}
	}
	return workspace.Workspace{}, false
}

func (m Model) pageRows() []pageRow {
	p, ok := m.currentPage()
	if !ok {
		return nil
	}
	var rows []pageRow
	for _, b := range p.Blocks {
		rows = append(rows, pageRow{blockID: b.ID})
		switch c := b.Content.(type) {
		case workspace.TodoContent:
			for _, it := range c {
				rows = append(rows, pageRow{blockID: b.ID, itemID: it.ID})
			}
		case workspace.HabitContent:
			for _, h := range c.Habits {
				rows = append(rows, pageRow{blockID: b.ID, itemID: h.ID})
			}
		}
	}
	return rows
}

func (m Model) focusedRow() (pageRow, workspace.Block, bool) {
	rows := m.pageRows()
	if m.rowCursor < 0 || m.rowCursor >= len(rows) {
		return pageRow{}, workspace.Block{}, false
	}
	row := rows[m.rowCursor]
	p, _ := m.currentPage()
	for _, b := range p.Blocks {
		if b.ID == row.blockID {
			return row, b, true
		}
	}
	return pageRow{}, workspace.Block{}, false
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = typed.Width
		m.windowHeight = typed.Height
		return m, nil
	case mutationDoneMsg:
		if typed.err != nil {
			m.status = &StatusLine{Message: typed.label + " failed: " + typed.err.Error(), IsError: true}
		} else {
			m.status = &StatusLine{Message: typed.label}
		}
		m.refresh()
		if typed.resetRows {
			m.rowCursor = 0
		}
		if typed.syncSidebar {
			m.syncSidebarCursor()
		}
		return m, nil
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.inputMode != InputNone {
			return m.handleInputKey(typed)
		}
		m.status = nil
		return m.handleKey(typed.String())
	}
	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "tab":
		if m.activePane == PaneSidebar {
			m.activePane = PanePage
		} else {
			m.activePane = PaneSidebar
		}
		return m, nil
	case "r":
		return m, m.reloadCmd()
	case "n":
		if _, ok := m.currentWorkspace(); !ok {
			m.status = &StatusLine{Message: "Select a workspace first", IsError: true}
			return m, nil
		}
		m.inputMode = InputNewPage
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	case "D":
		p, ok := m.currentPage()
		if !ok {
			return m, nil
		}
		m.inputMode = InputConfirmDeletePage
		m.pendingID = p.ID
		return m, nil
	}

	if m.activePane == PaneSidebar {
		return m.handleSidebarKey(key)
	}
	return m.handlePageKey(key)
}

func (m Model) handleSidebarKey(key string) (tea.Model, tea.Cmd) {
	entries := m.sidebarEntries()
	switch key {
	case "up", "k":
		m.sidebarCursor = clamp(m.sidebarCursor-1, 0, len(entries)-1)
	case "down", "j":
		m.sidebarCursor = clamp(m.sidebarCursor+1, 0, len(entries)-1)
	case "home":
		m.sidebarCursor = 0
	case "end":
		m.sidebarCursor = clamp(len(entries)-1, 0, len(entries)-1)
	case "enter", " ":
		if m.sidebarCursor >= len(entries) {
			return m, nil
		}
		e := entries[m.sidebarCursor]
		m.activePane = PanePage
		return m, m.selectCmd(e.workspaceID, e.pageID)
	}
	return m, nil
}

func (m Model) handlePageKey(key string) (tea.Model, tea.Cmd) {
	rows := m.pageRows()
	switch key {
	case "up", "k":
		m.rowCursor = clamp(m.rowCursor-1, 0, len(rows)-1)
		return m, nil
	case "down", "j":
		m.rowCursor = clamp(m.rowCursor+1, 0, len(rows)-1)
		return m, nil
	case "home":
		m.rowCursor = 0
		return m, nil
	case "end":
		m.rowCursor = clamp(len(rows)-1, 0, len(rows)-1)
		return m, nil
	case "a":
		if _, ok := m.currentPage(); !ok {
			return m, nil
		}
		m.inputMode = InputAddBlock
		return m, nil
	}

	row, b, ok := m.focusedRow()
	if !ok {
		return m, nil
	}
	switch key {
	case " ", "x", "enter":
		return m, m.toggleCmd(row, b)
	case "+", "=":
		if b.Type == workspace.BlockGoal {
			return m, m.goalCmd(b.ID, 1)
		}
	case "-":
		if b.Type == workspace.BlockGoal {
			return m, m.goalCmd(b.ID, -1)
		}
	case "[", "]":
		if b.Type == workspace.BlockHabit {
			n := 1
			if key == "[" {
				n = -1
			}
			return m, m.shiftWeekCmd(b.ID, n)
		}
	case "d":
		m.inputMode = InputConfirmDeleteBlock
		m.pendingID = b.ID
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.inputMode {
	case InputNewPage:
		switch key {
		case "esc":
			m.inputMode = InputNone
			m.input.Blur()
			return m, nil
		case "enter":
			name := strings.TrimSpace(m.input.Value())
			if name == "" {
				m.status = &StatusLine{Message: "Page name is required", IsError: true}
				return m, nil
			}
			m.inputMode = InputNone
			m.input.Blur()
			m.activePane = PanePage
			return m, m.createPageCmd(name)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	case InputAddBlock:
		if key == "esc" {
			m.inputMode = InputNone
			return m, nil
		}
		if len(key) == 1 && key[0] >= '1' && int(key[0]-'0') <= len(workspace.BlockTypes) {
			m.inputMode = InputNone
			return m, m.addBlockCmd(workspace.BlockTypes[key[0]-'1'])
		}
		return m, nil
	default:
		switch key {
		case "y", "Y":
			mode, id := m.inputMode, m.pendingID
			m.inputMode = InputNone
			m.pendingID = ""
			if mode == InputConfirmDeletePage {
				return m, m.deletePageCmd(id)
			}
			return m, m.deleteBlockCmd(id)
		case "n", "N", "esc":
			m.inputMode = InputNone
			m.pendingID = ""
		}
		return m, nil
	}
}

func (m Model) View() string {
	bar := RenderBottomBar(m)
	bodyHeight := 0
	if m.windowHeight > 0 {
		bodyHeight = m.windowHeight - lipgloss.Height(bar) - 2
		if bodyHeight < 1 {
			bodyHeight = 1
		}
	}

	sidebarWidth := 28
	pageWidth := 0
	if m.windowWidth > 0 {
		pageWidth = m.windowWidth - sidebarWidth - 8
		if pageWidth < 20 {
			pageWidth = 20
		}
	}

	sidebarStyle, pageStyle := m.styles.activePane, m.styles.paneBorder
	if m.activePane == PanePage {
		sidebarStyle, pageStyle = m.styles.paneBorder, m.styles.activePane
	}

	sidebar := renderSidebar(m, sidebarWidth, bodyHeight)
	var main string
	if m.inputMode != InputNone {
		main = renderModal(m, pageWidth, bodyHeight)
	} else {
		main = renderPage(m, pageWidth, bodyHeight)
	}

	left := sidebarStyle.Width(sidebarWidth).Render(sidebar)
	right := pageStyle.Render(main)
	if pageWidth > 0 {
		right = pageStyle.Width(pageWidth).Render(main)
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, body, bar)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
