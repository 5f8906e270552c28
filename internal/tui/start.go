package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jbonatakis/trackflow/internal/workspace"
)

type Options struct {
	// Theme is "light" or "dark".
	Theme string
	Now   func() time.Time
}

func Start(session *workspace.Session, opts Options) error {
	model := NewModel(session, opts)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
