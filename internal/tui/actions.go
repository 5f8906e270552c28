package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jbonatakis/trackflow/internal/workspace"
)

// mutationDoneMsg reports a finished Store call; the model refreshes from
// the Store when it arrives.
type mutationDoneMsg struct {
	label       string
	err         error
	resetRows   bool
	syncSidebar bool
}

func mutate(label string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{label: label, err: fn()}
	}
}

// navigate is mutate for calls that change the selected page.
func navigate(label string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{label: label, err: fn(), resetRows: true, syncSidebar: true}
	}
}

func (m Model) reloadCmd() tea.Cmd {
	store := m.session.Store()
	return navigate("Reloaded", store.Reload)
}

func (m Model) selectCmd(workspaceID, pageID string) tea.Cmd {
	store := m.session.Store()
	return navigate("Opened", func() error {
		return store.Select(workspaceID, pageID)
	})
}

func (m Model) createPageCmd(name string) tea.Cmd {
	session := m.session
	return navigate(fmt.Sprintf("Created page %q", name), func() error {
		p, err := session.CreatePage(name, "")
		if err != nil {
			return err
		}
		return session.SelectPage(p.ID)
	})
}

func (m Model) deletePageCmd(pageID string) tea.Cmd {
	session := m.session
	return navigate("Deleted page", func() error {
		return session.DeletePage(pageID)
	})
}

func (m Model) addBlockCmd(t workspace.BlockType) tea.Cmd {
	session := m.session
	now := m.now()
	return mutate(fmt.Sprintf("Added %s block", t), func() error {
		content, err := workspace.DefaultContent(t, now)
		if err != nil {
			return err
		}
		_, err = session.AddBlock(content)
		return err
	})
}

func (m Model) deleteBlockCmd(blockID string) tea.Cmd {
	session := m.session
	return mutate("Deleted block", func() error {
		return session.DeleteBlock(blockID)
	})
}

// toggleCmd flips the focused todo item, or today's completion of the
// focused habit.
func (m Model) toggleCmd(row pageRow, b workspace.Block) tea.Cmd {
	if row.itemID == "" {
		return nil
	}
	session := m.session
	today := m.now()
	switch b.Type {
	case workspace.BlockTodo:
		return mutate("Toggled todo", func() error {
			_, err := session.EditBlock(b.ID, func(c workspace.Content) (workspace.Content, error) {
				next, ok := c.(workspace.TodoContent).Toggle(row.itemID)
				if !ok {
					return nil, fmt.Errorf("todo item %q not found", row.itemID)
				}
				return next, nil
			})
			return err
		})
	case workspace.BlockHabit:
		return mutate("Toggled habit for today", func() error {
			_, err := session.EditBlock(b.ID, func(c workspace.Content) (workspace.Content, error) {
				next, ok := c.(workspace.HabitContent).Toggle(row.itemID, today)
				if !ok {
					return nil, fmt.Errorf("habit %q not found", row.itemID)
				}
				return next, nil
			})
			return err
		})
	}
	return nil
}

func (m Model) goalCmd(blockID string, delta int) tea.Cmd {
	session := m.session
	label := "Goal +1"
	if delta < 0 {
		label = "Goal -1"
	}
	return mutate(label, func() error {
		_, err := session.EditBlock(blockID, func(c workspace.Content) (workspace.Content, error) {
			goal := c.(workspace.GoalContent)
			if delta < 0 {
				return goal.Decrement(), nil
			}
			return goal.Increment(), nil
		})
		return err
	})
}

func (m Model) shiftWeekCmd(blockID string, weeks int) tea.Cmd {
	session := m.session
	return mutate("Moved week", func() error {
		_, err := session.EditBlock(blockID, func(c workspace.Content) (workspace.Content, error) {
			return c.(workspace.HabitContent).ShiftWeek(weeks)
		})
		return err
	})
}
