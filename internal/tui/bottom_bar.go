package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jbonatakis/trackflow/internal/workspace"
)

func RenderBottomBar(model Model) string {
	left := strings.Join(actionHints(model), " ")
	if model.status != nil {
		msg := model.status.Message
		if model.status.IsError {
			msg = model.styles.errorText.Render(msg)
		}
		left = left + " | " + msg
	}

	right := "saved"
	if model.dirty {
		right = "unsaved changes"
	}
	contentWidth := model.windowWidth
	padding := 1
	if contentWidth > 0 {
		contentWidth = contentWidth - padding*2
		if contentWidth < 0 {
			contentWidth = 0
		}
	}
	bar := layoutBar(left, right, contentWidth)
	return model.styles.bar.Padding(0, padding).Render(bar)
}

func actionHints(model Model) []string {
	switch model.inputMode {
	case InputNewPage:
		return []string{"[enter]create", "[esc]cancel"}
	case InputAddBlock:
		return []string{"[1-6]type", "[esc]cancel"}
	case InputConfirmDeletePage, InputConfirmDeleteBlock:
		return []string{"[y]es", "[n]o"}
	}

	if model.activePane == PaneSidebar {
		return []string{"[enter]open", "[n]ew page", "[D]elete page", "[tab]page", "[r]eload", "[q]uit"}
	}
	actions := []string{"[a]dd block"}
	if _, b, ok := model.focusedRow(); ok {
		switch b.Type {
		case workspace.BlockTodo, workspace.BlockHabit:
			actions = append(actions, "[x]toggle")
		case workspace.BlockGoal:
			actions = append(actions, "[+/-]progress")
		}
		if b.Type == workspace.BlockHabit {
			actions = append(actions, "[[/]]week")
		}
		actions = append(actions, "[d]elete block")
	}
	return append(actions, "[tab]sidebar", "[q]uit")
}

func layoutBar(left string, right string, width int) string {
	if width <= 0 {
		return left + " " + right
	}
	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)
	gap := width - leftWidth - rightWidth
	if gap < 1 {
		availableLeft := width - rightWidth - 1
		if availableLeft < 0 {
			return truncate(right, width)
		}
		left = truncate(left, availableLeft)
		leftWidth = lipgloss.Width(left)
		gap = width - leftWidth - rightWidth
		if gap < 1 {
			gap = 1
		}
	}
	bar := left + strings.Repeat(" ", gap) + right
	return truncate(bar, width)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width])
}
