package workspace

import (
	"fmt"
	"strings"
	"time"
)

// Summary renders a one-line description of a block for listings.
func Summary(b Block, today time.Time) string {
	switch c := b.Content.(type) {
	case TextContent:
		return firstLine(string(c), 60)
	case TodoContent:
		return fmt.Sprintf("%d/%d done (%.0f%%)", c.CompletedCount(), len(c), c.Progress())
	case CalendarContent:
		return fmt.Sprintf("%d event(s), %d today", len(c.Events), len(c.EventsOn(today)))
	case HabitContent:
		done := 0
		for _, h := range c.Habits {
			if habitDone(h, today) {
				done++
			}
		}
		return fmt.Sprintf("%d habit(s), %d done today", len(c.Habits), done)
	case GoalContent:
		return fmt.Sprintf("%s: %s/%s %s (%.0f%%)", c.Title, formatNumber(c.Current), formatNumber(c.Target), c.Unit, c.Progress())
	case JournalContent:
		day := c.Date
		if t, err := ParseDate(c.Date); err == nil {
			day = t.UTC().Format(dayLayout)
		}
		return fmt.Sprintf("%s %s %s", day, c.Mood, firstLine(c.Text, 40))
	default:
		return ""
	}
}

func firstLine(s string, max int) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	r := []rune(s)
	if len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return s
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%.2f", f)
}
