package workspace

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Content operations return updated copies and never modify the receiver.

func (c TodoContent) Add(id, text string) TodoContent {
	out := append(TodoContent{}, c...)
	return append(out, TodoItem{ID: id, Text: text})
}

func (c TodoContent) Toggle(id string) (TodoContent, bool) {
	return c.update(id, func(it *TodoItem) { it.Completed = !it.Completed })
}

func (c TodoContent) SetText(id, text string) (TodoContent, bool) {
	return c.update(id, func(it *TodoItem) { it.Text = text })
}

func (c TodoContent) Remove(id string) (TodoContent, bool) {
	out := make(TodoContent, 0, len(c))
	found := false
	for _, it := range c {
		if it.ID == id {
			found = true
			continue
		}
		out = append(out, it)
	}
	if !found {
		return c, false
	}
	return out, true
}

func (c TodoContent) update(id string, fn func(*TodoItem)) (TodoContent, bool) {
	out := append(TodoContent{}, c...)
	for i := range out {
		if out[i].ID == id {
			fn(&out[i])
			return out, true
		}
	}
	return c, false
}

func (c TodoContent) CompletedCount() int {
	n := 0
	for _, it := range c {
		if it.Completed {
			n++
		}
	}
	return n
}

// Progress is the completed share in percent; an empty list is 0.
func (c TodoContent) Progress() float64 {
	if len(c) == 0 {
		return 0
	}
	return float64(c.CompletedCount()) / float64(len(c)) * 100
}

func (c HabitContent) AddHabit(id, name string) HabitContent {
	out := c.clone().(HabitContent)
	out.Habits = append(out.Habits, Habit{ID: id, Name: name, CompletedDates: []string{}})
	return out
}

func (c HabitContent) RenameHabit(id, name string) (HabitContent, bool) {
	return c.update(id, func(h *Habit) { h.Name = name })
}

func (c HabitContent) RemoveHabit(id string) (HabitContent, bool) {
	out := c.clone().(HabitContent)
	for i, h := range out.Habits {
		if h.ID == id {
			out.Habits = append(out.Habits[:i], out.Habits[i+1:]...)
			return out, true
		}
	}
	return c, false
}

// Toggle flips a habit's completion for day. Completing appends day;
// un-completing drops every stored date on that calendar day.
func (c HabitContent) Toggle(habitID string, day time.Time) (HabitContent, bool) {
	return c.update(habitID, func(h *Habit) {
		if habitDone(*h, day) {
			kept := make([]string, 0, len(h.CompletedDates))
			for _, d := range h.CompletedDates {
				if t, err := ParseDate(d); err == nil && SameDay(t, day) {
					continue
				}
				kept = append(kept, d)
			}
			h.CompletedDates = kept
			return
		}
		h.CompletedDates = append(h.CompletedDates, FormatDate(day))
	})
}

func (c HabitContent) Completed(habitID string, day time.Time) bool {
	for _, h := range c.Habits {
		if h.ID == habitID {
			return habitDone(h, day)
		}
	}
	return false
}

// Streak counts consecutive completed days ending at day.
func (c HabitContent) Streak(habitID string, day time.Time) int {
	for _, h := range c.Habits {
		if h.ID != habitID {
			continue
		}
		n := 0
		for cur := day; habitDone(h, cur); cur = cur.AddDate(0, 0, -1) {
			n++
		}
		return n
	}
	return 0
}

// Week returns the seven days shown by the tracker, starting at StartDate.
func (c HabitContent) Week() ([]time.Time, error) {
	start, err := ParseDate(c.StartDate)
	if err != nil {
		return nil, err
	}
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days, nil
}

// ShiftWeek moves StartDate by n weeks.
func (c HabitContent) ShiftWeek(n int) (HabitContent, error) {
	start, err := ParseDate(c.StartDate)
	if err != nil {
		return c, err
	}
	out := c.clone().(HabitContent)
	out.StartDate = FormatDate(start.AddDate(0, 0, 7*n))
	return out, nil
}

func (c HabitContent) update(id string, fn func(*Habit)) (HabitContent, bool) {
	out := c.clone().(HabitContent)
	for i := range out.Habits {
		if out.Habits[i].ID == id {
			fn(&out.Habits[i])
			return out, true
		}
	}
	return c, false
}

func habitDone(h Habit, day time.Time) bool {
	for _, d := range h.CompletedDates {
		t, err := ParseDate(d)
		if err != nil {
			continue
		}
		if SameDay(t, day) {
			return true
		}
	}
	return false
}

// Progress is Current/Target in percent, defined as 0 for a zero target.
func (c GoalContent) Progress() float64 {
	if c.Target == 0 {
		return 0
	}
	return c.Current / c.Target * 100
}

func (c GoalContent) Increment() GoalContent {
	c.Current++
	return c
}

// Decrement never takes Current below zero.
func (c GoalContent) Decrement() GoalContent {
	if c.Current <= 0 {
		return c
	}
	c.Current--
	if c.Current < 0 {
		c.Current = 0
	}
	return c
}

func (c CalendarContent) AddEvent(ev CalendarEvent) CalendarContent {
	out := c.clone().(CalendarContent)
	out.Events = append(out.Events, ev)
	return out
}

func (c CalendarContent) RemoveEvent(id string) (CalendarContent, bool) {
	out := c.clone().(CalendarContent)
	for i, ev := range out.Events {
		if ev.ID == id {
			out.Events = append(out.Events[:i], out.Events[i+1:]...)
			return out, true
		}
	}
	return c, false
}

func (c CalendarContent) Select(day time.Time) CalendarContent {
	out := c.clone().(CalendarContent)
	out.SelectedDate = FormatDate(day)
	return out
}

// EventsOn lists the events on day ordered by time, all-day events last.
func (c CalendarContent) EventsOn(day time.Time) []CalendarEvent {
	var out []CalendarEvent
	for _, ev := range c.Events {
		t, err := ParseDate(ev.Date)
		if err != nil || !SameDay(t, day) {
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Time, out[j].Time
		if a == "" {
			return false
		}
		if b == "" {
			return true
		}
		return a < b
	})
	return out
}

func (c CalendarContent) HasEvents(day time.Time) bool {
	return len(c.EventsOn(day)) > 0
}

// FormatTime renders "14:30" as "2:30 PM"; an empty time is "All day".
// Unparseable input is returned unchanged.
func FormatTime(hhmm string) string {
	if hhmm == "" {
		return "All day"
	}
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return hhmm
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return hhmm
	}
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%s %s", display, parts[1], period)
}

type Mood struct {
	Glyph string
	Label string
}

var Moods = []Mood{
	{Glyph: "😊", Label: "Happy"},
	{Glyph: "😌", Label: "Calm"},
	{Glyph: "😐", Label: "Neutral"},
	{Glyph: "😔", Label: "Sad"},
	{Glyph: "😠", Label: "Angry"},
}

// MoodByName resolves a palette glyph or a case-insensitive label.
func MoodByName(s string) (Mood, bool) {
	for _, m := range Moods {
		if m.Glyph == s || strings.EqualFold(m.Label, s) {
			return m, true
		}
	}
	return Mood{}, false
}

func (c JournalContent) SetMood(glyph string) (JournalContent, error) {
	m, ok := MoodByName(glyph)
	if !ok {
		return c, fmt.Errorf("unknown mood %q", glyph)
	}
	c.Mood = m.Glyph
	return c, nil
}

func (c JournalContent) SetDate(day time.Time) JournalContent {
	c.Date = FormatDate(day)
	return c
}

func (c JournalContent) SetText(text string) JournalContent {
	c.Text = text
	return c
}
