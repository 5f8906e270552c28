package workspace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// Content is the type-specific payload of a Block.
type Content interface {
	Type() BlockType
	clone() Content
	validate(path string) []ValidationError
}

type TextContent string

type TodoItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type TodoContent []TodoItem

type CalendarEvent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Time        string `json:"time,omitempty"`
	Date        string `json:"date"`
}

type CalendarContent struct {
	SelectedDate string          `json:"selectedDate"`
	Events       []CalendarEvent `json:"events"`
}

type Habit struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	CompletedDates []string `json:"completedDates"`
}

type HabitContent struct {
	Habits    []Habit `json:"habits"`
	StartDate string  `json:"startDate"`
}

type GoalContent struct {
	Title   string  `json:"title"`
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
	Unit    string  `json:"unit"`
}

type JournalContent struct {
	Date string `json:"date"`
	Mood string `json:"mood"`
	Text string `json:"text"`
}

func (TextContent) Type() BlockType     { return BlockText }
func (TodoContent) Type() BlockType     { return BlockTodo }
func (CalendarContent) Type() BlockType { return BlockCalendar }
func (HabitContent) Type() BlockType    { return BlockHabit }
func (GoalContent) Type() BlockType     { return BlockGoal }
func (JournalContent) Type() BlockType  { return BlockJournal }

func (c TextContent) clone() Content { return c }

func (c TodoContent) clone() Content {
	return TodoContent(append([]TodoItem{}, c...))
}

func (c CalendarContent) clone() Content {
	c.Events = append([]CalendarEvent{}, c.Events...)
	return c
}

func (c HabitContent) clone() Content {
	habits := make([]Habit, len(c.Habits))
	for i, h := range c.Habits {
		h.CompletedDates = append([]string{}, h.CompletedDates...)
		habits[i] = h
	}
	c.Habits = habits
	return c
}

func (c GoalContent) clone() Content    { return c }
func (c JournalContent) clone() Content { return c }

// MarshalJSON keeps an empty list as [] rather than null.
func (c TodoContent) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]TodoItem(c))
}

// DecodeContent strictly decodes raw as the content shape of t.
func DecodeContent(t BlockType, raw json.RawMessage) (Content, error) {
	switch t {
	case BlockText:
		var c TextContent
		if err := decodeStrict(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case BlockTodo:
		var items []TodoItem
		if err := decodeStrict(raw, &items); err != nil {
			return nil, err
		}
		if items == nil {
			return nil, errors.New("todo content must be a list")
		}
		return TodoContent(items), nil
	case BlockCalendar:
		var c CalendarContent
		if err := decodeStrict(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case BlockHabit:
		var c HabitContent
		if err := decodeStrict(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case BlockGoal:
		var c GoalContent
		if err := decodeStrict(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case BlockJournal:
		var c JournalContent
		if err := decodeStrict(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown block type %q", t)
	}
}

func decodeStrict(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("trailing data")
	}
	return nil
}

type blockJSON struct {
	ID        string          `json:"id"`
	Type      BlockType       `json:"type"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (b Block) MarshalJSON() ([]byte, error) {
	var content json.RawMessage = []byte("null")
	if b.Content != nil {
		c, err := json.Marshal(b.Content)
		if err != nil {
			return nil, fmt.Errorf("marshal %s content: %w", b.Type, err)
		}
		content = c
	}
	return json.Marshal(blockJSON{
		ID:        b.ID,
		Type:      b.Type,
		Content:   content,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	})
}

// UnmarshalJSON rejects unknown fields. A content payload that does not
// match the declared type leaves Content nil; Validate reports why.
func (b *Block) UnmarshalJSON(data []byte) error {
	var raw blockJSON
	if err := decodeStrict(data, &raw); err != nil {
		return err
	}

	*b = Block{
		ID:        raw.ID,
		Type:      raw.Type,
		CreatedAt: raw.CreatedAt,
		UpdatedAt: raw.UpdatedAt,
	}
	if len(raw.Content) == 0 || string(raw.Content) == "null" {
		return nil
	}
	c, err := DecodeContent(raw.Type, raw.Content)
	if err != nil {
		b.contentErr = err
		return nil
	}
	b.Content = c
	return nil
}

// DefaultContent is what a freshly added block of type t starts with.
func DefaultContent(t BlockType, now time.Time) (Content, error) {
	today := FormatDate(now)
	switch t {
	case BlockText:
		return TextContent(""), nil
	case BlockTodo:
		return TodoContent{}, nil
	case BlockCalendar:
		return CalendarContent{SelectedDate: today, Events: []CalendarEvent{}}, nil
	case BlockHabit:
		return HabitContent{Habits: []Habit{}, StartDate: today}, nil
	case BlockGoal:
		return GoalContent{Title: "New Goal", Current: 0, Target: 100, Unit: "%"}, nil
	case BlockJournal:
		return JournalContent{Date: today, Mood: Moods[0].Glyph, Text: ""}, nil
	default:
		return nil, fmt.Errorf("unknown block type %q", t)
	}
}

const (
	isoMillis = "2006-01-02T15:04:05.000Z07:00"
	dayLayout = "2006-01-02"
)

// FormatDate renders t the way content dates are stored.
func FormatDate(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// ParseDate accepts an RFC 3339 timestamp or a bare YYYY-MM-DD day.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want RFC 3339 or YYYY-MM-DD)", s)
	}
	return t, nil
}

// SameDay reports whether two stored dates fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return a.UTC().Format(dayLayout) == b.UTC().Format(dayLayout)
}
