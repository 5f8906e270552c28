package workspace

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a non-empty list of problems found in one value.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "invalid"
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// Validate checks a workspace collection: required fields, per-type block
// content, timestamps, and id uniqueness across the whole collection.
func Validate(workspaces []Workspace) []ValidationError {
	var errs []ValidationError

	seenWorkspace := map[string]string{}
	seenPage := map[string]string{}
	seenBlock := map[string]string{}

	for wi, ws := range workspaces {
		path := fmt.Sprintf("$[%d]", wi)

		errs = append(errs, checkID(path, ws.ID, seenWorkspace)...)
		errs = append(errs, checkTimestamps(path, ws.CreatedAt, ws.UpdatedAt)...)
		if ws.Pages == nil {
			errs = append(errs, ValidationError{Path: path + ".pages", Message: "required (use [] if none)"})
			continue
		}

		for pi, p := range ws.Pages {
			ppath := fmt.Sprintf("%s.pages[%d]", path, pi)

			errs = append(errs, checkID(ppath, p.ID, seenPage)...)
			errs = append(errs, checkTimestamps(ppath, p.CreatedAt, p.UpdatedAt)...)
			if p.Blocks == nil {
				errs = append(errs, ValidationError{Path: ppath + ".blocks", Message: "required (use [] if none)"})
				continue
			}

			for bi, b := range p.Blocks {
				bpath := fmt.Sprintf("%s.blocks[%d]", ppath, bi)
				errs = append(errs, checkID(bpath, b.ID, seenBlock)...)
				errs = append(errs, checkTimestamps(bpath, b.CreatedAt, b.UpdatedAt)...)
				errs = append(errs, validateBlockContent(bpath, b)...)
			}
		}
	}

	return errs
}

func validateBlockContent(path string, b Block) []ValidationError {
	if _, ok := ParseBlockType(string(b.Type)); !ok {
		return []ValidationError{{Path: path + ".type", Message: fmt.Sprintf("unknown block type %q", b.Type)}}
	}
	if b.contentErr != nil {
		return []ValidationError{{Path: path + ".content", Message: fmt.Sprintf("invalid %s content: %v", b.Type, b.contentErr)}}
	}
	if b.Content == nil {
		return []ValidationError{{Path: path + ".content", Message: "required"}}
	}
	if b.Content.Type() != b.Type {
		return []ValidationError{{
			Path:    path + ".content",
			Message: fmt.Sprintf("content is %s but block type is %s", b.Content.Type(), b.Type),
		}}
	}
	return b.Content.validate(path + ".content")
}

func checkID(path, id string, seen map[string]string) []ValidationError {
	if id == "" {
		return []ValidationError{{Path: path + ".id", Message: "required"}}
	}
	if first, ok := seen[id]; ok {
		return []ValidationError{{Path: path + ".id", Message: fmt.Sprintf("duplicate id %q (first at %s)", id, first)}}
	}
	seen[id] = path
	return nil
}

func checkTimestamps(path string, created, updated time.Time) []ValidationError {
	var errs []ValidationError
	if created.IsZero() {
		errs = append(errs, ValidationError{Path: path + ".createdAt", Message: "required (ISO-8601 timestamp)"})
	}
	if updated.IsZero() {
		errs = append(errs, ValidationError{Path: path + ".updatedAt", Message: "required (ISO-8601 timestamp)"})
	}
	if !created.IsZero() && !updated.IsZero() && updated.Before(created) {
		errs = append(errs, ValidationError{Path: path + ".updatedAt", Message: "must be >= createdAt"})
	}
	return errs
}

func checkDate(path, value string) []ValidationError {
	if value == "" {
		return []ValidationError{{Path: path, Message: "required (ISO-8601 date)"}}
	}
	if _, err := ParseDate(value); err != nil {
		return []ValidationError{{Path: path, Message: err.Error()}}
	}
	return nil
}

func (c TextContent) validate(string) []ValidationError { return nil }

func (c TodoContent) validate(path string) []ValidationError {
	var errs []ValidationError
	seen := map[string]bool{}
	for i, it := range c {
		ipath := fmt.Sprintf("%s[%d]", path, i)
		if it.ID == "" {
			errs = append(errs, ValidationError{Path: ipath + ".id", Message: "required"})
			continue
		}
		if seen[it.ID] {
			errs = append(errs, ValidationError{Path: ipath + ".id", Message: fmt.Sprintf("duplicate todo id %q", it.ID)})
		}
		seen[it.ID] = true
	}
	return errs
}

func (c CalendarContent) validate(path string) []ValidationError {
	errs := checkDate(path+".selectedDate", c.SelectedDate)
	if c.Events == nil {
		return append(errs, ValidationError{Path: path + ".events", Message: "required (use [] if none)"})
	}
	seen := map[string]bool{}
	for i, ev := range c.Events {
		epath := fmt.Sprintf("%s.events[%d]", path, i)
		if ev.ID == "" {
			errs = append(errs, ValidationError{Path: epath + ".id", Message: "required"})
		} else if seen[ev.ID] {
			errs = append(errs, ValidationError{Path: epath + ".id", Message: fmt.Sprintf("duplicate event id %q", ev.ID)})
		}
		seen[ev.ID] = true
		if strings.TrimSpace(ev.Title) == "" {
			errs = append(errs, ValidationError{Path: epath + ".title", Message: "required"})
		}
		errs = append(errs, checkDate(epath+".date", ev.Date)...)
		if ev.Time != "" {
			if _, err := time.Parse("15:04", ev.Time); err != nil {
				errs = append(errs, ValidationError{Path: epath + ".time", Message: fmt.Sprintf("invalid time %q (want HH:MM)", ev.Time)})
			}
		}
	}
	return errs
}

func (c HabitContent) validate(path string) []ValidationError {
	errs := checkDate(path+".startDate", c.StartDate)
	if c.Habits == nil {
		return append(errs, ValidationError{Path: path + ".habits", Message: "required (use [] if none)"})
	}
	seen := map[string]bool{}
	for i, h := range c.Habits {
		hpath := fmt.Sprintf("%s.habits[%d]", path, i)
		if h.ID == "" {
			errs = append(errs, ValidationError{Path: hpath + ".id", Message: "required"})
		} else if seen[h.ID] {
			errs = append(errs, ValidationError{Path: hpath + ".id", Message: fmt.Sprintf("duplicate habit id %q", h.ID)})
		}
		seen[h.ID] = true
		if h.CompletedDates == nil {
			errs = append(errs, ValidationError{Path: hpath + ".completedDates", Message: "required (use [] if none)"})
			continue
		}
		for di, d := range h.CompletedDates {
			errs = append(errs, checkDate(fmt.Sprintf("%s.completedDates[%d]", hpath, di), d)...)
		}
	}
	return errs
}

func (c GoalContent) validate(path string) []ValidationError {
	if c.Target < 0 {
		return []ValidationError{{Path: path + ".target", Message: "must be >= 0"}}
	}
	return nil
}

func (c JournalContent) validate(path string) []ValidationError {
	errs := checkDate(path+".date", c.Date)
	if c.Mood == "" {
		errs = append(errs, ValidationError{Path: path + ".mood", Message: "required"})
	}
	return errs
}

// ValidateEntry vets one persisted key before it is allowed into storage.
// Keys this package does not own pass through untouched.
func ValidateEntry(key string, raw json.RawMessage) error {
	switch key {
	case KeyWorkspaces:
		ws, err := DecodeWorkspaces(raw)
		if err != nil {
			return err
		}
		if errs := Validate(ws); len(errs) != 0 {
			return ValidationErrors(errs)
		}
		return nil
	case KeyLastActiveWorkspace, KeyLastActivePage:
		var id *string
		if err := decodeStrict(raw, &id); err != nil {
			return fmt.Errorf("%s must be a string id or null: %w", key, err)
		}
		return nil
	default:
		return nil
	}
}
