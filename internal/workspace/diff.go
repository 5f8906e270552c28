package workspace

import (
	"encoding/json"
	"sort"
	"strings"
)

// DiffSummary lists entity ids (workspaces, pages and blocks alike) that
// changed between two collections. Moved means the entity now lives under a
// different parent.
type DiffSummary struct {
	Added   []string
	Removed []string
	Updated []string
	Moved   []string
}

func (d DiffSummary) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Updated) == 0 && len(d.Moved) == 0
}

type diffEntry struct {
	parent string
	body   string
}

func Diff(before, after []Workspace) DiffSummary {
	summary := DiffSummary{}

	beforeIDs := flatten(before)
	afterIDs := flatten(after)

	for id := range afterIDs {
		if _, ok := beforeIDs[id]; !ok {
			summary.Added = append(summary.Added, id)
		}
	}
	for id, b := range beforeIDs {
		a, ok := afterIDs[id]
		if !ok {
			summary.Removed = append(summary.Removed, id)
			continue
		}
		if a.parent != b.parent {
			summary.Moved = append(summary.Moved, id)
		}
		if a.body != b.body {
			summary.Updated = append(summary.Updated, id)
		}
	}

	sort.Strings(summary.Added)
	sort.Strings(summary.Removed)
	sort.Strings(summary.Updated)
	sort.Strings(summary.Moved)
	return summary
}

// flatten maps every entity id to its parent and a rendering of its own
// fields. Child order counts as a field of the parent.
func flatten(workspaces []Workspace) map[string]diffEntry {
	out := map[string]diffEntry{}
	for _, ws := range workspaces {
		pageIDs := make([]string, 0, len(ws.Pages))
		for _, p := range ws.Pages {
			pageIDs = append(pageIDs, p.ID)

			blockIDs := make([]string, 0, len(p.Blocks))
			for _, b := range p.Blocks {
				blockIDs = append(blockIDs, b.ID)
				content, _ := json.Marshal(b.Content)
				out[b.ID] = diffEntry{parent: p.ID, body: string(b.Type) + "\x00" + string(content)}
			}
			out[p.ID] = diffEntry{
				parent: ws.ID,
				body:   p.Name + "\x00" + p.Icon + "\x00" + strings.Join(blockIDs, ","),
			}
		}
		out[ws.ID] = diffEntry{body: ws.Name + "\x00" + ws.Color + "\x00" + strings.Join(pageIDs, ",")}
	}
	return out
}
