package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbonatakis/trackflow/internal/storage"
)

type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newKV(quota int) (*storage.MemorySubstrate, *storage.Adapter) {
	sub := storage.NewMemorySubstrate(quota)
	return sub, storage.NewAdapter(sub)
}

func openStore(t *testing.T, kv *storage.Adapter) *Store {
	t.Helper()
	clock := &stepClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	st, err := Open(kv, WithClock(clock.Now), WithIDGenerator(seqIDs("id")))
	require.NoError(t, err)
	return st
}

func TestOpen_BootstrapsEmptyStorage(t *testing.T) {
	_, kv := newKV(0)
	st := openStore(t, kv)

	assert.Equal(t, PhaseReady, st.Phase())
	all := st.Workspaces()
	require.Len(t, all, 1)
	ws := all[0]
	assert.Equal(t, "Personal", ws.Name)
	assert.Equal(t, "#2563eb", ws.Color)
	require.Len(t, ws.Pages, 1)

	p := ws.Pages[0]
	assert.Equal(t, "Getting Started", p.Name)
	assert.Equal(t, "📝", p.Icon)
	require.Len(t, p.Blocks, 2)
	assert.Equal(t, BlockText, p.Blocks[0].Type)
	assert.Contains(t, string(p.Blocks[0].Content.(TextContent)), "# Welcome to TrackFlow")
	require.Equal(t, BlockTodo, p.Blocks[1].Type)
	todos := p.Blocks[1].Content.(TodoContent)
	require.Len(t, todos, 3)
	assert.Equal(t, "Create your first task list", todos[0].Text)
	assert.False(t, todos[0].Completed)

	assert.Equal(t, Selection{WorkspaceID: ws.ID, PageID: p.ID}, st.Selection())
	assert.Empty(t, Validate(all))
	assert.ElementsMatch(t, []string{KeyWorkspaces, KeyLastActiveWorkspace, KeyLastActivePage}, kv.ListKeys())

	// A second open hydrates rather than bootstrapping again.
	again := openStore(t, kv)
	assert.Equal(t, all, again.Workspaces())
	assert.Equal(t, st.Selection(), again.Selection())
}

func TestOpen_RestoresSelectionWithFallback(t *testing.T) {
	_, kv := newKV(0)
	st := openStore(t, kv)
	ws := st.CreateWorkspace("Work", "")
	p1, err := st.CreatePage(ws.ID, "Inbox", "")
	require.NoError(t, err)
	p2, err := st.CreatePage(ws.ID, "Later", "")
	require.NoError(t, err)
	require.NoError(t, st.Select(ws.ID, p2.ID))

	reopened := openStore(t, kv)
	assert.Equal(t, Selection{WorkspaceID: ws.ID, PageID: p2.ID}, reopened.Selection())

	// A dangling page id falls back to the workspace's first page.
	require.True(t, kv.Save(KeyLastActivePage, "gone"))
	reopened = openStore(t, kv)
	assert.Equal(t, Selection{WorkspaceID: ws.ID, PageID: p1.ID}, reopened.Selection())

	// A dangling workspace id falls back to the first workspace.
	require.True(t, kv.Save(KeyLastActiveWorkspace, "gone"))
	reopened = openStore(t, kv)
	first := reopened.Workspaces()[0]
	assert.Equal(t, Selection{WorkspaceID: first.ID, PageID: first.Pages[0].ID}, reopened.Selection())
}

func TestOpen_RejectsMalformedCollection(t *testing.T) {
	cases := map[string]string{
		"missing pages": `[{"id":"w","name":"W","color":"#000","createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z"}]`,
		"unknown block type": `[{"id":"w","name":"W","color":"#000","createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z",
			"pages":[{"id":"p","name":"P","icon":"x","createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z",
			"blocks":[{"id":"b","type":"kanban","content":{},"createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z"}]}]}]`,
		"wrong content shape": `[{"id":"w","name":"W","color":"#000","createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z",
			"pages":[{"id":"p","name":"P","icon":"x","createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z",
			"blocks":[{"id":"b","type":"todo","content":"not a list","createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z"}]}]}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			sub, kv := newKV(0)
			require.NoError(t, sub.SetItem(storage.DefaultPrefix+KeyWorkspaces, raw))

			_, err := Open(kv)
			require.Error(t, err)
			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, KeyWorkspaces, le.Key)
			assert.NotEmpty(t, le.Errs)
		})
	}

	t.Run("not json", func(t *testing.T) {
		sub, kv := newKV(0)
		require.NoError(t, sub.SetItem(storage.DefaultPrefix+KeyWorkspaces, `{"oops":`))
		_, err := Open(kv)
		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Error(t, le.Err)
	})
}

func TestCreate_IDsAreUnique(t *testing.T) {
	_, kv := newKV(0)
	ids := []string{"a", "a", "", "b", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}
	n := 0
	gen := func() string {
		id := ids[n%len(ids)]
		n++
		if n > len(ids) {
			id = fmt.Sprintf("x%d", n)
		}
		return id
	}
	st, err := Open(kv, WithIDGenerator(gen))
	require.NoError(t, err)

	ws := st.CreateWorkspace("One", "")
	ws2 := st.CreateWorkspace("Two", "")
	_, err = st.CreatePage(ws.ID, "P", "")
	require.NoError(t, err)
	_, err = st.CreatePage(ws2.ID, "Q", "")
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, w := range st.Workspaces() {
		require.False(t, seen[w.ID], "duplicate id %q", w.ID)
		seen[w.ID] = true
		for _, p := range w.Pages {
			require.False(t, seen[p.ID], "duplicate id %q", p.ID)
			seen[p.ID] = true
			for _, b := range p.Blocks {
				require.False(t, seen[b.ID], "duplicate id %q", b.ID)
				seen[b.ID] = true
			}
		}
	}
	assert.Empty(t, Validate(st.Workspaces()))
}

func TestCreatePage_Defaults(t *testing.T) {
	_, kv := newKV(0)
	st := openStore(t, kv)
	ws := st.CreateWorkspace("Work", "")
	assert.Equal(t, DefaultWorkspaceColor, ws.Color)
	assert.NotNil(t, ws.Pages)

	p, err := st.CreatePage(ws.ID, "Notes", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultPageIcon, p.Icon)
	assert.NotNil(t, p.Blocks)

	_, err = st.CreatePage("nope", "Notes", "")
	assert.ErrorIs(t, err, ErrWorkspaceNotFound)
}

func TestDeleteWorkspace_CascadesAndRepairsSelection(t *testing.T) {
	_, kv := newKV(0)
	st := openStore(t, kv)
	boot := st.Workspaces()[0]
	bootPage := boot.Pages[0]
	blockID := bootPage.Blocks[0].ID

	other := st.CreateWorkspace("Other", "#ff0000")
	otherPage, err := st.CreatePage(other.ID, "Board", "")
	require.NoError(t, err)

	require.NoError(t, st.DeleteWorkspace(boot.ID))

	_, _, ok := st.FindPage(bootPage.ID)
	assert.False(t, ok)
	_, _, ok = st.FindBlock(blockID)
	assert.False(t, ok)
	assert.Equal(t, Selection{WorkspaceID: other.ID, PageID: otherPage.ID}, st.Selection())
	assert.Equal(t, other.ID, storage.Load(kv, KeyLastActiveWorkspace, ""))

	require.NoError(t, st.DeleteWorkspace(other.ID))
	assert.Equal(t, Selection{}, st.Selection())
	_, ok = st.CurrentWorkspace()
	assert.False(t, ok)
	assert.Equal(t, []string{KeyWorkspaces}, kv.ListKeys())

	assert.ErrorIs(t, st.DeleteWorkspace(other.ID), ErrWorkspaceNotFound)
}

func TestDeleteWorkspace_OtherKeepsSelection(t *testing.T) {
	_, kv := newKV(0)
	st := openStore(t, kv)
	sel := st.Selection()
	other := st.CreateWorkspace("Other", "")

	require.NoError(t, st.DeleteWorkspace(other.ID))
	assert.Equal(t, sel, st.Selection())
}

func TestDeletePage_RepairsSelection(t *testing.T) {
	_, kv := newKV(0)
	st := openStore(t, kv)
	sel := st.Selection()
	second, err := st.CreatePage(sel.WorkspaceID, "Second", "")
	require.NoError(t, err)

	require.NoError(t, st.DeletePage(sel.WorkspaceID, sel.PageID))
	assert.Equal(t, Selection{WorkspaceID: sel.WorkspaceID, PageID: second.ID}, st.Selection())

	require.NoError(t, st.DeletePage(sel.WorkspaceID, second.ID))
	assert.Equal(t, Selection{WorkspaceID: sel.WorkspaceID}, st.Selection())
	_, ok := st.CurrentPage()
	assert.False(t, ok)
	assert.NotContains(t, kv.ListKeys(), KeyLastActivePage)

	assert.ErrorIs(t, st.DeletePage(sel.WorkspaceID, second.ID), ErrPageNotFound)
}

func TestDeletePage_WrongWorkspace(t *testing.T) {
	_, kv := newKV(0)
	st := openStore(t, kv)
	sel := st.Selection()
	other := st.CreateWorkspace("Other", "")

	assert.ErrorIs(t, st.DeletePage(other.ID, sel.PageID), ErrPageNotFound)
	_, _, ok := st.FindPage(sel.PageID)
	assert.True(t, ok)
}

func TestUpdateBlock_PropagatesTimestamps(t *testing.T) {
	_, kv := newKV(0)
	st := openStore(t, kv)
	sel := st.Selection()
	wsBefore, _ := st.CurrentWorkspace()
	pageBefore, _ := st.CurrentPage()
	blockBefore := pageBefore.Blocks[0]

	b, err := st.UpdateBlock(sel.WorkspaceID, sel.PageID, blockBefore.ID, BlockPatch{Content: TextContent("edited")})
	require.NoError(t, err)
	assert.Equal(t, TextContent("edited"), b.Content)
	assert.Equal(t, blockBefore.CreatedAt, b.CreatedAt)

	wsAfter, _ := st.CurrentWorkspace()
	pageAfter, _ := st.CurrentPage()
	assert.True(t, b.UpdatedAt.After(blockBefore.UpdatedAt))
	assert.True(t, pageAfter.UpdatedAt.After(pageBefore.UpdatedAt))
	assert.True(t, wsAfter.UpdatedAt.After(wsBefore.UpdatedAt))
	assert.Equal(t, b.UpdatedAt, pageAfter.UpdatedAt)
	assert.Equal(t, b.UpdatedAt, wsAfter.UpdatedAt)
}

func TestTimestamps_NeverGoBackwards(t *testing.T) {
	_, kv := newKV(0)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	st, err := Open(kv, WithClock(clock))
	require.NoError(t, err)
	before, _ := st.CurrentWorkspace()

	now = now.Add(-time.Hour)
	ws, err := st.UpdateWorkspace(before.ID, WorkspacePatch{Name: ptr("Renamed")})
	require.NoError(t, err)
	assert.False(t, ws.UpdatedAt.Before(before.UpdatedAt))
	assert.Equal(t, "Renamed", ws.Name)
	assert.Empty(t, Validate(st.Workspaces()))
}

func TestUpdateBlock_RejectsTypeChange(t *testing.T) {
	_, kv := newKV(0)
	st := openStore(t, kv)
	sel := st.Selection()
	p, _ := st.CurrentPage()

	_, err := st.UpdateBlock(sel.WorkspaceID, sel.PageID, p.Blocks[0].ID, BlockPatch{Content: TodoContent{}})
	assert.ErrorIs(t, err, ErrInvalidContent)

	_, err = st.UpdateBlock(sel.WorkspaceID, sel.PageID, "missing", BlockPatch{Content: TextContent("x")})
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestEditBlock_AppliesContentOperation(t *testing.T) {
	_, kv := newKV(0)
	st := openStore(t, kv)
	sel := st.Selection()
	p, _ := st.CurrentPage()
	todo := p.Blocks[1]
	itemID := todo.Content.(TodoContent)[0].ID

	b, err := st.EditBlock(sel.WorkspaceID, sel.PageID, todo.ID, func(c Content) (Content, error) {
		next, ok := c.(TodoContent).Toggle(itemID)
		if !ok {
			return nil, fmt.Errorf("no item %s", itemID)
		}
		return next, nil
	})
	require.NoError(t, err)
	assert.True(t, b.Content.(TodoContent)[0].Completed)

	reopened := openStore(t, kv)
	got, _, ok := reopened.FindBlock(todo.ID)
	require.True(t, ok)
	assert.True(t, got.Content.(TodoContent)[0].Completed)
}

func TestAddBlock_ValidatesContent(t *testing.T) {
	_, kv := newKV(0)
	st := openStore(t, kv)
	sel := st.Selection()

	for _, bt := range BlockTypes {
		c, err := DefaultContent(bt, time.Now())
		require.NoError(t, err)
		b, err := st.AddBlock(sel.WorkspaceID, sel.PageID, c)
		require.NoError(t, err, bt)
		assert.Equal(t, bt, b.Type)
	}

	_, err := st.AddBlock(sel.WorkspaceID, sel.PageID, nil)
	assert.ErrorIs(t, err, ErrInvalidContent)
	_, err = st.AddBlock(sel.WorkspaceID, sel.PageID, GoalContent{Title: "x", Target: -1})
	assert.ErrorIs(t, err, ErrInvalidContent)
	_, err = st.AddBlock(sel.WorkspaceID, "nope", TextContent("x"))
	assert.ErrorIs(t, err, ErrPageNotFound)

	p, _ := st.CurrentPage()
	assert.Len(t, p.Blocks, 2+len(BlockTypes))
}

func TestReads_DoNotAliasState(t *testing.T) {
	_, kv := newKV(0)
	st := openStore(t, kv)
	p, _ := st.CurrentPage()

	todos := p.Blocks[1].Content.(TodoContent)
	todos[0].Text = "mutated"
	p.Blocks[0] = Block{}

	again, _ := st.CurrentPage()
	assert.Equal(t, "Create your first task list", again.Blocks[1].Content.(TodoContent)[0].Text)
	assert.NotEmpty(t, again.Blocks[0].ID)
}

func TestUpdatePage_ReorderScenario(t *testing.T) {
	_, kv := newKV(0)
	st := openStore(t, kv)
	ws := st.CreateWorkspace("Work", "")
	p, err := st.CreatePage(ws.ID, "Plan", "")
	require.NoError(t, err)
	a, err := st.AddBlock(ws.ID, p.ID, TextContent("A"))
	require.NoError(t, err)
	b, err := st.AddBlock(ws.ID, p.ID, TextContent("B"))
	require.NoError(t, err)
	c, err := st.AddBlock(ws.ID, p.ID, TextContent("C"))
	require.NoError(t, err)
	require.NoError(t, st.Select(ws.ID, p.ID))

	updated, err := st.UpdatePage(ws.ID, p.ID, PagePatch{Blocks: []Block{b, a, c}})
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID, a.ID, c.ID}, blockIDs(updated))

	cur, ok := st.CurrentPage()
	require.True(t, ok)
	assert.Equal(t, []string{b.ID, a.ID, c.ID}, blockIDs(cur))
	assert.Equal(t, a.CreatedAt, cur.Blocks[1].CreatedAt)

	reopened := openStore(t, kv)
	cur, ok = reopened.CurrentPage()
	require.True(t, ok)
	assert.Equal(t, []string{b.ID, a.ID, c.ID}, blockIDs(cur))
}

func TestUpdatePage_BlockReplacementRules(t *testing.T) {
	_, kv := newKV(0)
	st := openStore(t, kv)
	sel := st.Selection()
	boot, _ := st.CurrentPage()

	other, err := st.CreatePage(sel.WorkspaceID, "Other", "")
	require.NoError(t, err)
	foreign, err := st.AddBlock(sel.WorkspaceID, other.ID, TextContent("foreign"))
	require.NoError(t, err)

	_, err = st.UpdatePage(sel.WorkspaceID, sel.PageID, PagePatch{Blocks: []Block{boot.Blocks[0], boot.Blocks[0]}})
	assert.ErrorIs(t, err, ErrBlockConflict)

	_, err = st.UpdatePage(sel.WorkspaceID, sel.PageID, PagePatch{Blocks: []Block{foreign}})
	assert.ErrorIs(t, err, ErrBlockConflict)

	_, err = st.UpdatePage(sel.WorkspaceID, sel.PageID, PagePatch{Blocks: []Block{{ID: other.ID, Content: TextContent("x")}}})
	assert.ErrorIs(t, err, ErrBlockConflict)

	_, err = st.UpdatePage(sel.WorkspaceID, sel.PageID, PagePatch{Blocks: []Block{{Type: BlockGoal, Content: TextContent("x")}}})
	assert.ErrorIs(t, err, ErrInvalidContent)

	unchanged, _ := st.CurrentPage()
	assert.Equal(t, boot.Blocks, unchanged.Blocks)

	// New blocks get ids and timestamps; dropped blocks disappear.
	p, err := st.UpdatePage(sel.WorkspaceID, sel.PageID, PagePatch{
		Name:   ptr("Renamed"),
		Blocks: []Block{boot.Blocks[1], {Content: TextContent("fresh")}},
	})
	require.NoError(t, err)
	require.Len(t, p.Blocks, 2)
	assert.Equal(t, "Renamed", p.Name)
	assert.NotEmpty(t, p.Blocks[1].ID)
	assert.Equal(t, BlockText, p.Blocks[1].Type)
	assert.False(t, p.Blocks[1].CreatedAt.IsZero())
	_, _, ok := st.FindBlock(boot.Blocks[0].ID)
	assert.False(t, ok)

	cleared, err := st.UpdatePage(sel.WorkspaceID, sel.PageID, PagePatch{Blocks: []Block{}})
	require.NoError(t, err)
	assert.Empty(t, cleared.Blocks)
	assert.Empty(t, Validate(st.Workspaces()))
}

func TestUpdatePage_BlockTimestampsOwnedByStore(t *testing.T) {
	_, kv := newKV(0)
	st := openStore(t, kv)
	sel := st.Selection()
	boot, _ := st.CurrentPage()
	text, todo := boot.Blocks[0], boot.Blocks[1]

	edited := text
	edited.Content = TextContent("edited")
	p, err := st.UpdatePage(sel.WorkspaceID, sel.PageID, PagePatch{Blocks: []Block{todo, edited}})
	require.NoError(t, err)
	require.Len(t, p.Blocks, 2)
	assert.Equal(t, todo.UpdatedAt, p.Blocks[0].UpdatedAt, "unchanged block keeps its stamp")
	assert.Equal(t, text.CreatedAt, p.Blocks[1].CreatedAt)
	assert.True(t, p.Blocks[1].UpdatedAt.After(text.UpdatedAt), "edited block must be restamped")
	assert.Equal(t, p.UpdatedAt, p.Blocks[1].UpdatedAt)

	future := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)
	forged := p.Blocks[1]
	forged.CreatedAt, forged.UpdatedAt = future, future
	fresh := Block{Content: TextContent("new"), CreatedAt: future, UpdatedAt: future}
	p, err = st.UpdatePage(sel.WorkspaceID, sel.PageID, PagePatch{Blocks: []Block{forged, fresh}})
	require.NoError(t, err)
	require.Len(t, p.Blocks, 2)
	assert.Equal(t, text.CreatedAt, p.Blocks[0].CreatedAt)
	assert.True(t, p.Blocks[0].UpdatedAt.Before(future))
	assert.Equal(t, p.UpdatedAt, p.Blocks[1].CreatedAt)
	assert.Equal(t, p.UpdatedAt, p.Blocks[1].UpdatedAt)

	prev := p.Blocks[0].UpdatedAt
	b, err := st.UpdateBlock(sel.WorkspaceID, sel.PageID, p.Blocks[0].ID, BlockPatch{Content: TextContent("again")})
	require.NoError(t, err)
	assert.False(t, b.UpdatedAt.Before(prev))
	assert.True(t, b.UpdatedAt.Before(future))
	assert.Empty(t, Validate(st.Workspaces()))
}

func TestMoveBlock(t *testing.T) {
	_, kv := newKV(0)
	st := openStore(t, kv)
	sel := st.Selection()
	p, _ := st.CurrentPage()
	text, todo := p.Blocks[0].ID, p.Blocks[1].ID

	moved, err := st.MoveBlock(sel.WorkspaceID, sel.PageID, todo, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{todo, text}, blockIDs(moved))

	_, err = st.MoveBlock(sel.WorkspaceID, sel.PageID, todo, 2)
	assert.Error(t, err)
	_, err = st.MoveBlock(sel.WorkspaceID, sel.PageID, "nope", 0)
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestCreatePageFromTemplate_CloneIsIndependent(t *testing.T) {
	_, kv := newKV(0)
	st := openStore(t, kv)
	tmpl, _ := st.CurrentPage()
	target := st.CreateWorkspace("Target", "")

	clone, err := st.CreatePageFromTemplate(target.ID, tmpl.ID, "Copy")
	require.NoError(t, err)
	assert.Equal(t, "Copy", clone.Name)
	assert.Equal(t, tmpl.Icon, clone.Icon)
	require.Len(t, clone.Blocks, len(tmpl.Blocks))
	for i := range clone.Blocks {
		assert.NotEqual(t, tmpl.Blocks[i].ID, clone.Blocks[i].ID)
		assert.Equal(t, tmpl.Blocks[i].Content, clone.Blocks[i].Content)
		assert.True(t, clone.Blocks[i].CreatedAt.After(tmpl.Blocks[i].CreatedAt))
	}

	todoID := clone.Blocks[1].ID
	_, err = st.EditBlock(target.ID, clone.ID, todoID, func(c Content) (Content, error) {
		next, _ := c.(TodoContent).SetText(c.(TodoContent)[0].ID, "changed")
		return next, nil
	})
	require.NoError(t, err)

	original, _, ok := st.FindPage(tmpl.ID)
	require.True(t, ok)
	assert.Equal(t, "Create your first task list", original.Blocks[1].Content.(TodoContent)[0].Text)
	assert.Empty(t, Validate(st.Workspaces()))

	_, err = st.CreatePageFromTemplate(target.ID, "missing", "Copy")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	_, err = st.CreatePageFromTemplate("missing", tmpl.ID, "Copy")
	assert.ErrorIs(t, err, ErrWorkspaceNotFound)
}

func TestSelect(t *testing.T) {
	_, kv := newKV(0)
	st := openStore(t, kv)
	boot := st.Selection()
	ws := st.CreateWorkspace("Work", "")

	require.NoError(t, st.Select(ws.ID, ""))
	assert.Equal(t, Selection{WorkspaceID: ws.ID}, st.Selection())

	assert.ErrorIs(t, st.Select(ws.ID, boot.PageID), ErrPageNotFound)
	assert.ErrorIs(t, st.Select("nope", ""), ErrWorkspaceNotFound)

	require.NoError(t, st.Select(boot.WorkspaceID, boot.PageID))
	assert.Equal(t, boot, st.Selection())

	require.NoError(t, st.Select("", ""))
	assert.Equal(t, Selection{}, st.Selection())
	assert.Equal(t, []string{KeyWorkspaces}, kv.ListKeys())
}

func TestExportImport_RoundTrip(t *testing.T) {
	_, kv := newKV(0)
	src := openStore(t, kv)
	ws := src.CreateWorkspace("Work", "#00ff00")
	p, err := src.CreatePage(ws.ID, "Goals", "🎯")
	require.NoError(t, err)
	_, err = src.AddBlock(ws.ID, p.ID, GoalContent{Title: "Read", Current: 3, Target: 12, Unit: "books"})
	require.NoError(t, err)
	require.NoError(t, src.Select(ws.ID, p.ID))

	snap, err := src.Export()
	require.NoError(t, err)
	encoded, err := snap.Encode()
	require.NoError(t, err)
	parsed, err := storage.ParseSnapshot(encoded)
	require.NoError(t, err)

	_, kv2 := newKV(0)
	dst := openStore(t, kv2)
	diff, err := dst.Import(parsed)
	require.NoError(t, err)
	assert.Contains(t, diff.Added, ws.ID)

	assert.Equal(t, src.Workspaces(), dst.Workspaces())
	assert.Equal(t, src.Selection(), dst.Selection())
}

func TestImport_RejectsInvalidSnapshotAndKeepsState(t *testing.T) {
	_, kv := newKV(0)
	st := openStore(t, kv)
	before := st.Workspaces()
	sel := st.Selection()

	snap := &storage.Snapshot{
		Data: map[string]json.RawMessage{
			KeyWorkspaces: json.RawMessage(`[{"id":"w","name":"W","color":"#000","createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z"}]`),
		},
		Timestamp:  "2024-01-01T00:00:00.000Z",
		AppVersion: "1.0.0",
	}
	_, err := st.Import(snap)
	assert.ErrorIs(t, err, ErrImportFailed)
	assert.Equal(t, before, st.Workspaces())
	assert.Equal(t, sel, st.Selection())

	raw, ok := kv.LoadRaw(KeyWorkspaces)
	require.True(t, ok)
	stored, err := DecodeWorkspaces(raw)
	require.NoError(t, err)
	assert.Equal(t, before, stored)

	_, err = st.Import(&storage.Snapshot{Data: map[string]json.RawMessage{KeyLastActivePage: json.RawMessage(`42`)}})
	assert.ErrorIs(t, err, ErrImportFailed)
	_, err = st.Import(nil)
	assert.ErrorIs(t, err, ErrImportFailed)
}

// replaceThenFailSubstrate swaps namespaces in one step and stops serving
// reads after each swap until unreadable is cleared.
type replaceThenFailSubstrate struct {
	*storage.MemorySubstrate
	unreadable bool
}

func (r *replaceThenFailSubstrate) GetItem(key string) (string, bool, error) {
	if r.unreadable {
		return "", false, errors.New("read failed")
	}
	return r.MemorySubstrate.GetItem(key)
}

func (r *replaceThenFailSubstrate) ReplaceAll(prefix string, items map[string]string) error {
	keys, err := r.Keys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) {
			if err := r.RemoveItem(k); err != nil {
				return err
			}
		}
	}
	for k, v := range items {
		if err := r.SetItem(k, v); err != nil {
			return err
		}
	}
	r.unreadable = true
	return nil
}

func TestImport_ReloadFailureRestoresNamespace(t *testing.T) {
	sub := &replaceThenFailSubstrate{MemorySubstrate: storage.NewMemorySubstrate(0)}
	kv := storage.NewAdapter(sub)
	st := openStore(t, kv)
	st.CreateWorkspace("Kept", "")
	before := st.Workspaces()
	sel := st.Selection()

	_, kv2 := newKV(0)
	src := openStore(t, kv2)
	src.CreateWorkspace("Incoming", "")
	src.CreateWorkspace("Also incoming", "")
	snap, err := src.Export()
	require.NoError(t, err)

	_, err = st.Import(snap)
	assert.ErrorIs(t, err, ErrImportFailed)
	assert.Equal(t, before, st.Workspaces())
	assert.Equal(t, sel, st.Selection())

	sub.unreadable = false
	raw, ok := kv.LoadRaw(KeyWorkspaces)
	require.True(t, ok)
	stored, err := DecodeWorkspaces(raw)
	require.NoError(t, err)
	assert.Equal(t, before, stored)

	reopened := openStore(t, kv)
	assert.Equal(t, before, reopened.Workspaces())
	assert.Equal(t, sel, reopened.Selection())
}

func TestReset_Rebootstraps(t *testing.T) {
	_, kv := newKV(0)
	st := openStore(t, kv)
	old := st.Workspaces()[0].ID
	st.CreateWorkspace("Extra", "")

	require.NoError(t, st.Reset())
	all := st.Workspaces()
	require.Len(t, all, 1)
	assert.Equal(t, "Personal", all[0].Name)
	assert.NotEqual(t, old, all[0].ID)
	assert.Equal(t, all[0].ID, st.Selection().WorkspaceID)
}

func TestReload_KeepsStateOnError(t *testing.T) {
	sub, kv := newKV(0)
	st := openStore(t, kv)
	before := st.Workspaces()

	require.NoError(t, sub.SetItem(storage.DefaultPrefix+KeyWorkspaces, `[{"id":""}]`))
	err := st.Reload()
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, before, st.Workspaces())
	assert.Equal(t, PhaseReady, st.Phase())
}

func TestPersistFailure_KeepsMemoryAuthoritative(t *testing.T) {
	_, kv := newKV(64)
	st := openStore(t, kv)
	assert.True(t, st.Dirty())

	ws := st.CreateWorkspace("Work", "")
	got, ok := st.Workspace(ws.ID)
	require.True(t, ok)
	assert.Equal(t, "Work", got.Name)
	assert.True(t, st.Dirty())
}

func TestSession_UsesSelection(t *testing.T) {
	_, kv := newKV(0)
	st := openStore(t, kv)
	sess := NewSession(st)

	b, err := sess.AddBlock(TextContent("hello"))
	require.NoError(t, err)
	p, err := sess.Page()
	require.NoError(t, err)
	assert.Equal(t, b.ID, p.Blocks[len(p.Blocks)-1].ID)

	_, err = sess.UpdateBlock(b.ID, BlockPatch{Content: TextContent("bye")})
	require.NoError(t, err)
	_, err = sess.MoveBlock(b.ID, 0)
	require.NoError(t, err)
	require.NoError(t, sess.DeleteBlock(b.ID))

	np, err := sess.CreatePage("Next", "")
	require.NoError(t, err)
	require.NoError(t, sess.SelectPage(np.ID))
	assert.Equal(t, np.ID, st.Selection().PageID)

	require.NoError(t, st.Select("", ""))
	_, err = sess.AddBlock(TextContent("x"))
	assert.ErrorIs(t, err, ErrNoSelection)
	_, err = sess.Workspace()
	assert.ErrorIs(t, err, ErrNoSelection)
	_, err = sess.CreatePage("x", "")
	assert.ErrorIs(t, err, ErrNoSelection)
}

func blockIDs(p Page) []string {
	out := make([]string, 0, len(p.Blocks))
	for _, b := range p.Blocks {
		out = append(out, b.ID)
	}
	return out
}

func ptr(s string) *string { return &s }
