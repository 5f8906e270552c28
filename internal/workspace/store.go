package workspace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jbonatakis/trackflow/internal/storage"
)

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrPageNotFound      = errors.New("page not found")
	ErrBlockNotFound     = errors.New("block not found")
	ErrTemplateNotFound  = errors.New("template page not found")
	ErrNoSelection       = errors.New("no workspace/page selected")
	ErrInvalidContent    = errors.New("invalid block content")
	ErrBlockConflict     = errors.New("block id conflict")
	ErrImportFailed      = errors.New("import failed")
	ErrExportFailed      = errors.New("export failed")
	ErrResetFailed       = errors.New("reset failed")
)

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
)

func (p Phase) String() string {
	if p == PhaseReady {
		return "ready"
	}
	return "loading"
}

type Option func(*Store)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// Store owns the workspace collection and the current selection. Every
// successful mutation writes the whole collection back through the adapter.
// A failed write is logged and leaves the in-memory state authoritative;
// Dirty reports it until the next successful write.
type Store struct {
	mu sync.Mutex

	kv    *storage.Adapter
	log   zerolog.Logger
	now   func() time.Time
	newID func() string

	phase Phase
	ix    *index
	sel   Selection
	last  time.Time
	dirty bool
}

// Open hydrates a Store from kv, bootstrapping a default workspace when
// nothing is stored yet. A stored collection that fails to decode or
// validate yields a *LoadError.
func Open(kv *storage.Adapter, opts ...Option) (*Store, error) {
	s := &Store{
		kv:    kv,
		log:   zerolog.Nop(),
		now:   time.Now,
		newID: uuid.NewString,
		ix:    newIndex(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) loadLocked() error {
	s.phase = PhaseLoading

	raw, ok, err := s.kv.Lookup(KeyWorkspaces)
	if err != nil {
		return &LoadError{Key: KeyWorkspaces, Err: err}
	}
	var workspaces []Workspace
	if ok {
		ws, err := DecodeWorkspaces(raw)
		if err != nil {
			return &LoadError{Key: KeyWorkspaces, Err: err}
		}
		workspaces = ws
	}

	if len(workspaces) == 0 {
		s.last = time.Time{}
		s.ix = newIndex()
		s.bootstrapLocked()
		s.phase = PhaseReady
		return nil
	}

	if errs := Validate(workspaces); len(errs) != 0 {
		return &LoadError{Key: KeyWorkspaces, Errs: errs}
	}

	s.ix = buildIndex(workspaces)
	s.last = latestTimestamp(workspaces)
	s.sel = s.restoreSelectionLocked(
		storage.Load(s.kv, KeyLastActiveWorkspace, ""),
		storage.Load(s.kv, KeyLastActivePage, ""),
	)
	s.writeSelectionLocked()
	s.phase = PhaseReady
	return nil
}

// restoreSelectionLocked resolves persisted ids, falling back to the first
// workspace and its first page when they no longer resolve.
func (s *Store) restoreSelectionLocked(wsID, pageID string) Selection {
	wn, ok := s.ix.workspaces[wsID]
	if !ok {
		if len(s.ix.order) == 0 {
			return Selection{}
		}
		wsID = s.ix.order[0]
		wn = s.ix.workspaces[wsID]
		pageID = ""
	}
	if pn, ok := s.ix.pages[pageID]; ok && pn.workspaceID == wsID {
		return Selection{WorkspaceID: wsID, PageID: pageID}
	}
	return Selection{WorkspaceID: wsID, PageID: firstID(wn.pageIDs)}
}

func latestTimestamp(workspaces []Workspace) time.Time {
	var last time.Time
	bump := func(t time.Time) {
		if t.After(last) {
			last = t
		}
	}
	for _, ws := range workspaces {
		bump(ws.UpdatedAt)
		for _, p := range ws.Pages {
			bump(p.UpdatedAt)
			for _, b := range p.Blocks {
				bump(b.UpdatedAt)
			}
		}
	}
	return last.UTC()
}

func firstID(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// stampLocked returns the current time at millisecond precision, never
// earlier than any timestamp the Store has already handed out.
func (s *Store) stampLocked() time.Time {
	t := s.now().UTC().Truncate(time.Millisecond)
	if t.Before(s.last) {
		t = s.last
	}
	s.last = t
	return t
}

func (s *Store) idLocked() string {
	return s.uniqueIDLocked(nil)
}

// uniqueIDLocked returns an id no entity uses and that is not in taken.
func (s *Store) uniqueIDLocked(taken map[string]bool) string {
	for {
		id := s.newID()
		if id != "" && !s.ix.hasID(id) && !taken[id] {
			return id
		}
	}
}

func (s *Store) persistLocked() {
	if !s.kv.Save(KeyWorkspaces, s.ix.snapshot()) {
		s.dirty = true
		s.log.Error().Msg("persist workspaces failed; keeping in-memory state")
		return
	}
	s.dirty = false
}

func (s *Store) setSelectionLocked(sel Selection) {
	if sel == s.sel {
		return
	}
	s.sel = sel
	s.writeSelectionLocked()
}

func (s *Store) writeSelectionLocked() {
	s.writePointerLocked(KeyLastActiveWorkspace, s.sel.WorkspaceID)
	s.writePointerLocked(KeyLastActivePage, s.sel.PageID)
}

func (s *Store) writePointerLocked(key, id string) {
	var ok bool
	if id == "" {
		ok = s.kv.Remove(key)
	} else {
		ok = s.kv.Save(key, id)
	}
	if !ok {
		s.dirty = true
		s.log.Error().Str("key", key).Msg("persist selection failed")
	}
}

func (s *Store) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Dirty reports whether the last persistence write failed.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func (s *Store) Workspaces() []Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ix.snapshot()
}

func (s *Store) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel
}

func (s *Store) Workspace(id string) (Workspace, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ix.workspace(id)
}

func (s *Store) CurrentWorkspace() (Workspace, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sel.WorkspaceID == "" {
		return Workspace{}, false
	}
	return s.ix.workspace(s.sel.WorkspaceID)
}

func (s *Store) CurrentPage() (Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sel.WorkspaceID == "" || s.sel.PageID == "" {
		return Page{}, false
	}
	if _, _, err := s.ix.pageIn(s.sel.WorkspaceID, s.sel.PageID); err != nil {
		return Page{}, false
	}
	return s.ix.page(s.sel.PageID)
}

// FindPage looks a page up across all workspaces and reports its owner.
func (s *Store) FindPage(pageID string) (Page, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pn, ok := s.ix.pages[pageID]
	if !ok {
		return Page{}, "", false
	}
	p, _ := s.ix.page(pageID)
	return p, pn.workspaceID, true
}

// FindBlock looks a block up across all pages and reports where it lives.
func (s *Store) FindBlock(blockID string) (Block, Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bn, ok := s.ix.blocks[blockID]
	if !ok {
		return Block{}, Selection{}, false
	}
	b, _ := s.ix.block(blockID)
	return b, Selection{WorkspaceID: s.ix.pages[bn.pageID].workspaceID, PageID: bn.pageID}, true
}

// Select points the selection at a workspace and one of its pages. An empty
// pageID selects the workspace's first page; empty ids clear the selection.
func (s *Store) Select(workspaceID, pageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if workspaceID == "" {
		s.setSelectionLocked(Selection{})
		return nil
	}
	wn, ok := s.ix.workspaces[workspaceID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrWorkspaceNotFound, workspaceID)
	}
	if pageID == "" {
		s.setSelectionLocked(Selection{WorkspaceID: workspaceID, PageID: firstID(wn.pageIDs)})
		return nil
	}
	if _, _, err := s.ix.pageIn(workspaceID, pageID); err != nil {
		return err
	}
	s.setSelectionLocked(Selection{WorkspaceID: workspaceID, PageID: pageID})
	return nil
}

func (s *Store) CreateWorkspace(name, color string) Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.createWorkspaceLocked(name, color)
	s.persistLocked()
	return ws
}

func (s *Store) createWorkspaceLocked(name, color string) Workspace {
	if color == "" {
		color = DefaultWorkspaceColor
	}
	now := s.stampLocked()
	ws := Workspace{ID: s.idLocked(), Name: name, Color: color, CreatedAt: now, UpdatedAt: now}
	s.ix.order = append(s.ix.order, ws.ID)
	s.ix.workspaces[ws.ID] = &workspaceNode{ws: ws, pageIDs: []string{}}
	ws.Pages = []Page{}
	return ws
}

func (s *Store) UpdateWorkspace(id string, patch WorkspacePatch) (Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wn, ok := s.ix.workspaces[id]
	if !ok {
		return Workspace{}, fmt.Errorf("%w: %q", ErrWorkspaceNotFound, id)
	}
	if patch.Name != nil {
		wn.ws.Name = *patch.Name
	}
	if patch.Color != nil {
		wn.ws.Color = *patch.Color
	}
	wn.ws.UpdatedAt = s.stampLocked()
	s.persistLocked()

	ws, _ := s.ix.workspace(id)
	return ws, nil
}

// DeleteWorkspace removes a workspace with its pages and blocks. If it was
// selected, the first remaining workspace and its first page take over.
func (s *Store) DeleteWorkspace(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wn, ok := s.ix.workspaces[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrWorkspaceNotFound, id)
	}
	for _, pid := range wn.pageIDs {
		s.ix.removePage(pid)
	}
	delete(s.ix.workspaces, id)
	s.ix.order, _ = removeID(s.ix.order, id)
	s.persistLocked()

	if s.sel.WorkspaceID == id {
		next := Selection{}
		if len(s.ix.order) > 0 {
			first := s.ix.order[0]
			next = Selection{WorkspaceID: first, PageID: firstID(s.ix.workspaces[first].pageIDs)}
		}
		s.setSelectionLocked(next)
	}
	return nil
}

func (s *Store) CreatePage(workspaceID, name, icon string) (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wn, ok := s.ix.workspaces[workspaceID]
	if !ok {
		return Page{}, fmt.Errorf("%w: %q", ErrWorkspaceNotFound, workspaceID)
	}
	if icon == "" {
		icon = DefaultPageIcon
	}
	p := s.addPageLocked(wn, name, icon, nil)
	s.persistLocked()
	return p, nil
}

// addPageLocked appends a page holding blocks (which must already carry
// fresh ids) and stamps the page and its workspace.
func (s *Store) addPageLocked(wn *workspaceNode, name, icon string, blocks []Block) Page {
	now := s.stampLocked()
	p := Page{ID: s.idLocked(), Name: name, Icon: icon, CreatedAt: now, UpdatedAt: now}
	pn := &pageNode{page: p, workspaceID: wn.ws.ID, blockIDs: make([]string, 0, len(blocks))}
	for _, b := range blocks {
		s.ix.blocks[b.ID] = &blockNode{block: b, pageID: p.ID}
		pn.blockIDs = append(pn.blockIDs, b.ID)
	}
	s.ix.pages[p.ID] = pn
	wn.pageIDs = append(wn.pageIDs, p.ID)
	wn.ws.UpdatedAt = now

	out, _ := s.ix.page(p.ID)
	return out
}

// UpdatePage merges patch into a page. A non-nil patch.Blocks replaces the
// page's blocks in the given order: blocks already on the page keep their
// identity, new blocks need ids no other entity uses, and blocks left out
// are deleted.
func (s *Store) UpdatePage(workspaceID, pageID string, patch PagePatch) (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wn, pn, err := s.ix.pageIn(workspaceID, pageID)
	if err != nil {
		return Page{}, err
	}

	now := s.stampLocked()
	var replacement []Block
	if patch.Blocks != nil {
		replacement, err = s.prepareBlocksLocked(pageID, patch.Blocks, now)
		if err != nil {
			return Page{}, err
		}
	}

	if patch.Name != nil {
		pn.page.Name = *patch.Name
	}
	if patch.Icon != nil {
		pn.page.Icon = *patch.Icon
	}
	if replacement != nil {
		for _, bid := range pn.blockIDs {
			delete(s.ix.blocks, bid)
		}
		pn.blockIDs = make([]string, 0, len(replacement))
		for _, b := range replacement {
			s.ix.blocks[b.ID] = &blockNode{block: b, pageID: pageID}
			pn.blockIDs = append(pn.blockIDs, b.ID)
		}
	}
	pn.page.UpdatedAt = now
	wn.ws.UpdatedAt = now
	s.persistLocked()

	p, _ := s.ix.page(pageID)
	return p, nil
}

func (s *Store) prepareBlocksLocked(pageID string, blocks []Block, now time.Time) ([]Block, error) {
	out := make([]Block, 0, len(blocks))
	seen := map[string]bool{}
	for i, b := range blocks {
		b = cloneBlock(b)
		if b.ID == "" {
			b.ID = s.idLocked()
		}
		if seen[b.ID] {
			return nil, fmt.Errorf("%w: %q appears twice", ErrBlockConflict, b.ID)
		}
		seen[b.ID] = true

		existing, onPage := s.ix.blocks[b.ID]
		if onPage && existing.pageID != pageID {
			return nil, fmt.Errorf("%w: %q belongs to page %q", ErrBlockConflict, b.ID, existing.pageID)
		}
		if !onPage && s.ix.hasID(b.ID) {
			return nil, fmt.Errorf("%w: %q is already in use", ErrBlockConflict, b.ID)
		}

		if b.Type == "" && b.Content != nil {
			b.Type = b.Content.Type()
		}
		// Timestamps are owned by the store; caller values are ignored.
		b.CreatedAt, b.UpdatedAt = now, now
		if onPage {
			b.CreatedAt = existing.block.CreatedAt
			if sameContent(existing.block, b) {
				b.UpdatedAt = existing.block.UpdatedAt
			}
		}

		path := fmt.Sprintf("blocks[%d]", i)
		errs := checkTimestamps(path, b.CreatedAt, b.UpdatedAt)
		errs = append(errs, validateBlockContent(path, b)...)
		if len(errs) != 0 {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, ValidationErrors(errs))
		}
		out = append(out, b)
	}
	return out, nil
}

func sameContent(a, b Block) bool {
	if a.Type != b.Type {
		return false
	}
	ac, err := json.Marshal(a.Content)
	if err != nil {
		return false
	}
	bc, err := json.Marshal(b.Content)
	return err == nil && bytes.Equal(ac, bc)
}

// DeletePage removes a page and its blocks. If it was the selected page, the
// workspace's first remaining page (or nothing) takes over.
func (s *Store) DeletePage(workspaceID, pageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wn, _, err := s.ix.pageIn(workspaceID, pageID)
	if err != nil {
		return err
	}
	s.ix.removePage(pageID)
	wn.pageIDs, _ = removeID(wn.pageIDs, pageID)
	wn.ws.UpdatedAt = s.stampLocked()
	s.persistLocked()

	if s.sel.PageID == pageID {
		s.setSelectionLocked(Selection{WorkspaceID: s.sel.WorkspaceID, PageID: firstID(wn.pageIDs)})
	}
	return nil
}

func (s *Store) AddBlock(workspaceID, pageID string, content Content) (Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wn, pn, err := s.ix.pageIn(workspaceID, pageID)
	if err != nil {
		return Block{}, err
	}
	if err := checkContent(content); err != nil {
		return Block{}, err
	}

	now := s.stampLocked()
	b := Block{ID: s.idLocked(), Type: content.Type(), Content: content.clone(), CreatedAt: now, UpdatedAt: now}
	s.ix.blocks[b.ID] = &blockNode{block: b, pageID: pageID}
	pn.blockIDs = append(pn.blockIDs, b.ID)
	pn.page.UpdatedAt = now
	wn.ws.UpdatedAt = now
	s.persistLocked()

	return cloneBlock(b), nil
}

func checkContent(c Content) error {
	if c == nil {
		return fmt.Errorf("%w: content is required", ErrInvalidContent)
	}
	if errs := c.validate("content"); len(errs) != 0 {
		return fmt.Errorf("%w: %v", ErrInvalidContent, ValidationErrors(errs))
	}
	return nil
}

// UpdateBlock merges patch into a block. The block type is fixed at
// creation, so replacement content must be of the same type.
func (s *Store) UpdateBlock(workspaceID, pageID, blockID string, patch BlockPatch) (Block, error) {
	return s.EditBlock(workspaceID, pageID, blockID, func(c Content) (Content, error) {
		if patch.Content == nil {
			return c, nil
		}
		return patch.Content, nil
	})
}

// EditBlock replaces a block's content with fn's result in one step. fn runs
// with the Store locked and must not call back into it.
func (s *Store) EditBlock(workspaceID, pageID, blockID string, fn func(Content) (Content, error)) (Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wn, pn, bn, err := s.ix.blockIn(workspaceID, pageID, blockID)
	if err != nil {
		return Block{}, err
	}

	next, err := fn(bn.block.Content.clone())
	if err != nil {
		return Block{}, err
	}
	if err := checkContent(next); err != nil {
		return Block{}, err
	}
	if next.Type() != bn.block.Type {
		return Block{}, fmt.Errorf("%w: %s content for a %s block", ErrInvalidContent, next.Type(), bn.block.Type)
	}

	now := s.stampLocked()
	bn.block.Content = next.clone()
	bn.block.UpdatedAt = now
	pn.page.UpdatedAt = now
	wn.ws.UpdatedAt = now
	s.persistLocked()

	return cloneBlock(bn.block), nil
}

func (s *Store) DeleteBlock(workspaceID, pageID, blockID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wn, pn, _, err := s.ix.blockIn(workspaceID, pageID, blockID)
	if err != nil {
		return err
	}
	delete(s.ix.blocks, blockID)
	pn.blockIDs, _ = removeID(pn.blockIDs, blockID)

	now := s.stampLocked()
	pn.page.UpdatedAt = now
	wn.ws.UpdatedAt = now
	s.persistLocked()
	return nil
}

// MoveBlock moves a block to position index within its page.
func (s *Store) MoveBlock(workspaceID, pageID, blockID string, index int) (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wn, pn, _, err := s.ix.blockIn(workspaceID, pageID, blockID)
	if err != nil {
		return Page{}, err
	}
	rest, _ := removeID(pn.blockIDs, blockID)
	moved, err := insertID(rest, blockID, &index)
	if err != nil {
		return Page{}, err
	}
	pn.blockIDs = moved

	now := s.stampLocked()
	pn.page.UpdatedAt = now
	wn.ws.UpdatedAt = now
	s.persistLocked()

	p, _ := s.ix.page(pageID)
	return p, nil
}

// CreatePageFromTemplate appends a copy of any page in any workspace to
// workspaceID. Blocks are deep-copied under fresh ids and timestamps.
func (s *Store) CreatePageFromTemplate(workspaceID, templatePageID, name string) (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wn, ok := s.ix.workspaces[workspaceID]
	if !ok {
		return Page{}, fmt.Errorf("%w: %q", ErrWorkspaceNotFound, workspaceID)
	}
	tmpl, ok := s.ix.pages[templatePageID]
	if !ok {
		return Page{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, templatePageID)
	}

	now := s.stampLocked()
	blocks := make([]Block, 0, len(tmpl.blockIDs))
	for _, bid := range tmpl.blockIDs {
		b := cloneBlock(s.ix.blocks[bid].block)
		b.ID = s.idLocked()
		b.CreatedAt = now
		b.UpdatedAt = now
		s.ix.blocks[b.ID] = &blockNode{block: b}
		blocks = append(blocks, b)
	}
	p := s.addPageLocked(wn, name, tmpl.page.Icon, blocks)
	s.persistLocked()
	return p, nil
}

// Export persists any pending state and snapshots the namespace.
func (s *Store) Export() (*storage.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dirty {
		s.persistLocked()
		s.writeSelectionLocked()
	}
	snap := s.kv.ExportAll()
	if snap == nil {
		return nil, ErrExportFailed
	}
	return snap, nil
}

// Import validates snap, replaces the stored namespace with it and
// rehydrates. On any failure the Store keeps its previous state.
func (s *Store) Import(snap *storage.Snapshot) (DiffSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap == nil || snap.Data == nil {
		return DiffSummary{}, fmt.Errorf("%w: snapshot has no data", ErrImportFailed)
	}
	for key, raw := range snap.Data {
		if err := ValidateEntry(key, raw); err != nil {
			return DiffSummary{}, fmt.Errorf("%w: %s: %v", ErrImportFailed, key, err)
		}
	}

	before := s.ix.snapshot()
	prev := s.kv.ExportAll()
	if !s.kv.ImportAll(snap) {
		return DiffSummary{}, ErrImportFailed
	}
	if err := s.reloadLocked(); err != nil {
		s.restoreNamespaceLocked(prev)
		return DiffSummary{}, fmt.Errorf("%w: %v", ErrImportFailed, err)
	}
	s.log.Info().Int("workspaces", len(s.ix.order)).Msg("imported snapshot")
	return Diff(before, s.ix.snapshot()), nil
}

// restoreNamespaceLocked puts back the namespace an import replaced, then
// rewrites the in-memory state over it.
func (s *Store) restoreNamespaceLocked(prev *storage.Snapshot) {
	if prev == nil || !s.kv.ImportAll(prev) {
		s.log.Error().Msg("import: restore previous namespace failed")
	}
	s.persistLocked()
	s.writeSelectionLocked()
}

// Reset clears the namespace and starts over from the bootstrap workspace.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.kv.ResetAll() {
		return ErrResetFailed
	}
	s.sel = Selection{}
	return s.reloadLocked()
}

// Reload re-reads persisted state. On failure the current state is kept.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked()
}

func (s *Store) reloadLocked() error {
	prevIx, prevSel, prevLast, prevPhase := s.ix, s.sel, s.last, s.phase
	if err := s.loadLocked(); err != nil {
		s.ix, s.sel, s.last, s.phase = prevIx, prevSel, prevLast, prevPhase
		return err
	}
	return nil
}
