package workspace

// Session resolves page- and block-level calls against the Store's current
// selection, so callers such as block editors need not track which page
// they belong to.
type Session struct {
	store *Store
}

func NewSession(s *Store) *Session {
	return &Session{store: s}
}

func (s *Session) Store() *Store { return s.store }

func (s *Session) workspaceID() (string, error) {
	sel := s.store.Selection()
	if sel.WorkspaceID == "" {
		return "", ErrNoSelection
	}
	return sel.WorkspaceID, nil
}

func (s *Session) target() (Selection, error) {
	sel := s.store.Selection()
	if sel.WorkspaceID == "" || sel.PageID == "" {
		return Selection{}, ErrNoSelection
	}
	return sel, nil
}

func (s *Session) Workspace() (Workspace, error) {
	ws, ok := s.store.CurrentWorkspace()
	if !ok {
		return Workspace{}, ErrNoSelection
	}
	return ws, nil
}

func (s *Session) Page() (Page, error) {
	p, ok := s.store.CurrentPage()
	if !ok {
		return Page{}, ErrNoSelection
	}
	return p, nil
}

// SelectPage switches to a page of the current workspace.
func (s *Session) SelectPage(pageID string) error {
	wsID, err := s.workspaceID()
	if err != nil {
		return err
	}
	return s.store.Select(wsID, pageID)
}

func (s *Session) CreatePage(name, icon string) (Page, error) {
	wsID, err := s.workspaceID()
	if err != nil {
		return Page{}, err
	}
	return s.store.CreatePage(wsID, name, icon)
}

func (s *Session) CreatePageFromTemplate(templatePageID, name string) (Page, error) {
	wsID, err := s.workspaceID()
	if err != nil {
		return Page{}, err
	}
	return s.store.CreatePageFromTemplate(wsID, templatePageID, name)
}

func (s *Session) UpdatePage(patch PagePatch) (Page, error) {
	sel, err := s.target()
	if err != nil {
		return Page{}, err
	}
	return s.store.UpdatePage(sel.WorkspaceID, sel.PageID, patch)
}

func (s *Session) DeletePage(pageID string) error {
	wsID, err := s.workspaceID()
	if err != nil {
		return err
	}
	return s.store.DeletePage(wsID, pageID)
}

func (s *Session) AddBlock(content Content) (Block, error) {
	sel, err := s.target()
	if err != nil {
		return Block{}, err
	}
	return s.store.AddBlock(sel.WorkspaceID, sel.PageID, content)
}

func (s *Session) UpdateBlock(blockID string, patch BlockPatch) (Block, error) {
	sel, err := s.target()
	if err != nil {
		return Block{}, err
	}
	return s.store.UpdateBlock(sel.WorkspaceID, sel.PageID, blockID, patch)
}

func (s *Session) EditBlock(blockID string, fn func(Content) (Content, error)) (Block, error) {
	sel, err := s.target()
	if err != nil {
		return Block{}, err
	}
	return s.store.EditBlock(sel.WorkspaceID, sel.PageID, blockID, fn)
}

func (s *Session) DeleteBlock(blockID string) error {
	sel, err := s.target()
	if err != nil {
		return err
	}
	return s.store.DeleteBlock(sel.WorkspaceID, sel.PageID, blockID)
}

func (s *Session) MoveBlock(blockID string, index int) (Page, error) {
	sel, err := s.target()
	if err != nil {
		return Page{}, err
	}
	return s.store.MoveBlock(sel.WorkspaceID, sel.PageID, blockID, index)
}
