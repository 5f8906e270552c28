package workspace

import "fmt"

// index is the Store's working representation: flat maps from id to node
// plus ordered child id lists. Nested Workspace values exist only at the
// edges (hydration, persistence, reads).
type index struct {
	order      []string
	workspaces map[string]*workspaceNode
	pages      map[string]*pageNode
	blocks     map[string]*blockNode
}

type workspaceNode struct {
	ws      Workspace // Pages always nil
	pageIDs []string
}

type pageNode struct {
	page        Page // Blocks always nil
	workspaceID string
	blockIDs    []string
}

type blockNode struct {
	block  Block
	pageID string
}

func newIndex() *index {
	return &index{
		workspaces: map[string]*workspaceNode{},
		pages:      map[string]*pageNode{},
		blocks:     map[string]*blockNode{},
	}
}

// buildIndex expects a collection that passed Validate.
func buildIndex(workspaces []Workspace) *index {
	ix := newIndex()
	for _, ws := range workspaces {
		wn := &workspaceNode{ws: ws, pageIDs: make([]string, 0, len(ws.Pages))}
		wn.ws.Pages = nil
		ix.order = append(ix.order, ws.ID)
		ix.workspaces[ws.ID] = wn

		for _, p := range ws.Pages {
			pn := &pageNode{page: p, workspaceID: ws.ID, blockIDs: make([]string, 0, len(p.Blocks))}
			pn.page.Blocks = nil
			wn.pageIDs = append(wn.pageIDs, p.ID)
			ix.pages[p.ID] = pn

			for _, b := range p.Blocks {
				ix.blocks[b.ID] = &blockNode{block: cloneBlock(b), pageID: p.ID}
				pn.blockIDs = append(pn.blockIDs, b.ID)
			}
		}
	}
	return ix
}

func (ix *index) snapshot() []Workspace {
	out := make([]Workspace, 0, len(ix.order))
	for _, id := range ix.order {
		ws, _ := ix.workspace(id)
		out = append(out, ws)
	}
	return out
}

func (ix *index) workspace(id string) (Workspace, bool) {
	wn, ok := ix.workspaces[id]
	if !ok {
		return Workspace{}, false
	}
	ws := wn.ws
	ws.Pages = make([]Page, 0, len(wn.pageIDs))
	for _, pid := range wn.pageIDs {
		p, _ := ix.page(pid)
		ws.Pages = append(ws.Pages, p)
	}
	return ws, true
}

func (ix *index) page(id string) (Page, bool) {
	pn, ok := ix.pages[id]
	if !ok {
		return Page{}, false
	}
	p := pn.page
	p.Blocks = make([]Block, 0, len(pn.blockIDs))
	for _, bid := range pn.blockIDs {
		p.Blocks = append(p.Blocks, cloneBlock(ix.blocks[bid].block))
	}
	return p, true
}

func (ix *index) block(id string) (Block, bool) {
	bn, ok := ix.blocks[id]
	if !ok {
		return Block{}, false
	}
	return cloneBlock(bn.block), true
}

// pageIn resolves a page that must belong to workspaceID.
func (ix *index) pageIn(workspaceID, pageID string) (*workspaceNode, *pageNode, error) {
	wn, ok := ix.workspaces[workspaceID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrWorkspaceNotFound, workspaceID)
	}
	pn, ok := ix.pages[pageID]
	if !ok || pn.workspaceID != workspaceID {
		return nil, nil, fmt.Errorf("%w: %q in workspace %q", ErrPageNotFound, pageID, workspaceID)
	}
	return wn, pn, nil
}

// blockIn resolves a block that must belong to pageID in workspaceID.
func (ix *index) blockIn(workspaceID, pageID, blockID string) (*workspaceNode, *pageNode, *blockNode, error) {
	wn, pn, err := ix.pageIn(workspaceID, pageID)
	if err != nil {
		return nil, nil, nil, err
	}
	bn, ok := ix.blocks[blockID]
	if !ok || bn.pageID != pageID {
		return nil, nil, nil, fmt.Errorf("%w: %q on page %q", ErrBlockNotFound, blockID, pageID)
	}
	return wn, pn, bn, nil
}

func (ix *index) removePage(pageID string) {
	pn, ok := ix.pages[pageID]
	if !ok {
		return
	}
	for _, bid := range pn.blockIDs {
		delete(ix.blocks, bid)
	}
	delete(ix.pages, pageID)
}

func (ix *index) hasID(id string) bool {
	if _, ok := ix.workspaces[id]; ok {
		return true
	}
	if _, ok := ix.pages[id]; ok {
		return true
	}
	_, ok := ix.blocks[id]
	return ok
}

func insertID(ss []string, id string, index *int) ([]string, error) {
	if id == "" {
		return ss, fmt.Errorf("id must be non-empty")
	}
	if containsID(ss, id) {
		return ss, nil
	}
	if index == nil {
		return append(ss, id), nil
	}
	if *index < 0 || *index > len(ss) {
		return ss, fmt.Errorf("index out of range: %d (valid: 0..%d)", *index, len(ss))
	}
	out := make([]string, 0, len(ss)+1)
	out = append(out, ss[:*index]...)
	out = append(out, id)
	out = append(out, ss[*index:]...)
	return out, nil
}

func removeID(ss []string, id string) ([]string, bool) {
	for i := range ss {
		if ss[i] == id {
			out := make([]string, 0, len(ss)-1)
			out = append(out, ss[:i]...)
			out = append(out, ss[i+1:]...)
			return out, true
		}
	}
	return ss, false
}

func containsID(ss []string, id string) bool {
	for _, s := range ss {
		if s == id {
			return true
		}
	}
	return false
}
