package workspace

const (
	bootstrapWorkspaceName = "Personal"
	bootstrapPageName      = "Getting Started"
	bootstrapPageIcon      = "📝"
	welcomeText            = "# Welcome to TrackFlow\n\nThis is your first workspace. You can create pages, add blocks, and customize everything to your needs."
)

var starterTodos = []string{
	"Create your first task list",
	"Try out the different block types",
	"Customize your workspace",
}

// bootstrapLocked seeds an empty store with the starter workspace, selects
// it and persists everything.
func (s *Store) bootstrapLocked() {
	ws := s.createWorkspaceLocked(bootstrapWorkspaceName, DefaultWorkspaceColor)
	wn := s.ix.workspaces[ws.ID]

	now := s.stampLocked()
	taken := map[string]bool{}
	todos := make(TodoContent, 0, len(starterTodos))
	for _, text := range starterTodos {
		id := s.uniqueIDLocked(taken)
		taken[id] = true
		todos = append(todos, TodoItem{ID: id, Text: text})
	}
	blocks := []Block{
		{ID: s.idLocked(), Type: BlockText, Content: TextContent(welcomeText), CreatedAt: now, UpdatedAt: now},
	}
	s.ix.blocks[blocks[0].ID] = &blockNode{block: blocks[0]}
	todo := Block{ID: s.idLocked(), Type: BlockTodo, Content: todos, CreatedAt: now, UpdatedAt: now}
	blocks = append(blocks, todo)

	p := s.addPageLocked(wn, bootstrapPageName, bootstrapPageIcon, blocks)
	s.persistLocked()

	s.sel = Selection{WorkspaceID: ws.ID, PageID: p.ID}
	s.writeSelectionLocked()
	s.log.Info().Str("workspace", ws.ID).Str("page", p.ID).Msg("bootstrapped default workspace")
}
