package workspace

import "time"

const (
	KeyWorkspaces          = "workspaces"
	KeyLastActiveWorkspace = "lastActiveWorkspace"
	KeyLastActivePage      = "lastActivePage"

	DefaultWorkspaceColor = "#2563eb"
	DefaultPageIcon       = "📄"
)

type BlockType string

const (
	BlockText     BlockType = "text"
	BlockTodo     BlockType = "todo"
	BlockCalendar BlockType = "calendar"
	BlockHabit    BlockType = "habit"
	BlockGoal     BlockType = "goal"
	BlockJournal  BlockType = "journal"
)

// BlockTypes lists every block type in menu order.
var BlockTypes = []BlockType{BlockText, BlockTodo, BlockCalendar, BlockHabit, BlockGoal, BlockJournal}

// ParseBlockType validates and parses a block type string.
func ParseBlockType(s string) (BlockType, bool) {
	switch BlockType(s) {
	case BlockText, BlockTodo, BlockCalendar, BlockHabit, BlockGoal, BlockJournal:
		return BlockType(s), true
	default:
		return "", false
	}
}

type Workspace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Pages     []Page    `json:"pages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Page struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Blocks    []Block   `json:"blocks"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Block is one typed unit of page content. Type always equals Content.Type()
// for blocks handed out by the Store.
type Block struct {
	ID        string
	Type      BlockType
	Content   Content
	CreatedAt time.Time
	UpdatedAt time.Time

	// contentErr records why a decoded content payload was rejected so
	// Validate can report it at the right path.
	contentErr error
}

// Selection holds weak references to the active workspace and page. Empty
// strings mean nothing is selected.
type Selection struct {
	WorkspaceID string
	PageID      string
}

type WorkspacePatch struct {
	Name  *string
	Color *string
}

// PagePatch merges into a page. A non-nil Blocks replaces the page's blocks
// wholesale (an empty, non-nil slice clears them); nil leaves them alone.
type PagePatch struct {
	Name   *string
	Icon   *string
	Blocks []Block
}

type BlockPatch struct {
	Content Content
}
