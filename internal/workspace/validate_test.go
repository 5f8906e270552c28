package workspace

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCollection() []Workspace {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []Workspace{{
		ID: "w1", Name: "W", Color: "#000", CreatedAt: now, UpdatedAt: now,
		Pages: []Page{{
			ID: "p1", Name: "P", Icon: "📄", CreatedAt: now, UpdatedAt: now,
			Blocks: []Block{
				{ID: "b1", Type: BlockText, Content: TextContent("hi"), CreatedAt: now, UpdatedAt: now},
				{ID: "b2", Type: BlockTodo, Content: TodoContent{{ID: "t1", Text: "x"}}, CreatedAt: now, UpdatedAt: now},
			},
		}},
	}}
}

func hasPath(errs []ValidationError, path string) bool {
	for _, e := range errs {
		if e.Path == path {
			return true
		}
	}
	return false
}

func TestValidate_AcceptsValidCollection(t *testing.T) {
	assert.Empty(t, Validate(validCollection()))
	assert.Empty(t, Validate(nil))
}

func TestValidate_DuplicateIDs(t *testing.T) {
	ws := validCollection()
	second := cloneWorkspace(ws[0])
	second.ID = "w2"
	ws = append(ws, second)

	errs := Validate(ws)
	assert.True(t, hasPath(errs, "$[1].pages[0].id"), "%v", errs)
	assert.True(t, hasPath(errs, "$[1].pages[0].blocks[0].id"), "%v", errs)
}

func TestValidate_StructuralProblems(t *testing.T) {
	ws := validCollection()
	ws[0].Pages[0].Blocks[0].UpdatedAt = ws[0].Pages[0].Blocks[0].CreatedAt.Add(-time.Second)
	ws[0].Pages[0].Blocks[1].Content = TextContent("wrong")
	ws[0].Pages[0].Blocks = append(ws[0].Pages[0].Blocks, Block{
		ID: "b3", Type: BlockCalendar, CreatedAt: ws[0].CreatedAt, UpdatedAt: ws[0].CreatedAt,
		Content: CalendarContent{SelectedDate: "soon", Events: []CalendarEvent{{ID: "e", Date: "2024-01-01", Time: "25:99"}}},
	})

	errs := Validate(ws)
	base := "$[0].pages[0].blocks"
	assert.True(t, hasPath(errs, base+"[0].updatedAt"), "%v", errs)
	assert.True(t, hasPath(errs, base+"[1].content"), "%v", errs)
	assert.True(t, hasPath(errs, base+"[2].content.selectedDate"), "%v", errs)
	assert.True(t, hasPath(errs, base+"[2].content.events[0].title"), "%v", errs)
	assert.True(t, hasPath(errs, base+"[2].content.events[0].time"), "%v", errs)
}

func TestDecodeWorkspaces_Strict(t *testing.T) {
	b, err := json.Marshal(validCollection())
	require.NoError(t, err)
	ws, err := DecodeWorkspaces(b)
	require.NoError(t, err)
	assert.Equal(t, validCollection(), ws)

	_, err = DecodeWorkspaces([]byte(`[{"id":"w","extra":true}]`))
	assert.Error(t, err)
	_, err = DecodeWorkspaces(append(b, []byte(` []`)...))
	assert.Error(t, err)
}

func TestDecodeWorkspaces_MissingFieldsReportedByValidate(t *testing.T) {
	raw := `[{"id":"w","name":"W","color":"#000","createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z",
		"pages":[{"id":"p","name":"P","icon":"x","createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z",
		"blocks":[{"id":"b","type":"habit","content":{"startDate":"2024-01-01","habits":[{"id":"h","name":"Run"}]},
		"createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z"}]}]}]`
	ws, err := DecodeWorkspaces([]byte(raw))
	require.NoError(t, err)

	errs := Validate(ws)
	require.Len(t, errs, 1)
	assert.Equal(t, "$[0].pages[0].blocks[0].content.habits[0].completedDates", errs[0].Path)
	assert.Equal(t, "required (use [] if none)", errs[0].Message)
}

func TestValidateEntry(t *testing.T) {
	b, err := json.Marshal(validCollection())
	require.NoError(t, err)
	assert.NoError(t, ValidateEntry(KeyWorkspaces, b))
	assert.NoError(t, ValidateEntry(KeyLastActivePage, json.RawMessage(`"p1"`)))
	assert.NoError(t, ValidateEntry(KeyLastActivePage, json.RawMessage(`null`)))
	assert.NoError(t, ValidateEntry("somethingElse", json.RawMessage(`{"any":1}`)))

	err = ValidateEntry(KeyLastActiveWorkspace, json.RawMessage(`{"id":"w"}`))
	assert.Error(t, err)

	err = ValidateEntry(KeyWorkspaces, json.RawMessage(`[{"id":"w"}]`))
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, strings.Contains(err.Error(), "$[0].pages"))
}
