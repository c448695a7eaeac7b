package tui

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todo-tui/internal/api"
	"github.com/idilsaglam/todo-tui/internal/sync"
)

// testBackend is a minimal in-memory collection endpoint.
type testBackend struct {
	tasks   []map[string]any
	nextID  int
	posts   int
	gets    int
	failGet bool
}

func (b *testBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			b.gets++
			if b.failGet {
				http.Error(w, "down", http.StatusBadGateway)
				return
			}
			json.NewEncoder(w).Encode(b.tasks)
		case http.MethodPost:
			b.posts++
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			body["id"] = b.nextID
			b.nextID++
			b.tasks = append(b.tasks, body)
			w.WriteHeader(http.StatusCreated)
		case http.MethodPut:
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			if len(b.tasks) > 0 {
				b.tasks[0] = body
			}
		case http.MethodDelete:
			if len(b.tasks) > 0 {
				b.tasks = b.tasks[1:]
			}
		}
	})
}

func newTestModel(t *testing.T, backend *testBackend) Model {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	apiClient := api.New(srv.URL+"/api/todo", api.WithLogger(log.New(io.Discard)))
	client := sync.New(apiClient, log.New(io.Discard))
	m := NewModel(client, 5*time.Second)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

// step runs a command and feeds its message back through Update.
func step(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	return updated.(Model)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitialLoadPopulatesListInOrder(t *testing.T) {
	backend := &testBackend{nextID: 4, tasks: []map[string]any{
		{"id": 1, "task": "first", "completed": false},
		{"id": 2, "task": "second", "completed": true},
		{"id": 3, "task": "third", "completed": false},
	}}
	m := newTestModel(t, backend)

	m = step(t, m, m.Init())

	require.Len(t, m.list.Items(), 3)
	assert.Equal(t, "first", m.list.Items()[0].(listItem).task.Text)
	assert.Equal(t, "second", m.list.Items()[1].(listItem).task.Text)
	assert.Equal(t, "third", m.list.Items()[2].(listItem).task.Text)
	assert.Equal(t, 1, backend.gets, "exactly one automatic fetch")
}

func TestFetchFailureShowsBannerKeepsList(t *testing.T) {
	backend := &testBackend{nextID: 2, tasks: []map[string]any{
		{"id": 1, "task": "keep me", "completed": false},
	}}
	m := newTestModel(t, backend)
	m = step(t, m, m.Init())
	require.Len(t, m.list.Items(), 1)

	backend.failGet = true
	updated, cmd := m.Update(keyRunes("r"))
	m = step(t, updated.(Model), cmd)

	assert.Contains(t, m.snap.Err, "retrieving")
	assert.Contains(t, m.View(), "retrieving")
	require.Len(t, m.list.Items(), 1, "stale list stays on screen")
	assert.Equal(t, "keep me", m.list.Items()[0].(listItem).task.Text)
}

func TestAddFlow(t *testing.T) {
	backend := &testBackend{nextID: 1}
	m := newTestModel(t, backend)
	m = step(t, m, m.Init())

	// Open the form and type a title.
	updated, _ := m.Update(keyRunes("a"))
	m = updated.(Model)
	require.True(t, m.adding)
	for _, r := range "Buy milk" {
		updated, _ = m.Update(keyRunes(string(r)))
		m = updated.(Model)
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	assert.False(t, m.adding)
	m = step(t, m, cmd)

	assert.Equal(t, 1, backend.posts)
	assert.Equal(t, 2, backend.gets, "one initial fetch plus one re-fetch")
	require.Len(t, m.list.Items(), 1)
	assert.Equal(t, "Buy milk", m.list.Items()[0].(listItem).task.Text)
	assert.False(t, m.list.Items()[0].(listItem).task.Completed)

	// Reopening the form starts from an empty pending item.
	updated, _ = m.Update(keyRunes("a"))
	m = updated.(Model)
	assert.Empty(t, m.ti.Value())
}

func TestAddRejectsEmptyTitleLocally(t *testing.T) {
	backend := &testBackend{nextID: 1}
	m := newTestModel(t, backend)
	m = step(t, m, m.Init())

	updated, _ := m.Update(keyRunes("a"))
	m = updated.(Model)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.True(t, m.adding, "form stays open on validation error")
	assert.NotEmpty(t, m.addErr)
	assert.Equal(t, 0, backend.posts)
}

func TestEditFlow(t *testing.T) {
	backend := &testBackend{nextID: 2, tasks: []map[string]any{
		{"id": 1, "task": "watr plants", "completed": true},
	}}
	m := newTestModel(t, backend)
	m = step(t, m, m.Init())

	// The form opens pre-filled with the selected task's text.
	updated, _ := m.Update(keyRunes("e"))
	m = updated.(Model)
	require.True(t, m.editing)
	assert.Equal(t, "watr plants", m.ti.Value())

	for _, r := range " daily" {
		updated, _ = m.Update(keyRunes(string(r)))
		m = updated.(Model)
	}
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	assert.False(t, m.editing)
	m = step(t, m, cmd)

	assert.Equal(t, 2, backend.gets, "one initial fetch plus one re-fetch")
	require.Len(t, m.list.Items(), 1)
	edited := m.list.Items()[0].(listItem).task
	assert.Equal(t, "watr plants daily", edited.Text)
	assert.True(t, edited.Completed, "renaming keeps the completed flag")
	assert.Equal(t, "1", edited.ID.String())
}

func TestEditCancelTouchesNothing(t *testing.T) {
	backend := &testBackend{nextID: 2, tasks: []map[string]any{
		{"id": 1, "task": "keep", "completed": false},
	}}
	m := newTestModel(t, backend)
	m = step(t, m, m.Init())

	updated, _ := m.Update(keyRunes("e"))
	m = updated.(Model)
	require.True(t, m.editing)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.False(t, m.editing)
	assert.Empty(t, m.ti.Value())
	assert.Equal(t, 1, backend.gets, "no network traffic on cancel")
}

func TestToggleSelected(t *testing.T) {
	backend := &testBackend{nextID: 2, tasks: []map[string]any{
		{"id": 1, "task": "water plants", "completed": false},
	}}
	m := newTestModel(t, backend)
	m = step(t, m, m.Init())

	updated, cmd := m.Update(keyRunes(" "))
	m = step(t, updated.(Model), cmd)

	require.Len(t, m.list.Items(), 1)
	assert.True(t, m.list.Items()[0].(listItem).task.Completed)
	assert.Equal(t, 2, backend.gets)
}

func TestDeleteSelected(t *testing.T) {
	backend := &testBackend{nextID: 3, tasks: []map[string]any{
		{"id": 1, "task": "a", "completed": false},
		{"id": 2, "task": "b", "completed": false},
	}}
	m := newTestModel(t, backend)
	m = step(t, m, m.Init())

	updated, cmd := m.Update(keyRunes("d"))
	m = step(t, updated.(Model), cmd)

	require.Len(t, m.list.Items(), 1)
	assert.Equal(t, 2, backend.gets)
}

func TestCompletedTasksRenderStruckThrough(t *testing.T) {
	done := listItem{}
	done.task.Text = "done thing"
	done.task.Completed = true
	assert.Contains(t, done.TitleText(), "done thing")
	// Checked box marks the completed state in the adapter.
	assert.Contains(t, done.TitleText(), "☑")

	pending := listItem{}
	pending.task.Text = "open thing"
	assert.Contains(t, pending.TitleText(), "☐")
}
