// Package sync keeps a local view of the remote task collection.
//
// The server owns the data; the local task list is a cache that is thrown
// away and rebuilt by a full re-fetch after every mutation. Failures never
// propagate to callers: each operation converts its own error into the
// user-visible message slot, and composed gestures carry on regardless so
// the re-fetch always runs.
package sync

import (
	"context"
	"fmt"
	stdsync "sync"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todo-tui/internal/api"
	"github.com/idilsaglam/todo-tui/internal/model"
)

// Snapshot is a point-in-time copy of the client state for rendering.
type Snapshot struct {
	Tasks []model.Task // server order
	Err   string       // last failure message, empty when healthy
	Item  string       // pending text in the add form
}

// Client owns the three pieces of view state: the cached task list, the
// last error message, and the pending add-form text.
type Client struct {
	api    *api.Client
	logger *log.Logger

	mu           stdsync.Mutex
	tasks        []model.Task
	errMsg       string
	errFromFetch bool
	item         string

	// Fetches are tagged so an overlapping slow fetch cannot overwrite a
	// fresher result that already landed.
	nextSeq    uint64
	appliedSeq uint64
}

func New(apiClient *api.Client, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{api: apiClient, logger: logger}
}

// Refresh replaces the cached list with the server's. On failure the cache
// is left as-is and the error slot is set; on success any fetch-set error
// clears.
func (c *Client) Refresh(ctx context.Context) {
	seq := c.beginFetch()
	tasks, err := c.api.List(ctx)
	c.applyFetch(seq, tasks, err)
}

func (c *Client) beginFetch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextSeq++
	return c.nextSeq
}

func (c *Client) applyFetch(seq uint64, tasks []model.Task, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.errMsg = fmt.Sprintf("There was an error retrieving the task list: %v", err)
		c.errFromFetch = true
		return
	}
	if seq <= c.appliedSeq {
		c.logger.Debug("discarding stale fetch result", "seq", seq, "applied", c.appliedSeq)
		return
	}
	c.appliedSeq = seq
	c.tasks = tasks
	// A resync heals an earlier fetch failure, but a mutation failure has
	// to stay visible through the follow-up re-fetch.
	if c.errFromFetch {
		c.errMsg = ""
		c.errFromFetch = false
	}
}

// createOne posts a new task. No retry; failure lands in the error slot.
func (c *Client) createOne(ctx context.Context, text string) {
	if err := c.api.Create(ctx, text); err != nil {
		c.setError(fmt.Sprintf("There was an error adding the task: %v", err))
	}
}

// removeOne deletes the record addressed by task's id.
func (c *Client) removeOne(ctx context.Context, task model.Task) {
	if err := c.api.Delete(ctx, task.ID); err != nil {
		c.setError(fmt.Sprintf("There was an error deleting the task: %v", err))
	}
}

// toggleOne sends the full record with completed inverted. The caller's
// copy is never mutated.
func (c *Client) toggleOne(ctx context.Context, task model.Task) {
	if err := c.api.Update(ctx, task.Toggled()); err != nil {
		c.setError(fmt.Sprintf("There was an error updating the task: %v", err))
	}
}

// editOne replaces the record's text, keeping id and completed as they are.
func (c *Client) editOne(ctx context.Context, task model.Task, text string) {
	task.Text = text
	if err := c.api.Update(ctx, task); err != nil {
		c.setError(fmt.Sprintf("There was an error updating the task: %v", err))
	}
}

// Edit renames the task on the server, then re-fetches.
func (c *Client) Edit(ctx context.Context, task model.Task, text string) {
	c.editOne(ctx, task, text)
	c.Refresh(ctx)
}

// Add submits the pending item text, re-fetches, then clears the item.
// The clear happens whether or not the create succeeded.
func (c *Client) Add(ctx context.Context) {
	c.createOne(ctx, c.Item())
	c.Refresh(ctx)
	c.SetItem("")
}

// Remove deletes the task, then re-fetches.
func (c *Client) Remove(ctx context.Context, task model.Task) {
	c.removeOne(ctx, task)
	c.Refresh(ctx)
}

// Toggle flips the task's completed flag on the server, then re-fetches.
func (c *Client) Toggle(ctx context.Context, task model.Task) {
	c.toggleOne(ctx, task)
	c.Refresh(ctx)
}

// SetItem stores the pending add-form text.
func (c *Client) SetItem(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.item = s
}

// Item returns the pending add-form text.
func (c *Client) Item() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.item
}

// Snapshot returns a copy of the current state.
func (c *Client) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	tasks := make([]model.Task, len(c.tasks))
	copy(tasks, c.tasks)
	return Snapshot{Tasks: tasks, Err: c.errMsg, Item: c.item}
}

func (c *Client) setError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = msg
	c.errFromFetch = false
}
