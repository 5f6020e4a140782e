// Package todos holds the list controller: the authoritative snapshot of todo
// items and the operations that change it through the API.
//
// Every operation returns a tea.Cmd that performs exactly one request off the
// event loop. Its completion comes back as a message for Update, which applies
// it and, for mutations, returns the follow-up refresh. The snapshot is only
// ever replaced wholesale by a completed refresh.
package todos

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tada/internal/model"
)

// API is the subset of the REST client the controller needs.
type API interface {
	List(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, title string) error
	Update(ctx context.Context, id int64, patch model.Patch) error
	Delete(ctx context.Context, id int64) error
}

// Op names a controller operation in logs.
type Op string

const (
	OpRefresh Op = "refresh"
	OpCreate  Op = "create"
	OpToggle  Op = "toggle"
	OpRename  Op = "rename"
	OpRemove  Op = "remove"
)

type refreshedMsg struct {
	items []model.Item
	err   error
}

type createdMsg struct {
	err error
}

type mutatedMsg struct {
	op  Op
	id  int64
	err error
}

// Config tunes a Controller.
type Config struct {
	Logger  *log.Logger
	Timeout time.Duration // per request; zero means no deadline
}

// Controller owns the current snapshot, the draft title and the loading state.
type Controller struct {
	api     API
	logger  *log.Logger
	timeout time.Duration

	items    []model.Item
	draft    string
	inflight int
	revision int
	err      error
}

// New returns a controller with an empty snapshot. Nothing is fetched until
// Refresh is called.
func New(api API, cfg Config) Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return Controller{
		api:     api,
		logger:  logger,
		timeout: cfg.Timeout,
		items:   []model.Item{},
	}
}

// Items returns a copy of the current snapshot in server order.
func (c *Controller) Items() []model.Item {
	return append([]model.Item(nil), c.items...)
}

// Item looks up an item of the current snapshot by id.
func (c *Controller) Item(id int64) (model.Item, bool) {
	for _, it := range c.items {
		if it.ID == id {
			return it, true
		}
	}
	return model.Item{}, false
}

// Draft is the pending new-item text.
func (c *Controller) Draft() string { return c.draft }

// SetDraft replaces the pending new-item text.
func (c *Controller) SetDraft(s string) { c.draft = s }

// Loading reports whether a refresh is in flight.
func (c *Controller) Loading() bool { return c.inflight > 0 }

// Revision counts applied snapshots.
func (c *Controller) Revision() int { return c.revision }

// Err returns the most recent failure. Nothing clears it.
func (c *Controller) Err() error { return c.err }

// Refresh marks the controller loading and fetches the whole collection.
func (c *Controller) Refresh() tea.Cmd {
	c.inflight++
	api := c.api
	return c.call(func(ctx context.Context) tea.Msg {
		items, err := api.List(ctx)
		return refreshedMsg{items: items, err: err}
	})
}

// Create posts the trimmed draft. A blank draft is a no-op and returns nil.
func (c *Controller) Create() tea.Cmd {
	title := model.NormalizeTitle(c.draft)
	if title == "" {
		return nil
	}
	api := c.api
	return c.call(func(ctx context.Context) tea.Msg {
		return createdMsg{err: api.Create(ctx, title)}
	})
}

// ToggleDone flips the completion flag of item.
func (c *Controller) ToggleDone(item model.Item) tea.Cmd {
	api, id, patch := c.api, item.ID, model.DonePatch(!item.Done)
	return c.call(func(ctx context.Context) tea.Msg {
		return mutatedMsg{op: OpToggle, id: id, err: api.Update(ctx, id, patch)}
	})
}

// Rename sets a new title. A blank title, or one equal to the current title
// after trimming, is a no-op and returns nil.
func (c *Controller) Rename(item model.Item, newTitle string) tea.Cmd {
	title := model.NormalizeTitle(newTitle)
	if title == "" || title == item.Title {
		return nil
	}
	api, id, patch := c.api, item.ID, model.TitlePatch(title)
	return c.call(func(ctx context.Context) tea.Msg {
		return mutatedMsg{op: OpRename, id: id, err: api.Update(ctx, id, patch)}
	})
}

// Remove deletes item.
func (c *Controller) Remove(item model.Item) tea.Cmd {
	api, id := c.api, item.ID
	return c.call(func(ctx context.Context) tea.Msg {
		return mutatedMsg{op: OpRemove, id: id, err: api.Delete(ctx, id)}
	})
}

// Update applies a completion message. Messages it does not own are ignored.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case refreshedMsg:
		if c.inflight > 0 {
			c.inflight--
		}
		if msg.err != nil {
			c.fail(OpRefresh, 0, msg.err)
			return nil
		}
		c.items = append([]model.Item{}, msg.items...)
		c.revision++
		c.logger.Debug("snapshot replaced", "items", len(c.items), "revision", c.revision)
		return nil

	case createdMsg:
		if msg.err != nil {
			c.fail(OpCreate, 0, msg.err)
			return nil
		}
		c.draft = ""
		return c.Refresh()

	case mutatedMsg:
		if msg.err != nil {
			c.fail(msg.op, msg.id, msg.err)
		}
		// Refresh even after a failure.
		return c.Refresh()
	}
	return nil
}

// Settle runs cmd and every follow-up command on the calling goroutine until
// the chain ends. It is meant for non-interactive callers.
func (c *Controller) Settle(cmd tea.Cmd) {
	for cmd != nil {
		cmd = c.Update(cmd())
	}
}

func (c *Controller) call(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	timeout := c.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return fn(ctx)
	}
}

func (c *Controller) fail(op Op, id int64, err error) {
	c.err = err
	if id != 0 {
		c.logger.Warn("todo operation failed", "op", op, "id", id, "err", err)
		return
	}
	c.logger.Warn("todo operation failed", "op", op, "err", err)
}
