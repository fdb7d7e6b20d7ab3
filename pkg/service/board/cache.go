// Package board maintains the in-memory mirror of a workspace's task
// collection. The cache is rebuilt from the remote store on load and
// kept live by its change-notification feed; nothing is persisted
// locally. All mutation goes through the optimistic entry points and
// all reads return deep copies, so view code can never corrupt the
// mirror.
package board

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/taskops/taskboard/pkg/domain/interfaces"
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
	"github.com/taskops/taskboard/pkg/utils/logging"
)

// DefaultDebounce is the window used to coalesce change-notification
// bursts into a single reload. The exact value is not load-bearing.
const DefaultDebounce = 500 * time.Millisecond

// ErrTaskNotFound is returned when a task is not in the cache
var ErrTaskNotFound = goerr.New("task not found in cache")

// Cache mirrors one workspace's task collection
type Cache struct {
	repo        interfaces.Repository
	workspaceID types.WorkspaceID
	debounce    time.Duration

	mu      sync.RWMutex
	tasks   map[types.TaskID]*model.Task
	order   []types.TaskID
	loadErr error

	listenerMu sync.Mutex
	listeners  []func()
}

type Option func(*Cache)

// WithDebounce overrides the notification coalescing window
func WithDebounce(d time.Duration) Option {
	return func(c *Cache) {
		c.debounce = d
	}
}

func New(repo interfaces.Repository, workspaceID types.WorkspaceID, opts ...Option) *Cache {
	c := &Cache{
		repo:        repo,
		workspaceID: workspaceID,
		debounce:    DefaultDebounce,
		tasks:       make(map[types.TaskID]*model.Task),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WorkspaceID returns the workspace this cache mirrors
func (c *Cache) WorkspaceID() types.WorkspaceID {
	return c.workspaceID
}

// Load fetches the full task collection and replaces the mirror. On
// failure the previous collection is left intact and the error is both
// returned and retained as the staleness flag.
func (c *Cache) Load(ctx context.Context) error {
	tasks, err := c.repo.Task().List(ctx, c.workspaceID)
	if err != nil {
		wrapped := goerr.Wrap(err, "failed to load task collection",
			goerr.V("workspace_id", c.workspaceID))
		c.mu.Lock()
		c.loadErr = wrapped
		c.mu.Unlock()
		return wrapped
	}

	byID := make(map[types.TaskID]*model.Task, len(tasks))
	order := make([]types.TaskID, 0, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
		order = append(order, t.ID)
	}

	c.mu.Lock()
	c.tasks = byID
	c.order = order
	c.loadErr = nil
	c.mu.Unlock()

	c.fireChanged()
	return nil
}

// Err returns the error of the last failed load, nil once a load
// succeeds again. A non-nil value means the mirror may be stale.
func (c *Cache) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadErr
}

// Get returns a copy of the cached task
func (c *Cache) Get(id types.TaskID) (*model.Task, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.tasks[id]
	if !ok {
		return nil, goerr.Wrap(ErrTaskNotFound, "task not found",
			goerr.V("id", id), goerr.V("workspace_id", c.workspaceID))
	}
	return t.Clone(), nil
}

// List returns copies of all cached tasks in collection order
func (c *Cache) List() []*model.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tasks := make([]*model.Task, 0, len(c.order))
	for _, id := range c.order {
		if t, ok := c.tasks[id]; ok {
			tasks = append(tasks, t.Clone())
		}
	}
	return tasks
}

// Len returns the number of cached tasks
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tasks)
}

// OnChange registers a callback fired after every cache change: loads,
// optimistic applies and rollbacks. Callbacks must not call back into
// the cache's mutation methods.
func (c *Cache) OnChange(fn func()) {
	c.listenerMu.Lock()
	defer c.listenerMu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Cache) fireChanged() {
	c.listenerMu.Lock()
	listeners := make([]func(), len(c.listeners))
	copy(listeners, c.listeners)
	c.listenerMu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Run consumes the repository's change feed until ctx is done,
// coalescing notification bursts with a reset-timer debounce and
// re-running Load for each burst. Reload failures keep the previous
// mirror and are only logged; the staleness flag carries them to
// callers.
func (c *Cache) Run(ctx context.Context) error {
	events, err := c.repo.Watch(ctx, c.workspaceID)
	if err != nil {
		return goerr.Wrap(err, "failed to subscribe to changes",
			goerr.V("workspace_id", c.workspaceID))
	}

	timer := time.NewTimer(c.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case _, ok := <-events:
			if !ok {
				timer.Stop()
				return nil
			}
			if pending {
				// Burst in progress; restart the window.
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
			}
			pending = true
			timer.Reset(c.debounce)

		case <-timer.C:
			pending = false
			if err := c.Load(ctx); err != nil {
				logging.From(ctx).Warn("reconciliation load failed, keeping previous state",
					"workspace_id", c.workspaceID, "error", err.Error())
			}
		}
	}
}
