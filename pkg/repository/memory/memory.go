// Package memory provides an in-memory repository backend for
// development and tests. Records are deep-copied on the way in and out,
// and every mutation emits a change notification to workspace watchers
// the way the hosted backend's realtime feed does.
package memory

import (
	"context"
	"sync"

	"github.com/taskops/taskboard/pkg/domain/interfaces"
	"github.com/taskops/taskboard/pkg/domain/types"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	task    *taskRepository
	subtask *subtaskRepository
	comment *commentRepository
	user    *userRepository
	hub     *watchHub
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	hub := newWatchHub()
	taskRepo := newTaskRepository(hub)
	subtaskRepo := newSubtaskRepository(taskRepo, hub)
	commentRepo := newCommentRepository(taskRepo, hub)
	userRepo := newUserRepository()

	return &Memory{
		task:    taskRepo,
		subtask: subtaskRepo,
		comment: commentRepo,
		user:    userRepo,
		hub:     hub,
	}
}

func (m *Memory) Task() interfaces.TaskRepository {
	return m.task
}

func (m *Memory) Subtask() interfaces.SubtaskRepository {
	return m.subtask
}

func (m *Memory) Comment() interfaces.CommentRepository {
	return m.comment
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) Watch(ctx context.Context, workspaceID types.WorkspaceID) (<-chan interfaces.ChangeEvent, error) {
	return m.hub.subscribe(ctx, workspaceID), nil
}

// FailNextTaskOp makes the next task operation (list, create, update
// or delete) fail with err. Used by tests to exercise rollback and
// stale-cache paths.
func (m *Memory) FailNextTaskOp(err error) {
	m.task.failNext(err)
}

func (m *Memory) Close() error {
	m.hub.close()
	return nil
}

// watchHub fans change events out to per-workspace subscribers
type watchHub struct {
	mu     sync.Mutex
	subs   map[types.WorkspaceID][]chan interfaces.ChangeEvent
	closed bool
}

func newWatchHub() *watchHub {
	return &watchHub{
		subs: make(map[types.WorkspaceID][]chan interfaces.ChangeEvent),
	}
}

func (h *watchHub) subscribe(ctx context.Context, workspaceID types.WorkspaceID) <-chan interfaces.ChangeEvent {
	ch := make(chan interfaces.ChangeEvent, 16)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch
	}
	h.subs[workspaceID] = append(h.subs[workspaceID], ch)
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.unsubscribe(workspaceID, ch)
	}()

	return ch
}

func (h *watchHub) unsubscribe(workspaceID types.WorkspaceID, ch chan interfaces.ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subs[workspaceID]
	for i, s := range subs {
		if s == ch {
			h.subs[workspaceID] = append(subs[:i], subs[i+1:]...)
			close(ch)
			return
		}
	}
}

func (h *watchHub) notify(workspaceID types.WorkspaceID, table string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	event := interfaces.ChangeEvent{WorkspaceID: workspaceID, Table: table}
	for _, ch := range h.subs[workspaceID] {
		// Drop the event when the subscriber is saturated; the feed is
		// only a reload trigger, so a pending event already covers it.
		select {
		case ch <- event:
		default:
		}
	}
}

func (h *watchHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for _, subs := range h.subs {
		for _, ch := range subs {
			close(ch)
		}
	}
	h.subs = make(map[types.WorkspaceID][]chan interfaces.ChangeEvent)
}
