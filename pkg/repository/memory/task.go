package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
)

type taskRepository struct {
	mu       sync.RWMutex
	tasks    map[types.WorkspaceID]map[types.TaskID]*model.Task
	hub      *watchHub
	nextFail error
}

func newTaskRepository(hub *watchHub) *taskRepository {
	return &taskRepository{
		tasks: make(map[types.WorkspaceID]map[types.TaskID]*model.Task),
		hub:   hub,
	}
}

func (r *taskRepository) failNext(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextFail = err
}

// takeFail consumes and returns the injected error, if any.
// Caller must hold the write lock.
func (r *taskRepository) takeFail() error {
	err := r.nextFail
	r.nextFail = nil
	return err
}

func (r *taskRepository) ensureWorkspace(workspaceID types.WorkspaceID) {
	if _, exists := r.tasks[workspaceID]; !exists {
		r.tasks[workspaceID] = make(map[types.TaskID]*model.Task)
	}
}

func (r *taskRepository) Create(ctx context.Context, workspaceID types.WorkspaceID, task *model.Task) (*model.Task, error) {
	r.mu.Lock()
	if err := r.takeFail(); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.ensureWorkspace(workspaceID)

	now := time.Now().UTC()
	created := task.Clone()
	created.ID = types.NewTaskID()
	created.WorkspaceID = workspaceID
	created.CreatedAt = now
	created.UpdatedAt = now
	created.Subtasks = nil
	created.Comments = nil

	r.tasks[workspaceID][created.ID] = created
	result := created.Clone()
	r.mu.Unlock()

	r.hub.notify(workspaceID, "tasks")
	return result, nil
}

func (r *taskRepository) Get(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ws, exists := r.tasks[workspaceID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
	}

	t, exists := ws[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
	}

	return t.Clone(), nil
}

func (r *taskRepository) List(ctx context.Context, workspaceID types.WorkspaceID) ([]*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFail(); err != nil {
		return nil, err
	}

	ws, exists := r.tasks[workspaceID]
	if !exists {
		return []*model.Task{}, nil
	}

	tasks := make([]*model.Task, 0, len(ws))
	for _, t := range ws {
		tasks = append(tasks, t.Clone())
	}

	// Map iteration order is random; return creation order so repeated
	// loads of an unchanged collection are identical.
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})

	return tasks, nil
}

func (r *taskRepository) Update(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID, patch model.TaskPatch) (*model.Task, error) {
	r.mu.Lock()
	if err := r.takeFail(); err != nil {
		r.mu.Unlock()
		return nil, err
	}

	ws, exists := r.tasks[workspaceID]
	if !exists {
		r.mu.Unlock()
		return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
	}

	existing, exists := ws[id]
	if !exists {
		r.mu.Unlock()
		return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
	}

	updated := existing.Clone()
	patch.Apply(updated)
	updated.UpdatedAt = time.Now().UTC()

	r.tasks[workspaceID][id] = updated
	result := updated.Clone()
	r.mu.Unlock()

	r.hub.notify(workspaceID, "tasks")
	return result, nil
}

func (r *taskRepository) Delete(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID) error {
	r.mu.Lock()
	if err := r.takeFail(); err != nil {
		r.mu.Unlock()
		return err
	}

	ws, exists := r.tasks[workspaceID]
	if !exists {
		r.mu.Unlock()
		return goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
	}

	if _, exists := ws[id]; !exists {
		r.mu.Unlock()
		return goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
	}

	// Subtasks and comments live embedded in the task record here, so
	// removing the task cascades the way the hosted store's foreign
	// keys do.
	delete(r.tasks[workspaceID], id)
	r.mu.Unlock()

	r.hub.notify(workspaceID, "tasks")
	return nil
}

// mutateTask applies fn to the stored task under the write lock.
// Used by the subtask and comment repositories to keep joins embedded.
func (r *taskRepository) mutateTask(workspaceID types.WorkspaceID, id types.TaskID, fn func(t *model.Task) error) error {
	r.mu.Lock()

	ws, exists := r.tasks[workspaceID]
	if !exists {
		r.mu.Unlock()
		return goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
	}
	t, exists := ws[id]
	if !exists {
		r.mu.Unlock()
		return goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
	}

	if err := fn(t); err != nil {
		r.mu.Unlock()
		return err
	}
	t.UpdatedAt = time.Now().UTC()
	r.mu.Unlock()
	return nil
}

// findTaskOfSubtask locates the parent task of a subtask.
// Caller must hold at least the read lock.
func (r *taskRepository) findTaskOfSubtask(workspaceID types.WorkspaceID, id types.SubtaskID) (types.TaskID, bool) {
	ws, exists := r.tasks[workspaceID]
	if !exists {
		return "", false
	}
	for _, t := range ws {
		for _, st := range t.Subtasks {
			if st.ID == id {
				return t.ID, true
			}
		}
	}
	return "", false
}
