package memory

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
)

type subtaskRepository struct {
	tasks *taskRepository
	hub   *watchHub
}

func newSubtaskRepository(tasks *taskRepository, hub *watchHub) *subtaskRepository {
	return &subtaskRepository{tasks: tasks, hub: hub}
}

func (r *subtaskRepository) Create(ctx context.Context, workspaceID types.WorkspaceID, subtask *model.Subtask) (*model.Subtask, error) {
	created := &model.Subtask{
		ID:        types.NewSubtaskID(),
		TaskID:    subtask.TaskID,
		Title:     subtask.Title,
		Completed: subtask.Completed,
		CreatedAt: time.Now().UTC(),
	}

	err := r.tasks.mutateTask(workspaceID, subtask.TaskID, func(t *model.Task) error {
		t.Subtasks = append(t.Subtasks, created)
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create subtask")
	}

	r.hub.notify(workspaceID, "subtasks")
	result := *created
	return &result, nil
}

func (r *subtaskRepository) SetCompleted(ctx context.Context, workspaceID types.WorkspaceID, id types.SubtaskID, completed bool) error {
	if err := r.mutateSubtask(workspaceID, id, func(st *model.Subtask) {
		st.Completed = completed
	}); err != nil {
		return err
	}
	r.hub.notify(workspaceID, "subtasks")
	return nil
}

func (r *subtaskRepository) Rename(ctx context.Context, workspaceID types.WorkspaceID, id types.SubtaskID, title string) error {
	if title == "" {
		return goerr.New("subtask title is required", goerr.V("id", id))
	}
	if err := r.mutateSubtask(workspaceID, id, func(st *model.Subtask) {
		st.Title = title
	}); err != nil {
		return err
	}
	r.hub.notify(workspaceID, "subtasks")
	return nil
}

func (r *subtaskRepository) Delete(ctx context.Context, workspaceID types.WorkspaceID, id types.SubtaskID) error {
	r.tasks.mu.RLock()
	taskID, found := r.tasks.findTaskOfSubtask(workspaceID, id)
	r.tasks.mu.RUnlock()
	if !found {
		return goerr.Wrap(ErrNotFound, "subtask not found", goerr.V("id", id))
	}

	err := r.tasks.mutateTask(workspaceID, taskID, func(t *model.Task) error {
		for i, st := range t.Subtasks {
			if st.ID == id {
				t.Subtasks = append(t.Subtasks[:i], t.Subtasks[i+1:]...)
				return nil
			}
		}
		return goerr.Wrap(ErrNotFound, "subtask not found", goerr.V("id", id))
	})
	if err != nil {
		return err
	}

	r.hub.notify(workspaceID, "subtasks")
	return nil
}

func (r *subtaskRepository) mutateSubtask(workspaceID types.WorkspaceID, id types.SubtaskID, fn func(st *model.Subtask)) error {
	r.tasks.mu.RLock()
	taskID, found := r.tasks.findTaskOfSubtask(workspaceID, id)
	r.tasks.mu.RUnlock()
	if !found {
		return goerr.Wrap(ErrNotFound, "subtask not found", goerr.V("id", id))
	}

	return r.tasks.mutateTask(workspaceID, taskID, func(t *model.Task) error {
		for _, st := range t.Subtasks {
			if st.ID == id {
				fn(st)
				return nil
			}
		}
		return goerr.Wrap(ErrNotFound, "subtask not found", goerr.V("id", id))
	})
}
