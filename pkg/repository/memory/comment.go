package memory

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
)

type commentRepository struct {
	tasks *taskRepository
	hub   *watchHub
}

func newCommentRepository(tasks *taskRepository, hub *watchHub) *commentRepository {
	return &commentRepository{tasks: tasks, hub: hub}
}

func (r *commentRepository) Create(ctx context.Context, workspaceID types.WorkspaceID, comment *model.Comment) (*model.Comment, error) {
	created := &model.Comment{
		ID:        types.NewCommentID(),
		TaskID:    comment.TaskID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: time.Now().UTC(),
	}

	err := r.tasks.mutateTask(workspaceID, comment.TaskID, func(t *model.Task) error {
		// Oldest first; appends keep creation order.
		t.Comments = append(t.Comments, created)
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create comment")
	}

	r.hub.notify(workspaceID, "comments")
	result := *created
	return &result, nil
}
