package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type taskRepository struct {
	client           *firestore.Client
	collectionPrefix string
	subtasks         *subtaskRepository
	comments         *commentRepository
}

func newTaskRepository(client *firestore.Client) *taskRepository {
	return &taskRepository{client: client}
}

func (r *taskRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_tasks"
	}
	return "tasks"
}

func (r *taskRepository) query(workspaceID types.WorkspaceID) firestore.Query {
	return r.client.Collection(r.collection()).
		Where("workspace_id", "==", workspaceID.String())
}

func (r *taskRepository) Create(ctx context.Context, workspaceID types.WorkspaceID, task *model.Task) (*model.Task, error) {
	now := time.Now().UTC()
	created := task.Clone()
	created.ID = types.NewTaskID()
	created.WorkspaceID = workspaceID
	created.CreatedAt = now
	created.UpdatedAt = now
	created.Subtasks = nil
	created.Comments = nil

	rec := model.EncodeTaskRecord(created)
	_, err := r.client.Collection(r.collection()).Doc(rec.ID).Set(ctx, rec)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create task", goerr.V("id", rec.ID))
	}

	return created, nil
}

func (r *taskRepository) Get(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID) (*model.Task, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get task", goerr.V("id", id))
	}

	var rec model.TaskRecord
	if err := docSnap.DataTo(&rec); err != nil {
		return nil, goerr.Wrap(err, "failed to decode task", goerr.V("id", id))
	}
	if rec.WorkspaceID != workspaceID.String() {
		return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
	}

	eg, egCtx := errgroup.WithContext(ctx)
	var subtasks []model.SubtaskRecord
	var comments []model.CommentRecord
	eg.Go(func() error {
		var err error
		subtasks, err = r.subtasks.listByTask(egCtx, workspaceID, id)
		return err
	})
	eg.Go(func() error {
		var err error
		comments, err = r.comments.listByTask(egCtx, workspaceID, id)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, goerr.Wrap(err, "failed to load task joins", goerr.V("id", id))
	}
	rec.Subtasks = subtasks
	rec.Comments = comments

	task, err := model.DecodeTaskRecord(&rec)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode task record", goerr.V("id", id))
	}
	return task, nil
}

func (r *taskRepository) List(ctx context.Context, workspaceID types.WorkspaceID) ([]*model.Task, error) {
	eg, egCtx := errgroup.WithContext(ctx)

	var taskRecs []model.TaskRecord
	var subtaskRecs []model.SubtaskRecord
	var commentRecs []model.CommentRecord

	eg.Go(func() error {
		it := r.query(workspaceID).Documents(egCtx)
		defer it.Stop()
		for {
			docSnap, err := it.Next()
			if err == iterator.Done {
				return nil
			}
			if err != nil {
				return goerr.Wrap(err, "failed to iterate tasks")
			}
			var rec model.TaskRecord
			if err := docSnap.DataTo(&rec); err != nil {
				return goerr.Wrap(err, "failed to decode task", goerr.V("doc_id", docSnap.Ref.ID))
			}
			taskRecs = append(taskRecs, rec)
		}
	})
	eg.Go(func() error {
		var err error
		subtaskRecs, err = r.subtasks.listByWorkspace(egCtx, workspaceID)
		return err
	})
	eg.Go(func() error {
		var err error
		commentRecs, err = r.comments.listByWorkspace(egCtx, workspaceID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, goerr.Wrap(err, "failed to list tasks", goerr.V("workspace_id", workspaceID))
	}

	subtasksByTask := make(map[string][]model.SubtaskRecord)
	for _, sr := range subtaskRecs {
		subtasksByTask[sr.TaskID] = append(subtasksByTask[sr.TaskID], sr)
	}
	commentsByTask := make(map[string][]model.CommentRecord)
	for _, cr := range commentRecs {
		commentsByTask[cr.TaskID] = append(commentsByTask[cr.TaskID], cr)
	}

	tasks := make([]*model.Task, 0, len(taskRecs))
	for i := range taskRecs {
		rec := taskRecs[i]
		rec.Subtasks = subtasksByTask[rec.ID]
		rec.Comments = commentsByTask[rec.ID]
		sortChildRecords(rec.Subtasks, rec.Comments)

		task, err := model.DecodeTaskRecord(&rec)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to decode task record", goerr.V("id", rec.ID))
		}
		tasks = append(tasks, task)
	}

	// Stable collection order across reloads.
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})

	return tasks, nil
}

// sortChildRecords orders joins by creation. RFC3339 strings compare
// lexicographically in timestamp order.
func sortChildRecords(subtasks []model.SubtaskRecord, comments []model.CommentRecord) {
	sort.SliceStable(subtasks, func(i, j int) bool {
		return subtasks[i].CreatedAt < subtasks[j].CreatedAt
	})
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt < comments[j].CreatedAt
	})
}

func (r *taskRepository) Update(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID, patch model.TaskPatch) (*model.Task, error) {
	updates := []firestore.Update{
		{Path: "updated_at", Value: time.Now().UTC().Format(time.RFC3339)},
	}
	if patch.Title != nil {
		updates = append(updates, firestore.Update{Path: "title", Value: *patch.Title})
	}
	if patch.Description != nil {
		updates = append(updates, firestore.Update{Path: "description", Value: *patch.Description})
	}
	if patch.Status != nil {
		updates = append(updates, firestore.Update{Path: "status", Value: patch.Status.String()})
	}
	if patch.Priority != nil {
		updates = append(updates, firestore.Update{Path: "priority", Value: patch.Priority.String()})
	}
	if patch.DueDate != nil {
		updates = append(updates, firestore.Update{Path: "due_date", Value: *patch.DueDate})
	}
	if patch.AssigneeIDs != nil {
		ids := make([]string, 0, len(patch.AssigneeIDs))
		for _, uid := range patch.AssigneeIDs {
			ids = append(ids, uid.String())
		}
		updates = append(updates, firestore.Update{Path: "assignee_ids", Value: ids})
	}
	if patch.Tags != nil {
		updates = append(updates, firestore.Update{Path: "tags", Value: patch.Tags})
	}

	_, err := r.client.Collection(r.collection()).Doc(id.String()).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to update task", goerr.V("id", id))
	}

	return r.Get(ctx, workspaceID, id)
}

func (r *taskRepository) Delete(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID) error {
	// Cascade the join tables first so a concurrent List never sees
	// orphaned children pointing at a still-present task.
	bw := r.client.BulkWriter(ctx)
	for _, q := range []firestore.Query{
		r.subtasks.queryByTask(workspaceID, id),
		r.comments.queryByTask(workspaceID, id),
	} {
		it := q.Documents(ctx)
		for {
			docSnap, err := it.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				it.Stop()
				return goerr.Wrap(err, "failed to collect cascade targets", goerr.V("id", id))
			}
			if _, err := bw.Delete(docSnap.Ref); err != nil {
				it.Stop()
				return goerr.Wrap(err, "failed to enqueue cascade delete", goerr.V("id", id))
			}
		}
		it.Stop()
	}
	bw.End()

	_, err := r.client.Collection(r.collection()).Doc(id.String()).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to delete task", goerr.V("id", id))
	}

	return nil
}
