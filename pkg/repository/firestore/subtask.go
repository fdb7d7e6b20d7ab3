package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// subtaskDoc is the stored shape of a subtask row. workspace_id is
// denormalized onto every child row so workspace queries and snapshot
// listeners need no parent lookup.
type subtaskDoc struct {
	ID          string `firestore:"id"`
	WorkspaceID string `firestore:"workspace_id"`
	TaskID      string `firestore:"task_id"`
	Title       string `firestore:"title"`
	Completed   bool   `firestore:"completed"`
	CreatedAt   string `firestore:"created_at"`
}

func (d *subtaskDoc) record() model.SubtaskRecord {
	return model.SubtaskRecord{
		ID:        d.ID,
		TaskID:    d.TaskID,
		Title:     d.Title,
		Completed: d.Completed,
		CreatedAt: d.CreatedAt,
	}
}

type subtaskRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSubtaskRepository(client *firestore.Client) *subtaskRepository {
	return &subtaskRepository{client: client}
}

func (r *subtaskRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_subtasks"
	}
	return "subtasks"
}

func (r *subtaskRepository) query(workspaceID types.WorkspaceID) firestore.Query {
	return r.client.Collection(r.collection()).
		Where("workspace_id", "==", workspaceID.String())
}

func (r *subtaskRepository) queryByTask(workspaceID types.WorkspaceID, taskID types.TaskID) firestore.Query {
	return r.query(workspaceID).Where("task_id", "==", taskID.String())
}

func (r *subtaskRepository) Create(ctx context.Context, workspaceID types.WorkspaceID, subtask *model.Subtask) (*model.Subtask, error) {
	now := time.Now().UTC()
	doc := subtaskDoc{
		ID:          types.NewSubtaskID().String(),
		WorkspaceID: workspaceID.String(),
		TaskID:      subtask.TaskID.String(),
		Title:       subtask.Title,
		Completed:   subtask.Completed,
		CreatedAt:   now.Format(time.RFC3339),
	}

	_, err := r.client.Collection(r.collection()).Doc(doc.ID).Set(ctx, doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create subtask", goerr.V("id", doc.ID))
	}

	return &model.Subtask{
		ID:        types.SubtaskID(doc.ID),
		TaskID:    subtask.TaskID,
		Title:     doc.Title,
		Completed: doc.Completed,
		CreatedAt: now,
	}, nil
}

func (r *subtaskRepository) SetCompleted(ctx context.Context, workspaceID types.WorkspaceID, id types.SubtaskID, completed bool) error {
	return r.update(ctx, id, []firestore.Update{
		{Path: "completed", Value: completed},
	})
}

func (r *subtaskRepository) Rename(ctx context.Context, workspaceID types.WorkspaceID, id types.SubtaskID, title string) error {
	if title == "" {
		return goerr.New("subtask title is required", goerr.V("id", id))
	}
	return r.update(ctx, id, []firestore.Update{
		{Path: "title", Value: title},
	})
}

func (r *subtaskRepository) update(ctx context.Context, id types.SubtaskID, updates []firestore.Update) error {
	_, err := r.client.Collection(r.collection()).Doc(id.String()).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "subtask not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to update subtask", goerr.V("id", id))
	}
	return nil
}

func (r *subtaskRepository) Delete(ctx context.Context, workspaceID types.WorkspaceID, id types.SubtaskID) error {
	_, err := r.client.Collection(r.collection()).Doc(id.String()).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "subtask not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to delete subtask", goerr.V("id", id))
	}
	return nil
}

func (r *subtaskRepository) listByWorkspace(ctx context.Context, workspaceID types.WorkspaceID) ([]model.SubtaskRecord, error) {
	return r.list(ctx, r.query(workspaceID))
}

func (r *subtaskRepository) listByTask(ctx context.Context, workspaceID types.WorkspaceID, taskID types.TaskID) ([]model.SubtaskRecord, error) {
	return r.list(ctx, r.queryByTask(workspaceID, taskID))
}

func (r *subtaskRepository) list(ctx context.Context, q firestore.Query) ([]model.SubtaskRecord, error) {
	it := q.Documents(ctx)
	defer it.Stop()

	var records []model.SubtaskRecord
	for {
		docSnap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate subtasks")
		}
		var doc subtaskDoc
		if err := docSnap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode subtask", goerr.V("doc_id", docSnap.Ref.ID))
		}
		records = append(records, doc.record())
	}
	return records, nil
}
