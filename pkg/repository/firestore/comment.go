package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type commentDoc struct {
	ID          string `firestore:"id"`
	WorkspaceID string `firestore:"workspace_id"`
	TaskID      string `firestore:"task_id"`
	AuthorID    string `firestore:"author_id"`
	Content     string `firestore:"content"`
	CreatedAt   string `firestore:"created_at"`
}

func (d *commentDoc) record() model.CommentRecord {
	return model.CommentRecord{
		ID:        d.ID,
		TaskID:    d.TaskID,
		AuthorID:  d.AuthorID,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
	}
}

type commentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCommentRepository(client *firestore.Client) *commentRepository {
	return &commentRepository{client: client}
}

func (r *commentRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_comments"
	}
	return "comments"
}

func (r *commentRepository) query(workspaceID types.WorkspaceID) firestore.Query {
	return r.client.Collection(r.collection()).
		Where("workspace_id", "==", workspaceID.String())
}

func (r *commentRepository) queryByTask(workspaceID types.WorkspaceID, taskID types.TaskID) firestore.Query {
	return r.query(workspaceID).Where("task_id", "==", taskID.String())
}

func (r *commentRepository) Create(ctx context.Context, workspaceID types.WorkspaceID, comment *model.Comment) (*model.Comment, error) {
	now := time.Now().UTC()
	doc := commentDoc{
		ID:          types.NewCommentID().String(),
		WorkspaceID: workspaceID.String(),
		TaskID:      comment.TaskID.String(),
		AuthorID:    comment.AuthorID.String(),
		Content:     comment.Content,
		CreatedAt:   now.Format(time.RFC3339),
	}

	_, err := r.client.Collection(r.collection()).Doc(doc.ID).Set(ctx, doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create comment", goerr.V("id", doc.ID))
	}

	return &model.Comment{
		ID:        types.CommentID(doc.ID),
		TaskID:    comment.TaskID,
		AuthorID:  comment.AuthorID,
		Content:   doc.Content,
		CreatedAt: now,
	}, nil
}

func (r *commentRepository) listByWorkspace(ctx context.Context, workspaceID types.WorkspaceID) ([]model.CommentRecord, error) {
	return r.list(ctx, r.query(workspaceID))
}

func (r *commentRepository) listByTask(ctx context.Context, workspaceID types.WorkspaceID, taskID types.TaskID) ([]model.CommentRecord, error) {
	return r.list(ctx, r.queryByTask(workspaceID, taskID))
}

func (r *commentRepository) list(ctx context.Context, q firestore.Query) ([]model.CommentRecord, error) {
	it := q.Documents(ctx)
	defer it.Stop()

	var records []model.CommentRecord
	for {
		docSnap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate comments")
		}
		var doc commentDoc
		if err := docSnap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode comment", goerr.V("doc_id", docSnap.Ref.ID))
		}
		records = append(records, doc.record())
	}
	return records, nil
}
