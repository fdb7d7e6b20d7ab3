// Package firestore implements the repository against the hosted
// Firestore backend. Task rows and their join tables live in separate
// collections; List performs the eager join, and Watch exposes the
// backend's snapshot feed as a plain change-notification channel.
package firestore

import (
	"context"
	"sync"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/taskops/taskboard/pkg/domain/interfaces"
	"github.com/taskops/taskboard/pkg/domain/types"
	"github.com/taskops/taskboard/pkg/utils/logging"
)

type Firestore struct {
	client  *firestore.Client
	task    *taskRepository
	subtask *subtaskRepository
	comment *commentRepository
	user    *userRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all collections, used by tests to
// isolate runs against a shared project.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.task.collectionPrefix = prefix
		f.subtask.collectionPrefix = prefix
		f.comment.collectionPrefix = prefix
		f.user.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	taskRepo := newTaskRepository(client)
	subtaskRepo := newSubtaskRepository(client)
	commentRepo := newCommentRepository(client)
	userRepo := newUserRepository(client)

	taskRepo.subtasks = subtaskRepo
	taskRepo.comments = commentRepo

	f := &Firestore{
		client:  client,
		task:    taskRepo,
		subtask: subtaskRepo,
		comment: commentRepo,
		user:    userRepo,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Task() interfaces.TaskRepository {
	return f.task
}

func (f *Firestore) Subtask() interfaces.SubtaskRepository {
	return f.subtask
}

func (f *Firestore) Comment() interfaces.CommentRepository {
	return f.comment
}

func (f *Firestore) User() interfaces.UserRepository {
	return f.user
}

// Watch starts snapshot listeners on the workspace's task tables and
// delivers one ChangeEvent per snapshot change. Events carry no
// payload; the consumer reacts by re-fetching.
func (f *Firestore) Watch(ctx context.Context, workspaceID types.WorkspaceID) (<-chan interfaces.ChangeEvent, error) {
	out := make(chan interfaces.ChangeEvent, 16)

	tables := map[string]firestore.Query{
		"tasks":    f.task.query(workspaceID),
		"subtasks": f.subtask.query(workspaceID),
		"comments": f.comment.query(workspaceID),
	}

	var wg sync.WaitGroup
	for table, q := range tables {
		wg.Add(1)
		go func(table string, q firestore.Query) {
			defer wg.Done()

			it := q.Snapshots(ctx)
			defer it.Stop()

			for {
				if _, err := it.Next(); err != nil {
					if ctx.Err() == nil {
						logging.From(ctx).Error("snapshot listener stopped",
							"table", table, "workspace_id", workspaceID, "error", err.Error())
					}
					return
				}
				event := interfaces.ChangeEvent{WorkspaceID: workspaceID, Table: table}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				default:
					// A pending event already triggers the reload.
				}
			}
		}(table, q)
	}

	// Close only after every listener has returned, so a listener
	// holding a snapshot at cancellation time cannot send on a closed
	// channel.
	go func() {
		<-ctx.Done()
		wg.Wait()
		close(out)
	}()

	return out, nil
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
