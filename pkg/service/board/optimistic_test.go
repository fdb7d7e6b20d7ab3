package board_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
	"github.com/taskops/taskboard/pkg/repository/memory"
	"github.com/taskops/taskboard/pkg/service/board"
)

func TestMutate(t *testing.T) {
	t.Run("success applies the patch to cache and store", func(t *testing.T) {
		repo := memory.New()
		defer repo.Close()
		ctx := context.Background()
		task := seedTask(t, repo, "mutate me")

		cache := board.New(repo, wsID)
		gt.NoError(t, cache.Load(ctx)).Required()

		status := types.TaskStatusDone
		gt.NoError(t, cache.Mutate(ctx, task.ID, model.TaskPatch{Status: &status})).Required()

		cached, err := cache.Get(task.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, cached.Status).Equal(types.TaskStatusDone)

		stored, err := repo.Task().Get(ctx, wsID, task.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, stored.Status).Equal(types.TaskStatusDone)
	})

	t.Run("failure restores the exact pre-image", func(t *testing.T) {
		repo := memory.New()
		defer repo.Close()
		ctx := context.Background()
		task := seedTask(t, repo, "unchanged")

		cache := board.New(repo, wsID)
		gt.NoError(t, cache.Load(ctx)).Required()

		before, err := cache.Get(task.ID)
		gt.NoError(t, err).Required()

		repo.FailNextTaskOp(errors.New("write rejected"))
		status := types.TaskStatusDone
		err = cache.Mutate(ctx, task.ID, model.TaskPatch{Status: &status})
		gt.Value(t, err).NotNil()

		after, err := cache.Get(task.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, after.Status).Equal(before.Status)
		gt.Value(t, after.Title).Equal(before.Title)
		gt.Bool(t, after.UpdatedAt.Equal(before.UpdatedAt)).True()
	})

	t.Run("unknown task is an error", func(t *testing.T) {
		repo := memory.New()
		defer repo.Close()
		cache := board.New(repo, wsID)
		gt.NoError(t, cache.Load(context.Background())).Required()

		status := types.TaskStatusDone
		err := cache.Mutate(context.Background(), types.NewTaskID(), model.TaskPatch{Status: &status})
		gt.Bool(t, errors.Is(err, board.ErrTaskNotFound)).True()
	})

	t.Run("reload after success is idempotent", func(t *testing.T) {
		repo := memory.New()
		defer repo.Close()
		ctx := context.Background()
		task := seedTask(t, repo, "stable")

		cache := board.New(repo, wsID)
		gt.NoError(t, cache.Load(ctx)).Required()

		status := types.TaskStatusInProgress
		gt.NoError(t, cache.Mutate(ctx, task.ID, model.TaskPatch{Status: &status})).Required()
		gt.NoError(t, cache.Load(ctx)).Required()

		cached, err := cache.Get(task.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, cached.Status).Equal(types.TaskStatusInProgress)
	})
}

func TestCreate(t *testing.T) {
	t.Run("success swaps the placeholder for the store record", func(t *testing.T) {
		repo := memory.New()
		defer repo.Close()
		ctx := context.Background()

		cache := board.New(repo, wsID)
		gt.NoError(t, cache.Load(ctx)).Required()

		created, err := cache.Create(ctx, &model.Task{Title: "fresh"})
		gt.NoError(t, err).Required()

		gt.Bool(t, created.ID.IsPlaceholder()).False()
		gt.Value(t, cache.Len()).Equal(1)

		// No placeholder survives in the cache.
		for _, cached := range cache.List() {
			gt.Bool(t, cached.ID.IsPlaceholder()).False()
		}
	})

	t.Run("failure leaves no trace of the task", func(t *testing.T) {
		repo := memory.New()
		defer repo.Close()
		ctx := context.Background()

		cache := board.New(repo, wsID)
		gt.NoError(t, cache.Load(ctx)).Required()

		repo.FailNextTaskOp(errors.New("insert rejected"))
		_, err := cache.Create(ctx, &model.Task{Title: "phantom"})
		gt.Value(t, err).NotNil()

		gt.Value(t, cache.Len()).Equal(0)
		for _, cached := range cache.List() {
			gt.Value(t, cached.Title).NotEqual("phantom")
		}

		// The store has nothing either.
		stored, err := repo.Task().List(ctx, wsID)
		gt.NoError(t, err).Required()
		gt.Array(t, stored).Length(0)
	})

	t.Run("invalid task is rejected before any local insert", func(t *testing.T) {
		repo := memory.New()
		defer repo.Close()
		cache := board.New(repo, wsID)
		gt.NoError(t, cache.Load(context.Background())).Required()

		_, err := cache.Create(context.Background(), &model.Task{})
		gt.Bool(t, errors.Is(err, model.ErrInvalidTask)).True()
		gt.Value(t, cache.Len()).Equal(0)
	})
}

func TestDelete(t *testing.T) {
	t.Run("success removes from cache and store", func(t *testing.T) {
		repo := memory.New()
		defer repo.Close()
		ctx := context.Background()
		task := seedTask(t, repo, "doomed")

		cache := board.New(repo, wsID)
		gt.NoError(t, cache.Load(ctx)).Required()

		gt.NoError(t, cache.Delete(ctx, task.ID)).Required()
		gt.Value(t, cache.Len()).Equal(0)

		_, err := repo.Task().Get(ctx, wsID, task.ID)
		gt.Value(t, err).NotNil()
	})

	t.Run("failure reinserts at the original position", func(t *testing.T) {
		repo := memory.New()
		defer repo.Close()
		ctx := context.Background()
		first := seedTask(t, repo, "first")
		second := seedTask(t, repo, "second")
		third := seedTask(t, repo, "third")

		cache := board.New(repo, wsID)
		gt.NoError(t, cache.Load(ctx)).Required()

		repo.FailNextTaskOp(errors.New("delete rejected"))
		err := cache.Delete(ctx, second.ID)
		gt.Value(t, err).NotNil()

		listed := cache.List()
		gt.Array(t, listed).Length(3)
		gt.Value(t, listed[0].ID).Equal(first.ID)
		gt.Value(t, listed[1].ID).Equal(second.ID)
		gt.Value(t, listed[2].ID).Equal(third.ID)
	})

	t.Run("unknown task is an error", func(t *testing.T) {
		repo := memory.New()
		defer repo.Close()
		cache := board.New(repo, wsID)
		gt.NoError(t, cache.Load(context.Background())).Required()

		err := cache.Delete(context.Background(), types.NewTaskID())
		gt.Bool(t, errors.Is(err, board.ErrTaskNotFound)).True()
	})
}
