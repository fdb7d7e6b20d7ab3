package board_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
	"github.com/taskops/taskboard/pkg/repository/memory"
	"github.com/taskops/taskboard/pkg/service/board"
)

const wsID = types.WorkspaceID("test-ws")

func seedTask(t *testing.T, repo *memory.Memory, title string) *model.Task {
	t.Helper()
	created, err := repo.Task().Create(context.Background(), wsID, &model.Task{
		Title:    title,
		Status:   types.TaskStatusTodo,
		Priority: types.TaskPriorityMedium,
	})
	gt.NoError(t, err).Required()
	return created
}

func TestCacheLoad(t *testing.T) {
	t.Run("Load mirrors the full collection", func(t *testing.T) {
		repo := memory.New()
		defer repo.Close()
		seedTask(t, repo, "one")
		seedTask(t, repo, "two")

		cache := board.New(repo, wsID)
		gt.NoError(t, cache.Load(context.Background())).Required()

		gt.Value(t, cache.Len()).Equal(2)
		gt.NoError(t, cache.Err())
	})

	t.Run("Load replaces removed tasks", func(t *testing.T) {
		repo := memory.New()
		defer repo.Close()
		ctx := context.Background()
		kept := seedTask(t, repo, "kept")
		removed := seedTask(t, repo, "removed")

		cache := board.New(repo, wsID)
		gt.NoError(t, cache.Load(ctx)).Required()
		gt.Value(t, cache.Len()).Equal(2)

		gt.NoError(t, repo.Task().Delete(ctx, wsID, removed.ID)).Required()
		gt.NoError(t, cache.Load(ctx)).Required()

		gt.Value(t, cache.Len()).Equal(1)
		_, err := cache.Get(kept.ID)
		gt.NoError(t, err)
		_, err = cache.Get(removed.ID)
		gt.Bool(t, errors.Is(err, board.ErrTaskNotFound)).True()
	})

	t.Run("failed load keeps previous state and flags staleness", func(t *testing.T) {
		repo := memory.New()
		defer repo.Close()
		ctx := context.Background()
		task := seedTask(t, repo, "survivor")

		cache := board.New(repo, wsID)
		gt.NoError(t, cache.Load(ctx)).Required()

		boom := errors.New("store unavailable")
		repo.FailNextTaskOp(boom)
		err := cache.Load(ctx)
		gt.Value(t, err).NotNil()
		gt.Bool(t, errors.Is(err, boom)).True()

		// The previous mirror is intact and flagged stale.
		got, err := cache.Get(task.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Title).Equal("survivor")
		gt.Value(t, cache.Err()).NotNil()

		// A successful load clears the flag.
		gt.NoError(t, cache.Load(ctx)).Required()
		gt.NoError(t, cache.Err())
	})

	t.Run("reads return copies", func(t *testing.T) {
		repo := memory.New()
		defer repo.Close()
		task := seedTask(t, repo, "immutable")

		cache := board.New(repo, wsID)
		gt.NoError(t, cache.Load(context.Background())).Required()

		got, err := cache.Get(task.ID)
		gt.NoError(t, err).Required()
		got.Title = "mutated"

		again, err := cache.Get(task.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, again.Title).Equal("immutable")
	})
}

func TestCacheOnChange(t *testing.T) {
	repo := memory.New()
	defer repo.Close()
	seedTask(t, repo, "one")

	cache := board.New(repo, wsID)

	fired := 0
	cache.OnChange(func() { fired++ })

	gt.NoError(t, cache.Load(context.Background())).Required()
	gt.Value(t, fired).Equal(1)
}

func TestCacheRunDebounce(t *testing.T) {
	t.Run("a burst of changes coalesces into one reload", func(t *testing.T) {
		repo := memory.New()
		defer repo.Close()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		cache := board.New(repo, wsID, board.WithDebounce(50*time.Millisecond))
		gt.NoError(t, cache.Load(ctx)).Required()

		reloads := make(chan struct{}, 16)
		cache.OnChange(func() { reloads <- struct{}{} })

		done := make(chan error, 1)
		go func() { done <- cache.Run(ctx) }()

		// Burst of writes well inside one debounce window.
		for i := 0; i < 5; i++ {
			seedTask(t, repo, "burst")
		}

		// Exactly one reload lands once the window expires.
		select {
		case <-reloads:
		case <-time.After(3 * time.Second):
			t.Fatal("no reload after change burst")
		}

		select {
		case <-reloads:
			t.Fatal("burst caused more than one reload")
		case <-time.After(200 * time.Millisecond):
		}

		gt.Value(t, cache.Len()).Equal(5)

		cancel()
		select {
		case err := <-done:
			gt.NoError(t, err)
		case <-time.After(3 * time.Second):
			t.Fatal("Run did not stop on cancel")
		}
	})

	t.Run("change feed picks up external writes", func(t *testing.T) {
		repo := memory.New()
		defer repo.Close()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		cache := board.New(repo, wsID, board.WithDebounce(20*time.Millisecond))
		gt.NoError(t, cache.Load(ctx)).Required()
		go func() { _ = cache.Run(ctx) }()

		created := seedTask(t, repo, "external")

		gt.Bool(t, eventually(3*time.Second, func() bool {
			_, err := cache.Get(created.ID)
			return err == nil
		})).True()
	})
}

func eventually(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}
