package usecase

import (
	"context"
	"time"

	"github.com/taskops/taskboard/pkg/domain/types"
	"github.com/taskops/taskboard/pkg/domain/view"
)

// BoardView is the grouped, filtered, sorted projection rendered by
// the dashboard. Stale is set when the last reconciliation load
// failed and the buckets may lag the store by more than one round trip.
type BoardView struct {
	Board view.Board
	Stats view.Stats
	Stale bool
}

// BoardView computes the derived view of a workspace's task collection
func (uc *UseCases) BoardView(ctx context.Context, workspaceID types.WorkspaceID, filter view.Filter, srt view.Sort, viewer types.UserID) (*BoardView, error) {
	cache, err := uc.Board(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	filtered := view.Apply(cache.List(), filter, srt)

	return &BoardView{
		Board: view.GroupByStatus(filtered),
		Stats: view.Summarize(filtered, viewer, time.Now(), time.Local),
		Stale: cache.Err() != nil,
	}, nil
}
