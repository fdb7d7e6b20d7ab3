package http

import (
	"net/http"
	"net/url"

	"github.com/m-mizutani/goerr/v2"
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
	"github.com/taskops/taskboard/pkg/domain/view"
	"github.com/taskops/taskboard/pkg/utils/errutil"
)

// boardResponse is the JSON shape of a board view. Tasks are rendered
// through the wire record so malformed store data stays representable.
type boardResponse struct {
	Todo       []*model.TaskRecord `json:"todo"`
	InProgress []*model.TaskRecord `json:"in_progress"`
	Done       []*model.TaskRecord `json:"done"`
	Stats      view.Stats          `json:"stats"`
	Stale      bool                `json:"stale"`
}

func encodeBucket(tasks []*model.Task) []*model.TaskRecord {
	records := make([]*model.TaskRecord, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, model.EncodeTaskRecord(t))
	}
	return records
}

// parseBoardQuery builds the filter and sort specs from query
// parameters. Repeated parameters select multiple values within a
// dimension.
func parseBoardQuery(q url.Values) (view.Filter, view.Sort, error) {
	var filter view.Filter
	for _, v := range q["status"] {
		st, err := types.ParseTaskStatus(v)
		if err != nil {
			return filter, view.Sort{}, goerr.Wrap(err, "invalid status filter")
		}
		filter.Statuses = append(filter.Statuses, st)
	}
	for _, v := range q["priority"] {
		pr, err := types.ParseTaskPriority(v)
		if err != nil {
			return filter, view.Sort{}, goerr.Wrap(err, "invalid priority filter")
		}
		filter.Priorities = append(filter.Priorities, pr)
	}
	for _, v := range q["assignee"] {
		filter.AssigneeIDs = append(filter.AssigneeIDs, types.UserID(v))
	}
	filter.Tags = q["tag"]

	filter.Viewer = types.UserID(q.Get("viewer"))
	if q.Get("mine") == "true" {
		filter.MineOnly = true
	}

	srt := view.Sort{Key: view.SortByCreatedAt}
	if v := q.Get("sort"); v != "" {
		key, err := view.ParseSortKey(v)
		if err != nil {
			return filter, srt, goerr.Wrap(err, "invalid sort key")
		}
		srt.Key = key
	}
	if q.Get("order") == "desc" {
		srt.Desc = true
	}

	return filter, srt, nil
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	filter, srt, err := parseBoardQuery(r.URL.Query())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	bv, err := s.uc.BoardView(r.Context(), workspaceID(r), filter, srt, filter.Viewer)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, boardResponse{
		Todo:       encodeBucket(bv.Board.Todo),
		InProgress: encodeBucket(bv.Board.InProgress),
		Done:       encodeBucket(bv.Board.Done),
		Stats:      bv.Stats,
		Stale:      bv.Stale,
	})
}
