package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/taskops/taskboard/pkg/domain/interfaces"
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
	"github.com/taskops/taskboard/pkg/service/board"
	"github.com/taskops/taskboard/pkg/usecase"
	"github.com/taskops/taskboard/pkg/utils/errutil"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps domain errors onto HTTP status codes. Missing
// records and validation failures are the caller's fault; anything
// else that crossed the
// remote-store boundary already rolled the cache back and is reported
// as a bad gateway.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, board.ErrTaskNotFound),
		errors.Is(err, interfaces.ErrNotFound),
		errors.Is(err, model.ErrWorkspaceNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrTitleRequired),
		errors.Is(err, usecase.ErrInvalidStatus),
		errors.Is(err, usecase.ErrInvalidPriority),
		errors.Is(err, usecase.ErrInvalidDueDate),
		errors.Is(err, model.ErrInvalidTask):
		status = http.StatusBadRequest
	}
	errutil.HandleHTTP(r.Context(), w, err, status)
}

func workspaceID(r *http.Request) types.WorkspaceID {
	return types.WorkspaceID(chi.URLParam(r, "workspaceID"))
}

func (s *Server) handleListWorkspaces(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.uc.Workspaces())
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.uc.ListUsers(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

type taskRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Status      *string  `json:"status"`
	Priority    *string  `json:"priority"`
	DueDate     *string  `json:"due_date"`
	CreatorID   string   `json:"creator_id"`
	AssigneeIDs []string `json:"assignee_ids"`
	Tags        []string `json:"tags"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	input := usecase.CreateTaskInput{
		Title:     req.Title,
		CreatorID: types.UserID(req.CreatorID),
		Tags:      req.Tags,
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Status != nil {
		input.Status = types.TaskStatus(*req.Status)
	}
	if req.Priority != nil {
		input.Priority = types.TaskPriority(*req.Priority)
	}
	if req.DueDate != nil {
		input.DueDate = *req.DueDate
	}
	for _, id := range req.AssigneeIDs {
		input.AssigneeIDs = append(input.AssigneeIDs, types.UserID(id))
	}

	created, err := s.uc.CreateTask(r.Context(), workspaceID(r), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, model.EncodeTaskRecord(created))
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.uc.GetTask(r.Context(), workspaceID(r), types.TaskID(chi.URLParam(r, "taskID")))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, model.EncodeTaskRecord(task))
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	var patch model.TaskPatch
	if req.Title != "" {
		patch.Title = &req.Title
	}
	patch.Description = req.Description
	if req.Status != nil {
		st := types.TaskStatus(*req.Status)
		patch.Status = &st
	}
	if req.Priority != nil {
		pr := types.TaskPriority(*req.Priority)
		patch.Priority = &pr
	}
	patch.DueDate = req.DueDate
	if req.AssigneeIDs != nil {
		patch.AssigneeIDs = make([]types.UserID, 0, len(req.AssigneeIDs))
		for _, id := range req.AssigneeIDs {
			patch.AssigneeIDs = append(patch.AssigneeIDs, types.UserID(id))
		}
	}
	if req.Tags != nil {
		patch.Tags = req.Tags
	}

	updated, err := s.uc.UpdateTask(r.Context(), workspaceID(r), types.TaskID(chi.URLParam(r, "taskID")), patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, model.EncodeTaskRecord(updated))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.DeleteTask(r.Context(), workspaceID(r), types.TaskID(chi.URLParam(r, "taskID"))); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type subtaskRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func (s *Server) handleAddSubtask(w http.ResponseWriter, r *http.Request) {
	var req subtaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	title := ""
	if req.Title != nil {
		title = *req.Title
	}

	created, err := s.uc.AddSubtask(r.Context(), workspaceID(r), types.TaskID(chi.URLParam(r, "taskID")), title)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateSubtask(w http.ResponseWriter, r *http.Request) {
	var req subtaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	ws := workspaceID(r)
	id := types.SubtaskID(chi.URLParam(r, "subtaskID"))

	if req.Completed != nil {
		if err := s.uc.ToggleSubtask(r.Context(), ws, id, *req.Completed); err != nil {
			respondError(w, r, err)
			return
		}
	}
	if req.Title != nil {
		if err := s.uc.RenameSubtask(r.Context(), ws, id, *req.Title); err != nil {
			respondError(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteSubtask(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.DeleteSubtask(r.Context(), workspaceID(r), types.SubtaskID(chi.URLParam(r, "subtaskID"))); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type commentRequest struct {
	AuthorID string `json:"author_id"`
	Content  string `json:"content"`
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	created, err := s.uc.AddComment(r.Context(), workspaceID(r),
		types.TaskID(chi.URLParam(r, "taskID")), types.UserID(req.AuthorID), req.Content)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}
