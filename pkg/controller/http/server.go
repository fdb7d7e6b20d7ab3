package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/taskops/taskboard/pkg/usecase"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

func New(uc *usecase.UseCases) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/workspaces", s.handleListWorkspaces)
		r.Get("/users", s.handleListUsers)

		r.Route("/workspaces/{workspaceID}", func(r chi.Router) {
			r.Get("/board", s.handleBoard)

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", s.handleCreateTask)
				r.Get("/{taskID}", s.handleGetTask)
				r.Patch("/{taskID}", s.handleUpdateTask)
				r.Delete("/{taskID}", s.handleDeleteTask)

				r.Post("/{taskID}/subtasks", s.handleAddSubtask)
				r.Post("/{taskID}/comments", s.handleAddComment)
			})

			r.Patch("/subtasks/{subtaskID}", s.handleUpdateSubtask)
			r.Delete("/subtasks/{subtaskID}", s.handleDeleteSubtask)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
