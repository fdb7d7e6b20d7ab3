package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/taskops/taskboard/pkg/domain/interfaces"
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
	"github.com/taskops/taskboard/pkg/service/board"
	"github.com/taskops/taskboard/pkg/service/slack"
	"github.com/taskops/taskboard/pkg/utils/async"
	"github.com/taskops/taskboard/pkg/utils/logging"
)

// UseCases owns the per-workspace board caches and exposes every
// operation the controllers call. It is the composition root of the
// task core: construct with New, start with Init, release with Close.
type UseCases struct {
	repo     interfaces.Repository
	registry *model.WorkspaceRegistry
	notifier slack.Service
	boardOpt []board.Option

	mu      sync.Mutex
	boards  map[types.WorkspaceID]*board.Cache
	baseCtx context.Context
	cancel  context.CancelFunc
}

type Option func(*UseCases)

// WithNotifier enables Slack notifications on task creation and
// assignment changes
func WithNotifier(svc slack.Service) Option {
	return func(uc *UseCases) {
		uc.notifier = svc
	}
}

// WithBoardOptions passes options through to every board cache,
// used by tests to shrink the debounce window
func WithBoardOptions(opts ...board.Option) Option {
	return func(uc *UseCases) {
		uc.boardOpt = opts
	}
}

func New(repo interfaces.Repository, registry *model.WorkspaceRegistry, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:     repo,
		registry: registry,
		boards:   make(map[types.WorkspaceID]*board.Cache),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Init loads the board cache of every configured workspace, starts
// its change-feed loop, and syncs the user roster from configuration.
func (uc *UseCases) Init(ctx context.Context) error {
	uc.mu.Lock()
	if uc.cancel == nil {
		uc.baseCtx, uc.cancel = context.WithCancel(logging.With(context.Background(), logging.From(ctx)))
	}
	uc.mu.Unlock()

	if err := uc.syncRoster(ctx); err != nil {
		return goerr.Wrap(err, "failed to sync user roster")
	}

	for _, ws := range uc.registry.Workspaces() {
		if _, err := uc.Board(ctx, ws.ID); err != nil {
			return goerr.Wrap(err, "failed to start board cache",
				goerr.V("workspace_id", ws.ID))
		}
	}
	return nil
}

// Board returns the workspace's board cache, starting it on first use
func (uc *UseCases) Board(ctx context.Context, workspaceID types.WorkspaceID) (*board.Cache, error) {
	if _, err := uc.registry.Get(workspaceID); err != nil {
		return nil, err
	}

	uc.mu.Lock()
	if cache, ok := uc.boards[workspaceID]; ok {
		uc.mu.Unlock()
		return cache, nil
	}
	if uc.cancel == nil {
		uc.baseCtx, uc.cancel = context.WithCancel(logging.With(context.Background(), logging.From(ctx)))
	}
	cache := board.New(uc.repo, workspaceID, uc.boardOpt...)
	uc.boards[workspaceID] = cache
	runCtx := uc.baseCtx
	uc.mu.Unlock()

	if err := cache.Load(ctx); err != nil {
		// The cache starts stale but usable; the change-feed loop will
		// retry on the next notification.
		logging.From(ctx).Warn("initial board load failed",
			"workspace_id", workspaceID, "error", err.Error())
	}

	async.Dispatch(runCtx, func(ctx context.Context) error {
		return cache.Run(ctx)
	})

	return cache, nil
}

// Close stops all change-feed loops. The repository is owned by the
// caller and closed separately.
func (uc *UseCases) Close() {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.cancel != nil {
		uc.cancel()
		uc.cancel = nil
	}
	uc.boards = make(map[types.WorkspaceID]*board.Cache)
}

// Workspaces returns the configured workspaces
func (uc *UseCases) Workspaces() []model.Workspace {
	return uc.registry.Workspaces()
}

// syncRoster writes the configured workspace members into the store
func (uc *UseCases) syncRoster(ctx context.Context) error {
	for _, entry := range uc.registry.List() {
		for _, member := range entry.Members {
			if err := uc.repo.User().Put(ctx, member); err != nil {
				return goerr.Wrap(err, "failed to sync member",
					goerr.V("user_id", member.ID), goerr.V("workspace_id", entry.Workspace.ID))
			}
		}
	}
	return nil
}
