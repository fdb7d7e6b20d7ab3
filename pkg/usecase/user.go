package usecase

import (
	"context"

	"github.com/taskops/taskboard/pkg/domain/model"
)

// ListUsers returns the synced user roster
func (uc *UseCases) ListUsers(ctx context.Context) ([]*model.User, error) {
	return uc.repo.User().List(ctx)
}
