package usecase

import "context"

// SetSyncNotify makes notifications run inline so tests can assert on
// them deterministically. Returns a restore function.
func SetSyncNotify() func() {
	orig := asyncNotify
	asyncNotify = func(ctx context.Context, handler func(ctx context.Context) error) {
		_ = handler(ctx)
	}
	return func() { asyncNotify = orig }
}
