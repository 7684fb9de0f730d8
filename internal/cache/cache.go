// Package cache holds the serialized user listing served by the data page.
// Onboarding writes invalidate it so the listing never lags a completed step
// by more than one request.
package cache

import "context"

// UserListCache stores one payload stamped with a generation. Invalidate
// advances the generation; Set only stores when the caller's generation is
// still current, so a listing read before a write is never cached after it.
type UserListCache interface {
	Get(ctx context.Context) ([]byte, bool, error)
	Generation(ctx context.Context) (uint64, error)
	Set(ctx context.Context, payload []byte, generation uint64) error
	Invalidate(ctx context.Context) error
}
