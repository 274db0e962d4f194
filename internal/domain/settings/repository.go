package settings

import "context"

// Source loads a fresh snapshot from the backing store.
type Source interface {
	Load(ctx context.Context) (Snapshot, error)
}
