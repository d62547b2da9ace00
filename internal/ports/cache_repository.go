package ports

import "context"

// TimeCacheRepository stores the tracker's exported cache blob between runs.
// The blob is opaque at this layer; only the codec knows its shape.
type TimeCacheRepository interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, blob []byte) error
}
