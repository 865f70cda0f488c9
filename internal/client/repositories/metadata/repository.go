// Package metadata is the client's key/value table. Every local record the
// note store keeps (one JSON document per bucket and user) is a row here.
package metadata

import "context"

type Repository interface {
	// Get returns (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// List returns all pairs whose key starts with prefix ("" for all).
	List(ctx context.Context, prefix string) (map[string][]byte, error)
}
