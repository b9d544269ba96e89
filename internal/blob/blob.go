// Package blob provides the key-value persistence layer the article
// store writes its collection through. Backends are interchangeable:
// BadgerDB for local disk (the default) and Redis for self-hosted
// setups that already run one.
package blob

import "context"

// Store reads and writes opaque blobs by key. Read reports absence via
// the ok flag so a first run (no blob yet) is not an error.
type Store interface {
	Read(ctx context.Context, key string) (data []byte, ok bool, err error)
	Write(ctx context.Context, key string, data []byte) error
	Close() error
}
