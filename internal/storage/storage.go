// Package storage persists the four store documents. Each store serializes
// its full state as one named JSON document; a Backend stores documents by
// name and the Persister flushes dirty documents in the background so store
// mutations never wait on durable writes.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Backend.Load when no document with the given
// name has been saved yet. Stores treat it as "start from defaults".
var ErrNotFound = errors.New("storage: document not found")

type Backend interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
}

// Document is implemented by each store; Snapshot must be safe to call
// concurrently with mutations.
type Document interface {
	Snapshot() ([]byte, error)
}

// Saver is what stores see of the Persister. A nil Saver is allowed and
// makes persistence a no-op (useful in tests).
type Saver interface {
	MarkDirty(name string)
}
