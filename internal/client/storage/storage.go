// Package storage wraps the external object store behind the four operations
// the cloud drive client needs: listing a user's prefix, generating temporary
// read links, uploading, and removing objects. Object keys follow the
// convention "{userId}/{filename}".
package storage

import (
	"context"
	"io"
	"time"
)

// FileMeta describes one stored object belonging to a user. Name is unique
// within the user's namespace and acts as the primary key for the client's
// view of the listing.
type FileMeta struct {
	Name         string
	SizeBytes    int64
	LastModified time.Time
}

// Backend is the contract with the remote object store.
//
// Contract:
//   - List: enumerate objects under prefix, at most the configured limit,
//     names in ascending order.
//   - CreateTemporaryLink: issue a time-limited anonymous read URL for key.
//     The TTL clock starts at grant time and is enforced server-side.
//   - Upload: write the object at key, replacing any existing object.
//   - Remove: delete the given keys.
//
// All methods must honor context cancellation.
type Backend interface {
	List(ctx context.Context, prefix string) ([]FileMeta, error)
	CreateTemporaryLink(ctx context.Context, key string, ttl time.Duration) (string, error)
	Upload(ctx context.Context, key string, body io.Reader) error
	Remove(ctx context.Context, keys ...string) error
}
