// Package drive holds the file-session view model: the in-memory projection
// of one user's file listing plus the temporary share links annotating it.
// All mutating operations against the remote store flow through this package,
// which reconciles local state after each of them.
package drive

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/clouddrive/internal/client/session"
	"github.com/dmitrijs2005/clouddrive/internal/client/storage"
	"github.com/dmitrijs2005/clouddrive/internal/common"
	"github.com/dmitrijs2005/clouddrive/internal/logging"
)

// Status is the listing's top-level state. Upload and delete are independent
// sub-operations with their own transient outcomes and never transition it.
type Status int

const (
	StatusUninitialized Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// Snapshot is a render-ready copy of the view model's state. Links maps a
// file name to its temporary URL; a missing entry means no link is available
// for that file. Err is set only when Status is StatusFailed.
type Snapshot struct {
	Files  []storage.FileMeta
	Links  map[string]string
	Status Status
	Err    error
}

// Clipboard abstracts the system clipboard so the view model can be tested
// without one.
type Clipboard interface {
	WriteText(text string) error
}

// Session is the file-session view model for the current identity.
//
// Lifetime: a Session's state is scoped to one signed-in identity. Reset
// must be called on every session change so files and links granted to one
// identity are never observable under another.
type Session struct {
	backend storage.Backend
	clip    Clipboard
	logger  logging.Logger
	linkTTL time.Duration
	workers int

	mu     sync.Mutex
	seq    uint64 // bumped by every Refresh and Reset; stale completions are discarded
	files  []storage.FileMeta
	links  map[string]string
	status Status
	err    error
}

// NewSession constructs a view model over backend. linkTTL is the validity
// window requested for each temporary link; workers bounds the concurrent
// link-generation requests issued per refresh.
func NewSession(backend storage.Backend, clip Clipboard, logger logging.Logger, linkTTL time.Duration, workers int) *Session {
	if linkTTL <= 0 {
		linkTTL = 3600 * time.Second
	}
	if workers <= 0 {
		workers = 8
	}
	return &Session{
		backend: backend,
		clip:    clip,
		logger:  logger.With("component", "drive"),
		linkTTL: linkTTL,
		workers: workers,
	}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	files := make([]storage.FileMeta, len(s.files))
	copy(files, s.files)

	links := make(map[string]string, len(s.links))
	for k, v := range s.links {
		links[k] = v
	}

	return Snapshot{Files: files, Links: links, Status: s.status, Err: s.err}
}

// Refresh fetches the full listing for id and replaces files wholesale, then
// requests one temporary link per file through a bounded concurrent batch.
// A link request that fails leaves that file without a link and never aborts
// the batch; Refresh as a whole fails only when the listing call fails, in
// which case the state moves to StatusFailed with files and links cleared.
//
// A refresh whose result arrives after a newer Refresh or Reset has started
// is discarded, so a slow response cannot overwrite newer state.
func (s *Session) Refresh(ctx context.Context, id *session.Identity) error {
	if id == nil {
		return common.ErrNoSession
	}

	s.mu.Lock()
	s.seq++
	my := s.seq
	s.status = StatusLoading
	s.err = nil
	s.mu.Unlock()

	prefix := id.ID + "/"
	metas, err := s.backend.List(ctx, prefix)
	if err != nil {
		s.mu.Lock()
		if s.seq == my {
			s.files = nil
			s.links = nil
			s.status = StatusFailed
			s.err = err
		}
		s.mu.Unlock()
		return fmt.Errorf("refresh: %w", err)
	}

	sort.Slice(metas, func(i, j int) bool { return metas[i].Name < metas[j].Name })

	links := s.generateLinks(ctx, prefix, metas)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq != my {
		s.logger.Warn(ctx, "discarding stale refresh result", "user", id.ID)
		return nil
	}
	s.files = metas
	s.links = links
	s.status = StatusReady
	s.err = nil
	return nil
}

// generateLinks issues one temporary-link request per file, at most
// s.workers at a time, and waits for the whole batch to settle before
// returning. Individual failures are logged and recorded as absent links.
func (s *Session) generateLinks(ctx context.Context, prefix string, metas []storage.FileMeta) map[string]string {
	links := make(map[string]string, len(metas))

	var mu sync.Mutex
	g := &errgroup.Group{}
	g.SetLimit(s.workers)

	for _, meta := range metas {
		name := meta.Name
		g.Go(func() error {
			url, err := s.backend.CreateTemporaryLink(ctx, prefix+name, s.linkTTL)
			if err != nil {
				s.logger.Warn(ctx, "temporary link unavailable", "file", name, "error", err)
				return nil
			}
			mu.Lock()
			links[name] = url
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors, the barrier is what matters

	return links
}

// Upload writes the file at "{id}/{name}", replacing any stored object with
// the same name. The local listing is deliberately not reconciled: the new
// file becomes visible on the next explicit Refresh.
func (s *Session) Upload(ctx context.Context, id *session.Identity, name string, body io.Reader) error {
	if id == nil {
		return common.ErrNoSession
	}
	if err := s.backend.Upload(ctx, id.ID+"/"+name, body); err != nil {
		return fmt.Errorf("upload %q: %w", name, err)
	}
	return nil
}

// Delete removes the object from the backend and, on success, drops the
// matching entry from both the listing and the link cache in one update.
// On failure both are left untouched.
func (s *Session) Delete(ctx context.Context, id *session.Identity, name string) error {
	if id == nil {
		return common.ErrNoSession
	}
	if err := s.backend.Remove(ctx, id.ID+"/"+name); err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.files {
		if f.Name == name {
			s.files = append(s.files[:i], s.files[i+1:]...)
			break
		}
	}
	delete(s.links, name)
	return nil
}

// ShareLink returns the cached temporary link for name, if one exists.
func (s *Session) ShareLink(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	url, ok := s.links[name]
	return url, ok
}

// CopyShareLink copies the cached link for name to the clipboard. When no
// link is cached this is a no-op: the clipboard is not touched and the
// returned bool is false. The error reports a clipboard failure only.
func (s *Session) CopyShareLink(name string) (bool, error) {
	url, ok := s.ShareLink(name)
	if !ok {
		return false, nil
	}
	if err := s.clip.WriteText(url); err != nil {
		return true, fmt.Errorf("copy link: %w", err)
	}
	return true, nil
}

// Reset discards all files, links, and status. It must be called whenever
// the session identity changes (including sign-out); any refresh still in
// flight at that point is invalidated.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.files = nil
	s.links = nil
	s.status = StatusUninitialized
	s.err = nil
}
