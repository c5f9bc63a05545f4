package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/clouddrive/internal/client/drive"
	"github.com/dmitrijs2005/clouddrive/internal/client/session"
	"github.com/dmitrijs2005/clouddrive/internal/client/storage"
	"github.com/dmitrijs2005/clouddrive/internal/common"
	"github.com/dmitrijs2005/clouddrive/internal/logging"
)

// ---- fakes ----

type fakeProvider struct {
	id        *session.Identity
	signInErr error
	subs      []func(*session.Identity)
}

func (p *fakeProvider) Current() *session.Identity { return p.id }

func (p *fakeProvider) OnChange(fn func(*session.Identity)) { p.subs = append(p.subs, fn) }
func (p *fakeProvider) SignIn(ctx context.Context, email string, password []byte) error {
	if p.signInErr != nil {
		return p.signInErr
	}
	p.id = &session.Identity{ID: "u1", Email: email}
	for _, fn := range p.subs {
		fn(p.id)
	}
	return nil
}
func (p *fakeProvider) SignOut(ctx context.Context) error {
	p.id = nil
	for _, fn := range p.subs {
		fn(nil)
	}
	return nil
}
func (p *fakeProvider) Close() error { return nil }

type fakeDrive struct {
	snap       drive.Snapshot
	refreshErr error
	uploadErr  error
	deleteErr  error

	copied   bool
	copyOK   bool
	copyErr  error
	deleted  []string
	uploaded []string
	resets   int
}

func (d *fakeDrive) Refresh(ctx context.Context, id *session.Identity) error { return d.refreshErr }
func (d *fakeDrive) Snapshot() drive.Snapshot                                { return d.snap }
func (d *fakeDrive) Upload(ctx context.Context, id *session.Identity, name string, body io.Reader) error {
	if d.uploadErr != nil {
		return d.uploadErr
	}
	d.uploaded = append(d.uploaded, name)
	return nil
}
func (d *fakeDrive) Delete(ctx context.Context, id *session.Identity, name string) error {
	if d.deleteErr != nil {
		return d.deleteErr
	}
	d.deleted = append(d.deleted, name)
	return nil
}
func (d *fakeDrive) ShareLink(name string) (string, bool) {
	url, ok := d.snap.Links[name]
	return url, ok
}
func (d *fakeDrive) CopyShareLink(name string) (bool, error) {
	if !d.copyOK {
		return false, nil
	}
	d.copied = true
	return true, d.copyErr
}
func (d *fakeDrive) Reset() { d.resets++ }

func newTestApp(provider session.Provider, d fileSession, input string) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return &App{
		provider: provider,
		drive:    d,
		logger:   logger,
		reader:   bufio.NewReader(strings.NewReader(input)),
		out:      out,
	}, out
}

func signedIn() *fakeProvider {
	return &fakeProvider{id: &session.Identity{ID: "u1", Email: "u1@example.com"}}
}

// ---- tests ----

func TestList_RendersListing(t *testing.T) {
	d := &fakeDrive{snap: drive.Snapshot{
		Status: drive.StatusReady,
		Files: []storage.FileMeta{
			{Name: "a.png", SizeBytes: 2048, LastModified: time.Now()},
			{Name: "b.pdf", SizeBytes: 10, LastModified: time.Now()},
		},
		Links: map[string]string{"a.png": "https://store.example/signed/u1/a.png"},
	}}
	app, out := newTestApp(signedIn(), d, "")

	require.NoError(t, app.List(context.Background()))

	s := out.String()
	assert.Contains(t, s, "a.png")
	assert.Contains(t, s, "b.pdf")
	assert.Contains(t, s, "image")
	assert.Contains(t, s, "pdf")
	assert.Contains(t, s, "2.0 KB")
}

func TestList_NotSignedIn(t *testing.T) {
	app, out := newTestApp(&fakeProvider{}, &fakeDrive{}, "")

	err := app.List(context.Background())
	require.ErrorIs(t, err, common.ErrNoSession)
	assert.Contains(t, out.String(), "Not signed in.")
}

func TestList_ListingError(t *testing.T) {
	wantErr := errors.New("network error")
	d := &fakeDrive{
		refreshErr: wantErr,
		snap:       drive.Snapshot{Status: drive.StatusFailed, Err: wantErr},
	}
	app, out := newTestApp(signedIn(), d, "")

	err := app.List(context.Background())
	require.ErrorIs(t, err, wantErr)
	assert.Contains(t, out.String(), "Error loading files: network error")
}

func TestList_Empty(t *testing.T) {
	d := &fakeDrive{snap: drive.Snapshot{Status: drive.StatusReady}}
	app, out := newTestApp(signedIn(), d, "")

	require.NoError(t, app.List(context.Background()))
	assert.Contains(t, out.String(), "No files uploaded yet.")
}

func TestUpload(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pic.png")
		require.NoError(t, os.WriteFile(path, []byte("bytes"), 0o600))

		d := &fakeDrive{}
		app, out := newTestApp(signedIn(), d, "")

		require.NoError(t, app.Upload(context.Background(), path))
		assert.Equal(t, []string{"pic.png"}, d.uploaded)
		assert.Contains(t, out.String(), "Uploading...")
		assert.Contains(t, out.String(), "File uploaded successfully!")
	})

	t.Run("backend failure", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pic.png")
		require.NoError(t, os.WriteFile(path, []byte("bytes"), 0o600))

		d := &fakeDrive{uploadErr: errors.New("quota exceeded")}
		app, out := newTestApp(signedIn(), d, "")

		require.Error(t, app.Upload(context.Background(), path))
		assert.Contains(t, out.String(), "Upload failed: quota exceeded")
	})

	t.Run("missing local file", func(t *testing.T) {
		d := &fakeDrive{}
		app, out := newTestApp(signedIn(), d, "")

		require.Error(t, app.Upload(context.Background(), "/no/such/file.png"))
		assert.Contains(t, out.String(), "Upload failed:")
		assert.Empty(t, d.uploaded)
	})
}

func TestDelete_Confirmation(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		d := &fakeDrive{}
		app, out := newTestApp(signedIn(), d, "y\n")

		require.NoError(t, app.Delete(context.Background(), "a.png"))
		assert.Equal(t, []string{"a.png"}, d.deleted)
		assert.Contains(t, out.String(), `Deleted "a.png".`)
	})

	t.Run("declined", func(t *testing.T) {
		d := &fakeDrive{}
		app, out := newTestApp(signedIn(), d, "n\n")

		require.NoError(t, app.Delete(context.Background(), "a.png"))
		assert.Empty(t, d.deleted)
		assert.Contains(t, out.String(), "Cancelled.")
	})

	t.Run("backend failure", func(t *testing.T) {
		d := &fakeDrive{deleteErr: errors.New("backend down")}
		app, out := newTestApp(signedIn(), d, "yes\n")

		require.Error(t, app.Delete(context.Background(), "a.png"))
		assert.Contains(t, out.String(), "Error deleting file:")
	})
}

func TestShare(t *testing.T) {
	t.Run("no cached link", func(t *testing.T) {
		app, out := newTestApp(signedIn(), &fakeDrive{}, "")

		require.NoError(t, app.Share(context.Background(), "missing.png"))
		assert.Contains(t, out.String(), "No share link available")
	})

	t.Run("copied", func(t *testing.T) {
		d := &fakeDrive{copyOK: true}
		app, out := newTestApp(signedIn(), d, "")

		require.NoError(t, app.Share(context.Background(), "a.png"))
		assert.True(t, d.copied)
		assert.Contains(t, out.String(), "Link copied to clipboard!")
	})

	t.Run("clipboard failure", func(t *testing.T) {
		d := &fakeDrive{copyOK: true, copyErr: errors.New("no clipboard")}
		app, out := newTestApp(signedIn(), d, "")

		require.Error(t, app.Share(context.Background(), "a.png"))
		assert.Contains(t, out.String(), "Failed to copy link.")
	})
}

func TestOpen(t *testing.T) {
	d := &fakeDrive{snap: drive.Snapshot{
		Links: map[string]string{"a.png": "https://store.example/signed/u1/a.png"},
	}}
	app, out := newTestApp(signedIn(), d, "")

	require.NoError(t, app.Open(context.Background(), "a.png"))
	assert.Contains(t, out.String(), "https://store.example/signed/u1/a.png")

	out.Reset()
	require.NoError(t, app.Open(context.Background(), "missing.png"))
	assert.Contains(t, out.String(), "No link available")
}

func TestLogin_PromptsAndSignsIn(t *testing.T) {
	origText, origPw := getSimpleText, getPassword
	t.Cleanup(func() { getSimpleText, getPassword = origText, origPw })

	getSimpleText = func(r *bufio.Reader, prompt string, w io.Writer) (string, error) {
		return "u1@example.com", nil
	}
	getPassword = func(w io.Writer) ([]byte, error) { return []byte("pw"), nil }

	p := &fakeProvider{}
	app, out := newTestApp(p, &fakeDrive{}, "")

	require.NoError(t, app.Login(context.Background()))
	require.NotNil(t, p.id)
	assert.Equal(t, "u1@example.com", p.id.Email)
	assert.Contains(t, out.String(), "Success!")
}

func TestLogout_NotifiesSessionChange(t *testing.T) {
	p := signedIn()
	d := &fakeDrive{}
	p.OnChange(func(*session.Identity) { d.Reset() })
	app, out := newTestApp(p, d, "")

	require.NoError(t, app.Logout(context.Background()))
	assert.Nil(t, p.Current())
	assert.Equal(t, 1, d.resets, "sign-out must tear down the view model")
	assert.Contains(t, out.String(), "Signed out.")
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatSize(tt.in))
	}
}
