package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/clouddrive/internal/client/config"
	"github.com/dmitrijs2005/clouddrive/internal/client/drive"
	"github.com/dmitrijs2005/clouddrive/internal/client/session"
	"github.com/dmitrijs2005/clouddrive/internal/client/storage"
	"github.com/dmitrijs2005/clouddrive/internal/logging"
)

// fileSession is the view-model surface the CLI drives. *drive.Session
// satisfies it; tests can provide a lightweight stub.
type fileSession interface {
	Refresh(ctx context.Context, id *session.Identity) error
	Snapshot() drive.Snapshot
	Upload(ctx context.Context, id *session.Identity, name string, body io.Reader) error
	Delete(ctx context.Context, id *session.Identity, name string) error
	ShareLink(name string) (string, bool)
	CopyShareLink(name string) (bool, error)
	Reset()
}

type App struct {
	config   *config.Config
	provider session.Provider
	drive    fileSession
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(cfg *config.Config, logger logging.Logger) (*App, error) {

	ctx := context.Background()

	provider := session.NewHTTPProvider(cfg, logger)

	backend, err := storage.NewS3Backend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	vm := drive.NewSession(backend, systemClipboard{}, logger, cfg.LinkTTL, cfg.LinkWorkers)

	// Any session change invalidates the view model wholesale: files and
	// links granted to one identity must never survive into another.
	provider.OnChange(func(*session.Identity) { vm.Reset() })

	return &App{
		config:   cfg,
		provider: provider,
		drive:    vm,
		logger:   logger,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.provider.Close()
	runREPL(ctx, a, a.statusLine, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.provider.Current() != nil
}

func (a *App) statusLine() string {
	if id := a.provider.Current(); id != nil {
		return id.Email
	}
	return "signed out"
}
