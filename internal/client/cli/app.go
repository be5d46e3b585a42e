package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/secdesk/internal/client/api"
	"github.com/dmitrijs2005/secdesk/internal/client/apierr"
	"github.com/dmitrijs2005/secdesk/internal/client/client"
	"github.com/dmitrijs2005/secdesk/internal/client/config"
	"github.com/dmitrijs2005/secdesk/internal/client/services"
	"github.com/dmitrijs2005/secdesk/internal/client/session"
	"github.com/dmitrijs2005/secdesk/internal/client/table"
	"github.com/dmitrijs2005/secdesk/internal/filex"
	"github.com/dmitrijs2005/secdesk/internal/logging"
)

const (
	dbFile      = "secdesk.db"
	presetsFile = "tables.yaml"
)

var (
	errBadID      = errors.New("invalid id")
	errBadChoice  = errors.New("invalid choice")
	errNoTable    = errors.New("no table is open, use: open <table>")
	errNotAllowed = errors.New("not available for this table")
)

// App is the console: local storage, the API client, the services and
// the table currently on screen.
type App struct {
	config    *config.Config
	repos     *client.Repositories
	store     *session.Store
	auth      services.AuthService
	letters   services.LetterService
	workflow  services.WorkflowService
	resources services.ResourceService
	sources   func(path string) table.PageSource
	presets   table.Presets
	renderer  *table.Renderer
	logger    logging.Logger
	reader    *bufio.Reader
	out       io.Writer

	mu       sync.Mutex
	due      bool
	redirect *time.Timer
	view     *view
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewText(os.Stderr, c.LogLevel)

	dir, err := filex.EnsureSubDir("", c.DataDir)
	if err != nil {
		return nil, err
	}

	repos, err := client.InitDatabase(ctx, filepath.Join(dir, dbFile))
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	store := session.NewStore(repos.Metadata)
	if err := store.Load(ctx); err != nil {
		logger.Warn(ctx, "stored session unreadable", "error", err)
	}

	presets, err := table.LoadPresets(filepath.Join(dir, presetsFile))
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	a := &App{
		config:   c,
		repos:    repos,
		store:    store,
		presets:  presets,
		renderer: table.NewRenderer(),
		logger:   logger,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}

	apiClient, err := api.New(c.APIBaseURL,
		api.WithTimeout(c.RequestTimeout),
		api.WithTokenSource(store),
		api.WithSessionEnd(a.onSessionEnd),
		api.WithLogger(logger),
	)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	a.auth = services.NewAuthService(apiClient, store, logger)
	a.letters = services.NewLetterService(apiClient, store, logger)
	a.workflow = services.NewWorkflowService(apiClient, logger)
	a.resources = services.NewResourceService(apiClient, logger)
	a.sources = func(path string) table.PageSource { return apiClient.Source(path) }

	return a, nil
}

// Run signs in when needed and blocks in the REPL until exit or EOF.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	printlnFn("secdesk console (اكتب help لعرض الأوامر)")
	if !a.auth.CheckAuthStatus(ctx) {
		if err := a.Login(ctx); err != nil {
			report(err)
		}
	}

	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
}

func (a *App) close() {
	a.mu.Lock()
	if a.redirect != nil {
		a.redirect.Stop()
	}
	a.mu.Unlock()
	if a.repos != nil {
		_ = a.repos.Close()
	}
}

// onSessionEnd runs once per session on the first 401/403: it shows the
// reason, drops the session and, after the configured delay, asks for a
// new login before the next command.
func (a *App) onSessionEnd(e *apierr.Error) {
	printlnFn(apierr.Message(e))

	if err := a.store.Clear(context.Background()); err != nil {
		a.logger.Error(context.Background(), "clear session", "error", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.view = nil
	if a.redirect != nil {
		a.redirect.Stop()
	}
	a.redirect = time.AfterFunc(a.config.LoginRedirectDelay, func() {
		a.mu.Lock()
		a.due = true
		a.mu.Unlock()
	})
}

// loginDue reports, once, that the session ended and the redirect delay
// passed.
func (a *App) loginDue() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	due := a.due
	a.due = false
	return due
}

func (a *App) isLoggedIn() bool { return a.store.IsAuthenticated() }

func (a *App) status() string {
	s := ""
	if u := a.store.User(); u != nil {
		s = u.Username
	}
	if v := a.currentView(); v != nil {
		if s != "" {
			s += " "
		}
		s += v.name
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) currentView() *view {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

func (a *App) setView(v *view) {
	a.mu.Lock()
	a.view = v
	a.mu.Unlock()
}

// report prints a command failure the way the operator should read it.
func report(err error) {
	if err == nil {
		return
	}
	var se *services.SubmitError
	var le *loginError
	switch {
	case errors.As(err, &se):
		printlnFn(se.Message)
	case errors.As(err, &le):
		printlnFn(le.Error())
	case apierr.KindOf(err) != apierr.KindUnknown:
		printlnFn(apierr.Message(err))
	default:
		printlnFn("خطأ:", err.Error())
	}
}
