package app

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/Truella/Framez/internal/client"
	"github.com/Truella/Framez/internal/feed"
	"github.com/Truella/Framez/internal/notify"
	"github.com/Truella/Framez/internal/prefs"
	"github.com/Truella/Framez/internal/session"
)

type Config struct {
	ServerURL string
	DataDir   string
	Timeout   time.Duration
	Notifier  feed.Notifier
}

// App owns the client-side stores for one device.
type App struct {
	Client   *client.Client
	Prefs    *prefs.Store
	Theme    *prefs.ThemeStore
	Session  *session.Store
	Feed     *feed.Store
	Notifier feed.Notifier

	mu     sync.Mutex
	ctx    context.Context
	viewer string
	unsub  func()
}

func New(cfg Config) (*App, error) {
	n := cfg.Notifier
	if n == nil {
		n = notify.NewLogger(nil)
	}
	var opts []client.Option
	if cfg.Timeout > 0 {
		opts = append(opts, client.WithTimeout(cfg.Timeout))
	}
	cl := client.New(cfg.ServerURL, opts...)

	ps, err := prefs.Open(filepath.Join(cfg.DataDir, "prefs.db"))
	if err != nil {
		return nil, fmt.Errorf("open prefs: %w", err)
	}
	return &App{
		Client:   cl,
		Prefs:    ps,
		Theme:    prefs.NewThemeStore(ps),
		Session:  session.New(cl, ps, n),
		Feed:     feed.NewStore(cl, feed.WithNotifier(n)),
		Notifier: n,
		ctx:      context.Background(),
	}, nil
}

// Start loads the theme, resumes any persisted session and keeps the feed
// in step with the signed-in viewer from then on.
func (a *App) Start(ctx context.Context) error {
	if _, err := a.Theme.Load(ctx); err != nil {
		log.Printf("[app] load theme: %v", err)
	}
	a.mu.Lock()
	a.ctx = context.WithoutCancel(ctx)
	a.mu.Unlock()
	a.unsub = a.Session.Subscribe(a.onSessionChange)
	return a.Session.Restore(ctx)
}

func (a *App) onSessionChange(u *feed.User) {
	id := ""
	if u != nil {
		id = u.ID
	}
	a.mu.Lock()
	changed := id != a.viewer
	a.viewer = id
	ctx := a.ctx
	a.mu.Unlock()
	if !changed {
		return
	}
	a.Feed.Reset()
	if id == "" {
		return
	}
	if err := a.Feed.LoadAll(ctx, id, true); err != nil {
		log.Printf("[app] initial feed load: %v", err)
	}
}

// Viewer returns the signed-in user id or "".
func (a *App) Viewer() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.viewer
}

func (a *App) Stop() error {
	if a.unsub != nil {
		a.unsub()
		a.unsub = nil
	}
	return a.Prefs.Close()
}
