// Package microlog is a personal microblogging engine built with Go and
// Echo. Posts live in an append-only pipe-delimited ledger file, queued
// content drains to configured social targets at most once an hour via
// a background auto-poster, and the web layer exposes the archive,
// queue management, a digest export, and an RSS feed.
package microlog

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
)

// App wires together the ledger, queue, settings store, composer,
// publisher, auto-poster, and the Echo web layer.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Ledger *Ledger
	Queue  *Queue
	Store  *Settings
	Cache  *recordCache
	Poster *AutoPoster

	composer     *Composer
	publisher    Publisher
	loginLimiter *LoginLimiter
	customRoutes []func(*App)

	cancelPoster context.CancelFunc
}

// New creates a microlog App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		publisher: logPublisher{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start initializes storage and the auto-poster, sets up routes, and
// runs the server until it stops.
func (a *App) Start() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("microlog: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("microlog: SessionSecret is required")
	}

	for _, p := range []string{a.Config.LedgerPath, a.Config.QueuePath} {
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("microlog: create data dir: %w", err)
			}
		}
	}
	if err := os.MkdirAll(a.Config.ImagesDir, 0o755); err != nil {
		return fmt.Errorf("microlog: create images dir: %w", err)
	}

	store, err := OpenSettings(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("microlog: init settings: %w", err)
	}
	a.Store = store

	a.Ledger = NewLedger(a.Config.LedgerPath)
	a.Queue = NewQueue(a.Config.QueuePath)
	a.Cache = newRecordCache(a.Ledger, a.Config.CacheTTL)
	a.composer = NewComposer(NewMetadataFetcher(), a.Config.ImagesDir)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	a.Poster = NewAutoPoster(a.Queue, a.Ledger, a.composer, a.publisher, a.Cache,
		a.Config.PollInterval, a.Config.MinPostGap, a.Config.PublishTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancelPoster = cancel
	go a.Poster.Run(ctx)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Public surface.
	e.GET("/", a.handleArchive)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/robots.txt", a.handleRobots)
	e.Static("/images", a.Config.ImagesDir)

	// Admin session.
	e.POST("/admin/login", a.handleAdminLogin)
	e.POST("/admin/logout", handleAdminLogout)

	// Authenticated API.
	api := e.Group("/api", requireAdmin)
	api.POST("/posts", a.handleCreatePost)
	api.GET("/queue", a.handleQueue)
	api.DELETE("/queue/:index", a.handleQueueDelete)
	api.GET("/digest", a.handleDigest)
	api.GET("/settings", a.handleSettings)
	api.PUT("/settings", a.handleSettingsSave)
}

// Close stops the auto-poster and releases storage.
func (a *App) Close() error {
	if a.cancelPoster != nil {
		a.cancelPoster()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
