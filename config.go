package microlog

import "time"

// SiteConfig holds all configuration for a microlog instance.
type SiteConfig struct {
	Name        string // Site name fallback when none is stored (default "Microblog")
	URL         string // Canonical URL, used by the feed (default "http://localhost:3000")
	Description string // Site description for the feed

	Addr         string // Listen address (default ":3000")
	LedgerPath   string // Posted-record file (default "data/posted.txt")
	QueuePath    string // Pending-queue file (default "data/topost.txt")
	ImagesDir    string // Stored images directory (default "data/images")
	DatabasePath string // Settings SQLite path (default "data/microlog.db")

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	PageSize       int           // Archive page size (default 20)
	CacheTTL       time.Duration // Ledger scan cache TTL (default 5min)
	PollInterval   time.Duration // Auto-poster poll interval (default 1min)
	MinPostGap     time.Duration // Minimum gap between auto-posts (default 1h)
	PublishTimeout time.Duration // Bound on a whole publish attempt (default 2min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Microblog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.LedgerPath == "" {
		c.LedgerPath = "data/posted.txt"
	}
	if c.QueuePath == "" {
		c.QueuePath = "data/topost.txt"
	}
	if c.ImagesDir == "" {
		c.ImagesDir = "data/images"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/microlog.db"
	}
	if c.PageSize == 0 {
		c.PageSize = 20
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.PollInterval == 0 {
		c.PollInterval = time.Minute
	}
	if c.MinPostGap == 0 {
		c.MinPostGap = time.Hour
	}
	if c.PublishTimeout == 0 {
		c.PublishTimeout = 2 * time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithPublisher sets the social publisher used for post-now actions and
// queue drains. Without it, posts are archived locally and the publish
// step is a logged no-op.
func WithPublisher(p Publisher) Option {
	return func(a *App) {
		a.publisher = p
	}
}

// WithCustomRoutes registers additional routes on the Echo instance
// before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
