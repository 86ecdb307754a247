package api

import (
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"

	"shortly/internal/cache"
	"shortly/internal/meta"
	"shortly/internal/registry"
)

// Options configures the router. Cache may be nil (every resolve hits the
// store); RateLimitRequests <= 0 disables the shorten rate limit.
type Options struct {
	Logger            *zap.Logger
	Cache             *cache.RedirectCache
	Meta              *meta.Fetcher
	PublicDir         string
	RateLimitRequests int64
	RateLimitWindow   time.Duration
}

// NewRouter wires middleware, static assets, and all routes.
func NewRouter(reg *registry.Registry, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var resolver cache.Resolver = reg
	if opts.Cache != nil {
		resolver = opts.Cache
	}

	h := &Handler{
		registry: reg,
		resolver: resolver,
		cache:    opts.Cache,
		meta:     opts.Meta,
		log:      log,
	}

	r := gin.New()
	_ = r.SetTrustedProxies(nil)
	r.Use(RequestID(), RequestLogger(log), gin.Recovery())

	shortenHandlers := []gin.HandlerFunc{h.Shorten}
	if opts.RateLimitRequests > 0 {
		rate := limiter.Rate{Period: opts.RateLimitWindow, Limit: opts.RateLimitRequests}
		lim := limiter.New(memory.NewStore(), rate)
		shortenHandlers = append([]gin.HandlerFunc{limitergin.NewMiddleware(lim)}, shortenHandlers...)
	}

	r.POST("/api/shorten", shortenHandlers...)
	r.GET("/recent", h.Recent)
	r.PUT("/urls/:id", h.Update)
	r.DELETE("/urls/:id", h.Delete)
	r.GET("/site-info", h.SiteInfo)
	r.GET("/health", h.Health)

	if opts.PublicDir != "" {
		r.StaticFile("/", filepath.Join(opts.PublicDir, "index.html"))
		r.StaticFile("/script.js", filepath.Join(opts.PublicDir, "script.js"))
		r.StaticFile("/style.css", filepath.Join(opts.PublicDir, "style.css"))
	}

	// Catch-all short-code route; static siblings above take priority.
	r.GET("/:code", h.Redirect)

	return r
}
