// Package kernel assembles the HTTP handler: the global middleware stack,
// the health and metrics endpoints, then the application routes.
package kernel

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/pantry/config"
	"github.com/shashiranjanraj/pantry/pkg/metrics"
	"github.com/shashiranjanraj/pantry/pkg/middleware"
	"github.com/shashiranjanraj/pantry/pkg/reqid"
	"github.com/shashiranjanraj/pantry/pkg/response"
	"github.com/shashiranjanraj/pantry/pkg/router"
)

// Options tunes the stack. The zero value disables rate limiting and
// allows every origin.
type Options struct {
	AllowedOrigins []string
	RateLimit      int // requests per minute and client; 0 disables
}

// OptionsFromConfig reads Options from config.
func OptionsFromConfig() Options {
	return Options{
		AllowedOrigins: config.CORSAllowedOrigins(),
		RateLimit:      config.RateLimitPerMinute(),
	}
}

// New builds the router and calls every route-registration callback.
func New(opts Options, routes ...func(*router.Router)) *router.Router {
	r := router.New()

	// Outermost first. Metrics wrap everything so latency is total; the
	// request id must exist before the logger runs.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(opts.AllowedOrigins...)))
	if opts.RateLimit > 0 {
		r.Use(middleware.NewLimiter(opts.RateLimit, time.Minute).Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/up", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", "metrics", metrics.Handler())

	for _, fn := range routes {
		fn(r)
	}
	return r
}
