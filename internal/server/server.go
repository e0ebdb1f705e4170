package server

import (
	"errors"
	"net/http"

	"github.com/statichaus/staticd/internal/assets"
	"github.com/statichaus/staticd/internal/log"
)

// Config contains configuration for creating the server.
type Config struct {
	Logger   log.Logger       // defaults to slog.Default()
	Resolver *assets.Resolver // required

	CacheMaxAge int // Cache-Control max-age in seconds; 0 disables the header

	// Rate limiting (RateRPS 0 disables the limiter)
	RateRPS    float64
	RateBurst  int
	TrustProxy bool // trust X-Real-IP/X-Forwarded-For headers (behind reverse proxy)

	// Ready reports whether the asset root is available. Optional: when
	// nil, readiness stats the root directory on every probe.
	Ready func() bool
}

// Server is the static asset HTTP server.
type Server struct {
	mux *http.ServeMux
}

// New creates a server with all routes configured.
func New(cfg Config) (*Server, error) {
	if cfg.Resolver == nil {
		return nil, errors.New("asset resolver is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.Config{})
	}

	ah := &assetHandler{
		resolver:     cfg.Resolver,
		logger:       logger,
		cacheControl: cacheControlValue(cfg.CacheMaxAge),
	}

	// Build middleware stack (outermost first):
	//   Recovery → RequestID → Logging → SecurityHeaders → RateLimit → Assets
	// RequestID must be before Logging so request_id is available in log
	// attributes.
	var handler http.Handler = ah
	if cfg.RateRPS > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 60
		}
		rl := newRateLimiter(cfg.RateRPS, burst)
		handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	}
	handler = securityHeadersMiddleware()(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Top-level mux separates health probes from the middleware stack.
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", liveness)
	mux.Handle("GET /readyz", readiness(cfg.Ready, cfg.Resolver.Root(), logger))
	mux.Handle("/", handler)

	return &Server{mux: mux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
