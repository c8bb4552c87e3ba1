package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/harun/rcrm/pkg/orchestrator"
	"github.com/harun/rcrm/pkg/toolregistry"
	"github.com/rs/zerolog"
)

// Catalog is the read side of the tool catalog the server exposes
type Catalog interface {
	List() []toolregistry.ToolMetadata
	ToolsByCategory(category toolregistry.Category) []toolregistry.ToolMetadata
	FindRelevantScored(query string, limit int) []toolregistry.ScoredTool
}

// Planner produces plans and suggestions for free-text requests
type Planner interface {
	CreateExecutionPlan(query, primaryTool string) ([]orchestrator.ExecutionStep, error)
	GetToolSuggestions(query string) (*orchestrator.Suggestions, error)
	AnalyzeQueryIntent(query string) orchestrator.QueryAnalysis
}

// Options configures the HTTP server
type Options struct {
	Host               string
	Port               int
	DefaultLimit       int           // relevance results when a request gives no limit
	RateLimitPerMinute int           // per client, 0 disables limiting
	ShutdownTimeout    time.Duration // grace period for in-flight requests
	MetricsPath        string
	Metrics            http.Handler // mounted at MetricsPath when set
}

// Server serves the catalog and orchestrator over JSON HTTP
type Server struct {
	options     Options
	catalog     Catalog
	planner     Planner
	rateLimiter *RateLimiter
	logger      zerolog.Logger
	startTime   time.Time
	handler     http.Handler

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// NewServer creates a new server
func NewServer(options Options, catalog Catalog, planner Planner, logger zerolog.Logger) (*Server, error) {
	if catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if planner == nil {
		return nil, errors.New("planner is required")
	}

	if options.Port == 0 {
		options.Port = 8088
	}
	if options.Host == "" {
		options.Host = "127.0.0.1"
	}
	if options.DefaultLimit <= 0 {
		options.DefaultLimit = toolregistry.DefaultLimit
	}
	if options.ShutdownTimeout == 0 {
		options.ShutdownTimeout = 10 * time.Second
	}
	if options.MetricsPath == "" {
		options.MetricsPath = "/metrics"
	}

	s := &Server{
		options:   options,
		catalog:   catalog,
		planner:   planner,
		logger:    logger.With().Str("component", "server").Logger(),
		startTime: time.Now(),
	}
	if options.RateLimitPerMinute > 0 {
		s.rateLimiter = NewRateLimiter(options.RateLimitPerMinute)
	}
	s.handler = s.routes()

	return s, nil
}

// Handler returns the full middleware-wrapped handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/tools", s.handleTools)
	mux.HandleFunc("POST /v1/relevant", s.handleRelevant)
	mux.HandleFunc("POST /v1/suggest", s.handleSuggest)
	mux.HandleFunc("POST /v1/plan", s.handlePlan)
	mux.HandleFunc("POST /v1/intent", s.handleIntent)

	if s.options.Metrics != nil {
		mux.Handle("GET "+s.options.MetricsPath, s.options.Metrics)
	}

	var h http.Handler = mux
	h = s.rateLimit(h)
	h = s.accessLog(h)
	h = s.traceRequest(h)
	h = s.requestID(h)
	h = s.recoverer(h)
	return h
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return net.JoinHostPort(s.options.Host, fmt.Sprint(s.options.Port))
}

// Start listens and serves until Stop is called
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", s.Addr())
	}
	return s.Serve(ln)
}

// Serve serves on ln until Stop is called
func (s *Server) Serve(ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.server = srv
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info().
		Str("addr", ln.Addr().String()).
		Msg("Starting HTTP server")

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "http server failed")
	}
	return nil
}

// Stop gracefully shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if srv == nil {
		return nil
	}

	s.logger.Info().Msg("Shutting down HTTP server")

	ctx, cancel := context.WithTimeout(ctx, s.options.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "failed to shutdown http server")
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}
