package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rbrinkke/testing-ui/internal/testui/observability"
	"github.com/rbrinkke/testing-ui/internal/testui/pages"
)

// Config holds runtime options for the testing UI HTTP server.
type Config struct {
	Address  string
	Prefix   string
	Renderer pages.TemplateRenderer
	// Pages defaults to pages.Table() when nil.
	Pages  []pages.Page
	Logger *zap.Logger

	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

// New constructs the HTTP server with the middleware stack and page routes.
func New(cfg Config) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = observability.NoopLogger()
	}

	return &http.Server{
		Addr:              cfg.Address,
		Handler:           NewRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       orDefault(cfg.ReadTimeout, 10*time.Second),
		WriteTimeout:      orDefault(cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:       orDefault(cfg.IdleTimeout, 60*time.Second),
		ErrorLog:          zap.NewStdLog(logger.Named("http")),
	}
}

// NewRouter builds the chi router serving /healthz and the pages under the prefix.
func NewRouter(cfg Config) chi.Router {
	logger := cfg.Logger
	if logger == nil {
		logger = observability.NoopLogger()
	}
	table := cfg.Pages
	if table == nil {
		table = pages.Table()
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	// RealIP trusts X-Forwarded-For; deploy behind a proxy that overwrites it.
	router.Use(chimw.RealIP)
	router.Use(observability.InjectLogger(logger))
	router.Use(observability.RequestLogger())
	router.Use(observability.Recovery(logger))
	router.Use(chimw.RedirectSlashes)
	router.Use(chimw.GetHead)
	router.Use(chimw.Compress(5))
	router.Use(chimw.Timeout(orDefault(cfg.RequestTimeout, 30*time.Second)))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	prefix := normalizePrefix(cfg.Prefix)
	if prefix == "/" {
		pages.Mount(router, cfg.Renderer, table, logger)
	} else {
		router.Route(prefix, func(r chi.Router) {
			pages.Mount(r, cfg.Renderer, table, logger)
		})
	}

	logger.Info("testing ui routes mounted",
		zap.String("prefix", prefix),
		zap.Int("pages", len(table)),
	)
	return router
}

func normalizePrefix(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return "/test"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}
	return p
}

func orDefault(v, fallback time.Duration) time.Duration {
	if v <= 0 {
		return fallback
	}
	return v
}
