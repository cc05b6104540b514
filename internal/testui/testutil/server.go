package testutil

import (
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"testing"

	"go.uber.org/zap"

	"github.com/rbrinkke/testing-ui/internal/testui/httpserver"
	"github.com/rbrinkke/testing-ui/internal/testui/pages"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithPrefix mounts the pages under a custom prefix.
func WithPrefix(prefix string) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Prefix = prefix
	}
}

// WithRenderer overrides the template renderer.
func WithRenderer(r pages.TemplateRenderer) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Renderer = r
	}
}

// WithLogger sets the logger injected into requests.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Logger = logger
	}
}

// TemplatesDir returns the repository templates directory.
func TemplatesDir(t testing.TB) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("resolve testutil location")
	}
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "templates")
}

// NewRenderer returns a caching renderer over the repository templates.
func NewRenderer(t testing.TB) *pages.Renderer {
	t.Helper()

	r, err := pages.NewRenderer(pages.RendererConfig{Dir: TemplatesDir(t)})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

// NewServer constructs an httptest server running the testing UI stack with the
// shipped templates.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	cfg := httpserver.Config{
		Address: ":0",
		Prefix:  "/test",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Renderer == nil {
		cfg.Renderer = NewRenderer(t)
	}

	srv := httpserver.New(cfg)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}
