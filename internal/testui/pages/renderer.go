package pages

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/flosch/pongo2/v6"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/rbrinkke/testing-ui/internal/testui/pages"

// TemplateRenderer renders a named template with the given context.
type TemplateRenderer interface {
	Render(ctx context.Context, name string, data pongo2.Context) ([]byte, error)
}

// RendererConfig configures the template renderer.
type RendererConfig struct {
	// Dir is the templates directory. Template names resolve relative to it.
	Dir string
	// Reload reparses templates on every render instead of caching them.
	Reload bool
}

// Renderer renders pongo2 templates from a local directory.
type Renderer struct {
	set    *pongo2.TemplateSet
	dir    string
	tracer trace.Tracer
}

// NewRenderer builds a renderer over cfg.Dir, which must exist.
func NewRenderer(cfg RendererConfig) (*Renderer, error) {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return nil, errors.New("pages: templates directory is required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("pages: templates directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("pages: templates path %s is not a directory", dir)
	}

	loader, err := pongo2.NewLocalFileSystemLoader(dir)
	if err != nil {
		return nil, fmt.Errorf("pages: templates loader: %w", err)
	}
	set := pongo2.NewSet("testing-ui", loader)
	set.Debug = cfg.Reload

	return &Renderer{
		set:    set,
		dir:    dir,
		tracer: otel.Tracer(tracerName),
	}, nil
}

// Dir returns the templates directory.
func (r *Renderer) Dir() string { return r.dir }

// Preload compiles every page template so a missing or broken file is
// reported before the server starts. Compiled templates stay cached unless
// reload is enabled.
func (r *Renderer) Preload(pages []Page) error {
	var errs []error
	for _, p := range pages {
		if _, err := r.set.FromCache(p.Template); err != nil {
			errs = append(errs, fmt.Errorf("template %s: %w", p.Template, err))
		}
	}
	return errors.Join(errs...)
}

// Render executes the named template into a buffer.
func (r *Renderer) Render(ctx context.Context, name string, data pongo2.Context) ([]byte, error) {
	_, span := r.tracer.Start(ctx, "pages.render", trace.WithAttributes(attribute.String("template.name", name)))
	defer span.End()

	tpl, err := r.set.FromCache(name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load template")
		return nil, fmt.Errorf("load template %s: %w", name, err)
	}
	out, err := tpl.ExecuteBytes(data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "execute template")
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return out, nil
}
