package pages

import (
	"net/http"

	"github.com/flosch/pongo2/v6"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rbrinkke/testing-ui/internal/testui/observability"
)

// Handler renders page with only its title and the incoming request in context.
func Handler(renderer TemplateRenderer, page Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := renderer.Render(r.Context(), page.Template, pongo2.Context{
			"request": r,
			"title":   page.Title,
		})
		if err != nil {
			observability.FromContext(r.Context()).Error("render page",
				zap.String("template", page.Template),
				zap.Error(err),
			)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

// Mount registers a GET route for every page on router.
func Mount(router chi.Router, renderer TemplateRenderer, pages []Page, logger *zap.Logger) {
	if logger == nil {
		logger = observability.NoopLogger()
	}
	for _, p := range pages {
		router.Get(p.Route, Handler(renderer, p))
		logger.Debug("page mounted",
			zap.String("route", p.Route),
			zap.String("template", p.Template),
			zap.String("summary", p.Summary),
			zap.String("tag", Tag),
		)
	}
}
