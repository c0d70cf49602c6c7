package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/user/crawler-console/internal/delivery/http/handler"
	"github.com/user/crawler-console/internal/delivery/http/middleware"
	"github.com/user/crawler-console/pkg/metrics"
)

const requestTimeout = 60 * time.Second

func New(h *handler.Handler, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Trace)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics(m))
	r.Use(chimw.Recoverer)

	r.NotFound(h.NotFound)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))

		r.Get("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}).ServeHTTP)

		r.Route("/api", func(r chi.Router) {
			r.Get("/health", h.HandleHealthCheck)
			r.Get("/console/state", h.HandleConsoleState)
		})

		r.Get("/", h.HandleDashboard)
		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", h.HandleCreateTask)
			r.Post("/check-failed", h.HandleCheckFailed)
			r.Post("/force-refresh", h.HandleForceRefresh)
			r.Post("/{id}/start", h.HandleStartTask)
			r.Post("/{id}/stop", h.HandleStopTask)
			r.Post("/{id}/delete", h.HandleDeleteTask)
		})

		r.Post("/notices/{id}/dismiss", h.HandleDismissNotice)
	})

	r.Route("/data", func(r chi.Router) {
		// Exports run under the backend client's export deadline instead.
		r.Get("/export/current", h.HandleExportCurrent)
		r.Get("/export/all", h.HandleExportAll)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(requestTimeout))
			r.Get("/", h.HandleData)
			r.Get("/page/{page}", h.HandleDataPage)
			r.Get("/query", h.HandleDataQuery)
			r.Get("/search", h.HandleDataSearch)
			r.Post("/refresh", h.HandleDataRefresh)
		})
	})

	return r
}
