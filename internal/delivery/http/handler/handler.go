package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/user/crawler-console/internal/delivery/http/request"
	"github.com/user/crawler-console/internal/delivery/http/response"
	"github.com/user/crawler-console/internal/repository"
	"github.com/user/crawler-console/internal/usecase"
	"github.com/user/crawler-console/internal/view"
)

const healthCheckTimeout = 2 * time.Second

type Handler struct {
	lifecycle *usecase.TaskLifecycle
	browser   *usecase.DataBrowser
	exporter  *usecase.Exporter
	dashboard *usecase.Dashboard
	notifier  *usecase.Notifier
	tasks     repository.TaskRepository
	renderer  *view.Renderer
	logger    *zap.Logger
}

func NewHandler(
	lifecycle *usecase.TaskLifecycle,
	browser *usecase.DataBrowser,
	exporter *usecase.Exporter,
	dashboard *usecase.Dashboard,
	notifier *usecase.Notifier,
	tasks repository.TaskRepository,
	renderer *view.Renderer,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		lifecycle: lifecycle,
		browser:   browser,
		exporter:  exporter,
		dashboard: dashboard,
		notifier:  notifier,
		tasks:     tasks,
		renderer:  renderer,
		logger:    logger,
	}
}

// --- Tasks ---

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	v := view.Dashboard(h.dashboard.Snapshot(), h.notifier.Active())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Dashboard(w, v); err != nil {
		h.logger.Error("failed to render dashboard", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	in, err := request.CreateTask(r)
	if err != nil {
		h.notifier.Failure("Invalid form submission")
		h.redirect(w, r, "/")
		return
	}
	// The usecase reports the outcome through a notice either way.
	if _, err := h.lifecycle.Create(r.Context(), in); err != nil {
		h.logger.Debug("task not created", zap.String("task_name", in.Name), zap.Error(err))
	}
	h.redirect(w, r, "/")
}

func (h *Handler) HandleStartTask(w http.ResponseWriter, r *http.Request) {
	h.taskAction(w, r, h.lifecycle.Start)
}

func (h *Handler) HandleStopTask(w http.ResponseWriter, r *http.Request) {
	h.taskAction(w, r, h.lifecycle.Stop)
}

func (h *Handler) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	h.taskAction(w, r, h.lifecycle.Delete)
}

func (h *Handler) taskAction(w http.ResponseWriter, r *http.Request, action func(context.Context, int64) error) {
	id, err := request.TaskID(r)
	if err != nil {
		h.notifier.Failure(err.Error())
		h.redirect(w, r, "/")
		return
	}
	if err := action(r.Context(), id); err != nil {
		h.logger.Debug("task action not applied", zap.Int64("task_id", id), zap.Error(err))
	}
	h.redirect(w, r, "/")
}

func (h *Handler) HandleCheckFailed(w http.ResponseWriter, r *http.Request) {
	if _, err := h.lifecycle.CheckFailedTasks(r.Context()); err != nil {
		h.logger.Debug("check failed tasks not applied", zap.Error(err))
	}
	h.redirect(w, r, "/")
}

func (h *Handler) HandleForceRefresh(w http.ResponseWriter, r *http.Request) {
	if _, err := h.lifecycle.ForceRefresh(r.Context()); err != nil {
		h.logger.Debug("force refresh not applied", zap.Error(err))
	}
	h.redirect(w, r, "/")
}

// --- Data ---

func (h *Handler) HandleData(w http.ResponseWriter, r *http.Request) {
	// A failed load keeps the previous page on screen next to its notice.
	h.renderData(w, h.browser.Load(r.Context()))
}

func (h *Handler) HandleDataPage(w http.ResponseWriter, r *http.Request) {
	page, err := request.Page(r)
	if err != nil {
		h.notifier.Failure(err.Error())
		h.redirect(w, r, "/data")
		return
	}
	h.renderData(w, h.browser.GoToPage(r.Context(), page))
}

func (h *Handler) HandleDataQuery(w http.ResponseWriter, r *http.Request) {
	q, err := request.Query(r)
	if err != nil {
		h.notifier.Failure(err.Error())
		h.redirect(w, r, "/data")
		return
	}
	size := q.Size
	if size == 0 {
		size = h.browser.Query().PageSize
	}
	h.renderData(w, h.browser.Reconfigure(r.Context(), size, q.PageNumber))
}

func (h *Handler) HandleDataSearch(w http.ResponseWriter, r *http.Request) {
	h.renderData(w, h.browser.Search(r.Context(), request.Keyword(r)))
}

func (h *Handler) HandleDataRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.browser.Refresh(r.Context()); err != nil {
		h.logger.Debug("data refresh failed", zap.Error(err))
	}
	h.redirect(w, r, "/data")
}

func (h *Handler) renderData(w http.ResponseWriter, loadErr error) {
	if loadErr != nil && !errors.Is(loadErr, usecase.ErrStaleResponse) {
		h.logger.Debug("rendering previous data after failed fetch", zap.Error(loadErr))
	}
	v := view.Data(h.browser.State(), h.dashboard.Snapshot().DataStats, h.notifier.Active())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Data(w, v); err != nil {
		h.logger.Error("failed to render data page", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) HandleExportCurrent(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, h.exporter.ExportCurrentPage)
}

func (h *Handler) HandleExportAll(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, h.exporter.ExportAll)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request, export func(context.Context) (*usecase.Download, error)) {
	dl, err := export(r.Context())
	if err != nil {
		h.redirect(w, r, "/data")
		return
	}
	defer dl.Body.Close()

	w.Header().Set("Content-Type", dl.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": dl.Filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, dl.Body); err != nil {
		h.logger.Warn("export stream interrupted", zap.String("filename", dl.Filename), zap.Error(err))
	}
}

// --- Notices ---

func (h *Handler) HandleDismissNotice(w http.ResponseWriter, r *http.Request) {
	h.notifier.Dismiss(chi.URLParam(r, "id"))
	h.redirect(w, r, back(r, "/"))
}

// --- JSON API ---

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.tasks.Health(ctx); err != nil {
		h.logger.Error("health check failed for backend", zap.Error(err))
		h.writeJSON(w, http.StatusServiceUnavailable, response.HealthResponse{
			Status:  "degraded",
			Backend: "unhealthy",
			Error:   err.Error(),
		})
		return
	}
	h.writeJSON(w, http.StatusOK, response.HealthResponse{Status: "ok", Backend: "healthy"})
}

func (h *Handler) HandleConsoleState(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, response.NewConsoleState(h.dashboard.Snapshot(), h.browser.State(), h.notifier.Active()))
}

// NotFound answers unknown JSON routes with the API error shape and
// everything else with a plain 404.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	if isAPI(r) {
		h.writeJSONError(w, "Not found", http.StatusNotFound)
		return
	}
	http.NotFound(w, r)
}

// --- Helper Functions ---

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// back returns the local path the request came from, or fallback.
func back(r *http.Request, fallback string) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") || (ref.Host != "" && ref.Host != r.Host) {
		return fallback
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

func isAPI(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}
