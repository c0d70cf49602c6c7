package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zaptest"

	"github.com/user/crawler-console/pkg/metrics"
	"github.com/user/crawler-console/pkg/utils"
)

func TestTrace(t *testing.T) {
	var seen string
	h := Trace(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = utils.TraceID(r.Context())
	}))

	t.Run("reuses a valid incoming id", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(utils.TraceIDHeader, id)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if seen != id {
			t.Errorf("context trace id = %q, want %q", seen, id)
		}
		if got := rec.Header().Get(utils.TraceIDHeader); got != id {
			t.Errorf("response header = %q, want %q", got, id)
		}
	})

	t.Run("replaces a malformed id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(utils.TraceIDHeader, "not-a-uuid")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if _, err := uuid.Parse(seen); err != nil {
			t.Errorf("context trace id %q is not a uuid", seen)
		}
		if got := rec.Header().Get(utils.TraceIDHeader); got != seen {
			t.Errorf("response header = %q, want %q", got, seen)
		}
	})
}

func TestMetricsLabelsByRoutePattern(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Post("/tasks/{id}/start", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusSeeOther)
	})

	for _, path := range []string{"/tasks/1/start", "/tasks/2/start", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, path, nil))
	}

	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/tasks/{id}/start", "303")); got != 2 {
		t.Errorf("route series = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "unmatched", "404")); got != 1 {
		t.Errorf("unmatched series = %v, want 1", got)
	}
}

func TestResponseWriterDefaultsToOK(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)
	if _, err := rw.Write([]byte("ok")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if rw.statusCode != http.StatusOK {
		t.Errorf("statusCode = %d, want 200", rw.statusCode)
	}
	if newResponseWriter(rw) != rw {
		t.Error("wrapping an already wrapped writer should reuse it")
	}
}

func TestLoggingPassesThrough(t *testing.T) {
	h := Logging(zaptest.NewLogger(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
}
