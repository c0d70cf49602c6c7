package request

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/user/crawler-console/internal/usecase"
)

// CreateTask reads the new-task form. An unparseable maxPages becomes 0 so
// that validation reports it alongside the other fields.
func CreateTask(r *http.Request) (usecase.CreateTaskInput, error) {
	if err := r.ParseForm(); err != nil {
		return usecase.CreateTaskInput{}, fmt.Errorf("parse form: %w", err)
	}
	maxPages, _ := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("maxPages")))
	return usecase.CreateTaskInput{
		Name:        r.PostForm.Get("taskName"),
		URL:         r.PostForm.Get("url"),
		MaxPages:    maxPages,
		Description: r.PostForm.Get("description"),
	}, nil
}

// TaskID reads the {id} route parameter.
func TaskID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", raw)
	}
	return id, nil
}

// Page reads the zero-based {page} route parameter.
func Page(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "page")
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid page %q", raw)
	}
	return page, nil
}

// DataQuery is the page size and crawl-page filter chosen in the query form.
type DataQuery struct {
	// Size is 0 when the form left it unset.
	Size       int
	PageNumber *int
}

func Query(r *http.Request) (DataQuery, error) {
	var q DataQuery
	values := r.URL.Query()

	if raw := strings.TrimSpace(values.Get("size")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return q, fmt.Errorf("invalid page size %q", raw)
		}
		q.Size = size
	}
	if raw := strings.TrimSpace(values.Get("pageNumber")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("invalid page number filter %q", raw)
		}
		q.PageNumber = &n
	}
	return q, nil
}

func Keyword(r *http.Request) string {
	return r.URL.Query().Get("keyword")
}
