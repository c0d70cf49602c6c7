package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/user/crawler-console/internal/entity"
	"github.com/user/crawler-console/internal/repository"
	"github.com/user/crawler-console/pkg/metrics"
)

const (
	sortByID    = "id"
	sortDirDesc = "desc"
)

type BrowseMode string

const (
	ModePaged  BrowseMode = "paged"
	ModeSearch BrowseMode = "search"
)

// QueryState is the operator's current position in the data listing.
type QueryState struct {
	Page     int // zero-based
	PageSize int
	// PageNumber filters by crawl page when non-nil.
	PageNumber *int
}

func (q QueryState) clone() QueryState {
	if q.PageNumber != nil {
		n := *q.PageNumber
		q.PageNumber = &n
	}
	return q
}

func (q QueryState) dataQuery() repository.DataQuery {
	return repository.DataQuery{
		Page:       q.Page,
		Size:       q.PageSize,
		SortBy:     sortByID,
		SortDir:    sortDirDesc,
		PageNumber: q.PageNumber,
	}
}

// BrowserState is what the data view renders.
type BrowserState struct {
	Query   QueryState
	Mode    BrowseMode
	Keyword string
	// Result holds the last page loaded in ModePaged.
	Result *entity.PageResult[entity.DataRecord]
	// Matches holds the last search results in ModeSearch.
	Matches  []entity.DataRecord
	Loaded   bool
	LoadedAt time.Time
}

// Records returns the rows to display for the current mode.
func (s BrowserState) Records() []entity.DataRecord {
	if s.Mode == ModeSearch {
		return s.Matches
	}
	if s.Result == nil {
		return nil
	}
	return s.Result.Content
}

// DataBrowser pages through crawled records. Every fetch takes a token and
// only the response to the most recently issued fetch is applied.
type DataBrowser struct {
	data     repository.DataRepository
	notifier *Notifier
	logger   *zap.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	mu    sync.Mutex
	token uint64
	state BrowserState
	// shown is the query behind the rows on screen. A failed fetch puts
	// state.Query back to it so the pager and exports match the table.
	shown QueryState
}

func NewDataBrowser(data repository.DataRepository, pageSize int, notifier *Notifier, logger *zap.Logger, m *metrics.Metrics) *DataBrowser {
	q := QueryState{PageSize: pageSize}
	return &DataBrowser{
		data:     data,
		notifier: notifier,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
		state: BrowserState{
			Query: q,
			Mode:  ModePaged,
		},
		shown: q,
	}
}

// State returns a copy of the current browser state.
func (b *DataBrowser) State() BrowserState {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.state
	s.Query = s.Query.clone()
	if s.Result != nil {
		r := *s.Result
		r.Content = slices.Clone(r.Content)
		s.Result = &r
	}
	s.Matches = slices.Clone(s.Matches)
	return s
}

func (b *DataBrowser) Query() QueryState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Query.clone()
}

// Load fetches the page selected by the current query. On failure the
// previous result and the query that produced it stay in place.
func (b *DataBrowser) Load(ctx context.Context) error {
	return b.load(ctx, true)
}

func (b *DataBrowser) load(ctx context.Context, clampOnShrink bool) error {
	b.mu.Lock()
	b.token++
	token := b.token
	q := b.state.Query.clone()
	b.mu.Unlock()

	result, err := b.data.Page(ctx, q.dataQuery())

	b.mu.Lock()
	if token != b.token {
		b.mu.Unlock()
		b.discard("page", token)
		return ErrStaleResponse
	}
	if err != nil {
		b.state.Query = b.shown.clone()
		b.mu.Unlock()
		b.logger.Warn("load data page failed", zap.Int("page", q.Page), zap.Int("size", q.PageSize), zap.Error(err))
		b.notifier.Failure("Loading data failed: " + err.Error())
		return fmt.Errorf("load data page %d: %w", q.Page, err)
	}

	// The data shrank under us: step back to the last page and fetch it.
	if clampOnShrink && result.TotalPages > 0 && q.Page >= result.TotalPages {
		b.state.Query.Page = result.TotalPages - 1
		b.mu.Unlock()
		b.logger.Debug("data page out of range, reloading last page",
			zap.Int("page", q.Page), zap.Int("total_pages", result.TotalPages))
		return b.load(ctx, false)
	}

	b.shown = q.clone()
	b.state.Mode = ModePaged
	b.state.Keyword = ""
	b.state.Matches = nil
	b.state.Result = result
	b.state.Loaded = true
	b.state.LoadedAt = b.now()
	b.mu.Unlock()
	return nil
}

// GoToPage moves to page n, clamped into the range known from the last
// loaded result.
func (b *DataBrowser) GoToPage(ctx context.Context, n int) error {
	b.mu.Lock()
	total := 0
	if b.state.Result != nil {
		total = b.state.Result.TotalPages
	}
	b.state.Query.Page = clampPage(n, total)
	b.mu.Unlock()
	return b.Load(ctx)
}

func (b *DataBrowser) SetPageSize(ctx context.Context, size int) error {
	if size <= 0 {
		return &ValidationError{Field: "size", Message: "must be a positive number"}
	}
	b.mu.Lock()
	b.state.Query.PageSize = size
	b.state.Query.Page = 0
	b.mu.Unlock()
	return b.Load(ctx)
}

// SetFilter restricts the listing to one crawl page; nil clears the filter.
func (b *DataBrowser) SetFilter(ctx context.Context, pageNumber *int) error {
	b.mu.Lock()
	b.state.Query.PageNumber = copyInt(pageNumber)
	b.state.Query.Page = 0
	b.mu.Unlock()
	return b.Load(ctx)
}

// Reconfigure applies a page size and filter together, as submitted from
// the query form, then reloads from the first page.
func (b *DataBrowser) Reconfigure(ctx context.Context, size int, pageNumber *int) error {
	if size <= 0 {
		return &ValidationError{Field: "size", Message: "must be a positive number"}
	}
	b.mu.Lock()
	b.state.Query.PageSize = size
	b.state.Query.PageNumber = copyInt(pageNumber)
	b.state.Query.Page = 0
	b.mu.Unlock()
	return b.Load(ctx)
}

// Search lists every record matching keyword. A blank keyword goes back to
// the paged listing.
func (b *DataBrowser) Search(ctx context.Context, keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return b.Load(ctx)
	}

	b.mu.Lock()
	b.token++
	token := b.token
	b.mu.Unlock()

	records, err := b.data.Search(ctx, keyword)

	b.mu.Lock()
	defer b.mu.Unlock()
	if token != b.token {
		b.discard("search", token)
		return ErrStaleResponse
	}
	if err != nil {
		b.logger.Warn("search data failed", zap.String("keyword", keyword), zap.Error(err))
		b.notifier.Failure("Search failed: " + err.Error())
		return fmt.Errorf("search %q: %w", keyword, err)
	}

	b.state.Mode = ModeSearch
	b.state.Keyword = keyword
	b.state.Matches = records
	b.state.Loaded = true
	b.state.LoadedAt = b.now()
	return nil
}

// Refresh returns to the first page and reloads it.
func (b *DataBrowser) Refresh(ctx context.Context) error {
	b.mu.Lock()
	b.state.Query.Page = 0
	b.mu.Unlock()

	if err := b.Load(ctx); err != nil {
		if errors.Is(err, ErrStaleResponse) {
			return nil
		}
		return err
	}
	b.notifier.Info("Data refreshed")
	return nil
}

func (b *DataBrowser) discard(kind string, token uint64) {
	b.logger.Debug("discarding stale data response", zap.String("kind", kind), zap.Uint64("token", token))
	if b.metrics != nil {
		b.metrics.IncStaleResponse()
	}
}

func clampPage(n, totalPages int) int {
	if totalPages > 0 && n > totalPages-1 {
		n = totalPages - 1
	}
	if n < 0 {
		n = 0
	}
	return n
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	n := *p
	return &n
}
