package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/user/crawler-console/internal/repository"
	"github.com/user/crawler-console/pkg/metrics"
)

const exportDateLayout = "2006-01-02"

// Download is a spreadsheet ready to be streamed to the operator. The
// caller closes Body.
type Download struct {
	Filename    string
	ContentType string
	Body        io.ReadCloser
}

// Exporter asks the backend for spreadsheet exports of the records the
// DataBrowser is showing.
type Exporter struct {
	data     repository.DataRepository
	browser  *DataBrowser
	notifier *Notifier
	label    string
	logger   *zap.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewExporter(data repository.DataRepository, browser *DataBrowser, notifier *Notifier, label string, logger *zap.Logger, m *metrics.Metrics) *Exporter {
	return &Exporter{
		data:     data,
		browser:  browser,
		notifier: notifier,
		label:    label,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
}

// ExportCurrentPage exports the page the browser is on, honouring its size
// and filter.
func (e *Exporter) ExportCurrentPage(ctx context.Context) (*Download, error) {
	q := e.browser.Query()
	scope := fmt.Sprintf("page-%d", q.Page+1)
	return e.export(ctx, "current", scope, repository.ExportQuery{DataQuery: q.dataQuery()})
}

// ExportAll exports every record, restricted only by the crawl page filter.
func (e *Exporter) ExportAll(ctx context.Context) (*Download, error) {
	q := e.browser.Query()
	return e.export(ctx, "all", "all", repository.ExportQuery{
		DataQuery: repository.DataQuery{PageNumber: q.PageNumber},
		All:       true,
	})
}

func (e *Exporter) export(ctx context.Context, kind, scope string, q repository.ExportQuery) (*Download, error) {
	file, err := e.data.Export(ctx, q)
	if err != nil {
		e.record(kind, "failure")
		e.logger.Warn("export failed", zap.String("scope", kind), zap.Error(err))
		e.notifier.Failure("Export failed: " + err.Error())
		return nil, fmt.Errorf("export %s: %w", kind, err)
	}

	e.record(kind, "success")
	filename := e.filename(scope)
	e.logger.Info("export started", zap.String("scope", kind), zap.String("filename", filename))
	e.notifier.Success("Export started: " + filename)
	return &Download{Filename: filename, ContentType: file.ContentType, Body: file.Body}, nil
}

func (e *Exporter) filename(scope string) string {
	return fmt.Sprintf("%s_%s_%s.xlsx", e.label, scope, e.now().Format(exportDateLayout))
}

func (e *Exporter) record(scope, outcome string) {
	if e.metrics != nil {
		e.metrics.IncExport(scope, outcome)
	}
}
