package repository

import (
	"context"
	"io"

	"github.com/user/crawler-console/internal/entity"
)

// DataQuery selects one page of crawled records.
type DataQuery struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
	// PageNumber restricts results to one crawl page when non-nil.
	PageNumber *int
}

// ExportQuery selects the records to export. All ignores paging.
type ExportQuery struct {
	DataQuery
	All bool
}

// ExportFile is a spreadsheet streamed from the backend. The caller closes Body.
type ExportFile struct {
	ContentType string
	Body        io.ReadCloser
}

// DataRepository defines the interface for browsing crawled records.
type DataRepository interface {
	Page(ctx context.Context, q DataQuery) (*entity.PageResult[entity.DataRecord], error)
	// Search returns every record matching keyword, unpaged.
	Search(ctx context.Context, keyword string) ([]entity.DataRecord, error)
	Stats(ctx context.Context) (entity.DataStats, error)
	Export(ctx context.Context, q ExportQuery) (*ExportFile, error)
}
