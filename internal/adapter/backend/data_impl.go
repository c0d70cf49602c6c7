package backend

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/user/crawler-console/internal/entity"
	"github.com/user/crawler-console/internal/repository"
)

const spreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DataRepoImpl implements repository.DataRepository over the backend REST API.
type DataRepoImpl struct {
	client *Client
}

// NewDataRepo creates a new instance of DataRepoImpl.
func NewDataRepo(client *Client) *DataRepoImpl {
	return &DataRepoImpl{client: client}
}

var _ repository.DataRepository = (*DataRepoImpl)(nil)

func (r *DataRepoImpl) Page(ctx context.Context, q repository.DataQuery) (*entity.PageResult[entity.DataRecord], error) {
	var page entity.PageResult[entity.DataRecord]
	err := r.client.doJSON(ctx, call{
		endpoint: "data.page",
		method:   http.MethodGet,
		path:     []string{"data"},
		query:    pageValues(q),
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *DataRepoImpl) Search(ctx context.Context, keyword string) ([]entity.DataRecord, error) {
	var records []entity.DataRecord
	err := r.client.doJSON(ctx, call{
		endpoint: "data.search",
		method:   http.MethodGet,
		path:     []string{"data", "search"},
		query:    url.Values{"keyword": {keyword}},
	}, &records)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *DataRepoImpl) Stats(ctx context.Context) (entity.DataStats, error) {
	var stats entity.DataStats
	err := r.client.doJSON(ctx, call{endpoint: "data.stats", method: http.MethodGet, path: []string{"data", "stats"}}, &stats)
	return stats, err
}

// Export streams the spreadsheet the backend generates. The payload is
// passed through untouched.
func (r *DataRepoImpl) Export(ctx context.Context, q repository.ExportQuery) (*repository.ExportFile, error) {
	values := url.Values{"export": {"true"}}
	if q.All {
		values.Set("all", "true")
		if q.PageNumber != nil {
			values.Set("pageNumber", strconv.Itoa(*q.PageNumber))
		}
	} else {
		for k, v := range pageValues(q.DataQuery) {
			values[k] = v
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.client.exportTimeout)
	resp, err := r.client.send(ctx, call{
		endpoint: "data.export",
		method:   http.MethodGet,
		path:     []string{"data", "export"},
		query:    values,
		stream:   true,
	})
	if err != nil {
		cancel()
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = spreadsheetContentType
	}
	return &repository.ExportFile{ContentType: contentType, Body: &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}}, nil
}

// cancelOnClose releases the export deadline once the body is closed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

func pageValues(q repository.DataQuery) url.Values {
	values := url.Values{
		"page":    {strconv.Itoa(q.Page)},
		"size":    {strconv.Itoa(q.Size)},
		"sortBy":  {q.SortBy},
		"sortDir": {q.SortDir},
	}
	if q.PageNumber != nil {
		values.Set("pageNumber", strconv.Itoa(*q.PageNumber))
	}
	return values
}
