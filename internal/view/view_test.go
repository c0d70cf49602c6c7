package view

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap/zaptest"

	"github.com/user/crawler-console/internal/entity"
	"github.com/user/crawler-console/internal/repository"
	"github.com/user/crawler-console/internal/usecase"
)

func TestProgress(t *testing.T) {
	tests := []struct {
		current, max int
		want         int
	}{
		{0, 10, 0},
		{3, 10, 30},
		{1, 3, 33},
		{2, 3, 67},
		{10, 10, 100},
		{15, 10, 100},
		{5, 0, 0},
		{5, -1, 0},
		{-2, 10, 0},
	}
	for _, tt := range tests {
		if got := Progress(tt.current, tt.max); got != tt.want {
			t.Errorf("Progress(%d, %d) = %d, want %d", tt.current, tt.max, got, tt.want)
		}
	}
}

func TestCard(t *testing.T) {
	longURL := "https://example.com/" + strings.Repeat("a", 60)
	card := Card(entity.Task{
		ID:               5,
		TaskName:         "suppliers",
		URL:              longURL,
		MaxPages:         4,
		Status:           entity.StatusRunning,
		CurrentPage:      1,
		CurrentItemIndex: 7,
	})

	if !card.ShowProgress || card.Progress != 25 || card.CurrentItemIndex != 7 {
		t.Errorf("Unexpected progress fields: %+v", card)
	}
	if card.ShortURL != longURL[:URLDisplayLimit]+"..." {
		t.Errorf("Unexpected short URL: %s", card.ShortURL)
	}
	if card.CanStart || !card.CanStop || card.CanDelete {
		t.Errorf("Unexpected actions for running task: %+v", card)
	}
	if card.Description != "No description" || card.CreatedAt != "-" {
		t.Errorf("Expected placeholders, got %q / %q", card.Description, card.CreatedAt)
	}
	if card.StatusLabel != "Running" || card.StatusClass != "bg-primary" {
		t.Errorf("Unexpected status badge: %s %s", card.StatusLabel, card.StatusClass)
	}

	paused := Card(entity.Task{ID: 6, Status: entity.StatusPaused, CurrentPage: 2, MaxPages: 4})
	if paused.ShowProgress || paused.Progress != 0 {
		t.Errorf("Expected no progress for paused task, got %+v", paused)
	}

	unknown := Card(entity.Task{ID: 7, Status: "ARCHIVED"})
	if unknown.CanStart || unknown.CanStop || unknown.CanDelete {
		t.Errorf("Expected no actions for unknown status, got %+v", unknown)
	}
}

func TestDashboard_Stats(t *testing.T) {
	snap := usecase.DashboardSnapshot{
		TaskStats: entity.TaskStats{
			ByStatus: map[entity.TaskStatus]int64{
				entity.StatusPending:   1,
				entity.StatusRunning:   2,
				entity.StatusPaused:    3,
				entity.StatusCompleted: 4,
				entity.StatusFailed:    5,
			},
			RunningCount: 2,
		},
		DataStats: entity.DataStats{TotalCount: 99},
		Loaded:    true,
	}

	v := Dashboard(snap, nil)
	want := StatsView{TotalTasks: 15, RunningTasks: 2, WaitingTasks: 4, Completed: 4, Failed: 5, TotalRecords: 99}
	if v.Stats != want {
		t.Errorf("Expected %+v, got %+v", want, v.Stats)
	}
	if v.UpdatedAt != "" {
		t.Errorf("Expected no update time, got %s", v.UpdatedAt)
	}
}

func TestBuildPager(t *testing.T) {
	t.Run("single page hidden", func(t *testing.T) {
		p := BuildPager(0, entity.PageResult[entity.DataRecord]{TotalPages: 1, First: true, Last: true})
		if p.Visible || len(p.Links) != 0 {
			t.Errorf("Expected hidden pager, got %+v", p)
		}
	})

	t.Run("first page", func(t *testing.T) {
		p := BuildPager(0, entity.PageResult[entity.DataRecord]{TotalPages: 3, First: true})
		if !p.Prev.Disabled || p.Prev.Href != "" {
			t.Errorf("Expected disabled prev, got %+v", p.Prev)
		}
		if p.Next.Disabled || p.Next.Href != "/data/page/1" {
			t.Errorf("Expected next to page 1, got %+v", p.Next)
		}
		if len(p.Links) != 3 || !p.Links[0].Active || p.Links[0].Href != "" {
			t.Errorf("Unexpected links: %+v", p.Links)
		}
	})

	t.Run("middle of many", func(t *testing.T) {
		p := BuildPager(10, entity.PageResult[entity.DataRecord]{TotalPages: 20})
		var labels []string
		for _, l := range p.Links {
			labels = append(labels, l.Label)
		}
		want := "1 … 9 10 11 12 13 … 20"
		if got := strings.Join(labels, " "); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
		if p.Links[0].Href != "/data/page/0" || p.Links[len(p.Links)-1].Href != "/data/page/19" {
			t.Errorf("Unexpected edge links: %+v", p.Links)
		}
		if p.Prev.Href != "/data/page/9" || p.Next.Href != "/data/page/11" {
			t.Errorf("Unexpected prev/next: %+v %+v", p.Prev, p.Next)
		}
	})
}

// flakyDataRepo serves totalPages single-record pages until down is set.
type flakyDataRepo struct {
	totalPages int
	down       bool
}

func (f *flakyDataRepo) Page(ctx context.Context, q repository.DataQuery) (*entity.PageResult[entity.DataRecord], error) {
	if f.down {
		return nil, errors.New("backend down")
	}
	return &entity.PageResult[entity.DataRecord]{
		Content:    []entity.DataRecord{{ID: int64(q.Page)}},
		TotalPages: f.totalPages,
		Size:       q.Size,
		Number:     q.Page,
		First:      q.Page == 0,
		Last:       q.Page >= f.totalPages-1,
	}, nil
}

func (f *flakyDataRepo) Search(ctx context.Context, keyword string) ([]entity.DataRecord, error) {
	return nil, nil
}

func (f *flakyDataRepo) Stats(ctx context.Context) (entity.DataStats, error) {
	return entity.DataStats{}, nil
}

func (f *flakyDataRepo) Export(ctx context.Context, q repository.ExportQuery) (*repository.ExportFile, error) {
	return nil, errors.New("not supported")
}

func TestData_PagerFollowsDisplayedPageAfterFailure(t *testing.T) {
	repo := &flakyDataRepo{totalPages: 10}
	browser := usecase.NewDataBrowser(repo, 20, usecase.NewNotifier(time.Minute), zaptest.NewLogger(t), nil)
	ctx := context.Background()
	if err := browser.GoToPage(ctx, 2); err != nil {
		t.Fatalf("GoToPage failed: %v", err)
	}

	repo.down = true
	if err := browser.GoToPage(ctx, 7); err == nil {
		t.Fatal("Expected error, got nil")
	}

	v := Data(browser.State(), entity.DataStats{}, nil)
	if len(v.Rows) != 1 || v.Rows[0].ID != 2 {
		t.Fatalf("Expected page 2 rows, got %+v", v.Rows)
	}
	var active string
	for _, l := range v.Pager.Links {
		if l.Active {
			active = l.Label
		}
	}
	if active != "3" {
		t.Errorf("Expected active page 3, got %q", active)
	}
	if v.Pager.Prev.Href != "/data/page/1" || v.Pager.Next.Href != "/data/page/3" {
		t.Errorf("Unexpected prev/next: %+v %+v", v.Pager.Prev, v.Pager.Next)
	}
}

func TestData_EmptyMessages(t *testing.T) {
	paged := Data(usecase.BrowserState{
		Mode:   usecase.ModePaged,
		Query:  usecase.QueryState{PageSize: 20},
		Result: &entity.PageResult[entity.DataRecord]{},
		Loaded: true,
	}, entity.DataStats{}, nil)
	if paged.EmptyMessage != "No data" {
		t.Errorf("Expected listing empty message, got %q", paged.EmptyMessage)
	}

	search := Data(usecase.BrowserState{Mode: usecase.ModeSearch, Keyword: "x", Loaded: true}, entity.DataStats{}, nil)
	if search.EmptyMessage != "No matching results" || search.Pager.Visible {
		t.Errorf("Unexpected search view: %+v", search)
	}
}

func TestData_Options(t *testing.T) {
	filter := 3
	v := Data(usecase.BrowserState{
		Query: usecase.QueryState{PageSize: 25, PageNumber: &filter},
	}, entity.DataStats{PageStats: map[int]int64{3: 10, 1: 4}}, nil)

	if len(v.PageFilters) != 3 || v.PageFilters[0].Selected || !v.PageFilters[2].Selected {
		t.Errorf("Unexpected filters: %+v", v.PageFilters)
	}
	if v.PageFilters[1].Label != "Page 1 (4)" {
		t.Errorf("Unexpected filter label: %s", v.PageFilters[1].Label)
	}
	if v.PageSizes[0].Value != "25" || !v.PageSizes[0].Selected {
		t.Errorf("Expected custom size offered and selected, got %+v", v.PageSizes)
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	return r
}

func TestRenderer_Dashboard(t *testing.T) {
	r := newTestRenderer(t)
	snap := usecase.DashboardSnapshot{
		Tasks: []entity.Task{
			{ID: 1, TaskName: "<script>alert(1)</script>", Status: entity.StatusRunning, MaxPages: 10, CurrentPage: 5},
			{ID: 2, TaskName: "done", Status: entity.StatusCompleted},
		},
		Loaded:    true,
		UpdatedAt: time.Now(),
	}
	notices := []usecase.Notice{{ID: "n1", Level: usecase.NoticeDanger, Message: "Start failed: boom"}}

	var buf bytes.Buffer
	if err := r.Dashboard(&buf, Dashboard(snap, notices)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatalf("Parse HTML failed: %v", err)
	}

	running := doc.Find(`[data-task-id="1"]`)
	if running.Find(".action-stop").Length() != 1 || running.Find(".action-start, .action-delete").Length() != 0 {
		t.Error("Expected only a stop action for the running task")
	}
	if style, _ := running.Find(".progress-bar").Attr("style"); !strings.Contains(style, "50%") {
		t.Errorf("Expected 50%% progress, got %q", style)
	}
	if got := running.Find(".card-title").Text(); got != "<script>alert(1)</script>" {
		t.Errorf("Expected task name rendered as text, got %q", got)
	}
	if doc.Find("script").Length() != 0 {
		t.Error("Expected task name to be escaped")
	}

	done := doc.Find(`[data-task-id="2"]`)
	if done.Find(".action-delete").Length() != 1 || done.Find(".progress").Length() != 0 {
		t.Error("Expected delete and no progress for the completed task")
	}

	alert := doc.Find(`[data-notice-id="n1"]`)
	if !alert.HasClass("alert-danger") || !strings.Contains(alert.Text(), "Start failed: boom") {
		t.Errorf("Unexpected notice markup: %q", alert.Text())
	}
	if action, _ := alert.Find("form").Attr("action"); action != "/notices/n1/dismiss" {
		t.Errorf("Unexpected dismiss action: %s", action)
	}
}

func TestRenderer_Data(t *testing.T) {
	r := newTestRenderer(t)
	state := usecase.BrowserState{
		Mode:  usecase.ModePaged,
		Query: usecase.QueryState{Page: 10, PageSize: 20},
		Result: &entity.PageResult[entity.DataRecord]{
			Content:       []entity.DataRecord{{ID: 1, CompanyName: "Acme"}, {ID: 2, CompanyName: "Globex"}},
			TotalPages:    20,
			TotalElements: 400,
			Number:        10,
		},
		Loaded: true,
	}

	var buf bytes.Buffer
	if err := r.Data(&buf, Data(state, entity.DataStats{TotalCount: 400}, nil)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatalf("Parse HTML failed: %v", err)
	}

	if n := doc.Find(".record-row").Length(); n != 2 {
		t.Errorf("Expected 2 rows, got %d", n)
	}
	if got := strings.TrimSpace(doc.Find("#pager .active").Text()); got != "11" {
		t.Errorf("Expected active page 11, got %q", got)
	}
	if n := doc.Find("#pager .page-ellipsis").Length(); n != 2 {
		t.Errorf("Expected 2 ellipses, got %d", n)
	}
	if n := doc.Find("#pager .page-number").Length(); n != 7 {
		t.Errorf("Expected 7 numbered links, got %d", n)
	}
	if href, _ := doc.Find("#pager .page-next a").Attr("href"); href != "/data/page/11" {
		t.Errorf("Unexpected next href: %s", href)
	}
}

func TestRenderer_Data_Empty(t *testing.T) {
	r := newTestRenderer(t)
	state := usecase.BrowserState{Mode: usecase.ModeSearch, Keyword: "none", Loaded: true}

	var buf bytes.Buffer
	if err := r.Data(&buf, Data(state, entity.DataStats{}, nil)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatalf("Parse HTML failed: %v", err)
	}
	if got := strings.TrimSpace(doc.Find(".empty-message").Text()); got != "No matching results" {
		t.Errorf("Unexpected empty message: %q", got)
	}
	if doc.Find("#pager").Length() != 0 {
		t.Error("Expected no pager for search results")
	}
}
