package view

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/user/crawler-console/internal/entity"
	"github.com/user/crawler-console/internal/usecase"
	"github.com/user/crawler-console/pkg/pagination"
	"github.com/user/crawler-console/pkg/utils"
)

// PageSizes are the page sizes offered in the query form.
var PageSizes = []int{10, 20, 50, 100}

const (
	emptyListing = "No data"
	emptySearch  = "No matching results"
)

type RecordRow struct {
	ID            int64
	CompanyName   string
	ProductTitle  string
	ContactPerson string
	LandlinePhone string
	MobilePhone   string
	Address       string
	Fax           string
	PageBadge     string
	CrawlTime     string
	SourceURL     string
	ShortURL      string
}

// PagerLink is one pager cell. Href is empty for the active page and for
// ellipses, which render as plain text.
type PagerLink struct {
	Label    string
	Href     string
	Active   bool
	Ellipsis bool
}

type PagerNav struct {
	Href     string
	Disabled bool
}

type Pager struct {
	Visible bool
	Prev    PagerNav
	Next    PagerNav
	Links   []PagerLink
}

type Option struct {
	Value    string
	Label    string
	Selected bool
}

type DataView struct {
	Notices       []NoticeView
	Searching     bool
	Keyword       string
	Rows          []RecordRow
	EmptyMessage  string
	Pager         Pager
	PageSizes     []Option
	PageFilters   []Option
	TotalElements int64
	TotalRecords  int64
	CurrentPage   int // one-based, for display
	TotalPages    int
	Loaded        bool
}

// Data builds the data browser page.
func Data(state usecase.BrowserState, stats entity.DataStats, notices []usecase.Notice) DataView {
	v := DataView{
		Notices:      Notices(notices),
		Searching:    state.Mode == usecase.ModeSearch,
		Keyword:      state.Keyword,
		TotalRecords: stats.TotalCount,
		CurrentPage:  state.Query.Page + 1,
		PageSizes:    sizeOptions(state.Query.PageSize),
		PageFilters:  filterOptions(stats, state.Query.PageNumber),
		Loaded:       state.Loaded,
	}

	records := state.Records()
	v.Rows = make([]RecordRow, 0, len(records))
	for _, r := range records {
		v.Rows = append(v.Rows, Row(r))
	}
	if len(v.Rows) == 0 {
		v.EmptyMessage = emptyListing
		if v.Searching {
			v.EmptyMessage = emptySearch
		}
	}

	if v.Searching {
		v.TotalElements = int64(len(records))
		return v
	}
	if state.Result != nil {
		v.TotalElements = state.Result.TotalElements
		v.TotalPages = state.Result.TotalPages
		v.Pager = BuildPager(state.Query.Page, *state.Result)
	}
	return v
}

func Row(r entity.DataRecord) RecordRow {
	return RecordRow{
		ID:            r.ID,
		CompanyName:   r.CompanyName,
		ProductTitle:  r.ProductTitle,
		ContactPerson: r.ContactPerson,
		LandlinePhone: r.LandlinePhone,
		MobilePhone:   r.MobilePhone,
		Address:       r.Address,
		Fax:           r.Fax,
		PageBadge:     pageBadge(r.PageNumber),
		CrawlTime:     r.CrawlTime.Display(),
		SourceURL:     r.SourceURL,
		ShortURL:      utils.TruncateURL(r.SourceURL, URLDisplayLimit),
	}
}

// BuildPager lays out the pager for the page the browser is on. Prev and
// Next follow the backend's first/last flags; the numbered links follow
// pagination.Window. The pager is hidden for a single page.
func BuildPager(current int, result entity.PageResult[entity.DataRecord]) Pager {
	if result.TotalPages <= 1 {
		return Pager{}
	}
	p := Pager{
		Visible: true,
		Prev:    PagerNav{Disabled: result.First},
		Next:    PagerNav{Disabled: result.Last},
	}
	if !p.Prev.Disabled {
		p.Prev.Href = PageHref(current - 1)
	}
	if !p.Next.Disabled {
		p.Next.Href = PageHref(current + 1)
	}
	for _, item := range pagination.Window(result.TotalPages, current) {
		link := PagerLink{Label: item.Label(), Active: item.Active, Ellipsis: item.IsEllipsis()}
		if !link.Active && !link.Ellipsis {
			link.Href = PageHref(item.Index)
		}
		p.Links = append(p.Links, link)
	}
	return p
}

// PageHref is the console route for a zero-based page index.
func PageHref(page int) string {
	return "/data/page/" + strconv.Itoa(page)
}

func sizeOptions(current int) []Option {
	sizes := PageSizes
	if current > 0 && !slices.Contains(sizes, current) {
		sizes = append([]int{current}, sizes...)
	}
	opts := make([]Option, 0, len(sizes))
	for _, size := range sizes {
		opts = append(opts, Option{
			Value:    strconv.Itoa(size),
			Label:    fmt.Sprintf("%d per page", size),
			Selected: size == current,
		})
	}
	return opts
}

func filterOptions(stats entity.DataStats, current *int) []Option {
	opts := []Option{{Value: "", Label: "All pages", Selected: current == nil}}
	for _, page := range stats.PageNumbers() {
		opts = append(opts, Option{
			Value:    strconv.Itoa(page),
			Label:    fmt.Sprintf("%s (%d)", pageBadge(page), stats.PageStats[page]),
			Selected: current != nil && *current == page,
		})
	}
	return opts
}
