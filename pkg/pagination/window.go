// Package pagination computes which page links a pager shows for an
// arbitrary number of pages.
package pagination

import "strconv"

const (
	// maxFullWindow is the largest page count rendered without ellipses.
	maxFullWindow = 7
	// showPages is the width of the sliding window around the current page.
	showPages = 5
)

type Kind int

const (
	KindPage Kind = iota
	KindEllipsis
)

// Item is one element of the pager: a zero-based page index or an ellipsis.
type Item struct {
	Kind   Kind
	Index  int
	Active bool
}

func (i Item) IsEllipsis() bool {
	return i.Kind == KindEllipsis
}

// Label is the text shown for the item: the one-based page number or "…".
func (i Item) Label() string {
	if i.Kind == KindEllipsis {
		return "…"
	}
	return strconv.Itoa(i.Index + 1)
}

// Window returns the pager items for totalPages pages with currentPage
// (zero-based) selected. A single page or no pages yields an empty window,
// meaning the pager is hidden.
func Window(totalPages, currentPage int) []Item {
	if totalPages <= 1 {
		return nil
	}

	if totalPages <= maxFullWindow {
		items := make([]Item, 0, totalPages)
		for i := 0; i < totalPages; i++ {
			items = append(items, page(i, currentPage))
		}
		return items
	}

	startPage := max(0, currentPage-showPages/2)
	endPage := min(totalPages-1, startPage+showPages-1)
	if endPage-startPage+1 < showPages {
		startPage = max(0, endPage-showPages+1)
	}

	items := make([]Item, 0, showPages+4)
	if startPage > 0 {
		items = append(items, page(0, currentPage))
		if startPage > 1 {
			items = append(items, Item{Kind: KindEllipsis})
		}
	}
	for i := startPage; i <= endPage; i++ {
		items = append(items, page(i, currentPage))
	}
	if endPage < totalPages-1 {
		if endPage < totalPages-2 {
			items = append(items, Item{Kind: KindEllipsis})
		}
		items = append(items, page(totalPages-1, currentPage))
	}
	return items
}

func page(index, current int) Item {
	return Item{Kind: KindPage, Index: index, Active: index == current}
}
