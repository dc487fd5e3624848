package listing

import (
	"errors"
	"fmt"
	"slices"
)

const (
	DefaultItemsPerPage = 15
	visiblePages        = 5
)

// PageSizes is the fixed menu of page sizes.
var PageSizes = []int{10, 15, 25, 50}

var ErrPageSize = errors.New("page size is not allowed")

// PageWindow describes the visible slice and the page buttons for a page.
type PageWindow struct {
	RangeStart int
	RangeEnd   int
	Pages      []int
	// Ellipsis and LastPage are set together when a shortcut to the final page is shown.
	Ellipsis bool
	LastPage int
}

// Window computes the page window, deriving the page count from totalItems.
func Window(currentPage, itemsPerPage, totalItems int) PageWindow {
	totalPages := 0
	if itemsPerPage > 0 && totalItems > 0 {
		totalPages = (totalItems + itemsPerPage - 1) / itemsPerPage
	}
	return window(currentPage, itemsPerPage, totalItems, totalPages)
}

func window(currentPage, itemsPerPage, totalItems, totalPages int) PageWindow {
	w := PageWindow{
		RangeStart: (currentPage-1)*itemsPerPage + 1,
		RangeEnd:   min(currentPage*itemsPerPage, totalItems),
		Pages:      []int{},
	}

	if totalPages <= 0 {
		return w
	}

	start := max(1, currentPage-visiblePages/2)
	end := min(totalPages, start+visiblePages-1)
	start = max(1, end-visiblePages+1)
	for p := start; p <= end; p++ {
		w.Pages = append(w.Pages, p)
	}

	if totalPages > visiblePages && currentPage < totalPages-2 {
		w.Ellipsis = true
		w.LastPage = totalPages
	}

	return w
}

// Pagination is the pagination state of one listing.
// CurrentPage always stays within [1, max(TotalPages, 1)].
type Pagination struct {
	CurrentPage  int
	ItemsPerPage int
	TotalItems   int
	TotalPages   int
}

func NewPagination(itemsPerPage int) (*Pagination, error) {
	if itemsPerPage == 0 {
		itemsPerPage = DefaultItemsPerPage
	}
	if !slices.Contains(PageSizes, itemsPerPage) {
		return nil, fmt.Errorf("%w: %d (allowed: %v)", ErrPageSize, itemsPerPage, PageSizes)
	}
	return &Pagination{CurrentPage: 1, ItemsPerPage: itemsPerPage}, nil
}

// SetPage moves to page n. Pages outside [1, TotalPages] are ignored and false is returned.
func (p *Pagination) SetPage(n int) bool {
	if n < 1 || n > p.TotalPages || n == p.CurrentPage {
		return false
	}
	p.CurrentPage = n
	return true
}

func (p *Pagination) Next() bool { return p.SetPage(p.CurrentPage + 1) }

func (p *Pagination) Prev() bool { return p.SetPage(p.CurrentPage - 1) }

// SetItemsPerPage changes the page size and goes back to the first page.
func (p *Pagination) SetItemsPerPage(n int) error {
	if !slices.Contains(PageSizes, n) {
		return fmt.Errorf("%w: %d (allowed: %v)", ErrPageSize, n, PageSizes)
	}
	p.ItemsPerPage = n
	p.CurrentPage = 1
	return nil
}

// SetTotals stores totals reported by the server and clamps the current page.
func (p *Pagination) SetTotals(totalItems, totalPages int) {
	p.TotalItems = max(totalItems, 0)
	p.TotalPages = max(totalPages, 0)
	p.CurrentPage = min(max(p.CurrentPage, 1), max(p.TotalPages, 1))
}

// Window uses the server reported page count.
func (p *Pagination) Window() PageWindow {
	return window(p.CurrentPage, p.ItemsPerPage, p.TotalItems, p.TotalPages)
}
