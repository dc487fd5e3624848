// Package browse drives a paginated remote listing: it fetches pages from
// the backend, then filters and sorts the fetched page on the client.
package browse

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/spigell/tutorhub/internal/filtering"
	"github.com/spigell/tutorhub/internal/listing"
)

// ErrStale is returned by a fetch whose response arrived after a newer
// fetch had been started. The response is dropped.
var ErrStale = errors.New("stale response discarded")

type Fetcher interface {
	Fetch(ctx context.Context, page, limit int) (*listing.Page, error)
}

// FetchFunc adapts a function such as marketplace.Client.GetAllPosts to Fetcher.
type FetchFunc func(ctx context.Context, page, limit int) (*listing.Page, error)

func (f FetchFunc) Fetch(ctx context.Context, page, limit int) (*listing.Page, error) {
	return f(ctx, page, limit)
}

type State int

const (
	Idle State = iota
	Loading
	Loaded
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Errored:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Options struct {
	// Page is the first page to load. It is clamped once totals are known.
	Page         int
	ItemsPerPage int
	Sort         listing.SortKey
	Locale       language.Tag
	Logger       *zap.Logger
}

// Browser is safe for concurrent use. Fetches run without holding the lock
// and the most recently started fetch wins.
type Browser struct {
	mu sync.Mutex

	fetcher Fetcher
	logger  *zap.Logger
	locale  language.Tag

	state      State
	err        error
	all        []*listing.Record
	filters    filtering.State
	sort       listing.SortKey
	pagination *listing.Pagination
	requestID  uint64
}

func New(fetcher Fetcher, opts Options) (*Browser, error) {
	if fetcher == nil {
		return nil, errors.New("fetcher is required")
	}

	pagination, err := listing.NewPagination(opts.ItemsPerPage)
	if err != nil {
		return nil, err
	}

	if opts.Page > 1 {
		pagination.CurrentPage = opts.Page
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	locale := opts.Locale
	if locale == language.Und {
		locale = language.English
	}

	sortKey := opts.Sort
	if sortKey == "" {
		sortKey = listing.SortNewest
	}

	return &Browser{
		fetcher:    fetcher,
		logger:     logger,
		locale:     locale,
		filters:    filtering.State{},
		sort:       sortKey,
		pagination: pagination,
	}, nil
}

// Load fetches the current page. A page past the last one the server
// reports is clamped and the clamped page is fetched once more.
func (b *Browser) Load(ctx context.Context) error {
	requested := b.currentPage()
	if err := b.fetch(ctx); err != nil {
		return err
	}

	if current := b.currentPage(); current != requested {
		b.logger.Debug("requested page out of range", zap.Int("requested", requested), zap.Int("page", current))
		return b.fetch(ctx)
	}
	return nil
}

// SetPage moves to page n and fetches it. Pages outside the known range
// are ignored and reported as not moved.
func (b *Browser) SetPage(ctx context.Context, n int) (bool, error) {
	b.mu.Lock()
	moved := b.pagination.SetPage(n)
	b.mu.Unlock()

	if !moved {
		return false, nil
	}
	return true, b.fetch(ctx)
}

func (b *Browser) Next(ctx context.Context) (bool, error) {
	return b.SetPage(ctx, b.currentPage()+1)
}

func (b *Browser) Prev(ctx context.Context) (bool, error) {
	return b.SetPage(ctx, b.currentPage()-1)
}

// SetItemsPerPage changes the page size, goes back to page 1 and fetches it.
func (b *Browser) SetItemsPerPage(ctx context.Context, n int) error {
	b.mu.Lock()
	err := b.pagination.SetItemsPerPage(n)
	b.mu.Unlock()

	if err != nil {
		return err
	}
	return b.fetch(ctx)
}

// Retry repeats the last fetch after a failure. In any other state it does nothing.
func (b *Browser) Retry(ctx context.Context) error {
	b.mu.Lock()
	state := b.state
	b.mu.Unlock()

	if state != Errored {
		b.logger.Debug("ignoring retry", zap.Stringer("state", state))
		return nil
	}
	return b.fetch(ctx)
}

// SetFilter changes one filter value. Filters apply to the fetched page
// and never trigger a fetch.
func (b *Browser) SetFilter(key filtering.Key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filters.Set(key, value)
}

func (b *Browser) ResetFilters() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filters.Reset()
}

func (b *Browser) SetSort(key listing.SortKey) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sort = key
}

func (b *Browser) currentPage() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pagination.CurrentPage
}

func (b *Browser) fetch(ctx context.Context) error {
	b.mu.Lock()
	b.requestID++
	id := b.requestID
	page, limit := b.pagination.CurrentPage, b.pagination.ItemsPerPage
	b.state = Loading
	b.err = nil
	b.mu.Unlock()

	logger := b.logger.With(zap.Uint64("request", id), zap.Int("page", page), zap.Int("limit", limit))
	logger.Debug("fetching page")

	result, err := b.fetcher.Fetch(ctx, page, limit)

	b.mu.Lock()
	defer b.mu.Unlock()

	if id != b.requestID {
		logger.Info("discarding stale response", zap.Uint64("latest", b.requestID), zap.Error(err))
		return ErrStale
	}

	if err != nil {
		b.state = Errored
		b.err = err
		logger.Debug("fetch failed", zap.Error(err))
		return err
	}

	if result == nil {
		result = &listing.Page{}
	}

	total, pages := result.Total, result.TotalPages
	if total == 0 {
		total = result.Len()
	}
	if pages == 0 && total > 0 {
		pages = (total + limit - 1) / limit
	}

	b.all = result.Records
	b.pagination.SetTotals(total, pages)
	b.state = Loaded

	logger.Debug("fetched page", zap.Int("records", result.Len()), zap.Int("total", total), zap.Int("pages", pages))
	return nil
}

// View is a snapshot of the browser for rendering.
type View struct {
	State State
	Err   error

	// Records are the fetched records that pass the filters, sorted.
	Records []*listing.Record
	// PageCount is the number of records fetched for the current page
	// before filtering. Pagination always follows the server totals.
	PageCount int

	Pagination   listing.Pagination
	Window       listing.PageWindow
	Sort         listing.SortKey
	Filters      filtering.State
	FilterStatus []filtering.Status
}

// Empty reports a successful load with nothing to show.
func (v *View) Empty() bool {
	return v.State == Loaded && len(v.Records) == 0
}

// Hidden is the number of fetched records removed by the filters.
func (v *View) Hidden() int {
	return v.PageCount - len(v.Records)
}

func (b *Browser) View() *View {
	b.mu.Lock()
	defer b.mu.Unlock()

	steps := filtering.Build(b.filters)
	visible := filtering.Run(b.logger, steps, b.all)

	return &View{
		State:        b.state,
		Err:          b.err,
		Records:      listing.SortWithLocale(visible, b.sort, b.locale),
		PageCount:    len(b.all),
		Pagination:   *b.pagination,
		Window:       b.pagination.Window(),
		Sort:         b.sort,
		Filters:      b.filters.Clone(),
		FilterStatus: filtering.Describe(steps),
	}
}
