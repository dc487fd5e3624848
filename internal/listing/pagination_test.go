package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		current int
		perPage int
		total   int
		want    PageWindow
	}{
		{
			name:    "empty result",
			current: 1,
			perPage: 15,
			total:   0,
			want:    PageWindow{RangeStart: 1, RangeEnd: 0, Pages: []int{}},
		},
		{
			name:    "second of three pages",
			current: 2,
			perPage: 10,
			total:   25,
			want:    PageWindow{RangeStart: 11, RangeEnd: 20, Pages: []int{1, 2, 3}},
		},
		{
			name:    "last partial page",
			current: 3,
			perPage: 10,
			total:   25,
			want:    PageWindow{RangeStart: 21, RangeEnd: 25, Pages: []int{1, 2, 3}},
		},
		{
			name:    "first of many shows last page shortcut",
			current: 1,
			perPage: 10,
			total:   100,
			want:    PageWindow{RangeStart: 1, RangeEnd: 10, Pages: []int{1, 2, 3, 4, 5}, Ellipsis: true, LastPage: 10},
		},
		{
			name:    "centred in the middle",
			current: 5,
			perPage: 10,
			total:   100,
			want:    PageWindow{RangeStart: 41, RangeEnd: 50, Pages: []int{3, 4, 5, 6, 7}, Ellipsis: true, LastPage: 10},
		},
		{
			name:    "near the end drops shortcut",
			current: 8,
			perPage: 10,
			total:   100,
			want:    PageWindow{RangeStart: 71, RangeEnd: 80, Pages: []int{6, 7, 8, 9, 10}},
		},
		{
			name:    "exactly five pages",
			current: 1,
			perPage: 10,
			total:   50,
			want:    PageWindow{RangeStart: 1, RangeEnd: 10, Pages: []int{1, 2, 3, 4, 5}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Window(tt.current, tt.perPage, tt.total))
		})
	}
}

func TestPaginationWindowUsesServerPages(t *testing.T) {
	p, err := NewPagination(10)
	require.NoError(t, err)

	// server claims more pages than total/perPage would give
	p.SetTotals(25, 7)
	w := p.Window()

	assert.Equal(t, []int{1, 2, 3, 4, 5}, w.Pages)
	assert.True(t, w.Ellipsis)
	assert.Equal(t, 7, w.LastPage)
}

func TestPaginationSetItemsPerPageResetsPage(t *testing.T) {
	p, err := NewPagination(15)
	require.NoError(t, err)
	p.SetTotals(100, 7)
	require.True(t, p.SetPage(3))

	require.NoError(t, p.SetItemsPerPage(25))

	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 25, p.ItemsPerPage)
}

func TestPaginationRejectsUnknownPageSize(t *testing.T) {
	p, err := NewPagination(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultItemsPerPage, p.ItemsPerPage)

	assert.ErrorIs(t, p.SetItemsPerPage(7), ErrPageSize)
	assert.Equal(t, DefaultItemsPerPage, p.ItemsPerPage)

	_, err = NewPagination(12)
	assert.ErrorIs(t, err, ErrPageSize)
}

func TestPaginationSetPageOutOfRangeIsNoop(t *testing.T) {
	p, err := NewPagination(10)
	require.NoError(t, err)
	p.SetTotals(30, 3)

	assert.False(t, p.SetPage(0))
	assert.False(t, p.SetPage(4))
	assert.Equal(t, 1, p.CurrentPage)

	assert.True(t, p.Next())
	assert.True(t, p.Next())
	assert.False(t, p.Next())
	assert.Equal(t, 3, p.CurrentPage)

	assert.True(t, p.Prev())
	assert.Equal(t, 2, p.CurrentPage)
}

func TestPaginationSetTotalsClampsCurrentPage(t *testing.T) {
	p, err := NewPagination(10)
	require.NoError(t, err)
	p.SetTotals(100, 10)
	require.True(t, p.SetPage(9))

	p.SetTotals(20, 2)
	assert.Equal(t, 2, p.CurrentPage)

	p.SetTotals(0, 0)
	assert.Equal(t, 1, p.CurrentPage)
}
