package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/manifoldco/promptui"

	"github.com/spigell/tutorhub/internal/browse"
	"github.com/spigell/tutorhub/internal/filtering"
	"github.com/spigell/tutorhub/internal/listing"
)

func TestActions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		view    *browse.View
		want    []string
		missing []string
	}{
		{
			name: "errored offers retry",
			view: &browse.View{State: browse.Errored},
			want: []string{PromptRetry, PromptPageSize, PromptQuit},
		},
		{
			name:    "first of many pages",
			view:    &browse.View{State: browse.Loaded, Pagination: listing.Pagination{CurrentPage: 1, TotalPages: 4}},
			want:    []string{PromptNext, PromptGoTo, PromptPageSize, PromptFilter, PromptSort, PromptQuit},
			missing: []string{PromptPrev, PromptReset, PromptRetry, PromptDump},
		},
		{
			name: "last page with filters and records",
			view: &browse.View{
				State:      browse.Loaded,
				Pagination: listing.Pagination{CurrentPage: 4, TotalPages: 4},
				Filters:    filtering.State{filtering.KeySubject: "math"},
				Records:    []*listing.Record{{ID: "p1"}},
			},
			want:    []string{PromptPrev, PromptGoTo, PromptPageSize, PromptFilter, PromptReset, PromptSort, PromptDump, PromptQuit},
			missing: []string{PromptNext},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := actions(tt.view)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("actions() = %v, want %v", got, tt.want)
			}
			for _, m := range tt.missing {
				if slices.Contains(got, m) {
					t.Fatalf("actions() must not offer %q", m)
				}
			}
		})
	}
}

func TestRenderViewStates(t *testing.T) {
	t.Parallel()

	records := []*listing.Record{
		{ID: "p1", Title: "GCSE maths", Owner: &listing.Owner{Name: "Sam"}, Budget: &listing.Budget{Amount: 25, Currency: "GBP", Frequency: "hourly"}},
	}

	tests := []struct {
		name string
		view *browse.View
		want []string
	}{
		{name: "loading", view: &browse.View{State: browse.Loading}, want: []string{"Loading posts..."}},
		{name: "error", view: &browse.View{State: browse.Errored, Err: errors.New("boom")}, want: []string{"Could not load posts: boom"}},
		{name: "empty", view: &browse.View{State: browse.Loaded}, want: []string{"No posts found."}},
		{
			name: "all hidden by filters",
			view: &browse.View{
				State:      browse.Loaded,
				PageCount:  3,
				Pagination: listing.Pagination{CurrentPage: 1, ItemsPerPage: 15, TotalItems: 3, TotalPages: 1},
				Window:     listing.Window(1, 15, 3),
			},
			want: []string{"No posts on this page match the filters (3 hidden).", "3 of 3 records on this page hidden by filters"},
		},
		{
			name: "success",
			view: &browse.View{
				State:      browse.Loaded,
				Records:    records,
				PageCount:  1,
				Sort:       listing.SortNewest,
				Pagination: listing.Pagination{CurrentPage: 2, ItemsPerPage: 10, TotalItems: 80, TotalPages: 8},
				Window:     listing.Window(2, 10, 80),
				FilterStatus: []filtering.Status{
					{Name: "minBudget", Enabled: false, Reason: `minBudget value "abc" is not a number`},
				},
			},
			want: []string{
				"GCSE maths", "Sam", "25 GBP/hourly",
				"Showing 11-20 of 80", "1 [2] 3 4 5 ... 8", "10 per page", "sort: newest",
				"filter minBudget ignored",
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			renderView(&buf, "posts", tt.view)

			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Fatalf("output misses %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestReportActionError(t *testing.T) {
	t.Parallel()

	fetchErr := errors.New("connection refused")
	errored := &browse.View{State: browse.Errored, Err: fetchErr}
	loaded := &browse.View{State: browse.Loaded}

	tests := []struct {
		name  string
		err   error
		view  *browse.View
		done  bool
		print string
	}{
		{name: "quit", err: errExit, view: loaded, done: true},
		{name: "interrupt", err: promptui.ErrInterrupt, view: loaded},
		{name: "stale", err: browse.ErrStale, view: loaded},
		{name: "fetch failure is in the view", err: fmt.Errorf("get posts: %w", fetchErr), view: errored},
		{name: "page size", err: listing.ErrPageSize, view: loaded, print: listing.ErrPageSize.Error()},
		{name: "invalid action", err: errors.New("invalid action: dance"), view: loaded, print: "invalid action: dance"},
		{name: "abort", err: promptui.ErrAbort, view: errored, print: "cancelled"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if done := reportActionError(&buf, tt.err, tt.view); done != tt.done {
				t.Fatalf("reportActionError() = %v, want %v", done, tt.done)
			}

			out := strings.TrimSpace(buf.String())
			if out != tt.print {
				t.Fatalf("printed %q, want %q", out, tt.print)
			}
		})
	}
}
