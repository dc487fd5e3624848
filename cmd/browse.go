package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/spigell/tutorhub/internal/browse"
	"github.com/spigell/tutorhub/internal/filtering"
	"github.com/spigell/tutorhub/internal/listing"
)

const (
	PromptNext     = "Next page"
	PromptPrev     = "Previous page"
	PromptGoTo     = "Go to page"
	PromptPageSize = "Items per page"
	PromptFilter   = "Set a filter"
	PromptReset    = "Reset filters"
	PromptSort     = "Sort by"
	PromptDump     = "Dump page to file"
	PromptRetry    = "Retry"
	PromptQuit     = "Quit"
	PromptBack     = "back"
)

var (
	errExit = errors.New("exit requested")
	errDump = errors.New("dump results to file")
)

// runBrowser shows the listing and asks what to do next until the user quits.
// Fetch errors are shown inline and can be retried.
func runBrowser(ctx context.Context, w io.Writer, what string, b *browse.Browser) error {
	// A failed load shows up in the view.
	_ = b.Load(ctx)

	for {
		view := b.View()
		fmt.Fprintln(w)
		renderView(w, what, view)

		prompt := promptui.Select{
			Label: "What next?",
			Items: actions(view),
			Size:  10,
		}

		_, action, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			return err
		}

		if err := handleAction(ctx, w, what, action, b); err != nil {
			if done := reportActionError(w, err, b.View()); done {
				return nil
			}
		}
	}
}

// reportActionError prints an action failure unless the view already shows
// it. It reports whether the browser loop should end.
func reportActionError(w io.Writer, err error, view *browse.View) bool {
	switch {
	case errors.Is(err, errExit):
		return true
	case errors.Is(err, promptui.ErrInterrupt), errors.Is(err, browse.ErrStale):
	case errors.Is(err, promptui.ErrAbort):
		fmt.Fprintln(w, "cancelled")
	case view.State == browse.Errored && view.Err != nil && errors.Is(err, view.Err):
		// rendered as the error state
	default:
		fmt.Fprintf(w, "%v\n", err)
	}
	return false
}

// actions offers only what makes sense in the current state.
func actions(v *browse.View) []string {
	if v.State == browse.Errored {
		return []string{PromptRetry, PromptPageSize, PromptQuit}
	}

	items := make([]string, 0, 10)
	if v.Pagination.CurrentPage < v.Pagination.TotalPages {
		items = append(items, PromptNext)
	}
	if v.Pagination.CurrentPage > 1 {
		items = append(items, PromptPrev)
	}
	if v.Pagination.TotalPages > 1 {
		items = append(items, PromptGoTo)
	}
	items = append(items, PromptPageSize, PromptFilter)
	if !v.Filters.IsEmpty() {
		items = append(items, PromptReset)
	}
	items = append(items, PromptSort)
	if len(v.Records) > 0 {
		items = append(items, PromptDump)
	}
	return append(items, PromptQuit)
}

func handleAction(ctx context.Context, w io.Writer, what, action string, b *browse.Browser) error {
	switch action {
	case PromptNext:
		_, err := b.Next(ctx)
		return err
	case PromptPrev:
		_, err := b.Prev(ctx)
		return err
	case PromptGoTo:
		return goToPage(ctx, w, b)
	case PromptPageSize:
		return choosePageSize(ctx, b)
	case PromptFilter:
		return chooseFilter(b)
	case PromptReset:
		b.ResetFilters()
		return nil
	case PromptSort:
		return chooseSort(b)
	case PromptDump:
		filename, err := listing.DumpToTmpFile(what, b.View().Records)
		if err != nil {
			return fmt.Errorf("%w: %w", errDump, err)
		}
		fmt.Fprintf(w, "Saved to %s\n", filename)
		return nil
	case PromptRetry:
		return b.Retry(ctx)
	case PromptQuit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func goToPage(ctx context.Context, w io.Writer, b *browse.Browser) error {
	total := b.View().Pagination.TotalPages

	prompt := promptui.Prompt{
		Label: fmt.Sprintf("Page (1-%d)", total),
		Validate: func(s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return errors.New("not a number")
			}
			if n < 1 || n > total {
				return fmt.Errorf("page must be between 1 and %d", total)
			}
			return nil
		},
	}

	result, err := prompt.Run()
	if err != nil {
		return err
	}

	n, _ := strconv.Atoi(strings.TrimSpace(result))
	moved, err := b.SetPage(ctx, n)
	if !moved && err == nil {
		fmt.Fprintf(w, "Already on page %d\n", n)
	}
	return err
}

func choosePageSize(ctx context.Context, b *browse.Browser) error {
	items := make([]string, 0, len(listing.PageSizes))
	for _, size := range listing.PageSizes {
		items = append(items, strconv.Itoa(size))
	}

	prompt := promptui.Select{
		Label: "Items per page",
		Items: items,
	}
	i, _, err := prompt.Run()
	if err != nil {
		return err
	}

	return b.SetItemsPerPage(ctx, listing.PageSizes[i])
}

func chooseFilter(b *browse.Browser) error {
	current := b.View().Filters

	items := make([]string, 0, len(filtering.Keys)+1)
	for _, key := range filtering.Keys {
		label := string(key)
		if value := current.Get(key); value != "" {
			label = fmt.Sprintf("%s (%s)", key, value)
		}
		items = append(items, label)
	}
	items = append(items, PromptBack)

	keyPrompt := promptui.Select{
		Label: "Filter by",
		Items: items,
		Size:  len(items),
	}
	i, selected, err := keyPrompt.Run()
	if err != nil {
		return err
	}
	if selected == PromptBack {
		return nil
	}

	key := filtering.Keys[i]
	valuePrompt := promptui.Prompt{
		Label:   fmt.Sprintf("%s (empty clears it)", key),
		Default: current.Get(key),
	}
	if key == filtering.KeyMinBudget || key == filtering.KeyMaxBudget {
		valuePrompt.Validate = func(s string) error {
			if strings.TrimSpace(s) == "" {
				return nil
			}
			_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			return err
		}
	}

	value, err := valuePrompt.Run()
	if err != nil {
		return err
	}

	return b.SetFilter(key, value)
}

func chooseSort(b *browse.Browser) error {
	items := make([]string, 0, len(listing.SortKeys))
	for _, key := range listing.SortKeys {
		items = append(items, string(key))
	}

	prompt := promptui.Select{
		Label: "Sort by",
		Items: items,
	}
	i, _, err := prompt.Run()
	if err != nil {
		return err
	}

	b.SetSort(listing.SortKeys[i])
	return nil
}
