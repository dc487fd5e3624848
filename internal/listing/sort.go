package listing

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortNewest     SortKey = "newest"
	SortOldest     SortKey = "oldest"
	SortBudgetLow  SortKey = "budget_low"
	SortBudgetHigh SortKey = "budget_high"
	SortName       SortKey = "name"
)

// SortKeys lists the supported keys in menu order.
var SortKeys = []SortKey{SortNewest, SortOldest, SortBudgetLow, SortBudgetHigh, SortName}

func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(SortKeys, key) {
		return key, nil
	}
	return "", fmt.Errorf("unknown sort key %q (supported: %v)", s, SortKeys)
}

// Sort returns a sorted copy of records using English collation for names.
func Sort(records []*Record, key SortKey) []*Record {
	return SortWithLocale(records, key, language.English)
}

// SortWithLocale returns a sorted copy of records. Names are compared with the
// collation rules of the given locale. An unknown key yields an unsorted copy.
func SortWithLocale(records []*Record, key SortKey, locale language.Tag) []*Record {
	sorted := slices.Clone(records)
	if sorted == nil {
		sorted = []*Record{}
	}

	var compare func(a, b *Record) int
	switch key {
	case SortNewest:
		compare = func(a, b *Record) int { return b.Created().Compare(a.Created()) }
	case SortOldest:
		compare = func(a, b *Record) int { return a.Created().Compare(b.Created()) }
	case SortBudgetLow:
		compare = func(a, b *Record) int { return cmp.Compare(a.Amount(), b.Amount()) }
	case SortBudgetHigh:
		compare = func(a, b *Record) int { return cmp.Compare(b.Amount(), a.Amount()) }
	case SortName:
		// Collator keeps internal buffers, so each call gets its own.
		collator := collate.New(locale, collate.IgnoreCase)
		compare = func(a, b *Record) int { return collator.CompareString(a.OwnerName(), b.OwnerName()) }
	default:
		return sorted
	}

	slices.SortStableFunc(sorted, compare)
	return sorted
}
