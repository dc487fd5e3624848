package filtering

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spigell/tutorhub/internal/listing"
)

type containsFilter struct {
	key      Key
	needle   string
	values   func(*listing.Record) []string
	disabled bool
	reason   string
}

// NewContains creates a filter keeping records where any value returned by
// values contains needle, ignoring case.
func NewContains(key Key, needle string, values func(*listing.Record) []string) Filter {
	return &containsFilter{
		key:    key,
		needle: strings.TrimSpace(needle),
		values: values,
	}
}

func (f *containsFilter) Name() string { return string(f.key) }

func (f *containsFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *containsFilter) IsEnabled() bool { return !f.disabled }

func (f *containsFilter) Validate() error {
	if f.values == nil {
		return fmt.Errorf("no record field is bound to %s", f.key)
	}
	return nil
}

func (f *containsFilter) Apply(records []*listing.Record) ([]*listing.Record, Step) {
	needle := strings.ToLower(f.needle)
	return keep(records, func(r *listing.Record) bool {
		for _, v := range f.values(r) {
			if v != "" && strings.Contains(strings.ToLower(v), needle) {
				return true
			}
		}
		return false
	})
}

func (f *containsFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"contains": f.needle},
	}
}

type budgetFilter struct {
	key      Key
	raw      string
	bound    float64
	accept   func(amount, bound float64) bool
	disabled bool
	reason   string
}

// NewMinBudget keeps records whose budget amount is at least value.
// A missing budget counts as 0.
func NewMinBudget(value string) Filter {
	return &budgetFilter{
		key:    KeyMinBudget,
		raw:    strings.TrimSpace(value),
		accept: func(amount, bound float64) bool { return amount >= bound },
	}
}

// NewMaxBudget keeps records whose budget amount is at most value.
// A missing budget counts as 0, so such records are kept.
func NewMaxBudget(value string) Filter {
	return &budgetFilter{
		key:    KeyMaxBudget,
		raw:    strings.TrimSpace(value),
		accept: func(amount, bound float64) bool { return amount <= bound },
	}
}

func (f *budgetFilter) Name() string { return string(f.key) }

func (f *budgetFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *budgetFilter) IsEnabled() bool { return !f.disabled }

func (f *budgetFilter) Validate() error {
	bound, err := strconv.ParseFloat(f.raw, 64)
	if err != nil || math.IsNaN(bound) || math.IsInf(bound, 0) {
		return fmt.Errorf("%s value %q is not a number", f.key, f.raw)
	}
	f.bound = bound
	return nil
}

func (f *budgetFilter) Apply(records []*listing.Record) ([]*listing.Record, Step) {
	return keep(records, func(r *listing.Record) bool {
		return f.accept(r.Amount(), f.bound)
	})
}

func (f *budgetFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"value": f.raw},
	}
}

// fieldValues maps a string key to the record values it is matched against.
func fieldValues(key Key) func(*listing.Record) []string {
	switch key {
	case KeySubject:
		return func(r *listing.Record) []string { return r.SubjectNames() }
	case KeyLocation:
		return func(r *listing.Record) []string { return []string{r.Location} }
	case KeyServiceType:
		return func(r *listing.Record) []string { return []string{r.ServiceType} }
	case KeyEmploymentType:
		return func(r *listing.Record) []string { return []string{r.EmploymentType} }
	case KeyMeetingOptions:
		return func(r *listing.Record) []string { return r.MeetingOptions }
	case KeyLanguage:
		return func(r *listing.Record) []string { return r.Languages }
	default:
		return nil
	}
}
