package filtering

import (
	"slices"

	"github.com/spigell/tutorhub/internal/listing"
	"go.uber.org/zap"
)

// Filter represents a single filtering step applied to listing records.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Apply(records []*listing.Record) ([]*listing.Record, Step)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// Apply narrows records by every non-empty key of the state.
// The input slice is never modified.
func Apply(records []*listing.Record, state State) []*listing.Record {
	return Run(zap.NewNop(), Build(state), records)
}

// Build creates one step per non-empty key, in key order.
func Build(state State) []Filter {
	steps := make([]Filter, 0, len(Keys))
	for _, key := range Keys {
		value := state.Get(key)
		if value == "" {
			continue
		}

		switch key {
		case KeyMinBudget:
			steps = append(steps, NewMinBudget(value))
		case KeyMaxBudget:
			steps = append(steps, NewMaxBudget(value))
		default:
			steps = append(steps, NewContains(key, value, fieldValues(key)))
		}
	}
	return steps
}

// Run executes the supplied filters sequentially. Steps that fail validation
// are disabled and skipped instead of aborting the run.
func Run(logger *zap.Logger, steps []Filter, records []*listing.Record) []*listing.Record {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			logger.Warn("disabling filter", zap.String("name", step.Name()), zap.Error(err))
			step.Disable(err.Error())
		}
	}

	current := slices.Clone(records)
	if current == nil {
		current = []*listing.Record{}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info := step.Apply(current)
		logger.Debug("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)
		current = next
	}

	return current
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// keep returns the records accepted by match without touching the input.
func keep(records []*listing.Record, match func(*listing.Record) bool) ([]*listing.Record, Step) {
	left := make([]*listing.Record, 0, len(records))
	for _, r := range records {
		if r != nil && match(r) {
			left = append(left, r)
		}
	}
	return left, Step{Initial: len(records), Dropped: len(records) - len(left), Left: len(left)}
}
