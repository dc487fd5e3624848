package filtering

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

type Key string

const (
	KeySubject        Key = "subject"
	KeyLocation       Key = "location"
	KeyMinBudget      Key = "minBudget"
	KeyMaxBudget      Key = "maxBudget"
	KeyServiceType    Key = "serviceType"
	KeyEmploymentType Key = "employmentType"
	KeyMeetingOptions Key = "meetingOptions"
	KeyLanguage       Key = "language"
)

// Keys is the fixed set of filter keys in evaluation order.
var Keys = []Key{
	KeySubject,
	KeyLocation,
	KeyMinBudget,
	KeyMaxBudget,
	KeyServiceType,
	KeyEmploymentType,
	KeyMeetingOptions,
	KeyLanguage,
}

var ErrUnknownKey = errors.New("unknown filter key")

// ParseKey matches s against the known keys ignoring case.
func ParseKey(s string) (Key, error) {
	s = strings.TrimSpace(s)
	for _, key := range Keys {
		if strings.EqualFold(string(key), s) {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, s)
}

// State holds user entered filter values. Empty values mean "no filter".
type State map[Key]string

func (s State) Get(key Key) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(s[key])
}

func (s State) Set(key Key, value string) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		delete(s, key)
		return nil
	}

	s[key] = value
	return nil
}

func (s State) Reset() {
	clear(s)
}

func (s State) IsEmpty() bool {
	for _, key := range Keys {
		if s.Get(key) != "" {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the state.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
