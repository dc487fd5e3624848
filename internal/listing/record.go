package listing

import (
	"time"
)

// Record is one row of a listing page: a job post or a tutor profile.
// Every field may be absent; readers go through the accessors below.
type Record struct {
	ID             string    `json:"id"`
	Title          string    `json:"title,omitempty"`
	Subjects       []Subject `json:"subjects,omitempty"`
	Location       string    `json:"location,omitempty"`
	Budget         *Budget   `json:"budget,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	ServiceType    string    `json:"serviceType,omitempty"`
	EmploymentType string    `json:"employmentType,omitempty"`
	MeetingOptions []string  `json:"meetingOptions,omitempty"`
	Languages      []string  `json:"languages,omitempty"`
	Owner          *Owner    `json:"owner,omitempty"`
}

type Subject struct {
	Name     string `json:"name"`
	Level    string `json:"level,omitempty"`
	Category string `json:"category,omitempty"`
}

type Budget struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency,omitempty"`
	Frequency string  `json:"frequency,omitempty"`
}

type Owner struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Page is a single page of records as reported by the backend.
// Total and TotalPages describe the unfiltered server result.
type Page struct {
	Records    []*Record
	Total      int
	TotalPages int
}

func (p *Page) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Records)
}

// Amount returns the budget amount or 0 when the budget is missing.
func (r *Record) Amount() float64 {
	if r == nil || r.Budget == nil {
		return 0
	}
	return r.Budget.Amount
}

// Created returns the creation time, with a missing value mapped to the unix epoch.
func (r *Record) Created() time.Time {
	if r == nil || r.CreatedAt.IsZero() {
		return time.Unix(0, 0).UTC()
	}
	return r.CreatedAt
}

func (r *Record) OwnerName() string {
	if r == nil || r.Owner == nil {
		return ""
	}
	return r.Owner.Name
}

func (r *Record) SubjectNames() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.Subjects))
	for _, s := range r.Subjects {
		names = append(names, s.Name)
	}
	return names
}

// IDs returns identifiers of the records in order.
func IDs(records []*Record) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		ids = append(ids, r.ID)
	}
	return ids
}
