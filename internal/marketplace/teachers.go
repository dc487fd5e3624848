package marketplace

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/tutorhub/internal/listing"
)

const teachersPath = "/teachers"

// Teacher is a tutor profile as listed on the tutors page.
type Teacher struct {
	ID             string    `json:"_id"`
	AltID          string    `json:"id"`
	User           *User     `json:"user"`
	Name           string    `json:"name"`
	Headline       string    `json:"headline"`
	Bio            string    `json:"bio"`
	Subjects       []Subject `json:"subjects"`
	Location       string    `json:"location"`
	HourlyRate     *float64  `json:"hourlyRate"`
	Currency       string    `json:"currency"`
	ServiceType    string    `json:"serviceType"`
	EmploymentType string    `json:"employmentType"`
	MeetingOptions []string  `json:"meetingOptions"`
	Languages      []string  `json:"languages"`
	Experience     int       `json:"experience"`
	Rating         float64   `json:"rating"`
	CreatedAt      time.Time `json:"createdAt"`
}

// DisplayName prefers the linked user's name over the profile name.
func (t *Teacher) DisplayName() string {
	if t.User != nil && t.User.Name != "" {
		return t.User.Name
	}
	return t.Name
}

func (t *Teacher) Record() *listing.Record {
	r := &listing.Record{
		ID:             firstNonEmpty(t.ID, t.AltID),
		Title:          t.Headline,
		Subjects:       toSubjects(t.Subjects),
		Location:       t.Location,
		CreatedAt:      t.CreatedAt,
		ServiceType:    t.ServiceType,
		EmploymentType: t.EmploymentType,
		MeetingOptions: t.MeetingOptions,
		Languages:      t.Languages,
	}

	if t.HourlyRate != nil {
		r.Budget = &listing.Budget{Amount: *t.HourlyRate, Currency: t.Currency, Frequency: "hourly"}
	}

	owner := toOwner(t.User)
	if owner == nil {
		owner = &listing.Owner{}
	}
	owner.Name = t.DisplayName()
	r.Owner = owner

	return r
}

// GetAllTeachers fetches one page of tutor profiles.
func (c *Client) GetAllTeachers(ctx context.Context, page, limit int) (*listing.Page, error) {
	env, err := c.get(ctx, teachersPath, pageQuery(page, limit))
	if err != nil {
		return nil, fmt.Errorf("get teachers: %w", err)
	}

	data := env.Data
	if inner := nested(data, "teachers"); inner != nil {
		data = inner
	}

	var teachers []*Teacher
	if err := decode(data, &teachers); err != nil {
		return nil, fmt.Errorf("get teachers: decoding teachers: %w", err)
	}

	c.logger.Debug("got teachers",
		zap.Int("page", page),
		zap.Int("count", len(teachers)),
		zap.Int("total", env.total()),
	)

	records := make([]*listing.Record, 0, len(teachers))
	for _, t := range teachers {
		if t == nil {
			continue
		}
		records = append(records, t.Record())
	}

	return &listing.Page{
		Records:    records,
		Total:      env.total(),
		TotalPages: env.totalPages(),
	}, nil
}
