package marketplace

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/tutorhub/internal/listing"
)

const (
	postsPath   = "/posts"
	myPostsPath = "/posts/my-posts"
)

type Subject struct {
	Name     string `json:"name"`
	Level    string `json:"level"`
	Category string `json:"category"`
}

type Budget struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Frequency string  `json:"frequency"`
}

// Post is a student's requirement posted on the job board.
type Post struct {
	ID             string    `json:"_id"`
	AltID          string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Subjects       []Subject `json:"subjects"`
	Location       string    `json:"location"`
	Budget         *Budget   `json:"budget"`
	ServiceType    string    `json:"serviceType"`
	EmploymentType string    `json:"employmentType"`
	MeetingOptions []string  `json:"meetingOptions"`
	Languages      []string  `json:"languages"`
	Status         string    `json:"status"`
	User           *User     `json:"user"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (p *Post) Record() *listing.Record {
	r := &listing.Record{
		ID:             firstNonEmpty(p.ID, p.AltID),
		Title:          p.Title,
		Subjects:       toSubjects(p.Subjects),
		Location:       p.Location,
		CreatedAt:      p.CreatedAt,
		ServiceType:    p.ServiceType,
		EmploymentType: p.EmploymentType,
		MeetingOptions: p.MeetingOptions,
		Languages:      p.Languages,
		Owner:          toOwner(p.User),
	}
	if p.Budget != nil {
		r.Budget = &listing.Budget{Amount: p.Budget.Amount, Currency: p.Budget.Currency, Frequency: p.Budget.Frequency}
	}
	return r
}

// GetAllPosts fetches one page of the job board.
func (c *Client) GetAllPosts(ctx context.Context, page, limit int) (*listing.Page, error) {
	env, err := c.get(ctx, postsPath, pageQuery(page, limit))
	if err != nil {
		return nil, fmt.Errorf("get posts: %w", err)
	}

	posts, err := decodePosts(env.Data)
	if err != nil {
		return nil, fmt.Errorf("get posts: %w", err)
	}

	c.logger.Debug("got posts",
		zap.Int("page", page),
		zap.Int("count", len(posts)),
		zap.Int("total", env.total()),
		zap.Int("total_pages", env.totalPages()),
	)

	return postsPage(posts, env), nil
}

// GetMyPosts returns the posts owned by the signed in student.
func (c *Client) GetMyPosts(ctx context.Context) ([]*Post, error) {
	env, err := c.get(ctx, myPostsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("get my posts: %w", err)
	}

	posts, err := decodePosts(env.Data)
	if err != nil {
		return nil, fmt.Errorf("get my posts: %w", err)
	}

	return posts, nil
}

func decodePosts(data any) ([]*Post, error) {
	if inner := nested(data, "posts"); inner != nil {
		data = inner
	}

	var posts []*Post
	if err := decode(data, &posts); err != nil {
		return nil, fmt.Errorf("decoding posts: %w", err)
	}
	return posts, nil
}

func postsPage(posts []*Post, env *envelope) *listing.Page {
	records := make([]*listing.Record, 0, len(posts))
	for _, p := range posts {
		if p == nil {
			continue
		}
		records = append(records, p.Record())
	}

	return &listing.Page{
		Records:    records,
		Total:      env.total(),
		TotalPages: env.totalPages(),
	}
}

func toSubjects(subjects []Subject) []listing.Subject {
	out := make([]listing.Subject, 0, len(subjects))
	for _, s := range subjects {
		if s.Name == "" {
			continue
		}
		out = append(out, listing.Subject{Name: s.Name, Level: s.Level, Category: s.Category})
	}
	return out
}

func toOwner(u *User) *listing.Owner {
	if u == nil {
		return nil
	}
	return &listing.Owner{ID: u.Identity(), Name: u.Name, Email: u.Email}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
