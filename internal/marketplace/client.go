package marketplace

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/tutorhub/internal/validation"
)

const (
	apiURL         = "http://localhost:5000/api"
	userAgent      = "spigell/tutorhub"
	defaultTimeout = 10 * time.Second
)

// TokenSource provides the bearer token for requests. An empty token means
// requests are sent anonymously.
type TokenSource interface {
	Token() string
}

type staticToken string

func (s staticToken) Token() string { return string(s) }

// StaticToken wraps a fixed token.
func StaticToken(token string) TokenSource { return staticToken(token) }

// Client talks to the marketplace REST backend.
type Client struct {
	tokens     TokenSource
	logger     *zap.Logger
	validator  *validation.Validator
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(logger *zap.Logger, tokens TokenSource) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tokens == nil {
		tokens = StaticToken("")
	}

	return &Client{
		tokens:    tokens,
		logger:    logger,
		validator: validation.New(),
		APIURL:    apiURL,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
		UserAgent: userAgent,
	}
}

func (c *Client) url(path string) string {
	return strings.TrimRight(c.APIURL, "/") + path
}
