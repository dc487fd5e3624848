// Package geo looks up places with the Geoapify geocoding API. It backs the
// location fields of posts and profiles.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/tutorhub/internal/utils"
)

const (
	DefaultURL = "https://api.geoapify.com"

	autocompletePath = "/v1/geocode/autocomplete"
	reversePath      = "/v1/geocode/reverse"
	responseFormat   = "json"
	defaultTimeout   = 10 * time.Second
	maxLoggedBody    = 200
)

var ErrNoAPIKey = errors.New("geoapify api key is not configured")

type Place struct {
	Formatted string  `json:"formatted"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	Country   string  `json:"country"`
	Postcode  string  `json:"postcode"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

// Label is the text shown for a place in a location picker.
func (p Place) Label() string {
	if p.Formatted != "" {
		return p.Formatted
	}

	parts := make([]string, 0, 3)
	for _, s := range []string{p.City, p.State, p.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

type response struct {
	Results []Place `json:"results"`
}

type Client struct {
	apiKey     string
	logger     *zap.Logger
	HTTPClient *http.Client
	BaseURL    string
}

func New(apiKey string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		logger:  logger,
		BaseURL: DefaultURL,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Autocomplete suggests places for partially typed text. Blank text
// returns no places and makes no request.
func (c *Client) Autocomplete(ctx context.Context, text string) ([]Place, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("text", text)

	places, err := c.get(ctx, autocompletePath, q)
	if err != nil {
		return nil, fmt.Errorf("autocomplete %q: %w", text, err)
	}
	return places, nil
}

// Reverse finds the places at the given coordinates.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) ([]Place, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("coordinates out of range: %g,%g", lat, lon)
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	places, err := c.get(ctx, reversePath, q)
	if err != nil {
		return nil, fmt.Errorf("reverse geocode: %w", err)
	}
	return places, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]Place, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	q.Set("format", responseFormat)
	q.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(c.BaseURL, "/")+path, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	// The key is part of the query, keep it out of the logs.
	c.logger.Debug("make request", zap.String("url", c.BaseURL+path))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("bad status: %s: %s", resp.Status, utils.TruncateForLog(string(body), maxLoggedBody))
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	c.logger.Debug("got places", zap.Int("count", len(r.Results)))
	return r.Results, nil
}
