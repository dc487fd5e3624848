package marketplace

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/tutorhub/internal/utils"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
	requestIDHeader = "X-Request-ID"
	maxLoggedBody   = 300
)

// envelope is the common response body of the backend.
type envelope struct {
	Success    *bool           `json:"success"`
	Message    string          `json:"message"`
	Error      string          `json:"error"`
	Data       any             `json:"data"`
	User       any             `json:"user"`
	Token      string          `json:"token"`
	Total      *int            `json:"total"`
	TotalPages *int            `json:"totalPages"`
	Pagination *paginationInfo `json:"pagination"`
}

type paginationInfo struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	Total        int `json:"total"`
	ItemsPerPage int `json:"itemsPerPage"`
}

func (e *envelope) total() int {
	switch {
	case e.Total != nil:
		return *e.Total
	case e.Pagination == nil:
		return 0
	case e.Pagination.TotalItems > 0:
		return e.Pagination.TotalItems
	default:
		return e.Pagination.Total
	}
}

func (e *envelope) totalPages() int {
	switch {
	case e.TotalPages != nil:
		return *e.TotalPages
	case e.Pagination != nil:
		return e.Pagination.TotalPages
	default:
		return 0
	}
}

func (e *envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (*envelope, error) {
	return c.do(ctx, http.MethodGet, path, q, nil)
}

func (c *Client) send(ctx context.Context, method, path string, payload any) (*envelope, error) {
	return c.do(ctx, method, path, nil, payload)
}

// do sends a request to the backend and decodes the response envelope.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, payload any) (*envelope, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	if len(q) > 0 {
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.request(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	requestID := req.Header.Get(requestIDHeader)
	env := &envelope{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, env); err != nil {
			if resp.StatusCode >= http.StatusBadRequest {
				return nil, &APIError{StatusCode: resp.StatusCode, Message: utils.TruncateForLog(string(data), maxLoggedBody), RequestID: requestID}
			}
			return nil, fmt.Errorf("decoding response from %s: %w", path, err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.message(), RequestID: requestID}
	}

	if env.Success != nil && !*env.Success {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.message(), RequestID: requestID}
	}

	return env, nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.String("request_id", req.Header.Get(requestIDHeader)),
	)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set(requestIDHeader, uuid.NewString())

	return req
}

func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	return io.ReadAll(reader)
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q
}
