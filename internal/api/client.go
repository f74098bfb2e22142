package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Allan-Sanchez/storefront-client/internal/logging"
)

// TokenSource supplies the current access token. An empty token means the
// Authorization header is omitted.
type TokenSource interface {
	AccessToken() string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	headers map[string]string
	// attempts above 1 retries transport errors and 5xx answers,
	// only used for idempotent reads.
	attempts int
}

func (c *Client) do(ctx context.Context, r request) (int, []byte, error) {
	attempts := r.attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return 0, nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
			}
		}

		status, data, err := c.doOnce(ctx, r)
		if err != nil {
			lastErr = err
			if attempt < attempts-1 {
				logging.FromContext(ctx).Warn("request failed, retrying",
					"method", r.method, "path", r.path, "attempt", attempt+1, "error", err)
			}
			continue
		}
		if status >= 500 && attempt < attempts-1 {
			lastErr = fmt.Errorf("server answered %d", status)
			logging.FromContext(ctx).Warn("request failed, retrying",
				"method", r.method, "path", r.path, "attempt", attempt+1, "status", status)
			continue
		}
		return status, data, nil
	}
	return 0, nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, r request) (int, []byte, error) {
	u := c.baseURL + "/" + strings.TrimLeft(r.path, "/")
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

// call performs the request and unwraps the uniform envelope. Backend
// failures come back as *Error carrying the server message.
func call[T any](ctx context.Context, c *Client, r request) (T, error) {
	var zero T

	status, data, err := c.do(ctx, r)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}

	var env Envelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		return zero, &Error{Message: genericErrorMessage, Status: status}
	}
	if env.HTTPStatus == 0 {
		env.HTTPStatus = status
	}
	if !env.Ok() {
		return zero, &Error{
			Message: env.ErrorMessage(),
			Status:  env.HTTPStatus,
			AppCode: env.AppCode,
		}
	}
	return env.Data, nil
}
