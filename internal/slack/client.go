// SPDX-License-Identifier: AGPL-3.0-or-later

// Package slack is a minimal Slack Web API client for a bot token: channel
// setup, posting Block Kit messages and cleaning up the bot's own posts.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the Web API root.
	DefaultBaseURL = "https://slack.com/api"
	// TokenEnv names the environment variable holding the bot token.
	TokenEnv = "SLACK_BOT_TOKEN"

	tokenPrefix = "xoxb-"
)

var (
	ErrMissingToken   = errors.New(TokenEnv + " not set; export your Bot User OAuth Token (xoxb-...)")
	ErrMalformedToken = errors.New(TokenEnv + " should start with 'xoxb-'")
	ErrRateLimited    = errors.New("rate limited")
)

// APIError is a response with "ok": false, or a non-200 status.
type APIError struct {
	Method string
	Code   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Method, e.Code)
}

// Is matches ErrRateLimited for HTTP 429 and "ratelimited" responses.
func (e *APIError) Is(target error) bool {
	return target == ErrRateLimited && (e.Code == "ratelimited" || e.Code == "HTTP 429")
}

// TokenFromEnv returns the bot token from SLACK_BOT_TOKEN.
func TokenFromEnv() (string, error) {
	token := os.Getenv(TokenEnv)
	if token == "" {
		return "", ErrMissingToken
	}
	if !strings.HasPrefix(token, tokenPrefix) {
		shown := token
		if len(shown) > 8 {
			shown = shown[:8]
		}
		return "", fmt.Errorf("%w, got '%s...'", ErrMalformedToken, shown)
	}
	return token, nil
}

// Client calls the Web API with a bearer token.
type Client struct {
	baseURL     string
	http        *http.Client
	sleep       func(ctx context.Context, d time.Duration) error
	deletePause time.Duration
	retryPause  time.Duration
}

type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithSleep replaces the pause used between deletions and before retries.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) { c.sleep = sleep }
}

// New returns a client authenticating with token.
func New(token string, opts ...Option) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	c := &Client{
		baseURL:     DefaultBaseURL,
		http:        oauth2.NewClient(context.Background(), src),
		sleep:       Sleep,
		deletePause: 300 * time.Millisecond,
		retryPause:  3 * time.Second,
	}
	c.http.Timeout = 30 * time.Second
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type envelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type responseMetadata struct {
	NextCursor string `json:"next_cursor"`
}

// call POSTs payload as JSON to method and decodes a successful response
// into out, which may be nil.
func (c *Client) call(ctx context.Context, method string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Debugf("%s returned %d: %s", method, resp.StatusCode, data)
		return &APIError{Method: method, Code: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if !env.OK {
		return &APIError{Method: method, Code: env.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	return nil
}

func isCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}
