// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chart builds QuickChart image URLs for the daily stats post.
package chart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// DefaultBaseURL is the public QuickChart endpoint.
	DefaultBaseURL = "https://quickchart.io"

	// Width and Height are the default image size.
	Width  = 600
	Height = 300

	// MaxGetURL is the length from which a chart is created by POST instead.
	MaxGetURL = 2000

	background  = "#FFFFFF"
	postTimeout = 15 * time.Second
	chartJS     = "4"
)

// Builder renders chart configurations into image URLs.
type Builder struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithBaseURL points the builder at another QuickChart instance.
func WithBaseURL(u string) Option {
	return func(b *Builder) { b.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient replaces the client used for POST requests.
func WithHTTPClient(c *http.Client) Option {
	return func(b *Builder) { b.client = c }
}

// WithClock replaces the time source of the cache-busting parameter.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// New returns a Builder for the public endpoint unless overridden.
func New(opts ...Option) *Builder {
	b := &Builder{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: postTimeout},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// URL renders a Chart.js config given as a JSON-serializable value.
func (b *Builder) URL(ctx context.Context, config any, width, height int) (string, error) {
	data, err := compactJSON(config)
	if err != nil {
		return "", fmt.Errorf("encoding chart config: %w", err)
	}
	return b.render(ctx, string(data), config, width, height, true), nil
}

// RawURL renders a config given as JavaScript source, which allows callback
// functions in axis options.
func (b *Builder) RawURL(ctx context.Context, js string, width, height int) string {
	return b.render(ctx, js, js, width, height, false)
}

// render returns the GET URL when it is short enough. Otherwise it asks the
// create endpoint for a hosted URL and falls back to the GET URL on failure.
func (b *Builder) render(ctx context.Context, encoded string, chart any, width, height int, versioned bool) string {
	getURL := fmt.Sprintf("%s/chart?c=%s&w=%d&h=%d&bkg=%s&cb=%d",
		b.baseURL, url.QueryEscape(encoded), width, height, url.QueryEscape(background), b.now().Unix())
	if len(getURL) < MaxGetURL {
		return getURL
	}

	payload := map[string]any{
		"chart":           chart,
		"width":           width,
		"height":          height,
		"backgroundColor": background,
	}
	if versioned {
		payload["version"] = chartJS
	}
	created, err := b.create(ctx, payload)
	if err != nil {
		log.WithError(err).Warn("chart create failed, using long GET URL")
		return getURL
	}
	if created == "" {
		return getURL
	}
	return created
}

func (b *Builder) create(ctx context.Context, payload map[string]any) (string, error) {
	body, err := compactJSON(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/chart/create", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chart create returned status %d", resp.StatusCode)
	}
	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding chart create response: %w", err)
	}
	return result.URL, nil
}

func compactJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
