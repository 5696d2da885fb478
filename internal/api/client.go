// Package api talks to the Jupiter backend over its JSON HTTP API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"jupiter-cli/internal/model"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"pkt.systems/pslog"
)

const (
	pathHomeConfigLoad   = "/home-config-load"
	pathHomeConfigUpdate = "/home-config-update"
	pathHomeTabUpdate    = "/home-tab-update"

	maxErrorBody = 64 << 10
)

type Options struct {
	BaseURL string
	Token   string

	// HTTPClient defaults to a pooled cleanhttp client.
	HTTPClient *http.Client
	// RetryMax defaults to 3. Negative disables retries.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	Logger pslog.Logger
}

type Client struct {
	baseURL string
	token   string
	http    *retryablehttp.Client
}

func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("missing api url (set --api-url, JUPITER_API_URL, or `jupiter config set api-url ...`)")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, fmt.Errorf("invalid api url: %q", opts.BaseURL)
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = opts.HTTPClient
	if rc.HTTPClient == nil {
		rc.HTTPClient = cleanhttp.DefaultPooledClient()
	}
	switch {
	case opts.RetryMax < 0:
		rc.RetryMax = 0
	case opts.RetryMax > 0:
		rc.RetryMax = opts.RetryMax
	default:
		rc.RetryMax = 3
	}
	if opts.RetryWaitMin > 0 {
		rc.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		rc.RetryWaitMax = opts.RetryWaitMax
	}
	// Hand the final response back so we can translate its status.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if opts.Logger != nil {
		rc.Logger = leveledLogger{log: opts.Logger}
	} else {
		rc.Logger = nil
	}

	return &Client{
		baseURL: base,
		token:   strings.TrimSpace(opts.Token),
		http:    rc,
	}, nil
}

// HomeConfigResult is the home configuration with every tab and widget.
type HomeConfigResult struct {
	HomeConfig model.HomeConfig   `json:"home_config"`
	Tabs       []model.HomeTab    `json:"tabs"`
	Widgets    []model.HomeWidget `json:"widgets"`
}

// UpdateAction mirrors the backend's partial-update envelope.
type UpdateAction[T any] struct {
	ShouldChange bool `json:"should_change"`
	Value        T    `json:"value,omitempty"`
}

func Change[T any](v T) UpdateAction[T] {
	return UpdateAction[T]{ShouldChange: true, Value: v}
}

type homeConfigUpdateArgs struct {
	OrderOfTabs UpdateAction[map[model.HomeTabTarget][]model.EntityID] `json:"order_of_tabs"`
}

type homeTabUpdateArgs struct {
	RefID           model.EntityID                      `json:"ref_id"`
	WidgetPlacement UpdateAction[model.WidgetPlacement] `json:"widget_placement"`
}

func (c *Client) LoadHomeConfig(ctx context.Context) (HomeConfigResult, error) {
	var out HomeConfigResult
	if err := c.call(ctx, pathHomeConfigLoad, map[string]any{"allow_archived": false}, &out); err != nil {
		return HomeConfigResult{}, err
	}
	if out.Tabs == nil {
		out.Tabs = []model.HomeTab{}
	}
	if out.Widgets == nil {
		out.Widgets = []model.HomeWidget{}
	}
	return out, nil
}

// UpdateTabOrder persists the full order_of_tabs mapping.
func (c *Client) UpdateTabOrder(ctx context.Context, order map[model.HomeTabTarget][]model.EntityID) error {
	return c.call(ctx, pathHomeConfigUpdate, homeConfigUpdateArgs{OrderOfTabs: Change(order)}, nil)
}

func (c *Client) UpdateWidgetPlacement(ctx context.Context, tabRefID model.EntityID, p model.WidgetPlacement) error {
	return c.call(ctx, pathHomeTabUpdate, homeTabUpdateArgs{RefID: tabRefID, WidgetPlacement: Change(p)}, nil)
}

func (c *Client) call(ctx context.Context, path string, in any, out any) error {
	op := strings.TrimPrefix(path, "/")
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", op, err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log := pslog.Ctx(ctx).With("op", op, "request_id", reqID)
	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("backend request failed", "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	log.Debug("backend request done", "status", resp.StatusCode, "elapsed_ms", time.Since(started).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return translateError(op, resp.StatusCode, b)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

type leveledLogger struct {
	log pslog.Logger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.log.Error(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.log.Debug(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.log.Debug(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.log.Warn(msg, kv...) }
