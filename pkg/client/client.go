// Package client calls a running showif server.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/imroc/req/v3"

	"github.com/goliatone/go-showif/pkg/api"
	"github.com/goliatone/go-showif/pkg/inspector"
)

// DefaultTimeout bounds every call unless WithTimeout overrides it.
const DefaultTimeout = 10 * time.Second

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
	TraceID    string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("showif: server returned %d", e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

// Client is safe for concurrent use.
type Client struct {
	http *req.Client
}

// Option configures a Client.
type Option func(*req.Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *req.Client) {
		c.SetTimeout(timeout)
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *req.Client) {
		c.SetCommonHeader(key, value)
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, options ...Option) *Client {
	c := req.C().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(DefaultTimeout).
		SetCommonHeader("Accept", "application/json").
		SetCommonErrorResult(&api.ErrorResponse{})
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return &Client{http: c}
}

func (c *Client) Health(ctx context.Context) (api.HealthResponse, error) {
	var out api.HealthResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetSuccessResult(&out).
		Get(api.HealthPath)
	if err := check(resp, err); err != nil {
		return api.HealthResponse{}, err
	}
	return out, nil
}

// Evaluate asks the server for the verdict of one rule. Error verdicts are
// returned as verdicts, not as errors.
func (c *Client) Evaluate(ctx context.Context, request api.EvaluateRequest) (api.EvaluateResponse, error) {
	var out api.EvaluateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&request).
		SetSuccessResult(&out).
		Post(api.EvaluatePath)
	if err := check(resp, err); err != nil {
		return api.EvaluateResponse{}, err
	}
	return out, nil
}

// Inspect lays out object (a JSON object file) on the server.
func (c *Client) Inspect(ctx context.Context, object json.RawMessage) (inspector.Layout, error) {
	var out api.InspectResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&api.InspectRequest{Object: object}).
		SetSuccessResult(&out).
		Post(api.InspectPath)
	if err := check(resp, err); err != nil {
		return inspector.Layout{}, err
	}
	return out.Layout, nil
}

// RenderParams selects a server-side renderer and its options.
type RenderParams struct {
	Format     string
	ShowHidden bool
	ShowRules  bool
}

// Render inspects object and returns the rendered body with its content type.
func (c *Client) Render(ctx context.Context, object json.RawMessage, params RenderParams) ([]byte, string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&api.InspectRequest{Object: object, Format: params.Format}).
		SetQueryParam("hidden", strconv.FormatBool(params.ShowHidden)).
		SetQueryParam("rules", strconv.FormatBool(params.ShowRules)).
		Post(api.InspectPath)
	if err := check(resp, err); err != nil {
		return nil, "", err
	}
	return resp.Bytes(), resp.GetContentType(), nil
}

func check(resp *req.Response, err error) error {
	if err != nil {
		return fmt.Errorf("showif: request failed: %w", err)
	}
	if resp.IsSuccessState() {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	if body, ok := resp.ErrorResult().(*api.ErrorResponse); ok && body != nil {
		apiErr.Message = body.Error
		apiErr.Details = body.Details
		apiErr.TraceID = body.TraceID
	}
	if apiErr.TraceID == "" {
		apiErr.TraceID = resp.GetHeader(api.TraceHeader)
	}
	return apiErr
}
