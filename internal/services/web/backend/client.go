// Package backend is the HTTP client for the student registration REST API.
//
// Every request carries the bearer token stored in its context (see
// WithToken), so callers never handle authorization headers directly.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/studentreg/web/internal/platform/timeouts"
)

// DefaultBaseURL is the API root used when none is configured.
const DefaultBaseURL = "http://localhost:5000/api"

// DefaultPageSize is the admin listing page size.
const DefaultPageSize = 10

const (
	maxErrorBody = 64 << 10
	tracerName   = "github.com/studentreg/web/internal/services/web/backend"
)

type tokenKey struct{}

// WithToken returns a context whose backend requests carry token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, strings.TrimSpace(token))
}

// TokenFromContext returns the bearer token attached to ctx.
func TokenFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	token, _ := ctx.Value(tokenKey{}).(string)
	return token, token != ""
}

// Client calls the REST API rooted at a fixed base URL.
type Client struct {
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New builds a client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("api base url %q must be http or https", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(parsed.String(), "/"),
		http:    &http.Client{Timeout: timeouts.BackendRequest},
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.baseURL }

// Register creates an account and returns its token and record.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, "register", http.MethodPost, "/register", nil, req, &out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

// Login exchanges credentials for a token and user record.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, "login", http.MethodPost, "/login", nil, creds, &out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

// Profile returns the record of the token holder.
func (c *Client) Profile(ctx context.Context) (User, error) {
	var out dataEnvelope[User]
	if err := c.do(ctx, "profile", http.MethodGet, "/profile", nil, nil, &out); err != nil {
		return User{}, err
	}
	return out.Data, nil
}

// ListUsers returns one page of users. Non-positive arguments use page 1 and
// DefaultPageSize.
func (c *Client) ListUsers(ctx context.Context, page, limit int) (UserPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	var out UserPage
	if err := c.do(ctx, "list users", http.MethodGet, "/admin/users", query, nil, &out); err != nil {
		return UserPage{}, err
	}
	return out, nil
}

// UpdateUser applies update to the user with id.
func (c *Client) UpdateUser(ctx context.Context, id UserID, update UserUpdate) (User, error) {
	var out userResult
	if err := c.do(ctx, "update user", http.MethodPut, userPath(id), nil, update, &out); err != nil {
		return User{}, err
	}
	if out.User.ID == "" {
		out.User.ID = id
	}
	return out.User, nil
}

// DeleteUser removes the user with id.
func (c *Client) DeleteUser(ctx context.Context, id UserID) error {
	return c.do(ctx, "delete user", http.MethodDelete, userPath(id), nil, nil, nil)
}

func userPath(id UserID) string {
	return "/admin/users/" + url.PathEscape(strings.TrimSpace(id.String()))
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := c.tracer.Start(ctx, "backend "+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	err := c.roundTrip(ctx, op, method, path, query, body, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, op+" failed")
	}
	if status := StatusCode(err); status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, op, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &Error{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := TokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		if _, ok := out.(optionalBody); ok {
			return nil
		}
		return &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", io.ErrUnexpectedEOF)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(payload.Message); msg != "" {
		return msg
	}
	return strings.TrimSpace(payload.Error)
}
