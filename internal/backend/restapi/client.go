// Package restapi implements the service.Service interface against the task REST backend.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"google.golang.org/api/googleapi"

	"tasker/internal/auth"
	"tasker/internal/config"
	"tasker/internal/service"
	"tasker/internal/session"
)

// Endpoint paths relative to the API root.
const (
	tokenPath        = "/token/"
	tokenRefreshPath = "/token/refresh/"
	registerPath     = "/register/"
	tasksPath        = "/tasks/"
	categoriesPath   = "/categories/"
	usersPath        = "/users/"
)

// Client implements service.Service over HTTP.
type Client struct {
	baseURL   string
	http      *http.Client
	transport *auth.RefreshTransport
	store     session.Store
	timeout   time.Duration
	logger    *slog.Logger
}

type options struct {
	base      http.RoundTripper
	logger    *slog.Logger
	onExpired func()
}

// Option configures a Client.
type Option func(*options)

// WithTransport sets the underlying HTTP transport (for testing).
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.base = rt }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSessionExpiredHook runs fn once the session has been cleared after a
// failed refresh.
func WithSessionExpiredHook(fn func()) Option {
	return func(o *options) { o.onExpired = fn }
}

// New creates a client for cfg.BaseURL. Tokens are read from and written to store.
// A non-positive cfg.Timeout falls back to config.DefaultTimeout.
func New(cfg *config.Config, store session.Store, opts ...Option) *Client {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	refresher := &auth.EndpointRefresher{
		URL:    cfg.BaseURL + tokenRefreshPath,
		Client: &http.Client{Transport: o.base, Timeout: timeout},
	}

	bearer := &auth.BearerTransport{Base: o.base, Store: store}
	transport := auth.NewRefreshTransport(bearer, store, refresher,
		auth.WithLogger(o.logger),
		auth.WithCoalescing(cfg.CoalesceRefresh),
		auth.WithRefreshTimeout(timeout),
		auth.WithSessionExpiredHook(o.onExpired),
	)

	return &Client{
		baseURL:   cfg.BaseURL,
		http:      &http.Client{Transport: transport},
		transport: transport,
		store:     store,
		timeout:   timeout,
		logger:    o.logger,
	}
}

// NewFromConfig creates a client whose session lives in cfg's token file.
func NewFromConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return New(cfg, session.NewFileStore(cfg.TokenPath()), opts...), nil
}

// Login implements service.Service.
func (c *Client) Login(ctx context.Context, username, password string) (service.Credentials, error) {
	body := map[string]string{"username": username, "password": password}

	var creds service.Credentials
	err := c.do(auth.Public(ctx), http.MethodPost, tokenPath, body, &creds)
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusBadRequest) {
			return service.Credentials{}, service.ErrAuthentication
		}
		return service.Credentials{}, err
	}
	if creds.Access == "" || creds.Refresh == "" {
		return service.Credentials{}, errors.New("login response is missing tokens")
	}

	if err := c.store.Set(session.Access, creds.Access); err != nil {
		return service.Credentials{}, c.abandonLogin(err)
	}
	if err := c.store.Set(session.Refresh, creds.Refresh); err != nil {
		return service.Credentials{}, c.abandonLogin(err)
	}

	c.logger.Debug("logged in", "username", username)
	return creds, nil
}

// abandonLogin removes a half-written session.
func (c *Client) abandonLogin(err error) error {
	_ = c.store.Clear()
	return fmt.Errorf("failed to save session: %w", err)
}

// Register implements service.Service.
func (c *Client) Register(ctx context.Context, username, password, email string) error {
	body := map[string]string{"username": username, "password": password, "email": email}
	return c.do(auth.Public(ctx), http.MethodPost, registerPath, body, nil)
}

// Logout implements service.Service.
func (c *Client) Logout(ctx context.Context) error {
	return c.store.Clear()
}

// Authenticated implements service.Service.
func (c *Client) Authenticated() bool {
	_, ok := c.store.Get(session.Access)
	return ok
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context, page int) (service.TaskPage, error) {
	if page < 1 {
		return service.TaskPage{}, fmt.Errorf("invalid page number: %d", page)
	}

	q := url.Values{"page": {strconv.Itoa(page)}}
	var result service.TaskPage
	if err := c.do(ctx, http.MethodGet, tasksPath+"?"+q.Encode(), nil, &result); err != nil {
		return service.TaskPage{}, err
	}
	return result, nil
}

// GetTask implements service.Service.
func (c *Client) GetTask(ctx context.Context, id int) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	if err := in.Validate(); err != nil {
		return service.Task{}, err
	}

	var task service.Task
	if err := c.do(ctx, http.MethodPost, tasksPath, in, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id int, in service.TaskInput) (service.Task, error) {
	if err := in.Validate(); err != nil {
		return service.Task{}, err
	}

	var task service.Task
	if err := c.do(ctx, http.MethodPut, taskPath(id), in, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

// ToggleTaskComplete implements service.Service.
func (c *Client) ToggleTaskComplete(ctx context.Context, id int) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, http.MethodPatch, taskPath(id)+"toggle_complete/", struct{}{}, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// ShareTask implements service.Service.
func (c *Client) ShareTask(ctx context.Context, taskID, userID int) error {
	body := map[string]int{"user_id": userID}
	return c.do(ctx, http.MethodPost, taskPath(taskID)+"share/", body, nil)
}

// ListCategories implements service.Service.
// Categories are optional decoration, so failures degrade to an empty list.
func (c *Client) ListCategories(ctx context.Context) []service.Category {
	var resp struct {
		Results []service.Category `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, categoriesPath, nil, &resp); err != nil {
		c.logger.Warn("listing categories failed", "error", err)
		return []service.Category{}
	}
	if resp.Results == nil {
		return []service.Category{}
	}
	return resp.Results
}

// CreateCategory implements service.Service.
func (c *Client) CreateCategory(ctx context.Context, name string) (service.Category, error) {
	var cat service.Category
	if err := c.do(ctx, http.MethodPost, categoriesPath, map[string]string{"name": name}, &cat); err != nil {
		return service.Category{}, err
	}
	return cat, nil
}

// ListUsers implements service.Service.
// Users are optional decoration, so failures degrade to an empty list.
func (c *Client) ListUsers(ctx context.Context) []service.User {
	var resp struct {
		Results []service.User `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, usersPath, nil, &resp); err != nil {
		c.logger.Warn("listing users failed", "error", err)
		return []service.User{}
	}
	if resp.Results == nil {
		return []service.User{}
	}
	return resp.Results
}

// RefreshState reports whether a token refresh is in flight.
func (c *Client) RefreshState() auth.State {
	return c.transport.State()
}

// requestIDHeader carries a per-call ID; a replay after refresh reuses it.
const requestIDHeader = "X-Request-ID"

func newRequestID() string {
	return "req-" + strings.ToLower(ulid.Make().String())
}

func taskPath(id int) string {
	return tasksPath + strconv.Itoa(id) + "/"
}

// do sends a JSON request and decodes a JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := newRequestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("api request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return wrapError(err)
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return wrapError(err)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
