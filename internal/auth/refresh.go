package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"tasker/internal/session"
)

// ErrSessionExpired is returned when a 401 could not be recovered by
// refreshing the access token. The stored session has been cleared.
var ErrSessionExpired = errors.New("session expired")

// errNoRefreshToken is the refresh failure cause when no refresh token is stored.
var errNoRefreshToken = errors.New("no refresh token stored")

// State is the refresh state of a RefreshTransport.
type State int

const (
	// Idle means no refresh is in flight.
	Idle State = iota

	// Refreshing means at least one refresh call is in flight.
	Refreshing
)

func (s State) String() string {
	if s == Refreshing {
		return "refreshing"
	}
	return "idle"
}

const refreshKey = "refresh"

// DefaultRefreshTimeout bounds a refresh call when WithRefreshTimeout is not set.
const DefaultRefreshTimeout = 30 * time.Second

// RefreshTransport replays a request once after a 401, using a freshly
// minted access token.
//
// A request is retried at most once: the replay carries a mark in its
// context and a 401 on the replay is returned to the caller as is. Public
// requests and requests whose body cannot be rewound are never retried.
type RefreshTransport struct {
	base      http.RoundTripper
	store     session.Store
	refresher Refresher
	logger    *slog.Logger
	onExpired func()
	coalesce  bool
	timeout   time.Duration

	group     singleflight.Group
	inFlight  atomic.Int32
	refreshes atomic.Int64
}

// Option configures a RefreshTransport.
type Option func(*RefreshTransport)

// WithLogger sets the logger. Token values are never logged.
func WithLogger(l *slog.Logger) Option {
	return func(t *RefreshTransport) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithSessionExpiredHook sets a callback run after an unrecoverable refresh
// failure, once the store has been cleared.
func WithSessionExpiredHook(fn func()) Option {
	return func(t *RefreshTransport) {
		t.onExpired = fn
	}
}

// WithCoalescing controls whether concurrent 401s share one refresh call.
// Enabled by default. When disabled every 401 performs its own refresh.
func WithCoalescing(enabled bool) Option {
	return func(t *RefreshTransport) {
		t.coalesce = enabled
	}
}

// WithRefreshTimeout bounds each refresh call, including a shared one that
// outlives the request that started it. Non-positive values are ignored.
func WithRefreshTimeout(d time.Duration) Option {
	return func(t *RefreshTransport) {
		if d > 0 {
			t.timeout = d
		}
	}
}

// NewRefreshTransport wraps base, which is normally a BearerTransport over
// the same store.
func NewRefreshTransport(base http.RoundTripper, store session.Store, refresher Refresher, opts ...Option) *RefreshTransport {
	t := &RefreshTransport{
		base:      base,
		store:     store,
		refresher: refresher,
		logger:    slog.New(slog.DiscardHandler),
		coalesce:  true,
		timeout:   DefaultRefreshTimeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewClient returns an HTTP client that authenticates requests from store
// and refreshes the access token on 401.
func NewClient(base http.RoundTripper, store session.Store, refresher Refresher, opts ...Option) *http.Client {
	bearer := &BearerTransport{Base: base, Store: store}
	return &http.Client{Transport: NewRefreshTransport(bearer, store, refresher, opts...)}
}

// State reports whether a refresh is currently in flight.
func (t *RefreshTransport) State() State {
	if t.inFlight.Load() > 0 {
		return Refreshing
	}
	return Idle
}

// Refreshes returns the number of refresh calls performed so far.
func (t *RefreshTransport) Refreshes() int64 {
	return t.refreshes.Load()
}

// RoundTrip implements http.RoundTripper.
func (t *RefreshTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, sent := withSentToken(req.Context())
	resp, err := t.base.RoundTrip(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized || IsPublic(ctx) || IsRetried(ctx) {
		return resp, nil
	}
	if !rewindable(req) {
		t.logger.Debug("not retrying 401, request body cannot be replayed",
			"method", req.Method, "url", req.URL.Redacted())
		return resp, nil
	}

	// The 401 is consumed here; the caller sees only the replay's outcome
	drainAndClose(resp.Body)

	ctx = markRetried(req.Context())
	access, err := t.refresh(ctx, *sent)
	if err != nil {
		return nil, err
	}

	retry := req.Clone(ctx)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("rewind request body: %w", err)
		}
		retry.Body = body
	}
	(&oauth2.Token{AccessToken: access}).SetAuthHeader(retry)

	t.logger.Debug("replaying request after refresh", "method", req.Method, "url", req.URL.Redacted())
	return t.base.RoundTrip(retry)
}

// refresh returns an access token to replay with. sent is the token the
// rejected request carried.
func (t *RefreshTransport) refresh(ctx context.Context, sent string) (string, error) {
	if !t.coalesce {
		ctx, cancel := context.WithTimeout(ctx, t.timeout)
		defer cancel()
		return t.doRefresh(ctx)
	}

	ch := t.group.DoChan(refreshKey, func() (any, error) {
		// A 401 that lost the race with a finished refresh replays with
		// the token that refresh stored
		if current, ok := t.store.Get(session.Access); ok && sent != "" && current != sent {
			t.logger.Debug("access token already refreshed, replaying")
			return current, nil
		}

		// The shared call must not die with whichever caller started it
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.timeout)
		defer cancel()
		return t.doRefresh(shared)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (t *RefreshTransport) doRefresh(ctx context.Context) (string, error) {
	t.inFlight.Add(1)
	defer t.inFlight.Add(-1)
	t.refreshes.Add(1)

	refreshToken, ok := t.store.Get(session.Refresh)
	if !ok {
		return "", t.expire(errNoRefreshToken)
	}

	t.logger.Debug("refreshing access token")
	access, err := t.refresher.Refresh(ctx, refreshToken)
	if err != nil {
		return "", t.expire(err)
	}

	if err := t.store.Set(session.Access, access); err != nil {
		return "", fmt.Errorf("store refreshed access token: %w", err)
	}
	t.logger.Debug("access token refreshed")
	return access, nil
}

// expire clears the session and notifies the hook.
func (t *RefreshTransport) expire(cause error) error {
	t.logger.Warn("token refresh failed, clearing session", "error", cause)
	if err := t.store.Clear(); err != nil {
		t.logger.Error("failed to clear session", "error", err)
	}
	if t.onExpired != nil {
		t.onExpired()
	}
	return fmt.Errorf("%w: %w", ErrSessionExpired, cause)
}

func rewindable(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

func drainAndClose(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	body.Close()
}
