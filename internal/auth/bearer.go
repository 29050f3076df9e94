// Package auth wraps outbound HTTP calls with bearer authentication and
// transparent access-token refresh.
//
// The pieces compose as http.RoundTripper decorators:
//
//	RefreshTransport -> BearerTransport -> base transport
//
// BearerTransport attaches the stored access token. RefreshTransport watches
// for 401 responses, mints a new access token from the refresh token and
// replays the failed request at most once.
package auth

import (
	"net/http"

	"tasker/internal/session"
)

// BearerTransport attaches "Authorization: Bearer <access token>" to every
// request that is not marked Public. Without a stored access token the
// request goes out unauthenticated.
type BearerTransport struct {
	// Base is the underlying transport. Defaults to http.DefaultTransport.
	Base http.RoundTripper

	// Store supplies the access token.
	Store session.Store
}

// RoundTrip implements http.RoundTripper.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r2 := req.Clone(req.Context())
	r2.Header.Del("Authorization")

	if !IsPublic(req.Context()) {
		if tok := session.Token(t.Store); tok != nil {
			tok.SetAuthHeader(r2)
			if sent, ok := req.Context().Value(sentTokenKey).(*string); ok {
				*sent = tok.AccessToken
			}
		}
	}

	return t.base().RoundTrip(r2)
}

func (t *BearerTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
