package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Refresher exchanges a refresh token for a new access token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// RefresherFunc adapts a function to the Refresher interface.
type RefresherFunc func(ctx context.Context, refreshToken string) (string, error)

// Refresh implements Refresher.
func (f RefresherFunc) Refresh(ctx context.Context, refreshToken string) (string, error) {
	return f(ctx, refreshToken)
}

// EndpointRefresher calls a token refresh endpoint that accepts
// {"refresh": "<token>"} and answers {"access": "<token>"}.
type EndpointRefresher struct {
	// URL is the absolute refresh endpoint, e.g. http://host/api/token/refresh/.
	URL string

	// Client performs the call. It must not be an intercepted client.
	// Defaults to a plain client with DefaultRefreshTimeout.
	Client *http.Client
}

var defaultRefreshClient = &http.Client{Timeout: DefaultRefreshTimeout}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

// Refresh implements Refresher.
func (r *EndpointRefresher) Refresh(ctx context.Context, refreshToken string) (string, error) {
	body, err := json.Marshal(refreshRequest{Refresh: refreshToken})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(Public(ctx), http.MethodPost, r.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	client := r.Client
	if client == nil {
		client = defaultRefreshClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return "", err
	}

	var out refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("parse refresh response: %w", err)
	}
	if out.Access == "" {
		return "", errors.New("refresh response carried no access token")
	}
	return out.Access, nil
}
