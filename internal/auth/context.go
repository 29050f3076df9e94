package auth

import "context"

type contextKey int

const (
	publicKey contextKey = iota
	retriedKey
	sentTokenKey
)

// Public marks requests made with the returned context as unauthenticated.
// Public requests never carry a bearer header and are never intercepted.
func Public(ctx context.Context) context.Context {
	return context.WithValue(ctx, publicKey, true)
}

// IsPublic reports whether ctx was marked by Public.
func IsPublic(ctx context.Context) bool {
	v, _ := ctx.Value(publicKey).(bool)
	return v
}

// markRetried flags a request context as already replayed once.
func markRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retriedKey, true)
}

// IsRetried reports whether the request owning ctx is a replay.
func IsRetried(ctx context.Context) bool {
	v, _ := ctx.Value(retriedKey).(bool)
	return v
}

// withSentToken returns a context in which BearerTransport records the
// access token it attached.
func withSentToken(ctx context.Context) (context.Context, *string) {
	sent := new(string)
	return context.WithValue(ctx, sentTokenKey, sent), sent
}
