package testutil

import (
	"net/http"
	"time"

	id "terraspark/pkg/domain"
	"terraspark/pkg/requestcontext"
)

// WithIdentity attaches an authenticated account to the request context,
// simulating what the auth middleware does for a verified token. Invalid IDs
// are silently ignored so tests can also exercise the unauthenticated path.
func WithIdentity(req *http.Request, account string) *http.Request {
	parsed, err := id.ParseAccountID(account)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithIdentity(req.Context(), parsed))
}

// WithRequestID attaches a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithTime pins the request time, letting tests assert on timestamps.
func WithTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
