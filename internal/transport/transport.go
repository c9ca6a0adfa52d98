// Package transport holds the http.RoundTripper decorators every backend
// request passes through.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/client-admin/internal/auth"
	"github.com/straye-as/client-admin/internal/ui"
	"go.uber.org/zap"
)

// Operator-facing messages
const (
	MsgSignIn        = "Please sign in to continue."
	MsgNotAuthorized = "You are not authorized to perform this action."
	MsgRequestFailed = "Request failed. Try again?"
	ActionRetry      = "Retry"
)

// DefaultRetryWindow is how long a retry offer stays open
const DefaultRetryWindow = 5 * time.Second

// RequestIDHeader carries the per-request id
const RequestIDHeader = "X-Request-ID"

// Middleware decorates a RoundTripper
type Middleware func(next http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Chain wraps base with mws; the first middleware sees the request first
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	rt := base
	for i := len(mws) - 1; i >= 0; i-- {
		rt = mws[i](rt)
	}
	return rt
}

// TokenSource supplies the current bearer token, "" when signed out
type TokenSource interface {
	Token() string
}

// Bearer attaches "Authorization: Bearer <token>" to a copy of each request
// when a token is present. The caller's request is never modified.
func Bearer(tokens TokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			token := tokens.Token()
			if token == "" {
				return next.RoundTrip(req)
			}
			clone := req.Clone(req.Context())
			clone.Header.Set("Authorization", "Bearer "+token)
			return next.RoundTrip(clone)
		})
	}
}

// SessionEnder ends the current session and returns to the login screen
type SessionEnder interface {
	Logout()
}

// FailureOptions configures the Failure decorator
type FailureOptions struct {
	Session   SessionEnder
	Navigator ui.Navigator
	Notifier  ui.Notifier
	Logger    *zap.Logger
	// RetryWindow is how long the retry offer waits; zero means DefaultRetryWindow
	RetryWindow time.Duration
	// Strict treats 403 like 401
	Strict bool
}

// Failure reacts to failed requests:
//   - 401 ends the session
//   - 403 returns the operator to the clients screen (ends the session when Strict)
//   - transport errors and 5xx offer one retry of the same request
//
// The failed response or error is always returned to the caller unless a
// retry was taken, in which case the retry's outcome is returned instead.
func Failure(opts FailureOptions) Middleware {
	if opts.RetryWindow <= 0 {
		opts.RetryWindow = DefaultRetryWindow
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			req, err := replayable(req)
			if err != nil {
				return nil, err
			}

			resp, err := next.RoundTrip(req)
			if err == nil {
				switch {
				case resp.StatusCode == http.StatusUnauthorized:
					opts.Notifier.Notify(MsgSignIn)
					opts.Session.Logout()
					return resp, nil
				case resp.StatusCode == http.StatusForbidden:
					opts.Notifier.Notify(MsgNotAuthorized)
					if opts.Strict {
						opts.Session.Logout()
					} else {
						opts.Navigator.Navigate(auth.RouteClients)
					}
					return resp, nil
				case resp.StatusCode < 500 || resp.StatusCode > 599:
					return resp, nil
				}
			}

			if !opts.Notifier.Offer(req.Context(), MsgRequestFailed, ActionRetry, opts.RetryWindow) {
				return resp, err
			}

			retry, rerr := rewind(req)
			if rerr != nil {
				return resp, err
			}
			if resp != nil {
				drainAndClose(resp.Body)
			}
			opts.Logger.Info("retrying request",
				zap.String("method", req.Method),
				zap.String("url", req.URL.String()),
			)
			return next.RoundTrip(retry)
		})
	}
}

// replayable returns a request whose body can be produced again through
// GetBody. Requests without a body or with GetBody set are returned as is.
func replayable(req *http.Request) (*http.Request, error) {
	if req.Body == nil || req.Body == http.NoBody || req.GetBody != nil {
		return req, nil
	}
	data, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to buffer request body: %w", err)
	}
	clone := req.Clone(req.Context())
	clone.Body = io.NopCloser(bytes.NewReader(data))
	clone.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	clone.ContentLength = int64(len(data))
	return clone, nil
}

func rewind(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
	}
	return clone, nil
}

func drainAndClose(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}

type requestIDKey struct{}

// WithRequestID stores a request id in ctx for RequestID to reuse
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id stored in ctx, if any
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestID stamps each request with X-Request-ID. An id already on the
// request or in its context is kept, otherwise a new uuid is generated.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(RequestIDHeader) != "" {
				return next.RoundTrip(req)
			}
			id := RequestIDFromContext(req.Context())
			if id == "" {
				id = uuid.New().String()
			}
			clone := req.Clone(req.Context())
			clone.Header.Set(RequestIDHeader, id)
			return next.RoundTrip(clone)
		})
	}
}

// Logging logs each backend call at debug level and failures at warn
func Logging(logger *zap.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("request_id", req.Header.Get(RequestIDHeader)),
				zap.Duration("duration", time.Since(start)),
			}
			switch {
			case err != nil:
				logger.Warn("backend request failed", append(fields, zap.Error(err))...)
			case resp.StatusCode >= 400:
				logger.Warn("backend request returned error status", append(fields, zap.Int("status", resp.StatusCode))...)
			default:
				logger.Debug("backend request", append(fields, zap.Int("status", resp.StatusCode))...)
			}
			return resp, err
		})
	}
}
