package transport

import "context"

type (
	contextRetryKey string
)

// ContextRetryKey marks a request as the single permitted retry of an original request
const ContextRetryKey contextRetryKey = "authRetry"

// WithRetry returns a context marking requests as already retried
func WithRetry(ctx context.Context) context.Context {
	return context.WithValue(ctx, ContextRetryKey, true)
}

// IsRetry reports whether the request context carries the retry marker
func IsRetry(ctx context.Context) bool {
	if v := ctx.Value(ContextRetryKey); v != nil {
		if retried, ok := v.(bool); ok {
			return retried
		}
	}
	return false
}
