package core

import "context"

// Context keys for pipeline options
type contextKey string

const (
	suppressHeaderKey contextKey = "suppressHeader"
	suppressReportKey contextKey = "suppressReport"
)

// WithSuppressHeader sets whether headers should be suppressed in the context
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show headers
	}
	suppress, ok := val.(bool)
	return ok && suppress
}

// withSuppressReport replaces the per-file batch report with a one-line summary
func withSuppressReport(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressReportKey, true)
}

// shouldSuppressReport returns whether the per-file batch report is suppressed
func shouldSuppressReport(ctx context.Context) bool {
	val := ctx.Value(suppressReportKey)
	if val == nil {
		return false
	}
	suppress, ok := val.(bool)
	return ok && suppress
}
