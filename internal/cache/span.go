package cache

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// startCacheSpan opens a child span when the request carries a Sentry hub.
// It returns nil otherwise, and every helper below accepts a nil span.
func startCacheSpan(ctx context.Context, operation, key string) *sentry.Span {
	if sentry.GetHubFromContext(ctx) == nil {
		return nil
	}

	span := sentry.StartSpan(ctx, "cache.inmemory."+operation)
	span.Op = "db.cache"
	span.Description = "cache.inmemory." + operation
	span.SetData("operation", operation)
	span.SetData("key", key)
	return span
}

// finishCacheSpan records whether the key was found and closes the span
func finishCacheSpan(span *sentry.Span, hit bool) {
	if span == nil {
		return
	}
	span.SetData("hit", hit)
	span.Status = sentry.SpanStatusOK
	span.Finish()
}
