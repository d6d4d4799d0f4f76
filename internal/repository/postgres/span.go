package postgres

import (
	"context"

	"github.com/getsentry/sentry-go"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
)

// StartRepositorySpan creates a span for a repository operation. It returns nil when
// the context carries no Sentry hub.
func StartRepositorySpan(ctx context.Context, repository, operation string, params map[string]interface{}) *sentry.Span {
	if sentry.GetHubFromContext(ctx) == nil {
		return nil
	}

	span := sentry.StartSpan(ctx, "repository."+repository+"."+operation)
	span.Op = "db.repository"
	span.Description = "repository." + repository + "." + operation
	span.SetData("repository", repository)
	span.SetData("operation", operation)
	for k, v := range params {
		span.SetData(k, v)
	}
	return span
}

// FinishSpan records the outcome and finishes the span, nil spans are ignored
func FinishSpan(span *sentry.Span, err error) {
	if span == nil {
		return
	}
	if err != nil && !ierr.IsNotFound(err) {
		span.Status = sentry.SpanStatusInternalError
		span.SetData("error", err.Error())
	} else {
		span.Status = sentry.SpanStatusOK
	}
	span.Finish()
}
