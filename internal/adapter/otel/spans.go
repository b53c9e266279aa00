package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "nexboard"

// StartDeliverySpan starts a span for one webhook delivery.
func StartDeliverySpan(ctx context.Context, repo string, commits int) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "delivery",
		trace.WithAttributes(
			attribute.String("delivery.repo", repo),
			attribute.Int("delivery.commits", commits),
		),
	)
}

// StartCommitSpan starts a span for processing one commit within a delivery.
func StartCommitSpan(ctx context.Context, commitID string, refs int) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "commit",
		trace.WithAttributes(
			attribute.String("commit.id", commitID),
			attribute.Int("commit.refs", refs),
		),
	)
}
