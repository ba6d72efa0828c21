package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	// HTTP status code threshold for considering a request successful
	successStatusCodeThreshold = http.StatusBadRequest
)

// SentryMetrics handles custom metrics for Sentry
type SentryMetrics struct {
	enabled bool
}

// NewSentryMetrics creates a new Sentry metrics client
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{
		enabled: true, // Spans are dropped by the SDK when Sentry is not initialised
	}
}

// RecordAPIRequest records API request metrics
func (m *SentryMetrics) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "api.request")
	defer span.Finish()

	span.SetTag("endpoint", endpoint)
	span.SetTag("status_code", fmt.Sprintf("%d", statusCode))
	span.SetTag("success", fmt.Sprintf("%t", statusCode < successStatusCodeThreshold))

	span.SetData("duration_ms", duration.Milliseconds())
	span.SetData("endpoint", endpoint)
	span.SetData("status_code", statusCode)

	if statusCode < successStatusCodeThreshold {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}

	span.Description = fmt.Sprintf("API Request: %s", endpoint)
}

// RecordSubmission records an accepted preference submission
func (m *SentryMetrics) RecordSubmission(ctx context.Context, genreCount int, hasMood, hasKeywords bool) {
	if !m.enabled {
		return
	}

	if transaction := sentry.TransactionFromContext(ctx); transaction != nil {
		transaction.SetTag("preferences.genre_count", fmt.Sprintf("%d", genreCount))
		transaction.SetData("preferences.genre_count", genreCount)
	}

	span := sentry.StartSpan(ctx, "preferences.submission")
	defer span.Finish()

	span.SetTag("genre_count", fmt.Sprintf("%d", genreCount))
	span.SetTag("has_mood", fmt.Sprintf("%t", hasMood))
	span.SetTag("has_keywords", fmt.Sprintf("%t", hasKeywords))
	span.SetData("genre_count", genreCount)

	span.Status = sentry.SpanStatusOK
	span.Description = fmt.Sprintf("Preference Submission: %d genres", genreCount)
}

// RecordGenreToggle records a genre toggle and whether it changed the selection
func (m *SentryMetrics) RecordGenreToggle(ctx context.Context, genre string, changed bool) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "preferences.toggle")
	defer span.Finish()

	span.SetTag("genre", genre)
	span.SetTag("changed", fmt.Sprintf("%t", changed))
	span.Status = sentry.SpanStatusOK
	span.Description = fmt.Sprintf("Genre Toggle: %s", genre)
}
