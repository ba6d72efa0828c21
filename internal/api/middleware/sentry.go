package middleware

import (
	"net/http"
	"time"

	"github.com/Conceptual-Machines/moviepicks/internal/logger"
	"github.com/Conceptual-Machines/moviepicks/internal/metrics"
	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sentryFlushTimeout = 2 * time.Second

	// unmatchedEndpoint names requests that matched no route
	unmatchedEndpoint = "unmatched"
)

var sentryMetrics = metrics.NewSentryMetrics()

// APIRecorder receives per-request counters (CloudWatch in production)
type APIRecorder interface {
	RecordAPIRequest(endpoint string, statusCode int, duration time.Duration)
}

// RequestTracking tags every request with an id, logs its outcome and records it per route
func RequestTracking(recorder APIRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		status := c.Writer.Status()
		fields := logger.WithContext(c)
		fields["duration_ms"] = duration.Milliseconds()
		fields["status_code"] = status
		fields["client_ip"] = c.ClientIP()
		logRequest(status, fields)

		endpoint := endpointName(c)
		sentryMetrics.RecordAPIRequest(c.Request.Context(), endpoint, status, duration)
		if recorder != nil {
			recorder.RecordAPIRequest(endpoint, status, duration)
		}
	}
}

func logRequest(status int, fields logger.Fields) {
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("Request failed with server error", nil, fields)
	case status >= http.StatusBadRequest:
		logger.Warn("Request failed with client error", fields)
	default:
		logger.Info("Request completed", fields)
	}
}

// endpointName is the matched route pattern, or unmatchedEndpoint
func endpointName(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedEndpoint
}

// SentryMiddleware attaches a Sentry hub to each request
func SentryMiddleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         sentryFlushTimeout,
	})
}

// RecoverWithSentry turns a panic into a 500 and reports it with the request's form id
func RecoverWithSentry() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			fields := logger.WithContext(c)
			fields["client_ip"] = c.ClientIP()
			reportPanic(c, recovered, fields)

			fields["error"] = recovered
			logger.Error("Panic recovered", nil, fields)

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":      "Internal server error",
				"request_id": c.GetString("request_id"),
			})
		}()
		c.Next()
	}
}

func reportPanic(c *gin.Context, recovered interface{}, fields logger.Fields) {
	hub := sentrygin.GetHubFromContext(c)
	if hub == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetRequest(c.Request)
		scope.SetContext("request", map[string]interface{}(fields))
		logger.TagScope(scope, fields)
		hub.RecoverWithContext(c.Request.Context(), recovered)
	})
}
