package logger

import (
	"context"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// sensitiveParams are query parameters never written to a log
var sensitiveParams = []string{"access_token", "token", "oauth_token"}

// RedactURL masks credentials carried in the query string of rawURL.
// Unparseable input is returned as a fixed placeholder.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid url>"
	}
	q := u.Query()
	changed := false
	for _, p := range sensitiveParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// LogRequest logs a completed HTTP call at debug level.
// status is 0 when no response was received.
func LogRequest(l Logger, method, rawURL string, status int, started time.Time) {
	l.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":      method,
		"url":         RedactURL(rawURL),
		"status_code": status,
		"duration":    time.Since(started),
	})
}

// LogRunSummary logs the counters of a finished backup run
func LogRunSummary(l Logger, runID string, found, saved, failedDownloads, failedUploads int) {
	l.InfoWithFields("Backup run finished", map[string]interface{}{
		"run_id":           runID,
		"photos_found":     found,
		"photos_saved":     saved,
		"failed_downloads": failedDownloads,
		"failed_uploads":   failedUploads,
	})
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}
