package util

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/httplog/v2"
)

// NewLogger structured logger shared by the http request logger and the rest of the process.
// The embedded *slog.Logger is what components receive.
func NewLogger(service string, level slog.Level, json bool) *httplog.Logger {
	return newLogger(os.Stdout, service, level, json)
}

func newLogger(w io.Writer, service string, level slog.Level, json bool) *httplog.Logger {
	return httplog.NewLogger(service, httplog.Options{
		Writer:           w,
		LogLevel:         level,
		JSON:             json,
		Concise:          true,
		MessageFieldName: "message",
		TimeFieldFormat:  time.RFC3339,
		QuietDownRoutes: []string{
			"/metrics",
			"/api/navigations/health",
		},
		QuietDownPeriod: 10 * time.Second,
	})
}
