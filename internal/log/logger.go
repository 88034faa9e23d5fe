// Package log wires structured logging for the application. All packages log
// through log/slog; this package owns handler setup and the shared field
// vocabulary so log output stays queryable across binaries.
package log

import (
	"log/slog"
	"os"
)

// Setup installs a text slog handler as the process default and returns it.
// Component is attached to every record so the three binaries can share one
// log pipeline.
func Setup(component string, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler).With(FieldComponent, component)
	slog.SetDefault(logger)
	return logger
}
