// Package log builds [log/slog] handlers backed by charmbracelet/log.
package log
