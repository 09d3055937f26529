// Package tracing times operations and reports them through [slog].
package tracing
