package service

import (
	"context"

	"github.com/garyjia/station-report/internal/application/port"
	"github.com/garyjia/station-report/internal/domain/report"
)

// ClipboardExporter copies rendered reports through a ClipboardSink
type ClipboardExporter struct {
	sink   port.ClipboardSink
	logger Logger
}

// NewClipboardExporter creates a new ClipboardExporter
func NewClipboardExporter(sink port.ClipboardSink, logger Logger) *ClipboardExporter {
	return &ClipboardExporter{sink: sink, logger: logger}
}

// Copy writes text to the sink. Failures are returned as
// *report.ClipboardDeniedError and are never retried here.
func (e *ClipboardExporter) Copy(ctx context.Context, text string) error {
	if text == "" {
		return report.ErrEmptyContent
	}

	if err := e.sink.WriteText(ctx, text); err != nil {
		e.logger.Error("Clipboard write failed", "error", err, "length", len(text))
		return &report.ClipboardDeniedError{Cause: err}
	}

	e.logger.Info("Report copied to clipboard", "length", len(text))
	return nil
}

// CopyAsync copies a snapshot of text without blocking the caller. The
// returned channel receives exactly one result.
func (e *ClipboardExporter) CopyAsync(ctx context.Context, text string) <-chan error {
	done := make(chan error, 1)
	if text == "" {
		done <- report.ErrEmptyContent
		return done
	}

	go func(snapshot string) {
		done <- e.Copy(ctx, snapshot)
	}(text)
	return done
}
