// Package clipboard provides ClipboardSink implementations backed by the
// operating system clipboard and by memory.
package clipboard

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/garyjia/station-report/internal/application/port"
)

// SystemSink writes to the desktop clipboard (xclip/xsel/wl-copy, pbcopy or the Windows API)
type SystemSink struct {
	logger *zap.Logger
}

// NewSystemSink creates a sink for the host clipboard
func NewSystemSink(logger *zap.Logger) *SystemSink {
	return &SystemSink{logger: logger}
}

// Available reports whether the host has a usable clipboard utility
func (s *SystemSink) Available() bool {
	return !clipboard.Unsupported
}

// WriteText implements port.ClipboardSink
func (s *SystemSink) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available on this host")
	}

	if err := clipboard.WriteAll(text); err != nil {
		s.logger.Error("System clipboard write failed", zap.Error(err))
		return fmt.Errorf("failed to write system clipboard: %w", err)
	}

	s.logger.Debug("System clipboard updated", zap.Int("length", len(text)))
	return nil
}

var _ port.ClipboardSink = (*SystemSink)(nil)
