package port

import "context"

// ClipboardSink receives rendered report text on behalf of the operator
type ClipboardSink interface {
	WriteText(ctx context.Context, text string) error
}
