package clipboard

import (
	"context"
	"sync"

	"github.com/garyjia/station-report/internal/application/port"
)

// MemorySink holds the last written text in memory. Setting Deny makes every
// write fail with that error, which stands in for a refused permission.
type MemorySink struct {
	mu     sync.Mutex
	text   string
	writes int
	Deny   error
}

// NewMemorySink creates an empty in-memory clipboard
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// WriteText implements port.ClipboardSink
func (m *MemorySink) WriteText(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Deny != nil {
		return m.Deny
	}
	m.text = text
	m.writes++
	return nil
}

// Text returns the clipboard contents
func (m *MemorySink) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Writes returns the number of successful writes
func (m *MemorySink) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

var _ port.ClipboardSink = (*MemorySink)(nil)
