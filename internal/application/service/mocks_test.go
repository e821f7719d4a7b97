package service

import (
	"context"
	"errors"
	"sync"
)

type mockLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msg)
}

func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

type failingStore struct{}

var errStoreDown = errors.New("disk I/O error")

func (failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errStoreDown
}

func (failingStore) Put(ctx context.Context, entries map[string]string) error {
	return errStoreDown
}

type blockingSink struct {
	release chan struct{}
	got     chan string
}

func (b *blockingSink) WriteText(ctx context.Context, text string) error {
	<-b.release
	b.got <- text
	return nil
}

type mockMetrics struct {
	generated []string
	missing   []int
	copies    []string
}

func (m *mockMetrics) ReportGenerated(kind string, missingFields int) {
	m.generated = append(m.generated, kind)
	m.missing = append(m.missing, missingFields)
}

func (m *mockMetrics) ReportCopied(kind, outcome string) {
	m.copies = append(m.copies, kind+":"+outcome)
}
