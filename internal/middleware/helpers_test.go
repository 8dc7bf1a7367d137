//go:build !integration

package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

// MockLoggingService is a testify mock of service.LoggingService.
type MockLoggingService struct {
	mock.Mock
	delay time.Duration
}

func (m *MockLoggingService) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLoggingService) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLoggingService) QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LogEntry), args.Error(1)
}

func (m *MockLoggingService) CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(int64), args.Error(1)
}

// recordingSink collects entries written to it.
type recordingSink struct {
	mu      sync.Mutex
	entries []*model.LogEntry
	got     chan struct{}
}

func newRecordingSink() *recordingSink {
	return &recordingSink{got: make(chan struct{}, 100)}
}

func (s *recordingSink) CreateLog(_ context.Context, entry *model.LogEntry) error {
	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()
	s.got <- struct{}{}
	return nil
}

func (s *recordingSink) CreateLogs(context.Context, []*model.LogEntry) error { return nil }

func (s *recordingSink) QueryLogs(context.Context, model.LogQueryOptions) ([]model.LogEntry, error) {
	return nil, nil
}

func (s *recordingSink) CountLogs(context.Context, model.LogQueryOptions) (int64, error) {
	return 0, nil
}

// wait blocks until n entries arrived or the timeout passed.
func (s *recordingSink) wait(n int, timeout time.Duration) []*model.LogEntry {
	deadline := time.After(timeout)
	for i := 0; i < n; i++ {
		select {
		case <-s.got:
		case <-deadline:
			i = n
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*model.LogEntry(nil), s.entries...)
}
