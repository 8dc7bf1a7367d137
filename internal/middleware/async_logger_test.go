//go:build !integration

package middleware

import (
	"errors"
	"testing"
	"time"

	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewAsyncLogger(t *testing.T) {
	assert.Nil(t, NewAsyncLogger(nil, DefaultAsyncLoggerConfig()))

	al := NewAsyncLogger(&MockLoggingService{}, AsyncLoggerConfig{})
	require.NotNil(t, al)
	defer al.Stop()
	assert.Equal(t, DefaultAsyncLoggerConfig().BufferSize, cap(al.queue))
}

func TestAsyncLogger_WritesEntries(t *testing.T) {
	sink := new(MockLoggingService)
	sink.On("CreateLog", mock.Anything, mock.Anything).Return(nil)
	al := NewAsyncLogger(sink, AsyncLoggerConfig{BufferSize: 10, NumWorkers: 2, WriteTimeout: time.Second})

	for i := 0; i < 5; i++ {
		assert.True(t, al.Log(&model.LogEntry{Message: "entry"}))
	}
	al.Stop()

	stats := al.Stats()
	assert.Equal(t, int64(5), stats.Enqueued)
	assert.Equal(t, int64(5), stats.Written)
	assert.Zero(t, stats.Dropped)
	sink.AssertNumberOfCalls(t, "CreateLog", 5)
}

func TestAsyncLogger_CountsFailures(t *testing.T) {
	sink := new(MockLoggingService)
	sink.On("CreateLog", mock.Anything, mock.Anything).Return(errors.New("mongo down"))
	al := NewAsyncLogger(sink, AsyncLoggerConfig{BufferSize: 4, NumWorkers: 1, WriteTimeout: time.Second})

	al.Log(&model.LogEntry{})
	al.Log(&model.LogEntry{})
	al.Stop()

	assert.Equal(t, int64(2), al.Stats().Failed)
	assert.Zero(t, al.Stats().Written)
}

func TestAsyncLogger_DropsWhenFull(t *testing.T) {
	sink := &MockLoggingService{delay: 50 * time.Millisecond}
	sink.On("CreateLog", mock.Anything, mock.Anything).Return(nil)
	al := NewAsyncLogger(sink, AsyncLoggerConfig{BufferSize: 1, NumWorkers: 1, WriteTimeout: time.Second})

	accepted := 0
	for i := 0; i < 20; i++ {
		if al.Log(&model.LogEntry{}) {
			accepted++
		}
	}
	al.Stop()

	stats := al.Stats()
	assert.Positive(t, stats.Dropped)
	assert.Equal(t, int64(accepted), stats.Enqueued)
	assert.Equal(t, int64(20), stats.Enqueued+stats.Dropped)
}

func TestAsyncLogger_StopTwice(t *testing.T) {
	al := NewAsyncLogger(&MockLoggingService{}, DefaultAsyncLoggerConfig())
	al.Stop()
	assert.NotPanics(t, al.Stop)
}

func TestGlobalAsyncLogger(t *testing.T) {
	sink := newRecordingSink()
	InitAsyncLogger(sink, AsyncLoggerConfig{BufferSize: 10, NumWorkers: 1, WriteTimeout: time.Second})
	require.NotNil(t, GetAsyncLogger())

	dispatch(sink, &model.LogEntry{Message: "pooled"})
	entries := sink.wait(1, time.Second)
	require.Len(t, entries, 1)
	assert.Equal(t, "pooled", entries[0].Message)

	StopAsyncLogger()
	assert.Nil(t, GetAsyncLogger())

	dispatch(sink, &model.LogEntry{Message: "direct"})
	entries = sink.wait(1, time.Second)
	assert.Len(t, entries, 2)

	assert.NotPanics(t, func() { dispatch(nil, &model.LogEntry{}) })
}
