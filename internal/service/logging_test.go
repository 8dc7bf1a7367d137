//go:build !integration

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/guttosm/packing-list-service/internal/mocks"
	"github.com/guttosm/packing-list-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestLoggingService_CreateLog(t *testing.T) {
	tests := []struct {
		name      string
		entry     *model.LogEntry
		setupMock func(*mocks.MockLogsRepositoryInterface)
		wantError bool
	}{
		{
			name:  "stamps id and timestamp",
			entry: &model.LogEntry{Level: "info", Message: "Product created"},
			setupMock: func(m *mocks.MockLogsRepositoryInterface) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(doc *repository.LogEntryDocument) bool {
					return !doc.ID.IsZero() && !doc.Timestamp.IsZero()
				})).Return(nil)
			},
		},
		{
			name: "keeps entity fields",
			entry: (&model.LogEntry{
				ID:         primitive.NewObjectID(),
				Level:      "info",
				ActionType: model.ActionPackingListCreated,
			}).WithEntity("packing_list", "list-1"),
			setupMock: func(m *mocks.MockLogsRepositoryInterface) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(doc *repository.LogEntryDocument) bool {
					return doc.EntityType == "packing_list" && doc.EntityID == "list-1" &&
						doc.ActionType == model.ActionPackingListCreated
				})).Return(nil)
			},
		},
		{
			name:  "repository error",
			entry: &model.LogEntry{Level: "info"},
			setupMock: func(m *mocks.MockLogsRepositoryInterface) {
				m.On("Create", mock.Anything, mock.Anything).Return(errors.New("database error"))
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockLogsRepositoryInterface)
			tt.setupMock(repo)

			err := NewLoggingService(repo).CreateLog(context.Background(), tt.entry)

			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.False(t, tt.entry.ID.IsZero())
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestLoggingService_CreateLogs(t *testing.T) {
	tests := []struct {
		name      string
		entries   []*model.LogEntry
		setupMock func(*mocks.MockLogsRepositoryInterface)
		wantError bool
	}{
		{
			name:    "bulk insert",
			entries: []*model.LogEntry{{Level: "info"}, {Level: "error"}},
			setupMock: func(m *mocks.MockLogsRepositoryInterface) {
				m.On("CreateMany", mock.Anything, mock.MatchedBy(func(docs []*repository.LogEntryDocument) bool {
					return len(docs) == 2
				})).Return(nil)
			},
		},
		{
			name:      "empty batch skips the repository",
			entries:   nil,
			setupMock: func(*mocks.MockLogsRepositoryInterface) {},
		},
		{
			name:    "repository error",
			entries: []*model.LogEntry{{Level: "info"}},
			setupMock: func(m *mocks.MockLogsRepositoryInterface) {
				m.On("CreateMany", mock.Anything, mock.Anything).Return(errors.New("database error"))
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockLogsRepositoryInterface)
			tt.setupMock(repo)

			err := NewLoggingService(repo).CreateLogs(context.Background(), tt.entries)

			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestLoggingService_QueryLogs(t *testing.T) {
	start := time.Now().Add(-time.Hour)
	opts := model.LogQueryOptions{
		ActionType: model.ActionProductDeleted,
		EntityID:   "p1",
		StartTime:  &start,
		Limit:      5,
	}

	t.Run("maps options and documents", func(t *testing.T) {
		repo := new(mocks.MockLogsRepositoryInterface)
		repo.On("Query", mock.Anything, mock.MatchedBy(func(o repository.LogQueryOptions) bool {
			return o.ActionType == model.ActionProductDeleted && o.EntityID == "p1" &&
				o.StartTime != nil && o.StartTime.Equal(start) && o.Limit == 5
		})).Return([]*repository.LogEntryDocument{
			{ID: primitive.NewObjectID(), Level: "info", EntityType: "product", EntityID: "p1"},
		}, nil)

		entries, err := NewLoggingService(repo).QueryLogs(context.Background(), opts)

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "product", entries[0].EntityType)
		assert.Equal(t, "p1", entries[0].EntityID)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(mocks.MockLogsRepositoryInterface)
		repo.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("database error"))

		entries, err := NewLoggingService(repo).QueryLogs(context.Background(), opts)

		assert.Error(t, err)
		assert.Nil(t, entries)
	})
}

func TestLoggingService_CountLogs(t *testing.T) {
	repo := new(mocks.MockLogsRepositoryInterface)
	repo.On("Count", mock.Anything, mock.MatchedBy(func(o repository.LogQueryOptions) bool {
		return o.Level == "error"
	})).Return(int64(7), nil)

	count, err := NewLoggingService(repo).CountLogs(context.Background(), model.LogQueryOptions{Level: "error"})

	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	repo.AssertExpectations(t)
}
