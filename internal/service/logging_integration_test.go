//go:build integration

package service

import (
	"context"
	"testing"
	"time"

	"github.com/guttosm/packing-list-service/internal/circuitbreaker"
	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/guttosm/packing-list-service/internal/repository"
	"github.com/guttosm/packing-list-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// auditTrail is what a packing list goes through from creation to export.
func auditTrail(listID string) []*model.LogEntry {
	actions := []struct {
		level, action, message string
	}{
		{"info", model.ActionPackingListCreated, "Packing list created"},
		{"info", model.ActionPackingListUpdated, "Package added"},
		{"info", model.ActionPackingListStatus, "Packing list completed"},
		{"error", model.ActionPackingListExport, "PDF export failed"},
		{"info", model.ActionPackingListExport, "Packing list exported"},
	}
	entries := make([]*model.LogEntry, len(actions))
	for i, a := range actions {
		entries[i] = (&model.LogEntry{
			Level:      a.level,
			Message:    a.message,
			RequestID:  "req-" + a.action,
			ActionType: a.action,
		}).WithEntity("packing_list", listID)
	}
	return entries
}

func TestLoggingService_AuditTrail_Integration(t *testing.T) {
	ctx := context.Background()

	mongo, err := testutil.SetupMongoDB(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mongo.Cleanup(ctx) })

	db, err := repository.NewMongoDB(mongo.URI, testutil.SanitizeDBName(t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(ctx) })
	require.NoError(t, db.SetLogsTTL(ctx, 30))

	breaker := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          100 * time.Millisecond,
		Name:             "logs",
	})
	svc := NewLoggingService(repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), breaker))

	require.NoError(t, svc.CreateLogs(ctx, auditTrail("list-42")))
	require.NoError(t, svc.CreateLogs(ctx, auditTrail("list-43")[:1]))

	single := &model.LogEntry{Level: "warn", Message: "GET /api/packing-lists/missing", StatusCode: 404}
	require.NoError(t, svc.CreateLog(ctx, single))
	assert.False(t, single.ID.IsZero(), "id is stamped before the insert")
	assert.False(t, single.Timestamp.IsZero())

	hourAgo := time.Now().Add(-time.Hour)
	inAnHour := time.Now().Add(time.Hour)

	tests := []struct {
		name  string
		opts  model.LogQueryOptions
		count int64
	}{
		{name: "everything", opts: model.LogQueryOptions{}, count: 7},
		{name: "one list", opts: model.LogQueryOptions{EntityID: "list-42"}, count: 5},
		{name: "exports", opts: model.LogQueryOptions{ActionType: model.ActionPackingListExport}, count: 2},
		{name: "failures", opts: model.LogQueryOptions{Level: "error"}, count: 1},
		{name: "request id", opts: model.LogQueryOptions{RequestID: "req-" + model.ActionPackingListCreated}, count: 2},
		{name: "time range", opts: model.LogQueryOptions{StartTime: &hourAgo, EndTime: &inAnHour}, count: 7},
		{name: "future range", opts: model.LogQueryOptions{StartTime: &inAnHour}, count: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := svc.CountLogs(ctx, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.count, count)

			entries, err := svc.QueryLogs(ctx, tt.opts)
			require.NoError(t, err)
			assert.Len(t, entries, int(tt.count))
		})
	}

	t.Run("query pages", func(t *testing.T) {
		entries, err := svc.QueryLogs(ctx, model.LogQueryOptions{EntityID: "list-42", Limit: 2, Skip: 1})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		for _, e := range entries {
			assert.Equal(t, "packing_list", e.EntityType)
		}
	})

	assert.Equal(t, circuitbreaker.StateClosed, breaker.State())
}
