package worker

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/dental-solution/internal/config"
	"github.com/spec-kit/dental-solution/internal/events"
	"github.com/spec-kit/dental-solution/internal/observability"
	"github.com/spec-kit/dental-solution/internal/service"
)

func TestStartNotificationWorkerSubscribesAllEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics("dental")

	notifications := service.NewNotificationService(dispatcher, nil, metrics, logger, config.NotificationConfig{RedisChannel: "dental:posts"})
	StartNotificationWorker(notifications, logger)
	require.Equal(t, 1, logs.FilterMessage("notification worker started").Len())

	for _, et := range events.AllEventTypes {
		require.NoError(t, dispatcher.Publish(context.Background(), events.Event{ID: "e-" + string(et), Type: et, SubjectID: "s1"}))
	}

	count, err := testutil.GatherAndCount(metrics.Registry(), "dental_events_total")
	require.NoError(t, err)
	assert.Equal(t, len(events.AllEventTypes), count)
}

func TestStartNotificationWorkerNilService(t *testing.T) {
	assert.NotPanics(t, func() { StartNotificationWorker(nil, zap.NewNop()) })
}
