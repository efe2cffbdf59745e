package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/dental-solution/internal/events"
	"github.com/spec-kit/dental-solution/internal/service"
)

// StartNotificationWorker registers notification handlers on the dispatcher.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	logger.Info("notification worker started", zap.Int("event_types", len(events.AllEventTypes)))
}
