package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/qrdine/qrdine-backend/pkg/logger"
)

const defaultNotificationRetention = 30 * 24 * time.Hour

type notificationsCleaner interface {
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// NotificationCleanupJobParams configure the retention cleanup job.
type NotificationCleanupJobParams struct {
	Logger        *logger.Logger
	Notifications notificationsCleaner
	Retention     time.Duration
}

// NewNotificationCleanupJob deletes read notifications past the retention
// window.
func NewNotificationCleanupJob(params NotificationCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notifications service required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultNotificationRetention
	}
	return &notificationCleanupJob{
		logg:          params.Logger,
		notifications: params.Notifications,
		retention:     retention,
		now:           time.Now,
	}, nil
}

type notificationCleanupJob struct {
	logg          *logger.Logger
	notifications notificationsCleaner
	retention     time.Duration
	now           func() time.Time
}

func (j *notificationCleanupJob) Name() string { return "notification-cleanup" }

func (j *notificationCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	deleted, err := j.notifications.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("notification cleanup: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "notification cleanup complete")
	return nil
}
