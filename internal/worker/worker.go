// Package worker runs the background side of the complaint flow: notification
// subscribers on the event dispatcher and the scheduled digest.
package worker

import (
	"github.com/robfig/cron/v3"

	"github.com/spec-kit/publicvoice/internal/service"
)

// Start registers notification subscribers, then schedules the digest so its first run
// already has a listener. The returned runner is nil when the digest is disabled.
func Start(notifications *service.NotificationService, digest *DigestWorker, schedule string) (*cron.Cron, error) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if digest == nil {
		return nil, nil
	}
	return digest.Start(schedule)
}
