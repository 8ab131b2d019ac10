package notification

import "context"

// Service dispatches notifications in the background. Queue never blocks
// on delivery and delivery is not guaranteed.
type Service interface {
	Queue(ctx context.Context, req CreateNotificationRequest) error

	// Subscribe streams events for one employee until cleanup is called.
	Subscribe(ctx context.Context, employeeID string) (<-chan SSEEvent, func())

	// Stop drains the queue and waits for workers to exit.
	Stop()
}
