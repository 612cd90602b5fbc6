// Package notifier carries project emails from the lifecycle engine and the
// reminder scanner to the mailer worker. Dispatch is fire-and-forget: a
// failed publish is logged and never surfaces to the caller.
package notifier

import "context"

// Sender is the notification capability consumed by the engine.
type Sender interface {
	SendWelcomeEmail(ctx context.Context, recipient, name string)
	SendAssignmentEmail(ctx context.Context, recipient, writerName, title, deadlineText string, projectID int64)
	SendDeadlineReminderEmail(ctx context.Context, recipient, writerName, title, deadlineText string, daysLeft int)
}
