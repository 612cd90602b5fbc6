package notifier

import (
	"context"

	"go.uber.org/zap"
)

// Publisher is satisfied by mq.Publisher.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

// QueueSender publishes email events to the message queue for the mailer
// worker to deliver.
type QueueSender struct {
	publisher Publisher
	logger    *zap.Logger
}

func NewQueueSender(publisher Publisher, logger *zap.Logger) *QueueSender {
	return &QueueSender{
		publisher: publisher,
		logger:    logger,
	}
}

func (s *QueueSender) SendWelcomeEmail(ctx context.Context, recipient, name string) {
	payload := WelcomeEmailPayload{
		Recipient: recipient,
		Name:      name,
	}
	if err := s.publisher.Publish(RoutingKeyWelcome, payload); err != nil {
		s.logger.Error("Failed to publish welcome email event",
			zap.String("recipient", recipient),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("Published welcome email event",
		zap.String("recipient", recipient),
	)
}

func (s *QueueSender) SendAssignmentEmail(ctx context.Context, recipient, writerName, title, deadlineText string, projectID int64) {
	payload := AssignmentEmailPayload{
		Recipient:    recipient,
		WriterName:   writerName,
		ProjectTitle: title,
		DeadlineText: deadlineText,
		ProjectID:    projectID,
	}
	if err := s.publisher.Publish(RoutingKeyAssignment, payload); err != nil {
		s.logger.Error("Failed to publish assignment email event",
			zap.Int64("project_id", projectID),
			zap.String("recipient", recipient),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("Published assignment email event",
		zap.Int64("project_id", projectID),
		zap.String("recipient", recipient),
	)
}

func (s *QueueSender) SendDeadlineReminderEmail(ctx context.Context, recipient, writerName, title, deadlineText string, daysLeft int) {
	payload := ReminderEmailPayload{
		Recipient:    recipient,
		WriterName:   writerName,
		ProjectTitle: title,
		DeadlineText: deadlineText,
		DaysLeft:     daysLeft,
	}
	if err := s.publisher.Publish(RoutingKeyReminder, payload); err != nil {
		s.logger.Error("Failed to publish reminder email event",
			zap.String("recipient", recipient),
			zap.Int("days_left", daysLeft),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("Published reminder email event",
		zap.String("recipient", recipient),
		zap.Int("days_left", daysLeft),
	)
}
