package notifier

// Routing keys for email events on the topic exchange.
const (
	RoutingKeyWelcome    = "email.welcome"
	RoutingKeyAssignment = "email.assignment"
	RoutingKeyReminder   = "email.reminder"
)

type WelcomeEmailPayload struct {
	Recipient string `json:"recipient"`
	Name      string `json:"name"`
}

type AssignmentEmailPayload struct {
	Recipient    string `json:"recipient"`
	WriterName   string `json:"writer_name"`
	ProjectTitle string `json:"project_title"`
	DeadlineText string `json:"deadline_text"`
	ProjectID    int64  `json:"project_id"`
}

type ReminderEmailPayload struct {
	Recipient    string `json:"recipient"`
	WriterName   string `json:"writer_name"`
	ProjectTitle string `json:"project_title"`
	DeadlineText string `json:"deadline_text"`
	DaysLeft     int    `json:"days_left"`
}
