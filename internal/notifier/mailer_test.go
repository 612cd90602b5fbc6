package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestReminderWording(t *testing.T) {
	tests := []struct {
		daysLeft    int
		wantSubject string
		wantLine    string
	}{
		{0, "Project Due Today - ScholarlyEdge", "due today"},
		{1, "Project Due Tomorrow - ScholarlyEdge", "due tomorrow"},
		{3, "Project Due in 3 Days - ScholarlyEdge", "in 3 days"},
		{7, "Project Due in 7 Days - ScholarlyEdge", "in 7 days"},
	}

	for _, tt := range tests {
		subject, line := reminderWording(tt.daysLeft)
		if subject != tt.wantSubject {
			t.Errorf("daysLeft %d: subject %q, want %q", tt.daysLeft, subject, tt.wantSubject)
		}
		if !strings.Contains(line, tt.wantLine) {
			t.Errorf("daysLeft %d: line %q does not mention %q", tt.daysLeft, line, tt.wantLine)
		}
	}
}

func TestRenderTemplate(t *testing.T) {
	out := renderTemplate("Hello {name}, see {project_url}", map[string]string{
		"{name}":        "Wale",
		"{project_url}": "https://app.scholarlyedge.local/dashboard/projects",
	})
	if out != "Hello Wale, see https://app.scholarlyedge.local/dashboard/projects" {
		t.Fatalf("unexpected render output %q", out)
	}
}

func TestReminderTemplateHasNoLeftoverPlaceholders(t *testing.T) {
	_, line := reminderWording(3)
	body := renderTemplate(reminderEmailTemplate, map[string]string{
		"{name}":          "Wale",
		"{reminder_line}": line,
		"{project_title}": "Thesis",
		"{deadline}":      "2024-06-04",
		"{project_url}":   "https://app.scholarlyedge.local/dashboard/projects",
	})
	if strings.Contains(body, "{") && strings.Contains(body, "}") {
		for _, ph := range []string{"{name}", "{reminder_line}", "{project_title}", "{deadline}", "{project_url}"} {
			if strings.Contains(body, ph) {
				t.Fatalf("placeholder %s left in rendered body", ph)
			}
		}
	}
}

type fakePublisher struct {
	events []publishedEvent
	err    error
}

type publishedEvent struct {
	routingKey string
	payload    any
}

func (f *fakePublisher) Publish(routingKey string, payload any) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, publishedEvent{routingKey, payload})
	return nil
}

func TestQueueSenderRoutesEvents(t *testing.T) {
	pub := &fakePublisher{}
	sender := NewQueueSender(pub, zap.NewNop())
	ctx := context.Background()

	sender.SendWelcomeEmail(ctx, "new@scholarlyedge.local", "Nia")
	sender.SendAssignmentEmail(ctx, "wale@scholarlyedge.local", "Wale", "Thesis", "2024-06-04", 7)
	sender.SendDeadlineReminderEmail(ctx, "wale@scholarlyedge.local", "Wale", "Thesis", "2024-06-04", 3)

	if len(pub.events) != 3 {
		t.Fatalf("expected three events, got %d", len(pub.events))
	}
	wantKeys := []string{RoutingKeyWelcome, RoutingKeyAssignment, RoutingKeyReminder}
	for i, want := range wantKeys {
		if pub.events[i].routingKey != want {
			t.Errorf("event %d routed to %q, want %q", i, pub.events[i].routingKey, want)
		}
	}

	reminder, ok := pub.events[2].payload.(ReminderEmailPayload)
	if !ok {
		t.Fatalf("unexpected reminder payload type %T", pub.events[2].payload)
	}
	if reminder.DaysLeft != 3 || reminder.Recipient != "wale@scholarlyedge.local" {
		t.Fatalf("unexpected reminder payload: %+v", reminder)
	}
}

func TestQueueSenderSwallowsPublishErrors(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	sender := NewQueueSender(pub, zap.NewNop())

	// Publish failures are logged, never surfaced to the caller.
	sender.SendDeadlineReminderEmail(context.Background(), "wale@scholarlyedge.local", "Wale", "Thesis", "2024-06-04", 3)
}
