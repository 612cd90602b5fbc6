package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"strings"

	"scholarlyedge/pkg/config"

	"go.uber.org/zap"
)

// Mailer renders email templates and delivers them over SMTP. It runs in the
// mailer worker, consuming the email events published by QueueSender.
type Mailer struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

func NewMailer(cfg config.MailConfig, logger *zap.Logger) *Mailer {
	return &Mailer{
		cfg:    cfg,
		logger: logger,
	}
}

func (m *Mailer) HandleWelcome(ctx context.Context, data json.RawMessage) error {
	var payload WelcomeEmailPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("failed to decode welcome email payload: %w", err)
	}

	body := renderTemplate(welcomeEmailTemplate, map[string]string{
		"{name}":      payload.Name,
		"{login_url}": m.cfg.FrontendURL + "/login",
	})
	return m.send(payload.Recipient, "Welcome to ScholarlyEdge!", body)
}

func (m *Mailer) HandleAssignment(ctx context.Context, data json.RawMessage) error {
	var payload AssignmentEmailPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("failed to decode assignment email payload: %w", err)
	}

	body := renderTemplate(assignmentEmailTemplate, map[string]string{
		"{name}":          payload.WriterName,
		"{project_title}": payload.ProjectTitle,
		"{deadline}":      payload.DeadlineText,
		"{project_url}":   m.cfg.FrontendURL + "/dashboard/projects",
	})
	return m.send(payload.Recipient, "New Project Assigned - ScholarlyEdge", body)
}

func (m *Mailer) HandleReminder(ctx context.Context, data json.RawMessage) error {
	var payload ReminderEmailPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("failed to decode reminder email payload: %w", err)
	}

	subject, reminderLine := reminderWording(payload.DaysLeft)
	body := renderTemplate(reminderEmailTemplate, map[string]string{
		"{name}":          payload.WriterName,
		"{reminder_line}": reminderLine,
		"{project_title}": payload.ProjectTitle,
		"{deadline}":      payload.DeadlineText,
		"{project_url}":   m.cfg.FrontendURL + "/dashboard/projects",
	})
	return m.send(payload.Recipient, subject, body)
}

func reminderWording(daysLeft int) (subject, line string) {
	switch daysLeft {
	case 0:
		return "Project Due Today - ScholarlyEdge",
			"This is a reminder that your project is due today."
	case 1:
		return "Project Due Tomorrow - ScholarlyEdge",
			"This is a reminder that your project is due tomorrow."
	default:
		return fmt.Sprintf("Project Due in %d Days - ScholarlyEdge", daysLeft),
			fmt.Sprintf("This is a reminder that your project deadline is in %d days.", daysLeft)
	}
}

func renderTemplate(tpl string, replacements map[string]string) string {
	pairs := make([]string, 0, len(replacements)*2)
	for placeholder, value := range replacements {
		pairs = append(pairs, placeholder, value)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	from := fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromAddress)
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		htmlBody,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.FromAddress, []string{to}, []byte(msg)); err != nil {
		m.logger.Error("Failed to deliver email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return err
	}

	m.logger.Info("Email delivered",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}
