package model

import "time"

// Project statuses form a fixed closed set. The chapter statuses carry the
// display strings the dashboard always used, so they are not normalized.
const (
	StatusPending          = "pending"
	StatusChapter1Complete = "Chapter 1 Completed"
	StatusChapter2Done     = "Chapter 2 Done"
	StatusChapter3Done     = "Chapter 3 Done"
	StatusChapter4Done     = "Chapter 4 Done"
	StatusChapter5Done     = "Chapter 5 Done"
	StatusInProgress       = "in-progress"
	StatusReview           = "review"
	StatusCompleted        = "completed"
	StatusCancelled        = "cancelled"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const (
	CategoryAcademicWriting = "academic-writing"
	CategoryResearch        = "research"
	CategoryEditing         = "editing"
	CategoryProofreading    = "proofreading"
	CategoryConsultation    = "consultation"
	CategoryOther           = "other"
)

// Reminder milestones tracked by write-once markers.
const (
	MilestoneThreeDaysBefore = "three_days_before"
	MilestoneDeadlineDay     = "deadline_day"
)

// DefaultCancellationReason is stored when a project is cancelled without an
// explicit reason.
const DefaultCancellationReason = "No reason provided"

const DefaultCurrency = "NGN"

var validStatuses = map[string]struct{}{
	StatusPending:          {},
	StatusChapter1Complete: {},
	StatusChapter2Done:     {},
	StatusChapter3Done:     {},
	StatusChapter4Done:     {},
	StatusChapter5Done:     {},
	StatusInProgress:       {},
	StatusReview:           {},
	StatusCompleted:        {},
	StatusCancelled:        {},
}

// progressByStatus is the progress derivation table. Statuses without an
// entry (Chapter 3/4/5 Done, review, pending, cancelled) leave progress at
// its previously stored value.
var progressByStatus = map[string]int{
	StatusCompleted:        100,
	StatusChapter1Complete: 30,
	StatusChapter2Done:     60,
	StatusInProgress:       10,
}

// IsValidStatus reports whether s is a member of the fixed status set.
func IsValidStatus(s string) bool {
	_, ok := validStatuses[s]
	return ok
}

// ProgressForStatus returns the derived progress for a status. ok is false
// for statuses with no entry in the derivation table.
func ProgressForStatus(status string) (progress int, ok bool) {
	progress, ok = progressByStatus[status]
	return progress, ok
}

// Client is the embedded client contact on a project.
type Client struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type Project struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Client      Client `json:"client"`

	// AssignedTo and AssignedBy are immutable after creation; the lifecycle
	// engine never reassigns a project.
	AssignedTo int64 `json:"assigned_to"`
	AssignedBy int64 `json:"assigned_by"`

	Status   string `json:"status"`
	Priority string `json:"priority"`
	Category string `json:"category"`

	Deadline  time.Time `json:"deadline"`
	WordCount *int      `json:"word_count,omitempty"`

	ClientPrice   float64 `json:"client_price"`
	WriterPrice   float64 `json:"writer_price"`
	ReferralPrice float64 `json:"referral_price"`
	Currency      string  `json:"currency"`

	// Progress is derived from status, never set directly.
	Progress           int    `json:"progress"`
	CancellationReason string `json:"cancellation_reason,omitempty"`

	// Reminder markers are write-once: the scanner never clears them.
	ReminderThreeDaysSentAt   *time.Time `json:"reminder_three_days_sent_at,omitempty"`
	ReminderDeadlineDaySentAt *time.Time `json:"reminder_deadline_day_sent_at,omitempty"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ProjectWithWriter joins a project with its assigned writer's contact
// identity, as returned by the active-project reminder query.
type ProjectWithWriter struct {
	Project
	WriterName  string `json:"writer_name"`
	WriterEmail string `json:"writer_email"`
}
