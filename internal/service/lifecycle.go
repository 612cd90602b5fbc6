package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"scholarlyedge/internal/apperr"
	"scholarlyedge/internal/model"
	"scholarlyedge/internal/notifier"
	"scholarlyedge/pkg/metrics"

	"go.uber.org/zap"
)

// ProjectStore is the project slice of the entity store.
type ProjectStore interface {
	Insert(ctx context.Context, p *model.Project) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	ApplyTransition(ctx context.Context, id int64, status string, progress int, cancellationReason string, completedAt *time.Time) error
}

// UserStore resolves actors and assigned writers.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// LifecycleService owns project creation and the status state machine.
// Primary writes either fully succeed or are rejected before any side
// effect runs; ledger sync and email dispatch happen after the commit and
// never fail the operation.
type LifecycleService struct {
	projects ProjectStore
	users    UserStore
	ledger   *LedgerService
	notifier notifier.Sender
	logger   *zap.Logger
	now      func() time.Time
}

func NewLifecycleService(
	projects ProjectStore,
	users UserStore,
	ledger *LedgerService,
	sender notifier.Sender,
	logger *zap.Logger,
) *LifecycleService {
	return &LifecycleService{
		projects: projects,
		users:    users,
		ledger:   ledger,
		notifier: sender,
		logger:   logger,
		now:      time.Now,
	}
}

type CreateProjectInput struct {
	Title         string
	Description   string
	Client        model.Client
	AssignedTo    int64
	Deadline      time.Time
	WordCount     *int
	ClientPrice   float64
	WriterPrice   float64
	ReferralPrice float64
	Priority      string
	Category      string
}

// Create validates and persists a new project, then fires the paired ledger
// creation and the assignment email as decoupled side effects.
func (s *LifecycleService) Create(ctx context.Context, input CreateProjectInput, actor *model.User) (*model.Project, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Client.Name = strings.TrimSpace(input.Client.Name)
	input.Client.Email = strings.ToLower(strings.TrimSpace(input.Client.Email))
	input.Client.Phone = strings.TrimSpace(input.Client.Phone)

	if input.Title == "" || input.Description == "" || input.Client.Name == "" {
		return nil, apperr.Validation("title, description and client name are required")
	}
	if input.AssignedTo == 0 {
		return nil, apperr.Validation("project must be assigned to a writer")
	}
	if input.ClientPrice < 0 {
		return nil, apperr.Validation("client price must be a valid positive number")
	}
	if input.WriterPrice < 0 {
		return nil, apperr.Validation("writer price must be a valid positive number")
	}
	if input.ReferralPrice < 0 {
		return nil, apperr.Validation("referral price must be a valid positive number")
	}
	if input.Deadline.IsZero() {
		return nil, apperr.Validation("deadline is required")
	}
	if !input.Deadline.After(s.now()) {
		return nil, apperr.Validation("deadline must be in the future")
	}
	if input.WordCount != nil && *input.WordCount <= 0 {
		return nil, apperr.Validation("word count must be at least 1")
	}

	writer, err := s.users.GetByID(ctx, input.AssignedTo)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Validation("assigned writer not found")
		}
		return nil, err
	}
	if !writer.IsActive {
		return nil, apperr.Validation("assigned writer is not active")
	}
	if writer.Role != model.RoleWriter {
		return nil, apperr.Validation("only writers can be assigned to projects")
	}

	if input.Priority == "" {
		input.Priority = model.PriorityMedium
	}
	if input.Category == "" {
		input.Category = model.CategoryAcademicWriting
	}

	project := &model.Project{
		Title:         input.Title,
		Description:   input.Description,
		Client:        input.Client,
		AssignedTo:    input.AssignedTo,
		AssignedBy:    actor.ID,
		Status:        model.StatusPending,
		Priority:      input.Priority,
		Category:      input.Category,
		Deadline:      input.Deadline,
		WordCount:     input.WordCount,
		ClientPrice:   input.ClientPrice,
		WriterPrice:   input.WriterPrice,
		ReferralPrice: input.ReferralPrice,
		Currency:      model.DefaultCurrency,
		Progress:      0,
	}

	if _, err := s.projects.Insert(ctx, project); err != nil {
		return nil, err
	}

	// The project is live once persisted. Everything below is bookkeeping
	// and notification; failures are logged, never returned.
	s.notifier.SendAssignmentEmail(ctx,
		writer.Email,
		writer.Name,
		project.Title,
		project.Deadline.Format("2006-01-02"),
		project.ID,
	)
	s.ledger.OnProjectCreated(ctx, project, actor.ID)

	s.logger.Info("Project created",
		zap.Int64("id", project.ID),
		zap.Int64("assigned_to", project.AssignedTo),
		zap.Int64("assigned_by", actor.ID),
	)
	return project, nil
}

// Transition validates and applies a status transition, deriving progress
// from the fixed table. On cancellation the ledger cascade runs after the
// commit; its failure cannot roll the transition back.
func (s *LifecycleService) Transition(ctx context.Context, projectID int64, requestedStatus string, actor *model.User, cancellationReason string) (*model.Project, error) {
	if requestedStatus == "" {
		return nil, apperr.Validation("please provide a status")
	}
	if !model.IsValidStatus(requestedStatus) {
		return nil, apperr.Validation("unknown project status: " + requestedStatus)
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && project.AssignedTo != actor.ID {
		return nil, apperr.Authorization("not authorized to update this project")
	}

	progress := project.Progress
	if derived, ok := model.ProgressForStatus(requestedStatus); ok {
		progress = derived
	}
	// Progress never drops below 100 once the project has been completed;
	// there is no un-completion rule.
	if project.Progress == 100 && progress < 100 {
		progress = 100
	}

	completedAt := project.CompletedAt
	if requestedStatus == model.StatusCompleted {
		t := s.now()
		completedAt = &t
	}

	reason := project.CancellationReason
	if requestedStatus == model.StatusCancelled {
		reason = strings.TrimSpace(cancellationReason)
		if reason == "" {
			reason = model.DefaultCancellationReason
		}
	}

	if err := s.projects.ApplyTransition(ctx, projectID, requestedStatus, progress, reason, completedAt); err != nil {
		return nil, err
	}
	metrics.ProjectStatusTransitionCount.WithLabelValues(requestedStatus).Inc()

	project.Status = requestedStatus
	project.Progress = progress
	project.CompletedAt = completedAt
	project.CancellationReason = reason

	if requestedStatus == model.StatusCancelled {
		s.ledger.OnProjectCancelled(ctx, project)
	}

	s.logger.Info("Project status updated",
		zap.Int64("id", projectID),
		zap.String("status", requestedStatus),
		zap.Int("progress", progress),
		zap.Int64("actor", actor.ID),
	)
	return project, nil
}
