package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scholarlyedge/internal/apperr"
	"scholarlyedge/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
	}
}

const projectColumns = `
	id, title, description, client_name, client_email, client_phone,
	assigned_to, assigned_by, status, priority, category,
	deadline, word_count, client_price, writer_price, referral_price, currency,
	progress, cancellation_reason,
	reminder_three_days_sent_at, reminder_deadline_day_sent_at,
	completed_at, created_at, updated_at`

func scanProject(row pgx.Row) (*model.Project, error) {
	var p model.Project
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Client.Name, &p.Client.Email, &p.Client.Phone,
		&p.AssignedTo, &p.AssignedBy, &p.Status, &p.Priority, &p.Category,
		&p.Deadline, &p.WordCount, &p.ClientPrice, &p.WriterPrice, &p.ReferralPrice, &p.Currency,
		&p.Progress, &p.CancellationReason,
		&p.ReminderThreeDaysSentAt, &p.ReminderDeadlineDaySentAt,
		&p.CompletedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) Insert(ctx context.Context, p *model.Project) (int64, error) {
	r.logger.Debug("Inserting project",
		zap.String("title", p.Title),
		zap.Int64("assigned_to", p.AssignedTo),
	)

	query := `
        INSERT INTO projects (
            title, description, client_name, client_email, client_phone,
            assigned_to, assigned_by, status, priority, category,
            deadline, word_count, client_price, writer_price, referral_price, currency,
            progress
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		p.Title,
		p.Description,
		p.Client.Name,
		p.Client.Email,
		p.Client.Phone,
		p.AssignedTo,
		p.AssignedBy,
		p.Status,
		p.Priority,
		p.Category,
		p.Deadline,
		p.WordCount,
		p.ClientPrice,
		p.WriterPrice,
		p.ReferralPrice,
		p.Currency,
		p.Progress,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		r.logger.Error("Failed to insert project", zap.Error(err))
		return 0, err
	}

	r.logger.Info("Project inserted successfully",
		zap.Int64("id", p.ID),
		zap.Int64("assigned_to", p.AssignedTo),
	)
	return p.ID, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	query := `SELECT` + projectColumns + ` FROM projects WHERE id = $1`

	p, err := scanProject(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		r.logger.Error("Failed to get project", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	query := `SELECT` + projectColumns + ` FROM projects ORDER BY created_at DESC`
	return r.queryProjects(ctx, query)
}

func (r *ProjectRepository) ListByWriter(ctx context.Context, writerID int64) ([]model.Project, error) {
	query := `SELECT` + projectColumns + ` FROM projects WHERE assigned_to = $1 ORDER BY created_at DESC`
	return r.queryProjects(ctx, query, writerID)
}

func (r *ProjectRepository) ListRecent(ctx context.Context, limit int) ([]model.Project, error) {
	query := `SELECT` + projectColumns + ` FROM projects ORDER BY created_at DESC LIMIT $1`
	return r.queryProjects(ctx, query, limit)
}

func (r *ProjectRepository) queryProjects(ctx context.Context, query string, args ...any) ([]model.Project, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query projects", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// UpdateDetails updates the descriptive and commercial fields of a project.
// Status, progress and reminder markers are owned by the lifecycle engine
// and the scanner; they are not touched here.
func (r *ProjectRepository) UpdateDetails(ctx context.Context, p *model.Project) error {
	query := `
        UPDATE projects
        SET title = $2, description = $3,
            client_name = $4, client_email = $5, client_phone = $6,
            deadline = $7, word_count = $8,
            client_price = $9, writer_price = $10, referral_price = $11,
            priority = $12, category = $13,
            updated_at = now()
        WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query,
		p.ID, p.Title, p.Description,
		p.Client.Name, p.Client.Email, p.Client.Phone,
		p.Deadline, p.WordCount,
		p.ClientPrice, p.WriterPrice, p.ReferralPrice,
		p.Priority, p.Category,
	)
	if err != nil {
		r.logger.Error("Failed to update project", zap.Int64("id", p.ID), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ApplyTransition persists a status transition: status, progress and the
// cancellation/completion fields move in a single row update.
func (r *ProjectRepository) ApplyTransition(ctx context.Context, id int64, status string, progress int, cancellationReason string, completedAt *time.Time) error {
	query := `
        UPDATE projects
        SET status = $2, progress = $3, cancellation_reason = $4,
            completed_at = $5, updated_at = now()
        WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query, id, status, progress, cancellationReason, completedAt)
	if err != nil {
		r.logger.Error("Failed to apply status transition",
			zap.Int64("id", id),
			zap.String("status", status),
			zap.Error(err),
		)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}

	r.logger.Info("Project status transition applied",
		zap.Int64("id", id),
		zap.String("status", status),
		zap.Int("progress", progress),
	)
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete project", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ListActiveWithWriter returns projects still in flight (status outside
// completed/cancelled, writer assigned, deadline set) joined with the
// assigned writer's contact identity.
func (r *ProjectRepository) ListActiveWithWriter(ctx context.Context) ([]model.ProjectWithWriter, error) {
	query := `
        SELECT` + qualifiedProjectColumns + `, u.name, u.email
        FROM projects p
        JOIN users u ON u.id = p.assigned_to
        WHERE p.status NOT IN ($1, $2)
          AND p.deadline IS NOT NULL
    `
	rows, err := r.db.Query(ctx, query, model.StatusCompleted, model.StatusCancelled)
	if err != nil {
		r.logger.Error("Failed to query active projects", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var projects []model.ProjectWithWriter
	for rows.Next() {
		var pw model.ProjectWithWriter
		p := &pw.Project
		err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.Client.Name, &p.Client.Email, &p.Client.Phone,
			&p.AssignedTo, &p.AssignedBy, &p.Status, &p.Priority, &p.Category,
			&p.Deadline, &p.WordCount, &p.ClientPrice, &p.WriterPrice, &p.ReferralPrice, &p.Currency,
			&p.Progress, &p.CancellationReason,
			&p.ReminderThreeDaysSentAt, &p.ReminderDeadlineDaySentAt,
			&p.CompletedAt, &p.CreatedAt, &p.UpdatedAt,
			&pw.WriterName, &pw.WriterEmail,
		)
		if err != nil {
			return nil, err
		}
		projects = append(projects, pw)
	}
	return projects, rows.Err()
}

const qualifiedProjectColumns = `
	p.id, p.title, p.description, p.client_name, p.client_email, p.client_phone,
	p.assigned_to, p.assigned_by, p.status, p.priority, p.category,
	p.deadline, p.word_count, p.client_price, p.writer_price, p.referral_price, p.currency,
	p.progress, p.cancellation_reason,
	p.reminder_three_days_sent_at, p.reminder_deadline_day_sent_at,
	p.completed_at, p.created_at, p.updated_at`

// MarkReminderSent sets a reminder marker if and only if it is still unset.
// The WHERE ... IS NULL clause makes the marker write-once at the row level,
// so a racing scan cannot overwrite an already sent marker. Returns whether
// this call actually set the marker.
func (r *ProjectRepository) MarkReminderSent(ctx context.Context, id int64, milestone string, sentAt time.Time) (bool, error) {
	var column string
	switch milestone {
	case model.MilestoneThreeDaysBefore:
		column = "reminder_three_days_sent_at"
	case model.MilestoneDeadlineDay:
		column = "reminder_deadline_day_sent_at"
	default:
		return false, fmt.Errorf("unknown reminder milestone: %s", milestone)
	}

	query := fmt.Sprintf(`
        UPDATE projects
        SET %s = $2, updated_at = now()
        WHERE id = $1 AND %s IS NULL
    `, column, column)

	tag, err := r.db.Exec(ctx, query, id, sentAt)
	if err != nil {
		r.logger.Error("Failed to persist reminder marker",
			zap.Int64("id", id),
			zap.String("milestone", milestone),
			zap.Error(err),
		)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ProjectRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM projects`).Scan(&n)
	return n, err
}

func (r *ProjectRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM projects WHERE status = $1`, status).Scan(&n)
	return n, err
}
