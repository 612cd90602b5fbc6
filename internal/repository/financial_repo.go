package repository

import (
	"context"
	"errors"

	"scholarlyedge/internal/apperr"
	"scholarlyedge/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type FinancialRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewFinancialRepository(db *pgxpool.Pool, logger *zap.Logger) *FinancialRepository {
	return &FinancialRepository{
		db:     db,
		logger: logger,
	}
}

const financialColumns = `
	id, type, category, amount, currency, description,
	project_id, user_id, status, transaction_date, notes,
	created_by, created_at, updated_at`

func scanFinancialRecord(row pgx.Row) (*model.FinancialRecord, error) {
	var rec model.FinancialRecord
	err := row.Scan(
		&rec.ID, &rec.Type, &rec.Category, &rec.Amount, &rec.Currency, &rec.Description,
		&rec.ProjectID, &rec.UserID, &rec.Status, &rec.TransactionDate, &rec.Notes,
		&rec.CreatedBy, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *FinancialRepository) Insert(ctx context.Context, rec *model.FinancialRecord) (int64, error) {
	r.logger.Debug("Inserting financial record",
		zap.String("type", rec.Type),
		zap.String("category", rec.Category),
		zap.Float64("amount", rec.Amount),
	)

	query := `
        INSERT INTO financial_records (
            type, category, amount, currency, description,
            project_id, user_id, status, transaction_date, notes, created_by
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		rec.Type,
		rec.Category,
		rec.Amount,
		rec.Currency,
		rec.Description,
		rec.ProjectID,
		rec.UserID,
		rec.Status,
		rec.TransactionDate,
		rec.Notes,
		rec.CreatedBy,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		r.logger.Error("Failed to insert financial record", zap.Error(err))
		return 0, err
	}

	r.logger.Info("Financial record inserted successfully",
		zap.Int64("id", rec.ID),
		zap.String("type", rec.Type),
		zap.String("category", rec.Category),
	)
	return rec.ID, nil
}

func (r *FinancialRepository) GetByID(ctx context.Context, id int64) (*model.FinancialRecord, error) {
	query := `SELECT` + financialColumns + ` FROM financial_records WHERE id = $1`

	rec, err := scanFinancialRecord(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		r.logger.Error("Failed to get financial record", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return rec, nil
}

func (r *FinancialRepository) List(ctx context.Context) ([]model.FinancialRecord, error) {
	query := `SELECT` + financialColumns + ` FROM financial_records ORDER BY transaction_date DESC`
	return r.queryRecords(ctx, query)
}

func (r *FinancialRepository) ListRecent(ctx context.Context, limit int) ([]model.FinancialRecord, error) {
	query := `SELECT` + financialColumns + ` FROM financial_records ORDER BY transaction_date DESC LIMIT $1`
	return r.queryRecords(ctx, query, limit)
}

func (r *FinancialRepository) ListByProject(ctx context.Context, projectID int64) ([]model.FinancialRecord, error) {
	query := `SELECT` + financialColumns + ` FROM financial_records WHERE project_id = $1 ORDER BY transaction_date DESC`
	return r.queryRecords(ctx, query, projectID)
}

func (r *FinancialRepository) queryRecords(ctx context.Context, query string, args ...any) ([]model.FinancialRecord, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query financial records", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var records []model.FinancialRecord
	for rows.Next() {
		rec, err := scanFinancialRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// CancelByProject bulk-updates every record referencing the project to
// cancelled status with the cancellation note. Returns the number of
// affected records.
func (r *FinancialRepository) CancelByProject(ctx context.Context, projectID int64, note string) (int64, error) {
	query := `
        UPDATE financial_records
        SET status = $2, notes = $3, updated_at = now()
        WHERE project_id = $1
    `
	tag, err := r.db.Exec(ctx, query, projectID, model.RecordStatusCancelled, note)
	if err != nil {
		r.logger.Error("Failed to cancel financial records",
			zap.Int64("project_id", projectID),
			zap.Error(err),
		)
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// SumCompletedIncome totals all completed income records.
func (r *FinancialRepository) SumCompletedIncome(ctx context.Context) (float64, error) {
	var total float64
	query := `
        SELECT COALESCE(sum(amount), 0)
        FROM financial_records
        WHERE type = $1 AND status = $2
    `
	err := r.db.QueryRow(ctx, query, model.RecordTypeIncome, model.RecordStatusCompleted).Scan(&total)
	if err != nil {
		r.logger.Error("Failed to sum completed income", zap.Error(err))
		return 0, err
	}
	return total, nil
}
