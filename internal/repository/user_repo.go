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

type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

func (r *UserRepository) Insert(ctx context.Context, u *model.User) (int64, error) {
	query := `
        INSERT INTO users (name, email, password_hash, role, is_active)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.IsActive,
	).Scan(&u.ID, &u.CreatedAt)

	if err != nil {
		r.logger.Error("Failed to insert user", zap.Error(err))
		return 0, err
	}

	r.logger.Info("User inserted successfully",
		zap.Int64("id", u.ID),
		zap.String("role", u.Role),
	)
	return u.ID, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
        SELECT id, name, email, password_hash, role, is_active, created_at
        FROM users WHERE id = $1
    `
	var u model.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		r.logger.Error("Failed to get user", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
        SELECT id, name, email, password_hash, role, is_active, created_at
        FROM users WHERE email = $1
    `
	var u model.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		r.logger.Error("Failed to get user by email", zap.Error(err))
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	query := `
        SELECT id, name, email, password_hash, role, is_active, created_at
        FROM users ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query users", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update edits profile and role fields. The password hash is owned by the
// auth flow and is not touched here.
func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	query := `
        UPDATE users
        SET name = $2, email = $3, role = $4, is_active = $5
        WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query, u.ID, u.Name, u.Email, u.Role, u.IsActive)
	if err != nil {
		r.logger.Error("Failed to update user", zap.Int64("id", u.ID), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes a user. Rows are never removed because projects
// and ledger records keep foreign keys to them.
func (r *UserRepository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to deactivate user", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *UserRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}
