package session

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"kidofood-web/internal/logger"
	"kidofood-web/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("session not found")

// Record is one row of web_sessions.
type Record struct {
	ID        uuid.UUID
	User      model.User
	ExpiresAt time.Time
}

type Repository interface {
	Find(ctx context.Context, id uuid.UUID) (*Record, error)
	Create(ctx context.Context, rec Record) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Find(ctx context.Context, id uuid.UUID) (*Record, error) {
	rec := Record{ID: id}
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, email, name, role, expires_at
		FROM web_sessions
		WHERE id = $1
	`, id).Scan(&rec.User.ID, &rec.User.Email, &rec.User.Name, &rec.User.Role, &rec.ExpiresAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("DB query failed FindSession", zap.String("session_id", id.String()), zap.Error(err))
		return nil, err
	}
	return &rec, nil
}

func (r *repository) Create(ctx context.Context, rec Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO web_sessions (id, user_id, email, name, role, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.ID, rec.User.ID, rec.User.Email, rec.User.Name, int(rec.User.Role), rec.ExpiresAt)
	if err != nil {
		logger.FromCtx(ctx).Error("DB insert failed CreateSession", zap.String("user_id", rec.User.ID), zap.Error(err))
	}
	return err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM web_sessions WHERE id = $1`, id)
	if err != nil {
		logger.FromCtx(ctx).Error("DB delete failed DeleteSession", zap.String("session_id", id.String()), zap.Error(err))
	}
	return err
}

func (r *repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM web_sessions WHERE expires_at <= $1`, now)
	if err != nil {
		logger.FromCtx(ctx).Error("DB delete failed DeleteExpiredSessions", zap.Error(err))
		return 0, err
	}
	return res.RowsAffected()
}
