package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studybee/internal/model"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO users (user_id, nickname, created_at) VALUES (?, ?, ?)`,
		user.UserID,
		user.Nickname,
		user.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*model.User, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT user_id, nickname, created_at FROM users WHERE user_id = ?`,
		userID,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByNickname(ctx context.Context, nickname string) (*model.User, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT user_id, nickname, created_at FROM users WHERE nickname = ?`,
		nickname,
	)
	return scanUser(row)
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	var createdAt string
	if err := row.Scan(&user.UserID, &user.Nickname, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	parsed, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse user created_at: %w", err)
	}
	user.CreatedAt = parsed
	return &user, nil
}
