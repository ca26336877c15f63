package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studybee/internal/model"
)

type GroupRepository struct {
	db *sql.DB
}

func NewGroupRepository(db *sql.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return tx, nil
}

// CodeExists reports whether a group with the given code already exists.
func (r *GroupRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM groups WHERE code = ?`, code).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check group code: %w", err)
	}
	return count > 0, nil
}

// Create inserts the group and its creator's membership in one transaction.
func (r *GroupRepository) Create(ctx context.Context, group *model.Group) error {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	createdAt := group.CreatedAt.UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO groups (code, name, created_by, created_at) VALUES (?, ?, ?, ?)`,
		group.Code,
		group.Name,
		group.CreatedBy,
		createdAt,
	); err != nil {
		return fmt.Errorf("create group: %w", err)
	}

	for _, member := range group.Members {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO group_members (group_code, user_id, joined_at) VALUES (?, ?, ?)`,
			group.Code,
			member,
			createdAt,
		); err != nil {
			return fmt.Errorf("add founding member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create group: %w", err)
	}
	return nil
}

// GetByCode loads the group and its member list, in join order.
func (r *GroupRepository) GetByCode(ctx context.Context, code string) (*model.Group, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT code, name, created_by, created_at FROM groups WHERE code = ?`,
		code,
	)

	var group model.Group
	var createdAt string
	if err := row.Scan(&group.Code, &group.Name, &group.CreatedBy, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan group: %w", err)
	}

	parsed, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse group created_at: %w", err)
	}
	group.CreatedAt = parsed

	members, err := r.members(ctx, code)
	if err != nil {
		return nil, err
	}
	group.Members = members
	return &group, nil
}

func (r *GroupRepository) members(ctx context.Context, code string) ([]string, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT user_id FROM group_members WHERE group_code = ? ORDER BY joined_at, user_id`,
		code,
	)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}

// ListByMember returns all groups the user belongs to.
func (r *GroupRepository) ListByMember(ctx context.Context, userID string) ([]model.Group, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT g.code FROM groups g
		 JOIN group_members m ON m.group_code = g.code
		 WHERE m.user_id = ?
		 ORDER BY m.joined_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list groups by member: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan group code: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate group codes: %w", err)
	}

	groups := make([]model.Group, 0, len(codes))
	for _, code := range codes {
		group, err := r.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *group)
	}
	return groups, nil
}

// IsMember reports whether the user belongs to the group.
func (r *GroupRepository) IsMember(ctx context.Context, code, userID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM group_members WHERE group_code = ? AND user_id = ?`,
		code,
		userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return count > 0, nil
}

// AddMember inserts the membership row.
func (r *GroupRepository) AddMember(ctx context.Context, code, userID string, joinedAt time.Time) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO group_members (group_code, user_id, joined_at) VALUES (?, ?, ?)`,
		code,
		userID,
		joinedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

// RemoveMember deletes the membership and, when the group is left empty,
// the group itself, atomically. Returns true when the group was deleted.
func (r *GroupRepository) RemoveMember(ctx context.Context, code, userID string) (bool, error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(
		ctx,
		`DELETE FROM group_members WHERE group_code = ? AND user_id = ?`,
		code,
		userID,
	); err != nil {
		return false, fmt.Errorf("remove member: %w", err)
	}

	var remaining int
	if err := tx.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM group_members WHERE group_code = ?`,
		code,
	).Scan(&remaining); err != nil {
		return false, fmt.Errorf("count remaining members: %w", err)
	}

	deleted := false
	if remaining == 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM groups WHERE code = ?`, code); err != nil {
			return false, fmt.Errorf("delete empty group: %w", err)
		}
		deleted = true
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit remove member: %w", err)
	}
	return deleted, nil
}

func (r *GroupRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM groups`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count groups: %w", err)
	}
	return count, nil
}
