package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, in Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, owner_id, text, date, time, completed, notified, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.OwnerID, in.Text, mustTime(in.Date), in.Time,
		boolInt(in.Completed), boolInt(in.Notified), mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, text, date, time, completed, notified, created_at
		FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return task, nil
}

// UpdateTask never writes the notified column: that flag has exactly
// one transition, MarkTaskNotified, and a CRUD write-back from a read
// taken before a concurrent flip must not un-fire a reminder.
func (r *SQLiteRepository) UpdateTask(ctx context.Context, in Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET text = ?, date = ?, time = ?, completed = ?
		WHERE id = ?`,
		in.Text, mustTime(in.Date), in.Time, boolInt(in.Completed), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTasksByOwner(ctx context.Context, ownerID string) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, text, date, time, completed, notified, created_at
		FROM tasks WHERE owner_id = ?
		ORDER BY date DESC, created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListPendingScheduled(ctx context.Context) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, text, date, time, completed, notified, created_at
		FROM tasks WHERE time != '' AND completed = 0 AND notified = 0
		ORDER BY time ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) MarkTaskNotified(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET notified = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, in User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)`,
		in.ID, strings.ToLower(in.Email), in.PasswordHash, mustTime(in.CreatedAt),
	)
	if err != nil && isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id string) (User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at FROM users WHERE id = ?`, id)
	return scanUserRow(row)
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at FROM users WHERE email = ?`,
		strings.ToLower(email))
	return scanUserRow(row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (Task, error) {
	var out Task
	var date string
	var completed int
	var notified int
	var created string
	if err := s.Scan(&out.ID, &out.OwnerID, &out.Text, &date, &out.Time, &completed, &notified, &created); err != nil {
		return Task{}, err
	}
	dateAt, err := parseRequiredTime(date)
	if err != nil {
		return Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Task{}, err
	}
	out.Date = dateAt
	out.Completed = completed == 1
	out.Notified = notified == 1
	out.CreatedAt = createdAt
	return out, nil
}

func scanUserRow(row *sql.Row) (User, error) {
	var out User
	var created string
	if err := row.Scan(&out.ID, &out.Email, &out.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return User{}, err
	}
	out.CreatedAt = createdAt
	return out, nil
}

func mustTime(value time.Time) string {
	return value.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(raw string) (time.Time, error) {
	out, err := time.Parse(sqliteTimeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", raw, err)
	}
	return out, nil
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
