package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("storage: not found")
	ErrConflict = errors.New("storage: already exists")
)

type Repository interface {
	CreateTask(ctx context.Context, in Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	UpdateTask(ctx context.Context, in Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasksByOwner(ctx context.Context, ownerID string) ([]Task, error)

	// ListPendingScheduled returns tasks that carry a reminder time and
	// are neither completed nor notified: the scheduler's per-tick
	// snapshot.
	ListPendingScheduled(ctx context.Context) ([]Task, error)

	// MarkTaskNotified flips notified on a single row. It is the final
	// step of a matching pass, so an interrupted tick either fully
	// transitions a task or leaves it pending.
	MarkTaskNotified(ctx context.Context, id string) error

	CreateUser(ctx context.Context, in User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
}
