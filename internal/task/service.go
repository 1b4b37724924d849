package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/remindd/remindd/internal/model"
	"github.com/remindd/remindd/internal/storage"
)

// ErrNotOwner is returned when a task exists but belongs to a
// different user. It is kept distinct from storage.ErrNotFound so the
// transport layer can answer 401 vs 404.
var ErrNotOwner = errors.New("task: not the task owner")

// Service owns every task mutation. All operations except
// MarkNotified are scoped to an owner id resolved by the caller from a
// verified credential.
type Service struct {
	repo  storage.Repository
	now   func() time.Time
	newID func() string
}

func NewService(repo storage.Repository) *Service {
	return &Service{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

type CreateInput struct {
	Text string
	Date *time.Time
	Time string
}

// Patch carries a partial update: nil fields are left untouched.
// Setting Time to an empty string clears the reminder.
type Patch struct {
	Text      *string
	Date      *time.Time
	Time      *string
	Completed *bool
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (model.Task, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return model.Task{}, model.ErrEmptyText
	}

	clock := ""
	if in.Time != "" {
		normalized, err := model.ParseClockTime(in.Time)
		if err != nil {
			return model.Task{}, err
		}
		clock = normalized
	}

	createdAt := s.now().UTC()
	date := createdAt
	if in.Date != nil {
		date = in.Date.UTC()
	}

	task := model.Task{
		ID:        s.newID(),
		OwnerID:   ownerID,
		Text:      text,
		Date:      date,
		Time:      clock,
		CreatedAt: createdAt,
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	if err := s.repo.CreateTask(ctx, toStorage(task)); err != nil {
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]model.Task, error) {
	rows, err := s.repo.ListTasksByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	out := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromStorage(row))
	}
	return out, nil
}

// Get returns one task, subject to the same ownership check as every
// other read.
func (s *Service) Get(ctx context.Context, ownerID, id string) (model.Task, error) {
	return s.fetchOwned(ctx, ownerID, id)
}

// Update applies a partial update to one task. The ownership check
// runs before any field is touched: fetch by id, compare owners, only
// then merge. A task whose time is edited after its reminder fired
// stays notified and will not fire again.
func (s *Service) Update(ctx context.Context, ownerID, id string, patch Patch) (model.Task, error) {
	current, err := s.fetchOwned(ctx, ownerID, id)
	if err != nil {
		return model.Task{}, err
	}

	if patch.Text != nil {
		text := strings.TrimSpace(*patch.Text)
		if text == "" {
			return model.Task{}, model.ErrEmptyText
		}
		current.Text = text
	}
	if patch.Date != nil {
		current.Date = patch.Date.UTC()
	}
	if patch.Time != nil {
		if *patch.Time == "" {
			current.Time = ""
		} else {
			normalized, parseErr := model.ParseClockTime(*patch.Time)
			if parseErr != nil {
				return model.Task{}, parseErr
			}
			current.Time = normalized
		}
	}
	if patch.Completed != nil {
		current.Completed = *patch.Completed
	}

	if err := s.repo.UpdateTask(ctx, toStorage(current)); err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.fetchOwned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// MarkNotified flips the notified flag without an ownership check; it
// is the scheduler's transition, not a user operation.
func (s *Service) MarkNotified(ctx context.Context, id string) error {
	if err := s.repo.MarkTaskNotified(ctx, id); err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	return nil
}

// ListPendingScheduled is the scheduler's snapshot provider: tasks
// that carry a reminder time and are still pending.
func (s *Service) ListPendingScheduled(ctx context.Context) ([]model.Task, error) {
	rows, err := s.repo.ListPendingScheduled(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	out := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromStorage(row))
	}
	return out, nil
}

func (s *Service) fetchOwned(ctx context.Context, ownerID, id string) (model.Task, error) {
	row, err := s.repo.GetTask(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return model.Task{}, storage.ErrNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("get task: %w", err)
	}
	if row.OwnerID != ownerID {
		return model.Task{}, ErrNotOwner
	}
	return fromStorage(row), nil
}

func toStorage(t model.Task) storage.Task {
	return storage.Task{
		ID:        t.ID,
		OwnerID:   t.OwnerID,
		Text:      t.Text,
		Date:      t.Date,
		Time:      t.Time,
		Completed: t.Completed,
		Notified:  t.Notified,
		CreatedAt: t.CreatedAt,
	}
}

func fromStorage(t storage.Task) model.Task {
	return model.Task{
		ID:        t.ID,
		OwnerID:   t.OwnerID,
		Text:      t.Text,
		Date:      t.Date,
		Time:      t.Time,
		Completed: t.Completed,
		Notified:  t.Notified,
		CreatedAt: t.CreatedAt,
	}
}
