package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyText   = errors.New("model: task text is required")
	ErrInvalidTime = errors.New("model: invalid reminder time")
)

// Phase is the explicit reminder state of a task, derived from the
// completed/notified pair. A completed task is Done regardless of
// whether its reminder already fired.
type Phase string

const (
	PhasePending  Phase = "Pending"
	PhaseNotified Phase = "Notified"
	PhaseDone     Phase = "Done"
)

func (p Phase) IsValid() bool {
	switch p {
	case PhasePending, PhaseNotified, PhaseDone:
		return true
	default:
		return false
	}
}

type Task struct {
	ID        string
	OwnerID   string
	Text      string
	Date      time.Time
	Time      string
	Completed bool
	Notified  bool
	CreatedAt time.Time
}

func (t Task) Phase() Phase {
	switch {
	case t.Completed:
		return PhaseDone
	case t.Notified:
		return PhaseNotified
	default:
		return PhasePending
	}
}

// HasReminder reports whether the task carries a time-of-day and is
// therefore ever eligible for matching.
func (t Task) HasReminder() bool {
	return t.Time != ""
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.OwnerID) == "" {
		return errors.New("model: task owner_id is required")
	}
	if strings.TrimSpace(t.Text) == "" {
		return ErrEmptyText
	}
	if t.Time != "" {
		if _, err := ParseClockTime(t.Time); err != nil {
			return err
		}
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	return nil
}

// ParseClockTime validates an HH:MM time-of-day string and returns it
// normalized to two-digit hour and minute.
func ParseClockTime(raw string) (string, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, raw)
	}
	return parsed.Format("15:04"), nil
}

// MinuteOf truncates a wall-clock instant to the HH:MM string tasks
// store, the granularity reminders match at.
func MinuteOf(now time.Time) string {
	return now.Format("15:04")
}
