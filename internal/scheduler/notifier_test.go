package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/remindd/remindd/internal/model"
)

type fakeStore struct {
	tasks   map[string]*model.Task
	order   []string
	listErr error
	markErr error
	marks   int
}

func newFakeStore(tasks ...model.Task) *fakeStore {
	s := &fakeStore{tasks: make(map[string]*model.Task)}
	for i := range tasks {
		t := tasks[i]
		s.tasks[t.ID] = &t
		s.order = append(s.order, t.ID)
	}
	return s
}

func (s *fakeStore) ListPendingScheduled(ctx context.Context) ([]model.Task, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]model.Task, 0, len(s.order))
	for _, id := range s.order {
		t := s.tasks[id]
		if t.HasReminder() && t.Phase() == model.PhasePending {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeStore) MarkNotified(ctx context.Context, id string) error {
	s.marks++
	if s.markErr != nil {
		return s.markErr
	}
	s.tasks[id].Notified = true
	return nil
}

func at(hour, min int) time.Time {
	return time.Date(2026, 8, 30, hour, min, 30, 0, time.UTC)
}

func drain(ch <-chan ReminderEvent) []ReminderEvent {
	out := make([]ReminderEvent, 0)
	for {
		select {
		case ev := <-ch:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestTickFiresExactlyOnce(t *testing.T) {
	store := newFakeStore(model.Task{
		ID: "task-1", OwnerID: "user-1", Text: "Pay rent", Time: "09:00",
	})
	n := NewNotifier(store, store, 8)

	n.Tick(context.Background(), at(9, 0))
	events := drain(n.C())
	if len(events) != 1 {
		t.Fatalf("expected one reminder at 09:00, got %d", len(events))
	}
	if events[0].TaskID != "task-1" || events[0].Text != "Pay rent" {
		t.Fatalf("unexpected event: %+v", events[0])
	}
	if !store.tasks["task-1"].Notified {
		t.Fatal("task should be notified after the tick")
	}

	// A later tick emits nothing for the already-notified task.
	n.Tick(context.Background(), at(9, 1))
	n.Tick(context.Background(), at(9, 0))
	if events := drain(n.C()); len(events) != 0 {
		t.Fatalf("expected no further reminders, got %d", len(events))
	}
}

func TestTickIgnoresNonMatchingMinute(t *testing.T) {
	store := newFakeStore(model.Task{
		ID: "task-1", OwnerID: "user-1", Text: "Pay rent", Time: "09:00",
	})
	n := NewNotifier(store, store, 8)

	n.Tick(context.Background(), at(8, 59))
	n.Tick(context.Background(), at(9, 1))
	if events := drain(n.C()); len(events) != 0 {
		t.Fatalf("expected no reminders outside the matching minute, got %d", len(events))
	}
	if store.tasks["task-1"].Notified {
		t.Fatal("task should still be pending")
	}
}

func TestTickSkipsCompletedAndUnscheduled(t *testing.T) {
	store := newFakeStore(
		model.Task{ID: "done", OwnerID: "u", Text: "done", Time: "09:00", Completed: true},
		model.Task{ID: "no-time", OwnerID: "u", Text: "no time"},
	)
	n := NewNotifier(store, store, 8)

	n.Tick(context.Background(), at(9, 0))
	if events := drain(n.C()); len(events) != 0 {
		t.Fatalf("expected no reminders, got %d", len(events))
	}
}

func TestTickFiresEachMatchingTaskOnce(t *testing.T) {
	store := newFakeStore(
		model.Task{ID: "a", OwnerID: "u1", Text: "a", Time: "09:00"},
		model.Task{ID: "b", OwnerID: "u2", Text: "b", Time: "09:00"},
		model.Task{ID: "c", OwnerID: "u1", Text: "c", Time: "10:00"},
	)
	n := NewNotifier(store, store, 8)

	n.Tick(context.Background(), at(9, 0))
	events := drain(n.C())
	if len(events) != 2 {
		t.Fatalf("expected two reminders, got %d", len(events))
	}
	seen := map[string]int{}
	for _, ev := range events {
		seen[ev.TaskID]++
	}
	if seen["a"] != 1 || seen["b"] != 1 {
		t.Fatalf("expected one event per matching task, got %v", seen)
	}
}

func TestMarkFailureLeavesTaskPendingAndRefires(t *testing.T) {
	store := newFakeStore(model.Task{
		ID: "task-1", OwnerID: "user-1", Text: "Pay rent", Time: "09:00",
	})
	store.markErr = errors.New("store unavailable")
	n := NewNotifier(store, store, 8)

	n.Tick(context.Background(), at(9, 0))
	if events := drain(n.C()); len(events) != 1 {
		t.Fatalf("event should still be emitted on persist failure, got %d", len(events))
	}
	if store.tasks["task-1"].Notified {
		t.Fatal("failed flip must leave the task pending")
	}

	// Store recovers: the next matching tick fires again. A duplicate
	// reminder is acceptable, a lost one is not.
	store.markErr = nil
	n.Tick(context.Background(), at(9, 0))
	if events := drain(n.C()); len(events) != 1 {
		t.Fatalf("expected a re-fire after recovery, got %d", len(events))
	}
	if !store.tasks["task-1"].Notified {
		t.Fatal("flip should persist after recovery")
	}
}

func TestSnapshotFailureSkipsTick(t *testing.T) {
	store := newFakeStore(model.Task{
		ID: "task-1", OwnerID: "user-1", Text: "Pay rent", Time: "09:00",
	})
	store.listErr = errors.New("store unavailable")
	n := NewNotifier(store, store, 8)

	n.Tick(context.Background(), at(9, 0))
	if events := drain(n.C()); len(events) != 0 {
		t.Fatalf("expected no events when the snapshot fails, got %d", len(events))
	}
	if store.marks != 0 {
		t.Fatal("no transition may happen without a snapshot")
	}
}

func TestSlowConsumerDropsInsteadOfBlocking(t *testing.T) {
	tasks := make([]model.Task, 0, 5)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		tasks = append(tasks, model.Task{ID: id, OwnerID: "u", Text: id, Time: "09:00"})
	}
	store := newFakeStore(tasks...)
	n := NewNotifier(store, store, 2)

	n.Tick(context.Background(), at(9, 0))
	if n.Dropped() != 3 {
		t.Fatalf("expected 3 dropped events with buffer 2, got %d", n.Dropped())
	}
	// Dropped or not, every matching task still transitioned.
	for _, task := range store.tasks {
		if !task.Notified {
			t.Fatalf("task %s not transitioned", task.ID)
		}
	}
}

func TestStartStopLifecycle(t *testing.T) {
	store := newFakeStore()
	n := NewNotifier(store, store, 1, WithInterval(5*time.Millisecond))

	n.Start()
	n.Start() // second Start is a no-op
	time.Sleep(20 * time.Millisecond)
	n.Stop()
	n.Stop() // second Stop is a no-op

	// The out channel closes once the loop exits.
	if _, open := <-n.C(); open {
		t.Fatal("expected closed event channel after Stop")
	}
}
