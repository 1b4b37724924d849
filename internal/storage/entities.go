package storage

import "time"

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

type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
