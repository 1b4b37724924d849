package httpapi

import (
	"encoding/json"
	"time"

	"github.com/remindd/remindd/internal/model"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type CreateTaskRequest struct {
	Text string  `json:"text"`
	Date *string `json:"date"`
	Time *string `json:"time"`
}

// UpdateTaskRequest is a partial update: absent fields stay untouched.
// Time is raw JSON so an explicit null (or "") — which clears the
// reminder — can be told apart from the field being absent.
type UpdateTaskRequest struct {
	Text      *string         `json:"text"`
	Date      *string         `json:"date"`
	Time      json.RawMessage `json:"time,omitempty"`
	Completed *bool           `json:"completed"`
}

type TaskResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Date      string    `json:"date"`
	Time      string    `json:"time,omitempty"`
	Completed bool      `json:"completed"`
	Notified  bool      `json:"notified"`
	CreatedAt time.Time `json:"created_at"`
}

type DeleteResponse struct {
	Message string `json:"message"`
}

const dateLayout = "2006-01-02"

func taskResponse(t model.Task) TaskResponse {
	return TaskResponse{
		ID:        t.ID,
		Text:      t.Text,
		Date:      t.Date.Format(dateLayout),
		Time:      t.Time,
		Completed: t.Completed,
		Notified:  t.Notified,
		CreatedAt: t.CreatedAt,
	}
}
