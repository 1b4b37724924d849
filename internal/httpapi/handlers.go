package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/remindd/remindd/internal/auth"
	"github.com/remindd/remindd/internal/model"
	"github.com/remindd/remindd/internal/storage"
	"github.com/remindd/remindd/internal/task"
)

type Handlers struct {
	auth   *auth.Service
	tasks  *task.Service
	logger *slog.Logger
}

func NewHandlers(authService *auth.Service, taskService *task.Service, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{auth: authService, tasks: taskService, logger: logger}
}

func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	user, err := h.auth.Register(c.UserContext(), auth.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return h.mapError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	session, err := h.auth.Login(c.UserContext(), auth.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(TokenResponse{
		AccessToken: session.Token,
		TokenType:   "Bearer",
		ExpiresIn:   session.ExpiresIn,
	})
}

func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	tasks, err := h.tasks.List(c.UserContext(), callerID(c))
	if err != nil {
		return h.mapError(c, err)
	}
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskResponse(t))
	}
	return c.JSON(out)
}

func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	in := task.CreateInput{Text: req.Text}
	if req.Time != nil {
		in.Time = *req.Time
	}
	if req.Date != nil && *req.Date != "" {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return badRequest(c, "Invalid date, expected YYYY-MM-DD")
		}
		in.Date = &date
	}

	created, err := h.tasks.Create(c.UserContext(), callerID(c), in)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(taskResponse(created))
}

func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	patch := task.Patch{
		Text:      req.Text,
		Completed: req.Completed,
	}
	if len(req.Time) != 0 {
		// An explicit null clears the reminder; absent leaves it alone.
		if string(req.Time) == "null" {
			empty := ""
			patch.Time = &empty
		} else {
			var clock string
			if err := json.Unmarshal(req.Time, &clock); err != nil {
				return badRequest(c, "Invalid time, expected HH:MM")
			}
			patch.Time = &clock
		}
	}
	if req.Date != nil {
		if *req.Date == "" {
			return badRequest(c, "Invalid date, expected YYYY-MM-DD")
		}
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return badRequest(c, "Invalid date, expected YYYY-MM-DD")
		}
		patch.Date = &date
	}

	updated, err := h.tasks.Update(c.UserContext(), callerID(c), c.Params("id"), patch)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(taskResponse(updated))
}

func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	if err := h.tasks.Delete(c.UserContext(), callerID(c), c.Params("id")); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(DeleteResponse{Message: "Task removed"})
}

func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handlers) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, model.ErrEmptyText):
		return badRequest(c, "Text is required")
	case errors.Is(err, model.ErrInvalidTime):
		return badRequest(c, "Invalid time, expected HH:MM")
	case errors.Is(err, model.ErrInvalidEmail):
		return badRequest(c, "Invalid email")
	case errors.Is(err, auth.ErrWeakPassword):
		return badRequest(c, "Password must be at least 8 characters")
	case errors.Is(err, auth.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "Email already registered",
		})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return unauthorized(c, "Invalid email or password")
	case errors.Is(err, task.ErrNotOwner):
		// Distinct from 404: the task exists but belongs to someone
		// else.
		return unauthorized(c, "Not authorized")
	case errors.Is(err, storage.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Task not found",
		})
	default:
		h.logger.Error("request failed", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal",
			Message: "Server error",
		})
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}
