package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/remindd/remindd/internal/auth"
	"github.com/remindd/remindd/internal/config"
	"github.com/remindd/remindd/internal/httpapi"
	"github.com/remindd/remindd/internal/scheduler"
	"github.com/remindd/remindd/internal/storage"
	"github.com/remindd/remindd/internal/task"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.FromEnv(config.Default())
	if err != nil {
		logger.Error("configuration failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("open database failed", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	if err := storage.MigrateUp(repo.DB()); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenManager(auth.TokenConfig{
		SecretKey: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		Issuer:    "remindd",
	})
	authService := auth.NewService(repo, auth.NewPasswordHasher(), tokens)
	taskService := task.NewService(repo)

	notifier := scheduler.NewNotifier(taskService, taskService, cfg.SchedulerBuffer,
		scheduler.WithInterval(cfg.PollInterval),
		scheduler.WithLogger(logger),
	)
	notifier.Start()
	go deliverReminders(notifier, logger)

	handlers := httpapi.NewHandlers(authService, taskService, logger)
	app := httpapi.NewApp(handlers, authService)

	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		if err := app.Listen(cfg.Addr); err != nil {
			logger.Error("http server stopped", "error", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http": func(ctx context.Context) error {
				return app.ShutdownWithContext(ctx)
			},
			"notifier": func(ctx context.Context) error {
				notifier.Stop()
				return nil
			},
			"database": func(ctx context.Context) error {
				return repo.Close()
			},
		},
	)

	exitCode := <-wait
	logger.Info("exited", "code", exitCode)
	os.Exit(exitCode)
}

// deliverReminders drains the notifier's event channel. Delivery here
// is in-process emission: each reminder is logged with the owning user
// so an outer presentation layer can take over transport later.
func deliverReminders(notifier *scheduler.Notifier, logger *slog.Logger) {
	for ev := range notifier.C() {
		logger.Info("reminder",
			"task_id", ev.TaskID,
			"owner_id", ev.OwnerID,
			"time", ev.Time,
			"text", ev.Text,
		)
	}
}
