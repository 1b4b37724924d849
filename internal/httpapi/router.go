package httpapi

import (
	"github.com/gofiber/fiber/v2"
)

// NewApp assembles the fiber application: public auth routes, a health
// endpoint, and the bearer-protected task routes.
func NewApp(handlers *Handlers, identity Identity) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Get("/health", handlers.Health)

	authGroup := app.Group("/api/auth")
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/login", handlers.Login)

	todos := app.Group("/api/todos", AuthMiddleware(identity))
	todos.Get("/", handlers.ListTasks)
	todos.Post("/", handlers.CreateTask)
	todos.Put("/:id", handlers.UpdateTask)
	todos.Delete("/:id", handlers.DeleteTask)

	return app
}
