package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/dental-solution/internal/api/http/handlers"
	"github.com/spec-kit/dental-solution/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Users   *handlers.UsersHandler
	Posts   *handlers.PostsHandler
	Metrics *observability.Metrics
	// AuthLimiter guards /register and /login. Nil disables throttling.
	AuthLimiter fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Root)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if reg := cfg.Metrics.Registry(); reg != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	credentials := []fiber.Handler{}
	if cfg.AuthLimiter != nil {
		credentials = append(credentials, cfg.AuthLimiter)
	}
	app.Post("/register", append(credentials, cfg.Users.Register)...)
	app.Post("/login", append(credentials, cfg.Users.Login)...)
	app.Post("/users", cfg.Users.Users)
	app.Post("/updateUser", cfg.Users.UpdateUser)

	app.Post("/leavePost", cfg.Posts.LeavePost)
	app.Post("/getPosts", cfg.Posts.GetPosts)
	app.Post("/updatePost", cfg.Posts.UpdatePost)
	app.Post("/leaveComment", cfg.Posts.LeaveComment)
	app.Delete("/deletePost/:id", cfg.Posts.DeletePost)
}
