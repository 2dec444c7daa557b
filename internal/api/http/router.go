package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/hrms-service/internal/api/http/handlers"
	"github.com/spec-kit/hrms-service/internal/domain"
	"github.com/spec-kit/hrms-service/internal/observability"
	"github.com/spec-kit/hrms-service/internal/routing"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Users       *handlers.UsersHandler
	Departments *handlers.DepartmentsHandler
	Employees   *handlers.EmployeesHandler
}

// BuildRouteTable registers every API route. Order matters: the first match wins.
func BuildRouteTable(cfg RouteConfig) *routing.Table {
	t := routing.NewTable()
	const public, authenticated = false, true

	t.MustRegister(fiber.MethodGet, "/health/live", cfg.Health.Live, public, "")
	t.MustRegister(fiber.MethodGet, "/health/ready", cfg.Health.Ready, public, "")

	t.MustRegister(fiber.MethodPost, "/auth/login", cfg.Auth.Login, public, "")
	t.MustRegister(fiber.MethodPost, "/auth/password/reset/request", cfg.Auth.RequestPasswordReset, public, "")
	t.MustRegister(fiber.MethodPost, "/auth/password/reset/confirm", cfg.Auth.ConfirmPasswordReset, public, "")
	t.MustRegister(fiber.MethodPost, "/auth/refresh", cfg.Auth.Refresh, authenticated, "")
	t.MustRegister(fiber.MethodPost, "/auth/logout", cfg.Auth.Logout, authenticated, "")
	t.MustRegister(fiber.MethodGet, "/auth/me", cfg.Auth.Me, authenticated, "")
	t.MustRegister(fiber.MethodPost, "/auth/change-password", cfg.Auth.ChangePassword, authenticated, "")

	t.MustRegister(fiber.MethodGet, "/users", cfg.Users.List, authenticated, domain.RoleAdmin)
	t.MustRegister(fiber.MethodPost, "/users", cfg.Users.Create, authenticated, domain.RoleAdmin)
	t.MustRegister(fiber.MethodPut, "/users/{id}/status", cfg.Users.UpdateStatus, authenticated, domain.RoleAdmin)

	t.MustRegister(fiber.MethodGet, "/departments", cfg.Departments.List, authenticated, domain.RoleEmployee)
	t.MustRegister(fiber.MethodGet, "/departments/{id}", cfg.Departments.Get, authenticated, domain.RoleEmployee)
	t.MustRegister(fiber.MethodPost, "/departments", cfg.Departments.Create, authenticated, domain.RoleHR)
	t.MustRegister(fiber.MethodPut, "/departments/{id}", cfg.Departments.Update, authenticated, domain.RoleHR)
	t.MustRegister(fiber.MethodDelete, "/departments/{id}", cfg.Departments.Delete, authenticated, domain.RoleAdmin)

	t.MustRegister(fiber.MethodGet, "/employees", cfg.Employees.List, authenticated, domain.RoleManager)
	t.MustRegister(fiber.MethodGet, "/employees/{id}/documents", cfg.Employees.ListDocuments, authenticated, domain.RoleManager)
	t.MustRegister(fiber.MethodGet, "/employees/{id}/documents/{docId}", cfg.Employees.GetDocument, authenticated, domain.RoleManager)
	t.MustRegister(fiber.MethodPost, "/employees/{id}/documents", cfg.Employees.AddDocument, authenticated, domain.RoleHR)
	t.MustRegister(fiber.MethodDelete, "/employees/{id}/documents/{docId}", cfg.Employees.DeleteDocument, authenticated, domain.RoleAdmin)
	t.MustRegister(fiber.MethodGet, "/employees/{id}", cfg.Employees.Get, authenticated, domain.RoleManager)
	t.MustRegister(fiber.MethodPost, "/employees", cfg.Employees.Create, authenticated, domain.RoleHR)
	t.MustRegister(fiber.MethodPut, "/employees/{id}", cfg.Employees.Update, authenticated, domain.RoleHR)
	t.MustRegister(fiber.MethodDelete, "/employees/{id}", cfg.Employees.Delete, authenticated, domain.RoleAdmin)

	return t
}

// RegisterRoutes mounts /metrics and hands everything else to the dispatcher.
func RegisterRoutes(app *fiber.App, dispatcher *Dispatcher, metrics *observability.Metrics) {
	if metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	}
	app.Use(dispatcher.Handle)
}
