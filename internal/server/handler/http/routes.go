// Package http provides HTTP routing and middleware configuration
// for the CardMaster service.
package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/cardmaster/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Auth          *AuthHandler
	Transactions  *TransactionHandler
	Customers     *CustomerHandler
	Users         *UserHandler
	Tasks         *TaskHandler
	Notifications *NotificationHandler
	Dashboard     *DashboardHandler
}

// NewRouter constructs and returns an HTTP handler that serves
// the CardMaster API under /api.
//
// Parameters:
//
//	h       - endpoint handlers
//	tokens  - verifies bearer tokens of protected routes
//	users   - loads the account behind a verified token
//	logger  - structured logger for request logging middleware
//
// Routes:
//
//	POST   /api/login                       → Auth.Login
//	GET    /api/me, PUT /api/me             → Auth.Me, Auth.UpdateMe
//	GET    /api/transactions                → Transactions.List
//	POST   /api/transactions                → Transactions.Create
//	GET    /api/transactions/export         → Transactions.Export
//	PUT    /api/transactions/{id}           → Transactions.Update
//	DELETE /api/transactions/{id}           → Transactions.Delete
//	GET    /api/suggestions/customers       → Transactions.SuggestCustomers
//	GET    /api/suggestions/pos             → Transactions.SuggestPOS
//	GET|POST /api/customers, PUT|DELETE /api/customers/{id}
//	GET|POST /api/users, PUT|DELETE /api/users/{id}
//	GET|POST /api/tasks, PUT /api/tasks/{id}
//	PATCH  /api/tasks/{id}/status           → Tasks.ChangeStatus
//	POST   /api/tasks/{id}/comments         → Tasks.Comment
//	GET    /api/notifications               → Notifications.List
//	GET    /api/notifications/unread        → Notifications.Unread
//	POST   /api/notifications/{id}/read     → Notifications.MarkRead
//	GET    /api/dashboard                   → Dashboard.Dashboard
//	GET|PUT /api/settings                   → Dashboard.Settings, Dashboard.UpdateSettings
//
// Middleware chain (applied in order):
//  1. AllowContentType("application/json"): rejects non-JSON request bodies
//  2. WithRequestLogging(logger): logs every request
//  3. BearerAuth, LoadUser: protected routes only
func NewRouter(
	h Handlers,
	tokens middleware.TokenParser,
	users middleware.UserLookup,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow request bodies with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/login", h.Auth.Login)

		// Protected group: requires a valid bearer token of an existing account
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(tokens))
			r.Use(middleware.LoadUser(users))

			r.Get("/me", h.Auth.Me)
			r.Put("/me", h.Auth.UpdateMe)

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", h.Transactions.List)
				r.Post("/", h.Transactions.Create)
				r.Get("/export", h.Transactions.Export)
				r.Put("/{id}", h.Transactions.Update)
				r.Delete("/{id}", h.Transactions.Delete)
			})
			r.Get("/suggestions/customers", h.Transactions.SuggestCustomers)
			r.Get("/suggestions/pos", h.Transactions.SuggestPOS)

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", h.Customers.List)
				r.Post("/", h.Customers.Create)
				r.Put("/{id}", h.Customers.Update)
				r.Delete("/{id}", h.Customers.Delete)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.Users.List)
				r.Post("/", h.Users.Create)
				r.Put("/{id}", h.Users.Update)
				r.Delete("/{id}", h.Users.Delete)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", h.Tasks.List)
				r.Post("/", h.Tasks.Create)
				r.Put("/{id}", h.Tasks.Update)
				r.Patch("/{id}/status", h.Tasks.ChangeStatus)
				r.Post("/{id}/comments", h.Tasks.Comment)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notifications.List)
				r.Get("/unread", h.Notifications.Unread)
				r.Post("/{id}/read", h.Notifications.MarkRead)
			})

			r.Get("/dashboard", h.Dashboard.Dashboard)
			r.Get("/settings", h.Dashboard.Settings)
			r.Put("/settings", h.Dashboard.UpdateSettings)
		})
	})

	return r
}

// NewHandlers wires every handler to a single backend implementing all of
// the service interfaces.
func NewHandlers(backend interface {
	AuthService
	TransactionService
	CustomerService
	UserService
	TaskService
	NotificationService
	DashboardService
}, tokens TokenIssuer) Handlers {
	return Handlers{
		Auth:          &AuthHandler{AuthService: backend, Tokens: tokens},
		Transactions:  &TransactionHandler{Service: backend},
		Customers:     &CustomerHandler{Service: backend},
		Users:         &UserHandler{Service: backend},
		Tasks:         &TaskHandler{Service: backend},
		Notifications: &NotificationHandler{Service: backend},
		Dashboard:     &DashboardHandler{Service: backend},
	}
}
