package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/opsdesk/operations-api/internal/auth"
	"github.com/opsdesk/operations-api/internal/config"
	"github.com/opsdesk/operations-api/internal/database"
	"github.com/opsdesk/operations-api/internal/http/handler"
	"github.com/opsdesk/operations-api/internal/http/middleware"

	_ "github.com/opsdesk/operations-api/docs" // generated swagger docs
)

type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	db               *gorm.DB
	authMiddleware   *auth.Middleware
	rateLimiter      *middleware.RateLimiter
	authHandler      *handler.AuthHandler
	userHandler      *handler.UserHandler
	clientHandler    *handler.ClientHandler
	contactHandler   *handler.ContactHandler
	quotationHandler *handler.QuotationHandler
	historyHandler   *handler.ServiceHistoryHandler
	docHandler       *handler.TechnicalDocHandler
	taskHandler      *handler.TaskHandler
	expenseHandler   *handler.ExpenseHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	clientHandler *handler.ClientHandler,
	contactHandler *handler.ContactHandler,
	quotationHandler *handler.QuotationHandler,
	historyHandler *handler.ServiceHistoryHandler,
	docHandler *handler.TechnicalDocHandler,
	taskHandler *handler.TaskHandler,
	expenseHandler *handler.ExpenseHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		authMiddleware:   authMiddleware,
		rateLimiter:      rateLimiter,
		authHandler:      authHandler,
		userHandler:      userHandler,
		clientHandler:    clientHandler,
		contactHandler:   contactHandler,
		quotationHandler: quotationHandler,
		historyHandler:   historyHandler,
		docHandler:       docHandler,
		taskHandler:      taskHandler,
		expenseHandler:   expenseHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Liveness probe
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Readiness probe with connection pool stats
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		code := http.StatusOK
		if !allHealthy {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", rt.authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)

			// Users
			r.Route("/users", func(r chi.Router) {
				r.Get("/", rt.userHandler.ListUsers)
				r.Post("/", rt.userHandler.CreateUser)
				r.Get("/{id}", rt.userHandler.GetUser)
				r.Put("/{id}", rt.userHandler.UpdateUser)
				r.Delete("/{id}", rt.userHandler.DeleteUser)
			})

			// Clients and their sub-resources
			r.Route("/clients", func(r chi.Router) {
				r.Get("/", rt.clientHandler.ListClients)
				r.Post("/", rt.clientHandler.CreateClient)
				r.Get("/{id}", rt.clientHandler.GetClient)
				r.Get("/{id}/details", rt.clientHandler.GetClientDetails)
				r.Put("/{id}", rt.clientHandler.UpdateClient)
				r.Delete("/{id}", rt.clientHandler.DeleteClient)

				r.Get("/{clientId}/contacts", rt.contactHandler.ListContacts)
				r.Post("/{clientId}/contacts", rt.contactHandler.CreateContact)

				r.Get("/{clientId}/quotations", rt.quotationHandler.ListClientQuotations)
				r.Post("/{clientId}/quotations", rt.quotationHandler.CreateQuotation)

				r.Get("/{clientId}/history", rt.historyHandler.ListHistory)
				r.Post("/{clientId}/history", rt.historyHandler.CreateEvent)

				r.Get("/{clientId}/docs", rt.docHandler.ListDocs)
				r.Post("/{clientId}/docs", rt.docHandler.CreateDoc)
			})

			// Contacts addressed directly
			r.Route("/contacts", func(r chi.Router) {
				r.Get("/{id}", rt.contactHandler.GetContact)
				r.Put("/{id}", rt.contactHandler.UpdateContact)
				r.Delete("/{id}", rt.contactHandler.DeleteContact)
			})

			// Quotations addressed directly
			r.Route("/quotations", func(r chi.Router) {
				r.Get("/", rt.quotationHandler.ListQuotations)
				r.Get("/{id}", rt.quotationHandler.GetQuotation)
				r.Put("/{id}", rt.quotationHandler.UpdateQuotation)
				r.Delete("/{id}", rt.quotationHandler.DeleteQuotation)
			})

			// Technical documents addressed directly
			r.Route("/docs", func(r chi.Router) {
				r.Get("/{id}", rt.docHandler.GetDoc)
				r.Put("/{id}", rt.docHandler.UpdateDoc)
				r.Delete("/{id}", rt.docHandler.DeleteDoc)
			})

			// Tasks
			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", rt.taskHandler.ListTasks)
				r.Post("/", rt.taskHandler.CreateTask)
				r.Get("/stats", rt.taskHandler.GetTaskStats)
				r.Get("/{id}", rt.taskHandler.GetTask)
				r.Put("/{id}", rt.taskHandler.UpdateTask)
				r.Delete("/{id}", rt.taskHandler.DeleteTask)
				r.Post("/{id}/assign", rt.taskHandler.AssignTask)
				r.Post("/{id}/complete", rt.taskHandler.CompleteTask)
			})

			// Expenses
			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", rt.expenseHandler.ListExpenses)
				r.Post("/", rt.expenseHandler.CreateExpense)
				r.Get("/stats", rt.expenseHandler.GetExpenseStats)
				r.Get("/{id}", rt.expenseHandler.GetExpense)
				r.Put("/{id}", rt.expenseHandler.UpdateExpense)
				r.Delete("/{id}", rt.expenseHandler.DeleteExpense)
				r.Post("/{id}/approve", rt.expenseHandler.ApproveExpense)
				r.Post("/{id}/reject", rt.expenseHandler.RejectExpense)
				r.Post("/{id}/reimburse", rt.expenseHandler.ReimburseExpense)
			})
		})
	})

	return r
}
