package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/opsdesk/operations-api/docs"
	"github.com/opsdesk/operations-api/internal/auth"
	"github.com/opsdesk/operations-api/internal/config"
	"github.com/opsdesk/operations-api/internal/database"
	"github.com/opsdesk/operations-api/internal/http/handler"
	"github.com/opsdesk/operations-api/internal/http/middleware"
	"github.com/opsdesk/operations-api/internal/http/router"
	"github.com/opsdesk/operations-api/internal/logger"
	"github.com/opsdesk/operations-api/internal/repository"
	"github.com/opsdesk/operations-api/internal/service"
)

// @title Operations API
// @version 1.0
// @description Role-based operations backend for clients, quotations, tasks and expenses

// @contact.name API Support
// @contact.email support@opsdesk.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.App.Port)

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	contactRepo := repository.NewContactRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	historyRepo := repository.NewServiceHistoryRepository(db)
	docRepo := repository.NewTechnicalDocRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)

	// Services
	tokens := auth.NewTokenManager(&cfg.JWT)
	authService := service.NewAuthService(userRepo, tokens, log)
	userService := service.NewUserService(userRepo, log)
	clientService := service.NewClientService(clientRepo, historyRepo, log)
	contactService := service.NewContactService(contactRepo, clientRepo, log)
	quotationService := service.NewQuotationService(quotationRepo, clientRepo, historyRepo, log)
	historyService := service.NewServiceHistoryService(historyRepo, clientRepo, log)
	docService := service.NewTechnicalDocService(docRepo, clientRepo, log)
	taskService := service.NewTaskService(taskRepo, userRepo, log)
	expenseService := service.NewExpenseService(expenseRepo, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(tokens, userRepo, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, userService, log)
	userHandler := handler.NewUserHandler(userService, log)
	clientHandler := handler.NewClientHandler(clientService, log)
	contactHandler := handler.NewContactHandler(contactService, log)
	quotationHandler := handler.NewQuotationHandler(quotationService, log)
	historyHandler := handler.NewServiceHistoryHandler(historyService, log)
	docHandler := handler.NewTechnicalDocHandler(docService, log)
	taskHandler := handler.NewTaskHandler(taskService, log)
	expenseHandler := handler.NewExpenseHandler(expenseService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		authHandler,
		userHandler,
		clientHandler,
		contactHandler,
		quotationHandler,
		historyHandler,
		docHandler,
		taskHandler,
		expenseHandler,
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("server stopped gracefully")
	}

	return nil
}
