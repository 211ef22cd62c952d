// Package main initializes and starts the packing list HTTP server,
// setting up configuration, logging, the database connection,
// repositories, services, the session store and handlers.
package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/packlist/packlist/internal/config"
	"github.com/packlist/packlist/internal/db"
	"github.com/packlist/packlist/internal/logger"
	"github.com/packlist/packlist/internal/repository"
	"github.com/packlist/packlist/internal/server/handler/http"
	"github.com/packlist/packlist/internal/service"
	"github.com/packlist/packlist/internal/session"
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init("Info"); err != nil {
		panic(err)
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	// Initialize repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	listRepo := repository.NewPostgresListRepository(postgresDB)
	itemRepo := repository.NewPostgresItemRepository(postgresDB)
	categoryRepo := repository.NewPostgresCategoryRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(userRepo, zapLogger)
	listService := service.NewListService(listRepo, zapLogger)
	itemService := service.NewItemService(itemRepo, zapLogger)
	categoryService := service.NewCategoryService(categoryRepo, zapLogger)

	// Initialize the session store and start its expiry sweep.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions := session.NewManager(options.SessionTTL)
	sessions.StartJanitor(ctx, time.Hour, zapLogger)

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{
		AuthService: authService,
		Sessions:    sessions,
		CookieName:  options.CookieName,
	}
	listHandler := &http.ListHandler{ListService: listService}
	itemHandler := &http.ItemHandler{ItemService: itemService}
	categoryHandler := &http.CategoryHandler{CategoryService: categoryService}

	// Build the router with middleware and routes.
	router := http.NewRouter(
		authHandler, listHandler, itemHandler, categoryHandler,
		sessions, options.CookieName, zapLogger,
	)

	server := &nethttp.Server{
		Addr:         options.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}

	// Shut down gracefully on SIGINT/SIGTERM.
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		zapLogger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("forced shutdown", zap.Error(err))
		}
	}()

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}

	<-done
	zapLogger.Info("server exited")
}
