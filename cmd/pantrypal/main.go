package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pantrypal/internal/amqp"
	"pantrypal/internal/auth"
	"pantrypal/internal/config"
	apphttp "pantrypal/internal/http"
	applog "pantrypal/internal/log"
	"pantrypal/internal/recipes"
	"pantrypal/internal/services"
	"pantrypal/internal/session"
	"pantrypal/internal/storage"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open database", applog.FieldError, err, applog.FieldDBPath, cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// The activity audit stream is optional: without a broker URL the app
	// runs with database writes only.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without audit stream", applog.FieldError, err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
		}
	}

	sessions := session.NewStore(cfg.SessionTTL)

	activitySvc := services.NewActivityService(repo, amqpClient)
	authSvc := services.NewAuthService(repo)
	shoppingSvc := services.NewShoppingService(repo, activitySvc)
	budgetSvc := services.NewBudgetService(repo, config.DefaultMonthlyBudgetCents)
	dashboardSvc := services.NewDashboardService(repo, activitySvc, budgetSvc)

	var google apphttp.GoogleExchanger
	if cfg.GoogleEnabled() {
		google = auth.NewGoogleAuthenticator(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		logger.Info("Google sign-in enabled")
	} else {
		logger.Info("Google sign-in disabled, set GOOGLE_CLIENT_ID/SECRET/REDIRECT_URL to enable")
	}

	recipeClient := recipes.NewClient(cfg.RecipeAPIBaseURL, cfg.RecipeAPIKey, cfg.RecipeAPITimeout)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Sessions:  sessions,
		Auth:      authSvc,
		Shopping:  shoppingSvc,
		Budget:    budgetSvc,
		Activity:  activitySvc,
		Dashboard: dashboardSvc,
		Recipes:   recipeClient,
		Google:    google,
	})

	// Handlers pull a request-scoped logger out of the context.
	srv.Handler = applog.Middleware(logger.WithComponent(applog.ComponentHTTP))(srv.Handler)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting pantrypal server", applog.FieldPort, cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err, applog.FieldPort, cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
