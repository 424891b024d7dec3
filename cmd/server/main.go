package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"go-blog-app/internal/auth"
	"go-blog-app/internal/cache"
	"go-blog-app/internal/config"
	"go-blog-app/internal/data"
	"go-blog-app/internal/handler"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/service"
	"go-blog-app/internal/view"
	"go-blog-app/web"
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log, os.Stderr)

	// --- Database Initialization and Migration ---
	log.Info("Applying database migrations...")
	if err := data.ApplyMigrations(cfg.DB, "migrations"); err != nil {
		log.Fatal(err, "Failed to apply migrations")
	}
	log.Info("Migrations applied successfully.")

	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()
	log.Info("Database connection successful.")

	// --- Session Management Setup ---
	sessionManager := scs.New()
	if cfg.DB.Driver == "sqlite3" {
		sessionManager.Store = sqlite3store.New(db.DB)
	} else {
		sessionManager.Store = mysqlstore.New(db.DB)
	}
	sessionManager.Lifetime = time.Duration(cfg.Session.Lifetime) * time.Hour
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = cfg.Session.Secure || cfg.Server.TLS.Enabled

	// --- Authorization Setup ---
	log.Info("Initializing authorization...")
	enforcer, err := auth.NewEnforcer(cfg.DB.Driver, cfg.DB.DSN, "auth_model.conf")
	if err != nil {
		log.Fatal(err, "Failed to initialize enforcer")
	}
	auth.SeedDefaultPolicies(enforcer, log)
	log.Info("Authorization initialized and policies seeded.")

	// --- View Template Initialization ---
	log.Info("Initializing view templates...")
	viewService, err := view.New(web.TemplateFS)
	if err != nil {
		log.Fatal(err, "Failed to initialize view templates")
	}
	log.Info("View templates initialized.")

	// --- Render Cache Initialization ---
	log.Info("Initializing SQLite render cache...")
	renderCache, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatal(err, "Failed to initialize render cache")
	}
	defer renderCache.Close()
	log.Info("Render cache initialized.")

	// --- Demo Content ---
	if cfg.Admin.Seed {
		log.Info("Seeding demo accounts and content...")
		if err := data.Seed(context.Background(), db); err != nil {
			log.Fatal(err, "Failed to seed demo content")
		}
		log.Info("Demo content seeded.")
	}

	// --- Dependency Injection and Handler Initialization ---
	// Initialize the application layers, injecting dependencies from top to bottom.
	batch := data.NewBatch(db)
	articleRepository := data.NewSQLArticleRepository(db, batch)
	categoryRepository := data.NewSQLCategoryRepository(db, batch)
	userRepository := data.NewSQLUserRepository(db, batch)

	blogService := service.NewBlogService(articleRepository, categoryRepository, renderCache)
	adminService := service.NewAdminService(articleRepository, categoryRepository, userRepository)

	blogHandler := handler.NewBlogHandler(blogService, viewService, log)
	adminHandler := handler.NewAdminHandler(adminService, viewService, log)
	authHandler := handler.NewAuthHandler(adminService, sessionManager, viewService)
	seoHandler := handler.NewSeoHandler(blogService, cfg.Server.BaseURL)

	errorMiddleware := middleware.Error(log, viewService)
	authzMiddleware := middleware.Authorizer(enforcer, sessionManager)

	// --- Router Setup ---
	router := handler.NewRouter(blogHandler, adminHandler, authHandler, seoHandler,
		errorMiddleware, sessionManager.LoadAndSave, authzMiddleware)

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}
	go func() {
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			if err := server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTPS server")
			}
		} else {
			log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTP server")
			}
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
}
