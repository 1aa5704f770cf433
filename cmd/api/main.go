//	@title			Storage Service API
//	@version		1.0
//	@description	File storage facade: entity uploads, token-gated downloads.
//
//	@host		localhost:8080
//	@BasePath	/api

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/supan/storage-service/internal/config"
	"github.com/supan/storage-service/internal/db"
	"github.com/supan/storage-service/internal/files"
	appMiddleware "github.com/supan/storage-service/internal/middleware"
	"github.com/supan/storage-service/internal/product"
	"github.com/supan/storage-service/internal/storage"
	"github.com/supan/storage-service/internal/user"

	_ "github.com/supan/storage-service/docs/swagger"
)

func main() {
	cfg := config.Load()

	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	store, err := storage.NewMinioStore(
		cfg.StorageEndpoint,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		cfg.StorageBucket,
		cfg.StorageUseSSL,
	)
	if err != nil {
		log.Fatalf("object storage init failed: %v", err)
	}

	// Wire dependencies: store → facades → services → handlers
	tokenSvc := files.NewTokenService(cfg.FileTokenSecret, cfg.FileTokenTTL)
	fileSvc := files.NewService(store, tokenSvc, cfg.BaseURL)
	fileHandler := files.NewHandler(fileSvc)

	userRepo := user.NewRepository(pool)
	userSvc := user.NewService(userRepo, files.NewUserFiles(fileSvc))
	userHandler := user.NewHandler(userSvc)

	productRepo := product.NewRepository(pool)
	productSvc := product.NewService(productRepo, files.NewProductFiles(fileSvc))
	productHandler := product.NewHandler(productSvc)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI — available at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API
	r.Route("/api", func(r chi.Router) {
		// Token-gated file downloads. The wildcard route is informational;
		// the served object comes from the verified token's bound path.
		r.Route("/files", func(r chi.Router) {
			r.Use(appMiddleware.RequireFileToken(tokenSvc))
			r.Get("/*", fileHandler.Serve)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.Create)
			r.Get("/{userID}", userHandler.Get)
			r.Delete("/{userID}", userHandler.Delete)
			r.Post("/{userID}/files/profile-picture", userHandler.UploadProfilePicture)
			r.Post("/{userID}/files/nid", userHandler.UploadNid)
			r.Post("/{userID}/files/nid/front", userHandler.UploadNidFront)
			r.Post("/{userID}/files/nid/back", userHandler.UploadNidBack)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Post("/", productHandler.Create)
			r.Get("/{productID}", productHandler.Get)
			r.Delete("/{productID}", productHandler.Delete)
			r.Post("/{productID}/files/images", productHandler.UploadImage)
			r.Post("/{productID}/files/thumbnail", productHandler.UploadThumbnail)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on :%s (env=%s)", cfg.Port, cfg.AppEnv)
		log.Printf("swagger UI at http://localhost:%s/swagger/", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Println("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server stopped")
}
