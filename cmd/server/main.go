package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"Scribe/internal/api/middleware"
	"Scribe/internal/api/routes"
	"Scribe/internal/blogapi"
	"Scribe/internal/core/detail"
	"Scribe/internal/core/images"
	"Scribe/internal/core/likes"
	"Scribe/internal/core/posts"
	"Scribe/internal/web"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := serverConfigFromEnv()
	if err != nil {
		log.Fatal("Invalid server configuration:", err)
	}
	apiConfig := blogapi.ConfigFromEnv()
	imageConfig := images.ConfigFromEnv()

	client, err := blogapi.NewHTTPClient(apiConfig, logger)
	if err != nil {
		log.Fatal("Failed to create blog API client:", err)
	}

	listings, err := posts.NewListings(client, posts.DefaultMaxListings, logger)
	if err != nil {
		log.Fatal("Failed to create listing store:", err)
	}

	tracker, err := likes.NewTracker(client, likes.DefaultMaxVisitors, logger)
	if err != nil {
		log.Fatal("Failed to create like tracker:", err)
	}

	detailService, err := detail.NewService(client, logger)
	if err != nil {
		log.Fatal("Failed to create detail service:", err)
	}

	imageCache, err := images.NewMemoryCache(imageConfig.CacheEntries)
	if err != nil {
		log.Fatal("Failed to create image cache:", err)
	}
	imageService, err := images.NewService(client, imageCache, images.NewProcessor(), imageConfig, logger)
	if err != nil {
		log.Fatal("Failed to create image service:", err)
	}

	templates, err := web.NewTemplates()
	if err != nil {
		log.Fatal("Failed to load web templates:", err)
	}

	store := middleware.NewCookieStore([]byte(cfg.SessionSecret), cfg.SecureCookies)
	webHandlers, err := web.NewHandlers(templates, client, tracker, detailService, imageService,
		store, imageConfig.MaxUploadBytes(), logger)
	if err != nil {
		log.Fatal("Failed to create web handlers:", err)
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	routes.RegisterImageRoutes(r, imageService)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewVisitor(store).Middleware)

		routes.RegisterAPIRoutes(r, routes.APIDeps{
			Client:         client,
			Listings:       listings,
			Likes:          tracker,
			Detail:         detailService,
			Images:         imageService,
			Limiter:        middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute),
			AllowedOrigins: cfg.AllowedOrigins,
		})
		routes.RegisterWebRoutes(r, webHandlers)
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("Scribe starting", "port", cfg.Port, "blog_api", apiConfig.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed:", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
