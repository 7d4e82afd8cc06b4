package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/GoArmGo/FilmFeed/internal/config"
	"github.com/GoArmGo/FilmFeed/internal/handler"
)

const shutdownTimeout = 30 * time.Second

// NewRouter собирает все маршруты сайта
func NewRouter(cfg *config.Config, services Services, logger *slog.Logger) http.Handler {
	feedHandler := handler.NewFeedHandler(services.FeedUseCase, cfg.LoginPath, logger)
	photoHandler := handler.NewPhotoHandler(services.PhotoUseCase, logger)
	settingsHandler := handler.NewSettingsHandler(services.ProfileUseCase, cfg.LoginPath, logger)
	userHandler := handler.NewUserHandler(services.ProfileUseCase, logger)
	sessionHandler := handler.NewSessionHandler(services.ProfileUseCase, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.Recoverer(logger))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(services.Sessions.Middleware)

	r.Get("/", feedHandler.Feed)
	r.Get("/tags", feedHandler.Tags)
	r.Get("/tag/{name}", feedHandler.TagPage)
	r.Get("/upload", feedHandler.UploadForm)

	r.Route("/api", func(r chi.Router) {
		r.Get("/photos", feedHandler.MorePhotos)
		r.Get("/session", sessionHandler.Session)
	})

	r.Route("/photo/{id}", func(r chi.Router) {
		r.Get("/", photoHandler.Photo)
		r.Post("/comment", photoHandler.Comment)
		r.Post("/favorite", photoHandler.Favorite)
		r.Post("/edit", photoHandler.Edit)
		r.Post("/delete", photoHandler.Delete)
	})

	r.Route("/settings", func(r chi.Router) {
		r.Get("/", settingsHandler.Settings)
		r.Post("/profile", settingsHandler.UpdateProfile)
		r.Post("/avatar", settingsHandler.UploadAvatar)
	})

	r.Route("/user/{username}", func(r chi.Router) {
		r.Get("/", userHandler.UserPage)
		r.Post("/shout", userHandler.Shout)
	})

	return r
}

// runServer запускает HTTP сервер и блокируется до отмены ctx
func runServer(ctx context.Context, cfg *config.Config, services Services, logger *slog.Logger) error {
	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           NewRouter(cfg, services, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server started", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("ошибка при запуске сервера: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, stopping http server")

	ctxServer, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxServer); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("http server stopped")
	return nil
}
