package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/FilmFeed/internal/config"
	"github.com/GoArmGo/FilmFeed/internal/core/ports"
	"github.com/GoArmGo/FilmFeed/internal/session"
	"github.com/GoArmGo/FilmFeed/internal/usecase"
)

// Services — зависимости, нужные режимам server и worker
type Services struct {
	FeedUseCase     usecase.FeedUseCase
	PhotoUseCase    usecase.PhotoUseCase
	ProfileUseCase  usecase.ProfileUseCase
	Sessions        *session.Bootstrap
	FileStorage     ports.FileStorage
	CleanupConsumer ports.PhotoCleanupConsumer
}

type App struct {
	Config   *config.Config
	logger   *slog.Logger
	services Services
	// closers закрываются в Shutdown в обратном порядке
	closers []func() error
}

func NewApp(cfg *config.Config, logger *slog.Logger, services Services, closers ...func() error) *App {
	return &App{
		Config:   cfg,
		logger:   logger,
		services: services,
		closers:  closers,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает приложение в режиме mode и блокируется до SIGINT/SIGTERM
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode)

	var err error
	switch mode {
	case "server":
		err = runServer(ctx, a.Config, a.services, a.logger)
	case "worker":
		err = runWorker(ctx, a.services, a.logger)
	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте 'server' или 'worker')", mode)
	}

	a.logger.Info("shutting down")
	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown failed", "error", closeErr)
	}
	return err
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
