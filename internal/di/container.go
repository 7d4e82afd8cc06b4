package di

import (
	"context"

	"github.com/GoArmGo/FilmFeed/internal/adapter/auth"
	"github.com/GoArmGo/FilmFeed/internal/adapter/storage/minio"
	"github.com/GoArmGo/FilmFeed/internal/app"
	"github.com/GoArmGo/FilmFeed/internal/config"
	"github.com/GoArmGo/FilmFeed/internal/database/client"
	"github.com/GoArmGo/FilmFeed/internal/database/postgres"
	"github.com/GoArmGo/FilmFeed/internal/database/storage"
	"github.com/GoArmGo/FilmFeed/internal/logger"
	"github.com/GoArmGo/FilmFeed/internal/rabbitmq"
	"github.com/GoArmGo/FilmFeed/internal/session"
	"github.com/GoArmGo/FilmFeed/internal/usecase"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp(ctx context.Context) (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 2. PostgreSQL: sqlx для основных таблиц, gorm для профилей на том же пуле
	dbClient, err := client.NewClient(ctx, cfg, slogger)
	if err != nil {
		return nil, err
	}

	gormDB, err := postgres.OpenGorm(dbClient.DB.DB)
	if err != nil {
		_ = dbClient.Close()
		return nil, err
	}

	// 3. Инициализация хранилищ
	photoStorage := storage.NewPostgresStorage(dbClient.DB, slogger)
	tagStorage := storage.NewTagStorage(dbClient.DB, slogger)
	socialStorage := storage.NewSocialStorage(dbClient.DB, slogger)
	profileStorage := postgres.NewGormProfileStorage(gormDB, slogger)

	// 4. Инициализация клиентов внешних сервисов
	fileStorage, err := minio.NewMinioClient(ctx, cfg, slogger) // S3 / MinIO адаптер
	if err != nil {
		_ = dbClient.Close()
		return nil, err
	}
	authClient := auth.NewClient(cfg)

	// 5. RabbitMQ: публикация задач очистки в server, потребление в worker
	rabbitMQClient, err := rabbitmq.NewClient(ctx, cfg, slogger)
	if err != nil {
		_ = dbClient.Close()
		return nil, err
	}

	// 6. Инициализация бизнес-логики (usecases)
	services := app.Services{
		FeedUseCase:     usecase.NewFeedUseCase(photoStorage, tagStorage, slogger),
		PhotoUseCase:    usecase.NewPhotoUseCase(photoStorage, tagStorage, socialStorage, rabbitMQClient, slogger),
		ProfileUseCase:  usecase.NewProfileUseCase(profileStorage, photoStorage, socialStorage, fileStorage, cfg.AvatarUploadConcurrency, slogger),
		Sessions:        session.NewBootstrap(authClient, session.Options{CookieName: cfg.AuthCookieName, Secure: cfg.CookieSecure}, slogger),
		FileStorage:     fileStorage,
		CleanupConsumer: rabbitMQClient,
	}

	// 7. Сборка итогового приложения
	application := app.NewApp(cfg, slogger, services, dbClient.Close, rabbitMQClient.Close)

	slogger.Info("all dependencies initialized")
	return application, nil
}

