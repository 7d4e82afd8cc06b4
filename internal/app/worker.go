package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/FilmFeed/internal/core/ports"
	"github.com/GoArmGo/FilmFeed/internal/messaging/payloads"
)

// runWorker запускает потребителя задач очистки и блокируется до отмены ctx
func runWorker(ctx context.Context, services Services, logger *slog.Logger) error {
	logger.Info("worker started, waiting for photo cleanup jobs")

	err := services.CleanupConsumer.StartConsumingPhotoCleanups(ctx, cleanupHandler(services.FileStorage, logger))
	if err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}

	<-ctx.Done()
	logger.Info("worker stopped")
	return nil
}

// cleanupHandler удаляет файл удалённого фото из объектного хранилища.
// URL не из нашего бакета пропускаются: такие файлы нам не принадлежат.
func cleanupHandler(files ports.FileStorage, logger *slog.Logger) func(context.Context, payloads.PhotoCleanupPayload) error {
	return func(ctx context.Context, payload payloads.PhotoCleanupPayload) error {
		key, ok := files.ObjectKey(payload.ImageURL)
		if !ok {
			logger.Warn("skipping cleanup of foreign url", "photo_id", payload.PhotoID, "image_url", payload.ImageURL)
			return nil
		}

		if err := files.DeleteFile(ctx, key); err != nil {
			return fmt.Errorf("ошибка удаления файла %s: %w", key, err)
		}
		logger.Info("photo file removed", "photo_id", payload.PhotoID, "key", key)
		return nil
	}
}
