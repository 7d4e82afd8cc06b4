package ports

import (
	"context"

	"github.com/GoArmGo/FilmFeed/internal/messaging/payloads"
)

// PhotoCleanupPublisher публикует задачи на удаление файлов удалённых фото.
// Используется usecase'ом при удалении фото
type PhotoCleanupPublisher interface {
	PublishPhotoCleanup(ctx context.Context, payload payloads.PhotoCleanupPayload) error
}

// PhotoCleanupConsumer определяет методы для потребления задач очистки,
// используется воркером
type PhotoCleanupConsumer interface {
	// StartConsumingPhotoCleanups начинает прослушивание очереди;
	// handler вызывается для каждого полученного сообщения
	StartConsumingPhotoCleanups(ctx context.Context, handler func(context.Context, payloads.PhotoCleanupPayload) error) error
}
