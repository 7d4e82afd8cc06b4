package ports

import (
	"context"
	"io"

	"github.com/GoArmGo/FilmFeed/internal/domain"
	"github.com/google/uuid"
)

// PhotoStorage определяет методы для взаимодействия с хранилищем фотографий
type PhotoStorage interface {
	ListPhotos(ctx context.Context, filter domain.PhotoFilter, page domain.Page) ([]domain.PhotoCard, error)
	ListGear(ctx context.Context) ([]domain.Gear, error)
	GetPhotoByID(ctx context.Context, id uuid.UUID) (*domain.PhotoWithOwner, error)
	ListPhotosByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.PhotoCard, error)
	CountPhotosByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
	LastGearByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Gear, error)
	ListPhotosByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.PhotoCard, error)
	// UpdatePhoto обновляет поля фото и целиком пересобирает его теги в одной транзакции
	UpdatePhoto(ctx context.Context, photoID, ownerID uuid.UUID, edit domain.PhotoEdit) error
	// DeletePhoto удаляет фото владельца и возвращает удалённую строку
	DeletePhoto(ctx context.Context, photoID, ownerID uuid.UUID) (*domain.Photo, error)
}

// TagStorage определяет методы для работы с тегами
type TagStorage interface {
	ListTagNames(ctx context.Context) ([]string, error)
	GetTagByName(ctx context.Context, name string) (*domain.Tag, error)
	ListTagsForPhoto(ctx context.Context, photoID uuid.UUID) ([]domain.Tag, error)
	ListPhotosByTag(ctx context.Context, tagID int64) ([]domain.PhotoCard, error)
}

// SocialStorage — комментарии, лайки и гостевая книга
type SocialStorage interface {
	ListComments(ctx context.Context, photoID uuid.UUID) ([]domain.Comment, error)
	AddComment(ctx context.Context, photoID, userID uuid.UUID, body string) error
	ListLikes(ctx context.Context, photoID uuid.UUID) ([]domain.Like, error)
	// ToggleLike атомарно переключает лайк и возвращает новое состояние
	ToggleLike(ctx context.Context, photoID, userID uuid.UUID) (bool, error)
	// ListLikedPhotoIDs возвращает id лайкнутых фото, свежие лайки первыми
	ListLikedPhotoIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListShouts(ctx context.Context, profileID uuid.UUID) ([]domain.ShoutboxEntry, error)
	AddShout(ctx context.Context, profileID, userID uuid.UUID, body string) error
}

// ProfileStorage определяет методы для взаимодействия с профилями
type ProfileStorage interface {
	GetProfileByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update domain.ProfileUpdate) error
	SetAvatarURL(ctx context.Context, id uuid.UUID, avatarURL string) error
}

// FileStorage определяет интерфейс для работы с файловым хранилищем (AWS S3, MinIO)
type FileStorage interface {
	// UploadFile загружает файл по ключу, перезаписывая существующий, и возвращает публичный URL
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
	PublicURL(key string) string
	// ObjectKey извлекает ключ объекта из публичного URL; false если URL не из нашего бакета
	ObjectKey(publicURL string) (string, bool)
	DeleteFile(ctx context.Context, key string) error
}

// Authenticator — внешний auth-сервис
type Authenticator interface {
	GetUser(ctx context.Context, accessToken string) (*domain.User, error)
	RefreshSession(ctx context.Context, refreshToken string) (*domain.Session, error)
}
