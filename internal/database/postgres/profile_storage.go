package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GoArmGo/FilmFeed/internal/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GormProfileStorage реализует интерфейс ports.ProfileStorage с использованием GORM
type GormProfileStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormProfileStorage создает новый экземпляр GormProfileStorage
func NewGormProfileStorage(db *gorm.DB, logger *slog.Logger) *GormProfileStorage {
	return &GormProfileStorage{db: db, logger: logger}
}

// GetProfileByID получает профиль по id; nil, nil если профиля нет
func (s *GormProfileStorage) GetProfileByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	result := s.db.WithContext(ctx).Where("id = ?", id).Take(&profile)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("failed to get profile by id", "id", id, "error", result.Error)
		return nil, fmt.Errorf("ошибка при получении профиля по ID с помощью GORM: %w", result.Error)
	}
	return &profile, nil
}

// GetProfileByUsername получает профиль по username; nil, nil если профиля нет
func (s *GormProfileStorage) GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	var profile domain.Profile
	result := s.db.WithContext(ctx).Where("username = ?", username).Take(&profile)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("failed to get profile by username", "username", username, "error", result.Error)
		return nil, fmt.Errorf("ошибка при получении профиля по username с помощью GORM: %w", result.Error)
	}
	return &profile, nil
}

// UpdateProfile сохраняет поля формы настроек.
// Нарушение уникальности username превращается в domain.ErrUsernameTaken.
func (s *GormProfileStorage) UpdateProfile(ctx context.Context, id uuid.UUID, update domain.ProfileUpdate) error {
	// map, а не структура: GORM пропускает нулевые значения полей структуры,
	// а пустой bio должен записываться
	result := s.db.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"username":       update.Username,
			"bio":            update.Bio,
			"link_youtube":   update.LinkYoutube,
			"link_instagram": update.LinkInstagram,
			"link_tiktok":    update.LinkTiktok,
		})
	if result.Error != nil {
		if IsDuplicateKey(result.Error) {
			s.logger.Info("username already taken", "id", id, "username", update.Username)
			return domain.ErrUsernameTaken
		}
		s.logger.Error("failed to update profile", "id", id, "error", result.Error)
		return fmt.Errorf("ошибка при обновлении профиля с GORM: %w", result.Error)
	}

	s.logger.Info("profile updated", "id", id, "rows", result.RowsAffected)
	return nil
}

// SetAvatarURL сохраняет адрес аватара
func (s *GormProfileStorage) SetAvatarURL(ctx context.Context, id uuid.UUID, avatarURL string) error {
	result := s.db.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("id = ?", id).
		Update("avatar_url", avatarURL)
	if result.Error != nil {
		s.logger.Error("failed to set avatar url", "id", id, "error", result.Error)
		return fmt.Errorf("ошибка при сохранении аватара с GORM: %w", result.Error)
	}

	s.logger.Info("avatar url updated", "id", id)
	return nil
}

// IsDuplicateKey распознаёт нарушение уникального индекса независимо от драйвера
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
