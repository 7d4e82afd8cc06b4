package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/FilmFeed/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// TagStorage работает с таблицами tags и photo_tags
type TagStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewTagStorage(db *sqlx.DB, logger *slog.Logger) *TagStorage {
	return &TagStorage{db: db, logger: logger}
}

// ListTagNames возвращает имена всех тегов по алфавиту
func (s *TagStorage) ListTagNames(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := s.db.SelectContext(ctx, &names, `SELECT name FROM tags ORDER BY name`); err != nil {
		s.logger.Error("failed to list tags", "error", err)
		return nil, fmt.Errorf("ошибка при получении тегов: %w", err)
	}
	return names, nil
}

// GetTagByName ищет тег по имени; nil, nil если тега нет
func (s *TagStorage) GetTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	var tag domain.Tag
	err := s.db.GetContext(ctx, &tag, `SELECT id, name FROM tags WHERE name = $1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to get tag", "name", name, "error", err)
		return nil, fmt.Errorf("ошибка при получении тега %q: %w", name, err)
	}
	return &tag, nil
}

// ListTagsForPhoto возвращает теги фото отдельным запросом
func (s *TagStorage) ListTagsForPhoto(ctx context.Context, photoID uuid.UUID) ([]domain.Tag, error) {
	tags := []domain.Tag{}
	q := `
	SELECT t.id, t.name
	FROM photo_tags pt
	JOIN tags t ON t.id = pt.tag_id
	WHERE pt.photo_id = $1
	ORDER BY t.name`

	if err := s.db.SelectContext(ctx, &tags, q, photoID); err != nil {
		s.logger.Error("failed to list photo tags", "photo_id", photoID, "error", err)
		return nil, fmt.Errorf("ошибка при получении тегов фото: %w", err)
	}
	return tags, nil
}

// ListPhotosByTag возвращает фото, привязанные к тегу.
// Сортировка по дате не гарантируется, её делает вызывающий код.
func (s *TagStorage) ListPhotosByTag(ctx context.Context, tagID int64) ([]domain.PhotoCard, error) {
	photos := []domain.PhotoCard{}
	q := `SELECT ` + photoCardColumns + `
	FROM photo_tags pt
	JOIN photos p ON p.id = pt.photo_id
	LEFT JOIN profiles pr ON pr.id = p.user_id
	WHERE pt.tag_id = $1
	ORDER BY pt.photo_id DESC`

	if err := s.db.SelectContext(ctx, &photos, q, tagID); err != nil {
		s.logger.Error("failed to list photos by tag", "tag_id", tagID, "error", err)
		return nil, fmt.Errorf("ошибка при получении фото по тегу: %w", err)
	}
	return photos, nil
}
