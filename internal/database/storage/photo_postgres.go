package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/FilmFeed/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// колонки карточки ленты: p = photos, pr = profiles
const photoCardColumns = `p.id, p.image_url, p.caption, p.film_stock, p.camera, p.format, p.created_at,
	COALESCE(pr.username, '') AS username`

type PostgresStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewPostgresStorage(db *sqlx.DB, logger *slog.Logger) *PostgresStorage {
	return &PostgresStorage{db: db, logger: logger}
}

// ListPhotos возвращает страницу ленты, новые первыми.
// Каждое непустое поле фильтра превращается в условие равенства.
func (s *PostgresStorage) ListPhotos(ctx context.Context, filter domain.PhotoFilter, page domain.Page) ([]domain.PhotoCard, error) {
	start := time.Now()

	var (
		conds []string
		args  []any
	)
	eq := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("p.%s = $%d", column, len(args)))
	}
	eq("camera", filter.Camera)
	eq("film_stock", filter.FilmStock)
	eq("lens", filter.Lens)
	eq("format", filter.Format)

	var q strings.Builder
	q.WriteString(`SELECT ` + photoCardColumns + `
	FROM photos p
	LEFT JOIN profiles pr ON pr.id = p.user_id`)
	if len(conds) > 0 {
		q.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	args = append(args, page.Limit, page.Offset)
	fmt.Fprintf(&q, " ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	photos := []domain.PhotoCard{}
	if err := s.db.SelectContext(ctx, &photos, q.String(), args...); err != nil {
		s.logger.Error("failed to list photos", "filter", filter, "offset", page.Offset, "limit", page.Limit, "error", err)
		return nil, fmt.Errorf("ошибка при получении списка фото: %w", err)
	}

	s.logger.Debug("listed photos",
		"offset", page.Offset,
		"limit", page.Limit,
		"count", len(photos),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return photos, nil
}

// ListGear возвращает снаряжение всех фото (для построения фасетов)
func (s *PostgresStorage) ListGear(ctx context.Context) ([]domain.Gear, error) {
	gear := []domain.Gear{}
	if err := s.db.SelectContext(ctx, &gear, `SELECT camera, film_stock, lens, format FROM photos`); err != nil {
		s.logger.Error("failed to list gear", "error", err)
		return nil, fmt.Errorf("ошибка при получении снаряжения: %w", err)
	}
	return gear, nil
}

// GetPhotoByID получает фото вместе с username владельца; nil, nil если фото нет
func (s *PostgresStorage) GetPhotoByID(ctx context.Context, id uuid.UUID) (*domain.PhotoWithOwner, error) {
	start := time.Now()

	var photo domain.PhotoWithOwner
	query := `
	SELECT p.id, p.user_id, p.image_url, p.caption, p.camera, p.film_stock, p.lens, p.format, p.created_at,
		COALESCE(pr.username, '') AS username
	FROM photos p
	LEFT JOIN profiles pr ON pr.id = p.user_id
	WHERE p.id = $1
	LIMIT 1`

	err := s.db.GetContext(ctx, &photo, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("photo not found by id", "id", id)
			return nil, nil
		}
		s.logger.Error("failed to get photo by id", "id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении фото по ID: %w", err)
	}

	s.logger.Debug("photo retrieved by id",
		"id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &photo, nil
}

// ListPhotosByOwner возвращает все фото пользователя, новые первыми
func (s *PostgresStorage) ListPhotosByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.PhotoCard, error) {
	q := `SELECT ` + photoCardColumns + `
	FROM photos p
	LEFT JOIN profiles pr ON pr.id = p.user_id
	WHERE p.user_id = $1
	ORDER BY p.created_at DESC`

	photos := []domain.PhotoCard{}
	if err := s.db.SelectContext(ctx, &photos, q, ownerID); err != nil {
		s.logger.Error("failed to list photos by owner", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("ошибка при получении фото пользователя: %w", err)
	}
	return photos, nil
}

// CountPhotosByOwner возвращает количество фото пользователя
func (s *PostgresStorage) CountPhotosByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM photos WHERE user_id = $1`, ownerID); err != nil {
		s.logger.Error("failed to count photos by owner", "owner_id", ownerID, "error", err)
		return 0, fmt.Errorf("ошибка при подсчёте фото пользователя: %w", err)
	}
	return count, nil
}

// LastGearByOwner возвращает снаряжение последнего фото пользователя; nil, nil если фото нет
func (s *PostgresStorage) LastGearByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Gear, error) {
	var gear domain.Gear
	q := `
	SELECT camera, film_stock, lens, format
	FROM photos
	WHERE user_id = $1
	ORDER BY created_at DESC
	LIMIT 1`

	err := s.db.GetContext(ctx, &gear, q, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to get last gear", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("ошибка при получении последнего снаряжения: %w", err)
	}
	return &gear, nil
}

// ListPhotosByIDs возвращает фото по списку id. Порядок результата не гарантируется.
func (s *PostgresStorage) ListPhotosByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.PhotoCard, error) {
	photos := []domain.PhotoCard{}
	if len(ids) == 0 {
		return photos, nil
	}

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	q := `SELECT ` + photoCardColumns + `
	FROM photos p
	LEFT JOIN profiles pr ON pr.id = p.user_id
	WHERE p.id = ANY($1::uuid[])`

	if err := s.db.SelectContext(ctx, &photos, q, pq.StringArray(strIDs)); err != nil {
		s.logger.Error("failed to list photos by ids", "count", len(ids), "error", err)
		return nil, fmt.Errorf("ошибка при получении фото по списку ID: %w", err)
	}
	return photos, nil
}

// UpdatePhoto обновляет подпись и снаряжение фото и пересобирает его теги.
// Всё выполняется в одной транзакции: при ошибке на любом шаге фото остаётся как было.
func (s *PostgresStorage) UpdatePhoto(ctx context.Context, photoID, ownerID uuid.UUID, edit domain.PhotoEdit) error {
	start := time.Now()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
	UPDATE photos
	SET caption = $1, camera = $2, film_stock = $3, lens = $4
	WHERE id = $5 AND user_id = $6`,
		edit.Caption, edit.Camera, edit.FilmStock, edit.Lens, photoID, ownerID,
	)
	if err != nil {
		s.logger.Error("failed to update photo", "id", photoID, "error", err)
		return fmt.Errorf("ошибка при обновлении фото: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при обновлении фото: %w", err)
	}
	if affected == 0 {
		return s.ownershipError(ctx, tx, photoID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM photo_tags WHERE photo_id = $1`, photoID); err != nil {
		s.logger.Error("failed to clear photo tags", "id", photoID, "error", err)
		return fmt.Errorf("ошибка при удалении тегов фото: %w", err)
	}

	for _, name := range edit.Tags {
		var tagID int64
		// DO UPDATE нужен, чтобы RETURNING вернул id уже существующего тега
		err := tx.GetContext(ctx, &tagID, `
		INSERT INTO tags (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, name)
		if err != nil {
			s.logger.Error("failed to upsert tag", "name", name, "error", err)
			return fmt.Errorf("ошибка при сохранении тега %q: %w", name, err)
		}

		_, err = tx.ExecContext(ctx, `
		INSERT INTO photo_tags (photo_id, tag_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, photoID, tagID)
		if err != nil {
			s.logger.Error("failed to link tag", "photo_id", photoID, "tag_id", tagID, "error", err)
			return fmt.Errorf("ошибка при привязке тега %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	s.logger.Info("photo updated",
		"id", photoID,
		"tags", len(edit.Tags),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// DeletePhoto удаляет фото владельца и возвращает удалённую строку
func (s *PostgresStorage) DeletePhoto(ctx context.Context, photoID, ownerID uuid.UUID) (*domain.Photo, error) {
	var photo domain.Photo
	err := s.db.GetContext(ctx, &photo, `
	DELETE FROM photos
	WHERE id = $1 AND user_id = $2
	RETURNING id, user_id, image_url, caption, camera, film_stock, lens, format, created_at`,
		photoID, ownerID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.ownershipError(ctx, s.db, photoID)
		}
		s.logger.Error("failed to delete photo", "id", photoID, "error", err)
		return nil, fmt.Errorf("ошибка при удалении фото: %w", err)
	}

	s.logger.Info("photo deleted", "id", photoID, "owner_id", ownerID)
	return &photo, nil
}

// ownershipError объясняет, почему owner-scoped запрос не затронул ни одной строки:
// фото нет совсем или оно принадлежит другому пользователю.
func (s *PostgresStorage) ownershipError(ctx context.Context, q sqlx.QueryerContext, photoID uuid.UUID) error {
	var owner uuid.UUID
	err := sqlx.GetContext(ctx, q, &owner, `SELECT user_id FROM photos WHERE id = $1`, photoID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrPhotoNotFound
	}
	if err != nil {
		return fmt.Errorf("ошибка при проверке владельца фото: %w", err)
	}
	s.logger.Warn("photo mutation rejected: not owner", "id", photoID)
	return domain.ErrForbidden
}
