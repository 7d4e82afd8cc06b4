package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/FilmFeed/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// код ошибки PostgreSQL foreign_key_violation
const pgForeignKeyViolation = "23503"

// внешние ключи на сущность, к которой относится действие; ключи на автора сюда не входят
const (
	fkCommentPhoto   = "comments_photo_id_fkey"
	fkLikePhoto      = "likes_photo_id_fkey"
	fkShoutboxTarget = "shoutbox_profile_id_fkey"
)

// violatesForeignKey сообщает, что err нарушает именно внешний ключ constraint
func violatesForeignKey(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == pgForeignKeyViolation && pqErr.Constraint == constraint
}

// SocialStorage — комментарии, лайки и гостевая книга
type SocialStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewSocialStorage(db *sqlx.DB, logger *slog.Logger) *SocialStorage {
	return &SocialStorage{db: db, logger: logger}
}

// ListComments возвращает комментарии к фото, старые первыми
func (s *SocialStorage) ListComments(ctx context.Context, photoID uuid.UUID) ([]domain.Comment, error) {
	comments := []domain.Comment{}
	q := `
	SELECT c.id, c.photo_id, c.user_id, c.body, c.created_at, COALESCE(pr.username, '') AS username
	FROM comments c
	LEFT JOIN profiles pr ON pr.id = c.user_id
	WHERE c.photo_id = $1
	ORDER BY c.created_at ASC, c.id ASC`

	if err := s.db.SelectContext(ctx, &comments, q, photoID); err != nil {
		s.logger.Error("failed to list comments", "photo_id", photoID, "error", err)
		return nil, fmt.Errorf("ошибка при получении комментариев: %w", err)
	}
	return comments, nil
}

// AddComment добавляет комментарий
func (s *SocialStorage) AddComment(ctx context.Context, photoID, userID uuid.UUID, body string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO comments (photo_id, user_id, body) VALUES ($1, $2, $3)`,
		photoID, userID, body,
	)
	if err != nil {
		if violatesForeignKey(err, fkCommentPhoto) {
			return domain.ErrPhotoNotFound
		}
		s.logger.Error("failed to insert comment", "photo_id", photoID, "user_id", userID, "error", err)
		return fmt.Errorf("ошибка при сохранении комментария: %w", err)
	}

	s.logger.Info("comment added", "photo_id", photoID, "user_id", userID)
	return nil
}

// ListLikes возвращает все лайки фото с именами пользователей
func (s *SocialStorage) ListLikes(ctx context.Context, photoID uuid.UUID) ([]domain.Like, error) {
	likes := []domain.Like{}
	q := `
	SELECT l.user_id, l.photo_id, l.created_at, COALESCE(pr.username, '') AS username
	FROM likes l
	LEFT JOIN profiles pr ON pr.id = l.user_id
	WHERE l.photo_id = $1
	ORDER BY l.created_at DESC`

	if err := s.db.SelectContext(ctx, &likes, q, photoID); err != nil {
		s.logger.Error("failed to list likes", "photo_id", photoID, "error", err)
		return nil, fmt.Errorf("ошибка при получении лайков: %w", err)
	}
	return likes, nil
}

// toggleLikeQuery переключает лайк одним выражением: если строка была, она удаляется,
// иначе вставляется. Если параллельный запрос успел вставить ту же строку, DO UPDATE
// блокирует и возвращает её, поэтому ответ всё равно "в избранном". created_at не меняется.
const toggleLikeQuery = `
WITH removed AS (
	DELETE FROM likes
	WHERE photo_id = $1 AND user_id = $2
	RETURNING photo_id
), added AS (
	INSERT INTO likes (photo_id, user_id)
	SELECT $1, $2
	WHERE NOT EXISTS (SELECT 1 FROM removed)
	ON CONFLICT (user_id, photo_id) DO UPDATE SET created_at = likes.created_at
	RETURNING photo_id
)
SELECT EXISTS (SELECT 1 FROM added)`

// ToggleLike атомарно переключает лайк и возвращает true, если фото теперь в избранном
func (s *SocialStorage) ToggleLike(ctx context.Context, photoID, userID uuid.UUID) (bool, error) {
	start := time.Now()

	var favorited bool
	if err := s.db.GetContext(ctx, &favorited, toggleLikeQuery, photoID, userID); err != nil {
		if violatesForeignKey(err, fkLikePhoto) {
			return false, domain.ErrPhotoNotFound
		}
		s.logger.Error("failed to toggle like", "photo_id", photoID, "user_id", userID, "error", err)
		return false, fmt.Errorf("ошибка при переключении лайка: %w", err)
	}

	s.logger.Info("like toggled",
		"photo_id", photoID,
		"user_id", userID,
		"favorited", favorited,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return favorited, nil
}

// ListLikedPhotoIDs возвращает id лайкнутых пользователем фото, свежие лайки первыми
func (s *SocialStorage) ListLikedPhotoIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	q := `SELECT photo_id FROM likes WHERE user_id = $1 ORDER BY created_at DESC`
	if err := s.db.SelectContext(ctx, &ids, q, userID); err != nil {
		s.logger.Error("failed to list liked photo ids", "user_id", userID, "error", err)
		return nil, fmt.Errorf("ошибка при получении лайкнутых фото: %w", err)
	}
	return ids, nil
}

// ListShouts возвращает гостевую книгу профиля, новые сообщения первыми
func (s *SocialStorage) ListShouts(ctx context.Context, profileID uuid.UUID) ([]domain.ShoutboxEntry, error) {
	entries := []domain.ShoutboxEntry{}
	q := `
	SELECT sb.id, sb.profile_id, sb.user_id, sb.body, sb.created_at, COALESCE(pr.username, '') AS username
	FROM shoutbox sb
	LEFT JOIN profiles pr ON pr.id = sb.user_id
	WHERE sb.profile_id = $1
	ORDER BY sb.created_at DESC, sb.id DESC`

	if err := s.db.SelectContext(ctx, &entries, q, profileID); err != nil {
		s.logger.Error("failed to list shouts", "profile_id", profileID, "error", err)
		return nil, fmt.Errorf("ошибка при получении гостевой книги: %w", err)
	}
	return entries, nil
}

// AddShout добавляет сообщение в гостевую книгу
func (s *SocialStorage) AddShout(ctx context.Context, profileID, userID uuid.UUID, body string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shoutbox (profile_id, user_id, body) VALUES ($1, $2, $3)`,
		profileID, userID, body,
	)
	if err != nil {
		if violatesForeignKey(err, fkShoutboxTarget) {
			return domain.ErrProfileNotFound
		}
		s.logger.Error("failed to insert shout", "profile_id", profileID, "user_id", userID, "error", err)
		return fmt.Errorf("ошибка при сохранении сообщения: %w", err)
	}

	s.logger.Info("shout added", "profile_id", profileID, "user_id", userID)
	return nil
}
