package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/FilmFeed/internal/core/ports"
	"github.com/GoArmGo/FilmFeed/internal/domain"
	"github.com/GoArmGo/FilmFeed/internal/messaging/payloads"
	"github.com/GoArmGo/FilmFeed/internal/timefmt"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// photoUseCase implements PhotoUseCase
type photoUseCase struct {
	photoStorage  ports.PhotoStorage
	tagStorage    ports.TagStorage
	socialStorage ports.SocialStorage
	publisher     ports.PhotoCleanupPublisher
	logger        *slog.Logger
	now           func() time.Time
}

// NewPhotoUseCase создает новый экземпляр PhotoUseCase.
// publisher может быть nil: тогда файлы удалённых фото остаются в хранилище.
func NewPhotoUseCase(
	photoStorage ports.PhotoStorage,
	tagStorage ports.TagStorage,
	socialStorage ports.SocialStorage,
	publisher ports.PhotoCleanupPublisher,
	logger *slog.Logger,
) PhotoUseCase {
	return &photoUseCase{
		photoStorage:  photoStorage,
		tagStorage:    tagStorage,
		socialStorage: socialStorage,
		publisher:     publisher,
		logger:        logger,
		now:           time.Now,
	}
}

func (uc *photoUseCase) LoadPhoto(ctx context.Context, id, viewerID uuid.UUID) (*PhotoPage, error) {
	var (
		photo    *domain.PhotoWithOwner
		tags     []domain.Tag
		comments []domain.Comment
		likes    []domain.Like
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		photo, err = uc.photoStorage.GetPhotoByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = uc.tagStorage.ListTagsForPhoto(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = uc.socialStorage.ListComments(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		likes, err = uc.socialStorage.ListLikes(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("usecase: ошибка при загрузке фото %s: %w", id, err)
	}
	if photo == nil {
		return nil, domain.ErrPhotoNotFound
	}

	now := uc.now()
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, CommentView{
			Comment: c,
			Ago:     timefmt.Ago(c.CreatedAt, now),
			Date:    timefmt.Full(c.CreatedAt),
		})
	}

	favorited := false
	if viewerID != uuid.Nil {
		for _, like := range likes {
			if like.UserID == viewerID {
				favorited = true
				break
			}
		}
	}

	return &PhotoPage{
		Photo:         *photo,
		Tags:          tags,
		Comments:      views,
		Favorites:     likes,
		FavoriteCount: len(likes),
		UserFavorited: favorited,
	}, nil
}

func (uc *photoUseCase) AddComment(ctx context.Context, photoID, userID uuid.UUID, body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return domain.Invalid("comment cannot be empty")
	}

	if err := uc.socialStorage.AddComment(ctx, photoID, userID, body); err != nil {
		return fmt.Errorf("usecase: ошибка при добавлении комментария: %w", err)
	}
	uc.logger.Info("comment added", "photo_id", photoID, "user_id", userID)
	return nil
}

func (uc *photoUseCase) ToggleFavorite(ctx context.Context, photoID, userID uuid.UUID) (bool, error) {
	favorited, err := uc.socialStorage.ToggleLike(ctx, photoID, userID)
	if err != nil {
		return false, fmt.Errorf("usecase: ошибка при переключении избранного: %w", err)
	}
	return favorited, nil
}

func (uc *photoUseCase) EditPhoto(ctx context.Context, photoID, userID uuid.UUID, input EditInput) error {
	edit := domain.PhotoEdit{
		Caption:   strings.TrimSpace(input.Caption),
		Camera:    strings.TrimSpace(input.Camera),
		FilmStock: strings.TrimSpace(input.FilmStock),
		Lens:      strings.TrimSpace(input.Lens),
		Tags:      domain.ParseTags(input.Tags),
	}

	if err := uc.photoStorage.UpdatePhoto(ctx, photoID, userID, edit); err != nil {
		return fmt.Errorf("usecase: ошибка при редактировании фото %s: %w", photoID, err)
	}
	return nil
}

func (uc *photoUseCase) DeletePhoto(ctx context.Context, photoID, userID uuid.UUID) error {
	photo, err := uc.photoStorage.DeletePhoto(ctx, photoID, userID)
	if err != nil {
		return fmt.Errorf("usecase: ошибка при удалении фото %s: %w", photoID, err)
	}

	if uc.publisher == nil {
		return nil
	}

	payload := payloads.PhotoCleanupPayload{PhotoID: photo.ID, ImageURL: photo.ImageURL}
	if err := uc.publisher.PublishPhotoCleanup(ctx, payload); err != nil {
		// фото уже удалено, осиротевший файл не повод возвращать ошибку
		uc.logger.Error("failed to publish photo cleanup", "photo_id", photo.ID, "error", err)
	}
	return nil
}
