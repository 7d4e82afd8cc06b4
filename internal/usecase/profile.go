package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/GoArmGo/FilmFeed/internal/core/ports"
	"github.com/GoArmGo/FilmFeed/internal/domain"
	"github.com/GoArmGo/FilmFeed/internal/timefmt"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// MaxAvatarSize — максимальный размер аватара, 2 MiB
const MaxAvatarSize = 2 << 20

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// profileUseCase implements ProfileUseCase
type profileUseCase struct {
	profileStorage ports.ProfileStorage
	photoStorage   ports.PhotoStorage
	socialStorage  ports.SocialStorage
	fileStorage    ports.FileStorage
	// uploadSlots ограничивает число одновременных загрузок аватаров
	uploadSlots chan struct{}
	// lastAvatarToken — последний выданный ?t= токен аватара
	lastAvatarToken atomic.Int64
	logger          *slog.Logger
	now             func() time.Time
}

// NewProfileUseCase создает новый экземпляр ProfileUseCase.
// uploadConcurrency задаёт, сколько аватаров может загружаться одновременно.
func NewProfileUseCase(
	profileStorage ports.ProfileStorage,
	photoStorage ports.PhotoStorage,
	socialStorage ports.SocialStorage,
	fileStorage ports.FileStorage,
	uploadConcurrency int,
	logger *slog.Logger,
) ProfileUseCase {
	if uploadConcurrency < 1 {
		uploadConcurrency = 1
	}
	return &profileUseCase{
		profileStorage: profileStorage,
		photoStorage:   photoStorage,
		socialStorage:  socialStorage,
		fileStorage:    fileStorage,
		uploadSlots:    make(chan struct{}, uploadConcurrency),
		logger:         logger,
		now:            time.Now,
	}
}

func (uc *profileUseCase) GetViewerProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	profile, err := uc.profileStorage.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении профиля %s: %w", userID, err)
	}
	return profile, nil
}

// LoadSettings возвращает профиль для формы настроек; nil, nil если профиль ещё не создан
func (uc *profileUseCase) LoadSettings(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return uc.GetViewerProfile(ctx, userID)
}

func (uc *profileUseCase) UpdateProfile(ctx context.Context, userID uuid.UUID, update domain.ProfileUpdate) error {
	update = domain.ProfileUpdate{
		Username:      strings.TrimSpace(update.Username),
		Bio:           strings.TrimSpace(update.Bio),
		LinkYoutube:   strings.TrimSpace(update.LinkYoutube),
		LinkInstagram: strings.TrimSpace(update.LinkInstagram),
		LinkTiktok:    strings.TrimSpace(update.LinkTiktok),
	}

	if len(update.Username) < 2 {
		return domain.Invalid("username must be at least 2 characters")
	}
	if !usernamePattern.MatchString(update.Username) {
		return domain.Invalid("username: lowercase letters, numbers, underscores only")
	}

	if err := uc.profileStorage.UpdateProfile(ctx, userID, update); err != nil {
		return fmt.Errorf("usecase: ошибка при обновлении профиля %s: %w", userID, err)
	}
	uc.logger.Info("profile updated", "user_id", userID, "username", update.Username)
	return nil
}

func (uc *profileUseCase) UploadAvatar(ctx context.Context, userID uuid.UUID, upload AvatarUpload) (string, error) {
	if upload.Content == nil || upload.Size == 0 {
		return "", domain.Invalid("please select an image")
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return "", domain.Invalid("file must be an image")
	}
	if upload.Size > MaxAvatarSize {
		return "", domain.Invalid("image must be under 2 MB")
	}

	select {
	case uc.uploadSlots <- struct{}{}:
		defer func() { <-uc.uploadSlots }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	key := AvatarKey(userID, upload.Filename)
	publicURL, err := uc.fileStorage.UploadFile(ctx, key, upload.Content, upload.ContentType)
	if err != nil {
		return "", fmt.Errorf("usecase: ошибка при загрузке аватара %s: %w", key, err)
	}

	// новый query-параметр заставляет браузер перечитать перезаписанный файл
	avatarURL := fmt.Sprintf("%s?t=%d", publicURL, uc.nextAvatarToken())
	if err := uc.profileStorage.SetAvatarURL(ctx, userID, avatarURL); err != nil {
		return "", fmt.Errorf("usecase: ошибка при сохранении аватара: %w", err)
	}

	uc.logger.Info("avatar uploaded", "user_id", userID, "key", key, "size", upload.Size)
	return avatarURL, nil
}

// nextAvatarToken возвращает время в миллисекундах, но строго больше предыдущего токена,
// так что две загрузки в одну миллисекунду получают разные URL
func (uc *profileUseCase) nextAvatarToken() int64 {
	for {
		last := uc.lastAvatarToken.Load()
		token := uc.now().UnixMilli()
		if token <= last {
			token = last + 1
		}
		if uc.lastAvatarToken.CompareAndSwap(last, token) {
			return token
		}
	}
}

// AvatarKey возвращает ключ объекта аватара; расширение берётся из имени файла
func AvatarKey(userID uuid.UUID, filename string) string {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("avatars/%s/avatar.%s", userID, ext)
}

func (uc *profileUseCase) LoadUserPage(ctx context.Context, username string) (*UserPage, error) {
	profile, err := uc.profileStorage.GetProfileByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении профиля %q: %w", username, err)
	}
	if profile == nil {
		return nil, domain.ErrProfileNotFound
	}

	var (
		photos []domain.PhotoCard
		count  int
		liked  []domain.PhotoCard
		shouts []domain.ShoutboxEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		photos, err = uc.photoStorage.ListPhotosByOwner(gctx, profile.ID)
		return err
	})
	g.Go(func() error {
		var err error
		count, err = uc.photoStorage.CountPhotosByOwner(gctx, profile.ID)
		return err
	})
	g.Go(func() error {
		ids, err := uc.socialStorage.ListLikedPhotoIDs(gctx, profile.ID)
		if err != nil {
			return err
		}
		rows, err := uc.photoStorage.ListPhotosByIDs(gctx, ids)
		if err != nil {
			return err
		}
		liked = OrderByIDs(ids, rows)
		return nil
	})
	g.Go(func() error {
		var err error
		shouts, err = uc.socialStorage.ListShouts(gctx, profile.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("usecase: ошибка при загрузке страницы %q: %w", username, err)
	}

	now := uc.now()
	views := make([]ShoutView, 0, len(shouts))
	for _, s := range shouts {
		views = append(views, ShoutView{
			ShoutboxEntry: s,
			Ago:           timefmt.Ago(s.CreatedAt, now),
			Date:          timefmt.Full(s.CreatedAt),
		})
	}

	return &UserPage{
		Profile:     *profile,
		Photos:      photos,
		PhotoCount:  count,
		LikedPhotos: liked,
		Shouts:      views,
	}, nil
}

// OrderByIDs раскладывает фото в порядке ids; id без строки пропускаются
func OrderByIDs(ids []uuid.UUID, photos []domain.PhotoCard) []domain.PhotoCard {
	byID := make(map[uuid.UUID]domain.PhotoCard, len(photos))
	for _, p := range photos {
		byID[p.ID] = p
	}

	ordered := make([]domain.PhotoCard, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered
}

func (uc *profileUseCase) PostShout(ctx context.Context, username string, authorID uuid.UUID, body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return domain.Invalid("message cannot be empty")
	}

	profile, err := uc.profileStorage.GetProfileByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("usecase: ошибка при получении профиля %q: %w", username, err)
	}
	if profile == nil {
		return domain.ErrProfileNotFound
	}

	if err := uc.socialStorage.AddShout(ctx, profile.ID, authorID, body); err != nil {
		return fmt.Errorf("usecase: ошибка при добавлении сообщения: %w", err)
	}
	uc.logger.Info("shout posted", "profile_id", profile.ID, "user_id", authorID)
	return nil
}
