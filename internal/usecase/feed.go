package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/GoArmGo/FilmFeed/internal/core/ports"
	"github.com/GoArmGo/FilmFeed/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// feedUseCase implements FeedUseCase
type feedUseCase struct {
	photoStorage ports.PhotoStorage
	tagStorage   ports.TagStorage
	logger       *slog.Logger
}

// NewFeedUseCase создает новый экземпляр FeedUseCase
func NewFeedUseCase(photoStorage ports.PhotoStorage, tagStorage ports.TagStorage, logger *slog.Logger) FeedUseCase {
	return &feedUseCase{
		photoStorage: photoStorage,
		tagStorage:   tagStorage,
		logger:       logger,
	}
}

func (uc *feedUseCase) LoadFeed(ctx context.Context, filter domain.PhotoFilter) (*FeedPage, error) {
	var (
		photos []domain.PhotoCard
		gear   []domain.Gear
		tags   []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		photos, err = uc.photoStorage.ListPhotos(gctx, filter, domain.Page{Limit: FeedPageSize})
		return err
	})
	g.Go(func() error {
		var err error
		gear, err = uc.photoStorage.ListGear(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = uc.tagStorage.ListTagNames(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("usecase: ошибка при загрузке ленты: %w", err)
	}

	return &FeedPage{
		Photos:       photos,
		GearFacets:   BuildFacets(gear),
		Tags:         tags,
		ActiveCamera: filter.Camera,
		ActiveFilm:   filter.FilmStock,
		ActiveLens:   filter.Lens,
		ActiveFormat: filter.Format,
		HasFilter:    filter.HasFilter(),
	}, nil
}

func (uc *feedUseCase) LoadMorePhotos(ctx context.Context, filter domain.PhotoFilter, offset int) (*PhotoBatch, error) {
	if offset < 0 {
		offset = 0
	}

	photos, err := uc.photoStorage.ListPhotos(ctx, filter, domain.Page{Offset: offset, Limit: FeedPageSize})
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при загрузке страницы ленты (offset %d): %w", offset, err)
	}

	return &PhotoBatch{
		Photos:  photos,
		HasMore: len(photos) == FeedPageSize,
	}, nil
}

func (uc *feedUseCase) LoadUploadForm(ctx context.Context, userID uuid.UUID) (*UploadForm, error) {
	var (
		last *domain.Gear
		gear []domain.Gear
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		last, err = uc.photoStorage.LastGearByOwner(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		gear, err = uc.photoStorage.ListGear(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("usecase: ошибка при загрузке формы загрузки: %w", err)
	}

	facets := BuildFacets(gear)
	form := &UploadForm{
		Cameras: facets.Cameras,
		Films:   facets.Films,
		Lenses:  facets.Lenses,
	}
	if last != nil {
		form.LastCamera = last.Camera
		form.LastFilm = last.FilmStock
		form.LastLens = last.Lens
		form.LastFormat = last.Format
	}
	return form, nil
}

func (uc *feedUseCase) ListTags(ctx context.Context) ([]string, error) {
	tags, err := uc.tagStorage.ListTagNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении тегов: %w", err)
	}
	return tags, nil
}

func (uc *feedUseCase) LoadTagPage(ctx context.Context, name string) (*TagPage, error) {
	name = strings.ToLower(name)

	tag, err := uc.tagStorage.GetTagByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении тега %q: %w", name, err)
	}
	if tag == nil {
		return nil, domain.ErrTagNotFound
	}

	photos, err := uc.tagStorage.ListPhotosByTag(ctx, tag.ID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении фото тега %q: %w", name, err)
	}

	// хранилище отдаёт фото в порядке связей, страница показывает новые первыми
	slices.SortStableFunc(photos, func(a, b domain.PhotoCard) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	uc.logger.Debug("tag page loaded", "tag", name, "photos", len(photos))
	return &TagPage{Tag: *tag, Photos: photos}, nil
}

// BuildFacets собирает отсортированные уникальные непустые значения снаряжения
func BuildFacets(rows []domain.Gear) domain.GearFacets {
	return domain.GearFacets{
		Cameras: distinct(rows, func(g domain.Gear) string { return g.Camera }),
		Films:   distinct(rows, func(g domain.Gear) string { return g.FilmStock }),
		Lenses:  distinct(rows, func(g domain.Gear) string { return g.Lens }),
		Formats: distinct(rows, func(g domain.Gear) string { return g.Format }),
	}
}

func distinct(rows []domain.Gear, pick func(domain.Gear) string) []string {
	seen := make(map[string]struct{}, len(rows))
	values := make([]string, 0)
	for _, row := range rows {
		v := pick(row)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	slices.Sort(values)
	return values
}
