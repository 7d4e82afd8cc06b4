package usecase

import (
	"context"
	"io"
	"sync"

	"github.com/GoArmGo/FilmFeed/internal/domain"
	"github.com/GoArmGo/FilmFeed/internal/messaging/payloads"
	"github.com/google/uuid"
)

type fakePhotoStorage struct {
	mu sync.Mutex

	cards     []domain.PhotoCard
	gear      []domain.Gear
	photo     *domain.PhotoWithOwner
	lastGear  *domain.Gear
	byOwner   []domain.PhotoCard
	count     int
	byIDs     []domain.PhotoCard
	deleted   *domain.Photo
	updateErr error
	deleteErr error
	listErr   error

	listPages []domain.Page
	filters   []domain.PhotoFilter
	edits     []domain.PhotoEdit
	deletes   int
}

func (f *fakePhotoStorage) ListPhotos(_ context.Context, filter domain.PhotoFilter, page domain.Page) ([]domain.PhotoCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listPages = append(f.listPages, page)
	f.filters = append(f.filters, filter)
	return f.cards, f.listErr
}

func (f *fakePhotoStorage) ListGear(context.Context) ([]domain.Gear, error) {
	return f.gear, nil
}

func (f *fakePhotoStorage) GetPhotoByID(context.Context, uuid.UUID) (*domain.PhotoWithOwner, error) {
	return f.photo, nil
}

func (f *fakePhotoStorage) ListPhotosByOwner(context.Context, uuid.UUID) ([]domain.PhotoCard, error) {
	return f.byOwner, nil
}

func (f *fakePhotoStorage) CountPhotosByOwner(context.Context, uuid.UUID) (int, error) {
	return f.count, nil
}

func (f *fakePhotoStorage) LastGearByOwner(context.Context, uuid.UUID) (*domain.Gear, error) {
	return f.lastGear, nil
}

func (f *fakePhotoStorage) ListPhotosByIDs(context.Context, []uuid.UUID) ([]domain.PhotoCard, error) {
	return f.byIDs, nil
}

func (f *fakePhotoStorage) UpdatePhoto(_ context.Context, _, _ uuid.UUID, edit domain.PhotoEdit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, edit)
	return f.updateErr
}

func (f *fakePhotoStorage) DeletePhoto(context.Context, uuid.UUID, uuid.UUID) (*domain.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return f.deleted, nil
}

type fakeTagStorage struct {
	names  []string
	tag    *domain.Tag
	tags   []domain.Tag
	photos []domain.PhotoCard

	lookedUp []string
}

func (f *fakeTagStorage) ListTagNames(context.Context) ([]string, error) {
	return f.names, nil
}

func (f *fakeTagStorage) GetTagByName(_ context.Context, name string) (*domain.Tag, error) {
	f.lookedUp = append(f.lookedUp, name)
	return f.tag, nil
}

func (f *fakeTagStorage) ListTagsForPhoto(context.Context, uuid.UUID) ([]domain.Tag, error) {
	return f.tags, nil
}

func (f *fakeTagStorage) ListPhotosByTag(context.Context, int64) ([]domain.PhotoCard, error) {
	return f.photos, nil
}

// fakeSocialStorage хранит лайки в памяти, чтобы проверять переключение
type fakeSocialStorage struct {
	mu sync.Mutex

	comments []domain.Comment
	likes    []domain.Like
	likedIDs []uuid.UUID
	shouts   []domain.ShoutboxEntry

	liked         map[uuid.UUID]bool
	addedComments []string
	addedShouts   []string
}

func (f *fakeSocialStorage) ListComments(context.Context, uuid.UUID) ([]domain.Comment, error) {
	return f.comments, nil
}

func (f *fakeSocialStorage) AddComment(_ context.Context, _, _ uuid.UUID, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addedComments = append(f.addedComments, body)
	return nil
}

func (f *fakeSocialStorage) ListLikes(context.Context, uuid.UUID) ([]domain.Like, error) {
	return f.likes, nil
}

func (f *fakeSocialStorage) ToggleLike(_ context.Context, _, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.liked == nil {
		f.liked = make(map[uuid.UUID]bool)
	}
	f.liked[userID] = !f.liked[userID]
	return f.liked[userID], nil
}

func (f *fakeSocialStorage) ListLikedPhotoIDs(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return f.likedIDs, nil
}

func (f *fakeSocialStorage) ListShouts(context.Context, uuid.UUID) ([]domain.ShoutboxEntry, error) {
	return f.shouts, nil
}

func (f *fakeSocialStorage) AddShout(_ context.Context, _, _ uuid.UUID, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addedShouts = append(f.addedShouts, body)
	return nil
}

type fakeProfileStorage struct {
	profile   *domain.Profile
	updateErr error

	updates    []domain.ProfileUpdate
	avatarURLs []string
}

func (f *fakeProfileStorage) GetProfileByID(context.Context, uuid.UUID) (*domain.Profile, error) {
	return f.profile, nil
}

func (f *fakeProfileStorage) GetProfileByUsername(context.Context, string) (*domain.Profile, error) {
	return f.profile, nil
}

func (f *fakeProfileStorage) UpdateProfile(_ context.Context, _ uuid.UUID, update domain.ProfileUpdate) error {
	f.updates = append(f.updates, update)
	return f.updateErr
}

func (f *fakeProfileStorage) SetAvatarURL(_ context.Context, _ uuid.UUID, avatarURL string) error {
	f.avatarURLs = append(f.avatarURLs, avatarURL)
	return nil
}

type fakeFileStorage struct {
	keys []string
}

func (f *fakeFileStorage) UploadFile(_ context.Context, key string, reader io.Reader, _ string) (string, error) {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	f.keys = append(f.keys, key)
	return f.PublicURL(key), nil
}

func (f *fakeFileStorage) PublicURL(key string) string {
	return "http://files.test/media/" + key
}

func (f *fakeFileStorage) ObjectKey(string) (string, bool) {
	return "", false
}

func (f *fakeFileStorage) DeleteFile(context.Context, string) error {
	return nil
}

type fakePublisher struct {
	published []payloads.PhotoCleanupPayload
	err       error
}

func (f *fakePublisher) PublishPhotoCleanup(_ context.Context, payload payloads.PhotoCleanupPayload) error {
	f.published = append(f.published, payload)
	return f.err
}
