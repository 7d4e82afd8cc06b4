package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/FilmFeed/internal/domain"
	"github.com/GoArmGo/FilmFeed/internal/logger"
	"github.com/GoArmGo/FilmFeed/internal/session"
	"github.com/GoArmGo/FilmFeed/internal/usecase"
)

const (
	testCookie = "test-auth"
	goodToken  = "good-token"
	loginPath  = "/login"
)

var testUser = &domain.User{ID: uuid.MustParse("6a1f8f0e-7b1c-4d2e-9f3a-1b2c3d4e5f60"), Email: "anna@example.com"}

type fakeAuth struct{}

func (fakeAuth) GetUser(_ context.Context, token string) (*domain.User, error) {
	if token == goodToken {
		return testUser, nil
	}
	return nil, errors.New("invalid JWT")
}

func (fakeAuth) RefreshSession(context.Context, string) (*domain.Session, error) {
	return nil, errors.New("refresh disabled")
}

type fakeFeed struct {
	page      *usecase.FeedPage
	batch     *usecase.PhotoBatch
	form      *usecase.UploadForm
	tags      []string
	tagPage   *usecase.TagPage
	err       error
	offsets   []int
	filters   []domain.PhotoFilter
	tagLookup []string
}

func (f *fakeFeed) LoadFeed(_ context.Context, filter domain.PhotoFilter) (*usecase.FeedPage, error) {
	f.filters = append(f.filters, filter)
	return f.page, f.err
}

func (f *fakeFeed) LoadMorePhotos(_ context.Context, filter domain.PhotoFilter, offset int) (*usecase.PhotoBatch, error) {
	f.filters = append(f.filters, filter)
	f.offsets = append(f.offsets, offset)
	return f.batch, f.err
}

func (f *fakeFeed) LoadUploadForm(context.Context, uuid.UUID) (*usecase.UploadForm, error) {
	return f.form, f.err
}

func (f *fakeFeed) ListTags(context.Context) ([]string, error) {
	return f.tags, f.err
}

func (f *fakeFeed) LoadTagPage(_ context.Context, name string) (*usecase.TagPage, error) {
	f.tagLookup = append(f.tagLookup, name)
	return f.tagPage, f.err
}

type fakePhotos struct {
	page      *usecase.PhotoPage
	err       error
	favorited bool
	viewers   []uuid.UUID
	comments  []string
	edits     []usecase.EditInput
	deletes   []uuid.UUID
}

func (f *fakePhotos) LoadPhoto(_ context.Context, _, viewerID uuid.UUID) (*usecase.PhotoPage, error) {
	f.viewers = append(f.viewers, viewerID)
	return f.page, f.err
}

func (f *fakePhotos) AddComment(_ context.Context, _, _ uuid.UUID, body string) error {
	f.comments = append(f.comments, body)
	return f.err
}

func (f *fakePhotos) ToggleFavorite(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return f.favorited, f.err
}

func (f *fakePhotos) EditPhoto(_ context.Context, _, _ uuid.UUID, input usecase.EditInput) error {
	f.edits = append(f.edits, input)
	return f.err
}

func (f *fakePhotos) DeletePhoto(_ context.Context, photoID, _ uuid.UUID) error {
	f.deletes = append(f.deletes, photoID)
	return f.err
}

type fakeProfiles struct {
	profile   *domain.Profile
	userPage  *usecase.UserPage
	avatarURL string
	err       error
	updates   []domain.ProfileUpdate
	uploads   []usecase.AvatarUpload
	shouts    []string
}

func (f *fakeProfiles) GetViewerProfile(context.Context, uuid.UUID) (*domain.Profile, error) {
	return f.profile, f.err
}

func (f *fakeProfiles) LoadSettings(context.Context, uuid.UUID) (*domain.Profile, error) {
	return f.profile, f.err
}

func (f *fakeProfiles) UpdateProfile(_ context.Context, _ uuid.UUID, update domain.ProfileUpdate) error {
	f.updates = append(f.updates, update)
	return f.err
}

func (f *fakeProfiles) UploadAvatar(_ context.Context, _ uuid.UUID, upload usecase.AvatarUpload) (string, error) {
	if upload.Content != nil {
		data, _ := io.ReadAll(upload.Content)
		upload.Content = strings.NewReader(string(data))
	}
	f.uploads = append(f.uploads, upload)
	return f.avatarURL, f.err
}

func (f *fakeProfiles) LoadUserPage(context.Context, string) (*usecase.UserPage, error) {
	return f.userPage, f.err
}

func (f *fakeProfiles) PostShout(_ context.Context, _ string, _ uuid.UUID, body string) error {
	f.shouts = append(f.shouts, body)
	return f.err
}

// newTestRouter собирает роутер с теми же путями, что и сервер
func newTestRouter(feed usecase.FeedUseCase, photos usecase.PhotoUseCase, profiles usecase.ProfileUseCase) http.Handler {
	log := logger.Discard()
	boot := session.NewBootstrap(fakeAuth{}, session.Options{CookieName: testCookie}, log)

	fh := NewFeedHandler(feed, loginPath, log)
	ph := NewPhotoHandler(photos, log)
	sh := NewSettingsHandler(profiles, loginPath, log)
	uh := NewUserHandler(profiles, log)
	lh := NewSessionHandler(profiles, log)

	r := chi.NewRouter()
	r.Use(Recoverer(log))
	r.Use(boot.Middleware)

	r.Get("/", fh.Feed)
	r.Get("/api/photos", fh.MorePhotos)
	r.Get("/api/session", lh.Session)
	r.Get("/tags", fh.Tags)
	r.Get("/tag/{name}", fh.TagPage)
	r.Get("/upload", fh.UploadForm)
	r.Get("/photo/{id}", ph.Photo)
	r.Post("/photo/{id}/comment", ph.Comment)
	r.Post("/photo/{id}/favorite", ph.Favorite)
	r.Post("/photo/{id}/edit", ph.Edit)
	r.Post("/photo/{id}/delete", ph.Delete)
	r.Get("/settings", sh.Settings)
	r.Post("/settings/profile", sh.UpdateProfile)
	r.Post("/settings/avatar", sh.UploadAvatar)
	r.Get("/user/{username}", uh.UserPage)
	r.Post("/user/{username}/shout", uh.Shout)
	return r
}

func loggedIn(t *testing.T, r *http.Request) *http.Request {
	t.Helper()
	value, err := session.EncodeCookie(&domain.Session{AccessToken: goodToken, RefreshToken: "refresh", TokenType: "bearer"})
	require.NoError(t, err)
	r.AddCookie(&http.Cookie{Name: testCookie, Value: value})
	return r
}

func postForm(target string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}
