package usecase

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/GoArmGo/FilmFeed/internal/domain"
	"github.com/GoArmGo/FilmFeed/internal/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileFixture struct {
	profiles *fakeProfileStorage
	photos   *fakePhotoStorage
	social   *fakeSocialStorage
	files    *fakeFileStorage
	uc       *profileUseCase
}

func newProfileFixture(profile *domain.Profile) *profileFixture {
	f := &profileFixture{
		profiles: &fakeProfileStorage{profile: profile},
		photos:   &fakePhotoStorage{},
		social:   &fakeSocialStorage{},
		files:    &fakeFileStorage{},
	}
	f.uc = NewProfileUseCase(f.profiles, f.photos, f.social, f.files, 2, logger.Discard()).(*profileUseCase)
	return f
}

func TestUpdateProfileValidation(t *testing.T) {
	tests := []struct {
		username string
		want     string
	}{
		{username: "a", want: "username must be at least 2 characters"},
		{username: "   ", want: "username must be at least 2 characters"},
		{username: "Anna", want: "username: lowercase letters, numbers, underscores only"},
		{username: "an-na", want: "username: lowercase letters, numbers, underscores only"},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			f := newProfileFixture(nil)

			err := f.uc.UpdateProfile(context.Background(), uuid.New(), domain.ProfileUpdate{Username: tt.username})
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.Message)
			assert.Empty(t, f.profiles.updates)
		})
	}
}

func TestUpdateProfileTrimsFields(t *testing.T) {
	f := newProfileFixture(nil)

	err := f.uc.UpdateProfile(context.Background(), uuid.New(), domain.ProfileUpdate{
		Username:    "  film_nerd_35 ",
		Bio:         " shooting HP5 ",
		LinkTiktok:  " ",
		LinkYoutube: "https://youtube.com/@nerd",
	})
	require.NoError(t, err)

	require.Len(t, f.profiles.updates, 1)
	assert.Equal(t, domain.ProfileUpdate{
		Username:    "film_nerd_35",
		Bio:         "shooting HP5",
		LinkYoutube: "https://youtube.com/@nerd",
	}, f.profiles.updates[0])
}

func TestUpdateProfileTaken(t *testing.T) {
	f := newProfileFixture(nil)
	f.profiles.updateErr = domain.ErrUsernameTaken

	err := f.uc.UpdateProfile(context.Background(), uuid.New(), domain.ProfileUpdate{Username: "taken"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestLoadSettingsMissingProfile(t *testing.T) {
	f := newProfileFixture(nil)

	profile, err := f.uc.LoadSettings(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestUploadAvatarValidation(t *testing.T) {
	tests := []struct {
		name   string
		upload AvatarUpload
		want   string
	}{
		{
			name:   "no file",
			upload: AvatarUpload{},
			want:   "please select an image",
		},
		{
			name:   "empty file",
			upload: AvatarUpload{Filename: "a.png", ContentType: "image/png", Content: bytes.NewReader(nil)},
			want:   "please select an image",
		},
		{
			name:   "not an image",
			upload: AvatarUpload{Filename: "a.pdf", ContentType: "application/pdf", Size: 10, Content: bytes.NewReader(make([]byte, 10))},
			want:   "file must be an image",
		},
		{
			name:   "too large",
			upload: AvatarUpload{Filename: "a.jpg", ContentType: "image/jpeg", Size: 3 << 20, Content: bytes.NewReader(make([]byte, 3<<20))},
			want:   "image must be under 2 MB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProfileFixture(nil)

			_, err := f.uc.UploadAvatar(context.Background(), uuid.New(), tt.upload)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.Message)
			assert.Empty(t, f.files.keys)
			assert.Empty(t, f.profiles.avatarURLs)
		})
	}
}

func TestUploadAvatarCacheBuster(t *testing.T) {
	f := newProfileFixture(nil)
	userID := uuid.New()
	clock := time.UnixMilli(1_700_000_000_000)
	f.uc.now = func() time.Time { return clock }

	upload := func() string {
		data := []byte("fake-png")
		url, err := f.uc.UploadAvatar(context.Background(), userID, AvatarUpload{
			Filename:    "me.png",
			ContentType: "image/png",
			Size:        int64(len(data)),
			Content:     bytes.NewReader(data),
		})
		require.NoError(t, err)
		return url
	}

	first := upload()
	clock = clock.Add(1500 * time.Millisecond)
	second := upload()

	key := "avatars/" + userID.String() + "/avatar.png"
	assert.Equal(t, []string{key, key}, f.files.keys)
	assert.Equal(t, "http://files.test/media/"+key+"?t=1700000000000", first)
	assert.Equal(t, "http://files.test/media/"+key+"?t=1700000001500", second)
	assert.NotEqual(t, first, second)
	assert.Equal(t, []string{first, second}, f.profiles.avatarURLs)
}

func TestUploadAvatarSameMillisecond(t *testing.T) {
	f := newProfileFixture(nil)
	clock := time.UnixMilli(1_700_000_000_000)
	f.uc.now = func() time.Time { return clock }

	var urls []string
	for range 3 {
		data := []byte("fake-jpeg")
		url, err := f.uc.UploadAvatar(context.Background(), uuid.New(), AvatarUpload{
			Filename:    "me.jpg",
			ContentType: "image/jpeg",
			Size:        int64(len(data)),
			Content:     bytes.NewReader(data),
		})
		require.NoError(t, err)
		urls = append(urls, url[strings.Index(url, "?t="):])
	}

	assert.Equal(t, []string{"?t=1700000000000", "?t=1700000000001", "?t=1700000000002"}, urls)
}

func TestUploadAvatarCancelledWhileWaiting(t *testing.T) {
	f := newProfileFixture(nil)
	// все слоты заняты
	f.uc.uploadSlots <- struct{}{}
	f.uc.uploadSlots <- struct{}{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.uc.UploadAvatar(ctx, uuid.New(), AvatarUpload{
		Filename:    "a.jpg",
		ContentType: "image/jpeg",
		Size:        3,
		Content:     bytes.NewReader([]byte("abc")),
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.files.keys)
}

func TestAvatarKey(t *testing.T) {
	id := uuid.MustParse("3f1c1b1e-1d2e-4f5a-9b8c-7d6e5f4a3b2c")

	assert.Equal(t, "avatars/3f1c1b1e-1d2e-4f5a-9b8c-7d6e5f4a3b2c/avatar.webp", AvatarKey(id, "selfie.final.webp"))
	assert.Equal(t, "avatars/3f1c1b1e-1d2e-4f5a-9b8c-7d6e5f4a3b2c/avatar.jpg", AvatarKey(id, "selfie"))
}

func TestOrderByIDs(t *testing.T) {
	a, b, c, gone := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	rows := []domain.PhotoCard{{ID: a}, {ID: b}, {ID: c}}

	ordered := OrderByIDs([]uuid.UUID{c, gone, a, b}, rows)

	require.Len(t, ordered, 3)
	assert.Equal(t, c, ordered[0].ID)
	assert.Equal(t, a, ordered[1].ID)
	assert.Equal(t, b, ordered[2].ID)
}

func TestLoadUserPage(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	profile := &domain.Profile{ID: uuid.New(), Username: "anna"}
	f := newProfileFixture(profile)
	f.uc.now = func() time.Time { return now }

	liked1, liked2 := uuid.New(), uuid.New()
	f.photos.byOwner = cards(2)
	f.photos.count = 2
	f.photos.byIDs = []domain.PhotoCard{{ID: liked1}, {ID: liked2}}
	f.social.likedIDs = []uuid.UUID{liked2, liked1}
	f.social.shouts = []domain.ShoutboxEntry{{Body: "hi", CreatedAt: now.Add(-3 * time.Hour)}}

	page, err := f.uc.LoadUserPage(context.Background(), "anna")
	require.NoError(t, err)

	assert.Equal(t, "anna", page.Profile.Username)
	assert.Len(t, page.Photos, 2)
	assert.Equal(t, 2, page.PhotoCount)
	require.Len(t, page.LikedPhotos, 2)
	assert.Equal(t, liked2, page.LikedPhotos[0].ID)
	assert.Equal(t, liked1, page.LikedPhotos[1].ID)
	require.Len(t, page.Shouts, 1)
	assert.Equal(t, "3h ago", page.Shouts[0].Ago)
}

func TestLoadUserPageNotFound(t *testing.T) {
	f := newProfileFixture(nil)

	_, err := f.uc.LoadUserPage(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestPostShout(t *testing.T) {
	f := newProfileFixture(&domain.Profile{ID: uuid.New(), Username: "anna"})

	err := f.uc.PostShout(context.Background(), "anna", uuid.New(), " \t")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "message cannot be empty", verr.Message)

	require.NoError(t, f.uc.PostShout(context.Background(), "anna", uuid.New(), " love the colours "))
	assert.Equal(t, []string{"love the colours"}, f.social.addedShouts)
}

func TestPostShoutUnknownUser(t *testing.T) {
	f := newProfileFixture(nil)

	err := f.uc.PostShout(context.Background(), "ghost", uuid.New(), "hello")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	assert.Empty(t, f.social.addedShouts)
}
