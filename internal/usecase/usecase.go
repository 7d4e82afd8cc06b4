package usecase

import (
	"context"
	"io"

	"github.com/GoArmGo/FilmFeed/internal/domain"
	"github.com/google/uuid"
)

// FeedPageSize — размер страницы ленты и бесконечной прокрутки
const FeedPageSize = 12

// FeedUseCase — лента, фильтры, теги и данные формы загрузки
type FeedUseCase interface {
	// LoadFeed возвращает первую страницу ленты, фасеты фильтров и список тегов
	LoadFeed(ctx context.Context, filter domain.PhotoFilter) (*FeedPage, error)

	// LoadMorePhotos возвращает следующую страницу ленты начиная с offset
	LoadMorePhotos(ctx context.Context, filter domain.PhotoFilter, offset int) (*PhotoBatch, error)

	// LoadUploadForm возвращает снаряжение последнего фото пользователя и подсказки
	LoadUploadForm(ctx context.Context, userID uuid.UUID) (*UploadForm, error)

	// ListTags возвращает имена всех тегов по алфавиту
	ListTags(ctx context.Context) ([]string, error)

	// LoadTagPage возвращает тег и его фото, новые первыми
	LoadTagPage(ctx context.Context, name string) (*TagPage, error)
}

// PhotoUseCase — страница фото и действия над ним
type PhotoUseCase interface {
	// LoadPhoto возвращает фото, теги, комментарии и лайки.
	// viewerID == uuid.Nil для анонимного посетителя.
	LoadPhoto(ctx context.Context, id, viewerID uuid.UUID) (*PhotoPage, error)

	AddComment(ctx context.Context, photoID, userID uuid.UUID, body string) error

	// ToggleFavorite переключает "избранное" и возвращает новое состояние
	ToggleFavorite(ctx context.Context, photoID, userID uuid.UUID) (bool, error)

	// EditPhoto меняет подпись, снаряжение и теги фото владельца
	EditPhoto(ctx context.Context, photoID, userID uuid.UUID, input EditInput) error

	// DeletePhoto удаляет фото владельца и ставит задачу на удаление файла
	DeletePhoto(ctx context.Context, photoID, userID uuid.UUID) error
}

// ProfileUseCase — профили, настройки, аватары и гостевая книга
type ProfileUseCase interface {
	// GetViewerProfile возвращает профиль текущего пользователя или nil
	GetViewerProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	LoadSettings(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update domain.ProfileUpdate) error

	// UploadAvatar проверяет и загружает аватар, возвращает сохранённый URL
	UploadAvatar(ctx context.Context, userID uuid.UUID, upload AvatarUpload) (string, error)

	LoadUserPage(ctx context.Context, username string) (*UserPage, error)

	// PostShout добавляет сообщение в гостевую книгу пользователя username
	PostShout(ctx context.Context, username string, authorID uuid.UUID, body string) error
}

// EditInput — сырые поля формы редактирования фото
type EditInput struct {
	Caption   string
	Camera    string
	FilmStock string
	Lens      string
	Tags      string
}

// AvatarUpload — файл из формы аватара
type AvatarUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// FeedPage — данные главной страницы
type FeedPage struct {
	Photos []domain.PhotoCard `json:"photos"`
	domain.GearFacets
	Tags         []string `json:"tags"`
	ActiveCamera string   `json:"activeCamera"`
	ActiveFilm   string   `json:"activeFilm"`
	ActiveLens   string   `json:"activeLens"`
	ActiveFormat string   `json:"activeFormat"`
	HasFilter    bool     `json:"hasFilter"`
}

// PhotoBatch — ответ бесконечной прокрутки
type PhotoBatch struct {
	Photos  []domain.PhotoCard `json:"photos"`
	HasMore bool               `json:"hasMore"`
}

// UploadForm — предзаполнение формы загрузки
type UploadForm struct {
	LastCamera string   `json:"lastCamera"`
	LastFilm   string   `json:"lastFilm"`
	LastLens   string   `json:"lastLens"`
	LastFormat string   `json:"lastFormat"`
	Cameras    []string `json:"cameras"`
	Films      []string `json:"films"`
	Lenses     []string `json:"lenses"`
}

// TagPage — страница тега
type TagPage struct {
	Tag    domain.Tag         `json:"tag"`
	Photos []domain.PhotoCard `json:"photos"`
}

// CommentView — комментарий с готовыми строками даты
type CommentView struct {
	domain.Comment
	Ago  string `json:"ago"`
	Date string `json:"date"`
}

// ShoutView — сообщение гостевой книги с готовыми строками даты
type ShoutView struct {
	domain.ShoutboxEntry
	Ago  string `json:"ago"`
	Date string `json:"date"`
}

// PhotoPage — страница фото
type PhotoPage struct {
	Photo         domain.PhotoWithOwner `json:"photo"`
	Tags          []domain.Tag          `json:"tags"`
	Comments      []CommentView         `json:"comments"`
	Favorites     []domain.Like         `json:"favorites"`
	FavoriteCount int                   `json:"favoriteCount"`
	UserFavorited bool                  `json:"userFavorited"`
}

// UserPage — страница пользователя
type UserPage struct {
	Profile     domain.Profile     `json:"profile"`
	Photos      []domain.PhotoCard `json:"photos"`
	PhotoCount  int                `json:"photoCount"`
	LikedPhotos []domain.PhotoCard `json:"likedPhotos"`
	Shouts      []ShoutView        `json:"shouts"`
}
