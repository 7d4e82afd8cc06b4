package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Photo представляет модель фотографии в системе,
// соответствует таблице photos в бд
type Photo struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	Caption   string    `json:"caption" db:"caption"`
	Camera    string    `json:"camera" db:"camera"`
	FilmStock string    `json:"film_stock" db:"film_stock"`
	Lens      string    `json:"lens" db:"lens"`
	Format    string    `json:"format" db:"format"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PhotoWithOwner — фото вместе с username владельца (результат join с profiles)
type PhotoWithOwner struct {
	Photo
	Username string `json:"username" db:"username"`
}

// PhotoCard — строка ленты: только то, что нужно для карточки
type PhotoCard struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	Caption   string    `json:"caption" db:"caption"`
	FilmStock string    `json:"film_stock" db:"film_stock"`
	Camera    string    `json:"camera" db:"camera"`
	Format    string    `json:"format" db:"format"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Username  string    `json:"username" db:"username"`
}

// PhotoFilter — фильтры ленты, каждое непустое поле это условие равенства
type PhotoFilter struct {
	Camera    string `json:"camera"`
	FilmStock string `json:"film"`
	Lens      string `json:"lens"`
	Format    string `json:"format"`
}

// HasFilter сообщает, задан ли хотя бы один фильтр
func (f PhotoFilter) HasFilter() bool {
	return f.Camera != "" || f.FilmStock != "" || f.Lens != "" || f.Format != ""
}

// Page описывает пагинацию: Limit для первой страницы, Offset+Limit для продолжения
type Page struct {
	Offset int
	Limit  int
}

// Gear — набор полей снаряжения одной фотографии
type Gear struct {
	Camera    string `json:"camera" db:"camera"`
	FilmStock string `json:"film_stock" db:"film_stock"`
	Lens      string `json:"lens" db:"lens"`
	Format    string `json:"format" db:"format"`
}

// GearFacets — отсортированные уникальные значения для фильтров
type GearFacets struct {
	Cameras []string `json:"cameras"`
	Films   []string `json:"films"`
	Lenses  []string `json:"lenses"`
	Formats []string `json:"formats"`
}

// PhotoEdit — поля, которые владелец может поменять
type PhotoEdit struct {
	Caption   string
	Camera    string
	FilmStock string
	Lens      string
	Tags      []string
}

// Tag представляет модель тега,
// соответствует таблице tags в бд
type Tag struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// PhotoTag представляет связующую модель для отношения Many-to-Many между Photo и Tag,
// соответствует таблице photo_tags в бд
type PhotoTag struct {
	PhotoID uuid.UUID `json:"photo_id" db:"photo_id"`
	TagID   int64     `json:"tag_id" db:"tag_id"`
}

// NormalizeTagName приводит имя тега к виду, в котором оно хранится
func NormalizeTagName(name string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "#")
}

// ParseTags разбирает строку вида "Kodak, #Portra, kodak" в список уникальных тегов.
// Порядок первого вхождения сохраняется.
func ParseTags(raw string) []string {
	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		name := NormalizeTagName(part)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		tags = append(tags, name)
	}
	return tags
}
