package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile представляет профиль пользователя.
// Соответствует таблице 'profiles' в базе данных, id совпадает с id пользователя в auth-сервисе.
type Profile struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username      string    `json:"username" gorm:"uniqueIndex"`
	Bio           string    `json:"bio"`
	AvatarURL     string    `json:"avatar_url"`
	LinkYoutube   string    `json:"link_youtube"`
	LinkInstagram string    `json:"link_instagram"`
	LinkTiktok    string    `json:"link_tiktok"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// ProfileUpdate — поля формы настроек профиля
type ProfileUpdate struct {
	Username      string
	Bio           string
	LinkYoutube   string
	LinkInstagram string
	LinkTiktok    string
}
