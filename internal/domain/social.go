package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment — комментарий к фото, таблица comments
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	PhotoID   uuid.UUID `json:"photo_id" db:"photo_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Username  string    `json:"username" db:"username"`
}

// Like — отметка "избранное", таблица likes
type Like struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	PhotoID   uuid.UUID `json:"photo_id" db:"photo_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Username  string    `json:"username" db:"username"`
}

// ShoutboxEntry — сообщение в гостевой книге профиля, таблица shoutbox
type ShoutboxEntry struct {
	ID        int64     `json:"id" db:"id"`
	ProfileID uuid.UUID `json:"profile_id" db:"profile_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Username  string    `json:"username" db:"username"`
}
