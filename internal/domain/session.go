package domain

import (
	"time"

	"github.com/google/uuid"
)

// User — пользователь, подтверждённый auth-сервисом
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role,omitempty"`
}

// Session — содержимое auth-cookie
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresAt    int64  `json:"expires_at"`
	User         *User  `json:"user,omitempty"`
}

// Expired сообщает, истёк ли access token с учётом запаса skew
func (s *Session) Expired(now time.Time, skew time.Duration) bool {
	if s.ExpiresAt == 0 {
		return false
	}
	return now.Add(skew).Unix() >= s.ExpiresAt
}

// VerifiedSession — результат getVerifiedSession: либо оба поля заданы, либо оба nil
type VerifiedSession struct {
	Session *Session `json:"session"`
	User    *User    `json:"user"`
}

// Anonymous сообщает, что запрос не аутентифицирован
func (v VerifiedSession) Anonymous() bool {
	return v.Session == nil || v.User == nil
}
