package session

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/GoArmGo/FilmFeed/internal/domain"
)

// cookiePrefix помечает значение cookie как base64url(JSON)
const cookiePrefix = "base64-"

// EncodeCookie сериализует сессию в значение auth-cookie
func EncodeCookie(s *domain.Session) (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("session: encode cookie: %w", err)
	}
	return cookiePrefix + base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeCookie разбирает значение auth-cookie.
// Сессия без access или refresh токена считается битой.
func DecodeCookie(value string) (*domain.Session, error) {
	encoded, ok := strings.CutPrefix(value, cookiePrefix)
	if !ok {
		return nil, fmt.Errorf("session: unknown cookie format")
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(encoded, "="))
	if err != nil {
		return nil, fmt.Errorf("session: decode cookie: %w", err)
	}

	var s domain.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("session: decode cookie: %w", err)
	}
	if s.AccessToken == "" || s.RefreshToken == "" {
		return nil, fmt.Errorf("session: cookie without tokens")
	}
	return &s, nil
}
