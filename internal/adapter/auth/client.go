// internal/adapter/auth/client.go
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/GoArmGo/FilmFeed/internal/config"
	"github.com/GoArmGo/FilmFeed/internal/domain"
)

// ErrUnauthorized — auth-сервис отклонил токен
var ErrUnauthorized = errors.New("auth: token rejected")

// Client — клиент GoTrue-совместимого auth-сервиса.
// Сам протокол аутентификации живёт там, здесь только проверка и обновление токенов.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	now        func() time.Time
}

// NewClient создает новый экземпляр Client.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(cfg.AuthURL, "/"),
		apiKey:     cfg.AuthAnonKey,
		now:        time.Now,
	}
}

// GetUser заново проверяет access token у auth-сервиса и возвращает пользователя
func (c *Client) GetUser(ctx context.Context, accessToken string) (*domain.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP-запроса: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var user UserResponse
	if err := c.do(req, &user); err != nil {
		return nil, err
	}
	return mapUser(&user), nil
}

// RefreshSession обменивает refresh token на новую сессию
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*domain.Session, error) {
	body, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token?grant_type=refresh_token", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP-запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var token TokenResponse
	if err := c.do(req, &token); err != nil {
		return nil, err
	}

	expiresAt := token.ExpiresAt
	if expiresAt == 0 && token.ExpiresIn > 0 {
		expiresAt = c.now().Unix() + token.ExpiresIn
	}

	return &domain.Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		ExpiresAt:    expiresAt,
		User:         mapUser(token.User),
	}, nil
}

// do выполняет запрос с ключом проекта и декодирует JSON-ответ в out
func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка выполнения HTTP-запроса к auth-сервису: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr ErrorResponse
		msg := string(bodyBytes)
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.text() != "" {
			msg = apiErr.text()
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
		}
		return fmt.Errorf("auth-сервис вернул статус %d: %s", resp.StatusCode, msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ошибка декодирования JSON ответа auth-сервиса: %w", err)
	}
	return nil
}

func mapUser(u *UserResponse) *domain.User {
	if u == nil {
		return nil
	}
	return &domain.User{ID: u.ID, Email: u.Email, Role: u.Role}
}
