package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/FilmFeed/internal/domain"
	"github.com/GoArmGo/FilmFeed/internal/session"
	"github.com/GoArmGo/FilmFeed/internal/usecase"
)

// SessionHandler отдаёт данные для шапки сайта.
type SessionHandler struct {
	profileUseCase usecase.ProfileUseCase
	logger         *slog.Logger
}

// NewSessionHandler создаёт новый экземпляр SessionHandler.
func NewSessionHandler(uc usecase.ProfileUseCase, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		profileUseCase: uc,
		logger:         logger,
	}
}

type layoutProfile struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

// layoutSession — сессия без токенов: они живут только в HttpOnly cookie
type layoutSession struct {
	TokenType string       `json:"token_type"`
	ExpiresAt int64        `json:"expires_at"`
	User      *domain.User `json:"user,omitempty"`
}

type layoutData struct {
	Session *layoutSession `json:"session"`
	User    *domain.User   `json:"user"`
	Profile *layoutProfile `json:"profile"`
}

// Session — GET /api/session
func (h *SessionHandler) Session(w http.ResponseWriter, r *http.Request) {
	verified := session.FromContext(r.Context()).GetVerifiedSession(r.Context())

	data := layoutData{User: verified.User}
	if !verified.Anonymous() {
		data.Session = &layoutSession{
			TokenType: verified.Session.TokenType,
			ExpiresAt: verified.Session.ExpiresAt,
			User:      verified.Session.User,
		}

		profile, err := h.profileUseCase.GetViewerProfile(r.Context(), verified.User.ID)
		if err != nil {
			// шапка рисуется и без профиля
			h.logger.Warn("failed to load layout profile", "user_id", verified.User.ID, "error", err)
		}
		if profile != nil {
			data.Profile = &layoutProfile{
				Username:  profile.Username,
				Bio:       profile.Bio,
				AvatarURL: profile.AvatarURL,
			}
		}
	}

	respondWithJSON(w, http.StatusOK, data, h.logger)
}
