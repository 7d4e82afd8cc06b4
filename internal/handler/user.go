package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GoArmGo/FilmFeed/internal/usecase"
)

// UserHandler — страница пользователя и гостевая книга.
type UserHandler struct {
	profileUseCase usecase.ProfileUseCase
	logger         *slog.Logger
}

// NewUserHandler создаёт новый экземпляр UserHandler.
func NewUserHandler(uc usecase.ProfileUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		profileUseCase: uc,
		logger:         logger,
	}
}

// UserPage — GET /user/{username}
func (h *UserHandler) UserPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.profileUseCase.LoadUserPage(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respondPageError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, page, h.logger)
}

// Shout — POST /user/{username}/shout
func (h *UserHandler) Shout(w http.ResponseWriter, r *http.Request) {
	user := viewer(r)
	if user == nil {
		respondWithError(w, msgMustBeLoggedIn, h.logger)
		return
	}

	username := chi.URLParam(r, "username")
	if err := h.profileUseCase.PostShout(r.Context(), username, user.ID, r.PostFormValue("body")); err != nil {
		h.logger.Warn("shout rejected", "username", username, "user_id", user.ID, "error", err)
		respondWithError(w, actionMessage(err, msgNotAllowed), h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true}, h.logger)
}
