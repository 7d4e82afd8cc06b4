package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/GoArmGo/FilmFeed/internal/domain"
	"github.com/GoArmGo/FilmFeed/internal/usecase"
)

// PhotoHandler — страница фото и действия над ним.
type PhotoHandler struct {
	photoUseCase usecase.PhotoUseCase
	logger       *slog.Logger
}

// NewPhotoHandler создаёт новый экземпляр PhotoHandler.
func NewPhotoHandler(uc usecase.PhotoUseCase, logger *slog.Logger) *PhotoHandler {
	return &PhotoHandler{
		photoUseCase: uc,
		logger:       logger,
	}
}

// Photo — GET /photo/{id}
func (h *PhotoHandler) Photo(w http.ResponseWriter, r *http.Request) {
	photoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithMessage(w, http.StatusNotFound, domain.ErrPhotoNotFound.Error(), h.logger)
		return
	}

	viewerID := uuid.Nil
	if user := viewer(r); user != nil {
		viewerID = user.ID
	}

	page, err := h.photoUseCase.LoadPhoto(r.Context(), photoID, viewerID)
	if err != nil {
		respondPageError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, page, h.logger)
}

// authorize достаёт id фото и пользователя для действия.
// При неудаче ответ уже отправлен и возвращается false.
func (h *PhotoHandler) authorize(w http.ResponseWriter, r *http.Request) (photoID uuid.UUID, user *domain.User, ok bool) {
	user = viewer(r)
	if user == nil {
		respondWithError(w, msgMustBeLoggedIn, h.logger)
		return uuid.Nil, nil, false
	}

	photoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, domain.ErrPhotoNotFound.Error(), h.logger)
		return uuid.Nil, nil, false
	}
	return photoID, user, true
}

// Comment — POST /photo/{id}/comment
func (h *PhotoHandler) Comment(w http.ResponseWriter, r *http.Request) {
	photoID, user, ok := h.authorize(w, r)
	if !ok {
		return
	}

	if err := h.photoUseCase.AddComment(r.Context(), photoID, user.ID, r.PostFormValue("body")); err != nil {
		h.logger.Warn("comment rejected", "photo_id", photoID, "error", err)
		respondWithError(w, actionMessage(err, msgNotAllowed), h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true}, h.logger)
}

// Favorite — POST /photo/{id}/favorite
func (h *PhotoHandler) Favorite(w http.ResponseWriter, r *http.Request) {
	photoID, user, ok := h.authorize(w, r)
	if !ok {
		return
	}

	favorited, err := h.photoUseCase.ToggleFavorite(r.Context(), photoID, user.ID)
	if err != nil {
		h.logger.Error("failed to toggle favorite", "photo_id", photoID, "error", err)
		respondWithError(w, actionMessage(err, msgNotAllowed), h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true, "favorited": favorited}, h.logger)
}

// Edit — POST /photo/{id}/edit
func (h *PhotoHandler) Edit(w http.ResponseWriter, r *http.Request) {
	photoID, user, ok := h.authorize(w, r)
	if !ok {
		return
	}

	input := usecase.EditInput{
		Caption:   r.PostFormValue("caption"),
		Camera:    r.PostFormValue("camera"),
		FilmStock: r.PostFormValue("film_stock"),
		Lens:      r.PostFormValue("lens"),
		Tags:      r.PostFormValue("tags"),
	}
	if err := h.photoUseCase.EditPhoto(r.Context(), photoID, user.ID, input); err != nil {
		h.logger.Warn("photo edit rejected", "photo_id", photoID, "user_id", user.ID, "error", err)
		respondWithError(w, actionMessage(err, msgCannotEditPhoto), h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"edited": true}, h.logger)
}

// Delete — POST /photo/{id}/delete
func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	photoID, user, ok := h.authorize(w, r)
	if !ok {
		return
	}

	if err := h.photoUseCase.DeletePhoto(r.Context(), photoID, user.ID); err != nil {
		h.logger.Warn("photo delete rejected", "photo_id", photoID, "user_id", user.ID, "error", err)
		respondWithError(w, actionMessage(err, msgCannotDeletePhoto), h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true}, h.logger)
}
