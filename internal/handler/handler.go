// Package handler содержит HTTP-обработчики страниц и действий FilmFeed.
// Страницы отдают view-модели в JSON, действия отвечают 200 с полем error
// (или avatarError) при ошибке ввода или авторизации.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/FilmFeed/internal/domain"
	"github.com/GoArmGo/FilmFeed/internal/session"
)

const (
	msgMustBeLoggedIn    = "must be logged in"
	msgSomethingWrong    = "Something went wrong"
	msgCannotEditPhoto   = "you can only edit your own photos"
	msgCannotDeletePhoto = "you can only delete your own photos"
	msgNotAllowed        = "you are not allowed to do that"
)

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithMessage — отправляет JSON-ответ вида {"message": ...}.
func respondWithMessage(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"message": message}, logger)
}

// respondWithError — результат действия с ошибкой: статус 200, поле error.
func respondWithError(w http.ResponseWriter, message string, logger *slog.Logger) {
	respondWithJSON(w, http.StatusOK, map[string]string{"error": message}, logger)
}

// respondPageError отвечает на ошибку загрузки страницы:
// 404 для отсутствующей сущности, иначе 500 без подробностей.
func respondPageError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	switch {
	case errors.Is(err, domain.ErrPhotoNotFound),
		errors.Is(err, domain.ErrProfileNotFound):
		respondWithMessage(w, http.StatusNotFound, domain.RootCause(err).Error(), logger)
	default:
		logger.Error("failed to load page", "path", r.URL.Path, "error", err)
		respondWithMessage(w, http.StatusInternalServerError, msgSomethingWrong, logger)
	}
}

// actionMessage превращает ошибку действия в текст для пользователя.
// Ошибки бэкенда отдаются как есть, сообщением самой внутренней ошибки.
func actionMessage(err error, forbidden string) string {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, domain.ErrForbidden):
		return forbidden
	default:
		return domain.RootCause(err).Error()
	}
}

// viewer возвращает подтверждённого пользователя запроса или nil
func viewer(r *http.Request) *domain.User {
	v := session.FromContext(r.Context()).GetVerifiedSession(r.Context())
	if v.Anonymous() {
		return nil
	}
	return v.User
}
