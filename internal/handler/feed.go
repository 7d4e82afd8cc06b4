package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/GoArmGo/FilmFeed/internal/domain"
	"github.com/GoArmGo/FilmFeed/internal/usecase"
)

// FeedHandler — лента, подгрузка страниц, теги и форма загрузки.
type FeedHandler struct {
	feedUseCase usecase.FeedUseCase
	loginPath   string
	logger      *slog.Logger
}

// NewFeedHandler создаёт новый экземпляр FeedHandler.
func NewFeedHandler(uc usecase.FeedUseCase, loginPath string, logger *slog.Logger) *FeedHandler {
	return &FeedHandler{
		feedUseCase: uc,
		loginPath:   loginPath,
		logger:      logger,
	}
}

func filterFromQuery(r *http.Request) domain.PhotoFilter {
	q := r.URL.Query()
	return domain.PhotoFilter{
		Camera:    q.Get("camera"),
		FilmStock: q.Get("film"),
		Lens:      q.Get("lens"),
		Format:    q.Get("format"),
	}
}

// Feed — GET /
func (h *FeedHandler) Feed(w http.ResponseWriter, r *http.Request) {
	page, err := h.feedUseCase.LoadFeed(r.Context(), filterFromQuery(r))
	if err != nil {
		respondPageError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, page, h.logger)
}

// MorePhotos — GET /api/photos, следующая страница бесконечной прокрутки.
// Некорректный offset считается нулём.
func (h *FeedHandler) MorePhotos(w http.ResponseWriter, r *http.Request) {
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	batch, err := h.feedUseCase.LoadMorePhotos(r.Context(), filterFromQuery(r), offset)
	if err != nil {
		respondPageError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, batch, h.logger)
}

// Tags — GET /tags
func (h *FeedHandler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.feedUseCase.ListTags(r.Context())
	if err != nil {
		respondPageError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string][]string{"tags": tags}, h.logger)
}

// TagPage — GET /tag/{name}
func (h *FeedHandler) TagPage(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(chi.URLParam(r, "name"))

	page, err := h.feedUseCase.LoadTagPage(r.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrTagNotFound) {
			respondWithMessage(w, http.StatusNotFound, fmt.Sprintf(`tag "%s" not found`, name), h.logger)
			return
		}
		respondPageError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, page, h.logger)
}

// UploadForm — GET /upload, данные для предзаполнения формы загрузки.
func (h *FeedHandler) UploadForm(w http.ResponseWriter, r *http.Request) {
	user := viewer(r)
	if user == nil {
		http.Redirect(w, r, h.loginPath, http.StatusSeeOther)
		return
	}

	form, err := h.feedUseCase.LoadUploadForm(r.Context(), user.ID)
	if err != nil {
		respondPageError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, form, h.logger)
}
