package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/FilmFeed/internal/domain"
	"github.com/GoArmGo/FilmFeed/internal/usecase"
)

const (
	// предел тела запроса с аватаром, сам файл проверяется в usecase
	maxAvatarRequest = 10 << 20
	maxFormMemory    = 4 << 20
)

// SettingsHandler — настройки профиля и аватар.
type SettingsHandler struct {
	profileUseCase usecase.ProfileUseCase
	loginPath      string
	logger         *slog.Logger
}

// NewSettingsHandler создаёт новый экземпляр SettingsHandler.
func NewSettingsHandler(uc usecase.ProfileUseCase, loginPath string, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{
		profileUseCase: uc,
		loginPath:      loginPath,
		logger:         logger,
	}
}

type settingsView struct {
	Username      string `json:"username"`
	Bio           string `json:"bio"`
	AvatarURL     string `json:"avatar_url"`
	LinkYoutube   string `json:"link_youtube"`
	LinkInstagram string `json:"link_instagram"`
	LinkTiktok    string `json:"link_tiktok"`
}

// Settings — GET /settings
func (h *SettingsHandler) Settings(w http.ResponseWriter, r *http.Request) {
	user := viewer(r)
	if user == nil {
		http.Redirect(w, r, h.loginPath, http.StatusSeeOther)
		return
	}

	profile, err := h.profileUseCase.LoadSettings(r.Context(), user.ID)
	if err != nil {
		respondPageError(w, r, err, h.logger)
		return
	}

	// профиль ещё не создан: форма рисуется пустой
	var view *settingsView
	if profile != nil {
		view = &settingsView{
			Username:      profile.Username,
			Bio:           profile.Bio,
			AvatarURL:     profile.AvatarURL,
			LinkYoutube:   profile.LinkYoutube,
			LinkInstagram: profile.LinkInstagram,
			LinkTiktok:    profile.LinkTiktok,
		}
	}
	respondWithJSON(w, http.StatusOK, map[string]*settingsView{"profile": view}, h.logger)
}

// UpdateProfile — POST /settings/profile
func (h *SettingsHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := viewer(r)
	if user == nil {
		http.Redirect(w, r, h.loginPath, http.StatusSeeOther)
		return
	}

	update := domain.ProfileUpdate{
		Username:      r.PostFormValue("username"),
		Bio:           r.PostFormValue("bio"),
		LinkYoutube:   r.PostFormValue("link_youtube"),
		LinkInstagram: r.PostFormValue("link_instagram"),
		LinkTiktok:    r.PostFormValue("link_tiktok"),
	}
	if err := h.profileUseCase.UpdateProfile(r.Context(), user.ID, update); err != nil {
		h.logger.Warn("profile update rejected", "user_id", user.ID, "error", err)
		respondWithError(w, actionMessage(err, msgNotAllowed), h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true}, h.logger)
}

// UploadAvatar — POST /settings/avatar
func (h *SettingsHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user := viewer(r)
	if user == nil {
		http.Redirect(w, r, h.loginPath, http.StatusSeeOther)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarRequest)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondAvatarError(w, "image must be under 2 MB")
			return
		}
		h.respondAvatarError(w, "please select an image")
		return
	}

	var upload usecase.AvatarUpload
	file, header, err := r.FormFile("avatar")
	if err == nil {
		defer file.Close()
		upload = usecase.AvatarUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Content:     file,
		}
	}

	avatarURL, err := h.profileUseCase.UploadAvatar(r.Context(), user.ID, upload)
	if err != nil {
		h.logger.Warn("avatar upload rejected", "user_id", user.ID, "error", err)
		h.respondAvatarError(w, actionMessage(err, msgNotAllowed))
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"avatarSuccess": true,
		"avatarUrl":     avatarURL,
	}, h.logger)
}

func (h *SettingsHandler) respondAvatarError(w http.ResponseWriter, message string) {
	respondWithJSON(w, http.StatusOK, map[string]string{"avatarError": message}, h.logger)
}
