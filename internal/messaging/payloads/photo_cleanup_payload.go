package payloads

import "github.com/google/uuid"

// PhotoCleanupPayload — задача на удаление файла фотографии из объектного хранилища
// после удаления строки photos.
type PhotoCleanupPayload struct {
	PhotoID  uuid.UUID `json:"photo_id"`
	ImageURL string    `json:"image_url"`
}
