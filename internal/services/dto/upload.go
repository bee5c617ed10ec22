package dto

import "mediahub_backend/internal/models"

// ============================================
// REQUEST STRUCTURES
// ============================================

// UploadForm - текстовые поля POST /upload. Биндится из multipart-формы
// или из JSON-тела; отсутствующие поля остаются пустыми строками.
type UploadForm struct {
	ArtistName      string `form:"artist_name" json:"artist_name"`
	ArtistLyrics    string `form:"artist_lyrics" json:"artist_lyrics"`
	BlogDescription string `form:"blog_description" json:"blog_description"`
	BlogTitle       string `form:"blog_title" json:"blog_title"`

	// Files maps a file field name to the path of its staged copy on local disk.
	Files map[string]string `form:"-" json:"-"`
}

// StagedPaths returns every staged file path in upload order.
func (f *UploadForm) StagedPaths() []string {
	paths := make([]string, 0, len(f.Files))
	for _, field := range models.FileFields {
		if p, ok := f.Files[field]; ok {
			paths = append(paths, p)
		}
	}
	return paths
}

// ============================================
// RESPONSE STRUCTURES
// ============================================

const UploadSuccessMessage = "Upload successful"

// UploadResponse - ответ POST /upload
type UploadResponse struct {
	Message string               `json:"message"`
	Data    *models.UploadRecord `json:"data"`
}
