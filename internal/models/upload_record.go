package models

import "time"

// File form fields accepted by POST /upload, in upload order.
const (
	FieldImage           = "image"
	FieldArtistSongThumb = "artist_song_thumb"
	FieldEventImages     = "event_images"
	FieldBlogImage       = "blog_image"
	FieldCarousel        = "carousel"
)

// FileFields lists the file fields in the order they are uploaded.
var FileFields = []string{
	FieldImage,
	FieldArtistSongThumb,
	FieldEventImages,
	FieldBlogImage,
	FieldCarousel,
}

// UploadRecord is one stored upload: media URLs plus free-text metadata.
// URL fields are "" when the matching file field was not sent.
type UploadRecord struct {
	ID              string     `json:"_id"`
	ArtistName      string     `json:"artist_name"`
	ImageURL        string     `json:"imageUrl"`
	ArtistLyrics    string     `json:"artist_lyrics"`
	ArtistSongThumb string     `json:"artist_song_thumb"`
	EventImages     string     `json:"event_images"`
	BlogImage       string     `json:"blog_image"`
	BlogDescription string     `json:"blog_description"`
	BlogTitle       string     `json:"blog_title"`
	Carousel        string     `json:"carousel"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
}

// SetURL stores url under the record field that corresponds to a file field.
// It reports false for unknown fields.
func (r *UploadRecord) SetURL(field, url string) bool {
	switch field {
	case FieldImage:
		r.ImageURL = url
	case FieldArtistSongThumb:
		r.ArtistSongThumb = url
	case FieldEventImages:
		r.EventImages = url
	case FieldBlogImage:
		r.BlogImage = url
	case FieldCarousel:
		r.Carousel = url
	default:
		return false
	}
	return true
}

// URL returns the stored URL for a file field.
func (r *UploadRecord) URL(field string) string {
	switch field {
	case FieldImage:
		return r.ImageURL
	case FieldArtistSongThumb:
		return r.ArtistSongThumb
	case FieldEventImages:
		return r.EventImages
	case FieldBlogImage:
		return r.BlogImage
	case FieldCarousel:
		return r.Carousel
	}
	return ""
}
