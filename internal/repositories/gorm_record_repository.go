package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"mediahub_backend/internal/logger"
	"mediahub_backend/internal/models"
)

// uploadRecordRow is the relational shape of models.UploadRecord.
type uploadRecordRow struct {
	models.BaseModel
	ArtistName      string
	ImageURL        string `gorm:"column:image_url"`
	ArtistLyrics    string
	ArtistSongThumb string
	EventImages     string
	BlogImage       string
	BlogDescription string
	BlogTitle       string
	Carousel        string
}

func (uploadRecordRow) TableName() string { return "upload_records" }

// GormRecordRepository stores records in a SQL table through GORM.
type GormRecordRepository struct {
	db *gorm.DB
}

func NewGormRecordRepository(db *gorm.DB) *GormRecordRepository {
	return &GormRecordRepository{db: db}
}

// AutoMigrate creates the records table if it does not exist.
func (r *GormRecordRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&uploadRecordRow{})
}

func (r *GormRecordRepository) Create(ctx context.Context, record *models.UploadRecord) error {
	start := time.Now()

	row := toRow(record)
	err := r.db.WithContext(ctx).Create(row).Error
	logger.DBLog("insert", "upload_records", time.Since(start), err)
	if err != nil {
		return err
	}

	record.ID = row.ID
	createdAt := row.CreatedAt
	record.CreatedAt = &createdAt
	return nil
}

func (r *GormRecordRepository) FindAll(ctx context.Context) ([]*models.UploadRecord, error) {
	start := time.Now()

	var rows []uploadRecordRow
	err := r.db.WithContext(ctx).Find(&rows).Error
	logger.DBLog("find", "upload_records", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	records := make([]*models.UploadRecord, 0, len(rows))
	for i := range rows {
		records = append(records, fromRow(&rows[i]))
	}
	return records, nil
}

func (r *GormRecordRepository) Close(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRow(r *models.UploadRecord) *uploadRecordRow {
	return &uploadRecordRow{
		ArtistName:      r.ArtistName,
		ImageURL:        r.ImageURL,
		ArtistLyrics:    r.ArtistLyrics,
		ArtistSongThumb: r.ArtistSongThumb,
		EventImages:     r.EventImages,
		BlogImage:       r.BlogImage,
		BlogDescription: r.BlogDescription,
		BlogTitle:       r.BlogTitle,
		Carousel:        r.Carousel,
	}
}

func fromRow(row *uploadRecordRow) *models.UploadRecord {
	createdAt := row.CreatedAt
	return &models.UploadRecord{
		ID:              row.ID,
		ArtistName:      row.ArtistName,
		ImageURL:        row.ImageURL,
		ArtistLyrics:    row.ArtistLyrics,
		ArtistSongThumb: row.ArtistSongThumb,
		EventImages:     row.EventImages,
		BlogImage:       row.BlogImage,
		BlogDescription: row.BlogDescription,
		BlogTitle:       row.BlogTitle,
		Carousel:        row.Carousel,
		CreatedAt:       &createdAt,
	}
}
