package services

import (
	"context"

	"mediahub_backend/internal/logger"
	"mediahub_backend/internal/models"
	"mediahub_backend/internal/repositories"
	"mediahub_backend/internal/services/dto"
	"mediahub_backend/internal/storage"
	"mediahub_backend/pkg/apperrors"
)

// ============================================
// UPLOAD SERVICE
// ============================================

type UploadService interface {
	// CreateRecord uploads every staged file of the form in field order and
	// stores one record with the resulting URLs. Nothing is stored if any
	// upload fails.
	CreateRecord(ctx context.Context, form *dto.UploadForm) (*models.UploadRecord, error)

	// ListRecords returns all stored records, never nil.
	ListRecords(ctx context.Context) ([]*models.UploadRecord, error)
}

type UploadConfig struct {
	// Folder is the storage namespace shared by every upload.
	Folder string

	// CompensateOrphans deletes files already uploaded by a request that
	// then fails. Best effort: delete failures are only logged.
	CompensateOrphans bool
}

type uploadService struct {
	uploader *MediaUploader
	records  repositories.RecordRepository
	config   UploadConfig
}

func NewUploadService(uploader *MediaUploader, records repositories.RecordRepository, config UploadConfig) UploadService {
	return &uploadService{
		uploader: uploader,
		records:  records,
		config:   config,
	}
}

func (s *uploadService) CreateRecord(ctx context.Context, form *dto.UploadForm) (*models.UploadRecord, error) {
	record := &models.UploadRecord{
		ArtistName:      form.ArtistName,
		ArtistLyrics:    form.ArtistLyrics,
		BlogDescription: form.BlogDescription,
		BlogTitle:       form.BlogTitle,
	}

	var uploaded []*storage.Object
	for i, field := range models.FileFields {
		localPath, ok := form.Files[field]
		if !ok {
			continue
		}

		obj, err := s.uploader.Upload(ctx, localPath, s.config.Folder)
		if err != nil {
			logger.CtxWarn(ctx, "upload aborted", "field", field, "uploaded", len(uploaded))
			discardRemaining(ctx, form, models.FileFields[i+1:])
			s.compensate(ctx, uploaded)
			return nil, err
		}

		uploaded = append(uploaded, obj)
		record.SetURL(field, obj.URL)
	}

	if err := s.records.Create(ctx, record); err != nil {
		s.compensate(ctx, uploaded)
		return nil, apperrors.PersistenceFailure(err)
	}

	logger.CtxInfo(ctx, "record created", "id", record.ID, "files", len(uploaded))
	return record, nil
}

func (s *uploadService) ListRecords(ctx context.Context) ([]*models.UploadRecord, error) {
	records, err := s.records.FindAll(ctx)
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}
	if records == nil {
		records = []*models.UploadRecord{}
	}
	return records, nil
}

func (s *uploadService) compensate(ctx context.Context, objects []*storage.Object) {
	if !s.config.CompensateOrphans {
		return
	}
	for _, obj := range objects {
		if err := s.uploader.Delete(ctx, obj.Key); err != nil {
			logger.CtxWithError(ctx, "failed to delete orphaned upload", err, "key", obj.Key)
		}
	}
}

// discardRemaining removes staged files of fields that will not be uploaded.
func discardRemaining(ctx context.Context, form *dto.UploadForm, fields []string) {
	for _, field := range fields {
		if p, ok := form.Files[field]; ok {
			removeStaged(ctx, p)
		}
	}
}
