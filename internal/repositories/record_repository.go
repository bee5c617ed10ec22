package repositories

import (
	"context"
	"errors"

	"mediahub_backend/internal/models"
)

var ErrStoreNotConfigured = errors.New("database connection string is not configured")

// RecordRepository stores upload records.
type RecordRepository interface {
	// Create inserts a new record and fills in the store-assigned fields.
	Create(ctx context.Context, record *models.UploadRecord) error

	// FindAll returns every record in natural store order. Never nil.
	FindAll(ctx context.Context) ([]*models.UploadRecord, error)

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

// UnavailableRecordRepository stands in for a store that could not be reached
// at startup: every call fails with the connection error.
type UnavailableRecordRepository struct {
	err error
}

func NewUnavailableRecordRepository(err error) *UnavailableRecordRepository {
	if err == nil {
		err = ErrStoreNotConfigured
	}
	return &UnavailableRecordRepository{err: err}
}

func (r *UnavailableRecordRepository) Create(ctx context.Context, record *models.UploadRecord) error {
	return r.err
}

func (r *UnavailableRecordRepository) FindAll(ctx context.Context) ([]*models.UploadRecord, error) {
	return nil, r.err
}

func (r *UnavailableRecordRepository) Close(ctx context.Context) error { return nil }
