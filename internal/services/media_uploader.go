package services

import (
	"context"
	"errors"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"mediahub_backend/internal/logger"
	"mediahub_backend/internal/storage"
	"mediahub_backend/pkg/apperrors"
)

var tracer = otel.Tracer("mediahub_backend/internal/services")

// UploadObserver records the outcome of a single remote upload.
type UploadObserver interface {
	ObserveUpload(backend string, duration time.Duration, err error)
}

// MediaUploader pushes staged files to remote storage.
// The staged file is removed after every attempt, successful or not.
type MediaUploader struct {
	storage  storage.Storage
	observer UploadObserver
}

func NewMediaUploader(s storage.Storage, observer UploadObserver) *MediaUploader {
	return &MediaUploader{storage: s, observer: observer}
}

// Upload sends the file at localPath to storage under folder.
func (u *MediaUploader) Upload(ctx context.Context, localPath, folder string) (*storage.Object, error) {
	backend := u.storage.Name()

	ctx, span := tracer.Start(ctx, "storage.put", trace.WithAttributes(
		attribute.String("storage.backend", backend),
		attribute.String("storage.folder", folder),
	))
	defer span.End()
	defer removeStaged(ctx, localPath)

	start := time.Now()
	obj, err := u.storage.Put(ctx, localPath, folder)
	duration := time.Since(start)

	key := ""
	if obj != nil {
		key = obj.Key
	}
	logger.StorageLog(backend, "put", key, duration, err)
	if u.observer != nil {
		u.observer.ObserveUpload(backend, duration, err)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperrors.RemoteUploadFailure(err)
	}
	return obj, nil
}

// Delete removes an object returned by Upload.
func (u *MediaUploader) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := u.storage.Delete(ctx, key)
	logger.StorageLog(u.storage.Name(), "delete", key, time.Since(start), err)
	return err
}

func removeStaged(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.CtxWarn(ctx, "failed to remove staged file", "path", path, "error", err.Error())
	}
}
