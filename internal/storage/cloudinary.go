package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var ErrCloudinaryCredentials = errors.New("cloudinary credentials are required (CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY, CLOUDINARY_API_SECRET)")

// CloudinaryStorage implements Storage on top of the Cloudinary Upload API.
// Object keys are Cloudinary public ids.
type CloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStorage creates a Cloudinary client from a cloudinary:// URL
// or from the cloud name / api key / api secret triple.
func NewCloudinaryStorage(cfg Config) (*CloudinaryStorage, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)

	switch {
	case cfg.CloudinaryURL != "":
		cld, err = cloudinary.NewFromURL(cfg.CloudinaryURL)
	case cfg.CloudName != "" && cfg.APIKey != "" && cfg.APISecret != "":
		cld, err = cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	default:
		return nil, ErrCloudinaryCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}

	return &CloudinaryStorage{cld: cld}, nil
}

func (s *CloudinaryStorage) Name() string { return "cloudinary" }

// Put uploads a file to Cloudinary and returns its secure URL
func (s *CloudinaryStorage) Put(ctx context.Context, localPath, folder string) (*Object, error) {
	res, err := s.cld.Upload.Upload(ctx, localPath, uploader.UploadParams{Folder: folder})
	if err != nil {
		return nil, err
	}
	// API-level failures come back in the response body, not as err.
	if res.Error.Message != "" {
		return nil, errors.New(res.Error.Message)
	}

	return &Object{Key: res.PublicID, URL: res.SecureURL}, nil
}

// Delete destroys an asset by public id
func (s *CloudinaryStorage) Delete(ctx context.Context, key string) error {
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: key})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	return nil
}
