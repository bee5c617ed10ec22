package storage

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage defines the interface for remote media storage
type Storage interface {
	// Put uploads the local file under folder and returns the stored object
	Put(ctx context.Context, localPath, folder string) (*Object, error)

	// Delete removes an object previously returned by Put
	Delete(ctx context.Context, key string) error

	// Name identifies the backend in logs and metrics
	Name() string
}

// Object is a file that landed in remote storage.
type Object struct {
	Key string // backend-specific identifier (object key, Cloudinary public id)
	URL string // durable public URL
}

// Config holds storage configuration
type Config struct {
	Type          string // cloudinary, s3, cloudflare_r2, minio, local
	CloudinaryURL string // For Cloudinary
	CloudName     string // For Cloudinary
	APIKey        string // For Cloudinary
	APISecret     string // For Cloudinary
	BasePath      string // For local storage
	BaseURL       string // Public URL base
	Bucket        string // For S3/R2/MinIO
	Region        string // For S3
	AccessKey     string // For S3/R2/MinIO
	SecretKey     string // For S3/R2/MinIO
	Endpoint      string // For R2, MinIO or custom S3
	UseSSL        bool   // For MinIO
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Type {
	case "cloudinary":
		return NewCloudinaryStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	case "minio":
		return NewMinioStorage(ctx, cfg)
	case "local":
		return NewLocalStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// objectKey builds a collision-free key inside folder, keeping the file extension.
func objectKey(folder, localPath string) string {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(localPath))
	if folder == "" {
		return name
	}
	return path.Join(folder, name)
}

// detectContentType guesses the MIME type from the extension, then from content.
func detectContentType(localPath string) string {
	if ct := mime.TypeByExtension(filepath.Ext(localPath)); ct != "" {
		return ct
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "application/octet-stream"
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	return http.DetectContentType(buf[:n])
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
