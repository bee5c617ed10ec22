package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mediahub_backend/internal/models"
	"mediahub_backend/internal/storage"
)

// fakeStorage records every call and fails the Put whose 1-based index equals failOn.
type fakeStorage struct {
	mu      sync.Mutex
	puts    []string
	deletes []string
	failOn  int
	err     error
}

func (f *fakeStorage) Put(ctx context.Context, localPath, folder string) (*storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.puts = append(f.puts, localPath)
	if f.failOn > 0 && len(f.puts) == f.failOn {
		return nil, f.err
	}
	key := fmt.Sprintf("%s/%d-%s", folder, len(f.puts), filepath.Base(localPath))
	return &storage.Object{Key: key, URL: "https://media.test/" + key}, nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, key)
	return nil
}

func (f *fakeStorage) Name() string { return "fake" }

type fakeRepository struct {
	mu      sync.Mutex
	records []*models.UploadRecord
	err     error
}

func (r *fakeRepository) Create(ctx context.Context, record *models.UploadRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	record.ID = fmt.Sprintf("id-%d", len(r.records)+1)
	r.records = append(r.records, record)
	return nil
}

func (r *fakeRepository) FindAll(ctx context.Context) ([]*models.UploadRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return append([]*models.UploadRecord(nil), r.records...), nil
}

func (r *fakeRepository) Close(ctx context.Context) error { return nil }

type countingObserver struct {
	mu       sync.Mutex
	total    int
	failures int
}

func (o *countingObserver) ObserveUpload(backend string, duration time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.total++
	if err != nil {
		o.failures++
	}
}

var errRemote = errors.New("Invalid Signature 1f2e. String to sign - 'folder=uploads'.")

// stageFile writes a small file into dir and returns its path.
func stageFile(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("payload-"+name), 0o644))
	return p
}
