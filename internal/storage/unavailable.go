package storage

import "context"

// UnavailableStorage stands in for a backend that could not be configured
// at startup: every Put and Delete fails with the configuration error.
type UnavailableStorage struct {
	name string
	err  error
}

func NewUnavailableStorage(name string, err error) *UnavailableStorage {
	return &UnavailableStorage{name: name, err: err}
}

func (s *UnavailableStorage) Name() string { return s.name }

func (s *UnavailableStorage) Put(ctx context.Context, localPath, folder string) (*Object, error) {
	return nil, s.err
}

func (s *UnavailableStorage) Delete(ctx context.Context, key string) error {
	return s.err
}
