package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"mediahub_backend/internal/models"
	"mediahub_backend/internal/repositories"
	"mediahub_backend/internal/services"
	"mediahub_backend/internal/services/dto"
	"mediahub_backend/internal/storage"
	"mediahub_backend/internal/validator"
)

// contentStorage returns a URL that embeds the uploaded file content, so
// tests can check which file ended up in which field.
type contentStorage struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *contentStorage) Put(ctx context.Context, localPath, folder string) (*storage.Object, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return nil, err
	}
	key := folder + "/" + string(data)
	return &storage.Object{Key: key, URL: "https://media.test/" + key}, nil
}

func (s *contentStorage) Delete(ctx context.Context, key string) error { return nil }
func (s *contentStorage) Name() string                                 { return "content" }

type testEnv struct {
	router  *gin.Engine
	repo    repositories.RecordRepository
	storage *contentStorage
	staging string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repo := repositories.NewGormRecordRepository(db)
	require.NoError(t, repo.AutoMigrate())
	t.Cleanup(func() { _ = repo.Close(context.Background()) })

	return newTestEnvWithRepo(t, repo)
}

func newTestEnvWithRepo(t *testing.T, repo repositories.RecordRepository) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &contentStorage{}
	staging := filepath.Join(t.TempDir(), "uploads")

	svc := services.NewUploadService(
		services.NewMediaUploader(store, nil),
		repo,
		services.UploadConfig{Folder: "uploads"},
	)
	base := NewBaseHandler(validator.New())

	router := gin.New()
	NewUploadHandler(base, svc, staging, 32<<20).RegisterRoutes(&router.RouterGroup)
	NewRecordHandler(base, svc).RegisterRoutes(&router.RouterGroup)

	return &testEnv{router: router, repo: repo, storage: store, staging: staging}
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, content := range files {
		part, err := w.CreateFormFile(field, field+".png")
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) upload(t *testing.T, fields, files map[string]string) *httptest.ResponseRecorder {
	body, contentType := multipartBody(t, fields, files)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	return e.do(req)
}

func decodeUpload(t *testing.T, rec *httptest.ResponseRecorder) dto.UploadResponse {
	t.Helper()
	var resp dto.UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data)
	return resp
}

func (e *testEnv) list(t *testing.T) []models.UploadRecord {
	t.Helper()
	rec := e.do(httptest.NewRequest(http.MethodGet, "/get-api", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var records []models.UploadRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	return records
}

func TestUpload_Success(t *testing.T) {
	env := newTestEnv(t)

	rec := env.upload(t,
		map[string]string{"artist_name": "Nina", "blog_title": "Tour"},
		map[string]string{"image": "img", "carousel": "car"},
	)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeUpload(t, rec)
	assert.Equal(t, "Upload successful", resp.Message)
	assert.NotEmpty(t, resp.Data.ID)
	assert.Equal(t, "Nina", resp.Data.ArtistName)
	assert.Equal(t, "Tour", resp.Data.BlogTitle)
	assert.Equal(t, "", resp.Data.ArtistLyrics)
	assert.Equal(t, "https://media.test/uploads/img", resp.Data.ImageURL)
	assert.Equal(t, "https://media.test/uploads/car", resp.Data.Carousel)
	assert.Equal(t, "", resp.Data.ArtistSongThumb)
	assert.Equal(t, "", resp.Data.EventImages)
	assert.Equal(t, "", resp.Data.BlogImage)

	entries, err := os.ReadDir(env.staging)
	require.NoError(t, err)
	assert.Empty(t, entries, "staging directory must be empty after the request")
}

func TestUpload_ResponseUsesRecordFieldNames(t *testing.T) {
	env := newTestEnv(t)

	rec := env.upload(t, nil, map[string]string{"image": "img"})
	require.Equal(t, http.StatusOK, rec.Code)

	var raw struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	for _, key := range []string{"_id", "artist_name", "imageUrl", "artist_lyrics", "artist_song_thumb",
		"event_images", "blog_image", "blog_description", "blog_title", "carousel"} {
		assert.Contains(t, raw.Data, key)
	}
}

func TestUpload_EmptyForm(t *testing.T) {
	env := newTestEnv(t)

	rec := env.upload(t, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeUpload(t, rec)
	for _, field := range models.FileFields {
		assert.Empty(t, resp.Data.URL(field))
	}
	assert.Empty(t, resp.Data.ArtistName)
	assert.Empty(t, resp.Data.BlogDescription)
	assert.Equal(t, 0, env.storage.calls)
}

func TestUpload_NoBody(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodPost, "/upload", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, env.list(t), 1)
}

func TestUpload_MalformedMultipart(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewBufferString("garbage"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	rec := env.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
	assert.Empty(t, env.list(t))
}

func TestUpload_StagingFailure(t *testing.T) {
	env := newTestEnv(t)
	// обычный файл на месте каталога: MkdirAll не сможет создать staging
	require.NoError(t, os.WriteFile(env.staging, []byte("x"), 0o600))

	rec := env.upload(t, nil, map[string]string{"image": "img"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
	assert.Equal(t, 0, env.storage.calls)
	assert.Empty(t, env.list(t))
}

func TestUpload_StorageFailure(t *testing.T) {
	env := newTestEnv(t)
	env.storage.err = errors.New("Invalid api_key 1234")

	rec := env.upload(t,
		map[string]string{"artist_name": "Nina"},
		map[string]string{"image": "img", "blog_image": "blog"},
	)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"error": "Invalid api_key 1234"}, body)

	assert.Empty(t, env.list(t), "no record is stored when an upload fails")
	assert.Equal(t, 1, env.storage.calls)

	entries, err := os.ReadDir(env.staging)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpload_StoreUnavailable(t *testing.T) {
	env := newTestEnvWithRepo(t, repositories.NewUnavailableRecordRepository(nil))

	rec := env.upload(t, nil, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, repositories.ErrStoreNotConfigured.Error()), rec.Body.String())

	rec = env.do(httptest.NewRequest(http.MethodGet, "/get-api", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUpload_AllFieldSubsets(t *testing.T) {
	env := newTestEnv(t)
	n := len(models.FileFields)

	for mask := 0; mask < 1<<n; mask++ {
		files := map[string]string{}
		for i, field := range models.FileFields {
			if mask&(1<<i) != 0 {
				files[field] = fmt.Sprintf("%s-%d", field, mask)
			}
		}

		rec := env.upload(t, nil, files)
		require.Equal(t, http.StatusOK, rec.Code, "mask %05b", mask)
		resp := decodeUpload(t, rec)

		for i, field := range models.FileFields {
			if mask&(1<<i) != 0 {
				assert.Equal(t, fmt.Sprintf("https://media.test/uploads/%s-%d", field, mask), resp.Data.URL(field))
			} else {
				assert.Equal(t, "", resp.Data.URL(field), "mask %05b field %s", mask, field)
			}
		}
	}

	assert.Len(t, env.list(t), 1<<n)
}

func TestList_Empty(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/get-api", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestList_ContainsUploadedRecords(t *testing.T) {
	env := newTestEnv(t)

	ids := map[string]bool{}
	for i := 0; i < 3; i++ {
		rec := env.upload(t, map[string]string{"artist_name": fmt.Sprint(i)}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		ids[decodeUpload(t, rec).Data.ID] = true
	}

	records := env.list(t)
	require.Len(t, records, 3)
	for _, r := range records {
		assert.True(t, ids[r.ID])
	}
}

func TestUpload_ConcurrentRequestsAreIsolated(t *testing.T) {
	env := newTestEnv(t)
	const n = 10

	var wg sync.WaitGroup
	results := make([]*httptest.ResponseRecorder, n)
	for i := 0; i < n; i++ {
		body, contentType := multipartBody(t,
			map[string]string{"artist_name": fmt.Sprintf("artist-%d", i)},
			map[string]string{"image": fmt.Sprintf("image-%d", i), "carousel": fmt.Sprintf("carousel-%d", i)},
		)
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)

		wg.Add(1)
		go func(i int, req *http.Request) {
			defer wg.Done()
			results[i] = env.do(req)
		}(i, req)
	}
	wg.Wait()

	for i, rec := range results {
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decodeUpload(t, rec)
		assert.Equal(t, fmt.Sprintf("artist-%d", i), resp.Data.ArtistName)
		assert.Equal(t, fmt.Sprintf("https://media.test/uploads/image-%d", i), resp.Data.ImageURL)
		assert.Equal(t, fmt.Sprintf("https://media.test/uploads/carousel-%d", i), resp.Data.Carousel)
	}

	records := env.list(t)
	require.Len(t, records, n)
	byArtist := map[string]models.UploadRecord{}
	for _, r := range records {
		byArtist[r.ArtistName] = r
	}
	for i := 0; i < n; i++ {
		r, ok := byArtist[fmt.Sprintf("artist-%d", i)]
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("https://media.test/uploads/image-%d", i), r.ImageURL)
	}
}
