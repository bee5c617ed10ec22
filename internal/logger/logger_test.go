package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	buf.Reset()
	return entry
}

func TestCtxLoggerAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)

	ctx := WithRequestID(context.Background(), "req-1")
	CtxInfo(ctx, "hello", "k", "v")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "v", entry["k"])
}

func TestFromContextNil(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)

	FromContext(nil).Info("no ctx")
	entry := decodeLine(t, &buf)
	assert.NotContains(t, entry, "request_id")
}

func TestStorageLogLevels(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)

	// success is logged at debug, below the production level
	StorageLog("cloudinary", "put", "uploads/a", time.Millisecond, nil)
	assert.Zero(t, buf.Len())

	StorageLog("cloudinary", "put", "uploads/a", time.Millisecond, errors.New("quota exceeded"))
	entry := decodeLine(t, &buf)
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "quota exceeded", entry["error"])
	assert.Equal(t, "cloudinary", entry["backend"])
}

func TestDBLog(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)

	DBLog("insert", "images", time.Millisecond, errors.New("timeout"))
	entry := decodeLine(t, &buf)
	assert.Equal(t, "images", entry["collection"])
	assert.Equal(t, "database operation failed", entry["msg"])
}

func TestGetLoggerConcurrentLazyInit(t *testing.T) {
	log.Store(nil)
	initOnce = sync.Once{}
	t.Cleanup(func() { InitWithWriter("production", &bytes.Buffer{}) })

	const workers = 16
	got := make([]*slog.Logger, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = GetLogger()
		}(i)
	}
	wg.Wait()

	require.NotNil(t, got[0])
	for _, l := range got {
		assert.Same(t, got[0], l)
	}
}
