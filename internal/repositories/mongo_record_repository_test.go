package repositories

import (
	"context"
	"encoding/hex"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"mediahub_backend/internal/models"
)

// newTestMongoRepository connects to MONGO_URI and works on a throwaway
// collection that is dropped after the test.
func newTestMongoRepository(t *testing.T) *MongoRecordRepository {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI is not set")
	}

	repo, err := NewMongoRecordRepository(MongoConfig{
		URI:        uri,
		Collection: "images_test_" + uuid.NewString(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, repo.Ping(ctx))

	t.Cleanup(func() {
		ctx := context.Background()
		_ = repo.collection.Drop(ctx)
		_ = repo.Close(ctx)
	})
	return repo
}

func TestMongoRecordRepository_CreateAndFindAll(t *testing.T) {
	repo := newTestMongoRepository(t)
	ctx := context.Background()

	empty, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	record := &models.UploadRecord{
		ArtistName: "Nina",
		ImageURL:   "https://res.cloudinary.com/demo/image/upload/v1/uploads/cover.png",
	}
	require.NoError(t, repo.Create(ctx, record))

	assert.Len(t, record.ID, 24)
	_, err = hex.DecodeString(record.ID)
	assert.NoError(t, err)
	assert.Nil(t, record.CreatedAt)

	second := &models.UploadRecord{BlogTitle: "Tour"}
	require.NoError(t, repo.Create(ctx, second))

	records, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, record.ID, records[0].ID)
	assert.Equal(t, "Nina", records[0].ArtistName)
	assert.Equal(t, record.ImageURL, records[0].ImageURL)
	assert.Equal(t, "", records[0].Carousel)
	assert.Nil(t, records[0].CreatedAt)
	assert.Equal(t, second.ID, records[1].ID)
	assert.Equal(t, "Tour", records[1].BlogTitle)
}

func TestMongoRecordRepository_FindAllDecodeError(t *testing.T) {
	repo := newTestMongoRepository(t)
	ctx := context.Background()

	_, err := repo.collection.InsertOne(ctx, bson.D{{Key: "artist_name", Value: 42}})
	require.NoError(t, err)

	records, err := repo.FindAll(ctx)
	require.Error(t, err)
	assert.Nil(t, records)
	assert.NotContains(t, err.Error(), "failed to decode records")
}
