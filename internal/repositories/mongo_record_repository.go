package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.mongodb.org/mongo-driver/v2/x/mongo/driver/connstring"

	"mediahub_backend/internal/logger"
	"mediahub_backend/internal/models"
)

// defaultMongoDatabase matches what Mongo clients use when the URI names no database.
const defaultMongoDatabase = "test"

type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// recordDocument is the stored shape of models.UploadRecord.
type recordDocument struct {
	ID              bson.ObjectID `bson:"_id,omitempty"`
	ArtistName      string        `bson:"artist_name"`
	ImageURL        string        `bson:"imageUrl"`
	ArtistLyrics    string        `bson:"artist_lyrics"`
	ArtistSongThumb string        `bson:"artist_song_thumb"`
	EventImages     string        `bson:"event_images"`
	BlogImage       string        `bson:"blog_image"`
	BlogDescription string        `bson:"blog_description"`
	BlogTitle       string        `bson:"blog_title"`
	Carousel        string        `bson:"carousel"`
}

type MongoRecordRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoRecordRepository creates the client. The driver connects lazily, so
// an unreachable server surfaces on Ping, not here.
func NewMongoRecordRepository(cfg MongoConfig) (*MongoRecordRepository, error) {
	if cfg.URI == "" {
		return nil, ErrStoreNotConfigured
	}

	database := cfg.Database
	if database == "" {
		cs, err := connstring.ParseAndValidate(cfg.URI)
		if err != nil {
			return nil, err
		}
		database = cs.Database
	}
	if database == "" {
		database = defaultMongoDatabase
	}

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &MongoRecordRepository{
		client:     client,
		collection: client.Database(database).Collection(cfg.Collection),
	}, nil
}

// Ping checks that the server answers.
func (r *MongoRecordRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *MongoRecordRepository) Create(ctx context.Context, record *models.UploadRecord) error {
	start := time.Now()

	doc := toDocument(record)
	doc.ID = bson.NewObjectID()

	_, err := r.collection.InsertOne(ctx, doc)
	logger.DBLog("insert", r.collection.Name(), time.Since(start), err)
	if err != nil {
		return err
	}

	record.ID = doc.ID.Hex()
	return nil
}

func (r *MongoRecordRepository) FindAll(ctx context.Context) ([]*models.UploadRecord, error) {
	start := time.Now()

	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		logger.DBLog("find", r.collection.Name(), time.Since(start), err)
		return nil, err
	}

	var docs []recordDocument
	err = cursor.All(ctx, &docs)
	logger.DBLog("find", r.collection.Name(), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	records := make([]*models.UploadRecord, 0, len(docs))
	for i := range docs {
		records = append(records, fromDocument(&docs[i]))
	}
	return records, nil
}

func (r *MongoRecordRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func toDocument(r *models.UploadRecord) *recordDocument {
	return &recordDocument{
		ArtistName:      r.ArtistName,
		ImageURL:        r.ImageURL,
		ArtistLyrics:    r.ArtistLyrics,
		ArtistSongThumb: r.ArtistSongThumb,
		EventImages:     r.EventImages,
		BlogImage:       r.BlogImage,
		BlogDescription: r.BlogDescription,
		BlogTitle:       r.BlogTitle,
		Carousel:        r.Carousel,
	}
}

func fromDocument(d *recordDocument) *models.UploadRecord {
	return &models.UploadRecord{
		ID:              d.ID.Hex(),
		ArtistName:      d.ArtistName,
		ImageURL:        d.ImageURL,
		ArtistLyrics:    d.ArtistLyrics,
		ArtistSongThumb: d.ArtistSongThumb,
		EventImages:     d.EventImages,
		BlogImage:       d.BlogImage,
		BlogDescription: d.BlogDescription,
		BlogTitle:       d.BlogTitle,
		Carousel:        d.Carousel,
	}
}
