package store

import (
	"context"
	"fmt"
	"time"

	cfg "github.com/sweetpotato0/deepresearch/config"
	"github.com/sweetpotato0/deepresearch/memory"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements memory.Store using MongoDB
type MongoStore struct {
	client     *mongo.Client
	db         *mongo.Database
	collection *mongo.Collection
}

// MongoConfig holds MongoDB connection configuration
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// DefaultMongoConfig returns default MongoDB configuration
func DefaultMongoConfig() *MongoConfig {
	return &MongoConfig{
		URI:        "mongodb://localhost:27017",
		Database:   "deepresearch",
		Collection: "thread_entries",
	}
}

// mongoEntry is the internal representation for MongoDB
type mongoEntry struct {
	ID        string                 `bson:"_id"`
	ThreadID  string                 `bson:"thread_id"`
	Kind      string                 `bson:"kind"`
	Content   string                 `bson:"content"`
	Metadata  map[string]interface{} `bson:"metadata"`
	CreatedAt time.Time              `bson:"created_at"`
}

// NewMongoStore creates a new MongoDB-based store
func NewMongoStore(config *MongoConfig) (*MongoStore, error) {
	if config == nil {
		config = DefaultMongoConfig()
	}

	if err := cfg.ValidateMongoDBConfig(config.URI, config.Database, config.Collection); err != nil {
		return nil, fmt.Errorf("invalid MongoDB configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping MongoDB to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(config.Database)
	collection := db.Collection(config.Collection)

	store := &MongoStore{
		client:     client,
		db:         db,
		collection: collection,
	}

	if err := store.createIndexes(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return store, nil
}

// createIndexes creates indexes for efficient thread history queries
func (s *MongoStore) createIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "thread_id", Value: 1},
			{Key: "created_at", Value: 1},
		},
	}

	_, err := s.collection.Indexes().CreateOne(ctx, indexModel)
	return err
}

// Append stores an entry in MongoDB
func (s *MongoStore) Append(ctx context.Context, entry *memory.Entry) error {
	if entry == nil {
		return fmt.Errorf("entry cannot be nil")
	}
	if entry.ThreadID == "" {
		return fmt.Errorf("entry thread ID cannot be empty")
	}

	if entry.ID == "" {
		entry.ID = memory.GenerateEntryID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if entry.Metadata == nil {
		entry.Metadata = make(map[string]interface{})
	}

	doc := mongoEntry{
		ID:        entry.ID,
		ThreadID:  entry.ThreadID,
		Kind:      entry.Kind,
		Content:   entry.Content,
		Metadata:  entry.Metadata,
		CreatedAt: entry.CreatedAt,
	}

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to add entry to MongoDB: %w", err)
	}

	return nil
}

// History returns a thread's entries in insertion order, newest last
func (s *MongoStore) History(ctx context.Context, threadID string, limit int) ([]*memory.Entry, error) {
	filter := bson.M{"thread_id": threadID}

	// Take the newest entries first, then reverse so callers get
	// chronological order with the newest last.
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read thread history: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoEntry
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode entries: %w", err)
	}

	entries := make([]*memory.Entry, len(docs))
	for i, d := range docs {
		entries[len(docs)-1-i] = &memory.Entry{
			ID:        d.ID,
			ThreadID:  d.ThreadID,
			Kind:      d.Kind,
			Content:   d.Content,
			Metadata:  d.Metadata,
			CreatedAt: d.CreatedAt,
		}
	}

	return entries, nil
}

// Clear removes a thread's entries from MongoDB
func (s *MongoStore) Clear(ctx context.Context, threadID string) error {
	_, err := s.collection.DeleteMany(ctx, bson.M{"thread_id": threadID})
	if err != nil {
		return fmt.Errorf("failed to clear thread entries: %w", err)
	}
	return nil
}

// Count returns the number of entries recorded for a thread
func (s *MongoStore) Count(ctx context.Context, threadID string) (int, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{"thread_id": threadID})
	if err != nil {
		return 0, fmt.Errorf("failed to count thread entries: %w", err)
	}
	return int(count), nil
}

// Close closes the MongoDB connection
func (s *MongoStore) Close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return s.client.Disconnect(ctx)
}

// Ping checks if MongoDB connection is alive
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}
