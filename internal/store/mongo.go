package store

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/lgbarn/xiangqi-manual-go/internal/config"
	"github.com/lgbarn/xiangqi-manual-go/internal/errors"
	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
)

// Filter selects documents by exact info values. Empty fields match
// anything.
type Filter struct {
	Title string
	Event string
	Red   string
	Black string
}

func (f Filter) bson() bson.M {
	q := bson.M{}
	for key, value := range map[string]string{"title": f.Title, "event": f.Event, "red": f.Red, "black": f.Black} {
		if value != "" {
			q[key] = value
		}
	}
	return q
}

// MongoRepository stores manual documents in one collection.
type MongoRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	cfg        *config.StoreConfig
	log        *zap.SugaredLogger
}

// ConnectMongo connects to cfg.MongoURI and checks the server with a ping.
func ConnectMongo(ctx context.Context, cfg *config.StoreConfig, log *zap.SugaredLogger) (*MongoRepository, error) {
	clientOpts := options.Client().ApplyURI(cfg.MongoURI)

	ctxConnect, cancel := withTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctxConnect, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}
	if err := client.Ping(ctxConnect, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging MongoDB: %w", err)
	}

	log.Infow("connected to MongoDB", "database", cfg.Database, "collection", cfg.Collection)
	return &MongoRepository{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		cfg:        cfg,
		log:        log,
	}, nil
}

// Close disconnects from the server.
func (r *MongoRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// Save stores m under a new id and returns the id.
func (r *MongoRepository) Save(ctx context.Context, m *manual.Manual, source string) (string, error) {
	doc, err := NewDocument(uuid.NewString(), m, source)
	if err != nil {
		return "", err
	}
	ctx, cancel := withTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.log.Errorw("failed to insert manual", "source", source, "error", err)
		return "", err
	}
	r.log.Debugw("manual inserted", "id", doc.ID, "source", source, "moves", doc.Moves)
	return doc.ID, nil
}

// Get returns the document with the given id.
func (r *MongoRepository) Get(ctx context.Context, id string) (*Document, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	var doc Document
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("manual %s: %w", id, errors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load returns the manual with the given id.
func (r *MongoRepository) Load(ctx context.Context, id string) (*manual.Manual, error) {
	doc, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc.Decode()
}

// Find returns the documents matching f, oldest first.
func (r *MongoRepository) Find(ctx context.Context, f Filter) ([]Document, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, f.bson(), options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Delete removes the document with the given id.
func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("manual %s: %w", id, errors.ErrNotFound)
	}
	return nil
}
