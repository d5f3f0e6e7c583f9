package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/pylon/pkg/errors"
	"github.com/matzehuels/pylon/pkg/pipeline"
)

const (
	DefaultDatabase   = "pylon"
	DefaultCollection = "analyses"

	connectTimeout = 10 * time.Second
)

// MongoConfig selects the deployment and collection.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore stores records in a MongoDB collection. Options are kept in
// their JSON shape so the documents read like API payloads.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type document struct {
	ID        string            `bson:"_id"`
	CreatedAt time.Time         `bson:"created_at"`
	Name      string            `bson:"name,omitempty"`
	Options   bson.D            `bson:"options"`
	Summary   pipeline.Summary  `bson:"summary"`
	Failed    map[string]string `bson:"failed,omitempty"`
}

// NewMongoStore connects, pings the primary and ensures the created_at index.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrCodeConfiguration, "mongo URI is empty")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

func (s *MongoStore) Save(ctx context.Context, rec *Record) error {
	if err := prepare(rec); err != nil {
		return err
	}
	doc, err := toDocument(rec)
	if err != nil {
		return err
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save analysis %s: %w", rec.ID, err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var doc document
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis %s: %w", id, err)
	}
	return fromDocument(doc)
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(listLimit(limit)))
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}

	out := make([]Record, 0, len(docs))
	for _, d := range docs {
		rec, err := fromDocument(d)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

func toDocument(rec *Record) (document, error) {
	data, err := json.Marshal(rec.Options)
	if err != nil {
		return document{}, fmt.Errorf("encode options: %w", err)
	}
	var opts bson.D
	if err := bson.UnmarshalExtJSON(data, false, &opts); err != nil {
		return document{}, fmt.Errorf("convert options: %w", err)
	}
	return document{
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt,
		Name:      rec.Name,
		Options:   opts,
		Summary:   rec.Summary,
		Failed:    rec.Failed,
	}, nil
}

func fromDocument(doc document) (*Record, error) {
	data, err := bson.MarshalExtJSON(doc.Options, false, false)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "analysis %s options", doc.ID)
	}
	var opts pipeline.Options
	if err := json.Unmarshal(data, &opts); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "analysis %s options", doc.ID)
	}
	return &Record{
		ID:        doc.ID,
		CreatedAt: doc.CreatedAt,
		Name:      doc.Name,
		Options:   opts,
		Summary:   doc.Summary,
		Failed:    doc.Failed,
	}, nil
}
