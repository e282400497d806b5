package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo is the MongoDB-backed Store.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// ConnectMongo dials uri and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Mongo{client: client, db: client.Database(database)}, nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *Mongo) Collections(ctx context.Context) ([]string, error) {
	return m.db.ListCollectionNames(ctx, bson.D{})
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique, lookup and TTL indexes the API relies on.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		DoctorsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		SessionsCollection: {
			{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
			{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "principal_id", Value: 1}}},
		},
		LogsCollection:        {{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: 1}}}},
		MedicationsCollection: {{Keys: bson.D{{Key: "user_id", Value: 1}}}},
		NutritionCollection:   {{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: 1}}}},
		FitnessCollection:     {{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}}},
		ReportsCollection:     {{Keys: bson.D{{Key: "user_id", Value: 1}}}},
		AppointmentsCollection: {
			{Keys: bson.D{{Key: "doctor_id", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "patient_id", Value: 1}}},
		},
		LedgerCollection: {{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "index", Value: 1}}}},
	}
	for name, specs := range indexes {
		if _, err := m.db.Collection(name).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func (m *Mongo) insert(ctx context.Context, collection string, doc interface{}) error {
	_, err := m.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert into %s: %w", collection, err)
	}
	return nil
}

// findOne decodes the first match into out, mapping "no documents" to ErrNotFound.
func (m *Mongo) findOne(ctx context.Context, collection string, filter interface{}, out interface{}, opts ...*options.FindOneOptions) error {
	err := m.db.Collection(collection).FindOne(ctx, filter, opts...).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find in %s: %w", collection, err)
	}
	return nil
}

// findAll decodes every match into out, which must point to a slice.
func (m *Mongo) findAll(ctx context.Context, collection string, filter interface{}, out interface{}, opts ...*options.FindOptions) error {
	cursor, err := m.db.Collection(collection).Find(ctx, filter, opts...)
	if err != nil {
		return fmt.Errorf("find in %s: %w", collection, err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}
