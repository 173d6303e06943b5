package pool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// itemDoc is the MongoDB document for one pool entry.
type itemDoc struct {
	Name      string    `bson:"_id"`
	Quantity  int       `bson:"quantity"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore persists the pool as one document per item.
// Saves run inside a transaction when the deployment supports sessions
// (replica sets); on a standalone server they fall back to sequential writes.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to uri and uses database.collection for the pool.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

func (m *MongoStore) Name() string { return "mongo" }

// Load reads every item document.
func (m *MongoStore) Load(ctx context.Context) (Stock, error) {
	cur, err := m.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("finding pool items: %w", err)
	}
	defer cur.Close(ctx)

	stock := Stock{}
	for cur.Next(ctx) {
		var doc itemDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding pool item: %w", err)
		}
		stock[doc.Name] = doc.Quantity
	}
	return stock, cur.Err()
}

// Save upserts every item and deletes documents for items no longer present.
func (m *MongoStore) Save(ctx context.Context, stock Stock) error {
	write := func(ctx context.Context) error {
		names := stock.Items()
		if _, err := m.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$nin": names}}); err != nil {
			return fmt.Errorf("deleting stale items: %w", err)
		}
		if len(names) == 0 {
			return nil
		}
		now := time.Now().UTC()
		models := make([]mongo.WriteModel, 0, len(names))
		for _, name := range names {
			models = append(models, mongo.NewReplaceOneModel().
				SetFilter(bson.M{"_id": name}).
				SetReplacement(itemDoc{Name: name, Quantity: stock[name], UpdatedAt: now}).
				SetUpsert(true))
		}
		if _, err := m.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
			return fmt.Errorf("writing pool items: %w", err)
		}
		return nil
	}

	sess, err := m.client.StartSession()
	if err != nil {
		return write(ctx)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, write(sc)
	})
	if err != nil && isTransactionUnsupported(err) {
		return write(ctx)
	}
	return err
}

// isTransactionUnsupported reports whether err means the server cannot run
// multi-document transactions (standalone mongod).
func isTransactionUnsupported(err error) bool {
	var se mongo.ServerError
	if errors.As(err, &se) {
		return se.HasErrorCode(20) || se.HasErrorCode(263)
	}
	return false
}

// Close disconnects the client.
func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
