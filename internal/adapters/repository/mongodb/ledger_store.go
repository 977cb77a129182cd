package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/vncsmyrnk/collective-pool/internal/core/domain"
	"github.com/vncsmyrnk/collective-pool/internal/core/ports"
)

const LedgerCollection = "ledgers"

// ledgerDoc stores the ledger as its JSON text so the document read back is
// byte-for-byte what was written.
type ledgerDoc struct {
	ID        string    `bson:"_id"`
	Document  string    `bson:"document"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type ledgerStore struct {
	collection *mongo.Collection
}

func NewLedgerStore(db *mongo.Database) ports.LedgerStore {
	return &ledgerStore{
		collection: db.Collection(LedgerCollection),
	}
}

func (s *ledgerStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc ledgerDoc
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger %s: %w: %w", key, domain.ErrStorageUnavailable, err)
	}

	return []byte(doc.Document), nil
}

func (s *ledgerStore) Put(ctx context.Context, key string, blob []byte) error {
	doc := ledgerDoc{
		ID:        key,
		Document:  string(blob),
		UpdatedAt: time.Now().UTC(),
	}

	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save ledger %s: %w: %w", key, domain.ErrStorageUnavailable, err)
	}

	return nil
}

// Connect dials uri and pings the primary, backing off between attempts.
func Connect(ctx context.Context, uri, dbName string, attempts uint, delay time.Duration) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w: %w", domain.ErrStorageUnavailable, err)
	}

	err = retry.Do(
		func() error {
			return client.Ping(ctx, readpref.Primary())
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().
				Uint("attempt", n+1).
				Uint("max_attempts", attempts).
				Err(err).
				Msg("mongo not reachable, retrying")
		}),
	)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w: %w", domain.ErrStorageUnavailable, err)
	}

	return client, client.Database(dbName), nil
}
