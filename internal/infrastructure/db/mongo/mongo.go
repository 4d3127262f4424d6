package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/foodapp/storefront/internal/infrastructure/config"
)

const (
	defaultTimeout = 10 * time.Second
	appName        = "storefront"
)

// Store is the storefront's MongoDB handle: the client and the notification
// repository built on its database.
type Store struct {
	client        *mongo.Client
	Notifications *NotificationRepository
}

// Open connects, pings the primary and prepares the notification collection.
// Index creation failures are logged; the store is still usable without them.
func Open(ctx context.Context, cfg config.MongoConfig, log zerolog.Logger) (*Store, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return newStore(ctx, client, client.Database(cfg.Database), log), nil
}

func newStore(ctx context.Context, client *mongo.Client, db *mongo.Database, log zerolog.Logger) *Store {
	s := &Store{client: client, Notifications: NewNotificationRepository(db)}
	if err := s.Notifications.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Str("db", db.Name()).Msg("notification indexes not ensured")
	}
	return s
}

// Ping checks the primary is reachable. Used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
