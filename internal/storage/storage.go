// Package storage selects the repository backend named by STORAGE_DRIVER.
package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"profast-backend-go/internal/config"
	"profast-backend-go/internal/db"
	"profast-backend-go/internal/db/memstore"
)

// Repositories is the full set of collections the services use.
type Repositories struct {
	Users        db.UserRepository
	Parcels      db.ParcelRepository
	Payments     db.PaymentRepository
	ParcelEvents db.ParcelEventRepository
	Riders       db.RiderRepository

	close func(context.Context) error
}

// Close releases the backend. It is safe to call on the memory backend.
func (r *Repositories) Close(ctx context.Context) error {
	if r.close == nil {
		return nil
	}
	return r.close(ctx)
}

// Open connects to the configured backend. For MongoDB it also creates the
// indexes the conditional writes depend on.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Repositories, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage; data is lost on restart")
		s := memstore.New()
		return &Repositories{
			Users:        s.Users(),
			Parcels:      s.Parcels(),
			Payments:     s.Payments(),
			ParcelEvents: s.ParcelEvents(),
			Riders:       s.Riders(),
		}, nil

	case config.StorageMongo:
		client, err := db.ConnectMongo(ctx, cfg.MongoURI, logger)
		if err != nil {
			return nil, err
		}
		database := client.Database(cfg.MongoDatabase)

		indexCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := db.EnsureIndexes(indexCtx, database); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		logger.Info("MongoDB indexes ensured", zap.String("database", cfg.MongoDatabase))

		return &Repositories{
			Users:        db.NewMongoUserRepository(database),
			Parcels:      db.NewMongoParcelRepository(database),
			Payments:     db.NewMongoPaymentRepository(database),
			ParcelEvents: db.NewMongoParcelEventRepository(database),
			Riders:       db.NewMongoRiderRepository(database),
			close:        client.Disconnect,
		}, nil
	}
	return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
}
