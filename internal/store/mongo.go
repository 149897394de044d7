package store

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	"go.uber.org/zap"

	"github.com/applytrack/applytrack/internal/config"
)

const defaultMongoDatabase = "applytrack"

// InitMongo connects to MongoDB with bounded server selection, connect and socket
// timeouts and returns the client with the database name to use.
func InitMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, string, error) {
	if cfg.Database.URI == "" {
		return nil, "", errors.New("DB_URI is required for the mongodb store")
	}

	cs, err := connstring.ParseAndValidate(cfg.Database.URI)
	if err != nil {
		return nil, "", errors.Wrap(err, "invalid mongodb uri")
	}

	opts := options.Client().
		ApplyURI(cfg.Database.URI).
		SetServerSelectionTimeout(cfg.Database.ServerSelectionTimeout).
		SetConnectTimeout(cfg.Database.ConnectTimeout).
		SetSocketTimeout(cfg.Database.SocketTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to connect to mongodb")
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Database.ServerSelectionTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, "", errors.Wrap(err, "failed to reach mongodb")
	}

	dbName := mongoDatabaseName(cfg.Database.Name, cs.Database)
	zap.S().Named("mongo").Infof("connected to mongodb database %q", dbName)

	return client, dbName, nil
}

func mongoDatabaseName(configured, fromURI string) string {
	switch {
	case configured != "":
		return configured
	case fromURI != "":
		return fromURI
	default:
		return defaultMongoDatabase
	}
}

// NewStoreFromConfig opens the store selected by DB_TYPE.
func NewStoreFromConfig(ctx context.Context, cfg *config.Config) (Store, error) {
	if cfg.Database.Type == "mongodb" {
		client, dbName, err := InitMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewMongoStore(client, dbName), nil
	}

	db, err := InitDB(cfg)
	if err != nil {
		return nil, err
	}
	return NewStore(db), nil
}
