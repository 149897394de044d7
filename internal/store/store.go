package store

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/store/model"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Job() Job
	InitialMigration(ctx context.Context) error
	Statistics(ctx context.Context) (model.JobStats, error)
	Close() error
}

type DataStore struct {
	db  *gorm.DB
	job Job
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:  db,
		job: NewJobStore(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Job() Job {
	return s.job
}

func (s *DataStore) InitialMigration(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&model.Job{})
}

func (s *DataStore) Statistics(ctx context.Context) (model.JobStats, error) {
	return s.job.Stats(ctx)
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// MongoStore keeps jobs in a MongoDB database. Writes are single-document
// operations, so it has no transaction support.
type MongoStore struct {
	client *mongo.Client
	job    *MongoJobStore
}

func NewMongoStore(client *mongo.Client, dbName string) Store {
	return &MongoStore{
		client: client,
		job:    &MongoJobStore{collection: client.Database(dbName).Collection(jobsCollection)},
	}
}

func (s *MongoStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return ctx, nil
}

func (s *MongoStore) Job() Job {
	return s.job
}

func (s *MongoStore) InitialMigration(ctx context.Context) error {
	return s.job.ensureIndexes(ctx)
}

func (s *MongoStore) Statistics(ctx context.Context) (model.JobStats, error) {
	return s.job.Stats(ctx)
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}
