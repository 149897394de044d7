package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/applytrack/applytrack/internal/store/model"
)

const jobsCollection = "jobs"

type mongoJob struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	model.Job `bson:",inline"`
}

func (m mongoJob) toModel() model.Job {
	job := m.Job
	job.ID = m.ID.Hex()
	return job
}

type MongoJobStore struct {
	collection *mongo.Collection
}

// Make sure we conform to Job interface
var _ Job = (*MongoJobStore)(nil)

func NewMongoJobStore(db *mongo.Database) Job {
	return &MongoJobStore{collection: db.Collection(jobsCollection)}
}

func (s *MongoJobStore) List(ctx context.Context, filter *JobQueryFilter) (model.JobList, error) {
	query := bson.D{}
	if filter != nil {
		query = filter.Bson
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	var docs []mongoJob
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	jobs := make(model.JobList, 0, len(docs))
	for _, d := range docs {
		jobs = append(jobs, d.toModel())
	}
	return jobs, nil
}

func (s *MongoJobStore) Get(ctx context.Context, ownerID, id string) (*model.Job, error) {
	var doc mongoJob
	if err := s.collection.FindOne(ctx, ownedBy(ownerID, id)).Decode(&doc); err != nil {
		return nil, mapMongoError(err)
	}
	job := doc.toModel()
	return &job, nil
}

func (s *MongoJobStore) Create(ctx context.Context, job model.Job) (*model.Job, error) {
	result, err := s.collection.InsertOne(ctx, mongoJob{Job: job})
	if err != nil {
		return nil, mapMongoError(err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	job.ID = oid.Hex()
	return &job, nil
}

// Update is a single find-and-update filtered by id and owner, returning the document after the update.
func (s *MongoJobStore) Update(ctx context.Context, ownerID, id string, patch JobPatch) (*model.Job, error) {
	if patch.IsEmpty() {
		return s.Get(ctx, ownerID, id)
	}

	var doc mongoJob
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.collection.FindOneAndUpdate(ctx, ownedBy(ownerID, id), patch.mongoUpdate(), opts).Decode(&doc); err != nil {
		return nil, mapMongoError(err)
	}
	job := doc.toModel()
	return &job, nil
}

func (s *MongoJobStore) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	result, err := s.collection.DeleteOne(ctx, ownedBy(ownerID, id))
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

func (s *MongoJobStore) Stats(ctx context.Context) (model.JobStats, error) {
	stats := model.JobStats{ByStatus: make(map[string]int64)}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return stats, err
	}

	var groups []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return stats, err
	}
	for _, g := range groups {
		stats.ByStatus[g.Status] = g.Count
		stats.Total += g.Count
	}

	owners, err := s.collection.Distinct(ctx, "userid", bson.D{})
	if err != nil {
		return stats, err
	}
	stats.Owners = int64(len(owners))

	if stats.Rejected, err = s.collection.CountDocuments(ctx, NewJobQueryFilter().ByRejected(true).Bson); err != nil {
		return stats, err
	}
	if stats.Ghosted, err = s.collection.CountDocuments(ctx, bson.D{{Key: "ghosted", Value: true}}); err != nil {
		return stats, err
	}

	return stats, nil
}

func (s *MongoJobStore) ensureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userid", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	return err
}

func ownedBy(ownerID, id string) bson.D {
	return bson.D{{Key: "_id", Value: objectID(id)}, {Key: "userid", Value: ownerID}}
}

func mapMongoError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrRecordNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicateKey
	default:
		return err
	}
}
