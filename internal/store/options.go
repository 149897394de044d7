package store

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// JobQueryFilter carries the same conditions for both store backends.
type JobQueryFilter struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
	Bson    bson.D
}

func NewJobQueryFilter() *JobQueryFilter {
	return &JobQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0), Bson: bson.D{}}
}

func (f *JobQueryFilter) ByOwner(ownerID string) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("owner_id = ?", ownerID)
	})
	f.Bson = append(f.Bson, bson.E{Key: "userid", Value: ownerID})
	return f
}

func (f *JobQueryFilter) ByID(id string) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("id = ?", id)
	})
	f.Bson = append(f.Bson, bson.E{Key: "_id", Value: objectID(id)})
	return f
}

func (f *JobQueryFilter) ByStatus(status string) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", status)
	})
	f.Bson = append(f.Bson, bson.E{Key: "status", Value: status})
	return f
}

func (f *JobQueryFilter) ByWorkMode(workMode string) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("work_mode = ?", workMode)
	})
	f.Bson = append(f.Bson, bson.E{Key: "work_mode", Value: workMode})
	return f
}

// ByRejected matches jobs in (or out of) the rejected bucket. Ghosted jobs are rejected.
func (f *JobQueryFilter) ByRejected(rejected bool) *JobQueryFilter {
	if rejected {
		f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
			return tx.Where("(rejected = ? OR ghosted = ?)", true, true)
		})
		f.Bson = append(f.Bson, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "rejected", Value: true}},
			bson.D{{Key: "ghosted", Value: true}},
		}})
		return f
	}

	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("rejected = ? AND ghosted = ?", false, false)
	})
	f.Bson = append(f.Bson,
		bson.E{Key: "rejected", Value: bson.D{{Key: "$ne", Value: true}}},
		bson.E{Key: "ghosted", Value: bson.D{{Key: "$ne", Value: true}}},
	)
	return f
}

// objectID converts a hex id. Malformed ids map to the nil id which is never assigned.
func objectID(id string) primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}
