package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/store/model"
)

type Job interface {
	List(ctx context.Context, filter *JobQueryFilter) (model.JobList, error)
	Get(ctx context.Context, ownerID, id string) (*model.Job, error)
	Create(ctx context.Context, job model.Job) (*model.Job, error)
	Update(ctx context.Context, ownerID, id string, patch JobPatch) (*model.Job, error)
	Delete(ctx context.Context, ownerID, id string) (bool, error)
	Stats(ctx context.Context) (model.JobStats, error)
}

type JobStore struct {
	db *gorm.DB
}

// Make sure we conform to Job interface
var _ Job = (*JobStore)(nil)

func NewJobStore(db *gorm.DB) Job {
	return &JobStore{db: db}
}

func (s *JobStore) List(ctx context.Context, filter *JobQueryFilter) (model.JobList, error) {
	var jobs model.JobList
	tx := s.getDB(ctx).Model(&jobs).Order("created_at")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if result := tx.Find(&jobs); result.Error != nil {
		return nil, result.Error
	}
	return jobs, nil
}

func (s *JobStore) Get(ctx context.Context, ownerID, id string) (*model.Job, error) {
	job := model.Job{}
	result := s.getDB(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&job)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &job, nil
}

func (s *JobStore) Create(ctx context.Context, job model.Job) (*model.Job, error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if result := s.getDB(ctx).Create(&job); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &job, nil
}

// Update applies the patch to the job matching both id and owner, then reads it back.
func (s *JobStore) Update(ctx context.Context, ownerID, id string, patch JobPatch) (*model.Job, error) {
	if patch.IsEmpty() {
		return s.Get(ctx, ownerID, id)
	}

	result := s.getDB(ctx).Model(&model.Job{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(patch.columns())
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}

	return s.Get(ctx, ownerID, id)
}

func (s *JobStore) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	result := s.getDB(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.Job{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *JobStore) Stats(ctx context.Context) (model.JobStats, error) {
	stats := model.JobStats{ByStatus: make(map[string]int64)}
	db := s.getDB(ctx).Model(&model.Job{})

	var rows []struct {
		Status string
		Count  int64
	}
	if err := db.Session(&gorm.Session{}).Select("status, count(*) as count").Group("status").Scan(&rows).Error; err != nil {
		return stats, err
	}
	for _, r := range rows {
		stats.ByStatus[r.Status] = r.Count
		stats.Total += r.Count
	}

	if err := db.Session(&gorm.Session{}).Distinct("owner_id").Count(&stats.Owners).Error; err != nil {
		return stats, err
	}
	if err := db.Session(&gorm.Session{}).Where("rejected = ? OR ghosted = ?", true, true).Count(&stats.Rejected).Error; err != nil {
		return stats, err
	}
	if err := db.Session(&gorm.Session{}).Where("ghosted = ?", true).Count(&stats.Ghosted).Error; err != nil {
		return stats, err
	}

	return stats, nil
}

func (s *JobStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db.WithContext(ctx)
}
