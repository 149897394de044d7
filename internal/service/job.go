package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/applytrack/applytrack/internal/auth"
	"github.com/applytrack/applytrack/internal/events"
	"github.com/applytrack/applytrack/internal/service/mappers"
	"github.com/applytrack/applytrack/internal/store"
	"github.com/applytrack/applytrack/internal/store/model"
	"github.com/applytrack/applytrack/internal/validator"
	"github.com/applytrack/applytrack/pkg/metrics"
)

const defaultOperationTimeout = 10 * time.Second

// EventWriter receives job lifecycle events.
type EventWriter interface {
	Write(ctx context.Context, kind, subject string, payload any) error
}

type JobService struct {
	store     store.Store
	validator *validator.Validator
	events    EventWriter
	timeout   time.Duration
	now       func() time.Time
}

type JobServiceOption func(s *JobService)

// WithOperationTimeout bounds every store call.
func WithOperationTimeout(d time.Duration) JobServiceOption {
	return func(s *JobService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithClock(now func() time.Time) JobServiceOption {
	return func(s *JobService) {
		s.now = now
	}
}

func WithEventWriter(w EventWriter) JobServiceOption {
	return func(s *JobService) {
		s.events = w
	}
}

func NewJobService(s store.Store, opts ...JobServiceOption) *JobService {
	v := validator.NewValidator()
	v.Register(validator.NewJobValidationRules()...)

	svc := &JobService{
		store:     s,
		validator: v,
		timeout:   defaultOperationTimeout,
		now:       time.Now,
	}
	for _, o := range opts {
		o(svc)
	}
	return svc
}

type JobFilterFunc func(f *JobFilter)

type JobFilter struct {
	Status   string
	WorkMode string
	Rejected *bool
}

func NewJobFilter(filters ...JobFilterFunc) *JobFilter {
	f := &JobFilter{}
	for _, fn := range filters {
		fn(f)
	}
	return f
}

func WithStatus(status string) JobFilterFunc {
	return func(f *JobFilter) {
		f.Status = status
	}
}

func WithWorkMode(workMode string) JobFilterFunc {
	return func(f *JobFilter) {
		f.WorkMode = workMode
	}
}

func WithRejected(rejected bool) JobFilterFunc {
	return func(f *JobFilter) {
		f.Rejected = &rejected
	}
}

func (s *JobService) CreateJob(ctx context.Context, form mappers.JobCreateForm) (model.Job, error) {
	identity, err := s.identity(ctx)
	if err != nil {
		return model.Job{}, err
	}

	if err := s.validate(form); err != nil {
		metrics.IncreaseJobOperationMetric("create", "invalid")
		return model.Job{}, err
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	job, err := s.store.Job().Create(opCtx, form.ToJob(identity.Subject, s.now().UTC()))
	if err != nil {
		return model.Job{}, s.storeError("create", "", err)
	}

	metrics.IncreaseJobOperationMetric("create", "success")
	zap.S().Named("job_service").Debugw("job created", "id", job.ID, "owner", identity.Subject)
	s.publish(ctx, events.JobCreatedKind, *job)
	return *job, nil
}

func (s *JobService) ListJobs(ctx context.Context, filter *JobFilter) (model.JobList, error) {
	identity, err := s.identity(ctx)
	if err != nil {
		return nil, err
	}

	storeFilter := store.NewJobQueryFilter().ByOwner(identity.Subject)
	if filter != nil {
		if filter.Status != "" {
			storeFilter = storeFilter.ByStatus(filter.Status)
		}
		if filter.WorkMode != "" {
			storeFilter = storeFilter.ByWorkMode(filter.WorkMode)
		}
		if filter.Rejected != nil {
			storeFilter = storeFilter.ByRejected(*filter.Rejected)
		}
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	jobs, err := s.store.Job().List(opCtx, storeFilter)
	if err != nil {
		return nil, s.storeError("list", "", err)
	}
	if jobs == nil {
		jobs = model.JobList{}
	}

	metrics.IncreaseJobOperationMetric("list", "success")
	return jobs, nil
}

func (s *JobService) GetJob(ctx context.Context, id string) (*model.Job, error) {
	identity, err := s.identity(ctx)
	if err != nil {
		return nil, err
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	job, err := s.store.Job().Get(opCtx, identity.Subject, id)
	if err != nil {
		return nil, s.storeError("get", id, err)
	}

	metrics.IncreaseJobOperationMetric("get", "success")
	return job, nil
}

// UpdateJob applies the supplied fields only. A job owned by someone else is reported as not found.
func (s *JobService) UpdateJob(ctx context.Context, id string, form mappers.JobUpdateForm) (model.Job, error) {
	identity, err := s.identity(ctx)
	if err != nil {
		return model.Job{}, err
	}

	if err := s.validate(form); err != nil {
		metrics.IncreaseJobOperationMetric("update", "invalid")
		return model.Job{}, err
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opCtx, err = s.store.NewTransactionContext(opCtx)
	if err != nil {
		return model.Job{}, s.storeError("update", id, err)
	}

	job, err := s.store.Job().Update(opCtx, identity.Subject, id, form.ToPatch())
	if err != nil {
		_, _ = store.Rollback(opCtx)
		return model.Job{}, s.storeError("update", id, err)
	}

	if _, err := store.Commit(opCtx); err != nil {
		return model.Job{}, s.storeError("update", id, err)
	}

	metrics.IncreaseJobOperationMetric("update", "success")
	s.publish(ctx, events.JobUpdatedKind, *job)
	return *job, nil
}

func (s *JobService) DeleteJob(ctx context.Context, id string) (bool, error) {
	identity, err := s.identity(ctx)
	if err != nil {
		return false, err
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	deleted, err := s.store.Job().Delete(opCtx, identity.Subject, id)
	if err != nil {
		return false, s.storeError("delete", id, err)
	}
	if !deleted {
		metrics.IncreaseJobOperationMetric("delete", "not_found")
		return false, NewErrJobNotFound(id)
	}

	metrics.IncreaseJobOperationMetric("delete", "success")
	s.publish(ctx, events.JobDeletedKind, model.Job{ID: id, OwnerID: identity.Subject})
	return true, nil
}

func (s *JobService) publish(ctx context.Context, kind string, job model.Job) {
	if s.events == nil {
		return
	}

	payload := events.JobEvent{JobID: job.ID, OwnerID: job.OwnerID}
	if kind != events.JobDeletedKind {
		apiJob := mappers.JobToApi(job)
		payload.Job = &apiJob
	}
	if err := s.events.Write(ctx, kind, job.ID, payload); err != nil {
		zap.S().Named("job_service").Warnw("failed to publish job event", "kind", kind, "id", job.ID, "error", err)
	}
}

func (s *JobService) identity(ctx context.Context) (auth.Identity, error) {
	identity, found := auth.IdentityFromContext(ctx)
	if !found {
		return auth.Identity{}, NewErrUnauthorized()
	}
	return identity, nil
}

func (s *JobService) validate(form any) error {
	if err := s.validator.Struct(form); err != nil {
		if fields := validator.Fields(err); len(fields) > 0 {
			return NewErrValidation(fields...)
		}
		return err
	}
	return nil
}

func (s *JobService) storeError(op, id string, err error) error {
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		metrics.IncreaseJobOperationMetric(op, "not_found")
		return NewErrJobNotFound(id)
	case store.IsUnavailable(err):
		metrics.IncreaseJobOperationMetric(op, "unavailable")
		zap.S().Named("job_service").Warnw("job store unavailable", "operation", op, "error", err)
		return NewErrUpstreamUnavailable(err)
	default:
		metrics.IncreaseJobOperationMetric(op, "error")
		zap.S().Named("job_service").Errorw("job store failure", "operation", op, "error", err)
		return err
	}
}
