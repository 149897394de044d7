package jobstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"go.uber.org/zap"

	api "github.com/applytrack/applytrack/api/v1alpha1"
	"github.com/applytrack/applytrack/internal/validator"
	"github.com/applytrack/applytrack/pkg/location"
)

const TempIDPrefix = "tmp-"

var (
	ErrClosed      = errors.New("job store is closed")
	ErrJobNotFound = errors.New("job not found in local store")
)

// Remote is the server side of the store.
type Remote interface {
	ListJobs(ctx context.Context) ([]api.Job, error)
	CreateJob(ctx context.Context, create api.JobCreate) (api.Job, error)
	UpdateJob(ctx context.Context, id string, update api.JobUpdate) (api.Job, error)
	DeleteJob(ctx context.Context, id string) error
}

type Op string

const (
	OpLoad   Op = "load"
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Warning is emitted when the server rejected a change already applied locally.
type Warning struct {
	Op    Op
	JobID string
	Err   error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s %s: %v", w.Op, w.JobID, w.Err)
}

func (w Warning) Unwrap() error {
	return w.Err
}

type WarningHandler func(Warning)

type Option func(*Store)

func WithWarningHandler(fn WarningHandler) Option {
	return func(s *Store) {
		s.onWarning = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store keeps the jobs of one user session in memory and mirrors every
// change to the server. Local changes are never rolled back.
type Store struct {
	mu          sync.Mutex
	remote      Remote
	jobs        []api.Job
	subscribers map[int]func([]api.Job)
	nextSubID   int
	closed      bool
	onWarning   WarningHandler
	now         func() time.Time
}

func New(remote Remote, opts ...Option) *Store {
	s := &Store{
		remote:      remote,
		jobs:        []api.Job{},
		subscribers: map[int]func([]api.Job){},
		now:         time.Now,
		onWarning: func(w Warning) {
			zap.S().Named("jobstore").Warnw("server rejected local change", "op", w.Op, "job_id", w.JobID, "error", w.Err)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the local collection with the server list.
func (s *Store) Load(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	jobs, err := s.remote.ListJobs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load jobs: %w", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.jobs = append([]api.Job{}, jobs...)
	s.mu.Unlock()

	s.notify()
	return nil
}

// Add inserts an optimistic record and replaces it with the server record once created.
// The returned job carries the server id on success and the temporary id otherwise.
func (s *Store) Add(ctx context.Context, create api.JobCreate) (api.Job, error) {
	optimistic, err := s.optimisticJob(create)
	if err != nil {
		return api.Job{}, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return api.Job{}, ErrClosed
	}
	s.jobs = append([]api.Job{optimistic}, s.jobs...)
	s.mu.Unlock()
	s.notify()

	created, err := s.remote.CreateJob(ctx, create)
	if err != nil {
		return optimistic, s.warn(OpAdd, optimistic.Id, err)
	}

	s.mu.Lock()
	if idx := s.indexOf(optimistic.Id); idx >= 0 {
		s.jobs[idx] = created
	}
	s.mu.Unlock()
	s.notify()

	return created, nil
}

// Update applies the patch locally and then on the server.
func (s *Store) Update(ctx context.Context, id string, update api.JobUpdate) (api.Job, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return api.Job{}, ErrClosed
	}
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return api.Job{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	local := applyUpdate(s.jobs[idx], update)
	s.jobs[idx] = local
	s.mu.Unlock()
	s.notify()

	if strings.HasPrefix(id, TempIDPrefix) {
		return local, s.warn(OpUpdate, id, errors.New("job not yet created on the server"))
	}

	updated, err := s.remote.UpdateJob(ctx, id, update)
	if err != nil {
		return local, s.warn(OpUpdate, id, err)
	}

	s.mu.Lock()
	if idx := s.indexOf(id); idx >= 0 {
		s.jobs[idx] = updated
	}
	s.mu.Unlock()
	s.notify()

	return updated, nil
}

// Delete removes the job locally and then on the server.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	s.jobs = append(s.jobs[:idx], s.jobs[idx+1:]...)
	s.mu.Unlock()
	s.notify()

	if strings.HasPrefix(id, TempIDPrefix) {
		return nil
	}

	if err := s.remote.DeleteJob(ctx, id); err != nil {
		return s.warn(OpDelete, id, err)
	}
	return nil
}

// Jobs returns a copy of the local collection.
func (s *Store) Jobs() []api.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.Job{}, s.jobs...)
}

// Subscribe registers fn to receive a snapshot after each change.
func (s *Store) Subscribe(fn func([]api.Job)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// Close drops the collection and every subscriber.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.jobs = []api.Job{}
	s.subscribers = map[int]func([]api.Job){}
}

func (s *Store) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// indexOf must be called with the lock held.
func (s *Store) indexOf(id string) int {
	for i := range s.jobs {
		if s.jobs[i].Id == id {
			return i
		}
	}
	return -1
}

func (s *Store) notify() {
	s.mu.Lock()
	snapshot := append([]api.Job{}, s.jobs...)
	subscribers := make([]func([]api.Job), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
}

func (s *Store) warn(op Op, id string, err error) error {
	w := Warning{Op: op, JobID: id, Err: err}
	if s.onWarning != nil {
		s.onWarning(w)
	}
	return w
}

func (s *Store) optimisticJob(create api.JobCreate) (api.Job, error) {
	applied, err := validator.ParseAppliedDate(create.AppliedDate)
	if err != nil {
		return api.Job{}, fmt.Errorf("invalid applied date %q: %w", create.AppliedDate, err)
	}

	job := api.Job{
		Id:          TempIDPrefix + uuid.NewString(),
		Title:       strings.TrimSpace(create.Title),
		Employer:    strings.TrimSpace(create.Employer),
		AppliedDate: openapi_types.Date{Time: applied},
		Status:      create.Status,
		WorkMode:    create.WorkMode,
		Location:    canonical(create.Location),
		Notes:       create.Notes,
		CreatedAt:   s.now().UTC(),
	}
	return job, nil
}

func applyUpdate(job api.Job, update api.JobUpdate) api.Job {
	if update.Title != nil {
		job.Title = strings.TrimSpace(*update.Title)
	}
	if update.Employer != nil {
		job.Employer = strings.TrimSpace(*update.Employer)
	}
	if update.AppliedDate != nil {
		if applied, err := validator.ParseAppliedDate(*update.AppliedDate); err == nil {
			job.AppliedDate = openapi_types.Date{Time: applied}
		}
	}
	if update.Status != nil {
		job.Status = *update.Status
	}
	if update.WorkMode != nil {
		job.WorkMode = *update.WorkMode
	}
	if update.Location != nil {
		job.Location = canonical(update.Location)
	}
	if update.Notes != nil {
		notes := *update.Notes
		job.Notes = &notes
	}
	if update.Rejected != nil {
		job.Rejected = *update.Rejected
	}
	if update.Ghosted != nil {
		job.Ghosted = *update.Ghosted
	}
	return job
}

func canonical(loc *string) *string {
	if loc == nil {
		return nil
	}
	normalized := location.Normalize(*loc)
	if normalized == "" {
		return nil
	}
	return &normalized
}
