package mock

import (
	"context"

	stitch "github.com/rishikaushal2009/Audio-Stich"
)

var _ stitch.JobService = &JobService{}

// JobService is a mock of stitch.JobService.
type JobService struct {
	CFn           func() <-chan struct{}
	CreateJobFn   func(ctx context.Context, job *stitch.Job) error
	FindJobByIDFn func(ctx context.Context, id int) (*stitch.Job, error)
	NextJobFn     func(ctx context.Context) (*stitch.Job, error)
	CompleteJobFn func(ctx context.Context, id int, err error) error
}

func (s *JobService) C() <-chan struct{} {
	return s.CFn()
}

func (s *JobService) CreateJob(ctx context.Context, job *stitch.Job) error {
	return s.CreateJobFn(ctx, job)
}

func (s *JobService) FindJobByID(ctx context.Context, id int) (*stitch.Job, error) {
	return s.FindJobByIDFn(ctx, id)
}

func (s *JobService) NextJob(ctx context.Context) (*stitch.Job, error) {
	return s.NextJobFn(ctx)
}

func (s *JobService) CompleteJob(ctx context.Context, id int, err error) error {
	return s.CompleteJobFn(ctx, id, err)
}
