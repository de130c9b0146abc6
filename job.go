package stitch

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// Job errors.
const (
	ErrJobRequired      = Error("job required")
	ErrJobNotFound      = Error("job not found")
	ErrInvalidJobStatus = Error("invalid job status")
)

// Job statuses.
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// IsValidJobStatus returns true if v is a valid status.
func IsValidJobStatus(v string) bool {
	switch v {
	case JobStatusPending, JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		return true
	default:
		return false
	}
}

// Job represents an asynchronous stitch request.
type Job struct {
	ID           int       `json:"id"`
	Message      string    `json:"message"`
	Output       string    `json:"output"`
	NotifyNumber string    `json:"notify_number,omitempty"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// JobService manages jobs in a job queue.
type JobService interface {
	// Notification channel when a new job is ready.
	C() <-chan struct{}

	CreateJob(ctx context.Context, job *Job) error
	FindJobByID(ctx context.Context, id int) (*Job, error)
	NextJob(ctx context.Context) (*Job, error)
	CompleteJob(ctx context.Context, id int, err error) error
}

// JobScheduler receives new jobs and executes them through the
// pipeline.
type JobScheduler struct {
	once    sync.Once
	closing chan struct{}
	wg      sync.WaitGroup

	JobService JobService
	Pipeline   *Pipeline
	SMSService SMSService // optional

	LogOutput io.Writer
}

// NewJobScheduler returns a new instance of JobScheduler.
func NewJobScheduler() *JobScheduler {
	return &JobScheduler{
		closing:   make(chan struct{}),
		LogOutput: io.Discard,
	}
}

// Open initializes the job processing queue.
func (s *JobScheduler) Open() error {
	s.wg.Add(1)
	go func() { defer s.wg.Done(); s.monitor() }()
	return nil
}

// Close stops the job processing queue and waits for outstanding workers.
func (s *JobScheduler) Close() error {
	s.once.Do(func() { close(s.closing) })
	s.wg.Wait()
	return nil
}

// monitor waits for notifications from the job service and starts jobs.
func (s *JobScheduler) monitor() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Always check once initially.
	c := make(chan struct{}, 1)
	c <- struct{}{}

	for {
		// Wait for next job or for the scheduler to close.
		select {
		case <-s.closing:
			return

		case <-c:
		case <-s.JobService.C():
		}

		// Read next job.
		job, err := s.JobService.NextJob(ctx)
		if err != nil {
			fmt.Fprintf(s.LogOutput, "scheduler: next job error: err=%s\n", err)
			continue
		} else if job == nil {
			continue
		}

		// Launch job processing in a separate goroutine.
		s.wg.Add(1)
		go func(ctx context.Context, job *Job) {
			defer s.wg.Done()
			s.executeJob(ctx, job)
		}(ctx, job)
	}
}

// executeJob processes a job in a separate goroutine.
func (s *JobScheduler) executeJob(ctx context.Context, job *Job) {
	fmt.Fprintf(s.LogOutput, "scheduler: job started: id=%d output=%s\n", job.ID, job.Output)

	// Execute job.
	ex := JobExecutor{
		Pipeline:   s.Pipeline,
		SMSService: s.SMSService,
	}
	err := ex.ExecuteJob(ctx, job)

	// Mark job as completed.
	if e := s.JobService.CompleteJob(ctx, job.ID, err); e != nil {
		fmt.Fprintf(s.LogOutput, "scheduler: complete job error: id=%d err=%s\n", job.ID, e)
		return
	}

	fmt.Fprintf(s.LogOutput, "scheduler: job completed: id=%d err=%q\n", job.ID, errorString(err))
}

// JobExecutor represents a worker that executes a job.
type JobExecutor struct {
	Pipeline   *Pipeline
	SMSService SMSService
}

// ExecuteJob processes a single job.
func (e *JobExecutor) ExecuteJob(ctx context.Context, job *Job) error {
	result, err := e.Pipeline.Run(ctx, job.Message, job.Output)
	if err != nil {
		return err
	}

	// Notify requester of success, if a number was provided.
	if e.SMSService != nil && job.NotifyNumber != "" {
		msg := &SMS{
			To:   job.NotifyNumber,
			Body: fmt.Sprintf("Finished stitching. Your audio is available at %s.", result.Output),
		}
		if err := e.SMSService.SendSMS(ctx, msg); err != nil {
			return err
		}
	}

	return nil
}

func errorString(err error) string {
	if err != nil {
		return err.Error()
	}
	return ""
}
