package bolt

import (
	"context"
	"time"

	"github.com/fxamacker/cbor/v2"
	stitch "github.com/rishikaushal2009/Audio-Stich"
)

// Bucket names.
var (
	bucketJobs     = []byte("Jobs")
	bucketJobQueue = []byte("JobQueue")
)

// Ensure service implements interface.
var _ stitch.JobService = &JobService{}

// JobService represents a service for creating and processing jobs.
type JobService struct {
	db *DB

	c chan struct{}
}

// NewJobService returns a new instance of JobService.
func NewJobService(db *DB) *JobService {
	return &JobService{
		db: db,
		c:  make(chan struct{}, 1),
	}
}

// C returns a channel that sends notifications of new jobs.
func (s *JobService) C() <-chan struct{} { return s.c }

// CreateJob adds a job to the job queue.
func (s *JobService) CreateJob(ctx context.Context, job *stitch.Job) error {
	if job == nil {
		return stitch.ErrJobRequired
	}

	tx, err := s.db.Begin(ctx, true)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Create job & commit.
	if err := func() error {
		if err := createJob(ctx, tx, job); err != nil {
			return err
		} else if err := tx.Commit(); err != nil {
			return err
		}
		return nil
	}(); err != nil {
		job.ID = 0
		return err
	}

	// Signal change notification.
	select {
	case s.c <- struct{}{}:
	default:
	}

	return nil
}

// FindJobByID returns a job by id, or nil if it does not exist.
func (s *JobService) FindJobByID(ctx context.Context, id int) (*stitch.Job, error) {
	tx, err := s.db.Begin(ctx, false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	return findJobByID(ctx, tx, id)
}

// NextJob returns the next job in the job queue and marks it as started.
func (s *JobService) NextJob(ctx context.Context) (*stitch.Job, error) {
	tx, err := s.db.Begin(ctx, true)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Retrieve next job id.
	job, err := nextJob(ctx, tx)
	if err != nil {
		return nil, err
	} else if job == nil {
		return nil, nil
	}

	// Mark job as started.
	if err := setJobStatus(ctx, tx, job.ID, stitch.JobStatusProcessing, nil); err != nil {
		return nil, err
	}

	// Re-fetch job.
	job, err = findJobByID(ctx, tx, job.ID)
	if err != nil {
		return nil, err
	}

	// Commit changes.
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return job, nil
}

// CompleteJob marks a job as completed or failed.
func (s *JobService) CompleteJob(ctx context.Context, id int, e error) error {
	tx, err := s.db.Begin(ctx, true)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Determine status based on error.
	status := stitch.JobStatusCompleted
	if e != nil {
		status = stitch.JobStatusFailed
	}

	// Update status & commit.
	if err := setJobStatus(ctx, tx, id, status, e); err != nil {
		return err
	}
	return tx.Commit()
}

// ResetJobQueue moves all processing jobs back to the pending queue.
// Called on startup so jobs interrupted by a crash are retried.
func (s *JobService) ResetJobQueue(ctx context.Context) error {
	tx, err := s.db.Begin(ctx, true)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	bkt := tx.Bucket(bucketJobs)
	if bkt == nil {
		return nil
	}

	cur := bkt.Cursor()
	for k, v := cur.First(); k != nil; k, v = cur.Next() {
		var job stitch.Job
		if err := unmarshalJob(v, &job); err != nil {
			return err
		} else if job.Status != stitch.JobStatusProcessing {
			continue
		}

		job.Status = stitch.JobStatusPending
		job.UpdatedAt = tx.Now
		if err := saveJob(ctx, tx, &job); err != nil {
			return err
		} else if err := addJobToQueue(ctx, tx, job.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// createJob assigns an id to the job, saves it, and queues it.
func createJob(ctx context.Context, tx *Tx, job *stitch.Job) error {
	bkt, err := tx.CreateBucketIfNotExists(bucketJobs)
	if err != nil {
		return err
	}

	seq, _ := bkt.NextSequence()
	job.ID = int(seq)
	job.Status = stitch.JobStatusPending
	job.CreatedAt = tx.Now
	job.UpdatedAt = tx.Now

	if err := saveJob(ctx, tx, job); err != nil {
		return err
	}
	return addJobToQueue(ctx, tx, job.ID)
}

// findJobByID returns a job by id, or nil if it does not exist.
func findJobByID(ctx context.Context, tx *Tx, id int) (*stitch.Job, error) {
	bkt := tx.Bucket(bucketJobs)
	if bkt == nil {
		return nil, nil
	}

	v := bkt.Get(itob(id))
	if v == nil {
		return nil, nil
	}

	var job stitch.Job
	if err := unmarshalJob(v, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// nextJob returns the first job in the queue and removes the queue entry.
func nextJob(ctx context.Context, tx *Tx) (*stitch.Job, error) {
	bkt := tx.Bucket(bucketJobQueue)
	if bkt == nil {
		return nil, nil
	}

	cur := bkt.Cursor()
	k, v := cur.First()
	if k == nil {
		return nil, nil
	}

	if err := cur.Delete(); err != nil {
		return nil, err
	}
	return findJobByID(ctx, tx, btoi(v))
}

// setJobStatus updates the status and error of a job.
func setJobStatus(ctx context.Context, tx *Tx, id int, status string, e error) error {
	if !stitch.IsValidJobStatus(status) {
		return stitch.ErrInvalidJobStatus
	}

	job, err := findJobByID(ctx, tx, id)
	if err != nil {
		return err
	} else if job == nil {
		return stitch.ErrJobNotFound
	}

	job.Status = status
	job.Error = errorString(e)
	job.UpdatedAt = tx.Now

	return saveJob(ctx, tx, job)
}

// addJobToQueue appends a job id to the pending queue.
func addJobToQueue(ctx context.Context, tx *Tx, id int) error {
	bkt, err := tx.CreateBucketIfNotExists(bucketJobQueue)
	if err != nil {
		return err
	}
	seq, _ := bkt.NextSequence()
	return bkt.Put(itob(int(seq)), itob(id))
}

// saveJob writes a job to the jobs bucket.
func saveJob(ctx context.Context, tx *Tx, job *stitch.Job) error {
	bkt, err := tx.CreateBucketIfNotExists(bucketJobs)
	if err != nil {
		return err
	}

	buf, err := marshalJob(job)
	if err != nil {
		return err
	}
	return bkt.Put(itob(job.ID), buf)
}

// jobValue is the stored representation of a job.
type jobValue struct {
	ID           int64  `cbor:"1,keyasint"`
	Message      string `cbor:"2,keyasint"`
	Output       string `cbor:"3,keyasint"`
	NotifyNumber string `cbor:"4,keyasint,omitempty"`
	Status       string `cbor:"5,keyasint"`
	Error        string `cbor:"6,keyasint,omitempty"`
	CreatedAt    int64  `cbor:"7,keyasint"`
	UpdatedAt    int64  `cbor:"8,keyasint"`
}

func marshalJob(v *stitch.Job) ([]byte, error) {
	return cbor.Marshal(&jobValue{
		ID:           int64(v.ID),
		Message:      v.Message,
		Output:       v.Output,
		NotifyNumber: v.NotifyNumber,
		Status:       v.Status,
		Error:        v.Error,
		CreatedAt:    encodeTime(v.CreatedAt),
		UpdatedAt:    encodeTime(v.UpdatedAt),
	})
}

func unmarshalJob(data []byte, v *stitch.Job) error {
	var jv jobValue
	if err := cbor.Unmarshal(data, &jv); err != nil {
		return err
	}
	*v = stitch.Job{
		ID:           int(jv.ID),
		Message:      jv.Message,
		Output:       jv.Output,
		NotifyNumber: jv.NotifyNumber,
		Status:       jv.Status,
		Error:        jv.Error,
		CreatedAt:    decodeTime(jv.CreatedAt),
		UpdatedAt:    decodeTime(jv.UpdatedAt),
	}
	return nil
}

func encodeTime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func decodeTime(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(0, v).UTC()
}

func errorString(err error) string {
	if err != nil {
		return err.Error()
	}
	return ""
}
