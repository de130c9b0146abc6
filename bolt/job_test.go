package bolt_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	stitch "github.com/rishikaushal2009/Audio-Stich"
	"github.com/rishikaushal2009/Audio-Stich/bolt"
)

var Now = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Ensure jobs can be created and fetched back.
func TestJobService_CreateJob(t *testing.T) {
	db := MustOpenDB()
	defer db.MustClose()
	s := bolt.NewJobService(db.DB)

	job := &stitch.Job{Message: "hello world", Output: "out.mp3"}
	if err := s.CreateJob(context.Background(), job); err != nil {
		t.Fatal(err)
	} else if job.ID != 1 {
		t.Fatalf("unexpected id: %d", job.ID)
	} else if job.Status != stitch.JobStatusPending {
		t.Fatalf("unexpected status: %s", job.Status)
	}

	other, err := s.FindJobByID(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	} else if other == nil {
		t.Fatal("job not found")
	} else if other.Message != "hello world" || other.Output != "out.mp3" {
		t.Fatalf("unexpected job: %#v", other)
	} else if !other.CreatedAt.Equal(Now) {
		t.Fatalf("unexpected created at: %s", other.CreatedAt)
	}

	// Change notification was signaled.
	select {
	case <-s.C():
	default:
		t.Fatal("expected job notification")
	}
}

// Ensure nil jobs are rejected.
func TestJobService_CreateJob_Required(t *testing.T) {
	db := MustOpenDB()
	defer db.MustClose()
	s := bolt.NewJobService(db.DB)

	if err := s.CreateJob(context.Background(), nil); err != stitch.ErrJobRequired {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Ensure jobs dequeue in creation order and mark as processing.
func TestJobService_NextJob(t *testing.T) {
	db := MustOpenDB()
	defer db.MustClose()
	s := bolt.NewJobService(db.DB)

	if err := s.CreateJob(context.Background(), &stitch.Job{Message: "first", Output: "a.mp3"}); err != nil {
		t.Fatal(err)
	} else if err := s.CreateJob(context.Background(), &stitch.Job{Message: "second", Output: "b.mp3"}); err != nil {
		t.Fatal(err)
	}

	job, err := s.NextJob(context.Background())
	if err != nil {
		t.Fatal(err)
	} else if job.Message != "first" {
		t.Fatalf("unexpected job: %s", job.Message)
	} else if job.Status != stitch.JobStatusProcessing {
		t.Fatalf("unexpected status: %s", job.Status)
	}

	if job, err := s.NextJob(context.Background()); err != nil {
		t.Fatal(err)
	} else if job.Message != "second" {
		t.Fatalf("unexpected job: %s", job.Message)
	}

	// Queue is drained.
	if job, err := s.NextJob(context.Background()); err != nil {
		t.Fatal(err)
	} else if job != nil {
		t.Fatalf("expected empty queue, got: %#v", job)
	}
}

// Ensure completion records status and error text.
func TestJobService_CompleteJob(t *testing.T) {
	db := MustOpenDB()
	defer db.MustClose()
	s := bolt.NewJobService(db.DB)

	job := &stitch.Job{Message: "hello", Output: "out.mp3"}
	if err := s.CreateJob(context.Background(), job); err != nil {
		t.Fatal(err)
	} else if _, err := s.NextJob(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Successful completion.
	if err := s.CompleteJob(context.Background(), job.ID, nil); err != nil {
		t.Fatal(err)
	}
	if other, err := s.FindJobByID(context.Background(), job.ID); err != nil {
		t.Fatal(err)
	} else if other.Status != stitch.JobStatusCompleted {
		t.Fatalf("unexpected status: %s", other.Status)
	}

	// Failed completion.
	if err := s.CompleteJob(context.Background(), job.ID, errors.New("boom")); err != nil {
		t.Fatal(err)
	}
	if other, err := s.FindJobByID(context.Background(), job.ID); err != nil {
		t.Fatal(err)
	} else if other.Status != stitch.JobStatusFailed {
		t.Fatalf("unexpected status: %s", other.Status)
	} else if other.Error != "boom" {
		t.Fatalf("unexpected error text: %q", other.Error)
	}
}

// Ensure interrupted jobs return to the queue on reset.
func TestJobService_ResetJobQueue(t *testing.T) {
	db := MustOpenDB()
	defer db.MustClose()
	s := bolt.NewJobService(db.DB)

	if err := s.CreateJob(context.Background(), &stitch.Job{Message: "hello", Output: "out.mp3"}); err != nil {
		t.Fatal(err)
	} else if _, err := s.NextJob(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Simulate restart while processing.
	if err := s.ResetJobQueue(context.Background()); err != nil {
		t.Fatal(err)
	}

	job, err := s.NextJob(context.Background())
	if err != nil {
		t.Fatal(err)
	} else if job == nil {
		t.Fatal("expected requeued job")
	} else if job.Message != "hello" {
		t.Fatalf("unexpected job: %s", job.Message)
	}
}

// DB is a test wrapper for bolt.DB.
type DB struct {
	*bolt.DB
}

// NewDB returns a new instance of DB.
func NewDB() *DB {
	db := &DB{DB: bolt.NewDB()}
	db.Now = func() time.Time { return Now }
	return db
}

// MustOpenDB opens a DB at a temporary file path.
func MustOpenDB() *DB {
	f, err := os.CreateTemp("", "stitch-bolt-")
	if err != nil {
		panic(err)
	} else if err := f.Close(); err != nil {
		panic(err)
	}

	db := NewDB()
	db.Path = f.Name()
	if err := db.Open(); err != nil {
		panic(err)
	}
	return db
}

// Close closes the database and removes the underlying data file.
func (db *DB) Close() error {
	defer os.Remove(db.Path)
	return db.DB.Close()
}

// MustClose closes the database. Panic on error.
func (db *DB) MustClose() {
	if err := db.Close(); err != nil {
		panic(err)
	}
}
