// Package store persists analysis records: the options a run was started
// with and the summary it produced.
//
// Two implementations are provided. [MemoryStore] keeps records in process
// and backs tests and single-user servers. [MongoStore] writes to a MongoDB
// collection so several API replicas can share history.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/pylon/pkg/errors"
	"github.com/matzehuels/pylon/pkg/pipeline"
)

// DefaultListLimit caps List when the caller passes limit <= 0.
const DefaultListLimit = 50

// Record is one stored analysis.
type Record struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Name      string           `json:"name,omitempty"`
	Options   pipeline.Options `json:"options"`
	Summary   pipeline.Summary `json:"summary"`
	// Failed lists the load cases whose solve failed, with their messages.
	Failed map[string]string `json:"failed,omitempty"`
}

// NewRecord builds a record for a finished run. res may be partial.
func NewRecord(opts pipeline.Options, res *pipeline.Result) *Record {
	rec := &Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Name:      opts.Name,
		Options:   opts,
	}
	if res == nil {
		return rec
	}
	rec.Summary = res.Summary()
	for _, c := range res.Cases {
		if c.Error != "" {
			if rec.Failed == nil {
				rec.Failed = make(map[string]string)
			}
			rec.Failed[c.Name] = c.Error
		}
	}
	return rec
}

// Store saves and retrieves records.
type Store interface {
	// Save stores rec, assigning an ID and creation time when they are zero.
	Save(ctx context.Context, rec *Record) error
	// Get returns the record with the given ID or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*Record, error)
	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

func prepare(rec *Record) error {
	if rec == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil record")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	} else if _, err := uuid.Parse(rec.ID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "record id %q", rec.ID)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "analysis %s not found", id)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
