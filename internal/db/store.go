package db

import (
	"context"
	"errors"

	"github.com/AfeiFun/ASR/internal/api"
)

// ErrNotFound is returned when no job exists for an ID.
var ErrNotFound = errors.New("job not found")

// JobStore persists transcription jobs and their results.
type JobStore interface {
	SaveJob(ctx context.Context, job *api.Job) error
	GetJob(ctx context.Context, id string) (*api.Job, error)
	Close() error
}
