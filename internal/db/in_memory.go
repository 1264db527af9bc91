package db

import (
	"context"
	"sync"

	"github.com/airenas/go-app/pkg/goapp"

	"github.com/AfeiFun/ASR/internal/api"
)

// MemoryJobStore keeps jobs in process memory. Used when no Redis is
// configured; jobs are lost on restart.
type MemoryJobStore struct {
	lock sync.RWMutex
	jobs map[string]*api.Job
}

func NewMemoryJobStore() *MemoryJobStore {
	goapp.Log.Info().Msg("MemoryJobStore")
	return &MemoryJobStore{jobs: map[string]*api.Job{}}
}

func (m *MemoryJobStore) SaveJob(_ context.Context, job *api.Job) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	copied := *job
	m.jobs[job.ID] = &copied
	return nil
}

func (m *MemoryJobStore) GetJob(_ context.Context, id string) (*api.Job, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *job
	return &copied, nil
}

func (m *MemoryJobStore) Close() error {
	return nil
}
