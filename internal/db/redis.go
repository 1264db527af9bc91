package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/redis/go-redis/v9"

	"github.com/AfeiFun/ASR/internal/api"
	"github.com/AfeiFun/ASR/internal/secure"
)

// RedisJobStore keeps jobs in Redis with a TTL. Payloads hold user speech
// content, so they are sealed at rest.
type RedisJobStore struct {
	client  *redis.Client
	ttl     time.Duration
	crypter *secure.Crypter
}

// NewRedisJobStore creates a job store with connection pooling.
func NewRedisJobStore(connStr string, encryptionKey string) (*RedisJobStore, error) {
	opt, err := redis.ParseURL(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	goapp.Log.Info().Str("redis", opt.Addr).Int("db", opt.DB).Send()
	rdb := redis.NewClient(opt)

	crypter, err := secure.NewCrypter(encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("create crypter: %w", err)
	}

	return &RedisJobStore{
		client:  rdb,
		ttl:     time.Hour * 6,
		crypter: crypter,
	}, nil
}

func (r *RedisJobStore) keyJob(id string) string {
	return fmt.Sprintf("job:%s", id)
}

// SaveJob stores the job as encrypted JSON.
func (r *RedisJobStore) SaveJob(ctx context.Context, job *api.Job) error {
	goapp.Log.Trace().Str("id", job.ID).Str("status", job.Status).Msg("Save job")
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	encrypted, err := r.crypter.Encrypt(data)
	if err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}
	return r.client.Set(ctx, r.keyJob(job.ID), encrypted, r.ttl).Err()
}

// GetJob retrieves and decrypts a job.
func (r *RedisJobStore) GetJob(ctx context.Context, id string) (*api.Job, error) {
	goapp.Log.Trace().Str("id", id).Msg("Get job")
	b, err := r.client.Get(ctx, r.keyJob(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}
	decrypted, err := r.crypter.Decrypt(b)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	var job api.Job
	if err := json.Unmarshal(decrypted, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *RedisJobStore) Close() error {
	return r.client.Close()
}
