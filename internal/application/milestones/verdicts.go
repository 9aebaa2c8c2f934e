package milestones

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"creativeminds-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const verdictPrefix = "verdict:"

// VerdictStore keeps the latest verification result per milestone. Verdicts
// are short-lived and never written to the database.
type VerdictStore interface {
	Put(ctx context.Context, projectID uuid.UUID, index int, v *domain.VerificationResult) error
	Get(ctx context.Context, projectID uuid.UUID, index int) (*domain.VerificationResult, error)
	Delete(ctx context.Context, projectID uuid.UUID, index int) error
}

// RedisVerdictStore stores verdicts as JSON with a TTL.
type RedisVerdictStore struct {
	Rdb *redis.Client
	TTL time.Duration
}

func verdictKey(projectID uuid.UUID, index int) string {
	return fmt.Sprintf("%s%s:%d", verdictPrefix, projectID, index)
}

func (s *RedisVerdictStore) Put(ctx context.Context, projectID uuid.UUID, index int, v *domain.VerificationResult) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return s.Rdb.Set(ctx, verdictKey(projectID, index), b, ttl).Err()
}

// Get returns nil, nil when no verdict exists (or it expired).
func (s *RedisVerdictStore) Get(ctx context.Context, projectID uuid.UUID, index int) (*domain.VerificationResult, error) {
	b, err := s.Rdb.Get(ctx, verdictKey(projectID, index)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var v domain.VerificationResult
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *RedisVerdictStore) Delete(ctx context.Context, projectID uuid.UUID, index int) error {
	return s.Rdb.Del(ctx, verdictKey(projectID, index)).Err()
}
