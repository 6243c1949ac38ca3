package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aryanv175/finance-dashboard-saksham/internal/domain"
)

// RedisStore is the shared-deployment Store backend: snapshots live in Redis
// under a configurable TTL, so retention is time-based instead of
// capacity-based. A per-file set tracks which analyses each workbook produced
// so DeleteByFile can evict them together.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed analysis store from a connection URL.
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

func analysisKey(id string) string {
	return "analysis:" + id
}

func fileKey(fileID string) string {
	return "file_analyses:" + fileID
}

// Put publishes a completed analysis.
func (s *RedisStore) Put(ctx context.Context, a *domain.Analysis) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}

	// SetNX keeps the write-once contract under concurrent inserts.
	ok, err := s.client.SetNX(ctx, analysisKey(a.AnalysisID), payload, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to store analysis: %w", err)
	}
	if !ok {
		return fmt.Errorf("analysis %s already stored", a.AnalysisID)
	}

	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, fileKey(a.FileID), a.AnalysisID)
	pipe.Expire(ctx, fileKey(a.FileID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to index analysis by file: %w", err)
	}
	return nil
}

// Get retrieves an analysis by id.
func (s *RedisStore) Get(ctx context.Context, analysisID string) (*domain.Analysis, error) {
	payload, err := s.client.Get(ctx, analysisKey(analysisID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.NewNotFoundError("analysis", analysisID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis: %w", err)
	}

	var a domain.Analysis
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	return &a, nil
}

// DeleteByFile evicts every analysis derived from the given file.
func (s *RedisStore) DeleteByFile(ctx context.Context, fileID string) (int, error) {
	ids, err := s.client.SMembers(ctx, fileKey(fileID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list analyses for file: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, analysisKey(id))
	}
	keys = append(keys, fileKey(fileID))

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("failed to delete analyses: %w", err)
	}
	return len(ids), nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
