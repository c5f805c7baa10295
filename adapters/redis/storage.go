package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"forumkit/core"
	"forumkit/engine"
)

// Config holds Redis connection configuration
type Config struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Store implements engine.UserStore on Redis.
// Data structure:
// - stats:{user_id}        -> JSON blob of the UserStats snapshot
// - stats:users            -> set of known user ids
// - stats:by_score         -> ZSET member=user_id score=total_score
//
// The ZSET is rewritten on every save, so TopNByScore is a single
// ZREVRANGE instead of a scan.
type Store struct {
	client *redis.Client
}

// New creates a Redis-backed store with the provided configuration.
func New(config Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{client: client}, nil
}

// NewWithClient creates a Store using an existing Redis client (useful for testing)
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

func statsKey(id core.UserID) string { return fmt.Sprintf("stats:%s", id) }

const usersKey = "stats:users"
const scoreKey = "stats:by_score"

func (s *Store) Get(ctx context.Context, id core.UserID) (core.UserStats, error) {
	b, err := s.client.Get(ctx, statsKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return core.UserStats{}, engine.ErrNotFound
	}
	if err != nil {
		return core.UserStats{}, fmt.Errorf("failed to load stats: %w", err)
	}
	var stats core.UserStats
	if err := json.Unmarshal(b, &stats); err != nil {
		return core.UserStats{}, fmt.Errorf("failed to decode stats: %w", err)
	}
	return stats, nil
}

func (s *Store) Save(ctx context.Context, stats core.UserStats) error {
	b, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, statsKey(stats.UserID), b, 0)
	pipe.SAdd(ctx, usersKey, string(stats.UserID))
	pipe.ZAdd(ctx, scoreKey, redis.Z{Score: float64(stats.TotalScore), Member: string(stats.UserID)})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}
	return nil
}

func (s *Store) ListAll(ctx context.Context) ([]core.UserStats, error) {
	ids, err := s.client.SMembers(ctx, usersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	out := make([]core.UserStats, 0, len(ids))
	for _, id := range ids {
		stats, err := s.Get(ctx, core.UserID(id))
		if errors.Is(err, engine.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, stats)
	}
	return out, nil
}

func (s *Store) TopNByScore(ctx context.Context, n int) ([]core.UserStats, error) {
	if n <= 0 {
		return nil, nil
	}
	ids, err := s.client.ZRevRange(ctx, scoreKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to rank users: %w", err)
	}
	out := make([]core.UserStats, 0, len(ids))
	for _, id := range ids {
		stats, err := s.Get(ctx, core.UserID(id))
		if errors.Is(err, engine.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, stats)
	}
	return out, nil
}

var _ engine.UserStore = (*Store)(nil)
