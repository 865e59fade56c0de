package restore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string // Redis server address (host:port)
	Password string // Redis password (optional)
	DB       int    // Redis database number
	Prefix   string // Prepended to every key
}

// RedisStore keeps manifests and segment bytes in Redis:
//   - manifests: key = "<prefix>manifest:<id>" (JSON), ids in set "<prefix>manifests"
//   - segments: key = "<prefix>segment:<key>" (raw bytes)
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewRedisStoreWithClient(client, cfg.Prefix), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Close implements Store.Close.
func (s *RedisStore) Close() error { return s.client.Close() }

func (s *RedisStore) manifestKey(id ManifestID) string {
	return s.prefix + "manifest:" + string(id)
}

func (s *RedisStore) manifestSetKey() string {
	return s.prefix + "manifests"
}

func (s *RedisStore) segmentKey(key int64) string {
	return s.prefix + "segment:" + strconv.FormatInt(key, 10)
}

// GetManifest implements Store.GetManifest.
func (s *RedisStore) GetManifest(ctx context.Context, id ManifestID) (*ManifestRecord, error) {
	val, err := s.client.Get(ctx, s.manifestKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrManifestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get manifest %s: %w", id, err)
	}
	var out ManifestRecord
	if err := json.Unmarshal(val, &out); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", id, err)
	}
	return &out, nil
}

// PutManifest implements Store.PutManifest.
func (s *RedisStore) PutManifest(ctx context.Context, rec *ManifestRecord) error {
	buf, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.manifestKey(rec.ID), buf, 0)
		pipe.SAdd(ctx, s.manifestSetKey(), string(rec.ID))
		return nil
	})
	return err
}

// DeleteManifest implements Store.DeleteManifest.
func (s *RedisStore) DeleteManifest(ctx context.Context, id ManifestID) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.manifestKey(id))
		pipe.SRem(ctx, s.manifestSetKey(), string(id))
		return nil
	})
	return err
}

// ListManifestIDs implements Store.ListManifestIDs. IDs are sorted.
func (s *RedisStore) ListManifestIDs(ctx context.Context) ([]ManifestID, error) {
	members, err := s.client.SMembers(ctx, s.manifestSetKey()).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]ManifestID, 0, len(members))
	for _, m := range members {
		ids = append(ids, ManifestID(m))
	}
	slices.Sort(ids)
	return ids, nil
}

// GetSegment implements Store.GetSegment.
func (s *RedisStore) GetSegment(ctx context.Context, key int64) ([]byte, error) {
	val, err := s.client.Get(ctx, s.segmentKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSegmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get segment %d: %w", key, err)
	}
	return val, nil
}

// PutSegment implements Store.PutSegment.
func (s *RedisStore) PutSegment(ctx context.Context, key int64, data []byte) error {
	return s.client.Set(ctx, s.segmentKey(key), data, 0).Err()
}
